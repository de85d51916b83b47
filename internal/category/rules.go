package category

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// RuleSet is the declarative form of the taxonomy
type RuleSet struct {
	Categories []NodeRule `yaml:"categories"`
}

// NodeRule declares one taxonomy node and its subtree
type NodeRule struct {
	Name       string          `yaml:"name"`
	Priority   int             `yaml:"priority"`
	Conditions []ConditionRule `yaml:"conditions"`
	Children   []NodeRule      `yaml:"children"`
}

// ConditionRule declares exactly one kind of condition
type ConditionRule struct {
	Attributes   map[string][]string `yaml:"attributes,omitempty"`
	NameContains []string            `yaml:"name_contains,omitempty"`
	NamePattern  string              `yaml:"name_pattern,omitempty"`
}

// ParseRules decodes a YAML rule document
func ParseRules(data []byte) (*RuleSet, error) {
	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse category rules: %w", err)
	}
	return &rules, nil
}

// LoadRules reads rules from path, or the embedded default taxonomy when path is empty
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return ParseRules(defaultRules)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category rules %s: %w", path, err)
	}

	return ParseRules(data)
}
