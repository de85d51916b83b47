package category

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"
)

// Subject is the normalized view of a product that conditions are evaluated against
type Subject struct {
	name       string
	attributes map[string]string
}

// NewSubject folds the name and attribute values once per product
func NewSubject(name string, attributes domain.Attributes) Subject {
	s := Subject{
		name:       normalize.Fold(name),
		attributes: make(map[string]string, len(attributes)),
	}
	for _, attr := range attributes {
		s.attributes[normalize.Key(attr.Key)] = normalize.Fold(attr.Value)
	}
	return s
}

// Condition is a predicate over a product subject
type Condition interface {
	Matches(s Subject) bool
	String() string
}

// attributeCondition requires every key to carry one of its accepted values
type attributeCondition struct {
	keys     []string
	accepted map[string]map[string]struct{}
}

func (c *attributeCondition) Matches(s Subject) bool {
	for _, key := range c.keys {
		value, ok := s.attributes[key]
		if !ok {
			return false
		}
		if _, ok := c.accepted[key][value]; !ok {
			return false
		}
	}
	return true
}

func (c *attributeCondition) String() string {
	parts := make([]string, 0, len(c.keys))
	for _, key := range c.keys {
		values := make([]string, 0, len(c.accepted[key]))
		for v := range c.accepted[key] {
			values = append(values, v)
		}
		sort.Strings(values)
		parts = append(parts, fmt.Sprintf("%s in [%s]", key, strings.Join(values, ", ")))
	}
	return strings.Join(parts, " and ")
}

type nameContainsCondition struct {
	keywords []string
}

func (c *nameContainsCondition) Matches(s Subject) bool {
	for _, kw := range c.keywords {
		if strings.Contains(s.name, kw) {
			return true
		}
	}
	return false
}

func (c *nameContainsCondition) String() string {
	return fmt.Sprintf("name contains any of [%s]", strings.Join(c.keywords, ", "))
}

type namePatternCondition struct {
	pattern *regexp.Regexp
}

func (c *namePatternCondition) Matches(s Subject) bool {
	return c.pattern.MatchString(s.name)
}

func (c *namePatternCondition) String() string {
	return fmt.Sprintf("name matches %s", c.pattern)
}

// buildCondition validates a declared condition. vocabulary lists the recognized attribute keys,
// an empty vocabulary accepts any key.
func buildCondition(rule ConditionRule, vocabulary map[string]struct{}) (Condition, error) {
	kinds := 0
	if len(rule.Attributes) > 0 {
		kinds++
	}
	if len(rule.NameContains) > 0 {
		kinds++
	}
	if rule.NamePattern != "" {
		kinds++
	}
	switch kinds {
	case 0:
		return nil, fmt.Errorf("%w: empty condition", domain.ErrConfiguration)
	case 1:
	default:
		return nil, fmt.Errorf("%w: condition mixes attributes, name_contains and name_pattern", domain.ErrConfiguration)
	}

	switch {
	case len(rule.Attributes) > 0:
		cond := &attributeCondition{accepted: make(map[string]map[string]struct{}, len(rule.Attributes))}
		rawKeys := make([]string, 0, len(rule.Attributes))
		for rawKey := range rule.Attributes {
			rawKeys = append(rawKeys, rawKey)
		}
		sort.Strings(rawKeys)

		for _, rawKey := range rawKeys {
			values := rule.Attributes[rawKey]
			key := normalize.Key(rawKey)
			if len(vocabulary) > 0 {
				if _, ok := vocabulary[key]; !ok {
					return nil, fmt.Errorf("%w: unrecognized attribute key %q", domain.ErrConfiguration, rawKey)
				}
			}
			accepted := make(map[string]struct{}, len(values))
			for _, v := range values {
				if folded := normalize.Fold(v); folded != "" {
					accepted[folded] = struct{}{}
				}
			}
			if len(accepted) == 0 {
				return nil, fmt.Errorf("%w: attribute %q has no accepted values", domain.ErrConfiguration, rawKey)
			}
			cond.keys = append(cond.keys, key)
			cond.accepted[key] = accepted
		}
		sort.Strings(cond.keys)
		return cond, nil

	case len(rule.NameContains) > 0:
		cond := &nameContainsCondition{}
		for _, kw := range rule.NameContains {
			if folded := normalize.Fold(kw); folded != "" {
				cond.keywords = append(cond.keywords, folded)
			}
		}
		if len(cond.keywords) == 0 {
			return nil, fmt.Errorf("%w: name_contains has no keywords", domain.ErrConfiguration)
		}
		return cond, nil

	default:
		pattern, err := regexp.Compile(rule.NamePattern)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid name_pattern %q: %v", domain.ErrConfiguration, rule.NamePattern, err)
		}
		return &namePatternCondition{pattern: pattern}, nil
	}
}
