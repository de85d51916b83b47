package category

import (
	"fmt"
	"sort"
	"strings"

	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"

	"go.uber.org/multierr"
)

const pathKeySeparator = "\x1f"

// Node is one category of the taxonomy
type Node struct {
	Name       string
	Priority   int
	Depth      int      // distance from the top-level branch node
	Path       []string // names from the branch root down to this node
	Order      int      // position in depth-first declaration order
	Parent     *Node
	Children   []*Node
	Conditions []Condition
}

// Branch returns the top-level category this node belongs to
func (n *Node) Branch() string {
	return n.Path[0]
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Matches reports whether any of the node's own conditions hold
func (n *Node) Matches(s Subject) bool {
	for _, cond := range n.Conditions {
		if cond.Matches(s) {
			return true
		}
	}
	return false
}

// FullPath joins the path with sep
func (n *Node) FullPath(sep string) string {
	return strings.Join(n.Path, sep)
}

// Tree is the immutable taxonomy. It is safe for concurrent reads.
type Tree struct {
	roots  []*Node
	nodes  []*Node
	byPath map[string]*Node
	byLeaf map[string][]*Node
}

// NewTree builds the taxonomy from rules. Every malformed rule is reported, not only the first one.
// attributeKeys is the recognized attribute vocabulary; empty accepts any key.
func NewTree(rules *RuleSet, attributeKeys []string) (*Tree, error) {
	vocabulary := make(map[string]struct{}, len(attributeKeys))
	for _, key := range attributeKeys {
		vocabulary[normalize.Key(key)] = struct{}{}
	}

	t := &Tree{
		byPath: make(map[string]*Node),
		byLeaf: make(map[string][]*Node),
	}

	var errs error
	for _, rule := range rules.Categories {
		root, err := t.buildNode(rule, nil, vocabulary)
		errs = multierr.Append(errs, err)
		if root != nil {
			t.roots = append(t.roots, root)
		}
	}

	if errs != nil {
		return nil, fmt.Errorf("failed to build category tree: %w", errs)
	}

	return t, nil
}

func (t *Tree) buildNode(rule NodeRule, parent *Node, vocabulary map[string]struct{}) (*Node, error) {
	name := normalize.CollapseSpaces(rule.Name)
	if name == "" {
		where := "top level"
		if parent != nil {
			where = parent.FullPath(" > ")
		}
		return nil, fmt.Errorf("%w: category without a name under %s", domain.ErrConfiguration, where)
	}

	node := &Node{
		Name:     name,
		Priority: rule.Priority,
		Parent:   parent,
	}
	if parent != nil {
		node.Path = append(append([]string(nil), parent.Path...), name)
		node.Depth = parent.Depth + 1
	} else {
		node.Path = []string{name}
	}

	key := pathKey(node.Path)
	if _, exists := t.byPath[key]; exists {
		return nil, fmt.Errorf("%w: duplicate category path %q", domain.ErrConfiguration, node.FullPath(" > "))
	}

	var errs error
	if len(rule.Conditions) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: category %q has no conditions", domain.ErrConfiguration, node.FullPath(" > ")))
	}
	for i, condRule := range rule.Conditions {
		cond, err := buildCondition(condRule, vocabulary)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("category %q condition %d: %w", node.FullPath(" > "), i+1, err))
			continue
		}
		node.Conditions = append(node.Conditions, cond)
	}

	node.Order = len(t.nodes)
	t.nodes = append(t.nodes, node)
	t.byPath[key] = node

	for _, childRule := range rule.Children {
		child, err := t.buildNode(childRule, node, vocabulary)
		errs = multierr.Append(errs, err)
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}

	leaf := normalize.Fold(name)
	t.byLeaf[leaf] = append(t.byLeaf[leaf], node)

	return node, errs
}

// Roots returns the top-level branches in declaration order
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Walk visits every node depth-first in declaration order
func (t *Tree) Walk(fn func(n *Node)) {
	for _, n := range t.nodes {
		fn(n)
	}
}

// Len returns the number of nodes
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Lookup finds a node by its full path
func (t *Tree) Lookup(path []string) (*Node, bool) {
	n, ok := t.byPath[pathKey(path)]
	return n, ok
}

// LookupLeaf returns every node carrying name, in declaration order
func (t *Tree) LookupLeaf(name string) []*Node {
	nodes := t.byLeaf[normalize.Fold(name)]
	out := make([]*Node, len(nodes))
	copy(out, nodes)
	sortByOrder(out)
	return out
}

func pathKey(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = normalize.CollapseSpaces(p)
	}
	return strings.Join(parts, pathKeySeparator)
}

func sortByOrder(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
}
