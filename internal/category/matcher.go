package category

import "shopmigrate/converter/internal/domain"

// Candidate is a node whose own conditions matched a product
type Candidate struct {
	Node     *Node
	Priority int
	Depth    int
	Order    int
}

// Branch returns the top-level category of the candidate
func (c Candidate) Branch() string {
	return c.Node.Branch()
}

// Matcher evaluates every node of the tree against a product
type Matcher struct {
	tree *Tree
}

func NewMatcher(tree *Tree) *Matcher {
	return &Matcher{tree: tree}
}

// Match returns all matching nodes in traversal order. Nodes are evaluated on their own:
// a descendant can match while its ancestor does not, so no subtree is ever pruned.
func (m *Matcher) Match(p *domain.Product) []Candidate {
	subject := NewSubject(p.Name, p.Attributes)

	var candidates []Candidate
	m.tree.Walk(func(n *Node) {
		if n.Matches(subject) {
			candidates = append(candidates, Candidate{
				Node:     n,
				Priority: n.Priority,
				Depth:    n.Depth,
				Order:    n.Order,
			})
		}
	})

	return candidates
}
