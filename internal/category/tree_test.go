package category

import (
	"testing"

	"shopmigrate/converter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesBuild(t *testing.T) {
	tree := defaultTree(t)

	assert.Greater(t, tree.Len(), 20)
	roots := tree.Roots()
	require.Len(t, roots, 5)
	assert.Equal(t, "Muži", roots[0].Name)
	assert.Equal(t, "Sporty", roots[3].Name)

	node, ok := tree.Lookup([]string{"Sporty", "Běh", "Běžecké oblečení"})
	require.True(t, ok)
	assert.Equal(t, 2, node.Depth)
	assert.Equal(t, 10, node.Priority)
	assert.Equal(t, "Sporty", node.Branch())
	assert.Equal(t, "Sporty > Běh > Běžecké oblečení", node.FullPath(" > "))
	assert.True(t, node.IsLeaf())
}

func TestWalkFollowsDeclarationOrder(t *testing.T) {
	tree := mustTree(t, `
categories:
  - name: A
    conditions: [{name_contains: [a]}]
    children:
      - name: A1
        conditions: [{name_contains: [a1]}]
      - name: A2
        conditions: [{name_contains: [a2]}]
  - name: B
    conditions: [{name_contains: [b]}]
`)

	var names []string
	tree.Walk(func(n *Node) {
		names = append(names, n.Name)
	})

	assert.Equal(t, []string{"A", "A1", "A2", "B"}, names)
}

func TestLookupLeafReturnsEveryNode(t *testing.T) {
	tree := mustTree(t, `
categories:
  - name: Muži
    conditions: [{attributes: {gender: [men]}}]
    children:
      - name: Boty
        conditions: [{name_contains: [boty]}]
  - name: Ženy
    conditions: [{attributes: {gender: [women]}}]
    children:
      - name: Boty
        conditions: [{name_contains: [boty]}]
`)

	nodes := tree.LookupLeaf("boty")
	require.Len(t, nodes, 2)
	assert.Equal(t, "Muži", nodes[0].Branch())
	assert.Equal(t, "Ženy", nodes[1].Branch())
}

func TestNewTreeRejectsMalformedRules(t *testing.T) {
	tests := []struct {
		name  string
		rules string
	}{
		{
			name: "unrecognized attribute key",
			rules: `
categories:
  - name: A
    conditions: [{attributes: {flavour: [sweet]}}]
`,
		},
		{
			name: "empty condition",
			rules: `
categories:
  - name: A
    conditions: [{}]
`,
		},
		{
			name: "no conditions",
			rules: `
categories:
  - name: A
`,
		},
		{
			name: "empty keyword list",
			rules: `
categories:
  - name: A
    conditions: [{name_contains: ["  "]}]
`,
		},
		{
			name: "mixed condition kinds",
			rules: `
categories:
  - name: A
    conditions: [{name_contains: [a], attributes: {gender: [men]}}]
`,
		},
		{
			name: "invalid pattern",
			rules: `
categories:
  - name: A
    conditions: [{name_pattern: "(["}]
`,
		},
		{
			name: "duplicate sibling path",
			rules: `
categories:
  - name: A
    conditions: [{name_contains: [a]}]
    children:
      - name: X
        conditions: [{name_contains: [x]}]
      - name: X
        conditions: [{name_contains: [y]}]
`,
		},
		{
			name: "missing name",
			rules: `
categories:
  - conditions: [{name_contains: [a]}]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ruleSet, err := ParseRules([]byte(tt.rules))
			require.NoError(t, err)

			_, err = NewTree(ruleSet, testVocabulary)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestNewTreeReportsAllErrors(t *testing.T) {
	ruleSet, err := ParseRules([]byte(`
categories:
  - name: A
    conditions: [{attributes: {flavour: [sweet]}}]
  - name: B
    conditions: [{attributes: {texture: [soft]}}]
`))
	require.NoError(t, err)

	_, err = NewTree(ruleSet, testVocabulary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flavour")
	assert.Contains(t, err.Error(), "texture")
}

func TestSameNameUnderDifferentParentsIsAllowed(t *testing.T) {
	tree := mustTree(t, `
categories:
  - name: A
    conditions: [{name_contains: [a]}]
    children:
      - name: Boty
        conditions: [{name_contains: [boty]}]
  - name: B
    conditions: [{name_contains: [b]}]
    children:
      - name: Boty
        conditions: [{name_contains: [boty]}]
`)

	assert.Equal(t, 4, tree.Len())
}
