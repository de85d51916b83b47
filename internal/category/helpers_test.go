package category

import (
	"testing"

	"shopmigrate/converter/internal/domain"

	"github.com/stretchr/testify/require"
)

var testVocabulary = []string{"gender", "sport", "type", "size", "color", "surface", "season", "brand", "category", "material"}

func newProduct(sku, name string, attrs ...string) *domain.Product {
	p := &domain.Product{SKU: sku, Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		p.Attributes.Set(attrs[i], attrs[i+1])
	}
	return p
}

func mustTree(t *testing.T, rules string) *Tree {
	t.Helper()
	ruleSet, err := ParseRules([]byte(rules))
	require.NoError(t, err)
	tree, err := NewTree(ruleSet, testVocabulary)
	require.NoError(t, err)
	return tree
}

func defaultTree(t *testing.T) *Tree {
	t.Helper()
	ruleSet, err := LoadRules("")
	require.NoError(t, err)
	tree, err := NewTree(ruleSet, testVocabulary)
	require.NoError(t, err)
	return tree
}

func testSettings() Settings {
	return Settings{
		MultiCategory:      true,
		MaxCategories:      2,
		Strategy:           domain.StrategyComplementary,
		PathSeparator:      " > ",
		JoinSeparator:      " | ",
		DefaultCategory:    "Nezařazené",
		FallbackToOriginal: true,
	}
}

func classify(tree *Tree, settings Settings, p *domain.Product) domain.Findings {
	return NewClassifier(NewMatcher(tree), NewSelector(settings)).Classify(p)
}
