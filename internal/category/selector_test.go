package category

import (
	"testing"

	"shopmigrate/converter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBranchRules = `
categories:
  - name: A
    conditions: [{name_contains: [item]}]
    children:
      - name: A1
        priority: 10
        conditions: [{name_contains: [item]}]
      - name: A2
        priority: 9
        conditions: [{name_contains: [item]}]
  - name: B
    conditions: [{name_contains: [item]}]
    children:
      - name: B1
        priority: 1
        conditions: [{name_contains: [item]}]
`

func TestRunningShirtGetsOneCategoryPerBranch(t *testing.T) {
	tree := defaultTree(t)
	settings := testSettings()
	settings.LeafOnly = true

	p := newProduct("TS-1", "Pánské běžecké tričko", "gender", "men", "sport", "running", "type", "t-shirt")
	findings := classify(tree, settings, p)

	assert.Equal(t, []string{"Pánská trička", "Běžecké oblečení"}, p.AssignedCategories)
	assert.Equal(t, domain.CategorySourceMatched, p.CategorySource)
	assert.Empty(t, findings.Warnings)
}

func TestFullPathFormatting(t *testing.T) {
	tree := defaultTree(t)
	p := newProduct("TS-1", "Pánské běžecké tričko", "gender", "men", "sport", "running", "type", "t-shirt")

	classify(tree, testSettings(), p)

	assert.Equal(t, []string{
		"Muži > Pánské oblečení > Pánská trička",
		"Sporty > Běh > Běžecké oblečení",
	}, p.AssignedCategories)
}

func TestComplementaryVersusAllMatches(t *testing.T) {
	tree := mustTree(t, twoBranchRules)
	settings := testSettings()
	settings.LeafOnly = true

	p := newProduct("I-1", "item")
	classify(tree, settings, p)
	assert.Equal(t, []string{"A1", "B1"}, p.AssignedCategories)

	settings.Strategy = domain.StrategyAllMatches
	classify(tree, settings, p)
	assert.Equal(t, []string{"A1", "A2"}, p.AssignedCategories)
}

func TestSelectionNeverExceedsLimit(t *testing.T) {
	tree := mustTree(t, twoBranchRules)

	for _, strategy := range []domain.SelectionStrategy{domain.StrategyComplementary, domain.StrategyAllMatches} {
		for limit := 1; limit <= 6; limit++ {
			settings := testSettings()
			settings.Strategy = strategy
			settings.MaxCategories = limit

			p := newProduct("I-1", "item")
			classify(tree, settings, p)

			assert.LessOrEqual(t, len(p.AssignedCategories), limit, "%s limit %d", strategy, limit)
			assert.NotEmpty(t, p.AssignedCategories)
		}
	}
}

func TestComplementaryNeverRepeatsBranch(t *testing.T) {
	tree := mustTree(t, twoBranchRules)
	settings := testSettings()
	settings.MaxCategories = 5

	p := newProduct("I-1", "item")
	classify(tree, settings, p)

	require.Len(t, p.AssignedCategories, 2)
	assert.Equal(t, "A > A1", p.AssignedCategories[0])
	assert.Equal(t, "B > B1", p.AssignedCategories[1])
}

func TestAllMatchesTopN(t *testing.T) {
	tree := mustTree(t, twoBranchRules)
	settings := testSettings()
	settings.Strategy = domain.StrategyAllMatches
	settings.MaxCategories = 3

	p := newProduct("I-1", "item")
	classify(tree, settings, p)

	assert.Equal(t, []string{"A > A1", "A > A2", "B > B1"}, p.AssignedCategories)
}

func TestAllMatchesKeepsRepeatedLeafNames(t *testing.T) {
	tree := mustTree(t, `
categories:
  - name: Muži
    priority: 1
    conditions: [{name_contains: [bota]}]
    children:
      - name: Obuv
        priority: 9
        conditions: [{name_contains: [bota]}]
  - name: Ženy
    priority: 1
    conditions: [{name_contains: [bota]}]
    children:
      - name: Obuv
        priority: 8
        conditions: [{name_contains: [bota]}]
`)
	settings := testSettings()
	settings.Strategy = domain.StrategyAllMatches
	settings.LeafOnly = true

	p := newProduct("B-1", "bota")
	classify(tree, settings, p)

	assert.Equal(t, []string{"Obuv", "Obuv"}, p.AssignedCategories)
}

func TestSingleCategoryMode(t *testing.T) {
	tree := defaultTree(t)
	settings := testSettings()
	settings.MultiCategory = false
	settings.MaxCategories = 4

	p := newProduct("TS-1", "Pánské běžecké tričko", "gender", "men", "sport", "running", "type", "t-shirt")
	classify(tree, settings, p)

	assert.Equal(t, []string{"Muži > Pánské oblečení > Pánská trička"}, p.AssignedCategories)
}

func TestTiesResolvedByTraversalOrder(t *testing.T) {
	tree := mustTree(t, `
categories:
  - name: First
    conditions: [{name_contains: [tie]}]
  - name: Second
    conditions: [{name_contains: [tie]}]
`)
	settings := testSettings()
	settings.MaxCategories = 1

	for i := 0; i < 10; i++ {
		p := newProduct("T-1", "tie")
		classify(tree, settings, p)
		assert.Equal(t, []string{"First"}, p.AssignedCategories)
	}
}

func TestFallbackToOriginalCategory(t *testing.T) {
	tree := defaultTree(t)
	p := newProduct("G-1", "Zahradní hadice")
	p.OriginalCategory = "Zahrada > Hadice"

	findings := classify(tree, testSettings(), p)

	assert.Equal(t, []string{"Zahrada > Hadice"}, p.AssignedCategories)
	assert.Equal(t, domain.CategorySourceOriginal, p.CategorySource)
	assert.Empty(t, findings.Warnings)
	assert.Len(t, findings.Infos, 1)
}

func TestOriginalCategoryKeptVerbatim(t *testing.T) {
	tree := mustTree(t, twoBranchRules)
	p := newProduct("O-1", "nothing matches")
	p.OriginalCategory = "  Boty / Běžecké  "

	classify(tree, testSettings(), p)

	assert.Equal(t, []string{"  Boty / Běžecké  "}, p.AssignedCategories)
	assert.Equal(t, domain.CategorySourceOriginal, p.CategorySource)
}

func TestClassificationFailureFallsBack(t *testing.T) {
	classifier := NewClassifier(NewMatcher(nil), NewSelector(testSettings()))
	p := newProduct("P-1", "item")
	p.OriginalCategory = "Boty"

	findings := classifier.Classify(p)

	assert.Equal(t, []string{"Boty"}, p.AssignedCategories)
	assert.Equal(t, domain.CategorySourceOriginal, p.CategorySource)
	require.Len(t, findings.Warnings, 1)
	assert.Contains(t, findings.Warnings[0].Message, "classification failed: runtime error")
}

func TestFallbackToDefaultCategory(t *testing.T) {
	tree := defaultTree(t)
	p := newProduct("G-2", "Zahradní hadice")

	findings := classify(tree, testSettings(), p)

	assert.Equal(t, []string{"Nezařazené"}, p.AssignedCategories)
	assert.Equal(t, domain.CategorySourceDefault, p.CategorySource)
	require.Len(t, findings.Warnings, 1)
	assert.Equal(t, domain.FindingClassification, findings.Warnings[0].Kind)
	assert.Equal(t, "G-2", findings.Warnings[0].SKU)
}

func TestOriginalCategoryIgnoredWhenFallbackDisabled(t *testing.T) {
	tree := defaultTree(t)
	settings := testSettings()
	settings.FallbackToOriginal = false

	p := newProduct("G-3", "Zahradní hadice")
	p.OriginalCategory = "Zahrada"
	findings := classify(tree, settings, p)

	assert.Equal(t, []string{"Nezařazené"}, p.AssignedCategories)
	assert.Len(t, findings.Warnings, 1)
}

func TestClassificationIsIdempotent(t *testing.T) {
	tree := defaultTree(t)
	settings := testSettings()

	first := newProduct("TS-1", "Pánské běžecké tričko", "gender", "men", "sport", "running", "type", "t-shirt")
	second := first.Clone()

	classify(tree, settings, first)
	classify(tree, settings, second)
	classify(tree, settings, second)

	assert.Equal(t, first.AssignedCategories, second.AssignedCategories)
}

func TestNewSettingsRejectsUnknownStrategy(t *testing.T) {
	_, err := NewSettings(configWithStrategy("random"))
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	settings, err := NewSettings(configWithStrategy("ALL_MATCHES"))
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyAllMatches, settings.Strategy)
}
