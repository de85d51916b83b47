package service

import (
	"context"
	"testing"

	"shopmigrate/converter/internal/category"
	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/content"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/variant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, categoryCfg config.CategoryConfig) *Service {
	t.Helper()

	rules, err := category.LoadRules("")
	require.NoError(t, err)
	tree, err := category.NewTree(rules, []string{"gender", "sport", "type", "size", "color", "surface"})
	require.NoError(t, err)

	settings, err := category.NewSettings(categoryCfg)
	require.NoError(t, err)

	variantSettings, err := variant.NewSettings(config.VariantConfig{
		Enabled:                   true,
		SKUPatternFallback:        true,
		SKUSuffixPattern:          `^(.+?)_\d+$`,
		ParentSKUSuffix:           "_parent",
		VariationAttributes:       []string{"size"},
		ParentNameStripAttributes: []string{"size"},
	})
	require.NoError(t, err)

	return NewService(
		variant.NewGrouper(variantSettings),
		variant.NewAggregator(variantSettings),
		category.NewClassifier(category.NewMatcher(tree), category.NewSelector(settings)),
		category.NewValidator(tree, settings),
		content.NewNormalizer(config.ContentConfig{StripTags: []string{"script"}, ShortDescriptionLength: 80}),
		true,
		4,
	)
}

func defaultCategoryConfig() config.CategoryConfig {
	return config.CategoryConfig{
		EnableMultiCategory:     true,
		MaxCategoriesPerProduct: 2,
		MultiCategoryStrategy:   "complementary",
		UseLeafCategoryOnly:     true,
		PathSeparator:           " > ",
		MultiCategorySeparator:  " | ",
		DefaultCategory:         "Nezařazené",
		FallbackToOriginal:      true,
	}
}

func product(sku, master, name string, attrs ...string) *domain.Product {
	p := &domain.Product{SKU: sku, MasterCode: master, Name: name, Published: true}
	for i := 0; i+1 < len(attrs); i += 2 {
		p.Attributes.Set(attrs[i], attrs[i+1])
	}
	return p
}

func testInput() []*domain.Product {
	price := 2490.0
	var products []*domain.Product
	for i, size := range []string{"40", "41", "42"} {
		p := product("SHOE001-"+size, "SHOE001", "Běžecké boty Speed "+size, "size", size, "sport", "running", "type", "shoes")
		p.Price = &price
		stock := i
		p.StockQuantity = &stock
		p.Description = "<p>Lehké běžecké boty.</p><script>track()</script>"
		products = append(products, p)
	}
	products = append(products,
		product("TS-1", "", "Pánské běžecké tričko", "gender", "men", "sport", "running", "type", "t-shirt"),
		product("HOSE-1", "", "Zahradní hadice"),
	)
	return products
}

func skus(records []*domain.Product) []string {
	out := make([]string, 0, len(records))
	for _, p := range records {
		out = append(out, p.SKU)
	}
	return out
}

func TestTransform(t *testing.T) {
	svc := newTestService(t, defaultCategoryConfig())

	result, err := svc.Transform(context.Background(), testInput())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"SHOE001_parent", "SHOE001-40", "SHOE001-41", "SHOE001-42", "TS-1", "HOSE-1"}, skus(result.Records))

	parent := result.Records[0]
	assert.Equal(t, domain.ProductTypeVariable, parent.Type)
	assert.Nil(t, parent.Price)
	assert.Equal(t, []string{"40", "41", "42"}, parent.AttributeSets[0].Values)
	assert.Equal(t, []string{"Běžecká obuv"}, parent.AssignedCategories)
	assert.Equal(t, "<p>Lehké běžecké boty.</p>", parent.Description)
	assert.Equal(t, "Lehké běžecké boty.", parent.ShortDescription)

	for _, v := range result.Records[1:4] {
		assert.Equal(t, "SHOE001_parent", v.ParentSKU)
	}

	assert.Equal(t, []string{"Pánská trička", "Běžecké oblečení"}, result.Records[4].AssignedCategories)
	assert.Equal(t, []string{"Nezařazené"}, result.Records[5].AssignedCategories)

	assert.Equal(t, domain.RunStats{
		Products: 5, Simple: 2, Variable: 1, Variations: 3,
		Matched: 5, Default: 1,
	}, result.Stats)

	require.NotNil(t, result.Report)
	assert.Equal(t, 6, result.Report.Total)
	assert.Equal(t, 1, result.Findings.Count(domain.FindingClassification))
	assert.Zero(t, result.Findings.Count(domain.FindingStructure))
}

func TestTransformIsDeterministic(t *testing.T) {
	svc := newTestService(t, defaultCategoryConfig())
	input := testInput()

	first, err := svc.Transform(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.Transform(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.Stats, second.Stats)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestTransformDoesNotModifyInput(t *testing.T) {
	svc := newTestService(t, defaultCategoryConfig())
	input := testInput()
	before := make([]*domain.Product, len(input))
	for i, p := range input {
		before[i] = p.Clone()
	}

	_, err := svc.Transform(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, before, input)
}

func TestTransformRespectsCategoryLimit(t *testing.T) {
	for _, strategy := range []string{"complementary", "all_matches"} {
		for limit := 1; limit <= 3; limit++ {
			cfg := defaultCategoryConfig()
			cfg.MultiCategoryStrategy = strategy
			cfg.MaxCategoriesPerProduct = limit

			result, err := newTestService(t, cfg).Transform(context.Background(), testInput())
			require.NoError(t, err)

			for _, p := range result.Records {
				assert.LessOrEqual(t, len(p.AssignedCategories), limit, "%s %s", strategy, p.SKU)
			}
			assert.Empty(t, result.Report.OverLimit)
		}
	}
}

func TestTransformStopsOnCancelledContext(t *testing.T) {
	svc := newTestService(t, defaultCategoryConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Transform(ctx, testInput())
	assert.ErrorIs(t, err, context.Canceled)
}
