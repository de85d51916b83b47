package variant

import (
	"testing"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"

	"github.com/stretchr/testify/require"
)

func testSettings(t *testing.T) Settings {
	t.Helper()
	settings, err := NewSettings(config.VariantConfig{
		Enabled:                   true,
		SKUPatternFallback:        true,
		SKUSuffixPattern:          `^(.+?)_\d+$`,
		ParentSKUSuffix:           "_parent",
		VariationAttributes:       []string{"size", "color"},
		ParentNameStripAttributes: []string{"size", "color"},
	})
	require.NoError(t, err)
	return settings
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newProduct(sku, master, name string, attrs ...string) *domain.Product {
	p := &domain.Product{SKU: sku, MasterCode: master, Name: name, Published: true}
	for i := 0; i+1 < len(attrs); i += 2 {
		p.Attributes.Set(attrs[i], attrs[i+1])
	}
	return p
}

func skus(products []*domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.SKU)
	}
	return out
}

func groupAndAggregate(t *testing.T, settings Settings, products []*domain.Product) ([]*Cluster, []*domain.Product, domain.Findings) {
	t.Helper()
	clusters, findings := NewGrouper(settings).Group(products)
	aggregator := NewAggregator(settings)
	for _, c := range clusters {
		findings.Merge(aggregator.Aggregate(c))
	}
	return clusters, Flatten(clusters), findings
}
