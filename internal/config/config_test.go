package config

import (
	"os"
	"path/filepath"
	"testing"

	"shopmigrate/converter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, " > ", cfg.Categories.PathSeparator)
	assert.Equal(t, " | ", cfg.Categories.MultiCategorySeparator)
	assert.Equal(t, 2, cfg.Categories.MaxCategoriesPerProduct)
	assert.Equal(t, "complementary", cfg.Categories.MultiCategoryStrategy)
	assert.True(t, cfg.Categories.EnableMultiCategory)
	assert.Equal(t, "_parent", cfg.Variants.ParentSKUSuffix)
	assert.Equal(t, "size", cfg.Source.AttributeAliases["velikost"])
	assert.Equal(t, "KodZbozi", cfg.Source.Columns.SKU)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
categories:
  max_categories_per_product: 3
  multi_category_strategy: all_matches
  use_leaf_category_only: true
variants:
  variation_attributes: [size]
pipeline:
  workers: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Categories.MaxCategoriesPerProduct)
	assert.Equal(t, "all_matches", cfg.Categories.MultiCategoryStrategy)
	assert.True(t, cfg.Categories.UseLeafCategoryOnly)
	assert.Equal(t, []string{"size"}, cfg.Variants.VariationAttributes)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, " > ", cfg.Categories.PathSeparator)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown strategy",
			content: `
categories:
  multi_category_strategy: best_guess
`,
		},
		{
			name: "zero max categories",
			content: `
categories:
  max_categories_per_product: 0
`,
		},
		{
			name: "equal separators",
			content: `
categories:
  path_separator: " | "
  multi_category_separator: " | "
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
