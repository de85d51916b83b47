package category

import (
	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"
)

// Settings is the immutable selection configuration shared by the selector and the validator
type Settings struct {
	MultiCategory      bool
	MaxCategories      int
	Strategy           domain.SelectionStrategy
	LeafOnly           bool
	PathSeparator      string
	JoinSeparator      string
	DefaultCategory    string
	FallbackToOriginal bool
}

// NewSettings converts the loaded configuration once at startup
func NewSettings(cfg config.CategoryConfig) (Settings, error) {
	strategy, err := domain.ParseSelectionStrategy(cfg.MultiCategoryStrategy)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		MultiCategory:      cfg.EnableMultiCategory,
		MaxCategories:      cfg.MaxCategoriesPerProduct,
		Strategy:           strategy,
		LeafOnly:           cfg.UseLeafCategoryOnly,
		PathSeparator:      cfg.PathSeparator,
		JoinSeparator:      cfg.MultiCategorySeparator,
		DefaultCategory:    cfg.DefaultCategory,
		FallbackToOriginal: cfg.FallbackToOriginal,
	}, nil
}

// Limit is the effective number of categories a product may receive
func (s Settings) Limit() int {
	if !s.MultiCategory || s.MaxCategories < 1 {
		return 1
	}
	return s.MaxCategories
}
