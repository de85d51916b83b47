package variant

import (
	"fmt"
	"regexp"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"
)

// Settings is the immutable grouping configuration
type Settings struct {
	SKUPatternFallback        bool
	SKUPattern                *regexp.Regexp // first capture group is the cluster key
	ParentSKUSuffix           string
	VariationAttributes       []string
	ParentNameStripAttributes []string
	DefaultOverrides          map[string]string
}

func NewSettings(cfg config.VariantConfig) (Settings, error) {
	settings := Settings{
		SKUPatternFallback:        cfg.SKUPatternFallback,
		ParentSKUSuffix:           cfg.ParentSKUSuffix,
		VariationAttributes:       normalizeKeys(cfg.VariationAttributes),
		ParentNameStripAttributes: normalizeKeys(cfg.ParentNameStripAttributes),
		DefaultOverrides:          make(map[string]string, len(cfg.DefaultOverrides)),
	}
	for key, value := range cfg.DefaultOverrides {
		settings.DefaultOverrides[normalize.Key(key)] = value
	}

	if cfg.SKUPatternFallback {
		pattern, err := regexp.Compile(cfg.SKUSuffixPattern)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: invalid sku_suffix_pattern %q: %v", domain.ErrConfiguration, cfg.SKUSuffixPattern, err)
		}
		if pattern.NumSubexp() < 1 {
			return Settings{}, fmt.Errorf("%w: sku_suffix_pattern %q needs a capture group", domain.ErrConfiguration, cfg.SKUSuffixPattern)
		}
		settings.SKUPattern = pattern
	}

	if settings.ParentSKUSuffix == "" {
		return Settings{}, fmt.Errorf("%w: parent_sku_suffix must not be empty", domain.ErrConfiguration)
	}

	return settings, nil
}

func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, normalize.Key(key))
	}
	return out
}
