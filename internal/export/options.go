package export

import (
	"strconv"
	"strings"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"
)

// Options are the presentation settings shared by every formatter
type Options struct {
	CategorySeparator string
	AttributeLabels   map[string]string
	TagAttributes     []string
	MaxTags           int
	LowStockAmount    int
}

func NewOptions(cfg config.ExportConfig, categorySeparator string) Options {
	labels := make(map[string]string, len(cfg.AttributeLabels))
	for key, label := range cfg.AttributeLabels {
		labels[normalize.Key(key)] = label
	}

	return Options{
		CategorySeparator: categorySeparator,
		AttributeLabels:   labels,
		TagAttributes:     cfg.TagAttributes,
		MaxTags:           cfg.MaxTags,
		LowStockAmount:    cfg.LowStockAmount,
	}
}

// Label returns the display name of an attribute key
func (o Options) Label(key string) string {
	if label, ok := o.AttributeLabels[key]; ok && label != "" {
		return label
	}
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// Tags collects distinct values of the tag attributes
func (o Options) Tags(p *domain.Product) []string {
	var tags []string
	for _, key := range o.TagAttributes {
		if o.MaxTags > 0 && len(tags) == o.MaxTags {
			break
		}
		value, ok := p.Attributes.Get(normalize.Key(key))
		if !ok || value == "" {
			continue
		}
		duplicate := false
		for _, tag := range tags {
			if tag == value {
				duplicate = true
				break
			}
		}
		if !duplicate {
			tags = append(tags, value)
		}
	}
	return tags
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// salePrice is only exported when it undercuts the regular price
func salePrice(p *domain.Product) string {
	if p.SalePrice == nil {
		return ""
	}
	if p.Price != nil && *p.SalePrice >= *p.Price {
		return ""
	}
	return formatPrice(p.SalePrice)
}

func formatStock(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// parentIndex maps parent SKUs to their records so variations can look up the aggregated attributes
func parentIndex(records []*domain.Product) map[string]*domain.Product {
	index := make(map[string]*domain.Product)
	for _, p := range records {
		if p.Type == domain.ProductTypeVariable {
			index[p.SKU] = p
		}
	}
	return index
}

// variationValues returns the values a variation contributes to its parent's variation attributes
func variationValues(v *domain.Product, parent *domain.Product) []domain.Attribute {
	if parent == nil {
		return v.Attributes
	}

	var attrs []domain.Attribute
	for _, set := range parent.AttributeSets {
		if !set.Variation {
			continue
		}
		if value, ok := v.Attributes.Get(set.Key); ok {
			attrs = append(attrs, domain.Attribute{Key: set.Key, Value: value})
		}
	}
	return attrs
}
