package domain

import "strings"

// Attribute is a single key/value pair taken from the source parameters
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attributes keeps source order so that every downstream step is deterministic
type Attributes []Attribute

// Get returns the value stored under key
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Keys returns attribute keys in insertion order
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, attr := range a {
		keys = append(keys, attr.Key)
	}
	return keys
}

// Set replaces the value of an existing key or appends a new pair
func (a *Attributes) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Key: key, Value: value})
}

// AttributeSet is the aggregated view of one attribute over a variant cluster
type AttributeSet struct {
	Key       string   `json:"key"`
	Values    []string `json:"values"`
	Position  int      `json:"position"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
	Default   string   `json:"default"`
}

// Product is one record of the export. The input fields come from the source platform,
// the rest are filled in by the grouping and classification steps.
type Product struct {
	SKU              string     `json:"sku"`
	MasterCode       string     `json:"master_code,omitempty"`
	Name             string     `json:"name"`
	Attributes       Attributes `json:"attributes"`
	OriginalCategory string     `json:"original_category,omitempty"`
	Price            *float64   `json:"price,omitempty"`
	SalePrice        *float64   `json:"sale_price,omitempty"`
	StockQuantity    *int       `json:"stock_quantity,omitempty"`
	Weight           *float64   `json:"weight,omitempty"`
	Description      string     `json:"description,omitempty"`
	ShortDescription string     `json:"short_description,omitempty"`
	Images           []string   `json:"images,omitempty"`
	Published        bool       `json:"published"`

	Type               ProductType    `json:"type"`
	ParentSKU          string         `json:"parent_sku,omitempty"`
	AttributeSets      []AttributeSet `json:"attribute_sets,omitempty"`
	InStock            bool           `json:"in_stock"`
	MenuOrder          int            `json:"menu_order"`
	AssignedCategories []string       `json:"categories"`
	CategorySource     CategorySource `json:"category_source,omitempty"`
}

// HasMasterCode reports whether the product declares a variant cluster
func (p *Product) HasMasterCode() bool {
	return strings.TrimSpace(p.MasterCode) != ""
}

// IsInStock reports a positive stock quantity
func (p *Product) IsInStock() bool {
	return p.StockQuantity != nil && *p.StockQuantity > 0
}

// Clone returns a deep copy so that a run never mutates the caller's records
func (p *Product) Clone() *Product {
	c := *p
	c.Attributes = append(Attributes(nil), p.Attributes...)
	c.Images = append([]string(nil), p.Images...)
	c.AssignedCategories = append([]string(nil), p.AssignedCategories...)
	if p.AttributeSets != nil {
		c.AttributeSets = make([]AttributeSet, len(p.AttributeSets))
		for i, set := range p.AttributeSets {
			set.Values = append([]string(nil), set.Values...)
			c.AttributeSets[i] = set
		}
	}
	if p.Price != nil {
		v := *p.Price
		c.Price = &v
	}
	if p.SalePrice != nil {
		v := *p.SalePrice
		c.SalePrice = &v
	}
	if p.StockQuantity != nil {
		v := *p.StockQuantity
		c.StockQuantity = &v
	}
	if p.Weight != nil {
		v := *p.Weight
		c.Weight = &v
	}
	return &c
}
