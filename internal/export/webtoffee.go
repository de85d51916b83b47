package export

import (
	"strconv"
	"strings"

	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"

	"github.com/Gobusters/ectolinq"
)

var webToffeeColumns = []string{
	"ID", "post_parent", "parent_sku", "sku", "post_title", "post_name", "post_excerpt", "post_content",
	"post_status", "regular_price", "sale_price", "stock_status", "stock", "manage_stock", "weight",
	"images", "tax:product_type", "tax:product_cat", "tax:product_tag", "visibility", "backorders",
	"low_stock_amount", "menu_order",
}

// WebToffeeFormatter renders the hierarchical import format of the WebToffee import plugin
type WebToffeeFormatter struct {
	options Options
}

func NewWebToffeeFormatter(options Options) *WebToffeeFormatter {
	return &WebToffeeFormatter{options: options}
}

func (f *WebToffeeFormatter) Name() string {
	return "webtoffee"
}

func (f *WebToffeeFormatter) Format(records []*domain.Product) Table {
	keys := attributeKeys(records)
	parents := parentIndex(records)

	header := append([]string(nil), webToffeeColumns...)
	for _, key := range keys {
		pa := f.taxonomy(key)
		header = append(header,
			"attribute:"+pa,
			"attribute_data:"+pa,
			"attribute_default:"+pa,
			"meta:attribute_"+pa,
		)
	}

	ids := make(map[string]int, len(records))
	for i, p := range records {
		ids[p.SKU] = i + 1
	}

	rows := make([][]string, 0, len(records))
	for i, p := range records {
		row := f.baseRow(i+1, ids[p.ParentSKU], p)
		row = append(row, f.attributeCells(p, parents[p.ParentSKU], keys)...)
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

func (f *WebToffeeFormatter) taxonomy(key string) string {
	return "pa_" + normalize.Slug(f.options.Label(key))
}

func (f *WebToffeeFormatter) baseRow(id, parentID int, p *domain.Product) []string {
	postParent := ""
	if parentID > 0 {
		postParent = strconv.Itoa(parentID)
	}

	status := "draft"
	if p.Published || p.Type == domain.ProductTypeVariation {
		status = "publish"
	}

	stockStatus := "outofstock"
	if p.InStock {
		stockStatus = "instock"
	}

	manageStock := "no"
	if p.StockQuantity != nil && p.Type != domain.ProductTypeVariable {
		manageStock = "yes"
	}

	var productType, categories, tags, lowStock string
	switch p.Type {
	case domain.ProductTypeSimple:
		productType = "Simple"
	case domain.ProductTypeVariable:
		productType = "Variable"
	}
	if p.Type != domain.ProductTypeVariation {
		categories = strings.Join(p.AssignedCategories, f.options.CategorySeparator)
		tags = strings.Join(f.options.Tags(p), "|")
	}
	if manageStock == "yes" && f.options.LowStockAmount > 0 {
		lowStock = strconv.Itoa(f.options.LowStockAmount)
	}

	return []string{
		strconv.Itoa(id),
		postParent,
		p.ParentSKU,
		p.SKU,
		p.Name,
		normalize.Slug(p.Name),
		p.ShortDescription,
		p.Description,
		status,
		formatPrice(p.Price),
		salePrice(p),
		stockStatus,
		formatStock(p.StockQuantity),
		manageStock,
		formatPrice(p.Weight),
		strings.Join(p.Images, "|"),
		productType,
		categories,
		tags,
		"visible",
		"no",
		lowStock,
		strconv.Itoa(p.MenuOrder),
	}
}

// attributeCells fills four cells per attribute key: values, data, default and variation meta
func (f *WebToffeeFormatter) attributeCells(p *domain.Product, parent *domain.Product, keys []string) []string {
	cells := make([]string, 0, len(keys)*4)

	switch p.Type {
	case domain.ProductTypeVariable:
		for _, key := range keys {
			set := ectolinq.Find(p.AttributeSets, func(s domain.AttributeSet) bool { return s.Key == key })
			if set.Key == "" {
				cells = append(cells, "", "", "", "")
				continue
			}
			cells = append(cells,
				strings.Join(set.Values, "|"),
				attributeData(set.Position, set.Visible, set.Variation),
				set.Default,
				"",
			)
		}

	case domain.ProductTypeVariation:
		values := domain.Attributes(variationValues(p, parent))
		for _, key := range keys {
			value, _ := values.Get(key)
			cells = append(cells, "", "", "", value)
		}

	default:
		for _, key := range keys {
			value, ok := p.Attributes.Get(key)
			if !ok {
				cells = append(cells, "", "", "", "")
				continue
			}
			cells = append(cells, value, attributeData(attributePosition(p.Attributes, key), true, false), "", "")
		}
	}

	return cells
}

func attributePosition(attrs domain.Attributes, key string) int {
	for i, a := range attrs {
		if a.Key == key {
			return i
		}
	}
	return -1
}

// attributeData encodes "position|visible|variation"
func attributeData(position int, visible, variation bool) string {
	return strconv.Itoa(position) + "|" + boolFlag(visible) + "|" + boolFlag(variation)
}

// attributeKeys lists every attribute key in order of first occurrence across records
func attributeKeys(records []*domain.Product) []string {
	var keys []string
	add := func(key string) {
		if !ectolinq.Contains(keys, key) {
			keys = append(keys, key)
		}
	}

	for _, p := range records {
		for _, set := range p.AttributeSets {
			add(set.Key)
		}
		for _, key := range p.Attributes.Keys() {
			add(key)
		}
	}
	return keys
}
