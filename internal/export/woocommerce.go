package export

import (
	"fmt"
	"strconv"
	"strings"

	"shopmigrate/converter/internal/domain"
)

var wooCommerceColumns = []string{
	"Type", "SKU", "Name", "Published", "Visibility in catalog", "Short description", "Description",
	"In stock?", "Stock", "Low stock amount", "Backorders allowed?", "Manage stock?",
	"Sale price", "Regular price", "Weight (kg)", "Categories", "Tags", "Images", "Parent", "Position",
}

// WooCommerceFormatter renders the flat core WooCommerce product CSV
type WooCommerceFormatter struct {
	options Options
}

func NewWooCommerceFormatter(options Options) *WooCommerceFormatter {
	return &WooCommerceFormatter{options: options}
}

func (f *WooCommerceFormatter) Name() string {
	return "woocommerce"
}

type wooAttribute struct {
	name    string
	values  string
	visible bool
	dflt    string
}

func (f *WooCommerceFormatter) Format(records []*domain.Product) Table {
	parents := parentIndex(records)

	attributes := make([][]wooAttribute, len(records))
	width := 0
	for i, p := range records {
		attributes[i] = f.attributes(p, parents[p.ParentSKU])
		if len(attributes[i]) > width {
			width = len(attributes[i])
		}
	}

	header := append([]string(nil), wooCommerceColumns...)
	for n := 1; n <= width; n++ {
		header = append(header,
			fmt.Sprintf("Attribute %d name", n),
			fmt.Sprintf("Attribute %d value(s)", n),
			fmt.Sprintf("Attribute %d visible", n),
			fmt.Sprintf("Attribute %d global", n),
			fmt.Sprintf("Attribute %d default", n),
		)
	}

	rows := make([][]string, 0, len(records))
	for i, p := range records {
		row := f.baseRow(p)
		for n := 0; n < width; n++ {
			if n >= len(attributes[i]) {
				row = append(row, "", "", "", "", "")
				continue
			}
			a := attributes[i][n]
			row = append(row, a.name, a.values, boolFlag(a.visible), "1", a.dflt)
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

func (f *WooCommerceFormatter) baseRow(p *domain.Product) []string {
	published := p.Published || p.Type == domain.ProductTypeVariation
	manageStock := p.StockQuantity != nil && p.Type != domain.ProductTypeVariable

	lowStock := ""
	if manageStock && f.options.LowStockAmount > 0 {
		lowStock = strconv.Itoa(f.options.LowStockAmount)
	}

	var categories, tags, images string
	if p.Type != domain.ProductTypeVariation {
		categories = strings.Join(p.AssignedCategories, f.options.CategorySeparator)
		tags = strings.Join(f.options.Tags(p), ", ")
		images = strings.Join(p.Images, ", ")
	} else if len(p.Images) > 0 {
		images = p.Images[0]
	}

	position := "0"
	if p.Type == domain.ProductTypeVariation {
		position = strconv.Itoa(p.MenuOrder)
	}

	return []string{
		p.Type.String(),
		p.SKU,
		p.Name,
		boolFlag(published),
		"visible",
		p.ShortDescription,
		p.Description,
		boolFlag(p.InStock),
		formatStock(p.StockQuantity),
		lowStock,
		"0",
		boolFlag(manageStock),
		salePrice(p),
		formatPrice(p.Price),
		formatPrice(p.Weight),
		categories,
		tags,
		images,
		p.ParentSKU,
		position,
	}
}

func (f *WooCommerceFormatter) attributes(p *domain.Product, parent *domain.Product) []wooAttribute {
	switch p.Type {
	case domain.ProductTypeVariable:
		attrs := make([]wooAttribute, 0, len(p.AttributeSets))
		for _, set := range p.AttributeSets {
			attrs = append(attrs, wooAttribute{
				name:    f.options.Label(set.Key),
				values:  strings.Join(set.Values, ", "),
				visible: set.Visible,
				dflt:    set.Default,
			})
		}
		return attrs

	case domain.ProductTypeVariation:
		values := variationValues(p, parent)
		attrs := make([]wooAttribute, 0, len(values))
		for _, a := range values {
			attrs = append(attrs, wooAttribute{name: f.options.Label(a.Key), values: a.Value})
		}
		return attrs

	default:
		attrs := make([]wooAttribute, 0, len(p.Attributes))
		for _, a := range p.Attributes {
			attrs = append(attrs, wooAttribute{name: f.options.Label(a.Key), values: a.Value, visible: true})
		}
		return attrs
	}
}
