package variant

import (
	"regexp"
	"strings"

	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"

	"github.com/Gobusters/ectolinq"
)

// Aggregator turns a cluster into records: a simple product, or a parent followed by variations
type Aggregator struct {
	settings Settings
}

func NewAggregator(settings Settings) *Aggregator {
	return &Aggregator{settings: settings}
}

// Aggregate writes grouping results onto the cluster members and synthesizes the parent.
// Clusters do not share products, so distinct clusters can be aggregated concurrently.
func (a *Aggregator) Aggregate(c *Cluster) domain.Findings {
	var findings domain.Findings

	if !c.IsVariable() {
		p := c.Members[0]
		p.Type = domain.ProductTypeSimple
		p.ParentSKU = ""
		p.AttributeSets = nil
		p.InStock = p.IsInStock()
		c.Parent = nil
		return findings
	}

	sets, setFindings := a.attributeSets(c)
	findings.Merge(setFindings)

	parent := a.parent(c, sets)
	for i, m := range c.Members {
		m.Type = domain.ProductTypeVariation
		m.ParentSKU = parent.SKU
		m.MenuOrder = i + 1
		m.AttributeSets = nil
		m.InStock = m.IsInStock()
	}
	c.Parent = parent

	return findings
}

// attributeSets collects every key present on at least one member, in first-occurrence order
func (a *Aggregator) attributeSets(c *Cluster) ([]domain.AttributeSet, domain.Findings) {
	var findings domain.Findings

	var keys []string
	for _, m := range c.Members {
		for _, key := range m.Attributes.Keys() {
			if !ectolinq.Contains(keys, key) {
				keys = append(keys, key)
			}
		}
	}

	sets := make([]domain.AttributeSet, 0, len(keys))
	for _, key := range keys {
		set := domain.AttributeSet{Key: key, Visible: true}

		for _, m := range c.Members {
			value, ok := m.Attributes.Get(key)
			if !ok {
				findings.AddWarning(domain.FindingGrouping, m.SKU,
					"attribute %q missing while other variants of %s carry it", key, c.Key)
				continue
			}
			value = strings.TrimSpace(value)
			if value != "" && !ectolinq.Contains(set.Values, value) {
				set.Values = append(set.Values, value)
			}
		}

		if len(set.Values) == 0 {
			continue
		}

		set.Default = a.defaultValue(c, key, set.Values, &findings)
		set.Variation = len(set.Values) > 1 || ectolinq.Contains(a.settings.VariationAttributes, key)
		set.Position = len(sets)
		sets = append(sets, set)
	}

	return sets, findings
}

func (a *Aggregator) defaultValue(c *Cluster, key string, values []string, findings *domain.Findings) string {
	if override, ok := a.settings.DefaultOverrides[key]; ok {
		if ectolinq.Contains(values, override) {
			return override
		}
		findings.AddWarning(domain.FindingGrouping, c.Key,
			"default override %q for %q is not among the variant values", override, key)
	}

	if value, ok := c.Members[0].Attributes.Get(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return values[0]
}

func (a *Aggregator) parent(c *Cluster, sets []domain.AttributeSet) *domain.Product {
	first := c.Members[0]

	parent := &domain.Product{
		SKU:              c.Key + a.settings.ParentSKUSuffix,
		MasterCode:       c.Key,
		Name:             a.parentName(first),
		Description:      first.Description,
		ShortDescription: first.ShortDescription,
		Type:             domain.ProductTypeVariable,
		AttributeSets:    sets,
	}

	for _, set := range sets {
		parent.Attributes = append(parent.Attributes, domain.Attribute{Key: set.Key, Value: set.Default})
	}

	for _, m := range c.Members {
		if parent.OriginalCategory == "" {
			parent.OriginalCategory = strings.TrimSpace(m.OriginalCategory)
		}
		if m.IsInStock() {
			parent.InStock = true
		}
		if m.Published {
			parent.Published = true
		}
		for _, img := range m.Images {
			if !ectolinq.Contains(parent.Images, img) {
				parent.Images = append(parent.Images, img)
			}
		}
	}

	return parent
}

// parentName removes the first member's variant values from its name: "Boty Speed 42" becomes "Boty Speed"
func (a *Aggregator) parentName(first *domain.Product) string {
	name := first.Name
	for _, key := range a.settings.ParentNameStripAttributes {
		value, ok := first.Attributes.Get(key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)(^|[\s,/()\-])` + regexp.QuoteMeta(strings.TrimSpace(value)) + `([\s,/()\-]|$)`)
		name = re.ReplaceAllString(name, "${1}${2}")
	}

	name = strings.Trim(normalize.CollapseSpaces(name), " -,/")
	if name == "" {
		return normalize.CollapseSpaces(first.Name)
	}
	return name
}
