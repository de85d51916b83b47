package category

import (
	"sort"
	"strings"

	"shopmigrate/converter/internal/domain"
)

// CategoryCount is one row of the category distribution
type CategoryCount struct {
	Category string `json:"category"`
	Products int    `json:"products"`
}

// Report summarizes category assignments over a batch. It is advisory only.
type Report struct {
	Total           int             `json:"total"`
	WithoutCategory int             `json:"without_category"`
	SingleCategory  int             `json:"single_category"`
	MultiCategory   int             `json:"multi_category"`
	OverLimit       []string        `json:"over_limit,omitempty"`
	Unresolved      []CategoryCount `json:"unresolved,omitempty"`
	Ambiguous       []string        `json:"ambiguous,omitempty"`
	Distribution    []CategoryCount `json:"distribution"`
	Findings        domain.Findings `json:"findings"`
}

// Validator checks assignments against the tree and the limit. It never modifies products.
type Validator struct {
	tree     *Tree
	settings Settings
}

func NewValidator(tree *Tree, settings Settings) *Validator {
	return &Validator{tree: tree, settings: settings}
}

func (v *Validator) Validate(products []*domain.Product) *Report {
	report := &Report{Total: len(products)}

	distribution := make(map[string]int)
	unresolved := make(map[string]int)
	ambiguous := make(map[string]struct{})
	limit := v.settings.Limit()

	for _, p := range products {
		switch n := len(p.AssignedCategories); {
		case n == 0:
			report.WithoutCategory++
			report.Findings.AddWarning(domain.FindingValidation, p.SKU, "product has no category")
		case n == 1:
			report.SingleCategory++
		default:
			report.MultiCategory++
		}

		if len(p.AssignedCategories) > limit {
			report.OverLimit = append(report.OverLimit, p.SKU)
			report.Findings.AddWarning(domain.FindingValidation, p.SKU,
				"%d categories assigned, limit is %d", len(p.AssignedCategories), limit)
		}

		for _, category := range p.AssignedCategories {
			distribution[category]++

			if category == v.settings.DefaultCategory {
				continue
			}

			nodes := v.resolve(category)
			switch {
			case len(nodes) == 0:
				if unresolved[category] == 0 {
					report.Findings.AddWarning(domain.FindingValidation, p.SKU,
						"category %q does not exist in the taxonomy", category)
				}
				unresolved[category]++
			case len(nodes) > 1:
				if _, seen := ambiguous[category]; !seen {
					report.Findings.AddInfo(domain.FindingValidation, p.SKU,
						"category %q resolves to %d nodes", category, len(nodes))
				}
				ambiguous[category] = struct{}{}
			}
		}
	}

	report.Distribution = sortedCounts(distribution)
	report.Unresolved = sortedCounts(unresolved)
	for category := range ambiguous {
		report.Ambiguous = append(report.Ambiguous, category)
	}
	sort.Strings(report.Ambiguous)

	return report
}

// resolve maps an assigned string to tree nodes. Strings with the path separator are full paths;
// bare names may be a top-level path or a leaf name.
func (v *Validator) resolve(category string) []*Node {
	if strings.Contains(category, v.settings.PathSeparator) {
		if n, ok := v.tree.Lookup(strings.Split(category, v.settings.PathSeparator)); ok {
			return []*Node{n}
		}
		return nil
	}

	if n, ok := v.tree.Lookup([]string{category}); ok && !v.settings.LeafOnly {
		return []*Node{n}
	}
	return v.tree.LookupLeaf(category)
}

func sortedCounts(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, CategoryCount{Category: category, Products: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Products != out[j].Products {
			return out[i].Products > out[j].Products
		}
		return out[i].Category < out[j].Category
	})
	return out
}
