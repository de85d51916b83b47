package variant

import (
	"shopmigrate/converter/internal/domain"

	"github.com/Gobusters/ectolinq"
)

// CheckStructure verifies the parent/variation layout of the emitted records
func CheckStructure(records []*domain.Product) domain.Findings {
	var findings domain.Findings

	parents := ectolinq.Filter(records, func(p *domain.Product) bool {
		return p.Type == domain.ProductTypeVariable
	})
	parentSKUs := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		parentSKUs[p.SKU] = struct{}{}

		if len(p.AttributeSets) == 0 {
			findings.AddWarning(domain.FindingStructure, p.SKU, "variable product has no attributes")
		}
		if p.Price != nil || p.StockQuantity != nil {
			findings.AddWarning(domain.FindingStructure, p.SKU, "variable product must not carry price or stock")
		}
	}

	variations := ectolinq.Filter(records, func(p *domain.Product) bool {
		return p.Type == domain.ProductTypeVariation
	})
	for _, v := range variations {
		if _, ok := parentSKUs[v.ParentSKU]; !ok {
			findings.AddWarning(domain.FindingStructure, v.SKU, "parent %q does not exist", v.ParentSKU)
		}
		if len(v.Attributes) == 0 {
			findings.AddWarning(domain.FindingStructure, v.SKU, "variation has no attributes")
		}
	}

	return findings
}
