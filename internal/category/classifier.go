package category

import "shopmigrate/converter/internal/domain"

// Classifier runs matching and selection for a product and writes the result onto it
type Classifier struct {
	matcher  *Matcher
	selector *Selector
}

func NewClassifier(matcher *Matcher, selector *Selector) *Classifier {
	return &Classifier{matcher: matcher, selector: selector}
}

// Classify assigns categories to p. A failure while matching degrades to the fallback assignment.
func (c *Classifier) Classify(p *domain.Product) (findings domain.Findings) {
	defer func() {
		if r := recover(); r != nil {
			findings = domain.Findings{}
			findings.AddWarning(domain.FindingClassification, p.SKU, "classification failed: %v", r)
			assignment, fallbackFindings := c.selector.Select(p, nil)
			findings.Merge(fallbackFindings)
			p.AssignedCategories = assignment.Categories
			p.CategorySource = assignment.Source
		}
	}()

	candidates := c.matcher.Match(p)
	assignment, findings := c.selector.Select(p, candidates)

	p.AssignedCategories = assignment.Categories
	p.CategorySource = assignment.Source

	return findings
}
