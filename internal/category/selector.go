package category

import (
	"strings"

	"shopmigrate/converter/internal/domain"
)

// Assignment is the outcome of selecting categories for one product
type Assignment struct {
	Categories []string
	Source     domain.CategorySource
}

// Selector picks the final categories from the matched candidates
type Selector struct {
	settings Settings
}

func NewSelector(settings Settings) *Selector {
	return &Selector{settings: settings}
}

// Select ranks candidates and applies the configured strategy and limit.
// Without candidates it falls back to the original category, then to the default category.
func (s *Selector) Select(p *domain.Product, candidates []Candidate) (Assignment, domain.Findings) {
	var findings domain.Findings

	if len(candidates) == 0 {
		return s.fallback(p, &findings), findings
	}

	ranked := CandidateList(candidates).Rank()
	limit := s.settings.Limit()

	var chosen []Candidate
	switch s.settings.Strategy {
	case domain.StrategyComplementary:
		chosen = pickComplementary(ranked, limit)
	default:
		chosen = pickTop(ranked, limit)
	}

	categories := make([]string, 0, len(chosen))
	for _, c := range chosen {
		categories = append(categories, s.format(c))
	}

	if len(ranked) > len(chosen) {
		findings.AddInfo(domain.FindingClassification, p.SKU,
			"%d matching categories, %d assigned", len(ranked), len(chosen))
	}

	return Assignment{Categories: categories, Source: domain.CategorySourceMatched}, findings
}

func (s *Selector) fallback(p *domain.Product, findings *domain.Findings) Assignment {
	if s.settings.FallbackToOriginal && strings.TrimSpace(p.OriginalCategory) != "" {
		findings.AddInfo(domain.FindingClassification, p.SKU, "no category matched, kept original %q", p.OriginalCategory)
		return Assignment{Categories: []string{p.OriginalCategory}, Source: domain.CategorySourceOriginal}
	}

	findings.AddWarning(domain.FindingClassification, p.SKU,
		"no category matched and no original category, assigned default %q", s.settings.DefaultCategory)

	if s.settings.DefaultCategory == "" {
		return Assignment{Categories: []string{}, Source: domain.CategorySourceDefault}
	}
	return Assignment{Categories: []string{s.settings.DefaultCategory}, Source: domain.CategorySourceDefault}
}

// format renders a candidate as a leaf name or as a full path
func (s *Selector) format(c Candidate) string {
	if s.settings.LeafOnly {
		return c.Node.Name
	}
	return c.Node.FullPath(s.settings.PathSeparator)
}

// pickComplementary keeps the best candidate of each top-level branch
func pickComplementary(ranked []Candidate, limit int) []Candidate {
	chosen := make([]Candidate, 0, limit)
	branches := make(map[string]struct{})

	for _, c := range ranked {
		if len(chosen) == limit {
			break
		}
		if _, used := branches[c.Branch()]; used {
			continue
		}
		branches[c.Branch()] = struct{}{}
		chosen = append(chosen, c)
	}

	return chosen
}

// pickTop keeps exactly the best ranked candidates regardless of branch, even when two of them
// render to the same leaf name
func pickTop(ranked []Candidate, limit int) []Candidate {
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
