package domain

import (
	"fmt"
	"strings"
)

// SelectionStrategy decides how matched categories are chosen for a product
type SelectionStrategy string

func (s SelectionStrategy) String() string {
	return string(s)
}

const (
	// StrategyComplementary picks at most one category per top-level branch
	StrategyComplementary SelectionStrategy = "complementary"
	// StrategyAllMatches takes the best ranked candidates regardless of branch
	StrategyAllMatches SelectionStrategy = "all_matches"
)

// ParseSelectionStrategy rejects unknown strategy names instead of silently falling back
func ParseSelectionStrategy(value string) (SelectionStrategy, error) {
	switch s := SelectionStrategy(strings.ToLower(strings.TrimSpace(value))); s {
	case StrategyComplementary, StrategyAllMatches:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown multi-category strategy %q", ErrConfiguration, value)
	}
}
