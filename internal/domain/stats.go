package domain

// RunStats counts what a transform run produced
type RunStats struct {
	Products   int `json:"products"`
	Simple     int `json:"simple"`
	Variable   int `json:"variable"`
	Variations int `json:"variations"`
	Matched    int `json:"matched"`
	Original   int `json:"original"`
	Default    int `json:"default"`
}

// Count adds one record to the counters
func (s *RunStats) Count(p *Product) {
	switch p.Type {
	case ProductTypeSimple:
		s.Simple++
	case ProductTypeVariable:
		s.Variable++
	case ProductTypeVariation:
		s.Variations++
	}

	switch p.CategorySource {
	case CategorySourceMatched:
		s.Matched++
	case CategorySourceOriginal:
		s.Original++
	case CategorySourceDefault:
		s.Default++
	}
}
