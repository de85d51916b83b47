package domain

import "fmt"

type FindingKind string

const (
	FindingClassification FindingKind = "classification"
	FindingGrouping       FindingKind = "grouping"
	FindingValidation     FindingKind = "validation"
	FindingStructure      FindingKind = "structure"
	FindingContent        FindingKind = "content"
	FindingSource         FindingKind = "source"
)

// Finding is a non-fatal observation about a single record
type Finding struct {
	Kind    FindingKind `json:"kind"`
	SKU     string      `json:"sku,omitempty"`
	Message string      `json:"message"`
}

func (f Finding) String() string {
	if f.SKU == "" {
		return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Kind, f.SKU, f.Message)
}

// Findings collects warnings and informational notes of a run. Nothing in here stops a batch.
type Findings struct {
	Warnings []Finding `json:"warnings,omitempty"`
	Infos    []Finding `json:"infos,omitempty"`
}

func (f *Findings) AddWarning(kind FindingKind, sku, format string, args ...any) {
	f.Warnings = append(f.Warnings, Finding{Kind: kind, SKU: sku, Message: fmt.Sprintf(format, args...)})
}

func (f *Findings) AddInfo(kind FindingKind, sku, format string, args ...any) {
	f.Infos = append(f.Infos, Finding{Kind: kind, SKU: sku, Message: fmt.Sprintf(format, args...)})
}

// Merge appends other in order
func (f *Findings) Merge(other Findings) {
	f.Warnings = append(f.Warnings, other.Warnings...)
	f.Infos = append(f.Infos, other.Infos...)
}

func (f Findings) IsEmpty() bool {
	return len(f.Warnings) == 0 && len(f.Infos) == 0
}

// Count returns the number of warnings of the given kind
func (f Findings) Count(kind FindingKind) int {
	n := 0
	for _, w := range f.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
