package task

import "shopmigrate/converter/internal/domain"

// RunReportTask closes a run: consumers know every product task of RunID has been published
type RunReportTask struct {
	RunID    string          `json:"run_id"`
	Stats    domain.RunStats `json:"stats"`
	Findings domain.Findings `json:"findings"`
}

func (t *RunReportTask) TaskType() string {
	return "RunReportTask"
}

func (t *RunReportTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
