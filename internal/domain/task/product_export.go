package task

import "shopmigrate/converter/internal/domain"

// ProductExportTask carries one finished record to downstream importers
type ProductExportTask struct {
	RunID   string          `json:"run_id"`
	Product *domain.Product `json:"product"`
}

func (t *ProductExportTask) TaskType() string {
	return "ProductExportTask"
}

func (t *ProductExportTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
