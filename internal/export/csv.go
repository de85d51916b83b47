package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const utf8BOM = "\ufeff"

// Table is a rendered export: one header and rows of the same width
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteCSV writes the table, optionally prefixed with a UTF-8 BOM so that spreadsheet tools detect the encoding
func WriteCSV(w io.Writer, table Table, bom bool) error {
	if bom {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// WriteCSVFile creates path with its parent directories and writes the table into it
func WriteCSVFile(path string, table Table, bom bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteCSV(f, table, bom); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
