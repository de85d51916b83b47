package export

import (
	"context"
	"fmt"
	"path/filepath"

	"shopmigrate/converter/internal/category"
	"shopmigrate/converter/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Batch is everything a transform run hands to the sinks
type Batch struct {
	RunID    string
	Records  []*domain.Product
	Report   *category.Report
	Findings domain.Findings
	Stats    domain.RunStats
}

// Sink delivers a finished batch somewhere
type Sink interface {
	Name() string
	Export(ctx context.Context, batch *Batch) error
}

// Formatter renders records into one target layout
type Formatter interface {
	Name() string
	Format(records []*domain.Product) Table
}

// CSVSink writes one file per formatter plus a findings file
type CSVSink struct {
	dir        string
	bom        bool
	formatters []Formatter
}

func NewCSVSink(dir string, bom bool, formatters ...Formatter) *CSVSink {
	return &CSVSink{dir: dir, bom: bom, formatters: formatters}
}

func (s *CSVSink) Name() string {
	return "csv"
}

func (s *CSVSink) Export(ctx context.Context, batch *Batch) error {
	for _, f := range s.formatters {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(s.dir, f.Name()+"_products.csv")
		if err := WriteCSVFile(path, f.Format(batch.Records), s.bom); err != nil {
			return fmt.Errorf("failed to export %s: %w", f.Name(), err)
		}
		log.Infof("💾 Wrote %d records to %s", len(batch.Records), path)
	}

	path := filepath.Join(s.dir, "findings.csv")
	if err := WriteCSVFile(path, FindingsTable(batch.Findings), s.bom); err != nil {
		return fmt.Errorf("failed to export findings: %w", err)
	}

	return nil
}

// FindingsTable lists warnings first, then informational notes
func FindingsTable(findings domain.Findings) Table {
	table := Table{Header: []string{"Severity", "Kind", "SKU", "Message"}}
	for _, f := range findings.Warnings {
		table.Rows = append(table.Rows, []string{"warning", string(f.Kind), f.SKU, f.Message})
	}
	for _, f := range findings.Infos {
		table.Rows = append(table.Rows, []string{"info", string(f.Kind), f.SKU, f.Message})
	}
	return table
}

// ProductStore persists finished records
type ProductStore interface {
	SaveProducts(ctx context.Context, runID string, records []*domain.Product) error
}

// StoreSink adapts a ProductStore to a Sink
type StoreSink struct {
	store ProductStore
}

func NewStoreSink(store ProductStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Name() string {
	return "postgres"
}

func (s *StoreSink) Export(ctx context.Context, batch *Batch) error {
	return s.store.SaveProducts(ctx, batch.RunID, batch.Records)
}

// Publisher hands finished records to downstream consumers
type Publisher interface {
	PublishProducts(ctx context.Context, runID string, records []*domain.Product) error
	PublishReport(ctx context.Context, runID string, stats domain.RunStats, findings domain.Findings) error
}

// PublisherSink adapts a Publisher to a Sink
type PublisherSink struct {
	publisher Publisher
}

func NewPublisherSink(publisher Publisher) *PublisherSink {
	return &PublisherSink{publisher: publisher}
}

func (s *PublisherSink) Name() string {
	return "redis"
}

func (s *PublisherSink) Export(ctx context.Context, batch *Batch) error {
	if err := s.publisher.PublishProducts(ctx, batch.RunID, batch.Records); err != nil {
		return err
	}
	return s.publisher.PublishReport(ctx, batch.RunID, batch.Stats, batch.Findings)
}

// NewFormatters resolves configured format names
func NewFormatters(names []string, options Options) ([]Formatter, error) {
	formatters := make([]Formatter, 0, len(names))
	for _, name := range names {
		switch name {
		case "woocommerce":
			formatters = append(formatters, NewWooCommerceFormatter(options))
		case "webtoffee":
			formatters = append(formatters, NewWebToffeeFormatter(options))
		default:
			return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrConfiguration, name)
		}
	}
	return formatters, nil
}
