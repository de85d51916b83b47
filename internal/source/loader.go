package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"

	log "github.com/sirupsen/logrus"
)

const utf8BOM = "\ufeff"

// Loader reads the source platform export into products
type Loader struct {
	cfg          config.SourceConfig
	aliases      map[string]string
	imageBaseURL string
}

func NewLoader(cfg config.SourceConfig, imageBaseURL string) *Loader {
	return &Loader{
		cfg:          cfg,
		aliases:      normalizeAliases(cfg.AttributeAliases),
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
	}
}

// LoadFile opens path and reads it with Load
func (l *Loader) LoadFile(path string) ([]*domain.Product, domain.Findings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.Findings{}, fmt.Errorf("failed to open source export: %w", err)
	}
	defer f.Close()

	return l.Load(f)
}

// Load parses delimited rows. Rows without a SKU are skipped, unparseable numbers are left empty;
// both are reported as findings.
func (l *Loader) Load(r io.Reader) ([]*domain.Product, domain.Findings, error) {
	var findings domain.Findings

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	if l.cfg.Delimiter != "" {
		delimiter, _ := utf8.DecodeRuneInString(l.cfg.Delimiter)
		reader.Comma = delimiter
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, findings, fmt.Errorf("source export is empty")
		}
		return nil, findings, fmt.Errorf("failed to read source header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns[l.cfg.Columns.SKU]; !ok {
		return nil, findings, fmt.Errorf("source export has no %q column", l.cfg.Columns.SKU)
	}

	var products []*domain.Product
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, findings, fmt.Errorf("failed to read source line %d: %w", line, err)
		}

		row := sourceRow{record: record, columns: columns}
		p := l.product(row, &findings)
		if p.SKU == "" {
			findings.AddWarning(domain.FindingSource, "", "line %d has no SKU, skipped", line)
			continue
		}
		products = append(products, p)
	}

	log.Infof("📥 Loaded %d products from source export", len(products))
	return products, findings, nil
}

func (l *Loader) product(row sourceRow, findings *domain.Findings) *domain.Product {
	c := l.cfg.Columns

	p := &domain.Product{
		SKU:              row.get(c.SKU),
		MasterCode:       row.get(c.MasterCode),
		Name:             normalize.CollapseSpaces(row.get(c.Name)),
		Attributes:       ParseParameters(row.get(c.Parameters), l.aliases),
		OriginalCategory: row.get(c.Category),
		Description:      row.get(c.Description),
		ShortDescription: row.get(c.ShortDescription),
		Published:        !isTruthy(row.get(c.Disabled)),
	}

	p.Price = l.decimal(p.SKU, c.RegularPrice, row.get(c.RegularPrice), findings)
	p.SalePrice = l.decimal(p.SKU, c.SalePrice, row.get(c.SalePrice), findings)
	p.Weight = l.decimal(p.SKU, c.Weight, row.get(c.Weight), findings)
	if stock := l.decimal(p.SKU, c.Stock, row.get(c.Stock), findings); stock != nil {
		qty := int(math.Round(*stock))
		p.StockQuantity = &qty
	}

	p.Images = l.images(row.get(c.MainImage), row.get(c.Images))

	return p
}

func (l *Loader) decimal(sku, column, raw string, findings *domain.Findings) *float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		findings.AddWarning(domain.FindingSource, sku, "column %s has unparseable number %q", column, raw)
		return nil
	}
	return &value
}

func (l *Loader) images(main, extra string) []string {
	var images []string
	add := func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") && l.imageBaseURL != "" {
			path = l.imageBaseURL + "/" + strings.TrimLeft(path, "/")
		}
		for _, existing := range images {
			if existing == path {
				return
			}
		}
		images = append(images, path)
	}

	add(main)
	for _, path := range strings.FieldsFunc(extra, func(r rune) bool { return r == ';' || r == '|' || r == ',' }) {
		add(path)
	}
	return images
}

type sourceRow struct {
	record  []string
	columns map[string]int
}

func (r sourceRow) get(column string) string {
	if column == "" {
		return ""
	}
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "ano", "y":
		return true
	default:
		return false
	}
}
