package repository

import (
	"context"
	"fmt"

	"shopmigrate/converter/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const batchSize = 500

type ProductRepository interface {
	SaveProducts(ctx context.Context, runID string, records []*domain.Product) error
}

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{
		db: db,
	}
}

// SaveProducts upserts records keyed by SKU, in chunks sent as pgx batches
func (r *productRepository) SaveProducts(ctx context.Context, runID string, records []*domain.Product) error {
	query := `
	INSERT INTO converted_products (sku, run_id, product_type, parent_sku, categories, data)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (sku)
	DO UPDATE SET run_id = $2, product_type = $3, parent_sku = $4, categories = $5, data = $6`

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))

		batch := &pgx.Batch{}
		for _, p := range records[start:end] {
			batch.Queue(query, p.SKU, runID, p.Type.String(), p.ParentSKU, p.AssignedCategories, p)
		}

		if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save products %d-%d: %w", start, end, err)
		}
	}

	return nil
}
