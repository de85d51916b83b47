package service

import (
	"context"
	"fmt"

	"shopmigrate/converter/internal/category"
	"shopmigrate/converter/internal/content"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/variant"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one transform run
type Result struct {
	RunID    string // fresh per run, never part of record content
	Records  []*domain.Product
	Findings domain.Findings
	Report   *category.Report // nil when validation is disabled
	Stats    domain.RunStats
}

type Service struct {
	grouper         *variant.Grouper
	aggregator      *variant.Aggregator
	classifier      *category.Classifier
	validator       *category.Validator
	normalizer      *content.Normalizer
	variantsEnabled bool
	workers         int
}

func NewService(
	grouper *variant.Grouper,
	aggregator *variant.Aggregator,
	classifier *category.Classifier,
	validator *category.Validator,
	normalizer *content.Normalizer,
	variantsEnabled bool,
	workers int,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		grouper:         grouper,
		aggregator:      aggregator,
		classifier:      classifier,
		validator:       validator,
		normalizer:      normalizer,
		variantsEnabled: variantsEnabled,
		workers:         workers,
	}
}

// Transform groups, aggregates and classifies products. The input is not modified and
// the same input always yields the same records in the same order.
func (s *Service) Transform(ctx context.Context, products []*domain.Product) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}

	input := make([]*domain.Product, len(products))
	for i, p := range products {
		input[i] = p.Clone()
	}

	clusters, findings := s.group(input)
	result.Findings.Merge(findings)
	log.Infof("🔄 Grouped %d products into %d clusters", len(input), len(clusters))

	clusterFindings := make([]domain.Findings, len(clusters))
	err := s.parallel(ctx, len(clusters), func(i int) {
		clusterFindings[i] = s.aggregator.Aggregate(clusters[i])
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate variants: %w", err)
	}
	for _, f := range clusterFindings {
		result.Findings.Merge(f)
	}

	records := variant.Flatten(clusters)

	recordFindings := make([]domain.Findings, len(records))
	err = s.parallel(ctx, len(records), func(i int) {
		p := records[i]
		if s.normalizer != nil {
			recordFindings[i].Merge(s.normalizer.Normalize(p))
		}
		recordFindings[i].Merge(s.classifier.Classify(p))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify products: %w", err)
	}
	for _, f := range recordFindings {
		result.Findings.Merge(f)
	}

	result.Findings.Merge(variant.CheckStructure(records))

	result.Stats.Products = len(input)
	for _, p := range records {
		result.Stats.Count(p)
	}

	if s.validator != nil {
		result.Report = s.validator.Validate(records)
		result.Findings.Merge(result.Report.Findings)
	}

	result.Records = records

	log.Infof("✅ Run %s: %d simple, %d variable, %d variations; categories matched %d, original %d, default %d",
		result.RunID,
		result.Stats.Simple, result.Stats.Variable, result.Stats.Variations,
		result.Stats.Matched, result.Stats.Original, result.Stats.Default)
	if n := len(result.Findings.Warnings); n > 0 {
		log.Warnf("⚠️ Run %s finished with %d warnings", result.RunID, n)
	}

	return result, nil
}

func (s *Service) group(products []*domain.Product) ([]*variant.Cluster, domain.Findings) {
	if s.variantsEnabled {
		return s.grouper.Group(products)
	}

	clusters := make([]*variant.Cluster, 0, len(products))
	for _, p := range products {
		clusters = append(clusters, &variant.Cluster{Key: p.SKU, Members: []*domain.Product{p}})
	}
	return clusters, domain.Findings{}
}

// parallel runs fn for every index with bounded concurrency. Each index owns its own result slot,
// which keeps the output independent of scheduling.
func (s *Service) parallel(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
