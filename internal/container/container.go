package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"shopmigrate/converter/internal/category"
	"shopmigrate/converter/internal/client"
	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/content"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/export"
	"shopmigrate/converter/internal/proxy"
	"shopmigrate/converter/internal/queue"
	"shopmigrate/converter/internal/repository"
	"shopmigrate/converter/internal/service"
	"shopmigrate/converter/internal/source"
	"shopmigrate/converter/internal/variant"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Tree     *category.Tree
	Settings category.Settings
	Loader   *source.Loader
	Client   client.Client
	Service  *service.Service
	Sinks    []export.Sink

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized.
// Postgres and Redis are only connected when their sinks are configured.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	rules, err := category.LoadRules(cfg.Categories.RulesFile)
	if err != nil {
		return nil, err
	}

	tree, err := category.NewTree(rules, cfg.Categories.AttributeKeys)
	if err != nil {
		return nil, err
	}
	container.Tree = tree
	log.Infof("🌳 Loaded category tree with %d nodes in %d branches", tree.Len(), len(tree.Roots()))

	settings, err := category.NewSettings(cfg.Categories)
	if err != nil {
		return nil, err
	}
	container.Settings = settings

	variantSettings, err := variant.NewSettings(cfg.Variants)
	if err != nil {
		return nil, err
	}

	var validator *category.Validator
	if cfg.Categories.ValidateCategories {
		validator = category.NewValidator(tree, settings)
	}

	container.Service = service.NewService(
		variant.NewGrouper(variantSettings),
		variant.NewAggregator(variantSettings),
		category.NewClassifier(category.NewMatcher(tree), category.NewSelector(settings)),
		validator,
		content.NewNormalizer(cfg.Content),
		cfg.Variants.Enabled,
		cfg.Pipeline.Workers,
	)

	container.Loader = source.NewLoader(cfg.Source, cfg.Export.ImageBaseURL)

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Client.Proxies, cfg.Client.ProxyTestURL)
	container.Client = client.NewClient(cfg.Client, proxySupplier)

	if err := container.initSinks(ctx); err != nil {
		container.Close()
		return nil, err
	}

	return container, nil
}

func (c *Container) initSinks(ctx context.Context) error {
	options := export.NewOptions(c.Config.Export, c.Config.Categories.MultiCategorySeparator)

	for _, name := range c.Config.Export.Sinks {
		switch name {
		case "csv":
			formatters, err := export.NewFormatters(c.Config.Export.Formats, options)
			if err != nil {
				return err
			}
			c.Sinks = append(c.Sinks, export.NewCSVSink(c.Config.Export.OutputDir, c.Config.Export.WriteBOM, formatters...))

		case "postgres":
			db, err := pgxpool.New(ctx,
				fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
					c.Config.Database.Host,
					c.Config.Database.Port,
					c.Config.Database.User,
					c.Config.Database.Password,
					c.Config.Database.Name,
				))
			if err != nil {
				return fmt.Errorf("failed to connect to Postgres: %w", err)
			}
			c.db = db
			c.Sinks = append(c.Sinks, export.NewStoreSink(repository.NewProductRepository(db)))

		case "redis":
			rdb := redis.NewClient(&redis.Options{
				Addr:     fmt.Sprintf("%s:%d", c.Config.Redis.Host, c.Config.Redis.Port),
				Password: c.Config.Redis.Password,
				DB:       c.Config.Redis.Database,
			})
			c.redis = rdb

			// Test connection
			if _, err := rdb.Ping(ctx).Result(); err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			log.Info("✅ Connected to Redis successfully")

			c.Sinks = append(c.Sinks, export.NewPublisherSink(queue.NewRedisQueue(rdb, c.Config.Redis)))

		default:
			return fmt.Errorf("%w: unknown export sink %q", domain.ErrConfiguration, name)
		}
	}

	return nil
}

// load downloads the source export when a URL is configured and parses it
func (c *Container) load(ctx context.Context) ([]*domain.Product, domain.Findings, error) {
	path := c.Config.Source.Path
	if c.Config.Source.URL != "" {
		if err := c.Client.Download(ctx, c.Config.Source.URL, path); err != nil {
			return nil, domain.Findings{}, err
		}
	}

	products, findings, err := c.Loader.LoadFile(path)
	if err != nil {
		return nil, findings, err
	}
	log.Debugf("Read %d products from %s", len(products), path)

	return products, findings, nil
}

func (c *Container) transform(ctx context.Context) (*service.Result, error) {
	products, loadFindings, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.Service.Transform(ctx, products)
	if err != nil {
		return nil, err
	}

	findings := loadFindings
	findings.Merge(result.Findings)
	result.Findings = findings

	return result, nil
}

// Run executes a full conversion and hands the batch to every sink
func (c *Container) Run(ctx context.Context) error {
	result, err := c.transform(ctx)
	if err != nil {
		return err
	}

	if c.Config.Client.CheckImages {
		result.Findings.Merge(c.Client.CheckImages(ctx, result.Records))
	}

	batch := &export.Batch{
		RunID:    result.RunID,
		Records:  result.Records,
		Report:   result.Report,
		Findings: result.Findings,
		Stats:    result.Stats,
	}

	for _, sink := range c.Sinks {
		if err := sink.Export(ctx, batch); err != nil {
			return fmt.Errorf("sink %s: %w", sink.Name(), err)
		}
		log.Infof("📦 Exported run %s to %s", batch.RunID, sink.Name())
	}

	printSummary(result)
	return nil
}

// Validate runs the conversion without exporting and reports findings
func (c *Container) Validate(ctx context.Context) error {
	result, err := c.transform(ctx)
	if err != nil {
		return err
	}

	for _, f := range result.Findings.Warnings {
		log.Warn(f.String())
	}
	for _, f := range result.Findings.Infos {
		log.Debug(f.String())
	}

	printSummary(result)
	return nil
}

// ExportCategories writes the configured taxonomy as a category list
func (c *Container) ExportCategories() error {
	path := filepath.Join(c.Config.Export.OutputDir, "categories.csv")
	if err := export.WriteCSVFile(path, export.CategoryTable(c.Tree, c.Settings.PathSeparator), c.Config.Export.WriteBOM); err != nil {
		return err
	}

	log.Infof("💾 Wrote %d categories to %s", c.Tree.Len(), path)
	return nil
}

func printSummary(result *service.Result) {
	fmt.Fprintf(os.Stdout, "Run %s\n", result.RunID)
	fmt.Fprintf(os.Stdout, "  products:   %d\n", result.Stats.Products)
	fmt.Fprintf(os.Stdout, "  simple:     %d\n", result.Stats.Simple)
	fmt.Fprintf(os.Stdout, "  variable:   %d\n", result.Stats.Variable)
	fmt.Fprintf(os.Stdout, "  variations: %d\n", result.Stats.Variations)
	fmt.Fprintf(os.Stdout, "  categories: matched %d, original %d, default %d\n",
		result.Stats.Matched, result.Stats.Original, result.Stats.Default)

	if report := result.Report; report != nil {
		fmt.Fprintf(os.Stdout, "  validation: %d without category, %d single, %d multi, %d over limit, %d unresolved\n",
			report.WithoutCategory, report.SingleCategory, report.MultiCategory, len(report.OverLimit), len(report.Unresolved))
		for i, row := range report.Distribution {
			if i == 10 {
				break
			}
			fmt.Fprintf(os.Stdout, "    %5d  %s\n", row.Products, row.Category)
		}
	}

	fmt.Fprintf(os.Stdout, "  findings:   %d warnings, %d notes\n", len(result.Findings.Warnings), len(result.Findings.Infos))
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}
