package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/container"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "converter",
		Short:         "Convert a shop export into WooCommerce import files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	root.AddCommand(
		&cobra.Command{
			Use:   "transform",
			Short: "Group variants, assign categories and export the catalog",
			RunE: withContainer(func(ctx context.Context, app *container.Container) error {
				return app.Run(ctx)
			}),
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Run the conversion and report findings without exporting",
			RunE: withContainer(func(ctx context.Context, app *container.Container) error {
				return app.Validate(ctx)
			}),
		},
		&cobra.Command{
			Use:   "categories",
			Short: "Write the category list for the configured taxonomy",
			RunE: withContainer(func(_ context.Context, app *container.Container) error {
				return app.ExportCategories()
			}),
		},
	)

	if err := root.Execute(); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
}

func withContainer(run func(ctx context.Context, app *container.Container) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		log.Info("Configuration loaded successfully")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := container.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := run(ctx, app); err != nil {
			return err
		}

		log.Info("Application finished successfully")
		return nil
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
