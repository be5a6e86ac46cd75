// Package main provides a CLI tool for seeding the catalog and documents
// from a YAML file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inventory/internal/config"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/counter"
	"inventory/internal/domain/documents"
	"inventory/internal/infrastructure/storage"
	"inventory/pkg/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load products and documents from a YAML file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSeed,
	}

	cmd.Flags().StringP("file", "f", "seed.yaml", "Path to the seed file")
	cmd.Flags().String("env-file", ".env", "Optional .env file with storage settings")
	cmd.Flags().Bool("dry-run", false, "Parse the file and exit")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	envFile, _ := cmd.Flags().GetString("env-file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)
	ctx := logger.WithLogger(cmd.Context(), log)

	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()

	fixture, err := LoadFixture(fh)
	if err != nil {
		return err
	}
	log.Infow("seed file parsed", "products", len(fixture.Products), "documents", len(fixture.Documents))
	if dryRun {
		return nil
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = backend.Close(context.Background()) }()

	seeder := NewSeeder(
		product.NewService(backend.Products),
		documents.NewService(
			backend.Documents,
			documents.NewProductResolver(backend.Products, documents.DefaultLookupConcurrency),
			counter.NewAllocator(backend.Counters, cfg.Counter),
			backend.TxManager,
		),
	)

	sum, err := seeder.Apply(ctx, fixture)
	if err != nil {
		return err
	}

	log.Infow("seeding completed successfully",
		"products_created", sum.ProductsCreated,
		"products_skipped", sum.ProductsSkipped,
		"documents_created", sum.DocumentsCreated,
		"documents_skipped", sum.DocumentsSkipped,
	)
	return nil
}
