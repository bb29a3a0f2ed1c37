package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/config"
	"solana-swap-classifier/internal/ingestion"
	"solana-swap-classifier/internal/registry"
	"solana-swap-classifier/internal/storage"
	"solana-swap-classifier/internal/storage/memory"
	"solana-swap-classifier/internal/storage/migrations"
	pgstore "solana-swap-classifier/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (env vars override)")
	capturePath := flag.String("capture", "", "Path to JSONL capture file to replay")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	flag.Parse()

	logger := log.New(os.Stdout, "[replay] ", log.LstdFlags|log.Lshortfile)

	if *capturePath == "" {
		logger.Fatal("--capture is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if !*useMemory && cfg.Storage.PostgresDSN == "" {
		logger.Fatal("storage.postgres_dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg, *capturePath, *useMemory); err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Replay complete")
}

// run classifies every payload in the capture file. Classification is
// deterministic and the stores tolerate duplicates, so replaying over an
// existing database is safe.
func run(ctx context.Context, logger *log.Logger, cfg *config.Config, capturePath string, useMemory bool) error {
	reg, err := registry.Default().WithMinValues(cfg.Classifier.MinValues)
	if err != nil {
		return fmt.Errorf("apply min value overrides: %w", err)
	}

	var swapStore storage.ParsedSwapStore = memory.NewParsedSwapStore()
	var erasureStore storage.ErasureStore = memory.NewErasureStore()

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		swapStore = pgstore.NewParsedSwapStore(pool)
		erasureStore = pgstore.NewErasureStore(pool)
	}

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:       ingestion.NewFileSource(capturePath),
		Classifier:   classifier.New(reg),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Workers:      cfg.Classifier.Workers,
		Logger:       logger,
	})

	logger.Printf("Replaying capture %s", capturePath)
	return runner.Run(ctx)
}
