package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-swap-classifier/internal/alerting"
	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/config"
	"solana-swap-classifier/internal/indexer"
	"solana-swap-classifier/internal/ingestion"
	"solana-swap-classifier/internal/observability"
	"solana-swap-classifier/internal/registry"
	"solana-swap-classifier/internal/storage"
	chstore "solana-swap-classifier/internal/storage/clickhouse"
	"solana-swap-classifier/internal/storage/memory"
	"solana-swap-classifier/internal/storage/migrations"
	pgstore "solana-swap-classifier/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (env vars override)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	flag.Parse()

	logger := log.New(os.Stdout, "[classify] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if cfg.Stream.Endpoint == "" {
		logger.Fatal("stream.endpoint is required (SWAPCLASS_STREAM_ENDPOINT)")
	}
	if !*useMemory && cfg.Storage.PostgresDSN == "" {
		logger.Fatal("storage.postgres_dsn is required (use --use-memory for in-memory storage)")
	}

	// Start metrics server if enabled
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = run(ctx, logger, cfg, *useMemory)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// run wires storage, the stream client and the runner from config.
func run(ctx context.Context, logger *log.Logger, cfg *config.Config, useMemory bool) error {
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

	// Analytics log is optional.
	var swapLog storage.SwapLogStore
	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()
		swapLog = chstore.NewSwapLogStore(conn)
		logger.Println("Analytics log enabled")
	}

	// Alert publishing is optional.
	var publisher alerting.Publisher
	if len(cfg.Alerting.Brokers) > 0 {
		kafka, err := alerting.NewKafka(cfg.Alerting.Brokers, cfg.Alerting.Topic)
		if err != nil {
			return fmt.Errorf("connect to kafka: %w", err)
		}
		defer kafka.Close()
		publisher = kafka
		logger.Printf("Alert publishing enabled on topic %s", cfg.Alerting.Topic)
	}

	clientConfig := indexer.DefaultClientConfig()
	if cfg.Stream.ReconnectDelay > 0 {
		clientConfig.ReconnectDelay = cfg.Stream.ReconnectDelay
	}
	if cfg.Stream.MaxReconnectDelay > 0 {
		clientConfig.MaxReconnectDelay = cfg.Stream.MaxReconnectDelay
	}
	if cfg.Stream.PingInterval > 0 {
		clientConfig.PingInterval = cfg.Stream.PingInterval
	}

	stream, err := indexer.NewClient(ctx, cfg.Stream.Endpoint, &clientConfig, logger)
	if err != nil {
		return fmt.Errorf("connect to indexing stream: %w", err)
	}
	defer stream.Close()

	source := ingestion.NewStreamSource(stream, indexer.TransactionFilter{
		Accounts: cfg.Stream.Accounts,
	})

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:       source,
		Classifier:   classifier.New(reg),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		SwapLog:      swapLog,
		Publisher:    publisher,
		Workers:      cfg.Classifier.Workers,
		Logger:       logger,
	})

	logger.Println("Starting live classification...")
	return runner.Run(ctx)
}
