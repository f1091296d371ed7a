// Gavel - Contract risk analysis that deploys in 60 seconds.
// Copyright (c) 2025 opensource.legal
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opensource-legal/gavel/internal/analysis"
	"github.com/opensource-legal/gavel/internal/api"
	"github.com/opensource-legal/gavel/internal/bus"
	"github.com/opensource-legal/gavel/internal/cache"
	"github.com/opensource-legal/gavel/internal/domain"
	"github.com/opensource-legal/gavel/internal/regulations"
	"github.com/opensource-legal/gavel/internal/repository"
	"github.com/opensource-legal/gavel/internal/risk"
	"github.com/opensource-legal/gavel/internal/screen"
	"github.com/opensource-legal/gavel/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("GAVEL_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Log startup
	slog.Info("starting gavel",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("GAVEL_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize Regulation Registry
	registry := regulations.NewRegistry()
	slog.Info("regulation registry initialized", "articles", len(registry.All()))

	// Initialize Screening Engine
	engine, err := screen.NewEngine(100)
	if err != nil {
		slog.Error("failed to initialize screening engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	// Built-in rules first, then tenant-configured rules from the database
	if err := loadScreenRules(ctx, repo, engine); err != nil {
		slog.Error("failed to load screening rules", "error", err)
		os.Exit(1)
	}
	slog.Info("screening engine initialized", "rules_count", engine.RulesCount())

	// Initialize Analysis Pipeline
	screener := screen.NewScreener(engine, registry)
	pipeline := analysis.NewPipeline(screener, cfg.Analysis.MaxConcurrency, logger)
	slog.Info("analysis pipeline initialized", "max_concurrency", cfg.Analysis.MaxConcurrency)

	// Initialize Risk Engine
	riskEngine := risk.NewEngine(logger)
	slog.Info("risk engine initialized")

	reportTTL := time.Duration(cfg.Analysis.ReportCacheTTL) * time.Second

	// Initialize async Worker (Pro tier)
	var asyncWorker *worker.Worker
	if cfg.Tier == domain.TierPro || os.Getenv("GAVEL_ASYNC_WORKER") == "true" {
		asyncWorker = worker.NewWorker(busImpl, repo, cacheImpl, pipeline, riskEngine)

		// Get tenant IDs to process (from environment or default)
		tenantIDs := []string{}
		if envTenants := os.Getenv("GAVEL_TENANTS"); envTenants != "" {
			tenantIDs = strings.Split(envTenants, ",")
		}

		workerCfg := worker.Config{
			TenantIDs:      tenantIDs,
			ReportCacheTTL: reportTTL,
		}

		if err := asyncWorker.Start(workerCfg); err != nil {
			slog.Error("failed to start async worker", "error", err)
		} else {
			slog.Info("async worker started", "tenant_count", len(tenantIDs))
		}
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, engine, pipeline, riskEngine, registry, Version, reportTTL)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("gavel is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop async worker first
	if asyncWorker != nil {
		if err := asyncWorker.Stop(); err != nil {
			slog.Error("failed to stop async worker", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("gavel shutdown complete")
}

// GlobalTenantID is used for screening rules that apply to all tenants.
const GlobalTenantID = "*"

// loadScreenRules loads the built-in screening rules plus any rules saved
// via the API into the engine.
func loadScreenRules(ctx context.Context, repo domain.Repository, engine *screen.Engine) error {
	if err := engine.LoadRules(screen.BuiltinRules()); err != nil {
		return err
	}

	dbRules, err := repo.ListScreenRules(ctx, GlobalTenantID)
	if err != nil {
		slog.Warn("failed to list screening rules from database", "error", err)
		return nil // Start with builtins only - custom rules can be added via API
	}

	if len(dbRules) > 0 {
		slog.Info("loading screening rules from database", "count", len(dbRules))
		return engine.LoadRules(dbRules)
	}

	slog.Info("no custom screening rules in database - configure via POST /screen-rules API")
	return nil
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║               ⚖️  GAVEL                    ║")
	fmt.Println("  ║       Contract Risk Analysis Engine       ║")
	fmt.Println("  ║        Every clause, accounted for.       ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /analyze                          - Analyze a contract's clauses")
	fmt.Println("    GET  /reports/{id}                     - Get a risk report by ID")
	fmt.Println("    GET  /documents/{id}                   - Get a document by ID")
	fmt.Println("    GET  /documents/{id}/risk              - Get the latest report for a document")
	fmt.Println("    GET  /documents/{id}/risk/summary      - Get the condensed risk summary")
	fmt.Println("    GET  /documents/{id}/clauses/{clause}  - Get a single clause assessment")
	fmt.Println("    GET  /screen-rules                     - List screening rules")
	fmt.Println("    POST /screen-rules                     - Create a screening rule")
	fmt.Println("    POST /screen-rules/reload              - Hot-reload rules from database")
	fmt.Println("    GET  /regulations                      - List curated regulations")
	fmt.Println("    GET  /health                           - Health check")
	fmt.Println()
}
