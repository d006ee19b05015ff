package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/app"
	"github.com/joseph-ayodele/scanrename/internal/async"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/ingest"
	"github.com/joseph-ayodele/scanrename/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	flag.StringVar(&cfg.Scan.Dir, "dir", cfg.Scan.Dir, "scan directory to watch (not recursive)")
	flag.StringVar(&cfg.Scan.HeuristicsFile, "config", cfg.Scan.HeuristicsFile, "heuristics YAML file")
	flag.StringVar(&cfg.Journal.URL, "journal", cfg.Journal.URL, "journal SQLite path or postgres:// URL")
	flag.StringVar(&cfg.Server.GRPCAddr, "addr", cfg.Server.GRPCAddr, "gRPC health listen address")
	flag.BoolVar(&cfg.Scan.DryRun, "dry-run", cfg.Scan.DryRun, "log planned renames without touching files")
	flag.BoolVar(&cfg.Server.Gops, "gops", cfg.Server.Gops, "start the gops diagnostics agent")
	flag.Parse()

	logger := app.NewLogger(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Error("scanrenamed exiting", "error", err)
		os.Exit(1)
	}
}

// run owns every resource the daemon opens, so its defers complete before main exits.
func run(cfg *common.Config, logger *slog.Logger) error {
	if cfg.Server.Gops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			logger.Warn("gops agent failed to start", "error", err)
		} else {
			defer agent.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, nil, logger)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer a.Close()

	health := server.NewHealthServer(a.Journal, logger, 30*time.Second)
	go func() {
		if err := health.Serve(ctx, cfg.Server.GRPCAddr); err != nil {
			logger.Error("grpc serve failed", "error", err)
			stop()
		}
	}()

	runID := uuid.NewString()
	attempts := max(cfg.Retry.Attempts, 1)
	queue := async.NewProcessorQueue(a.Batch, logger,
		async.WithContext(common.WithRunID(ctx, runID)),
		async.WithProcessTimeout(time.Duration(attempts+1)*cfg.Scan.DocumentTimeout),
	)

	events, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Dir:                cfg.Scan.Dir,
		AllowedExts:        cfg.Scan.AllowedExts,
		IncompletePrefixes: constants.IncompletePrefixes,
		InitialScan:        true,
		Debounce:           cfg.Scan.WatchDebounce,
	}, logger)
	if err != nil {
		queue.Shutdown(context.Background())
		return fmt.Errorf("watch %s: %w", cfg.Scan.Dir, err)
	}
	logger.Info("watching", "dir", cfg.Scan.Dir, "run_id", runID, "dry_run", cfg.Scan.DryRun)

	for events != nil {
		select {
		case path, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := queue.Enqueue(ctx, async.Job{Path: path}); err != nil {
				logger.Warn("enqueue failed", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Error("watcher error", "error", err)
		}
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
	return nil
}
