package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scanrename/internal/app"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/export"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// errDocumentsFailed marks a run that completed but left failed documents behind.
var errDocumentsFailed = errors.New("documents failed")

func main() {
	// Environment first, flags override
	cfg := common.LoadConfig()
	var report string
	flag.StringVar(&cfg.Scan.Dir, "dir", cfg.Scan.Dir, "scan directory to process (not recursive)")
	flag.StringVar(&cfg.Scan.HeuristicsFile, "config", cfg.Scan.HeuristicsFile, "heuristics YAML file")
	flag.BoolVar(&cfg.Scan.DryRun, "dry-run", cfg.Scan.DryRun, "log planned renames without touching files")
	flag.StringVar(&report, "report", "", "write an XLSX report of this run's journal events")
	flag.IntVar(&cfg.Retry.Attempts, "retries", cfg.Retry.Attempts, "attempts per document for acquisition failures")
	flag.StringVar(&cfg.Journal.URL, "journal", cfg.Journal.URL, "journal SQLite path or postgres:// URL")
	flag.IntVar(&cfg.Journal.RetainDays, "retain-days", cfg.Journal.RetainDays, "prune journal events older than N days (0 keeps all)")
	flag.StringVar(&cfg.Scan.ForceZone, "zone", cfg.Scan.ForceZone, "force a document zone (letter, statement, ...)")
	flag.Parse()

	if err := run(cfg, report); err != nil {
		if !errors.Is(err, errDocumentsFailed) {
			printError("Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run executes one batch; deferred cleanup completes before main picks an exit code.
func run(cfg *common.Config, report string) error {
	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := uuid.NewString()
	ctx = common.WithRunID(ctx, runID)

	a, err := app.New(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Journal.RetainDays > 0 {
		before := time.Now().AddDate(0, 0, -cfg.Journal.RetainDays)
		n, err := a.Journal.Prune(ctx, before)
		if err != nil {
			logger.Warn("journal prune failed", "error", err)
		} else {
			logger.Info("journal pruned", "removed", n, "before", before.Format(time.DateOnly))
		}
	}

	start := time.Now()
	logger.Info("batch starting", "run_id", runID, "dir", cfg.Scan.Dir, "dry_run", cfg.Scan.DryRun)
	outcomes, stats, err := a.RunDir(ctx)
	if err != nil {
		logger.Error("batch aborted", "run_id", runID, "error", err)
	}

	if report != "" {
		svc := export.NewService(a.Journal, logger)
		if err := svc.WriteEventsXLSX(context.WithoutCancel(ctx), report, time.Time{}, runID); err != nil {
			logger.Error("failed to write report", "output", report, "error", err)
		}
	}

	logger.Info("batch complete",
		"run_id", runID,
		"documents", len(outcomes),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	fmt.Printf("Run %s complete!\n", runID)
	fmt.Printf("- Matched: %d\n", stats.Matched)
	if cfg.Scan.DryRun {
		fmt.Printf("- Planned: %d\n", stats.Planned)
	} else {
		fmt.Printf("- Renamed: %d\n", stats.Renamed)
	}
	fmt.Printf("- Already canonical: %d\n", stats.Skipped)
	fmt.Printf("- Conflicts: %d\n", stats.Conflicts)
	fmt.Printf("- Failures: %d\n", stats.Failed)
	if report != "" {
		fmt.Printf("- Report: %s\n", report)
	}

	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return errDocumentsFailed
	}
	return nil
}
