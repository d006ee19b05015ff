package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

type blankPage struct{}

func (blankPage) ExtractPage(context.Context, string) (entity.Page, error) {
	return entity.Page{Width: 2100, Height: 2970, DPI: 254}, nil
}

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	cfg := common.LoadConfig()
	cfg.Journal.URL = ":memory:"
	cfg.Scan.Dir = t.TempDir()
	cfg.Retry.Backoff = 0
	return cfg
}

func TestRunDirJournalsOutcomes(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(cfg.Scan.Dir, "scan.pdf")
	if err := os.WriteFile(src, []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	a, err := New(ctx, cfg, blankPage{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	outs, stats, err := a.RunDir(common.WithRunID(ctx, "run-1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(outs) != 1 || outs[0].State != constants.StateRenamed || stats.Renamed != 1 {
		t.Fatalf("outcomes = %+v stats = %+v", outs, stats)
	}

	evs, err := a.Journal.ListEvents(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 1 || evs[0].RunID != "run-1" || evs[0].State != constants.StateRenamed {
		t.Fatalf("events = %+v", evs)
	}

	// the renamed file is now canonical and its fingerprint is journaled
	again, _, err := a.RunDir(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 1 || again[0].State != constants.StateSkippedIdentical {
		t.Fatalf("second run = %+v", again)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*common.Config)
	}{
		{"unknown zone", func(c *common.Config) { c.Scan.ForceZone = "postcard" }},
		{"missing heuristics file", func(c *common.Config) { c.Scan.HeuristicsFile = "/nonexistent/heuristics.yaml" }},
		{"zero retries", func(c *common.Config) { c.Retry.Attempts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			a, err := New(context.Background(), cfg, blankPage{}, nil)
			if err == nil {
				a.Close()
				t.Fatal("expected error")
			}
			if common.CodeOf(err) != common.CodeConfig {
				t.Fatalf("code = %q (%v)", common.CodeOf(err), err)
			}
		})
	}
}
