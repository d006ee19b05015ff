package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{URL: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestOpenMigratesTwice(t *testing.T) {
	s := openMemory(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if s.Dialect() != "sqlite3" {
		t.Fatalf("dialect = %q", s.Dialect())
	}
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []entity.Event{
		{Time: base, RunID: "r1", Level: "INFO", State: constants.StateRenamed, Path: "/in/a.pdf", Target: "/in/20240501_A_B.pdf", Sender: "A", Subject: "B", Message: "renamed"},
		{Time: base.Add(time.Minute), RunID: "r1", Level: "WARN", State: constants.StateConflictSkipped, Path: "/in/b.pdf", Message: "conflict"},
		{ID: uuid.New(), Time: base.Add(2 * time.Minute), RunID: "r1", Level: "ERROR", State: constants.StateFailed, Path: "/in/c.pdf", Message: "boom"},
	}
	for _, ev := range events {
		if err := s.Record(ctx, ev); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := s.ListEvents(ctx, time.Time{})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events", len(all))
	}
	if all[0].Path != "/in/a.pdf" || all[0].Target != "/in/20240501_A_B.pdf" || all[0].State != constants.StateRenamed {
		t.Fatalf("first = %+v", all[0])
	}
	if !all[2].Time.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("time = %v", all[2].Time)
	}
	if all[0].ID == uuid.Nil {
		t.Fatal("id not assigned")
	}

	recent, err := s.ListEvents(ctx, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("ListEvents since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d recent events", len(recent))
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	now := time.Now()
	for _, age := range []time.Duration{40 * 24 * time.Hour, 31 * 24 * time.Hour, time.Hour} {
		if err := s.Record(ctx, entity.Event{Time: now.Add(-age), Level: "INFO", State: constants.StateRenamed, Path: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.Prune(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Fatalf("pruned %d, want 2", n)
	}
	left, _ := s.ListEvents(ctx, time.Time{})
	if len(left) != 1 {
		t.Fatalf("left %d", len(left))
	}
}

func TestProcessedSet(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	seen, err := s.WasProcessed(ctx, "abc")
	if err != nil || seen {
		t.Fatalf("fresh: seen=%v err=%v", seen, err)
	}
	if err := s.MarkProcessed(ctx, "abc", "/in/a.pdf", constants.StateRenamed); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if err := s.MarkProcessed(ctx, "abc", "/in/b.pdf", constants.StateSkippedIdentical); err != nil {
		t.Fatalf("MarkProcessed upsert: %v", err)
	}
	seen, err = s.WasProcessed(ctx, "abc")
	if err != nil || !seen {
		t.Fatalf("after mark: seen=%v err=%v", seen, err)
	}
}

func TestFileBackedStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(ctx, Config{URL: path}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.MarkProcessed(ctx, "fp", "/in/a.pdf", constants.StateRenamed); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(ctx, Config{URL: path}, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if seen, _ := s2.WasProcessed(ctx, "fp"); !seen {
		t.Fatal("processed mark lost across reopen")
	}
}

func TestIsPostgres(t *testing.T) {
	for url, want := range map[string]bool{
		"postgres://u@h/db":   true,
		"postgresql://u@h/db": true,
		"scanrename.db":       false,
		":memory:":            false,
	} {
		if got := isPostgres(url); got != want {
			t.Errorf("isPostgres(%q) = %v", url, got)
		}
	}
}
