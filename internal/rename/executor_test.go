package rename

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestExecuteRenamed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scan001.pdf")
	dst := filepath.Join(dir, "20240101_ACME_Rechnung.pdf")
	writeFile(t, src, "letter")

	out := NewExecutor(nil, false).Execute(context.Background(), entity.RenameDecision{Source: src, Target: dst})
	if out.State != constants.StateRenamed {
		t.Fatalf("state = %s, err = %v", out.State, out.Err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source still present: %v", err)
	}
	if got := readFile(t, dst); got != "letter" {
		t.Fatalf("target content = %q", got)
	}
}

func TestExecuteIdentical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "20240101_ACME_Rechnung.pdf")
	writeFile(t, src, "x")

	out := NewExecutor(nil, false).Execute(context.Background(), entity.RenameDecision{Source: src, Target: dir + "/./20240101_ACME_Rechnung.pdf"})
	if out.State != constants.StateSkippedIdentical || out.Err != nil {
		t.Fatalf("state = %s, err = %v", out.State, out.Err)
	}
}

func TestExecuteConflictKeepsBothFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scan002.pdf")
	dst := filepath.Join(dir, "20240101_ACME_Rechnung.pdf")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	out := NewExecutor(nil, false).Execute(context.Background(), entity.RenameDecision{Source: src, Target: dst})
	if out.State != constants.StateConflictSkipped {
		t.Fatalf("state = %s", out.State)
	}
	if !errors.Is(out.Err, common.ErrTargetExists) {
		t.Fatalf("err = %v", out.Err)
	}
	if readFile(t, src) != "new" || readFile(t, dst) != "old" {
		t.Fatal("files were modified")
	}
}

func TestRenameNoReplaceRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dst := filepath.Join(dir, "b")
	writeFile(t, src, "a")
	writeFile(t, dst, "b")
	if err := renameNoReplace(src, dst); !errors.Is(err, common.ErrTargetExists) {
		t.Fatalf("err = %v", err)
	}
	if readFile(t, dst) != "b" {
		t.Fatal("target overwritten")
	}
}

func TestExecuteFailedWhenSourceMissing(t *testing.T) {
	dir := t.TempDir()
	out := NewExecutor(nil, false).Execute(context.Background(), entity.RenameDecision{
		Source: filepath.Join(dir, "gone.pdf"),
		Target: filepath.Join(dir, "20240101_X_Y.pdf"),
	})
	if out.State != constants.StateFailed {
		t.Fatalf("state = %s", out.State)
	}
	if common.CodeOf(out.Err) != common.CodeRename {
		t.Fatalf("code = %q", common.CodeOf(out.Err))
	}
}

func TestExecuteDryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scan.pdf")
	dst := filepath.Join(dir, "20240101_X_Y.pdf")
	writeFile(t, src, "x")

	out := NewExecutor(nil, true).Execute(context.Background(), entity.RenameDecision{Source: src, Target: dst})
	if out.State != constants.StateFieldsReady || out.Target != dst {
		t.Fatalf("outcome = %+v", out)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source touched in dry run: %v", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scan.pdf")
	writeFile(t, src, "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewExecutor(nil, false).Execute(ctx, entity.RenameDecision{Source: src, Target: filepath.Join(dir, "t.pdf")})
	if out.State != constants.StateFailed || !errors.Is(out.Err, context.Canceled) {
		t.Fatalf("outcome = %+v", out)
	}
}
