// Package rename applies a RenameDecision to the filesystem without ever overwriting.
package rename

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

// Executor performs the final, exclusive rename of one document.
type Executor struct {
	logger *slog.Logger
	dryRun bool
}

func NewExecutor(logger *slog.Logger, dryRun bool) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger, dryRun: dryRun}
}

// DryRun reports whether renames are only planned.
func (e *Executor) DryRun() bool { return e.dryRun }

// Execute moves d.Source to d.Target. Conflicts are refused, never resolved by suffixing.
func (e *Executor) Execute(ctx context.Context, d entity.RenameDecision) entity.Outcome {
	out := entity.Outcome{Source: d.Source, Target: d.Target, Decision: &d}

	if filepath.Clean(d.Source) == filepath.Clean(d.Target) {
		out.State = constants.StateSkippedIdentical
		e.logger.Info("rename.identical", "path", d.Source)
		return out
	}
	if e.dryRun {
		out.State = constants.StateFieldsReady
		e.logger.Info("rename.planned", "path", d.Source, "target", d.Target)
		return out
	}
	if err := ctx.Err(); err != nil {
		out.State = constants.StateFailed
		out.Err = common.NewAppError(common.CodeRename, "rename cancelled", err)
		return out
	}

	if _, err := os.Lstat(d.Target); err == nil {
		return e.conflict(out)
	} else if !errors.Is(err, os.ErrNotExist) {
		return e.failed(out, err)
	}

	if err := renameNoReplace(d.Source, d.Target); err != nil {
		if errors.Is(err, common.ErrTargetExists) {
			return e.conflict(out)
		}
		return e.failed(out, err)
	}

	out.State = constants.StateRenamed
	e.logger.Info("rename.done", "path", d.Source, "target", d.Target)
	return out
}

func (e *Executor) conflict(out entity.Outcome) entity.Outcome {
	out.State = constants.StateConflictSkipped
	out.Err = common.ErrTargetExists
	e.logger.Warn("rename.conflict", "path", out.Source, "target", out.Target)
	return out
}

func (e *Executor) failed(out entity.Outcome, err error) entity.Outcome {
	out.State = constants.StateFailed
	out.Err = common.NewAppError(common.CodeRename, "rename failed", err)
	e.logger.Error("rename.failed", "path", out.Source, "target", out.Target, "error", err)
	return out
}

// renameChecked is the portable fallback: an existence check followed by a plain rename.
// It is not atomic against concurrent writers in the same directory.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return common.ErrTargetExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
