//go:build linux

package rename

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joseph-ayodele/scanrename/internal/common"
)

// renameNoReplace uses renameat2(RENAME_NOREPLACE), then link+unlink, then a checked rename.
func renameNoReplace(src, dst string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		return common.ErrTargetExists
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL), errors.Is(err, unix.EOPNOTSUPP):
		return linkUnlink(src, dst)
	default:
		return &os.LinkError{Op: "renameat2", Old: src, New: dst, Err: err}
	}
}

func linkUnlink(src, dst string) error {
	err := os.Link(src, dst)
	switch {
	case err == nil:
		return os.Remove(src)
	case errors.Is(err, os.ErrExist):
		return common.ErrTargetExists
	case errors.Is(err, unix.EPERM), errors.Is(err, unix.EOPNOTSUPP), errors.Is(err, unix.EXDEV):
		return renameChecked(src, dst)
	default:
		return err
	}
}
