//go:build linux

package naming

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time via statx, or the modification time
// when the filesystem does not record one.
func BirthTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME|unix.STATX_MTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
	}
	fi, statErr := os.Stat(path)
	if statErr != nil {
		return time.Time{}, statErr
	}
	return fi.ModTime(), nil
}
