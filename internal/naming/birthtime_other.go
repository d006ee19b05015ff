//go:build !linux

package naming

import (
	"os"
	"time"
)

// BirthTime falls back to the modification time where statx is unavailable.
func BirthTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
