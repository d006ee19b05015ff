package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/scanrename/constants"
)

// Discover lists candidate documents directly inside dir, sorted by name.
// Subdirectories are not descended into. Names starting with an incomplete
// prefix are left alone until the scanner finishes writing them.
func Discover(dir string, allowedExts, incompletePrefixes []string) ([]string, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(dir) == "" {
		return nil, stats, fmt.Errorf("scan dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, stats, fmt.Errorf("read dir %s: %w", dir, err)
	}

	exts := extSet(allowedExts)
	var paths []string
	for _, e := range entries {
		stats.Scanned++
		if e.IsDir() {
			continue
		}
		if !accepted(e.Name(), exts, incompletePrefixes) {
			continue
		}
		stats.Matched++
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, stats, nil
}

func accepted(name string, exts map[string]struct{}, incompletePrefixes []string) bool {
	if constants.IsIncomplete(name, incompletePrefixes) {
		return false
	}
	_, ok := exts[constants.NormalizeExt(filepath.Ext(name))]
	return ok
}

// extSet normalizes the allow-list; an empty list means the default extensions.
func extSet(allowed []string) map[string]struct{} {
	if len(allowed) == 0 {
		return constants.AllowedExtensions
	}
	exts := make(map[string]struct{}, len(allowed))
	for _, e := range allowed {
		if e = constants.NormalizeExt(strings.TrimSpace(e)); e != "" {
			exts[e] = struct{}{}
		}
	}
	return exts
}
