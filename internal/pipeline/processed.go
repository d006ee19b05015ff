package pipeline

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/minio/highwayhash"

	"github.com/joseph-ayodele/scanrename/constants"
)

// fingerprintKey is fixed so fingerprints stay comparable across runs.
var fingerprintKey = []byte("scanrename/processed-set/key/v01")

// ProcessedStore persists fingerprints across runs.
type ProcessedStore interface {
	MarkProcessed(ctx context.Context, fingerprint, path string, state constants.State) error
	WasProcessed(ctx context.Context, fingerprint string) (bool, error)
}

// ProcessedSet remembers documents handled in this run and, with a store, in earlier ones.
type ProcessedSet struct {
	mu     sync.Mutex
	seen   map[string]string // fingerprint -> resulting path
	store  ProcessedStore
	logger *slog.Logger
}

// NewProcessedSet creates a set; store may be nil for a run-local set.
func NewProcessedSet(store ProcessedStore, logger *slog.Logger) *ProcessedSet {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessedSet{seen: map[string]string{}, store: store, logger: logger}
}

// Seen reports whether fp was already processed. Store errors count as unseen.
func (s *ProcessedSet) Seen(ctx context.Context, fp string) bool {
	s.mu.Lock()
	_, ok := s.seen[fp]
	s.mu.Unlock()
	if ok || s.store == nil {
		return ok
	}
	found, err := s.store.WasProcessed(ctx, fp)
	if err != nil {
		s.logger.Warn("processed set lookup failed", "fingerprint", fp, "error", err)
		return false
	}
	return found
}

// Mark records fp with the path the document ended up at.
func (s *ProcessedSet) Mark(ctx context.Context, fp, path string, state constants.State) {
	s.mu.Lock()
	s.seen[fp] = path
	s.mu.Unlock()
	if s.store == nil {
		return
	}
	if err := s.store.MarkProcessed(ctx, fp, path, state); err != nil {
		s.logger.Warn("processed set mark failed", "fingerprint", fp, "path", path, "error", err)
	}
}

// Fingerprint hashes file content with HighwayHash-64, so a renamed file keeps its fingerprint.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
