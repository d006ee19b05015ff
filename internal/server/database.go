package server

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/journal"
)

// ConnectJournal opens the journal store described by cfg and migrates it.
func ConnectJournal(ctx context.Context, cfg common.JournalConfig, logger *slog.Logger) (*journal.Store, error) {
	logger.Info("connecting to journal", "url", redact(cfg.URL))
	store, err := journal.Open(ctx, journal.Config{
		URL:             cfg.URL,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
		DialTimeout:     cfg.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to journal", "error", err)
		return nil, err
	}
	logger.Info("journal ready", "dialect", store.Dialect())
	return store, nil
}

// PingJournal checks the journal is responsive.
func PingJournal(ctx context.Context, store *journal.Store, logger *slog.Logger, timeout time.Duration) error {
	logger.Debug("pinging journal")
	if err := store.Ping(ctx, timeout); err != nil {
		logger.Error("journal ping failed", "error", err)
		return err
	}
	return nil
}

// CloseJournal closes the store; nil is allowed.
func CloseJournal(store *journal.Store, logger *slog.Logger) {
	if store == nil {
		return
	}
	store.Close()
	logger.Info("journal closed")
}

// redact hides the password of a postgres URL for logging.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
