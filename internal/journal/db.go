// Package journal is the append-only event log and the cross-run processed set.
// It speaks SQLite by default and Postgres when given a postgres:// URL.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // pure Go sqlite driver

	"github.com/joseph-ayodele/scanrename/internal/common"
)

type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// Store wraps an ent SQL driver for either backend.
type Store struct {
	drv    *entsql.Driver
	pool   *pgxpool.Pool // nil for SQLite
	logger *slog.Logger
}

// Open connects, applies the schema and returns a ready store.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		s   *Store
		err error
	)
	if isPostgres(cfg.URL) {
		s, err = openPostgres(ctx, cfg, logger)
	} else {
		s, err = openSQLite(cfg, logger)
	}
	if err != nil {
		return nil, common.NewAppError(common.CodeJournal, "open journal", fmt.Errorf("%w: %v", common.ErrJournalUnavailable, err))
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, common.NewAppError(common.CodeJournal, "migrate journal", err)
	}
	return s, nil
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	logger.Info("connecting to journal", "backend", dialect.Postgres)
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "scanrename"

	dialCtx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, err
	}

	// Wrap pool as *sql.DB for ent
	db := stdlib.OpenDBFromPool(pool)
	return &Store{drv: entsql.OpenDB(dialect.Postgres, db), pool: pool, logger: logger}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*Store, error) {
	path := cfg.URL
	if path == "" {
		path = "scanrename.db"
	}
	logger.Info("opening journal", "backend", dialect.SQLite, "path", path)

	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{drv: entsql.OpenDB(dialect.SQLite, db), logger: logger}, nil
}

// Dialect reports the SQL dialect in use.
func (s *Store) Dialect() string { return s.drv.Dialect() }

// Ping checks connectivity within timeout.
func (s *Store) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := common.WithTimeout(ctx, timeout)
	defer cancel()
	return s.drv.DB().PingContext(ctx)
}

// Close closes the database connections gracefully
func (s *Store) Close() {
	s.logger.Info("closing journal")
	if err := s.drv.Close(); err != nil {
		s.logger.Error("failed to close journal driver", "error", err)
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
