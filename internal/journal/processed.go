package journal

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
)

const tableProcessed = "processed"

// MarkProcessed remembers a fingerprint across runs; a later mark replaces an earlier one.
func (s *Store) MarkProcessed(ctx context.Context, fingerprint, path string, state constants.State) error {
	query, args := entsql.Dialect(s.drv.Dialect()).
		Insert(tableProcessed).
		Columns("fingerprint", "path", "state", "at_ns").
		Values(fingerprint, path, string(state), time.Now().UnixNano()).
		OnConflict(
			entsql.ConflictColumns("fingerprint"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return common.NewAppError(common.CodeJournal, "mark processed", err)
	}
	return nil
}

// WasProcessed reports whether fingerprint was marked in any earlier run.
func (s *Store) WasProcessed(ctx context.Context, fingerprint string) (bool, error) {
	query, args := entsql.Dialect(s.drv.Dialect()).
		Select(entsql.Count("*")).
		From(entsql.Table(tableProcessed)).
		Where(entsql.EQ("fingerprint", fingerprint)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return false, common.NewAppError(common.CodeJournal, "lookup processed", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, common.NewAppError(common.CodeJournal, "scan processed", err)
		}
	}
	return n > 0, rows.Err()
}
