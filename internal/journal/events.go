package journal

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

const tableEvents = "events"

var eventColumns = []string{"id", "run_id", "at_ns", "level", "state", "path", "target", "sender", "subject", "message"}

// Record appends one event. It satisfies the pipeline sink contract.
func (s *Store) Record(ctx context.Context, ev entity.Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	query, args := entsql.Dialect(s.drv.Dialect()).
		Insert(tableEvents).
		Columns(eventColumns...).
		Values(ev.ID.String(), ev.RunID, ev.Time.UnixNano(), ev.Level, string(ev.State),
			ev.Path, ev.Target, ev.Sender, ev.Subject, ev.Message).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		s.logger.Error("failed to record event", "path", ev.Path, "state", ev.State, "error", err)
		return common.NewAppError(common.CodeJournal, "record event", err)
	}
	return nil
}

// ListEvents returns events at or after since, oldest first. A zero since returns everything.
func (s *Store) ListEvents(ctx context.Context, since time.Time) ([]entity.Event, error) {
	sel := entsql.Dialect(s.drv.Dialect()).
		Select(eventColumns...).
		From(entsql.Table(tableEvents))
	if !since.IsZero() {
		sel.Where(entsql.GTE("at_ns", since.UnixNano()))
	}
	sel.OrderBy("at_ns", "id")
	query, args := sel.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, common.NewAppError(common.CodeJournal, "list events", err)
	}
	defer rows.Close()

	var out []entity.Event
	for rows.Next() {
		var (
			ev    entity.Event
			id    string
			atNs  int64
			state string
		)
		if err := rows.Scan(&id, &ev.RunID, &atNs, &ev.Level, &state, &ev.Path, &ev.Target, &ev.Sender, &ev.Subject, &ev.Message); err != nil {
			return nil, common.NewAppError(common.CodeJournal, "scan event", err)
		}
		ev.ID, _ = uuid.Parse(id)
		ev.Time = time.Unix(0, atNs)
		ev.State = constants.State(state)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeJournal, "iterate events", err)
	}
	return out, nil
}

// Prune deletes events older than before and returns how many were removed.
// Retention is the caller's policy; nothing prunes implicitly.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	query, args := entsql.Dialect(s.drv.Dialect()).
		Delete(tableEvents).
		Where(entsql.LT("at_ns", before.UnixNano())).
		Query()
	res, err := s.drv.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, common.NewAppError(common.CodeJournal, "prune events", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Info("journal pruned", "before", before.Format(time.RFC3339), "deleted", n)
	return n, nil
}
