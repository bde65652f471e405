package out

import (
	"context"
	"database/sql"
	"fmt"

	"mindfocus/internal/modules/session/domain"
	sessionout "mindfocus/internal/modules/session/port/out"
	"mindfocus/internal/platform/sqlitedb"
)

type SQLiteStatsProjector struct {
	db *sql.DB
}

// NewSQLiteStatsProjector writes into a database opened by sqlitedb.Open.
func NewSQLiteStatsProjector(db *sql.DB) *SQLiteStatsProjector {
	return &SQLiteStatsProjector{db: db}
}

var _ sessionout.StatsProjector = (*SQLiteStatsProjector)(nil)

func (s *SQLiteStatsProjector) Project(ctx context.Context, session domain.Session, path string) error {
	const stmt = `
INSERT INTO sessions (id, reason, category, planned_minutes, started_at, ended_at, duration_minutes, final_focus, average_focus, energy_drinks, snacks, note_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  reason=excluded.reason,
  category=excluded.category,
  planned_minutes=excluded.planned_minutes,
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  duration_minutes=excluded.duration_minutes,
  final_focus=excluded.final_focus,
  average_focus=excluded.average_focus,
  energy_drinks=excluded.energy_drinks,
  snacks=excluded.snacks,
  note_path=excluded.note_path;
`
	stats := session.Stats
	_, err := s.db.ExecContext(ctx, stmt,
		session.ID,
		session.Setup.Reason,
		string(session.Setup.Category),
		session.Setup.DurationMin,
		session.StartedAt.UTC().Format(sqlitedb.TimeLayout),
		session.EndedAt.UTC().Format(sqlitedb.TimeLayout),
		stats.DurationMin,
		stats.FinalFocusScore,
		stats.AverageFocus,
		stats.EnergyDrinks,
		stats.Snacks,
		path,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}
