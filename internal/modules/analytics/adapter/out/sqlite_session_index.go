package out

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mindfocus/internal/modules/analytics/domain"
	analyticsout "mindfocus/internal/modules/analytics/port/out"
	"mindfocus/internal/platform/sqlitedb"
)

type SQLiteSessionIndex struct {
	db *sql.DB
}

// NewSQLiteSessionIndex reads a database opened by sqlitedb.Open.
func NewSQLiteSessionIndex(db *sql.DB) analyticsout.SessionIndex {
	return &SQLiteSessionIndex{db: db}
}

const selectColumns = `SELECT id, reason, category, planned_minutes, started_at, ended_at, duration_minutes, final_focus, average_focus, energy_drinks, snacks, note_path FROM sessions`

func (s *SQLiteSessionIndex) List(ctx context.Context) ([]domain.Record, error) {
	return s.query(ctx, selectColumns+` ORDER BY started_at DESC`)
}

func (s *SQLiteSessionIndex) FindByPrefix(ctx context.Context, prefix string) ([]domain.Record, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return s.query(ctx, selectColumns+` WHERE id LIKE ? ESCAPE '\' ORDER BY started_at DESC`, escaped+"%")
}

func (s *SQLiteSessionIndex) query(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var r domain.Record
		var started, ended string
		if err := rows.Scan(&r.ID, &r.Reason, &r.Category, &r.PlannedMinutes, &started, &ended,
			&r.DurationMin, &r.FinalFocus, &r.AverageFocus, &r.EnergyDrinks, &r.Snacks, &r.NotePath); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if r.StartedAt, err = time.Parse(sqlitedb.TimeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at for %s: %w", r.ID, err)
		}
		if r.EndedAt, err = time.Parse(sqlitedb.TimeLayout, ended); err != nil {
			return nil, fmt.Errorf("parse ended_at for %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
