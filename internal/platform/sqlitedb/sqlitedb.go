// Package sqlitedb opens the session index shared by the session projector
// and analytics.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const TimeLayout = "2006-01-02T15:04:05Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  reason TEXT NOT NULL,
  category TEXT NOT NULL,
  planned_minutes INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  duration_minutes REAL NOT NULL,
  final_focus INTEGER NOT NULL,
  average_focus REAL NOT NULL,
  energy_drinks INTEGER NOT NULL,
  snacks INTEGER NOT NULL,
  note_path TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_started_at ON sessions(started_at);
`

// Open creates the database directory, opens the file and applies the
// schema.
func Open(ctx context.Context, dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return db, nil
}
