package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	analyticsout "mindfocus/internal/modules/analytics/adapter/out"
	"mindfocus/internal/modules/analytics/service"
	"mindfocus/internal/modules/analytics/usecase"
	apperrors "mindfocus/internal/platform/errors"
	"mindfocus/internal/platform/sqlitedb"
)

func insert(t *testing.T, db *sql.DB, id, category, started string, minutes, focus float64, drinks, snacks int, note string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO sessions (id, reason, category, planned_minutes, started_at, ended_at, duration_minutes, final_focus, average_focus, energy_drinks, snacks, note_path)
VALUES (?, ?, ?, 60, ?, ?, ?, 85, ?, ?, ?, ?)`, id, "Study "+id, category, started, started, minutes, focus, drinks, snacks, note)
	if err != nil {
		t.Fatalf("insert %s: %v", id, err)
	}
}

func TestAnalyticsSummaryListAndShow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(dir, "mindfocus.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	note := filepath.Join(dir, "note.md")
	if err := os.WriteFile(note, []byte("---\nid: abc-1\n---\n\n# Calculus homework\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	insert(t, db, "abc-1", "Homework", "2026-03-02T09:00:00Z", 60, 80, 1, 0, note)
	insert(t, db, "abd-2", "Reading", "2026-03-09T09:00:00Z", 30, 90, 0, 1, filepath.Join(dir, "missing.md"))

	svc := service.NewAnalyticsService(analyticsout.NewSQLiteSessionIndex(db), analyticsout.NewFileNoteReader())
	uc := usecase.NewInteractor(svc)
	ctx := context.Background()

	summary, err := uc.Summary(ctx, 5)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Sessions != 2 || summary.TotalMinutes != 90 || summary.EnergyDrinks != 1 || summary.Snacks != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Weekly) != 2 || summary.Weekly[0].Week != "2026-W10" {
		t.Fatalf("unexpected weekly buckets: %+v", summary.Weekly)
	}

	list, err := uc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "abd-2" {
		t.Fatalf("expected newest session first, got %+v", list)
	}

	shown, err := uc.Show(ctx, "abc")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if shown.Session.ID != "abc-1" || !strings.HasPrefix(shown.Markdown, "# Calculus homework") {
		t.Fatalf("unexpected note: %+v", shown)
	}

	if _, err := uc.Show(ctx, "ab"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ambiguous prefix error, got %v", err)
	}
	if _, err := uc.Show(ctx, "zzz"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := uc.Show(ctx, "abd"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing note, got %v", err)
	}
}
