package out

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mindfocus/internal/modules/session/domain"
	setupdomain "mindfocus/internal/modules/setup/domain"
)

func noteSession(id string) domain.Session {
	start := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	return domain.Session{
		ID:        id,
		Setup:     setupdomain.SessionSetup{Reason: "Calculus homework", Category: setupdomain.CategoryHomework, DurationMin: 30},
		StartedAt: start,
		EndedAt:   start.Add(30 * time.Minute),
		Stats:     domain.SessionStats{DurationMin: 30, FinalFocusScore: 90, AverageFocus: 88},
	}
}

func TestVaultSessionStoreKeepsSameSecondNotes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewVaultSessionStore(dir)
	ctx := context.Background()

	first, err := store.Save(ctx, noteSession("aaaaaaaa-1111"))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := store.Save(ctx, noteSession("bbbbbbbb-2222"))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first == second {
		t.Fatalf("notes share a path: %s", first)
	}
	want := filepath.Join(dir, "sessions", "2026", "02", "25", "100000-calculus-homework-aaaaaaaa.md")
	if first != want {
		t.Fatalf("unexpected path %s, want %s", first, want)
	}
	for path, id := range map[string]string{first: "aaaaaaaa-1111", second: "bbbbbbbb-2222"} {
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if !strings.Contains(string(b), "id: "+id) {
			t.Fatalf("%s should hold session %s:\n%s", path, id, b)
		}
	}
}

func TestVaultSessionStoreNeverOverwrites(t *testing.T) {
	t.Parallel()
	store := NewVaultSessionStore(t.TempDir())
	ctx := context.Background()

	first, err := store.Save(ctx, noteSession("same-id"))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	again := noteSession("same-id")
	again.Stats.FinalFocusScore = 40
	second, err := store.Save(ctx, again)
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if !strings.HasSuffix(second, "-same-id-2.md") {
		t.Fatalf("expected numbered fallback, got %s", second)
	}
	b, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if !strings.Contains(string(b), "final_focus_score: 90") {
		t.Fatalf("first note was overwritten:\n%s", b)
	}
}
