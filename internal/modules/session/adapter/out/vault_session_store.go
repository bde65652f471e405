package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mindfocus/internal/modules/session/domain"
	sessionout "mindfocus/internal/modules/session/port/out"
	"mindfocus/internal/platform/markdown"
	"mindfocus/internal/platform/slug"
)

type VaultSessionStore struct {
	dataPath string
}

func NewVaultSessionStore(dataPath string) sessionout.SessionStore {
	return &VaultSessionStore{dataPath: dataPath}
}

type noteMeta struct {
	SchemaVersion   int     `yaml:"schema_version"`
	ID              string  `yaml:"id"`
	Reason          string  `yaml:"reason"`
	Category        string  `yaml:"category"`
	TestDate        string  `yaml:"test_date,omitempty"`
	TestTime        string  `yaml:"test_time,omitempty"`
	PlannedMinutes  int     `yaml:"planned_minutes"`
	PriorKnowledge  int     `yaml:"prior_knowledge"`
	Interest        int     `yaml:"interest"`
	StartedAt       string  `yaml:"started_at"`
	EndedAt         string  `yaml:"ended_at"`
	DurationMinutes float64 `yaml:"duration_minutes"`
	FinalFocusScore int     `yaml:"final_focus_score"`
	AverageFocus    float64 `yaml:"average_focus"`
	EnergyDrinks    int     `yaml:"energy_drinks"`
	Snacks          int     `yaml:"snacks"`
}

func (s *VaultSessionStore) Save(_ context.Context, session domain.Session) (string, error) {
	date := session.StartedAt
	dir := filepath.Join(s.dataPath, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	base := fmt.Sprintf("%s-%s-%s", date.Format("150405"), slug.Make(session.Setup.Reason), shortID(session.ID))

	stats := session.Stats
	meta := noteMeta{
		SchemaVersion:   domain.SchemaVersion,
		ID:              session.ID,
		Reason:          session.Setup.Reason,
		Category:        string(session.Setup.Category),
		TestDate:        session.Setup.TestDate,
		TestTime:        session.Setup.TestTime,
		PlannedMinutes:  session.Setup.DurationMin,
		PriorKnowledge:  session.Setup.PriorKnowledge,
		Interest:        session.Setup.Interest,
		StartedAt:       session.StartedAt.Format(time.RFC3339),
		EndedAt:         session.EndedAt.Format(time.RFC3339),
		DurationMinutes: stats.DurationMin,
		FinalFocusScore: stats.FinalFocusScore,
		AverageFocus:    stats.AverageFocus,
		EnergyDrinks:    stats.EnergyDrinks,
		Snacks:          stats.Snacks,
	}
	rendered, err := markdown.Render(meta, noteBody(session))
	if err != nil {
		return "", err
	}
	return writeNew(dir, base, []byte(rendered))
}

const maxNoteAttempts = 100

// writeNew creates base.md in dir, or base-2.md and so on when an earlier
// note already holds the name. Existing notes are never overwritten.
func writeNew(dir, base string, data []byte) (string, error) {
	for n := 1; n <= maxNoteAttempts; n++ {
		name := base + ".md"
		if n > 1 {
			name = fmt.Sprintf("%s-%d.md", base, n)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create session note: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write session note: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close session note: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free note name for %s in %s", base, dir)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func noteBody(session domain.Session) string {
	stats := session.Stats
	b := strings.Builder{}
	fmt.Fprintf(&b, "# %s\n\n", session.Setup.Reason)
	fmt.Fprintf(&b, "- Category: %s\n", session.Setup.Category)
	fmt.Fprintf(&b, "- Duration: %.1f of %d minutes\n", stats.DurationMin, session.Setup.DurationMin)
	fmt.Fprintf(&b, "- Focus: %d final, %.1f average\n", stats.FinalFocusScore, stats.AverageFocus)
	fmt.Fprintf(&b, "- Energy drinks: %d\n", stats.EnergyDrinks)
	fmt.Fprintf(&b, "- Snacks: %d\n", stats.Snacks)
	b.WriteString("\n## Events\n\n")
	for _, e := range session.Events {
		fmt.Fprintf(&b, "- `%s` %s\n", e.Clock(), e.Text)
	}
	return b.String()
}
