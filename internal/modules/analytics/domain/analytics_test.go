package domain

import (
	"testing"
	"time"
)

func record(id, category string, started time.Time, minutes, focus float64, drinks, snacks int) Record {
	return Record{ID: id, Category: category, StartedAt: started, DurationMin: minutes, AverageFocus: focus, EnergyDrinks: drinks, Snacks: snacks}
}

func TestSummarizeTotalsAndBuckets(t *testing.T) {
	mon := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	records := []Record{
		record("a", "Homework", mon, 60, 80, 1, 0),
		record("b", "Homework", mon.Add(48*time.Hour), 30, 86, 0, 2),
		record("c", "Reading", mon.Add(7*24*time.Hour), 90, 90, 1, 1),
	}
	s := Summarize(records, 2)

	if s.Sessions != 3 || s.TotalMinutes != 180 || s.EnergyDrinks != 2 || s.Snacks != 3 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	// (80*60 + 86*30 + 90*90) / 180
	if want := (4800.0 + 2580 + 8100) / 180; s.AverageFocus != want {
		t.Fatalf("expected weighted focus %v, got %v", want, s.AverageFocus)
	}
	if len(s.ByCategory) != 2 || s.ByCategory[0].Category != "Homework" || s.ByCategory[0].Sessions != 2 {
		t.Fatalf("unexpected categories: %+v", s.ByCategory)
	}
	if s.ByCategory[1].Category != "Reading" || s.ByCategory[1].AverageFocus != 90 {
		t.Fatalf("unexpected reading total: %+v", s.ByCategory[1])
	}
	if len(s.Weekly) != 2 {
		t.Fatalf("expected two weeks, got %+v", s.Weekly)
	}
	if w := s.Weekly[0]; w.Label() != "2026-W10" || w.Sessions != 2 || w.EnergyDrinks != 1 || w.Snacks != 2 {
		t.Fatalf("unexpected first week: %+v", w)
	}
	if w := s.Weekly[1]; w.Label() != "2026-W11" || w.Sessions != 1 {
		t.Fatalf("unexpected second week: %+v", w)
	}
	if len(s.Recent) != 2 || s.Recent[0].ID != "c" || s.Recent[1].ID != "b" {
		t.Fatalf("unexpected recent: %+v", s.Recent)
	}
}

func TestSummarizeEmptyAndZeroMinutes(t *testing.T) {
	if s := Summarize(nil, 5); s.Sessions != 0 || s.AverageFocus != 0 || len(s.Recent) != 0 {
		t.Fatalf("unexpected empty summary: %+v", s)
	}
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := Summarize([]Record{record("a", "Other", now, 0, 70, 0, 0), record("b", "Other", now, 0, 90, 0, 0)}, 0)
	if s.AverageFocus != 80 {
		t.Fatalf("expected plain mean for zero-minute sessions, got %v", s.AverageFocus)
	}
	if len(s.Recent) != 2 {
		t.Fatalf("limit 0 keeps every record, got %d", len(s.Recent))
	}
}
