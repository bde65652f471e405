package domain_test

import (
	"errors"
	"testing"
	"time"

	"mindfocus/internal/modules/setup/domain"
	apperrors "mindfocus/internal/platform/errors"
)

func validSetup() domain.SessionSetup {
	return domain.SessionSetup{
		Reason:         "Calculus homework",
		Category:       domain.CategoryHomework,
		DurationMin:    90,
		PriorKnowledge: 6,
		Interest:       7,
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()
	if c, err := domain.ParseCategory("1"); err != nil || c != domain.CategoryTest {
		t.Fatalf("expected Test for 1, got %q %v", c, err)
	}
	if c, err := domain.ParseCategory(" reading "); err != nil || c != domain.CategoryReading {
		t.Fatalf("expected Reading, got %q %v", c, err)
	}
	if _, err := domain.ParseCategory("6"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for 6, got %v", err)
	}
	if _, err := domain.ParseCategory("gardening"); err == nil {
		t.Fatalf("unknown category should fail")
	}
}

func TestSessionSetupValidate(t *testing.T) {
	t.Parallel()
	if err := validSetup().Validate(); err != nil {
		t.Fatalf("setup should be valid: %v", err)
	}
	zero := validSetup()
	zero.DurationMin = 0
	if err := zero.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("zero duration should fail, got %v", err)
	}
	knowledge := validSetup()
	knowledge.PriorKnowledge = 11
	if err := knowledge.Validate(); err == nil {
		t.Fatalf("prior knowledge 11 should fail")
	}
	interest := validSetup()
	interest.Interest = 0
	if err := interest.Validate(); err == nil {
		t.Fatalf("interest 0 should fail")
	}
	stray := validSetup()
	stray.TestDate = "2026-03-01"
	if err := stray.Validate(); err == nil {
		t.Fatalf("test date on homework should fail")
	}
	badDate := validSetup()
	badDate.Category = domain.CategoryTest
	badDate.TestDate = "03/01/2026"
	if err := badDate.Validate(); err == nil {
		t.Fatalf("malformed test date should fail")
	}
}

func TestSessionSetupTestAt(t *testing.T) {
	t.Parallel()
	s := validSetup()
	if _, ok := s.TestAt(time.UTC); ok {
		t.Fatalf("homework has no test time")
	}
	s.Category = domain.CategoryTest
	s.TestDate = "2026-03-01"
	s.TestTime = "14:30"
	at, ok := s.TestAt(time.UTC)
	if !ok {
		t.Fatalf("expected test time")
	}
	if !at.Equal(time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected test time %v", at)
	}
}
