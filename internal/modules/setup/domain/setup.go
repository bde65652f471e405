package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "mindfocus/internal/platform/errors"
)

type Category string

const (
	CategoryTest     Category = "Test"
	CategoryHomework Category = "Homework"
	CategoryProject  Category = "Project"
	CategoryReading  Category = "Reading"
	CategoryOther    Category = "Other"
)

// Categories is the menu order used by the intake.
var Categories = []Category{CategoryTest, CategoryHomework, CategoryProject, CategoryReading, CategoryOther}

const (
	MinRating      = 1
	MaxRating      = 10
	TestDateLayout = "2006-01-02"
	TestTimeLayout = "15:04"
)

// ParseCategory accepts a category name (any case) or its 1-based menu
// position.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > len(Categories) {
			return "", fmt.Errorf("%w: category must be 1-%d", apperrors.ErrInvalidInput, len(Categories))
		}
		return Categories[n-1], nil
	}
	for _, c := range Categories {
		if strings.EqualFold(raw, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", apperrors.ErrInvalidInput, raw)
}

func (c Category) Validate() error {
	switch c {
	case CategoryTest, CategoryHomework, CategoryProject, CategoryReading, CategoryOther:
		return nil
	default:
		return fmt.Errorf("%w: unsupported category %q", apperrors.ErrInvalidInput, string(c))
	}
}

// SessionSetup describes the study task. It is frozen once a session starts.
type SessionSetup struct {
	Reason         string   `json:"reason" yaml:"reason"`
	Category       Category `json:"category" yaml:"category"`
	TestDate       string   `json:"test_date,omitempty" yaml:"test_date,omitempty"`
	TestTime       string   `json:"test_time,omitempty" yaml:"test_time,omitempty"`
	DurationMin    int      `json:"duration_minutes" yaml:"duration_minutes"`
	PriorKnowledge int      `json:"prior_knowledge" yaml:"prior_knowledge"`
	Interest       int      `json:"interest" yaml:"interest"`
}

// Validate checks the invariants required to start a session.
func (s SessionSetup) Validate() error {
	if err := s.Category.Validate(); err != nil {
		return err
	}
	if s.DurationMin <= 0 {
		return fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}
	if err := s.ValidateScores(); err != nil {
		return err
	}
	if s.Category != CategoryTest && (s.TestDate != "" || s.TestTime != "") {
		return fmt.Errorf("%w: test date is only allowed for tests", apperrors.ErrInvalidInput)
	}
	if s.TestDate != "" {
		if _, err := time.Parse(TestDateLayout, s.TestDate); err != nil {
			return fmt.Errorf("%w: test date must be YYYY-MM-DD", apperrors.ErrInvalidInput)
		}
	}
	if s.TestTime != "" {
		if _, err := time.Parse(TestTimeLayout, s.TestTime); err != nil {
			return fmt.Errorf("%w: test time must be HH:MM", apperrors.ErrInvalidInput)
		}
	}
	return nil
}

// ValidateScores checks only the inputs the prediction model reads.
func (s SessionSetup) ValidateScores() error {
	if s.DurationMin < 0 {
		return fmt.Errorf("%w: duration must not be negative", apperrors.ErrInvalidInput)
	}
	if !validRating(s.PriorKnowledge) {
		return fmt.Errorf("%w: prior knowledge must be %d-%d", apperrors.ErrInvalidInput, MinRating, MaxRating)
	}
	if !validRating(s.Interest) {
		return fmt.Errorf("%w: interest must be %d-%d", apperrors.ErrInvalidInput, MinRating, MaxRating)
	}
	return nil
}

// TestAt returns the scheduled test time in loc, if one was given.
func (s SessionSetup) TestAt(loc *time.Location) (time.Time, bool) {
	if s.Category != CategoryTest || s.TestDate == "" {
		return time.Time{}, false
	}
	clock := s.TestTime
	if clock == "" {
		clock = "09:00"
	}
	at, err := time.ParseInLocation(TestDateLayout+" "+TestTimeLayout, s.TestDate+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// Subject is the text used for subject classification.
func (s SessionSetup) Subject() string {
	return s.Reason
}

func validRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
