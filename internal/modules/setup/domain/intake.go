package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "mindfocus/internal/platform/errors"
)

type IntakeField string

const (
	FieldCategory       IntakeField = "category"
	FieldReason         IntakeField = "reason"
	FieldTestDate       IntakeField = "test_date"
	FieldDuration       IntakeField = "duration"
	FieldPriorKnowledge IntakeField = "prior_knowledge"
	FieldInterest       IntakeField = "interest"
)

// IntakeStep is one question of the onboarding conversation.
type IntakeStep struct {
	Field       IntakeField
	Prompt      string
	Subtext     string
	Placeholder string
	Chips       []string
	Slider      bool
}

var intakeSteps = []IntakeStep{
	{Field: FieldCategory, Prompt: "Hey! What are you working on right now?", Chips: []string{"Test", "Homework", "Project", "Reading", "Other"}},
	{Field: FieldReason, Prompt: "Great! Can you tell me more details about it?", Placeholder: "e.g., CS midterm - Chapters 5-8"},
	{Field: FieldTestDate, Prompt: "When is this test?", Placeholder: "YYYY-MM-DD HH:MM"},
	{Field: FieldDuration, Prompt: "How long do you want to study right now?", Placeholder: "e.g., 90 minutes"},
	{Field: FieldPriorKnowledge, Prompt: "On a scale of 1-10, what's your current knowledge level on this topic?", Subtext: "1 = Never seen it before, 10 = I could teach it", Slider: true},
	{Field: FieldInterest, Prompt: "How interested are you in this subject?", Subtext: "1 = Not interested, 10 = Love it", Slider: true},
}

const (
	sliderDefault = 5
	testPrefix    = "Study for test: "
)

var firstNumber = regexp.MustCompile(`\d+`)

// Intake walks the onboarding questions and accumulates a SessionSetup.
// It is a value; Answer returns the advanced copy.
type Intake struct {
	Step  int
	Draft SessionSetup
}

func NewIntake() Intake {
	return Intake{}
}

func (in Intake) Done() bool {
	return in.Step >= len(intakeSteps)
}

// Current returns the pending question. ok is false once the intake is done.
func (in Intake) Current() (IntakeStep, bool) {
	if in.Done() {
		return IntakeStep{}, false
	}
	return intakeSteps[in.Step], true
}

// Answer records the answer to the current question. On invalid input the
// intake is returned unchanged along with an ErrInvalidInput error.
func (in Intake) Answer(raw string) (Intake, error) {
	step, ok := in.Current()
	if !ok {
		return in, fmt.Errorf("%w: intake already complete", apperrors.ErrInvalidInput)
	}
	raw = strings.TrimSpace(raw)
	next := in
	switch step.Field {
	case FieldCategory:
		c, err := ParseCategory(raw)
		if err != nil {
			return in, err
		}
		next.Draft.Category = c
	case FieldReason:
		if raw == "" {
			return in, fmt.Errorf("%w: please describe the task", apperrors.ErrInvalidInput)
		}
		if next.Draft.Category == CategoryTest && !strings.HasPrefix(raw, testPrefix) {
			raw = testPrefix + raw
		}
		next.Draft.Reason = raw
	case FieldTestDate:
		at, err := time.Parse(TestDateLayout+" "+TestTimeLayout, raw)
		if err != nil {
			return in, fmt.Errorf("%w: use YYYY-MM-DD HH:MM", apperrors.ErrInvalidInput)
		}
		next.Draft.TestDate = at.Format(TestDateLayout)
		next.Draft.TestTime = at.Format(TestTimeLayout)
	case FieldDuration:
		match := firstNumber.FindString(raw)
		minutes, err := strconv.Atoi(match)
		if err != nil || minutes <= 0 {
			return in, fmt.Errorf("%w: duration must be a positive number of minutes", apperrors.ErrInvalidInput)
		}
		next.Draft.DurationMin = minutes
	case FieldPriorKnowledge, FieldInterest:
		v, err := parseRating(raw)
		if err != nil {
			return in, err
		}
		if step.Field == FieldPriorKnowledge {
			next.Draft.PriorKnowledge = v
		} else {
			next.Draft.Interest = v
		}
	}
	next.Step = next.advance(in.Step + 1)
	return next, nil
}

// Result returns the completed setup.
func (in Intake) Result() (SessionSetup, error) {
	if !in.Done() {
		return SessionSetup{}, fmt.Errorf("%w: intake is not complete", apperrors.ErrInvalidInput)
	}
	return in.Draft, in.Draft.Validate()
}

func (in Intake) advance(step int) int {
	for step < len(intakeSteps) && intakeSteps[step].Field == FieldTestDate && in.Draft.Category != CategoryTest {
		step++
	}
	return step
}

func parseRating(raw string) (int, error) {
	if raw == "" {
		return sliderDefault, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || !validRating(v) {
		return 0, fmt.Errorf("%w: pick a number from %d to %d", apperrors.ErrInvalidInput, MinRating, MaxRating)
	}
	return v, nil
}
