package domain

import (
	"fmt"
	"slices"
	"time"
)

const (
	BreakIntervalSec      = 1500
	QuizMinIntervalSec    = 480
	QuizIntervalSpanSec   = 240
	FocusResampleChance   = 0.05
	FocusMin              = 75
	FocusSpan             = 20
	FocusLookingAwayBelow = 80
	DetectionChance       = 0.002
	DetectionRevertDelay  = 3 * time.Second
	InitialFocusScore     = 83
)

type FocusStatus string

const (
	StatusWatching    FocusStatus = "watching"
	StatusLookingAway FocusStatus = "looking_away"
)

func (s FocusStatus) Label() string {
	if s == StatusLookingAway {
		return "Looking away"
	}
	return "Watching screen"
}

type EatingStatus string

const (
	EatingNone        EatingStatus = "none"
	EatingEnergyDrink EatingStatus = "energy_drink"
	EatingSnack       EatingStatus = "snack"
)

func (s EatingStatus) Label() string {
	switch s {
	case EatingEnergyDrink:
		return "Energy drink detected"
	case EatingSnack:
		return "Snack detected"
	default:
		return "None detected"
	}
}

// Event is an entry in the session log, stamped with elapsed seconds.
type Event struct {
	At   int    `json:"at" yaml:"at"`
	Text string `json:"text" yaml:"text"`
}

func (e Event) Clock() string {
	return FormatElapsed(e.At)
}

// FormatElapsed renders seconds as HH:MM:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

const (
	EventSessionStarted = "Session started"
	EventFocusDipped    = "Focus dipped (looking away)"
	EventEnergyDrink    = "Energy drink detected"
	EventSnack          = "Snack detected"
)

// RuntimeState is the mutable state of a running session.
type RuntimeState struct {
	ElapsedSeconds int
	Paused         bool
	FocusScore     int
	Status         FocusStatus
	Eating         EatingStatus
	Events         []Event
	EnergyDrinks   int
	Snacks         int
	LastBreakTime  int
	LastQuizTime   int
	PlannedSeconds int
	FocusSum       int
	FocusSamples   int
}

func NewRuntimeState(plannedMinutes int) RuntimeState {
	return RuntimeState{
		FocusScore:     InitialFocusScore,
		Status:         StatusWatching,
		Eating:         EatingNone,
		Events:         []Event{{At: 0, Text: EventSessionStarted}},
		PlannedSeconds: plannedMinutes * 60,
	}
}

func (s RuntimeState) clone() RuntimeState {
	s.Events = slices.Clone(s.Events)
	return s
}

// RemainingSeconds counts down to the planned end, floored at zero.
func (s RuntimeState) RemainingSeconds() int {
	return max(s.PlannedSeconds-s.ElapsedSeconds, 0)
}

// NextBreakIn is the number of seconds until the next break reminder.
func (s RuntimeState) NextBreakIn() int {
	return BreakIntervalSec - s.ElapsedSeconds%BreakIntervalSec
}
