package dto

import (
	"time"

	setupdto "mindfocus/internal/modules/setup/dto"
)

type StartInput struct {
	Setup setupdto.SetupInput
}

type StartOutput struct {
	SessionID string      `json:"session_id"`
	StartedAt time.Time   `json:"started_at"`
	State     StateOutput `json:"state"`
}

type EventOutput struct {
	At    int    `json:"at"`
	Clock string `json:"clock"`
	Text  string `json:"text"`
}

// StateOutput is the read-only view of a running session.
type StateOutput struct {
	SessionID        string        `json:"session_id"`
	Reason           string        `json:"reason"`
	Category         string        `json:"category"`
	DurationMin      int           `json:"duration_minutes"`
	ElapsedSeconds   int           `json:"elapsed_seconds"`
	Elapsed          string        `json:"elapsed"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Remaining        string        `json:"remaining"`
	NextBreakIn      int           `json:"next_break_in"`
	Paused           bool          `json:"paused"`
	FocusScore       int           `json:"focus_score"`
	Status           string        `json:"status"`
	StatusLabel      string        `json:"status_label"`
	Eating           string        `json:"eating"`
	EatingLabel      string        `json:"eating_label"`
	EnergyDrinks     int           `json:"energy_drinks"`
	Snacks           int           `json:"snacks"`
	Events           []EventOutput `json:"events"`
}

type NotificationOutput struct {
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	ToastTitle string `json:"toast_title"`
	Message    string `json:"message"`
	Toast      string `json:"toast"`
	AckLabel   string `json:"ack_label"`
	Question   string `json:"question,omitempty"`
	Rationale  string `json:"rationale,omitempty"`
	At         int    `json:"at"`
}

// UpdateOutput is published after every tick and asynchronous state change.
type UpdateOutput struct {
	State         StateOutput          `json:"state"`
	Notifications []NotificationOutput `json:"notifications,omitempty"`
}

type EndInput struct {
	SessionID string `json:"session_id,omitempty"`
}

type StatsOutput struct {
	DurationMin     float64 `json:"duration_minutes"`
	ElapsedSeconds  int     `json:"elapsed_seconds"`
	FinalFocusScore int     `json:"final_focus_score"`
	AverageFocus    float64 `json:"average_focus"`
	EnergyDrinks    int     `json:"energy_drinks"`
	Snacks          int     `json:"snacks"`
}

type EndOutput struct {
	SessionID string      `json:"session_id"`
	Path      string      `json:"path"`
	Stats     StatsOutput `json:"stats"`
}

type ActiveSessionOutput struct {
	SessionID string              `json:"session_id"`
	StartedAt time.Time           `json:"started_at"`
	Setup     setupdto.SetupInput `json:"setup"`
}
