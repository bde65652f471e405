package dto

import "time"

type SessionOutput struct {
	ID             string    `json:"id"`
	Reason         string    `json:"reason"`
	Category       string    `json:"category"`
	PlannedMinutes int       `json:"planned_minutes"`
	StartedAt      time.Time `json:"started_at"`
	DurationMin    float64   `json:"duration_minutes"`
	FinalFocus     int       `json:"final_focus"`
	AverageFocus   float64   `json:"average_focus"`
	EnergyDrinks   int       `json:"energy_drinks"`
	Snacks         int       `json:"snacks"`
	NotePath       string    `json:"note_path"`
}

type CategoryOutput struct {
	Category     string  `json:"category"`
	Sessions     int     `json:"sessions"`
	Minutes      float64 `json:"minutes"`
	AverageFocus float64 `json:"average_focus"`
}

type WeekOutput struct {
	Week         string `json:"week"`
	Sessions     int    `json:"sessions"`
	EnergyDrinks int    `json:"energy_drinks"`
	Snacks       int    `json:"snacks"`
}

type SummaryOutput struct {
	Sessions     int              `json:"sessions"`
	TotalMinutes float64          `json:"total_minutes"`
	AverageFocus float64          `json:"average_focus"`
	EnergyDrinks int              `json:"energy_drinks"`
	Snacks       int              `json:"snacks"`
	ByCategory   []CategoryOutput `json:"by_category"`
	Weekly       []WeekOutput     `json:"weekly"`
	Recent       []SessionOutput  `json:"recent"`
}

type NoteOutput struct {
	Session  SessionOutput `json:"session"`
	Markdown string        `json:"markdown"`
}
