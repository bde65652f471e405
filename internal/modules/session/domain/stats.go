package domain

// SessionStats is the summary produced when a session ends.
type SessionStats struct {
	DurationMin     float64 `json:"duration_minutes" yaml:"duration_minutes"`
	ElapsedSeconds  int     `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	FinalFocusScore int     `json:"final_focus_score" yaml:"final_focus_score"`
	AverageFocus    float64 `json:"average_focus" yaml:"average_focus"`
	EnergyDrinks    int     `json:"energy_drinks" yaml:"energy_drinks"`
	Snacks          int     `json:"snacks" yaml:"snacks"`
}

func Finalize(state RuntimeState) SessionStats {
	avg := float64(state.FocusScore)
	if state.FocusSamples > 0 {
		avg = float64(state.FocusSum) / float64(state.FocusSamples)
	}
	return SessionStats{
		DurationMin:     float64(state.ElapsedSeconds) / 60,
		ElapsedSeconds:  state.ElapsedSeconds,
		FinalFocusScore: state.FocusScore,
		AverageFocus:    avg,
		EnergyDrinks:    state.EnergyDrinks,
		Snacks:          state.Snacks,
	}
}
