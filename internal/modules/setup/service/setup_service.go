package service

import (
	"mindfocus/internal/modules/setup/domain"
	"mindfocus/internal/platform/random"
)

type SetupService struct {
	rng random.Source
}

func NewSetupService(rng random.Source) *SetupService {
	return &SetupService{rng: rng}
}

func (s *SetupService) Predict(setup domain.SessionSetup) domain.Prediction {
	return domain.Predict(setup, s.rng)
}

// ApplySuggestion lengthens the session to the suggested duration. A
// suggestion that would not add time leaves the setup as it is.
func (s *SetupService) ApplySuggestion(setup domain.SessionSetup) (domain.SessionSetup, domain.Prediction, bool) {
	prediction := s.Predict(setup)
	if prediction.SuggestedDuration <= setup.DurationMin {
		return setup, prediction, false
	}
	setup.DurationMin = prediction.SuggestedDuration
	return setup, s.Predict(setup), true
}
