package in

import (
	"context"

	"mindfocus/internal/modules/setup/dto"
)

type Usecase interface {
	Predict(ctx context.Context, input dto.SetupInput) (dto.PredictionOutput, error)
	ApplySuggestion(ctx context.Context, input dto.SetupInput) (dto.ApplySuggestionOutput, error)
	Validate(ctx context.Context, input dto.SetupInput) error
	StartIntake(ctx context.Context) dto.IntakeState
	AnswerIntake(ctx context.Context, state dto.IntakeState, answer string) (dto.IntakeState, error)
}
