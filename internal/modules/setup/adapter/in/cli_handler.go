package in

import (
	"context"

	"mindfocus/internal/modules/setup/dto"
	setupin "mindfocus/internal/modules/setup/port/in"
)

type CLIHandler struct {
	usecase setupin.Usecase
}

func NewCLIHandler(usecase setupin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Predict(ctx context.Context, input dto.SetupInput) (dto.PredictionOutput, error) {
	return h.usecase.Predict(ctx, input)
}

func (h CLIHandler) ApplySuggestion(ctx context.Context, input dto.SetupInput) (dto.ApplySuggestionOutput, error) {
	return h.usecase.ApplySuggestion(ctx, input)
}

func (h CLIHandler) StartIntake(ctx context.Context) dto.IntakeState {
	return h.usecase.StartIntake(ctx)
}

func (h CLIHandler) AnswerIntake(ctx context.Context, state dto.IntakeState, answer string) (dto.IntakeState, error) {
	return h.usecase.AnswerIntake(ctx, state, answer)
}
