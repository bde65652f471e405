package in

import (
	"context"

	"mindfocus/internal/modules/prompts/dto"
	promptsin "mindfocus/internal/modules/prompts/port/in"
)

type CLIHandler struct {
	usecase promptsin.Usecase
}

func NewCLIHandler(usecase promptsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Quiz(ctx context.Context, subject string) (dto.QuizOutput, error) {
	return h.usecase.Quiz(ctx, subject)
}
