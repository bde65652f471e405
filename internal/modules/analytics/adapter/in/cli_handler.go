package in

import (
	"context"

	"mindfocus/internal/modules/analytics/dto"
	analyticsin "mindfocus/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context, recent int) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx, recent)
}

func (h CLIHandler) List(ctx context.Context, limit int) ([]dto.SessionOutput, error) {
	return h.usecase.List(ctx, limit)
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.NoteOutput, error) {
	return h.usecase.Show(ctx, id)
}
