package in

import (
	"context"

	"mindfocus/internal/modules/analytics/dto"
)

type Usecase interface {
	Summary(ctx context.Context, recent int) (dto.SummaryOutput, error)
	List(ctx context.Context, limit int) ([]dto.SessionOutput, error)
	// Show resolves id or a unique id prefix and returns the note body.
	Show(ctx context.Context, id string) (dto.NoteOutput, error)
}
