package in

import (
	"context"

	"mindfocus/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Pause(ctx context.Context) (dto.StateOutput, error)
	Resume(ctx context.Context) (dto.StateOutput, error)
	TogglePause(ctx context.Context) (dto.StateOutput, error)
	Snapshot(ctx context.Context) (dto.StateOutput, error)
	// Subscribe streams updates until ctx is done or the session ends.
	Subscribe(ctx context.Context) (<-chan dto.UpdateOutput, error)
	End(ctx context.Context, input dto.EndInput) (dto.EndOutput, error)
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
}
