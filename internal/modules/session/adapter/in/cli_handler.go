package in

import (
	"context"

	sessiondto "mindfocus/internal/modules/session/dto"
	sessionin "mindfocus/internal/modules/session/port/in"
	setupdto "mindfocus/internal/modules/setup/dto"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, setup setupdto.SetupInput) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{Setup: setup})
}

func (h CLIHandler) TogglePause(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.TogglePause(ctx)
}

func (h CLIHandler) Snapshot(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Subscribe(ctx context.Context) (<-chan sessiondto.UpdateOutput, error) {
	return h.usecase.Subscribe(ctx)
}

func (h CLIHandler) End(ctx context.Context, sessionID string) (sessiondto.EndOutput, error) {
	return h.usecase.End(ctx, sessiondto.EndInput{SessionID: sessionID})
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}
