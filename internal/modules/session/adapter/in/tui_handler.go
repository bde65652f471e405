package in

import (
	"context"

	sessiondto "mindfocus/internal/modules/session/dto"
	sessionin "mindfocus/internal/modules/session/port/in"
)

// TUIHandler exposes the session usecase to the terminal UI, which ends
// whatever session is live rather than a named one.
type TUIHandler struct {
	usecase sessionin.Usecase
}

func NewTUIHandler(usecase sessionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, input)
}

func (h TUIHandler) TogglePause(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.TogglePause(ctx)
}

func (h TUIHandler) Snapshot(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.Snapshot(ctx)
}

func (h TUIHandler) Subscribe(ctx context.Context) (<-chan sessiondto.UpdateOutput, error) {
	return h.usecase.Subscribe(ctx)
}

func (h TUIHandler) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error) {
	return h.usecase.End(ctx, input)
}

func (h TUIHandler) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}
