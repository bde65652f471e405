package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sessiondto "mindfocus/internal/modules/session/dto"
	apperrors "mindfocus/internal/platform/errors"
)

type liveSessionEnder interface {
	End(ctx context.Context, sessionID string) (sessiondto.EndOutput, error)
}

// stopServing saves the live session first, which closes every event
// stream, and only then drains the server. Each step gets its own deadline.
func stopServing(server *http.Server, sessions liveSessionEnder, logger *slog.Logger, timeout time.Duration) {
	endCtx, cancelEnd := context.WithTimeout(context.Background(), timeout)
	out, err := sessions.End(endCtx, "")
	cancelEnd()
	switch {
	case errors.Is(err, apperrors.ErrNoActiveSession):
	case err != nil:
		logger.Error("save live session", "error", err)
	default:
		logger.Info("live session saved", "session_id", out.SessionID, "path", out.Path)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
}
