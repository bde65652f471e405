package in

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	sessiondto "mindfocus/internal/modules/session/dto"
	sessionin "mindfocus/internal/modules/session/port/in"
	setupdto "mindfocus/internal/modules/setup/dto"
	setupin "mindfocus/internal/modules/setup/port/in"
	apperrors "mindfocus/internal/platform/errors"
)

// HTTPHandler exposes the live session over JSON and server-sent events.
type HTTPHandler struct {
	sessions sessionin.Usecase
	setup    setupin.Usecase
	logger   *slog.Logger
}

func NewHTTPHandler(sessions sessionin.Usecase, setup setupin.Usecase, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{sessions: sessions, setup: setup, logger: logger}
}

func (h *HTTPHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/predict", h.predict).Methods(http.MethodPost)
	r.HandleFunc("/session", h.start).Methods(http.MethodPost)
	r.HandleFunc("/session", h.snapshot).Methods(http.MethodGet)
	r.HandleFunc("/session/pause", h.pause).Methods(http.MethodPost)
	r.HandleFunc("/session/resume", h.resume).Methods(http.MethodPost)
	r.HandleFunc("/session/end", h.end).Methods(http.MethodPost)
	r.HandleFunc("/session/events", h.events).Methods(http.MethodGet)
	r.Use(Logging(h.logger))
	return r
}

func (h *HTTPHandler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) predict(w http.ResponseWriter, r *http.Request) {
	var input setupdto.SetupInput
	if err := decode(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	out, err := h.setup.Predict(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) start(w http.ResponseWriter, r *http.Request) {
	var input setupdto.SetupInput
	if err := decode(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	out, err := h.sessions.Start(r.Context(), sessiondto.StartInput{Setup: input})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	out, err := h.sessions.Snapshot(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) pause(w http.ResponseWriter, r *http.Request) {
	out, err := h.sessions.Pause(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) resume(w http.ResponseWriter, r *http.Request) {
	out, err := h.sessions.Resume(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) end(w http.ResponseWriter, r *http.Request) {
	var input sessiondto.EndInput
	if r.ContentLength != 0 {
		if err := decode(r, &input); err != nil {
			h.respondError(w, err)
			return
		}
	}
	out, err := h.sessions.End(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	updates, err := h.sessions.Subscribe(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case u, ok := <-updates:
			if !ok {
				fmt.Fprint(w, "event: end\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			if err := writeEvent(w, "state", u.State); err != nil {
				return
			}
			for _, n := range u.Notifications {
				if err := writeEvent(w, "notification", n); err != nil {
					return
				}
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode request: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNoActiveSession), errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrActiveSessionExists), errors.Is(err, apperrors.ErrSessionMismatch):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Logging records method, path, status and latency for every request.
func Logging(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
