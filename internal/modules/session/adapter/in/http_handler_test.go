package in_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	promptsdomain "mindfocus/internal/modules/prompts/domain"
	sessionin "mindfocus/internal/modules/session/adapter/in"
	sessionout "mindfocus/internal/modules/session/adapter/out"
	"mindfocus/internal/modules/session/domain"
	"mindfocus/internal/modules/session/service"
	"mindfocus/internal/modules/session/usecase"
	setupservice "mindfocus/internal/modules/setup/service"
	setupusecase "mindfocus/internal/modules/setup/usecase"
	"mindfocus/internal/platform/clock"
	"mindfocus/internal/platform/random"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC) }

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

type idleScheduler struct{}

func (idleScheduler) AfterFunc(time.Duration, func()) clock.Timer { return idleTimer{} }

type fakeID struct{}

func (fakeID) New() string { return "sess-1" }

type bankSource struct{}

func (bankSource) Prompter(context.Context, string) domain.Prompter {
	return promptsdomain.DefaultBank()
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.NewSessionService(service.Options{
		Clock:     fixedClock{},
		Scheduler: idleScheduler{},
		Rand:      random.New(7),
		IDs:       fakeID{},
		Store:     sessionout.NewVaultSessionStore(t.TempDir()),
	})
	sessions := usecase.NewInteractor(svc, bankSource{}, usecase.WithManualTicks())
	setup := setupusecase.NewInteractor(setupservice.NewSetupService(random.New(7)))
	srv := httptest.NewServer(sessionin.NewHTTPHandler(sessions, setup, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

const calculusBody = `{"reason":"Calculus homework","category":"Homework","duration_minutes":90,"prior_knowledge":6,"interest":7}`

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHTTPSessionLifecycle(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	if resp, body := do(t, http.MethodGet, srv.URL+"/healthz", ""); resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz: %d %v", resp.StatusCode, body)
	}
	if resp, _ := do(t, http.MethodGet, srv.URL+"/session", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without session, got %d", resp.StatusCode)
	}
	resp, body := do(t, http.MethodPost, srv.URL+"/session", calculusBody)
	if resp.StatusCode != http.StatusCreated || body["session_id"] != "sess-1" {
		t.Fatalf("start: %d %v", resp.StatusCode, body)
	}
	if resp, _ := do(t, http.MethodPost, srv.URL+"/session", calculusBody); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for second session, got %d", resp.StatusCode)
	}
	resp, body = do(t, http.MethodPost, srv.URL+"/session/pause", "")
	if resp.StatusCode != http.StatusOK || body["paused"] != true {
		t.Fatalf("pause: %d %v", resp.StatusCode, body)
	}
	resp, body = do(t, http.MethodPost, srv.URL+"/session/resume", "")
	if resp.StatusCode != http.StatusOK || body["paused"] != false {
		t.Fatalf("resume: %d %v", resp.StatusCode, body)
	}
	resp, body = do(t, http.MethodGet, srv.URL+"/session", "")
	if resp.StatusCode != http.StatusOK || body["remaining"] != "01:30:00" {
		t.Fatalf("snapshot: %d %v", resp.StatusCode, body)
	}
	if resp, _ := do(t, http.MethodPost, srv.URL+"/session/end", `{"session_id":"nope"}`); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for mismatched end, got %d", resp.StatusCode)
	}
	resp, body = do(t, http.MethodPost, srv.URL+"/session/end", "")
	if resp.StatusCode != http.StatusOK || body["path"] == "" {
		t.Fatalf("end: %d %v", resp.StatusCode, body)
	}
}

func TestHTTPPredictAndBadInput(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	resp, body := do(t, http.MethodPost, srv.URL+"/predict", calculusBody)
	if resp.StatusCode != http.StatusOK || body["probability"] != float64(66) {
		t.Fatalf("predict: %d %v", resp.StatusCode, body)
	}
	if resp, _ := do(t, http.MethodPost, srv.URL+"/session", `{"reason":`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
	if resp, _ := do(t, http.MethodPost, srv.URL+"/session", `{"reason":"x","category":"Homework","duration_minutes":0,"prior_knowledge":5,"interest":5}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero duration, got %d", resp.StatusCode)
	}
	if resp, body := do(t, http.MethodPost, srv.URL+"/predict", `{"reason":"math","category":"Homework","duration_minutes":60,"prior_knowledge":-50,"interest":5}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of range rating, got %d %v", resp.StatusCode, body)
	}
}

func TestHTTPEventStreamSendsInitialState(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	if resp, _ := do(t, http.MethodPost, srv.URL+"/session", calculusBody); resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: %d", resp.StatusCode)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/session/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	scanner := bufio.NewScanner(resp.Body)
	if !scanner.Scan() || scanner.Text() != "event: state" {
		t.Fatalf("expected state event, got %q", scanner.Text())
	}
	if !scanner.Scan() || !strings.Contains(scanner.Text(), `"elapsed":"00:00:00"`) {
		t.Fatalf("unexpected data line %q", scanner.Text())
	}
}
