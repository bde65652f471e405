package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	analyticsdto "mindfocus/internal/modules/analytics/dto"
	promptsdto "mindfocus/internal/modules/prompts/dto"
	sessiondto "mindfocus/internal/modules/session/dto"
	setupdto "mindfocus/internal/modules/setup/dto"
	apperrors "mindfocus/internal/platform/errors"
	"mindfocus/internal/ui/components"
	setupview "mindfocus/internal/ui/views/setup"
)

type fakeSetup struct{}

func (fakeSetup) StartIntake(context.Context) setupdto.IntakeState {
	return setupdto.IntakeState{Prompt: "What are you studying?"}
}
func (fakeSetup) AnswerIntake(_ context.Context, state setupdto.IntakeState, _ string) (setupdto.IntakeState, error) {
	state.Done = true
	return state, nil
}
func (fakeSetup) Predict(context.Context, setupdto.SetupInput) (setupdto.PredictionOutput, error) {
	return setupdto.PredictionOutput{Probability: 66}, nil
}
func (fakeSetup) ApplySuggestion(_ context.Context, in setupdto.SetupInput) (setupdto.ApplySuggestionOutput, error) {
	return setupdto.ApplySuggestionOutput{Setup: in}, nil
}

type fakeSession struct {
	started  []sessiondto.StartInput
	toggled  int
	ended    int
	updates  chan sessiondto.UpdateOutput
	isActive bool
}

func (f *fakeSession) Start(_ context.Context, in sessiondto.StartInput) (sessiondto.StartOutput, error) {
	f.started = append(f.started, in)
	f.isActive = true
	return sessiondto.StartOutput{SessionID: "s1", State: sessiondto.StateOutput{SessionID: "s1", Reason: in.Setup.Reason}}, nil
}
func (f *fakeSession) TogglePause(context.Context) (sessiondto.StateOutput, error) {
	f.toggled++
	return sessiondto.StateOutput{Paused: f.toggled%2 == 1}, nil
}
func (f *fakeSession) Snapshot(context.Context) (sessiondto.StateOutput, error) {
	return sessiondto.StateOutput{SessionID: "s1"}, nil
}
func (f *fakeSession) Subscribe(context.Context) (<-chan sessiondto.UpdateOutput, error) {
	return f.updates, nil
}
func (f *fakeSession) End(context.Context, sessiondto.EndInput) (sessiondto.EndOutput, error) {
	f.ended++
	f.isActive = false
	return sessiondto.EndOutput{SessionID: "s1", Path: "/tmp/s1.md"}, nil
}
func (f *fakeSession) GetActive(context.Context) (sessiondto.ActiveSessionOutput, error) {
	if !f.isActive {
		return sessiondto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
	}
	return sessiondto.ActiveSessionOutput{SessionID: "s1"}, nil
}

type fakeAnalytics struct{}

func (fakeAnalytics) Summary(context.Context, int) (analyticsdto.SummaryOutput, error) {
	return analyticsdto.SummaryOutput{}, nil
}
func (fakeAnalytics) Show(context.Context, string) (analyticsdto.NoteOutput, error) {
	return analyticsdto.NoteOutput{}, nil
}

type fakePrompts struct{}

func (fakePrompts) List(context.Context) ([]promptsdto.ProviderInfo, error) {
	return []promptsdto.ProviderInfo{{Name: "reference", Enabled: true}}, nil
}
func (fakePrompts) Quiz(_ context.Context, subject string) (promptsdto.QuizOutput, error) {
	return promptsdto.QuizOutput{Question: "Explain " + subject, Rationale: "recall"}, nil
}

func newTestModel(sess *fakeSession) Model {
	m := NewModel(fakeSetup{}, sess, fakeAnalytics{}, fakePrompts{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func run(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func startRequested(reason string) tea.Msg {
	return setupview.StartRequestedMsg{Setup: setupdto.SetupInput{Reason: reason, Category: "Homework", DurationMin: 60}}
}

func paletteSubmit(input string) tea.Msg {
	return components.PaletteSubmitMsg{Input: input}
}

func TestStartSubscribeAndPresentNotifications(t *testing.T) {
	t.Parallel()
	sess := &fakeSession{updates: make(chan sessiondto.UpdateOutput, 1)}
	m := newTestModel(sess)

	m, cmd := run(t, m, startRequested("Calculus homework"))
	if cmd == nil {
		t.Fatalf("expected start command")
	}
	m, cmd = run(t, m, cmd())
	if !m.live || m.activeTab != tabSession {
		t.Fatalf("expected live session on session tab")
	}
	if len(sess.started) != 1 || sess.started[0].Setup.Reason != "Calculus homework" {
		t.Fatalf("unexpected start calls %+v", sess.started)
	}

	m, cmd = run(t, m, cmd())
	if m.updates == nil || cmd == nil {
		t.Fatalf("expected subscription")
	}

	sess.updates <- sessiondto.UpdateOutput{
		State:         sessiondto.StateOutput{Reason: "Calculus homework", ElapsedSeconds: 1500},
		Notifications: []sessiondto.NotificationOutput{{Kind: "break", Title: "Break Time!", Message: "stretch"}},
	}
	m, cmd = run(t, m, cmd())
	if !m.notice.Visible() {
		t.Fatalf("break notification should open a modal")
	}
	if cmd == nil {
		t.Fatalf("expected follow-up wait command")
	}

	m, _ = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.notice.Visible() {
		t.Fatalf("enter should acknowledge the notice")
	}

	close(sess.updates)
	m, _ = run(t, m, updateMsg{ok: false})
	if m.updates != nil {
		t.Fatalf("closed channel should clear the subscription")
	}
}

func TestPauseAndEndKeysOnSessionTab(t *testing.T) {
	t.Parallel()
	sess := &fakeSession{updates: make(chan sessiondto.UpdateOutput)}
	m := newTestModel(sess)
	m, cmd := run(t, m, startRequested("Essay"))
	m, _ = run(t, m, cmd())

	m, cmd = run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if cmd == nil {
		t.Fatalf("p should toggle pause")
	}
	m, _ = run(t, m, cmd())
	if sess.toggled != 1 || m.status != "paused" {
		t.Fatalf("toggle=%d status=%q", sess.toggled, m.status)
	}

	m, cmd = run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil {
		t.Fatalf("e should end the session")
	}
	m, _ = run(t, m, cmd())
	if m.live || sess.ended != 1 {
		t.Fatalf("session should be ended")
	}
	if m.sessionView.Active() {
		t.Fatalf("session view should show the summary")
	}
}

func TestPaletteQuizPresentsModal(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeSession{})
	m, cmd := run(t, m, paletteSubmit("quiz Biology"))
	if cmd == nil {
		t.Fatalf("expected quiz command")
	}
	msg := cmd().(quizLoadedMsg)
	if msg.quiz.Question != "Explain Biology" {
		t.Fatalf("unexpected quiz %+v", msg.quiz)
	}
	m, _ = run(t, m, msg)
	if !m.notice.Visible() {
		t.Fatalf("quiz should open the notice")
	}
}

func TestPaletteRejectsEndWithoutSession(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeSession{})
	m, cmd := run(t, m, paletteSubmit("session:end"))
	if cmd != nil || m.status != "no active session" {
		t.Fatalf("status=%q", m.status)
	}
	m, _ = run(t, m, paletteSubmit("nope"))
	if m.status != "unknown command: nope" {
		t.Fatalf("status=%q", m.status)
	}
}
