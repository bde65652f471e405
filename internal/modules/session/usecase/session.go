package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	setupdomain "mindfocus/internal/modules/setup/domain"
	setupdto "mindfocus/internal/modules/setup/dto"
	"mindfocus/internal/modules/session/domain"
	sessiondto "mindfocus/internal/modules/session/dto"
	sessionin "mindfocus/internal/modules/session/port/in"
	sessionout "mindfocus/internal/modules/session/port/out"
	"mindfocus/internal/modules/session/service"
	apperrors "mindfocus/internal/platform/errors"
)

type liveSession struct {
	active domain.ActiveSession
	runner *service.Runner
}

// Interactor owns the single live session of the process.
type Interactor struct {
	svc       *service.SessionService
	prompts   sessionout.PromptSource
	notifiers []sessionout.Notifier
	manual    bool
	logger    *slog.Logger

	mu      sync.Mutex
	current *liveSession
}

type Option func(*Interactor)

// WithNotifiers adds presenters that receive every notification.
func WithNotifiers(n ...sessionout.Notifier) Option {
	return func(i *Interactor) { i.notifiers = append(i.notifiers, n...) }
}

// WithManualTicks disables the background ticker. Ticks are then delivered
// through Step, which tests use to drive the clock.
func WithManualTicks() Option {
	return func(i *Interactor) { i.manual = true }
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interactor) { i.logger = logger }
}

func NewInteractor(svc *service.SessionService, prompts sessionout.PromptSource, opts ...Option) *Interactor {
	i := &Interactor{svc: svc, prompts: prompts, logger: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ sessionin.Usecase = (*Interactor)(nil)

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current != nil {
		return sessiondto.StartOutput{}, apperrors.ErrActiveSessionExists
	}
	if i.prompts == nil {
		return sessiondto.StartOutput{}, fmt.Errorf("prompt source is not configured")
	}
	setup, err := toSetup(input.Setup)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	if err := setup.Validate(); err != nil {
		return sessiondto.StartOutput{}, err
	}

	prompter := i.prompts.Prompter(ctx, setup.Subject())
	active, engine, err := i.svc.Start(ctx, setup, prompter)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	runner := service.NewRunner(engine, service.TickInterval, i.notifiers, i.logger.With("session_id", active.SessionID))
	if !i.manual {
		runner.Start(context.WithoutCancel(ctx))
	}
	i.current = &liveSession{active: active, runner: runner}
	return sessiondto.StartOutput{
		SessionID: active.SessionID,
		StartedAt: active.StartedAt,
		State:     toStateOutput(active, engine.Snapshot()),
	}, nil
}

// Step delivers one tick to the live session.
func (i *Interactor) Step(ctx context.Context) (sessiondto.StateOutput, error) {
	cur, err := i.running()
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	cur.runner.Step(ctx)
	return toStateOutput(cur.active, cur.runner.Engine().Snapshot()), nil
}

func (i *Interactor) Pause(_ context.Context) (sessiondto.StateOutput, error) {
	cur, err := i.running()
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toStateOutput(cur.active, cur.runner.Pause()), nil
}

func (i *Interactor) Resume(_ context.Context) (sessiondto.StateOutput, error) {
	cur, err := i.running()
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toStateOutput(cur.active, cur.runner.Resume()), nil
}

func (i *Interactor) TogglePause(_ context.Context) (sessiondto.StateOutput, error) {
	cur, err := i.running()
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toStateOutput(cur.active, cur.runner.TogglePause()), nil
}

func (i *Interactor) Snapshot(_ context.Context) (sessiondto.StateOutput, error) {
	cur, err := i.running()
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toStateOutput(cur.active, cur.runner.Engine().Snapshot()), nil
}

func (i *Interactor) Subscribe(ctx context.Context) (<-chan sessiondto.UpdateOutput, error) {
	cur, err := i.running()
	if err != nil {
		return nil, err
	}
	updates, cancel := cur.runner.Subscribe()
	out := make(chan sessiondto.UpdateOutput, 1)
	out <- sessiondto.UpdateOutput{State: toStateOutput(cur.active, cur.runner.Engine().Snapshot())}
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out <- toUpdateOutput(cur.active, u):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (i *Interactor) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return sessiondto.EndOutput{}, apperrors.ErrNoActiveSession
	}
	cur := i.current
	if input.SessionID != "" && input.SessionID != cur.active.SessionID {
		return sessiondto.EndOutput{}, fmt.Errorf("%w: %s", apperrors.ErrSessionMismatch, input.SessionID)
	}
	state := cur.runner.Stop()
	session, path, err := i.svc.End(ctx, cur.active, state)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	i.current = nil
	return sessiondto.EndOutput{
		SessionID: session.ID,
		Path:      path,
		Stats:     toStatsOutput(session.Stats),
	}, nil
}

func (i *Interactor) GetActive(_ context.Context) (sessiondto.ActiveSessionOutput, error) {
	cur, err := i.running()
	if err != nil {
		return sessiondto.ActiveSessionOutput{}, err
	}
	return sessiondto.ActiveSessionOutput{
		SessionID: cur.active.SessionID,
		StartedAt: cur.active.StartedAt,
		Setup:     fromSetup(cur.active.Setup),
	}, nil
}

func (i *Interactor) running() (*liveSession, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return nil, apperrors.ErrNoActiveSession
	}
	return i.current, nil
}

func toSetup(input setupdto.SetupInput) (setupdomain.SessionSetup, error) {
	category, err := setupdomain.ParseCategory(input.Category)
	if err != nil {
		return setupdomain.SessionSetup{}, err
	}
	return setupdomain.SessionSetup{
		Reason:         input.Reason,
		Category:       category,
		TestDate:       input.TestDate,
		TestTime:       input.TestTime,
		DurationMin:    input.DurationMin,
		PriorKnowledge: input.PriorKnowledge,
		Interest:       input.Interest,
	}, nil
}

func fromSetup(setup setupdomain.SessionSetup) setupdto.SetupInput {
	return setupdto.SetupInput{
		Reason:         setup.Reason,
		Category:       string(setup.Category),
		TestDate:       setup.TestDate,
		TestTime:       setup.TestTime,
		DurationMin:    setup.DurationMin,
		PriorKnowledge: setup.PriorKnowledge,
		Interest:       setup.Interest,
	}
}

func toStateOutput(active domain.ActiveSession, s domain.RuntimeState) sessiondto.StateOutput {
	events := make([]sessiondto.EventOutput, 0, len(s.Events))
	for _, e := range s.Events {
		events = append(events, sessiondto.EventOutput{At: e.At, Clock: e.Clock(), Text: e.Text})
	}
	remaining := s.RemainingSeconds()
	return sessiondto.StateOutput{
		SessionID:        active.SessionID,
		Reason:           active.Setup.Reason,
		Category:         string(active.Setup.Category),
		DurationMin:      active.Setup.DurationMin,
		ElapsedSeconds:   s.ElapsedSeconds,
		Elapsed:          domain.FormatElapsed(s.ElapsedSeconds),
		RemainingSeconds: remaining,
		Remaining:        domain.FormatElapsed(remaining),
		NextBreakIn:      s.NextBreakIn(),
		Paused:           s.Paused,
		FocusScore:       s.FocusScore,
		Status:           string(s.Status),
		StatusLabel:      s.Status.Label(),
		Eating:           string(s.Eating),
		EatingLabel:      s.Eating.Label(),
		EnergyDrinks:     s.EnergyDrinks,
		Snacks:           s.Snacks,
		Events:           events,
	}
}

func toUpdateOutput(active domain.ActiveSession, u service.Update) sessiondto.UpdateOutput {
	out := sessiondto.UpdateOutput{State: toStateOutput(active, u.State)}
	for _, n := range u.Notifications {
		out.Notifications = append(out.Notifications, toNotificationOutput(n))
	}
	return out
}

func toNotificationOutput(n domain.Notification) sessiondto.NotificationOutput {
	return sessiondto.NotificationOutput{
		Kind:       string(n.Kind),
		Title:      n.Title(),
		ToastTitle: n.ToastTitle(),
		Message:    n.Message,
		Toast:      n.Toast(),
		AckLabel:   n.AckLabel(),
		Question:   n.Question,
		Rationale:  n.Rationale,
		At:         n.At,
	}
}

func toStatsOutput(s domain.SessionStats) sessiondto.StatsOutput {
	return sessiondto.StatsOutput{
		DurationMin:     s.DurationMin,
		ElapsedSeconds:  s.ElapsedSeconds,
		FinalFocusScore: s.FinalFocusScore,
		AverageFocus:    s.AverageFocus,
		EnergyDrinks:    s.EnergyDrinks,
		Snacks:          s.Snacks,
	}
}
