package service

import (
	"context"
	"fmt"
	"log/slog"

	setupdomain "mindfocus/internal/modules/setup/domain"
	"mindfocus/internal/modules/session/domain"
	sessionout "mindfocus/internal/modules/session/port/out"
	"mindfocus/internal/platform/clock"
	"mindfocus/internal/platform/id"
	"mindfocus/internal/platform/random"
)

type SessionService struct {
	clock     clock.Clock
	scheduler clock.Scheduler
	rng       random.Source
	idGen     id.Generator
	store     sessionout.SessionStore
	projector sessionout.StatsProjector
	logger    *slog.Logger
}

type Options struct {
	Clock     clock.Clock
	Scheduler clock.Scheduler
	Rand      random.Source
	IDs       id.Generator
	Store     sessionout.SessionStore
	Projector sessionout.StatsProjector
	Logger    *slog.Logger
}

func NewSessionService(opts Options) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		rng:       opts.Rand,
		idGen:     opts.IDs,
		store:     opts.Store,
		projector: opts.Projector,
		logger:    logger,
	}
}

// Start freezes setup and builds the engine for a new session.
func (s *SessionService) Start(_ context.Context, setup setupdomain.SessionSetup, prompter domain.Prompter) (domain.ActiveSession, *domain.Engine, error) {
	if err := setup.Validate(); err != nil {
		return domain.ActiveSession{}, nil, err
	}
	if prompter == nil {
		return domain.ActiveSession{}, nil, fmt.Errorf("prompter is required")
	}
	active := domain.ActiveSession{
		SessionID: s.idGen.New(),
		Setup:     setup,
		StartedAt: s.clock.Now(),
	}
	engine := domain.NewEngine(setup, domain.Deps{
		Prompter:  prompter,
		Rand:      s.rng,
		Clock:     s.clock,
		Scheduler: s.scheduler,
	})
	s.logger.Info("session started", "session_id", active.SessionID, "category", setup.Category, "duration_minutes", setup.DurationMin)
	return active, engine, nil
}

// End finalizes state, writes the session note and projects it. A failed
// projection is logged; the note stays the record of truth.
func (s *SessionService) End(ctx context.Context, active domain.ActiveSession, state domain.RuntimeState) (domain.Session, string, error) {
	session := domain.Session{
		ID:        active.SessionID,
		Setup:     active.Setup,
		StartedAt: active.StartedAt,
		EndedAt:   s.clock.Now(),
		Stats:     domain.Finalize(state),
		Events:    state.Events,
	}
	path, err := s.store.Save(ctx, session)
	if err != nil {
		return domain.Session{}, "", err
	}
	if s.projector != nil {
		if err := s.projector.Project(ctx, session, path); err != nil {
			s.logger.Warn("project session stats", "session_id", session.ID, "error", err)
		}
	}
	s.logger.Info("session ended", "session_id", session.ID, "duration_minutes", session.Stats.DurationMin, "path", path)
	return session, path, nil
}
