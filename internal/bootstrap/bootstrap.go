package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	analyticsinadapter "mindfocus/internal/modules/analytics/adapter/in"
	analyticsoutadapter "mindfocus/internal/modules/analytics/adapter/out"
	analyticsservice "mindfocus/internal/modules/analytics/service"
	analyticsusecase "mindfocus/internal/modules/analytics/usecase"
	promptsinadapter "mindfocus/internal/modules/prompts/adapter/in"
	promptsoutadapter "mindfocus/internal/modules/prompts/adapter/out"
	promptsservice "mindfocus/internal/modules/prompts/service"
	promptsusecase "mindfocus/internal/modules/prompts/usecase"
	sessioninadapter "mindfocus/internal/modules/session/adapter/in"
	sessionoutadapter "mindfocus/internal/modules/session/adapter/out"
	sessionout "mindfocus/internal/modules/session/port/out"
	sessionservice "mindfocus/internal/modules/session/service"
	sessionusecase "mindfocus/internal/modules/session/usecase"
	setupinadapter "mindfocus/internal/modules/setup/adapter/in"
	setupservice "mindfocus/internal/modules/setup/service"
	setupusecase "mindfocus/internal/modules/setup/usecase"
	"mindfocus/internal/platform/clock"
	"mindfocus/internal/platform/config"
	"mindfocus/internal/platform/id"
	"mindfocus/internal/platform/logging"
	"mindfocus/internal/platform/random"
	"mindfocus/internal/platform/sqlitedb"
	uiapp "mindfocus/internal/ui/app"
)

type App struct {
	Config       config.Config
	Logger       *slog.Logger
	SetupCLI     setupinadapter.CLIHandler
	SessionCLI   sessioninadapter.CLIHandler
	SessionTUI   sessioninadapter.TUIHandler
	SessionHTTP  *sessioninadapter.HTTPHandler
	AnalyticsCLI analyticsinadapter.CLIHandler
	PromptsCLI   promptsinadapter.CLIHandler

	db *sql.DB
}

// New wires every module against cfg. Logs go to logOut, which the TUI
// points away from the terminal.
func New(ctx context.Context, cfg config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	clk := clock.SystemClock{}
	ids := id.UUID{}
	rng := random.New(cfg.Seed)

	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	setupUC := setupusecase.NewInteractor(setupservice.NewSetupService(rng))

	promptsUC := promptsusecase.NewInteractor(promptsservice.NewPromptService(
		promptsoutadapter.NewFileManifestStore(cfg.ProvidersPath),
		promptsoutadapter.NewGRPCHost(logging.PluginLogger(cfg.LogLevel, logOut)),
		logger,
	), rng)

	var notifiers []sessionout.Notifier
	if cfg.DesktopNotify {
		desktop := sessionoutadapter.NewDesktopNotifier()
		if desktop.Available() {
			notifiers = append(notifiers, desktop)
		} else {
			logger.Warn("desktop notifications requested but notify-send was not found")
		}
	}

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(sessionservice.Options{
			Clock:     clk,
			Scheduler: clk,
			Rand:      rng,
			IDs:       ids,
			Store:     sessionoutadapter.NewVaultSessionStore(cfg.DataPath),
			Projector: sessionoutadapter.NewSQLiteStatsProjector(db),
			Logger:    logger,
		}),
		sessionoutadapter.NewPromptSource(promptsUC, logger),
		sessionusecase.WithNotifiers(notifiers...),
		sessionusecase.WithLogger(logger),
	)

	analyticsUC := analyticsusecase.NewInteractor(analyticsservice.NewAnalyticsService(
		analyticsoutadapter.NewSQLiteSessionIndex(db),
		analyticsoutadapter.NewFileNoteReader(),
	))

	return &App{
		Config:       cfg,
		Logger:       logger,
		SetupCLI:     setupinadapter.NewCLIHandler(setupUC),
		SessionCLI:   sessioninadapter.NewCLIHandler(sessionUC),
		SessionTUI:   sessioninadapter.NewTUIHandler(sessionUC),
		SessionHTTP:  sessioninadapter.NewHTTPHandler(sessionUC, setupUC, logger),
		AnalyticsCLI: analyticsinadapter.NewCLIHandler(analyticsUC),
		PromptsCLI:   promptsinadapter.NewCLIHandler(promptsUC),
		db:           db,
	}, nil
}

// Close releases the index database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SetupCLI, app.SessionTUI, app.AnalyticsCLI, app.PromptsCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
