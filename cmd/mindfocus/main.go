package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"mindfocus/internal/bootstrap"
	setupdto "mindfocus/internal/modules/setup/dto"
	"mindfocus/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataPath string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mindfocus",
		Short:         "Study-session companion with success prediction and focus tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "", "data directory (defaults to $MINDFOCUS_DATA)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level: debug|info|warn|error")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newPredictCmd(opts))
	root.AddCommand(newSessionCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newAnalyticsCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newProviderCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.New(opts.dataPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func loadApp(ctx context.Context, opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, os.Stderr)
}

// ─── setup flags ─────────────────────────────────────────────────────────────

func bindSetupFlags(cmd *cobra.Command, in *setupdto.SetupInput) {
	cmd.Flags().StringVar(&in.Reason, "reason", "", "what you are studying")
	cmd.Flags().StringVar(&in.Category, "category", "", "Test|Homework|Project|Reading|Other (or 1-5)")
	cmd.Flags().StringVar(&in.TestDate, "test-date", "", "test date YYYY-MM-DD (Test only)")
	cmd.Flags().StringVar(&in.TestTime, "test-time", "", "test time HH:MM (Test only)")
	cmd.Flags().IntVar(&in.DurationMin, "duration", 0, "planned minutes")
	cmd.Flags().IntVar(&in.PriorKnowledge, "knowledge", 5, "prior knowledge 1-10")
	cmd.Flags().IntVar(&in.Interest, "interest", 5, "interest 1-10")
}

func setupFlagsGiven(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("reason") || cmd.Flags().Changed("category") || cmd.Flags().Changed("duration")
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var in setupdto.SetupInput
	var apply, asJSON bool
	cmd := &cobra.Command{
		Use:   "predict --reason <text> --category <name> --duration <min>",
		Short: "Estimate the success probability of a planned session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			out, err := app.SetupCLI.Predict(ctx, in)
			if err != nil {
				return err
			}
			if apply {
				applied, err := app.SetupCLI.ApplySuggestion(ctx, in)
				if err != nil {
					return err
				}
				if applied.Applied {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "applied suggested duration: %d minutes\n", applied.Setup.DurationMin)
				}
				out = applied.Prediction
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printPrediction(cmd.OutOrStdout(), out)
			return nil
		},
	}
	bindSetupFlags(cmd, &in)
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the suggested duration before predicting")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printPrediction(w io.Writer, p setupdto.PredictionOutput) {
	_, _ = fmt.Fprintf(w, "probability: %d%%\nconfidence: %d%%\n", p.Probability, p.Confidence)
	_, _ = fmt.Fprintf(w, "factors: study_time=%.1f prior_knowledge=%.1f interest=%.1f subject=%.1f\n",
		p.Factors.StudyTime, p.Factors.PriorKnowledge, p.Factors.Interest, p.Factors.Subject)
	for _, r := range p.Recommendations {
		_, _ = fmt.Fprintf(w, "- %s\n", r)
	}
	if p.SuggestedDuration > 0 {
		_, _ = fmt.Fprintf(w, "suggested duration: %d minutes\n", p.SuggestedDuration)
	}
}

// ─── session ─────────────────────────────────────────────────────────────────

func newSessionCmd(opts *rootOptions) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Study session lifecycle"}

	var in setupdto.SetupInput
	run := &cobra.Command{
		Use:   "run",
		Short: "Run a study session in this terminal",
		Long: "Runs a live session. Without setup flags the intake questions are asked first.\n" +
			"While running: p pauses or resumes, s prints the state, e ends and saves.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			r := newSessionRunner(app.SetupCLI, app.SessionCLI, cmd.InOrStdin(), cmd.OutOrStdout())
			if !setupFlagsGiven(cmd) {
				in, err = r.intake(ctx)
				if err != nil {
					return err
				}
			}
			return r.run(ctx, in)
		},
	}
	bindSetupFlags(run, &in)

	session.AddCommand(run)
	return session
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr, logFormat string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live session HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			cfg.LogFormat = logFormat
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.New(ctx, cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           app.SessionHTTP.Router(),
				ReadHeaderTimeout: 5 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("listening", "addr", cfg.HTTPAddr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			app.Logger.Info("shutting down")
			stopServing(server, app.SessionCLI, app.Logger, 10*time.Second)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config http_addr)")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "log format: json|text")
	return cmd
}

// ─── analytics & history ─────────────────────────────────────────────────────

func newAnalyticsCmd(opts *rootOptions) *cobra.Command {
	var recent int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize finished sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			s, err := app.AnalyticsCLI.Summary(ctx, recent)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			w := cmd.OutOrStdout()
			if s.Sessions == 0 {
				_, _ = fmt.Fprintln(w, "no sessions")
				return nil
			}
			_, _ = fmt.Fprintf(w, "sessions: %d\nminutes: %.1f\naverage focus: %.1f\nenergy drinks: %d\nsnacks: %d\n",
				s.Sessions, s.TotalMinutes, s.AverageFocus, s.EnergyDrinks, s.Snacks)
			_, _ = fmt.Fprintln(w, "\nby category:")
			for _, c := range s.ByCategory {
				_, _ = fmt.Fprintf(w, "  %s\t%d sessions\t%.1f min\tfocus %.1f\n", c.Category, c.Sessions, c.Minutes, c.AverageFocus)
			}
			_, _ = fmt.Fprintln(w, "\nby week:")
			for _, wk := range s.Weekly {
				_, _ = fmt.Fprintf(w, "  %s\t%d sessions\t%d energy drinks\t%d snacks\n", wk.Week, wk.Sessions, wk.EnergyDrinks, wk.Snacks)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 5, "number of recent sessions to include")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Browse finished sessions"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List finished sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			items, err := app.AnalyticsCLI.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.1fmin\tfocus=%.1f\t%s\n",
					shortID(s.ID), s.StartedAt.Local().Format("2006-01-02 15:04"), s.Category, s.DurationMin, s.AverageFocus, s.Reason)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")

	var raw bool
	show := &cobra.Command{
		Use:   "show <id-or-prefix>",
		Short: "Render one session note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			note, err := app.AnalyticsCLI.Show(ctx, args[0])
			if err != nil {
				return err
			}
			if raw {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), note.Markdown)
				return nil
			}
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				return err
			}
			out, err := r.Render(note.Markdown)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	show.Flags().BoolVar(&raw, "raw", false, "print the markdown without rendering")

	history.AddCommand(list, show)
	return history
}

// ─── providers ───────────────────────────────────────────────────────────────

func newProviderCmd(opts *rootOptions) *cobra.Command {
	provider := &cobra.Command{Use: "provider", Short: "Prompt provider plugins"}
	provider.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List provider manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			items, err := app.PromptsCLI.List(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no providers configured")
				return nil
			}
			for _, p := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s capabilities=%s\n",
					p.Name, p.Version, p.Enabled, p.Binary, strings.Join(p.Capabilities, ","))
			}
			return nil
		},
	})

	provider.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate provider checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.PromptsCLI.Doctor(ctx)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no providers configured")
				return nil
			}
			failed := false
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					failed = true
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%s", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			if failed {
				return fmt.Errorf("provider doctor found problems")
			}
			return nil
		},
	})

	provider.AddCommand(&cobra.Command{
		Use:   "quiz [subject]",
		Short: "Draw one quiz question from the merged bank",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			subject := ""
			if len(args) == 1 {
				subject = args[0]
			}
			q, err := app.PromptsCLI.Quiz(ctx, subject)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\nwhy: %s\n", q.Category, q.Question, q.Rationale)
			return nil
		},
	})
	return provider
}

// ─── tui ─────────────────────────────────────────────────────────────────────

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the mindfocus terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logPath := filepath.Join(filepath.Dir(cfg.DBPath), "mindfocus.log")
			if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			app, err := bootstrap.New(cmd.Context(), cfg, logFile)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
