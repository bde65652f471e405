package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	sessiondto "mindfocus/internal/modules/session/dto"
	setupdto "mindfocus/internal/modules/setup/dto"
)

type intakePort interface {
	StartIntake(ctx context.Context) setupdto.IntakeState
	AnswerIntake(ctx context.Context, state setupdto.IntakeState, answer string) (setupdto.IntakeState, error)
	Predict(ctx context.Context, input setupdto.SetupInput) (setupdto.PredictionOutput, error)
}

type liveSessionPort interface {
	Start(ctx context.Context, setup setupdto.SetupInput) (sessiondto.StartOutput, error)
	TogglePause(ctx context.Context) (sessiondto.StateOutput, error)
	Snapshot(ctx context.Context) (sessiondto.StateOutput, error)
	Subscribe(ctx context.Context) (<-chan sessiondto.UpdateOutput, error)
	End(ctx context.Context, sessionID string) (sessiondto.EndOutput, error)
}

// sessionRunner drives one session from a line-oriented terminal.
type sessionRunner struct {
	setup   intakePort
	session liveSessionPort
	lines   <-chan string
	out     io.Writer
}

func newSessionRunner(setup intakePort, session liveSessionPort, in io.Reader, out io.Writer) *sessionRunner {
	return &sessionRunner{setup: setup, session: session, lines: readLines(in), out: out}
}

func readLines(in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

func (r *sessionRunner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *sessionRunner) intake(ctx context.Context) (setupdto.SetupInput, error) {
	state := r.setup.StartIntake(ctx)
	for !state.Done {
		r.printf("%s\n", state.Prompt)
		if state.Subtext != "" {
			r.printf("  %s\n", state.Subtext)
		}
		for i, c := range state.Chips {
			r.printf("  %d) %s\n", i+1, c)
		}
		r.printf("> ")
		var answer string
		select {
		case <-ctx.Done():
			return setupdto.SetupInput{}, ctx.Err()
		case line, ok := <-r.lines:
			if !ok {
				return setupdto.SetupInput{}, errors.New("input closed before setup finished")
			}
			answer = line
		}
		next, err := r.setup.AnswerIntake(ctx, state, answer)
		if err != nil {
			r.printf("%v\n", err)
			continue
		}
		state = next
	}
	return state.Draft, nil
}

func (r *sessionRunner) run(ctx context.Context, setup setupdto.SetupInput) error {
	p, err := r.setup.Predict(ctx, setup)
	if err != nil {
		return err
	}
	printPrediction(r.out, p)

	started, err := r.session.Start(ctx, setup)
	if err != nil {
		return err
	}
	r.printf("session %s started: %s (%s, %d min)\n", shortID(started.SessionID), started.State.Reason, started.State.Category, started.State.DurationMin)
	r.printf("commands: p pause/resume, s status, e end\n")

	updates, err := r.session.Subscribe(ctx)
	if err != nil {
		return err
	}

	lines := r.lines
	var quiz *sessiondto.NotificationOutput
	for {
		select {
		case <-ctx.Done():
			return r.end(context.WithoutCancel(ctx), started.SessionID)

		case upd, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			st := upd.State
			if st.ElapsedSeconds > 0 && st.ElapsedSeconds%60 == 0 {
				r.printStatus(st)
			}
			for _, n := range upd.Notifications {
				r.printf("\n[%s] %s\n", n.Title, n.Message)
				if n.Kind == "quiz_prompt" {
					quiz = &n
					r.printf("  %s\n  answer> ", n.Question)
				}
			}

		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			cmd := strings.TrimSpace(line)
			if quiz != nil && cmd != "" && !isCommand(cmd) {
				r.printf("Why this matters: %s\n", quiz.Rationale)
				quiz = nil
				continue
			}
			switch cmd {
			case "p":
				st, err := r.session.TogglePause(ctx)
				if err != nil {
					r.printf("pause: %v\n", err)
					continue
				}
				if st.Paused {
					r.printf("paused at %s\n", st.Elapsed)
				} else {
					r.printf("resumed at %s\n", st.Elapsed)
				}
			case "s":
				st, err := r.session.Snapshot(ctx)
				if err != nil {
					r.printf("status: %v\n", err)
					continue
				}
				r.printStatus(st)
			case "e", "end", "q":
				return r.end(ctx, started.SessionID)
			case "":
			default:
				r.printf("unknown command %q\n", cmd)
			}
		}
	}
}

// isCommand reports whether line is a session command. Commands win over a
// pending quiz answer.
func isCommand(line string) bool {
	switch line {
	case "p", "s", "e", "end", "q":
		return true
	}
	return false
}

func (r *sessionRunner) printStatus(st sessiondto.StateOutput) {
	r.printf("%s elapsed, %s remaining, focus %d (%s, %s), drinks %d, snacks %d\n",
		st.Elapsed, st.Remaining, st.FocusScore, st.StatusLabel, st.EatingLabel, st.EnergyDrinks, st.Snacks)
}

func (r *sessionRunner) end(ctx context.Context, sessionID string) error {
	out, err := r.session.End(ctx, sessionID)
	if err != nil {
		return err
	}
	st := out.Stats
	r.printf("\nsession saved: %s\nduration: %.1f min\nfinal focus: %d\naverage focus: %.1f\nenergy drinks: %d\nsnacks: %d\n",
		out.Path, st.DurationMin, st.FinalFocusScore, st.AverageFocus, st.EnergyDrinks, st.Snacks)
	return nil
}
