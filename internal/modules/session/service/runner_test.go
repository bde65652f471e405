package service_test

import (
	"context"
	"testing"
	"time"

	"mindfocus/internal/modules/session/domain"
	"mindfocus/internal/modules/session/service"
	setupdomain "mindfocus/internal/modules/setup/domain"
	"mindfocus/internal/platform/clock"
	"mindfocus/internal/platform/random"
)

type quietRand struct{}

func (quietRand) Float64() float64 { return 0.99 }
func (quietRand) IntN(int) int     { return 0 }

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

type idleScheduler struct{}

func (idleScheduler) AfterFunc(time.Duration, func()) clock.Timer { return idleTimer{} }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC) }

type echoPrompter struct{}

func (echoPrompter) BreakReminder(random.Source) string          { return "stretch" }
func (echoPrompter) ConsumptionFact(string, random.Source) string { return "fact" }
func (echoPrompter) QuizQuestion(string, random.Source) (string, string) {
	return "q", "r"
}

func newEngine() *domain.Engine {
	return domain.NewEngine(setupdomain.SessionSetup{
		Reason:         "History essay",
		Category:       setupdomain.CategoryHomework,
		DurationMin:    30,
		PriorKnowledge: 5,
		Interest:       5,
	}, domain.Deps{Prompter: echoPrompter{}, Rand: quietRand{}, Clock: fixedClock{}, Scheduler: idleScheduler{}})
}

func TestRunnerTicksInBackgroundAndStopsOnce(t *testing.T) {
	t.Parallel()
	r := service.NewRunner(newEngine(), 5*time.Millisecond, nil, nil)
	updates, cancel := r.Subscribe()
	defer cancel()
	r.Start(context.Background())

	select {
	case u := <-updates:
		if u.State.ElapsedSeconds < 1 {
			t.Fatalf("expected a tick, got %+v", u.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not tick")
	}

	first := r.Stop()
	second := r.Stop()
	if first.ElapsedSeconds != second.ElapsedSeconds {
		t.Fatalf("stop must be idempotent: %d vs %d", first.ElapsedSeconds, second.ElapsedSeconds)
	}
	if !r.Engine().Closed() {
		t.Fatalf("engine must be closed after stop")
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("subscriber not closed on stop")
		}
	}
}

func TestRunnerStopWithoutStart(t *testing.T) {
	t.Parallel()
	r := service.NewRunner(newEngine(), time.Second, nil, nil)
	r.Step(context.Background())
	if got := r.Stop(); got.ElapsedSeconds != 1 {
		t.Fatalf("expected elapsed 1, got %d", got.ElapsedSeconds)
	}
	ch, _ := r.Subscribe()
	if _, ok := <-ch; ok {
		t.Fatalf("subscribe after stop must return a closed channel")
	}
}

func TestRunnerDropsForSlowSubscribers(t *testing.T) {
	t.Parallel()
	r := service.NewRunner(newEngine(), time.Second, nil, nil)
	updates, cancel := r.Subscribe()
	for range 100 {
		r.Step(context.Background())
	}
	if got := len(updates); got != 16 {
		t.Fatalf("expected a full buffer of 16, got %d", got)
	}
	if got := r.Engine().Snapshot().ElapsedSeconds; got != 100 {
		t.Fatalf("ticks must not block on subscribers, elapsed %d", got)
	}
	cancel()
	cancel()
}

func TestRunnerPauseResume(t *testing.T) {
	t.Parallel()
	r := service.NewRunner(newEngine(), time.Second, nil, nil)
	if !r.Pause().Paused {
		t.Fatalf("expected paused")
	}
	r.Step(context.Background())
	if r.Resume().ElapsedSeconds != 0 {
		t.Fatalf("paused step must not advance")
	}
	if r.TogglePause().Paused != true {
		t.Fatalf("toggle should pause")
	}
	if r.TogglePause().Paused {
		t.Fatalf("toggle should resume")
	}
}

func TestRunnerIsSilentWhilePaused(t *testing.T) {
	t.Parallel()
	r := service.NewRunner(newEngine(), 5*time.Millisecond, nil, nil)
	r.Start(context.Background())
	defer r.Stop()
	updates, cancel := r.Subscribe()
	defer cancel()

	paused := r.Pause()
	// Let anything already in flight land, then discard it.
	time.Sleep(20 * time.Millisecond)
	for len(updates) > 0 {
		<-updates
	}

	select {
	case u := <-updates:
		t.Fatalf("paused runner published %+v", u.State)
	case <-time.After(100 * time.Millisecond):
	}

	r.Resume()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u := <-updates:
			if u.State.ElapsedSeconds > paused.ElapsedSeconds {
				return
			}
		case <-deadline:
			t.Fatalf("runner did not tick after resume")
		}
	}
}
