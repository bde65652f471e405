package domain

import (
	"testing"
	"time"

	setupdomain "mindfocus/internal/modules/setup/domain"
	"mindfocus/internal/platform/clock"
	"mindfocus/internal/platform/random"
)

type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return min(v, n-1)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type manualTask struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type manualScheduler struct {
	now   time.Duration
	tasks []*manualTask
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := &manualTask{at: s.now + d, fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.now += d
	for _, t := range s.tasks {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			t.fn()
		}
	}
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakePrompter struct{}

func (fakePrompter) BreakReminder(_ random.Source) string { return "stretch" }
func (fakePrompter) ConsumptionFact(kind string, _ random.Source) string {
	return "fact about " + kind
}
func (fakePrompter) QuizQuestion(subject string, _ random.Source) (string, string) {
	return "question on " + subject, "because"
}

type fixture struct {
	engine *Engine
	rng    *scriptedRand
	clock  *fakeClock
	sched  *manualScheduler
}

func newFixture(t *testing.T, setup setupdomain.SessionSetup) fixture {
	t.Helper()
	f := fixture{
		rng:   &scriptedRand{},
		clock: &fakeClock{now: time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)},
		sched: &manualScheduler{},
	}
	f.engine = NewEngine(setup, Deps{
		Prompter:  fakePrompter{},
		Rand:      f.rng,
		Clock:     f.clock,
		Scheduler: f.sched,
		Location:  time.UTC,
	})
	return f
}

func homeworkSetup(minutes int) setupdomain.SessionSetup {
	return setupdomain.SessionSetup{
		Reason:         "Calculus homework",
		Category:       setupdomain.CategoryHomework,
		DurationMin:    minutes,
		PriorKnowledge: 6,
		Interest:       7,
	}
}

func tickN(e *Engine, n int) []Notification {
	var all []Notification
	for range n {
		all = append(all, e.Tick()...)
	}
	return all
}

func countKind(ns []Notification, kind NotificationKind) int {
	n := 0
	for _, x := range ns {
		if x.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewEngineInitialState(t *testing.T) {
	f := newFixture(t, homeworkSetup(90))
	s := f.engine.Snapshot()
	if s.ElapsedSeconds != 0 || s.Paused || s.FocusScore != InitialFocusScore {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if s.Status != StatusWatching || s.Eating != EatingNone {
		t.Fatalf("unexpected initial status: %s %s", s.Status, s.Eating)
	}
	if len(s.Events) != 1 || s.Events[0] != (Event{At: 0, Text: EventSessionStarted}) {
		t.Fatalf("unexpected events: %+v", s.Events)
	}
	if s.RemainingSeconds() != 5400 || s.NextBreakIn() != 1500 {
		t.Fatalf("remaining=%d breakIn=%d", s.RemainingSeconds(), s.NextBreakIn())
	}
}

func TestBreakFiresOncePerInterval(t *testing.T) {
	f := newFixture(t, homeworkSetup(120))
	got := tickN(f.engine, 1500)
	if n := countKind(got, KindBreak); n != 1 {
		t.Fatalf("expected one break after 1500 ticks, got %d", n)
	}
	if s := f.engine.Snapshot(); s.LastBreakTime != 1500 {
		t.Fatalf("expected lastBreakTime 1500, got %d", s.LastBreakTime)
	}
	got = append(got, tickN(f.engine, 1500)...)
	if n := countKind(got, KindBreak); n != 2 {
		t.Fatalf("expected two breaks after 3000 ticks, got %d", n)
	}
}

func TestBreakNotificationCarriesReminder(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	tickN(f.engine, 1499)
	got := f.engine.Tick()
	if countKind(got, KindBreak) != 1 {
		t.Fatalf("expected break on tick 1500, got %+v", got)
	}
	for _, n := range got {
		if n.Kind == KindBreak && (n.Message != "stretch" || n.At != 1500 || n.Title() != "Break Time!") {
			t.Fatalf("unexpected break notification: %+v", n)
		}
	}
}

func TestPausedTicksDoNotAdvance(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	tickN(f.engine, 10)
	f.engine.Pause()
	if got := tickN(f.engine, 25); len(got) != 0 {
		t.Fatalf("expected no notifications while paused, got %+v", got)
	}
	if s := f.engine.Snapshot(); s.ElapsedSeconds != 10 || !s.Paused {
		t.Fatalf("expected elapsed 10 while paused, got %+v", s)
	}
	f.engine.Resume()
	tickN(f.engine, 5)
	if s := f.engine.Snapshot(); s.ElapsedSeconds != 15 {
		t.Fatalf("expected elapsed 15 after resume, got %d", s.ElapsedSeconds)
	}
	if paused := f.engine.TogglePause(); !paused {
		t.Fatalf("toggle should pause")
	}
	if paused := f.engine.TogglePause(); paused {
		t.Fatalf("toggle should resume")
	}
}

func TestQuizFiresAtRolledIntervalAndRerolls(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	f.rng.ints = []int{100}
	got := tickN(f.engine, 479)
	if countKind(got, KindQuizPrompt) != 0 {
		t.Fatalf("quiz fired early")
	}
	got = f.engine.Tick()
	if countKind(got, KindQuizPrompt) != 1 {
		t.Fatalf("expected quiz at 480, got %+v", got)
	}
	q := got[0]
	if q.Question != "question on Calculus homework" || q.Rationale != "because" || q.Message != QuizMessage {
		t.Fatalf("unexpected quiz: %+v", q)
	}
	if s := f.engine.Snapshot(); s.LastQuizTime != 480 {
		t.Fatalf("expected lastQuizTime 480, got %d", s.LastQuizTime)
	}
	got = tickN(f.engine, 579)
	if countKind(got, KindQuizPrompt) != 0 {
		t.Fatalf("second quiz fired before the rerolled interval")
	}
	if got = f.engine.Tick(); countKind(got, KindQuizPrompt) != 1 {
		t.Fatalf("expected second quiz at 1060")
	}
}

func TestFocusDipLogsAtPreTickElapsed(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	tickN(f.engine, 4)
	f.rng.floats = []float64{0.01}
	f.rng.ints = []int{0}
	f.engine.Tick()
	s := f.engine.Snapshot()
	if s.FocusScore != 75 || s.Status != StatusLookingAway {
		t.Fatalf("expected dip to 75, got %d %s", s.FocusScore, s.Status)
	}
	last := s.Events[len(s.Events)-1]
	if last.At != 4 || last.Text != EventFocusDipped {
		t.Fatalf("unexpected event: %+v", last)
	}

	f.rng.floats = []float64{0.01}
	f.rng.ints = []int{15}
	f.engine.Tick()
	s = f.engine.Snapshot()
	if s.FocusScore != 90 || s.Status != StatusWatching {
		t.Fatalf("expected recovery to 90, got %d %s", s.FocusScore, s.Status)
	}
	if len(s.Events) != 2 {
		t.Fatalf("recovery must not log, got %+v", s.Events)
	}
}

func TestDetectionRevertsAfterDelay(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	tickN(f.engine, 2)
	f.rng.floats = []float64{0.99, 0.001, 0.2}
	got := f.engine.Tick()
	if countKind(got, KindFoodDetection) != 1 {
		t.Fatalf("expected detection, got %+v", got)
	}
	n := got[0]
	if n.Food != ConsumableEnergyDrink || n.Message != "fact about energy drink" || n.Title() != "Drink Detected" {
		t.Fatalf("unexpected detection: %+v", n)
	}
	s := f.engine.Snapshot()
	if s.Eating != EatingEnergyDrink || s.EnergyDrinks != 1 || s.Snacks != 0 {
		t.Fatalf("unexpected state after detection: %+v", s)
	}
	if last := s.Events[len(s.Events)-1]; last != (Event{At: 2, Text: EventEnergyDrink}) {
		t.Fatalf("unexpected event: %+v", last)
	}

	var changed []RuntimeState
	f.engine.SetOnChange(func(rs RuntimeState) { changed = append(changed, rs) })

	f.sched.Advance(2999 * time.Millisecond)
	if s := f.engine.Snapshot(); s.Eating != EatingEnergyDrink {
		t.Fatalf("reverted too early: %s", s.Eating)
	}
	f.sched.Advance(time.Millisecond)
	if s := f.engine.Snapshot(); s.Eating != EatingNone {
		t.Fatalf("expected revert after 3s, got %s", s.Eating)
	}
	if len(changed) != 1 || changed[0].Eating != EatingNone {
		t.Fatalf("expected one change callback, got %+v", changed)
	}
}

func TestNewerDetectionSupersedesPendingRevert(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	f.rng.floats = []float64{0.99, 0.001, 0.2}
	f.engine.Tick()
	f.sched.Advance(2 * time.Second)
	f.rng.floats = []float64{0.99, 0.001, 0.7}
	f.engine.Tick()
	if f.sched.pending() != 1 {
		t.Fatalf("expected the first revert cancelled, pending=%d", f.sched.pending())
	}
	f.sched.Advance(2 * time.Second)
	if s := f.engine.Snapshot(); s.Eating != EatingSnack || s.Snacks != 1 || s.EnergyDrinks != 1 {
		t.Fatalf("unexpected state: %+v", s)
	}
	f.sched.Advance(time.Second)
	if s := f.engine.Snapshot(); s.Eating != EatingNone {
		t.Fatalf("expected revert, got %s", s.Eating)
	}
}

func TestCloseCancelsRevertAndIsIdempotent(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	f.rng.floats = []float64{0.99, 0.001, 0.7}
	f.engine.Tick()
	first := f.engine.Close()
	second := f.engine.Close()
	if first.ElapsedSeconds != 1 || second.ElapsedSeconds != 1 {
		t.Fatalf("unexpected closed state: %+v %+v", first, second)
	}
	if f.sched.pending() != 0 {
		t.Fatalf("expected revert cancelled on close")
	}
	if got := f.engine.Tick(); got != nil {
		t.Fatalf("closed engine must not tick")
	}
	if !f.engine.Closed() {
		t.Fatalf("expected closed")
	}
}

func TestTimeUpFiresOnce(t *testing.T) {
	f := newFixture(t, homeworkSetup(1))
	got := tickN(f.engine, 59)
	if countKind(got, KindTimeUp) != 0 {
		t.Fatalf("time up fired early")
	}
	got = tickN(f.engine, 30)
	if countKind(got, KindTimeUp) != 1 {
		t.Fatalf("expected exactly one time up, got %+v", got)
	}
	if s := f.engine.Snapshot(); s.RemainingSeconds() != 0 {
		t.Fatalf("remaining must floor at zero, got %d", s.RemainingSeconds())
	}
}

func TestTestRemindersFireOnceEach(t *testing.T) {
	setup := setupdomain.SessionSetup{
		Reason:         "Study for test: Biology",
		Category:       setupdomain.CategoryTest,
		TestDate:       "2026-03-10",
		TestTime:       "09:00",
		DurationMin:    180,
		PriorKnowledge: 5,
		Interest:       5,
	}
	f := newFixture(t, setup)
	testAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	f.clock.now = testAt.Add(-61 * time.Minute)
	if got := f.engine.Tick(); countKind(got, KindTestReminder) != 0 {
		t.Fatalf("reminder fired early")
	}
	f.clock.now = testAt.Add(-59 * time.Minute)
	got := f.engine.Tick()
	if countKind(got, KindTestReminder) != 1 || got[0].Message != "Your test is in about 1 hour." {
		t.Fatalf("expected 1h reminder, got %+v", got)
	}
	if got := f.engine.Tick(); countKind(got, KindTestReminder) != 0 {
		t.Fatalf("1h reminder repeated")
	}
	f.clock.now = testAt.Add(-9 * time.Minute)
	got = f.engine.Tick()
	if countKind(got, KindTestReminder) != 1 || got[0].Message != "Your test is in about 10 minutes." {
		t.Fatalf("expected 10m reminder, got %+v", got)
	}
	f.clock.now = testAt.Add(time.Minute)
	if got := f.engine.Tick(); countKind(got, KindTestReminder) != 0 {
		t.Fatalf("no reminders after the test starts")
	}
}

func TestFocusSamplesAccumulate(t *testing.T) {
	f := newFixture(t, homeworkSetup(60))
	tickN(f.engine, 3)
	s := f.engine.Snapshot()
	if s.FocusSamples != 3 || s.FocusSum != 3*InitialFocusScore {
		t.Fatalf("unexpected samples: %d %d", s.FocusSamples, s.FocusSum)
	}
}
