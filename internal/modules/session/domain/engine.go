package domain

import (
	"sync"
	"time"

	setupdomain "mindfocus/internal/modules/setup/domain"
	"mindfocus/internal/platform/clock"
	"mindfocus/internal/platform/random"
)

// Prompter supplies notification texts. prompts/domain.Bank satisfies it.
type Prompter interface {
	BreakReminder(rng random.Source) string
	ConsumptionFact(kind string, rng random.Source) string
	QuizQuestion(subject string, rng random.Source) (string, string)
}

type Deps struct {
	Prompter  Prompter
	Rand      random.Source
	Clock     clock.Clock
	Scheduler clock.Scheduler
	// Location interprets the test date. Defaults to time.Local.
	Location *time.Location
}

type testReminder struct {
	lead    time.Duration
	message string
}

var testReminders = []testReminder{
	{lead: time.Hour, message: "Your test is in about 1 hour."},
	{lead: 10 * time.Minute, message: "Your test is in about 10 minutes."},
}

// Engine is the session clock state machine. Tick is driven externally,
// once per second while running.
type Engine struct {
	mu            sync.Mutex
	setup         setupdomain.SessionSetup
	deps          Deps
	state         RuntimeState
	quizInterval  int
	timeUpSent    bool
	remindersSent []bool
	eatingGen     uint64
	revert        clock.Timer
	closed        bool
	onChange      func(RuntimeState)
}

func NewEngine(setup setupdomain.SessionSetup, deps Deps) *Engine {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	e := &Engine{
		setup:         setup,
		deps:          deps,
		state:         NewRuntimeState(setup.DurationMin),
		remindersSent: make([]bool, len(testReminders)),
	}
	e.quizInterval = e.rollQuizInterval()
	return e
}

// SetOnChange registers a callback for state changes that happen outside
// Tick, such as the eating status revert.
func (e *Engine) SetOnChange(fn func(RuntimeState)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

func (e *Engine) Setup() setupdomain.SessionSetup {
	return e.setup
}

// Tick advances the clock by one second and returns the notifications due.
func (e *Engine) Tick() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.Paused {
		return nil
	}

	prev := e.state.ElapsedSeconds
	e.state.ElapsedSeconds++
	elapsed := e.state.ElapsedSeconds
	var out []Notification

	if elapsed%BreakIntervalSec == 0 && elapsed != e.state.LastBreakTime {
		e.state.LastBreakTime = elapsed
		out = append(out, Notification{
			Kind:    KindBreak,
			Message: e.deps.Prompter.BreakReminder(e.deps.Rand),
			At:      elapsed,
		})
	}

	if elapsed-e.state.LastQuizTime >= e.quizInterval {
		e.state.LastQuizTime = elapsed
		e.quizInterval = e.rollQuizInterval()
		question, rationale := e.deps.Prompter.QuizQuestion(e.setup.Subject(), e.deps.Rand)
		out = append(out, Notification{
			Kind:      KindQuizPrompt,
			Message:   QuizMessage,
			Question:  question,
			Rationale: rationale,
			At:        elapsed,
		})
	}

	if e.deps.Rand.Float64() < FocusResampleChance {
		e.state.FocusScore = FocusMin + e.deps.Rand.IntN(FocusSpan)
		if e.state.FocusScore < FocusLookingAwayBelow {
			e.state.Status = StatusLookingAway
			e.state.Events = append(e.state.Events, Event{At: prev, Text: EventFocusDipped})
		} else {
			e.state.Status = StatusWatching
		}
	}

	if e.deps.Rand.Float64() < DetectionChance {
		out = append(out, e.detect(prev, elapsed))
	}

	if !e.timeUpSent && e.state.PlannedSeconds > 0 && elapsed >= e.state.PlannedSeconds {
		e.timeUpSent = true
		out = append(out, Notification{Kind: KindTimeUp, Message: TimeUpMessage, At: elapsed})
	}

	out = append(out, e.dueTestReminders(elapsed)...)

	e.state.FocusSum += e.state.FocusScore
	e.state.FocusSamples++
	return out
}

func (e *Engine) detect(prev, elapsed int) Notification {
	food := ConsumableSnack
	if e.deps.Rand.Float64() < 0.5 {
		food = ConsumableEnergyDrink
	}
	text := EventSnack
	if food == ConsumableEnergyDrink {
		e.state.EnergyDrinks++
		e.state.Eating = EatingEnergyDrink
		text = EventEnergyDrink
	} else {
		e.state.Snacks++
		e.state.Eating = EatingSnack
	}
	e.state.Events = append(e.state.Events, Event{At: prev, Text: text})
	e.scheduleRevert()
	return Notification{
		Kind:    KindFoodDetection,
		Food:    food,
		Message: e.deps.Prompter.ConsumptionFact(string(food), e.deps.Rand),
		At:      elapsed,
	}
}

// scheduleRevert replaces any pending revert. Only the revert belonging to
// the latest detection may clear the status.
func (e *Engine) scheduleRevert() {
	if e.revert != nil {
		e.revert.Stop()
	}
	e.eatingGen++
	gen := e.eatingGen
	e.revert = e.deps.Scheduler.AfterFunc(DetectionRevertDelay, func() {
		e.revertEating(gen)
	})
}

func (e *Engine) revertEating(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.eatingGen {
		e.mu.Unlock()
		return
	}
	e.state.Eating = EatingNone
	e.revert = nil
	snapshot := e.state.clone()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

func (e *Engine) dueTestReminders(elapsed int) []Notification {
	testAt, ok := e.setup.TestAt(e.deps.Location)
	if !ok {
		return nil
	}
	now := e.deps.Clock.Now()
	if !now.Before(testAt) {
		return nil
	}
	var out []Notification
	for i, r := range testReminders {
		if e.remindersSent[i] || now.Before(testAt.Add(-r.lead)) {
			continue
		}
		e.remindersSent[i] = true
		out = append(out, Notification{Kind: KindTestReminder, Message: r.message, At: elapsed})
	}
	return out
}

func (e *Engine) rollQuizInterval() int {
	return QuizMinIntervalSec + e.deps.Rand.IntN(QuizIntervalSpanSec)
}

func (e *Engine) Pause() {
	e.mu.Lock()
	e.state.Paused = true
	e.mu.Unlock()
}

func (e *Engine) Resume() {
	e.mu.Lock()
	e.state.Paused = false
	e.mu.Unlock()
}

func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Paused
}

// TogglePause flips the paused flag and reports the new value.
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Paused = !e.state.Paused
	return e.state.Paused
}

func (e *Engine) Snapshot() RuntimeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Close stops the engine and cancels the pending revert. It is safe to call
// more than once.
func (e *Engine) Close() RuntimeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		if e.revert != nil {
			e.revert.Stop()
			e.revert = nil
		}
	}
	return e.state.clone()
}

func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
