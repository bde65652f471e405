package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mindfocus/internal/modules/session/domain"
	sessionout "mindfocus/internal/modules/session/port/out"
)

const (
	TickInterval     = time.Second
	subscriberBuffer = 16
)

// Update is a state snapshot plus the notifications raised with it.
type Update struct {
	State         domain.RuntimeState
	Notifications []domain.Notification
}

// Runner drives an Engine once per interval and fans updates out to
// subscribers. Slow subscribers miss updates instead of stalling the clock.
type Runner struct {
	engine    *domain.Engine
	interval  time.Duration
	notifiers []sessionout.Notifier
	logger    *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan Update
	nextID int

	control  chan bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  bool
}

func NewRunner(engine *domain.Engine, interval time.Duration, notifiers []sessionout.Notifier, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = TickInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		engine:    engine,
		interval:  interval,
		notifiers: notifiers,
		logger:    logger,
		subs:      map[int]chan Update{},
		control:   make(chan bool, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	engine.SetOnChange(func(state domain.RuntimeState) {
		r.publish(Update{State: state})
	})
	return r
}

func (r *Runner) Engine() *domain.Engine {
	return r.engine
}

// Start launches the tick loop. It returns immediately.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()
	go r.run(ctx)
}

func (r *Runner) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case running := <-r.control:
			if running {
				ticker.Reset(r.interval)
			} else {
				ticker.Stop()
			}
		case <-ticker.C:
			r.Step(ctx)
		}
	}
}

// Step delivers one tick to the engine and publishes the result. A paused
// engine publishes nothing.
func (r *Runner) Step(ctx context.Context) {
	if r.engine.Paused() {
		return
	}
	notes := r.engine.Tick()
	for _, n := range notes {
		r.logger.Info("session notification", "kind", n.Kind, "at", n.At)
		for _, sink := range r.notifiers {
			if err := sink.Notify(ctx, n); err != nil {
				r.logger.Warn("notifier failed", "kind", n.Kind, "error", err)
			}
		}
	}
	r.publish(Update{State: r.engine.Snapshot(), Notifications: notes})
}

// Pause halts the tick source until Resume.
func (r *Runner) Pause() domain.RuntimeState {
	r.engine.Pause()
	r.signal(false)
	state := r.engine.Snapshot()
	r.publish(Update{State: state})
	return state
}

// Resume unpauses the engine and restarts the tick source so no partial
// interval is replayed.
func (r *Runner) Resume() domain.RuntimeState {
	r.engine.Resume()
	r.signal(true)
	state := r.engine.Snapshot()
	r.publish(Update{State: state})
	return state
}

func (r *Runner) TogglePause() domain.RuntimeState {
	r.signal(!r.engine.TogglePause())
	state := r.engine.Snapshot()
	r.publish(Update{State: state})
	return state
}

// signal hands the tick loop the latest running flag. Older pending
// values are replaced.
func (r *Runner) signal(running bool) {
	for {
		select {
		case r.control <- running:
			return
		default:
		}
		select {
		case <-r.control:
		default:
		}
	}
}

// Subscribe returns a buffered update channel and its cancel func. The
// channel is closed when the runner stops or cancel is called.
func (r *Runner) Subscribe() (<-chan Update, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan Update, subscriberBuffer)
	if r.stopped() {
		close(ch)
		return ch, func() {}
	}
	id := r.nextID
	r.nextID++
	r.subs[id] = ch
	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
}

func (r *Runner) publish(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.subs {
		select {
		case ch <- u:
		default:
			r.logger.Debug("dropping update for slow subscriber", "subscriber", id)
		}
	}
}

func (r *Runner) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// Stop ends the tick loop, closes the engine and every subscriber, and
// returns the final state. Repeated calls return the same state.
func (r *Runner) Stop() domain.RuntimeState {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		close(r.stop)
		started := r.started
		r.mu.Unlock()
		if started {
			<-r.done
		}
		r.engine.Close()
		r.mu.Lock()
		for id, ch := range r.subs {
			delete(r.subs, id)
			close(ch)
		}
		r.mu.Unlock()
	})
	return r.engine.Snapshot()
}
