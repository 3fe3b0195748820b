package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-proxy/internal/bridges/lighting"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

// Default delays used when Options leaves them negative.
const (
	DefaultCallDelay  = 500 * time.Millisecond
	DefaultCycleDelay = time.Second
)

// Options configures an Engine.
type Options struct {
	// Scenes and Intensities are the registries to poll. Either may be nil.
	Scenes      *target.Registry
	Intensities *target.Registry

	// Client fetches controller state. Required.
	Client Fetcher

	// CallDelay separates consecutive requests within a cycle.
	// Zero disables pacing; negative selects DefaultCallDelay.
	CallDelay time.Duration

	// CycleDelay separates cycles.
	// Zero disables the pause; negative selects DefaultCycleDelay.
	CycleDelay time.Duration

	// Logger is optional.
	Logger Logger
}

// Engine continuously refreshes registered targets from their controllers.
//
// Thread Safety: Run must be called once. Status and AddObserver are safe
// for concurrent use while Run is executing.
type Engine struct {
	registries []polled
	client     Fetcher
	callDelay  time.Duration
	cycleDelay time.Duration
	logger     Logger

	observersMu sync.RWMutex
	observers   []Observer

	running      atomic.Bool
	state        atomic.Value // State
	cycles       atomic.Uint64
	successes    atomic.Uint64
	failures     atomic.Uint64
	lastDuration atomic.Int64
	lastCycleAt  atomic.Int64
}

// polled binds a registry to the state and decoder used while polling it.
type polled struct {
	reg    *target.Registry
	state  State
	decode Decoder
}

// NewEngine creates a sync engine. Call Run to start it.
//
// Parameters:
//   - opts: Registries, device client and pacing
//
// Returns:
//   - *Engine: Ready to run
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	callDelay := opts.CallDelay
	if callDelay < 0 {
		callDelay = DefaultCallDelay
	}
	cycleDelay := opts.CycleDelay
	if cycleDelay < 0 {
		cycleDelay = DefaultCycleDelay
	}

	e := &Engine{
		client:     opts.Client,
		callDelay:  callDelay,
		cycleDelay: cycleDelay,
		logger:     logger,
	}
	e.state.Store(StateIdle)

	// Scenes are polled before intensities.
	if opts.Scenes != nil {
		e.registries = append(e.registries, polled{reg: opts.Scenes, state: StatePollingScenes, decode: lighting.DecodeScene})
	}
	if opts.Intensities != nil {
		e.registries = append(e.registries, polled{reg: opts.Intensities, state: StatePollingIntensities, decode: lighting.DecodeIntensity})
	}
	return e
}

// AddObserver registers o to receive a Change after every successful poll.
func (e *Engine) AddObserver(o Observer) {
	if o == nil {
		return
	}
	e.observersMu.Lock()
	e.observers = append(e.observers, o)
	e.observersMu.Unlock()
}

// Run polls until ctx is cancelled.
//
// Returns:
//   - error: nil after cancellation, ErrAlreadyRunning or ErrNoClient
func (e *Engine) Run(ctx context.Context) error {
	if e.client == nil {
		return ErrNoClient
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	e.logger.Info("sync engine started",
		"call_delay", e.callDelay.String(),
		"cycle_delay", e.cycleDelay.String(),
	)

	for {
		e.PollOnce(ctx)

		if err := sleep(ctx, e.cycleDelay); err != nil {
			e.logger.Info("sync engine stopped", "cycles", e.cycles.Load())
			return nil
		}
	}
}

// PollOnce runs a single cycle over every registry and returns when it is
// complete or ctx is cancelled. It must not run concurrently with Run.
func (e *Engine) PollOnce(ctx context.Context) {
	start := time.Now()
	pace := &pacer{delay: e.callDelay}

	for _, p := range e.registries {
		if ctx.Err() != nil {
			break
		}
		e.state.Store(p.state)
		e.pollRegistry(ctx, p, pace)
	}

	e.state.Store(StateIdle)
	e.cycles.Add(1)
	e.lastDuration.Store(int64(time.Since(start)))
	e.lastCycleAt.Store(time.Now().UnixNano())
}

// pollRegistry polls every target of one registry in snapshot order.
func (e *Engine) pollRegistry(ctx context.Context, p polled, pace *pacer) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("registry poll panic recovered",
				"kind", p.reg.Kind(),
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()

	for _, rec := range p.reg.Snapshot() {
		if err := pace.wait(ctx); err != nil {
			return
		}
		e.pollTarget(ctx, p, rec)
	}
}

// pollTarget fetches, decodes and stores one target. Failures leave the
// cached value untouched.
func (e *Engine) pollTarget(ctx context.Context, p polled, rec target.Record) {
	defer func() {
		if r := recover(); r != nil {
			e.failures.Add(1)
			e.logger.Error("target poll panic recovered",
				"kind", rec.Kind,
				"url", rec.URL,
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()

	body, err := e.client.Fetch(ctx, rec.URL, rec.Token)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		e.failures.Add(1)
		e.logger.Warn("target fetch failed", "kind", rec.Kind, "url", rec.URL, "name", rec.Name, "error", err)
		return
	}

	value, err := p.decode(body)
	if err != nil {
		e.failures.Add(1)
		e.logger.Warn("target decode failed", "kind", rec.Kind, "url", rec.URL, "name", rec.Name, "error", err)
		return
	}

	previous, _ := p.reg.Update(rec.URL, value)
	e.successes.Add(1)

	change := Change{
		Kind:     rec.Kind,
		ID:       rec.ID,
		URL:      rec.URL,
		Name:     rec.Name,
		Value:    value,
		Previous: previous,
		Changed:  previous != value,
		At:       time.Now().UTC(),
	}
	if change.Changed {
		e.logger.Debug("target value changed", "kind", rec.Kind, "url", rec.URL, "previous", previous, "value", value)
	}
	e.notify(ctx, change)
}

// notify delivers change to every observer, isolating observer panics.
func (e *Engine) notify(ctx context.Context, change Change) {
	e.observersMu.RLock()
	observers := e.observers
	e.observersMu.RUnlock()

	for _, o := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("observer panic recovered",
						"url", change.URL,
						"panic", fmt.Sprintf("%v", r),
					)
				}
			}()
			o.OnChange(ctx, change)
		}()
	}
}

// Status returns the engine's current counters.
func (e *Engine) Status() Status {
	s := Status{
		Running:           e.running.Load(),
		State:             e.state.Load().(State),
		Cycles:            e.cycles.Load(),
		Successes:         e.successes.Load(),
		Failures:          e.failures.Load(),
		LastCycleDuration: time.Duration(e.lastDuration.Load()),
	}
	if ns := e.lastCycleAt.Load(); ns != 0 {
		s.LastCycleAt = time.Unix(0, ns).UTC()
	}
	return s
}

// pacer spaces consecutive requests within one cycle.
type pacer struct {
	delay   time.Duration
	started bool
}

// wait returns immediately for the first call of a cycle and sleeps for the
// pacing delay before every later one.
func (p *pacer) wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return ctx.Err()
	}
	return sleep(ctx, p.delay)
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
