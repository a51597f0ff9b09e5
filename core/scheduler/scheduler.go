package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("scheduler already started")
	// ErrNoCycles is returned when the scheduler has nothing to run.
	ErrNoCycles = errors.New("scheduler has no cycles")
	// ErrNotStarted is returned by Trigger before Start or after Stop.
	ErrNotStarted = errors.New("scheduler not started")
	// ErrUnknownCycle is returned by Trigger for a name that is not registered.
	ErrUnknownCycle = errors.New("unknown cycle")
	// ErrCycleRunning is returned by Trigger while the cycle is still running.
	ErrCycleRunning = errors.New("cycle already running")
)

// Cycle is a recurring job.
type Cycle struct {
	// Name identifies the cycle in logs, metrics and status.
	Name string
	// Interval is the time between two ticks.
	Interval time.Duration
	// RunOnStart runs the cycle once as soon as the scheduler starts.
	RunOnStart bool
	// Run executes one pass. A returned error is logged and counted; the cycle keeps its schedule.
	Run func(ctx context.Context) error
}

// CycleStatus is a point-in-time view of a cycle.
type CycleStatus struct {
	Name         string        `json:"name"`
	Interval     time.Duration `json:"interval"`
	Running      bool          `json:"running"`
	LastStarted  time.Time     `json:"last_started"`
	LastFinished time.Time     `json:"last_finished"`
	LastError    string        `json:"last_error,omitempty"`
	Runs         int64         `json:"runs"`
	Failures     int64         `json:"failures"`
	Skips        int64         `json:"skips"`
}

// PanicHandler receives a panic recovered from a cycle run.
type PanicHandler func(cycle string, recovered any)

// Scheduler runs every cycle on its own ticker.
//
// Each tick dispatches the run on a separate goroutine, so a slow run never delays
// the timers. A tick that fires while the previous run of the same cycle is still in
// progress is skipped.
type Scheduler struct {
	cycles  []*cycleState
	clock   clock.WithTicker
	logger  *zap.Logger
	metrics *Metrics
	onPanic PanicHandler

	mu         sync.Mutex
	started    bool
	runCtx     context.Context
	cancelFunc context.CancelFunc
	loops      sync.WaitGroup
	runs       sync.WaitGroup
}

type cycleState struct {
	Cycle
	running atomic.Bool

	mu     sync.RWMutex
	status CycleStatus
}

// Option is a function that configures the scheduler.
type Option func(*Scheduler)

// WithClock sets the clock that drives the tickers.
func WithClock(c clock.WithTicker) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithPanicHandler sets the function that receives panics from cycle runs.
// The default handler re-panics, which terminates the process.
func WithPanicHandler(h PanicHandler) Option {
	return func(s *Scheduler) { s.onPanic = h }
}

// New creates a scheduler for the given cycles.
func New(cycles []Cycle, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:  clock.RealClock{},
		logger: zap.NewNop(),
		onPanic: func(_ string, recovered any) {
			panic(recovered)
		},
	}
	for _, c := range cycles {
		s.cycles = append(s.cycles, &cycleState{
			Cycle:  c,
			status: CycleStatus{Name: c.Name, Interval: c.Interval},
		})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms every cycle and returns immediately.
// Cycles with RunOnStart are dispatched right away.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if len(s.cycles) == 0 {
		return ErrNoCycles
	}
	for _, cs := range s.cycles {
		if cs.Interval <= 0 {
			return fmt.Errorf("cycle %s: interval must be positive, got %s", cs.Name, cs.Interval)
		}
		if cs.Run == nil {
			return fmt.Errorf("cycle %s: run function is nil", cs.Name)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.runCtx = runCtx
	s.cancelFunc = cancel
	s.started = true

	for _, cs := range s.cycles {
		// Tickers are created before Start returns so every cycle is armed.
		ticker := s.clock.NewTicker(cs.Interval)
		s.loops.Add(1)
		go s.loop(runCtx, cs, ticker)

		s.logger.Info("Cycle scheduled",
			zap.String("cycle", cs.Name),
			zap.Duration("interval", cs.Interval),
			zap.Bool("run_on_start", cs.RunOnStart),
		)
	}

	return nil
}

// Stop cancels every cycle and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.runCtx = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	s.logger.Info("Stopping scheduler")
	cancel()
	s.loops.Wait()
	s.runs.Wait()
}

// Status returns a snapshot of every cycle in registration order.
func (s *Scheduler) Status() []CycleStatus {
	out := make([]CycleStatus, 0, len(s.cycles))
	for _, cs := range s.cycles {
		cs.mu.RLock()
		st := cs.status
		cs.mu.RUnlock()
		st.Running = cs.running.Load()
		out = append(out, st)
	}
	return out
}

// Trigger dispatches a cycle outside its schedule. The run is bound to the
// scheduler's lifetime, not to the caller.
func (s *Scheduler) Trigger(name string) error {
	// Held across dispatch so Stop cannot start waiting before the run is counted.
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.runCtx
	if ctx == nil || ctx.Err() != nil {
		return ErrNotStarted
	}
	for _, cs := range s.cycles {
		if cs.Name == name {
			if !s.dispatch(ctx, cs) {
				return ErrCycleRunning
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCycle, name)
}

func (s *Scheduler) loop(ctx context.Context, cs *cycleState, ticker clock.Ticker) {
	defer s.loops.Done()
	defer ticker.Stop()

	if cs.RunOnStart {
		s.dispatch(ctx, cs)
	}

	for {
		select {
		case <-ticker.C():
			s.dispatch(ctx, cs)
		case <-ctx.Done():
			return
		}
	}
}

// dispatch starts a run unless the previous one is still going.
func (s *Scheduler) dispatch(ctx context.Context, cs *cycleState) bool {
	if !cs.running.CompareAndSwap(false, true) {
		cs.mu.Lock()
		cs.status.Skips++
		cs.mu.Unlock()
		s.metrics.skipped(cs.Name)
		s.logger.Warn("Cycle still running, tick skipped", zap.String("cycle", cs.Name))
		return false
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		defer cs.running.Store(false)
		s.execute(ctx, cs)
	}()
	return true
}

func (s *Scheduler) execute(ctx context.Context, cs *cycleState) {
	log := s.logger.With(zap.String("cycle", cs.Name))
	start := s.clock.Now()

	cs.mu.Lock()
	cs.status.LastStarted = start
	cs.mu.Unlock()
	s.metrics.setRunning(cs.Name, true)

	defer func() {
		s.metrics.setRunning(cs.Name, false)
		if r := recover(); r != nil {
			s.finish(cs, fmt.Errorf("panic: %v", r))
			s.metrics.observeRun(cs.Name, "panic", s.clock.Since(start))
			log.Error("Cycle panicked", zap.Any("panic", r))
			s.onPanic(cs.Name, r)
		}
	}()

	log.Debug("Cycle started")
	err := cs.Run(ctx)
	s.finish(cs, err)

	elapsed := s.clock.Since(start)
	if err != nil {
		s.metrics.observeRun(cs.Name, "error", elapsed)
		log.Error("Cycle failed", zap.Duration("duration", elapsed), zap.Error(err))
		return
	}
	s.metrics.observeRun(cs.Name, "ok", elapsed)
	log.Debug("Cycle finished", zap.Duration("duration", elapsed))
}

func (s *Scheduler) finish(cs *cycleState, err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.status.LastFinished = s.clock.Now()
	cs.status.Runs++
	cs.status.LastError = ""
	if err != nil {
		cs.status.Failures++
		cs.status.LastError = err.Error()
	}
}
