// Package autosave persists workflow snapshots on change, gated by the
// validation results of the same graph.
//
// A Saver is a small state machine (idle, saving, saved, error) driven by
// three cancellable timers: the debounce timer restarted on every change,
// the minimum dwell timer that keeps "saving" visible, and the display
// timer that returns "saved" to "idle". Each scheduled callback carries the
// generation it was created for and does nothing if that generation is no
// longer current, so a stale timer can never move the state.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/clock"
)

const (
	DefaultDebounce     = 2000 * time.Millisecond
	DefaultMinSaving    = 500 * time.Millisecond
	DefaultSavedDisplay = 2000 * time.Millisecond
	DefaultWriteTimeout = 5 * time.Second
)

// Input is one observation of the editor: the graph and the errors the
// validation engine computed for it.
type Input struct {
	Nodes       []workflow.Node
	Edges       []workflow.Edge
	GraphErrors []workflow.ValidationError
	NodeErrors  map[string]workflow.NodeError
}

func (in Input) hasErrors() bool {
	return len(in.GraphErrors) > 0 || len(in.NodeErrors) > 0
}

// Option configures a Saver.
type Option func(*Saver)

// WithDebounce sets how long to wait after the last change before acting.
func WithDebounce(d time.Duration) Option { return func(s *Saver) { s.debounce = d } }

// WithMinSaving sets the minimum time the saving state stays visible.
func WithMinSaving(d time.Duration) Option { return func(s *Saver) { s.minSaving = d } }

// WithSavedDisplay sets how long the saved state is shown before idle.
func WithSavedDisplay(d time.Duration) Option { return func(s *Saver) { s.savedDisplay = d } }

// WithWriteTimeout bounds a single sink write.
func WithWriteTimeout(d time.Duration) Option { return func(s *Saver) { s.writeTimeout = d } }

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option { return func(s *Saver) { s.clock = c } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(s *Saver) { s.log = l } }

// WithOnChange registers a callback invoked after every state transition.
// It runs outside the Saver's lock and may call back into the Saver.
func WithOnChange(f func(Status)) Option { return func(s *Saver) { s.onChange = f } }

// Saver owns the autosave state for one storage key.
type Saver struct {
	sink         workflow.Sink
	key          string
	clock        clock.Clock
	log          *slog.Logger
	onChange     func(Status)
	debounce     time.Duration
	minSaving    time.Duration
	savedDisplay time.Duration
	writeTimeout time.Duration

	mu        sync.Mutex
	latest    Input
	state     State
	lastSaved time.Time
	lastErr   error
	closed    bool
	outbox    []Status

	debounceGen   uint64
	debounceTimer clock.Timer

	// cycleGen identifies the current save cycle; dwell and display timers
	// and write completions from older cycles are ignored.
	cycleGen     uint64
	dwellTimer   clock.Timer
	displayTimer clock.Timer
	dwellDone    bool
	written      bool

	// Writes are serialized by writeMu. writeSeq numbers every requested
	// write; a request that is no longer the newest when it gets the lock
	// is skipped, so an older snapshot never lands after a newer one.
	writeMu  sync.Mutex
	writeSeq uint64
	savedSeq uint64
}

// New creates a Saver for key. initial is the graph as first observed; it is
// never persisted on its own, only changes reported through Update are.
func New(sink workflow.Sink, key string, initial Input, opts ...Option) *Saver {
	s := &Saver{
		sink:         sink,
		key:          key,
		clock:        clock.Real{},
		log:          slog.Default(),
		debounce:     DefaultDebounce,
		minSaving:    DefaultMinSaving,
		savedDisplay: DefaultSavedDisplay,
		writeTimeout: DefaultWriteTimeout,
		latest:       initial,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("key", key)
	return s
}

// Key returns the storage key the Saver writes to.
func (s *Saver) Key() string { return s.key }

// Update records a change and restarts the debounce window. Only the most
// recent change inside the window is acted on.
func (s *Saver) Update(in Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.latest = in
	stop(&s.debounceTimer)
	s.debounceGen++
	gen := s.debounceGen
	s.debounceTimer = s.clock.AfterFunc(s.debounce, func() { s.onDebounce(gen) })
}

// Status returns the current state, last successful save time and failure reason.
func (s *Saver) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newStatus(s.state, s.lastSaved, s.lastErr)
}

// State returns the current state.
func (s *Saver) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastSaved returns the timestamp of the last successful write, or the zero time.
func (s *Saver) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Reset forces the state back to idle. Pending dwell and display
// transitions are dropped; a pending debounce still fires. A write already
// in flight completes and still records LastSaved.
func (s *Saver) Reset() {
	s.mu.Lock()
	s.cycleGen++
	stop(&s.dwellTimer)
	stop(&s.displayTimer)
	s.setStatusLocked(StateIdle, nil)
	s.unlockAndNotify()
}

// Close cancels every pending timer without changing the state. Changes
// still inside the debounce window are not persisted.
func (s *Saver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.debounceGen++
	s.cycleGen++
	stop(&s.debounceTimer)
	stop(&s.dwellTimer)
	stop(&s.displayTimer)
}

func (s *Saver) onDebounce(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.debounceGen {
		s.mu.Unlock()
		return
	}
	s.debounceTimer = nil
	in := s.latest

	if in.hasErrors() {
		blockedTotal.Inc()
		s.log.Debug("autosave blocked by validation errors",
			"graph_errors", len(in.GraphErrors), "node_errors", len(in.NodeErrors))
		s.cycleGen++
		stop(&s.dwellTimer)
		stop(&s.displayTimer)
		s.setStatusLocked(StateError, ErrValidationFailed)
		s.unlockAndNotify()
		return
	}

	s.cycleGen++
	cycle := s.cycleGen
	stop(&s.dwellTimer)
	stop(&s.displayTimer)
	s.dwellDone = false
	s.written = false
	s.setStatusLocked(StateSaving, s.lastErr)
	s.dwellTimer = s.clock.AfterFunc(s.minSaving, func() { s.onDwell(cycle) })

	s.writeSeq++
	seq := s.writeSeq
	now := s.clock.Now().Truncate(time.Millisecond)
	snap := workflow.NewSnapshot(in.Nodes, in.Edges, now)
	s.unlockAndNotify()

	written, err := s.write(seq, snap)
	if !written {
		return
	}

	s.mu.Lock()
	if err != nil {
		writesTotal.WithLabelValues("error").Inc()
		s.log.Error("autosave write failed", "error", err)
	} else {
		writesTotal.WithLabelValues("ok").Inc()
		s.log.Debug("autosave written", "saved_at", snap.SavedAt, "nodes", len(snap.Nodes), "edges", len(snap.Edges))
		if seq > s.savedSeq {
			s.savedSeq = seq
			s.lastSaved = now
		}
	}
	if s.closed || cycle != s.cycleGen {
		s.unlockAndNotify()
		return
	}
	if err != nil {
		stop(&s.dwellTimer)
		s.setStatusLocked(StateError, err)
		s.unlockAndNotify()
		return
	}

	s.lastErr = nil
	s.written = true
	if s.dwellDone {
		s.enterSavedLocked(cycle)
	}
	s.unlockAndNotify()
}

// write persists snap unless a newer write was requested while it waited
// for its turn. It reports whether the sink was called.
func (s *Saver) write(seq uint64, snap workflow.Snapshot) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	superseded := seq != s.writeSeq
	s.mu.Unlock()
	if superseded {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	start := time.Now()
	defer func() { writeDuration.Observe(time.Since(start).Seconds()) }()

	return true, workflow.SaveSnapshot(ctx, s.sink, s.key, snap)
}

func (s *Saver) onDwell(cycle uint64) {
	s.mu.Lock()
	if s.closed || cycle != s.cycleGen {
		s.mu.Unlock()
		return
	}
	s.dwellTimer = nil
	s.dwellDone = true
	if s.written {
		s.enterSavedLocked(cycle)
	}
	s.unlockAndNotify()
}

func (s *Saver) enterSavedLocked(cycle uint64) {
	s.setStatusLocked(StateSaved, nil)
	stop(&s.displayTimer)
	s.displayTimer = s.clock.AfterFunc(s.savedDisplay, func() { s.onDisplay(cycle) })
}

func (s *Saver) onDisplay(cycle uint64) {
	s.mu.Lock()
	if s.closed || cycle != s.cycleGen || s.state != StateSaved {
		s.mu.Unlock()
		return
	}
	s.displayTimer = nil
	s.setStatusLocked(StateIdle, s.lastErr)
	s.unlockAndNotify()
}

// setStatusLocked records the new state and failure reason. Listeners are
// notified whenever either one changes.
func (s *Saver) setStatusLocked(st State, err error) {
	if s.state == st && sameErr(s.lastErr, err) {
		return
	}
	if s.state != st {
		s.log.Debug("autosave state", "from", s.state, "to", st)
		transitionsTotal.WithLabelValues(string(st)).Inc()
	}
	s.state = st
	s.lastErr = err
	if s.onChange != nil {
		s.outbox = append(s.outbox, newStatus(st, s.lastSaved, err))
	}
}

func sameErr(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Error() == b.Error()
}

// unlockAndNotify releases the lock and then delivers queued transitions.
func (s *Saver) unlockAndNotify() {
	pending := s.outbox
	s.outbox = nil
	s.mu.Unlock()
	for _, st := range pending {
		s.onChange(st)
	}
}

func stop(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
