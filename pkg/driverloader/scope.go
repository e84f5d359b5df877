package driverloader

import (
	"context"
	"runtime/pprof"
	"sync"
	"sync/atomic"
	"time"
)

// ScopeLabel is the pprof goroutine label set while a call runs inside a
// driver scope.
const ScopeLabel = "driver_scope"

// Scope is the isolated loading scope of one library file. It is created
// once per absolute path and shared by every handle loaded from that path.
type Scope struct {
	id       string
	path     string
	loadedAt time.Time
	symbols  Symbols

	mu         sync.Mutex
	drivers    map[string]interface{}
	formatters map[string]DSNFunc

	active atomic.Int64
	calls  atomic.Int64
}

// ID is a stable name derived from the library path.
func (s *Scope) ID() string { return s.id }

// Path is the absolute library path.
func (s *Scope) Path() string { return s.path }

// LoadedAt is when the library was opened.
func (s *Scope) LoadedAt() time.Time { return s.loadedAt }

// Active is the number of calls currently running inside the scope.
func (s *Scope) Active() int64 { return s.active.Load() }

// Calls is the number of calls ever made through the scope.
func (s *Scope) Calls() int64 { return s.calls.Load() }

type scopeKey struct{}

// FromContext returns the scope a call is running in, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok
}

// enter switches the calling goroutine into the scope and returns the
// context for the inner call plus the function that switches back. The
// returned function must be deferred so it also runs when the call panics.
func (s *Scope) enter(ctx context.Context) (context.Context, func()) {
	s.active.Add(1)
	s.calls.Add(1)

	inner := context.WithValue(ctx, scopeKey{}, s)
	inner = pprof.WithLabels(inner, pprof.Labels(ScopeLabel, s.id))
	pprof.SetGoroutineLabels(inner)

	return inner, func() {
		pprof.SetGoroutineLabels(ctx)
		s.active.Add(-1)
	}
}

// attach marks a call as running inside the scope without touching the
// goroutine's pprof labels. It serves driver entry points that receive no
// context, where the caller's labels cannot be reinstated afterwards.
func (s *Scope) attach(ctx context.Context) (context.Context, func()) {
	s.active.Add(1)
	s.calls.Add(1)
	return context.WithValue(ctx, scopeKey{}, s), func() { s.active.Add(-1) }
}

// Run executes fn inside the scope.
func (s *Scope) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	inner, exit := s.enter(ctx)
	defer exit()
	return fn(inner)
}
