// Package engine is the anchor facade: it owns the connection registry,
// the execution engine and the metadata explorer, and exposes the
// operations the CLI drives through Server.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redbco/redb-driverhub/pkg/config"
	"github.com/redbco/redb-driverhub/pkg/health"
	"github.com/redbco/redb-driverhub/pkg/keyring"
	"github.com/redbco/redb-driverhub/pkg/logger"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection"
	"github.com/redbco/redb-driverhub/services/anchor/internal/execution"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
	"github.com/redbco/redb-driverhub/services/anchor/internal/telemetry"
)

type Engine struct {
	config   *config.Config
	registry *connection.Registry
	executor *execution.Engine
	explorer *metadata.Explorer
	secrets  keyring.Store
	logger   *logger.Logger
	telem    *telemetry.Metrics

	state struct {
		sync.Mutex
		isRunning         bool
		ongoingOperations int32
	}
	metrics struct {
		requestsProcessed int64
		errors            int64
	}
	reaperCancel context.CancelFunc
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRegistry replaces the connection registry built from the process-wide
// plugin registry and driver loader.
func WithRegistry(r *connection.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithKeyring sets the store "keyring:<account>" passwords resolve against.
func WithKeyring(s keyring.Store) Option {
	return func(e *Engine) { e.secrets = s }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.telem = m }
}

// NewEngine wires the components. A nil cfg uses config.Default().
func NewEngine(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{config: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = connection.NewRegistry(nil, nil,
			connection.WithLogger(e.logger),
			connection.WithMetrics(e.telem),
		)
	}
	e.executor = execution.NewEngine(execution.WithLogger(e.logger), execution.WithMetrics(e.telem))
	e.explorer = metadata.NewExplorer(e.executor, e.logger)
	return e
}

// Start launches the idle reaper when the configuration enables it.
func (e *Engine) Start(ctx context.Context) error {
	e.state.Lock()
	defer e.state.Unlock()

	if e.state.isRunning {
		return fmt.Errorf("engine is already running")
	}

	conns := e.config.Connections
	if conns.IdleTimeout > 0 && conns.ReapInterval > 0 {
		rctx, cancel := context.WithCancel(ctx)
		e.reaperCancel = cancel
		e.registry.StartReaper(rctx, conns.ReapInterval, conns.IdleTimeout)
	}

	e.state.isRunning = true
	if e.logger != nil {
		e.logger.Info("Anchor engine started with %d plugins", len(e.registry.Plugins().List()))
	}
	return nil
}

// Stop waits up to gracePeriod for in-flight operations, then closes every
// connection.
func (e *Engine) Stop(ctx context.Context, gracePeriod time.Duration) error {
	e.state.Lock()
	if !e.state.isRunning {
		e.state.Unlock()
		return nil
	}
	e.state.isRunning = false
	if e.reaperCancel != nil {
		e.reaperCancel()
		e.reaperCancel = nil
	}
	e.state.Unlock()

	deadline := time.NewTimer(gracePeriod)
	defer deadline.Stop()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

wait:
	for atomic.LoadInt32(&e.state.ongoingOperations) > 0 {
		select {
		case <-ctx.Done():
			break wait
		case <-deadline.C:
			if e.logger != nil {
				e.logger.Warn("Stopping with %d operations still running", atomic.LoadInt32(&e.state.ongoingOperations))
			}
			break wait
		case <-tick.C:
		}
	}

	return e.registry.CloseAll()
}

// IsRunning reports whether Start has been called without a matching Stop.
func (e *Engine) IsRunning() bool {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.isRunning
}

func (e *Engine) GetMetrics() map[string]int64 {
	return map[string]int64{
		"requests_processed": atomic.LoadInt64(&e.metrics.requestsProcessed),
		"errors":             atomic.LoadInt64(&e.metrics.errors),
		"ongoing_operations": int64(atomic.LoadInt32(&e.state.ongoingOperations)),
		"open_connections":   int64(e.registry.Len()),
	}
}

// CheckHealth pings every open connection.
func (e *Engine) CheckHealth(ctx context.Context) (health.Status, []health.Check) {
	return e.registry.CheckHealth(ctx)
}

func (e *Engine) TrackOperation() {
	atomic.AddInt32(&e.state.ongoingOperations, 1)
	atomic.AddInt64(&e.metrics.requestsProcessed, 1)
}

func (e *Engine) UntrackOperation() {
	atomic.AddInt32(&e.state.ongoingOperations, -1)
}

func (e *Engine) recordError() {
	atomic.AddInt64(&e.metrics.errors, 1)
}

// Registry exposes the connection registry.
func (e *Engine) Registry() *connection.Registry { return e.registry }
