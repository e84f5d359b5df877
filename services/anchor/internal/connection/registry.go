// Package connection owns the physical database connections of the anchor
// service. Connections are keyed by a fingerprint of their normalized
// parameters, so identical open requests share one connection.
package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/driverloader"
	"github.com/redbco/redb-driverhub/pkg/health"
	"github.com/redbco/redb-driverhub/pkg/logger"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/telemetry"
)

// DefaultTimeout bounds connection establishment when the request does not.
const DefaultTimeout = 30 * time.Second

// Request is a connect request after outer validation.
type Request struct {
	Engine string
	// PluginID pins a specific plugin and skips version band selection.
	PluginID string
	Owner    string
	Config   connbuilder.Config
}

// Registry maps connection ids to live handles.
type Registry struct {
	plugins *plugin.Registry
	loader  *driverloader.Loader
	logger  *logger.Logger
	events  eventLogger
	metrics *telemetry.Metrics
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]*Handle
	group   singleflight.Group

	health *health.Checker
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		r.logger = l
		r.events = eventLogger{logger: l}
	}
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithClock replaces time.Now, for idle-reaping tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry. Nil plugins or loader fall back to the
// process-wide defaults.
func NewRegistry(plugins *plugin.Registry, loader *driverloader.Loader, opts ...Option) *Registry {
	if plugins == nil {
		plugins = plugin.Default()
	}
	if loader == nil {
		loader = driverloader.Default()
	}
	r := &Registry{
		plugins: plugins,
		loader:  loader,
		now:     time.Now,
		entries: make(map[string]*Handle),
		health:  health.NewChecker(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) safeLog(level string, msg string, args ...interface{}) {
	if r.logger == nil {
		return
	}
	switch level {
	case "debug":
		r.logger.Debug(msg, args...)
	case "warn":
		r.logger.Warn(msg, args...)
	case "error":
		r.logger.Error(msg, args...)
	default:
		r.logger.Info(msg, args...)
	}
}

// Plugins returns the plugin registry connections are resolved against.
func (r *Registry) Plugins() *plugin.Registry { return r.plugins }

type target struct {
	engine     dbcapabilities.DatabaseID
	capability dbcapabilities.Capability
	candidates []plugin.Plugin
	pinned     bool
}

func (t *target) primary() plugin.Plugin { return t.candidates[0] }

// resolve performs every check that needs no I/O.
func (r *Registry) resolve(req Request) (*target, error) {
	engine := plugin.EngineCode(req.Engine)
	if engine == "" {
		return nil, plugin.NewConfigurationError("", "engine", "engine is required")
	}
	capability, ok := dbcapabilities.Get(engine)
	if !ok {
		return nil, fmt.Errorf("%w: %w", plugin.ErrPluginNotFound,
			plugin.NewConfigurationError(engine, "engine", "unknown engine"))
	}

	t := &target{engine: engine, capability: capability}
	if req.PluginID != "" {
		p, err := r.plugins.Get(req.PluginID)
		if err != nil {
			return nil, err
		}
		if p.Descriptor().Engine != engine {
			return nil, plugin.NewConfigurationError(engine, "plugin_id",
				fmt.Sprintf("plugin %s serves %s", req.PluginID, p.Descriptor().Engine))
		}
		t.candidates = []plugin.Plugin{p}
		t.pinned = true
	} else {
		t.candidates = r.plugins.Resolve(string(engine))
		if len(t.candidates) == 0 {
			return nil, fmt.Errorf("%w: %w", plugin.ErrPluginNotFound,
				plugin.NewConfigurationError(engine, "engine", "no plugin registered"))
		}
	}

	cfg := req.Config
	if capability.RequiresHost && cfg.Host == "" {
		return nil, plugin.NewConfigurationError(engine, "host", "host is required")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, plugin.NewConfigurationError(engine, "port", "port must be between 1 and 65535")
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, plugin.NewConfigurationError(engine, "timeout_seconds", "timeout must not be negative")
	}
	if cfg.DriverPath == "" {
		return nil, plugin.NewConfigurationError(engine, "driver_path", "driver library path is required")
	}
	return t, nil
}

// Open returns the live connection for req, establishing it on first use.
// Identical requests, including concurrent ones, share one connection.
func (r *Registry) Open(ctx context.Context, req Request) (*Handle, error) {
	t, err := r.resolve(req)
	if err != nil {
		return nil, err
	}
	id := Fingerprint(t.engine, req.Config, t.capability.DefaultPort, t.primary().Descriptor().Version)

	if h := r.live(ctx, id); h != nil {
		r.events.reused(r.logContext(h))
		return h, nil
	}

	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		if h := r.live(ctx, id); h != nil {
			return h, nil
		}
		h, err := r.establish(ctx, id, t, req)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.entries[id] = h
		n := len(r.entries)
		r.mu.Unlock()
		r.metrics.SetOpenConnections(n)
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

// live returns the registered handle for id if it still answers a ping.
// A dead entry is evicted.
func (r *Registry) live(ctx context.Context, id string) *Handle {
	r.mu.RLock()
	h, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	if h.IsConnected() {
		err := h.Ping(ctx)
		if err == nil {
			h.touch()
			return h
		}
		r.safeLog("warn", "Evicting connection %s after failed ping: %v", id, err)
	}
	r.evict(id, h, "stale")
	return nil
}

// evict removes id only while it still maps to h.
func (r *Registry) evict(id string, h *Handle, reason string) {
	r.mu.Lock()
	if cur, ok := r.entries[id]; !ok || cur != h {
		r.mu.Unlock()
		return
	}
	delete(r.entries, id)
	n := len(r.entries)
	r.mu.Unlock()

	r.metrics.SetOpenConnections(n)
	r.health.Remove(id)
	err := h.Close()
	r.events.closed(r.logContext(h), reason, err)
}

func (r *Registry) establish(ctx context.Context, id string, t *target, req Request) (*Handle, error) {
	cfg := req.Config
	desc := t.primary().Descriptor()
	lc := logContext{
		Engine:       string(t.engine),
		ConnectionID: id,
		PluginID:     desc.ID,
		Host:         cfg.Host,
		Port:         cfg.EffectivePort(t.capability.DefaultPort),
	}

	ctx, span := telemetry.Tracer().Start(ctx, "connection.open")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", string(t.engine)),
		attribute.String("connection.id", id),
	)

	r.events.attempt(lc)
	d, err := r.dial(ctx, t, cfg)
	r.metrics.ObserveConnect(string(t.engine), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.events.failure(lc, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("plugin.id", d.plugin.Descriptor().ID),
		attribute.String("db.version", d.version),
	)

	now := r.now()
	meta := Metadata{
		ID:            id,
		Owner:         req.Owner,
		Engine:        t.engine,
		Host:          cfg.Host,
		Port:          lc.Port,
		Database:      cfg.Database,
		Username:      cfg.Username,
		PluginID:      d.plugin.Descriptor().ID,
		DriverPath:    d.path,
		ServerVersion: d.version,
		CreatedAt:     now,
		LastUsedAt:    now,
	}
	lc.PluginID = meta.PluginID
	r.events.success(lc, d.version)
	return newHandle(id, d.plugin, d.db, d.conn, meta, r.now), nil
}

type dialed struct {
	db      *sql.DB
	conn    *sql.Conn
	plugin  plugin.Plugin
	path    string
	version string
}

func (d *dialed) close() {
	_ = d.conn.Close()
	_ = d.db.Close()
}

// dial connects through the primary plugin, then lets the server version
// pick the band. A band served by a different driver library is dialed
// again through that library, found next to the configured one.
func (r *Registry) dial(ctx context.Context, t *target, cfg connbuilder.Config) (*dialed, error) {
	p := t.primary()
	d, err := r.connect(ctx, t, cfg, p, cfg.DriverPath)
	if err != nil {
		return nil, err
	}
	if t.pinned || d.version == "" {
		return d, nil
	}

	band, ok := plugin.SelectBand(t.candidates, d.version)
	if !ok {
		r.safeLog("warn", "No %s plugin covers server version %s, using %s", t.engine, d.version, p.Descriptor().ID)
		return d, nil
	}
	if band.Descriptor().SameLibrary(p.Descriptor()) {
		d.plugin = band
		return d, nil
	}

	path := filepath.Join(filepath.Dir(cfg.DriverPath), band.Descriptor().Artifact.FileName())
	r.safeLog("info", "Server version %s selects plugin %s, reconnecting through %s", d.version, band.Descriptor().ID, path)
	version := d.version
	d.close()

	d, err = r.connect(ctx, t, cfg, band, path)
	if err != nil {
		return nil, err
	}
	if d.version == "" {
		d.version = version
	}
	return d, nil
}

// connect loads the driver of p from path and pins one physical
// connection. The request timeout covers connect, ping and the version
// query only.
func (r *Registry) connect(ctx context.Context, t *target, cfg connbuilder.Config, p plugin.Plugin, path string) (*dialed, error) {
	if err := plugin.RequireFeature(p.Descriptor(), plugin.FeatureConnection, "connect"); err != nil {
		return nil, err
	}

	drv, err := r.loader.Load(ctx, path, p.Descriptor().Symbol())
	if err != nil {
		return nil, err
	}
	r.metrics.SetScopesLoaded(len(r.loader.Loaded()))

	address := connbuilder.BuildAddress(cfg, t.capability.AddressTemplate, t.capability.DefaultPort)
	dsn, err := r.formatDSN(ctx, t, drv, p, address, connbuilder.BuildProperties(cfg))
	if err != nil {
		return nil, err
	}
	connector, err := drv.OpenConnector(dsn)
	if err != nil {
		return nil, plugin.NewConfigurationError(t.engine, "dsn", err.Error())
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	timeout := DefaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	port := cfg.EffectivePort(t.capability.DefaultPort)
	conn, err := db.Conn(cctx)
	if err != nil {
		_ = db.Close()
		return nil, plugin.NewConnectionError(t.engine, cfg.Host, port, err)
	}
	if err := conn.PingContext(cctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, plugin.NewConnectionError(t.engine, cfg.Host, port, err)
	}

	d := &dialed{db: db, conn: conn, plugin: p, path: path}
	d.version = r.queryVersion(cctx, conn, p)
	return d, nil
}

// formatDSN asks the driver library for the DSN when the plugin names a
// formatter symbol, and falls back to the plugin's own builder otherwise.
func (r *Registry) formatDSN(ctx context.Context, t *target, drv *driverloader.Handle, p plugin.Plugin, address string, props connbuilder.Properties) (string, error) {
	desc := p.Descriptor()
	if desc.DSNSymbol == "" {
		dsn, err := p.DSN(address, props)
		if err != nil {
			return "", plugin.NewConfigurationError(t.engine, "properties", err.Error())
		}
		return dsn, nil
	}

	dsn, err := drv.FormatDSN(ctx, desc.DSNSymbol, address, props)
	if err != nil {
		if driverloader.IsDriverLoadError(err) {
			return "", err
		}
		return "", plugin.NewConfigurationError(t.engine, "properties", err.Error())
	}
	return dsn, nil
}

func (r *Registry) queryVersion(ctx context.Context, conn *sql.Conn, p plugin.Plugin) string {
	query := p.Dialect().VersionQuery()
	if query == "" {
		return ""
	}
	var version sql.NullString
	if err := conn.QueryRowContext(ctx, query).Scan(&version); err != nil {
		r.safeLog("warn", "Version query failed for plugin %s: %v", p.Descriptor().ID, err)
		return ""
	}
	return version.String
}

// Get returns a registered connection and marks it used.
func (r *Registry) Get(id string) (*Handle, error) {
	r.mu.RLock()
	h, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok || !h.IsConnected() {
		return nil, plugin.NewNotFoundError("connection", id)
	}
	h.touch()
	return h, nil
}

// Close removes and releases a connection. Unknown ids are ignored.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	h, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	n := len(r.entries)
	r.mu.Unlock()
	if !ok {
		return nil
	}

	r.metrics.SetOpenConnections(n)
	r.health.Remove(id)
	err := h.Close()
	r.events.closed(r.logContext(h), "", err)
	if err != nil {
		return fmt.Errorf("close connection %s: %w", id, err)
	}
	return nil
}

// CloseAll releases every connection.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*Handle)
	r.mu.Unlock()
	r.metrics.SetOpenConnections(0)

	var errs []error
	for id, h := range entries {
		r.health.Remove(id)
		err := h.Close()
		r.events.closed(r.logContext(h), "shutdown", err)
		if err != nil {
			errs = append(errs, fmt.Errorf("close connection %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// List returns metadata snapshots ordered by creation time.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	out := make([]Metadata, 0, len(r.entries))
	for _, h := range r.entries {
		out = append(out, h.Metadata())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reap closes connections idle for longer than maxIdle and returns how many
// were closed.
func (r *Registry) Reap(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	type victim struct {
		id string
		h  *Handle
	}
	var victims []victim
	r.mu.RLock()
	for id, h := range r.entries {
		if !h.IsConnected() || h.idleSince().Before(cutoff) {
			victims = append(victims, victim{id, h})
		}
	}
	r.mu.RUnlock()

	for _, v := range victims {
		r.evict(v.id, v.h, "idle")
	}
	return len(victims)
}

// StartReaper runs Reap every interval until ctx is done.
func (r *Registry) StartReaper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Reap(maxIdle); n > 0 {
					r.safeLog("info", "Reaped %d idle connections", n)
				}
			}
		}
	}()
}

// CheckHealth pings every registered connection and returns the aggregate
// status with per-connection results.
func (r *Registry) CheckHealth(ctx context.Context) (health.Status, []health.Check) {
	r.mu.RLock()
	handles := make([]*Handle, 0, len(r.entries))
	for _, h := range r.entries {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	for _, h := range handles {
		h := h
		r.health.RunCheck(h.ID(), func() error {
			err := h.Ping(ctx)
			r.events.health(r.logContext(h), err)
			return err
		})
	}
	return r.health.GetOverallStatus(), r.health.GetAllChecks()
}

func (r *Registry) logContext(h *Handle) logContext {
	meta := h.Metadata()
	return logContext{
		Engine:       string(meta.Engine),
		ConnectionID: meta.ID,
		PluginID:     meta.PluginID,
		Host:         meta.Host,
		Port:         meta.Port,
	}
}
