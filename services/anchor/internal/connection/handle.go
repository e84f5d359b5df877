package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

// Metadata describes a registered connection. Values returned by
// Handle.Metadata are snapshots.
type Metadata struct {
	ID            string                    `json:"id"`
	Owner         string                    `json:"owner,omitempty"`
	Engine        dbcapabilities.DatabaseID `json:"engine"`
	Host          string                    `json:"host"`
	Port          int                       `json:"port"`
	Database      string                    `json:"database,omitempty"`
	Username      string                    `json:"username,omitempty"`
	PluginID      string                    `json:"pluginId"`
	DriverPath    string                    `json:"driverPath,omitempty"`
	ServerVersion string                    `json:"serverVersion,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
	LastUsedAt    time.Time                 `json:"lastUsedAt"`
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Handle is one physical connection owned by the registry.
//
// Auto-commit is emulated on top of database/sql: while it is off the first
// statement begins a transaction on the pinned connection and every later
// statement runs inside it until Commit, Rollback or SetAutoCommit(true).
// A Handle must not be used by two callers at once.
type Handle struct {
	id     string
	plugin plugin.Plugin
	db     *sql.DB
	conn   *sql.Conn
	now    func() time.Time

	mu         sync.Mutex
	autoCommit bool
	tx         *sql.Tx
	closed     bool
	meta       Metadata
}

func newHandle(id string, p plugin.Plugin, db *sql.DB, conn *sql.Conn, meta Metadata, now func() time.Time) *Handle {
	if now == nil {
		now = time.Now
	}
	return &Handle{
		id:         id,
		plugin:     p,
		db:         db,
		conn:       conn,
		now:        now,
		autoCommit: true,
		meta:       meta,
	}
}

// ID returns the connection fingerprint.
func (h *Handle) ID() string { return h.id }

// Plugin returns the plugin selected for the connection's engine version.
func (h *Handle) Plugin() plugin.Plugin { return h.plugin }

// Metadata returns a snapshot of the connection metadata.
func (h *Handle) Metadata() Metadata {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.meta
}

func (h *Handle) touch() {
	h.mu.Lock()
	h.meta.LastUsedAt = h.now()
	h.mu.Unlock()
}

func (h *Handle) idleSince() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.meta.LastUsedAt
}

// IsConnected reports whether Close has not been called.
func (h *Handle) IsConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed
}

// AutoCommit reports the current auto-commit mode.
func (h *Handle) AutoCommit() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false, plugin.ErrConnectionClosed
	}
	return h.autoCommit, nil
}

// SetAutoCommit switches the auto-commit mode. Turning it back on commits a
// pending transaction, as JDBC-style drivers do.
func (h *Handle) SetAutoCommit(ctx context.Context, on bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return plugin.ErrConnectionClosed
	}
	if on == h.autoCommit {
		return nil
	}
	if on && h.tx != nil {
		tx := h.tx
		h.tx = nil
		if err := tx.Commit(); err != nil {
			h.autoCommit = true
			return fmt.Errorf("commit on enabling auto-commit: %w", err)
		}
	}
	h.autoCommit = on
	return nil
}

// Commit commits the pending transaction, if any.
func (h *Handle) Commit(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return plugin.ErrConnectionClosed
	}
	if h.autoCommit {
		return errors.New("cannot commit when auto-commit is enabled")
	}
	if h.tx == nil {
		return nil
	}
	tx := h.tx
	h.tx = nil
	return tx.Commit()
}

// Rollback aborts the pending transaction, if any.
func (h *Handle) Rollback(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return plugin.ErrConnectionClosed
	}
	if h.autoCommit {
		return errors.New("cannot roll back when auto-commit is enabled")
	}
	if h.tx == nil {
		return nil
	}
	tx := h.tx
	h.tx = nil
	return tx.Rollback()
}

// InTransaction reports whether a transaction is pending.
func (h *Handle) InTransaction() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tx != nil
}

// querier returns the pinned connection, or the open transaction when
// auto-commit is off, beginning one if needed. The transaction outlives ctx.
func (h *Handle) querier(ctx context.Context) (querier, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, plugin.ErrConnectionClosed
	}
	h.meta.LastUsedAt = h.now()
	if h.autoCommit {
		return h.conn, nil
	}
	if h.tx == nil {
		tx, err := h.conn.BeginTx(context.WithoutCancel(ctx), nil)
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		h.tx = tx
	}
	return h.tx, nil
}

// QueryContext runs a statement expected to return rows.
func (h *Handle) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	q, err := h.querier(ctx)
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, query, args...)
}

// ExecContext runs a statement without returning rows.
func (h *Handle) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	q, err := h.querier(ctx)
	if err != nil {
		return nil, err
	}
	return q.ExecContext(ctx, query, args...)
}

// Ping verifies the physical connection is still alive.
func (h *Handle) Ping(ctx context.Context) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return plugin.ErrConnectionClosed
	}
	return h.conn.PingContext(ctx)
}

// Close rolls back a pending transaction and releases the connection.
// Closing twice is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	if h.tx != nil {
		if err := h.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, fmt.Errorf("rollback: %w", err))
		}
		h.tx = nil
	}
	if err := h.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		errs = append(errs, err)
	}
	if err := h.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
