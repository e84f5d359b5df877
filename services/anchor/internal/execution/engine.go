// Package execution runs single SQL statements on a registered connection.
// Statement failures are reported inside the Result, never as Go errors.
package execution

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/redbco/redb-driverhub/pkg/logger"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
	"github.com/redbco/redb-driverhub/services/anchor/internal/telemetry"
)

// Session is the connection surface the engine drives. It is satisfied by
// *connection.Handle.
type Session interface {
	AutoCommit() (bool, error)
	SetAutoCommit(ctx context.Context, on bool) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Plugin() plugin.Plugin
}

// Request is one statement execution.
type Request struct {
	Session Session
	// SQL is the statement as submitted.
	SQL string
	// ExecuteSQL, when set, is the rewritten text actually sent.
	ExecuteSQL string
	Database   string
	Schema     string
	// NeedTransaction runs the statement in its own transaction.
	NeedTransaction bool
	Params          []interface{}
	// MaxRows caps the rows read from a result set. Zero means no cap.
	MaxRows int
}

func (r Request) statement() string {
	if strings.TrimSpace(r.ExecuteSQL) != "" {
		return r.ExecuteSQL
	}
	return r.SQL
}

// Result is produced once per Execute call. When IsQuery is true every row
// has len(Headers) values; AffectedRows is only meaningful otherwise.
type Result struct {
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	Elapsed      time.Duration   `json:"-"`
	ElapsedMs    int64           `json:"executionTimeMs"`
	IsQuery      bool            `json:"isQuery"`
	Headers      []string        `json:"headers,omitempty"`
	Rows         [][]interface{} `json:"rows,omitempty"`
	AffectedRows int64           `json:"affectedRows"`
	Truncated    bool            `json:"truncated,omitempty"`
}

// Engine executes statements. It holds no locks; callers serialize use of a
// session.
type Engine struct {
	logger     *logger.Logger
	metrics    *telemetry.Metrics
	classifier *Classifier
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{classifier: NewClassifier()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) safeLog(level string, msg string, args ...interface{}) {
	if e.logger == nil {
		return
	}
	switch level {
	case "debug":
		e.logger.Debug(msg, args...)
	case "warn":
		e.logger.Warn(msg, args...)
	case "error":
		e.logger.Error(msg, args...)
	default:
		e.logger.Info(msg, args...)
	}
}

// run holds the state of one Execute call.
type run struct {
	engine    *Engine
	req       Request
	res       *Result
	span      trace.Span
	label     string
	txStarted bool
}

// Execute runs req and always returns a result. The session's auto-commit
// mode is restored before returning on every path, including panics inside
// the driver. If the mode cannot be read up front it is assumed to be on.
func (e *Engine) Execute(ctx context.Context, req Request) (res *Result) {
	start := time.Now()
	res = &Result{}
	stmt := strings.TrimSpace(req.statement())
	kind := e.classifier.Classify(stmt)

	ctx, span := telemetry.Tracer().Start(ctx, "execution.execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.statement.kind", kind.String()),
		attribute.Bool("db.transaction", req.NeedTransaction),
	)

	r := &run{engine: e, req: req, res: res, span: span, label: "unknown"}
	defer func() {
		res.Elapsed = time.Since(start)
		res.ElapsedMs = res.Elapsed.Milliseconds()
		span.SetAttributes(attribute.Bool("db.success", res.Success))
		e.metrics.ObserveStatement(r.label, kind.String(), res.Success, res.Elapsed)
	}()

	if req.Session == nil {
		r.fail(ctx, errors.New("no connection"))
		return res
	}
	desc := req.Session.Plugin().Descriptor()
	r.label = string(desc.Engine)
	span.SetAttributes(attribute.String("db.system", r.label), attribute.String("plugin.id", desc.ID))

	original, err := req.Session.AutoCommit()
	if err != nil {
		e.safeLog("warn", "[%s:execute] Could not read auto-commit state, assuming enabled: %v", r.label, err)
		original = true
	}
	defer r.restore(ctx, original)
	defer func() {
		if p := recover(); p != nil {
			r.fail(ctx, fmt.Errorf("driver panic: %v", p))
		}
	}()

	r.execute(ctx, kind, stmt, desc)
	return res
}

func (r *run) execute(ctx context.Context, kind Kind, stmt string, desc plugin.Descriptor) {
	req := r.req
	s := req.Session

	if kind == KindEmpty {
		r.fail(ctx, errors.New("statement is empty"))
		return
	}
	if err := plugin.RequireFeature(desc, plugin.FeatureQuery, "execute"); err != nil {
		r.fail(ctx, err)
		return
	}

	if req.NeedTransaction {
		if err := plugin.RequireFeature(desc, plugin.FeatureTransaction, "transaction"); err != nil {
			r.fail(ctx, err)
			return
		}
		if err := s.SetAutoCommit(ctx, false); err != nil {
			r.fail(ctx, fmt.Errorf("disable auto-commit: %w", err))
			return
		}
		r.txStarted = true
	}

	if use := s.Plugin().Dialect().UseStatement(req.Database, req.Schema); use != "" {
		if _, err := s.ExecContext(ctx, use); err != nil {
			r.fail(ctx, err)
			return
		}
	}

	if kind.ReturnsRows() {
		rows, err := s.QueryContext(ctx, stmt, req.Params...)
		if err != nil {
			r.fail(ctx, err)
			return
		}
		if err := r.read(rows, s.Plugin().Converter()); err != nil {
			r.fail(ctx, err)
			return
		}
	} else {
		result, err := s.ExecContext(ctx, stmt, req.Params...)
		if err != nil {
			r.fail(ctx, err)
			return
		}
		if n, err := result.RowsAffected(); err == nil {
			r.res.AffectedRows = n
		}
	}

	if r.txStarted {
		if err := s.Commit(ctx); err != nil {
			r.fail(ctx, fmt.Errorf("commit: %w", err))
			return
		}
	}
	r.res.Success = true
}

// read drains rows into the result, converting every value.
func (r *run) read(rows *sql.Rows, conv valueconv.Converter) error {
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return err
	}
	if len(types) == 0 {
		// A call, batch or unrecognized statement that produced no result set.
		return rows.Err()
	}
	cols := valueconv.ColumnsFromTypes(types)

	res := r.res
	res.IsQuery = true
	res.Headers = make([]string, len(cols))
	for i, c := range cols {
		res.Headers[i] = c.Name
	}
	res.Rows = [][]interface{}{}

	for rows.Next() {
		if r.req.MaxRows > 0 && len(res.Rows) >= r.req.MaxRows {
			res.Truncated = true
			break
		}
		raw := make([]interface{}, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		res.Rows = append(res.Rows, valueconv.ConvertRow(conv, raw, cols))
	}
	return rows.Err()
}

// fail records err in the result and rolls back a transaction this call
// started. A failed rollback is logged; the result keeps the original error.
func (r *run) fail(ctx context.Context, err error) {
	r.res.Success = false
	r.res.ErrorMessage = err.Error()
	r.res.IsQuery = false
	r.res.Headers = nil
	r.res.Rows = nil
	r.res.AffectedRows = 0
	r.res.Truncated = false

	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, err.Error())
	r.engine.safeLog("warn", "[%s:execute] Operation failed: %v", r.label, err)

	if r.txStarted {
		r.txStarted = false
		if rbErr := r.req.Session.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			r.engine.safeLog("warn", "[%s:execute] Rollback failed: %v", r.label, rbErr)
		}
	}
}

// restore puts auto-commit back to its value before the call. Failures are
// logged only.
func (r *run) restore(ctx context.Context, original bool) {
	if err := r.req.Session.SetAutoCommit(context.WithoutCancel(ctx), original); err != nil {
		r.engine.safeLog("warn", "[%s:execute] Failed to restore auto-commit=%t: %v", r.label, original, err)
	}
}
