package execution_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection/conntest"
	"github.com/redbco/redb-driverhub/services/anchor/internal/execution"
	"github.com/redbco/redb-driverhub/services/anchor/internal/telemetry"
)

func setup(t *testing.T) (*execution.Engine, *connection.Handle) {
	t.Helper()
	f := conntest.New(t)
	h := f.Open(t, "t")
	conntest.Exec(t, h,
		"CREATE TABLE t (id INTEGER PRIMARY KEY, a INTEGER, name TEXT UNIQUE)",
		"INSERT INTO t (a, name) VALUES (0, 'x'), (0, 'y')",
	)
	return execution.NewEngine(), h
}

func autoCommit(t *testing.T, h *connection.Handle) bool {
	t.Helper()
	on, err := h.AutoCommit()
	require.NoError(t, err)
	return on
}

func count(t *testing.T, e *execution.Engine, h *connection.Handle) int64 {
	t.Helper()
	res := e.Execute(context.Background(), execution.Request{Session: h, SQL: "SELECT COUNT(*) AS n FROM t"})
	require.True(t, res.Success, res.ErrorMessage)
	return res.Rows[0][0].(int64)
}

func TestExecuteQuery(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{Session: h, SQL: "SELECT 1 AS x"})

	require.True(t, res.Success, res.ErrorMessage)
	assert.Empty(t, res.ErrorMessage)
	assert.True(t, res.IsQuery)
	assert.Equal(t, []string{"x"}, res.Headers)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 1, res.Rows[0][0])
	assert.EqualValues(t, 0, res.AffectedRows)
	assert.GreaterOrEqual(t, res.ElapsedMs, int64(0))
}

func TestExecuteRowsAlignWithHeaders(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{
		Session: h,
		SQL:     "SELECT id, a, name FROM t ORDER BY id",
	})

	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, []string{"id", "a", "name"}, res.Headers)
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		assert.Len(t, row, len(res.Headers))
	}
	assert.Equal(t, "x", res.Rows[0][2])
}

func TestExecuteEmptyResultSet(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{Session: h, SQL: "SELECT id FROM t WHERE 1 = 0"})

	require.True(t, res.Success)
	assert.True(t, res.IsQuery)
	assert.Equal(t, []string{"id"}, res.Headers)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestExecuteBoundParameters(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{
		Session: h,
		SQL:     "SELECT name FROM t WHERE name = ?",
		Params:  []interface{}{"y"},
	})

	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, [][]interface{}{{"y"}}, res.Rows)
}

func TestExecuteUsesRewrittenSQL(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{
		Session:    h,
		SQL:        "select everything",
		ExecuteSQL: "SELECT COUNT(*) AS n FROM t",
	})

	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, []string{"n"}, res.Headers)
}

func TestExecuteUpdateInTransaction(t *testing.T) {
	e, h := setup(t)
	before := autoCommit(t, h)

	res := e.Execute(context.Background(), execution.Request{
		Session:         h,
		SQL:             "UPDATE t SET a=1",
		NeedTransaction: true,
	})

	require.True(t, res.Success, res.ErrorMessage)
	assert.False(t, res.IsQuery)
	assert.EqualValues(t, 2, res.AffectedRows)
	assert.Nil(t, res.Headers)
	assert.Equal(t, before, autoCommit(t, h))
	assert.False(t, h.InTransaction(), "committed")

	check := e.Execute(context.Background(), execution.Request{Session: h, SQL: "SELECT SUM(a) AS s FROM t"})
	assert.EqualValues(t, 2, check.Rows[0][0])
}

func TestExecuteRestoresManualCommitMode(t *testing.T) {
	e, h := setup(t)
	ctx := context.Background()
	require.NoError(t, h.SetAutoCommit(ctx, false))

	res := e.Execute(ctx, execution.Request{Session: h, SQL: "UPDATE t SET a=1", NeedTransaction: true})
	require.True(t, res.Success, res.ErrorMessage)
	assert.False(t, autoCommit(t, h))

	res = e.Execute(ctx, execution.Request{Session: h, SQL: "UPDATE nope SET a=1", NeedTransaction: true})
	require.False(t, res.Success)
	assert.False(t, autoCommit(t, h))
}

func TestExecuteMalformedStatement(t *testing.T) {
	e, h := setup(t)

	var res *execution.Result
	require.NotPanics(t, func() {
		res = e.Execute(context.Background(), execution.Request{Session: h, SQL: "SELEC 1 FRM"})
	})

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ErrorMessage)
	assert.False(t, res.IsQuery)
	assert.Nil(t, res.Rows)
}

func TestExecuteEmptyStatement(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{Session: h, SQL: "  "})

	assert.False(t, res.Success)
	assert.Equal(t, "statement is empty", res.ErrorMessage)
	assert.True(t, autoCommit(t, h))
}

func TestExecuteNoSession(t *testing.T) {
	res := execution.NewEngine().Execute(context.Background(), execution.Request{SQL: "SELECT 1"})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ErrorMessage)
}

func TestExecuteFailureRollsBackAndRestores(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{
		Session:         h,
		SQL:             "INSERT INTO t (a, name) VALUES (9, 'z'), (9, 'x')",
		NeedTransaction: true,
	})

	require.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "UNIQUE")
	assert.True(t, autoCommit(t, h))
	assert.False(t, h.InTransaction())
	assert.EqualValues(t, 2, count(t, e, h))
}

func TestExecuteMaxRows(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{
		Session: h,
		SQL:     "WITH RECURSIVE c(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM c WHERE n < 10) SELECT n FROM c",
		MaxRows: 3,
	})

	require.True(t, res.Success, res.ErrorMessage)
	assert.Len(t, res.Rows, 3)
	assert.True(t, res.Truncated)
}

// brokenSession reads auto-commit unreliably and can panic mid-statement.
type brokenSession struct {
	*connection.Handle
	autoCommitErr error
	panicOnQuery  bool
	desc          *plugin.Descriptor
}

func (s *brokenSession) AutoCommit() (bool, error) {
	if s.autoCommitErr != nil {
		return false, s.autoCommitErr
	}
	return s.Handle.AutoCommit()
}

func (s *brokenSession) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if s.panicOnQuery {
		panic("driver exploded")
	}
	return s.Handle.QueryContext(ctx, query, args...)
}

func (s *brokenSession) Plugin() plugin.Plugin {
	if s.desc == nil {
		return s.Handle.Plugin()
	}
	return plugin.WithDescriptor(s.Handle.Plugin().(*plugin.Definition), *s.desc)
}

func TestExecuteDefaultsToAutoCommitWhenCaptureFails(t *testing.T) {
	e, h := setup(t)
	ctx := context.Background()
	require.NoError(t, h.SetAutoCommit(ctx, false))

	s := &brokenSession{Handle: h, autoCommitErr: errors.New("state unavailable")}
	res := e.Execute(ctx, execution.Request{Session: s, SQL: "UPDATE t SET a=3", NeedTransaction: true})

	require.True(t, res.Success, res.ErrorMessage)
	assert.True(t, autoCommit(t, h), "restored to the assumed default")
}

func TestExecuteRecoversDriverPanic(t *testing.T) {
	e, h := setup(t)

	s := &brokenSession{Handle: h, panicOnQuery: true}
	res := e.Execute(context.Background(), execution.Request{Session: s, SQL: "SELECT 1", NeedTransaction: true})

	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "driver exploded")
	assert.True(t, autoCommit(t, h))
	assert.False(t, h.InTransaction())
}

func TestExecuteRequiresTransactionFeature(t *testing.T) {
	e, h := setup(t)

	desc := h.Plugin().Descriptor()
	desc.Capabilities &^= plugin.FeatureTransaction
	s := &brokenSession{Handle: h, desc: &desc}

	res := e.Execute(context.Background(), execution.Request{Session: s, SQL: "UPDATE t SET a=1", NeedTransaction: true})
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "TRANSACTION")

	res = e.Execute(context.Background(), execution.Request{Session: s, SQL: "UPDATE t SET a=1"})
	assert.True(t, res.Success, res.ErrorMessage)
}

func TestExecuteTelemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	m := telemetry.NewMetrics(nil)
	_, h := setup(t)
	e := execution.NewEngine(execution.WithMetrics(m))

	e.Execute(context.Background(), execution.Request{Session: h, SQL: "SELECT 1"})
	e.Execute(context.Background(), execution.Request{Session: h, SQL: "SELEC"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Statements.WithLabelValues("demo", "query", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Statements.WithLabelValues("demo", "other", "failure")))

	var spans []sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "execution.execute" {
			spans = append(spans, s)
		}
	}
	require.Len(t, spans, 2)
	assert.Contains(t, spans[0].Attributes(), attribute.Bool("db.success", true))
	assert.Contains(t, spans[1].Attributes(), attribute.Bool("db.success", false))
}

// batchSession stands in for an engine that accepts multi-statement batches
// by sending each known batch to the connection as its final SELECT.
type batchSession struct {
	*connection.Handle
	batches map[string]string
}

func (s batchSession) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if last, ok := s.batches[query]; ok {
		query = last
	}
	return s.Handle.QueryContext(ctx, query, args...)
}

func TestExecuteUnrecognizedStatementReturningRows(t *testing.T) {
	e, h := setup(t)
	const batch = "DECLARE @x int = 1; SELECT @x AS x"
	s := batchSession{Handle: h, batches: map[string]string{batch: "SELECT 1 AS x"}}

	res := e.Execute(context.Background(), execution.Request{Session: s, SQL: batch})

	require.True(t, res.Success, res.ErrorMessage)
	assert.True(t, res.IsQuery)
	assert.Equal(t, []string{"x"}, res.Headers)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 1, res.Rows[0][0])
}

func TestExecuteUnrecognizedStatementWithoutRows(t *testing.T) {
	e, h := setup(t)

	res := e.Execute(context.Background(), execution.Request{Session: h, SQL: "ANALYZE"})

	require.True(t, res.Success, res.ErrorMessage)
	assert.False(t, res.IsQuery)
	assert.Empty(t, res.Headers)
	assert.Nil(t, res.Rows)
}
