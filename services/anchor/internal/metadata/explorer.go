package metadata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redbco/redb-driverhub/pkg/logger"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/execution"
)

// Explorer answers metadata requests on a session. Results are snapshots
// and never cached.
type Explorer struct {
	engine *execution.Engine
	logger *logger.Logger
}

// NewExplorer creates an explorer that runs drops through engine.
func NewExplorer(engine *execution.Engine, log *logger.Logger) *Explorer {
	if engine == nil {
		engine = execution.NewEngine(execution.WithLogger(log))
	}
	return &Explorer{engine: engine, logger: log}
}

func (x *Explorer) safeLog(level string, msg string, args ...interface{}) {
	if x.logger == nil {
		return
	}
	switch level {
	case "debug":
		x.logger.Debug(msg, args...)
	case "warn":
		x.logger.Warn(msg, args...)
	default:
		x.logger.Info(msg, args...)
	}
}

// request bundles what every lookup needs.
type request struct {
	session execution.Session
	desc    plugin.Descriptor
	dialect plugin.Dialect
	catalog *Catalog
	op      string
}

func (x *Explorer) prepare(s execution.Session, op string, features ...plugin.Feature) (*request, error) {
	if s == nil {
		return nil, plugin.ErrConnectionClosed
	}
	p := s.Plugin()
	desc := p.Descriptor()
	if err := plugin.RequireFeature(desc, plugin.FeatureMetadata, op); err != nil {
		return nil, err
	}
	for _, f := range features {
		if err := plugin.RequireFeature(desc, f, op); err != nil {
			return nil, err
		}
	}
	return &request{
		session: s,
		desc:    desc,
		dialect: p.Dialect(),
		catalog: Lookup(desc.Engine),
		op:      op,
	}, nil
}

func (r *request) unsupported() error {
	return &plugin.UnsupportedOperationError{Engine: r.desc.Engine, PluginID: r.desc.ID, Operation: r.op}
}

func (r *request) query(ctx context.Context, sqlText string, values map[string]string) ([]record, error) {
	if sqlText == "" {
		return nil, r.unsupported()
	}
	q, args := bind(sqlText, r.dialect, values)
	rows, err := r.session.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, plugin.WrapError(r.desc.Engine, r.op, err)
	}
	recs, err := readRecords(rows)
	if err != nil {
		return nil, plugin.WrapError(r.desc.Engine, r.op, err)
	}
	return recs, nil
}

func requireName(r *request, field, value string) error {
	if value == "" {
		return plugin.NewConfigurationError(r.desc.Engine, field, field+" is required")
	}
	return nil
}

// Tables lists tables and views.
func (x *Explorer) Tables(ctx context.Context, s execution.Session, scope Scope) ([]Table, error) {
	r, err := x.prepare(s, "list tables")
	if err != nil {
		return nil, err
	}
	recs, err := r.query(ctx, r.catalog.Tables, r.catalog.values(scope, nil))
	if err != nil {
		return nil, err
	}
	out := make([]Table, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Table{
			Catalog: rec.str("table_catalog"),
			Schema:  rec.str("table_schema"),
			Name:    rec.str("table_name"),
			Type:    strings.ToUpper(rec.str("table_type")),
			Comment: rec.str("remarks"),
		})
	}
	return out, nil
}

// Columns lists the columns of table in ordinal order. A table that does
// not exist has no columns.
func (x *Explorer) Columns(ctx context.Context, s execution.Session, scope Scope, table string) ([]Column, error) {
	r, err := x.prepare(s, "list columns")
	if err != nil {
		return nil, err
	}
	if err := requireName(r, "table", table); err != nil {
		return nil, err
	}

	var out []Column
	if r.catalog.Columns == "" {
		out, err = x.reflectColumns(ctx, r, scope, table)
	} else {
		out, err = r.columns(ctx, scope, table)
	}
	if err != nil || len(out) == 0 {
		return out, err
	}

	if r.catalog.PrimaryKeys == "" {
		return out, nil
	}
	pks, err := r.primaryKeys(ctx, scope, table)
	if err != nil {
		return nil, err
	}
	keyed := map[string]bool{}
	for _, pk := range pks {
		for _, c := range pk.Columns {
			keyed[c] = true
		}
	}
	for i := range out {
		out[i].PrimaryKey = keyed[out[i].Name]
	}
	return out, nil
}

func (r *request) columns(ctx context.Context, scope Scope, table string) ([]Column, error) {
	recs, err := r.query(ctx, r.catalog.Columns, r.catalog.values(scope, map[string]string{"table": table}))
	if err != nil {
		return nil, err
	}
	out := make([]Column, 0, len(recs))
	for _, rec := range recs {
		colType := rec.str("column_type")
		if colType == "" {
			colType = rec.str("data_type")
		}
		out = append(out, Column{
			Catalog:       rec.str("table_catalog"),
			Schema:        rec.str("table_schema"),
			Table:         rec.str("table_name"),
			Name:          rec.str("column_name"),
			DataType:      rec.str("data_type"),
			ColumnType:    colType,
			Nullable:      rec.flag("nullable"),
			Ordinal:       rec.int("ordinal"),
			Default:       rec.optStr("column_default"),
			Length:        rec.optInt("char_length"),
			Precision:     rec.optInt("numeric_precision"),
			Scale:         rec.optInt("numeric_scale"),
			Unsigned:      strings.Contains(strings.ToLower(colType), "unsigned"),
			AutoIncrement: rec.flag("auto_increment"),
			Comment:       rec.str("remarks"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

// Indexes lists the indexes of table.
func (x *Explorer) Indexes(ctx context.Context, s execution.Session, scope Scope, table string) ([]Index, error) {
	r, err := x.prepare(s, "list indexes")
	if err != nil {
		return nil, err
	}
	if err := requireName(r, "table", table); err != nil {
		return nil, err
	}
	return r.indexes(ctx, scope, table)
}

func (r *request) indexes(ctx context.Context, scope Scope, table string) ([]Index, error) {
	recs, err := r.query(ctx, r.catalog.Indexes, r.catalog.values(scope, map[string]string{"table": table}))
	if err != nil {
		return nil, err
	}

	var out []Index
	pos := map[string]int{}
	for _, rec := range recs {
		key := rec.str("table_schema") + "\x00" + rec.str("table_name") + "\x00" + rec.str("index_name")
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, Index{
				Schema:  rec.str("table_schema"),
				Table:   rec.str("table_name"),
				Name:    rec.str("index_name"),
				Unique:  rec.flag("is_unique"),
				Primary: rec.flag("is_primary"),
				Type:    rec.str("index_type"),
			})
		}
		if name := rec.str("column_name"); name != "" {
			out[i].Columns = append(out[i].Columns, IndexColumn{
				Name:       name,
				Ordinal:    rec.int("seq"),
				Descending: rec.flag("descending"),
			})
		}
	}
	for i := range out {
		cols := out[i].Columns
		sort.SliceStable(cols, func(a, b int) bool { return cols[a].Ordinal < cols[b].Ordinal })
	}
	return out, nil
}

// PrimaryKeys returns the primary key of table, if it has one.
func (x *Explorer) PrimaryKeys(ctx context.Context, s execution.Session, scope Scope, table string) ([]PrimaryKey, error) {
	r, err := x.prepare(s, "list primary keys")
	if err != nil {
		return nil, err
	}
	if err := requireName(r, "table", table); err != nil {
		return nil, err
	}
	return r.primaryKeys(ctx, scope, table)
}

func (r *request) primaryKeys(ctx context.Context, scope Scope, table string) ([]PrimaryKey, error) {
	recs, err := r.query(ctx, r.catalog.PrimaryKeys, r.catalog.values(scope, map[string]string{"table": table}))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].int("seq") < recs[j].int("seq") })

	var out []PrimaryKey
	pos := map[string]int{}
	for _, rec := range recs {
		key := rec.str("table_schema") + "\x00" + rec.str("table_name")
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, PrimaryKey{
				Schema: rec.str("table_schema"),
				Table:  rec.str("table_name"),
				Name:   rec.str("constraint_name"),
			})
		}
		out[i].Columns = append(out[i].Columns, rec.str("column_name"))
	}
	return out, nil
}

// ForeignKeys lists the foreign keys declared on table.
func (x *Explorer) ForeignKeys(ctx context.Context, s execution.Session, scope Scope, table string) ([]ForeignKey, error) {
	r, err := x.prepare(s, "list foreign keys")
	if err != nil {
		return nil, err
	}
	if err := requireName(r, "table", table); err != nil {
		return nil, err
	}
	return r.foreignKeys(ctx, scope, table)
}

func (r *request) foreignKeys(ctx context.Context, scope Scope, table string) ([]ForeignKey, error) {
	recs, err := r.query(ctx, r.catalog.ForeignKeys, r.catalog.values(scope, map[string]string{"table": table}))
	if err != nil {
		return nil, err
	}

	var out []ForeignKey
	pos := map[string]int{}
	for _, rec := range recs {
		// Engines without constraint names report a per-table constraint_id.
		key := rec.str("table_schema") + "\x00" + rec.str("table_name") + "\x00" +
			rec.str("constraint_name") + "\x00" + rec.str("constraint_id")
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, ForeignKey{
				Schema:    rec.str("table_schema"),
				Table:     rec.str("table_name"),
				Name:      rec.str("constraint_name"),
				RefSchema: rec.str("ref_schema"),
				RefTable:  rec.str("ref_table"),
				OnUpdate:  strings.ToUpper(rec.str("on_update")),
				OnDelete:  strings.ToUpper(rec.str("on_delete")),
			})
		}
		out[i].Columns = append(out[i].Columns, rec.str("column_name"))
		out[i].RefColumns = append(out[i].RefColumns, rec.str("ref_column"))
	}
	return out, nil
}

// Views lists views, or only the one called name.
func (x *Explorer) Views(ctx context.Context, s execution.Session, scope Scope, name string) ([]View, error) {
	r, err := x.prepare(s, "list views")
	if err != nil {
		return nil, err
	}
	return r.views(ctx, scope, name)
}

func (r *request) views(ctx context.Context, scope Scope, name string) ([]View, error) {
	recs, err := r.query(ctx, r.catalog.Views, r.catalog.values(scope, map[string]string{"name": name}))
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(recs))
	for _, rec := range recs {
		out = append(out, View{
			Schema:     rec.str("table_schema"),
			Name:       rec.str("view_name"),
			Definition: rec.str("definition"),
		})
	}
	return out, nil
}

// Functions lists stored functions with their parameters.
func (x *Explorer) Functions(ctx context.Context, s execution.Session, scope Scope, name string) ([]Routine, error) {
	return x.routines(ctx, s, scope, plugin.KindFunction, name)
}

// Procedures lists stored procedures with their parameters.
func (x *Explorer) Procedures(ctx context.Context, s execution.Session, scope Scope, name string) ([]Routine, error) {
	return x.routines(ctx, s, scope, plugin.KindProcedure, name)
}

func (x *Explorer) routines(ctx context.Context, s execution.Session, scope Scope, kind plugin.ObjectKind, name string) ([]Routine, error) {
	r, err := x.prepare(s, "list "+string(kind)+"s", plugin.FeatureRoutines)
	if err != nil {
		return nil, err
	}
	values := r.catalog.values(scope, map[string]string{"name": name, "kind": routineKind(kind)})
	recs, err := r.query(ctx, r.catalog.Routines, values)
	if err != nil {
		return nil, err
	}

	out := make([]Routine, 0, len(recs))
	pos := map[string]int{}
	for _, rec := range recs {
		key := rec.str("routine_schema") + "\x00" + rec.str("routine_name")
		if _, dup := pos[key]; dup {
			continue
		}
		pos[key] = len(out)
		out = append(out, Routine{
			Schema:     rec.str("routine_schema"),
			Name:       rec.str("routine_name"),
			Kind:       kind,
			ReturnType: rec.str("return_type"),
			Language:   rec.str("language"),
			Parameters: []Parameter{},
			Definition: rec.str("definition"),
		})
	}
	if len(out) == 0 || r.catalog.Parameters == "" {
		return out, nil
	}

	params, err := r.query(ctx, r.catalog.Parameters, values)
	if err != nil {
		return nil, err
	}
	for _, rec := range params {
		i, ok := pos[rec.str("routine_schema")+"\x00"+rec.str("routine_name")]
		if !ok {
			continue
		}
		// Position zero is a function's return value on some engines.
		if rec.int("seq") == 0 {
			continue
		}
		out[i].Parameters = append(out[i].Parameters, Parameter{
			Name:     rec.str("parameter_name"),
			Mode:     strings.ToUpper(rec.str("parameter_mode")),
			DataType: rec.str("data_type"),
			Ordinal:  rec.int("seq"),
		})
	}
	for i := range out {
		ps := out[i].Parameters
		sort.SliceStable(ps, func(a, b int) bool { return ps[a].Ordinal < ps[b].Ordinal })
	}
	return out, nil
}

// Triggers lists triggers, or only those on table.
func (x *Explorer) Triggers(ctx context.Context, s execution.Session, scope Scope, table string) ([]Trigger, error) {
	r, err := x.prepare(s, "list triggers", plugin.FeatureTriggers)
	if err != nil {
		return nil, err
	}
	recs, err := r.query(ctx, r.catalog.Triggers, r.catalog.values(scope, map[string]string{"table": table}))
	if err != nil {
		return nil, err
	}

	var out []Trigger
	pos := map[string]int{}
	for _, rec := range recs {
		key := rec.str("trigger_schema") + "\x00" + rec.str("trigger_name")
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, Trigger{
				Schema:    rec.str("trigger_schema"),
				Name:      rec.str("trigger_name"),
				Table:     rec.str("table_name"),
				Timing:    strings.ToUpper(rec.str("timing")),
				Statement: rec.str("statement"),
			})
		}
		// Some dictionaries report "INSERT OR UPDATE" in one row.
		for _, ev := range strings.Split(strings.ToUpper(rec.str("event")), " OR ") {
			if ev = strings.TrimSpace(ev); ev != "" {
				out[i].Events = append(out[i].Events, ev)
			}
		}
	}
	return out, nil
}

// List dispatches on kind. Name filters views, routines and triggers and is
// the table for indexes.
func (x *Explorer) List(ctx context.Context, s execution.Session, kind plugin.ObjectKind, scope Scope, name string) (interface{}, error) {
	switch kind {
	case plugin.KindTable:
		return x.Tables(ctx, s, scope)
	case plugin.KindView:
		return x.Views(ctx, s, scope, name)
	case plugin.KindFunction:
		return x.Functions(ctx, s, scope, name)
	case plugin.KindProcedure:
		return x.Procedures(ctx, s, scope, name)
	case plugin.KindTrigger:
		return x.Triggers(ctx, s, scope, name)
	case plugin.KindIndex:
		return x.Indexes(ctx, s, scope, name)
	}
	return nil, plugin.NewConfigurationError("", "kind", fmt.Sprintf("unknown object kind %q", kind))
}

// Delete drops an object through the execution engine and returns the
// engine's result unchanged. Errors are returned only when no statement
// could be built.
func (x *Explorer) Delete(ctx context.Context, s execution.Session, kind plugin.ObjectKind, ref plugin.ObjectRef) (*execution.Result, error) {
	if s == nil {
		return nil, plugin.ErrConnectionClosed
	}
	desc := s.Plugin().Descriptor()
	if err := plugin.RequireFeature(desc, plugin.FeatureDrop, "drop "+string(kind)); err != nil {
		return nil, err
	}
	stmt, err := s.Plugin().Dialect().DropStatement(kind, ref)
	if err != nil {
		var unsupported *plugin.UnsupportedOperationError
		if errors.As(err, &unsupported) {
			unsupported.Engine, unsupported.PluginID = desc.Engine, desc.ID
		}
		return nil, err
	}
	x.safeLog("info", "[%s:drop] Dropping %s %s", desc.Engine, kind, ref.Name)
	return x.engine.Execute(ctx, execution.Request{Session: s, SQL: stmt}), nil
}
