package engine

import (
	"context"
	"errors"
	"time"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/driverloader"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection"
	"github.com/redbco/redb-driverhub/services/anchor/internal/execution"
)

// Status classifies a response.
type Status string

const (
	StatusOK          Status = "ok"
	StatusInvalid     Status = "invalid_request"
	StatusNotFound    Status = "not_found"
	StatusUnsupported Status = "unsupported"
	StatusDriver      Status = "driver_error"
	StatusError       Status = "error"
)

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case plugin.IsConfigurationError(err), errors.Is(err, plugin.ErrPluginNotFound):
		return StatusInvalid
	case plugin.IsNotFound(err):
		return StatusNotFound
	case plugin.IsUnsupported(err):
		return StatusUnsupported
	case driverloader.IsDriverLoadError(err):
		return StatusDriver
	}
	return StatusError
}

// Response is the envelope shared by every operation.
type Response struct {
	Success bool   `json:"success"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func failed(err error) Response {
	return Response{Status: statusOf(err), Message: err.Error()}
}

func succeeded(msg string) Response {
	return Response{Success: true, Status: StatusOK, Message: msg}
}

type TestConnectionResponse struct {
	Response
	Result *connection.TestResult `json:"result,omitempty"`
}

type OpenConnectionResponse struct {
	Response
	Connection *connection.Metadata `json:"connection,omitempty"`
}

// ExecuteResponse wraps the execution result. Statement failures are
// reported inside Result; Response only fails when the request itself is
// invalid or the connection is unknown.
type ExecuteResponse struct {
	Response
	Result *execution.Result `json:"result,omitempty"`
}

type ObjectsResponse struct {
	Response
	Objects interface{} `json:"objects,omitempty"`
}

type DDLResponse struct {
	Response
	DDL string `json:"ddl,omitempty"`
}

type PluginsResponse struct {
	Response
	// Engine is set when the listing was asked for a known engine.
	Engine  *EngineInfo         `json:"engine,omitempty"`
	Plugins []plugin.Descriptor `json:"plugins"`
}

// EngineInfo describes an engine of the capability manifest and the
// plugins registered for it, in preference order.
type EngineInfo struct {
	ID          dbcapabilities.DatabaseID     `json:"id"`
	Name        string                        `json:"name"`
	DefaultPort int                           `json:"defaultPort,omitempty"`
	Aliases     []string                      `json:"aliases,omitempty"`
	Paradigms   []dbcapabilities.DataParadigm `json:"paradigms"`
	Plugins     []string                      `json:"plugins"`
}

type EnginesResponse struct {
	Response
	Engines []EngineInfo `json:"engines"`
}

// Server implements the anchor operations on top of an Engine.
type Server struct {
	engine *Engine
}

func NewServer(engine *Engine) *Server {
	return &Server{engine: engine}
}

func (s *Server) trackOperation() func() {
	s.engine.TrackOperation()
	return s.engine.UntrackOperation
}

func (s *Server) fail(op string, err error) Response {
	s.engine.recordError()
	if s.engine.logger != nil {
		s.engine.logger.Warn("%s failed: %v", op, err)
	}
	return failed(err)
}

// TestConnection connects, pings and disconnects without registering.
func (s *Server) TestConnection(ctx context.Context, req ConnectRequest) *TestConnectionResponse {
	defer s.trackOperation()()

	creq, err := s.engine.connectionRequest(req)
	if err != nil {
		return &TestConnectionResponse{Response: s.fail("Test connection", err)}
	}
	res, err := s.engine.registry.Test(ctx, creq)
	if err != nil {
		return &TestConnectionResponse{Response: s.fail("Test connection", err)}
	}
	if res.Status != connection.TestSucceeded {
		s.engine.recordError()
		return &TestConnectionResponse{
			Response: Response{Status: StatusError, Message: res.Message},
			Result:   res,
		}
	}
	return &TestConnectionResponse{Response: succeeded("Connection test succeeded"), Result: res}
}

// OpenConnection opens or reuses the connection described by req.
func (s *Server) OpenConnection(ctx context.Context, req ConnectRequest) *OpenConnectionResponse {
	defer s.trackOperation()()

	creq, err := s.engine.connectionRequest(req)
	if err != nil {
		return &OpenConnectionResponse{Response: s.fail("Open connection", err)}
	}
	h, err := s.engine.registry.Open(ctx, creq)
	if err != nil {
		return &OpenConnectionResponse{Response: s.fail("Open connection", err)}
	}
	meta := h.Metadata()
	return &OpenConnectionResponse{Response: succeeded("Connection is open"), Connection: &meta}
}

// CloseConnection closes a connection. Unknown ids succeed.
func (s *Server) CloseConnection(ctx context.Context, connectionID string) Response {
	defer s.trackOperation()()

	if err := s.engine.registry.Close(connectionID); err != nil {
		return s.fail("Close connection", err)
	}
	return succeeded("Connection closed")
}

// ListConnections describes every open connection.
func (s *Server) ListConnections(ctx context.Context) []connection.Metadata {
	defer s.trackOperation()()
	return s.engine.registry.List()
}

// Execute runs one statement.
func (s *Server) Execute(ctx context.Context, req ExecuteRequest) *ExecuteResponse {
	defer s.trackOperation()()

	if err := check("", req); err != nil {
		return &ExecuteResponse{Response: s.fail("Execute", err)}
	}
	h, err := s.engine.registry.Get(req.ConnectionID)
	if err != nil {
		return &ExecuteResponse{Response: s.fail("Execute", err)}
	}
	maxRows := req.MaxRows
	if maxRows == 0 {
		maxRows = s.engine.config.Execution.MaxRows
	}

	res := s.engine.executor.Execute(ctx, execution.Request{
		Session:         h,
		SQL:             req.SQL,
		Database:        req.Database,
		Schema:          req.Schema,
		NeedTransaction: req.NeedTransaction,
		Params:          req.Params,
		MaxRows:         maxRows,
	})
	if !res.Success {
		s.engine.recordError()
	}
	return &ExecuteResponse{Response: succeeded(""), Result: res}
}

// ListObjects lists objects of req.Kind. Name filters views, routines and
// triggers; for indexes it is the table.
func (s *Server) ListObjects(ctx context.Context, req ObjectRequest) *ObjectsResponse {
	defer s.trackOperation()()

	h, err := s.session(req)
	if err != nil {
		return &ObjectsResponse{Response: s.fail("List objects", err)}
	}
	objs, err := s.engine.explorer.List(ctx, h, req.Kind, req.scope(), req.Name)
	if err != nil {
		return &ObjectsResponse{Response: s.fail("List objects", err)}
	}
	return &ObjectsResponse{Response: succeeded(""), Objects: objs}
}

// TableDetail bundles the structural metadata of one table.
type TableDetail struct {
	Columns     interface{} `json:"columns"`
	Indexes     interface{} `json:"indexes"`
	PrimaryKeys interface{} `json:"primaryKeys"`
	ForeignKeys interface{} `json:"foreignKeys"`
}

// DescribeTable returns columns, indexes and keys of req.Name.
func (s *Server) DescribeTable(ctx context.Context, req ObjectRequest) *ObjectsResponse {
	defer s.trackOperation()()

	req.Kind = plugin.KindTable
	h, err := s.session(req)
	if err != nil {
		return &ObjectsResponse{Response: s.fail("Describe table", err)}
	}
	x, scope := s.engine.explorer, req.scope()

	var detail TableDetail
	if detail.Columns, err = x.Columns(ctx, h, scope, req.Name); err != nil {
		return &ObjectsResponse{Response: s.fail("Describe table", err)}
	}
	if detail.PrimaryKeys, err = x.PrimaryKeys(ctx, h, scope, req.Name); err != nil {
		return &ObjectsResponse{Response: s.fail("Describe table", err)}
	}
	if detail.ForeignKeys, err = x.ForeignKeys(ctx, h, scope, req.Name); err != nil {
		return &ObjectsResponse{Response: s.fail("Describe table", err)}
	}
	// Engines without an index catalog still describe the rest.
	if detail.Indexes, err = x.Indexes(ctx, h, scope, req.Name); err != nil && !plugin.IsUnsupported(err) {
		return &ObjectsResponse{Response: s.fail("Describe table", err)}
	}
	return &ObjectsResponse{Response: succeeded(""), Objects: detail}
}

// DDL returns the definition of one object.
func (s *Server) DDL(ctx context.Context, req ObjectRequest) *DDLResponse {
	defer s.trackOperation()()

	h, err := s.session(req)
	if err != nil {
		return &DDLResponse{Response: s.fail("Get DDL", err)}
	}
	ddl, err := s.engine.explorer.DDL(ctx, h, req.Kind, req.ref())
	if err != nil {
		return &DDLResponse{Response: s.fail("Get DDL", err)}
	}
	return &DDLResponse{Response: succeeded(""), DDL: ddl}
}

// DropObject drops one object. Engine failures come back in Result.
func (s *Server) DropObject(ctx context.Context, req ObjectRequest) *ExecuteResponse {
	defer s.trackOperation()()

	h, err := s.session(req)
	if err != nil {
		return &ExecuteResponse{Response: s.fail("Drop object", err)}
	}
	res, err := s.engine.explorer.Delete(ctx, h, req.Kind, req.ref())
	if err != nil {
		return &ExecuteResponse{Response: s.fail("Drop object", err)}
	}
	if !res.Success {
		s.engine.recordError()
	}
	return &ExecuteResponse{Response: succeeded(""), Result: res}
}

func (s *Server) session(req ObjectRequest) (*connection.Handle, error) {
	if err := check("", req); err != nil {
		return nil, err
	}
	return s.engine.registry.Get(req.ConnectionID)
}

// Plugins lists registered plugin descriptors, optionally for one engine.
func (s *Server) Plugins(engine string) *PluginsResponse {
	defer s.trackOperation()()

	reg := s.engine.registry.Plugins()
	var list []plugin.Plugin
	if engine == "" {
		list = reg.List()
	} else {
		list = reg.Resolve(engine)
	}
	out := make([]plugin.Descriptor, 0, len(list))
	for _, p := range list {
		out = append(out, p.Descriptor())
	}
	resp := &PluginsResponse{Response: succeeded(""), Plugins: out}
	if c, ok := dbcapabilities.GetByName(engine); ok {
		info := engineInfo(c, list)
		resp.Engine = &info
	}
	return resp
}

// Engines lists every engine of the capability manifest, or only those
// supporting paradigm when it is set.
func (s *Server) Engines(paradigm string) *EnginesResponse {
	defer s.trackOperation()()

	reg := s.engine.registry.Plugins()
	out := []EngineInfo{}
	for _, id := range dbcapabilities.IDs() {
		if paradigm != "" && !dbcapabilities.SupportsParadigm(id, dbcapabilities.DataParadigm(paradigm)) {
			continue
		}
		c, ok := dbcapabilities.Get(id)
		if !ok {
			continue
		}
		out = append(out, engineInfo(c, reg.Resolve(string(id))))
	}
	return &EnginesResponse{Response: succeeded(""), Engines: out}
}

func engineInfo(c dbcapabilities.Capability, plugins []plugin.Plugin) EngineInfo {
	info := EngineInfo{
		ID:          c.ID,
		Name:        c.Name,
		DefaultPort: c.DefaultPort,
		Aliases:     c.Aliases,
		Paradigms:   c.Paradigms,
		Plugins:     make([]string, 0, len(plugins)),
	}
	for _, p := range plugins {
		info.Plugins = append(info.Plugins, p.Descriptor().ID)
	}
	return info
}

// Shutdown stops the engine within gracePeriod.
func (s *Server) Shutdown(ctx context.Context, gracePeriod time.Duration) error {
	return s.engine.Stop(ctx, gracePeriod)
}
