package engine

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/keyring"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// ConnectRequest is the outer connect request. URL, when set, is a
// connection string such as "postgres://u:p@host:5432/db?sslmode=disable"
// whose parts fill the fields left empty here. Profile then fills whatever
// is still missing.
type ConnectRequest struct {
	Profile        string            `json:"profile,omitempty"`
	URL            string            `json:"url,omitempty"`
	Engine         string            `json:"engine" validate:"required_without_all=Profile URL"`
	PluginID       string            `json:"pluginId,omitempty"`
	Owner          string            `json:"owner,omitempty"`
	Host           string            `json:"host,omitempty" validate:"omitempty,max=253"`
	Port           int               `json:"port,omitempty" validate:"gte=0,lte=65535"`
	Database       string            `json:"database,omitempty"`
	Username       string            `json:"username,omitempty"`
	Password       string            `json:"password,omitempty"`
	Properties     map[string]string `json:"properties,omitempty" validate:"dive,keys,required,endkeys"`
	DriverPath     string            `json:"driverPath,omitempty"`
	TimeoutSeconds int               `json:"timeoutSeconds,omitempty" validate:"gte=0,lte=300"`
}

// ExecuteRequest runs one statement on an open connection.
type ExecuteRequest struct {
	ConnectionID    string        `json:"connectionId" validate:"required"`
	SQL             string        `json:"sql"`
	Database        string        `json:"database,omitempty"`
	Schema          string        `json:"schema,omitempty"`
	NeedTransaction bool          `json:"needTransaction,omitempty"`
	Params          []interface{} `json:"params,omitempty"`
	MaxRows         int           `json:"maxRows,omitempty" validate:"gte=0"`
}

// ObjectRequest addresses metadata on an open connection. Name is the table
// for index, key and column lookups and a filter for listings.
type ObjectRequest struct {
	ConnectionID string            `json:"connectionId" validate:"required"`
	Kind         plugin.ObjectKind `json:"kind" validate:"required,oneof=table view function procedure trigger index"`
	Catalog      string            `json:"catalog,omitempty"`
	Schema       string            `json:"schema,omitempty"`
	Name         string            `json:"name,omitempty"`
	Table        string            `json:"table,omitempty"`
}

func (r ObjectRequest) scope() metadata.Scope {
	return metadata.Scope{Catalog: r.Catalog, Schema: r.Schema}
}

func (r ObjectRequest) ref() plugin.ObjectRef {
	return plugin.ObjectRef{Catalog: r.Catalog, Schema: r.Schema, Name: r.Name, Table: r.Table}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// check validates s and maps the first failure to a configuration error.
func check(engine dbcapabilities.DatabaseID, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return plugin.NewConfigurationError(engine, "request", err.Error())
	}
	fe := verrs[0]
	reason := fmt.Sprintf("failed %q validation", fe.Tag())
	if fe.Param() != "" {
		reason = fmt.Sprintf("failed %q validation (%s)", fe.Tag(), fe.Param())
	}
	return plugin.NewConfigurationError(engine, fe.Field(), reason)
}

// connectionRequest validates req, applies the profile, resolves keyring
// references and defaults the driver path.
func (e *Engine) connectionRequest(req ConnectRequest) (connection.Request, error) {
	if err := check(dbcapabilities.DatabaseID(req.Engine), req); err != nil {
		return connection.Request{}, err
	}
	if req.URL != "" {
		d, err := dbcapabilities.ParseConnectionString(req.URL)
		if err != nil {
			return connection.Request{}, plugin.NewConfigurationError(dbcapabilities.DatabaseID(req.Engine), "url", err.Error())
		}
		req = mergeProfile(req, d.DatabaseType, "", connbuilder.Config{
			Host:       d.Host,
			Port:       d.Port,
			Database:   d.DatabaseName,
			Username:   d.Username,
			Password:   d.Password,
			Properties: d.Parameters,
		})
	}
	if req.Profile != "" {
		p, err := e.config.Profile(req.Profile)
		if err != nil {
			return connection.Request{}, plugin.NewConfigurationError(dbcapabilities.DatabaseID(req.Engine), "profile", err.Error())
		}
		req = mergeProfile(req, p.Engine, p.PluginID, p.Connection)
	}

	engine := plugin.EngineCode(req.Engine)
	password, err := keyring.Resolve(e.secrets, req.Password)
	if err != nil {
		return connection.Request{}, plugin.NewConfigurationError(engine, "password", err.Error())
	}

	out := connection.Request{
		Engine:   req.Engine,
		PluginID: req.PluginID,
		Owner:    req.Owner,
		Config: connbuilder.Config{
			Host:           req.Host,
			Port:           req.Port,
			Database:       req.Database,
			Username:       req.Username,
			Password:       password,
			Properties:     req.Properties,
			DriverPath:     req.DriverPath,
			TimeoutSeconds: req.TimeoutSeconds,
		},
	}
	if out.Config.TimeoutSeconds == 0 && e.config.Connections.ConnectTimeout > 0 {
		out.Config.TimeoutSeconds = int(math.Ceil(e.config.Connections.ConnectTimeout.Seconds()))
	}
	if out.Config.DriverPath == "" {
		out.Config.DriverPath = e.defaultDriverPath(out)
	}
	return out, nil
}

// defaultDriverPath joins the drivers directory with the artifact file name
// of the pinned plugin or, failing that, the engine's preferred plugin.
func (e *Engine) defaultDriverPath(req connection.Request) string {
	plugins := e.registry.Plugins()
	var desc plugin.Descriptor
	if req.PluginID != "" {
		p, err := plugins.Get(req.PluginID)
		if err != nil {
			return ""
		}
		desc = p.Descriptor()
	} else {
		candidates := plugins.Resolve(req.Engine)
		if len(candidates) == 0 {
			return ""
		}
		desc = candidates[0].Descriptor()
	}
	if e.config.Drivers.Directory == "" {
		return ""
	}
	return filepath.Join(e.config.Drivers.Directory, desc.Artifact.FileName())
}

func mergeProfile(req ConnectRequest, engine, pluginID string, c connbuilder.Config) ConnectRequest {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	req.Engine = pick(req.Engine, engine)
	req.PluginID = pick(req.PluginID, pluginID)
	req.Host = pick(req.Host, c.Host)
	req.Database = pick(req.Database, c.Database)
	req.Username = pick(req.Username, c.Username)
	req.Password = pick(req.Password, c.Password)
	req.DriverPath = pick(req.DriverPath, c.DriverPath)
	if req.Port == 0 {
		req.Port = c.Port
	}
	if req.TimeoutSeconds == 0 {
		req.TimeoutSeconds = c.TimeoutSeconds
	}
	if len(c.Properties) > 0 {
		props := make(map[string]string, len(c.Properties)+len(req.Properties))
		for k, v := range c.Properties {
			props[k] = v
		}
		for k, v := range req.Properties {
			props[k] = v
		}
		req.Properties = props
	}
	return req
}
