package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redbco/redb-driverhub/services/anchor/internal/engine"
)

// connectFlags are shared by every command that needs a live connection.
type connectFlags struct {
	profile    string
	url        string
	engine     string
	pluginID   string
	host       string
	port       int
	database   string
	username   string
	password   string
	driverPath string
	timeout    int
	properties map[string]string
}

func (f *connectFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.profile, "profile", "", "Named connection profile from the config file")
	fl.StringVar(&f.url, "url", "", "Connection string, e.g. mysql://root@localhost:3306/shop")
	fl.StringVarP(&f.engine, "engine", "e", "", "Engine code, e.g. postgres, mysql, mssql")
	fl.StringVar(&f.pluginID, "plugin", "", "Pin a plugin id and skip version band selection")
	fl.StringVarP(&f.host, "host", "H", "", "Server host")
	fl.IntVarP(&f.port, "port", "P", 0, "Server port (engine default when 0)")
	fl.StringVarP(&f.database, "database", "d", "", "Database name")
	fl.StringVarP(&f.username, "user", "u", "", "User name")
	fl.StringVarP(&f.password, "password", "p", "", "Password, or keyring:<account>")
	fl.StringVar(&f.driverPath, "driver", "", "Driver library path (defaults to the drivers directory)")
	fl.IntVar(&f.timeout, "timeout", 0, "Connect timeout in seconds")
	fl.StringToStringVar(&f.properties, "property", nil, "Extra driver property key=value (repeatable)")
}

func (f *connectFlags) request() engine.ConnectRequest {
	return engine.ConnectRequest{
		Profile:        f.profile,
		URL:            f.url,
		Engine:         f.engine,
		PluginID:       f.pluginID,
		Owner:          "cli",
		Host:           f.host,
		Port:           f.port,
		Database:       f.database,
		Username:       f.username,
		Password:       f.password,
		Properties:     f.properties,
		DriverPath:     f.driverPath,
		TimeoutSeconds: f.timeout,
	}
}

// open connects and returns the connection id.
func (f *connectFlags) open(cmd *cobra.Command) (string, error) {
	resp := server.OpenConnection(cmd.Context(), f.request())
	if !resp.Success {
		return "", fmt.Errorf("%s: %s", resp.Status, resp.Message)
	}
	return resp.Connection.ID, nil
}
