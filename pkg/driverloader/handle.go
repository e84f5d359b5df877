package driverloader

import (
	"context"
	"database/sql/driver"
	"io"
)

// Handle is a driver loaded from an isolated scope. Every call into the
// underlying driver runs inside the scope.
type Handle struct {
	scope  *Scope
	symbol string
	drv    driver.Driver
}

var (
	_ driver.Driver        = (*Handle)(nil)
	_ driver.DriverContext = (*Handle)(nil)
)

// Scope returns the scope backing the handle.
func (h *Handle) Scope() *Scope { return h.scope }

// Symbol is the exported symbol the driver was resolved from.
func (h *Handle) Symbol() string { return h.symbol }

// FormatDSN builds a data source name with the formatter the library
// exports as symbol. The formatter is resolved once per scope and every call
// runs inside the scope. Resolution failures are DriverLoadErrors; errors
// returned by the formatter itself are passed through unchanged.
func (h *Handle) FormatDSN(ctx context.Context, symbol, address string, props map[string]string) (string, error) {
	format, err := h.scope.formatter(ctx, symbol)
	if err != nil {
		return "", err
	}
	var out string
	err = h.scope.Run(ctx, func(context.Context) error {
		var ferr error
		out, ferr = format(address, props)
		return ferr
	})
	return out, err
}

// Open implements driver.Driver.
func (h *Handle) Open(name string) (driver.Conn, error) {
	_, exit := h.scope.attach(context.Background())
	defer exit()
	return h.drv.Open(name)
}

// OpenConnector implements driver.DriverContext. Drivers without their own
// connector get one that calls Open.
func (h *Handle) OpenConnector(name string) (driver.Connector, error) {
	_, exit := h.scope.attach(context.Background())
	defer exit()

	var inner driver.Connector
	if dc, ok := h.drv.(driver.DriverContext); ok {
		c, err := dc.OpenConnector(name)
		if err != nil {
			return nil, err
		}
		inner = c
	} else {
		inner = dsnConnector{dsn: name, drv: h.drv}
	}
	return &scopedConnector{handle: h, inner: inner}, nil
}

type dsnConnector struct {
	dsn string
	drv driver.Driver
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) { return c.drv.Open(c.dsn) }
func (c dsnConnector) Driver() driver.Driver                        { return c.drv }

type scopedConnector struct {
	handle *Handle
	inner  driver.Connector
}

func (c *scopedConnector) Connect(ctx context.Context) (driver.Conn, error) {
	inner, exit := c.handle.scope.enter(ctx)
	defer exit()
	return c.inner.Connect(inner)
}

func (c *scopedConnector) Driver() driver.Driver { return c.handle }

// Close releases connector resources when the driver holds any.
func (c *scopedConnector) Close() error {
	closer, ok := c.inner.(io.Closer)
	if !ok {
		return nil
	}
	_, exit := c.handle.scope.attach(context.Background())
	defer exit()
	return closer.Close()
}
