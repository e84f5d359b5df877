package plugin

import (
	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

// Plugin is implemented by every engine plugin.
type Plugin interface {
	Descriptor() Descriptor
	Dialect() Dialect
	Converter() valueconv.Converter
	// DSN merges the built address and property bag into the data source
	// name understood by the plugin's driver library.
	DSN(address string, props connbuilder.Properties) (string, error)
}

// DSNFunc assembles a driver DSN.
type DSNFunc func(address string, props connbuilder.Properties) (string, error)

// Definition is the struct-literal form of a Plugin.
type Definition struct {
	Desc     Descriptor
	SQL      Dialect
	Values   valueconv.Converter
	BuildDSN DSNFunc
}

func (d *Definition) Descriptor() Descriptor { return d.Desc }

func (d *Definition) Dialect() Dialect {
	if d.SQL == nil {
		return SQLDialect{OpenQuote: `"`, CloseQuote: `"`}
	}
	return d.SQL
}

func (d *Definition) Converter() valueconv.Converter {
	if d.Values == nil {
		return valueconv.Reference()
	}
	return d.Values
}

func (d *Definition) DSN(address string, props connbuilder.Properties) (string, error) {
	if d.BuildDSN == nil {
		return address, nil
	}
	return d.BuildDSN(address, props)
}

// WithDescriptor returns a copy of p that reports desc. Engines use it to
// declare several version bands sharing one implementation.
func WithDescriptor(p *Definition, desc Descriptor) *Definition {
	cp := *p
	cp.Desc = desc
	return &cp
}
