package driverloader

import (
	"plugin"
)

// Symbols is an opened library.
type Symbols interface {
	Lookup(name string) (interface{}, error)
}

// Opener opens library files. The default implementation uses Go plugins;
// tests substitute their own.
type Opener interface {
	Open(path string) (Symbols, error)
}

// GoPluginOpener loads shared objects built with -buildmode=plugin.
//
// The Go runtime never unloads a plugin and refuses a second plugin that
// carries a different build of an already-loaded package. Driver libraries
// are therefore expected to vendor distinct package paths per major version.
type GoPluginOpener struct{}

func (GoPluginOpener) Open(path string) (Symbols, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return goPlugin{p}, nil
}

type goPlugin struct {
	p *plugin.Plugin
}

func (g goPlugin) Lookup(name string) (interface{}, error) {
	return g.p.Lookup(name)
}
