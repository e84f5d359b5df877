// Package driverloader turns external driver libraries into database/sql
// drivers. Each library path gets exactly one isolated scope for the life
// of the process (or until Reset), and every call into a loaded driver runs
// inside that scope.
package driverloader

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/redbco/redb-driverhub/pkg/logger"
)

const tracerName = "github.com/redbco/redb-driverhub/pkg/driverloader"

// Loader caches scopes by absolute library path.
type Loader struct {
	opener Opener
	logger *logger.Logger

	mu     sync.RWMutex
	scopes map[string]*Scope
	group  singleflight.Group

	created int64
}

// New creates a loader. A nil opener uses Go plugins.
func New(opener Opener, log *logger.Logger) *Loader {
	if opener == nil {
		opener = GoPluginOpener{}
	}
	return &Loader{
		opener: opener,
		logger: log,
		scopes: make(map[string]*Scope),
	}
}

func (l *Loader) safeLog(level string, msg string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	switch level {
	case "debug":
		l.logger.Debug(msg, args...)
	case "warn":
		l.logger.Warn(msg, args...)
	case "error":
		l.logger.Error(msg, args...)
	default:
		l.logger.Info(msg, args...)
	}
}

// Load returns a handle for the driver exported as symbol by the library at
// libraryPath. The first load of a path validates and opens the file; later
// loads reuse the cached scope.
func (l *Loader) Load(ctx context.Context, libraryPath, symbol string) (*Handle, error) {
	if symbol == "" {
		symbol = "Driver"
	}
	if libraryPath == "" {
		return nil, &DriverLoadError{Symbol: symbol, Reason: "library path is empty"}
	}
	abs, err := filepath.Abs(libraryPath)
	if err != nil {
		return nil, &DriverLoadError{Path: libraryPath, Symbol: symbol, Reason: "cannot resolve absolute path", Err: err}
	}

	scope, err := l.scope(ctx, abs)
	if err != nil {
		return nil, withSymbol(err, symbol)
	}

	drv, err := scope.driver(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &Handle{scope: scope, symbol: symbol, drv: drv}, nil
}

func (l *Loader) lookup(abs string) (*Scope, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.scopes[abs]
	return s, ok
}

func (l *Loader) scope(ctx context.Context, abs string) (*Scope, error) {
	if s, ok := l.lookup(abs); ok {
		return s, nil
	}

	v, err, _ := l.group.Do(abs, func() (interface{}, error) {
		if s, ok := l.lookup(abs); ok {
			return s, nil
		}
		s, err := l.open(ctx, abs)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.scopes[abs] = s
		l.created++
		l.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Scope), nil
}

func (l *Loader) open(ctx context.Context, abs string) (*Scope, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "driverloader.open")
	span.SetAttributes(attribute.String("driver.library", abs))
	defer span.End()

	if err := validateLibrary(abs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid library")
		l.safeLog("warn", "[driverloader:validate] path=%s error=%v", abs, err)
		return nil, err
	}

	start := time.Now()
	syms, err := l.opener.Open(abs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		l.safeLog("error", "[driverloader:open] path=%s error=%v", abs, err)
		return nil, &DriverLoadError{Path: abs, Reason: "cannot open library", Err: err}
	}

	s := &Scope{
		id:         "scope-" + strconv.FormatUint(xxhash.Sum64String(abs), 16),
		path:       abs,
		loadedAt:   time.Now(),
		symbols:    syms,
		drivers:    make(map[string]interface{}),
		formatters: make(map[string]DSNFunc),
	}
	span.SetAttributes(attribute.String("driver.scope", s.id))
	l.safeLog("info", "[driverloader:open] path=%s scope=%s elapsed=%s", abs, s.id, time.Since(start))
	return s, nil
}

// withSymbol stamps the requested symbol on a scope error. The error may be
// shared between concurrent callers, so it is copied.
func withSymbol(err error, symbol string) error {
	var dle *DriverLoadError
	if !errors.As(err, &dle) || dle.Symbol != "" {
		return err
	}
	cp := *dle
	cp.Symbol = symbol
	return &cp
}

func validateLibrary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &DriverLoadError{Path: path, Reason: "library file does not exist", Err: err}
		}
		return &DriverLoadError{Path: path, Reason: "cannot stat library file", Err: err}
	}
	if info.IsDir() {
		return &DriverLoadError{Path: path, Reason: "library path is a directory"}
	}
	if info.Size() == 0 {
		return &DriverLoadError{Path: path, Reason: "library file is empty"}
	}
	return nil
}

// driver resolves and caches the driver exported as symbol.
func (s *Scope) driver(ctx context.Context, symbol string) (driver.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.drivers[symbol]; ok {
		return d.(driver.Driver), nil
	}

	var drv driver.Driver
	err := s.Run(ctx, func(context.Context) error {
		sym, err := s.symbols.Lookup(symbol)
		if err != nil {
			return &DriverLoadError{Path: s.path, Symbol: symbol, Reason: "symbol not found", Err: err}
		}
		drv, err = asDriver(sym)
		if err != nil {
			return &DriverLoadError{Path: s.path, Symbol: symbol, Reason: "symbol is not a driver", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.drivers[symbol] = drv
	return drv, nil
}

// asDriver accepts the shapes a plugin can export: a driver value, a
// pointer to a driver variable, or a constructor function.
func asDriver(sym interface{}) (driver.Driver, error) {
	switch v := sym.(type) {
	case *driver.Driver:
		if v == nil || *v == nil {
			return nil, fmt.Errorf("driver variable is nil")
		}
		return *v, nil
	case func() driver.Driver:
		if d := v(); d != nil {
			return d, nil
		}
		return nil, fmt.Errorf("driver constructor returned nil")
	case *func() driver.Driver:
		if v != nil && *v != nil {
			return asDriver(*v)
		}
		return nil, fmt.Errorf("driver constructor is nil")
	case driver.Driver:
		return v, nil
	}
	// pointer to a variable of a concrete driver type
	if rv := reflect.ValueOf(sym); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if d, ok := rv.Elem().Interface().(driver.Driver); ok {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unexpected symbol type %T", sym)
}

// DSNFunc is the signature of the DSN formatter a driver library exports
// next to its driver.
type DSNFunc = func(address string, props map[string]string) (string, error)

// formatter resolves and caches the DSN formatter exported as symbol.
func (s *Scope) formatter(ctx context.Context, symbol string) (DSNFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.formatters[symbol]; ok {
		return f, nil
	}

	var f DSNFunc
	err := s.Run(ctx, func(context.Context) error {
		sym, err := s.symbols.Lookup(symbol)
		if err != nil {
			return &DriverLoadError{Path: s.path, Symbol: symbol, Reason: "symbol not found", Err: err}
		}
		f, err = asDSNFunc(sym)
		if err != nil {
			return &DriverLoadError{Path: s.path, Symbol: symbol, Reason: "symbol is not a DSN formatter", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.formatters[symbol] = f
	return f, nil
}

func asDSNFunc(sym interface{}) (DSNFunc, error) {
	switch v := sym.(type) {
	case *DSNFunc:
		if v != nil && *v != nil {
			return *v, nil
		}
		return nil, fmt.Errorf("DSN formatter variable is nil")
	case DSNFunc:
		if v != nil {
			return v, nil
		}
		return nil, fmt.Errorf("DSN formatter is nil")
	}
	return nil, fmt.Errorf("unexpected symbol type %T", sym)
}

// Loaded returns the scopes currently cached, keyed by absolute path.
func (l *Loader) Loaded() map[string]*Scope {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]*Scope, len(l.scopes))
	for k, v := range l.scopes {
		out[k] = v
	}
	return out
}

// ScopesCreated is the number of scopes created since the loader was made
// or last reset.
func (l *Loader) ScopesCreated() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.created
}

// Reset forgets every cached scope. Libraries already opened stay mapped in
// the process; the next Load of a path creates a fresh scope.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scopes = make(map[string]*Scope)
	l.created = 0
}

var (
	defaultMu     sync.Mutex
	defaultLoader *Loader
)

// Init installs the process-wide loader.
func Init(opener Opener, log *logger.Logger) *Loader {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLoader = New(opener, log)
	return defaultLoader
}

// Default returns the process-wide loader, creating a Go plugin loader on
// first use.
func Default() *Loader {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLoader == nil {
		defaultLoader = New(nil, nil)
	}
	return defaultLoader
}

// Teardown drops the process-wide loader and its cache.
func Teardown() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLoader != nil {
		defaultLoader.Reset()
	}
	defaultLoader = nil
}
