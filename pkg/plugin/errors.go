package plugin

import (
	"errors"
	"fmt"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
)

// Standard errors
var (
	// ErrOperationNotSupported is returned when the resolved plugin lacks a feature
	ErrOperationNotSupported = errors.New("operation not supported by this database")

	// ErrConnectionClosed is returned when attempting to use a closed connection
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrConnectionFailed is returned when a connection attempt fails
	ErrConnectionFailed = errors.New("connection failed")

	// ErrInvalidConfiguration is returned when the configuration is invalid
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNotFound is returned when a connection, plugin or object does not exist
	ErrNotFound = errors.New("not found")

	// ErrPluginNotFound is returned when no plugin serves an engine
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrDuplicatePlugin is returned when a plugin id is registered twice
	ErrDuplicatePlugin = errors.New("plugin already registered")
)

// DatabaseError wraps database-specific errors with additional context.
type DatabaseError struct {
	Engine    dbcapabilities.DatabaseID
	Operation string
	Cause     error
	Context   map[string]interface{}
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	if len(e.Context) > 0 {
		return fmt.Sprintf("[%s] %s: %v (context: %v)", e.Engine, e.Operation, e.Cause, e.Context)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Engine, e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(engine dbcapabilities.DatabaseID, operation string, cause error) *DatabaseError {
	return &DatabaseError{
		Engine:    engine,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext adds context to a DatabaseError.
func (e *DatabaseError) WithContext(key string, value interface{}) *DatabaseError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// UnsupportedOperationError is returned when the engine exists but the
// resolved plugin does not provide the requested feature.
type UnsupportedOperationError struct {
	Engine    dbcapabilities.DatabaseID
	PluginID  string
	Operation string
	Feature   Feature
}

// Error implements the error interface.
func (e *UnsupportedOperationError) Error() string {
	who := string(e.Engine)
	if e.PluginID != "" {
		who = e.PluginID
	}
	if who == "" {
		who = "database"
	}
	if e.Feature != 0 {
		return fmt.Sprintf("%s does not support %s (missing capability %s)", who, e.Operation, e.Feature)
	}
	return fmt.Sprintf("%s does not support %s", who, e.Operation)
}

// Is checks if the error is ErrOperationNotSupported.
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrOperationNotSupported
}

// RequireFeature returns an UnsupportedOperationError when desc lacks f.
func RequireFeature(desc Descriptor, f Feature, operation string) error {
	if desc.Supports(f) {
		return nil
	}
	return &UnsupportedOperationError{Engine: desc.Engine, PluginID: desc.ID, Operation: operation, Feature: f}
}

// ConnectionError is returned when a connection error occurs.
type ConnectionError struct {
	Engine dbcapabilities.DatabaseID
	Host   string
	Port   int
	Cause  error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s at %s:%d: %v", e.Engine, e.Host, e.Port, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is ErrConnectionFailed.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnectionFailed
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(engine dbcapabilities.DatabaseID, host string, port int, cause error) *ConnectionError {
	return &ConnectionError{
		Engine: engine,
		Host:   host,
		Port:   port,
		Cause:  cause,
	}
}

// ConfigurationError is returned when a configuration error occurs.
type ConfigurationError struct {
	Engine dbcapabilities.DatabaseID
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	prefix := "invalid configuration"
	if e.Engine != "" {
		prefix += " for " + string(e.Engine)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", prefix, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Reason)
}

// Is checks if the error is ErrInvalidConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(engine dbcapabilities.DatabaseID, field string, reason string) *ConfigurationError {
	return &ConfigurationError{
		Engine: engine,
		Field:  field,
		Reason: reason,
	}
}

// NotFoundError is returned when a resource is not found.
type NotFoundError struct {
	ResourceType string
	ResourceName string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceName)
}

// Is checks if the error is ErrNotFound, or ErrPluginNotFound for plugins.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	return e.ResourceType == "plugin" && target == ErrPluginNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType string, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// WrapError wraps an error with database context.
// If the error is already a DatabaseError, it returns it as-is.
func WrapError(engine dbcapabilities.DatabaseID, operation string, err error) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}

	return NewDatabaseError(engine, operation, err)
}

// IsUnsupported checks if an error indicates an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrOperationNotSupported)
}

// IsConnectionError checks if an error is a connection error.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsConfigurationError checks if an error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
