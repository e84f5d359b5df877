package driverloader

import (
	"errors"
	"fmt"
)

// ErrDriverLoad matches every DriverLoadError.
var ErrDriverLoad = errors.New("driver load failed")

// DriverLoadError reports a library that could not be turned into a driver.
type DriverLoadError struct {
	Path   string
	Symbol string
	Reason string
	Err    error
}

func (e *DriverLoadError) Error() string {
	msg := fmt.Sprintf("driver load failed for %s", e.Path)
	if e.Symbol != "" {
		msg += fmt.Sprintf(" (symbol %s)", e.Symbol)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DriverLoadError) Unwrap() error { return e.Err }

func (e *DriverLoadError) Is(target error) bool { return target == ErrDriverLoad }

// IsDriverLoadError reports whether err is (or wraps) a DriverLoadError.
func IsDriverLoadError(err error) bool {
	return errors.Is(err, ErrDriverLoad)
}
