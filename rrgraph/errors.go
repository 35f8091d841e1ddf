package rrgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every architecture or parameter error.
	ErrConfig = errors.New("invalid configuration")

	// ErrInvariant is matched by every internal consistency failure.
	ErrInvariant = errors.New("internal invariant violation")
)

// ConfigError reports an invalid architecture or build parameter. Where
// names the offending location, for example a switch block coordinate.
type ConfigError struct {
	Where string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Where == "" {
		return "config: " + e.Msg
	}

	return fmt.Sprintf("config: %s: %s", e.Where, e.Msg)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// Configf builds a ConfigError.
func Configf(where, format string, args ...any) *ConfigError {
	return &ConfigError{Where: where, Msg: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports a bug in the builder. It is raised by panicking
// and is turned back into an error at the top of a build.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariant
}

// Invariantf panics with an InvariantViolation if cond does not hold.
func Invariantf(cond bool, format string, args ...any) {
	if cond {
		return
	}

	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// RecoverBuildError converts a panic carrying a ConfigError or an
// InvariantViolation into an error stored in *err. Any other panic is
// re-raised. It must be called directly by a deferred function.
func RecoverBuildError(err *error) {
	r := recover()
	if r == nil {
		return
	}

	switch e := r.(type) {
	case *ConfigError:
		*err = e
	case *InvariantViolation:
		*err = e
	default:
		panic(r)
	}
}
