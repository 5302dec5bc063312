// Package middleware wraps the listener callbacks config.Dispatcher invokes
// for every matched option and for the positional arguments.
package middleware

import (
	"fmt"
	"time"

	"github.com/dzonerzy/go-getopt/getopt"
	optio "github.com/dzonerzy/go-getopt/io"
)

// Event is one listener invocation. For the positional-argument listener
// Option is nil and Values holds the arguments.
type Event struct {
	Option *getopt.Option
	Key    string
	Values []string
}

// Name returns the option display name, or "args".
func (e Event) Name() string {
	if e.Option == nil {
		return "args"
	}
	return e.Option.Name()
}

// Handler handles one event.
type Handler func(ev Event) error

// Middleware defines the middleware function signature
type Middleware func(next Handler) Handler

// MiddlewareChain represents a chain of middleware functions
type MiddlewareChain []Middleware

// Apply applies the middleware chain to a Handler. Middleware are wrapped
// in the order they appear in the chain.
func (chain MiddlewareChain) Apply(h Handler) Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	return append(chain, middleware...)
}

// Chain creates a new middleware chain from the provided middleware, preserving
// order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// Error types for middleware

// ValidationError represents a validation error
type ValidationError struct {
	Option  string
	Value   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// TimeoutError represents a timeout error
type TimeoutError struct {
	Duration time.Duration
	Listener string
}

func (e *TimeoutError) Error() string {
	return "listener for " + e.Listener + " timed out after " + e.Duration.String()
}

// RecoveryError represents a panic recovery
type RecoveryError struct {
	Panic    any
	Listener string
	Stack    []byte
}

func (e *RecoveryError) Error() string {
	return "listener for " + e.Listener + " panicked: " + toString(e.Panic)
}

// MiddlewareConfig contains configuration for middleware behavior
type MiddlewareConfig struct {
	Logger        *optio.Logger // nil disables logging
	LogFormat     LogFormat
	IncludeValues bool
	PrintStack    bool
	StackSize     int
	Timeout       time.Duration
}

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// MiddlewareOption configures a middleware constructor.
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig returns the configuration constructors start from.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogFormat:     LogFormatText,
		IncludeValues: true,
		PrintStack:    true,
		StackSize:     4096,
		Timeout:       30 * time.Second,
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

// WithLogger sends middleware output through l.
func WithLogger(l *optio.Logger) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.Logger = l
	}
}

// WithLogFormat selects text or JSON log lines.
func WithLogFormat(f LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = f
	}
}

// WithValues controls whether option values appear in log lines.
func WithValues(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.IncludeValues = enabled
	}
}

func WithTimeout(timeout time.Duration) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.Timeout = timeout
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

// Utility functions

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
