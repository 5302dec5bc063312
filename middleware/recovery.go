package middleware

import (
	"runtime"
	"sync"
)

// Recovery creates a middleware that turns listener panics into a
// *RecoveryError. With a logger configured and stack traces enabled the
// panic and its stack are logged at error level.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next Handler) Handler {
		return func(ev Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					recoveryErr := &RecoveryError{
						Panic:    r,
						Listener: ev.Name(),
						Stack:    captureStack(config),
					}
					if config.Logger != nil && len(recoveryErr.Stack) > 0 {
						config.Logger.Error("PANIC in listener for %s: %v", recoveryErr.Listener, r)
						config.Logger.Error("Stack trace:\n%s", recoveryErr.Stack)
					}
					err = recoveryErr
				}
			}()

			return next(ev)
		}
	}
}

// RecoveryWithHandler creates a recovery middleware with a custom panic handler
func RecoveryWithHandler(
	handler func(panicVal any, listener string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := newConfig(options)

	return func(next Handler) Handler {
		return func(ev Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = handler(r, ev.Name(), captureStack(config))
				}
			}()

			return next(ev)
		}
	}
}

// RecoveryToError converts panics to errors without stack traces.
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}

// NoopRecovery lets panics propagate.
func NoopRecovery() Middleware {
	return func(next Handler) Handler {
		return next
	}
}

func captureStack(config *MiddlewareConfig) []byte {
	if !config.PrintStack {
		return nil
	}
	stack := make([]byte, config.StackSize)
	return stack[:runtime.Stack(stack, false)]
}

// RecoveryStats tracks recovery statistics. It is safe for concurrent use.
type RecoveryStats struct {
	mu             sync.Mutex
	TotalPanics    int
	ListenerPanics map[string]int
	LastPanic      *RecoveryError
}

// NewRecoveryStats creates a new recovery statistics tracker
func NewRecoveryStats() *RecoveryStats {
	return &RecoveryStats{
		ListenerPanics: make(map[string]int),
	}
}

// Snapshot returns the panic total and the most recent panic.
func (s *RecoveryStats) Snapshot() (int, *RecoveryError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TotalPanics, s.LastPanic
}

// RecoveryWithStats creates a recovery middleware that tracks statistics
func RecoveryWithStats(stats *RecoveryStats, options ...MiddlewareOption) Middleware {
	return RecoveryWithHandler(func(panicVal any, listener string, stack []byte) error {
		err := &RecoveryError{Panic: panicVal, Listener: listener, Stack: stack}
		stats.mu.Lock()
		stats.TotalPanics++
		stats.ListenerPanics[listener]++
		stats.LastPanic = err
		stats.mu.Unlock()
		return err
	}, options...)
}
