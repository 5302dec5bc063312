package middleware

import (
	"context"
	"sync"
	"time"
)

// Timeout bounds how long a listener may run. The listener keeps running in
// its goroutine after the deadline; the caller gets a *TimeoutError.
// Panics inside the listener come back as *RecoveryError.
func Timeout(duration time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(ev Event) error {
			if duration <= 0 {
				return next(ev)
			}
			ctx, cancel := context.WithTimeout(context.Background(), duration)
			defer cancel()

			resultChan := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						resultChan <- &RecoveryError{Panic: r, Listener: ev.Name()}
					}
				}()
				resultChan <- next(ev)
			}()

			select {
			case err := <-resultChan:
				return err
			case <-ctx.Done():
				return &TimeoutError{Duration: duration, Listener: ev.Name()}
			}
		}
	}
}

// TimeoutWithDefault creates a timeout middleware with the default timeout from config
func TimeoutWithDefault(options ...MiddlewareOption) Middleware {
	return Timeout(newConfig(options).Timeout)
}

// TimeoutPerOption uses the timeout registered for the event's option key,
// falling back to defaultTimeout.
func TimeoutPerOption(timeouts map[string]time.Duration, defaultTimeout time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(ev Event) error {
			d, ok := timeouts[ev.Key]
			if !ok {
				d = defaultTimeout
			}
			return Timeout(d)(next)(ev)
		}
	}
}

// TimeoutStats tracks timeout statistics. It is safe for concurrent use.
type TimeoutStats struct {
	mu            sync.Mutex
	TotalTimeouts int
	LastTimeout   *TimeoutError
}

// NewTimeoutStats creates a new timeout statistics tracker
func NewTimeoutStats() *TimeoutStats {
	return &TimeoutStats{}
}

// Snapshot returns the timeout total and the most recent timeout.
func (s *TimeoutStats) Snapshot() (int, *TimeoutError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TotalTimeouts, s.LastTimeout
}

// TimeoutWithStats creates a timeout middleware that tracks statistics
func TimeoutWithStats(duration time.Duration, stats *TimeoutStats) Middleware {
	return func(next Handler) Handler {
		h := Timeout(duration)(next)
		return func(ev Event) error {
			err := h(ev)
			if te, ok := err.(*TimeoutError); ok {
				stats.mu.Lock()
				stats.TotalTimeouts++
				stats.LastTimeout = te
				stats.mu.Unlock()
			}
			return err
		}
	}
}
