package middleware

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/dzonerzy/go-getopt/internal/pool"
	optio "github.com/dzonerzy/go-getopt/io"
)

// recordPool reuses log records across listener invocations.
var recordPool = pool.NewWithReset(
	func() *record {
		return &record{Values: make([]string, 0, 4)}
	},
	func(r *record) {
		r.Listener = ""
		r.Key = ""
		r.Values = r.Values[:0]
		r.Start = time.Time{}
		r.Duration = 0
		r.Err = nil
	},
)

type record struct {
	Listener string
	Key      string
	Values   []string
	Start    time.Time
	Duration time.Duration
	Err      error
}

// Logger creates a middleware that logs every listener invocation through
// the configured optio.Logger: a debug line before the call, then a success
// or error line with the duration. Without a logger it is a no-op.
func Logger(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next Handler) Handler {
		if config.Logger == nil {
			return next
		}
		return func(ev Event) error {
			rec := recordPool.Get()
			defer recordPool.Put(rec)

			rec.Listener = ev.Name()
			rec.Key = ev.Key
			rec.Values = append(rec.Values, ev.Values...)
			rec.Start = time.Now()
			logRecord(config, rec, optio.LevelDebug, "START")

			err := next(ev)

			rec.Duration = time.Since(rec.Start)
			rec.Err = err
			if err != nil {
				logRecord(config, rec, optio.LevelError, "ERROR")
			} else {
				logRecord(config, rec, optio.LevelSuccess, "SUCCESS")
			}
			return err
		}
	}
}

// LoggerWithWriter logs to w with tagged, uncolored lines.
func LoggerWithWriter(w io.Writer, options ...MiddlewareOption) Middleware {
	m := optio.New().WithOut(w).WithErr(w).NoColor()
	l := optio.NewLogger(m).WithFormat(optio.LogFormatTagged)
	return Logger(append([]MiddlewareOption{WithLogger(l)}, options...)...)
}

func logRecord(config *MiddlewareConfig, rec *record, level optio.LogLevel, event string) {
	if config.LogFormat == LogFormatJSON {
		config.Logger.Raw(level, jsonLine(config, rec, event))
		return
	}
	config.Logger.Log(level, "%s", textLine(config, rec, event))
}

func textLine(config *MiddlewareConfig, rec *record, event string) string {
	buf := pool.GetBuffer(256)
	defer pool.PutBuffer(buf)

	*buf = append(*buf, event...)
	*buf = append(*buf, " listener="...)
	*buf = append(*buf, rec.Listener...)
	if rec.Duration > 0 {
		*buf = append(*buf, " duration="...)
		*buf = append(*buf, rec.Duration.String()...)
	}
	if config.IncludeValues && len(rec.Values) > 0 {
		*buf = append(*buf, " values="...)
		*buf = append(*buf, strings.Join(rec.Values, " ")...)
	}
	if rec.Err != nil {
		*buf = append(*buf, " error=\""...)
		*buf = append(*buf, rec.Err.Error()...)
		*buf = append(*buf, '"')
	}
	return string(*buf)
}

type jsonRecord struct {
	Timestamp  string   `json:"timestamp"`
	Level      string   `json:"level"`
	Listener   string   `json:"listener"`
	Key        string   `json:"key,omitempty"`
	DurationMS *int64   `json:"duration_ms,omitempty"`
	Values     []string `json:"values,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func jsonLine(config *MiddlewareConfig, rec *record, event string) string {
	out := jsonRecord{
		Timestamp: rec.Start.Format(time.RFC3339),
		Level:     event,
		Listener:  rec.Listener,
		Key:       rec.Key,
	}
	if rec.Duration > 0 {
		ms := rec.Duration.Milliseconds()
		out.DurationMS = &ms
	}
	if config.IncludeValues {
		out.Values = rec.Values
	}
	if rec.Err != nil {
		out.Error = rec.Err.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return `{"level":"ERROR","error":"log record not encodable"}`
	}
	return string(data)
}
