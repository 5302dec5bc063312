package middleware

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dzonerzy/go-getopt/getopt"
	optio "github.com/dzonerzy/go-getopt/io"
)

var fileOpt = getopt.NewOption("f", "file").Arg("path").MustBuild()

func fileEvent(values ...string) Event {
	return Event{Option: fileOpt, Key: "f", Values: values}
}

func successHandler(Event) error { return nil }
func errorHandler(Event) error   { return errors.New("test error") }
func panicHandler(Event) error   { panic("test panic") }
func slowHandler(Event) error {
	time.Sleep(100 * time.Millisecond)
	return nil
}

func TestMiddlewareChain(t *testing.T) {
	var order []string

	middleware1 := func(next Handler) Handler {
		return func(ev Event) error {
			order = append(order, "before1")
			err := next(ev)
			order = append(order, "after1")
			return err
		}
	}

	middleware2 := func(next Handler) Handler {
		return func(ev Event) error {
			order = append(order, "before2")
			err := next(ev)
			order = append(order, "after2")
			return err
		}
	}

	handler := func(Event) error {
		order = append(order, "handler")
		return nil
	}

	final := Chain(middleware1).Use(middleware2).Apply(handler)
	if err := final(fileEvent("x")); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	expected := []string{"before1", "before2", "handler", "after2", "after1"}
	if strings.Join(order, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected order %v, got %v", expected, order)
	}
}

func TestEventName(t *testing.T) {
	if got := fileEvent().Name(); got != "-f" {
		t.Errorf("Expected -f, got %q", got)
	}
	if got := (Event{Values: []string{"a"}}).Name(); got != "args" {
		t.Errorf("Expected args, got %q", got)
	}
}

// Test Logger Middleware

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggerWithWriter(&buf)

	if err := logger(successHandler)(fileEvent("a.txt", "b.txt")); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "[SUCCESS] SUCCESS listener=-f") {
		t.Errorf("Expected SUCCESS line in log output, got: %s", output)
	}
	if !strings.Contains(output, "values=a.txt b.txt") {
		t.Errorf("Expected values in log output, got: %s", output)
	}
	if !strings.Contains(output, "[DEBUG] START listener=-f") {
		t.Errorf("Expected START line in log output, got: %s", output)
	}
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	l := optio.NewLogger(optio.New().WithOut(&buf).WithErr(&buf).NoColor()).
		WithFormat(optio.LogFormatTagged).
		WithLevel(optio.LevelError)

	err := Logger(WithLogger(l), WithValues(false))(errorHandler)(fileEvent("secret"))
	if err == nil {
		t.Error("Expected error to be propagated")
	}

	output := buf.String()
	if !strings.Contains(output, `[ERROR] ERROR listener=-f`) || !strings.Contains(output, `error="test error"`) {
		t.Errorf("Expected ERROR in log output, got: %s", output)
	}
	if strings.Contains(output, "START") || strings.Contains(output, "secret") {
		t.Errorf("Expected only the error line without values, got: %s", output)
	}
}

func TestSilentLogger(t *testing.T) {
	called := false
	h := Logger()(func(Event) error { called = true; return nil })
	if err := h(fileEvent()); err != nil || !called {
		t.Errorf("Expected handler to run without a logger, err=%v called=%v", err, called)
	}
}

// Test Recovery Middleware

func TestRecovery(t *testing.T) {
	recovery := Recovery(WithStackTrace(false))

	err := recovery(panicHandler)(fileEvent())
	if err == nil {
		t.Fatal("Expected recovery error")
	}

	var recoveryErr *RecoveryError
	if !errors.As(err, &recoveryErr) {
		t.Fatalf("Expected RecoveryError, got %T", err)
	}
	if recoveryErr.Panic != "test panic" {
		t.Errorf("Expected panic value 'test panic', got %v", recoveryErr.Panic)
	}
	if recoveryErr.Listener != "-f" {
		t.Errorf("Expected listener '-f', got %s", recoveryErr.Listener)
	}
	if len(recoveryErr.Stack) != 0 {
		t.Errorf("Expected no stack, got %d bytes", len(recoveryErr.Stack))
	}
}

func TestRecoveryWithStack(t *testing.T) {
	var buf bytes.Buffer
	l := optio.NewLogger(optio.New().WithOut(&buf).WithErr(&buf).NoColor())

	err := Recovery(WithLogger(l))(panicHandler)(fileEvent())

	var recoveryErr *RecoveryError
	if !errors.As(err, &recoveryErr) {
		t.Fatalf("Expected RecoveryError, got %T", err)
	}
	if !strings.Contains(string(recoveryErr.Stack), "panicHandler") {
		t.Errorf("Expected stack trace to contain function name, got: %s", recoveryErr.Stack)
	}
	if !strings.Contains(buf.String(), "PANIC in listener for -f: test panic") {
		t.Errorf("Expected panic to be logged, got: %s", buf.String())
	}
}

func TestRecoveryWithStats(t *testing.T) {
	stats := NewRecoveryStats()
	h := RecoveryWithStats(stats, WithStackTrace(false))(panicHandler)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h(fileEvent())
		}()
	}
	wg.Wait()

	total, last := stats.Snapshot()
	if total != 8 || last == nil || stats.ListenerPanics["-f"] != 8 {
		t.Errorf("Expected 8 recorded panics, got total=%d last=%v", total, last)
	}
}

func TestRecoveryToError(t *testing.T) {
	err := RecoveryToError()(panicHandler)(fileEvent())
	var recoveryErr *RecoveryError
	if !errors.As(err, &recoveryErr) || recoveryErr.Stack != nil {
		t.Errorf("Expected stackless RecoveryError, got %#v", err)
	}
}

func TestNoopRecovery(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic to bubble up")
		}
	}()

	_ = NoopRecovery()(panicHandler)(fileEvent())
}

// Test Timeout Middleware

func TestTimeout(t *testing.T) {
	err := Timeout(20 * time.Millisecond)(slowHandler)(fileEvent())

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Expected TimeoutError, got %T", err)
	}
	if timeoutErr.Duration != 20*time.Millisecond || timeoutErr.Listener != "-f" {
		t.Errorf("Unexpected timeout error: %+v", timeoutErr)
	}
}

func TestTimeoutSuccessAndPanic(t *testing.T) {
	if err := Timeout(time.Second)(successHandler)(fileEvent()); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := Timeout(0)(successHandler)(fileEvent()); err != nil {
		t.Errorf("Expected no error without a deadline, got %v", err)
	}
	var recoveryErr *RecoveryError
	if err := Timeout(time.Second)(panicHandler)(fileEvent()); !errors.As(err, &recoveryErr) {
		t.Errorf("Expected RecoveryError from panicking listener, got %v", err)
	}
}

func TestTimeoutVariants(t *testing.T) {
	if err := TimeoutWithDefault(WithTimeout(time.Millisecond))(slowHandler)(fileEvent()); err == nil {
		t.Error("Expected configured default timeout to fire")
	}

	per := TimeoutPerOption(map[string]time.Duration{"f": time.Millisecond}, time.Second)
	if err := per(slowHandler)(fileEvent()); err == nil {
		t.Error("Expected per-option timeout for f")
	}
	if err := per(slowHandler)(Event{Key: "other"}); err != nil {
		t.Errorf("Expected default timeout to allow slow handler, got %v", err)
	}

	stats := NewTimeoutStats()
	_ = TimeoutWithStats(time.Millisecond, stats)(slowHandler)(fileEvent())
	if total, last := stats.Snapshot(); total != 1 || last == nil {
		t.Errorf("Expected stats updated, got total=%d last=%v", total, last)
	}
}

// Test Validator Middleware

func TestValidateFilesAndDirs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	v := Validate(File("f"))(successHandler)
	if err := v(fileEvent(file)); err != nil {
		t.Errorf("Expected existing file to pass, got %v", err)
	}

	err := v(fileEvent(filepath.Join(dir, "missing")))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if validationErr.Option != "-f" || !strings.HasSuffix(validationErr.Value, "missing") {
		t.Errorf("Unexpected validation error: %+v", validationErr)
	}

	if err := v(fileEvent(dir)); err == nil {
		t.Error("Expected directory to fail file check")
	}
	if err := Validate(Dir("f"))(successHandler)(fileEvent(dir)); err != nil {
		t.Errorf("Expected directory to pass, got %v", err)
	}
	if err := Validate(Dir("x"))(successHandler)(fileEvent(file)); err != nil {
		t.Errorf("Expected other options to be skipped, got %v", err)
	}
}

func TestValidateCustom(t *testing.T) {
	ran := false
	v := Validate(
		Custom("noop", nil),
		Custom("no_empty", func(ev Event) error {
			if len(ev.Values) == 0 {
				return errors.New("no values")
			}
			return nil
		}),
	)(func(Event) error { ran = true; return nil })

	err := v(fileEvent())
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || !strings.Contains(err.Error(), "no_empty failed for -f: no values") {
		t.Errorf("Expected wrapped validation error, got %v", err)
	}
	if ran {
		t.Error("Handler must not run after a failed validation")
	}

	if err := NoopValidator()(successHandler)(fileEvent()); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestMiddlewareIntegration(t *testing.T) {
	var buf bytes.Buffer
	h := Chain(
		LoggerWithWriter(&buf),
		Recovery(WithStackTrace(false)),
		Timeout(time.Second),
	).Apply(panicHandler)

	err := h(fileEvent())
	var recoveryErr *RecoveryError
	if !errors.As(err, &recoveryErr) {
		t.Fatalf("Expected RecoveryError, got %v", err)
	}
	if !strings.Contains(buf.String(), "[ERROR] ERROR listener=-f") {
		t.Errorf("Expected logger to see the recovered error, got: %s", buf.String())
	}
}
