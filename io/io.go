// Package optio owns terminal output for getopt tools: where help and log
// lines go, how wide the terminal is, and whether to color them.
package optio

import (
	stdio "io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// isTerminalFn is swapped in tests.
var isTerminalFn = term.IsTerminal

// getSizeFn is swapped in tests.
var getSizeFn = term.GetSize

// IOManager centralizes IO and terminal capabilities
type IOManager struct {
	in  stdio.Reader
	out stdio.Writer
	err stdio.Writer

	forceColor bool
	noColor    bool
	width      int // fixed width, 0 for detection
}

// New returns a manager bound to process stdio
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// WithIn sets the input reader used by the manager and returns the manager for chaining.
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut sets the standard output writer and returns the manager for chaining.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr sets the standard error writer and returns the manager for chaining.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// WithWidth fixes the terminal width instead of querying the terminal.
func (m *IOManager) WithWidth(w int) *IOManager { m.width = w; return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto uses environment heuristics to determine color support.
func (m *IOManager) ColorAuto() *IOManager { m.noColor = false; m.forceColor = false; return m }

// In returns the configured input reader.
func (m *IOManager) In() stdio.Reader { return m.in }

// Out returns the configured standard output writer.
func (m *IOManager) Out() stdio.Writer { return m.out }

// Err returns the configured standard error writer.
func (m *IOManager) Err() stdio.Writer { return m.err }

// IsTTY reports whether the output writer is a terminal.
func (m *IOManager) IsTTY() bool { return isTerm(m.out) }

// IsInteractive reports whether input comes from a terminal outside CI.
func (m *IOManager) IsInteractive() bool { return isTerm(m.in) && os.Getenv("CI") == "" }

// IsPiped reports whether input is not a terminal.
func (m *IOManager) IsPiped() bool { return !isTerm(m.in) }

// Width returns the terminal width, falling back to $COLUMNS and then 80.
func (m *IOManager) Width() int {
	if m.width > 0 {
		return m.width
	}
	if f, ok := m.out.(*os.File); ok {
		if w, _, err := getSizeFn(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return 80
}

// SupportsColor reports whether output should carry ANSI colors.
// NO_COLOR and FORCE_COLOR are honored unless set explicitly on the manager.
func (m *IOManager) SupportsColor() bool {
	if m.noColor {
		return false
	}
	if m.forceColor {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if !m.IsTTY() {
		return false
	}
	t := os.Getenv("TERM")
	return t != "" && t != "dumb"
}

func isTerm(v any) bool {
	f, ok := v.(*os.File)
	return ok && f != nil && isTerminalFn(int(f.Fd()))
}
