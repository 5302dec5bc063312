package getopt

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseError_Is(t *testing.T) {
	tests := []struct {
		err      *ParseError
		sentinel error
		typ      ErrorType
	}{
		{UnrecognizedOptionError("-x", ""), ErrUnrecognizedOption, ErrorTypeUnrecognizedOption},
		{AmbiguousOptionError("--ver", []string{"verbose", "version"}), ErrAmbiguousOption, ErrorTypeAmbiguousOption},
		{MissingArgumentError("-k"), ErrMissingArgument, ErrorTypeMissingArgument},
		{MissingOptionError([]string{"t"}), ErrMissingOption, ErrorTypeMissingOption},
		{AlreadySelectedError("g", "a", "b"), ErrAlreadySelected, ErrorTypeAlreadySelected},
		{SwitchAlreadySetError("debug"), ErrSwitchAlreadySet, ErrorTypeSwitchAlreadySet},
		{InvalidValueError("-n", "x", nil), ErrInvalidValue, ErrorTypeInvalidValue},
		{TooManyOptionsError("g", "a", "c"), ErrTooManyOptions, ErrorTypeTooManyOptions},
		{InvalidOptionError("bad"), ErrInvalidOption, ErrorTypeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			wrapped := fmt.Errorf("parsing: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v) failed", tt.err)
			}
			if errors.Is(wrapped, ErrTooManyOptions) && tt.typ != ErrorTypeTooManyOptions {
				t.Error("matched a foreign sentinel")
			}
			if got := TypeOf(wrapped); got != tt.typ {
				t.Errorf("TypeOf = %q, want %q", got, tt.typ)
			}
		})
	}
}

func TestParseError_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{AmbiguousOptionError("--ver", []string{"verbose", "version"}), "ambiguous option: --ver (could be: verbose, version)"},
		{MissingOptionError([]string{"t"}), "missing required option: t"},
		{MissingOptionError([]string{"t", "w"}), "missing required options: t, w"},
		{MissingArgumentError("-k"), "missing argument for option: -k"},
		{InvalidValueError("-n", "x", errors.New("not a number")), `invalid value "x" for option -n: not a number`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseError_UnwrapCause(t *testing.T) {
	cause := errors.New("out of range")
	err := InvalidValueError("-p", "70000", cause)
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
	if TypeOf(cause) != "" {
		t.Error("plain errors have no type")
	}
}
