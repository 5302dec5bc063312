package getopt

import (
	"errors"
	"strconv"
	"strings"
)

// ErrorType represents parse error categories.
// Callers map categories to exit codes and help output.
type ErrorType string

const (
	ErrorTypeUnrecognizedOption ErrorType = "unrecognized_option"
	ErrorTypeAmbiguousOption    ErrorType = "ambiguous_option"
	ErrorTypeMissingArgument    ErrorType = "missing_argument"
	ErrorTypeMissingOption      ErrorType = "missing_option"
	ErrorTypeAlreadySelected    ErrorType = "already_selected"
	ErrorTypeSwitchAlreadySet   ErrorType = "switch_already_set"
	ErrorTypeInvalidValue       ErrorType = "invalid_value"
	ErrorTypeTooManyOptions     ErrorType = "too_many_options"
	ErrorTypeInvalidOption      ErrorType = "invalid_option"
)

// Sentinel errors matched by errors.Is against any *ParseError of the same type.
var (
	ErrUnrecognizedOption = errors.New("unrecognized option")
	ErrAmbiguousOption    = errors.New("ambiguous option")
	ErrMissingArgument    = errors.New("missing argument")
	ErrMissingOption      = errors.New("missing required option")
	ErrAlreadySelected    = errors.New("option group already selected")
	ErrSwitchAlreadySet   = errors.New("switch already set")
	ErrInvalidValue       = errors.New("invalid value")
	ErrTooManyOptions     = errors.New("too many options")
	ErrInvalidOption      = errors.New("invalid option definition")
)

var sentinels = map[ErrorType]error{
	ErrorTypeUnrecognizedOption: ErrUnrecognizedOption,
	ErrorTypeAmbiguousOption:    ErrAmbiguousOption,
	ErrorTypeMissingArgument:    ErrMissingArgument,
	ErrorTypeMissingOption:      ErrMissingOption,
	ErrorTypeAlreadySelected:    ErrAlreadySelected,
	ErrorTypeSwitchAlreadySet:   ErrSwitchAlreadySet,
	ErrorTypeInvalidValue:       ErrInvalidValue,
	ErrorTypeTooManyOptions:     ErrTooManyOptions,
	ErrorTypeInvalidOption:      ErrInvalidOption,
}

// ParseError describes why a token stream or an option definition was rejected.
// Only the fields relevant to Type are set.
type ParseError struct {
	Type    ErrorType
	Message string

	Token      string   // offending token (unrecognized, ambiguous)
	Option     string   // option display name (missing argument, switch, invalid value)
	Candidates []string // ambiguous prefix matches, registry order
	Missing    []string // unmet required options then groups
	Group      string   // group name (already selected, too many)
	First      string   // member selected first
	Second     string   // conflicting member
	Suggestion string   // closest known option for unrecognized tokens
	Cause      error    // validator failure for invalid values
}

func (e *ParseError) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel for e.Type.
func (e *ParseError) Is(target error) bool {
	return sentinels[e.Type] == target
}

// Unwrap returns the validator error behind an invalid value, if any.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TypeOf returns the ErrorType of err, or "" when err is not a *ParseError.
func TypeOf(err error) ErrorType {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ""
}

// UnrecognizedOptionError reports a token that names no known option.
func UnrecognizedOptionError(token, suggestion string) *ParseError {
	return &ParseError{
		Type:       ErrorTypeUnrecognizedOption,
		Message:    "unrecognized option: " + token,
		Token:      token,
		Suggestion: suggestion,
	}
}

// AmbiguousOptionError reports a long prefix shared by several options.
func AmbiguousOptionError(token string, candidates []string) *ParseError {
	return &ParseError{
		Type:       ErrorTypeAmbiguousOption,
		Message:    "ambiguous option: " + token + " (could be: " + strings.Join(candidates, ", ") + ")",
		Token:      token,
		Candidates: candidates,
	}
}

// MissingArgumentError reports an option that requires a value but got none.
func MissingArgumentError(option string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeMissingArgument,
		Message: "missing argument for option: " + option,
		Option:  option,
	}
}

// MissingOptionError reports every unmet requirement in one error.
func MissingOptionError(missing []string) *ParseError {
	label := "missing required option: "
	if len(missing) > 1 {
		label = "missing required options: "
	}
	return &ParseError{
		Type:    ErrorTypeMissingOption,
		Message: label + strings.Join(missing, ", "),
		Missing: missing,
	}
}

// AlreadySelectedError reports a second member chosen from an exclusive group.
func AlreadySelectedError(group, first, second string) *ParseError {
	return &ParseError{
		Type: ErrorTypeAlreadySelected,
		Message: "option " + second + " cannot be used with " + first +
			": both belong to group " + group,
		Group:  group,
		First:  first,
		Second: second,
	}
}

// SwitchAlreadySetError reports a switch given twice in one parse.
func SwitchAlreadySetError(option string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeSwitchAlreadySet,
		Message: "switch already set: " + option,
		Option:  option,
	}
}

// InvalidValueError reports a value rejected by a validator.
func InvalidValueError(option, value string, cause error) *ParseError {
	msg := "invalid value " + strconv.Quote(value) + " for option " + option
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &ParseError{
		Type:    ErrorTypeInvalidValue,
		Message: msg,
		Option:  option,
		Token:   value,
		Cause:   cause,
	}
}

// TooManyOptionsError reports a group whose maximum was exceeded.
func TooManyOptionsError(group, first, second string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeTooManyOptions,
		Message: "too many options from group " + group + ": unexpected " + second,
		Group:   group,
		First:   first,
		Second:  second,
	}
}

// InvalidOptionError reports a malformed option or group definition.
func InvalidOptionError(msg string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeInvalidOption,
		Message: "invalid option definition: " + msg,
	}
}
