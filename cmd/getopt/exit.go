package main

import (
	"errors"
	"reflect"

	"github.com/alecthomas/kong"

	"github.com/dzonerzy/go-getopt/getopt"
	"github.com/dzonerzy/go-getopt/middleware"
)

// ExitError requests a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds the codes used when no mapping matches.
type ExitCodeDefaults struct {
	Success       int // default: 0
	GeneralError  int // default: 1
	MisusageError int // default: 2
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2}
}

// ExitCodeManager maps errors to process exit codes.
type ExitCodeManager struct {
	codesByType  map[reflect.Type]int
	codesByParse map[getopt.ErrorType]int
	defaults     ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByType:  make(map[reflect.Type]int),
		codesByParse: make(map[getopt.ErrorType]int),
		defaults:     defaultExitDefaults(),
	}
	for _, typ := range []getopt.ErrorType{
		getopt.ErrorTypeUnrecognizedOption,
		getopt.ErrorTypeAmbiguousOption,
		getopt.ErrorTypeMissingArgument,
		getopt.ErrorTypeMissingOption,
		getopt.ErrorTypeAlreadySelected,
		getopt.ErrorTypeSwitchAlreadySet,
		getopt.ErrorTypeInvalidValue,
		getopt.ErrorTypeTooManyOptions,
	} {
		m.codesByParse[typ] = m.defaults.MisusageError
	}
	// a broken option file is not the caller's misuse
	m.codesByParse[getopt.ErrorTypeInvalidOption] = m.defaults.GeneralError

	m.codesByType[reflect.TypeOf(&kong.ParseError{})] = m.defaults.MisusageError
	m.codesByType[reflect.TypeOf(&middleware.ValidationError{})] = m.defaults.MisusageError
	m.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = m.defaults.GeneralError
	m.codesByType[reflect.TypeOf(&middleware.TimeoutError{})] = m.defaults.GeneralError
	return m
}

// DefineError maps errors of the dynamic type of err to code.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = code
	return e
}

// DefineParse overrides the code for one parse error category.
func (e *ExitCodeManager) DefineParse(typ getopt.ErrorType, code int) *ExitCodeManager {
	e.codesByParse[typ] = code
	return e
}

// resolve converts an error to an exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. ParseError category mapping (DefineParse)
//  3. Concrete error type mapping (DefineError)
//  4. Default codes
func (e *ExitCodeManager) resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var perr *getopt.ParseError
	if errors.As(err, &perr) {
		if code, ok := e.codesByParse[perr.Type]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}
	return e.defaults.GeneralError
}
