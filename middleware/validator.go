package middleware

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

// ValidatorFunc checks an event before its listener runs. Use it for checks
// the option model cannot express, such as file existence. Structural rules
// (required options, exclusive groups) belong in the Registry.
type ValidatorFunc func(ev Event) error

// NamedValidator associates a name used in error reports with a ValidatorFunc.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name for reporting.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// File checks that every value of the named options is an existing file.
func File(keys ...string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: valuesOf(keys, validateFileExists)}
}

// Dir checks that every value of the named options is an existing directory.
func Dir(keys ...string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: valuesOf(keys, validateDirectoryExists)}
}

// Validate runs validators in order before the listener. The first failure
// aborts the event with a *ValidationError.
//
//	d.Use(middleware.Validate(
//	    middleware.Custom("port_range", checkPort),
//	    middleware.File("config"),
//	))
func Validate(validators ...NamedValidator) Middleware {
	return func(next Handler) Handler {
		return func(ev Event) error {
			for _, v := range validators {
				if v.Fn == nil {
					continue
				}
				if err := v.Fn(ev); err != nil {
					var validationErr *ValidationError
					if errors.As(err, &validationErr) {
						return validationErr
					}
					return &ValidationError{
						Option:  ev.Name(),
						Message: v.Name + " failed for " + ev.Name(),
						Cause:   err,
					}
				}
			}
			return next(ev)
		}
	}
}

// NoopValidator creates a validator that doesn't perform any validation.
func NoopValidator() Middleware {
	return func(next Handler) Handler {
		return next
	}
}

// valuesOf applies check to each value of events for the given option keys.
func valuesOf(keys []string, check func(string) error) ValidatorFunc {
	return func(ev Event) error {
		if ev.Option == nil || !slices.Contains(keys, ev.Key) {
			return nil
		}
		for _, v := range ev.Values {
			if err := check(v); err != nil {
				return &ValidationError{
					Option:  ev.Name(),
					Value:   v,
					Message: "invalid path for " + ev.Name(),
					Cause:   err,
				}
			}
		}
		return nil
	}
}

// validateFileExists checks if a file exists
func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// validateDirectoryExists checks if a directory exists
func validateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
