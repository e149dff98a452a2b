// Package czerrors implements the "fatal input" error kind of
// spec.md §7: unreadable source, out-of-memory, and other conditions that
// abort the process before a single pass has a chance to run. Validation
// and internal-invariant failures travel as diag.Diagnostic values
// instead; this package only covers the kind diag cannot represent,
// because it happens before a translation unit exists to attach
// diagnostics to.
package czerrors

import "fmt"

// fatalError is a fatal-input error carrying both a short operator-facing
// message and the path that caused it.
type fatalError struct {
	path string
	msg  string
	wrap error
}

func (e *fatalError) Error() string {
	return e.msg
}

// Path returns the source file path the error concerns.
func (e *fatalError) Path() string {
	return e.path
}

func (e *fatalError) Unwrap() error {
	return e.wrap
}

// Fatal returns a new fatal-input error for path, with a generated
// Error() description.
func Fatal(path, msg string) error {
	return &fatalError{path: path, msg: msg}
}

// Fatalf is Fatal with a formatted message.
func Fatalf(path, format string, a ...interface{}) error {
	return Fatal(path, fmt.Sprintf(format, a...))
}

// WrapFatal returns a new fatal-input error for path that wraps err.
func WrapFatal(err error, path, msg string) error {
	return &fatalError{path: path, msg: msg, wrap: err}
}

// WrapFatalf is WrapFatal with a formatted message.
func WrapFatalf(err error, path, format string, a ...interface{}) error {
	return WrapFatal(err, path, fmt.Sprintf(format, a...))
}

// IsFatal reports whether err is a fatal-input error from this package.
func IsFatal(err error) bool {
	_, ok := err.(*fatalError)
	return ok
}
