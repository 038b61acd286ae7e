package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// New returns an error with the given message and a stack trace.
func New(msg string) error {
	return crdb.New(msg)
}

// Newf returns a formatted error with a stack trace.
func Newf(format string, args ...any) error {
	return crdb.Newf(format, args...)
}

// Wrap annotates err with msg. It returns nil if err is nil.
func Wrap(err error, msg string) error {
	return crdb.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message. It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdb.Wrapf(err, format, args...)
}

// WithDetail attaches a user-facing detail to err.
func WithDetail(err error, detail string) error {
	return crdb.WithDetail(err, detail)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return crdb.As(err, target)
}

// FlattenHints returns the hints attached anywhere in err's chain, one per
// line.
func FlattenHints(err error) string {
	return crdb.FlattenHints(err)
}

// WithHint attaches a remediation hint that Suggestion and FlattenHints
// surface to the user.
func WithHint(err error, hint string) error {
	return crdb.WithHint(err, hint)
}
