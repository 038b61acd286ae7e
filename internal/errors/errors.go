package errors

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Process exit statuses. A command that fails because of something the user
// can fix (arguments, config, missing files) exits with ExitUser; anything
// else (I/O, network, a bug) exits with ExitSystem.
const (
	ExitSuccess = 0
	ExitUser    = 1
	ExitSystem  = 2
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrInvalidAppID       = errors.New("invalid app ID")
	ErrMissingCredentials = errors.New("steam credentials not configured")
)

// doctorHint is attached to configuration failures.
const doctorHint = "Run: slsah doctor"

// ExitError is what a command returns when it wants to control the exit
// status. Suggestion, when set, is printed on its own line after the error.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

func exitWith(code int, err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: code, Suggestion: suggestion}
}

// NewExitError attaches code to err. err may be nil.
func NewExitError(err error, code int) *ExitError { return exitWith(code, err, "") }

// NewUserError marks err as the user's to fix.
func NewUserError(err error, suggestion string) *ExitError {
	return exitWith(ExitUser, err, suggestion)
}

// NewSystemError marks err as an environment or I/O failure.
func NewSystemError(err error, suggestion string) *ExitError {
	return exitWith(ExitSystem, err, suggestion)
}

// NewConfigError is a user error pointing at slsah doctor.
func NewConfigError(err error) *ExitError { return exitWith(ExitUser, err, doctorHint) }

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps err to a process exit status. nil is ExitSuccess and an
// error carrying no ExitError is ExitSystem.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := exitErrorOf(err); ok {
		return e.Code
	}
	return ExitSystem
}

// Suggestion returns the text to show the user under err: the outermost
// ExitError suggestion followed by any hints attached with WithHint further
// down the chain, one per line.
func Suggestion(err error) string {
	var lines []string
	if e, ok := exitErrorOf(err); ok && e.Suggestion != "" {
		lines = append(lines, e.Suggestion)
	}
	if h := FlattenHints(err); h != "" {
		for _, l := range strings.Split(h, "\n") {
			if l != "" && !slices.Contains(lines, l) {
				lines = append(lines, l)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func exitErrorOf(err error) (*ExitError, bool) {
	var e *ExitError
	ok := errors.As(err, &e)
	return e, ok
}
