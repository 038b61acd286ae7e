package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExitError
		wantMsg  string
		wantCode int
		is       error
	}{
		{"sentinel", NewExitError(ErrNotFound, ExitUser), "resource not found", ExitUser, ErrNotFound},
		{
			"wrapped with fmt",
			NewSystemError(fmt.Errorf("reading libraryfolders.vdf: %w", ErrNotFound), ""),
			"reading libraryfolders.vdf: resource not found", ExitSystem, ErrNotFound,
		},
		{
			"wrapped with Wrap",
			NewUserError(Wrap(ErrInvalidAppID, "parsing \"abc\""), "AppIDs are numbers"),
			"parsing \"abc\": invalid app ID", ExitUser, ErrInvalidAppID,
		},
		{"no cause", NewExitError(nil, ExitSystem), "exit code 2", ExitSystem, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantCode, ExitCode(tt.err))
			if tt.is != nil {
				assert.ErrorIs(t, tt.err, tt.is)
				assert.NotErrorIs(t, tt.err, ErrMissingCredentials)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitSystem, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUser, ExitCode(Wrap(NewConfigError(ErrInvalidConfig), "outer")))
}

func TestNewConfigError(t *testing.T) {
	e := NewConfigError(ErrInvalidConfig)
	assert.Equal(t, ExitUser, e.Code)
	assert.Equal(t, "Run: slsah doctor", e.Suggestion)
}

func TestFlattenHints(t *testing.T) {
	assert.Empty(t, FlattenHints(New("plain")))
	assert.Equal(t, "create it first", FlattenHints(Wrap(WithHint(ErrNotFound, "create it first"), "loading")))
}

func TestSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", New("boom"), ""},
		{"exit error only", NewConfigError(ErrInvalidConfig), "Run: slsah doctor"},
		{"hint only", Wrap(WithHint(ErrNotFound, "create it first"), "loading"), "create it first"},
		{
			"both",
			NewUserError(WithHint(ErrNotFound, "create it first"), "Run: slsah backup create"),
			"Run: slsah backup create\ncreate it first",
		},
		{"duplicate collapsed", NewUserError(WithHint(ErrNotFound, "same"), "same"), "same"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggestion(tt.err))
		})
	}
}
