package derrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingArgumentError(t *testing.T) {
	err := NewMissingArgumentError("body", "")

	assert.Equal(t, "MISSING_ARGUMENT", err.Code())
	assert.Equal(t, "body", err.Parameter)
	assert.Equal(t, DefaultMissingMessage, err.Error())
	assert.Nil(t, errors.Unwrap(err))

	assert.Equal(t, "Needs a parent", NewMissingArgumentError("moon", "Needs a parent").Message())
}

func TestParseError(t *testing.T) {
	cause := fmt.Errorf("strconv failure")
	err := NewParseError("abc", "Expected a number, got 'abc'", cause)

	assert.Equal(t, "PARSE_ERROR", err.Code())
	assert.Equal(t, "abc", err.Input)
	assert.Empty(t, err.Parameter)
	assert.Contains(t, err.Error(), "Expected a number")
	assert.Equal(t, cause, errors.Unwrap(err))

	named := err.WithParameter("temp")
	assert.Equal(t, "temp", named.Parameter)
	assert.Empty(t, err.Parameter, "original must not be mutated")
}

func TestUnusedArgumentError(t *testing.T) {
	err := NewUnusedArgumentError([]string{"extra", "-x"})

	assert.Equal(t, "UNUSED_ARGUMENT", err.Code())
	assert.Equal(t, []string{"extra", "-x"}, err.Unconsumed)
	assert.Equal(t, "Unused arguments: extra, -x", err.Error())
}

func TestInvalidUsageError(t *testing.T) {
	cause := NewMissingArgumentError("body", "")
	err := NewInvalidUsageError("Please choose a sub-command.", []string{"body"}, true, cause)

	assert.Equal(t, "INVALID_USAGE", err.Code())
	assert.True(t, err.FullHelp)
	assert.Equal(t, "body", err.CommandPath())
	assert.Equal(t, "Please choose a sub-command.", err.Error(), "cause is not appended to usage messages")

	var missing *MissingArgumentError
	assert.True(t, errors.As(err, &missing))
}

func TestInvocationError(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewInvocationError([]string{"body", "info"}, "Failed to execute command", cause)

	assert.Equal(t, "INVOCATION_ERROR", err.Code())
	assert.False(t, err.Interrupted)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, cause, errors.Unwrap(err))

	interrupted := NewInterruptedError(nil, cause)
	assert.True(t, interrupted.Interrupted)
	assert.Contains(t, interrupted.Error(), "interrupted")
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("executor.workers", "must be positive", nil)

	assert.Equal(t, "CONFIG_ERROR", err.Code())
	assert.Equal(t, "executor.workers", err.Field)
	assert.Equal(t, "must be positive", err.Error())
}

func TestCommandError(t *testing.T) {
	err := Errorf("No celestial body by the name of '%s' is known!", "vulcan")

	assert.Equal(t, "COMMAND_ERROR", err.Code())
	assert.Equal(t, "No celestial body by the name of 'vulcan' is known!", err.Error())
	assert.Equal(t, err.Error(), err.Message())
}

func TestAliasStackOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"usage", NewInvalidUsageError("x", []string{"a", "b"}, false, nil), []string{"a", "b"}},
		{"auth", NewAuthorizationError([]string{"c"}), []string{"c"}},
		{"invocation", NewInvocationError([]string{"d"}, "x", nil), []string{"d"}},
		{"wrapped", fmt.Errorf("outer: %w", NewAuthorizationError([]string{"e"})), []string{"e"}},
		{"plain", fmt.Errorf("plain"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AliasStackOf(tt.err))
		})
	}
}

func TestIsUsage(t *testing.T) {
	assert.True(t, IsUsage(NewMissingArgumentError("", "")))
	assert.True(t, IsUsage(NewParseError("x", "bad", nil)))
	assert.True(t, IsUsage(NewUnusedArgumentError([]string{"x"})))
	assert.True(t, IsUsage(NewInvalidUsageError("x", nil, false, nil)))
	assert.False(t, IsUsage(NewAuthorizationError(nil)))
	assert.False(t, IsUsage(NewCommandError("x")))
}

func TestErrorInterface(t *testing.T) {
	var errs = []CommandGraphError{
		NewMissingArgumentError("", ""),
		NewParseError("", "", nil),
		NewUnusedArgumentError(nil),
		NewInvalidUsageError("", nil, false, nil),
		NewAuthorizationError(nil),
		NewInvocationError(nil, "", nil),
		NewConfigurationError("", "", nil),
		NewCommandError(""),
	}

	for _, err := range errs {
		assert.NotEmpty(t, err.Code())
	}
}
