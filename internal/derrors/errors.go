// Package derrors provides the typed outcomes returned by the command engine.
// Lower layers never log: they return one of these errors and the outermost
// caller decides how to render it.
package derrors

import (
	"errors"
	"fmt"
	"strings"
)

// CommandGraphError is the base interface for all engine errors
type CommandGraphError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

// baseError provides common functionality for all engine errors
type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// Message returns the message without the cause appended
func (e *baseError) Message() string {
	return e.message
}

// MissingArgumentError is returned when a token was needed but the stream was exhausted
type MissingArgumentError struct {
	baseError
	Parameter string
}

// DefaultMissingMessage is the message of a MissingArgumentError created without one
const DefaultMissingMessage = "Not enough arguments"

// NewMissingArgumentError creates a new missing argument error
func NewMissingArgumentError(parameter string, message string) *MissingArgumentError {
	if message == "" {
		message = DefaultMissingMessage
	}
	return &MissingArgumentError{
		baseError: baseError{
			code:    "MISSING_ARGUMENT",
			message: message,
		},
		Parameter: parameter,
	}
}

// ParseError is returned when a present token failed coercion or validation
type ParseError struct {
	baseError
	Parameter string
	Input     string
}

// NewParseError creates a new parse error for the given raw input
func NewParseError(input string, message string, cause error) *ParseError {
	return &ParseError{
		baseError: baseError{
			code:    "PARSE_ERROR",
			message: message,
			cause:   cause,
		},
		Input: input,
	}
}

// WithParameter returns a copy of the error attributed to a parameter
func (e *ParseError) WithParameter(name string) *ParseError {
	c := *e
	c.Parameter = name
	return &c
}

// UnusedArgumentError is returned when tokens or flags were left over after resolution
type UnusedArgumentError struct {
	baseError
	Unconsumed []string
}

// NewUnusedArgumentError creates a new unused argument error
func NewUnusedArgumentError(unconsumed []string) *UnusedArgumentError {
	return &UnusedArgumentError{
		baseError: baseError{
			code:    "UNUSED_ARGUMENT",
			message: "Unused arguments: " + strings.Join(unconsumed, ", "),
		},
		Unconsumed: unconsumed,
	}
}

// InvalidUsageError is the user-facing umbrella for usage problems
type InvalidUsageError struct {
	baseError
	AliasStack []string
	FullHelp   bool
	// Usage is the usage line of the command that rejected the input, if known
	Usage string
}

// NewInvalidUsageError creates a new invalid usage error
func NewInvalidUsageError(message string, aliasStack []string, fullHelp bool, cause error) *InvalidUsageError {
	return &InvalidUsageError{
		baseError: baseError{
			code:    "INVALID_USAGE",
			message: message,
			cause:   cause,
		},
		AliasStack: aliasStack,
		FullHelp:   fullHelp,
	}
}

// Error omits the cause: the message is already meant for the user.
func (e *InvalidUsageError) Error() string {
	return e.message
}

// CommandPath returns the alias trail joined with spaces
func (e *InvalidUsageError) CommandPath() string {
	return strings.Join(e.AliasStack, " ")
}

// AuthorizationError is returned when the permission gate rejected the caller
type AuthorizationError struct {
	baseError
	AliasStack []string
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(aliasStack []string) *AuthorizationError {
	return &AuthorizationError{
		baseError: baseError{
			code:    "AUTH_ERROR",
			message: "You are not permitted to do that. Are you in the right mode?",
		},
		AliasStack: aliasStack,
	}
}

// InvocationError is returned when a command body failed or could not complete
type InvocationError struct {
	baseError
	AliasStack  []string
	Interrupted bool
}

// NewInvocationError creates a new invocation error wrapping the original cause
func NewInvocationError(aliasStack []string, message string, cause error) *InvocationError {
	return &InvocationError{
		baseError: baseError{
			code:    "INVOCATION_ERROR",
			message: message,
			cause:   cause,
		},
		AliasStack: aliasStack,
	}
}

// NewInterruptedError creates an invocation error for an interrupted wait
func NewInterruptedError(aliasStack []string, cause error) *InvocationError {
	e := NewInvocationError(aliasStack, "Execution of the command was interrupted", cause)
	e.Interrupted = true
	return e
}

// ConfigurationError represents a programming error in a command declaration
// or an invalid console configuration
type ConfigurationError struct {
	baseError
	Field string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Field: field,
	}
}

// CommandError is a user-facing failure raised by a command body or provider.
// It travels to the caller unchanged.
type CommandError struct {
	baseError
}

// NewCommandError creates a new command error
func NewCommandError(message string) *CommandError {
	return &CommandError{
		baseError: baseError{
			code:    "COMMAND_ERROR",
			message: message,
		},
	}
}

// Errorf creates a command error with a formatted message
func Errorf(format string, a ...any) *CommandError {
	return NewCommandError(fmt.Sprintf(format, a...))
}

// AliasStackOf returns the alias trail carried by err, if any
func AliasStackOf(err error) []string {
	var usage *InvalidUsageError
	if errors.As(err, &usage) {
		return usage.AliasStack
	}
	var auth *AuthorizationError
	if errors.As(err, &auth) {
		return auth.AliasStack
	}
	var inv *InvocationError
	if errors.As(err, &inv) {
		return inv.AliasStack
	}
	return nil
}

// IsUsage reports whether err is one of the user-recoverable usage kinds
func IsUsage(err error) bool {
	var (
		missing *MissingArgumentError
		parse   *ParseError
		unused  *UnusedArgumentError
		usage   *InvalidUsageError
	)
	return errors.As(err, &usage) || errors.As(err, &missing) ||
		errors.As(err, &parse) || errors.As(err, &unused)
}
