package parametric

import (
	"context"
	"errors"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// InvokeListener is installed on a Builder and observes every command it builds
type InvokeListener interface {
	// NewHandler returns the handler for one call
	NewHandler() InvokeHandler
	// UpdateDescription may adjust the description of a command being built
	UpdateDescription(def Definition, desc *command.Description)
}

// InvokeHandler receives the stages of one call. Returning false from
// PreProcess or PreInvoke stops the call without error.
type InvokeHandler interface {
	PreProcess(ctx context.Context, cmd *Command, a args.Args) (bool, error)
	PreInvoke(ctx context.Context, cmd *Command, values []any, a args.Args) (bool, error)
	PostInvoke(ctx context.Context, cmd *Command, values []any, a args.Args) error
}

// NopHandler implements InvokeHandler with no effect; embed it to override single stages
type NopHandler struct{}

func (NopHandler) PreProcess(context.Context, *Command, args.Args) (bool, error) { return true, nil }

func (NopHandler) PreInvoke(context.Context, *Command, []any, args.Args) (bool, error) {
	return true, nil
}

func (NopHandler) PostInvoke(context.Context, *Command, []any, args.Args) error { return nil }

// ArgCount is a bare positional count constraint. Max below zero means unbounded.
type ArgCount struct {
	Min int
	Max int
}

// ArgCountListener enforces Definition.ArgCount before the body runs
type ArgCountListener struct{}

func (ArgCountListener) NewHandler() InvokeHandler { return argCountHandler{} }

func (ArgCountListener) UpdateDescription(def Definition, desc *command.Description) {
	if def.ArgCount != nil && def.Usage == "" && len(def.Params) == 0 {
		desc.UsageOverride = "(unknown usage information)"
	}
}

type argCountHandler struct {
	NopHandler
}

func (argCountHandler) PreInvoke(_ context.Context, cmd *Command, _ []any, a args.Args) (bool, error) {
	limits := cmd.def.ArgCount
	if limits == nil {
		return true, nil
	}
	if a.Size() < limits.Min {
		return false, derrors.NewMissingArgumentError("", "")
	}
	if limits.Max >= 0 && a.Size() > limits.Max {
		var extra []string
		if ca, ok := a.(*args.ContextArgs); ok {
			extra = ca.Context().Args()[limits.Max:]
		}
		return false, derrors.NewUnusedArgumentError(extra)
	}
	return true, nil
}

// ErrorConverter turns an error raised by a body into a typed outcome.
// It returns nil when it does not recognise err.
type ErrorConverter interface {
	Convert(err error) error
}

// ConverterFunc adapts a function into an ErrorConverter
type ConverterFunc func(err error) error

// Convert calls f(err)
func (f ConverterFunc) Convert(err error) error { return f(err) }

// ConvertAs converts errors matching E with errors.As
func ConvertAs[E error](fn func(E) error) ErrorConverter {
	return ConverterFunc(func(err error) error {
		var target E
		if errors.As(err, &target) {
			return fn(target)
		}
		return nil
	})
}
