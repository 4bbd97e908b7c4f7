package parametric

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/tokenizer"
)

// Command is a leaf of the command tree
type Command struct {
	def        Definition
	plan       *Plan
	desc       command.Description
	authorizer Authorizer
	executor   Executor
	listeners  []InvokeListener
	converters []ErrorConverter
	resolve    ResolveOptions
}

var _ command.Callable = (*Command)(nil)

// Aliases returns the aliases the command was declared with
func (c *Command) Aliases() []string { return slices.Clone(c.def.Aliases) }

// Group returns the sub-command path the command was declared under
func (c *Command) Group() []string { return slices.Clone(c.def.Group) }

// Plan returns the compiled parameter plan
func (c *Command) Plan() *Plan { return c.plan }

// Description describes the command
func (c *Command) Description() command.Description { return c.desc }

// TestPermission passes when no permission is declared or any one is granted
func (c *Command) TestPermission(ns *args.Namespace) bool {
	if len(c.def.Permissions) == 0 {
		return true
	}
	for _, p := range c.def.Permissions {
		if c.authorizer.TestPermission(ns, p) {
			return true
		}
	}
	return false
}

// Call runs the invocation pipeline: permission check, pre-process hooks,
// resolution, pre-invoke hooks, body execution and post-invoke hooks.
func (c *Command) Call(ctx context.Context, arguments string, ns *args.Namespace, parents []string) error {
	if ns == nil {
		ns = args.NewNamespace()
	}
	if !c.TestPermission(ns) {
		return derrors.NewAuthorizationError(parents)
	}

	tc, err := tokenizer.Parse(c.commandName(parents)+" "+arguments, tokenizer.Options{
		ValueFlags: c.plan.ValueFlags(),
	})
	if err != nil {
		return c.usageError(err, parents)
	}
	if tc.HasFlag(tokenizer.HelpFlag) {
		return c.withUsage(derrors.NewInvalidUsageError("", parents, true, nil))
	}

	a := args.NewContextArgs(tc, ns)
	ns.Put(ContextKey, tc)
	ns.Put(ArgsKey, args.Args(a))

	handlers := make([]InvokeHandler, 0, len(c.listeners))
	for _, l := range c.listeners {
		handlers = append(handlers, l.NewHandler())
	}

	for _, h := range handlers {
		ok, err := h.PreProcess(ctx, c, a)
		if err != nil {
			return c.failure(err, parents)
		}
		if !ok {
			return nil
		}
	}

	values, err := c.plan.Resolve(a, c.resolve)
	if err != nil {
		return c.failure(err, parents)
	}

	for _, h := range handlers {
		ok, err := h.PreInvoke(ctx, c, values, a)
		if err != nil {
			return c.failure(err, parents)
		}
		if !ok {
			return nil
		}
	}

	future := c.executor.Submit(ctx, func(ctx context.Context) error {
		return c.def.Body(ctx, values, ns)
	})
	if err := future.Wait(ctx); err != nil {
		return c.failure(err, parents)
	}

	for _, h := range handlers {
		if err := h.PostInvoke(ctx, c, values, a); err != nil {
			return c.failure(err, parents)
		}
	}
	return nil
}

func (c *Command) commandName(parents []string) string {
	if len(parents) > 0 && parents[len(parents)-1] != "" {
		return parents[len(parents)-1]
	}
	return "_"
}

// failure maps an error raised anywhere in the pipeline to its outcome
func (c *Command) failure(err error, parents []string) error {
	if usage := c.usageError(err, parents); usage != nil {
		return usage
	}

	var (
		auth    *derrors.AuthorizationError
		inv     *derrors.InvocationError
		cfg     *derrors.ConfigurationError
		cmdErr  *derrors.CommandError
		convErr error
	)
	switch {
	case errors.As(err, &inv):
		if inv.AliasStack == nil {
			inv.AliasStack = parents
		}
		return inv
	case errors.As(err, &auth), errors.As(err, &cfg), errors.As(err, &cmdErr):
		return err
	}

	for _, conv := range c.converters {
		if convErr = conv.Convert(err); convErr != nil {
			if usage := c.usageError(convErr, parents); usage != nil {
				return usage
			}
			return convErr
		}
	}
	return derrors.NewInvocationError(parents, "Failed to execute command", err)
}

// usageError translates the usage kinds into an InvalidUsageError, or returns nil
func (c *Command) usageError(err error, parents []string) error {
	var (
		usage    *derrors.InvalidUsageError
		missing  *derrors.MissingArgumentError
		parseErr *derrors.ParseError
		unused   *derrors.UnusedArgumentError
		message  string
	)

	switch {
	case errors.As(err, &usage):
		if usage.AliasStack == nil {
			usage.AliasStack = parents
		}
		return c.withUsage(usage)
	case errors.As(err, &missing):
		switch {
		case missing.Parameter == "":
			message = "Too few arguments!"
		case missing.Message() == derrors.DefaultMissingMessage:
			message = fmt.Sprintf("Too few arguments! No value found for parameter '%s'", missing.Parameter)
		default:
			message = missing.Message()
		}
	case errors.As(err, &parseErr):
		if parseErr.Parameter != "" {
			message = fmt.Sprintf("For parameter '%s': %s", parseErr.Parameter, parseErr.Message())
		} else {
			message = "Error parsing arguments: " + parseErr.Message()
		}
	case errors.As(err, &unused):
		message = "Too many arguments! Unused arguments: " + strings.Join(unused.Unconsumed, " ")
	default:
		return nil
	}

	return c.withUsage(derrors.NewInvalidUsageError(message, parents, false, err))
}

func (c *Command) withUsage(e *derrors.InvalidUsageError) *derrors.InvalidUsageError {
	if e.Usage == "" {
		e.Usage = c.desc.Usage()
	}
	return e
}

// Suggestions completes the value under the cursor using its parameter's provider
func (c *Command) Suggestions(arguments string, ns *args.Namespace) ([]string, error) {
	if ns == nil {
		ns = args.NewNamespace()
	}
	tc, err := tokenizer.Parse("_ "+arguments, tokenizer.Options{
		ValueFlags:       c.plan.ValueFlags(),
		AllowHangingFlag: true,
	})
	if err != nil {
		return nil, nil
	}

	var (
		param  Parameter
		ok     bool
		prefix string
	)
	switch sc := tc.SuggestionContext(); sc.Kind {
	case tokenizer.FlagValue:
		param, ok = c.plan.FlagParameter(sc.Flag)
		prefix = tc.FlagOr(sc.Flag, "")
	case tokenizer.LastValue:
		param, ok = c.plan.ParameterAt(tc.Len() - 1)
		prefix = tc.Arg(tc.Len() - 1)
	default:
		param, ok = c.plan.ParameterAt(tc.Len())
	}
	if !ok {
		return nil, nil
	}
	return param.Provider.Suggest(prefix, ns, param.Modifiers), nil
}

// Value returns values[i] as a T, or the zero T
func Value[T any](values []any, i int) T {
	var zero T
	if i < 0 || i >= len(values) {
		return zero
	}
	v, ok := values[i].(T)
	if !ok {
		return zero
	}
	return v
}
