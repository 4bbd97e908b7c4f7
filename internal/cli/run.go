package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
	"github.com/NikitaCOEUR/cmdgraph/internal/logger"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
	"github.com/NikitaCOEUR/cmdgraph/internal/trace"
)

// Prompt is printed before each line read by Repl
const Prompt = "> "

// Run executes one command line. Failures are rendered to the console output
// and returned.
func (c *Console) Run(ctx context.Context, line string) error {
	id := uuid.NewString()
	log := c.log.With("invocation", id)

	ctx, end := trace.Task(ctx, "invocation")
	defer end()
	trace.Log(ctx, "invocation", id+" "+line)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Debug().Str("line", line).Msg("Dispatching command")
	err := c.root.Call(ctx, line, c.Namespace(), nil)
	if err != nil {
		c.fail(log, err)
	}
	c.record(log, line, err != nil)
	return err
}

// Repl runs lines read from in until EOF or "exit". Failures do not stop the loop.
func (c *Console) Repl(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			break
		}
		if done, err := c.step(ctx, scanner.Text()); done {
			return err
		}
	}
	return scanner.Err()
}

// step runs one line read by a loop and reports whether the loop is over
func (c *Console) step(ctx context.Context, raw string) (bool, error) {
	switch line := strings.TrimSpace(raw); line {
	case "":
		return false, nil
	case "exit", "quit":
		return true, nil
	default:
		_ = c.Run(ctx, line)
	}
	if err := ctx.Err(); err != nil {
		return true, err
	}
	return false, nil
}

func (c *Console) fail(log *logger.Logger, err error) {
	var (
		usage *derrors.InvalidUsageError
		auth  *derrors.AuthorizationError
		inv   *derrors.InvocationError
	)
	switch {
	case errors.As(err, &usage):
		log.Debug().Strs("path", usage.AliasStack).Err(err).Msg("Invalid usage")
	case errors.As(err, &auth):
		log.Debug().Strs("path", auth.AliasStack).Msg("Permission denied")
	case errors.As(err, &inv):
		log.Error().Strs("path", inv.AliasStack).Bool("interrupted", inv.Interrupted).Err(errors.Unwrap(err)).Msg(inv.Message())
	default:
		log.Debug().Err(err).Msg("Command failed")
	}
	fmt.Fprintln(c.out, c.render(err))
}

// describe returns the description of the node reached through path
func (c *Console) describe(path []string) (command.Description, bool) {
	var node command.Callable = c.root
	for _, alias := range path {
		d, ok := node.(*dispatcher.Dispatcher)
		if !ok {
			return command.Description{}, false
		}
		if node, ok = d.Child(alias); !ok {
			return command.Description{}, false
		}
	}
	return node.Description(), true
}

func (c *Console) registerHelp(root *dispatcher.Node) {
	root.Register(parametric.Definition{
		Aliases: []string{"help", "?"},
		Desc:    "Show help for a command",
		Params: []parametric.Spec{
			parametric.Param[string]().As(binding.Text).Named("command").Optional(),
		},
		Body: func(_ context.Context, values []any, ns *args.Namespace) error {
			path := strings.Fields(parametric.Value[string](values, 0))
			desc, ok := c.describe(path)
			if !ok {
				return derrors.Errorf("Unknown command '%s'", strings.Join(path, " "))
			}
			fmt.Fprintln(parametric.Output(ns), command.RenderHelp(path, desc))
			return nil
		},
	})
}
