// Package main is the entry point for the cmdgraph console.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	cmdgraph "github.com/NikitaCOEUR/cmdgraph/internal/cli"
	"github.com/NikitaCOEUR/cmdgraph/internal/shell"
	"github.com/NikitaCOEUR/cmdgraph/internal/trace"
	"github.com/NikitaCOEUR/cmdgraph/pkg/version"
)

// errReported marks a failure the console already rendered
var errReported = errors.New("command failed")

func main() {
	stop := trace.Init(os.Stderr)

	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := app.Run(context.Background(), os.Args)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	open := func(cmd *cli.Command) (*cmdgraph.Console, error) {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		return cmdgraph.New(cmdgraph.Options{
			ConfigPath: cmd.String("config"),
			Dir:        dir,
			LogLevel:   cmd.String("log-level"),
			Out:        stdout,
			Log:        stderr,
		})
	}

	withConsole := func(fn func(context.Context, *cli.Command, *cmdgraph.Console) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			return fn(ctx, cmd, c)
		}
	}

	var app *cli.Command
	app = &cli.Command{
		Name:      "cmdgraph",
		Usage:     "Parse, route and complete commands against a command graph",
		Version:   version.String(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error); overrides the config",
				Sources: cli.EnvVars("CMDGRAPH_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (default: ./cmdgraph.{yml,yaml,toml,json}, then the global config)",
				Sources: cli.EnvVars("CMDGRAPH_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:            "run",
				Usage:           "Run one command line",
				ArgsUsage:       "<command> [args...]",
				SkipFlagParsing: true,
				Action: withConsole(func(ctx context.Context, cmd *cli.Command, c *cmdgraph.Console) error {
					if err := c.Run(ctx, strings.Join(cmd.Args().Slice(), " ")); err != nil {
						return errReported
					}
					return nil
				}),
			},
			{
				Name:  "repl",
				Usage: "Read and run command lines until EOF or 'exit'",
				Action: withConsole(func(ctx context.Context, _ *cli.Command, c *cmdgraph.Console) error {
					if isTerminal(stdin) {
						return c.Interactive(ctx)
					}
					return c.Repl(ctx, stdin)
				}),
			},
			{
				Name:            "complete",
				Usage:           "Print completions for the last word of a command line",
				ArgsUsage:       "<words...>",
				SkipFlagParsing: true,
				Action: withConsole(func(_ context.Context, cmd *cli.Command, c *cmdgraph.Console) error {
					return c.Complete(strings.Join(cmd.Args().Slice(), " "))
				}),
			},
			{
				Name:      "completion",
				Usage:     "Print a shell completion script",
				ArgsUsage: "<" + strings.Join(shell.Shells(), "|") + ">",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected one shell name (%s)", strings.Join(shell.Shells(), ", "))
					}
					var names []string
					for _, sub := range app.Commands {
						if !sub.Hidden {
							names = append(names, sub.Name)
						}
					}
					return cmdgraph.Completion(stdout, cmd.Args().First(), shell.Script{
						Program:  app.Name,
						Commands: names,
						Runner:   "run",
					})
				},
			},
			{
				Name:  "tree",
				Usage: "Print the command tree",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   cmdgraph.TreeText,
						Usage:   "Output format (text, yaml, json)",
					},
				},
				Action: withConsole(func(_ context.Context, cmd *cli.Command, c *cmdgraph.Console) error {
					return c.Tree(cmd.String("format"))
				}),
			},
			{
				Name:  "status",
				Usage: "Show the console configuration, subject and commands",
				Action: withConsole(func(_ context.Context, _ *cli.Command, c *cmdgraph.Console) error {
					return c.Status()
				}),
			},
			{
				Name:      "validate",
				Usage:     "Validate a cmdgraph configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					configPath := ""
					if cmd.Args().Len() > 0 {
						configPath = cmd.Args().Get(0)
					}
					return cmdgraph.Validate(stdout, configPath)
				},
			},
			{
				Name:  "schema",
				Usage: "Display or export the JSON Schema for configuration files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the schema to a file instead of stdout",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return cmdgraph.Schema(stdout, cmd.String("output"))
				},
			},
		},
	}
	return app
}
