package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// lineCompleter offers the completion engine's candidates to the line editor
type lineCompleter struct {
	console *Console
}

// Do returns the suffixes completing the word before pos and the length of
// that word
func (lc lineCompleter) Do(line []rune, pos int) ([][]rune, int) {
	result, err := lc.console.engine.Complete(string(line[:pos]), lc.console.Namespace())
	if err != nil {
		return nil, 0
	}

	prefix := []rune(result.Prefix)
	var out [][]rune
	for _, s := range lc.console.engine.Filter(result.Suggestions, result.Prefix) {
		value := []rune(s.Value)
		if len(value) < len(prefix) {
			continue
		}
		out = append(out, append(value[len(prefix):], ' '))
	}
	return out, len(prefix)
}

// Interactive runs the console on a terminal with line editing, tab
// completion and the recorded history. Ctrl-C clears the line, Ctrl-D exits.
func (c *Console) Interactive(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		AutoComplete:    lineCompleter{console: c},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer func() { _ = rl.Close() }()

	for _, e := range c.history.Last(0) {
		_ = rl.SaveHistory(e.Line)
	}

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		if done, err := c.step(ctx, line); done {
			return err
		}
	}
}
