package cli

import (
	"context"
	"fmt"

	"github.com/NikitaCOEUR/cmdgraph/internal/trace"
)

// Complete prints the candidates for the last token of line, one per line,
// with the sub-command description after a tab when known
func (c *Console) Complete(line string) error {
	defer trace.Region(context.Background(), "complete")()

	result, err := c.engine.Complete(line, c.Namespace())
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	c.log.Debug().
		Str("prefix", result.Prefix).
		Str("source", result.Source).
		Int("count", len(result.Suggestions)).
		Msg("Completed line")

	for _, s := range result.Suggestions {
		if s.Description != "" {
			fmt.Fprintf(c.out, "%s\t%s\n", s.Value, s.Description)
			continue
		}
		fmt.Fprintln(c.out, s.Value)
	}
	return nil
}
