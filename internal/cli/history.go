package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
	"github.com/NikitaCOEUR/cmdgraph/internal/history"
	"github.com/NikitaCOEUR/cmdgraph/internal/logger"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
)

// record appends line to the history. Persistence failures are logged only.
func (c *Console) record(log *logger.Logger, line string, failed bool) {
	err := c.history.Add(history.Entry{
		Line:    line,
		Subject: c.subject.Name,
		Failed:  failed,
	})
	if err != nil {
		log.Warn().Str("file", c.history.Path()).Err(err).Msg("Failed to save history")
	}
}

func (c *Console) registerHistory(root *dispatcher.Node) {
	root.Register(parametric.Definition{
		Aliases: []string{"history"},
		Desc:    "Show the previous commands",
		Params: []parametric.Spec{
			parametric.Param[io.Writer](),
			parametric.Param[int]().Flag('n').Named("count").Default("20").With(binding.Between(1, 1000)),
			parametric.Param[bool]().Flag('c').Named("clear"),
			parametric.Param[string]().As(binding.Text).Named("filter").Optional(),
		},
		Body: c.showHistory,
	})
}

func (c *Console) showHistory(_ context.Context, values []any, _ *args.Namespace) error {
	w := parametric.Value[io.Writer](values, 0)
	if parametric.Value[bool](values, 2) {
		return c.history.Clear()
	}

	entries := c.history.Last(0)
	if filter := parametric.Value[string](values, 3); filter != "" {
		entries = c.history.Search(filter)
	}
	if n := parametric.Value[int](values, 1); len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No history.")
		return nil
	}
	for _, e := range entries {
		mark := " "
		if e.Failed {
			mark = "!"
		}
		fmt.Fprintf(w, "%s %s %s\n", e.Timestamp.Format("15:04:05"), mark, e.Line)
	}
	return nil
}
