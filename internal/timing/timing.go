// Package timing measures how long the stages of a command call take.
package timing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
)

// Mark is a named checkpoint, measured from the timer start
type Mark struct {
	Label   string
	Elapsed time.Duration
}

// Timer tracks execution time of operations
type Timer struct {
	start time.Time
	marks []Mark
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Mark records a checkpoint with a label
func (t *Timer) Mark(label string) time.Duration {
	elapsed := time.Since(t.start)
	t.marks = append(t.marks, Mark{Label: label, Elapsed: elapsed})
	return elapsed
}

// Elapsed returns total elapsed time since timer creation
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Get returns the duration for a specific mark; the latest one wins
func (t *Timer) Get(label string) (time.Duration, bool) {
	for i := len(t.marks) - 1; i >= 0; i-- {
		if t.marks[i].Label == label {
			return t.marks[i].Elapsed, true
		}
	}
	return 0, false
}

// Marks returns the checkpoints in recording order
func (t *Timer) Marks() []Mark {
	return append([]Mark(nil), t.marks...)
}

// Summary returns a formatted summary of all timings
func (t *Timer) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %s", millis(t.Elapsed()))

	if len(t.marks) > 0 {
		b.WriteString(" (")
		for i, m := range t.marks {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", m.Label, millis(m.Elapsed))
		}
		b.WriteString(")")
	}

	return b.String()
}

// Reset resets the timer
func (t *Timer) Reset() {
	t.start = time.Now()
	t.marks = nil
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000.0)
}

// Report is what a Listener hands to its callback after a successful call
type Report struct {
	Command string
	Total   time.Duration
	Marks   []Mark
	Summary string
}

// Listener times the resolve and execute stages of every call made through
// the commands of a parametric.Builder
type Listener struct {
	Report func(Report)
}

var _ parametric.InvokeListener = (*Listener)(nil)

// NewHandler implements parametric.InvokeListener
func (l *Listener) NewHandler() parametric.InvokeHandler {
	return &handler{listener: l, timer: NewTimer()}
}

// UpdateDescription implements parametric.InvokeListener
func (l *Listener) UpdateDescription(parametric.Definition, *command.Description) {}

type handler struct {
	parametric.NopHandler
	listener *Listener
	timer    *Timer
}

func (h *handler) PreProcess(context.Context, *parametric.Command, args.Args) (bool, error) {
	h.timer.Reset()
	return true, nil
}

func (h *handler) PreInvoke(context.Context, *parametric.Command, []any, args.Args) (bool, error) {
	h.timer.Mark("resolve")
	return true, nil
}

func (h *handler) PostInvoke(_ context.Context, cmd *parametric.Command, _ []any, _ args.Args) error {
	h.timer.Mark("execute")
	if h.listener.Report == nil {
		return nil
	}

	name := ""
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		name = aliases[0]
	}
	h.listener.Report(Report{
		Command: name,
		Total:   h.timer.Elapsed(),
		Marks:   h.timer.Marks(),
		Summary: h.timer.Summary(),
	})
	return nil
}
