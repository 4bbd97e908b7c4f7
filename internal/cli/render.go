package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	usageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))
)

// render turns a failed call into the text shown to the caller
func (c *Console) render(err error) string {
	var (
		usage  *derrors.InvalidUsageError
		auth   *derrors.AuthorizationError
		inv    *derrors.InvocationError
		cmdErr *derrors.CommandError
	)
	switch {
	case errors.As(err, &usage):
		return c.renderUsage(usage)
	case errors.As(err, &auth):
		return errorStyle.Render(auth.Error())
	case errors.As(err, &inv):
		if inv.Interrupted {
			return warningStyle.Render(inv.Message())
		}
		return errorStyle.Render("An error occurred while executing the command. Please see the log for details.")
	case errors.As(err, &cmdErr):
		return errorStyle.Render(cmdErr.Message())
	}
	return errorStyle.Render("error: " + err.Error())
}

func (c *Console) renderUsage(e *derrors.InvalidUsageError) string {
	var b strings.Builder
	if msg := e.Error(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}

	desc, _ := c.describe(e.AliasStack)
	if e.Usage != "" {
		desc.UsageOverride = e.Usage
	}

	if e.FullHelp {
		b.WriteString(paint(usageStyle, command.RenderHelp(e.AliasStack, desc)))
	} else {
		b.WriteString(usageStyle.Render("Usage: " + command.UsageLine(e.AliasStack, desc)))
	}
	return b.String()
}

// paint styles each line on its own so multi-line text is not padded
func paint(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
