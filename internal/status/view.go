package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	var b strings.Builder

	b.WriteString(renderHeader(data))
	b.WriteString("\n\n")

	b.WriteString(renderSubject(data))
	b.WriteString("\n\n")

	b.WriteString(renderEngine(data))
	b.WriteString("\n\n")

	b.WriteString(renderDomains(data))
	b.WriteString("\n\n")

	b.WriteString(renderCommands(data))

	return b.String()
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version) + "\n")
	b.WriteString(titleStyle.Render("📝 Configuration: ") + valueStyle.Render(data.ConfigSource) + "\n")
	b.WriteString(titleStyle.Render("🪵 Log level: ") + valueStyle.Render(data.LogLevel))
	return b.String()
}

func renderSubject(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔒 Subject:") + "\n")
	b.WriteString("   " + keyStyle.Render("Name: ") + valueStyle.Render(data.Subject) + "\n")

	if data.GrantsFile != "" {
		b.WriteString("   " + keyStyle.Render("Grants file: ") + subtleStyle.Render(data.GrantsFile) + "\n")
	}

	if len(data.Permissions) == 0 {
		b.WriteString("   " + subtleStyle.Render("No permissions granted"))
		return b.String()
	}
	b.WriteString("   " + keyStyle.Render("Permissions: ") + valueStyle.Render(strings.Join(data.Permissions, ", ")))
	return b.String()
}

func renderEngine(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("⚙️  Engine:") + "\n")
	b.WriteString("   " + keyStyle.Render("Executor: ") + valueStyle.Render(data.Executor) + "\n")

	timeout := data.Timeout
	if timeout == "" {
		timeout = "none"
	}
	b.WriteString("   " + keyStyle.Render("Timeout: ") + valueStyle.Render(timeout) + "\n")

	unused := errorStyle.Render("✗ rejected")
	if data.IgnoreUnusedFlags {
		unused = successStyle.Render("✓ ignored")
	}
	b.WriteString("   " + keyStyle.Render("Unused flags: ") + unused)
	return b.String()
}

func renderDomains(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🪐 Domains:") + "\n")
	b.WriteString("   " + keyStyle.Render("Bodies: ") + valueStyle.Render(fmt.Sprintf("%d", data.Bodies)) + "\n")
	b.WriteString("   " + keyStyle.Render("Users: ") + valueStyle.Render(strings.Join(data.Users, ", ")))
	return b.String()
}

func renderCommands(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔗 Commands:") + "\n")

	if len(data.Commands) == 0 {
		b.WriteString("   " + subtleStyle.Render("No commands registered"))
		return b.String()
	}

	permitted := 0
	for _, c := range data.Commands {
		mark := errorStyle.Render("✗")
		if c.Permitted {
			mark = successStyle.Render("✓")
			permitted++
		}
		line := c.Path
		if c.Usage != "" {
			line += " " + c.Usage
		}
		b.WriteString(fmt.Sprintf("   %s %s", mark, valueStyle.Render(line)))
		if c.Short != "" {
			b.WriteString(subtleStyle.Render(" - " + c.Short))
		}
		b.WriteString("\n")
	}

	b.WriteString("   " + subtleStyle.Render(fmt.Sprintf("%d of %d commands available", permitted, len(data.Commands))))
	return b.String()
}
