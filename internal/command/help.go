package command

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const helpTemplate = `Usage: {{ list .Path .Usage | compact | join " " }}
{{- with .Short }}
{{ . }}{{ end }}
{{- with .Help }}

{{ . | trim }}{{ end }}
{{- with .Permissions }}

Permissions: {{ join ", " . }}{{ end }}`

var helpTmpl = template.Must(template.New("help").Funcs(sprig.TxtFuncMap()).Parse(helpTemplate))

// RenderHelp renders the full help of a node reached through path
func RenderHelp(path []string, d Description) string {
	var b strings.Builder
	data := map[string]any{
		"Path":        strings.Join(path, " "),
		"Usage":       d.Usage(),
		"Short":       d.Short,
		"Help":        d.Help,
		"Permissions": d.Permissions,
	}
	if err := helpTmpl.Execute(&b, data); err != nil {
		return "Usage: " + data["Path"].(string) + " " + d.Usage()
	}
	return b.String()
}

// UsageLine renders a one-line usage hint
func UsageLine(path []string, d Description) string {
	line := strings.Join(path, " ")
	if u := d.Usage(); u != "" {
		line += " " + u
	}
	return line
}
