// Package shell generates completion scripts that delegate to the
// "complete" sub-command of the console binary.
package shell

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const (
	shellBash = "bash"
	shellZsh  = "zsh"
	shellFish = "fish"
)

var programPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Script describes the program a completion script is generated for
type Script struct {
	// Program is the binary name, also used in shell function names
	Program string
	// Commands are the top-level sub-commands offered for the first word
	Commands []string
	// Runner is the sub-command whose remaining words are console lines
	Runner string
}

// CodeGenerator renders a completion script for one shell
type CodeGenerator interface {
	// Generate returns the script for s
	Generate(s Script) (string, error)
	// Name returns the shell name (bash, zsh, fish)
	Name() string
}

type templateGenerator struct {
	name string
	tmpl *template.Template
}

func newTemplateGenerator(name, text string) *templateGenerator {
	return &templateGenerator{
		name: name,
		tmpl: template.Must(template.New(name).Funcs(sprig.TxtFuncMap()).Parse(text)),
	}
}

// Name returns the shell name
func (g *templateGenerator) Name() string {
	return g.name
}

// Generate renders the completion script
func (g *templateGenerator) Generate(s Script) (string, error) {
	if !programPattern.MatchString(s.Program) {
		return "", fmt.Errorf("'%s' can't be used in a %s function name", s.Program, g.name)
	}
	if s.Runner == "" {
		return "", fmt.Errorf("no runner sub-command given")
	}

	var b strings.Builder
	if err := g.tmpl.Execute(&b, s); err != nil {
		return "", fmt.Errorf("failed to render %s completion: %w", g.name, err)
	}
	return b.String(), nil
}

var generators = map[string]CodeGenerator{
	shellBash: newTemplateGenerator(shellBash, bashTemplate),
	shellZsh:  newTemplateGenerator(shellZsh, zshTemplate),
	shellFish: newTemplateGenerator(shellFish, fishTemplate),
}

// Shells returns the supported shell names
func Shells() []string {
	return []string{shellBash, shellFish, shellZsh}
}

// NewCompletionGenerator returns the generator for shell
func NewCompletionGenerator(shell string) (CodeGenerator, error) {
	g, ok := generators[strings.ToLower(shell)]
	if !ok {
		return nil, fmt.Errorf("unsupported shell '%s' (expected one of: %s)", shell, strings.Join(Shells(), ", "))
	}
	return g, nil
}
