// Package completion turns the suggestions of a command tree into ranked,
// described completion candidates.
package completion

import (
	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
)

// Suggestion represents a single completion suggestion
type Suggestion struct {
	Value       string // The actual value to complete
	Description string // Optional description/help text
}

// Completer is anything that can suggest the next token of a line
type Completer interface {
	Suggestions(arguments string, ns *args.Namespace) ([]string, error)
}

// Navigator is a completer whose children can be looked up by alias
type Navigator interface {
	Completer
	Child(alias string) (command.Callable, bool)
}

// Result represents the result of a completion attempt
type Result struct {
	Suggestions []Suggestion
	// Prefix is the partial token the suggestions complete
	Prefix string
	// Source is "commands" when completing sub-command aliases, "values" otherwise
	Source string
}
