// Package command defines what every node of a command tree exposes:
// dispatch, completion, permission testing and a description.
package command

import (
	"context"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
)

// Callable is a node of the command tree: a dispatcher or a leaf command
type Callable interface {
	// Call executes the node with the text following its alias.
	// parents is the alias trail used to reach it, its own alias included.
	Call(ctx context.Context, arguments string, ns *args.Namespace, parents []string) error
	// Suggestions returns completions for the partially typed arguments
	Suggestions(arguments string, ns *args.Namespace) ([]string, error)
	// Description describes the node for help and usage output
	Description() Description
	// TestPermission reports whether the caller in ns may use the node
	TestPermission(ns *args.Namespace) bool
}

// ParameterInfo describes one user-facing parameter for usage output
type ParameterInfo struct {
	Name     string
	Flag     rune
	HasValue bool
	Optional bool
	Variadic bool
	Default  []string
}

func (p ParameterInfo) String() string {
	switch {
	case p.Flag != 0 && p.HasValue:
		return "[-" + string(p.Flag) + " <" + p.Name + ">]"
	case p.Flag != 0:
		return "[-" + string(p.Flag) + "]"
	}

	name := p.Name
	if p.Variadic {
		name += "..."
	}
	if p.Optional {
		if len(p.Default) > 0 {
			return "[" + name + "=" + strings.Join(p.Default, " ") + "]"
		}
		return "[" + name + "]"
	}
	return "<" + name + ">"
}

// Description is the static description of a node
type Description struct {
	Short         string
	Help          string
	UsageOverride string
	Permissions   []string
	Parameters    []ParameterInfo
}

// Usage returns the usage line without the command path
func (d Description) Usage() string {
	if d.UsageOverride != "" {
		return d.UsageOverride
	}
	parts := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " ")
}
