package completion

import (
	"slices"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
)

// Engine completes whole lines against the root of a command tree
type Engine struct {
	root Completer
}

// NewEngine creates an engine over root
func NewEngine(root Completer) *Engine {
	return &Engine{root: root}
}

// Complete returns the candidates for the last token of line
func (e *Engine) Complete(line string, ns *args.Namespace) (*Result, error) {
	if ns == nil {
		ns = args.NewNamespace()
	}

	values, err := e.root.Suggestions(line, ns)
	if err != nil {
		return nil, err
	}

	tokens := strings.Split(line, " ")
	prefix := tokens[len(tokens)-1]

	node, ok := e.walk(tokens[:len(tokens)-1])
	source := "values"
	if ok {
		source = "commands"
	}

	result := &Result{Prefix: prefix, Source: source, Suggestions: []Suggestion{}}
	seen := map[string]bool{}
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true

		s := Suggestion{Value: v}
		if ok {
			if child, found := node.Child(v); found {
				s.Description = child.Description().Short
			}
		}
		result.Suggestions = append(result.Suggestions, s)
	}

	slices.SortStableFunc(result.Suggestions, func(a, b Suggestion) int {
		return strings.Compare(a.Value, b.Value)
	})
	return result, nil
}

// walk follows complete tokens through navigators and returns the node whose
// children the last token selects, if the path stays inside dispatchers
func (e *Engine) walk(tokens []string) (Navigator, bool) {
	nav, ok := e.root.(Navigator)
	if !ok {
		return nil, false
	}
	for _, t := range tokens {
		if t == "" {
			continue
		}
		child, found := nav.Child(t)
		if !found {
			return nil, false
		}
		if nav, ok = child.(Navigator); !ok {
			return nil, false
		}
	}
	return nav, true
}

// Filter applies prefix filtering to suggestions
func (e *Engine) Filter(suggestions []Suggestion, prefix string) []Suggestion {
	if prefix == "" {
		return suggestions
	}

	var filtered []Suggestion
	for _, s := range suggestions {
		if strings.HasPrefix(strings.ToLower(s.Value), strings.ToLower(prefix)) {
			filtered = append(filtered, s)
		}
	}

	return filtered
}
