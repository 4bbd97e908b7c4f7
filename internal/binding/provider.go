package binding

import (
	"github.com/NikitaCOEUR/cmdgraph/internal/args"
)

// Variable is the consumption count of a provider that takes every remaining token
const Variable = -1

// Provider produces a parameter value. Providers are shared between calls and
// must be safe for concurrent use.
type Provider interface {
	// Provided reports whether values come from context rather than tokens
	Provided() bool
	// Get reads a value from the cursor. mods are the parameter's modifier tags.
	Get(a args.Args, mods []any) (any, error)
	// Suggest returns completions for a partially typed token
	Suggest(prefix string, ns *args.Namespace, mods []any) []string
}

// Consumer is implemented by providers that do not read exactly one token
type Consumer interface {
	Consumes() int
}

// ConsumedCount returns how many tokens p reads: 0 for supplied providers,
// Variable for greedy ones and 1 by default.
func ConsumedCount(p Provider) int {
	if p.Provided() {
		return 0
	}
	if c, ok := p.(Consumer); ok {
		return c.Consumes()
	}
	return 1
}

// ProviderFunc adapts a function into a single-token provider without suggestions
type ProviderFunc func(a args.Args, mods []any) (any, error)

func (f ProviderFunc) Provided() bool { return false }

func (f ProviderFunc) Get(a args.Args, mods []any) (any, error) {
	return f(a, mods)
}

func (f ProviderFunc) Suggest(string, *args.Namespace, []any) []string {
	return nil
}

// FindModifier returns the first modifier of type T
func FindModifier[T any](mods []any) (T, bool) {
	for _, m := range mods {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
