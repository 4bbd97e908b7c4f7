package binding

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// EnumProvider resolves a token to one of a fixed set of named values.
// Matching ignores case and anything that is not a letter or digit.
type EnumProvider[T any] struct {
	name   string
	values map[string]T
	names  []string
}

// NewEnumProvider creates a provider over values, keyed by display name
func NewEnumProvider[T any](name string, values map[string]T) *EnumProvider[T] {
	p := &EnumProvider[T]{name: name, values: make(map[string]T, len(values))}
	for k, v := range values {
		p.values[simplify(k)] = v
		p.names = append(p.names, strings.ToLower(k))
	}
	slices.Sort(p.names)
	return p
}

func (p *EnumProvider[T]) Provided() bool { return false }

func (p *EnumProvider[T]) Get(a args.Args, _ []any) (any, error) {
	s, err := a.Next()
	if err != nil {
		return nil, err
	}
	v, ok := p.values[simplify(s)]
	if !ok {
		return nil, derrors.NewParseError(s, fmt.Sprintf("No matching value found in the '%s' list.", p.name), nil)
	}
	return v, nil
}

func (p *EnumProvider[T]) Suggest(prefix string, _ *args.Namespace, _ []any) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, n := range p.names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

func simplify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
