package binding

import (
	"fmt"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
)

type constantProvider struct {
	value any
}

// Constant supplies v without reading tokens
func Constant(v any) Provider {
	return constantProvider{value: v}
}

func (constantProvider) Provided() bool { return true }

func (p constantProvider) Get(args.Args, []any) (any, error) {
	return p.value, nil
}

func (constantProvider) Suggest(string, *args.Namespace, []any) []string {
	return nil
}

type namespaceProvider[T any] struct {
	key any
}

// FromNamespace supplies the T stored under key in the call's Namespace.
// A nil key means the type tag of T.
func FromNamespace[T any](key any) Provider {
	if key == nil {
		key = args.TypeKey[T]()
	}
	return namespaceProvider[T]{key: key}
}

func (namespaceProvider[T]) Provided() bool { return true }

func (p namespaceProvider[T]) Get(a args.Args, _ []any) (any, error) {
	v, ok := args.Lookup[T](a.Namespace(), p.key)
	if !ok {
		return nil, fmt.Errorf("no %v in the namespace", p.key)
	}
	return v, nil
}

func (namespaceProvider[T]) Suggest(string, *args.Namespace, []any) []string {
	return nil
}
