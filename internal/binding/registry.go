package binding

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// Binding pairs a key with its provider
type Binding struct {
	Key      Key
	Provider Provider
}

// Registry maps keys to providers. It is populated during setup and read-only
// afterwards; it is not safe for concurrent registration.
type Registry struct {
	bindings map[reflect.Type][]Binding
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[reflect.Type][]Binding)}
}

// Bind registers p under key. Binding the exact same key twice is an error.
func (r *Registry) Bind(key Key, p Provider) error {
	if key.Type == nil {
		return derrors.NewConfigurationError("binding", "cannot bind a nil type", nil)
	}
	if p == nil {
		return derrors.NewConfigurationError(key.String(), "cannot bind a nil provider", nil)
	}

	list := r.bindings[key.Type]
	i, found := slices.BinarySearchFunc(list, key, func(b Binding, k Key) int {
		return b.Key.Compare(k)
	})
	if found {
		return derrors.NewConfigurationError(key.String(),
			fmt.Sprintf("a binding for %s is already registered", key), nil)
	}
	r.bindings[key.Type] = slices.Insert(list, i, Binding{Key: key, Provider: p})
	return nil
}

// Lookup returns the binding serving key. Classified bindings are preferred.
func (r *Registry) Lookup(key Key) (Binding, bool) {
	for _, b := range r.bindings[key.Type] {
		if b.Key.Matches(key) {
			return b, true
		}
	}
	return Binding{}, false
}

// Bindings returns every binding in key order
func (r *Registry) Bindings() []Binding {
	var out []Binding
	for _, list := range r.bindings {
		out = append(out, list...)
	}
	slices.SortFunc(out, func(a, b Binding) int { return a.Key.Compare(b.Key) })
	return out
}

// Install configures each module against the registry
func (r *Registry) Install(modules ...Module) error {
	for _, m := range modules {
		b := &Binder{registry: r}
		m.Configure(b)
		if err := errors.Join(b.errs...); err != nil {
			return err
		}
	}
	return nil
}

// Module is a batch of registrations
type Module interface {
	Configure(b *Binder)
}

// ModuleFunc adapts a function into a Module
type ModuleFunc func(b *Binder)

// Configure calls f(b)
func (f ModuleFunc) Configure(b *Binder) { f(b) }

// Binder collects registrations from a module
type Binder struct {
	registry *Registry
	errs     []error
}

// Bind registers p under key
func (b *Binder) Bind(key Key, p Provider) {
	if err := b.registry.Bind(key, p); err != nil {
		b.errs = append(b.errs, err)
	}
}

// Bind starts a binding for T
func Bind[T any](b *Binder) *BindingBuilder {
	return &BindingBuilder{binder: b, key: KeyFor[T]()}
}

// BindingBuilder is the fluent form of Binder.Bind
type BindingBuilder struct {
	binder *Binder
	key    Key
}

// Classified narrows the binding to a classifier
func (bb *BindingBuilder) Classified(c Classifier) *BindingBuilder {
	bb.key.Classifier = c
	return bb
}

// ToProvider completes the binding with p
func (bb *BindingBuilder) ToProvider(p Provider) {
	bb.binder.Bind(bb.key, p)
}

// ToInstance completes the binding with a supplied constant
func (bb *BindingBuilder) ToInstance(v any) {
	bb.binder.Bind(bb.key, Constant(v))
}
