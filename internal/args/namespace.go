package args

import (
	"reflect"
)

// Namespace is a call-scoped key/value side channel. Keys are type tags or
// arbitrary comparable values. It is not safe for concurrent use.
type Namespace struct {
	values map[any]any
}

// NewNamespace creates an empty namespace
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[any]any)}
}

// Put stores value under key
func (n *Namespace) Put(key, value any) {
	n.values[key] = value
}

// Get returns the value stored under key
func (n *Namespace) Get(key any) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Has reports whether key is present
func (n *Namespace) Has(key any) bool {
	_, ok := n.values[key]
	return ok
}

// Remove deletes key
func (n *Namespace) Remove(key any) {
	delete(n.values, key)
}

// Len returns the number of entries
func (n *Namespace) Len() int {
	return len(n.values)
}

// TypeKey returns the type tag used to store a T
func TypeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Put stores v under the type tag of T
func Put[T any](n *Namespace, v T) {
	n.Put(TypeKey[T](), v)
}

// Get returns the value stored under the type tag of T
func Get[T any](n *Namespace) (T, bool) {
	return Lookup[T](n, TypeKey[T]())
}

// Lookup returns the value stored under key if it is a T
func Lookup[T any](n *Namespace, key any) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	v, ok := n.values[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
