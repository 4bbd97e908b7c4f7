// Package binding maps parameter types to the providers that produce their values.
package binding

import (
	"cmp"
	"reflect"
)

// Classifier distinguishes several providers registered for the same type
type Classifier string

const (
	// Text captures every remaining positional token joined by spaces
	Text Classifier = "Text"
	// Raw captures the verbatim remainder of the original line
	Raw Classifier = "Raw"
)

// Key identifies a binding: a type plus an optional classifier
type Key struct {
	Type       reflect.Type
	Classifier Classifier
}

// KeyFor returns the key for T, classified by c when given
func KeyFor[T any](c ...Classifier) Key {
	k := Key{Type: reflect.TypeOf((*T)(nil)).Elem()}
	if len(c) > 0 {
		k.Classifier = c[0]
	}
	return k
}

// Classified reports whether the key carries a classifier
func (k Key) Classified() bool {
	return k.Classifier != ""
}

// Matches reports whether a binding stored under k can serve a request for req.
// An unclassified binding serves any classifier of its type; a classified
// binding only serves requests carrying the same classifier.
func (k Key) Matches(req Key) bool {
	if k.Type != req.Type {
		return false
	}
	return !k.Classified() || k.Classifier == req.Classifier
}

// Compare orders keys totally: classified keys first, then by type identity,
// then by classifier.
func (k Key) Compare(o Key) int {
	if k.Classified() != o.Classified() {
		if k.Classified() {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(typeID(k.Type), typeID(o.Type)); c != 0 {
		return c
	}
	return cmp.Compare(k.Classifier, o.Classifier)
}

func (k Key) String() string {
	if k.Classified() {
		return "@" + string(k.Classifier) + " " + typeID(k.Type)
	}
	return typeID(k.Type)
}

func typeID(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
