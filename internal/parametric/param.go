// Package parametric compiles declared parameters into a resolution plan and
// runs the invocation pipeline of leaf commands.
package parametric

import (
	"reflect"
	"slices"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
)

// Shape is how a parameter consumes input
type Shape int

const (
	// Positional reads from the positional stream and is required
	Positional Shape = iota
	// OptionalPositional reads from the positional stream when enough tokens remain
	OptionalPositional
	// BooleanFlag is set by the presence of its flag
	BooleanFlag
	// ValueFlag reads the value given after its flag
	ValueFlag
)

func (s Shape) String() string {
	switch s {
	case OptionalPositional:
		return "optional"
	case BooleanFlag:
		return "boolean flag"
	case ValueFlag:
		return "value flag"
	default:
		return "positional"
	}
}

// OptionType is a parameter's consumption shape plus its flag character
type OptionType struct {
	Shape Shape
	Flag  rune
}

// IsOptional reports whether a missing value falls back to the default
func (o OptionType) IsOptional() bool {
	return o.Shape != Positional
}

// IsFlag reports whether the value comes from the flag map
func (o OptionType) IsFlag() bool {
	return o.Shape == BooleanFlag || o.Shape == ValueFlag
}

// Spec declares one parameter of a command
type Spec struct {
	typ        reflect.Type
	classifier binding.Classifier
	name       string
	flag       rune
	optional   bool
	defaults   []string
	modifiers  []any
}

// Param declares a parameter of type T
func Param[T any]() Spec {
	return Spec{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// As sets the classifier used to look up the provider
func (s Spec) As(c binding.Classifier) Spec {
	s.classifier = c
	return s
}

// Named overrides the display name
func (s Spec) Named(name string) Spec {
	s.name = name
	return s
}

// Flag makes the parameter a flag: a boolean flag for bool, a value flag otherwise
func (s Spec) Flag(f rune) Spec {
	s.flag = f
	return s
}

// Optional makes a positional parameter optional with the given default tokens
func (s Spec) Optional(defaults ...string) Spec {
	s.optional = true
	s.defaults = slices.Clone(defaults)
	return s
}

// Default sets default tokens without making the parameter optional; for flags
func (s Spec) Default(defaults ...string) Spec {
	s.defaults = slices.Clone(defaults)
	return s
}

// With attaches modifier tags for the provider
func (s Spec) With(mods ...any) Spec {
	s.modifiers = append(slices.Clone(s.modifiers), mods...)
	return s
}

// Key returns the binding key of the parameter
func (s Spec) Key() binding.Key {
	return binding.Key{Type: s.typ, Classifier: s.classifier}
}

func (s Spec) displayName() string {
	switch {
	case s.name != "":
		return s.name
	case s.classifier != "":
		return strings.ToLower(string(s.classifier))
	case s.typ == nil:
		return "value"
	}

	t := s.typ
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	return strings.ToLower(t.String())
}

// Parameter is a compiled parameter descriptor
type Parameter struct {
	Name      string
	Key       binding.Key
	Option    OptionType
	Defaults  []string
	Modifiers []any
	Provider  binding.Provider
	// Consumes is the number of positional tokens read, or binding.Variable
	Consumes int
}

// IsUser reports whether the user supplies the value on the command line
func (p Parameter) IsUser() bool {
	return !p.Provider.Provided()
}

// Info describes the parameter for usage output
func (p Parameter) Info() command.ParameterInfo {
	return command.ParameterInfo{
		Name:     p.Name,
		Flag:     p.Option.Flag,
		HasValue: p.Option.Shape == ValueFlag,
		Optional: p.Option.IsOptional(),
		Variadic: p.Consumes == binding.Variable,
		Default:  p.Defaults,
	}
}
