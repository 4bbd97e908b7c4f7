package binding

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// PrimitivesModule binds the built-in scalar types and the Text and Raw string classifiers
var PrimitivesModule = ModuleFunc(func(b *Binder) {
	Bind[bool](b).ToProvider(boolProvider{})
	Bind[int](b).ToProvider(numberProvider[int]{read: args.NextInt})
	Bind[int16](b).ToProvider(numberProvider[int16]{read: args.NextInt16})
	Bind[int8](b).ToProvider(numberProvider[int8]{read: args.NextInt8})
	Bind[float64](b).ToProvider(numberProvider[float64]{read: args.NextFloat64})
	Bind[float32](b).ToProvider(numberProvider[float32]{read: args.NextFloat32})
	Bind[string](b).ToProvider(stringProvider{})
	Bind[string](b).Classified(Text).ToProvider(textProvider{})
	Bind[string](b).Classified(Raw).ToProvider(rawProvider{})
})

// Range bounds a numeric parameter. Use Between, AtLeast or AtMost to build one.
type Range struct {
	Min float64
	Max float64
}

// Between bounds a value to [lo, hi]
func Between(lo, hi float64) Range { return Range{Min: lo, Max: hi} }

// AtLeast bounds a value from below
func AtLeast(lo float64) Range { return Range{Min: lo, Max: math.Inf(1)} }

// AtMost bounds a value from above
func AtMost(hi float64) Range { return Range{Min: math.Inf(-1), Max: hi} }

func (r Range) check(v float64) error {
	if v < r.Min {
		return derrors.NewParseError(formatFloat(v), fmt.Sprintf(
			"A valid value is greater than or equal to %s (you entered %s)", formatFloat(r.Min), formatFloat(v)), nil)
	}
	if v > r.Max {
		return derrors.NewParseError(formatFloat(v), fmt.Sprintf(
			"A valid value is less than or equal to %s (you entered %s)", formatFloat(r.Max), formatFloat(v)), nil)
	}
	return nil
}

// Validate restricts a string parameter to values fully matching Pattern
type Validate struct {
	Pattern string

	re *regexp.Regexp
}

// Compile returns v with its anchored pattern compiled, so a bad pattern
// surfaces when the command is declared instead of when it runs.
func (v Validate) Compile() (Validate, error) {
	if v.re != nil || v.Pattern == "" {
		return v, nil
	}
	re, err := regexp.Compile(`^(?:` + v.Pattern + `)$`)
	if err != nil {
		return v, derrors.NewConfigurationError("validate", "invalid validation pattern "+v.Pattern, err)
	}
	v.re = re
	return v, nil
}

// CompileModifiers returns a copy of mods with every Validate compiled
func CompileModifiers(mods []any) ([]any, error) {
	out := slices.Clone(mods)
	for i, m := range out {
		v, ok := m.(Validate)
		if !ok {
			continue
		}
		compiled, err := v.Compile()
		if err != nil {
			return nil, err
		}
		out[i] = compiled
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type boolProvider struct{}

func (boolProvider) Provided() bool { return false }

func (boolProvider) Get(a args.Args, _ []any) (any, error) {
	return args.NextBool(a)
}

func (boolProvider) Suggest(prefix string, _ *args.Namespace, _ []any) []string {
	var out []string
	for _, v := range []string{"true", "false", "yes", "no"} {
		if strings.HasPrefix(v, strings.ToLower(prefix)) {
			out = append(out, v)
		}
	}
	return out
}

type number interface {
	~int | ~int8 | ~int16 | ~float32 | ~float64
}

type numberProvider[T number] struct {
	read func(args.Args) (T, error)
}

func (numberProvider[T]) Provided() bool { return false }

func (p numberProvider[T]) Get(a args.Args, mods []any) (any, error) {
	v, err := p.read(a)
	if err != nil {
		return nil, err
	}
	if r, ok := FindModifier[Range](mods); ok {
		if err := r.check(float64(v)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (numberProvider[T]) Suggest(string, *args.Namespace, []any) []string {
	return nil
}

type stringProvider struct{}

func (stringProvider) Provided() bool { return false }

func (stringProvider) Get(a args.Args, mods []any) (any, error) {
	s, err := a.Next()
	if err != nil {
		return nil, err
	}
	return s, validateString(s, mods)
}

func (stringProvider) Suggest(string, *args.Namespace, []any) []string {
	return nil
}

func validateString(s string, mods []any) error {
	v, ok := FindModifier[Validate](mods)
	if !ok || v.Pattern == "" {
		return nil
	}
	v, err := v.Compile()
	if err != nil {
		return err
	}
	if !v.re.MatchString(s) {
		return derrors.NewParseError(s, fmt.Sprintf("The given text doesn't match the right format (technically speaking, the 'format' is %s)", v.Pattern), nil)
	}
	return nil
}

type textProvider struct{}

func (textProvider) Provided() bool { return false }
func (textProvider) Consumes() int  { return Variable }

func (textProvider) Get(a args.Args, mods []any) (any, error) {
	if !a.HasNext() {
		return nil, derrors.NewMissingArgumentError("", "")
	}
	s := strings.Join(args.Remaining(a), " ")
	return s, validateString(s, mods)
}

func (textProvider) Suggest(string, *args.Namespace, []any) []string {
	return nil
}

type rawProvider struct{}

func (rawProvider) Provided() bool { return false }
func (rawProvider) Consumes() int  { return Variable }

func (rawProvider) Get(a args.Args, mods []any) (any, error) {
	if !a.HasNext() {
		return nil, derrors.NewMissingArgumentError("", "")
	}
	ca, ok := a.(*args.ContextArgs)
	if !ok {
		return textProvider{}.Get(a, mods)
	}
	s := ca.Context().JoinedStrings(ca.Position())
	ca.MarkConsumed()
	return s, validateString(s, mods)
}

func (rawProvider) Suggest(string, *args.Namespace, []any) []string {
	return nil
}
