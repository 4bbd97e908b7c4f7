package parametric

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/tokenizer"
)

var flagChar = regexp.MustCompile(`^[a-zA-Z]$`)

// Plan is the compiled, ordered parameter list of one command
type Plan struct {
	params     []Parameter
	valueFlags []rune
}

// ResolveOptions controls unconsumed input detection
type ResolveOptions struct {
	// IgnoreUnusedFlags accepts any flag no parameter claims
	IgnoreUnusedFlags bool
	// AllowedFlags may stay unclaimed without error
	AllowedFlags []rune
	// IgnoreUnusedArgs leaves extra positional tokens for the body to read
	IgnoreUnusedArgs bool
}

// Compile resolves a provider for every spec and validates the declaration order
func Compile(reg *binding.Registry, specs ...Spec) (*Plan, error) {
	p := &Plan{}
	seenOptional := false
	seenVariable := false
	flags := map[rune]bool{}

	for i, s := range specs {
		key := s.Key()
		b, ok := reg.Lookup(key)
		if !ok {
			return nil, derrors.NewConfigurationError(fmt.Sprintf("#%d", i),
				fmt.Sprintf("can't find a binding for the parameter type '%s' at #%d", key, i), nil)
		}

		mods, err := binding.CompileModifiers(s.modifiers)
		if err != nil {
			return nil, derrors.NewConfigurationError(s.displayName(),
				fmt.Sprintf("parameter #%d has an invalid modifier", i), err)
		}

		param := Parameter{
			Name:      s.displayName(),
			Key:       key,
			Defaults:  s.defaults,
			Modifiers: mods,
			Provider:  b.Provider,
			Consumes:  binding.ConsumedCount(b.Provider),
		}

		switch {
		case s.flag != 0:
			if s.optional {
				return nil, derrors.NewConfigurationError(param.Name,
					fmt.Sprintf("parameter #%d cannot be both a flag and optional", i), nil)
			}
			if !flagChar.MatchString(string(s.flag)) {
				return nil, derrors.NewConfigurationError(param.Name,
					fmt.Sprintf("'%c' is not a valid flag character for parameter #%d", s.flag, i), nil)
			}
			if flags[s.flag] {
				return nil, derrors.NewConfigurationError(param.Name,
					fmt.Sprintf("flag '-%c' is declared twice", s.flag), nil)
			}
			flags[s.flag] = true

			param.Option = OptionType{Shape: ValueFlag, Flag: s.flag}
			if s.typ.Kind() == reflect.Bool {
				param.Option.Shape = BooleanFlag
			} else {
				p.valueFlags = append(p.valueFlags, s.flag)
			}
		case s.optional:
			param.Option = OptionType{Shape: OptionalPositional}
			seenOptional = true
		default:
			param.Option = OptionType{Shape: Positional}
			// the look-ahead in mayConsume needs a known count for every
			// required positional behind an optional one
			if seenOptional && param.Consumes == binding.Variable {
				return nil, derrors.NewConfigurationError(param.Name,
					fmt.Sprintf("a non-optional parameter followed an optional parameter at #%d but takes all remaining arguments", i), nil)
			}
		}

		if !param.Option.IsFlag() && param.Consumes != 0 {
			if seenVariable {
				return nil, derrors.NewConfigurationError(param.Name,
					fmt.Sprintf("parameter #%d follows a parameter that takes all remaining arguments", i), nil)
			}
			seenVariable = param.Consumes == binding.Variable
		}

		p.params = append(p.params, param)
	}

	return p, nil
}

// MustCompile is like Compile but panics on a declaration error
func MustCompile(reg *binding.Registry, specs ...Spec) *Plan {
	p, err := Compile(reg, specs...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parameters returns every compiled parameter
func (p *Plan) Parameters() []Parameter {
	return slices.Clone(p.params)
}

// UserParameters returns the parameters whose values come from the command line
func (p *Plan) UserParameters() []Parameter {
	var out []Parameter
	for _, param := range p.params {
		if param.IsUser() {
			out = append(out, param)
		}
	}
	return out
}

// ValueFlags returns the characters the tokenizer must treat as value flags
func (p *Plan) ValueFlags() []rune {
	return slices.Clone(p.valueFlags)
}

// Infos describes the user parameters for usage output
func (p *Plan) Infos() []command.ParameterInfo {
	var out []command.ParameterInfo
	for _, param := range p.UserParameters() {
		out = append(out, param.Info())
	}
	return out
}

// Resolve reads every parameter from a and checks nothing was left over
func (p *Plan) Resolve(a args.Args, opts ResolveOptions) ([]any, error) {
	flags := a.Flags()
	values := make([]any, len(p.params))

	for i, param := range p.params {
		scoped := a
		switch param.Option.Shape {
		case BooleanFlag:
			v := "false"
			if _, ok := flags[param.Option.Flag]; ok {
				v = "true"
			}
			scoped = args.NewListArgs([]string{v}, flags, a.Namespace())
		case ValueFlag:
			var tokens []string
			if v, ok := flags[param.Option.Flag]; ok {
				tokens = []string{v}
			}
			scoped = args.NewListArgs(tokens, flags, a.Namespace())
		}

		v, err := p.resolveOne(i, scoped, a)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	if err := p.checkUnconsumed(a, flags, opts); err != nil {
		return nil, err
	}
	return values, nil
}

func (p *Plan) resolveOne(i int, scoped, a args.Args) (any, error) {
	param := p.params[i]

	if param.Option.Shape == OptionalPositional && !p.mayConsume(i, a) {
		return p.defaultValue(param, a)
	}

	v, err := param.Provider.Get(scoped, param.Modifiers)
	if err == nil {
		return v, nil
	}

	var (
		missing  *derrors.MissingArgumentError
		parseErr *derrors.ParseError
	)
	switch {
	case errors.As(err, &missing):
		if param.Option.IsOptional() {
			return p.defaultValue(param, a)
		}
		return nil, derrors.NewMissingArgumentError(param.Name, "")
	case errors.As(err, &parseErr):
		if parseErr.Parameter == "" {
			return nil, parseErr.WithParameter(param.Name)
		}
		return nil, parseErr
	}
	return nil, err
}

// mayConsume reports whether optional parameter i can take a token without
// starving a later required positional parameter.
func (p *Plan) mayConsume(i int, a args.Args) bool {
	free := a.Size() - a.Position()
	for _, later := range p.params[i+1:] {
		if later.Option.Shape != Positional || later.Consumes <= 0 {
			continue
		}
		free -= later.Consumes
	}
	return free >= 1
}

func (p *Plan) defaultValue(param Parameter, a args.Args) (any, error) {
	if len(param.Defaults) == 0 {
		return reflect.Zero(param.Key.Type).Interface(), nil
	}

	list := args.NewListArgs(nil, a.Flags(), a.Namespace())
	for i := len(param.Defaults) - 1; i >= 0; i-- {
		list.Insert(param.Defaults[i])
	}

	v, err := param.Provider.Get(list, param.Modifiers)
	if err != nil {
		return nil, derrors.NewConfigurationError(param.Name, fmt.Sprintf(
			"No value was specified for the '%s' parameter so the default value '%s' was used, but this value doesn't work due to an error",
			param.Name, strings.Join(param.Defaults, " ")), err)
	}
	return v, nil
}

func (p *Plan) checkUnconsumed(a args.Args, flags map[rune]string, opts ResolveOptions) error {
	var unused []string
	if !opts.IgnoreUnusedArgs {
		unused = args.Remaining(a)
	}

	if !opts.IgnoreUnusedFlags {
		claimed := map[rune]bool{tokenizer.HelpFlag: true}
		for _, param := range p.params {
			if param.Option.IsFlag() {
				claimed[param.Option.Flag] = true
			}
		}
		for _, f := range opts.AllowedFlags {
			claimed[f] = true
		}

		var extra []rune
		for f := range flags {
			if !claimed[f] {
				extra = append(extra, f)
			}
		}
		slices.Sort(extra)
		for _, f := range extra {
			unused = append(unused, "-"+string(f))
		}
	}

	if len(unused) > 0 {
		return derrors.NewUnusedArgumentError(unused)
	}
	return nil
}

// ParameterAt returns the user parameter that positional token index would be read by
func (p *Plan) ParameterAt(index int) (Parameter, bool) {
	pos := 0
	for _, param := range p.params {
		if param.Option.IsFlag() || param.Consumes == 0 {
			continue
		}
		if param.Consumes == binding.Variable {
			return param, index >= pos
		}
		if index < pos+param.Consumes {
			return param, index >= pos
		}
		pos += param.Consumes
	}
	return Parameter{}, false
}

// FlagParameter returns the parameter bound to flag f
func (p *Plan) FlagParameter(f rune) (Parameter, bool) {
	for _, param := range p.params {
		if param.Option.IsFlag() && param.Option.Flag == f {
			return param, true
		}
	}
	return Parameter{}, false
}
