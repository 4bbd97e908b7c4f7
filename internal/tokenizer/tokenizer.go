// Package tokenizer splits a raw command line into positional tokens and flags.
package tokenizer

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// HelpFlag is the reserved flag that requests full usage
const HelpFlag = '?'

var flagPattern = regexp.MustCompile(`^-[a-zA-Z?]+$`)

// SuggestionKind tells a completer what the user is in the middle of typing
type SuggestionKind int

const (
	// HangingValue means the input ended with a space: a new positional value is expected
	HangingValue SuggestionKind = iota
	// LastValue means the last positional token is still being typed
	LastValue
	// FlagValue means the value of a value flag is being typed
	FlagValue
)

// SuggestionContext is derived from whether the raw input ended mid-token
type SuggestionContext struct {
	Kind SuggestionKind
	Flag rune
}

// ForFlag reports whether the context is awaiting a value for flag f
func (s SuggestionContext) ForFlag(f rune) bool {
	return s.Kind == FlagValue && s.Flag == f
}

func (s SuggestionContext) String() string {
	switch s.Kind {
	case LastValue:
		return "LAST_VALUE"
	case FlagValue:
		return "FLAG -" + string(s.Flag)
	default:
		return "HANGING_VALUE"
	}
}

// Options controls how a line is tokenized
type Options struct {
	// ValueFlags are the flag characters that consume the next token
	ValueFlags []rune
	// AllowHangingFlag tolerates a trailing value flag without a value (used for completion)
	AllowHangingFlag bool
}

// Context is the tokenized form of one command line
type Context struct {
	command    string
	original   []string
	parsed     []string
	argIndex   []int
	booleans   []rune
	values     map[rune]string
	suggestion SuggestionContext
}

// Split cuts a line on single spaces, keeping empty artifacts in place
func Split(line string) []string {
	return strings.Split(line, " ")
}

// Parse tokenizes a line whose first token is the command name
func Parse(line string, opts Options) (*Context, error) {
	return ParseArgs(Split(line), opts)
}

// ParseArgs tokenizes a pre-split line; args[0] is the command name
func ParseArgs(args []string, opts Options) (*Context, error) {
	c := &Context{
		original: slices.Clone(args),
		values:   make(map[rune]string),
	}
	if len(args) == 0 {
		return c, nil
	}
	c.command = args[0]

	argList, argIndex, hanging := mergeQuotes(args)

	valueFlags := make(map[rune]bool, len(opts.ValueFlags))
	for _, f := range opts.ValueFlags {
		valueFlags[f] = true
	}

	c.suggestion = SuggestionContext{Kind: HangingValue}

	for i := 0; i < len(argList); i++ {
		arg := argList[i]
		c.suggestion = SuggestionContext{Kind: HangingValue}

		if arg == "--" {
			for j := i + 1; j < len(argList); j++ {
				c.parsed = append(c.parsed, argList[j])
				c.argIndex = append(c.argIndex, argIndex[j])
			}
			if i+1 < len(argList) && !hanging {
				c.suggestion = SuggestionContext{Kind: LastValue}
			}
			break
		}

		if len(arg) < 2 || arg[0] != '-' || !flagPattern.MatchString(arg) {
			c.parsed = append(c.parsed, arg)
			c.argIndex = append(c.argIndex, argIndex[i])
			if !hanging {
				c.suggestion = SuggestionContext{Kind: LastValue}
			}
			continue
		}

		for _, f := range arg[1:] {
			if !valueFlags[f] {
				if !slices.Contains(c.booleans, f) {
					c.booleans = append(c.booleans, f)
				}
				continue
			}

			if _, given := c.values[f]; given {
				return nil, derrors.NewParseError(arg, fmt.Sprintf("Value flag '%c' already given", f), nil)
			}

			if i+1 >= len(argList) {
				if opts.AllowHangingFlag {
					c.suggestion = SuggestionContext{Kind: FlagValue, Flag: f}
					break
				}
				return nil, derrors.NewMissingArgumentError("-"+string(f),
					fmt.Sprintf("No value specified for the '-%c' flag.", f))
			}

			i++
			c.values[f] = argList[i]
			if !hanging {
				c.suggestion = SuggestionContext{Kind: FlagValue, Flag: f}
			}
		}
	}

	return c, nil
}

// mergeQuotes drops empty artifacts and joins quoted runs into single tokens.
// It returns the logical tokens, the original index of each, and whether the
// input ended with a space.
func mergeQuotes(args []string) ([]string, []int, bool) {
	var (
		argList  []string
		argIndex []int
		hanging  bool
	)

	for i := 1; i < len(args); i++ {
		hanging = false
		arg := args[i]
		if arg == "" {
			hanging = true
			continue
		}
		start := i

		if quote := arg[0]; quote == '\'' || quote == '"' {
			var b strings.Builder
			end := i
			closed := false
			for ; end < len(args); end++ {
				part := args[end]
				if end == i {
					if len(part) > 1 && part[len(part)-1] == quote {
						b.WriteString(part[1 : len(part)-1])
						closed = true
						break
					}
					b.WriteString(part[1:])
					continue
				}
				b.WriteByte(' ')
				if part != "" && part[len(part)-1] == quote {
					b.WriteString(part[:len(part)-1])
					closed = true
					break
				}
				b.WriteString(part)
			}

			if closed {
				arg = b.String()
				i = end
				if arg == "" {
					continue
				}
			}
		}

		argList = append(argList, arg)
		argIndex = append(argIndex, start)
	}

	return argList, argIndex, hanging
}

// Command returns the command name (the first token)
func (c *Context) Command() string {
	return c.command
}

// Matches reports whether the command name equals cmd, ignoring case
func (c *Context) Matches(cmd string) bool {
	return strings.EqualFold(c.command, cmd)
}

// Len returns the number of positional tokens
func (c *Context) Len() int {
	return len(c.parsed)
}

// Args returns a copy of the positional tokens
func (c *Context) Args() []string {
	return slices.Clone(c.parsed)
}

// Arg returns positional token i
func (c *Context) Arg(i int) string {
	return c.parsed[i]
}

// ArgOr returns positional token i, or def when out of range
func (c *Context) ArgOr(i int, def string) string {
	if i < 0 || i >= len(c.parsed) {
		return def
	}
	return c.parsed[i]
}

// Int parses positional token i as an int
func (c *Context) Int(i int) (int, error) {
	v, err := strconv.Atoi(c.ArgOr(i, ""))
	if err != nil {
		return 0, derrors.NewParseError(c.ArgOr(i, ""), fmt.Sprintf("Expected a number, got '%s'", c.ArgOr(i, "")), err)
	}
	return v, nil
}

// Float parses positional token i as a float64
func (c *Context) Float(i int) (float64, error) {
	v, err := strconv.ParseFloat(c.ArgOr(i, ""), 64)
	if err != nil {
		return 0, derrors.NewParseError(c.ArgOr(i, ""), fmt.Sprintf("Expected a number, got '%s'", c.ArgOr(i, "")), err)
	}
	return v, nil
}

// JoinedStrings returns the original, unmodified text from positional index onward
func (c *Context) JoinedStrings(index int) string {
	if index < 0 || index >= len(c.argIndex) {
		return ""
	}
	return strings.Join(c.original[c.argIndex[index]:], " ")
}

// RemainingString joins the positional tokens from start onward with single spaces
func (c *Context) RemainingString(start int) string {
	return c.StringRange(start, len(c.parsed)-1)
}

// StringRange joins the positional tokens start..end inclusive
func (c *Context) StringRange(start, end int) string {
	if start < 0 || start >= len(c.parsed) || end < start {
		return ""
	}
	end = min(end, len(c.parsed)-1)
	return strings.Join(c.parsed[start:end+1], " ")
}

// HasFlag reports whether f was given as a boolean or value flag
func (c *Context) HasFlag(f rune) bool {
	if _, ok := c.values[f]; ok {
		return true
	}
	return slices.Contains(c.booleans, f)
}

// Flag returns the value of value flag f
func (c *Context) Flag(f rune) (string, bool) {
	v, ok := c.values[f]
	return v, ok
}

// FlagOr returns the value of value flag f, or def
func (c *Context) FlagOr(f rune, def string) string {
	if v, ok := c.values[f]; ok {
		return v
	}
	return def
}

// FlagInt returns value flag f parsed as an int, or def when absent
func (c *Context) FlagInt(f rune, def int) (int, error) {
	v, ok := c.values[f]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, derrors.NewParseError(v, fmt.Sprintf("Expected a number, got '%s'", v), err)
	}
	return n, nil
}

// FlagFloat returns value flag f parsed as a float64, or def when absent
func (c *Context) FlagFloat(f rune, def float64) (float64, error) {
	v, ok := c.values[f]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, derrors.NewParseError(v, fmt.Sprintf("Expected a number, got '%s'", v), err)
	}
	return n, nil
}

// BooleanFlags returns the boolean flags in the order first seen
func (c *Context) BooleanFlags() []rune {
	return slices.Clone(c.booleans)
}

// ValueFlags returns a copy of the value flag map
func (c *Context) ValueFlags() map[rune]string {
	out := make(map[rune]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Flags returns every flag; boolean flags map to "true"
func (c *Context) Flags() map[rune]string {
	out := c.ValueFlags()
	for _, f := range c.booleans {
		out[f] = "true"
	}
	return out
}

// SuggestionContext returns what the input was waiting for when it ended
func (c *Context) SuggestionContext() SuggestionContext {
	return c.suggestion
}

// Original returns the raw split line, command name included
func (c *Context) Original() []string {
	return slices.Clone(c.original)
}

func (c *Context) String() string {
	return strings.Join(c.original, " ")
}
