// Package args provides forward-only cursors over command tokens and the
// call-scoped Namespace that travels alongside them.
package args

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/tokenizer"
)

// Args is a stateful reader over a token list
type Args interface {
	// HasNext reports whether another token is available
	HasNext() bool
	// Next returns the next token and advances, or fails with a MissingArgumentError
	Next() (string, error)
	// Peek returns the next token without advancing
	Peek() (string, error)
	// Position returns the index of the next token
	Position() int
	// Size returns the total number of tokens
	Size() int
	// MarkConsumed moves the cursor past every remaining token
	MarkConsumed()
	// Flags returns the flag map of the line being read
	Flags() map[rune]string
	// Namespace returns the call-scoped side channel
	Namespace() *Namespace
}

func errExhausted() error {
	return derrors.NewMissingArgumentError("", "")
}

// ListArgs reads from an explicit, mutable token list
type ListArgs struct {
	tokens    []string
	flags     map[rune]string
	namespace *Namespace
	position  int
}

// NewListArgs creates a cursor over tokens
func NewListArgs(tokens []string, flags map[rune]string, ns *Namespace) *ListArgs {
	if flags == nil {
		flags = map[rune]string{}
	}
	if ns == nil {
		ns = NewNamespace()
	}
	return &ListArgs{
		tokens:    append([]string(nil), tokens...),
		flags:     flags,
		namespace: ns,
	}
}

func (a *ListArgs) HasNext() bool { return a.position < len(a.tokens) }

func (a *ListArgs) Next() (string, error) {
	if !a.HasNext() {
		return "", errExhausted()
	}
	t := a.tokens[a.position]
	a.position++
	return t, nil
}

func (a *ListArgs) Peek() (string, error) {
	if !a.HasNext() {
		return "", errExhausted()
	}
	return a.tokens[a.position], nil
}

func (a *ListArgs) Position() int          { return a.position }
func (a *ListArgs) Size() int              { return len(a.tokens) }
func (a *ListArgs) MarkConsumed()          { a.position = len(a.tokens) }
func (a *ListArgs) Flags() map[rune]string { return a.flags }
func (a *ListArgs) Namespace() *Namespace  { return a.namespace }

// Insert splices a token in at the current position so it is read next
func (a *ListArgs) Insert(token string) {
	a.tokens = append(a.tokens, "")
	copy(a.tokens[a.position+1:], a.tokens[a.position:])
	a.tokens[a.position] = token
}

func (a *ListArgs) String() string {
	return fmt.Sprintf("ListArgs{%s @%d}", strings.Join(a.tokens, " "), a.position)
}

// ContextArgs is a read-only view over a tokenized line
type ContextArgs struct {
	context   *tokenizer.Context
	namespace *Namespace
	position  int
}

// NewContextArgs creates a cursor over the positional tokens of c
func NewContextArgs(c *tokenizer.Context, ns *Namespace) *ContextArgs {
	if ns == nil {
		ns = NewNamespace()
	}
	return &ContextArgs{context: c, namespace: ns}
}

func (a *ContextArgs) HasNext() bool { return a.position < a.context.Len() }

func (a *ContextArgs) Next() (string, error) {
	if !a.HasNext() {
		return "", errExhausted()
	}
	t := a.context.Arg(a.position)
	a.position++
	return t, nil
}

func (a *ContextArgs) Peek() (string, error) {
	if !a.HasNext() {
		return "", errExhausted()
	}
	return a.context.Arg(a.position), nil
}

func (a *ContextArgs) Position() int          { return a.position }
func (a *ContextArgs) Size() int              { return a.context.Len() }
func (a *ContextArgs) MarkConsumed()          { a.position = a.context.Len() }
func (a *ContextArgs) Flags() map[rune]string { return a.context.Flags() }
func (a *ContextArgs) Namespace() *Namespace  { return a.namespace }

// Context returns the underlying tokenized line
func (a *ContextArgs) Context() *tokenizer.Context { return a.context }

func (a *ContextArgs) String() string {
	return fmt.Sprintf("ContextArgs{%s @%d}", a.context, a.position)
}

// NextInt reads the next token as an int
func NextInt(a Args) (int, error) {
	v, err := nextNumber(a, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 0) })
	return int(v), err
}

// NextInt16 reads the next token as an int16
func NextInt16(a Args) (int16, error) {
	v, err := nextNumber(a, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 16) })
	return int16(v), err
}

// NextInt8 reads the next token as an int8
func NextInt8(a Args) (int8, error) {
	v, err := nextNumber(a, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 8) })
	return int8(v), err
}

// NextFloat64 reads the next token as a float64
func NextFloat64(a Args) (float64, error) {
	return nextNumber(a, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// NextFloat32 reads the next token as a float32
func NextFloat32(a Args) (float32, error) {
	v, err := nextNumber(a, func(s string) (float64, error) { return strconv.ParseFloat(s, 32) })
	return float32(v), err
}

func nextNumber[T int64 | float64](a Args, parse func(string) (T, error)) (T, error) {
	s, err := a.Next()
	if err != nil {
		return 0, err
	}
	v, err := parse(s)
	if err != nil {
		return 0, derrors.NewParseError(s, fmt.Sprintf("Expected a number, got '%s'", s), err)
	}
	return v, nil
}

// NextBool reads the next token as a yes/no value
func NextBool(a Args) (bool, error) {
	s, err := a.Next()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "yes", "true", "y", "1":
		return true, nil
	case "no", "false", "n", "0":
		return false, nil
	}
	return false, derrors.NewParseError(s, fmt.Sprintf("Expected a boolean (yes/no), got '%s'", s), nil)
}

// Remaining drains the cursor and returns the tokens it skipped
func Remaining(a Args) []string {
	var out []string
	for a.HasNext() {
		s, _ := a.Next()
		out = append(out, s)
	}
	return out
}
