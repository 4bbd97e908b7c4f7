package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
)

// fakeLeaf suggests from a fixed list filtered by the last token
type fakeLeaf struct {
	short  string
	values []string
}

func (f *fakeLeaf) Call(context.Context, string, *args.Namespace, []string) error { return nil }

func (f *fakeLeaf) Suggestions(arguments string, _ *args.Namespace) ([]string, error) {
	tokens := strings.Split(arguments, " ")
	prefix := tokens[len(tokens)-1]
	var out []string
	for _, v := range f.values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeLeaf) Description() command.Description { return command.Description{Short: f.short} }

func (f *fakeLeaf) TestPermission(*args.Namespace) bool { return true }

// fakeNode mimics a dispatcher: one token suggests aliases, more delegate
type fakeNode struct {
	short    string
	children map[string]command.Callable
}

func (f *fakeNode) Call(context.Context, string, *args.Namespace, []string) error { return nil }

func (f *fakeNode) Child(alias string) (command.Callable, bool) {
	c, ok := f.children[alias]
	return c, ok
}

func (f *fakeNode) Suggestions(arguments string, ns *args.Namespace) ([]string, error) {
	selector, rest, found := strings.Cut(strings.TrimLeft(arguments, " "), " ")
	if !found {
		var out []string
		for alias := range f.children {
			if strings.HasPrefix(alias, selector) {
				out = append(out, alias)
			}
		}
		sort.Strings(out)
		return out, nil
	}
	child, ok := f.children[selector]
	if !ok {
		return nil, nil
	}
	return child.Suggestions(rest, ns)
}

func (f *fakeNode) Description() command.Description { return command.Description{Short: f.short} }

func (f *fakeNode) TestPermission(*args.Namespace) bool { return true }

func newTree() *fakeNode {
	return &fakeNode{children: map[string]command.Callable{
		"body": &fakeNode{short: "Manage celestial bodies", children: map[string]command.Callable{
			"info":    &fakeLeaf{short: "Show a body", values: []string{"mars", "mercury", "moon"}},
			"settemp": &fakeLeaf{short: "Set the temperature", values: []string{"mars", "mercury"}},
		}},
		"msg": &fakeLeaf{short: "Message a user", values: []string{"alice", "bob"}},
	}}
}
