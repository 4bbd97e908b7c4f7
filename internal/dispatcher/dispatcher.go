// Package dispatcher routes command lines to sub-commands by alias.
package dispatcher

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/completion"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// Mapping binds a callable to its aliases. The first alias is the primary one.
type Mapping struct {
	Aliases  []string
	Callable command.Callable
}

// Primary returns the primary alias, or "" for a default-only mapping
func (m *Mapping) Primary() string {
	if len(m.Aliases) == 0 {
		return ""
	}
	return m.Aliases[0]
}

// Dispatcher is a dispatch node: it selects a child by the first token of
// the line, or falls back to its default mapping.
type Dispatcher struct {
	short    string
	help     string
	mappings []*Mapping
	byAlias  map[string]*Mapping
	fallback *Mapping
}

var (
	_ command.Callable     = (*Dispatcher)(nil)
	_ completion.Navigator = (*Dispatcher)(nil)
)

// New creates an empty dispatcher
func New() *Dispatcher {
	return &Dispatcher{byAlias: make(map[string]*Mapping)}
}

// Describe sets the short description and help text
func (d *Dispatcher) Describe(short, help string) *Dispatcher {
	d.short = short
	d.help = help
	return d
}

// Register maps c under aliases. Aliases are matched case-insensitively
// and cannot be replaced once registered.
func (d *Dispatcher) Register(c command.Callable, aliases ...string) error {
	if c == nil {
		return derrors.NewConfigurationError("callable", "can't register a nil command", nil)
	}
	if len(aliases) == 0 {
		return derrors.NewConfigurationError("aliases", "a command needs at least one alias", nil)
	}
	seen := make(map[string]bool, len(aliases))
	for _, alias := range aliases {
		key := strings.ToLower(alias)
		if key == "" || strings.ContainsAny(key, " \t") {
			return derrors.NewConfigurationError("aliases",
				fmt.Sprintf("'%s' is not a valid alias", alias), nil)
		}
		if _, ok := d.byAlias[key]; ok || seen[key] {
			return derrors.NewConfigurationError("aliases",
				fmt.Sprintf("can't add the command '%s' because the dispatcher does not support replacing commands", alias), nil)
		}
		seen[key] = true
	}

	m := &Mapping{Aliases: slices.Clone(aliases), Callable: c}
	d.mappings = append(d.mappings, m)
	for _, alias := range aliases {
		d.byAlias[strings.ToLower(alias)] = m
	}
	return nil
}

// RegisterDefault makes c the node's default mapping, used when the first
// token matches no alias. With no aliases the mapping is default-only.
func (d *Dispatcher) RegisterDefault(c command.Callable, aliases ...string) error {
	if d.fallback != nil {
		return derrors.NewConfigurationError("default",
			"the dispatcher does not support replacing the default command mapping", nil)
	}
	if len(aliases) > 0 {
		if err := d.Register(c, aliases...); err != nil {
			return err
		}
		d.fallback = d.mappings[len(d.mappings)-1]
		return nil
	}
	if c == nil {
		return derrors.NewConfigurationError("callable", "can't register a nil command", nil)
	}
	d.fallback = &Mapping{Callable: c}
	return nil
}

// Get returns the mapping registered under alias
func (d *Dispatcher) Get(alias string) (*Mapping, bool) {
	m, ok := d.byAlias[strings.ToLower(alias)]
	return m, ok
}

// Child returns the callable registered under alias
func (d *Dispatcher) Child(alias string) (command.Callable, bool) {
	m, ok := d.Get(alias)
	if !ok {
		return nil, false
	}
	return m.Callable, true
}

// Default returns the default mapping, if any
func (d *Dispatcher) Default() (*Mapping, bool) {
	return d.fallback, d.fallback != nil
}

// Commands returns the aliased mappings in registration order
func (d *Dispatcher) Commands() []*Mapping {
	return slices.Clone(d.mappings)
}

// Aliases returns every registered alias, sorted
func (d *Dispatcher) Aliases() []string {
	out := make([]string, 0, len(d.byAlias))
	for _, m := range d.mappings {
		out = append(out, m.Aliases...)
	}
	slices.Sort(out)
	return out
}

// PrimaryAliases returns the primary alias of each mapping, sorted
func (d *Dispatcher) PrimaryAliases() []string {
	out := make([]string, 0, len(d.mappings))
	for _, m := range d.mappings {
		out = append(out, m.Primary())
	}
	slices.Sort(out)
	return out
}

// Call selects a child by the first token and calls it with the rest of the line
func (d *Dispatcher) Call(ctx context.Context, arguments string, ns *args.Namespace, parents []string) error {
	if ns == nil {
		ns = args.NewNamespace()
	}
	if len(d.mappings) == 0 && d.fallback == nil {
		return d.usage("This command has no sub-commands.", parents, false)
	}
	if !d.TestPermission(ns) {
		return derrors.NewAuthorizationError(parents)
	}

	line := strings.TrimLeft(arguments, " ")
	selector, rest, _ := strings.Cut(line, " ")

	if selector != "" {
		if m, ok := d.Get(selector); ok {
			return m.Callable.Call(ctx, rest, ns, append(slices.Clone(parents), selector))
		}
	}
	if d.fallback != nil {
		trail := slices.Clone(parents)
		if primary := d.fallback.Primary(); primary != "" {
			trail = append(trail, primary)
		}
		return d.fallback.Callable.Call(ctx, line, ns, trail)
	}

	message := "Please choose a sub-command."
	if selector != "" {
		if similar := completion.Similar(selector, d.permittedAliases(ns), 3); len(similar) > 0 {
			message += " Did you mean '" + strings.Join(similar, "', '") + "'?"
		}
	}
	return d.usage(message, parents, true)
}

func (d *Dispatcher) usage(message string, parents []string, fullHelp bool) error {
	e := derrors.NewInvalidUsageError(message, parents, fullHelp, nil)
	e.Usage = d.Description().Usage()
	return e
}

func (d *Dispatcher) permittedAliases(ns *args.Namespace) []string {
	var out []string
	for _, m := range d.mappings {
		if m.Callable.TestPermission(ns) {
			out = append(out, m.Aliases...)
		}
	}
	return out
}

// Suggestions completes a sub-command alias while the first token is being
// typed, then delegates to the selected child
func (d *Dispatcher) Suggestions(arguments string, ns *args.Namespace) ([]string, error) {
	if ns == nil {
		ns = args.NewNamespace()
	}
	line := strings.TrimLeft(arguments, " ")
	selector, rest, more := strings.Cut(line, " ")

	if more {
		if m, ok := d.Get(selector); ok {
			return m.Callable.Suggestions(rest, ns)
		}
		if d.fallback != nil && d.fallback.Callable.TestPermission(ns) {
			return d.fallback.Callable.Suggestions(line, ns)
		}
		return nil, nil
	}

	prefix := strings.ToLower(selector)
	var out []string
	for _, m := range d.mappings {
		if !m.Callable.TestPermission(ns) {
			continue
		}
		for _, alias := range m.Aliases {
			if strings.HasPrefix(strings.ToLower(alias), prefix) {
				out = append(out, alias)
				break
			}
		}
	}
	slices.Sort(out)

	if d.fallback != nil && d.fallback.Callable.TestPermission(ns) {
		values, err := d.fallback.Callable.Suggestions(line, ns)
		if err != nil {
			return nil, err
		}
		out = append(out, values...)
	}
	return out, nil
}

// TestPermission passes when at least one child is permitted
func (d *Dispatcher) TestPermission(ns *args.Namespace) bool {
	for _, m := range d.mappings {
		if m.Callable.TestPermission(ns) {
			return true
		}
	}
	return d.fallback != nil && d.fallback.Callable.TestPermission(ns)
}

// Description lists the children when no help text was set
func (d *Dispatcher) Description() command.Description {
	desc := command.Description{
		Short:         d.short,
		Help:          d.help,
		UsageOverride: "<sub-command>",
	}

	var perms []string
	for _, m := range d.all() {
		for _, p := range m.Callable.Description().Permissions {
			if !slices.Contains(perms, p) {
				perms = append(perms, p)
			}
		}
	}
	slices.Sort(perms)
	desc.Permissions = perms

	if desc.Help == "" && len(d.mappings) > 0 {
		desc.Help = d.listing()
	}
	return desc
}

func (d *Dispatcher) all() []*Mapping {
	if d.fallback != nil && len(d.fallback.Aliases) == 0 {
		return append(slices.Clone(d.mappings), d.fallback)
	}
	return d.mappings
}

func (d *Dispatcher) listing() string {
	sorted := slices.Clone(d.mappings)
	slices.SortFunc(sorted, func(a, b *Mapping) int {
		return strings.Compare(a.Primary(), b.Primary())
	})

	width := 0
	names := make([]string, len(sorted))
	for i, m := range sorted {
		names[i] = strings.Join(m.Aliases, ", ")
		width = max(width, len(names[i]))
	}

	var b strings.Builder
	b.WriteString("Sub-commands:")
	for i, m := range sorted {
		if short := m.Callable.Description().Short; short != "" {
			fmt.Fprintf(&b, "\n  %-*s  %s", width, names[i], short)
		} else {
			b.WriteString("\n  " + names[i])
		}
	}
	return b.String()
}

// Walk calls fn for every leaf below d, depth first in primary alias order.
// A default-only leaf is reported under its dispatcher's path.
func Walk(d *Dispatcher, fn func(path []string, c command.Callable)) {
	walk(d, nil, fn)
}

func walk(d *Dispatcher, path []string, fn func([]string, command.Callable)) {
	if d.fallback != nil && len(d.fallback.Aliases) == 0 {
		visit(d.fallback.Callable, path, fn)
	}
	sorted := slices.Clone(d.mappings)
	slices.SortFunc(sorted, func(a, b *Mapping) int {
		return strings.Compare(a.Primary(), b.Primary())
	})
	for _, m := range sorted {
		visit(m.Callable, append(slices.Clone(path), m.Primary()), fn)
	}
}

func visit(c command.Callable, path []string, fn func([]string, command.Callable)) {
	if sub, ok := c.(*Dispatcher); ok {
		walk(sub, path, fn)
		return
	}
	fn(path, c)
}
