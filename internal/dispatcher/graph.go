package dispatcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
)

// Graph assembles a tree of dispatchers from command definitions.
// Errors are collected while building and reported by Err and Dispatcher.
type Graph struct {
	builder *parametric.Builder
	root    *Node
	errs    []error
}

// NewGraph creates a graph whose leaves are built by b
func NewGraph(b *parametric.Builder) *Graph {
	g := &Graph{builder: b}
	g.root = &Node{graph: g, dispatcher: New(), groups: make(map[string]*Node)}
	return g
}

// Builder returns the builder used for leaves
func (g *Graph) Builder() *parametric.Builder { return g.builder }

// Root returns the root node
func (g *Graph) Root() *Node { return g.root }

// Err returns every error collected so far
func (g *Graph) Err() error { return errors.Join(g.errs...) }

// Dispatcher returns the root dispatcher, or the collected errors
func (g *Graph) Dispatcher() (*Dispatcher, error) {
	if err := g.Err(); err != nil {
		return nil, err
	}
	return g.root.dispatcher, nil
}

func (g *Graph) fail(path []string, err error) {
	if len(path) > 0 {
		err = fmt.Errorf("%s: %w", strings.Join(path, " "), err)
	}
	g.errs = append(g.errs, err)
}

// Node is one dispatcher of a Graph
type Node struct {
	graph      *Graph
	parent     *Node
	path       []string
	dispatcher *Dispatcher
	groups     map[string]*Node
}

// Dispatcher returns the node's dispatcher
func (n *Node) Dispatcher() *Dispatcher { return n.dispatcher }

// Path returns the aliases leading to the node
func (n *Node) Path() []string { return n.path }

// Parent returns the enclosing node; the root is its own parent
func (n *Node) Parent() *Node {
	if n.parent == nil {
		return n
	}
	return n.parent
}

// Describe sets the node's description
func (n *Node) Describe(short, help string) *Node {
	n.dispatcher.Describe(short, help)
	return n
}

// Group returns the sub-node registered under aliases, creating it when the
// primary alias is new
func (n *Node) Group(aliases ...string) *Node {
	if len(aliases) == 0 {
		n.graph.fail(n.path, errors.New("a group needs at least one alias"))
		return n
	}
	if g, ok := n.groups[strings.ToLower(aliases[0])]; ok {
		return g
	}

	child := &Node{
		graph:      n.graph,
		parent:     n,
		path:       append(append([]string{}, n.path...), aliases[0]),
		dispatcher: New(),
		groups:     make(map[string]*Node),
	}
	if err := n.dispatcher.Register(child.dispatcher, aliases...); err != nil {
		n.graph.fail(n.path, err)
		return child
	}
	for _, a := range aliases {
		n.groups[strings.ToLower(a)] = child
	}
	return child
}

// Register builds each definition and registers it under its aliases, below
// the nested groups named by Definition.Group
func (n *Node) Register(defs ...parametric.Definition) *Node {
	for _, def := range defs {
		if c, target, ok := n.build(def); ok {
			if err := target.dispatcher.Register(c, def.Aliases...); err != nil {
				n.graph.fail(target.path, err)
			}
		}
	}
	return n
}

// RegisterDefault builds def and makes it the default mapping of its group.
// A definition without aliases is default-only.
func (n *Node) RegisterDefault(def parametric.Definition) *Node {
	if c, target, ok := n.build(def); ok {
		if err := target.dispatcher.RegisterDefault(c, def.Aliases...); err != nil {
			n.graph.fail(target.path, err)
		}
	}
	return n
}

// Add registers an already built callable
func (n *Node) Add(c command.Callable, aliases ...string) *Node {
	if err := n.dispatcher.Register(c, aliases...); err != nil {
		n.graph.fail(n.path, err)
	}
	return n
}

func (n *Node) build(def parametric.Definition) (*parametric.Command, *Node, bool) {
	target := n
	for _, g := range def.Group {
		target = target.Group(g)
	}
	c, err := n.graph.builder.Build(def)
	if err != nil {
		n.graph.fail(target.path, err)
		return nil, nil, false
	}
	return c, target, true
}
