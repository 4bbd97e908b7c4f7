package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
)

// Tree output formats
const (
	TreeText = "text"
	TreeYAML = "yaml"
	TreeJSON = "json"
)

// TreeNode is one command of the printed tree
type TreeNode struct {
	Aliases     []string   `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Usage       string     `yaml:"usage,omitempty" json:"usage,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Permissions []string   `yaml:"permissions,omitempty" json:"permissions,omitempty"`
	Default     bool       `yaml:"default,omitempty" json:"default,omitempty"`
	Permitted   bool       `yaml:"permitted" json:"permitted"`
	Children    []TreeNode `yaml:"children,omitempty" json:"children,omitempty"`
}

// BuildTree describes every mapping below d, sorted by primary alias.
// Permitted is evaluated against ns.
func BuildTree(d *dispatcher.Dispatcher, ns *args.Namespace) []TreeNode {
	var out []TreeNode
	fallback, hasDefault := d.Default()

	if hasDefault && len(fallback.Aliases) == 0 {
		out = append(out, treeNode(fallback, true, ns))
	}

	mappings := d.Commands()
	slices.SortFunc(mappings, func(a, b *dispatcher.Mapping) int {
		return strings.Compare(a.Primary(), b.Primary())
	})
	for _, m := range mappings {
		out = append(out, treeNode(m, hasDefault && m == fallback, ns))
	}
	return out
}

func treeNode(m *dispatcher.Mapping, isDefault bool, ns *args.Namespace) TreeNode {
	desc := m.Callable.Description()
	n := TreeNode{
		Aliases:     m.Aliases,
		Usage:       desc.Usage(),
		Description: desc.Short,
		Permissions: desc.Permissions,
		Default:     isDefault,
		Permitted:   m.Callable.TestPermission(ns),
	}
	if sub, ok := m.Callable.(*dispatcher.Dispatcher); ok {
		n.Children = BuildTree(sub, ns)
	}
	return n
}

// Tree prints the command tree in the given format
func (c *Console) Tree(format string) error {
	nodes := BuildTree(c.root, c.Namespace())

	switch strings.ToLower(format) {
	case "", TreeText:
		writeTree(c.out, nodes, 0)
		return nil
	case TreeYAML:
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(nodes); err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		return enc.Close()
	case TreeJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	}
	return fmt.Errorf("unsupported tree format: %s (expected text, yaml or json)", format)
}

func writeTree(w io.Writer, nodes []TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		name := strings.Join(n.Aliases, ", ")
		if name == "" {
			name = "(default)"
		} else if n.Default {
			name += " (default)"
		}

		line := indent + valueStyle.Render(name)
		if len(n.Children) == 0 && n.Usage != "" {
			line += " " + n.Usage
		}
		if n.Description != "" {
			line += subtleStyle.Render("  " + n.Description)
		}
		if !n.Permitted {
			line += errorStyle.Render(" [denied]")
		}
		fmt.Fprintln(w, line)

		writeTree(w, n.Children, depth+1)
	}
}
