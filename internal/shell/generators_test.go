package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var script = Script{
	Program:  "cmdgraph",
	Commands: []string{"run", "repl", "tree"},
	Runner:   "run",
}

func TestNewCompletionGenerator(t *testing.T) {
	for _, name := range Shells() {
		g, err := NewCompletionGenerator(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, name, g.Name())
	}

	_, err := NewCompletionGenerator("powershell")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bash, fish, zsh")
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{
			"_cmdgraph_complete() {",
			`compgen -W "run repl tree"`,
			`[[ "${COMP_WORDS[1]}" == "run" ]]`,
			"cmdgraph complete",
			"complete -o default -F _cmdgraph_complete cmdgraph",
		}},
		{"zsh", []string{
			"#compdef cmdgraph",
			"compadd -- run repl tree",
			"values+=(\"${line%%$'\\t'*}\")",
			"compdef _cmdgraph cmdgraph",
		}},
		{"fish", []string{
			"function __cmdgraph_complete",
			"-a 'run repl tree'",
			"__fish_seen_subcommand_from run",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			g, err := NewCompletionGenerator(tt.shell)
			require.NoError(t, err)

			out, err := g.Generate(script)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.NotContains(t, out, "{{")
		})
	}
}

func TestGenerate_InvalidScript(t *testing.T) {
	g, err := NewCompletionGenerator("bash")
	require.NoError(t, err)

	_, err = g.Generate(Script{Program: "my tool", Runner: "run"})
	assert.Error(t, err)

	_, err = g.Generate(Script{Program: "cmdgraph"})
	assert.Error(t, err)
}
