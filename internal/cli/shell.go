package cli

import (
	"fmt"
	"io"

	"github.com/NikitaCOEUR/cmdgraph/internal/shell"
)

// Completion writes the completion script of shellName for script
func Completion(out io.Writer, shellName string, script shell.Script) error {
	gen, err := shell.NewCompletionGenerator(shellName)
	if err != nil {
		return err
	}
	code, err := gen.Generate(script)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, code)
	return err
}
