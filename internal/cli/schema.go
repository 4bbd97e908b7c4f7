package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/cmdgraph/internal/config"
)

// Schema prints the JSON Schema for cmdgraph configuration files, or writes
// it to outputPath when set
func Schema(out io.Writer, outputPath string) error {
	schemaJSON := config.GetSchemaJSON()

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(schemaJSON), 0644); err != nil {
			return fmt.Errorf("failed to write schema to %s: %w", outputPath, err)
		}
		fmt.Fprintf(out, "JSON Schema written to: %s\n", outputPath)
		return nil
	}

	fmt.Fprintln(out, schemaJSON)
	return nil
}
