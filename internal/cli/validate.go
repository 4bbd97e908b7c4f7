package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/cmdgraph/internal/config"
)

// Validate validates a cmdgraph configuration file. With no path, the
// cmdgraph.* file of the current directory is used.
func Validate(out io.Writer, configPath string) error {
	if configPath == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		path, ok := config.FindConfigFile(currentDir)
		if !ok {
			return fmt.Errorf("no config file found in current directory")
		}
		configPath = path
	}

	fmt.Fprintf(out, "Validating: %s\n\n", configPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Schema first, then the semantic checks
	result, err := config.ValidateWithSchema(configPath, content)
	if err != nil {
		return err
	}

	if result.Valid {
		customResult, err := config.Validate(configPath)
		if err != nil {
			return err
		}
		if !customResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, customResult.Errors...)
		}
	}

	if result.Valid {
		fmt.Fprintln(out, "✅ Configuration is valid!")
		return nil
	}

	fmt.Fprintln(out, "❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	fmt.Fprintf(out, "\nFound %d error(s)\n", len(result.Errors))

	return fmt.Errorf("validation failed")
}
