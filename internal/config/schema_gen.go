//go:build ignore

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
)

// SchemaConfig represents the root configuration for schema generation
type SchemaConfig struct {
	LogLevel          string                `json:"log_level,omitempty" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=warning,enum=error,enum=fatal,enum=panic,description=Logging level of the console"`
	Executor          *ExecutorConfig       `json:"executor,omitempty"`
	Subject           *SubjectConfig        `json:"subject,omitempty"`
	IgnoreUnusedFlags bool                  `json:"ignore_unused_flags,omitempty" jsonschema:"description=Accept flags that no parameter claims,default=false"`
	History           *HistoryConfig        `json:"history,omitempty"`
	Universe          map[string]BodyConfig `json:"universe,omitempty" jsonschema:"description=Celestial bodies known at startup\\, by name"`
	Users             []string              `json:"users,omitempty" jsonschema:"uniqueItems=true,description=Users that can be messaged"`
}

// ExecutorConfig selects how command bodies run
type ExecutorConfig struct {
	Mode    string `json:"mode,omitempty" jsonschema:"enum=direct,enum=pool,default=direct,description=How command bodies run"`
	Workers int    `json:"workers,omitempty" jsonschema:"minimum=1,default=1,description=Number of workers of the pool executor"`
	Timeout string `json:"timeout,omitempty" jsonschema:"description=Maximum duration of one command (Go duration\\, empty for none)"`
}

// HistoryConfig controls the command history
type HistoryConfig struct {
	File  string `json:"file,omitempty" jsonschema:"description=File persisting the history (empty keeps it in memory)"`
	Limit int    `json:"limit,omitempty" jsonschema:"minimum=0,default=500,description=Number of entries kept"`
}

// SubjectConfig describes the console caller
type SubjectConfig struct {
	Name        string   `json:"name,omitempty" jsonschema:"minLength=1,description=Name of the console caller"`
	Permissions []string `json:"permissions,omitempty" jsonschema:"description=Granted permissions: exact\\, prefix.* or *"`
	GrantsFile  string   `json:"grants_file,omitempty" jsonschema:"description=File persisting the grants across sessions"`
}

// BodyConfig seeds one celestial body
type BodyConfig struct {
	Type            string  `json:"type" jsonschema:"required,enum=star,enum=planet,enum=dwarf planet,enum=moon,enum=comet,enum=asteroid,description=Celestial type"`
	MeanTemperature float64 `json:"mean_temperature,omitempty" jsonschema:"description=Mean temperature in degrees Celsius"`
	Description     string  `json:"description,omitempty" jsonschema:"description=Free text description"`
}

func main() {
	r := &jsonschema.Reflector{
		DoNotReference:             false,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&SchemaConfig{})

	// Restrict body names with patternProperties instead of additionalProperties
	if universe, ok := schema.Properties.Get("universe"); ok {
		universe.PatternProperties = map[string]*jsonschema.Schema{
			"^[a-zA-Z][a-zA-Z0-9_-]*$": universe.AdditionalProperties,
		}
		universe.AdditionalProperties = jsonschema.FalseSchema
	}

	// Use draft-07 for IDE compatibility
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.ID = "https://raw.githubusercontent.com/NikitaCOEUR/cmdgraph/main/schema/cmdgraph.schema.json"
	schema.Title = "cmdgraph Configuration"
	schema.Description = "Configuration file for the cmdgraph console"

	// Generate JSON
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}

	// Write to file
	outputPath := "schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Schema generated: %s\n", outputPath)
}
