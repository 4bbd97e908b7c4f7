package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// GetSchemaJSON returns the JSON Schema for cmdgraph configuration
func GetSchemaJSON() string {
	return schemaJSON
}

// ValidateWithSchema validates a config document against the JSON Schema.
// The format is taken from the extension of path.
func ValidateWithSchema(path string, content []byte) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	// Determine file format and convert to JSON-compatible structure
	var data interface{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			result.add("syntax", "Invalid YAML syntax: %v", err)
			return result, nil
		}
	case ".json":
		if err := json.Unmarshal(content, &data); err != nil {
			result.add("syntax", "Invalid JSON syntax: %v", err)
			return result, nil
		}
	case ".toml":
		m, err := toml.Parser().Unmarshal(content)
		if err != nil {
			result.add("syntax", "Invalid TOML syntax: %v", err)
			return result, nil
		}
		data = m
	default:
		return nil, fmt.Errorf("unsupported file format")
	}

	// An empty document is an empty configuration
	if data == nil {
		data = map[string]interface{}{}
	}

	// Load schema
	schemaLoader := gojsonschema.NewStringLoader(GetSchemaJSON())
	documentLoader := gojsonschema.NewGoLoader(data)

	// Validate
	validationResult, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	if !validationResult.Valid() {
		for _, err := range validationResult.Errors() {
			result.add(err.Field(), "%s", err.Description())
		}
	}

	return result, nil
}
