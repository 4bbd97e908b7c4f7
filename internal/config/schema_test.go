package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWithSchema_ValidYAML(t *testing.T) {
	content := []byte(`
log_level: debug
executor:
  mode: pool
  workers: 2
  timeout: 500ms
subject:
  name: alice
  permissions: [body.*, users.msg]
ignore_unused_flags: false
universe:
  mars:
    type: planet
    mean_temperature: -65
users: [alice, bob]
`)

	result, err := ValidateWithSchema("test.yml", content)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateWithSchema_DefaultYAML(t *testing.T) {
	result, err := ValidateWithSchema("default.yml", DefaultYAML())
	require.NoError(t, err)
	assert.True(t, result.Valid, "%v", result.Errors)
}

func TestValidateWithSchema_EmptyDocument(t *testing.T) {
	result, err := ValidateWithSchema("empty.yaml", []byte(""))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateWithSchema_InvalidBodyName(t *testing.T) {
	content := []byte(`
universe:
  123invalid:
    type: planet
`)

	result, err := ValidateWithSchema("test.yml", content)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateWithSchema_UnknownBodyType(t *testing.T) {
	content := []byte(`
universe:
  mars:
    type: nebula
`)

	result, err := ValidateWithSchema("test.yml", content)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Field, "type")
}

func TestValidateWithSchema_MissingBodyType(t *testing.T) {
	content := []byte(`
universe:
  mars:
    mean_temperature: -65
`)

	result, err := ValidateWithSchema("test.yml", content)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateWithSchema_UnknownExecutorMode(t *testing.T) {
	result, err := ValidateWithSchema("test.json", []byte(`{"executor": {"mode": "threads"}}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateWithSchema_UnknownKey(t *testing.T) {
	result, err := ValidateWithSchema("test.yml", []byte("aliases:\n  ll: ls -la\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateWithSchema_DuplicateUsers(t *testing.T) {
	result, err := ValidateWithSchema("test.yml", []byte("users: [alice, alice]\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateWithSchema_TOML(t *testing.T) {
	content := []byte(`
log_level = "info"

[universe.vulcan]
type = "planet"
mean_temperature = 40.5
`)

	result, err := ValidateWithSchema("test.toml", content)
	require.NoError(t, err)
	assert.True(t, result.Valid, "%v", result.Errors)
}

func TestValidateWithSchema_InvalidSyntax(t *testing.T) {
	tests := []struct {
		path    string
		content string
		message string
	}{
		{"test.yml", "log_level: [[[", "Invalid YAML syntax"},
		{"test.json", "{not json", "Invalid JSON syntax"},
		{"test.toml", "= broken", "Invalid TOML syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result, err := ValidateWithSchema(tt.path, []byte(tt.content))
			require.NoError(t, err)
			assert.False(t, result.Valid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, "syntax", result.Errors[0].Field)
			assert.True(t, strings.HasPrefix(result.Errors[0].Message, tt.message))
		})
	}
}

func TestValidateWithSchema_UnsupportedFormat(t *testing.T) {
	_, err := ValidateWithSchema("test.ini", []byte(""))
	assert.Error(t, err)
}

func TestGetSchemaJSON(t *testing.T) {
	schema := GetSchemaJSON()
	assert.Contains(t, schema, "\"$schema\"")
	assert.Contains(t, schema, "BodyConfig")
}

func TestValidateWithSchema_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cmdgraph.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("subject:\n  name: \"\"\n"), 0644))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)

	result, err := ValidateWithSchema(configPath, content)
	require.NoError(t, err)
	assert.False(t, result.Valid, "an empty subject name violates minLength")
}
