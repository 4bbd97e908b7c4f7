package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Print(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Schema(&out, ""))
	assert.Contains(t, out.String(), `"title": "cmdgraph Configuration"`)
}

func TestSchema_WriteToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "cmdgraph.schema.json")

	var out bytes.Buffer
	require.NoError(t, Schema(&out, outputFile))
	assert.Contains(t, out.String(), "JSON Schema written to:")

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	schemaStr := string(content)
	assert.Contains(t, schemaStr, `"$schema": "http://json-schema.org/draft-07/schema#"`)
	assert.Contains(t, schemaStr, `"universe"`)
	assert.Contains(t, schemaStr, `"executor"`)
	assert.Contains(t, schemaStr, `"ignore_unused_flags"`)
}

func TestSchema_WriteToFile_InvalidPath(t *testing.T) {
	err := Schema(&bytes.Buffer{}, "/nonexistent/directory/schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write schema")
}
