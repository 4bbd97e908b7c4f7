package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ExecutorDirect, cfg.Executor.Mode)
	assert.Equal(t, "console", cfg.Subject.Name)
	assert.Contains(t, cfg.Subject.Permissions, "body.settemp")
	assert.NotContains(t, cfg.Subject.Permissions, "body.deathstar")
	assert.False(t, cfg.IgnoreUnusedFlags)
	assert.Equal(t, HistoryConfig{Limit: 500}, cfg.History)
	assert.Equal(t, []string{"console", "alice", "bob"}, cfg.Users)

	mercury, ok := cfg.Universe["mercury"]
	require.True(t, ok)
	assert.Equal(t, "planet", mercury.Type)
	assert.Equal(t, 167.0, mercury.MeanTemperature)
	assert.Equal(t, "dwarf planet", cfg.Universe["pluto"].Type)

	assert.True(t, Check(cfg).Valid, "the built-in configuration must pass its own checks")
}

func TestConfig_LoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cmdgraph.yml")

	yamlContent := `
log_level: debug
executor:
  mode: pool
  workers: 4
  timeout: 2s
subject:
  name: alice
  permissions: ["*"]
universe:
  kepler-22b:
    type: planet
    mean_temperature: 22
    description: Possibly habitable.
users: [alice, carol]
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ExecutorPool, cfg.Executor.Mode)
	assert.Equal(t, 4, cfg.Executor.Workers)
	assert.Equal(t, "alice", cfg.Subject.Name)
	assert.Equal(t, []string{"*"}, cfg.Subject.Permissions)
	assert.Equal(t, []string{"alice", "carol"}, cfg.Users)

	d, err := cfg.Executor.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	// Bodies are merged with the built-in universe
	assert.Equal(t, 22.0, cfg.Universe["kepler-22b"].MeanTemperature)
	assert.Contains(t, cfg.Universe, "mercury")
}

func TestConfig_LoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cmdgraph.toml")

	tomlContent := `
ignore_unused_flags = true

[executor]
mode = "pool"
workers = 2

[universe.vulcan]
type = "planet"
mean_temperature = 40.5
`
	require.NoError(t, os.WriteFile(configPath, []byte(tomlContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.True(t, cfg.IgnoreUnusedFlags)
	assert.Equal(t, 2, cfg.Executor.Workers)
	assert.Equal(t, 40.5, cfg.Universe["vulcan"].MeanTemperature)
	assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep their defaults")
}

func TestConfig_LoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cmdgraph.json")

	jsonContent := `{"subject": {"name": "bob", "permissions": ["users.msg"]}}`
	require.NoError(t, os.WriteFile(configPath, []byte(jsonContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.Subject.Name)
	assert.Equal(t, []string{"users.msg"}, cfg.Subject.Permissions)
}

func TestConfig_LoadUnsupportedFormat(t *testing.T) {
	_, err := Load("/tmp/cmdgraph.ini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestConfig_LoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "cmdgraph.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestConfig_LoadInvalidSyntax(t *testing.T) {
	_, err := LoadBytes([]byte("executor: [[["), "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestLoadBytes_NilContentIsDefault(t *testing.T) {
	cfg, err := LoadBytes(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestExecutorConfig_TimeoutDuration(t *testing.T) {
	d, err := ExecutorConfig{}.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = ExecutorConfig{Timeout: "soon"}.TimeoutDuration()
	var cfgErr *derrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "executor.timeout", cfgErr.Field)
}

func TestFormat(t *testing.T) {
	for _, ext := range []string{".yml", "yaml", ".TOML", "json"} {
		p, err := Format(ext)
		assert.NoError(t, err, ext)
		assert.NotNil(t, p, ext)
	}
	_, err := Format(".xml")
	assert.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, ok := FindConfigFile(tmpDir)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "cmdgraph.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "cmdgraph.yml"), []byte("{}"), 0644))

	path, ok := FindConfigFile(tmpDir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(tmpDir, "cmdgraph.yml"), path, "yml is preferred")
}

func TestGetGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	path, err := GetGlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "cmdgraph", GlobalConfigName), path)
}

func TestDefaultYAML_IsACopy(t *testing.T) {
	a := DefaultYAML()
	a[0] = '#'
	assert.NotEqual(t, a[0], DefaultYAML()[0])
}
