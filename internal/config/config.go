// Package config handles loading and parsing of cmdgraph console configuration files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// SupportedConfigNames contains supported configuration file names (in order of preference)
var SupportedConfigNames = []string{
	"cmdgraph.yml",
	"cmdgraph.yaml",
	"cmdgraph.toml",
	"cmdgraph.json",
}

const (
	// GlobalConfigName is the name of the global config file
	GlobalConfigName = "config.yml"

	// ExecutorDirect runs command bodies on the calling goroutine
	ExecutorDirect = "direct"
	// ExecutorPool runs command bodies on a fixed set of workers
	ExecutorPool = "pool"
)

//go:embed default.yml
var defaultYAML []byte

// ExecutorConfig selects how command bodies run
type ExecutorConfig struct {
	Mode    string `koanf:"mode"`
	Workers int    `koanf:"workers"`
	Timeout string `koanf:"timeout"`
}

// TimeoutDuration parses Timeout; an empty timeout means none
func (e ExecutorConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(e.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, derrors.NewConfigurationError("executor.timeout",
			fmt.Sprintf("invalid duration '%s'", e.Timeout), err)
	}
	return d, nil
}

// SubjectConfig describes the console caller and its grants
type SubjectConfig struct {
	Name        string   `koanf:"name"`
	Permissions []string `koanf:"permissions"`
	// GrantsFile persists grants across sessions when set
	GrantsFile string `koanf:"grants_file"`
}

// BodyConfig seeds one celestial body
type BodyConfig struct {
	Type            string  `koanf:"type"`
	MeanTemperature float64 `koanf:"mean_temperature"`
	Description     string  `koanf:"description"`
}

// HistoryConfig controls the command history of the console
type HistoryConfig struct {
	// File persists the history; empty keeps it in memory
	File  string `koanf:"file"`
	Limit int    `koanf:"limit"`
}

// Config represents a cmdgraph console configuration
type Config struct {
	LogLevel          string                `koanf:"log_level"`
	Executor          ExecutorConfig        `koanf:"executor"`
	Subject           SubjectConfig         `koanf:"subject"`
	IgnoreUnusedFlags bool                  `koanf:"ignore_unused_flags"`
	History           HistoryConfig         `koanf:"history"`
	Universe          map[string]BodyConfig `koanf:"universe"`
	Users             []string              `koanf:"users"`
}

// Format returns the koanf parser for a config format ("yaml", "toml" or "json")
func Format(format string) (koanf.Parser, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yml", "yaml":
		return yaml.Parser(), nil
	case "toml":
		return toml.Parser(), nil
	case "json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
}

// Default returns the built-in configuration
func Default() *Config {
	cfg, err := LoadBytes(nil, "")
	if err != nil {
		panic(fmt.Sprintf("built-in configuration is invalid: %v", err))
	}
	return cfg
}

// DefaultYAML returns the built-in configuration document
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads a configuration file and layers it over the built-in defaults
func Load(path string) (*Config, error) {
	if _, err := Format(filepath.Ext(path)); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return LoadBytes(data, filepath.Ext(path))
}

// LoadBytes parses content in the given format over the built-in defaults.
// A nil content yields the defaults alone.
func LoadBytes(content []byte, format string) (*Config, error) {
	// Create a new koanf instance for isolated loading
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if content != nil {
		parser, err := Format(format)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), parser); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg := &Config{Universe: make(map[string]BodyConfig)}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// GetGlobalConfigPath returns the path to the global config file
func GetGlobalConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		// Fallback to ~/.config
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, "cmdgraph", GlobalConfigName), nil
}

// FindConfigFile returns the first supported config file in dir
func FindConfigFile(dir string) (string, bool) {
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func newFieldError(field, message string) error {
	return derrors.NewConfigurationError(strings.ReplaceAll(field, "/", "."), message, nil)
}
