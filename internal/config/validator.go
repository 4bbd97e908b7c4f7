package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/NikitaCOEUR/cmdgraph/internal/universe"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) add(field, format string, a ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, a...)})
}

// Validate validates a config file
func Validate(path string) (*ValidationResult, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Try to load the config
	cfg, err := Load(path)
	if err != nil {
		result := &ValidationResult{}
		result.add("syntax", "Failed to parse config: %v", err)
		return result, nil
	}

	return Check(cfg), nil
}

// Check runs the semantic checks on a loaded configuration
func Check(cfg *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
			result.add("log_level", "Unknown log level '%s'", cfg.LogLevel)
		}
	}

	switch cfg.Executor.Mode {
	case "", ExecutorDirect:
	case ExecutorPool:
		if cfg.Executor.Workers < 1 {
			result.add("executor/workers", "A pool executor needs at least one worker (got %d)", cfg.Executor.Workers)
		}
	default:
		result.add("executor/mode", "Unknown executor mode '%s' (expected %s or %s)",
			cfg.Executor.Mode, ExecutorDirect, ExecutorPool)
	}

	if d, err := cfg.Executor.TimeoutDuration(); err != nil {
		result.add("executor/timeout", "Invalid timeout '%s'", cfg.Executor.Timeout)
	} else if d < 0 {
		result.add("executor/timeout", "Timeout must not be negative")
	}

	if cfg.History.Limit < 0 {
		result.add("history/limit", "History limit must not be negative (got %d)", cfg.History.Limit)
	}

	if strings.TrimSpace(cfg.Subject.Name) == "" {
		result.add("subject/name", "Subject name is empty")
	}
	for i, p := range cfg.Subject.Permissions {
		if strings.TrimSpace(p) == "" {
			result.add(fmt.Sprintf("subject/permissions/%d", i), "Permission is empty")
		}
	}

	names := make([]string, 0, len(cfg.Universe))
	for name := range cfg.Universe {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, err := universe.ParseType(cfg.Universe[name].Type); err != nil {
			result.add("universe/"+name+"/type", "Unknown celestial type '%s'", cfg.Universe[name].Type)
		}
	}

	seen := make(map[string]bool, len(cfg.Users))
	for i, u := range cfg.Users {
		key := strings.ToLower(strings.TrimSpace(u))
		switch {
		case key == "":
			result.add(fmt.Sprintf("users/%d", i), "User name is empty")
		case strings.ContainsAny(key, " \t"):
			result.add(fmt.Sprintf("users/%d", i), "User name '%s' contains whitespace", u)
		case seen[key]:
			result.add(fmt.Sprintf("users/%d", i), "Duplicate user '%s'", u)
		}
		seen[key] = true
	}

	return result
}

// Err returns the first validation error as a configuration error, or nil
func (r *ValidationResult) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0]
	return newFieldError(first.Field, first.Message)
}
