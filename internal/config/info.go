package config

import (
	"fmt"
	"os"
)

// Kinds of configuration source, in order of precedence
const (
	SourceExplicit = "explicit"
	SourceLocal    = "local"
	SourceGlobal   = "global"
	SourceDefault  = "default"
)

// Source describes where a configuration was loaded from
type Source struct {
	Kind string
	Path string
}

func (s Source) String() string {
	if s.Path == "" {
		return s.Kind
	}
	return fmt.Sprintf("%s (%s)", s.Kind, s.Path)
}

// Resolve loads the configuration that applies in dir: the explicit path when
// given, else a cmdgraph.* file in dir, else the global file, else the defaults
func Resolve(explicit, dir string) (*Config, Source, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, Source{}, fmt.Errorf("config file not found: %s", explicit)
		}
		cfg, err := Load(explicit)
		return cfg, Source{Kind: SourceExplicit, Path: explicit}, err
	}

	if dir != "" {
		if path, ok := FindConfigFile(dir); ok {
			cfg, err := Load(path)
			return cfg, Source{Kind: SourceLocal, Path: path}, err
		}
	}

	if globalPath, err := GetGlobalConfigPath(); err == nil {
		if _, err := os.Stat(globalPath); err == nil {
			cfg, err := Load(globalPath)
			return cfg, Source{Kind: SourceGlobal, Path: globalPath}, err
		}
	}

	return Default(), Source{Kind: SourceDefault}, nil
}
