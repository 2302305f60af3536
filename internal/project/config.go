package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
)

// Config is the project configuration for the symbol-table tools.
type Config struct {
	// IncludeDirs are searched, in order, when resolving `include files.
	// The project root is always searched first.
	IncludeDirs []string `json:"include_dirs,omitempty"`

	// Files is an explicit, ordered list of translation units relative
	// to the project root. When set, it overrides FilePatterns.
	Files []string `json:"files,omitempty"`

	// FilePatterns are glob patterns, relative to the project root,
	// used to discover translation units when Files is empty.
	FilePatterns []string `json:"file_patterns,omitempty"`

	// Top names the design's top-level modules. Each must be declared
	// by some translation unit; missing or non-module tops are
	// diagnosed after resolution.
	Top []string `json:"top,omitempty"`
}

var defaultFilePatterns = []string{"*.sv", "*.svh", "*.v"}

// DefaultConfig is what a project without a config file gets.
func DefaultConfig() *Config {
	return &Config{FilePatterns: append([]string(nil), defaultFilePatterns...)}
}

// configFileNames are recognized inside a project directory, in
// priority order.
var configFileNames = []string{"sv_project.json", ".sv_project.json"}

// candidatePaths lists the configuration files to try, in order: the
// working directory, then the project root (when different), then the
// per-user config directory.
func candidatePaths(rootPath string) []string {
	var paths []string
	addDir := func(dir string) {
		for _, name := range configFileNames {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	cwd, err := os.Getwd()
	if err == nil {
		addDir(cwd)
	}
	if abs, err := filepath.Abs(rootPath); err == nil && abs != cwd {
		addDir(rootPath)
	}
	if confDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(confDir, "sv-symbols", "config.json"))
	}
	return paths
}

// Load returns the nearest configuration for a project rooted at
// rootPath. Candidates are simply opened in order: a missing file
// means "try the next one", while an unreadable or malformed file is
// an error. With no config file anywhere, the defaults apply.
func Load(rootPath string) (*Config, error) {
	for _, path := range candidatePaths(rootPath) {
		cfg, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		log.WithField("config", path).Debug("loaded project config")
		return cfg, nil
	}
	return DefaultConfig(), nil
}

// LoadFile loads one configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return &cfg, nil
}

// normalize cleans configured paths, drops empty entries, and restores
// the pattern defaults for configs that name neither files nor
// patterns.
func (c *Config) normalize() {
	cleanPaths := func(paths []string) []string {
		out := paths[:0]
		for _, p := range paths {
			if p != "" {
				out = append(out, filepath.Clean(p))
			}
		}
		return out
	}
	c.IncludeDirs = cleanPaths(c.IncludeDirs)
	c.Files = cleanPaths(c.Files)
	if len(c.Files) == 0 && len(c.FilePatterns) == 0 {
		c.FilePatterns = append([]string(nil), defaultFilePatterns...)
	}
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// TranslationUnits resolves the configured translation units for a
// project rooted at root. The explicit Files list wins, in its own
// order; otherwise FilePatterns are globbed under root, deduplicated,
// and sorted for a deterministic build order. Returned paths are
// joined with root.
func (c *Config) TranslationUnits(root string) ([]string, error) {
	if len(c.Files) > 0 {
		units := make([]string, 0, len(c.Files))
		for _, f := range c.Files {
			units = append(units, filepath.Join(root, f))
		}
		return units, nil
	}

	seen := make(map[string]bool)
	var units []string
	for _, pattern := range c.FilePatterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				units = append(units, m)
			}
		}
	}
	sort.Strings(units)
	return units, nil
}
