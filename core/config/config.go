package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"uilens/core/logger"
)

// Library is a user-supplied library signature added on top of the
// built-in table.
type Library struct {
	Name       string   `yaml:"name"`
	Prefixes   []string `yaml:"prefixes"`
	Substrings []string `yaml:"substrings"`
}

type Watch struct {
	Exclude  []string `yaml:"exclude"`
	Debounce int      `yaml:"debounce_ms"`
}

type Config struct {
	ProjectRoot      string    `yaml:"project_root"`
	SourceExtensions []string  `yaml:"source_extensions"`
	AliasPrefixes    []string  `yaml:"alias_prefixes"`
	CoverageFile     string    `yaml:"coverage_file"`
	Libraries        []Library `yaml:"libraries"`
	Watch            Watch     `yaml:"watch"`
}

// DefaultExtensions is the resolution priority order for extensionless
// imports. Declaration files come last so a real implementation wins
// over its typings.
var DefaultExtensions = []string{".tsx", ".ts", ".jsx", ".js", ".mjs", ".cjs", ".d.ts"}

func Default() *Config {
	return &Config{
		ProjectRoot:      ".",
		SourceExtensions: DefaultExtensions,
		AliasPrefixes:    []string{"@/", "~/"},
		CoverageFile:     filepath.Join("coverage", "coverage-final.json"),
		Watch: Watch{
			Exclude:  []string{".git", "node_modules", "dist", "build", ".next", "coverage"},
			Debounce: 500,
		},
	}
}

// Load reads .uilens.yaml from the working directory, falling back to
// defaults when no config file exists. Values missing from the file
// keep their defaults.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}
	return LoadFrom(wd)
}

// LoadFrom reads .uilens.yaml from the given directory.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ".uilens.yaml")
	if _, err := os.Stat(path); err != nil {
		logger.Debug("No config file found, using default config")
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(cfg.SourceExtensions) == 0 {
		cfg.SourceExtensions = DefaultExtensions
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500
	}

	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: %+v", cfg)
	return cfg, nil
}
