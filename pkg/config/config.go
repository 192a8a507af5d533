package config

import (
	"bytes"
	_ "embed"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidConfig is returned when a config file does not match the schema.
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed schema.json
var schemaJSON []byte

// Config holds all configuration options for reactify.
type Config struct {
	// State primitive the rewrite targets
	Runtime RuntimeConfig `koanf:"runtime" toml:"runtime" yaml:"runtime" json:"runtime"`

	// Naming of generated bindings
	Rewrite RewriteConfig `koanf:"rewrite" toml:"rewrite" yaml:"rewrite" json:"rewrite"`

	// Include restricts discovery to files matching any of these globs.
	Include []string `koanf:"include" toml:"include,omitempty" yaml:"include,omitempty" json:"include,omitempty"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" yaml:"exclude" json:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" yaml:"cache" json:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output" json:"output"`

	// Workers bounds parallel file processing; 0 means twice the CPU count.
	Workers int `koanf:"workers" toml:"workers" yaml:"workers" json:"workers"`
}

// RuntimeConfig names the state primitive and the hook namespace.
type RuntimeConfig struct {
	Module    string `koanf:"module" toml:"module" yaml:"module" json:"module"`
	Export    string `koanf:"export" toml:"export" yaml:"export" json:"export"`
	Namespace string `koanf:"namespace" toml:"namespace" yaml:"namespace" json:"namespace"`
}

// RewriteConfig controls generated names and error tolerance.
type RewriteConfig struct {
	SetterPrefix string `koanf:"setter_prefix" toml:"setter_prefix" yaml:"setter_prefix" json:"setter_prefix"`
	SetterCase   string `koanf:"setter_case" toml:"setter_case" yaml:"setter_case" json:"setter_case"` // verbatim, capitalize
	UIDHint      string `koanf:"uid_hint" toml:"uid_hint" yaml:"uid_hint" json:"uid_hint"`
	AllowErrors  bool   `koanf:"allow_errors" toml:"allow_errors" yaml:"allow_errors" json:"allow_errors"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" yaml:"patterns" json:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs" yaml:"dirs" json:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" yaml:"gitignore" json:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" yaml:"dir" json:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" yaml:"ttl" json:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format" yaml:"format" json:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color" yaml:"color" json:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose" yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Module:    "react",
			Export:    "useState",
			Namespace: "React",
		},
		Rewrite: RewriteConfig{
			SetterPrefix: "set",
			SetterCase:   "verbatim",
			UIDHint:      "unique",
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
				"*.test.*",
				"*.spec.*",
			},
			Dirs: []string{
				"node_modules",
				".git",
				".reactify",
				"dist",
				"build",
				"coverage",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".reactify/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// configNames are searched in order in each search directory.
var configNames = []string{
	"reactify.toml",
	"reactify.yaml",
	"reactify.yml",
	"reactify.json",
	".reactify.toml",
	".reactify.yaml",
	".reactify.yml",
	".reactify.json",
}

// LoadResult is a loaded configuration and where it came from.
type LoadResult struct {
	Config *Config
	// Source is the file the config was read from, empty for defaults.
	Source string
}

type loadOptions struct {
	path string
	dir  string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads exactly this file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithDir searches for a config file under dir instead of the working directory.
func WithDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.dir = dir
	}
}

// LoadConfig loads the config named by WithPath, or the first config file in
// the standard locations, or the defaults when there is none.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := loadOptions{dir: "."}
	for _, opt := range opts {
		opt(&o)
	}

	if o.path != "" {
		cfg, err := Load(o.path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: o.path}, nil
	}

	if path := Find(o.dir); path != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: path}, nil
	}
	return &LoadResult{Config: DefaultConfig()}, nil
}

// Find returns the first config file in dir or dir/.reactify, or "".
func Find(dir string) string {
	for _, sub := range []string{"", ".reactify"} {
		for _, name := range configNames {
			path := filepath.Join(dir, sub, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Load loads configuration from a file, validating it against the schema.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := validate(k.Raw()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	result, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

var schema = func() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("config: bad embedded schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("reactify.schema.json", doc); err != nil {
		panic(fmt.Sprintf("config: bad embedded schema: %v", err))
	}
	return c.MustCompile("reactify.schema.json")
}()

// validate checks raw koanf data against the schema. The data is
// round-tripped through JSON so that TOML and YAML integers compare as
// JSON numbers.
func validate(raw map[string]any) error {
	data, err := stdjson.Marshal(raw)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid include pattern %q", p))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WorkerCount returns the effective number of parallel workers.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU() * 2
}

// ShouldExclude checks if a path should be excluded from processing.
func (c *Config) ShouldExclude(path string) bool {
	path = filepath.ToSlash(path)

	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, "/"+dir+"/") || strings.HasPrefix(path, dir+"/") {
			return true
		}
	}

	// Check pattern exclusions
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// ShouldInclude reports whether path matches the include globs. An empty
// include list matches everything.
func (c *Config) ShouldInclude(path string) bool {
	if len(c.Include) == 0 {
		return true
	}
	path = filepath.ToSlash(path)
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
