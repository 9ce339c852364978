// Package config provides configuration management for analytic query execution
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv and Load
const EnvPrefix = "ANALYTIC_"

// Config represents the global configuration for analytic query execution
type Config struct {
	// Parallel Processing Configuration
	ParallelThreshold        int `json:"parallel_threshold" yaml:"parallel_threshold" koanf:"parallel_threshold"`                            // Minimum rows to trigger parallel processing
	WorkerPoolSize           int `json:"worker_pool_size" yaml:"worker_pool_size" koanf:"worker_pool_size"`                                  // Number of worker goroutines (0 = auto-detect)
	MinPartitionsForParallel int `json:"min_partitions_for_parallel" yaml:"min_partitions_for_parallel" koanf:"min_partitions_for_parallel"` // Minimum partitions to trigger parallel processing
	MaxParallelism           int `json:"max_parallelism" yaml:"max_parallelism" koanf:"max_parallelism"`                                     // Maximum number of parallel operations

	// Logging Configuration
	VerboseLogging bool   `json:"verbose_logging" yaml:"verbose_logging" koanf:"verbose_logging"` // Force debug level logging
	LogLevel       string `json:"log_level" yaml:"log_level" koanf:"log_level"`                   // debug, info, warn or error
	LogFormat      string `json:"log_format" yaml:"log_format" koanf:"log_format"`                // console or json

	MetricsCollection bool `json:"metrics_collection" yaml:"metrics_collection" koanf:"metrics_collection"` // Enable metrics collection
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultParallelThreshold        = 1000
	DefaultMinPartitionsForParallel = 2
	DefaultMaxParallelism           = 16
	DefaultLogLevel                 = "info"
	DefaultLogFormat                = "console"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validLogFormats = map[string]bool{"console": true, "json": true}

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		ParallelThreshold:        DefaultParallelThreshold,
		WorkerPoolSize:           0, // Auto-detect
		MinPartitionsForParallel: DefaultMinPartitionsForParallel,
		MaxParallelism:           DefaultMaxParallelism,

		VerboseLogging: false,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,

		MetricsCollection: false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}

	if c.MinPartitionsForParallel <= 0 {
		return fmt.Errorf("MinPartitionsForParallel must be positive, got %d", c.MinPartitionsForParallel)
	}

	if c.MaxParallelism <= 0 {
		return fmt.Errorf("MaxParallelism must be positive, got %d", c.MaxParallelism)
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("LogLevel must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	if !validLogFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("LogFormat must be console or json, got %q", c.LogFormat)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = defaults.ParallelThreshold
	}
	if c.MinPartitionsForParallel == 0 {
		c.MinPartitionsForParallel = defaults.MinPartitionsForParallel
	}
	if c.MaxParallelism == 0 {
		c.MaxParallelism = defaults.MaxParallelism
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}

	// Note: Boolean fields are intentionally not set to defaults here
	// This allows distinguishing between explicitly set false and unset values

	return c
}

// Workers returns the number of goroutines parallel execution may use
func (c Config) Workers() int {
	workers := c.WorkerPoolSize
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if c.MaxParallelism > 0 && workers > c.MaxParallelism {
		workers = c.MaxParallelism
	}
	return workers
}

// ShouldParallelize reports whether a query over rowCount rows split into partitionCount
// partitions should run its partitions concurrently
func (c Config) ShouldParallelize(rowCount, partitionCount int) bool {
	return rowCount >= c.ParallelThreshold &&
		partitionCount >= c.MinPartitionsForParallel &&
		c.Workers() > 1
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromEnv loads configuration from ANALYTIC_* environment variables on top of the defaults.
// Values that fail to parse are reported as an error.
func LoadFromEnv() (Config, error) {
	return Load("", nil)
}

// Load builds a configuration from layered sources.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// An empty path skips the file layer and a nil flag set skips the flag layer.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = kyaml.Parser()
		case ".json":
			parser = jsonParser{}
		default:
			return Config{}, fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Load environment variables
	// Transform: ANALYTIC_PARALLEL_THRESHOLD -> parallel_threshold
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaultsMap()[key]; !known {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ToYAML renders the configuration as YAML
func (c Config) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}
	return out, nil
}

func defaultsMap() map[string]interface{} {
	defaults := NewConfig()
	return map[string]interface{}{
		"parallel_threshold":          defaults.ParallelThreshold,
		"worker_pool_size":            defaults.WorkerPoolSize,
		"min_partitions_for_parallel": defaults.MinPartitionsForParallel,
		"max_parallelism":             defaults.MaxParallelism,
		"verbose_logging":             defaults.VerboseLogging,
		"log_level":                   defaults.LogLevel,
		"log_format":                  defaults.LogFormat,
		"metrics_collection":          defaults.MetricsCollection,
	}
}

// jsonParser implements koanf.Parser with goccy/go-json
type jsonParser struct{}

func (jsonParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (jsonParser) Marshal(o map[string]interface{}) ([]byte, error) {
	return json.Marshal(o)
}
