// Package config loads the YAML configuration of the multigram tool and
// translates it into engine, generation and logging settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/predict"
	"github.com/katalvlaran/multigram/token"
)

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("config: invalid value")

// Environment overrides.
const (
	EnvDB       = "MULTIGRAM_DB"
	EnvLogLevel = "MULTIGRAM_LOG_LEVEL"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = ".multigram/config.yaml"

// Config is the root configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Generate GenerateConfig `yaml:"generate"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EngineConfig configures learning.
type EngineConfig struct {
	MaxTokens    int     `yaml:"max_tokens"`
	MaxStrength  int     `yaml:"max_strength"`
	Threshold    float64 `yaml:"threshold"`
	PoolPolicy   string  `yaml:"pool_policy"` // skip, abort
	FollowCutoff float64 `yaml:"follow_cutoff"`
	Lowercase    bool    `yaml:"lowercase"`
}

// GenerateConfig configures generation.
type GenerateConfig struct {
	MaxLength int     `yaml:"max_length"`
	Threshold float64 `yaml:"threshold"`
}

// StoreConfig configures snapshot persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json, console
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxTokens:    multigram.DefaultMaxTokens,
			MaxStrength:  multigram.DefaultMaxStrength,
			Threshold:    token.MaxSimilarity,
			PoolPolicy:   multigram.PolicySkip.String(),
			FollowCutoff: 0,
			Lowercase:    true,
		},
		Generate: GenerateConfig{
			MaxLength: predict.DefaultMaxLength,
			Threshold: predict.DefaultThreshold,
		},
		Store: StoreConfig{
			Path: ".multigram/multigram.db",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv(EnvDB); path != "" {
		c.Store.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks every value against the ranges the packages accept.
func (c *Config) Validate() error {
	if _, err := c.EngineOptions(); err != nil {
		return err
	}
	if c.Engine.FollowCutoff < 0 || c.Engine.FollowCutoff > 1 {
		return fmt.Errorf("%w: follow_cutoff %v outside [0, 1]", ErrInvalid, c.Engine.FollowCutoff)
	}
	if c.Generate.MaxLength <= 0 {
		return fmt.Errorf("%w: max_length %d", ErrInvalid, c.Generate.MaxLength)
	}
	if c.Generate.Threshold < 0 {
		return fmt.Errorf("%w: generate threshold %v", ErrInvalid, c.Generate.Threshold)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("%w: store path is empty", ErrInvalid)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.Logging.Encoding != "json" && c.Logging.Encoding != "console" {
		return fmt.Errorf("%w: log encoding %q", ErrInvalid, c.Logging.Encoding)
	}

	return nil
}

// EngineOptions translates the engine section into multigram options.
func (c *Config) EngineOptions() ([]multigram.Option, error) {
	e := c.Engine
	if e.MaxTokens <= 0 || e.MaxStrength <= 0 {
		return nil, fmt.Errorf("%w: max_tokens %d, max_strength %d", ErrInvalid, e.MaxTokens, e.MaxStrength)
	}
	if e.Threshold <= 0 || e.Threshold > token.MaxSimilarity {
		return nil, fmt.Errorf("%w: threshold %v outside (0, %v]", ErrInvalid, e.Threshold, token.MaxSimilarity)
	}
	policy, err := multigram.ParsePoolPolicy(e.PoolPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return []multigram.Option{
		multigram.WithMaxTokens(e.MaxTokens),
		multigram.WithMaxStrength(e.MaxStrength),
		multigram.WithThreshold(e.Threshold),
		multigram.WithPoolPolicy(policy),
	}, nil
}

// GenerateOptions translates the generate section into predict options.
func (c *Config) GenerateOptions() []predict.Option {
	return []predict.Option{
		predict.WithMaxLength(c.Generate.MaxLength),
		predict.WithThreshold(c.Generate.Threshold),
	}
}

func (c *Config) level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return lvl, fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return lvl, nil
}

// Logger builds a production zap logger at the configured level; verbose
// forces Debug.
func (c *Config) Logger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	if c.Logging.Encoding != "" {
		zcfg.Encoding = c.Logging.Encoding
	}
	if zcfg.Encoding == "console" {
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
