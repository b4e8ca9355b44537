// Package config provides configuration loading and validation for the
// mcp-jujutsu server and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

// Sentinel validation errors.
var (
	ErrInvalidMaxGroupSize  = errors.New("max group size must be positive")
	ErrInvalidMinConfidence = errors.New("min confidence must lie in [0,1]")
	ErrInvalidTimeout       = errors.New("fetch timeout must be positive")
	ErrInvalidLogLevel      = errors.New("invalid log level")
)

// Default configuration values.
const (
	defaultManifest     = "repos.json"
	defaultFetchTimeout = 2 * time.Minute
	defaultDiagAddr     = "127.0.0.1:9090"
)

// validLogLevels enumerates the accepted logging.level values.
var validLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// Config holds all configuration for mcp-jujutsu.
type Config struct {
	Repositories RepositoriesConfig `mapstructure:"repositories"`
	Analysis     AnalysisConfig     `mapstructure:"analysis"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Diagnostics  DiagnosticsConfig  `mapstructure:"diagnostics"`
}

// RepositoriesConfig locates the static repository declarations.
type RepositoriesConfig struct {
	Manifest string `mapstructure:"manifest"`
}

// AnalysisConfig holds the engine settings plus ingestion bounds. The
// grouping fields mirror crossrepo.Config.
type AnalysisConfig struct {
	crossrepo.Config `mapstructure:",squash"`

	// FetchTimeout bounds the per-request diff ingestion phase. The engine
	// itself has no timeouts; ingestion is the only suspending operation.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DiagnosticsConfig holds the optional diagnostics HTTP endpoint settings.
type DiagnosticsConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

// Load reads configuration from the given file (or the default search
// paths when empty) and the MCP_JUJUTSU_* environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("mcp-jujutsu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mcp-jujutsu")
	}

	v.SetEnvPrefix("MCP_JUJUTSU")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := v.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&cfg)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

// setDefaults registers the default values for every key.
func setDefaults(v *viper.Viper) {
	defaults := crossrepo.DefaultConfig()

	v.SetDefault("repositories.manifest", defaultManifest)

	v.SetDefault("analysis.group_by_semantics", defaults.GroupBySemantics)
	v.SetDefault("analysis.group_by_dependency", defaults.GroupByDependency)
	v.SetDefault("analysis.group_by_file_type", defaults.GroupByFileType)
	v.SetDefault("analysis.group_by_directory", defaults.GroupByDirectory)
	v.SetDefault("analysis.dependency_detection", defaults.DependencyDetection)
	v.SetDefault("analysis.max_group_size", defaults.MaxGroupSize)
	v.SetDefault("analysis.min_confidence", defaults.MinConfidence)
	v.SetDefault("analysis.fetch_timeout", defaultFetchTimeout)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("diagnostics.enabled", false)
	v.SetDefault("diagnostics.addr", defaultDiagAddr)
}

// Validate checks the configuration invariants.
func Validate(cfg *Config) error {
	if cfg.Analysis.MaxGroupSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxGroupSize, cfg.Analysis.MaxGroupSize)
	}

	if cfg.Analysis.MinConfidence < 0 || cfg.Analysis.MinConfidence > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidMinConfidence, cfg.Analysis.MinConfidence)
	}

	if cfg.Analysis.FetchTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.Analysis.FetchTimeout)
	}

	if _, ok := validLogLevels[cfg.Logging.Level]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level)
	}

	return nil
}
