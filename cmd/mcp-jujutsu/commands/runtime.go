// Package commands implements the mcp-jujutsu CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/config"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
)

// runtime bundles the pieces every command needs: resolved configuration,
// the repository manager, and a logger honoring the logging settings.
type runtime struct {
	cfg     *config.Config
	manager *repo.Manager
	logger  *slog.Logger
}

// loadRuntime loads configuration and the repository manifest.
func loadRuntime(configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	manager, err := repo.LoadManifest(cfg.Repositories.Manifest)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", cfg.Repositories.Manifest, err)
	}

	return &runtime{
		cfg:     cfg,
		manager: manager,
		logger:  newLogger(cfg.Logging),
	}, nil
}

// newLogger builds an slog logger from the logging configuration. Output
// goes to stderr so stdout stays reserved for command results.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
