package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/config"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/jj"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/mcp"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/observability"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/semantic"
	"github.com/jasagiri/mcp-jujutsu-sub001/pkg/version"
)

// MCPCommand holds the flags for the mcp command.
type MCPCommand struct {
	configPath string
	debug      bool
}

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	cmd := &MCPCommand{}

	cobraCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the commit-division engine as tools that AI agents
can discover and invoke:
  - crossrepo_analyze: Propose a commit division for a range of changes
  - crossrepo_plan: The analyze proposal plus the repository execution order
  - repo_order: The topological order of the configured repositories`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "Config file (default: search paths)")
	cobraCmd.Flags().BoolVar(&cmd.debug, "debug", false, "Enable debug logging to stderr")

	return cobraCmd
}

// Run executes the mcp command.
func (c *MCPCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	providers, err := initMCPObservability(c.debug)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	manager, err := repo.LoadManifest(cfg.Repositories.Manifest)
	if err != nil {
		providers.Logger.Error("manifest load failed", "path", cfg.Repositories.Manifest, "error", err)

		return err
	}

	red, redErr := observability.NewREDMetrics(providers.Meter)
	if redErr != nil {
		return redErr
	}

	if cfg.Diagnostics.Enabled {
		diag, diagErr := observability.NewDiagnosticsServer(cfg.Diagnostics.Addr)
		if diagErr != nil {
			return diagErr
		}

		defer func() { _ = diag.Close() }()

		providers.Logger.Info("diagnostics server listening", "addr", diag.Addr())
	}

	deps := mcp.ServerDeps{
		Manager:    manager,
		Fetcher:    jj.NewClient(providers.Logger),
		Classifier: semantic.NewClassifier(),
		Analysis:   cfg.Analysis.Config,
		Logger:     providers.Logger,
		Metrics:    red,
		Tracer:     providers.Tracer,
	}

	srv := mcp.NewServer(deps)

	providers.Logger.Info("mcp server starting",
		"tools", srv.ListToolNames(), "repositories", manager.Names())

	return srv.Run(cobraCmd.Context())
}

func initMCPObservability(debug bool) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	cfg.Mode = observability.ModeMCP
	cfg.LogJSON = true

	if debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	return observability.Init(cfg)
}
