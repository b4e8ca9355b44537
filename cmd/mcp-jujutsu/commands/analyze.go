package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/jj"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/render"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/semantic"
)

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	configPath   string
	repositories []string
	from         string
	to           string
	format       string
	output       string
	showDiffs    bool
}

// NewAnalyzeCommand creates and configures the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a commit range and propose a commit division",
		Long: `Analyze the changes in a commit range across the configured repositories
and print a proposal dividing them into smaller, coherent commits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "Config file (default: search paths)")
	cobraCmd.Flags().StringSliceVarP(&cmd.repositories, "repos", "r", nil, "Repositories to analyze (default: all configured)")
	cobraCmd.Flags().StringVar(&cmd.from, "from", "", "Start revision of the commit range")
	cobraCmd.Flags().StringVar(&cmd.to, "to", "", "End revision of the commit range")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", "text", "Output format: text, json, or markdown")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "Output file (default: stdout)")
	cobraCmd.Flags().BoolVar(&cmd.showDiffs, "show-diffs", false, "Include inline diff previews in text output")

	return cobraCmd
}

// Run executes the analyze command.
func (c *AnalyzeCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	format, err := render.ParseFormat(c.format)
	if err != nil {
		return err
	}

	rt, err := loadRuntime(c.configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cobraCmd.Context(), rt.cfg.Analysis.FetchTimeout)
	defer cancel()

	proposal, err := crossrepo.AnalyzeRepositories(
		ctx,
		rt.manager,
		jj.NewClient(rt.logger),
		semantic.NewClassifier(),
		c.repositories,
		crossrepo.CommitRange{From: c.from, To: c.to},
		rt.cfg.Analysis.Config,
		rt.logger,
	)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	writer, closeWriter, err := c.openOutput()
	if err != nil {
		return err
	}
	defer closeWriter()

	return render.Proposal(writer, proposal, format, render.Options{ShowDiffs: c.showDiffs})
}

// openOutput opens the output destination (stdout or a file).
func (c *AnalyzeCommand) openOutput() (*os.File, func(), error) {
	if c.output == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(c.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
