// Package main provides the entry point for the mcp-jujutsu CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasagiri/mcp-jujutsu-sub001/cmd/mcp-jujutsu/commands"
	"github.com/jasagiri/mcp-jujutsu-sub001/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcp-jujutsu",
		Short: "Cross-repository commit division for Jujutsu workspaces",
		Long: `mcp-jujutsu analyzes oversized commits spanning multiple Jujutsu
repositories and proposes a division into smaller, semantically coherent
commits.

Commands:
  analyze   Analyze a commit range and print the division proposal
  order     Print the topological execution order of the repositories
  mcp       Start the MCP server on stdio for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewOrderCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "mcp-jujutsu %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
