package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

// OrderCommand holds the flags for the order command.
type OrderCommand struct {
	configPath   string
	repositories []string
	asJSON       bool
}

// NewOrderCommand creates and configures the order command.
func NewOrderCommand() *cobra.Command {
	cmd := &OrderCommand{}

	cobraCmd := &cobra.Command{
		Use:   "order",
		Short: "Print the topological execution order of the repositories",
		Long: `Print the order repositories must be processed in, derived from their
declared dependencies. Fails when the declarations form a cycle.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "Config file (default: search paths)")
	cobraCmd.Flags().StringSliceVarP(&cmd.repositories, "repos", "r", nil, "Repositories to order (default: all configured)")
	cobraCmd.Flags().BoolVar(&cmd.asJSON, "json", false, "Print the order as JSON")

	return cobraCmd
}

// Run executes the order command.
func (c *OrderCommand) Run(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime(c.configPath)
	if err != nil {
		return err
	}

	repositories, err := rt.manager.Select(c.repositories)
	if err != nil {
		return err
	}

	order, err := crossrepo.OrderRepositories(repositories)
	if err != nil {
		return err
	}

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(map[string][]string{"executionOrder": order})
	}

	for i, name := range order {
		fmt.Fprintf(os.Stdout, "%d. %s\n", i+1, name)
	}

	return nil
}
