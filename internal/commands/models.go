package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/models"
	"github.com/diogo/ladderweb/internal/tui"
)

// NewModelsCmd creates the models command group
func NewModelsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the agent's language model",
		Long:  `List, switch and search the models the ladder agent can run.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List installed models",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
					out := cmd.OutOrStdout()
					available, err := client.AvailableModels(cmd.Context())
					if err != nil {
						return fmt.Errorf("failed to list models: %w", err)
					}
					surface := newSurface(out)
					fmt.Fprintln(out, surface.Panel(tui.ModelsTitle, surface.Models(*available)))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "select <name>",
			Short: "Switch the agent to another model",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
					name, err := client.SelectModel(cmd.Context(), args[0])
					if err != nil {
						return fmt.Errorf("failed to select model: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Model changed to %s\n", name)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "search [query]",
			Short: "Search the model library",
			Long:  fmt.Sprintf("Search downloadable models. The query defaults to %q.", models.DefaultModelQuery),
			RunE: func(cmd *cobra.Command, args []string) error {
				query := strings.TrimSpace(strings.Join(args, " "))
				if query == "" {
					query = models.DefaultModelQuery
				}
				return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
					out := cmd.OutOrStdout()
					res, err := client.SearchModels(cmd.Context(), query)
					if err != nil {
						return fmt.Errorf("error searching models: %w", err)
					}
					surface := newSurface(out)
					fmt.Fprintln(out, surface.Panel(tui.ModelSearchTitle, surface.ModelSearch(*res)))
					return nil
				})
			},
		},
	)
	return cmd
}
