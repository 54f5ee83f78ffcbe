package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/chat"
	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/models"
	"github.com/diogo/ladderweb/internal/render"
	"github.com/diogo/ladderweb/internal/tui"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the stored agent conversation",
		Long:  `Print the chat history kept by the ladder backend, oldest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				out := cmd.OutOrStdout()

				entries, err := client.ChatHistory(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load history: %w", err)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No chat history.")
					return nil
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}

				fmt.Fprint(out, tui.RenderTranscript(historyMessages(client, entries), getTerminalWidth(out), render.OptionsFromConfig(cfg)))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N messages")
	return cmd
}

// historyMessages converts stored entries the same way the dashboard
// restores them, without the restore separator
func historyMessages(client api.ChatClient, entries []models.HistoryEntry) []models.ChatMessage {
	ctrl := chat.NewController(client)
	ctrl.Restore(entries)
	msgs := ctrl.Transcript()
	if n := len(msgs); n > 0 && msgs[n-1].Kind == models.KindSeparator {
		msgs = msgs[:n-1]
	}
	return msgs
}
