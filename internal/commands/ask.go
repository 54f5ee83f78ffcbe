package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/chat"
	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/dispatch"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/logging"
	"github.com/diogo/ladderweb/internal/models"
	"github.com/diogo/ladderweb/internal/render"
	"github.com/diogo/ladderweb/internal/tui"
)

// NewAskCmd creates the one-shot chat command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	var noRAG bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message to the pipeline agent",
		Long: `Send one message to the agent and print its reply. The message is read
from stdin when no argument is given. Ctrl+C stops the generation.

Examples:
  ladderweb ask "what is the calibration status?"
  echo "verify the ladder" | ladderweb ask --no-rag`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if message == "" {
				stat, _ := os.Stdin.Stat()
				if stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("failed to read stdin: %w", err)
					}
					message = string(data)
				}
			}

			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				ctx, cancel := interruptContext(cmd.Context())
				defer cancel()
				return runAsk(ctx, cmd.OutOrStdout(), client, cfg, message, cfg.UseRAG && !noRAG)
			})
		},
	}

	cmd.Flags().BoolVar(&noRAG, "no-rag", false, "Do not augment the message with retrieved documents")
	return cmd
}

// runAsk drives one exchange through a chat controller and applies the
// reply's action hint the way the dashboard does
func runAsk(ctx context.Context, out io.Writer, client api.LadderClientInterface, cfg config.Config, message string, useRAG bool) error {
	log := logging.Component("cli")
	ctrl := chat.NewController(client, chat.WithRequestTimeout(cfg.Timeout()))
	defer ctrl.Shutdown()

	req := ctrl.Send(message, useRAG)
	if req == nil {
		return apierrors.ErrEmptyInput
	}

	spin := newSpinner("Agent is thinking").start()
	results := make(chan chat.Result, 1)
	go func() {
		results <- req.Run()
	}()

	var reply *models.ChatReply
	select {
	case res := <-results:
		spin.stopSilently()
		if res.Err != nil && apierrors.IsTransport(res.Err) {
			return fmt.Errorf("chat: %w", res.Err)
		}
		reply, _ = ctrl.Complete(res)
	case <-ctx.Done():
		spin.stopSilently()
		ctrl.Stop()
		// the cancelled call returns promptly; its result is stale
		ctrl.Complete(<-results)
		log.Info("ask interrupted")
	}

	width := getTerminalWidth(out)
	opts := render.OptionsFromConfig(cfg)
	transcript := ctrl.Transcript()
	fmt.Fprint(out, tui.RenderTranscript(transcript[len(transcript)-1:], width, opts))

	if reply == nil {
		return nil
	}
	return applyHint(ctx, out, client, reply)
}

// applyHint runs the dispatcher on reply and prints what it produced
func applyHint(ctx context.Context, out io.Writer, client api.LadderClientInterface, reply *models.ChatReply) error {
	disp := dispatch.New()
	effect := disp.Dispatch(reply)

	switch effect.Kind {
	case dispatch.EffectSuggest:
		fmt.Fprintf(out, "\n💡 %s\n", effect.Notice)

	case dispatch.EffectSearch:
		type outcome struct {
			res *models.ModelSearch
			err error
		}
		found := make(chan outcome, 1)
		cancel := disp.Schedule(effect, func(e dispatch.Effect) {
			res, err := client.SearchModels(ctx, e.Query)
			found <- outcome{res, err}
		})

		select {
		case o := <-found:
			surface := newSurface(out)
			fmt.Fprintln(out)
			if o.err != nil {
				fmt.Fprintln(out, surface.Panel(tui.ModelSearchTitle, surface.Failure("Error searching models: "+o.err.Error())))
				return nil
			}
			fmt.Fprintln(out, surface.Panel(tui.ModelSearchTitle, surface.ModelSearch(*o.res)))
		case <-ctx.Done():
			cancel()
		}
	}
	return nil
}
