package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/panels"
	"github.com/diogo/ladderweb/internal/telemetry"
)

// Status panels that are not a feed of their own
const (
	targetGrid        = "grid"
	targetCalibration = "calibration"
)

var statusTargets = []string{"gpu", "status", "health", "progress", targetGrid, targetCalibration}

// NewStatusCmd creates the one-shot telemetry command
func NewStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status [gpu|status|health|progress|grid|calibration]",
		Short: "Show telemetry panels once",
		Long: `Fetch telemetry once and print the panels. Without an argument every
feed is shown. The command fails when a requested feed is unreachable.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: statusTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				return runStatus(cmd.Context(), cmd.OutOrStdout(), client, cfg, target)
			})
		},
	}
}

func runStatus(ctx context.Context, out io.Writer, client api.TelemetryClient, cfg config.Config, target string) error {
	poller := telemetry.NewPoller(client, nil, telemetry.WithFetchTimeout(cfg.Timeout()))
	surface := newSurface(out)

	switch target {
	case targetGrid, targetCalibration:
		res := poller.Fetch(ctx, telemetry.KindStatus)
		if res.Outcome != telemetry.OutcomeOK {
			fmt.Fprintln(out, surface.Feed(res, res.At))
			return offlineErr(res)
		}
		if target == targetGrid {
			fmt.Fprintln(out, surface.Grid(res.Status.Database))
		} else {
			fmt.Fprintln(out, surface.Calibration(res.Status.Calibration))
		}
		return nil
	}

	kinds := telemetry.Kinds
	if kind, ok := telemetry.ParseKind(target); ok {
		kinds = []telemetry.Kind{kind}
	}

	var firstErr error
	for _, kind := range kinds {
		res := poller.Fetch(ctx, kind)
		fmt.Fprintln(out, surface.Feed(res, res.At))
		if err := offlineErr(res); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// offlineErr returns the transport error of an offline result. An
// unavailable feed is shown as a placeholder and is not a failure.
func offlineErr(res telemetry.Result) error {
	if res.Outcome == telemetry.OutcomeOffline {
		return fmt.Errorf("%s feed: %w", res.Kind, res.Err)
	}
	return nil
}

// NewWatchCmd creates the headless poller command
func NewWatchCmd(deps *Dependencies) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print telemetry panels as they refresh",
		Long: `Run the telemetry poller without the dashboard and print every panel
it accepts, until interrupted with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				ctx, cancel := interruptContext(cmd.Context())
				defer cancel()
				return runWatch(ctx, cmd.OutOrStdout(), client, cfg, count)
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many panels (0 runs until interrupted)")
	return cmd
}

// runWatch prints accepted results until ctx ends or count panels were
// printed. Results are applied on this goroutine only.
func runWatch(ctx context.Context, out io.Writer, client api.TelemetryClient, cfg config.Config, count int) error {
	done := make(chan struct{})
	results := make(chan telemetry.Result)

	poller := telemetry.NewPoller(client, func(r telemetry.Result) {
		select {
		case results <- r:
		case <-done:
		}
	},
		telemetry.WithInterval(telemetry.KindGPU, config.Interval(cfg.Poll.GPU, telemetry.DefaultGPUInterval)),
		telemetry.WithInterval(telemetry.KindHealth, config.Interval(cfg.Poll.Health, telemetry.DefaultHealthInterval)),
		telemetry.WithInterval(telemetry.KindProgress, config.Interval(cfg.Poll.Progress, telemetry.DefaultProgressInterval)),
		telemetry.WithFetchTimeout(cfg.Timeout()),
	)

	board := telemetry.NewBoard()
	surface := newSurface(out)

	poller.Start(ctx)
	defer func() {
		close(done)
		poller.Stop()
	}()

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-results:
			if !board.Accept(r) {
				continue
			}
			printWatched(out, surface, r)
			printed++
			if count > 0 && printed >= count {
				return nil
			}
		}
	}
}

func printWatched(out io.Writer, surface *panels.Surface, r telemetry.Result) {
	stamp := r.At.Format(time.TimeOnly)
	fmt.Fprintf(out, "[%s] %s\n%s\n", stamp, r.Kind, surface.Feed(r, r.At))
}
