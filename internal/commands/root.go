// Package commands provides CLI commands for ladderweb.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/logging"
	"github.com/diogo/ladderweb/internal/render"
	"github.com/diogo/ladderweb/internal/tui"
)

var (
	// Global flags
	urlFlag      string
	verboseFlag  bool
	logLevelFlag string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"

	logCloser io.Closer
)

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ladderweb",
		Short: "Terminal dashboard for the Bitcoin puzzle ladder",
		Long: `ladderweb is a terminal client for the ladder backend. It shows GPU,
health, progress and calibration telemetry next to a chat with the
pipeline agent, and runs the pipeline steps from the command line.

Examples:
  ladderweb                             Open the dashboard
  ladderweb status gpu                  Show the GPU panel once
  ladderweb ask "verify the ladder"     One exchange with the agent
  ladderweb generate --copy             Generate puzzle 71 and copy the key
  ladderweb --url http://gpu-box:5050   Use another backend`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setup(cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "ladderweb %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runDashboard(deps)
		},
	}

	cmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Ladder backend URL (overrides config and "+config.EnvBaseURL+")")
	cmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log at debug level")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		NewDashboardCmd(deps),
		NewStatusCmd(deps),
		NewWatchCmd(deps),
		NewAskCmd(deps),
		NewHistoryCmd(deps),
		NewVerifyCmd(deps),
		NewDriftCmd(deps),
		NewPatchCmd(deps),
		NewGenerateCmd(deps),
		NewValidateCmd(deps),
		NewPuzzleCmd(deps),
		NewDocCmd(deps),
		NewModelsCmd(deps),
		NewConfigCmd(deps),
	)
	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	teardown()
	if err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, tui.FormatError(err))
		}
		os.Exit(1)
	}
}

// reportedError marks a failure the command already printed as a panel
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(deps)
		},
	}
}

func runDashboard(deps *Dependencies) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := deps.newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	logging.Component("cli").WithField("base_url", client.BaseURL()).Info("opening dashboard")
	return deps.tui().RunDashboard(client, tui.OptionsFromConfig(cfg))
}

// loadConfig reads the config file and applies the global flags
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if urlFlag != "" {
		cfg.BaseURL = urlFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if verboseFlag {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// setup installs the file logger and the TUI theme. Failures only warn;
// the command still runs with logging discarded.
func setup(stderr io.Writer) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	if render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	path, err := config.GetLogPath()
	if err != nil {
		return
	}
	closer, err := logging.Init(cfg.LogLevel, cfg.LogFormat, path)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		return
	}
	logCloser = closer
}

func teardown() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
	logging.Set(nil)
}
