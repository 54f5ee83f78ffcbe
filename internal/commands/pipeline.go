package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/config"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/logging"
	"github.com/diogo/ladderweb/internal/models"
	"github.com/diogo/ladderweb/internal/panels"
	"github.com/diogo/ladderweb/internal/render"
)

// Pipeline panel titles
const (
	VerifyTitle   = "🔎 Verify Ladder"
	DriftTitle    = "🧮 Compute Drift"
	PatchTitle    = "🩹 Patch Calibration"
	GenerateTitle = "🔑 Generate Puzzle"
	ValidateTitle = "🔐 Validate Address"
	PuzzleTitle   = "🧩 Puzzle Lookup"
)

// step runs one backend call under a spinner. A script failure is printed
// as a failure panel and returned as already reported.
func step(out io.Writer, surface *panels.Surface, title, progress string, call func() error) error {
	spin := newSpinner(progress).start()
	err := call()
	if err == nil {
		spin.stopWithSuccess("Done")
		return nil
	}
	spin.stopWithError()

	logging.Component("cli").WithError(err).WithField("step", title).Warn("pipeline step failed")
	if apierrors.IsUnavailable(err) {
		fmt.Fprintln(out, surface.Panel(title, surface.Failure(apierrors.GetReason(err))))
		return &reportedError{err: err}
	}
	return err
}

// NewVerifyCmd creates the verify command
func NewVerifyCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the ladder against the known puzzles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				return runVerify(cmd.Context(), cmd.OutOrStdout(), client)
			})
		},
	}
}

func runVerify(ctx context.Context, out io.Writer, client api.LadderClientInterface) error {
	surface := newSurface(out)
	var res *models.VerifyResult
	err := step(out, surface, VerifyTitle, "Running verification", func() (err error) {
		res, err = client.Verify(ctx)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, surface.Panel(VerifyTitle, surface.Verify(*res)))
	return nil
}

// NewDriftCmd creates the drift command
func NewDriftCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "drift",
		Short: "Compute the missing drift values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				out := cmd.OutOrStdout()
				surface := newSurface(out)
				var res *models.DriftResult
				err := step(out, surface, DriftTitle, "Computing drift", func() (err error) {
					res, err = client.ComputeDrift(cmd.Context())
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, surface.Panel(DriftTitle, surface.Drift(*res)))
				return nil
			})
		},
	}
}

// NewPatchCmd creates the patch command
func NewPatchCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "patch",
		Short: "Patch the calibration with the computed drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				out := cmd.OutOrStdout()
				surface := newSurface(out)
				var res *models.CommandResult
				err := step(out, surface, PatchTitle, "Patching calibration", func() (err error) {
					res, err = client.PatchCalibration(cmd.Context())
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, surface.Panel(PatchTitle, surface.Patch(*res)))
				return nil
			})
		},
	}
}

// NewGenerateCmd creates the generate command
func NewGenerateCmd(deps *Dependencies) *cobra.Command {
	var copyKey bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the puzzle 71 private key",
		Long: `Run the generator and print the private key. With --copy, or with
copy_to_clipboard enabled in the config, the 0x-prefixed key is copied to
the clipboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				return runGenerate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), client,
					copyKey || cfg.CopyToClipboard, deps.clipboard())
			})
		},
	}

	cmd.Flags().BoolVarP(&copyKey, "copy", "c", false, "Copy the generated key to the clipboard")
	return cmd
}

func runGenerate(ctx context.Context, out, errOut io.Writer, client api.LadderClientInterface, copyKey bool, copyFn func(string) error) error {
	surface := newSurface(out)
	var res *models.GenerateResult
	err := step(out, surface, GenerateTitle, "Generating puzzle 71", func() (err error) {
		res, err = client.Generate(ctx)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, surface.Panel(GenerateTitle, surface.Generate(*res)))

	key := res.PrivateKey()
	if !copyKey || key == "" {
		return nil
	}
	if err := copyFn(key); err != nil {
		// Log warning but don't fail
		warnMsg := lipgloss.NewStyle().Foreground(colorWarning).Render(
			fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
		)
		fmt.Fprintln(errOut, warnMsg)
		return nil
	}
	clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
	fmt.Fprintln(errOut, clipMsg)
	return nil
}

// NewValidateCmd creates the validate command
func NewValidateCmd(deps *Dependencies) *cobra.Command {
	var puzzle int

	cmd := &cobra.Command{
		Use:   "validate <private-key-hex>",
		Short: "Check a private key against a puzzle address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) > 0 {
				key = args[0]
			}
			key = strings.TrimPrefix(strings.TrimSpace(key), "0x")
			if key == "" {
				return apierrors.ErrMissingPrivateKey
			}

			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				out := cmd.OutOrStdout()
				surface := newSurface(out)
				var res *models.ValidateResult
				err := step(out, surface, ValidateTitle, fmt.Sprintf("Validating puzzle %d", puzzle), func() (err error) {
					res, err = client.ValidateAddress(cmd.Context(), key, puzzle)
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, surface.Panel(ValidateTitle, surface.Validate(*res, puzzle)))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&puzzle, "puzzle", "p", models.DefaultPuzzleNum, "Puzzle number to validate against")
	return cmd
}

// NewPuzzleCmd creates the puzzle lookup command
func NewPuzzleCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "puzzle <n>",
		Short: "Look up a puzzle in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePuzzle(args[0])
			if err != nil {
				return err
			}
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				out := cmd.OutOrStdout()
				surface := newSurface(out)
				var res *models.PuzzleInfo
				err := step(out, surface, PuzzleTitle, fmt.Sprintf("Looking up puzzle %d", n), func() (err error) {
					res, err = client.Puzzle(cmd.Context(), n)
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, surface.Panel(PuzzleTitle, surface.Puzzle(*res, n)))
				return nil
			})
		},
	}
}

func parsePuzzle(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > models.TotalPuzzles {
		return 0, fmt.Errorf("puzzle must be a number between 1 and %d, got %q", models.TotalPuzzles, arg)
	}
	return n, nil
}

// NewDocCmd creates the documentation viewer command
func NewDocCmd(deps *Dependencies) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "doc <name>",
		Short: "Show a backend documentation page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(deps, func(cfg config.Config, client api.LadderClientInterface) error {
				out := cmd.OutOrStdout()
				doc, err := client.Documentation(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", args[0], err)
				}

				if raw || !isTTY(out) {
					fmt.Fprint(out, doc.Content)
					return nil
				}

				opts := render.OptionsFromConfig(cfg).WithWidth(getTerminalWidth(out) - 4)
				rendered, err := render.Document(doc.Name, doc.Content, opts)
				if err != nil {
					rendered = doc.Content
				}
				fmt.Fprintln(out, strings.TrimRight(rendered, "\n"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	return cmd
}
