package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/panels"
	"github.com/diogo/ladderweb/internal/render"
)

const (
	defaultWidth = 80
	maxWidth     = 120
)

// withClient loads the config, opens a client and closes it after fn
func withClient(deps *Dependencies, fn func(cfg config.Config, client api.LadderClientInterface) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := deps.newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(cfg, client)
}

// interruptContext returns ctx cancelled on SIGINT or SIGTERM
func interruptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// getTerminalWidth returns the width of w when it is a terminal, or a
// default value
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// isTTY reports whether w is connected to a terminal
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newSurface creates a panel surface sized and coloured for w
func newSurface(w io.Writer) *panels.Surface {
	return panels.NewForWriter(w, render.GetTUITheme(), getTerminalWidth(w)-2)
}

func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}
