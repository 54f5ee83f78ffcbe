package commands

import (
	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunDashboard(client api.LadderClientInterface, opts tui.Options) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client, when set, is used instead of a client built from the config.
	Client api.LadderClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard copies text to the system clipboard.
	Clipboard func(text string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunDashboard(client api.LadderClientInterface, opts tui.Options) error {
	return tui.RunDashboard(client, opts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Clipboard: writeClipboard,
	}
}

// newClient returns the injected client or one built from cfg. The caller
// closes it.
func (d *Dependencies) newClient(cfg config.Config) (api.LadderClientInterface, error) {
	if d != nil && d.Client != nil {
		return d.Client, nil
	}
	return api.NewClient(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithInsecureTLS(cfg.InsecureTLS),
	)
}

func (d *Dependencies) tui() TUIInterface {
	if d == nil || d.TUI == nil {
		return &DefaultTUI{}
	}
	return d.TUI
}

func (d *Dependencies) clipboard() func(string) error {
	if d == nil || d.Clipboard == nil {
		return writeClipboard
	}
	return d.Clipboard
}
