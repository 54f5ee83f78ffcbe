package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewChoice
)

type settingKind int

const (
	settingToggle settingKind = iota
	settingChoice
)

// setting is one editable config key
type setting struct {
	key     string
	label   string
	kind    settingKind
	choices func() []string
}

var logLevels = func() []string { return []string{"debug", "info", "warn", "error"} }

var settings = []setting{
	{key: "use_rag", label: "Use RAG", kind: settingToggle},
	{key: "copy_to_clipboard", label: "Copy Generated Key", kind: settingToggle},
	{key: "insecure_tls", label: "Skip TLS Verify", kind: settingToggle},
	{key: "markdown.emoji", label: "Render Emoji", kind: settingToggle},
	{key: "markdown.table_wrap", label: "Wrap Table Cells", kind: settingToggle},
	{key: "markdown.style", label: "Markdown Theme", kind: settingChoice, choices: render.ThemeNames},
	{key: "tui_theme", label: "TUI Theme", kind: settingChoice, choices: render.TUIThemeNames},
	{key: "log_level", label: "Log Level", kind: settingChoice, choices: logLevels},
}

// menuExit is the cursor position of the Exit item
var menuExit = len(settings)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings editor
type ConfigModel struct {
	config     config.Config
	configPath string
	logPath    string
	save       func(config.Config) error

	// Navigation
	view         configView
	cursor       int
	choiceCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings editor for cfg; save persists each change
func NewConfigModel(cfg config.Config, save func(config.Config) error) ConfigModel {
	configPath, _ := config.GetConfigPath()
	logPath, _ := config.GetLogPath()

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		logPath:         logPath,
		save:            save,
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewChoice {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	if m.view == viewMain {
		m.cursor = wrap(m.cursor+delta, len(settings)+1)
		return
	}
	m.choiceCursor = wrap(m.choiceCursor+delta, len(settings[m.cursor].choices()))
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i%n + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewChoice {
		s := settings[m.cursor]
		m.view = viewMain
		return m.apply(s, s.choices()[m.choiceCursor])
	}

	if m.cursor == menuExit {
		return m, tea.Quit
	}

	s := settings[m.cursor]
	if s.kind == settingToggle {
		current, _ := strconv.ParseBool(settingValue(m.config, s.key))
		return m.apply(s, strconv.FormatBool(!current))
	}

	m.view = viewChoice
	m.choiceCursor = 0
	current := settingValue(m.config, s.key)
	for i, c := range s.choices() {
		if c == current {
			m.choiceCursor = i
			break
		}
	}
	return m, nil
}

// apply sets one key, persists the result and reports it
func (m ConfigModel) apply(s setting, value string) (tea.Model, tea.Cmd) {
	next := m.config
	if err := config.Set(&next, s.key, value); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return m, clearFeedback(m.feedbackTimeout)
	}
	if err := m.save(next); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return m, clearFeedback(m.feedbackTimeout)
	}
	m.config = next

	if s.key == "tui_theme" {
		// Apply the new TUI theme immediately
		render.SetTUITheme(value)
		UpdateTheme()
	}

	if s.kind == settingToggle {
		m.feedback = fmt.Sprintf("%s %s", s.label, enabledText(value == "true"))
	} else {
		m.feedback = fmt.Sprintf("%s set to %s", s.label, value)
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// settingValue returns the current value of key in its config.Set form
func settingValue(cfg config.Config, key string) string {
	switch key {
	case "use_rag":
		return strconv.FormatBool(cfg.UseRAG)
	case "copy_to_clipboard":
		return strconv.FormatBool(cfg.CopyToClipboard)
	case "insecure_tls":
		return strconv.FormatBool(cfg.InsecureTLS)
	case "markdown.emoji":
		return strconv.FormatBool(cfg.Markdown.EnableEmoji)
	case "markdown.table_wrap":
		return strconv.FormatBool(cfg.Markdown.TableWrap)
	case "markdown.style":
		if cfg.Markdown.Style == "" {
			return render.ThemeDark
		}
		return cfg.Markdown.Style
	case "tui_theme":
		if cfg.TUITheme == "" {
			return render.ThemeTokyoNight
		}
		return cfg.TUITheme
	case "log_level":
		return cfg.LogLevel
	}
	return ""
}

func enabledText(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, configHeaderStyle.Width(contentWidth).Render("✦ Configuration"))

	paths := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("📁 Paths"),
		fmt.Sprintf("   Config: %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Log:    %s", configPathStyle.Render(m.logPath)),
		fmt.Sprintf("   Server: %s", configPathStyle.Render(m.config.BaseURL)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(paths))

	var menu string
	if m.view == viewChoice {
		menu = m.renderChoice()
	} else {
		menu = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(menu))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func menuLine(selected bool, text string) string {
	if selected {
		return configCursorStyle.Render("▸ ") + configMenuSelectedStyle.Render(text)
	}
	return "  " + configMenuItemStyle.Render(text)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	labelWidth := 0
	for _, s := range settings {
		labelWidth = max(labelWidth, len(s.label))
	}

	items := []string{configSectionTitleStyle.Render("⚙ Settings"), ""}
	for i, s := range settings {
		value := settingValue(m.config, s.key)
		var rendered string
		if s.kind == settingToggle {
			on := value == "true"
			if on {
				rendered = configEnabledStyle.Render(enabledText(on))
			} else {
				rendered = configDisabledStyle.Render(enabledText(on))
			}
		} else {
			rendered = configValueStyle.Render(value)
		}
		label := s.label + strings.Repeat(" ", labelWidth-len(s.label)+3)
		items = append(items, menuLine(m.cursor == i, label)+rendered)
	}

	items = append(items, "", menuLine(m.cursor == menuExit, "Exit"))
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderChoice renders the value list of the selected setting
func (m ConfigModel) renderChoice() string {
	s := settings[m.cursor]
	current := settingValue(m.config, s.key)

	items := []string{configSectionTitleStyle.Render("🎨 Select " + s.label), ""}
	for i, c := range s.choices() {
		line := menuLine(m.choiceCursor == i, c)
		if c == current {
			line += configEnabledStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view == viewChoice {
		back = "Back"
	}
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	items := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		items[i] = statusKeyStyle.Render(s.key) + statusDescStyle.Render(" "+s.desc)
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the settings editor on the stored configuration
func RunConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	render.SetTUITheme(cfg.TUITheme)
	UpdateTheme()

	p := tea.NewProgram(
		NewConfigModel(cfg, config.SaveConfig),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
