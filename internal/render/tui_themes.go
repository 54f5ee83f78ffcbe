package render

import "github.com/charmbracelet/lipgloss"

// TUITheme is the palette shared by the dashboard and the one-shot panels.
// Good and Bad double as the healthy/critical colors of telemetry levels.
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary lipgloss.Color
	Accent  lipgloss.Color
	Info    lipgloss.Color
	Good    lipgloss.Color
	Warning lipgloss.Color
	Bad     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var tuiThemes = []TUITheme{
	{
		Name:        "tokyonight",
		Description: "Tokyo Night, blue accents on deep navy",
		Surface:     "#24283b", Border: "#414868",
		Primary: "#7aa2f7", Accent: "#bb9af7", Info: "#7dcfff",
		Good: "#9ece6a", Warning: "#e0af68", Bad: "#f7768e",
		Text: "#c0caf5", TextDim: "#565f89", TextMute: "#3b4261",
	},
	{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, pastel on warm dark",
		Surface:     "#313244", Border: "#45475a",
		Primary: "#89b4fa", Accent: "#cba6f7", Info: "#89dceb",
		Good: "#a6e3a1", Warning: "#f9e2af", Bad: "#f38ba8",
		Text: "#cdd6f4", TextDim: "#6c7086", TextMute: "#45475a",
	},
	{
		Name:        "nord",
		Description: "Nord, frost and aurora tones",
		Surface:     "#3b4252", Border: "#4c566a",
		Primary: "#88c0d0", Accent: "#b48ead", Info: "#8fbcbb",
		Good: "#a3be8c", Warning: "#ebcb8b", Bad: "#bf616a",
		Text: "#eceff4", TextDim: "#7b88a1", TextMute: "#4c566a",
	},
	{
		Name:        "dracula",
		Description: "Dracula, vibrant on slate",
		Surface:     "#44475a", Border: "#6272a4",
		Primary: "#8be9fd", Accent: "#ff79c6", Info: "#bd93f9",
		Good: "#50fa7b", Warning: "#f1fa8c", Bad: "#ff5555",
		Text: "#f8f8f2", TextDim: "#6272a4", TextMute: "#44475a",
	},
}

var currentTUITheme = DefaultTUITheme()

// DefaultTUITheme returns the theme used when none is configured
func DefaultTUITheme() TUITheme {
	return tuiThemes[0]
}

// GetTUITheme returns the active theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme activates the named theme. Unknown names leave the active
// theme unchanged and report false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
	}
	return ok
}

// GetTUIThemeByName looks a theme up by name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range tuiThemes {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// TUIThemeNames lists the theme names in menu order
func TUIThemeNames() []string {
	names := make([]string, len(tuiThemes))
	for i, t := range tuiThemes {
		names[i] = t.Name
	}
	return names
}
