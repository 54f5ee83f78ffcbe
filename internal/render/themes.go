package render

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Built-in markdown style names
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeCatppuccin = "catppuccin"
	ThemeNord       = "nord"
)

// BuiltinStyleConfig returns the glamour style for one of the palette themes.
// The palette themes reuse glamour's dark style with headings, links and
// inline code recoloured from the matching TUI theme. Returns false for
// glamour's own styles and for style file paths.
func BuiltinStyleConfig(name string) (ansi.StyleConfig, bool) {
	switch name {
	case ThemeTokyoNight, ThemeCatppuccin, ThemeNord:
	default:
		return ansi.StyleConfig{}, false
	}

	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return ansi.StyleConfig{}, false
	}
	return styleFromPalette(theme), true
}

func styleFromPalette(t TUITheme) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	text := string(t.Text)
	primary := string(t.Primary)
	good := string(t.Good)
	accent := string(t.Accent)
	dim := string(t.TextDim)
	surface := string(t.Surface)

	cfg.Document.Color = &text
	cfg.Heading.Color = &primary
	cfg.H1.Color = &text
	cfg.H1.BackgroundColor = &surface
	cfg.H2.Color = &primary
	cfg.H3.Color = &accent
	cfg.Link.Color = &good
	cfg.LinkText.Color = &good
	cfg.Code.Color = &accent
	cfg.HorizontalRule.Color = &dim
	cfg.BlockQuote.Color = &dim

	return cfg
}

// IsBuiltinStyle returns true if the style is a built-in style
// (either glamour built-in or one of the palette themes).
func IsBuiltinStyle(style string) bool {
	switch style {
	case ThemeDark, ThemeLight, "dracula", "notty", "ascii":
		return true
	case ThemeTokyoNight, ThemeCatppuccin, ThemeNord:
		return true
	default:
		return false
	}
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns a list of all available themes (built-in and glamour styles).
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeCatppuccin, Description: "Catppuccin Mocha color scheme"},
		{Name: ThemeNord, Description: "Nord color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: "dracula", Description: "Dracula color scheme"},
		{Name: "notty", Description: "Plain text (no styling)"},
		{Name: "ascii", Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
