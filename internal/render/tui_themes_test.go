package render

import "testing"

func TestTUIThemes_ColorsAreHex(t *testing.T) {
	for _, theme := range tuiThemes {
		t.Run(theme.Name, func(t *testing.T) {
			if theme.Description == "" {
				t.Error("description should not be empty")
			}

			colors := map[string]string{
				"Surface":  string(theme.Surface),
				"Border":   string(theme.Border),
				"Primary":  string(theme.Primary),
				"Accent":   string(theme.Accent),
				"Info":     string(theme.Info),
				"Good":     string(theme.Good),
				"Warning":  string(theme.Warning),
				"Bad":      string(theme.Bad),
				"Text":     string(theme.Text),
				"TextDim":  string(theme.TextDim),
				"TextMute": string(theme.TextMute),
			}

			for name, c := range colors {
				if len(c) != 7 || c[0] != '#' {
					t.Errorf("%s color %q is not #RRGGBB", name, c)
				}
			}
		})
	}
}

func TestDefaultTUITheme(t *testing.T) {
	if DefaultTUITheme().Name != "tokyonight" {
		t.Errorf("default theme = %s, want tokyonight", DefaultTUITheme().Name)
	}
	if names := TUIThemeNames(); len(names) != len(tuiThemes) || names[0] != "tokyonight" {
		t.Errorf("TUIThemeNames() = %v", names)
	}
}

func TestSetTUITheme(t *testing.T) {
	original := GetTUITheme()
	defer func() { currentTUITheme = original }()

	if !SetTUITheme("nord") {
		t.Fatal("SetTUITheme(nord) should succeed")
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("current theme = %s, want nord", GetTUITheme().Name)
	}

	if SetTUITheme("solarized") {
		t.Error("SetTUITheme should reject unknown names")
	}
	if GetTUITheme().Name != "nord" {
		t.Error("a rejected name must not change the current theme")
	}
}

func TestGetTUIThemeByName(t *testing.T) {
	for _, name := range TUIThemeNames() {
		theme, ok := GetTUIThemeByName(name)
		if !ok || theme.Name != name {
			t.Errorf("GetTUIThemeByName(%s) = %s, %v", name, theme.Name, ok)
		}
	}
	if _, ok := GetTUIThemeByName(""); ok {
		t.Error("empty name should not resolve")
	}
}
