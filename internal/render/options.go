// Package render turns agent replies and backend documents into styled
// terminal text and holds the dashboard color themes.
package render

import (
	"os"

	"github.com/diogo/ladderweb/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

const defaultWidth = 80

// Options selects a glamour renderer. It is comparable and keys the
// renderer pool as is.
type Options struct {
	Width int
	Style string

	Emoji        bool
	KeepNewLines bool
	WrapTables   bool
	InlineLinks  bool
}

// DefaultOptions returns the options of a fresh config at 80 columns
func DefaultOptions() Options {
	return fromMarkdown(config.DefaultMarkdownConfig())
}

// OptionsFromConfig reads the markdown section of cfg. GLAMOUR_STYLE wins
// over the configured style.
func OptionsFromConfig(cfg config.Config) Options {
	opts := fromMarkdown(cfg.Markdown)
	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}

func fromMarkdown(md config.MarkdownConfig) Options {
	style := md.Style
	if style == "" {
		style = ThemeDark
	}
	return Options{
		Width:        defaultWidth,
		Style:        style,
		Emoji:        md.EnableEmoji,
		KeepNewLines: md.PreserveNewLines,
		WrapTables:   md.TableWrap,
		InlineLinks:  md.InlineTableLinks,
	}
}

// WithWidth returns a copy wrapping at width
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// forDocument adapts chat options to documentation pages: paragraphs
// reflow to the terminal and table links are printed inline.
func (o Options) forDocument() Options {
	o.KeepNewLines = false
	o.InlineLinks = true
	return o
}
