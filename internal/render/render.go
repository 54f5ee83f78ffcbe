package render

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Markdown renders content with a pooled renderer for opts
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, r)

	return r.Render(content)
}

// MarkdownOrPlain renders content as markdown and falls back to word-wrapped
// plain text when the renderer fails. Leading and trailing blank lines added
// by glamour are trimmed so the result can sit inside a transcript bubble.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return Plain(content, opts.Width)
	}
	return strings.Trim(out, "\n")
}

// Plain word-wraps content at width without any styling
func Plain(content string, width int) string {
	if width <= 0 {
		return content
	}
	return wordwrap.String(content, width)
}

// Document renders a named markdown document with a title heading
func Document(name, content string, opts Options) (string, error) {
	if !strings.HasPrefix(strings.TrimSpace(content), "#") {
		content = "# " + name + "\n\n" + content
	}
	return Markdown(content, opts.forDocument())
}
