package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdle bounds the idle renderers kept per Options value
const maxIdle = 4

// rendererPool hands out glamour renderers keyed by Options. A
// TermRenderer must not be used by two goroutines at once, so each caller
// takes one out and gives it back.
type rendererPool struct {
	mu   sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}

func newRendererPool() *rendererPool {
	return &rendererPool{idle: make(map[Options][]*glamour.TermRenderer)}
}

var renderers = newRendererPool()

func (p *rendererPool) acquire(opts Options) (*glamour.TermRenderer, error) {
	p.mu.Lock()
	if free := p.idle[opts]; len(free) > 0 {
		r := free[len(free)-1]
		p.idle[opts] = free[:len(free)-1]
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	return newRenderer(opts)
}

func (p *rendererPool) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle[opts]) < maxIdle {
		p.idle[opts] = append(p.idle[opts], r)
	}
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.WrapTables),
		glamour.WithInlineTableLinks(opts.InlineLinks),
	}
	if cfg, ok := BuiltinStyleConfig(opts.Style); ok {
		ropts = append(ropts, glamour.WithStyles(cfg))
	} else {
		ropts = append(ropts, glamour.WithStylePath(opts.Style))
	}
	if opts.Emoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.KeepNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}
