// Package panels renders telemetry snapshots as terminal panels.
//
// Every function here is pure: the same snapshot, theme and width always
// produce the same string. Callers decide when to re-render.
package panels

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/diogo/ladderweb/internal/render"
)

// Level grades a metric for colouring
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// MemoryLevel grades memory utilisation in percent
func MemoryLevel(pct float64) Level {
	switch {
	case pct >= 80:
		return LevelCritical
	case pct >= 60:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// TemperatureLevel grades a GPU temperature in °C
func TemperatureLevel(celsius float64) Level {
	switch {
	case celsius > 80:
		return LevelCritical
	case celsius > 60:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// FreeMemoryLevel grades free memory in GB; less is worse
func FreeMemoryLevel(gb float64) Level {
	switch {
	case gb >= 50:
		return LevelNormal
	case gb >= 20:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// UtilLevel grades GPU utilisation in percent
func UtilLevel(pct float64) Level {
	if pct > 80 {
		return LevelCritical
	}
	return LevelNormal
}

// RateLevel grades a strategy success rate in [0,1]
func RateLevel(rate float64) Level {
	switch {
	case rate > 0.5:
		return LevelNormal
	case rate > 0.2:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// Surface holds the theme and width shared by every panel
type Surface struct {
	Theme render.TUITheme
	Width int
	r     *lipgloss.Renderer
}

// New creates a surface rendering to the default output
func New(theme render.TUITheme, width int) *Surface {
	return &Surface{Theme: theme, Width: width, r: lipgloss.DefaultRenderer()}
}

// NewForWriter creates a surface whose colour profile follows w
func NewForWriter(w io.Writer, theme render.TUITheme, width int) *Surface {
	return &Surface{Theme: theme, Width: width, r: lipgloss.NewRenderer(w)}
}

// WithWidth returns a copy of s with a different width
func (s *Surface) WithWidth(width int) *Surface {
	cp := *s
	cp.Width = width
	return &cp
}

func (s *Surface) style() lipgloss.Style {
	return s.r.NewStyle()
}

func (s *Surface) levelColor(l Level) lipgloss.Color {
	switch l {
	case LevelCritical:
		return s.Theme.Bad
	case LevelWarning:
		return s.Theme.Warning
	default:
		return s.Theme.Good
	}
}

func (s *Surface) okColor(ok bool) lipgloss.Color {
	if ok {
		return s.Theme.Good
	}
	return s.Theme.Bad
}

func (s *Surface) title(text string) string {
	return s.style().Bold(true).Foreground(s.Theme.Primary).Render(text)
}

func (s *Surface) label(text string) string {
	return s.style().Bold(true).Foreground(s.Theme.Text).Render(text)
}

func (s *Surface) dim(text string) string {
	return s.style().Foreground(s.Theme.TextDim).Render(text)
}

func (s *Surface) badge(text string, color lipgloss.Color) string {
	return s.style().Foreground(color).Bold(true).Render("[" + text + "]")
}

func (s *Surface) colored(text string, color lipgloss.Color) string {
	return s.style().Foreground(color).Render(text)
}

// box wraps a panel body with a titled rounded border
func (s *Surface) box(title, body string) string {
	content := s.title(title) + "\n" + body
	st := s.style().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.Border).
		Padding(0, 1)
	if s.Width > 4 {
		st = st.Width(s.Width - 2)
	}
	return st.Render(content)
}

// bar draws a fixed-width progress bar for pct in [0,100]
func (s *Surface) bar(pct float64, width int, color lipgloss.Color) string {
	if width < 1 {
		width = 1
	}
	if math.IsNaN(pct) || pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	return s.colored(strings.Repeat("█", filled), color) +
		s.colored(strings.Repeat("░", width-filled), s.Theme.TextMute)
}

func (s *Surface) barWidth() int {
	w := s.Width - 30
	if w < 10 {
		return 10
	}
	if w > 30 {
		return 30
	}
	return w
}

func (s *Surface) clip(text string, width int) string {
	if width <= 0 {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}

// Panel wraps body in a titled box at the surface width
func (s *Surface) Panel(title, body string) string {
	return s.box(title, body)
}

// Placeholder renders a feed panel that has no snapshot to show
func (s *Surface) Placeholder(title, message string) string {
	return s.box(title, s.colored("⚠️ "+message, s.Theme.Warning))
}

// Loading renders a feed panel waiting for its first result
func (s *Surface) Loading(title string) string {
	return s.box(title, s.dim("Loading..."))
}

// Updated renders the "updated N ago" footer for a panel refreshed at
// at, relative to now.
func Updated(at, now time.Time) string {
	if at.IsZero() {
		return "never updated"
	}
	if now.Sub(at) < time.Second {
		return "updated just now"
	}
	return "updated " + humanize.RelTime(at, now, "ago", "from now")
}

// Footer appends a dimmed footer line to a rendered panel
func (s *Surface) Footer(panel, footer string) string {
	if footer == "" {
		return panel
	}
	return panel + "\n" + s.dim(footer)
}

func gb(mb float64) float64 {
	return mb / 1024
}

func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
