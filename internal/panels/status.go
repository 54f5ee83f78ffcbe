package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/ladderweb/internal/models"
)

// Status panel titles
const (
	StatusTitle      = "📈 Status"
	GridTitle        = "🧩 Puzzles"
	CalibrationTitle = "🔬 Calibration"
	StatusOffline    = "Error loading status"
)

// StatusUnavailableText is the placeholder for a status feed that reported failure
func StatusUnavailableText(reason string) string {
	if reason == "" {
		reason = "Unknown error"
	}
	return "Status unavailable: " + reason
}

// Status renders the verification and database overview
func (s *Surface) Status(snap models.StatusSnapshot) string {
	v := snap.Verification
	db := snap.Database

	accuracy := v.Accuracy
	if accuracy == "" {
		accuracy = "N/A"
	}
	verdict := s.colored("⚠️ Needs calibration", s.Theme.Bad)
	if v.Perfect {
		verdict = s.colored("✅ Perfect!", s.Theme.Good)
	}

	lanesColor := s.Theme.TextDim
	if snap.LanesAt100 >= models.LanesHighlighted {
		lanesColor = s.Theme.Good
	}

	bridges := "none"
	if len(db.Bridges) > 0 {
		bridges = joinInts(db.Bridges, ", ")
	}

	lines := []string{
		fmt.Sprintf("%s %s  %s", s.label("🎯 Verification Accuracy:"), s.colored(accuracy, s.okColor(v.Perfect)), verdict),
		fmt.Sprintf("%s %d/%d checks, %d mismatches", s.label("   Matches:"), v.TotalMatches, v.TotalChecks, v.MismatchCount),
		fmt.Sprintf("%s %d %s", s.label("📊 Total Puzzles:"), db.TotalPuzzles, s.dim("solved in database")),
		fmt.Sprintf("%s %d", s.label("🔗 Consecutive:"), len(db.Consecutive)),
		fmt.Sprintf("%s %d %s", s.label("🌉 Bridge Puzzles:"), len(db.Bridges), s.dim(s.clip(bridges, s.Width-28))),
		fmt.Sprintf("%s %d", s.label("❓ Unsolved Gaps:"), len(db.Missing)),
		fmt.Sprintf("%s %s %s", s.label("🔬 Drift Discovery:"),
			s.colored(fmt.Sprintf("%d/%d", snap.LanesAt100, models.LaneCount), lanesColor),
			s.dim("lanes at 100% C consistency")),
	}
	return s.box(StatusTitle, strings.Join(lines, "\n"))
}

// CellClass is how a puzzle cell is drawn in the grid
type CellClass int

const (
	CellUnsolved CellClass = iota
	CellSolved
	CellBridge
)

func (c CellClass) String() string {
	switch c {
	case CellSolved:
		return "solved"
	case CellBridge:
		return "bridge"
	default:
		return "unsolved"
	}
}

// ClassifyPuzzles assigns a class to each of the 160 puzzles. A bridge
// counts only when it is also solved; numbers outside 1..160 are ignored.
func ClassifyPuzzles(db models.PuzzleDatabase) []CellClass {
	solved := toSet(db.Solved)
	bridges := toSet(db.Bridges)

	cells := make([]CellClass, models.TotalPuzzles)
	for i := range cells {
		n := i + 1
		switch {
		case solved[n] && bridges[n]:
			cells[i] = CellBridge
		case solved[n]:
			cells[i] = CellSolved
		default:
			cells[i] = CellUnsolved
		}
	}
	return cells
}

// GridColumns is the number of cells per grid row
const GridColumns = 10

var cellGlyph = map[CellClass]string{
	CellSolved:   "●",
	CellBridge:   "◆",
	CellUnsolved: "○",
}

// Grid renders all 160 puzzles with a legend
func (s *Surface) Grid(db models.PuzzleDatabase) string {
	cells := ClassifyPuzzles(db)

	colors := map[CellClass]lipgloss.Color{
		CellSolved:   s.Theme.Good,
		CellBridge:   s.Theme.Accent,
		CellUnsolved: s.Theme.TextMute,
	}

	var rows []string
	var row []string
	for i, c := range cells {
		row = append(row, s.colored(fmt.Sprintf("%s%3d", cellGlyph[c], i+1), colors[c]))
		if len(row) == GridColumns {
			rows = append(rows, strings.Join(row, " "))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}

	legend := fmt.Sprintf("%s Solved Consecutive (%d)  %s Solved Bridges (%d)  %s Unsolved (%d)",
		s.colored(cellGlyph[CellSolved], colors[CellSolved]), len(db.Consecutive),
		s.colored(cellGlyph[CellBridge], colors[CellBridge]), len(db.Bridges),
		s.colored(cellGlyph[CellUnsolved], colors[CellUnsolved]), len(db.Unsolved))
	totals := s.label(fmt.Sprintf("Total: %d/%d solved", len(db.Solved), models.TotalPuzzles))

	return s.box(GridTitle, strings.Join(rows, "\n")+"\n\n"+legend+"\n"+totals)
}

// CalibrationColumns is the number of lane cards per row
const CalibrationColumns = 4

// Calibration renders the 16 lanes and the non-zero drift summary
func (s *Surface) Calibration(cal models.Calibration) string {
	cardWidth := 16
	if s.Width > 0 {
		if w := (s.Width - 8) / CalibrationColumns; w > 12 {
			cardWidth = w
		}
	}

	var cards []string
	for _, lane := range cal.Lanes {
		cards = append(cards, s.laneCard(lane, cardWidth))
	}

	var rows []string
	for i := 0; i < len(cards); i += CalibrationColumns {
		end := i + CalibrationColumns
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	drifts := fmt.Sprintf("%d / %d", cal.NonzeroDrifts, models.DriftSlots)
	driftColor := s.Theme.Warning
	if cal.NonzeroDrifts > 0 {
		driftColor = s.Theme.Good
	}
	summary := s.label("Non-zero drifts in calibration:") + " " + s.badge(drifts, driftColor)

	return s.box(CalibrationTitle, strings.Join(rows, "\n")+"\n\n"+summary)
}

func (s *Surface) laneCard(lane models.Lane, width int) string {
	mark := ""
	color := s.Theme.Warning
	if lane.Consistent() {
		mark = " ✓"
		color = s.Theme.Good
	}

	body := strings.Join([]string{
		s.label(fmt.Sprintf("Lane %d", lane.Index)),
		"A = " + lane.A,
		"C = " + lane.CurrentC + mark,
		s.dim(fmt.Sprintf("Best: %s (%s)", lane.Suggested, lane.Percentage)),
	}, "\n")

	return s.style().
		Width(width).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(color).
		PaddingLeft(1).
		Render(body)
}

func toSet(nums []int) map[int]bool {
	set := make(map[int]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	return set
}

func joinInts(nums []int, sep string) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
