package panels

import (
	"strings"
	"testing"

	"github.com/diogo/ladderweb/internal/models"
)

func TestClassifyPuzzles(t *testing.T) {
	db := models.PuzzleDatabase{
		Solved:      []int{1, 2, 3},
		Bridges:     []int{3},
		Consecutive: []int{1, 2},
	}

	cells := ClassifyPuzzles(db)
	if len(cells) != 160 {
		t.Fatalf("len(cells) = %d, want 160", len(cells))
	}

	if cells[0] != CellSolved || cells[1] != CellSolved {
		t.Errorf("puzzles 1-2 = %s, %s, want solved", cells[0], cells[1])
	}
	if cells[2] != CellBridge {
		t.Errorf("puzzle 3 = %s, want bridge", cells[2])
	}
	for n := 4; n <= 160; n++ {
		if cells[n-1] != CellUnsolved {
			t.Fatalf("puzzle %d = %s, want unsolved", n, cells[n-1])
		}
	}
}

func TestClassifyPuzzles_UnsolvedBridge(t *testing.T) {
	db := models.PuzzleDatabase{Bridges: []int{75}}

	cells := ClassifyPuzzles(db)
	if cells[74] != CellUnsolved {
		t.Errorf("an unsolved bridge = %s, want unsolved", cells[74])
	}
}

func TestGrid(t *testing.T) {
	db := models.PuzzleDatabase{
		Solved:      []int{1, 2, 3},
		Bridges:     []int{3},
		Consecutive: []int{1, 2},
		Unsolved:    []int{71, 72},
	}

	out := plainSurface().Grid(db)
	for _, want := range []string{
		"●  1", "◆  3", "○  4", "○160",
		"Solved Consecutive (2)",
		"Solved Bridges (1)",
		"Unsolved (2)",
		"Total: 3/160 solved",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestGrid_AlwaysDrawsEveryPuzzle(t *testing.T) {
	db := models.PuzzleDatabase{Solved: []int{150, 161, 0}, Bridges: []int{150}}

	out := plainSurface().Grid(db)
	cells := 0
	for _, glyph := range []string{"●", "◆", "○"} {
		cells += strings.Count(out, glyph)
	}
	// one glyph per legend entry
	if cells-3 != models.TotalPuzzles {
		t.Errorf("grid cells = %d, want %d", cells-3, models.TotalPuzzles)
	}
	for _, want := range []string{"◆150", "○101", "○160"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "161") {
		t.Error("numbers past 160 must not be drawn")
	}
}

func TestStatus(t *testing.T) {
	snap := models.StatusSnapshot{
		Database: models.PuzzleDatabase{
			TotalPuzzles: 82,
			Consecutive:  make([]int, 70),
			Bridges:      []int{75, 80, 85},
			Missing:      []int{71, 72},
		},
		Verification: models.Verification{TotalMatches: 10, TotalChecks: 10, Perfect: true, Accuracy: "100.0%"},
		LanesAt100:   7,
	}

	out := plainSurface().Status(snap)
	for _, want := range []string{
		"100.0%",
		"Perfect!",
		"Total Puzzles: 82",
		"Consecutive: 70",
		"Bridge Puzzles: 3",
		"75, 80, 85",
		"Unsolved Gaps: 2",
		"7/16",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestStatus_DefaultAccuracy(t *testing.T) {
	out := plainSurface().Status(models.StatusSnapshot{})
	if !strings.Contains(out, "N/A") {
		t.Errorf("empty accuracy should render N/A:\n%s", out)
	}
	if !strings.Contains(out, "Needs calibration") {
		t.Errorf("imperfect verification should say so:\n%s", out)
	}
}

func TestCalibration(t *testing.T) {
	lanes := make([]models.Lane, models.LaneCount)
	for i := range lanes {
		lanes[i] = models.Lane{Index: i, A: "1", CurrentC: "0", Suggested: "?", Percentage: "?"}
	}
	lanes[9] = models.Lane{Index: 9, A: "5", CurrentC: "0", Suggested: "0", Percentage: "100.0%"}

	out := plainSurface().Calibration(models.Calibration{Lanes: lanes, NonzeroDrifts: 4})
	for _, want := range []string{"Lane 0", "Lane 15", "C = 0 ✓", "Best: 0 (100.0%)", "[4 / 32]"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "✓") != 1 {
		t.Errorf("exactly one lane is consistent:\n%s", out)
	}
}
