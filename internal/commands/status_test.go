package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/diogo/ladderweb/internal/api"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
	"github.com/diogo/ladderweb/internal/panels"
	"github.com/diogo/ladderweb/internal/telemetry"
)

func healthyMock() *api.MockLadderClient {
	return &api.MockLadderClient{
		GPUVal: &models.GPUSnapshot{Success: true, GPUs: []models.GPU{{Name: "RTX 4090", MemoryTotal: 24576}}},
		StatusVal: &models.StatusSnapshot{
			Database: models.PuzzleDatabase{
				TotalPuzzles: 3,
				Solved:       []int{1, 2, 3},
				Consecutive:  []int{1, 2},
				Bridges:      []int{3},
			},
			Calibration: models.Calibration{
				Lanes:         []models.Lane{{Index: 0, A: "0x01", CurrentC: "0x02", Percentage: "100.0%"}},
				NonzeroDrifts: 5,
			},
		},
		HealthVal:   &models.HealthSnapshot{Daemon: models.ServiceHealth{Status: "running", Active: true}},
		ProgressVal: &models.ProgressSnapshot{TotalLearnings: 3},
	}
}

func TestStatusCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		calls   map[string]int
	}{
		{
			name:  "all feeds",
			args:  []string{"status"},
			want:  []string{"GPU", "RTX 4090", "Status", "System Health", "Progress"},
			calls: map[string]int{"GPUStats": 1, "Status": 1, "Health": 1, "Progress": 1},
		},
		{
			name:    "single feed",
			args:    []string{"status", "gpu"},
			want:    []string{"RTX 4090"},
			notWant: []string{"System Health"},
			calls:   map[string]int{"GPUStats": 1, "Health": 0},
		},
		{
			name:  "grid",
			args:  []string{"status", "grid"},
			want:  []string{"Puzzles", "Total: 3/160 solved"},
			calls: map[string]int{"Status": 1, "GPUStats": 0},
		},
		{
			name:  "calibration",
			args:  []string{"status", "calibration"},
			want:  []string{"Calibration", "Lane 0", "5 / 32"},
			calls: map[string]int{"Status": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := healthyMock()
			deps, _, _ := testDeps(mock)

			out, err := runCmd(t, deps, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q", w)
				}
			}
			for name, n := range tt.calls {
				if got := mock.CallCount(name); got != n {
					t.Errorf("%s calls = %d, want %d", name, got, n)
				}
			}
		})
	}
}

func TestStatusCmd_InvalidTarget(t *testing.T) {
	deps, _, _ := testDeps(healthyMock())
	if _, err := runCmd(t, deps, "status", "bogus"); err == nil {
		t.Error("expected an error for an unknown panel")
	}
}

func TestStatusCmd_OfflineFails(t *testing.T) {
	mock := healthyMock()
	mock.GPUVal = nil
	mock.GPUErr = apierrors.NewNetworkError("gpu-stats", errors.New("connection refused"))
	deps, _, _ := testDeps(mock)

	out, err := runCmd(t, deps, "status")
	if err == nil || !apierrors.IsNetworkError(err) {
		t.Fatalf("err = %v, want the network error", err)
	}
	if !strings.Contains(out, panels.GPUOfflineText) {
		t.Errorf("offline placeholder missing:\n%s", out)
	}
	if !strings.Contains(out, "System Health") {
		t.Error("the other feeds should still be shown")
	}
}

func TestStatusCmd_NonJSONIsOffline(t *testing.T) {
	mock := healthyMock()
	mock.GPUVal = nil
	mock.GPUErr = apierrors.NewParseError("response is not valid JSON", models.PathGPUStats)
	deps, _, _ := testDeps(mock)

	out, err := runCmd(t, deps, "status", "gpu")
	if err == nil {
		t.Fatal("a non-JSON feed should fail like an unreachable one")
	}
	if !strings.Contains(out, panels.GPUOfflineText) || strings.Contains(out, "GPU monitoring unavailable") {
		t.Errorf("want the offline placeholder:\n%s", out)
	}
}

func TestStatusCmd_UnavailableIsNotFailure(t *testing.T) {
	mock := healthyMock()
	mock.ProgressVal = nil
	mock.ProgressErr = apierrors.NewUnavailableError("/api/progress", "no learnings yet")
	deps, _, _ := testDeps(mock)

	out, err := runCmd(t, deps, "status", "progress")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "no learnings yet") {
		t.Errorf("placeholder should carry the reason:\n%s", out)
	}
}

func TestOfflineErr(t *testing.T) {
	cause := apierrors.NewNetworkError("health", errors.New("refused"))
	tests := []struct {
		name    string
		res     telemetry.Result
		wantErr bool
	}{
		{"ok", telemetry.Result{Kind: telemetry.KindGPU, Outcome: telemetry.OutcomeOK}, false},
		{"unavailable", telemetry.Result{Kind: telemetry.KindGPU, Outcome: telemetry.OutcomeUnavailable}, false},
		{"offline", telemetry.Result{Kind: telemetry.KindHealth, Outcome: telemetry.OutcomeOffline, Err: cause}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := offlineErr(tt.res)
			if (err != nil) != tt.wantErr {
				t.Fatalf("offlineErr() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && (!errors.Is(err, cause) || !strings.HasPrefix(err.Error(), "health feed")) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestWatchCmd_PrintsEveryFeed(t *testing.T) {
	mock := healthyMock()
	deps, _, _ := testDeps(mock)

	out, err := runCmd(t, deps, "watch", "--count", "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, kind := range telemetry.Kinds {
		if !strings.Contains(out, "] "+kind.String()+"\n") {
			t.Errorf("watch output missing %s feed:\n%s", kind, out)
		}
	}
	if !mock.CloseCalled {
		t.Error("client should be closed after watch")
	}
}
