package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/diogo/ladderweb/internal/api"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
)

func TestPipelineCmds(t *testing.T) {
	forward := 1.0
	tests := []struct {
		name  string
		args  []string
		mock  *api.MockLadderClient
		want  []string
		calls string
	}{
		{
			name:  "verify passed",
			args:  []string{"verify"},
			mock:  &api.MockLadderClient{VerifyVal: &models.VerifyResult{Passed: true, Forward: &forward, Output: "lanes ok"}},
			want:  []string{"Verify Ladder", "SUCCESS", "lanes ok", "Phase 5"},
			calls: "Verify",
		},
		{
			name:  "verify failed",
			args:  []string{"verify"},
			mock:  &api.MockLadderClient{VerifyVal: &models.VerifyResult{Passed: false}},
			want:  []string{"Verification Failed", "Phase 2"},
			calls: "Verify",
		},
		{
			name: "drift",
			args: []string{"drift"},
			mock: &api.MockLadderClient{DriftVal: &models.DriftResult{
				Success: true, C0: []string{"0x00", "0x01"}, Hex75: "abc75", Hex80: "abc80",
			}},
			want:  []string{"Compute Drift", "HEX75: abc75", "HEX80: abc80", "Lane 1"},
			calls: "ComputeDrift",
		},
		{
			name:  "patch",
			args:  []string{"patch"},
			mock:  &api.MockLadderClient{PatchVal: &models.CommandResult{Success: true, Output: "patched 16 lanes"}},
			want:  []string{"Calibration Patched", "patched 16 lanes"},
			calls: "PatchCalibration",
		},
		{
			name:  "puzzle in database",
			args:  []string{"puzzle", "71"},
			mock:  &api.MockLadderClient{PuzzleVal: &models.PuzzleInfo{Bits: 71, Hex: "deadbeef", InDatabase: true}},
			want:  []string{"Puzzle 71:", "deadbeef"},
			calls: "Puzzle",
		},
		{
			name:  "puzzle missing",
			args:  []string{"puzzle", "72"},
			mock:  &api.MockLadderClient{PuzzleVal: &models.PuzzleInfo{Bits: 72}},
			want:  []string{"NOT in the database"},
			calls: "Puzzle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _, _ := testDeps(tt.mock)
			out, err := runCmd(t, deps, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			if tt.mock.CallCount(tt.calls) != 1 {
				t.Errorf("%s calls = %d, want 1", tt.calls, tt.mock.CallCount(tt.calls))
			}
		})
	}
}

func TestPipelineCmds_ScriptFailureReported(t *testing.T) {
	mock := &api.MockLadderClient{
		DriftErr: apierrors.NewUnavailableError(models.PathComputeDrift, "calibration file missing"),
	}
	deps, _, _ := testDeps(mock)

	out, err := runCmd(t, deps, "drift")
	var shown *reportedError
	if !errors.As(err, &shown) {
		t.Fatalf("err = %v, want a reported error", err)
	}
	if !apierrors.IsUnavailable(err) {
		t.Error("reported error should keep its cause")
	}
	if !strings.Contains(out, "❌ Error") || !strings.Contains(out, "calibration file missing") {
		t.Errorf("failure panel missing:\n%s", out)
	}
}

func TestPipelineCmds_TransportFailureReturned(t *testing.T) {
	mock := &api.MockLadderClient{VerifyErr: apierrors.NewNetworkError("verify", errors.New("refused"))}
	deps, _, _ := testDeps(mock)

	_, err := runCmd(t, deps, "verify")
	var shown *reportedError
	if errors.As(err, &shown) {
		t.Error("transport failures are printed by the root, not as a panel")
	}
	if !apierrors.IsNetworkError(err) {
		t.Errorf("err = %v", err)
	}
}

func TestGenerateCmd_Copy(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		configCopy bool
		wantCopied []string
	}{
		{"no copy", []string{"generate"}, false, nil},
		{"copy flag", []string{"generate", "--copy"}, false, []string{"0xabc123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &api.MockLadderClient{GenerateVal: &models.GenerateResult{Success: true, GeneratedHex: "abc123"}}
			deps, _, copied := testDeps(mock)

			out, err := runCmd(t, deps, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, "0xabc123") || !strings.Contains(out, "Phase 6") {
				t.Errorf("output:\n%s", out)
			}
			if len(*copied) != len(tt.wantCopied) {
				t.Fatalf("copied = %v, want %v", *copied, tt.wantCopied)
			}
			for i := range tt.wantCopied {
				if (*copied)[i] != tt.wantCopied[i] {
					t.Errorf("copied[%d] = %q", i, (*copied)[i])
				}
			}
			if len(tt.wantCopied) > 0 && !strings.Contains(out, "Copied to clipboard") {
				t.Error("missing clipboard confirmation")
			}
		})
	}
}

func TestGenerateCmd_CopyFailureWarns(t *testing.T) {
	mock := &api.MockLadderClient{GenerateVal: &models.GenerateResult{Success: true, GeneratedHex: "ff"}}
	deps, _, _ := testDeps(mock)
	deps.Clipboard = func(string) error { return errors.New("no display") }

	out, err := runCmd(t, deps, "generate", "-c")
	if err != nil {
		t.Fatalf("a clipboard failure must not fail the command: %v", err)
	}
	if !strings.Contains(out, "Failed to copy to clipboard: no display") {
		t.Errorf("output:\n%s", out)
	}
}

func TestValidateCmd(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		passed     bool
		wantKey    string
		wantPuzzle int
		want       string
	}{
		{"default puzzle", []string{"validate", "0xdeadbeef"}, true, "deadbeef", models.DefaultPuzzleNum, "MATCH"},
		{"explicit puzzle", []string{"validate", "cafe", "--puzzle", "70"}, false, "cafe", 70, "Address Mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &api.MockLadderClient{ValidateVal: &models.ValidateResult{Passed: tt.passed}}
			deps, _, _ := testDeps(mock)

			out, err := runCmd(t, deps, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mock.LastPrivKey != tt.wantKey || mock.LastPuzzle != tt.wantPuzzle {
				t.Errorf("sent key=%q puzzle=%d", mock.LastPrivKey, mock.LastPuzzle)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestValidateCmd_MissingKey(t *testing.T) {
	for _, args := range [][]string{{"validate"}, {"validate", "0x"}, {"validate", "  "}} {
		mock := &api.MockLadderClient{}
		deps, _, _ := testDeps(mock)

		_, err := runCmd(t, deps, args...)
		if !errors.Is(err, apierrors.ErrMissingPrivateKey) {
			t.Errorf("%v: err = %v, want ErrMissingPrivateKey", args, err)
		}
		if mock.CallCount("ValidateAddress") != 0 {
			t.Errorf("%v: backend should not be called", args)
		}
	}
}

func TestParsePuzzle(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"71", 71, false},
		{" 1 ", 1, false},
		{"160", 160, false},
		{"0", 0, true},
		{"161", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parsePuzzle(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePuzzle(%q) err = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePuzzle(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestDocCmd_RawWhenNotTTY(t *testing.T) {
	content := "# Ladder\n\nSixteen lanes."
	mock := &api.MockLadderClient{DocumentVal: &models.Document{Name: "ladder", Content: content}}
	deps, _, _ := testDeps(mock)

	out, err := runCmd(t, deps, "doc", "ladder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != content {
		t.Errorf("output = %q, want the markdown source", out)
	}
	if mock.LastDocument != "ladder" {
		t.Errorf("document = %q", mock.LastDocument)
	}
}

func TestDocCmd_Error(t *testing.T) {
	mock := &api.MockLadderClient{DocumentErr: apierrors.NewUnavailableError("/api/documentation/x", "not found")}
	deps, _, _ := testDeps(mock)

	if _, err := runCmd(t, deps, "doc", "x"); err == nil || !strings.Contains(err.Error(), "failed to load x") {
		t.Errorf("err = %v", err)
	}
}
