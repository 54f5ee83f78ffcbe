package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
)

// scriptFailure reports a failed script run, preferring its captured output
func scriptFailure(res gjson.Result, path string) error {
	if res.Get("success").Bool() {
		return nil
	}
	if out := res.Get("output").String(); out != "" {
		return apierrors.NewUnavailableError(path, out)
	}
	return apierrors.NewUnavailableError(path, failureReason(res))
}

// Verify runs the affine verification script
func (c *LadderClient) Verify(ctx context.Context) (*models.VerifyResult, error) {
	res, err := c.postJSON(ctx, models.PathVerify, nil)
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, models.PathVerify); err != nil {
		return nil, err
	}

	return &models.VerifyResult{
		Passed:  res.Get("verification_passed").Bool(),
		Forward: optionalFloat(res.Get("forward_percentage")),
		Reverse: optionalFloat(res.Get("reverse_percentage")),
		Output:  res.Get("output").String(),
	}, nil
}

// ComputeDrift computes the missing lane-0 drift from the bridge puzzles
func (c *LadderClient) ComputeDrift(ctx context.Context) (*models.DriftResult, error) {
	res, err := c.postJSON(ctx, models.PathComputeDrift, nil)
	if err != nil {
		return nil, err
	}
	if err := scriptFailure(res, models.PathComputeDrift); err != nil {
		return nil, err
	}

	out := &models.DriftResult{
		Success: true,
		Hex75:   res.Get("hex75").String(),
		Hex80:   res.Get("hex80").String(),
		Output:  res.Get("output").String(),
	}
	res.Get("drift.C0_0").ForEach(func(_, v gjson.Result) bool {
		out.C0 = append(out.C0, v.String())
		return true
	})
	return out, nil
}

// PatchCalibration applies the computed drift to the calibration file
func (c *LadderClient) PatchCalibration(ctx context.Context) (*models.CommandResult, error) {
	res, err := c.postJSON(ctx, models.PathPatchCalibration, nil)
	if err != nil {
		return nil, err
	}
	if err := scriptFailure(res, models.PathPatchCalibration); err != nil {
		return nil, err
	}
	return &models.CommandResult{Success: true, Output: res.Get("output").String()}, nil
}

// Generate predicts the next puzzle key. A run without a key is a failure.
func (c *LadderClient) Generate(ctx context.Context) (*models.GenerateResult, error) {
	res, err := c.postJSON(ctx, models.PathGenerate, nil)
	if err != nil {
		return nil, err
	}
	if err := scriptFailure(res, models.PathGenerate); err != nil {
		return nil, err
	}

	hex := strings.TrimSpace(res.Get("generated_hex").String())
	if hex == "" {
		reason := res.Get("output").String()
		if reason == "" {
			reason = "no key was generated"
		}
		return nil, apierrors.NewUnavailableError(models.PathGenerate, reason)
	}

	return &models.GenerateResult{
		Success:      true,
		GeneratedHex: hex,
		Output:       res.Get("output").String(),
	}, nil
}

// ValidateAddress checks a private key against a puzzle address.
// puzzle <= 0 uses the default puzzle.
func (c *LadderClient) ValidateAddress(ctx context.Context, privKeyHex string, puzzle int) (*models.ValidateResult, error) {
	privKeyHex = strings.TrimSpace(privKeyHex)
	if privKeyHex == "" {
		return nil, apierrors.ErrMissingPrivateKey
	}
	if puzzle <= 0 {
		puzzle = models.DefaultPuzzleNum
	}

	res, err := c.postJSON(ctx, models.PathValidateAddress, models.ValidateRequest{
		PrivKeyHex: privKeyHex,
		PuzzleNum:  puzzle,
	})
	if err != nil {
		return nil, err
	}
	if err := scriptFailure(res, models.PathValidateAddress); err != nil {
		return nil, err
	}

	return &models.ValidateResult{
		Passed: res.Get("validation_passed").Bool(),
		Output: res.Get("output").String(),
	}, nil
}

// Puzzle fetches one puzzle record
func (c *LadderClient) Puzzle(ctx context.Context, n int) (*models.PuzzleInfo, error) {
	path := models.PuzzlePath(n)
	res, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, path); err != nil {
		return nil, err
	}

	bits := int(res.Get("bits").Int())
	if bits == 0 {
		bits = n
	}
	return &models.PuzzleInfo{
		Bits:       bits,
		Hex:        res.Get("hex").String(),
		InDatabase: res.Get("in_database").Bool(),
	}, nil
}

// Documentation fetches a markdown document by name
func (c *LadderClient) Documentation(ctx context.Context, name string) (*models.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierrors.ErrEmptyInput
	}

	path := models.PathDocumentation + url.PathEscape(name)
	res, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, path); err != nil {
		return nil, err
	}
	return &models.Document{Name: name, Content: res.Get("content").String()}, nil
}
