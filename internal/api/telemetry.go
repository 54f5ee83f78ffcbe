package api

import (
	"context"

	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
)

// GPUStats fetches the GPU feed. A snapshot that is neither successful nor
// carries devices is an UnavailableError with the backend's reason.
func (c *LadderClient) GPUStats(ctx context.Context) (*models.GPUSnapshot, error) {
	res, err := c.getJSON(ctx, models.PathGPUStats)
	if err != nil {
		return nil, err
	}

	snap := parseGPUSnapshot(res)
	if !snap.Accepted() {
		return nil, apierrors.NewUnavailableError(models.PathGPUStats, failureReason(res))
	}
	return &snap, nil
}

// Status fetches the puzzle database, calibration and verification summary
func (c *LadderClient) Status(ctx context.Context) (*models.StatusSnapshot, error) {
	res, err := c.getJSON(ctx, models.PathStatus)
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, models.PathStatus); err != nil {
		return nil, err
	}

	snap, err := parseStatusSnapshot(res)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health fetches the subsystem health summary
func (c *LadderClient) Health(ctx context.Context) (*models.HealthSnapshot, error) {
	res, err := c.getJSON(ctx, models.PathHealth)
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, models.PathHealth); err != nil {
		return nil, err
	}

	h := res.Get("health")
	if !h.IsObject() {
		return nil, apierrors.NewUnavailableError(models.PathHealth, "response has no health section")
	}

	snap := parseHealthSnapshot(h)
	return &snap, nil
}

// Progress fetches learning and strategy metrics
func (c *LadderClient) Progress(ctx context.Context) (*models.ProgressSnapshot, error) {
	res, err := c.getJSON(ctx, models.PathProgress)
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, models.PathProgress); err != nil {
		return nil, err
	}

	p := res.Get("progress")
	if !p.IsObject() {
		return nil, apierrors.NewUnavailableError(models.PathProgress, "response has no progress section")
	}

	snap := parseProgressSnapshot(p)
	return &snap, nil
}
