package api

import (
	"context"

	"github.com/diogo/ladderweb/internal/models"
)

// TelemetryClient is the subset used by the telemetry poller
type TelemetryClient interface {
	GPUStats(ctx context.Context) (*models.GPUSnapshot, error)
	Status(ctx context.Context) (*models.StatusSnapshot, error)
	Health(ctx context.Context) (*models.HealthSnapshot, error)
	Progress(ctx context.Context) (*models.ProgressSnapshot, error)
}

// ChatClient is the subset used by the chat controller
type ChatClient interface {
	Chat(ctx context.Context, message string, useRAG bool) (*models.ChatReply, error)
	ChatHistory(ctx context.Context) ([]models.HistoryEntry, error)
}

// LadderClientInterface is the full backend surface
type LadderClientInterface interface {
	TelemetryClient
	ChatClient

	AvailableModels(ctx context.Context) (*models.AvailableModels, error)
	SelectModel(ctx context.Context, name string) (string, error)
	SearchModels(ctx context.Context, query string) (*models.ModelSearch, error)

	Verify(ctx context.Context) (*models.VerifyResult, error)
	ComputeDrift(ctx context.Context) (*models.DriftResult, error)
	PatchCalibration(ctx context.Context) (*models.CommandResult, error)
	Generate(ctx context.Context) (*models.GenerateResult, error)
	ValidateAddress(ctx context.Context, privKeyHex string, puzzle int) (*models.ValidateResult, error)
	Puzzle(ctx context.Context, n int) (*models.PuzzleInfo, error)
	Documentation(ctx context.Context, name string) (*models.Document, error)

	BaseURL() string
	Close()
	IsClosed() bool
}

// Ensure LadderClient implements LadderClientInterface
var _ LadderClientInterface = (*LadderClient)(nil)
