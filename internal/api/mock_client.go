package api

import (
	"context"
	"sync"

	"github.com/diogo/ladderweb/internal/models"
)

// MockLadderClient is a mock implementation of LadderClientInterface for testing.
// It is safe for concurrent use so the poller can call it from its goroutines.
type MockLadderClient struct {
	mu sync.Mutex

	// Mock return values
	GPUVal        *models.GPUSnapshot
	GPUErr        error
	StatusVal     *models.StatusSnapshot
	StatusErr     error
	HealthVal     *models.HealthSnapshot
	HealthErr     error
	ProgressVal   *models.ProgressSnapshot
	ProgressErr   error
	ChatVal       *models.ChatReply
	ChatErr       error
	HistoryVal    []models.HistoryEntry
	HistoryErr    error
	AvailableVal  *models.AvailableModels
	AvailableErr  error
	SelectVal     string
	SelectErr     error
	SearchVal     *models.ModelSearch
	SearchErr     error
	VerifyVal     *models.VerifyResult
	VerifyErr     error
	DriftVal      *models.DriftResult
	DriftErr      error
	PatchVal      *models.CommandResult
	PatchErr      error
	GenerateVal   *models.GenerateResult
	GenerateErr   error
	ValidateVal   *models.ValidateResult
	ValidateErr   error
	PuzzleVal     *models.PuzzleInfo
	PuzzleErr     error
	DocumentVal   *models.Document
	DocumentErr   error
	BaseURLVal    string
	IsClosedVal   bool

	// ChatFunc, when set, replaces ChatVal/ChatErr
	ChatFunc func(ctx context.Context, message string, useRAG bool) (*models.ChatReply, error)

	// Call counters/recorders
	Calls        map[string]int
	LastMessage  string
	LastUseRAG   bool
	LastModel    string
	LastQuery    string
	LastPrivKey  string
	LastPuzzle   int
	LastDocument string
	CloseCalled  bool
}

// Ensure MockLadderClient implements LadderClientInterface
var _ LadderClientInterface = (*MockLadderClient)(nil)

func (m *MockLadderClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
}

// CallCount returns how many times name was called
func (m *MockLadderClient) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *MockLadderClient) GPUStats(ctx context.Context) (*models.GPUSnapshot, error) {
	m.record("GPUStats")
	return m.GPUVal, m.GPUErr
}

func (m *MockLadderClient) Status(ctx context.Context) (*models.StatusSnapshot, error) {
	m.record("Status")
	return m.StatusVal, m.StatusErr
}

func (m *MockLadderClient) Health(ctx context.Context) (*models.HealthSnapshot, error) {
	m.record("Health")
	return m.HealthVal, m.HealthErr
}

func (m *MockLadderClient) Progress(ctx context.Context) (*models.ProgressSnapshot, error) {
	m.record("Progress")
	return m.ProgressVal, m.ProgressErr
}

func (m *MockLadderClient) Chat(ctx context.Context, message string, useRAG bool) (*models.ChatReply, error) {
	m.record("Chat")
	m.mu.Lock()
	m.LastMessage = message
	m.LastUseRAG = useRAG
	fn := m.ChatFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, message, useRAG)
	}
	return m.ChatVal, m.ChatErr
}

func (m *MockLadderClient) ChatHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	m.record("ChatHistory")
	return m.HistoryVal, m.HistoryErr
}

func (m *MockLadderClient) AvailableModels(ctx context.Context) (*models.AvailableModels, error) {
	m.record("AvailableModels")
	return m.AvailableVal, m.AvailableErr
}

func (m *MockLadderClient) SelectModel(ctx context.Context, name string) (string, error) {
	m.record("SelectModel")
	m.mu.Lock()
	m.LastModel = name
	m.mu.Unlock()
	if m.SelectVal == "" && m.SelectErr == nil {
		return name, nil
	}
	return m.SelectVal, m.SelectErr
}

func (m *MockLadderClient) SearchModels(ctx context.Context, query string) (*models.ModelSearch, error) {
	m.record("SearchModels")
	m.mu.Lock()
	m.LastQuery = query
	m.mu.Unlock()
	return m.SearchVal, m.SearchErr
}

func (m *MockLadderClient) Verify(ctx context.Context) (*models.VerifyResult, error) {
	m.record("Verify")
	return m.VerifyVal, m.VerifyErr
}

func (m *MockLadderClient) ComputeDrift(ctx context.Context) (*models.DriftResult, error) {
	m.record("ComputeDrift")
	return m.DriftVal, m.DriftErr
}

func (m *MockLadderClient) PatchCalibration(ctx context.Context) (*models.CommandResult, error) {
	m.record("PatchCalibration")
	return m.PatchVal, m.PatchErr
}

func (m *MockLadderClient) Generate(ctx context.Context) (*models.GenerateResult, error) {
	m.record("Generate")
	return m.GenerateVal, m.GenerateErr
}

func (m *MockLadderClient) ValidateAddress(ctx context.Context, privKeyHex string, puzzle int) (*models.ValidateResult, error) {
	m.record("ValidateAddress")
	m.mu.Lock()
	m.LastPrivKey = privKeyHex
	m.LastPuzzle = puzzle
	m.mu.Unlock()
	return m.ValidateVal, m.ValidateErr
}

func (m *MockLadderClient) Puzzle(ctx context.Context, n int) (*models.PuzzleInfo, error) {
	m.record("Puzzle")
	m.mu.Lock()
	m.LastPuzzle = n
	m.mu.Unlock()
	return m.PuzzleVal, m.PuzzleErr
}

func (m *MockLadderClient) Documentation(ctx context.Context, name string) (*models.Document, error) {
	m.record("Documentation")
	m.mu.Lock()
	m.LastDocument = name
	m.mu.Unlock()
	return m.DocumentVal, m.DocumentErr
}

func (m *MockLadderClient) BaseURL() string {
	return m.BaseURLVal
}

func (m *MockLadderClient) Close() {
	m.CloseCalled = true
}

func (m *MockLadderClient) IsClosed() bool {
	return m.IsClosedVal
}
