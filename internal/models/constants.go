// Package models contains data types and constants for the ladder backend API.
package models

import "strconv"

// Backend endpoint paths, relative to the configured base URL
const (
	PathGPUStats         = "/api/gpu-stats"
	PathStatus           = "/api/status"
	PathHealth           = "/api/health"
	PathProgress         = "/api/progress"
	PathChat             = "/api/chat"
	PathChatHistory      = "/api/chat/history"
	PathModelsAvailable  = "/api/models/available"
	PathModelsSelect     = "/api/models/select"
	PathModelsSearch     = "/api/models/search"
	PathVerify           = "/api/verify"
	PathComputeDrift     = "/api/compute-drift"
	PathPatchCalibration = "/api/patch-calibration"
	PathGenerate         = "/api/generate"
	PathValidateAddress  = "/api/validate-address"
	PathPuzzles          = "/api/puzzles/"
	PathDocumentation    = "/api/documentation/"
)

// Puzzle and calibration dimensions
const (
	TotalPuzzles     = 160
	LaneCount        = 16
	DriftSlots       = 32
	LanesHighlighted = 7
	DefaultPuzzleNum = 71
)

// DefaultModelQuery is used by model search when no query is given
const DefaultModelQuery = "qwen"

// PuzzlePath returns the detail path for puzzle n
func PuzzlePath(n int) string {
	return PathPuzzles + strconv.Itoa(n)
}

// Headers returns the default headers for backend requests
func Headers() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   "ladderweb",
	}
}
