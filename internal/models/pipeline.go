package models

// VerifyResult is the response of POST /api/verify
type VerifyResult struct {
	Passed  bool
	Forward *float64
	Reverse *float64
	Output  string
}

// DriftResult is the response of POST /api/compute-drift
type DriftResult struct {
	Success bool
	C0      []string
	Hex75   string
	Hex80   string
	Output  string
	Error   string
}

// CommandResult is a script run with only an output, as returned by patch
type CommandResult struct {
	Success bool
	Output  string
	Error   string
}

// GenerateResult is the response of POST /api/generate
type GenerateResult struct {
	Success      bool
	GeneratedHex string
	Output       string
	Error        string
}

// PrivateKey returns the generated key with its 0x prefix, or ""
func (g GenerateResult) PrivateKey() string {
	if g.GeneratedHex == "" {
		return ""
	}
	return "0x" + g.GeneratedHex
}

// ValidateRequest is the body of POST /api/validate-address
type ValidateRequest struct {
	PrivKeyHex string `json:"privkey_hex"`
	PuzzleNum  int    `json:"puzzle_num"`
}

// ValidateResult is the response of POST /api/validate-address
type ValidateResult struct {
	Passed bool
	Output string
}

// PuzzleInfo is the response of GET /api/puzzles/{n}
type PuzzleInfo struct {
	Bits       int
	Hex        string
	InDatabase bool
}

// Document is the response of GET /api/documentation/{name}
type Document struct {
	Name    string
	Content string
}

// AvailableModels is the response of GET /api/models/available
type AvailableModels struct {
	Models  []string
	Current string
}

// ModelSearchHit is one entry of GET /api/models/search
type ModelSearchHit struct {
	Name        string
	Size        string
	Type        string
	Description string
	URL         string
}

// ModelSearch is the response of GET /api/models/search
type ModelSearch struct {
	Query string
	Hits  []ModelSearchHit
}
