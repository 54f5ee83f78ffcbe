package models

// GPU is one device from /api/gpu-stats. Memory figures are in MB.
type GPU struct {
	Index         int
	Name          string
	MemoryTotal   float64
	MemoryUsed    float64
	MemoryFree    float64
	GPUUtil       float64
	MemUtil       float64
	Temperature   float64
	PowerDraw     float64
	PowerLimit    float64
	UnifiedMemory bool
}

// GPUSnapshot is the parsed GPU feed
type GPUSnapshot struct {
	Success       bool
	Error         string
	UnifiedMemory bool
	GPUs          []GPU
}

// Accepted reports whether the snapshot can be rendered as GPU cards
func (s GPUSnapshot) Accepted() bool {
	return s.Success || len(s.GPUs) > 0
}

// PuzzleDatabase is the database section of /api/status
type PuzzleDatabase struct {
	TotalPuzzles int
	Solved       []int
	Consecutive  []int
	Bridges      []int
	Unsolved     []int
	Missing      []int
}

// Lane is one calibration dimension as displayed
type Lane struct {
	Index      int
	A          string
	CurrentC   string
	Suggested  string
	Percentage string
}

// Consistent reports whether the suggested drift holds for every sample
func (l Lane) Consistent() bool {
	return l.Percentage == "100.0%"
}

// Calibration is the calibration section of /api/status
type Calibration struct {
	Lanes         []Lane
	NonzeroDrifts int
}

// Verification is the verification section of /api/status
type Verification struct {
	Accuracy      string
	TotalMatches  int
	TotalChecks   int
	Perfect       bool
	MismatchCount int
}

// StatusSnapshot is the parsed /api/status response
type StatusSnapshot struct {
	Database     PuzzleDatabase
	Calibration  Calibration
	Verification Verification
	LanesAt100   int
}

// ServiceHealth is one subsystem of /api/health
type ServiceHealth struct {
	Status string
	Active bool
	Count  int
}

// MemoryHealth is the memory subsystem of /api/health
type MemoryHealth struct {
	Status      string
	Discoveries int
	Learnings   int
}

// HealthSnapshot is the parsed /api/health response
type HealthSnapshot struct {
	Daemon   ServiceHealth
	Ollama   ServiceHealth
	Database ServiceHealth
	Memory   MemoryHealth
}

// Learning is one entry of recent_learnings
type Learning struct {
	Topic      string
	Insight    string
	Confidence float64
}

// TopicCount is one learning topic with its count, in response order
type TopicCount struct {
	Topic string
	Count int
}

// ProgressSnapshot is the parsed /api/progress response
type ProgressSnapshot struct {
	TotalLearnings          int
	HighConfidenceLearnings int
	TotalDiscoveries        int
	VerifiedDiscoveries     int
	StrategyExecutions      int
	SuccessfulExecutions    int
	SuccessRate             float64
	Topics                  []TopicCount
	RecentLearnings         []Learning
}
