package api

import (
	"strconv"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
)

// stringOr returns r as a string, or def when it is absent, null or empty
func stringOr(r gjson.Result, def string) string {
	if !r.Exists() || r.Type == gjson.Null {
		return def
	}
	if s := r.String(); s != "" {
		return s
	}
	return def
}

// firstOf unwraps a [value, ...] pair to its first element
func firstOf(r gjson.Result) gjson.Result {
	if r.IsArray() {
		return r.Get("0")
	}
	return r
}

func intList(r gjson.Result) []int {
	var out []int
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, int(v.Int()))
		return true
	})
	return out
}

func dataMap(r gjson.Result) map[string]interface{} {
	if !r.IsObject() {
		return nil
	}
	if m, ok := r.Value().(map[string]interface{}); ok {
		return m
	}
	return nil
}

// parseGPUSnapshot decodes /api/gpu-stats. Acceptance is decided by the caller.
func parseGPUSnapshot(res gjson.Result) models.GPUSnapshot {
	snap := models.GPUSnapshot{
		Success:       res.Get("success").Bool(),
		Error:         res.Get("error").String(),
		UnifiedMemory: res.Get("unified_memory").Bool(),
	}

	res.Get("gpus").ForEach(func(_, g gjson.Result) bool {
		snap.GPUs = append(snap.GPUs, models.GPU{
			Index:         int(g.Get("index").Int()),
			Name:          stringOr(g.Get("name"), "Unknown GPU"),
			MemoryTotal:   g.Get("memory_total").Float(),
			MemoryUsed:    g.Get("memory_used").Float(),
			MemoryFree:    g.Get("memory_free").Float(),
			GPUUtil:       g.Get("gpu_util").Float(),
			MemUtil:       g.Get("mem_util").Float(),
			Temperature:   g.Get("temperature").Float(),
			PowerDraw:     g.Get("power_draw").Float(),
			PowerLimit:    g.Get("power_limit").Float(),
			UnifiedMemory: g.Get("unified_memory").Bool(),
		})
		return true
	})

	return snap
}

// parseStatusSnapshot decodes /api/status
func parseStatusSnapshot(res gjson.Result) (models.StatusSnapshot, error) {
	db := res.Get("database")
	if !db.IsObject() {
		return models.StatusSnapshot{}, apierrors.NewUnavailableError(models.PathStatus, "response has no database section")
	}

	snap := models.StatusSnapshot{
		Database: models.PuzzleDatabase{
			TotalPuzzles: int(db.Get("total_puzzles").Int()),
			Solved:       intList(db.Get("puzzles")),
			Consecutive:  intList(db.Get("consecutive")),
			Bridges:      intList(db.Get("bridges")),
			Unsolved:     intList(db.Get("unsolved")),
			Missing:      intList(db.Get("missing")),
		},
		Verification: models.Verification{
			Accuracy:      stringOr(res.Get("verification.accuracy"), "N/A"),
			TotalMatches:  int(res.Get("verification.total_matches").Int()),
			TotalChecks:   int(res.Get("verification.total_checks").Int()),
			Perfect:       res.Get("verification.perfect").Bool(),
			MismatchCount: int(res.Get("verification.mismatch_count").Int()),
		},
		LanesAt100: int(res.Get("drift_stats.lanes_at_100pct").Int()),
	}

	calib := res.Get("calibration")
	suggested := res.Get("drift_stats.suggested_drift")
	snap.Calibration.NonzeroDrifts = int(calib.Get("nonzero_drifts").Int())
	for i := 0; i < models.LaneCount; i++ {
		key := strconv.Itoa(i)
		hint := suggested.Get(key)
		snap.Calibration.Lanes = append(snap.Calibration.Lanes, models.Lane{
			Index:      i,
			A:          stringOr(firstOf(calib.Get("a_matrix."+key)), "?"),
			CurrentC:   stringOr(firstOf(calib.Get("cstar.0."+key)), "0"),
			Suggested:  stringOr(hint.Get("value"), "?"),
			Percentage: stringOr(hint.Get("percentage"), "?"),
		})
	}

	return snap, nil
}

// parseHealthSnapshot decodes the health object of /api/health
func parseHealthSnapshot(h gjson.Result) models.HealthSnapshot {
	return models.HealthSnapshot{
		Daemon: models.ServiceHealth{
			Status: stringOr(h.Get("daemon.status"), "unknown"),
			Active: h.Get("daemon.active").Bool(),
		},
		Ollama: models.ServiceHealth{
			Status: stringOr(h.Get("ollama.status"), "unknown"),
			Count:  int(h.Get("ollama.models").Int()),
		},
		Database: models.ServiceHealth{
			Status: stringOr(h.Get("database.status"), "unknown"),
			Count:  int(h.Get("database.puzzles").Int()),
		},
		Memory: models.MemoryHealth{
			Status:      stringOr(h.Get("memory.status"), "unknown"),
			Discoveries: int(h.Get("memory.discoveries").Int()),
			Learnings:   int(h.Get("memory.learnings").Int()),
		},
	}
}

// parseProgressSnapshot decodes the progress object of /api/progress
func parseProgressSnapshot(p gjson.Result) models.ProgressSnapshot {
	snap := models.ProgressSnapshot{
		TotalLearnings:          int(p.Get("total_learnings").Int()),
		HighConfidenceLearnings: int(p.Get("high_confidence_learnings").Int()),
		TotalDiscoveries:        int(p.Get("total_discoveries").Int()),
		VerifiedDiscoveries:     int(p.Get("verified_discoveries").Int()),
		StrategyExecutions:      int(p.Get("strategy_executions").Int()),
		SuccessfulExecutions:    int(p.Get("successful_executions").Int()),
		SuccessRate:             p.Get("success_rate").Float(),
	}

	p.Get("learning_topics").ForEach(func(k, v gjson.Result) bool {
		snap.Topics = append(snap.Topics, models.TopicCount{Topic: k.String(), Count: int(v.Int())})
		return true
	})

	p.Get("recent_learnings").ForEach(func(_, l gjson.Result) bool {
		snap.RecentLearnings = append(snap.RecentLearnings, models.Learning{
			Topic:      stringOr(l.Get("topic"), "unknown"),
			Insight:    l.Get("insight").String(),
			Confidence: l.Get("confidence").Float(),
		})
		return true
	})

	return snap
}

// parseChatReply decodes a /api/chat response
func parseChatReply(res gjson.Result) models.ChatReply {
	return models.ChatReply{
		Message:      res.Get("message").String(),
		Error:        res.Get("error").String(),
		ActionTaken:  res.Get("action_taken").String(),
		ActionNeeded: res.Get("action_needed").String(),
		Query:        res.Get("query").String(),
		Data:         dataMap(res.Get("data")),
	}
}

// parseHistory decodes the history list of /api/chat/history
func parseHistory(res gjson.Result) []models.HistoryEntry {
	var out []models.HistoryEntry
	res.Get("history").ForEach(func(_, m gjson.Result) bool {
		out = append(out, models.HistoryEntry{
			Role:      models.Role(stringOr(m.Get("role"), string(models.RoleAssistant))),
			Content:   m.Get("content").String(),
			Action:    m.Get("action").String(),
			Data:      dataMap(m.Get("data")),
			Timestamp: m.Get("timestamp").String(),
		})
		return true
	})
	return out
}

// optionalFloat returns nil for absent or null numbers
func optionalFloat(r gjson.Result) *float64 {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	v := r.Float()
	return &v
}
