package panels

import (
	"strings"
	"testing"

	"github.com/diogo/ladderweb/internal/models"
)

func TestInsightText(t *testing.T) {
	long := strings.Repeat("a", 150)
	if got := InsightText(long); got != strings.Repeat("a", 100)+"..." {
		t.Errorf("InsightText(150 chars) has length %d", len(got))
	}
	if got := InsightText("short"); got != "short..." {
		t.Errorf("InsightText(short) = %q", got)
	}
	// multi-byte characters count once
	if got := InsightText(strings.Repeat("é", 120)); got != strings.Repeat("é", 100)+"..." {
		t.Errorf("InsightText(runes) = %q", got)
	}
}

func TestSuccessRateText(t *testing.T) {
	tests := map[float64]string{0: "0.0%", 0.625: "62.5%", 1: "100.0%"}
	for rate, want := range tests {
		if got := SuccessRateText(rate); got != want {
			t.Errorf("SuccessRateText(%v) = %q, want %q", rate, got, want)
		}
	}
}

func TestProgress(t *testing.T) {
	p := models.ProgressSnapshot{
		TotalLearnings:          12,
		HighConfidenceLearnings: 5,
		TotalDiscoveries:        3,
		VerifiedDiscoveries:     1,
		StrategyExecutions:      8,
		SuccessfulExecutions:    5,
		SuccessRate:             0.625,
		Topics: []models.TopicCount{
			{Topic: "drift", Count: 7},
			{Topic: "bridges", Count: 2},
		},
	}
	for i := 0; i < 7; i++ {
		p.RecentLearnings = append(p.RecentLearnings, models.Learning{Topic: "drift", Insight: "lane " + string(rune('a'+i)), Confidence: 0.9})
	}
	p.RecentLearnings[0].Topic = ""

	out := plainSurface().Progress(p)
	for _, want := range []string{
		"62.5%",
		"5/8 strategies",
		"12",
		"5 high confidence",
		"1 verified",
		"[drift: 7]",
		"unknown: lane a...",
		"(90%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "drift: 7") > strings.Index(out, "bridges: 2") {
		t.Error("topics must keep response order")
	}
	if strings.Contains(out, "lane f") || strings.Contains(out, "lane g") {
		t.Errorf("only %d recent learnings are shown:\n%s", MaxRecentLearnings, out)
	}
}
