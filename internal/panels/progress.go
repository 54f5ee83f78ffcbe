package panels

import (
	"fmt"
	"strings"

	"github.com/diogo/ladderweb/internal/models"
)

const (
	ProgressTitle   = "🚀 Progress"
	ProgressOffline = "Error loading progress data"

	// MaxRecentLearnings bounds the learnings list
	MaxRecentLearnings = 5
	// InsightLength is how much of an insight is shown
	InsightLength = 100
)

// ProgressUnavailableText is the placeholder for a progress feed that reported failure
func ProgressUnavailableText(reason string) string {
	if reason == "" {
		return ProgressOffline
	}
	return ProgressOffline + ": " + reason
}

// SuccessRateText formats a [0,1] rate as a percentage with one decimal
func SuccessRateText(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// InsightText cuts an insight to InsightLength characters and marks the cut
func InsightText(insight string) string {
	r := []rune(insight)
	if len(r) > InsightLength {
		r = r[:InsightLength]
	}
	return string(r) + "..."
}

// Progress renders learning and strategy metrics
func (s *Surface) Progress(p models.ProgressSnapshot) string {
	rateColor := s.levelColor(RateLevel(p.SuccessRate))
	learnColor := s.Theme.TextDim
	if p.TotalLearnings > 0 {
		learnColor = s.Theme.Good
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", s.label("⚡ Success Rate:"),
			s.colored(SuccessRateText(p.SuccessRate), rateColor),
			s.dim(fmt.Sprintf("%d/%d strategies", p.SuccessfulExecutions, p.StrategyExecutions))),
		fmt.Sprintf("%s %s %s", s.label("🎓 Learnings:"),
			s.colored(fmt.Sprint(p.TotalLearnings), learnColor),
			s.dim(fmt.Sprintf("%d high confidence", p.HighConfidenceLearnings))),
		fmt.Sprintf("%s %d %s", s.label("🔍 Discoveries:"),
			p.TotalDiscoveries,
			s.dim(fmt.Sprintf("%d verified", p.VerifiedDiscoveries))),
	}

	if len(p.Topics) > 0 {
		topics := make([]string, len(p.Topics))
		for i, t := range p.Topics {
			topics[i] = s.badge(fmt.Sprintf("%s: %d", t.Topic, t.Count), s.Theme.Accent)
		}
		lines = append(lines, "", s.label("Topics:")+" "+strings.Join(topics, " "))
	}

	if len(p.RecentLearnings) > 0 {
		lines = append(lines, "", s.label("Recent Learnings:"))
		recent := p.RecentLearnings
		if len(recent) > MaxRecentLearnings {
			recent = recent[:MaxRecentLearnings]
		}
		for _, l := range recent {
			topic := l.Topic
			if topic == "" {
				topic = "unknown"
			}
			lines = append(lines, fmt.Sprintf("• %s %s %s",
				s.label(topic+":"),
				InsightText(l.Insight),
				s.dim(fmt.Sprintf("(%.0f%%)", l.Confidence*100))))
		}
	}

	return s.box(ProgressTitle, strings.Join(lines, "\n"))
}
