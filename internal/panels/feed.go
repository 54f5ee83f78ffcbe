package panels

import (
	"time"

	"github.com/diogo/ladderweb/internal/telemetry"
)

// Feed renders the panel for a telemetry result, or the placeholder that
// matches its outcome. The footer reports the age of the result at now.
func (s *Surface) Feed(r telemetry.Result, now time.Time) string {
	return s.Footer(s.feedBody(r), Updated(r.At, now))
}

func (s *Surface) feedBody(r telemetry.Result) string {
	title, offline, unavailable := feedText(r.Kind)

	switch r.Outcome {
	case telemetry.OutcomeOffline:
		return s.Placeholder(title, offline)
	case telemetry.OutcomeUnavailable:
		return s.Placeholder(title, unavailable(r.Reason))
	}

	switch r.Kind {
	case telemetry.KindGPU:
		if r.GPU != nil {
			return s.GPU(*r.GPU)
		}
	case telemetry.KindStatus:
		if r.Status != nil {
			return s.Status(*r.Status)
		}
	case telemetry.KindHealth:
		if r.Health != nil {
			return s.Health(*r.Health)
		}
	case telemetry.KindProgress:
		if r.Progress != nil {
			return s.Progress(*r.Progress)
		}
	}
	return s.Placeholder(title, unavailable(""))
}

// FeedTitle returns the panel title for kind
func FeedTitle(kind telemetry.Kind) string {
	title, _, _ := feedText(kind)
	return title
}

func feedText(kind telemetry.Kind) (title, offline string, unavailable func(string) string) {
	switch kind {
	case telemetry.KindGPU:
		return GPUTitle, GPUOfflineText, GPUUnavailableText
	case telemetry.KindStatus:
		return StatusTitle, StatusOffline, StatusUnavailableText
	case telemetry.KindHealth:
		return HealthTitle, HealthOffline, HealthUnavailableText
	default:
		return ProgressTitle, ProgressOffline, ProgressUnavailableText
	}
}
