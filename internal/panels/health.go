package panels

import (
	"fmt"
	"strings"

	"github.com/diogo/ladderweb/internal/models"
)

const (
	HealthTitle   = "🩺 System Health"
	HealthOffline = "Error loading health status"
)

// HealthUnavailableText is the placeholder for a health feed that reported failure
func HealthUnavailableText(reason string) string {
	if reason == "" {
		return HealthOffline
	}
	return HealthOffline + ": " + reason
}

// HealthItem is one subsystem line of the health panel
type HealthItem struct {
	Name    string
	Status  string
	Healthy bool
	Detail  string
}

// HealthItems derives the four subsystem rows from a snapshot
func HealthItems(h models.HealthSnapshot) []HealthItem {
	return []HealthItem{
		{
			Name:    "🤖 Autonomous Daemon",
			Status:  orUnknown(h.Daemon.Status),
			Healthy: h.Daemon.Active,
			Detail:  "ladder.service",
		},
		{
			Name:    "🦙 Ollama",
			Status:  orUnknown(h.Ollama.Status),
			Healthy: h.Ollama.Status == "connected",
			Detail:  fmt.Sprintf("%d models available", h.Ollama.Count),
		},
		{
			Name:    "🗄️ Database",
			Status:  orUnknown(h.Database.Status),
			Healthy: h.Database.Status == "healthy",
			Detail:  fmt.Sprintf("%d/%d puzzles", h.Database.Count, models.TotalPuzzles),
		},
		{
			Name:    "🧠 Memory System",
			Status:  orUnknown(h.Memory.Status),
			Healthy: h.Memory.Status == "healthy",
			Detail:  fmt.Sprintf("%d discoveries, %d learnings", h.Memory.Discoveries, h.Memory.Learnings),
		},
	}
}

// Health renders the subsystem summary
func (s *Surface) Health(h models.HealthSnapshot) string {
	items := HealthItems(h)
	lines := make([]string, 0, len(items))
	for _, it := range items {
		icon := "✗"
		if it.Healthy {
			icon = "✓"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			s.colored(icon, s.okColor(it.Healthy)),
			s.label(it.Name),
			s.badge(it.Status, s.okColor(it.Healthy)),
			s.dim(it.Detail)))
	}
	return s.box(HealthTitle, strings.Join(lines, "\n"))
}

func orUnknown(status string) string {
	if status == "" {
		return "unknown"
	}
	return status
}
