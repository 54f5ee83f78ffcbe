package panels

import (
	"fmt"
	"strings"

	"github.com/diogo/ladderweb/internal/models"
)

// GPU panel titles and placeholder messages
const (
	GPUTitle          = "🖥️  GPU"
	NoGPUsText        = "No GPUs detected"
	GPUOfflineText    = "Error loading GPU stats"
	MonitoringNAText  = "Monitoring N/A"
	SharedMemoryBadge = "Shared with CPU"
)

// GPUUnavailableText is the placeholder for a GPU feed that reported failure
func GPUUnavailableText(reason string) string {
	if reason == "" {
		reason = "Unknown error"
	}
	return "GPU monitoring unavailable: " + reason
}

// GPU renders one card per device
func (s *Surface) GPU(snap models.GPUSnapshot) string {
	if len(snap.GPUs) == 0 {
		return s.box(GPUTitle, s.dim(NoGPUsText))
	}

	cards := make([]string, 0, len(snap.GPUs))
	for _, g := range snap.GPUs {
		cards = append(cards, s.gpuCard(g, snap.UnifiedMemory || g.UnifiedMemory))
	}
	return s.box(GPUTitle, strings.Join(cards, "\n\n"))
}

func (s *Surface) gpuCard(g models.GPU, unified bool) string {
	var lines []string
	lines = append(lines, s.label(s.clip(fmt.Sprintf("GPU %d: %s", g.Index, g.Name), s.Width-4)))
	lines = append(lines, s.memoryLine(g, unified))

	util := s.levelColor(UtilLevel(g.GPUUtil))
	lines = append(lines, fmt.Sprintf("%s %s %s",
		s.label("GPU Util:"),
		s.bar(g.GPUUtil, s.barWidth(), util),
		s.colored(fmt.Sprintf("%.0f%%", g.GPUUtil), util)))

	lines = append(lines, fmt.Sprintf("%s %s",
		s.label("Temperature:"),
		s.badge(fmt.Sprintf("%.0f°C", g.Temperature), s.levelColor(TemperatureLevel(g.Temperature)))))

	lines = append(lines, s.label("Power:")+" "+PowerText(g.PowerDraw, g.PowerLimit))

	free := gb(g.MemoryFree)
	lines = append(lines, fmt.Sprintf("%s %s",
		s.label("Free:"),
		s.badge(fmt.Sprintf("%.1f GB available", free), s.levelColor(FreeMemoryLevel(free)))))

	return strings.Join(lines, "\n")
}

func (s *Surface) memoryLine(g models.GPU, unified bool) string {
	if g.MemoryTotal <= 0 {
		return s.label("VRAM:") + " " + s.badge(MonitoringNAText, s.Theme.TextDim)
	}

	label := s.label("VRAM:")
	if unified {
		label = s.label("Unified Memory:") + " " + s.badge(SharedMemoryBadge, s.Theme.Info)
	}

	used := pct(g.MemoryUsed, g.MemoryTotal)
	color := s.levelColor(MemoryLevel(used))
	return fmt.Sprintf("%s\n%s %s",
		label,
		s.bar(used, s.barWidth(), color),
		s.colored(fmt.Sprintf("%.1f GB used / %.1f GB total (%.1f GB free)",
			gb(g.MemoryUsed), gb(g.MemoryTotal), gb(g.MemoryFree)), color))
}

// PowerText formats draw and limit in watts; the limit is omitted when unknown
func PowerText(draw, limit float64) string {
	if limit > 0 {
		return fmt.Sprintf("%.1fW / %.0fW", draw, limit)
	}
	return fmt.Sprintf("%.1fW", draw)
}
