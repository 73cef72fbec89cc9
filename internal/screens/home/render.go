package home

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzi/internal/spacedrep"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

const seal = `╔════════╗
║ 漢  字 ║
╚════════╝`

const sealCompact = "漢 · 字"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// sealColor reflects the state of the review queue.
func sealColor(s spacedrep.Stats) color.Color {
	switch {
	case s.DueCount > 0:
		return theme.Accent
	case s.TodayReviewCount > 0:
		return theme.Success
	default:
		return theme.Primary
	}
}

func renderTitle(s spacedrep.Stats, cw int, compact bool) string {
	art := seal
	if compact {
		art = sealCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(sealColor(s)).Bold(true).Render(art))
}

// renderStatsBar renders the deck counters in a bordered box.
func renderStatsBar(s spacedrep.Stats, cw int) string {
	cards := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	due := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	today := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	dueText := dim.Render("NONE DUE")
	if s.DueCount > 0 {
		dueText = due.Render(fmt.Sprintf("%d DUE", s.DueCount))
	}

	stats := fmt.Sprintf("%s  %s  %s",
		cards.Render(fmt.Sprintf("%d CARDS", s.TotalCards)),
		dueText,
		today.Render(fmt.Sprintf("%d TODAY", s.TodayReviewCount)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
