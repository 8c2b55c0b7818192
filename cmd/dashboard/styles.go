package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/trendlab/trendfollow/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	// RunningStyle marks an engine with the run flag set.
	RunningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

	// StoppedStyle marks an engine with the run flag cleared.
	StoppedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
)

var phaseColors = map[types.Phase]string{
	types.PhaseIdle:            "244",
	types.PhaseMonitoringRange: "214",
	types.PhaseActive:          "42",
}

// RenderPhase renders the phase with its color.
func RenderPhase(phase types.Phase) string {
	color, ok := phaseColors[phase]
	if !ok {
		color = "255"
	}

	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(phase))
}

// FormatPriceWithColor formats a price with an indicator based on comparison
// with the previous price.
func FormatPriceWithColor(current, previous float64) string {
	priceStr := fmt.Sprintf("%.2f", current)

	if previous == 0 {
		return priceStr
	}

	if current > previous {
		return priceStr + " ▲"
	} else if current < previous {
		return priceStr + " ▼"
	}

	return priceStr
}
