// Package style holds the lipgloss styles used for terminal output.
package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(DimColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)
)

// Step label styles
var (
	StepIndexStyle = MutedStyle

	KindStyle = lipgloss.NewStyle().
			Bold(true)

	ArgsStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ResourcesStyle = lipgloss.NewStyle().
			Foreground(ResourcesColor).
			Bold(true)

	DistributionStyle = lipgloss.NewStyle().
				Foreground(DistributionColor).
				Bold(true)

	RunStyle = lipgloss.NewStyle().
			Foreground(RunColor).
			Bold(true)
)

// GroupStyle picks the style for a step group by the words in its name.
func GroupStyle(group string) lipgloss.Style {
	lower := strings.ToLower(group)
	switch {
	case strings.HasPrefix(lower, "run"):
		return RunStyle
	case strings.Contains(lower, "qt"):
		return ResourcesStyle
	case strings.Contains(lower, "distribution"):
		return DistributionStyle
	default:
		return TitleStyle
	}
}

// Operation indicators
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
)
