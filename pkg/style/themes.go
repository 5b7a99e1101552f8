package style

import "github.com/charmbracelet/lipgloss"

// Palette. Each color has a light and a dark terminal variant.
var (
	AccentColor  = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	SubtleColor  = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	DimColor     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
)

// Step group colors: resource compilation, packaging, launching.
var (
	ResourcesColor    = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#38BDF8"}
	DistributionColor = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	RunColor          = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
)
