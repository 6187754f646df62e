package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: module, fragment and plugin names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for successful statuses.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for statuses that need attention but did not fail.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleAdded, StyleRemoved and StyleModified style diff sections.
	StyleAdded    = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleRemoved  = lipgloss.NewStyle().Foreground(ColorBoldRed)
	StyleModified = lipgloss.NewStyle().Foreground(ColorYellow)
)

// Module status values reported by resolve and publish.
const (
	StatusConfigured = "configured"
	StatusPublished  = "published"
	StatusDryRun     = "dry-run"
	StatusSkipped    = "skipped"
	StatusFailed     = "failed"
)

// StatusStyle returns the style for a module status. Unknown statuses are unstyled.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusConfigured, StatusPublished:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusDryRun:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minModuleColumnWidth keeps status words aligned across lines.
const minModuleColumnWidth = 40

// FormatModuleLine renders a module name with a right-aligned, color-coded status.
//
// Format: m:<name>  <status>
func FormatModuleLine(name, status string) string {
	padding := minModuleColumnWidth - len(name)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("m:") +
		StyleNoun.Render(name) +
		strings.Repeat(" ", padding) +
		StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
