// Package styles holds the color palette and text styles shared by the
// canaryctl terminal output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Gray  = lipgloss.Color("#888888")
	Muted = lipgloss.Color("#555555")

	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
)
