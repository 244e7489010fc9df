package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Badge colors per risk label.
var (
	badgeRed    = lipgloss.Color("#f38ba8")
	badgeOrange = lipgloss.Color("#fab387")
	badgeYellow = lipgloss.Color("#f9e2af")
	badgeGreen  = lipgloss.Color("#a6e3a1")
	badgeGray   = lipgloss.Color("#6c7086")
	badgeBase   = lipgloss.Color("#1e1e2e")
)

// RiskBadge renders a colored risk label for terminal display.
// Recognized labels: safe/LOW, caution/MEDIUM, dangerous/HIGH, blocked/CRITICAL.
func RiskBadge(label string) string {
	var bg lipgloss.Color
	switch strings.ToLower(label) {
	case "blocked", "critical":
		bg = badgeRed
	case "dangerous", "high":
		bg = badgeOrange
	case "caution", "medium":
		bg = badgeYellow
	case "safe", "low":
		bg = badgeGreen
	default:
		bg = badgeGray
	}

	style := lipgloss.NewStyle().
		Foreground(badgeBase).
		Background(bg).
		Bold(true).
		Padding(0, 1)

	return style.Render(strings.ToUpper(label))
}
