package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dayquest theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconCalendar = "📅"
	IconSparkle  = "✨"
	IconDone     = "✅"
	IconUndone   = "↩️"
	IconTimer    = "⏱️"
	IconBolt     = "⚡"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconLoop     = "🔁"
	IconMoon     = "🌙"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// XPBar renders level progress as a fixed-width bar.
func XPBar(inLevel, perLevel, width int) string {
	if width <= 0 {
		width = 20
	}
	if perLevel <= 0 {
		perLevel = 1
	}
	filled := inLevel * width / perLevel
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return Gold.Render(bar)
}

// ActivityStrip renders per-day completion counts as one cell per day,
// oldest first, shaded by count.
func ActivityStrip(counts []int) string {
	var b strings.Builder
	for _, c := range counts {
		switch {
		case c <= 0:
			b.WriteString(Muted.Render("░"))
		case c <= 2:
			b.WriteString(Good.Render("▓"))
		default:
			b.WriteString(Gold.Render("█"))
		}
	}
	return b.String()
}

// Duration renders seconds as h:mm:ss or m:ss.
func Duration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
