package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerTagline = "Rich text with @mentions • terminal editor"

const bannerArt = `
       _        _      _                 _
 _ _  (_)  __  | |_   | |_   ___  __ __ | |_
| '_| | | / _| | ' \  |  _| / -_) \ \ / |  _|
|_|   |_| \__| |_||_|  \__| \___| /_\_\  \__|`

// RenderBanner returns the logo, one heading shade per row, over the
// tagline.
func RenderBanner() string {
	lines := splitLines(bannerArt)

	var b strings.Builder
	blockWidth := lipgloss.Width(bannerTagline)
	row := 0
	for _, line := range lines {
		if line == "" {
			continue
		}
		if w := lipgloss.Width(line); w > blockWidth {
			blockWidth = w
		}
		b.WriteString(headingStyle(row + 1).Render(line))
		b.WriteString("\n")
		row++
	}

	tagline := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(bannerTagline)
	rule := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", lipgloss.Width(bannerTagline)))

	return b.String() + "\n" + tagline + "\n" + rule
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
