package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/richtext/internal/doc"
)

// --- Theme Colors ---

var (
	ColorPrimary    = lipgloss.Color("#7f57b4") // purple
	ColorSecondary  = lipgloss.Color("#436b77") // teal
	ColorAccent     = lipgloss.Color("#a7754e") // warm
	ColorBackground = lipgloss.Color("#16161d") // dark
	ColorText       = lipgloss.Color("#d7d9da") // main text
	ColorMuted      = lipgloss.Color("#9ba0bf") // muted text
	ColorSuccess    = lipgloss.Color("#3f866b") // green
	ColorError      = lipgloss.Color("#e06c75") // red
	ColorBorder     = lipgloss.Color("#273540") // border
	ColorLink       = lipgloss.Color("#a9c4ff") // light blue
	ColorSelection  = lipgloss.Color("#3a3f58")
)

// --- Reusable Styles ---

var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ToolActiveStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	ToolInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	DirtyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// --- Document Styles ---

var (
	paragraphStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	quoteBarStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	headingMarkerStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	inlineMentionStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	pillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f4f1fa")).
			Background(ColorPrimary).
			Padding(0, 1)

	megaPillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f4f1fa")).
			Background(lipgloss.Color("#5c3d87")).
			Bold(true).
			Padding(0, 2)

	cursorStyle = lipgloss.NewStyle().
			Reverse(true)
)

var headingColors = []lipgloss.Color{
	"#c9a9f5",
	"#b592e8",
	"#a27cd9",
	"#9069c8",
	"#8060b8",
	"#7f57b4",
}

func headingStyle(level int) lipgloss.Style {
	if level < 1 {
		level = 1
	}
	if level > len(headingColors) {
		level = len(headingColors)
	}
	return lipgloss.NewStyle().Foreground(headingColors[level-1]).Bold(true)
}

// markStyle layers the terminal rendition of marks over base.
func markStyle(base lipgloss.Style, marks []doc.Mark) lipgloss.Style {
	s := base
	for _, m := range marks {
		switch m.Type {
		case "bold":
			s = s.Bold(true)
		case "italic":
			s = s.Italic(true)
		case "underline":
			s = s.Underline(true)
		case "strike":
			s = s.Strikethrough(true)
		case "link":
			s = s.Foreground(ColorLink).Underline(true)
		}
	}
	return s
}
