package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/kidskeys/internal/lessons"
	"github.com/muurk/kidskeys/internal/phonics"
	"github.com/muurk/kidskeys/internal/version"
)

// Application branding constants
const (
	AppName = "KIDS KEYS"
	Tagline = "learn your letters"
)

// Layout constants
const (
	MinTerminalWidth = 78 // Widest keyboard row plus the outer border
	contentLeft      = 1  // Outer border
	contentTop       = 3  // Outer border, header line, header rule
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	AccentColor    = lipgloss.Color("#FF8B94") // Pink
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF")
	SubtleColor = lipgloss.Color("#626262")
	BorderColor = lipgloss.Color("#7D56F4")
)

// Key cap colours by group, lit and unlit.
var groupColors = map[phonics.Group]lipgloss.Color{
	phonics.GroupVowel:     lipgloss.Color("#FF6B6B"),
	phonics.GroupConsonant: lipgloss.Color("#4D96FF"),
	phonics.GroupNumber:    lipgloss.Color("#6BCB77"),
	phonics.GroupFunction:  lipgloss.Color("#FFA500"),
	phonics.GroupModifier:  lipgloss.Color("#B983FF"),
	phonics.GroupSymbol:    lipgloss.Color("#9E9E9E"),
}

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(SecondaryColor)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	StatusOnStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusOffStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	MessageStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	CaretStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	capStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Align(lipgloss.Center)
)

// letterStyles colour the target word of a lesson.
var letterStyles = map[lessons.LetterState]lipgloss.Style{
	lessons.Pending:   lipgloss.NewStyle().Foreground(SubtleColor),
	lessons.Current:   lipgloss.NewStyle().Foreground(TextColor).Bold(true).Underline(true),
	lessons.Correct:   lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true),
	lessons.Incorrect: lipgloss.NewStyle().Foreground(ErrorColor).Bold(true),
}

// keyCapStyle returns the style of one key cap.
func keyCapStyle(group phonics.Group, width int, lit, selected bool) lipgloss.Style {
	color := groupColors[group]
	s := capStyle.Width(width).BorderForeground(color).Foreground(color)
	if lit {
		s = s.Background(color).Foreground(lipgloss.Color("#000000")).Bold(true)
	}
	if selected {
		s = s.BorderStyle(lipgloss.ThickBorder()).BorderForeground(AccentColor)
	}
	return s
}

// BuildHeaderContent creates the header line.
func BuildHeaderContent(status string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render("⌨ " + AppName + " v" + version.Version)

	mid := SubtitleStyle.Render(Tagline)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", mid, "   ", status)
}

// RenderApplicationContainer wraps content in the outer frame: a header
// with the application name, the content, and a footer with help text.
// Content starts contentTop lines and contentLeft columns from the top left.
func RenderApplicationContainer(content, status, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(terminalWidth-2).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 2)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent(status)),
		contentStyle.Render(content),
		footerStyle.Render(footerText),
	)

	border := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2)
	if terminalHeight > 2 {
		border = border.Height(terminalHeight - 2).AlignVertical(lipgloss.Top)
	}

	return border.Render(inner)
}

// onOff renders a labelled on/off flag.
func onOff(label string, on bool) string {
	if on {
		return StatusOnStyle.Render(label + " ON")
	}
	return StatusOffStyle.Render(label + " off")
}
