package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/phonics"
)

const fieldLines = 3

// View renders the screen and records where the key caps ended up so mouse
// clicks can be mapped back to keys.
func (m Model) View() string {
	st := m.session.State()
	width := max(m.width, MinTerminalWidth) - 2

	top := lipgloss.JoinVertical(lipgloss.Left,
		m.renderField(st, width),
		m.renderMessage(),
	)

	selected := keyboard.KeyID("")
	if !st.TutorModeActive && m.focus == focusKeyboard {
		selected = m.selected
	}
	grid, boxes := renderKeyboard(keyboard.SelectLayout(st), m.session.Highlights(), selected)
	m.hits.originX = contentLeft
	m.hits.originY = contentTop + lipgloss.Height(top)
	m.hits.boxes = boxes

	half := width/2 - 2
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		PanelStyle.Width(half).Render(m.renderInfo(st)),
		PanelStyle.Width(half).Render(m.renderLesson()),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, top, grid, bottom, m.renderStats())
	return RenderApplicationContainer(content, m.renderStatus(st), m.renderHelp(st), m.width, m.height)
}

func (m Model) renderField(st keyboard.State, width int) string {
	style := PanelStyle
	if !st.TutorModeActive && m.focus == focusField {
		style = FocusedPanelStyle
	}

	text, caret := m.field.Value()
	title := "Text field"
	if st.TutorModeActive {
		title += " (the keyboard types here)"
	}
	body := []string{PanelTitleStyle.Render(title), renderText(text, caret, fieldLines)}

	// Without tutor mode virtual presses only reach the keyboard's own
	// buffer.
	if !st.TutorModeActive && st.Text != "" {
		body = append(body, SubtitleStyle.Render("keyboard: ")+renderText(st.Text, st.Caret, 1))
	}
	return style.Width(width - 2).Render(strings.Join(body, "\n"))
}

func (m Model) renderMessage() string {
	switch {
	case m.errMsg != "":
		return ErrorStyle.Render(m.errMsg)
	case m.message != "":
		return MessageStyle.Render(m.message)
	}
	return ""
}

func (m Model) renderInfo(st keyboard.State) string {
	k := m.session.LastKey()
	if k == "" {
		return PanelTitleStyle.Render("Press any key!")
	}

	// Describe the character as typed: shift makes 1 a ! whatever caps lock says.
	info := phonics.Info(k)
	glyph := keyboard.SelectLayout(st).Glyph(k)
	if r, ok := k.Rune(); ok {
		typed := st.TransformCharacter(r)
		glyph = string(typed)
		info = phonics.Info(keyboard.KeyID(glyph))
	}
	lines := []string{PanelTitleStyle.Render(strings.TrimSpace(glyph + " " + info.Emoji))}
	if info.Category == phonics.CategoryLetter {
		lines = append(lines, glyph+" "+info.Name)
	} else {
		lines = append(lines, info.Name)
	}
	if info.Sound != "" {
		lines = append(lines, info.Sound)
	}
	if f := phonics.FingerFor(k); f != phonics.NoFinger {
		lines = append(lines, SubtitleStyle.Render("Use your "+f.String()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLesson() string {
	if m.lesson == nil {
		return SubtitleStyle.Render("No lessons loaded")
	}
	ls := m.lesson.Stats()
	if !ls.Active {
		return strings.Join([]string{
			PanelTitleStyle.Render("Lesson"),
			"Level: " + m.lesson.Level(),
			SubtitleStyle.Render("ctrl+l starts a lesson"),
		}, "\n")
	}

	var word strings.Builder
	for _, l := range m.lesson.Letters() {
		word.WriteString(letterStyles[l.State].Render(string(l.Char)))
		word.WriteByte(' ')
	}

	return strings.Join([]string{
		PanelTitleStyle.Render("Lesson · " + ls.Level),
		word.String(),
		fmt.Sprintf("Words %d · Accuracy %d%%", ls.CorrectWords, ls.Accuracy),
		m.progress.ViewAs(m.lesson.MilestoneProgress()),
	}, "\n")
}

func (m Model) renderStats() string {
	if m.tracker == nil {
		return ""
	}
	s := m.tracker.Session()
	return SubtitleStyle.Render(fmt.Sprintf("Keys %d · Letters %d · Numbers %d · Words %d · Accuracy %d%% · %d keys/min",
		s.KeysPressed, s.LettersTyped, s.NumbersTyped, s.WordsCompleted,
		m.tracker.Accuracy(), m.tracker.KeysPerMinute()))
}

func (m Model) renderStatus(st keyboard.State) string {
	parts := []string{onOff("Tutor", st.TutorModeActive)}
	if m.audio != nil {
		parts = append(parts, onOff("Sound", m.audio.Enabled()))
	}
	if m.remoteStatus != nil {
		if s := m.remoteStatus(); s != "" {
			parts = append(parts, StatusOffStyle.Render(s))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderHelp(st keyboard.State) string {
	if !st.TutorModeActive && m.focus == focusKeyboard {
		return m.help.View(navigationKeys{m.keys})
	}
	return m.help.View(m.keys)
}
