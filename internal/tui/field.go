package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// textField is the editable field the tutor types into. While tutor mode
// is off it is edited directly by the terminal keyboard; while tutor mode
// is on the session rewrites it after every accepted key press.
type textField struct {
	value   []rune
	caret   int
	changes int
}

// Value implements tutor.Target.
func (f *textField) Value() (string, int) {
	return string(f.value), f.caret
}

// SetValue implements tutor.Target.
func (f *textField) SetValue(text string, caret int) {
	f.value = []rune(text)
	f.caret = min(max(caret, 0), len(f.value))
}

// handleKey edits the field directly. It reports whether the key was used.
func (f *textField) handleKey(msg tea.KeyMsg, maxLen int) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return false
		}
		f.insert(msg.Runes, maxLen)
	case tea.KeyEnter:
		f.insert([]rune{'\n'}, maxLen)
	case tea.KeyBackspace:
		if f.caret == 0 {
			return true
		}
		f.value = append(f.value[:f.caret-1], f.value[f.caret:]...)
		f.caret--
		f.changes++
	case tea.KeyDelete:
		if f.caret < len(f.value) {
			f.value = append(f.value[:f.caret], f.value[f.caret+1:]...)
			f.changes++
		}
	case tea.KeyLeft:
		f.caret = max(f.caret-1, 0)
	case tea.KeyRight:
		f.caret = min(f.caret+1, len(f.value))
	case tea.KeyHome:
		f.caret = 0
	case tea.KeyEnd:
		f.caret = len(f.value)
	default:
		return false
	}
	return true
}

func (f *textField) insert(r []rune, maxLen int) {
	if maxLen > 0 && len(f.value)+len(r) > maxLen {
		return
	}
	next := make([]rune, 0, len(f.value)+len(r))
	next = append(next, f.value[:f.caret]...)
	next = append(next, r...)
	next = append(next, f.value[f.caret:]...)
	f.value = next
	f.caret += len(r)
	f.changes++
}

// renderText draws the text with a caret, keeping only the last lines lines.
func renderText(text string, caret, lines int) string {
	r := []rune(text)
	caret = min(max(caret, 0), len(r))
	s := string(r[:caret]) + CaretStyle.Render("│") + string(r[caret:])
	s = strings.ReplaceAll(s, "\t", "    ")

	all := strings.Split(s, "\n")
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	return strings.Join(all, "\n")
}
