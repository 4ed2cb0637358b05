package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/kidskeys/internal/keyboard"
)

// Stroke is one complete physical key press: the keydown and the keyup
// that follows it.
type Stroke struct {
	Key  keyboard.KeyID
	Down keyboard.ModifierSnapshot
	Up   keyboard.ModifierSnapshot
}

// FromTeaKey converts a terminal key message into physical strokes.
//
// Terminals report characters rather than keys and never report shift on
// its own, so a shifted character ('A', '!') becomes its base key with the
// shift flag set on the keydown. Caps lock state is unknown. Pasted text
// yields one stroke per character. Messages that are not typing (ctrl and
// alt combinations, arrows) yield nothing.
func FromTeaKey(msg tea.KeyMsg) []Stroke {
	if msg.Alt {
		return nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		strokes := make([]Stroke, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			key, shifted, ok := keyboard.BaseKeyFor(r)
			if !ok {
				continue
			}
			if s, ok := stroke(key, shifted); ok {
				strokes = append(strokes, s)
			}
		}
		return strokes
	case tea.KeySpace:
		return single(keyboard.KeySpace, false)
	case tea.KeyEnter:
		return single(keyboard.KeyEnter, false)
	case tea.KeyBackspace:
		return single(keyboard.KeyBackspace, false)
	case tea.KeyTab:
		return single(keyboard.KeyTab, false)
	case tea.KeyShiftTab:
		return single(keyboard.KeyTab, true)
	}
	return nil
}

func single(key keyboard.KeyID, shifted bool) []Stroke {
	s, ok := stroke(key, shifted)
	if !ok {
		return nil
	}
	return []Stroke{s}
}

func stroke(key keyboard.KeyID, shifted bool) (Stroke, bool) {
	code, ok := keyboard.CodeFor(key)
	if !ok {
		return Stroke{}, false
	}
	return Stroke{
		Key:  key,
		Down: keyboard.ModifierSnapshot{ShiftDown: shifted, Code: code, Type: keyboard.KeyDown},
		Up:   keyboard.ModifierSnapshot{Code: code, Type: keyboard.KeyUp},
	}, true
}
