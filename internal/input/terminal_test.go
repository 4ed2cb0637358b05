package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/tutor"
)

func TestFromTeaKey(t *testing.T) {
	tests := []struct {
		name        string
		msg         tea.KeyMsg
		wantKeys    []keyboard.KeyID
		wantShifted []bool
	}{
		{name: "lowercase letter", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, wantKeys: []keyboard.KeyID{"a"}, wantShifted: []bool{false}},
		{name: "uppercase letter", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Q")}, wantKeys: []keyboard.KeyID{"q"}, wantShifted: []bool{true}},
		{name: "shifted symbol", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")}, wantKeys: []keyboard.KeyID{"1"}, wantShifted: []bool{true}},
		{name: "base symbol", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(";")}, wantKeys: []keyboard.KeyID{";"}, wantShifted: []bool{false}},
		{name: "space", msg: tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, wantKeys: []keyboard.KeyID{keyboard.KeySpace}, wantShifted: []bool{false}},
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, wantKeys: []keyboard.KeyID{keyboard.KeyEnter}, wantShifted: []bool{false}},
		{name: "backspace", msg: tea.KeyMsg{Type: tea.KeyBackspace}, wantKeys: []keyboard.KeyID{keyboard.KeyBackspace}, wantShifted: []bool{false}},
		{name: "shift tab", msg: tea.KeyMsg{Type: tea.KeyShiftTab}, wantKeys: []keyboard.KeyID{keyboard.KeyTab}, wantShifted: []bool{true}},
		{name: "paste", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Hi!"), Paste: true},
			wantKeys: []keyboard.KeyID{"h", "i", "1"}, wantShifted: []bool{true, false, true}},
		{name: "unknown rune skipped", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("é")}},
		{name: "alt combination", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true}},
		{name: "arrow", msg: tea.KeyMsg{Type: tea.KeyLeft}},
		{name: "ctrl key", msg: tea.KeyMsg{Type: tea.KeyCtrlT}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strokes := FromTeaKey(tt.msg)
			if len(strokes) != len(tt.wantKeys) {
				t.Fatalf("FromTeaKey() returned %d strokes, want %d", len(strokes), len(tt.wantKeys))
			}
			for i, s := range strokes {
				if s.Key != tt.wantKeys[i] {
					t.Errorf("stroke %d key = %q, want %q", i, s.Key, tt.wantKeys[i])
				}
				if s.Down.ShiftDown != tt.wantShifted[i] {
					t.Errorf("stroke %d ShiftDown = %v, want %v", i, s.Down.ShiftDown, tt.wantShifted[i])
				}
				if s.Down.Type != keyboard.KeyDown || s.Up.Type != keyboard.KeyUp {
					t.Errorf("stroke %d types = %v/%v", i, s.Down.Type, s.Up.Type)
				}
				if s.Up.ShiftDown {
					t.Errorf("stroke %d keyup should release shift", i)
				}
				if s.Down.CapsLockKnown {
					t.Errorf("stroke %d: terminals cannot know caps lock", i)
				}
				if got, _ := keyboard.PhysicalKey(s.Down.Code); got != s.Key {
					t.Errorf("stroke %d code %q maps to %q, want %q", i, s.Down.Code, got, s.Key)
				}
			}
		})
	}
}

func TestFromTeaKeyDrivesSession(t *testing.T) {
	s := tutor.NewSession()
	s.SetTutorMode(true)

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("H")},
		{Type: tea.KeyRunes, Runes: []rune("i")},
		{Type: tea.KeyRunes, Runes: []rune("!")},
		{Type: tea.KeySpace, Runes: []rune(" ")},
		{Type: tea.KeyRunes, Runes: []rune("x")},
		{Type: tea.KeyBackspace},
	} {
		for _, st := range FromTeaKey(msg) {
			s.PhysicalKeyDown(st.Down)
			s.PhysicalKeyUp(st.Up)
		}
	}

	st := s.State()
	if st.Text != "Hi! " {
		t.Errorf("Text = %q, want %q", st.Text, "Hi! ")
	}
	if st.ShiftPressed {
		t.Error("shift should be released after each stroke")
	}
}
