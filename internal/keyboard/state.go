package keyboard

import (
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLen bounds the text buffer when no other limit is configured.
const DefaultMaxLen = 10000

// State is the complete input state of one keyboard instance.
//
// State is a value type. Every method returns a new State and leaves the
// receiver untouched, so a copy handed to a collaborator can never be
// changed behind the owner's back.
type State struct {
	Text            string // everything typed so far
	Caret           int    // rune index into Text, 0 <= Caret <= len
	ShiftPressed    bool   // either shift key is down
	LeftShiftHeld   bool
	RightShiftHeld  bool
	CapsLockOn      bool
	TutorModeActive bool // physical key events are routed to this keyboard

	maxLen int
}

// Option configures a new State.
type Option func(*State)

// WithMaxLen sets the buffer limit in runes. Values below 1 keep the default.
func WithMaxLen(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.maxLen = n
		}
	}
}

// New returns the initial state: empty text, caret 0, all flags off.
func New(opts ...Option) State {
	s := State{maxLen: DefaultMaxLen}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// MaxLen returns the buffer limit in runes.
func (s State) MaxLen() int {
	if s.maxLen <= 0 {
		return DefaultMaxLen
	}
	return s.maxLen
}

// Len returns the buffer length in runes.
func (s State) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// EffectiveUppercase reports whether letters are currently typed in
// uppercase: shift XOR caps lock.
func (s State) EffectiveUppercase() bool {
	return s.ShiftPressed != s.CapsLockOn
}

// TransformCharacter returns the character a key produces under the current
// modifier state. Letters follow EffectiveUppercase. Everything else only
// follows shift; caps lock leaves digits and symbols alone.
func (s State) TransformCharacter(r rune) rune {
	if isLetter(r) {
		if s.EffectiveUppercase() {
			return unicode.ToUpper(r)
		}
		return unicode.ToLower(r)
	}
	if s.ShiftPressed {
		return ShiftedSymbol(r)
	}
	return r
}

// ApplyKeyPress applies one key press to the buffer.
//
// Modifier keys leave the state unchanged; they are handled by
// ApplyModifierEvent. Multi-character keys outside the named set are
// rejected and the input state is returned as is.
func (s State) ApplyKeyPress(key KeyID) State {
	switch key {
	case KeyBackspace:
		return s.DeleteBeforeCaret()
	case KeyEnter:
		return s.InsertAtCaret("\n")
	case KeySpace:
		return s.InsertAtCaret(" ")
	case KeyTab:
		return s.InsertAtCaret("\t")
	case KeyShiftLeft, KeyShiftRight, KeyCapsLock:
		return s
	}

	r, ok := key.Rune()
	if !ok {
		return s
	}
	return s.InsertAtCaret(string(s.TransformCharacter(r)))
}

// InsertAtCaret inserts text at the caret and moves the caret past it.
// An insertion that would push the buffer past MaxLen is refused and the
// state is returned unchanged.
func (s State) InsertAtCaret(text string) State {
	if text == "" {
		return s
	}
	runes := s.runes()
	ins := []rune(text)
	if len(runes)+len(ins) > s.MaxLen() {
		return s
	}
	caret := clamp(s.Caret, 0, len(runes))

	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:caret]...)
	out = append(out, ins...)
	out = append(out, runes[caret:]...)

	s.Text = string(out)
	s.Caret = caret + len(ins)
	return s
}

// DeleteBeforeCaret removes the rune before the caret. At caret 0 nothing
// changes.
func (s State) DeleteBeforeCaret() State {
	runes := s.runes()
	caret := clamp(s.Caret, 0, len(runes))
	if caret == 0 {
		s.Text = string(runes)
		s.Caret = 0
		return s
	}

	out := make([]rune, 0, len(runes)-1)
	out = append(out, runes[:caret-1]...)
	out = append(out, runes[caret:]...)

	s.Text = string(out)
	s.Caret = caret - 1
	return s
}

// SetCaret moves the caret, clamped into the buffer.
func (s State) SetCaret(pos int) State {
	s.Caret = clamp(pos, 0, s.Len())
	return s
}

// Clear empties the buffer. Modifier flags and tutor mode are kept.
func (s State) Clear() State {
	s.Text = ""
	s.Caret = 0
	return s
}

// ActivateTutorMode turns tutor mode on and adopts the contents and caret of
// the target text field. Text longer than MaxLen is cut at the limit.
func (s State) ActivateTutorMode(text string, caret int) State {
	runes := []rune(text)
	if len(runes) > s.MaxLen() {
		runes = runes[:s.MaxLen()]
	}
	s.TutorModeActive = true
	s.Text = string(runes)
	s.Caret = clamp(caret, 0, len(runes))
	return s
}

// DeactivateTutorMode turns tutor mode off.
func (s State) DeactivateTutorMode() State {
	s.TutorModeActive = false
	return s
}

// ToggleTutorMode flips tutor mode without touching the buffer.
func (s State) ToggleTutorMode() State {
	s.TutorModeActive = !s.TutorModeActive
	return s
}

// runes returns the buffer as runes, cut at MaxLen.
func (s State) runes() []rune {
	runes := []rune(s.Text)
	if len(runes) > s.MaxLen() {
		runes = runes[:s.MaxLen()]
	}
	return runes
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
