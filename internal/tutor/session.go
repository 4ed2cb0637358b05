package tutor

import (
	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/logging"
)

// Source tells where a key press came from.
type Source int

const (
	// Physical presses come from a real keyboard while tutor mode is on.
	Physical Source = iota + 1
	// Virtual presses come from clicks on the on-screen keyboard or a
	// remote key pad.
	Virtual
)

// String returns "physical" or "virtual"
func (s Source) String() string {
	switch s {
	case Physical:
		return "physical"
	case Virtual:
		return "virtual"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after a key press has been accepted.
// State is the keyboard state after the press.
type Event struct {
	Key    keyboard.KeyID
	Source Source
	State  keyboard.State
}

// Observer is notified of every accepted key press.
type Observer interface {
	KeyPressed(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// KeyPressed calls f(e).
func (f ObserverFunc) KeyPressed(e Event) { f(e) }

// Target is the text field the keyboard types into while tutor mode is on.
type Target interface {
	// Value returns the field's current text and caret (rune index).
	Value() (string, int)
	SetValue(text string, caret int)
}

// Interceptor gets the first look at every key press. Returning true
// consumes the press: the keyboard state is not changed and observers are
// not notified. Active lessons use this.
type Interceptor func(key keyboard.KeyID, source Source) bool

// Session owns the input state of one on-screen keyboard.
//
// Session is not safe for concurrent use. All calls are expected to come
// from one event loop.
type Session struct {
	state     keyboard.State
	target    Target
	observers []Observer
	intercept Interceptor
	onInput   func(keyboard.State)
	lastKey   keyboard.KeyID
}

// Option configures a Session.
type Option func(*Session)

// WithMaxLen limits the text buffer.
func WithMaxLen(n int) Option {
	return func(s *Session) {
		s.state = keyboard.New(keyboard.WithMaxLen(n))
	}
}

// WithTarget connects the session to a text field.
func WithTarget(t Target) Option {
	return func(s *Session) {
		s.target = t
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// OnInputChanged registers a callback raised whenever the target field is
// rewritten.
func OnInputChanged(fn func(keyboard.State)) Option {
	return func(s *Session) {
		s.onInput = fn
	}
}

// NewSession creates a session with an empty buffer and tutor mode off.
func NewSession(opts ...Option) *Session {
	s := &Session{state: keyboard.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() keyboard.State {
	return s.state
}

// AddObserver registers an observer after construction.
func (s *Session) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// SetInterceptor installs (or with nil removes) the interceptor.
func (s *Session) SetInterceptor(i Interceptor) {
	s.intercept = i
}

// PressVirtual handles a click on the on-screen keyboard. Virtual presses
// are accepted whether or not tutor mode is on.
//
// A virtual press of a shift key toggles it as if it were held down and a
// virtual press of caps lock flips caps lock, so children without a
// physical keyboard can still type capitals and symbols.
func (s *Session) PressVirtual(key keyboard.KeyID) {
	if s.intercept != nil && s.intercept(key, Virtual) {
		return
	}

	switch {
	case key.IsShift():
		s.set(s.state.ApplyModifierEvent(s.virtualShift(key)))
	case key == keyboard.KeyCapsLock:
		code, _ := keyboard.CodeFor(key)
		m := keyboard.ModifierSnapshot{
			ShiftDown: s.state.ShiftPressed,
			Code:      code,
			Type:      keyboard.KeyDown,
		}
		s.set(s.state.ApplyModifierEvent(m.WithCapsLock(!s.state.CapsLockOn)))
	}

	s.press(key, Virtual)
}

// virtualShift builds the snapshot for a click on a shift key.
func (s *Session) virtualShift(key keyboard.KeyID) keyboard.ModifierSnapshot {
	held := s.state.LeftShiftHeld
	other := s.state.RightShiftHeld
	if key == keyboard.KeyShiftRight {
		held, other = other, held
	}
	m := keyboard.ModifierSnapshot{Code: string(key)}
	if held {
		m.Type = keyboard.KeyUp
		m.ShiftDown = other
	} else {
		m.Type = keyboard.KeyDown
		m.ShiftDown = true
	}
	return m
}

// PhysicalKeyDown handles a keydown from a real keyboard. It returns true
// when the event was used, in which case the caller should stop it from
// reaching anything else. While tutor mode is off every physical event is
// ignored.
func (s *Session) PhysicalKeyDown(m keyboard.ModifierSnapshot) bool {
	if !s.state.TutorModeActive {
		return false
	}
	key, ok := keyboard.PhysicalKey(m.Code)
	if !ok {
		return false
	}

	m.Type = keyboard.KeyDown
	s.set(s.state.ApplyModifierEvent(m))

	if !key.ProducesInput() {
		return false
	}
	if s.intercept != nil && s.intercept(key, Physical) {
		return true
	}
	s.press(key, Physical)
	return true
}

// PhysicalKeyUp handles a keyup from a real keyboard. Only modifier state
// changes.
func (s *Session) PhysicalKeyUp(m keyboard.ModifierSnapshot) {
	if !s.state.TutorModeActive {
		return
	}
	if _, ok := keyboard.PhysicalKey(m.Code); !ok {
		return
	}
	m.Type = keyboard.KeyUp
	s.set(s.state.ApplyModifierEvent(m))
}

func (s *Session) press(key keyboard.KeyID, src Source) {
	s.set(s.state.ApplyKeyPress(key))
	s.lastKey = key

	logging.LogKeyPress(string(key), src.String(), s.state.Len(), s.state.Caret)

	ev := Event{Key: key, Source: src, State: s.state}
	for _, o := range s.observers {
		o.KeyPressed(ev)
	}
}

// set stores the new state and pushes it to the target while tutor mode is
// on.
func (s *Session) set(next keyboard.State) {
	prev := s.state
	s.state = next
	if !next.TutorModeActive || s.target == nil {
		return
	}
	if prev.Text == next.Text && prev.Caret == next.Caret && prev.TutorModeActive {
		return
	}
	s.target.SetValue(next.Text, next.Caret)
	if s.onInput != nil {
		s.onInput(next)
	}
}

// SetTutorMode turns tutor mode on or off. Turning it on adopts the
// target field's current value and caret.
func (s *Session) SetTutorMode(on bool) {
	if on == s.state.TutorModeActive {
		return
	}
	if !on {
		s.set(s.state.DeactivateTutorMode())
		return
	}

	text, caret := s.state.Text, s.state.Caret
	if s.target != nil {
		text, caret = s.target.Value()
	}
	s.set(s.state.ActivateTutorMode(text, caret))
}

// ToggleTutorMode flips tutor mode.
func (s *Session) ToggleTutorMode() {
	s.SetTutorMode(!s.state.TutorModeActive)
}

// Clear empties the text buffer.
func (s *Session) Clear() {
	s.set(s.state.Clear())
	s.lastKey = ""
}

// LastKey returns the most recently pressed key, or "" if none.
func (s *Session) LastKey() keyboard.KeyID {
	return s.lastKey
}

// Highlights returns the keys that should be drawn lit: held shift keys,
// caps lock while it is on, and the last pressed key.
//
// Caps lock stays lit for as long as it is on, even after its key is
// released. Shift keys go dark as soon as they are released.
func (s *Session) Highlights() map[keyboard.KeyID]bool {
	lit := make(map[keyboard.KeyID]bool, 4)
	if s.state.LeftShiftHeld {
		lit[keyboard.KeyShiftLeft] = true
	}
	if s.state.RightShiftHeld {
		lit[keyboard.KeyShiftRight] = true
	}
	if s.state.CapsLockOn {
		lit[keyboard.KeyCapsLock] = true
	}
	if s.lastKey != "" && !s.lastKey.IsModifier() {
		lit[s.lastKey] = true
	}
	return lit
}
