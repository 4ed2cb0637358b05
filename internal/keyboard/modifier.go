package keyboard

// EventType is the direction of a physical key event.
type EventType int

const (
	KeyDown EventType = iota + 1
	KeyUp
)

// String returns "keydown" or "keyup"
func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	default:
		return "unknown"
	}
}

// ModifierSnapshot is the platform-neutral view of one physical key event,
// carrying just what the reducer needs to track modifiers.
type ModifierSnapshot struct {
	// ShiftDown is the combined shift flag of the event (either shift key).
	ShiftDown bool
	// Code is the physical key code, e.g. "ShiftLeft" or "KeyA".
	Code string
	Type EventType
	// CapsLockKnown is set when the platform could report the live caps lock
	// state; CapsLockOn is ignored otherwise.
	CapsLockKnown bool
	CapsLockOn    bool
}

// WithCapsLock returns a copy of the snapshot carrying a known caps lock
// state.
func (m ModifierSnapshot) WithCapsLock(on bool) ModifierSnapshot {
	m.CapsLockKnown = true
	m.CapsLockOn = on
	return m
}

// ApplyModifierEvent updates the modifier flags from a physical key event.
//
// ShiftPressed always follows the event's combined shift flag. The per-side
// held flags only change on keydown/keyup of their own key, so releasing one
// shift does not clear the other. Caps lock cannot be inferred from key codes
// and is only updated when the snapshot carries a live reading.
func (s State) ApplyModifierEvent(m ModifierSnapshot) State {
	s.ShiftPressed = m.ShiftDown

	switch m.Type {
	case KeyDown:
		switch m.Code {
		case string(KeyShiftLeft):
			s.LeftShiftHeld = true
		case string(KeyShiftRight):
			s.RightShiftHeld = true
		}
	case KeyUp:
		switch m.Code {
		case string(KeyShiftLeft):
			s.LeftShiftHeld = false
		case string(KeyShiftRight):
			s.RightShiftHeld = false
		}
	}

	if m.CapsLockKnown {
		s.CapsLockOn = m.CapsLockOn
	}
	return s
}
