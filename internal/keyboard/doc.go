// Package keyboard implements the input state reducer behind the kidskeys
// on-screen keyboard.
//
// The reducer is a set of pure functions over an immutable State value. Every
// key event, physical or virtual, is normalised into a KeyID before it gets
// here; this package never sees terminal messages, evdev events or websocket
// frames.
//
// # State
//
// State carries the text buffer, the caret (a rune index), the shift and
// caps-lock flags and the tutor-mode gate:
//
//	s := keyboard.New()
//	s = s.ApplyKeyPress("a")                 // "a", caret 1
//	s = s.ApplyModifierEvent(keyboard.ModifierSnapshot{
//	    ShiftDown: true, Code: "ShiftLeft", Type: keyboard.KeyDown,
//	})
//	s = s.ApplyKeyPress("a")                 // "aA", caret 2
//
// # Letter Case
//
// Letter case follows one rule, effective-uppercase = ShiftPressed XOR
// CapsLockOn. Symbols and digits only follow ShiftPressed; caps lock never
// turns '1' into '!'. SelectLayout applies the same rule to pick the glyph
// table used for rendering.
//
// # Failure Semantics
//
// Nothing in this package returns an error or panics. An out-of-range caret
// is clamped, an insertion past the buffer limit is refused (the state is
// returned unchanged) and unknown multi-character keys are no-ops.
package keyboard
