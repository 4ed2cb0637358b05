package keyboard

import (
	"strings"
	"unicode/utf8"
)

// KeyID is a normalised key token. It is either a single printable
// character of the base layout or one of the named control keys below.
type KeyID string

// Named control keys
const (
	KeyBackspace  KeyID = "Backspace"
	KeyEnter      KeyID = "Enter"
	KeySpace      KeyID = "Space"
	KeyTab        KeyID = "Tab"
	KeyCapsLock   KeyID = "CapsLock"
	KeyShiftLeft  KeyID = "ShiftLeft"
	KeyShiftRight KeyID = "ShiftRight"
)

// KeyKind classifies a key for display, audio and statistics.
type KeyKind int

const (
	KindCharacter KeyKind = iota // letters, digits, symbols
	KindFunction                 // Backspace, Enter, Tab
	KindSpace                    // the space bar
	KindModifier                 // shift keys and caps lock
)

// String returns the lowercase kind name
func (k KeyKind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindFunction:
		return "function"
	case KindSpace:
		return "space"
	case KindModifier:
		return "modifier"
	default:
		return "unknown"
	}
}

// namedKeys is keyed by the lowercase name so virtual key names can be
// matched case-insensitively.
var namedKeys = map[string]KeyID{
	"backspace":  KeyBackspace,
	"enter":      KeyEnter,
	"space":      KeySpace,
	"tab":        KeyTab,
	"capslock":   KeyCapsLock,
	"shiftleft":  KeyShiftLeft,
	"shiftright": KeyShiftRight,
}

// baseCharacters is every printable character on the unshifted layout.
const baseCharacters = "`1234567890-=qwertyuiop[]\\asdfghjkl;'zxcvbnm,./"

// ParseKey normalises a key name into a KeyID. Named keys are matched
// case-insensitively ("shiftleft" becomes ShiftLeft). A single character is
// accepted when it is on the base layout; uppercase letters map to their
// lowercase key because case is decided by modifier state, not by the key.
// The second return value is false for anything outside the vocabulary.
func ParseKey(name string) (KeyID, bool) {
	if name == "" {
		return "", false
	}
	if name == " " {
		return KeySpace, true
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if strings.ContainsRune(baseCharacters, r) {
			return KeyID(string(r)), true
		}
		return "", false
	}
	if k, ok := namedKeys[strings.ToLower(name)]; ok {
		return k, true
	}
	return "", false
}

// Kind classifies the key
func (k KeyID) Kind() KeyKind {
	switch k {
	case KeyShiftLeft, KeyShiftRight, KeyCapsLock:
		return KindModifier
	case KeySpace:
		return KindSpace
	}
	if utf8.RuneCountInString(string(k)) > 1 {
		return KindFunction
	}
	return KindCharacter
}

// IsModifier reports whether the key only ever changes modifier state.
func (k KeyID) IsModifier() bool {
	return k.Kind() == KindModifier
}

// IsShift reports whether the key is either shift key.
func (k KeyID) IsShift() bool {
	return k == KeyShiftLeft || k == KeyShiftRight
}

// Rune returns the character of a single-character key.
func (k KeyID) Rune() (rune, bool) {
	if utf8.RuneCountInString(string(k)) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(string(k))
	return r, true
}

// ProducesInput reports whether a physical keydown of this key should be
// pressed into the reducer. Shift keys only update modifier state.
func (k KeyID) ProducesInput() bool {
	if _, ok := k.Rune(); ok {
		return true
	}
	switch k {
	case KeyBackspace, KeyEnter, KeySpace, KeyTab, KeyCapsLock:
		return true
	}
	return false
}

// Display returns the label painted on the key cap.
func (k KeyID) Display() string {
	switch k {
	case KeyShiftLeft, KeyShiftRight:
		return "Shift"
	case KeyCapsLock:
		return "Caps"
	case KeyBackspace:
		return "⌫"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeySpace:
		return "Space"
	}
	return string(k)
}

// physicalKeys maps physical key codes (the names browsers and the evdev
// adapter use) to the key they produce on a US layout.
var physicalKeys = map[string]KeyID{
	"Backquote": "`", "Digit1": "1", "Digit2": "2", "Digit3": "3", "Digit4": "4",
	"Digit5": "5", "Digit6": "6", "Digit7": "7", "Digit8": "8", "Digit9": "9",
	"Digit0": "0", "Minus": "-", "Equal": "=", "Backspace": KeyBackspace,
	"Tab": KeyTab, "KeyQ": "q", "KeyW": "w", "KeyE": "e", "KeyR": "r",
	"KeyT": "t", "KeyY": "y", "KeyU": "u", "KeyI": "i", "KeyO": "o",
	"KeyP": "p", "BracketLeft": "[", "BracketRight": "]", "Backslash": "\\",
	"CapsLock": KeyCapsLock, "KeyA": "a", "KeyS": "s", "KeyD": "d", "KeyF": "f",
	"KeyG": "g", "KeyH": "h", "KeyJ": "j", "KeyK": "k", "KeyL": "l",
	"Semicolon": ";", "Quote": "'", "Enter": KeyEnter, "ShiftLeft": KeyShiftLeft,
	"ShiftRight": KeyShiftRight, "KeyZ": "z", "KeyX": "x", "KeyC": "c",
	"KeyV": "v", "KeyB": "b", "KeyN": "n", "KeyM": "m", "Comma": ",",
	"Period": ".", "Slash": "/", "Space": KeySpace,
}

// codesByKey is the reverse of physicalKeys.
var codesByKey = func() map[KeyID]string {
	m := make(map[KeyID]string, len(physicalKeys))
	for code, key := range physicalKeys {
		m[key] = code
	}
	return m
}()

// PhysicalKey translates a physical key code into the key it produces.
func PhysicalKey(code string) (KeyID, bool) {
	k, ok := physicalKeys[code]
	return k, ok
}

// CodeFor returns the physical key code that produces key.
func CodeFor(key KeyID) (string, bool) {
	c, ok := codesByKey[key]
	return c, ok
}

// shiftMap holds the shifted symbol of every non-letter base key.
var shiftMap = map[rune]rune{
	'`': '~', '1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')', '-': '_', '=': '+',
	'[': '{', ']': '}', '\\': '|', ';': ':', '\'': '"',
	',': '<', '.': '>', '/': '?',
}

// unshiftMap is the reverse of shiftMap.
var unshiftMap = func() map[rune]rune {
	m := make(map[rune]rune, len(shiftMap))
	for base, shifted := range shiftMap {
		m[shifted] = base
	}
	return m
}()

// ShiftedSymbol returns the symbol produced by a non-letter key with shift
// held. Characters without a shifted form are returned unchanged.
func ShiftedSymbol(r rune) rune {
	if s, ok := shiftMap[r]; ok {
		return s
	}
	return r
}

// BaseKeyFor finds the key that types r and whether shift is needed for it.
// It is the adapter-side inverse of TransformCharacter for a US layout.
func BaseKeyFor(r rune) (KeyID, bool, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyID(string(r)), false, true
	case r >= 'A' && r <= 'Z':
		return KeyID(string(r + ('a' - 'A'))), true, true
	case r == ' ':
		return KeySpace, false, true
	case r == '\t':
		return KeyTab, false, true
	case r == '\n' || r == '\r':
		return KeyEnter, false, true
	}
	if base, ok := unshiftMap[r]; ok {
		return KeyID(string(base)), true, true
	}
	if strings.ContainsRune(baseCharacters, r) {
		return KeyID(string(r)), false, true
	}
	return "", false, false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
