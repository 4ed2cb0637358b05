package phonics

import "github.com/muurk/kidskeys/internal/keyboard"

// Finger names the finger that should press a key in touch typing.
type Finger int

const (
	NoFinger Finger = iota
	LeftPinky
	LeftRing
	LeftMiddle
	LeftIndex
	RightIndex
	RightMiddle
	RightRing
	RightPinky
	Thumb
)

var fingerNames = map[Finger]string{
	LeftPinky:   "left pinky",
	LeftRing:    "left ring finger",
	LeftMiddle:  "left middle finger",
	LeftIndex:   "left pointer finger",
	RightIndex:  "right pointer finger",
	RightMiddle: "right middle finger",
	RightRing:   "right ring finger",
	RightPinky:  "right pinky",
	Thumb:       "thumb",
}

// String returns the name read to the child, e.g. "left pinky".
func (f Finger) String() string {
	if n, ok := fingerNames[f]; ok {
		return n
	}
	return "any finger"
}

// Left reports whether the finger is on the left hand.
func (f Finger) Left() bool {
	return f >= LeftPinky && f <= LeftIndex
}

var fingerKeys = map[Finger]string{
	LeftPinky:   "`1qaz",
	LeftRing:    "2wsx",
	LeftMiddle:  "3edc",
	LeftIndex:   "45rtfgvb",
	RightIndex:  "67yuhjnm",
	RightMiddle: "8ik,",
	RightRing:   "9ol.",
	RightPinky:  "0-=p[]\\;'/",
}

var fingerByKey = func() map[keyboard.KeyID]Finger {
	m := map[keyboard.KeyID]Finger{
		keyboard.KeySpace:      Thumb,
		keyboard.KeyTab:        LeftPinky,
		keyboard.KeyCapsLock:   LeftPinky,
		keyboard.KeyShiftLeft:  LeftPinky,
		keyboard.KeyShiftRight: RightPinky,
		keyboard.KeyEnter:      RightPinky,
		keyboard.KeyBackspace:  RightPinky,
	}
	for f, keys := range fingerKeys {
		for _, r := range keys {
			m[keyboard.KeyID(string(r))] = f
		}
	}
	return m
}()

// FingerFor returns the finger for key, or NoFinger when it has none.
func FingerFor(key keyboard.KeyID) Finger {
	return fingerByKey[key]
}

// Group is the colour group a key is painted with.
type Group string

const (
	GroupVowel     Group = "vowel"
	GroupConsonant Group = "consonant"
	GroupNumber    Group = "number"
	GroupFunction  Group = "function"
	GroupModifier  Group = "modifier"
	GroupSymbol    Group = "symbol"
)

// GroupOf classifies key for colouring. Letters are split into vowels and
// consonants.
func GroupOf(key keyboard.KeyID) Group {
	if r, ok := key.Rune(); ok {
		switch {
		case IsVowel(r):
			return GroupVowel
		case IsConsonant(r):
			return GroupConsonant
		case r >= '0' && r <= '9':
			return GroupNumber
		}
		return GroupSymbol
	}
	switch key.Kind() {
	case keyboard.KindModifier:
		return GroupModifier
	case keyboard.KindFunction, keyboard.KindSpace:
		return GroupFunction
	}
	return GroupSymbol
}
