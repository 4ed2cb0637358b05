package phonics

import (
	"strings"

	"github.com/muurk/kidskeys/internal/keyboard"
)

// Category groups keys for display colours and speech.
type Category string

const (
	CategoryLetter   Category = "letter"
	CategoryNumber   Category = "number"
	CategoryFunction Category = "function"
	CategoryModifier Category = "modifier"
	CategorySymbol   Category = "symbol"
)

// Word is the picture word taught with a letter.
type Word struct {
	Name  string
	Emoji string
}

// KeyInfo describes a key for the info panel.
type KeyInfo struct {
	Key      keyboard.KeyID
	Name     string // "is for Apple", "Number 3", "Space Bar"
	Sound    string // "says 'a'", "makes a space"
	Emoji    string // letters only
	Category Category
}

var associations = map[rune]Word{
	'a': {"Apple", "🍎"},
	'b': {"Bear", "🐻"},
	'c': {"Cat", "🐱"},
	'd': {"Dog", "🐶"},
	'e': {"Elephant", "🐘"},
	'f': {"Fish", "🐠"},
	'g': {"Goat", "🐐"},
	'h': {"Horse", "🐴"},
	'i': {"Iguana", "🦎"},
	'j': {"Jellyfish", "🪼"},
	'k': {"Kangaroo", "🦘"},
	'l': {"Lion", "🦁"},
	'm': {"Monkey", "🐵"},
	'n': {"Nest", "🪺"},
	'o': {"Octopus", "🐙"},
	'p': {"Pig", "🐷"},
	'q': {"Queen", "👸"},
	'r': {"Rabbit", "🐰"},
	's': {"Snake", "🐍"},
	't': {"Turtle", "🐢"},
	'u': {"Unicorn", "🦄"},
	'v': {"Volcano", "🌋"},
	'w': {"Whale", "🐳"},
	'x': {"X-ray", "🦴"},
	'y': {"Yak", "🐃"},
	'z': {"Zebra", "🦓"},
}

var phoneticSounds = map[rune]string{
	'a': "ah", 'b': "buh", 'c': "kuh", 'd': "duh", 'e': "eh",
	'f': "fuh", 'g': "guh", 'h': "huh", 'i': "ih", 'j': "juh",
	'k': "kuh", 'l': "luh", 'm': "muh", 'n': "nuh", 'o': "oh",
	'p': "puh", 'q': "kwuh", 'r': "ruh", 's': "suh", 't': "tuh",
	'u': "uh", 'v': "vuh", 'w': "wuh", 'x': "ksuh", 'y': "yuh", 'z': "zuh",
}

var numberWords = [10]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
}

// functionKeys holds the short spoken name, the display name and the
// description of each named key.
var functionKeys = map[keyboard.KeyID]struct {
	spoken, name, sound string
	category            Category
}{
	keyboard.KeySpace:      {"space bar", "Space Bar", "makes a space", CategoryFunction},
	keyboard.KeyEnter:      {"enter key", "Enter Key", "starts a new line", CategoryFunction},
	keyboard.KeyBackspace:  {"backspace", "Backspace Key", "erases text", CategoryFunction},
	keyboard.KeyTab:        {"tab key", "Tab Key", "makes a big space", CategoryFunction},
	keyboard.KeyCapsLock:   {"caps lock", "Caps Lock", "makes BIG letters", CategoryModifier},
	keyboard.KeyShiftLeft:  {"left shift", "Shift Key", "changes letters", CategoryModifier},
	keyboard.KeyShiftRight: {"right shift", "Shift Key", "changes letters", CategoryModifier},
}

// Association returns the picture word for a letter, in either case.
func Association(letter rune) (Word, bool) {
	w, ok := associations[toLower(letter)]
	return w, ok
}

// PhoneticSound returns the sound a letter makes ("buh" for b).
func PhoneticSound(letter rune) (string, bool) {
	s, ok := phoneticSounds[toLower(letter)]
	return s, ok
}

// NumberWord spells out a single digit.
func NumberWord(digit rune) (string, bool) {
	if digit < '0' || digit > '9' {
		return "", false
	}
	return numberWords[digit-'0'], true
}

// SpokenName returns the short phrase used when a key is announced: the
// letter itself, the digit, or a name such as "space bar". Symbols are
// spoken as they are.
func SpokenName(key keyboard.KeyID) string {
	if fk, ok := functionKeys[key]; ok {
		return fk.spoken
	}
	return string(key)
}

// Info describes a key for display.
func Info(key keyboard.KeyID) KeyInfo {
	if r, ok := key.Rune(); ok {
		if w, ok := Association(r); ok {
			return KeyInfo{
				Key:      key,
				Name:     "is for " + w.Name,
				Sound:    "says '" + string(toLower(r)) + "'",
				Emoji:    w.Emoji,
				Category: CategoryLetter,
			}
		}
		if r >= '0' && r <= '9' {
			return KeyInfo{
				Key:      key,
				Name:     "Number " + string(r),
				Sound:    "is " + string(r),
				Category: CategoryNumber,
			}
		}
	}

	if fk, ok := functionKeys[key]; ok {
		return KeyInfo{Key: key, Name: fk.name, Sound: fk.sound, Category: fk.category}
	}
	return KeyInfo{Key: key, Name: string(key), Category: CategorySymbol}
}

// IsVowel reports whether r is one of a, e, i, o, u in either case.
func IsVowel(r rune) bool {
	return strings.ContainsRune("aeiouAEIOU", r)
}

// IsConsonant reports whether r is a latin letter that is not a vowel.
func IsConsonant(r rune) bool {
	l := toLower(r)
	return l >= 'a' && l <= 'z' && !IsVowel(l)
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
