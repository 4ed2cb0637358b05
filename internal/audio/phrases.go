package audio

import (
	"strings"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/phonics"
)

// physicalPhrase is the short announcement for a key typed on a real
// keyboard: the letter, the digit or the key's name. Symbols are silent.
// Character keys are announced as typed under st's modifiers.
func physicalPhrase(key keyboard.KeyID, st keyboard.State) (string, bool) {
	if r, ok := key.Rune(); ok {
		r = st.TransformCharacter(r)
		if phonics.IsVowel(r) || phonics.IsConsonant(r) || (r >= '0' && r <= '9') {
			return string(r), true
		}
		return "", false
	}
	return phonics.SpokenName(key), true
}

// virtualPhrases is the longer explanation given when a child clicks a key.
// With dual voice a letter is said by the primary voice and its sound by the
// secondary one. Character keys are explained as typed under st's
// modifiers, so a shifted 1 is the silent symbol !.
func virtualPhrases(key keyboard.KeyID, st keyboard.State, cfg Config) []Utterance {
	primary := cfg.utterance("")

	r, ok := key.Rune()
	if !ok {
		primary.Text = phonics.SpokenName(key)
		return []Utterance{primary}
	}
	r = st.TransformCharacter(r)

	if sound, ok := phonics.PhoneticSound(r); ok {
		letter := strings.ToLower(string(r))
		if !cfg.DualVoice {
			primary.Text = strings.ToUpper(letter) + " says " + sound
			return []Utterance{primary}
		}
		primary.Text = letter
		secondary := cfg.secondaryUtterance(sound)
		return []Utterance{primary, secondary}
	}

	if word, ok := phonics.NumberWord(r); ok {
		primary.Text = string(r) + " is " + word
		return []Utterance{primary}
	}
	return nil
}
