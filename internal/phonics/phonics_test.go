package phonics

import (
	"testing"

	"github.com/muurk/kidskeys/internal/keyboard"
)

func TestInfo(t *testing.T) {
	tests := []struct {
		key       keyboard.KeyID
		wantName  string
		wantSound string
		wantCat   Category
		wantEmoji bool
	}{
		{"a", "is for Apple", "says 'a'", CategoryLetter, true},
		{"z", "is for Zebra", "says 'z'", CategoryLetter, true},
		{"3", "Number 3", "is 3", CategoryNumber, false},
		{keyboard.KeySpace, "Space Bar", "makes a space", CategoryFunction, false},
		{keyboard.KeyEnter, "Enter Key", "starts a new line", CategoryFunction, false},
		{keyboard.KeyCapsLock, "Caps Lock", "makes BIG letters", CategoryModifier, false},
		{keyboard.KeyShiftRight, "Shift Key", "changes letters", CategoryModifier, false},
		{";", ";", "", CategorySymbol, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := Info(tt.key)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Sound != tt.wantSound {
				t.Errorf("Sound = %q, want %q", got.Sound, tt.wantSound)
			}
			if got.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCat)
			}
			if (got.Emoji != "") != tt.wantEmoji {
				t.Errorf("Emoji = %q, want present=%v", got.Emoji, tt.wantEmoji)
			}
		})
	}
}

func TestEveryLetterHasContent(t *testing.T) {
	for r := 'a'; r <= 'z'; r++ {
		if _, ok := Association(r); !ok {
			t.Errorf("no association for %q", r)
		}
		if _, ok := PhoneticSound(r); !ok {
			t.Errorf("no phonetic sound for %q", r)
		}
		if FingerFor(keyboard.KeyID(string(r))) == NoFinger {
			t.Errorf("no finger for %q", r)
		}
	}

	if w, ok := Association('Q'); !ok || w.Name != "Queen" {
		t.Errorf("Association('Q') = %v, %v", w, ok)
	}
}

func TestNumberWord(t *testing.T) {
	if w, ok := NumberWord('7'); !ok || w != "seven" {
		t.Errorf("NumberWord('7') = %q, %v", w, ok)
	}
	if _, ok := NumberWord('x'); ok {
		t.Error("NumberWord('x') should fail")
	}
}

func TestSpokenName(t *testing.T) {
	tests := map[keyboard.KeyID]string{
		"q":                    "q",
		keyboard.KeySpace:      "space bar",
		keyboard.KeyShiftLeft:  "left shift",
		keyboard.KeyShiftRight: "right shift",
		keyboard.KeyBackspace:  "backspace",
	}
	for key, want := range tests {
		if got := SpokenName(key); got != want {
			t.Errorf("SpokenName(%s) = %q, want %q", key, got, want)
		}
	}
}

func TestVowelsAndConsonants(t *testing.T) {
	for _, r := range "aeiouAEIOU" {
		if !IsVowel(r) || IsConsonant(r) {
			t.Errorf("%q should be a vowel only", r)
		}
	}
	for _, r := range "bcdXYZ" {
		if IsVowel(r) || !IsConsonant(r) {
			t.Errorf("%q should be a consonant only", r)
		}
	}
	for _, r := range "1;é " {
		if IsVowel(r) || IsConsonant(r) {
			t.Errorf("%q should be neither", r)
		}
	}
}

func TestFingerFor(t *testing.T) {
	tests := []struct {
		key  keyboard.KeyID
		want Finger
	}{
		{"a", LeftPinky},
		{"f", LeftIndex},
		{"j", RightIndex},
		{"k", RightMiddle},
		{";", RightPinky},
		{keyboard.KeySpace, Thumb},
		{"F13", NoFinger},
	}

	for _, tt := range tests {
		if got := FingerFor(tt.key); got != tt.want {
			t.Errorf("FingerFor(%s) = %v, want %v", tt.key, got, tt.want)
		}
	}

	if !LeftIndex.Left() || RightIndex.Left() || Thumb.Left() {
		t.Error("Finger.Left() mismatch")
	}
}

func TestEveryLayoutKeyHasFinger(t *testing.T) {
	for _, k := range keyboard.BaseLayout.Keys() {
		if FingerFor(k) == NoFinger {
			t.Errorf("key %s has no finger", k)
		}
	}
}

func TestGroupOf(t *testing.T) {
	tests := []struct {
		key  keyboard.KeyID
		want Group
	}{
		{"e", GroupVowel},
		{"t", GroupConsonant},
		{"5", GroupNumber},
		{"/", GroupSymbol},
		{keyboard.KeyEnter, GroupFunction},
		{keyboard.KeySpace, GroupFunction},
		{keyboard.KeyCapsLock, GroupModifier},
	}

	for _, tt := range tests {
		if got := GroupOf(tt.key); got != tt.want {
			t.Errorf("GroupOf(%s) = %s, want %s", tt.key, got, tt.want)
		}
	}
}
