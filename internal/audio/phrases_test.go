package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muurk/kidskeys/internal/keyboard"
)

func TestPhysicalPhrase(t *testing.T) {
	shift := keyboard.State{ShiftPressed: true}
	caps := keyboard.State{CapsLockOn: true}
	both := keyboard.State{ShiftPressed: true, CapsLockOn: true}

	tests := []struct {
		key    keyboard.KeyID
		st     keyboard.State
		want   string
		wantOK bool
	}{
		{"a", keyboard.State{}, "a", true},
		{"7", keyboard.State{}, "7", true},
		{keyboard.KeySpace, keyboard.State{}, "space bar", true},
		{keyboard.KeyShiftLeft, shift, "left shift", true},
		{keyboard.KeyCapsLock, caps, "caps lock", true},
		{"/", keyboard.State{}, "", false},
		{"a", shift, "A", true},
		{"a", caps, "A", true},
		{"a", both, "a", true},
		{"1", caps, "1", true},
		{"1", shift, "", false},
		{"1", both, "", false},
	}

	for _, tt := range tests {
		got, ok := physicalPhrase(tt.key, tt.st)
		assert.Equal(t, tt.wantOK, ok, "key %s", tt.key)
		assert.Equal(t, tt.want, got, "key %s", tt.key)
	}
}

func TestVirtualPhrases(t *testing.T) {
	dual := DefaultConfig()
	single := DefaultConfig()
	single.DualVoice = false

	tests := []struct {
		name string
		key  keyboard.KeyID
		st   keyboard.State
		cfg  Config
		want []string
	}{
		{"dual letter", "x", keyboard.State{}, dual, []string{"x", "ksuh"}},
		{"single letter", "a", keyboard.State{}, single, []string{"A says ah"}},
		{"digit", "3", keyboard.State{}, dual, []string{"3 is three"}},
		{"named key", keyboard.KeyEnter, keyboard.State{}, dual, []string{"enter key"}},
		{"symbol", "=", keyboard.State{}, dual, nil},
		{"shifted letter", "x", keyboard.State{ShiftPressed: true}, dual, []string{"x", "ksuh"}},
		{"shifted digit", "1", keyboard.State{ShiftPressed: true}, dual, nil},
		{"shifted digit with caps lock", "1", keyboard.State{ShiftPressed: true, CapsLockOn: true}, dual, nil},
		{"digit with caps lock", "3", keyboard.State{CapsLockOn: true}, dual, []string{"3 is three"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, u := range virtualPhrases(tt.key, tt.st, tt.cfg) {
				got = append(got, u.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecondaryUtterance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rate = 2.0
	u := cfg.secondaryUtterance("ah")
	assert.InDelta(t, 1.2, u.Rate, 1e-9)

	cfg.Rate = 1.0
	u = cfg.secondaryUtterance("ah")
	assert.InDelta(t, 0.6, u.Rate, 1e-9, "rate has a floor")
	assert.Equal(t, cfg.Voice, u.Voice, "falls back to the primary voice")
}
