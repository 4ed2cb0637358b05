package input

import (
	"errors"

	"github.com/muurk/kidskeys/internal/keyboard"
)

// ErrUnsupported is returned by sources that need a platform feature this
// build lacks.
var ErrUnsupported = errors.New("input source not supported on this platform")

// SendFunc receives physical key events in the order they happened.
type SendFunc func(keyboard.ModifierSnapshot)

// Device is an input device that can be opened as a key source.
type Device struct {
	Name string
	Path string
}
