//go:build linux

package input

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/logging"
)

// evdev key values
const (
	valueUp     = 0
	valueDown   = 1
	valueRepeat = 2
)

// evdevCodes maps kernel key codes to physical key codes.
var evdevCodes = map[evdev.EvCode]string{
	evdev.KEY_GRAVE: "Backquote", evdev.KEY_1: "Digit1", evdev.KEY_2: "Digit2",
	evdev.KEY_3: "Digit3", evdev.KEY_4: "Digit4", evdev.KEY_5: "Digit5",
	evdev.KEY_6: "Digit6", evdev.KEY_7: "Digit7", evdev.KEY_8: "Digit8",
	evdev.KEY_9: "Digit9", evdev.KEY_0: "Digit0", evdev.KEY_MINUS: "Minus",
	evdev.KEY_EQUAL: "Equal", evdev.KEY_BACKSPACE: "Backspace", evdev.KEY_TAB: "Tab",
	evdev.KEY_Q: "KeyQ", evdev.KEY_W: "KeyW", evdev.KEY_E: "KeyE", evdev.KEY_R: "KeyR",
	evdev.KEY_T: "KeyT", evdev.KEY_Y: "KeyY", evdev.KEY_U: "KeyU", evdev.KEY_I: "KeyI",
	evdev.KEY_O: "KeyO", evdev.KEY_P: "KeyP", evdev.KEY_LEFTBRACE: "BracketLeft",
	evdev.KEY_RIGHTBRACE: "BracketRight", evdev.KEY_BACKSLASH: "Backslash",
	evdev.KEY_CAPSLOCK: "CapsLock", evdev.KEY_A: "KeyA", evdev.KEY_S: "KeyS",
	evdev.KEY_D: "KeyD", evdev.KEY_F: "KeyF", evdev.KEY_G: "KeyG", evdev.KEY_H: "KeyH",
	evdev.KEY_J: "KeyJ", evdev.KEY_K: "KeyK", evdev.KEY_L: "KeyL",
	evdev.KEY_SEMICOLON: "Semicolon", evdev.KEY_APOSTROPHE: "Quote",
	evdev.KEY_ENTER: "Enter", evdev.KEY_KPENTER: "Enter",
	evdev.KEY_LEFTSHIFT: "ShiftLeft", evdev.KEY_RIGHTSHIFT: "ShiftRight",
	evdev.KEY_Z: "KeyZ", evdev.KEY_X: "KeyX", evdev.KEY_C: "KeyC", evdev.KEY_V: "KeyV",
	evdev.KEY_B: "KeyB", evdev.KEY_N: "KeyN", evdev.KEY_M: "KeyM",
	evdev.KEY_COMMA: "Comma", evdev.KEY_DOT: "Period", evdev.KEY_SLASH: "Slash",
	evdev.KEY_SPACE: "Space",
}

// EvdevSource reads a Linux input device. Unlike a terminal it sees key
// releases, both shift keys separately and caps lock.
type EvdevSource struct {
	dev  *evdev.InputDevice
	path string

	leftShift  bool
	rightShift bool
	capsLock   bool
	chord      map[evdev.EvCode]bool // ctrl, alt and meta keys held

	// capsLED reads the live caps lock LED. Nil when the device has no
	// LEDs; caps lock then toggles on each keydown.
	capsLED func() (bool, error)

	closeOnce sync.Once
	closeErr  error
}

// OpenEvdev opens the device at path, e.g. /dev/input/event3. The caller
// needs read permission on the device node.
func OpenEvdev(path string) (*EvdevSource, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input device %s: %w", path, err)
	}
	s := &EvdevSource{dev: dev, path: path}

	if leds, err := dev.State(evdev.EV_LED); err == nil {
		s.capsLock = leds[evdev.LED_CAPSL]
		s.capsLED = func() (bool, error) {
			leds, err := dev.State(evdev.EV_LED)
			if err != nil {
				return false, err
			}
			return leds[evdev.LED_CAPSL], nil
		}
	}
	return s, nil
}

// Name returns the device name reported by the kernel.
func (s *EvdevSource) Name() string {
	name, err := s.dev.Name()
	if err != nil {
		return s.path
	}
	return name
}

// Run reads events until ctx is cancelled or the device fails, calling send
// for every key event that maps to a keyboard key.
func (s *EvdevSource) Run(ctx context.Context, send SendFunc) error {
	logging.Info("Reading input device",
		zap.String("path", s.path),
		zap.String("name", s.Name()),
		zap.Bool("caps_lock", s.capsLock),
	)

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		ev, err := s.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read input device: %w", err)
		}
		if m, ok := s.translate(ev); ok {
			send(m)
		}
	}
}

// Close closes the device. It is safe to call more than once.
func (s *EvdevSource) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.dev.Close()
	})
	return s.closeErr
}

// chordKeys are held for shortcuts. Keys pressed with one of them belong
// to the shortcut, not to the text.
var chordKeys = map[evdev.EvCode]bool{
	evdev.KEY_LEFTCTRL: true, evdev.KEY_RIGHTCTRL: true,
	evdev.KEY_LEFTALT: true, evdev.KEY_RIGHTALT: true,
	evdev.KEY_LEFTMETA: true, evdev.KEY_RIGHTMETA: true,
}

// translate turns a kernel event into a modifier snapshot, tracking shift
// and caps lock along the way. Keys pressed while ctrl, alt or meta is held
// are dropped apart from shift and caps lock.
func (s *EvdevSource) translate(ev *evdev.InputEvent) (keyboard.ModifierSnapshot, bool) {
	if ev.Type == evdev.EV_LED && ev.Code == evdev.LED_CAPSL {
		s.capsLock = ev.Value != 0
		m := keyboard.ModifierSnapshot{
			ShiftDown: s.leftShift || s.rightShift,
			Code:      string(keyboard.KeyCapsLock),
			Type:      keyboard.KeyUp,
		}
		return m.WithCapsLock(s.capsLock), true
	}
	if ev.Type != evdev.EV_KEY {
		return keyboard.ModifierSnapshot{}, false
	}

	if chordKeys[ev.Code] {
		if s.chord == nil {
			s.chord = make(map[evdev.EvCode]bool)
		}
		if ev.Value == valueUp {
			delete(s.chord, ev.Code)
		} else {
			s.chord[ev.Code] = true
		}
		return keyboard.ModifierSnapshot{}, false
	}

	code, ok := evdevCodes[ev.Code]
	if !ok {
		return keyboard.ModifierSnapshot{}, false
	}

	var typ keyboard.EventType
	switch ev.Value {
	case valueDown, valueRepeat:
		typ = keyboard.KeyDown
	case valueUp:
		typ = keyboard.KeyUp
	default:
		return keyboard.ModifierSnapshot{}, false
	}

	down := typ == keyboard.KeyDown
	switch ev.Code {
	case evdev.KEY_LEFTSHIFT:
		s.leftShift = down
	case evdev.KEY_RIGHTSHIFT:
		s.rightShift = down
	case evdev.KEY_CAPSLOCK:
		s.readCapsLock(ev.Value == valueDown)
	default:
		if len(s.chord) > 0 {
			return keyboard.ModifierSnapshot{}, false
		}
	}

	m := keyboard.ModifierSnapshot{
		ShiftDown: s.leftShift || s.rightShift,
		Code:      code,
		Type:      typ,
	}
	return m.WithCapsLock(s.capsLock), true
}

// readCapsLock refreshes the caps lock state from the LED. Without a
// readable LED a fresh keydown toggles it.
func (s *EvdevSource) readCapsLock(pressed bool) {
	if s.capsLED != nil {
		if on, err := s.capsLED(); err == nil {
			s.capsLock = on
			return
		}
	}
	if pressed {
		s.capsLock = !s.capsLock
	}
}

// Devices lists input devices that look like keyboards.
func Devices() ([]Device, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}
	var out []Device
	for _, p := range paths {
		if strings.Contains(strings.ToLower(p.Name), "keyboard") {
			out = append(out, Device{Name: p.Name, Path: p.Path})
		}
	}
	return out, nil
}
