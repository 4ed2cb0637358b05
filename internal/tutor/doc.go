// Package tutor connects the keyboard state reducer to the world around it.
//
// A Session owns the state of one on-screen keyboard. Key sources feed it
// virtual presses (clicks, remote key pads) and physical key events (the
// terminal, evdev). Physical events are dropped unless tutor mode is on.
// After every accepted press, observers such as the audio engine and the
// statistics tracker receive an Event carrying a copy of the new state.
//
// While tutor mode is on, the session mirrors its buffer into a Target text
// field. Switching tutor mode on adopts whatever the field already holds.
package tutor
