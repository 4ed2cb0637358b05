// Package audio speaks key presses aloud.
//
// An Engine is attached to a keyboard session as an observer. Keys typed on a
// real keyboard are announced briefly ("b", "space bar") so fast typing is not
// drowned in speech. Keys clicked on screen get a fuller explanation: the
// letter followed by its phonetic sound in a second, slower voice, or a phrase
// such as "3 is three".
//
// Speech is debounced. Utterances start at least DebounceInterval apart, and a
// new request always replaces the one before it: pending speech is dropped and
// playing speech is cut off. Nothing is ever queued.
//
// # Backends
//
// Sound is produced by an installed text-to-speech program:
//
//	espeak-ng / espeak   Linux
//	spd-say              Linux speech-dispatcher
//	say                  macOS
//
// Detect picks the first one found on PATH. When none is installed the engine
// runs with NopSpeaker and the tutor stays silent.
package audio
