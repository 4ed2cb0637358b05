// Package input turns platform key events into keyboard.ModifierSnapshot
// values for a tutor.Session.
//
// Two sources exist. FromTeaKey converts terminal key messages; terminals
// report characters only, so shift is inferred from the character and each
// message becomes a keydown immediately followed by a keyup. EvdevSource
// reads a Linux input device directly and reports real key releases, the
// two shift keys independently and the caps lock state.
package input
