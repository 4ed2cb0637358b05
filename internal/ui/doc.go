// Package ui renders the one-shot output of the kidskeys subcommands:
// command headers, key/value sections, result boxes and confirmation
// prompts. The interactive tutor screen lives in package tui.
//
// Output is plain lipgloss text written to an io.Writer, so commands stay
// scriptable and tests can capture it. Logging is controlled separately by
// KIDSKEYS_LOG_LEVEL and is silent by default, keeping this output clean.
package ui
