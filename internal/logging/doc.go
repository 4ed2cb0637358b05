// Package logging provides structured logging for kidskeys.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tutor. It provides both general logging functions
// and specialized functions for key presses, remote connections and speech.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (every key press, remote payloads, speech timings)
//   - Info: Normal operations (connections, lesson start/end, session summaries)
//   - Warn: Non-fatal issues (speech backend failures, stats not saved)
//   - Error: Failures that disable a feature (remote server could not start)
//
// # Silent by Default
//
// Logging is off unless a level is given with --log-level or the
// KIDSKEYS_LOG_LEVEL environment variable. The tutor draws the whole terminal,
// so the run command sends log output to a file:
//
//	if err := logging.Initialize("debug", "/tmp/kidskeys.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogKeyPress("a", "virtual", 12, 12)
//	logging.LogConnection(remoteAddr, "websocket_upgraded")
//	logging.LogSpeech("espeak-ng", "A says ah", 1.0, elapsed, err)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
