// Package config manages the kidskeys preferences file.
//
// Preferences are stored as YAML in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/kidskeys/config.yaml or $HOME/.config/kidskeys/config.yaml
//   - macOS: $HOME/.config/kidskeys/config.yaml
//   - Windows: %LOCALAPPDATA%\kidskeys\config.yaml
//
// The statistics database and the log file live in the XDG data and state
// directories unless the preferences name other paths.
//
// # Usage Example
//
//	path, err := config.GetConfigPath()
//	if err != nil {
//	    return err
//	}
//	cfg, err := config.LoadFile(path)
//	if err != nil {
//	    return err
//	}
//	cfg.Audio.Rate = 0.8
//	if err := cfg.SaveFile(path); err != nil {
//	    return err
//	}
//
// A missing file is not an error: LoadFile returns Default(). Keys missing from
// an existing file keep their default values.
//
// # Watching
//
// A Watcher reloads the file when it changes so a running keyboard picks
// up new audio settings without a restart:
//
//	w := config.NewWatcher(path, cfg)
//	w.OnChange(func(c *config.Config) { ... })
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Close()
//
// Writes are atomic (temporary file and rename) and serialised by a mutex.
// Typed text is never stored here.
package config
