package config

import (
	"errors"
	"fmt"
	"strings"
)

// Version is the preferences file format written by this build.
const Version = 1

// ErrUnsupportedVersion is returned for a preferences file written in a
// format this build does not read.
var ErrUnsupportedVersion = errors.New("unsupported config version")

// Config is the whole preferences file.
type Config struct {
	Version int          `yaml:"version"`
	Tutor   TutorPrefs   `yaml:"tutor"`
	Audio   AudioPrefs   `yaml:"audio"`
	Lessons LessonPrefs  `yaml:"lessons"`
	Stats   StatsPrefs   `yaml:"stats"`
	Remote  RemotePrefs  `yaml:"remote"`
	Logging LoggingPrefs `yaml:"logging"`
}

// TutorPrefs configures the keyboard itself.
type TutorPrefs struct {
	StartInTutorMode bool   `yaml:"start_in_tutor_mode"`
	MaxLength        int    `yaml:"max_length"`             // Text field limit in characters
	EvdevDevice      string `yaml:"evdev_device,omitempty"` // e.g. /dev/input/event3
}

// AudioPrefs configures speech.
type AudioPrefs struct {
	Enabled        bool    `yaml:"enabled"`
	Backend        string  `yaml:"backend"` // auto, none, espeak-ng, espeak, spd-say, say
	Rate           float64 `yaml:"rate"`
	Pitch          float64 `yaml:"pitch"`
	Volume         float64 `yaml:"volume"`
	Voice          string  `yaml:"voice,omitempty"`
	SecondaryVoice string  `yaml:"secondary_voice,omitempty"`
	Language       string  `yaml:"language"`
	DualVoice      bool    `yaml:"dual_voice"`
	DebounceMS     int     `yaml:"debounce_ms"`
	PauseMS        int     `yaml:"pause_ms"`
}

// LessonPrefs configures typing lessons.
type LessonPrefs struct {
	DefaultLevel string `yaml:"default_level"`
	PackFile     string `yaml:"pack_file,omitempty"` // Extra word levels (TOML)
}

// StatsPrefs configures practice statistics.
type StatsPrefs struct {
	Enabled  bool   `yaml:"enabled"`
	Database string `yaml:"database,omitempty"` // Defaults to stats.db in the data directory
}

// RemotePrefs configures the remote key pad server.
type RemotePrefs struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	Advertise bool   `yaml:"advertise"` // Announce over mDNS
	Name      string `yaml:"name,omitempty"`
}

// LoggingPrefs configures the log output.
type LoggingPrefs struct {
	Level string `yaml:"level,omitempty"` // Empty disables logging
	File  string `yaml:"file,omitempty"`  // Defaults to kidskeys.log in the state directory
}

// Default returns the preferences used when no file exists.
func Default() *Config {
	return &Config{
		Version: Version,
		Tutor: TutorPrefs{
			MaxLength: 10000,
		},
		Audio: AudioPrefs{
			Enabled:    true,
			Backend:    "auto",
			Rate:       1.0,
			Pitch:      1.1,
			Volume:     0.8,
			Language:   "en-US",
			DualVoice:  true,
			DebounceMS: 50,
			PauseMS:    300,
		},
		Lessons: LessonPrefs{
			DefaultLevel: "beginner",
		},
		Stats: StatsPrefs{
			Enabled: true,
		},
		Remote: RemotePrefs{
			Listen:    ":7321",
			Advertise: true,
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Version != Version {
		return fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, c.Version, Version)
	}

	var problems []string
	if c.Tutor.MaxLength <= 0 {
		problems = append(problems, "tutor.max_length must be positive")
	}
	if c.Audio.Rate < 0.5 || c.Audio.Rate > 2.0 {
		problems = append(problems, "audio.rate must be between 0.5 and 2.0")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		problems = append(problems, "audio.volume must be between 0 and 1")
	}
	if c.Audio.DebounceMS < 0 || c.Audio.PauseMS < 0 {
		problems = append(problems, "audio delays must not be negative")
	}
	if c.Remote.Enabled && c.Remote.Listen == "" {
		problems = append(problems, "remote.listen is required when remote is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
