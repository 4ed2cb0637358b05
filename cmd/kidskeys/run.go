package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/muurk/kidskeys/internal/audio"
	"github.com/muurk/kidskeys/internal/config"
	"github.com/muurk/kidskeys/internal/input"
	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/lessons"
	"github.com/muurk/kidskeys/internal/logging"
	"github.com/muurk/kidskeys/internal/remote"
	"github.com/muurk/kidskeys/internal/stats"
	"github.com/muurk/kidskeys/internal/tui"
	"github.com/muurk/kidskeys/internal/tutor"
	"github.com/muurk/kidskeys/internal/ui"
)

// Tutor flags
var (
	startTutor  bool
	noAudio     bool
	noStats     bool
	lessonLevel string
	remoteAddr  string
	evdevPath   string
	maxLen      int
	logLevel    string
)

// voiceLookupTimeout bounds listing the installed voices at start-up.
const voiceLookupTimeout = 2 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the tutor (default command)",
	Long: `Start the on-screen keyboard.

Click keys with the mouse, or pick them with the arrow keys and Enter. Press
ctrl+t for tutor mode, where the real keyboard types and the screen follows
along. ctrl+l starts a word lesson.`,
	Example: `  # Start with the real keyboard driving the screen
  kidskeys run --tutor

  # Jump straight into a lesson
  kidskeys run --lesson intermediate

  # Accept presses from a remote key pad
  kidskeys run --remote :7321

  # Read keys straight from a Linux input device (needs read access)
  kidskeys run --tutor --evdev /dev/input/event3`,
	RunE: runTutor,
}

func init() {
	addRunFlags(rootCmd.Flags())
	addRunFlags(runCmd.Flags())
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&startTutor, "tutor", false, "Start in tutor mode")
	fs.BoolVar(&noAudio, "no-audio", false, "Start with speech off")
	fs.BoolVar(&noStats, "no-stats", false, "Do not record practice statistics")
	fs.StringVar(&lessonLevel, "lesson", "", "Start a lesson at this level")
	fs.StringVar(&remoteAddr, "remote", "", "Accept remote key presses on this address (e.g. :7321)")
	fs.StringVar(&evdevPath, "evdev", "", "Read physical keys from this input device (Linux)")
	fs.IntVar(&maxLen, "max-len", 0, "Maximum text length")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to the state directory")
}

func runTutor(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdout.Fd()) {
		return errors.New("the tutor needs an interactive terminal")
	}

	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd.Flags(), cfg)

	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engine := newAudioEngine(ctx, cfg)
	defer engine.Close()

	pack, err := loadPack(cfg.Lessons.PackFile)
	if err != nil {
		return err
	}
	lesson := lessons.New(pack)

	tracker, closeStats, err := newTracker(cfg)
	if err != nil {
		return err
	}
	defer closeStats()

	var src *input.EvdevSource
	if cfg.Tutor.EvdevDevice != "" {
		src, err = input.OpenEvdev(cfg.Tutor.EvdevDevice)
		if err != nil {
			return err
		}
		defer src.Close()
	}

	// program is assigned before anything can call the senders below.
	var program *tea.Program

	var srv *remote.Server
	var observers []tutor.Observer
	if cfg.Remote.Enabled {
		srv = remote.NewServer(func(k keyboard.KeyID) {
			program.Send(tui.RemotePressMsg{Key: k})
		}, remote.WithName(cfg.Remote.Name), remote.WithAdvertise(cfg.Remote.Advertise))
		observers = append(observers, srv)
	}

	model := tui.NewModel(tui.Options{
		Audio:        engine,
		Lesson:       lesson,
		Stats:        tracker,
		Observers:    observers,
		MaxLen:       cfg.Tutor.MaxLength,
		TutorMode:    cfg.Tutor.StartInTutorMode,
		StartLesson:  lessonLevel != "",
		Level:        levelOrDefault(lessonLevel, cfg.Lessons.DefaultLevel),
		EvdevActive:  src != nil,
		RemoteStatus: remoteStatus(srv),
	})
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if srv != nil {
		if err := srv.Start(cfg.Remote.Listen); err != nil {
			return err
		}
		defer srv.Close()
	}

	if src != nil {
		go func() {
			err := src.Run(ctx, func(m keyboard.ModifierSnapshot) {
				program.Send(tui.PhysicalKeyMsg{Snapshot: m})
			})
			if err != nil && ctx.Err() == nil {
				program.Send(tui.SourceErrorMsg{Source: "evdev", Err: err})
			}
		}()
	}

	watcher := config.NewWatcher(path, cfg)
	watcher.OnChange(func(c *config.Config) {
		program.Send(tui.ConfigChangedMsg{Config: c})
	})
	if err := watcher.Start(); err != nil {
		logging.Warn("Preferences will not be reloaded", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	logging.Info("Tutor started",
		zap.Bool("tutor_mode", cfg.Tutor.StartInTutorMode),
		zap.Bool("remote", srv != nil),
		zap.Bool("evdev", src != nil))

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tutor stopped: %w", err)
	}
	return nil
}

// applyRunFlags lets explicitly set flags override the preferences file.
func applyRunFlags(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("tutor") {
		cfg.Tutor.StartInTutorMode = startTutor
	}
	if noAudio {
		cfg.Audio.Enabled = false
	}
	if noStats {
		cfg.Stats.Enabled = false
	}
	if remoteAddr != "" {
		cfg.Remote.Enabled = true
		cfg.Remote.Listen = remoteAddr
	}
	if evdevPath != "" {
		cfg.Tutor.EvdevDevice = evdevPath
	}
	if maxLen > 0 {
		cfg.Tutor.MaxLength = maxLen
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

// setupLogging sends logs to a file: stdout and stderr belong to the tutor
// screen. The level comes from the preferences or KIDSKEYS_LOG_LEVEL, the
// file from KIDSKEYS_LOG_FILE or the preferences.
func setupLogging(cfg *config.Config) error {
	level := cfg.Logging.Level
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" {
		return nil
	}

	path := os.Getenv(logging.LogFileEnvVar)
	if path == "" || path == "stdout" || path == "stderr" {
		var err error
		path, err = cfg.LogPath()
		if err != nil {
			return err
		}
	}
	return logging.Initialize(level, path)
}

func newAudioEngine(ctx context.Context, cfg *config.Config) *audio.Engine {
	ac := audio.Config{
		Enabled:          cfg.Audio.Enabled,
		Rate:             cfg.Audio.Rate,
		Pitch:            cfg.Audio.Pitch,
		Volume:           cfg.Audio.Volume,
		Voice:            cfg.Audio.Voice,
		SecondaryVoice:   cfg.Audio.SecondaryVoice,
		Language:         cfg.Audio.Language,
		DebounceInterval: time.Duration(cfg.Audio.DebounceMS) * time.Millisecond,
		DualVoice:        cfg.Audio.DualVoice,
		PauseBetween:     time.Duration(cfg.Audio.PauseMS) * time.Millisecond,
	}

	speaker, err := audio.Detect(cfg.Audio.Backend, exec.LookPath)
	if err != nil {
		logging.Warn("Speech unavailable", zap.Error(err))
	}

	if cs, ok := speaker.(*audio.CommandSpeaker); ok && ac.Voice == "" {
		vctx, cancel := context.WithTimeout(ctx, voiceLookupTimeout)
		voices, err := cs.Voices(vctx)
		cancel()
		if err != nil {
			logging.Debug("Could not list voices", zap.Error(err))
		} else {
			primary, secondary := audio.PickVoices(voices, ac.Language)
			ac.Voice = primary
			if ac.SecondaryVoice == "" {
				ac.SecondaryVoice = secondary
			}
		}
	}

	logging.Info("Speech ready",
		zap.String("backend", speaker.Name()),
		zap.String("voice", ac.Voice))
	return audio.NewEngine(speaker, ac)
}

// loadPack returns the built-in levels merged with the pack file.
func loadPack(packFile string) (lessons.Pack, error) {
	pack := lessons.DefaultPack()
	if packFile == "" {
		return pack, nil
	}
	custom, err := lessons.LoadPack(packFile)
	if err != nil {
		return lessons.Pack{}, err
	}
	return pack.Merge(custom), nil
}

// newTracker opens the statistics database. A database that cannot be
// opened is logged and the session is tracked in memory only.
func newTracker(cfg *config.Config) (*stats.Tracker, func(), error) {
	if !cfg.Stats.Enabled {
		return nil, func() {}, nil
	}

	var store stats.Store
	closeFn := func() {}
	if path, err := cfg.StatsPath(); err != nil {
		logging.Warn("No statistics directory", zap.Error(err))
	} else if db, err := stats.OpenSQLite(path); err != nil {
		logging.Warn("Statistics will not be saved", zap.String("path", path), zap.Error(err))
	} else {
		store = db
		closeFn = func() {
			if err := db.Close(); err != nil {
				logging.Warn("Failed to close statistics", zap.Error(err))
			}
		}
	}

	tracker, err := stats.NewTracker(store)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to start statistics: %w", err)
	}
	return tracker, closeFn, nil
}

func levelOrDefault(level, def string) string {
	if level != "" {
		return level
	}
	return def
}

func remoteStatus(srv *remote.Server) func() string {
	if srv == nil {
		return nil
	}
	return func() string {
		addr := ""
		if a := srv.Addr(); a != nil {
			addr = a.String()
		}
		return fmt.Sprintf("Remote %s (%d)", addr, srv.Clients())
	}
}
