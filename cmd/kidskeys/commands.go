package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/kidskeys/internal/audio"
	"github.com/muurk/kidskeys/internal/config"
	"github.com/muurk/kidskeys/internal/input"
	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/remote"
	"github.com/muurk/kidskeys/internal/stats"
	"github.com/muurk/kidskeys/internal/ui"
)

// Subcommand flags
var (
	resetStats  bool
	assumeYes   bool
	packFile    string
	scanTimeout time.Duration
	sendAddr    string
	sendText    string
	sendWatch   bool
)

func init() {
	statsCmd.Flags().BoolVar(&resetStats, "reset", false, "Delete all history and achievements")
	statsCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before resetting")

	lessonsCmd.Flags().StringVar(&packFile, "pack", "", "Word pack file to list with the built-in levels")

	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", remote.DefaultScanTimeout, "How long to listen")

	sendCmd.Flags().StringVar(&sendAddr, "addr", "", "Keyboard address (host:port or ws:// URL)")
	sendCmd.Flags().StringVar(&sendText, "text", "", "Type this text, using shift for capitals and symbols")
	sendCmd.Flags().BoolVar(&sendWatch, "watch", false, "Keep printing the keyboard's key events")
	_ = sendCmd.MarkFlagRequired("addr")

	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd)

	rootCmd.AddCommand(statsCmd, lessonsCmd, discoverCmd, sendCmd, configCmd, devicesCmd, voicesCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	Long: `Show what has been practised today, this week and overall, and the
achievements earned so far.`,
	Example: `  kidskeys stats

  # Start over
  kidskeys stats --reset`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := cfg.StatsPath()
	if err != nil {
		return err
	}
	store, err := stats.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer store.Close()

	tracker, err := stats.NewTracker(store)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	if resetStats {
		if !assumeYes && !p.Confirm(cmd.InOrStdin(), "RESET STATISTICS",
			[]string{"All daily history is deleted", "All achievements are forgotten"}, "reset") {
			return nil
		}
		if err := tracker.Reset(); err != nil {
			return fmt.Errorf("failed to reset statistics: %w", err)
		}
		p.PrintSuccess("Statistics reset", ui.F("Database", path))
		return nil
	}

	today, err := tracker.Today()
	if err != nil {
		return err
	}
	week, err := tracker.Week()
	if err != nil {
		return err
	}
	totals, err := tracker.Totals()
	if err != nil {
		return err
	}
	earned, err := tracker.Achievements()
	if err != nil {
		return err
	}

	p.PrintHeader("Practice statistics", "kidskeys stats", ui.F("Database", path))
	p.Newline()
	p.PrintSection("Today",
		ui.F("Sessions", today.Sessions),
		ui.F("Keys", today.KeysPressed),
		ui.F("Letters", today.LettersTyped),
		ui.F("Numbers", today.NumbersTyped),
		ui.F("Words", today.WordsCompleted),
		ui.F("Time", today.TimeSpent.Round(time.Second)),
		ui.F("Accuracy", fmt.Sprintf("%d%%", today.Accuracy)),
	)
	p.Newline()
	p.PrintSection("Last 7 days",
		ui.F("Sessions", week.Sessions),
		ui.F("Keys", week.KeysPressed),
		ui.F("Words", week.WordsCompleted),
		ui.F("Time", week.TimeSpent.Round(time.Second)),
	)
	p.Newline()
	p.PrintSection("All time",
		ui.F("Sessions", totals.Sessions),
		ui.F("Keys", totals.KeysPressed),
		ui.F("Time", totals.TimeSpent.Round(time.Second)),
		ui.F("Accuracy", fmt.Sprintf("%d%%", totals.AverageAccuracy)),
	)
	p.Newline()

	if len(earned) == 0 {
		p.Println(ui.MutedStyle.Render("No achievements yet. Keep typing!"))
		return nil
	}
	items := make([]string, len(earned))
	for i, a := range earned {
		items[i] = fmt.Sprintf("%s: %s (%s)", a.Name, a.Description, a.EarnedAt.Format(stats.DateLayout))
	}
	p.PrintList("Achievements", items)
	return nil
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lesson levels and their words",
	Example: `  kidskeys lessons

  # Check a custom word pack
  kidskeys lessons --pack animals.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := packFile
		if file == "" {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			file = cfg.Lessons.PackFile
		}
		pack, err := loadPack(file)
		if err != nil {
			return err
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		for _, lv := range pack.Levels {
			p.PrintSection(lv.Name,
				ui.F("Words", strings.Join(lv.Words, ", ")),
				ui.F("Count", len(lv.Words)))
		}
		return nil
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find keyboards on the local network",
	Long: `Find running kidskeys tutors that accept remote key presses.

Tutors started with --remote announce themselves over mDNS.`,
	Example: `  kidskeys discover --timeout 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout())
		p.Println(ui.MutedStyle.Render(fmt.Sprintf("Scanning for keyboards (timeout: %s)...", scanTimeout)))

		scanner := remote.NewScanner()
		scanner.Timeout = scanTimeout
		found, err := scanner.Scan(cmd.Context())
		if err != nil {
			p.PrintError("Scan", err, "Check that this computer is on the same network")
			return err
		}
		if len(found) == 0 {
			p.PrintError("Scan", errors.New("no keyboards found"),
				"Start the tutor with --remote on the other computer",
				"Try a longer --timeout")
			return nil
		}

		p.Newline()
		for i, kb := range found {
			p.PrintSection(fmt.Sprintf("%d. %s", i+1, kb.Name),
				ui.F("Address", kb.Addr()),
				ui.F("Host", kb.Hostname),
				ui.F("URL", kb.URL()),
			)
		}
		p.Newline()
		p.Println(ui.MutedStyle.Render("Use 'kidskeys send --addr <address> KEY...' to press keys"))
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send [KEY...]",
	Short: "Press keys on a remote keyboard",
	Long: `Press keys on a running tutor started with --remote.

Keys are names such as a, 7, Space, Enter, Backspace, ShiftLeft or
CapsLock. --text types characters, pressing shift around capitals and
symbols.`,
	Example: `  kidskeys send --addr 192.168.1.20:7321 c a t Enter
  kidskeys send --addr kids-laptop.local:7321 --text "Hi Mum!"`,
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	keys, err := keysToSend(args, sendText)
	if err != nil {
		return err
	}
	if len(keys) == 0 && !sendWatch {
		return errors.New("nothing to send: give key names or --text")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client, err := remote.Dial(ctx, sendAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	for _, k := range keys {
		if err := client.Press(k); err != nil {
			return err
		}
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	if !sendWatch {
		p.PrintSuccess("Keys sent", ui.F("Keyboard", sendAddr), ui.F("Presses", len(keys)))
		return nil
	}

	// ReadEvent only honours deadlines; closing unblocks it on interrupt.
	context.AfterFunc(ctx, func() { _ = client.Close() })
	for {
		ev, err := client.ReadEvent(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, remote.ErrInvalidMessage) {
			p.Println(ui.ErrorMessageStyle.Render(err.Error()))
			continue
		}
		if err != nil {
			return err
		}
		p.Println(fmt.Sprintf("%-10s %-8s %q", ev.Key, ev.Source, ev.Text))
	}
}

// keysToSend parses key names and then appends the presses typing text.
// Capitals and shifted symbols are wrapped in a left shift press and
// release.
func keysToSend(names []string, text string) ([]keyboard.KeyID, error) {
	var keys []keyboard.KeyID
	for _, n := range names {
		k, ok := keyboard.ParseKey(n)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", n)
		}
		keys = append(keys, k)
	}

	for _, r := range text {
		k, shifted, ok := keyboard.BaseKeyFor(r)
		if !ok {
			return nil, fmt.Errorf("cannot type %q", r)
		}
		if shifted {
			keys = append(keys, keyboard.KeyShiftLeft, k, keyboard.KeyShiftLeft)
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the preferences file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a preferences file with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := preferencesPath()
		if err != nil {
			return err
		}
		created, err := config.Init(path)
		if err != nil {
			return err
		}
		p := ui.NewPrinter(cmd.OutOrStdout())
		if !created {
			p.Println(ui.MutedStyle.Render("Preferences already exist at " + path))
			return nil
		}
		p.PrintSuccess("Preferences created", ui.F("Path", path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where the preferences file lives",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := preferencesPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func preferencesPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List keyboards usable with --evdev (Linux)",
	RunE: func(cmd *cobra.Command, args []string) error {
		devs, err := input.Devices()
		if err != nil {
			return err
		}
		p := ui.NewPrinter(cmd.OutOrStdout())
		if len(devs) == 0 {
			p.PrintError("Devices", errors.New("no keyboards found"),
				"Reading /dev/input needs root or membership of the input group")
			return nil
		}
		fields := make([]ui.Field, len(devs))
		for i, d := range devs {
			fields[i] = ui.F(d.Path, d.Name)
		}
		p.PrintSection("Keyboards", fields...)
		return nil
	},
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the installed speech voices",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		speaker, err := audio.Detect(cfg.Audio.Backend, exec.LookPath)
		if err != nil {
			return err
		}
		cs, ok := speaker.(*audio.CommandSpeaker)
		if !ok {
			return fmt.Errorf("%s cannot list voices", speaker.Name())
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		voices, err := cs.Voices(ctx)
		if err != nil {
			return err
		}

		primary, secondary := audio.PickVoices(voices, cfg.Audio.Language)
		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Speech voices", "kidskeys voices",
			ui.F("Backend", cs.Name()),
			ui.F("Primary", primary),
			ui.F("Secondary", secondary))
		p.PrintList("Installed", voices)
		return nil
	},
}
