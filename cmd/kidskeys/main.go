// Kidskeys is a typing tutor for young children.
//
// It draws an on-screen keyboard in the terminal that lights up, names and
// sounds out every key, and runs small word-typing lessons. A remote key
// pad can press keys over the network.
//
// Usage:
//
//	kidskeys [command] [flags]
//
// Running without arguments launches the tutor.
// See 'kidskeys --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/kidskeys/internal/config"
	"github.com/muurk/kidskeys/internal/logging"
	"github.com/muurk/kidskeys/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kidskeys",
	Short: "Typing tutor for young children",
	Long: `An on-screen keyboard that teaches children their letters.

Every key press lights up the key, shows a picture word and says the letter
and its sound out loud. Tutor mode lets the real keyboard drive the screen;
lessons ask for short words and celebrate each one typed.

If no command is specified, the tutor starts.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE:         runTutor,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Preferences file (default: config.yaml in the user config directory)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kidskeys %s\n", version.Full())
	},
}

// loadConfig reads the preferences named by --config or the default file.
func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load preferences: %w", err)
	}
	return cfg, path, nil
}
