package main

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/muurk/kidskeys/internal/config"
	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/logging"
)

func TestKeysToSend(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		text    string
		want    []keyboard.KeyID
		wantErr bool
	}{
		{name: "key names", names: []string{"c", "A", "space", "Enter"}, want: []keyboard.KeyID{"c", "a", keyboard.KeySpace, keyboard.KeyEnter}},
		{name: "plain text", text: "hi there", want: []keyboard.KeyID{"h", "i", keyboard.KeySpace, "t", "h", "e", "r", "e"}},
		{name: "capitals and symbols", text: "Hi!", want: []keyboard.KeyID{
			keyboard.KeyShiftLeft, "h", keyboard.KeyShiftLeft, "i",
			keyboard.KeyShiftLeft, "1", keyboard.KeyShiftLeft,
		}},
		{name: "names then text", names: []string{"Backspace"}, text: "a", want: []keyboard.KeyID{keyboard.KeyBackspace, "a"}},
		{name: "unknown name", names: []string{"F13"}, wantErr: true},
		{name: "untypeable rune", text: "é", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := keysToSend(tt.names, tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("keysToSend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("keysToSend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevelOrDefault(t *testing.T) {
	if got := levelOrDefault("", "beginner"); got != "beginner" {
		t.Errorf("levelOrDefault() = %q", got)
	}
	if got := levelOrDefault("advanced", "beginner"); got != "advanced" {
		t.Errorf("levelOrDefault() = %q", got)
	}
}

func TestSetupLoggingWritesToFile(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG variables apply to Linux only")
	}
	t.Cleanup(func() { logging.SetLogger(zap.NewNop()) })

	tests := []struct {
		name     string
		envLevel string
		envFile  string
		cfgLevel string
		wantFile string // relative to the temp dir, "" for no logging
	}{
		{name: "level from environment", envLevel: "info", wantFile: "state/kidskeys/kidskeys.log"},
		{name: "level from preferences", cfgLevel: "debug", wantFile: "state/kidskeys/kidskeys.log"},
		{name: "stderr is replaced", envLevel: "info", envFile: "stderr", wantFile: "state/kidskeys/kidskeys.log"},
		{name: "file from environment", envLevel: "info", envFile: "custom.log", wantFile: "custom.log"},
		{name: "no level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
			t.Setenv(logging.LogLevelEnvVar, tt.envLevel)
			envFile := tt.envFile
			if envFile != "" && envFile != "stderr" {
				envFile = filepath.Join(dir, envFile)
			}
			t.Setenv(logging.LogFileEnvVar, envFile)

			cfg := config.Default()
			cfg.Logging.Level = tt.cfgLevel
			if err := setupLogging(cfg); err != nil {
				t.Fatalf("setupLogging() error = %v", err)
			}
			logging.Info("Tutor started")
			logging.Sync()

			if tt.wantFile == "" {
				if _, err := os.Stat(filepath.Join(dir, "state")); !os.IsNotExist(err) {
					t.Errorf("no log directory expected, stat error = %v", err)
				}
				return
			}
			data, err := os.ReadFile(filepath.Join(dir, tt.wantFile))
			if err != nil {
				t.Fatalf("log file not written: %v", err)
			}
			if !strings.Contains(string(data), "Tutor started") {
				t.Errorf("log file = %q, want the logged message", data)
			}
		})
	}
}
