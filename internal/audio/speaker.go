package audio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Utterance is one piece of speech with the voice settings to use for it.
type Utterance struct {
	Text   string
	Voice  string
	Rate   float64 // 1.0 is the backend's normal speed
	Pitch  float64 // 1.0 is the backend's normal pitch
	Volume float64 // 0.0 to 1.0
}

// Speaker turns text into sound. Speak blocks until the utterance has
// finished playing or ctx is cancelled, in which case playback stops and
// ctx.Err() is returned.
type Speaker interface {
	Name() string
	Speak(ctx context.Context, u Utterance) error
}

// ErrNoBackend is returned by Detect when no speech program is installed.
var ErrNoBackend = errors.New("no speech backend found")

// NopSpeaker discards all speech.
type NopSpeaker struct{}

// Name returns "none".
func (NopSpeaker) Name() string { return "none" }

// Speak returns immediately.
func (NopSpeaker) Speak(ctx context.Context, _ Utterance) error { return ctx.Err() }

// CommandSpeaker speaks by running an external program once per utterance.
type CommandSpeaker struct {
	name string
	path string
	args func(u Utterance) []string
	// voiceArgs lists installed voices, nil if the program cannot.
	voiceArgs   []string
	parseVoices func([]byte) []string
}

// Name returns the program name, e.g. "espeak-ng".
func (c *CommandSpeaker) Name() string { return c.name }

// Speak runs the program and waits for it. Cancelling ctx kills it.
func (c *CommandSpeaker) Speak(ctx context.Context, u Utterance) error {
	cmd := exec.CommandContext(ctx, c.path, c.args(u)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", c.name, err, msg)
		}
		return fmt.Errorf("%s failed: %w", c.name, err)
	}
	return nil
}

// Voices lists the voice names the program knows about.
func (c *CommandSpeaker) Voices(ctx context.Context) ([]string, error) {
	if c.voiceArgs == nil {
		return nil, nil
	}
	out, err := exec.CommandContext(ctx, c.path, c.voiceArgs...).Output()
	if err != nil {
		return nil, fmt.Errorf("listing %s voices: %w", c.name, err)
	}
	return c.parseVoices(out), nil
}

// backend describes one supported speech program.
type backend struct {
	bin         string
	args        func(u Utterance) []string
	voiceArgs   []string
	parseVoices func([]byte) []string
}

// backends in order of preference.
var backends = []backend{
	{bin: "espeak-ng", args: espeakArgs, voiceArgs: []string{"--voices=en"}, parseVoices: parseEspeakVoices},
	{bin: "espeak", args: espeakArgs, voiceArgs: []string{"--voices=en"}, parseVoices: parseEspeakVoices},
	{bin: "spd-say", args: spdSayArgs},
	{bin: "say", args: sayArgs, voiceArgs: []string{"-v", "?"}, parseVoices: parseSayVoices},
}

// Detect returns a speaker for the first installed backend. The name may
// force a backend ("espeak-ng", "spd-say", "say", "none"); "" or "auto"
// picks automatically. lookPath is normally exec.LookPath.
func Detect(name string, lookPath func(string) (string, error)) (Speaker, error) {
	if name == "none" {
		return NopSpeaker{}, nil
	}
	for _, b := range backends {
		if name != "" && name != "auto" && name != b.bin {
			continue
		}
		path, err := lookPath(b.bin)
		if err != nil {
			continue
		}
		return &CommandSpeaker{
			name:        b.bin,
			path:        path,
			args:        b.args,
			voiceArgs:   b.voiceArgs,
			parseVoices: b.parseVoices,
		}, nil
	}
	if name != "" && name != "auto" {
		return NopSpeaker{}, fmt.Errorf("%w: %s is not installed", ErrNoBackend, name)
	}
	return NopSpeaker{}, ErrNoBackend
}

// espeak: words per minute around 175, pitch 0-99 (default 50),
// amplitude 0-200 (default 100).
func espeakArgs(u Utterance) []string {
	args := []string{
		"-s", strconv.Itoa(int(175 * u.Rate)),
		"-p", strconv.Itoa(clampInt(int(50*u.Pitch), 0, 99)),
		"-a", strconv.Itoa(clampInt(int(100*u.Volume), 0, 200)),
	}
	if u.Voice != "" {
		args = append(args, "-v", u.Voice)
	}
	return append(args, "--", u.Text)
}

// spd-say: rate, pitch and volume are -100..100 around 0.
func spdSayArgs(u Utterance) []string {
	args := []string{
		"-w",
		"-r", strconv.Itoa(clampInt(int((u.Rate-1)*100), -100, 100)),
		"-p", strconv.Itoa(clampInt(int((u.Pitch-1)*100), -100, 100)),
		"-i", strconv.Itoa(clampInt(int(u.Volume*200-100), -100, 100)),
	}
	if u.Voice != "" {
		args = append(args, "-y", u.Voice)
	}
	return append(args, "--", u.Text)
}

// say (macOS): words per minute, no pitch or volume flags.
func sayArgs(u Utterance) []string {
	args := []string{"-r", strconv.Itoa(int(175 * u.Rate))}
	if u.Voice != "" {
		args = append(args, "-v", u.Voice)
	}
	return append(args, "--", u.Text)
}

// parseEspeakVoices reads the table printed by `espeak --voices`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US
func parseEspeakVoices(out []byte) []string {
	var voices []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, fields[1])
	}
	return voices
}

// parseSayVoices reads `say -v ?` output, one voice per line:
//
//	Samantha            en_US    # Hello! My name is Samantha.
func parseSayVoices(out []byte) []string {
	var voices []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Names may contain spaces; the locale is always last.
		voices = append(voices, strings.Join(fields[:len(fields)-1], " "))
	}
	return voices
}

// preferredVoices are friendly voices tried first, in order.
var preferredVoices = []string{
	"Karen",
	"Samantha",
	"Vicki",
	"Susan",
	"Microsoft Zira",
	"Google UK English Female",
	"Google US English Female",
}

// PickVoices chooses a primary and a secondary voice from the installed
// ones. Preferred voices win, then anything marked female, then the first
// voice matching the language. The secondary voice is the next distinct
// match, or the primary if there is only one.
func PickVoices(available []string, language string) (primary, secondary string) {
	var ranked []string
	seen := make(map[string]bool)
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			ranked = append(ranked, v)
		}
	}

	for _, want := range preferredVoices {
		for _, v := range available {
			if strings.Contains(v, want) {
				add(v)
			}
		}
	}
	for _, v := range available {
		if strings.Contains(strings.ToLower(v), "female") {
			add(v)
		}
	}
	lang := strings.ToLower(strings.ReplaceAll(language, "_", "-"))
	for _, v := range available {
		if lang != "" && strings.HasPrefix(strings.ToLower(strings.ReplaceAll(v, "_", "-")), lang) {
			add(v)
		}
	}

	switch len(ranked) {
	case 0:
		return "", ""
	case 1:
		return ranked[0], ranked[0]
	default:
		return ranked[0], ranked[1]
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
