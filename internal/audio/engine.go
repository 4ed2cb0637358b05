package audio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/muurk/kidskeys/internal/logging"
	"github.com/muurk/kidskeys/internal/tutor"
)

// Rate limits accepted by SetRate.
const (
	MinRate = 0.5
	MaxRate = 2.0
)

// Config holds the speech settings of one engine.
type Config struct {
	Enabled        bool
	Rate           float64
	Pitch          float64
	Volume         float64
	Voice          string
	SecondaryVoice string
	Language       string

	// DebounceInterval is the minimum time between the start of two
	// utterances. A request arriving sooner waits out the remainder.
	DebounceInterval time.Duration
	// DualVoice makes virtual letter presses speak the letter and then its
	// sound in the secondary voice.
	DualVoice bool
	// PauseBetween separates the two parts of a dual utterance.
	PauseBetween time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		Rate:             1.0,
		Pitch:            1.1,
		Volume:           0.8,
		Language:         "en-US",
		DebounceInterval: 50 * time.Millisecond,
		DualVoice:        true,
		PauseBetween:     300 * time.Millisecond,
	}
}

func (c Config) utterance(text string) Utterance {
	return Utterance{Text: text, Voice: c.Voice, Rate: c.Rate, Pitch: c.Pitch, Volume: c.Volume}
}

// secondaryUtterance is slower and lower than the primary voice.
func (c Config) secondaryUtterance(text string) Utterance {
	voice := c.SecondaryVoice
	if voice == "" {
		voice = c.Voice
	}
	rate := c.Rate - 0.8
	if rate < 0.6 {
		rate = 0.6
	}
	return Utterance{Text: text, Voice: voice, Rate: rate, Pitch: c.Pitch - 0.2, Volume: c.Volume}
}

func clampRate(r float64) float64 {
	if r < MinRate {
		return MinRate
	}
	if r > MaxRate {
		return MaxRate
	}
	return r
}

// Engine speaks key presses. Each keyboard gets its own engine.
//
// Only the newest request matters: asking for speech cancels whatever is
// still waiting or playing. Engine is safe for concurrent use.
type Engine struct {
	speaker Speaker
	now     func() time.Time

	mu        sync.Mutex
	cfg       Config
	cancel    context.CancelFunc
	running   chan struct{}
	lastStart time.Time
	closed    bool
}

// NewEngine creates an engine speaking through s.
func NewEngine(s Speaker, cfg Config) *Engine {
	if s == nil {
		s = NopSpeaker{}
	}
	cfg.Rate = clampRate(cfg.Rate)
	return &Engine{
		speaker: s,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Config returns the current settings.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Enabled reports whether speech is on.
func (e *Engine) Enabled() bool {
	return e.Config().Enabled
}

// Toggle flips speech on or off and returns the new setting.
func (e *Engine) Toggle() bool {
	e.mu.Lock()
	e.cfg.Enabled = !e.cfg.Enabled
	on := e.cfg.Enabled
	e.mu.Unlock()

	if !on {
		e.Cancel()
	}
	return on
}

// Enable turns speech on.
func (e *Engine) Enable() {
	e.mu.Lock()
	e.cfg.Enabled = true
	e.mu.Unlock()
}

// Disable turns speech off and stops anything in progress.
func (e *Engine) Disable() {
	e.mu.Lock()
	e.cfg.Enabled = false
	e.mu.Unlock()
	e.Cancel()
}

// SetRate changes the speaking rate, clamped to [MinRate, MaxRate].
func (e *Engine) SetRate(rate float64) {
	e.mu.Lock()
	e.cfg.Rate = clampRate(rate)
	e.mu.Unlock()
}

// KeyPressed announces a key press. Physical presses get the short form,
// virtual presses the explanation.
func (e *Engine) KeyPressed(ev tutor.Event) {
	cfg := e.Config()
	if !cfg.Enabled {
		return
	}

	if ev.Source == tutor.Physical {
		if text, ok := physicalPhrase(ev.Key, ev.State); ok {
			e.speak([]Utterance{cfg.utterance(text)})
		}
		return
	}
	if utts := virtualPhrases(ev.Key, ev.State, cfg); len(utts) > 0 {
		e.speak(utts)
	}
}

// Say speaks arbitrary text such as lesson prompts.
func (e *Engine) Say(text string) {
	cfg := e.Config()
	if !cfg.Enabled || text == "" {
		return
	}
	e.speak([]Utterance{cfg.utterance(text)})
}

// Cancel stops pending and playing speech.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Close stops all speech and waits for the player to exit. The engine
// ignores requests afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	running := e.running
	e.mu.Unlock()

	if running != nil {
		<-running
	}
}

// speak replaces any earlier request with utts.
func (e *Engine) speak(utts []Utterance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	delay := e.cfg.DebounceInterval - e.now().Sub(e.lastStart)
	if delay < 0 {
		delay = 0
	}
	pause := e.cfg.PauseBetween

	prev := e.running
	done := make(chan struct{})
	e.running = done

	go func() {
		defer close(done)
		defer cancel()
		// The previous player has been cancelled; let it stop before
		// starting so two utterances never overlap.
		if prev != nil {
			<-prev
		}
		e.play(ctx, delay, pause, utts)
	}()
}

func (e *Engine) play(ctx context.Context, delay, pause time.Duration, utts []Utterance) {
	if !sleep(ctx, delay) {
		return
	}

	e.mu.Lock()
	e.lastStart = e.now()
	e.mu.Unlock()

	for i, u := range utts {
		if i > 0 && !sleep(ctx, pause) {
			return
		}
		start := time.Now()
		err := e.speaker.Speak(ctx, u)
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.LogSpeech(e.speaker.Name(), u.Text, u.Rate, time.Since(start), err)
		if err != nil {
			return
		}
	}
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration passed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
