package audio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/tutor"
)

// fakeSpeaker records utterances. Texts listed in block play until
// cancelled.
type fakeSpeaker struct {
	mu        sync.Mutex
	spoken    []Utterance
	cancelled []string
	started   chan string
	block     map[string]bool
}

func newFakeSpeaker(block ...string) *fakeSpeaker {
	f := &fakeSpeaker{started: make(chan string, 16), block: make(map[string]bool)}
	for _, b := range block {
		f.block[b] = true
	}
	return f
}

func (f *fakeSpeaker) Name() string { return "fake" }

func (f *fakeSpeaker) Speak(ctx context.Context, u Utterance) error {
	f.started <- u.Text
	if f.block[u.Text] {
		<-ctx.Done()
		f.mu.Lock()
		f.cancelled = append(f.cancelled, u.Text)
		f.mu.Unlock()
		return ctx.Err()
	}
	f.mu.Lock()
	f.spoken = append(f.spoken, u)
	f.mu.Unlock()
	return nil
}

func (f *fakeSpeaker) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, u := range f.spoken {
		out = append(out, u.Text)
	}
	return out
}

func waitStarted(t *testing.T, f *fakeSpeaker, want string) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PauseBetween = time.Millisecond
	return cfg
}

func physical(key keyboard.KeyID) tutor.Event {
	return tutor.Event{Key: key, Source: tutor.Physical}
}

func virtual(key keyboard.KeyID) tutor.Event {
	return tutor.Event{Key: key, Source: tutor.Virtual}
}

func TestEngine_PhysicalPressIsTerse(t *testing.T) {
	f := newFakeSpeaker()
	e := NewEngine(f, testConfig())

	e.KeyPressed(physical("b"))
	waitStarted(t, f, "b")
	e.Close()

	assert.Equal(t, []string{"b"}, f.texts())
}

func TestEngine_VirtualLetterIsDual(t *testing.T) {
	f := newFakeSpeaker()
	cfg := testConfig()
	cfg.Voice, cfg.SecondaryVoice = "Karen", "Daniel"
	e := NewEngine(f, cfg)

	e.KeyPressed(virtual("b"))
	waitStarted(t, f, "b")
	waitStarted(t, f, "buh")
	e.Close()

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.spoken, 2)
	assert.Equal(t, "Karen", f.spoken[0].Voice)
	assert.Equal(t, "Daniel", f.spoken[1].Voice)
	assert.Less(t, f.spoken[1].Rate, f.spoken[0].Rate+0.0001)
	assert.InDelta(t, cfg.Pitch-0.2, f.spoken[1].Pitch, 1e-9)
}

func TestEngine_SymbolsAreSilentWhenPhysical(t *testing.T) {
	f := newFakeSpeaker()
	e := NewEngine(f, testConfig())

	e.KeyPressed(physical(";"))
	e.Close()

	assert.Empty(t, f.texts())
}

func TestEngine_DisabledIsSilent(t *testing.T) {
	f := newFakeSpeaker()
	cfg := testConfig()
	cfg.Enabled = false
	e := NewEngine(f, cfg)

	e.KeyPressed(virtual("a"))
	e.Say("hello")
	e.Close()

	assert.Empty(t, f.texts())
}

func TestEngine_NewerRequestReplacesPending(t *testing.T) {
	f := newFakeSpeaker()
	cfg := testConfig()
	cfg.DebounceInterval = 200 * time.Millisecond
	e := NewEngine(f, cfg)

	e.KeyPressed(physical("a"))
	waitStarted(t, f, "a")

	// Both arrive inside the debounce window; only the last survives.
	e.KeyPressed(physical("b"))
	e.KeyPressed(physical("c"))
	waitStarted(t, f, "c")
	e.Close()

	assert.Equal(t, []string{"a", "c"}, f.texts())
}

func TestEngine_NewerRequestCancelsPlaying(t *testing.T) {
	f := newFakeSpeaker("a long sentence")
	e := NewEngine(f, testConfig())

	e.Say("a long sentence")
	waitStarted(t, f, "a long sentence")

	e.KeyPressed(physical("x"))
	waitStarted(t, f, "x")
	e.Close()

	assert.Equal(t, []string{"x"}, f.texts())
	assert.Equal(t, []string{"a long sentence"}, f.cancelled)
}

func TestEngine_DebounceSpacing(t *testing.T) {
	f := newFakeSpeaker()
	cfg := testConfig()
	cfg.DebounceInterval = 100 * time.Millisecond
	e := NewEngine(f, cfg)
	defer e.Close()

	start := time.Now()
	e.KeyPressed(physical("a"))
	waitStarted(t, f, "a")
	e.KeyPressed(physical("b"))
	waitStarted(t, f, "b")

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestEngine_ToggleCancels(t *testing.T) {
	f := newFakeSpeaker("hold")
	e := NewEngine(f, testConfig())

	e.Say("hold")
	waitStarted(t, f, "hold")

	assert.False(t, e.Toggle())
	e.Close()
	assert.Equal(t, []string{"hold"}, f.cancelled)

	assert.True(t, e.Toggle())
	assert.True(t, e.Enabled())
}

func TestEngine_SetRateClamps(t *testing.T) {
	e := NewEngine(nil, DefaultConfig())

	e.SetRate(9)
	assert.Equal(t, MaxRate, e.Config().Rate)
	e.SetRate(0.1)
	assert.Equal(t, MinRate, e.Config().Rate)
	e.SetRate(1.3)
	assert.Equal(t, 1.3, e.Config().Rate)

	e.Disable()
	assert.False(t, e.Enabled())
	e.Enable()
	assert.True(t, e.Enabled())
}

func TestEngine_IgnoresRequestsAfterClose(t *testing.T) {
	f := newFakeSpeaker()
	e := NewEngine(f, testConfig())
	e.Close()

	e.Say("late")
	assert.Empty(t, f.texts())
}
