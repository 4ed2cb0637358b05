package lessons

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muurk/kidskeys/internal/keyboard"
)

func newTestLesson(t *testing.T) *Lesson {
	t.Helper()
	return New(DefaultPack(), WithRand(rand.New(rand.NewSource(1))))
}

func typeWord(l *Lesson, word string) Outcome {
	var last Outcome
	for _, r := range word {
		_, last = l.HandleKey(keyboard.KeyID(string(r)))
	}
	return last
}

func TestInactiveLessonIgnoresKeys(t *testing.T) {
	l := newTestLesson(t)
	if handled, _ := l.HandleKey("a"); handled {
		t.Error("inactive lesson should not handle keys")
	}
	if s := l.End(); s != (Summary{}) {
		t.Errorf("End() on inactive lesson = %+v", s)
	}
}

func TestStartUnknownLevel(t *testing.T) {
	l := newTestLesson(t)
	if _, err := l.Start("expert"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("Start(expert) error = %v, want ErrUnknownLevel", err)
	}
	if l.Active() {
		t.Error("failed Start should leave lesson inactive")
	}
}

func TestWordAutoCompletes(t *testing.T) {
	l := newTestLesson(t)
	prompt, err := l.Start(Beginner)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !strings.HasSuffix(prompt, "Type the word: cat") {
		t.Errorf("prompt = %q", prompt)
	}

	o := typeWord(l, "cat")
	if o.Kind != WordCompleted {
		t.Fatalf("typing the word gave %v, want WordCompleted", o.Kind)
	}
	if o.Say == "" || !strings.Contains(o.Message, o.Say) {
		t.Errorf("outcome message %q / say %q", o.Message, o.Say)
	}
	if !l.Waiting() {
		t.Error("lesson should wait for Next after a completed word")
	}

	if handled, o := l.HandleKey("x"); !handled || o.Kind != Ignored {
		t.Errorf("key while waiting = %v, %v", handled, o.Kind)
	}

	if got := l.Next(); got != "Type the word: dog" {
		t.Errorf("Next() = %q", got)
	}
	if st := l.Stats(); st.CorrectWords != 1 || st.Attempts != 1 || st.Accuracy != 100 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestEnterChecksWord(t *testing.T) {
	l := newTestLesson(t)
	l.Start(Beginner)

	typeWord(l, "ca")
	handled, o := l.HandleKey(keyboard.KeyEnter)
	if !handled || o.Kind != IncorrectAttempt {
		t.Fatalf("Enter on partial word = %v, %v", handled, o.Kind)
	}
	if o.Say != "Oops! Try again." {
		t.Errorf("Say = %q", o.Say)
	}
	if l.Stats().Typed != "" {
		t.Error("typed word should reset after a wrong attempt")
	}

	typeWord(l, "cat")
	if st := l.Stats(); st.Accuracy != 50 {
		t.Errorf("accuracy after 1 of 2 = %d, want 50", st.Accuracy)
	}
}

func TestBackspaceAndLetterStates(t *testing.T) {
	l := newTestLesson(t)
	l.Start(Beginner)

	if _, o := l.HandleKey(keyboard.KeyBackspace); o.Kind != Ignored {
		t.Error("backspace on empty word should do nothing")
	}

	typeWord(l, "cx")
	want := []Letter{{'c', Correct}, {'x', Incorrect}, {'t', Current}}
	got := l.Letters()
	if len(got) != len(want) {
		t.Fatalf("Letters() len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Letters()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, o := l.HandleKey(keyboard.KeyBackspace); o.Kind != LetterErased {
		t.Errorf("backspace = %v, want LetterErased", o.Kind)
	}
	if l.Letters()[1] != (Letter{'a', Current}) || l.Letters()[2].State != Pending {
		t.Errorf("after backspace: %+v", l.Letters())
	}

	typeWord(l, "xyz")
	if got := l.Stats().Typed; got != "cxy" {
		t.Errorf("typing stops at word length, typed = %q", got)
	}
}

func TestModifiersAndSpaceAreNotLetters(t *testing.T) {
	l := newTestLesson(t)
	l.Start(Beginner)

	if handled, _ := l.HandleKey(keyboard.KeyShiftLeft); handled {
		t.Error("modifier keys should pass through")
	}
	if handled, o := l.HandleKey(keyboard.KeySpace); !handled || o.Kind != Ignored {
		t.Error("space should be swallowed without typing")
	}
	if l.Stats().Typed != "" {
		t.Error("nothing should be typed")
	}
}

func TestMilestoneEveryFiveWords(t *testing.T) {
	l := newTestLesson(t)
	l.Start(Beginner)
	words := DefaultPack().Levels[0].Words

	for i := 0; i < 10; i++ {
		o := typeWord(l, words[i])
		wantMilestone := (i+1)%MilestoneEvery == 0
		if o.Milestone != wantMilestone {
			t.Errorf("word %d milestone = %v, want %v", i+1, o.Milestone, wantMilestone)
		}
		if wantMilestone && l.MilestoneProgress() != 1 {
			t.Errorf("progress at milestone = %v", l.MilestoneProgress())
		}
		l.Next()
	}
	if got := l.MilestoneProgress(); got != 0 {
		t.Errorf("progress after Next = %v, want 0", got)
	}
}

func TestWordsCycle(t *testing.T) {
	l := newTestLesson(t)
	l.Start(Advanced)
	n := len(DefaultPack().Levels[2].Words)
	for i := 0; i < n; i++ {
		l.Next()
	}
	if got := l.Stats().CurrentWord; got != "rainbow" {
		t.Errorf("after a full cycle word = %q, want rainbow", got)
	}
}

func TestEndSummary(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := New(DefaultPack(), WithClock(func() time.Time { return now }))

	l.Start(Beginner)
	typeWord(l, "cat")
	l.Next()
	l.HandleKey(keyboard.KeyEnter)
	now = now.Add(90 * time.Second)

	s := l.End()
	if s.CorrectWords != 1 || s.Attempts != 2 || s.Accuracy != 50 {
		t.Errorf("Summary = %+v", s)
	}
	if s.Duration != 90*time.Second {
		t.Errorf("Duration = %v", s.Duration)
	}
	if !strings.Contains(s.Message, "Accuracy: 50%") {
		t.Errorf("Message = %q", s.Message)
	}
	if l.Active() {
		t.Error("lesson should be inactive after End")
	}

	l.Start("")
	if s := l.End(); s.Accuracy != 0 {
		t.Errorf("summary accuracy with no attempts = %d, want 0", s.Accuracy)
	}
}

func TestSetLevel(t *testing.T) {
	l := newTestLesson(t)
	l.Start(Beginner)
	typeWord(l, "ca")

	if err := l.SetLevel(Intermediate); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if st := l.Stats(); st.CurrentWord != "apple" || st.Typed != "" {
		t.Errorf("after SetLevel: %+v", st)
	}
	if err := l.SetLevel("nope"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("SetLevel(nope) error = %v", err)
	}

	if got := l.NextLevel(); got != Advanced {
		t.Errorf("NextLevel() = %q", got)
	}
	if got := l.NextLevel(); got != Beginner {
		t.Errorf("NextLevel() should wrap, got %q", got)
	}
}

func TestParsePack(t *testing.T) {
	p, err := ParsePack(`
[[level]]
name = "Animals"
words = ["Cat", " cow "]

[[level]]
name = "numbers"
words = ["123"]
`)
	if err != nil {
		t.Fatalf("ParsePack() error = %v", err)
	}
	if got := p.Names(); len(got) != 2 || got[0] != "animals" {
		t.Errorf("Names() = %v", got)
	}
	if lv, _ := p.Level("ANIMALS"); lv.Words[0] != "cat" || lv.Words[1] != "cow" {
		t.Errorf("words = %v", lv.Words)
	}
}

func TestParsePackErrors(t *testing.T) {
	tests := map[string]string{
		"empty":         ``,
		"bad toml":      `[[level]`,
		"unknown key":   "[[level]]\nname = \"a\"\nwords = [\"x\"]\ncolour = \"red\"",
		"no name":       "[[level]]\nwords = [\"x\"]",
		"no words":      "[[level]]\nname = \"a\"",
		"untypeable":    "[[level]]\nname = \"a\"\nwords = [\"héllo\"]",
		"space in word": "[[level]]\nname = \"a\"\nwords = [\"ice cream\"]",
		"duplicate":     "[[level]]\nname = \"a\"\nwords = [\"x\"]\n[[level]]\nname = \"A\"\nwords = [\"y\"]",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePack(data); !errors.Is(err, ErrInvalidPack) {
				t.Errorf("ParsePack() error = %v, want ErrInvalidPack", err)
			}
		})
	}
}

func TestLoadPackAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.toml")
	data := "[[level]]\nname = \"beginner\"\nwords = [\"ant\"]\n[[level]]\nname = \"colours\"\nwords = [\"red\", \"blue\"]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	custom, err := LoadPack(path)
	if err != nil {
		t.Fatalf("LoadPack() error = %v", err)
	}
	merged := DefaultPack().Merge(custom)

	if got := merged.Names(); strings.Join(got, ",") != "beginner,intermediate,advanced,colours" {
		t.Errorf("merged levels = %v", got)
	}
	if lv, _ := merged.Level(Beginner); len(lv.Words) != 1 || lv.Words[0] != "ant" {
		t.Errorf("beginner should be replaced, got %v", lv.Words)
	}

	if _, err := LoadPack(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadPack() on missing file should fail")
	}
}
