package lessons

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/muurk/kidskeys/internal/keyboard"
)

// MilestoneEvery is how many correct words earn a milestone.
const MilestoneEvery = 5

// ErrUnknownLevel is returned when a level is not in the pack.
var ErrUnknownLevel = errors.New("unknown lesson level")

var encouragements = []string{
	"Great job!",
	"Awesome!",
	"Well done!",
	"Perfect!",
	"You're doing great!",
	"Fantastic!",
	"Keep it up!",
}

// OutcomeKind says what a key press did to the lesson.
type OutcomeKind int

const (
	Ignored OutcomeKind = iota
	LetterTyped
	LetterErased
	WordCompleted
	IncorrectAttempt
)

// Outcome is the result of one key press during a lesson.
type Outcome struct {
	Kind OutcomeKind
	// Message is shown to the child, Say is spoken. Both may be empty.
	Message string
	Say     string
	// Milestone is set on every MilestoneEvery-th completed word.
	Milestone bool
}

// LetterState is how one letter of the target word is drawn.
type LetterState int

const (
	Pending LetterState = iota
	Current
	Correct
	Incorrect
)

// Letter is one position of the target word.
type Letter struct {
	Char  rune // typed letter if any, otherwise the target letter
	State LetterState
}

// Stats is a snapshot of a lesson in progress.
type Stats struct {
	Active       bool
	Level        string
	CurrentWord  string
	Typed        string
	CorrectWords int
	Attempts     int
	// Accuracy is a percentage; 100 before the first attempt.
	Accuracy int
}

// Summary is reported when a lesson ends.
type Summary struct {
	Level        string
	CorrectWords int
	Attempts     int
	// Accuracy is a percentage; 0 when nothing was attempted.
	Accuracy int
	Duration time.Duration
	Message  string
	Say      string
}

// Lesson is a word-typing exercise for one keyboard. The zero value is not
// usable; create lessons with New.
//
// After a word is completed the lesson waits for Next before showing the
// following word, so the caller can celebrate first. Keys pressed while
// waiting are swallowed.
type Lesson struct {
	pack  Pack
	intn  func(n int) int
	now   func() time.Time
	level string

	active    bool
	waiting   bool
	word      string
	typed     string
	wordIndex int
	correct   int
	attempts  int
	started   time.Time
}

// Option configures a Lesson.
type Option func(*Lesson)

// WithRand sets the random source used to pick encouragements.
func WithRand(r *rand.Rand) Option {
	return func(l *Lesson) {
		l.intn = r.Intn
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Lesson) {
		l.now = now
	}
}

// New creates an inactive lesson over pack. The first level is selected.
func New(pack Pack, opts ...Option) *Lesson {
	if len(pack.Levels) == 0 {
		pack = DefaultPack()
	}
	l := &Lesson{
		pack:  pack,
		intn:  rand.Intn,
		now:   time.Now,
		level: pack.Levels[0].Name,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Levels lists the level names.
func (l *Lesson) Levels() []string {
	return l.pack.Names()
}

// Level returns the selected level.
func (l *Lesson) Level() string {
	return l.level
}

// Active reports whether a lesson is running.
func (l *Lesson) Active() bool {
	return l.active
}

// Waiting reports whether a completed word is waiting for Next.
func (l *Lesson) Waiting() bool {
	return l.waiting
}

// Start begins a lesson at level ("" keeps the selected level) and returns
// the spoken introduction.
func (l *Lesson) Start(level string) (string, error) {
	if level != "" {
		lv, ok := l.pack.Level(level)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownLevel, level)
		}
		l.level = lv.Name
	}

	l.active = true
	l.wordIndex = 0
	l.correct = 0
	l.attempts = 0
	l.started = l.now()
	prompt := l.Next()
	return "Let's start typing! Type the word you see. " + prompt, nil
}

// End stops the lesson and summarises it. Ending an inactive lesson
// returns an empty summary.
func (l *Lesson) End() Summary {
	if !l.active {
		return Summary{}
	}
	acc := 0
	if l.attempts > 0 {
		acc = percent(l.correct, l.attempts)
	}
	s := Summary{
		Level:        l.level,
		CorrectWords: l.correct,
		Attempts:     l.attempts,
		Accuracy:     acc,
		Duration:     l.now().Sub(l.started),
		Message: fmt.Sprintf("Lesson complete! You typed %d words correctly. Accuracy: %d%%",
			l.correct, acc),
		Say: fmt.Sprintf("Great job! You completed the lesson with %d percent accuracy.", acc),
	}

	l.active = false
	l.waiting = false
	l.word = ""
	l.typed = ""
	return s
}

// Next moves to the following word and returns the prompt to speak. Words
// cycle through the level in order.
func (l *Lesson) Next() string {
	lv, ok := l.pack.Level(l.level)
	if !ok {
		lv = l.pack.Levels[0]
	}
	l.word = lv.Words[l.wordIndex%len(lv.Words)]
	l.typed = ""
	l.wordIndex++
	l.waiting = false
	return "Type the word: " + l.word
}

// SetLevel selects a level. A running lesson restarts from the first word
// of the new level.
func (l *Lesson) SetLevel(level string) error {
	lv, ok := l.pack.Level(level)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLevel, level)
	}
	l.level = lv.Name
	l.wordIndex = 0
	if l.active {
		l.Next()
	}
	return nil
}

// NextLevel selects the level after the current one, wrapping around.
func (l *Lesson) NextLevel() string {
	names := l.pack.Names()
	i := l.pack.index(l.level)
	next := names[(i+1)%len(names)]
	_ = l.SetLevel(next)
	return next
}

// HandleKey feeds one key press to the lesson. It returns false when the
// lesson did not take the key and it should be typed normally; that is
// always the case for inactive lessons and for modifier keys.
func (l *Lesson) HandleKey(key keyboard.KeyID) (bool, Outcome) {
	if !l.active || key.IsModifier() {
		return false, Outcome{}
	}
	if l.waiting {
		return true, Outcome{}
	}

	switch key {
	case keyboard.KeyBackspace:
		if l.typed == "" {
			return true, Outcome{}
		}
		r := []rune(l.typed)
		l.typed = string(r[:len(r)-1])
		return true, Outcome{Kind: LetterErased}

	case keyboard.KeyEnter:
		if l.typed == l.word {
			return true, l.complete()
		}
		l.attempts++
		l.typed = ""
		return true, Outcome{
			Kind:    IncorrectAttempt,
			Message: "Try again! Check your spelling.",
			Say:     "Oops! Try again.",
		}
	}

	r, ok := key.Rune()
	if !ok || len([]rune(l.typed)) >= len([]rune(l.word)) {
		return true, Outcome{}
	}
	l.typed += strings.ToLower(string(r))
	if l.typed == l.word {
		return true, l.complete()
	}
	return true, Outcome{Kind: LetterTyped}
}

func (l *Lesson) complete() Outcome {
	l.correct++
	l.attempts++
	l.waiting = true

	praise := encouragements[l.intn(len(encouragements))]
	o := Outcome{Kind: WordCompleted, Message: "🎉 " + praise + " 🎉", Say: praise}
	if l.correct%MilestoneEvery == 0 {
		o.Milestone = true
		o.Message = fmt.Sprintf("Awesome! You've typed %d words! Keep going!", l.correct)
		o.Say = fmt.Sprintf("%s You're doing great! You've typed %d words correctly.", praise, l.correct)
	}
	return o
}

// Letters describes how each letter of the target word should be drawn.
func (l *Lesson) Letters() []Letter {
	word := []rune(l.word)
	typed := []rune(l.typed)
	out := make([]Letter, len(word))
	for i, want := range word {
		switch {
		case i < len(typed) && typed[i] == want:
			out[i] = Letter{Char: typed[i], State: Correct}
		case i < len(typed):
			out[i] = Letter{Char: typed[i], State: Incorrect}
		case i == len(typed):
			out[i] = Letter{Char: want, State: Current}
		default:
			out[i] = Letter{Char: want, State: Pending}
		}
	}
	return out
}

// Stats returns a snapshot for display.
func (l *Lesson) Stats() Stats {
	acc := 100
	if l.attempts > 0 {
		acc = percent(l.correct, l.attempts)
	}
	return Stats{
		Active:       l.active,
		Level:        l.level,
		CurrentWord:  l.word,
		Typed:        l.typed,
		CorrectWords: l.correct,
		Attempts:     l.attempts,
		Accuracy:     acc,
	}
}

// MilestoneProgress returns how far the child is towards the next
// milestone, from 0 to 1.
func (l *Lesson) MilestoneProgress() float64 {
	n := l.correct % MilestoneEvery
	if n == 0 && l.correct > 0 && l.waiting {
		return 1
	}
	return float64(n) / MilestoneEvery
}

func percent(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * 100))
}
