package stats

import (
	"errors"
	"time"
)

// HistoryDays is how long daily history is kept.
const HistoryDays = 30

// DateLayout is the format of day keys.
const DateLayout = "2006-01-02"

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("stats store is closed")

// Session counts what happened since the tutor was started.
type Session struct {
	Start          time.Time
	LastActivity   time.Time
	KeysPressed    int
	LettersTyped   int
	NumbersTyped   int
	FunctionsUsed  int
	CorrectKeys    int
	Mistakes       int
	WordsCompleted int
	TimeSpent      time.Duration
	LessonTime     time.Duration
	TutorModeTime  time.Duration
}

// Day is the stored summary of one calendar day.
type Day struct {
	Date           string // DateLayout
	Sessions       int
	KeysPressed    int
	LettersTyped   int
	NumbersTyped   int
	WordsCompleted int
	TimeSpent      time.Duration
	// Accuracy is the running average over the day's sessions.
	Accuracy int
}

// emptyDay is a day with no sessions yet.
func emptyDay(date string) Day {
	return Day{Date: date, Accuracy: 100}
}

// Totals are the all-time counters.
type Totals struct {
	Sessions        int
	KeysPressed     int
	TimeSpent       time.Duration
	AverageAccuracy int
}

// Achievement is a badge earned once and kept forever.
type Achievement struct {
	ID          string
	Name        string
	Description string
	EarnedAt    time.Time
}

// Achievement IDs
const (
	FirstTenKeys    = "first_10_keys"
	CenturyTypist   = "century_typist"
	PerfectAccuracy = "perfect_accuracy"
	WordBuilder     = "word_builder"
)

var achievementInfo = map[string]struct{ name, description string }{
	FirstTenKeys:    {"First Steps", "Typed your first 10 keys!"},
	CenturyTypist:   {"Century Typist", "Typed 100 keys in one session!"},
	PerfectAccuracy: {"Perfect Aim", "Perfect accuracy with 20+ keys!"},
	WordBuilder:     {"Word Builder", "Completed 5 words in a lesson!"},
}

// achievementOrder is the order achievements are checked and listed in.
var achievementOrder = []string{FirstTenKeys, CenturyTypist, PerfectAccuracy, WordBuilder}

func newAchievement(id string, at time.Time) Achievement {
	info := achievementInfo[id]
	return Achievement{ID: id, Name: info.name, Description: info.description, EarnedAt: at}
}

// Store persists daily history, totals and achievements.
type Store interface {
	// Day returns the stored day, or false if nothing was recorded.
	Day(date string) (Day, bool, error)
	// Days returns the stored days in [from, to], oldest first.
	Days(from, to string) ([]Day, error)
	Totals() (Totals, error)
	// SaveSession writes a day and the new totals together.
	SaveSession(day Day, totals Totals) error
	Achievements() ([]Achievement, error)
	AddAchievement(a Achievement) error
	// Prune deletes days before the given date.
	Prune(before string) error
	Reset() error
	Close() error
}
