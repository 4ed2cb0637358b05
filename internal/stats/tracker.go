package stats

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/logging"
	"github.com/muurk/kidskeys/internal/tutor"
)

// Tracker counts practice for one keyboard and folds it into the stored
// history when the session ends. A nil Store keeps counts in memory only.
//
// Tracker is not safe for concurrent use.
type Tracker struct {
	store    Store
	now      func() time.Time
	tracking bool

	session    Session
	tutorStart time.Time
	earned     map[string]bool
	pending    []Achievement
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker starts a session. Old history is pruned and earned
// achievements are loaded from store.
func NewTracker(store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:    store,
		now:      time.Now,
		tracking: true,
		earned:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.session = t.newSession()

	if store == nil {
		return t, nil
	}
	cutoff := t.now().AddDate(0, 0, -HistoryDays).Format(DateLayout)
	if err := store.Prune(cutoff); err != nil {
		return nil, err
	}
	earned, err := store.Achievements()
	if err != nil {
		return nil, err
	}
	for _, a := range earned {
		t.earned[a.ID] = true
	}
	return t, nil
}

func (t *Tracker) newSession() Session {
	now := t.now()
	return Session{Start: now, LastActivity: now}
}

// SetTracking turns counting on or off.
func (t *Tracker) SetTracking(on bool) {
	t.tracking = on
}

// Tracking reports whether counting is on.
func (t *Tracker) Tracking() bool {
	return t.tracking
}

// KeyPressed counts every accepted key press as correct.
func (t *Tracker) KeyPressed(ev tutor.Event) {
	t.TrackKeyPress(ev.Key, true)
}

// TrackKeyPress counts one key press.
func (t *Tracker) TrackKeyPress(key keyboard.KeyID, correct bool) {
	if !t.tracking {
		return
	}
	s := &t.session
	s.KeysPressed++
	s.LastActivity = t.now()
	if correct {
		s.CorrectKeys++
	} else {
		s.Mistakes++
	}

	if r, ok := key.Rune(); ok {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			s.LettersTyped++
		case r >= '0' && r <= '9':
			s.NumbersTyped++
		}
	} else if k := key.Kind(); k == keyboard.KindFunction || k == keyboard.KindSpace {
		s.FunctionsUsed++
	}

	t.checkAchievements()
}

// TrackLessonProgress adds words completed in a lesson and the time spent.
func (t *Tracker) TrackLessonProgress(words int, spent time.Duration) {
	if !t.tracking {
		return
	}
	t.session.WordsCompleted += words
	t.session.LessonTime += spent
	t.session.LastActivity = t.now()
	t.checkAchievements()
}

// TrackTutorMode records tutor mode switching on or off.
func (t *Tracker) TrackTutorMode(active bool) {
	if !t.tracking {
		return
	}
	if active {
		t.tutorStart = t.now()
		return
	}
	if !t.tutorStart.IsZero() {
		t.session.TutorModeTime += t.now().Sub(t.tutorStart)
		t.tutorStart = time.Time{}
	}
}

// Session returns the current session counters.
func (t *Tracker) Session() Session {
	s := t.session
	s.TimeSpent = t.now().Sub(s.Start)
	return s
}

// Accuracy is the share of correct keys as a percentage, 100 before any
// key was pressed.
func (t *Tracker) Accuracy() int {
	total := t.session.CorrectKeys + t.session.Mistakes
	if total == 0 {
		return 100
	}
	return percent(t.session.CorrectKeys, total)
}

// KeysPerMinute is the typing speed over the whole session.
func (t *Tracker) KeysPerMinute() int {
	minutes := t.now().Sub(t.session.Start).Minutes()
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(float64(t.session.KeysPressed) / minutes))
}

// TakeEarned returns achievements earned since the last call.
func (t *Tracker) TakeEarned() []Achievement {
	out := t.pending
	t.pending = nil
	return out
}

func (t *Tracker) checkAchievements() {
	s := t.session
	for _, id := range achievementOrder {
		if t.earned[id] {
			continue
		}
		var got bool
		switch id {
		case FirstTenKeys:
			got = s.KeysPressed == 10
		case CenturyTypist:
			got = s.KeysPressed >= 100
		case PerfectAccuracy:
			got = t.Accuracy() == 100 && s.KeysPressed >= 20
		case WordBuilder:
			got = s.WordsCompleted >= 5
		}
		if got {
			t.award(id)
		}
	}
}

func (t *Tracker) award(id string) {
	a := newAchievement(id, t.now())
	t.earned[id] = true
	t.pending = append(t.pending, a)
	logging.Info("Achievement earned", zap.String("id", id))

	if t.store == nil {
		return
	}
	if err := t.store.AddAchievement(a); err != nil {
		logging.Warn("Failed to save achievement", zap.String("id", id), zap.Error(err))
	}
}

// EndSession folds the session into today's history and starts a new one.
// With tracking off nothing is saved.
func (t *Tracker) EndSession() error {
	if !t.tracking {
		return nil
	}
	if !t.tutorStart.IsZero() {
		t.TrackTutorMode(false)
		defer func() { t.tutorStart = t.now() }()
	}

	s := t.Session()
	acc := t.Accuracy()
	t.session = t.newSession()

	if t.store == nil {
		return nil
	}

	date := s.Start.Format(DateLayout)
	day, _, err := t.store.Day(date)
	if err != nil {
		return err
	}
	day.Sessions++
	day.KeysPressed += s.KeysPressed
	day.LettersTyped += s.LettersTyped
	day.NumbersTyped += s.NumbersTyped
	day.WordsCompleted += s.WordsCompleted
	day.TimeSpent += s.TimeSpent
	day.Accuracy = runningAverage(day.Accuracy, day.Sessions, acc)

	totals, err := t.store.Totals()
	if err != nil {
		return err
	}
	totals.Sessions++
	totals.KeysPressed += s.KeysPressed
	totals.TimeSpent += s.TimeSpent
	totals.AverageAccuracy = runningAverage(totals.AverageAccuracy, totals.Sessions, acc)

	if err := t.store.SaveSession(day, totals); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Today returns today's stored history.
func (t *Tracker) Today() (Day, error) {
	date := t.now().Format(DateLayout)
	if t.store == nil {
		return emptyDay(date), nil
	}
	d, _, err := t.store.Day(date)
	return d, err
}

// Week sums the stored history of the last seven days, today included.
// The result's Date is the first day of the range.
func (t *Tracker) Week() (Day, error) {
	now := t.now()
	from := now.AddDate(0, 0, -6).Format(DateLayout)
	week := Day{Date: from}
	if t.store == nil {
		return week, nil
	}
	days, err := t.store.Days(from, now.Format(DateLayout))
	if err != nil {
		return Day{}, err
	}
	for _, d := range days {
		week.Sessions += d.Sessions
		week.KeysPressed += d.KeysPressed
		week.LettersTyped += d.LettersTyped
		week.NumbersTyped += d.NumbersTyped
		week.WordsCompleted += d.WordsCompleted
		week.TimeSpent += d.TimeSpent
	}
	return week, nil
}

// Totals returns the all-time counters.
func (t *Tracker) Totals() (Totals, error) {
	if t.store == nil {
		return Totals{}, nil
	}
	return t.store.Totals()
}

// Achievements lists earned achievements.
func (t *Tracker) Achievements() ([]Achievement, error) {
	if t.store != nil {
		return t.store.Achievements()
	}
	var out []Achievement
	for _, id := range achievementOrder {
		if t.earned[id] {
			out = append(out, newAchievement(id, time.Time{}))
		}
	}
	return out, nil
}

// Reset forgets all history, achievements and the current session.
func (t *Tracker) Reset() error {
	t.session = t.newSession()
	t.earned = make(map[string]bool)
	t.pending = nil
	if t.store == nil {
		return nil
	}
	return t.store.Reset()
}

func runningAverage(avg, n, sample int) int {
	if n <= 0 {
		return sample
	}
	return int(math.Round(float64(avg*(n-1)+sample) / float64(n)))
}

func percent(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * 100))
}
