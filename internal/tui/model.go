package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/kidskeys/internal/audio"
	"github.com/muurk/kidskeys/internal/config"
	"github.com/muurk/kidskeys/internal/input"
	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/lessons"
	"github.com/muurk/kidskeys/internal/logging"
	"github.com/muurk/kidskeys/internal/stats"
	"github.com/muurk/kidskeys/internal/tutor"
)

// Pauses before the next lesson word is shown.
const (
	nextWordDelay  = 1500 * time.Millisecond
	milestoneDelay = 2000 * time.Millisecond
)

// RemotePressMsg is a virtual key press from a remote key pad.
type RemotePressMsg struct {
	Key keyboard.KeyID
}

// PhysicalKeyMsg is a key event from a device source such as evdev.
type PhysicalKeyMsg struct {
	Snapshot keyboard.ModifierSnapshot
}

// ConfigChangedMsg carries preferences reloaded from disk.
type ConfigChangedMsg struct {
	Config *config.Config
}

// SourceErrorMsg reports that an input source stopped.
type SourceErrorMsg struct {
	Source string
	Err    error
}

// nextWordMsg asks for the next lesson word. gen ties it to the lesson run
// that scheduled it.
type nextWordMsg struct {
	gen int
}

// Options configures the tutor screen. Every collaborator is optional.
type Options struct {
	Audio     *audio.Engine
	Lesson    *lessons.Lesson
	Stats     *stats.Tracker
	Observers []tutor.Observer

	MaxLen      int
	TutorMode   bool
	StartLesson bool
	Level       string

	// EvdevActive means physical keys arrive as PhysicalKeyMsg and terminal
	// typing is not fed to the session.
	EvdevActive bool

	// RemoteStatus, if set, is shown in the header.
	RemoteStatus func() string
}

type focus int

const (
	focusField focus = iota
	focusKeyboard
)

// lessonKey is a key press taken by the lesson.
type lessonKey struct {
	key     keyboard.KeyID
	outcome lessons.Outcome
}

// lessonQueue collects lesson outcomes from the session interceptor until
// Update handles them.
type lessonQueue struct {
	items []lessonKey
}

func (q *lessonQueue) take() []lessonKey {
	out := q.items
	q.items = nil
	return out
}

// Model is the bubbletea model of the tutor screen.
type Model struct {
	session *tutor.Session
	field   *textField
	audio   *audio.Engine
	lesson  *lessons.Lesson
	tracker *stats.Tracker
	queue   *lessonQueue
	hits    *hitMap

	maxLen       int
	evdev        bool
	remoteStatus func() string

	keys     keyMap
	help     help.Model
	progress progress.Model

	focus     focus
	selected  keyboard.KeyID
	width     int
	height    int
	message   string
	errMsg    string
	lessonGen int
	intro     string
}

// NewModel creates the tutor screen.
func NewModel(opts Options) Model {
	if opts.MaxLen <= 0 {
		opts.MaxLen = keyboard.DefaultMaxLen
	}

	field := &textField{}
	sessionOpts := []tutor.Option{
		tutor.WithMaxLen(opts.MaxLen),
		tutor.WithTarget(field),
		tutor.OnInputChanged(func(keyboard.State) {
			field.changes++
		}),
	}
	if opts.Audio != nil {
		sessionOpts = append(sessionOpts, tutor.WithObserver(opts.Audio))
	}
	if opts.Stats != nil {
		sessionOpts = append(sessionOpts, tutor.WithObserver(opts.Stats))
	}
	for _, o := range opts.Observers {
		sessionOpts = append(sessionOpts, tutor.WithObserver(o))
	}

	m := Model{
		session:      tutor.NewSession(sessionOpts...),
		field:        field,
		audio:        opts.Audio,
		lesson:       opts.Lesson,
		tracker:      opts.Stats,
		queue:        &lessonQueue{},
		hits:         &hitMap{},
		maxLen:       opts.MaxLen,
		evdev:        opts.EvdevActive,
		remoteStatus: opts.RemoteStatus,
		keys:         newKeyMap(),
		help:         help.New(),
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		selected:     "f",
		width:        MinTerminalWidth,
	}

	if m.lesson != nil {
		lesson, queue := m.lesson, m.queue
		m.session.SetInterceptor(func(k keyboard.KeyID, _ tutor.Source) bool {
			handled, out := lesson.HandleKey(k)
			if handled {
				queue.items = append(queue.items, lessonKey{key: k, outcome: out})
			}
			return handled
		})
		if opts.Level != "" {
			if err := m.lesson.SetLevel(opts.Level); err != nil {
				m.errMsg = err.Error()
			}
		}
	}

	if opts.TutorMode {
		m.setTutorMode(true)
	}
	if opts.StartLesson && m.lesson != nil {
		m.intro = m.startLesson()
	}
	return m
}

// Session exposes the keyboard session.
func (m Model) Session() *tutor.Session {
	return m.session
}

// Init speaks the lesson introduction if a lesson was started up front.
func (m Model) Init() tea.Cmd {
	if m.intro == "" {
		return nil
	}
	intro := m.intro
	return func() tea.Msg {
		m.say(intro)
		return nil
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		k, ok := m.hits.keyAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.selected = k
		m.session.PressVirtual(k)
		return m, m.afterKeys()

	case RemotePressMsg:
		m.session.PressVirtual(msg.Key)
		return m, m.afterKeys()

	case PhysicalKeyMsg:
		if msg.Snapshot.Type == keyboard.KeyUp {
			m.session.PhysicalKeyUp(msg.Snapshot)
			return m, nil
		}
		m.session.PhysicalKeyDown(msg.Snapshot)
		return m, m.afterKeys()

	case ConfigChangedMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case SourceErrorMsg:
		m.errMsg = fmt.Sprintf("%s stopped: %v", msg.Source, msg.Err)
		m.evdev = false
		return m, nil

	case nextWordMsg:
		if msg.gen != m.lessonGen || m.lesson == nil || !m.lesson.Active() {
			return m, nil
		}
		prompt := m.lesson.Next()
		m.message = ""
		m.say(prompt)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tutor):
		m.setTutorMode(!m.session.State().TutorModeActive)
		return m, nil

	case key.Matches(msg, m.keys.Lesson):
		if m.lesson == nil {
			return m, nil
		}
		if m.lesson.Active() {
			m.endLesson()
			return m, nil
		}
		m.say(m.startLesson())
		return m, nil

	case key.Matches(msg, m.keys.NextLevel):
		if m.lesson == nil {
			return m, nil
		}
		level := m.lesson.NextLevel()
		m.lessonGen++
		m.message = "Level: " + level
		if m.lesson.Active() {
			m.say("Now playing level " + level + ". " + "Type the word: " + m.lesson.Stats().CurrentWord)
		}
		return m, nil

	case key.Matches(msg, m.keys.Audio):
		if m.audio != nil {
			m.audio.Toggle()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.session.Clear()
		if !m.session.State().TutorModeActive {
			m.field.SetValue("", 0)
		}
		return m, nil
	}

	if m.session.State().TutorModeActive {
		if m.evdev {
			return m, nil
		}
		for _, st := range input.FromTeaKey(msg) {
			m.session.PhysicalKeyDown(st.Down)
			m.session.PhysicalKeyUp(st.Up)
		}
		return m, m.afterKeys()
	}

	if key.Matches(msg, m.keys.Focus) {
		if m.focus == focusField {
			m.focus = focusKeyboard
		} else {
			m.focus = focusField
		}
		return m, nil
	}

	if m.focus == focusField {
		m.field.handleKey(msg, m.maxLen)
		return m, nil
	}

	layout := keyboard.SelectLayout(m.session.State())
	switch {
	case key.Matches(msg, m.keys.Left):
		m.selected = moveSelection(layout, m.selected, 0, -1)
	case key.Matches(msg, m.keys.Right):
		m.selected = moveSelection(layout, m.selected, 0, 1)
	case key.Matches(msg, m.keys.Up):
		m.selected = moveSelection(layout, m.selected, -1, 0)
	case key.Matches(msg, m.keys.Down):
		m.selected = moveSelection(layout, m.selected, 1, 0)
	case key.Matches(msg, m.keys.Press):
		m.session.PressVirtual(m.selected)
		return m, m.afterKeys()
	}
	return m, nil
}

// afterKeys handles lesson outcomes and newly earned achievements after
// key presses reached the session.
func (m *Model) afterKeys() tea.Cmd {
	var cmd tea.Cmd
	for _, lk := range m.queue.take() {
		if c := m.handleOutcome(lk); c != nil {
			cmd = c
		}
	}

	if m.tracker != nil {
		for _, a := range m.tracker.TakeEarned() {
			m.message = "🏆 " + a.Name + ": " + a.Description
			m.say("You earned " + a.Name + "!")
		}
	}
	return cmd
}

func (m *Model) handleOutcome(lk lessonKey) tea.Cmd {
	out := lk.outcome
	if out.Message != "" {
		m.message = out.Message
	}
	m.say(out.Say)

	switch out.Kind {
	case lessons.LetterTyped:
		m.trackKey(lk.key, m.lastLetterCorrect())
	case lessons.LetterErased:
		m.trackKey(lk.key, true)
	case lessons.IncorrectAttempt:
		m.trackKey(lk.key, false)
	case lessons.WordCompleted:
		m.trackKey(lk.key, true)
		if m.tracker != nil {
			m.tracker.TrackLessonProgress(1, 0)
		}
		delay := nextWordDelay
		if out.Milestone {
			delay += milestoneDelay
		}
		gen := m.lessonGen
		return tea.Tick(delay, func(time.Time) tea.Msg {
			return nextWordMsg{gen: gen}
		})
	}
	return nil
}

func (m *Model) lastLetterCorrect() bool {
	typed := len([]rune(m.lesson.Stats().Typed))
	letters := m.lesson.Letters()
	if typed == 0 || typed > len(letters) {
		return true
	}
	return letters[typed-1].State == lessons.Correct
}

func (m *Model) trackKey(k keyboard.KeyID, correct bool) {
	if m.tracker != nil {
		m.tracker.TrackKeyPress(k, correct)
	}
}

// startLesson begins a lesson and returns the introduction to speak. The
// physical keyboard only reaches the lesson in tutor mode, so it is turned
// on.
func (m *Model) startLesson() string {
	intro, err := m.lesson.Start("")
	if err != nil {
		m.errMsg = err.Error()
		return ""
	}
	m.lessonGen++
	m.message = ""
	m.setTutorMode(true)
	logging.Info("Lesson started", zap.String("level", m.lesson.Level()))
	return intro
}

func (m *Model) endLesson() {
	sum := m.lesson.End()
	m.lessonGen++
	m.message = sum.Message
	m.say(sum.Say)
	if m.tracker != nil {
		m.tracker.TrackLessonProgress(0, sum.Duration)
	}
	logging.Info("Lesson ended",
		zap.String("level", sum.Level),
		zap.Int("correct_words", sum.CorrectWords),
		zap.Int("accuracy", sum.Accuracy))
}

func (m *Model) setTutorMode(on bool) {
	m.session.SetTutorMode(on)
	if m.tracker != nil {
		m.tracker.TrackTutorMode(on)
	}
	logging.Debug("Tutor mode changed", zap.Bool("active", on))
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil || m.audio == nil {
		return
	}
	m.audio.SetRate(cfg.Audio.Rate)
	if cfg.Audio.Enabled {
		m.audio.Enable()
	} else {
		m.audio.Disable()
	}
	m.message = "Preferences reloaded"
}

// shutdown ends the lesson and folds the session into the history.
func (m *Model) shutdown() {
	if m.lesson != nil && m.lesson.Active() {
		m.endLesson()
	}
	if m.tracker != nil {
		if err := m.tracker.EndSession(); err != nil {
			logging.Warn("Failed to save session", zap.Error(err))
		}
	}
	if m.audio != nil {
		m.audio.Cancel()
	}
}

func (m *Model) say(text string) {
	if m.audio != nil && text != "" {
		m.audio.Say(text)
	}
}
