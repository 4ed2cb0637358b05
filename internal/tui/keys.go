package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the application's key bindings. Plain keys are typing;
// every command uses ctrl so it never collides with a child's key press.
type keyMap struct {
	Tutor     key.Binding
	Lesson    key.Binding
	NextLevel key.Binding
	Audio     key.Binding
	Clear     key.Binding
	Quit      key.Binding

	// Only while tutor mode is off
	Focus key.Binding
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Press key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Tutor: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "tutor mode"),
		),
		Lesson: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "lesson"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next level"),
		),
		Audio: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "sound"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "field/keyboard"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→/↑/↓", "choose key"),
		),
		Right: key.NewBinding(key.WithKeys("right")),
		Up:    key.NewBinding(key.WithKeys("up")),
		Down:  key.NewBinding(key.WithKeys("down")),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press key"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tutor, k.Lesson, k.NextLevel, k.Audio, k.Clear, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tutor, k.Lesson, k.NextLevel},
		{k.Audio, k.Clear, k.Quit},
		{k.Focus, k.Left, k.Press},
	}
}

// navigationKeys is the help shown while the on-screen keyboard has focus.
type navigationKeys struct{ keyMap }

func (k navigationKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Left, k.Press, k.Tutor, k.Lesson, k.Quit}
}
