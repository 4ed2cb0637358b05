package tutor

import (
	"testing"

	"github.com/muurk/kidskeys/internal/keyboard"
)

type fakeTarget struct {
	text  string
	caret int
	sets  int
}

func (f *fakeTarget) Value() (string, int) { return f.text, f.caret }

func (f *fakeTarget) SetValue(text string, caret int) {
	f.text, f.caret = text, caret
	f.sets++
}

type recorder struct {
	events []Event
}

func (r *recorder) KeyPressed(e Event) { r.events = append(r.events, e) }

func down(code string, shift bool) keyboard.ModifierSnapshot {
	return keyboard.ModifierSnapshot{ShiftDown: shift, Code: code, Type: keyboard.KeyDown}
}

func up(code string, shift bool) keyboard.ModifierSnapshot {
	return keyboard.ModifierSnapshot{ShiftDown: shift, Code: code, Type: keyboard.KeyUp}
}

func TestPhysicalEventsIgnoredWhenTutorOff(t *testing.T) {
	rec := &recorder{}
	s := NewSession(WithObserver(rec))
	before := s.State()

	if s.PhysicalKeyDown(down("KeyA", false)) {
		t.Error("PhysicalKeyDown() should report unhandled with tutor mode off")
	}
	s.PhysicalKeyDown(down("ShiftLeft", true))
	s.PhysicalKeyUp(up("ShiftLeft", false))

	if s.State() != before {
		t.Errorf("state changed: %+v", s.State())
	}
	if len(rec.events) != 0 {
		t.Errorf("observers notified %d times, want 0", len(rec.events))
	}
}

func TestPhysicalTyping(t *testing.T) {
	rec := &recorder{}
	target := &fakeTarget{}
	s := NewSession(WithObserver(rec), WithTarget(target))
	s.SetTutorMode(true)

	s.PhysicalKeyDown(down("KeyH", false))
	s.PhysicalKeyUp(up("KeyH", false))
	s.PhysicalKeyDown(down("ShiftLeft", true))
	s.PhysicalKeyDown(down("KeyI", true))
	s.PhysicalKeyUp(up("ShiftLeft", false))
	s.PhysicalKeyDown(down("Digit1", false))

	if got := s.State().Text; got != "hI1" {
		t.Errorf("Text = %q, want \"hI1\"", got)
	}
	if target.text != "hI1" || target.caret != 3 {
		t.Errorf("target = %q/%d, want \"hI1\"/3", target.text, target.caret)
	}
	if len(rec.events) != 3 {
		t.Fatalf("observer got %d events, want 3", len(rec.events))
	}
	for _, e := range rec.events {
		if e.Source != Physical {
			t.Errorf("event %s source = %v, want physical", e.Key, e.Source)
		}
	}
	if rec.events[1].Key != "i" || rec.events[1].State.Text != "hI" {
		t.Errorf("second event = %s/%q", rec.events[1].Key, rec.events[1].State.Text)
	}
}

func TestPhysicalShiftKeyIsNotAPress(t *testing.T) {
	rec := &recorder{}
	s := NewSession(WithObserver(rec))
	s.SetTutorMode(true)

	if s.PhysicalKeyDown(down("ShiftRight", true)) {
		t.Error("shift keydown should not be consumed")
	}
	if !s.State().RightShiftHeld {
		t.Error("RightShiftHeld should be set")
	}
	if len(rec.events) != 0 {
		t.Error("shift keydown should not notify observers")
	}

	if s.PhysicalKeyDown(down("F5", false)) {
		t.Error("unknown code should not be consumed")
	}
}

func TestPhysicalCapsLock(t *testing.T) {
	s := NewSession()
	s.SetTutorMode(true)

	s.PhysicalKeyDown(down("CapsLock", false).WithCapsLock(true))
	s.PhysicalKeyDown(down("KeyA", false).WithCapsLock(true))
	s.PhysicalKeyDown(down("Digit2", false).WithCapsLock(true))

	if got := s.State().Text; got != "A2" {
		t.Errorf("Text = %q, want \"A2\"", got)
	}
}

func TestPressVirtualWorksWithTutorOff(t *testing.T) {
	rec := &recorder{}
	target := &fakeTarget{text: "untouched"}
	s := NewSession(WithObserver(rec), WithTarget(target))

	s.PressVirtual("c")
	s.PressVirtual("a")
	s.PressVirtual("t")

	if got := s.State().Text; got != "cat" {
		t.Errorf("Text = %q, want \"cat\"", got)
	}
	if target.sets != 0 || target.text != "untouched" {
		t.Error("target should not be written while tutor mode is off")
	}
	if len(rec.events) != 3 || rec.events[0].Source != Virtual {
		t.Errorf("events = %+v", rec.events)
	}
}

func TestPressVirtualShiftLatch(t *testing.T) {
	s := NewSession()

	s.PressVirtual(keyboard.KeyShiftLeft)
	if !s.State().ShiftPressed || !s.State().LeftShiftHeld {
		t.Fatalf("after shift click: %+v", s.State())
	}
	s.PressVirtual("a")
	s.PressVirtual("1")

	s.PressVirtual(keyboard.KeyShiftRight)
	s.PressVirtual(keyboard.KeyShiftLeft)
	if !s.State().ShiftPressed {
		t.Error("releasing left shift while right is latched should keep shift")
	}
	s.PressVirtual(keyboard.KeyShiftRight)
	if s.State().ShiftPressed {
		t.Error("releasing both shifts should clear shift")
	}
	s.PressVirtual("b")

	if got := s.State().Text; got != "A!b" {
		t.Errorf("Text = %q, want \"A!b\"", got)
	}
}

func TestPressVirtualCapsLock(t *testing.T) {
	s := NewSession()

	s.PressVirtual(keyboard.KeyCapsLock)
	s.PressVirtual("a")
	s.PressVirtual("1")
	s.PressVirtual(keyboard.KeyCapsLock)
	s.PressVirtual("a")

	if got := s.State().Text; got != "A1a" {
		t.Errorf("Text = %q, want \"A1a\"", got)
	}
}

func TestTutorModeAdoptsTarget(t *testing.T) {
	var changed []keyboard.State
	target := &fakeTarget{text: "hello", caret: 2}
	s := NewSession(WithTarget(target), OnInputChanged(func(st keyboard.State) {
		changed = append(changed, st)
	}))

	s.SetTutorMode(true)
	if st := s.State(); st.Text != "hello" || st.Caret != 2 || !st.TutorModeActive {
		t.Fatalf("after activation: %+v", st)
	}

	s.PhysicalKeyDown(down("KeyX", false))
	if target.text != "hexllo" || target.caret != 3 {
		t.Errorf("target = %q/%d, want \"hexllo\"/3", target.text, target.caret)
	}
	if len(changed) == 0 || changed[len(changed)-1].Text != "hexllo" {
		t.Errorf("input-changed callback not raised with new text")
	}

	s.ToggleTutorMode()
	if s.State().TutorModeActive {
		t.Error("ToggleTutorMode() should turn tutor mode off")
	}
	s.PressVirtual("z")
	if target.text != "hexllo" {
		t.Error("target should not follow the buffer with tutor mode off")
	}
}

func TestInterceptorConsumesKeys(t *testing.T) {
	rec := &recorder{}
	s := NewSession(WithObserver(rec))
	var seen []keyboard.KeyID
	s.SetInterceptor(func(key keyboard.KeyID, src Source) bool {
		seen = append(seen, key)
		return key != "q"
	})

	s.PressVirtual("a")
	s.PressVirtual("q")

	if got := s.State().Text; got != "q" {
		t.Errorf("Text = %q, want only the unconsumed key", got)
	}
	if len(seen) != 2 || len(rec.events) != 1 {
		t.Errorf("interceptor saw %d keys, observers %d events", len(seen), len(rec.events))
	}

	s.SetInterceptor(nil)
	s.PressVirtual("a")
	if got := s.State().Text; got != "qa" {
		t.Errorf("Text = %q after removing interceptor", got)
	}
}

func TestMaxLenAndClear(t *testing.T) {
	target := &fakeTarget{}
	s := NewSession(WithMaxLen(2), WithTarget(target))
	s.SetTutorMode(true)

	for _, code := range []string{"KeyA", "KeyB", "KeyC"} {
		s.PhysicalKeyDown(down(code, false))
	}
	if got := s.State().Text; got != "ab" {
		t.Errorf("Text = %q, want \"ab\"", got)
	}

	s.Clear()
	if s.State().Text != "" || target.text != "" || s.LastKey() != "" {
		t.Errorf("Clear() left %q / target %q / last %q", s.State().Text, target.text, s.LastKey())
	}
}

func TestHighlights(t *testing.T) {
	s := NewSession()
	s.SetTutorMode(true)

	s.PhysicalKeyDown(down("ShiftLeft", true))
	s.PhysicalKeyDown(down("KeyA", true))
	lit := s.Highlights()
	if !lit[keyboard.KeyShiftLeft] || !lit["a"] {
		t.Errorf("Highlights() = %v, want ShiftLeft and a", lit)
	}

	s.PhysicalKeyUp(up("ShiftLeft", false))
	if s.Highlights()[keyboard.KeyShiftLeft] {
		t.Error("shift should go dark on release")
	}

	s.PhysicalKeyDown(down("CapsLock", false).WithCapsLock(true))
	s.PhysicalKeyUp(up("CapsLock", false))
	if !s.Highlights()[keyboard.KeyCapsLock] {
		t.Error("caps lock should stay lit while on")
	}
}

func TestSourceString(t *testing.T) {
	if Physical.String() != "physical" || Virtual.String() != "virtual" || Source(0).String() != "unknown" {
		t.Error("Source.String() mismatch")
	}
}
