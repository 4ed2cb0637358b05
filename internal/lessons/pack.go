package lessons

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/muurk/kidskeys/internal/keyboard"
)

// Built-in level names.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
)

// ErrInvalidPack is returned for word packs that cannot be used.
var ErrInvalidPack = errors.New("invalid word pack")

// Level is a named list of words practised together.
type Level struct {
	Name  string   `toml:"name"`
	Words []string `toml:"words"`
}

// Pack is an ordered set of levels. Word pack files are TOML:
//
//	[[level]]
//	name = "animals"
//	words = ["cat", "cow", "pig"]
type Pack struct {
	Levels []Level `toml:"level"`
}

// DefaultPack returns the built-in levels.
func DefaultPack() Pack {
	return Pack{Levels: []Level{
		{Name: Beginner, Words: []string{"cat", "dog", "sun", "hat", "run", "big", "red", "bed", "bus", "cup"}},
		{Name: Intermediate, Words: []string{"apple", "happy", "house", "water", "green", "friend", "magic", "smile"}},
		{Name: Advanced, Words: []string{"rainbow", "butterfly", "adventure", "wonderful", "playground"}},
	}}
}

// ParsePack decodes and validates a TOML word pack.
func ParsePack(data string) (Pack, error) {
	var p Pack
	md, err := toml.Decode(data, &p)
	if err != nil {
		return Pack{}, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Pack{}, fmt.Errorf("%w: unknown key %q", ErrInvalidPack, undec[0].String())
	}
	return p.normalize()
}

// LoadPack reads a word pack file.
func LoadPack(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("failed to read word pack: %w", err)
	}
	p, err := ParsePack(string(data))
	if err != nil {
		return Pack{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Merge returns p with the levels of other added. A level in other with the
// same name as one in p replaces it.
func (p Pack) Merge(other Pack) Pack {
	out := Pack{Levels: append([]Level(nil), p.Levels...)}
	for _, l := range other.Levels {
		if i := out.index(l.Name); i >= 0 {
			out.Levels[i] = l
			continue
		}
		out.Levels = append(out.Levels, l)
	}
	return out
}

// Level looks a level up by name.
func (p Pack) Level(name string) (Level, bool) {
	if i := p.index(name); i >= 0 {
		return p.Levels[i], true
	}
	return Level{}, false
}

// Names lists the level names in order.
func (p Pack) Names() []string {
	names := make([]string, len(p.Levels))
	for i, l := range p.Levels {
		names[i] = l.Name
	}
	return names
}

func (p Pack) index(name string) int {
	for i, l := range p.Levels {
		if strings.EqualFold(l.Name, name) {
			return i
		}
	}
	return -1
}

// normalize lowercases words and checks that every word can be typed on
// the keyboard without shift.
func (p Pack) normalize() (Pack, error) {
	if len(p.Levels) == 0 {
		return Pack{}, fmt.Errorf("%w: no levels", ErrInvalidPack)
	}
	seen := make(map[string]bool)
	for i, l := range p.Levels {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if name == "" {
			return Pack{}, fmt.Errorf("%w: level %d has no name", ErrInvalidPack, i+1)
		}
		if seen[name] {
			return Pack{}, fmt.Errorf("%w: level %q defined twice", ErrInvalidPack, name)
		}
		seen[name] = true
		if len(l.Words) == 0 {
			return Pack{}, fmt.Errorf("%w: level %q has no words", ErrInvalidPack, name)
		}

		words := make([]string, 0, len(l.Words))
		for _, w := range l.Words {
			w = strings.ToLower(strings.TrimSpace(w))
			if !typeable(w) {
				return Pack{}, fmt.Errorf("%w: level %q: word %q cannot be typed", ErrInvalidPack, name, w)
			}
			words = append(words, w)
		}
		p.Levels[i] = Level{Name: name, Words: words}
	}
	return p, nil
}

func typeable(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		key, ok := keyboard.ParseKey(string(r))
		if !ok {
			return false
		}
		if _, single := key.Rune(); !single {
			return false
		}
	}
	return true
}
