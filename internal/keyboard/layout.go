package keyboard

// Layout is a glyph table: the label painted on each key, row by row.
type Layout struct {
	Name   string
	Rows   [][]KeyID // the keys, identical in every layout
	glyphs map[KeyID]string
}

// Rows of the physical keyboard, top to bottom.
var keyRows = [][]KeyID{
	{"`", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "=", KeyBackspace},
	{KeyTab, "q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "[", "]", "\\"},
	{KeyCapsLock, "a", "s", "d", "f", "g", "h", "j", "k", "l", ";", "'", KeyEnter},
	{KeyShiftLeft, "z", "x", "c", "v", "b", "n", "m", ",", ".", "/", KeyShiftRight},
	{KeySpace},
}

// BaseLayout is used while effective-uppercase is off.
var BaseLayout = newLayout("default", func(r rune) rune {
	return r
})

// ShiftLayout is used while effective-uppercase is on.
var ShiftLayout = newLayout("shift", func(r rune) rune {
	if isLetter(r) {
		return r - ('a' - 'A')
	}
	return ShiftedSymbol(r)
})

func newLayout(name string, glyph func(rune) rune) Layout {
	l := Layout{Name: name, Rows: keyRows, glyphs: make(map[KeyID]string)}
	for _, row := range keyRows {
		for _, k := range row {
			if r, ok := k.Rune(); ok {
				l.glyphs[k] = string(glyph(r))
				continue
			}
			l.glyphs[k] = k.Display()
		}
	}
	return l
}

// Glyph returns the label of key in this layout.
func (l Layout) Glyph(key KeyID) string {
	if g, ok := l.glyphs[key]; ok {
		return g
	}
	return key.Display()
}

// Keys returns every key of the layout in row order.
func (l Layout) Keys() []KeyID {
	var keys []KeyID
	for _, row := range l.Rows {
		keys = append(keys, row...)
	}
	return keys
}

// SelectLayout picks the glyph table for rendering. It uses the same
// shift XOR caps lock rule as TransformCharacter.
func SelectLayout(s State) Layout {
	if s.EffectiveUppercase() {
		return ShiftLayout
	}
	return BaseLayout
}
