package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/phonics"
)

// capHeight is the height of a rendered key cap: label plus top and bottom
// border.
const capHeight = 3

// capWidths is the inner width of wide keys. Everything else is defaultCap.
var capWidths = map[keyboard.KeyID]int{
	keyboard.KeyBackspace:  6,
	keyboard.KeyTab:        5,
	keyboard.KeyCapsLock:   6,
	keyboard.KeyEnter:      7,
	keyboard.KeyShiftLeft:  8,
	keyboard.KeyShiftRight: 9,
	keyboard.KeySpace:      40,
}

const defaultCap = 3

func capWidth(key keyboard.KeyID) int {
	if w, ok := capWidths[key]; ok {
		return w
	}
	return defaultCap
}

// hitBox is the screen area of one key cap, relative to the keyboard's top
// left corner.
type hitBox struct {
	key        keyboard.KeyID
	x, y, w, h int
}

func (b hitBox) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// hitMap is the mouse lookup table of the last rendered keyboard.
type hitMap struct {
	originX, originY int
	boxes            []hitBox
}

// keyAt returns the key under the screen position (x, y).
func (h *hitMap) keyAt(x, y int) (keyboard.KeyID, bool) {
	x -= h.originX
	y -= h.originY
	for _, b := range h.boxes {
		if b.contains(x, y) {
			return b.key, true
		}
	}
	return "", false
}

// renderKeyboard draws layout with lit keys filled in and the selected key
// outlined. It returns the rendered grid and the hit boxes of every cap.
func renderKeyboard(layout keyboard.Layout, lit map[keyboard.KeyID]bool, selected keyboard.KeyID) (string, []hitBox) {
	var rows []string
	var boxes []hitBox

	for ri, row := range layout.Rows {
		caps := make([]string, 0, len(row))
		x := 0
		for _, k := range row {
			w := capWidth(k)
			style := keyCapStyle(phonics.GroupOf(k), w, lit[k], k == selected)
			caps = append(caps, style.Render(layout.Glyph(k)))

			outer := w + 2
			boxes = append(boxes, hitBox{key: k, x: x, y: ri * capHeight, w: outer, h: capHeight})
			x += outer
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, caps...))
	}

	return strings.Join(rows, "\n"), boxes
}

// moveSelection moves the keyboard cursor. Vertical moves keep roughly the
// same column.
func moveSelection(layout keyboard.Layout, from keyboard.KeyID, dRow, dCol int) keyboard.KeyID {
	ri, ci := 0, 0
	for r, row := range layout.Rows {
		for c, k := range row {
			if k == from {
				ri, ci = r, c
			}
		}
	}

	if dRow != 0 {
		// Move by screen column so the cursor does not jump sideways.
		x := columnCenter(layout.Rows[ri], ci)
		ri = (ri + dRow + len(layout.Rows)) % len(layout.Rows)
		return layout.Rows[ri][columnAt(layout.Rows[ri], x)]
	}

	row := layout.Rows[ri]
	ci = (ci + dCol + len(row)) % len(row)
	return row[ci]
}

func columnCenter(row []keyboard.KeyID, ci int) int {
	x := 0
	for c := 0; c < ci; c++ {
		x += capWidth(row[c]) + 2
	}
	return x + (capWidth(row[ci])+2)/2
}

func columnAt(row []keyboard.KeyID, x int) int {
	pos := 0
	for c, k := range row {
		pos += capWidth(k) + 2
		if x < pos {
			return c
		}
	}
	return len(row) - 1
}
