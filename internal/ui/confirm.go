package ui

import (
	"bufio"
	"io"
	"strings"
)

// Confirm shows a warning box and asks the user to type word to proceed.
// It returns true only if the answer read from in matches word exactly.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string, word string) bool {
	lines := []string{"", WarningTitleStyle.Render("⚠  WARNING  ─  " + title), ""}
	for _, w := range warnings {
		lines = append(lines, ValueStyle.Render(BulletMarker+" "+w))
	}
	lines = append(lines, "")

	p.Println(BoxStyle(p.width, WarningColor).Render(strings.Join(lines, "\n")))
	p.Newline()
	_, _ = io.WriteString(p.out, WarningTitleStyle.Render("To proceed, type \""+word+"\" and press Enter: "))

	answer, err := bufio.NewReader(in).ReadString('\n')
	p.Newline()
	if err != nil && answer == "" {
		return false
	}
	if strings.TrimSpace(answer) == word {
		return true
	}

	p.Println(MutedStyle.Render("  Operation cancelled."))
	return false
}
