package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled value. Fields keep the order they are given in.
type Field struct {
	Key   string
	Value string
}

// F is shorthand for building a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: fmt.Sprint(value)}
}

// Printer writes styled command output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = max(width, MinTerminalWidth)
	return p
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Field) {
	p.Println(RenderHeader(title, command, params, p.width))
}

// PrintSection prints a titled list of fields.
func (p *Printer) PrintSection(title string, fields ...Field) {
	p.Println(RenderSection(title, fields))
}

// PrintList prints a titled bullet list.
func (p *Printer) PrintList(title string, items []string) {
	lines := []string{SectionTitleStyle.Render(title)}
	for _, it := range items {
		lines = append(lines, "  "+MutedStyle.Render(BulletMarker)+" "+ValueStyle.Render(it))
	}
	p.Println(strings.Join(lines, "\n"))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Field) {
	p.Println(RenderResultBox(true, title, nil, details, p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting ...string) {
	p.Println(RenderResultBox(false, title, err, nil, p.width, troubleshooting...))
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, params []Field, width int) string {
	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(title)),
		HeaderCommandStyle.Render(command),
	)
	if len(params) == 0 {
		return HeaderBorderStyle(width).Render(top)
	}

	var lines []string
	for _, f := range params {
		lines = append(lines, "  "+KeyStyle.Render(f.Key+":")+" "+ValueStyle.Render(f.Value))
	}
	divider := RenderHorizontalDivider(max(width-6, 10), "─")
	content := lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(lines, "\n"))
	return HeaderBorderStyle(width).Render(content)
}

// RenderSection renders a title followed by aligned key/value lines.
func RenderSection(title string, fields []Field) string {
	keyWidth := 0
	for _, f := range fields {
		keyWidth = max(keyWidth, lipgloss.Width(f.Key)+1)
	}

	lines := []string{SectionTitleStyle.Render(title)}
	for _, f := range fields {
		key := KeyStyle.Width(keyWidth).Render(f.Key + ":")
		lines = append(lines, "  "+key+" "+ValueStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

// RenderResultBox renders a success or failure box.
func RenderResultBox(ok bool, title string, err error, details []Field, width int, troubleshooting ...string) string {
	color, marker, word, titleStyle := SuccessColor, SuccessMarker, "SUCCESS", SuccessTitleStyle
	if !ok {
		color, marker, word, titleStyle = ErrorColor, FailureMarker, "FAILED", ErrorTitleStyle
	}

	lines := []string{"", titleStyle.Render(marker + "  " + word + "  ─  " + title), ""}
	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("Error: "+err.Error()), "")
	}
	if len(details) > 0 {
		lines = append(lines, RenderSection("Details", details), "")
	}
	if len(troubleshooting) > 0 {
		lines = append(lines, MutedStyle.Bold(true).Render("Troubleshooting:"))
		for _, tip := range troubleshooting {
			lines = append(lines, MutedStyle.Render("  "+BulletMarker+" "+tip))
		}
		lines = append(lines, "")
	}

	return BoxStyle(width, color).Render(strings.Join(lines, "\n"))
}
