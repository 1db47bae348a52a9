package editor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown formatting command")
	ErrBadSelection   = errors.New("selection out of range")
)

// Command declares a formatting action. Inline commands wrap the
// selection in a (Prefix, Suffix) pair; block commands apply LinePrefix
// to every line within the selection.
type Command struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Prefix     string `json:"prefix,omitempty"`
	Suffix     string `json:"suffix,omitempty"`
	LinePrefix string `json:"line_prefix,omitempty"`
}

// Block reports whether the command operates per line.
func (c Command) Block() bool { return c.LinePrefix != "" }

// Toolbar is the fixed set of formatting commands, in display order.
var Toolbar = []Command{
	{Name: "h1", Label: "Heading 1", LinePrefix: "# "},
	{Name: "h2", Label: "Heading 2", LinePrefix: "## "},
	{Name: "h3", Label: "Heading 3", LinePrefix: "### "},
	{Name: "bold", Label: "Bold", Prefix: "**", Suffix: "**"},
	{Name: "italic", Label: "Italic", Prefix: "_", Suffix: "_"},
	{Name: "link", Label: "Link", Prefix: "[", Suffix: "](url)"},
	{Name: "image", Label: "Image", Prefix: "![", Suffix: "](url)"},
	{Name: "quote", Label: "Quote", LinePrefix: "> "},
}

// LookupCommand finds a toolbar command by name.
func LookupCommand(name string) (Command, error) {
	for _, c := range Toolbar {
		if c.Name == name {
			return c, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Span is a selection within a buffer, in byte offsets, Start <= End.
// An empty span (Start == End) is the cursor position.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Apply splices a formatting command into the buffer at the selection and
// returns the new buffer plus the cursor position immediately after the
// inserted prefix+selection span. Pure: no state, no timing dependence.
func Apply(buffer string, sel Span, cmd Command) (string, int, error) {
	if sel.Start < 0 || sel.End < sel.Start || sel.End > len(buffer) {
		return "", 0, fmt.Errorf("%w: [%d,%d) in %d bytes", ErrBadSelection, sel.Start, sel.End, len(buffer))
	}

	before := buffer[:sel.Start]
	selected := buffer[sel.Start:sel.End]
	after := buffer[sel.End:]

	if cmd.Block() {
		lines := strings.Split(selected, "\n")
		for i, line := range lines {
			lines[i] = cmd.LinePrefix + line
		}
		transformed := strings.Join(lines, "\n")
		return before + transformed + after, sel.Start + len(transformed), nil
	}

	cursor := sel.Start + len(cmd.Prefix) + len(selected)
	return before + cmd.Prefix + selected + cmd.Suffix + after, cursor, nil
}
