package encode

import (
	"bytes"
	"strings"

	"github.com/fatih/color"
)

// Colors paints rendered YAML for terminal display.  The sprint
// functions receive one token of the named class at a time.
type Colors struct {
	Comment func(a ...any) string
	Key     func(a ...any) string
	Value   func(a ...any) string
	Anchor  func(a ...any) string
	Doc     func(a ...any) string
}

func NewColors() *Colors {
	return &Colors{
		Comment: color.New(color.FgBlue).SprintFunc(),
		Key:     color.RGB(128, 168, 196).SprintFunc(),
		Value:   color.RGB(8, 196, 16).SprintFunc(),
		Anchor:  color.RGB(196, 168, 128).SprintFunc(),
		Doc:     color.RGB(96, 96, 96).SprintFunc(),
	}
}

// Colorize paints rendered YAML line by line.  It is a display aid,
// not a YAML tokenizer: quoted colons can fool the key split.
func (c *Colors) Colorize(rendered []byte) []byte {
	lines := strings.Split(string(rendered), "\n")
	for i, line := range lines {
		lines[i] = c.colorizeLine(line)
	}
	return []byte(strings.Join(lines, "\n"))
}

func (c *Colors) colorizeLine(line string) string {
	trimmed := strings.TrimLeft(line, " -")
	lead := line[:len(line)-len(trimmed)]

	switch {
	case trimmed == "":
		return line
	case strings.HasPrefix(trimmed, "#"):
		return lead + c.Comment(trimmed)
	case strings.HasPrefix(trimmed, "---") || strings.HasPrefix(trimmed, "..."):
		return lead + c.Doc(trimmed)
	}

	var b bytes.Buffer
	b.WriteString(lead)
	if idx := strings.Index(trimmed, ": "); idx >= 0 &&
		!strings.ContainsAny(trimmed[:idx], `"'`) {
		b.WriteString(c.Key(trimmed[:idx]))
		b.WriteString(": ")
		trimmed = trimmed[idx+2:]
	} else if strings.HasSuffix(trimmed, ":") &&
		!strings.ContainsAny(trimmed, `"'`) {
		b.WriteString(c.Key(trimmed[:len(trimmed)-1]))
		b.WriteString(":")
		return b.String()
	}

	for i, word := range strings.Split(trimmed, " ") {
		if i > 0 {
			b.WriteString(" ")
		}
		if strings.HasPrefix(word, "&") || strings.HasPrefix(word, "*") {
			b.WriteString(c.Anchor(word))
			continue
		}
		if strings.HasPrefix(word, "#") {
			b.WriteString(c.Comment(word))
			continue
		}
		b.WriteString(c.Value(word))
	}
	return b.String()
}
