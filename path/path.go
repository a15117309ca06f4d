package path

import (
	"slices"
	"strings"
)

// Path encapsulates a YAML Path expression and its parsing.
//
// A Path keeps the original, unmodified expression text, its segment
// separator (inferred or forced), and two parsed renditions of the
// segments: the escaped form with leading backslashes stripped, used
// for matching, and the unescaped form that preserves them for
// display.  Parsing is lazy and happens at most once per original
// text; mutating the text resets the parse.
type Path struct {
	original    string
	separator   Separator
	escaped     []Segment
	unescaped   []Segment
	stringified string
	parsed      bool
	parseErr    error
}

// New wraps a YAML Path expression, deferring the separator to
// inference from its first character.
func New(text string) *Path {
	p := &Path{}
	p.SetOriginal(text)
	return p
}

// NewWithSeparator wraps a YAML Path expression with a forced segment
// separator; use it only when inference would guess wrong.
func NewWithSeparator(text string, sep Separator) *Path {
	p := New(text)
	p.separator = sep
	return p
}

// Copy duplicates the path, parse state included, so a copy whose
// separator is later changed still reads its text the way the source
// path did.
func (p *Path) Copy() *Path {
	res := *p
	res.escaped = slices.Clone(p.escaped)
	res.unescaped = slices.Clone(p.unescaped)
	return &res
}

// Original returns the original, unparsed, unmodified expression.
func (p *Path) Original() string {
	return p.original
}

// SetOriginal replaces the expression text and resets all parse state.
func (p *Path) SetOriginal(text string) {
	if strings.TrimSpace(text) == "" {
		text = ""
	}
	p.original = text
	p.separator = AutoSeparator
	p.escaped = nil
	p.unescaped = nil
	p.stringified = ""
	p.parsed = false
	p.parseErr = nil
}

// Separator returns the segment separator, inferring it from the
// original text on first use.
func (p *Path) Separator() Separator {
	if p.separator == AutoSeparator {
		p.separator = InferSeparator(p.original)
	}
	return p.separator
}

// SetSeparator changes the separator used for display rendering; the
// parsed segments are unaffected.  The original text is parsed with
// the current separator first, so the change never alters how the
// expression is read.
func (p *Path) SetSeparator(sep Separator) {
	if sep == p.separator {
		return
	}
	_ = p.parse()
	p.separator = sep
	p.stringified = ""
}

func (p *Path) parse() error {
	if p.parsed {
		return p.parseErr
	}
	p.parsed = true
	sep := p.Separator()
	if sep == AutoSeparator {
		sep = DotSeparator
	}
	p.escaped, p.parseErr = parseSegments(p.original, sep, true)
	if p.parseErr == nil {
		p.unescaped, p.parseErr = parseSegments(p.original, sep, false)
	}
	return p.parseErr
}

// Segments returns the escaped, parsed segments: leading backslashes
// are stripped, leaving only the symbols they protected.  This is the
// form used for matching document data.
func (p *Path) Segments() ([]Segment, error) {
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.escaped, nil
}

// UnescapedSegments returns the parsed segments with leading
// backslashes preserved, the print- and log-friendly form.
func (p *Path) UnescapedSegments() ([]Segment, error) {
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.unescaped, nil
}

// Len reports how many segments comprise the path, zero when the path
// is the document root or cannot be parsed.
func (p *Path) Len() int {
	segs, err := p.Segments()
	if err != nil {
		return 0
	}
	return len(segs)
}

// IsRoot indicates whether the path points at the document root.
func (p *Path) IsRoot() bool {
	return p.Len() == 0
}

// String renders the parsed path, re-escaped and joined with the
// configured separator.  An unparseable path renders as its original
// text.
func (p *Path) String() string {
	if p.stringified != "" {
		return p.stringified
	}
	segs, err := p.UnescapedSegments()
	if err != nil {
		return p.original
	}
	p.stringified = stringifySegments(segs, p.Separator())
	return p.stringified
}

// Equal indicates whether two paths address the same data.  The
// separator is ignored: "some.path[1]" equals "/some/path[1]" because
// both forms yield exactly the same nodes.
func (p *Path) Equal(other *Path) bool {
	if other == nil {
		return false
	}
	lhs := p.Copy()
	lhs.SetSeparator(SlashSeparator)
	rhs := other.Copy()
	rhs.SetSeparator(SlashSeparator)
	return lhs.String() == rhs.String()
}

// Append adds a new, pre-escaped segment to the path and returns the
// path for chaining.  Do not include a separator; one is added.
func (p *Path) Append(segment string) *Path {
	sep := p.Separator()
	if sep == AutoSeparator {
		sep = SlashSeparator
	}
	if len(p.original) < 1 {
		p.SetOriginal(segment)
	} else {
		p.SetOriginal(p.original + sep.String() + segment)
	}
	return p
}

// Pop removes and returns the last segment of the path, mutating the
// original expression text to match.
func (p *Path) Pop() (Segment, error) {
	segs, err := p.UnescapedSegments()
	if err != nil {
		return Segment{}, err
	}
	if len(segs) < 1 {
		return Segment{}, &SyntaxError{
			Path:     p.original,
			Position: -1,
			Reason:   "cannot pop when there are no segments to pop from",
		}
	}

	popped := segs[len(segs)-1]
	removable := stringifySegments([]Segment{popped}, p.Separator())
	prefixed := p.Separator().String() + removable
	pathNow := p.original

	switch {
	case strings.HasSuffix(pathNow, prefixed):
		p.SetOriginal(pathNow[:len(pathNow)-len(prefixed)])
	case strings.HasSuffix(pathNow, removable):
		p.SetOriginal(pathNow[:len(pathNow)-len(removable)])
	case p.Separator() == SlashSeparator &&
		strings.HasSuffix(pathNow, removable[1:]):
		p.SetOriginal(pathNow[:len(pathNow)-len(removable)+1])
	}

	return popped, nil
}

// StripPathPrefix removes a leading prefix from a path, returning the
// trimmed path (or the input when the prefix does not apply).
func StripPathPrefix(p, prefix *Path) *Path {
	if prefix == nil {
		return p
	}

	normPrefix := prefix.Copy()
	normPrefix.SetSeparator(SlashSeparator)
	prefixStr := normPrefix.String()
	if prefixStr == "/" {
		return p
	}

	normPath := p.Copy()
	normPath.SetSeparator(SlashSeparator)
	pathStr := normPath.String()
	if strings.HasPrefix(pathStr, prefixStr) {
		return New(pathStr[len(prefixStr):])
	}

	return p
}

// stringifySegments renders parsed segments back into path text.
func stringifySegments(segments []Segment, sep Separator) string {
	var b strings.Builder

	// A slash-separated path starts with its separator.
	if sep == SlashSeparator {
		b.WriteString(sep.String())
	}

	addSep := false
	for i := range segments {
		segments[i].render(&b, sep, addSep)
		addSep = true
	}
	return b.String()
}
