package path

import "fmt"

// SyntaxError reports a malformed YAML Path.  Parsing is
// all-or-nothing: a SyntaxError means no segment list was produced.
type SyntaxError struct {
	// Path is the complete, offending YAML Path text.
	Path string
	// Position is the rune index the parser was at, or -1 when the
	// problem spans the whole path.
	Position int
	// Segment is the offending segment text, when isolated.
	Segment string
	// Reason describes what went wrong.
	Reason string
}

func (e *SyntaxError) Error() string {
	msg := e.Reason
	if e.Position >= 0 {
		msg = fmt.Sprintf("%s at character index %d", msg, e.Position)
	}
	if e.Segment != "" {
		msg = fmt.Sprintf("%s (segment %q)", msg, e.Segment)
	}
	return fmt.Sprintf("invalid YAML Path %q: %s", e.Path, msg)
}

func syntaxErr(path, reason string, pos int) *SyntaxError {
	return &SyntaxError{Path: path, Position: pos, Reason: reason}
}
