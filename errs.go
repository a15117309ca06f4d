package yamlpath

import (
	"fmt"

	"github.com/signadot/yamlpath/path"
)

// ResolutionError reports a YAML Path which parses but cannot be
// applied to the document at hand.
type ResolutionError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *ResolutionError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf(
			"cannot resolve YAML Path %q: %s (segment %q)",
			e.Path, e.Reason, e.Segment)
	}
	return fmt.Sprintf("cannot resolve YAML Path %q: %s", e.Path, e.Reason)
}

// RecursionError reports a document whose anchors or merge keys form a
// reference loop that resolution refuses to follow.
type RecursionError struct {
	Path   string
	Anchor string
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf(
		"cannot resolve YAML Path %q: reference loop through anchor %q",
		e.Path, e.Anchor)
}

func resolveErr(yp *path.Path, reason string, seg *path.Segment) error {
	e := &ResolutionError{Path: yp.Original(), Reason: reason}
	if seg != nil {
		e.Segment = seg.String()
	}
	return e
}

func resolveErrf(
	yp *path.Path, seg *path.Segment, format string, args ...any,
) error {
	return resolveErr(yp, fmt.Sprintf(format, args...), seg)
}
