package path

import (
	"fmt"
	"strings"
)

// SegmentType discriminates the variants of a Segment.
type SegmentType int

const (
	// KeySegment selects a mapping key (with integer-index fallback).
	KeySegment SegmentType = iota
	// IndexSegment selects a sequence index or a slice.
	IndexSegment
	// AnchorSegment selects nodes whose anchor matches a name.
	AnchorSegment
	// SearchSegment filters children with a comparison operator.
	SearchSegment
	// KeywordSegment filters children with a named predicate.
	KeywordSegment
	// CollectorSegment evaluates a sub-path into a virtual list.
	CollectorSegment
	// TraverseSegment descends through every descendant (**).
	TraverseSegment
	// MatchAllSegment selects every child (*).
	MatchAllSegment
)

var segmentTypeNames = map[SegmentType]string{
	KeySegment:       "key",
	IndexSegment:     "index",
	AnchorSegment:    "anchor",
	SearchSegment:    "search",
	KeywordSegment:   "keyword-search",
	CollectorSegment: "collector",
	TraverseSegment:  "traversal",
	MatchAllSegment:  "match-all",
}

func (t SegmentType) String() string {
	n, ok := segmentTypeNames[t]
	if !ok {
		return fmt.Sprintf("SegmentType(%d)", int(t))
	}
	return n
}

// Segment is one parsed step of a YAML Path: a closed tagged union
// whose Type selects which payload field is meaningful.
type Segment struct {
	Type SegmentType

	// Key holds the KeySegment text or the AnchorSegment name.
	Key       string
	Index     *IndexTerms
	Search    *SearchTerms
	Keyword   *SearchKeywordTerms
	Collector *CollectorTerms
}

// String renders the segment alone, dot-separated where relevant.
func (s *Segment) String() string {
	var b strings.Builder
	s.render(&b, DotSeparator, false)
	return b.String()
}

// render appends the segment's display form, re-escaping KEY text so
// the output can be parsed back into the same segment.
func (s *Segment) render(b *strings.Builder, sep Separator, addSep bool) {
	switch s.Type {
	case KeySegment:
		if addSep {
			b.WriteString(sep.String())
		}
		b.WriteString(ensureEscaped(
			s.Key,
			sep.String(), "(", ")", "[", "]", "^", "$", "%", " ", "'", `"`,
		))
	case IndexSegment:
		b.WriteString("[")
		b.WriteString(s.Index.Raw)
		b.WriteString("]")
	case MatchAllSegment:
		if addSep {
			b.WriteString(sep.String())
		}
		b.WriteString("*")
	case AnchorSegment:
		if addSep {
			b.WriteString("[&")
			b.WriteString(s.Key)
			b.WriteString("]")
		} else {
			b.WriteString("&")
			b.WriteString(s.Key)
		}
	case KeywordSegment:
		b.WriteString(s.Keyword.String())
	case SearchSegment:
		b.WriteString(s.Search.String())
	case CollectorSegment:
		b.WriteString(s.Collector.String())
	case TraverseSegment:
		if addSep {
			b.WriteString(sep.String())
		}
		b.WriteString("**")
	}
}

// ensureEscaped backslash-escapes every unescaped occurrence of each
// symbol within value, without doubling escapes already present.
func ensureEscaped(value string, symbols ...string) string {
	escaped := value
	for _, symbol := range symbols {
		replaceTerm := `\` + symbol
		oparts := strings.Split(escaped, replaceTerm)
		eparts := make([]string, len(oparts))
		for i, opart := range oparts {
			eparts[i] = strings.ReplaceAll(opart, symbol, replaceTerm)
		}
		escaped = strings.Join(eparts, replaceTerm)
	}
	return escaped
}

// EscapePathSection renders section inert for use as a single KEY
// segment within a YAML Path.
func EscapePathSection(section string, sep Separator) string {
	return ensureEscaped(
		section,
		`\`, sep.String(), "(", ")", "[", "]", "^", "$", "%", " ", "'", `"`,
	)
}
