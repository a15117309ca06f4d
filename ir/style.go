package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Style selects how a value is represented when a document is written
// back out.  Most styles are presentation-only; BooleanStyle, FloatStyle,
// IntStyle, DateStyle, and TimestampStyle additionally force the value's
// type during materialization.
type Style int

const (
	DefaultStyle Style = iota
	BareStyle
	BooleanStyle
	DateStyle
	DoubleQuotedStyle
	FloatStyle
	FoldedStyle
	IntStyle
	LiteralStyle
	SingleQuotedStyle
	TimestampStyle
	FlowStyle
)

var styleNames = map[Style]string{
	DefaultStyle:      "default",
	BareStyle:         "bare",
	BooleanStyle:      "boolean",
	DateStyle:         "date",
	DoubleQuotedStyle: "dquote",
	FloatStyle:        "float",
	FoldedStyle:       "folded",
	IntStyle:          "int",
	LiteralStyle:      "literal",
	SingleQuotedStyle: "squote",
	TimestampStyle:    "timestamp",
	FlowStyle:         "flow",
}

var namedStyles = func() map[string]Style {
	res := make(map[string]Style, len(styleNames))
	for s, n := range styleNames {
		res[n] = s
	}
	return res
}()

func (s Style) String() string {
	n, ok := styleNames[s]
	if !ok {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return n
}

// StyleNames returns the user-facing style names, sorted.
func StyleNames() []string {
	res := make([]string, 0, len(namedStyles))
	for n := range namedStyles {
		res = append(res, n)
	}
	sort.Strings(res)
	return res
}

// ParseStyle resolves a user-supplied style name.
func ParseStyle(name string) (Style, error) {
	s, ok := namedStyles[strings.ToLower(name)]
	if !ok {
		return DefaultStyle, fmt.Errorf(
			"unknown value format %q, allowed: %s",
			name, strings.Join(StyleNames(), ", "))
	}
	return s, nil
}

// StyleOf reports the best-matching style for a node, falling back on
// the node's type when no explicit presentation style is recorded.
func StyleOf(n *Node) Style {
	if n == nil {
		return DefaultStyle
	}
	if n.Style != DefaultStyle {
		return n.Style
	}
	switch n.Type {
	case BoolType:
		return BooleanStyle
	case NumberType:
		if n.Float64 != nil {
			return FloatStyle
		}
		if n.Int64 != nil {
			return IntStyle
		}
	case TimestampType:
		if isDateOnly(n.String) {
			return DateStyle
		}
		return TimestampStyle
	}
	return DefaultStyle
}

func isDateOnly(lexical string) bool {
	return len(lexical) == len("2006-01-02") &&
		!strings.ContainsAny(lexical, "Tt ")
}
