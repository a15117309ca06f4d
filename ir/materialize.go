package ir

import (
	"strconv"
	"strings"
	"time"
)

// timestampLayouts covers the ISO-8601 forms admitted by the YAML
// timestamp type, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MakeNode creates a new node from value, copying the anchor of source
// so the replacement can stand in for it at every alias site.  The
// style both selects presentation and, for the typed styles, forces
// coercion of value; DefaultStyle infers the best type from the value
// itself.
func MakeNode(source *Node, value any, style Style) (*Node, error) {
	var res *Node
	switch style {
	case BareStyle, DoubleQuotedStyle, SingleQuotedStyle,
		FoldedStyle, LiteralStyle:
		res = FromString(stringValue(value))
		res.Style = style
	case BooleanStyle:
		b, err := parseBool(value)
		if err != nil {
			return nil, err
		}
		res = FromBool(b)
	case IntStyle:
		switch v := value.(type) {
		case int:
			res = FromInt(int64(v))
		case int64:
			res = FromInt(v)
		default:
			i, err := strconv.ParseInt(stringValue(value), 10, 64)
			if err != nil {
				return nil, &CoercionError{
					Style: style, Value: stringValue(value),
				}
			}
			res = FromInt(i)
		}
	case FloatStyle:
		switch v := value.(type) {
		case float64:
			res = FromFloat(v)
		default:
			f, err := strconv.ParseFloat(stringValue(v), 64)
			if err != nil {
				return nil, &CoercionError{
					Style: style, Value: stringValue(value),
				}
			}
			res = FromFloat(f)
		}
	case DateStyle, TimestampStyle:
		switch v := value.(type) {
		case time.Time:
			res = FromTime(v)
		default:
			t, lexical, err := parseTimestamp(stringValue(v))
			if err != nil {
				return nil, &CoercionError{
					Style: style, Value: stringValue(value),
				}
			}
			res = FromTime(t)
			res.String = lexical
		}
	default:
		res = WrapValue(value)
		if source != nil && res.Type == source.Type &&
			source.Style != DefaultStyle && res.Type.IsScalar() {
			res.Style = source.Style
		}
	}
	if source != nil {
		res.Anchor = source.Anchor
	}
	return res, nil
}

// WrapValue coerces a native Go value into a node.  Strings are
// interpreted: null, boolean, integer, and float spellings become their
// typed nodes, anything else stays a string.
func WrapValue(value any) *Node {
	switch v := value.(type) {
	case nil:
		return Null()
	case *Node:
		return v
	case bool:
		return FromBool(v)
	case int:
		return FromInt(int64(v))
	case int64:
		return FromInt(v)
	case float64:
		return FromFloat(v)
	case time.Time:
		return FromTime(v)
	case []*Node:
		return FromSlice(v)
	case map[string]*Node:
		return FromMap(v)
	case string:
		return wrapString(v)
	}
	return FromString(stringValue(value))
}

func wrapString(v string) *Node {
	switch v {
	case "", "~", "null", "Null", "NULL":
		if v == "" {
			return FromString(v)
		}
		n := Null()
		n.String = v
		return n
	case "true", "True", "TRUE":
		return FromBool(true)
	case "false", "False", "FALSE":
		return FromBool(false)
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		n := FromInt(i)
		n.Number = v
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		n := FromFloat(f)
		n.Number = v
		return n
	}
	return FromString(v)
}

// AppendListElement appends value to an array, optionally anchoring the
// new element, and returns the appended node.
func AppendListElement(data *Node, value *Node, anchor string) *Node {
	if value == nil {
		value = Null()
	}
	if anchor != "" {
		value.Anchor = anchor
	}
	data.Values = append(data.Values, value)
	return value
}

// NormalizeTag ensures tag text carries its leading "!" handle.
func NormalizeTag(tag string) string {
	if tag == "" || strings.HasPrefix(tag, "!") {
		return tag
	}
	return "!" + tag
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *Node:
		return v.Scalar()
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return ""
}

func parseBool(value any) (bool, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	switch strings.ToLower(stringValue(value)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	}
	return false, &CoercionError{
		Style: BooleanStyle, Value: stringValue(value),
	}
}

func parseTimestamp(lexical string) (time.Time, string, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, lexical); err == nil {
			return t, lexical, nil
		}
	}
	return time.Time{}, lexical, &CoercionError{
		Style: TimestampStyle, Value: lexical,
	}
}
