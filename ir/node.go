package ir

import (
	"maps"
	"slices"
	"strconv"
	"time"
)

// Node is one value in a document tree.  It works as a recursive tagged
// union: the Type field selects which of the remaining fields carry the
// value.  Objects keep key nodes in Fields and value nodes in the
// corresponding slots of Values; arrays and sets keep members in Values
// only.
//
// Aliased data shares a single *Node: every alias location in the tree
// holds the same pointer, so a write through one location is observed at
// all of them.  Merge lists a mapping's merge-key sources (the
// "<<: *anchor" directive) in document order; their key/value pairs are
// logically part of the mapping unless locally overridden.
type Node struct {
	Type   Type
	Tag    string
	Anchor string
	Style  Style

	Fields []*Node
	Values []*Node
	Merge  []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
	Time    *time.Time

	HeadComment string
	LineComment string
	FootComment string
}

func (y *Node) WithTag(tag string) *Node {
	y.Tag = tag
	return y
}

func (y *Node) WithAnchor(anchor string) *Node {
	y.Anchor = anchor
	return y
}

func (y *Node) WithStyle(style Style) *Node {
	y.Style = style
	return y
}

// Clone deep-copies a node.  Aliased descendants are copied like any
// other node: the clone shares no pointers with the original, so it can
// be changed without the change leaking back through an anchor.
func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Tag = y.Tag
	dst.Anchor = y.Anchor
	dst.Style = y.Style
	dst.Values = make([]*Node, len(y.Values))
	dst.Fields = make([]*Node, len(y.Fields))
	for i, yv := range y.Values {
		dst.Values[i] = yv.Clone()
	}
	for i, yf := range y.Fields {
		dst.Fields[i] = yf.Clone()
	}
	if len(y.Merge) > 0 {
		dst.Merge = slices.Clone(y.Merge)
	}

	dst.String = y.String
	dst.Number = y.Number
	dst.Bool = y.Bool
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	if y.Time != nil {
		t := *y.Time
		dst.Time = &t
	}
	dst.HeadComment = y.HeadComment
	dst.LineComment = y.LineComment
	dst.FootComment = y.FootComment
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Number: strconv.FormatInt(v, 10),
		Int64:  &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Number:  formatFloat(f),
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromTime(t time.Time) *Node {
	return &Node{
		Type:   TimestampType,
		String: t.Format(time.RFC3339),
		Time:   &t,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromMap(yMap map[string]*Node) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, 0, len(yMap))
	res.Values = make([]*Node, 0, len(yMap))
	for _, key := range slices.Sorted(maps.Keys(yMap)) {
		res.Fields = append(res.Fields, FromString(key))
		res.Values = append(res.Values, yMap[key])
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		if kv.Key == nil {
			kv.Key = Null()
		}
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	return &Node{Type: ArrayType, Values: ySlice}
}

func FromSet(members []*Node) *Node {
	return &Node{Type: SetType, Values: members}
}

// Get returns the value held locally under field, or nil.  Merge-key
// sources are not consulted; see Lookup.
func Get(y *Node, field string) *Node {
	for i := range y.Fields {
		if y.Fields[i].Scalar() == field {
			return y.Values[i]
		}
	}
	return nil
}

// Lookup resolves field against an object, honoring merge-key sources:
// local fields always win, then merge sources are consulted in document
// order with the first hit taken.
func Lookup(y *Node, field string) *Node {
	if y == nil || y.Type != ObjectType {
		return nil
	}
	if v := Get(y, field); v != nil {
		return v
	}
	for _, src := range y.Merge {
		if src.Type != ObjectType {
			continue
		}
		if v := Lookup(src, field); v != nil {
			return v
		}
	}
	return nil
}

// IndexOfField returns the local slot of field within an object, or -1.
func IndexOfField(y *Node, field string) int {
	for i := range y.Fields {
		if y.Fields[i].Scalar() == field {
			return i
		}
	}
	return -1
}

// Scalar renders the node's own value as a string, the way searches and
// key comparisons see it.
func (y *Node) Scalar() string {
	switch y.Type {
	case NullType:
		return ""
	case BoolType:
		return strconv.FormatBool(y.Bool)
	case NumberType:
		if y.Number != "" {
			return y.Number
		}
		if y.Int64 != nil {
			return strconv.FormatInt(*y.Int64, 10)
		}
		if y.Float64 != nil {
			return formatFloat(*y.Float64)
		}
		return ""
	}
	return y.String
}

// Visit walks the node's values depth-first, calling f before (isPost
// false) and after (isPost true) each node's children.  Returning dive
// false from the pre call skips the children.  Object keys are visited
// before their values.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for i, yy := range y.Values {
			if i < len(y.Fields) {
				if err := y.Fields[i].Visit(f); err != nil {
					return err
				}
			}
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// IsAoH indicates whether the node is an array of hashes: a sequence
// whose elements are all mappings.
func (y *Node) IsAoH() bool {
	if y == nil || y.Type != ArrayType || len(y.Values) == 0 {
		return false
	}
	for _, ele := range y.Values {
		if ele.Type != ObjectType {
			return false
		}
	}
	return true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
