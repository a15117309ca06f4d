package encode

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/signadot/yamlpath/ir"
)

// Encode writes node back out as YAML.  Each anchored or shared node is
// emitted once; every other location holding the same pointer becomes
// an alias of it.  Shared nodes without an anchor name get a generated
// one.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := getEncState(opts)
	e := &encoder{
		es:    es,
		built: map[*ir.Node]*yaml.Node{},
		names: map[string]bool{},
	}
	if node != nil {
		collectNames(node, e.names, map[*ir.Node]bool{})
	}
	ynode, err := e.node(node)
	if err != nil {
		return err
	}

	buf := bytes.NewBuffer(nil)
	out := yaml.NewEncoder(buf)
	out.SetIndent(es.indent)
	if err := out.Encode(ynode); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if es.colors != nil {
		_, err = w.Write(es.colors.Colorize(buf.Bytes()))
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

type encoder struct {
	es     *EncState
	built  map[*ir.Node]*yaml.Node
	names  map[string]bool
	nextID int
}

func (e *encoder) node(n *ir.Node) (*yaml.Node, error) {
	if n == nil {
		n = ir.Null()
	}
	if prev, ok := e.built[n]; ok {
		if prev.Anchor == "" {
			prev.Anchor = e.genName()
		}
		return &yaml.Node{
			Kind:  yaml.AliasNode,
			Value: prev.Anchor,
			Alias: prev,
		}, nil
	}

	var out *yaml.Node
	var err error
	switch n.Type {
	case ir.NullType:
		out = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case ir.BoolType:
		out = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: n.Scalar()}
	case ir.NumberType:
		tag := "!!float"
		if n.Int64 != nil {
			tag = "!!int"
		}
		out = &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.Scalar()}
	case ir.TimestampType:
		// Lexical timestamps resolve as plain strings on re-read.
		out = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Scalar()}
	case ir.StringType:
		out = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.String}
	case ir.ObjectType:
		out, err = e.mapping(n)
	case ir.ArrayType:
		out, err = e.sequence(n)
	case ir.SetType:
		out, err = e.set(n)
	default:
		return nil, fmt.Errorf("cannot encode node type %s", n.Type)
	}
	if err != nil {
		return nil, err
	}
	// Containers register themselves before descending; scalars only
	// here, so shared scalar pointers alias too.
	e.built[n] = out

	out.Anchor = n.Anchor
	if n.Tag != "" {
		out.Tag = n.Tag
	}
	if s := yamlStyle(n.Style); s != 0 {
		out.Style = s
	}
	if e.es.comments {
		out.HeadComment = n.HeadComment
		out.LineComment = n.LineComment
		out.FootComment = n.FootComment
	}
	return out, nil
}

func (e *encoder) mapping(n *ir.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	e.built[n] = out

	if len(n.Merge) > 0 {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!merge", Value: "<<"}
		var val *yaml.Node
		if len(n.Merge) == 1 {
			src, err := e.node(n.Merge[0])
			if err != nil {
				return nil, err
			}
			val = src
		} else {
			val = &yaml.Node{
				Kind:  yaml.SequenceNode,
				Tag:   "!!seq",
				Style: yaml.FlowStyle,
			}
			for _, merge := range n.Merge {
				src, err := e.node(merge)
				if err != nil {
					return nil, err
				}
				val.Content = append(val.Content, src)
			}
		}
		out.Content = append(out.Content, key, val)
	}

	for i := range n.Fields {
		key, err := e.node(n.Fields[i])
		if err != nil {
			return nil, err
		}
		val, err := e.node(n.Values[i])
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content, key, val)
	}
	return out, nil
}

func (e *encoder) sequence(n *ir.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	e.built[n] = out
	for _, ele := range n.Values {
		node, err := e.node(ele)
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content, node)
	}
	return out, nil
}

func (e *encoder) set(n *ir.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!set"}
	e.built[n] = out
	for _, member := range n.Values {
		key, err := e.node(member)
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content,
			key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"})
	}
	return out, nil
}

func (e *encoder) genName() string {
	for {
		e.nextID++
		name := fmt.Sprintf("id%03d", e.nextID)
		if !e.names[name] {
			e.names[name] = true
			return name
		}
	}
}

func collectNames(
	n *ir.Node, into map[string]bool, seen map[*ir.Node]bool,
) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	if n.Anchor != "" {
		into[n.Anchor] = true
	}
	for _, f := range n.Fields {
		collectNames(f, into, seen)
	}
	for _, v := range n.Values {
		collectNames(v, into, seen)
	}
	for _, m := range n.Merge {
		collectNames(m, into, seen)
	}
}

func yamlStyle(s ir.Style) yaml.Style {
	switch s {
	case ir.SingleQuotedStyle:
		return yaml.SingleQuotedStyle
	case ir.DoubleQuotedStyle:
		return yaml.DoubleQuotedStyle
	case ir.LiteralStyle:
		return yaml.LiteralStyle
	case ir.FoldedStyle:
		return yaml.FoldedStyle
	case ir.FlowStyle:
		return yaml.FlowStyle
	}
	return 0
}
