package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signadot/yamlpath/ir"
)

// Parse decodes the first YAML document in d into its node tree.  An
// empty input decodes to a null node.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	docs, err := ParseAll(d, opts...)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return ir.Null(), nil
	}
	return docs[0], nil
}

// ParseAll decodes every document in a possibly multi-document stream.
func ParseAll(d []byte, opts ...ParseOption) ([]*ir.Node, error) {
	o := getParseOpts(opts)
	dec := yaml.NewDecoder(bytes.NewReader(d))
	var docs []*ir.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		c := &converter{opts: o, converted: map[*yaml.Node]*ir.Node{}}
		node, err := c.node(&doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, node)
	}
	return docs, nil
}

// converter tracks which source nodes were already translated so that
// every alias of an anchor resolves to the same *ir.Node pointer.
type converter struct {
	opts      *parseOpts
	converted map[*yaml.Node]*ir.Node
}

func (c *converter) node(y *yaml.Node) (*ir.Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return ir.Null(), nil
		}
		return c.node(y.Content[0])
	case yaml.AliasNode:
		if prev, ok := c.converted[y.Alias]; ok {
			return prev, nil
		}
		return c.node(y.Alias)
	case yaml.ScalarNode:
		return c.scalar(y)
	case yaml.SequenceNode:
		return c.sequence(y)
	case yaml.MappingNode:
		return c.mapping(y)
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d", y.Kind)
}

func (c *converter) scalar(y *yaml.Node) (*ir.Node, error) {
	var out *ir.Node
	switch y.Tag {
	case "!!null":
		out = ir.Null()
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(y.Value))
		if err != nil {
			out = ir.FromString(y.Value)
			break
		}
		out = ir.FromBool(b)
	case "!!int":
		i, err := strconv.ParseInt(y.Value, 0, 64)
		if err != nil {
			out = ir.FromString(y.Value)
			break
		}
		out = ir.FromInt(i)
		out.Number = y.Value
	case "!!float":
		f, err := strconv.ParseFloat(y.Value, 64)
		if err != nil {
			out = ir.FromString(y.Value)
			break
		}
		out = ir.FromFloat(f)
		out.Number = y.Value
	case "!!timestamp":
		t, ok := parseTimestamp(y.Value)
		if !ok {
			out = ir.FromString(y.Value)
			break
		}
		out = ir.FromTime(t)
		out.String = y.Value
	default:
		out = ir.FromString(y.Value)
		if y.Tag != "" && y.Tag != "!!str" {
			out.Tag = y.Tag
		}
	}
	c.fill(out, y)
	// Scalars register too, so aliases of anchored scalars share the
	// converted node.
	c.converted[y] = out
	return out, nil
}

func (c *converter) sequence(y *yaml.Node) (*ir.Node, error) {
	out := &ir.Node{Type: ir.ArrayType}
	c.fill(out, y)
	c.converted[y] = out
	for _, ele := range y.Content {
		node, err := c.node(ele)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, node)
	}
	return out, nil
}

func (c *converter) mapping(y *yaml.Node) (*ir.Node, error) {
	if y.Tag == "!!set" {
		out := &ir.Node{Type: ir.SetType}
		c.fill(out, y)
		c.converted[y] = out
		for i := 0; i < len(y.Content); i += 2 {
			member, err := c.node(y.Content[i])
			if err != nil {
				return nil, err
			}
			out.Values = append(out.Values, member)
		}
		return out, nil
	}

	out := &ir.Node{Type: ir.ObjectType}
	c.fill(out, y)
	c.converted[y] = out
	for i := 0; i+1 < len(y.Content); i += 2 {
		keyNode, valNode := y.Content[i], y.Content[i+1]
		if keyNode.Tag == "!!merge" {
			// "<<" takes one mapping or a sequence of mappings.
			sources := []*yaml.Node{valNode}
			if valNode.Kind == yaml.SequenceNode {
				sources = valNode.Content
			}
			for _, src := range sources {
				srcNode, err := c.node(src)
				if err != nil {
					return nil, err
				}
				out.Merge = append(out.Merge, srcNode)
			}
			continue
		}
		key, err := c.node(keyNode)
		if err != nil {
			return nil, err
		}
		val, err := c.node(valNode)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, key)
		out.Values = append(out.Values, val)
	}
	return out, nil
}

func (c *converter) fill(out *ir.Node, y *yaml.Node) {
	out.Anchor = y.Anchor
	if s := styleOf(y); s != ir.DefaultStyle {
		out.Style = s
	}
	switch y.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if y.Tag != "" && !strings.HasPrefix(y.Tag, "!!") {
			out.Tag = y.Tag
		}
	}
	if c.opts.comments {
		out.HeadComment = y.HeadComment
		out.LineComment = y.LineComment
		out.FootComment = y.FootComment
	}
}

func styleOf(y *yaml.Node) ir.Style {
	switch {
	case y.Style&yaml.SingleQuotedStyle != 0:
		return ir.SingleQuotedStyle
	case y.Style&yaml.DoubleQuotedStyle != 0:
		return ir.DoubleQuotedStyle
	case y.Style&yaml.LiteralStyle != 0:
		return ir.LiteralStyle
	case y.Style&yaml.FoldedStyle != 0:
		return ir.FoldedStyle
	case y.Style&yaml.FlowStyle != 0:
		return ir.FlowStyle
	}
	return ir.DefaultStyle
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(lexical string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, lexical); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
