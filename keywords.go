package yamlpath

import (
	"strconv"

	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
	"github.com/signadot/yamlpath/search"
)

func (r *resolver) byKeyword(
	cur *NodeCoords, seg *path.Segment, visit visitFn,
) error {
	kt := seg.Keyword
	params, err := kt.Params()
	if err != nil {
		return resolveErr(r.yp, err.Error(), seg)
	}
	if cur.Virtual == nil && cur.Node == nil {
		switch kt.Keyword {
		case path.NameKeyword, path.ParentKeyword:
			// These operate on the node's location, not its value.
		default:
			return nil
		}
	}
	switch kt.Keyword {
	case path.HasChildKeyword:
		return r.hasChild(cur, seg, params, visit)
	case path.NameKeyword:
		return r.nameOf(cur, seg, params, visit)
	case path.MaxKeyword:
		return r.minMax(cur, seg, params, true, visit)
	case path.MinKeyword:
		return r.minMax(cur, seg, params, false, visit)
	case path.ParentKeyword:
		return r.parentOf(cur, seg, params, visit)
	case path.DistinctKeyword:
		return r.distinct(cur, seg, params, visit)
	case path.UniqueKeyword:
		return r.unique(cur, seg, params, visit)
	}
	return resolveErrf(r.yp, seg,
		"unsupported search keyword %q", kt.Keyword)
}

// hasChild yields the node when it holds at least one of the named
// children: a key of a mapping, or a value of a sequence or set.
// Arrays of mappings test each element instead.
func (r *resolver) hasChild(
	cur *NodeCoords, seg *path.Segment, params []string, visit visitFn,
) error {
	if len(params) == 0 {
		return resolveErr(r.yp,
			"the has_child keyword requires at least one name parameter", seg)
	}
	invert := seg.Keyword.Inverted

	if cur.Virtual != nil {
		for _, sub := range cur.Virtual {
			if err := r.hasChild(sub, seg, params, visit); err != nil {
				return err
			}
		}
		return nil
	}

	data := cur.Node
	switch data.Type {
	case ir.ObjectType:
		matched := false
		for _, key := range params {
			if ir.Lookup(data, key) != nil {
				matched = true
				break
			}
		}
		if matched != invert {
			return visit(withSegment(cur, seg))
		}

	case ir.ArrayType:
		if arrayOfMaps(data, false) {
			for i, ele := range data.Values {
				child := r.indexChild(cur, ele, i, seg)
				if err := r.hasChild(child, seg, params, visit); err != nil {
					return err
				}
			}
			return nil
		}
		matched := false
	members:
		for _, ele := range data.Values {
			for _, want := range params {
				if ele.Scalar() == want {
					matched = true
					break members
				}
			}
		}
		if matched != invert {
			return visit(withSegment(cur, seg))
		}

	case ir.SetType:
		matched := false
	setMembers:
		for _, ele := range data.Values {
			for _, want := range params {
				if ele.Scalar() == want {
					matched = true
					break setMembers
				}
			}
		}
		if matched != invert {
			return visit(withSegment(cur, seg))
		}

	case ir.NullType:
		// A null has no children at all.
		if invert {
			return visit(withSegment(cur, seg))
		}

	default:
		return resolveErr(r.yp,
			"the has_child keyword does not operate against scalars", seg)
	}
	return nil
}

// nameOf yields the node's own name within its parent rather than its
// value: the key of a mapping entry or the index of an array element.
func (r *resolver) nameOf(
	cur *NodeCoords, seg *path.Segment, params []string, visit visitFn,
) error {
	if len(params) > 0 {
		return resolveErr(r.yp, "the name keyword takes no parameters", seg)
	}
	if seg.Keyword.Inverted {
		return resolveErr(r.yp, "the name keyword cannot be inverted", seg)
	}
	var node *ir.Node
	if cur.ParentRef.IsKey {
		node = ir.FromString(cur.ParentRef.Key)
	} else {
		node = ir.FromInt(int64(cur.ParentRef.Index))
	}
	return visit(&NodeCoords{
		Node:      node,
		Parent:    cur.Parent,
		ParentRef: cur.ParentRef,
		Path:      cur.Path,
		Ancestry:  cur.Ancestry,
		Segment:   seg,
	})
}

// parentOf steps back up the resolved lineage: parent() yields the
// direct parent, parent(n) the nth ancestor, and parent(0), like any
// level below one, the node itself.
func (r *resolver) parentOf(
	cur *NodeCoords, seg *path.Segment, params []string, visit visitFn,
) error {
	if seg.Keyword.Inverted {
		return resolveErr(r.yp, "the parent keyword cannot be inverted", seg)
	}
	if len(params) > 1 {
		return resolveErr(r.yp,
			"the parent keyword takes at most one parameter", seg)
	}
	steps := 1
	if len(params) == 1 {
		var err error
		steps, err = strconv.Atoi(params[0])
		if err != nil {
			return resolveErrf(r.yp, seg,
				"the parent keyword requires an integer number of levels,"+
					" not %q", params[0])
		}
	}
	if steps < 1 {
		return visit(withSegment(cur, seg))
	}
	if steps > len(cur.Ancestry) {
		return resolveErrf(r.yp, seg,
			"cannot ascend %d levels from a node %d levels deep",
			steps, len(cur.Ancestry))
	}

	cut := len(cur.Ancestry) - steps
	target := cur.Ancestry[cut].Parent
	anc := cur.Ancestry[:cut]
	np := cur.Path.Copy()
	for i := 0; i < steps; i++ {
		if _, err := np.Pop(); err != nil {
			break
		}
	}
	out := &NodeCoords{
		Node:     target,
		Path:     np,
		Ancestry: anc,
		Segment:  seg,
	}
	if cut > 0 {
		out.Parent = anc[cut-1].Parent
		out.ParentRef = anc[cut-1].Ref
	}
	return visit(out)
}

// minMax yields the entries holding the extreme value among the node's
// children.  A parameter names the key to rank mapping entries by;
// scalar collections rank their own values.  Ties all yield; inversion
// yields everything that lost instead.
func (r *resolver) minMax(
	cur *NodeCoords, seg *path.Segment, params []string, wantMax bool,
	visit visitFn,
) error {
	name, method := "max", path.GreaterThanMethod
	if !wantMax {
		name, method = "min", path.LessThanMethod
	}
	if len(params) > 1 {
		return resolveErrf(r.yp, seg,
			"the %s keyword takes at most one key parameter", name)
	}
	key := ""
	if len(params) == 1 {
		key = params[0]
	}
	invert := seg.Keyword.Inverted

	type candidate struct {
		nc  *NodeCoords
		val *ir.Node
	}
	var cands []candidate
	keyed := func(row *ir.Node) (*ir.Node, error) {
		if key == "" {
			return nil, resolveErrf(r.yp, seg,
				"the %s keyword requires a key parameter to rank map"+
					" entries by", name)
		}
		return ir.Lookup(row, key), nil
	}

	switch {
	case cur.Virtual != nil:
		for _, sub := range cur.Virtual {
			val := sub.Unwrap()
			if val != nil && val.Type == ir.ObjectType {
				var err error
				if val, err = keyed(val); err != nil {
					return err
				}
			} else if key != "" {
				return resolveErrf(r.yp, seg,
					"the %s keyword cannot rank scalars by key %q", name, key)
			}
			cands = append(cands, candidate{sub, val})
		}

	case cur.Node.Type == ir.ObjectType:
		rows := objectItems(cur.Node)
		allMaps := len(rows) > 0
		for _, kv := range rows {
			if kv.Val.Type != ir.ObjectType {
				allMaps = false
				break
			}
		}
		for _, kv := range rows {
			child := r.keyChild(cur, kv.Val, kv.Key.Scalar(), seg)
			val := kv.Val
			if allMaps {
				var err error
				if val, err = keyed(val); err != nil {
					return err
				}
			} else if key != "" {
				return resolveErrf(r.yp, seg,
					"the %s keyword cannot rank scalars by key %q", name, key)
			}
			cands = append(cands, candidate{child, val})
		}

	case cur.Node.Type == ir.ArrayType:
		aoh := arrayOfMaps(cur.Node, false)
		for i, ele := range cur.Node.Values {
			child := r.indexChild(cur, ele, i, seg)
			val := ele
			if aoh {
				var err error
				if val, err = keyed(val); err != nil {
					return err
				}
			} else if key != "" {
				return resolveErrf(r.yp, seg,
					"the %s keyword cannot rank scalars by key %q", name, key)
			}
			cands = append(cands, candidate{child, val})
		}

	case cur.Node.Type == ir.SetType:
		if key != "" {
			return resolveErrf(r.yp, seg,
				"the %s keyword cannot rank scalars by key %q", name, key)
		}
		for _, ele := range cur.Node.Values {
			child := r.keyChild(cur, ele, ele.Scalar(), seg)
			cands = append(cands, candidate{child, ele})
		}

	default:
		// A scalar is trivially its own extreme.
		if key != "" {
			return resolveErrf(r.yp, seg,
				"the %s keyword cannot rank scalars by key %q", name, key)
		}
		if !invert {
			return visit(withSegment(cur, seg))
		}
		return nil
	}

	var best *ir.Node
	var matches, discards []*NodeCoords
	for _, c := range cands {
		if c.val == nil {
			continue
		}
		if best == nil {
			best = c.val
			matches = append(matches, c.nc)
			continue
		}
		better, err := search.Matches(method, best.Scalar(), c.val)
		if err != nil {
			return err
		}
		if better {
			discards = append(discards, matches...)
			matches = []*NodeCoords{c.nc}
			best = c.val
			continue
		}
		tie, err := search.Matches(path.EqualsMethod, best.Scalar(), c.val)
		if err != nil {
			return err
		}
		if tie {
			matches = append(matches, c.nc)
		} else {
			discards = append(discards, c.nc)
		}
	}

	out := matches
	if invert {
		out = discards
	}
	for _, nc := range out {
		if err := visit(nc); err != nil {
			return err
		}
	}
	return nil
}

// distinct yields the first occurrence of every distinct child value.
func (r *resolver) distinct(
	cur *NodeCoords, seg *path.Segment, params []string, visit visitFn,
) error {
	if seg.Keyword.Inverted {
		return resolveErr(r.yp,
			"the distinct keyword cannot be inverted", seg)
	}
	if len(params) > 0 {
		return resolveErr(r.yp,
			"the distinct keyword takes no parameters", seg)
	}
	seen := map[uint64][]*ir.Node{}
	return r.eachChild(cur, seg, func(nc *NodeCoords) error {
		node := nc.Unwrap()
		h := node.Hash()
		for _, prev := range seen[h] {
			if ir.Equal(prev, node) {
				return nil
			}
		}
		seen[h] = append(seen[h], node)
		return visit(nc)
	})
}

// unique yields the children whose values occur exactly once; inverted,
// it yields every occurrence of the duplicated values instead.
func (r *resolver) unique(
	cur *NodeCoords, seg *path.Segment, params []string, visit visitFn,
) error {
	if len(params) > 0 {
		return resolveErr(r.yp,
			"the unique keyword takes no parameters", seg)
	}
	invert := seg.Keyword.Inverted

	type bucket struct {
		node   *ir.Node
		coords []*NodeCoords
	}
	buckets := map[uint64][]*bucket{}
	var order []*bucket
	err := r.eachChild(cur, seg, func(nc *NodeCoords) error {
		node := nc.Unwrap()
		h := node.Hash()
		for _, b := range buckets[h] {
			if ir.Equal(b.node, node) {
				b.coords = append(b.coords, nc)
				return nil
			}
		}
		b := &bucket{node: node, coords: []*NodeCoords{nc}}
		buckets[h] = append(buckets[h], b)
		order = append(order, b)
		return nil
	})
	if err != nil {
		return err
	}
	for _, b := range order {
		if (len(b.coords) == 1) == invert {
			continue
		}
		for _, nc := range b.coords {
			if err := visit(nc); err != nil {
				return err
			}
		}
	}
	return nil
}

// eachChild hands every immediate child coordinate of the cursor to fn.
func (r *resolver) eachChild(
	cur *NodeCoords, seg *path.Segment, fn visitFn,
) error {
	if cur.Virtual != nil {
		for _, sub := range cur.Virtual {
			if err := fn(withSegment(sub, seg)); err != nil {
				return err
			}
		}
		return nil
	}
	data := cur.Node
	switch data.Type {
	case ir.ObjectType:
		for _, kv := range objectItems(data) {
			if err := fn(
				r.keyChild(cur, kv.Val, kv.Key.Scalar(), seg)); err != nil {
				return err
			}
		}
	case ir.ArrayType:
		for i, ele := range data.Values {
			if err := fn(r.indexChild(cur, ele, i, seg)); err != nil {
				return err
			}
		}
	case ir.SetType:
		for _, ele := range data.Values {
			if err := fn(
				r.keyChild(cur, ele, ele.Scalar(), seg)); err != nil {
				return err
			}
		}
	default:
		return resolveErrf(r.yp, seg,
			"the %s keyword does not operate against scalars",
			seg.Keyword.Keyword)
	}
	return nil
}
