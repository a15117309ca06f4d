package yamlpath

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/signadot/yamlpath/anchors"
	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
	"github.com/signadot/yamlpath/search"
)

// visitFn receives each resolved coordinate; returning errStop ends the
// resolution early without error.
type visitFn func(*NodeCoords) error

var errStop = errors.New("stop resolution")

// resolver walks one parsed path over one document.
type resolver struct {
	pr   *Processor
	yp   *path.Path
	segs []path.Segment
}

func newResolver(pr *Processor, yp *path.Path) (*resolver, error) {
	segs, err := yp.Segments()
	if err != nil {
		return nil, err
	}
	return &resolver{pr: pr, yp: yp, segs: segs}, nil
}

func (r *resolver) rootCursor() *NodeCoords {
	return &NodeCoords{Node: r.pr.Data, Path: path.New("")}
}

// required yields only coordinates that already exist in the document.
func (r *resolver) required(cur *NodeCoords, depth int, visit visitFn) error {
	if depth >= len(r.segs) {
		return visit(cur)
	}
	return r.step(cur, depth, true, func(match *NodeCoords) error {
		return r.required(match, depth+1, visit)
	})
}

// optional behaves like required but creates any missing, deterministic
// steps along the way.  Search and keyword segments never create nodes.
func (r *resolver) optional(
	cur *NodeCoords, depth int, value any, visit visitFn,
) error {
	if depth >= len(r.segs) {
		return visit(cur)
	}

	seg := &r.segs[depth]
	matched := 0
	err := r.step(cur, depth, true, func(match *NodeCoords) error {
		matched++
		if match.Node != nil && match.Node.Type == ir.NullType {
			// A null leaf cannot be descended into; relay it so the
			// caller can overwrite it.
			return visit(match)
		}
		return r.optional(match, depth+1, value, visit)
	})
	if err != nil {
		return err
	}
	if matched > 0 ||
		seg.Type == path.SearchSegment ||
		seg.Type == path.KeywordSegment {
		return nil
	}
	return r.create(cur, depth, value, visit)
}

// create adds the missing node named by segment depth beneath cur.
func (r *resolver) create(
	cur *NodeCoords, depth int, value any, visit visitFn,
) error {
	seg := &r.segs[depth]
	data := cur.Node
	if data == nil {
		return resolveErrf(r.yp, seg,
			"cannot add %s subreference to nothing", seg.Type)
	}

	switch data.Type {
	case ir.ArrayType:
		switch seg.Type {
		case path.AnchorSegment:
			next := r.buildNextNode(depth+1, value)
			ir.AppendListElement(data, next, seg.Key)
			newIdx := len(data.Values) - 1
			return r.optional(
				r.indexChild(cur, next, newIdx, seg), depth+1, value, visit)
		case path.IndexSegment, path.KeySegment:
			var newIdx int
			if seg.Type == path.IndexSegment {
				if seg.Index.Slice {
					return resolveErrf(r.yp, seg,
						"cannot add non-integer %s subreference to arrays",
						seg.Type)
				}
				newIdx = seg.Index.Index
			} else {
				idx, err := strconv.Atoi(seg.Key)
				if err != nil {
					return resolveErrf(r.yp, seg,
						"cannot add non-integer %s subreference to arrays",
						seg.Type)
				}
				newIdx = idx
			}
			for len(data.Values) <= newIdx {
				ir.AppendListElement(
					data, r.buildNextNode(depth+1, value), "")
			}
			return r.optional(
				r.indexChild(cur, data.Values[newIdx], newIdx, seg),
				depth+1, value, visit)
		default:
			return resolveErrf(r.yp, seg,
				"cannot add %s subreference to arrays", seg.Type)
		}

	case ir.ObjectType:
		switch seg.Type {
		case path.AnchorSegment:
			return resolveErr(r.yp, "cannot add anchor keys to maps", seg)
		case path.KeySegment:
			next := r.buildNextNode(depth+1, value)
			data.Fields = append(data.Fields, ir.FromString(seg.Key))
			data.Values = append(data.Values, next)
			return r.optional(
				r.keyChild(cur, next, seg.Key, seg), depth+1, value, visit)
		default:
			return resolveErrf(r.yp, seg,
				"cannot add %s subreference to maps", seg.Type)
		}

	case ir.SetType:
		if seg.Type != path.KeySegment {
			return resolveErrf(r.yp, seg,
				"cannot add %s subreference to sets", seg.Type)
		}
		data.Values = append(data.Values, ir.FromString(seg.Key))
		return visit(cur)

	default:
		return resolveErrf(r.yp, seg,
			"cannot add %s subreference to scalars", seg.Type)
	}
}

// buildNextNode picks the container type the following path segment
// needs, or wraps the leaf value when the path is exhausted.
func (r *resolver) buildNextNode(depth int, value any) *ir.Node {
	if depth < len(r.segs) {
		if r.segs[depth].Type == path.IndexSegment {
			return &ir.Node{Type: ir.ArrayType}
		}
		return &ir.Node{Type: ir.ObjectType}
	}
	return ir.WrapValue(value)
}

// step resolves exactly one path segment against the cursor.
func (r *resolver) step(
	cur *NodeCoords, depth int, traverseLists bool, visit visitFn,
) error {
	seg := &r.segs[depth]

	if cur.Virtual != nil && seg.Type != path.CollectorSegment {
		return r.stepVirtual(cur, seg, depth, traverseLists, visit)
	}

	switch seg.Type {
	case path.KeySegment:
		return r.byKey(cur, seg, depth, traverseLists, visit)
	case path.IndexSegment:
		return r.byIndex(cur, seg, visit)
	case path.MatchAllSegment:
		return r.byMatchAll(cur, seg, depth, visit)
	case path.AnchorSegment:
		return r.byAnchor(cur, seg, visit)
	case path.SearchSegment:
		return r.bySearch(cur, seg, traverseLists, visit)
	case path.KeywordSegment:
		return r.byKeyword(cur, seg, visit)
	case path.CollectorSegment:
		return r.byCollector(cur, seg, depth, visit)
	case path.TraverseSegment:
		return r.byTraverse(cur, seg, depth, visit)
	}
	return nil
}

// stepVirtual applies a segment to collected results.  Indexes select
// within the virtual list; other segments distribute over its elements.
func (r *resolver) stepVirtual(
	cur *NodeCoords, seg *path.Segment, depth int, traverseLists bool,
	visit visitFn,
) error {
	switch seg.Type {
	case path.IndexSegment:
		if seg.Index.Slice {
			intmin, err1 := strconv.Atoi(seg.Index.Min)
			intmax, err2 := strconv.Atoi(seg.Index.Max)
			if err1 != nil || err2 != nil {
				return resolveErrf(r.yp, seg,
					"%q is not an integer array slice", seg.Index.Raw)
			}
			lo, hi := sliceBounds(intmin, intmax, len(cur.Virtual))
			return visit(&NodeCoords{
				Virtual:   cur.Virtual[lo:hi],
				Parent:    cur.Parent,
				ParentRef: cur.ParentRef,
				Path:      cur.Path,
				Ancestry:  cur.Ancestry,
				Segment:   seg,
			})
		}
		idx := seg.Index.Index
		if idx < 0 {
			idx += len(cur.Virtual)
		}
		if idx < 0 || idx >= len(cur.Virtual) {
			return nil
		}
		return visit(cur.Virtual[idx])

	case path.KeywordSegment:
		return r.byKeyword(cur, seg, visit)

	case path.KeySegment:
		if idx, err := strconv.Atoi(seg.Key); err == nil {
			if idx < 0 {
				idx += len(cur.Virtual)
			}
			if idx < 0 || idx >= len(cur.Virtual) {
				return nil
			}
			return visit(cur.Virtual[idx])
		}
		fallthrough

	default:
		for _, sub := range cur.Virtual {
			if err := r.step(sub, depth, traverseLists, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *resolver) byKey(
	cur *NodeCoords, seg *path.Segment, depth int, traverseLists bool,
	visit visitFn,
) error {
	data := cur.Node
	if data == nil {
		return nil
	}
	key := seg.Key

	switch data.Type {
	case ir.ObjectType:
		for _, kv := range objectItems(data) {
			if kv.Key.Scalar() == key {
				return visit(r.keyChild(cur, kv.Val, key, seg))
			}
		}

	case ir.ArrayType:
		if idx, err := strconv.Atoi(key); err == nil {
			// A bare integer key doubles as an array index.
			if idx < 0 {
				idx += len(data.Values)
			}
			if idx >= 0 && idx < len(data.Values) {
				return visit(r.indexChild(cur, data.Values[idx], idx, seg))
			}
			return nil
		}
		if !traverseLists {
			return nil
		}
		// Pass-through search against a possible array-of-maps.
		for i, ele := range data.Values {
			eleCur := r.indexChild(cur, ele, i, seg)
			if err := r.step(eleCur, depth, traverseLists, visit); err != nil {
				return err
			}
		}

	case ir.SetType:
		for _, ele := range data.Values {
			if ele.Scalar() == key {
				return visit(r.keyChild(cur, ele, key, seg))
			}
		}
	}
	return nil
}

func (r *resolver) byIndex(
	cur *NodeCoords, seg *path.Segment, visit visitFn,
) error {
	data := cur.Node
	if data == nil {
		return nil
	}
	terms := seg.Index

	if terms.Slice {
		switch data.Type {
		case ir.ArrayType:
			intmin, err1 := strconv.Atoi(terms.Min)
			intmax, err2 := strconv.Atoi(terms.Max)
			if err1 != nil || err2 != nil {
				return resolveErrf(r.yp, seg,
					"%q is not an integer array slice", terms.Raw)
			}
			lo, hi := sliceBounds(intmin, intmax, len(data.Values))
			sliced := make([]*NodeCoords, 0, hi-lo)
			for i := lo; i < hi; i++ {
				sliced = append(sliced,
					r.indexChild(cur, data.Values[i], i, seg))
			}
			if lo == hi && lo < len(data.Values) {
				// An empty slice with equal, in-range bounds selects a
				// one-element window.
				sliced = append(sliced,
					r.indexChild(cur, data.Values[lo], lo, seg))
			}
			return visit(&NodeCoords{
				Virtual:   sliced,
				Parent:    data,
				ParentRef: IndexRef(lo),
				Path:      appendRaw(cur.Path, "["+terms.Raw+"]"),
				Ancestry:  extendAncestry(cur.Ancestry, data, IndexRef(lo)),
				Segment:   seg,
			})

		case ir.ObjectType:
			// Map keys slice lexically.
			for _, kv := range objectItems(data) {
				key := kv.Key.Scalar()
				if terms.Min <= key && key <= terms.Max {
					if err := visit(
						r.keyChild(cur, kv.Val, key, seg)); err != nil {
						return err
					}
				}
			}

		case ir.SetType:
			for _, ele := range data.Values {
				val := ele.Scalar()
				if terms.Min <= val && val <= terms.Max {
					if err := visit(
						r.keyChild(cur, ele, val, seg)); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	idx := terms.Index
	switch data.Type {
	case ir.ArrayType:
		if idx < 0 {
			idx += len(data.Values)
		}
		if idx >= 0 && idx < len(data.Values) {
			return visit(r.indexChild(cur, data.Values[idx], idx, seg))
		}
	case ir.SetType:
		return resolveErr(r.yp,
			"array indexing is invalid against unordered set data; match"+
				" set entries by their values instead", seg)
	}
	return nil
}

func (r *resolver) byAnchor(
	cur *NodeCoords, seg *path.Segment, visit visitFn,
) error {
	data := cur.Node
	if data == nil {
		return nil
	}
	name := seg.Key
	np := appendRaw(cur.Path, "[&"+name+"]")

	// The first sighting of the name is its definition, later ones are
	// aliases; both kinds resolve.
	terms := &path.SearchTerms{Method: path.EqualsMethod, Term: name}
	seenNames := map[string]bool{}
	matchAnchor := func(node *ir.Node) (bool, error) {
		m, err := search.MatchAnchor(node, terms, seenNames, true, true)
		if err != nil {
			return false, err
		}
		return m == search.Match || m == search.AliasIncluded, nil
	}

	found := func(node, parent *ir.Node, ref Ref) error {
		if inAncestry(cur.Ancestry, node) {
			return &RecursionError{Path: r.yp.Original(), Anchor: name}
		}
		return visit(&NodeCoords{
			Node:      node,
			Parent:    parent,
			ParentRef: ref,
			Path:      np,
			Ancestry:  extendAncestry(cur.Ancestry, parent, ref),
			Segment:   seg,
		})
	}

	switch data.Type {
	case ir.ArrayType:
		for i, ele := range data.Values {
			hit, err := matchAnchor(ele)
			if err != nil {
				return err
			}
			if hit {
				if err := found(ele, data, IndexRef(i)); err != nil {
					return err
				}
			}
		}

	case ir.ObjectType:
		if len(data.Merge) > 0 {
			if compare := anchors.Scan(r.pr.Data)[name]; compare != nil {
				for _, src := range data.Merge {
					if src == compare {
						if err := found(
							compare, data, KeyRef(name)); err != nil {
							return err
						}
						break
					}
				}
			}
		}
		for _, kv := range objectItems(data) {
			keyHit, err := matchAnchor(kv.Key)
			if err != nil {
				return err
			}
			valHit, err := matchAnchor(kv.Val)
			if err != nil {
				return err
			}
			if keyHit || valHit {
				ref := KeyRef(kv.Key.Scalar())
				if err := found(kv.Val, data, ref); err != nil {
					return err
				}
			}
		}

	case ir.SetType:
		for _, ele := range data.Values {
			hit, err := matchAnchor(ele)
			if err != nil {
				return err
			}
			if hit {
				if err := found(ele, data, KeyRef(ele.Scalar())); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// bySearch filters the children of the cursor with a comparison; when
// the named attribute is absent a descendant search decides whether the
// whole node qualifies.
func (r *resolver) bySearch(
	cur *NodeCoords, seg *path.Segment, traverseLists bool, visit visitFn,
) error {
	data := cur.Node
	if data == nil {
		return nil
	}
	st := seg.Search
	keep := func(matches bool) bool { return matches != st.Inverted }

	switch data.Type {
	case ir.ArrayType:
		if !traverseLists {
			return nil
		}
		isAoH := arrayOfMaps(data, true)
		searchKeys := st.Attribute == "."
		for i, ele := range data.Values {
			var matches bool
			var err error
			switch {
			case searchKeys:
				if isAoH && ele.Type == ir.ObjectType &&
					ir.Lookup(ele, st.Term) != nil {
					matches = true
				} else {
					matches, err = search.Matches(st.Method, st.Term, ele)
				}
			case ele.Type == ir.ObjectType &&
				ir.Lookup(ele, st.Attribute) != nil:
				matches, err = search.Matches(
					st.Method, st.Term, ir.Lookup(ele, st.Attribute))
			default:
				eleCur := r.indexChild(cur, ele, i, seg)
				matches, err = r.descendantMatch(eleCur, st)
			}
			if err != nil {
				return err
			}
			if keep(matches) {
				if err := visit(
					r.indexChild(cur, ele, i, seg)); err != nil {
					return err
				}
			}
		}

	case ir.ObjectType:
		if st.Attribute == "." {
			// Match each key's name.
			for _, kv := range objectItems(data) {
				key := kv.Key.Scalar()
				matches, err := search.MatchesString(st.Method, st.Term, key)
				if err != nil {
					return err
				}
				if keep(matches) {
					if err := visit(
						r.keyChild(cur, kv.Val, key, seg)); err != nil {
						return err
					}
				}
			}
			return nil
		}
		if val := ir.Lookup(data, st.Attribute); val != nil {
			matches, err := search.Matches(st.Method, st.Term, val)
			if err != nil {
				return err
			}
			if keep(matches) {
				return visit(r.keyChild(cur, val, st.Attribute, seg))
			}
			return nil
		}
		// Yield the node itself when any descendant matches.
		matched, err := r.descendantSearch(cur, st, keep)
		if err != nil {
			return err
		}
		if matched {
			return visit(withSegment(cur, seg))
		}

	case ir.SetType:
		for _, ele := range data.Values {
			matches, err := search.Matches(st.Method, st.Term, ele)
			if err != nil {
				return err
			}
			if keep(matches) {
				if err := visit(
					r.keyChild(cur, ele, ele.Scalar(), seg)); err != nil {
					return err
				}
			}
		}

	default:
		matches, err := search.Matches(st.Method, st.Term, data)
		if err != nil {
			return err
		}
		if keep(matches) {
			return visit(withSegment(cur, seg))
		}
	}
	return nil
}

// descendantMatch resolves the search attribute as a sub-path of the
// cursor and compares the first node it yields.
func (r *resolver) descendantMatch(
	cur *NodeCoords, st *path.SearchTerms,
) (bool, error) {
	sub, err := r.subResolver(st.Attribute)
	if err != nil {
		return false, err
	}
	matched := false
	var matchErr error
	err = sub.required(cur, 0, func(nc *NodeCoords) error {
		matched, matchErr = search.Matches(st.Method, st.Term, nc.Unwrap())
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return false, err
	}
	return matched, matchErr
}

// descendantSearch scans every node the search attribute resolves to
// beneath the cursor, stopping at the first that satisfies keep.
func (r *resolver) descendantSearch(
	cur *NodeCoords, st *path.SearchTerms, keep func(bool) bool,
) (bool, error) {
	sub, err := r.subResolver(st.Attribute)
	if err != nil {
		return false, err
	}
	matched := false
	var matchErr error
	err = sub.required(cur, 0, func(nc *NodeCoords) error {
		var m bool
		m, matchErr = search.Matches(st.Method, st.Term, nc.Unwrap())
		if matchErr != nil {
			return errStop
		}
		if keep(m) {
			matched = true
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return false, err
	}
	return matched, matchErr
}

func (r *resolver) subResolver(expression string) (*resolver, error) {
	sub := path.New(expression)
	segs, err := sub.Segments()
	if err != nil {
		return nil, err
	}
	return &resolver{pr: r.pr, yp: sub, segs: segs}, nil
}

// byCollector gathers an inner path's results into a virtual list,
// then folds any directly following addition and subtraction
// collectors into it.
func (r *resolver) byCollector(
	cur *NodeCoords, seg *path.Segment, depth int, visit visitFn,
) error {
	terms := seg.Collector
	if terms.Operation != path.NoneOperator {
		// Operation collectors are consumed by the collector they
		// follow; relay the data unchanged.
		return visit(cur)
	}

	sub, err := r.subResolver(terms.Expression)
	if err != nil {
		return err
	}
	var collected []*NodeCoords
	err = sub.required(cur, 0, func(nc *NodeCoords) error {
		collected = append(collected, nc)
		return nil
	})
	if err != nil {
		return err
	}

	// A single array result flattens into its elements so that
	// (path)[0] addresses the first match instead of the whole list.
	if len(collected) == 1 {
		only := collected[0]
		switch {
		case only.Virtual != nil:
			collected = only.Virtual
		case only.Node != nil && only.Node.Type == ir.ArrayType:
			flat := make([]*NodeCoords, len(only.Node.Values))
			for i, ele := range only.Node.Values {
				flat[i] = &NodeCoords{
					Node:      ele,
					Parent:    only.Parent,
					ParentRef: IndexRef(i),
					Path:      only.Path,
					Ancestry:  only.Ancestry,
					Segment:   seg,
				}
			}
			collected = flat
		}
	}

	for peek := depth + 1; peek < len(r.segs); peek++ {
		peekSeg := &r.segs[peek]
		if peekSeg.Type != path.CollectorSegment {
			break
		}
		switch peekSeg.Collector.Operation {
		case path.AdditionOperator:
			collected, err = r.collectorAddition(cur, peekSeg, collected)
		case path.SubtractionOperator:
			collected, err = r.collectorSubtraction(cur, peekSeg, collected)
		default:
			return resolveErr(r.yp,
				"the & collector operator is not supported; use + or -",
				peekSeg)
		}
		if err != nil {
			return err
		}
	}

	if len(collected) == 0 {
		return nil
	}
	return visit(&NodeCoords{
		Virtual:   collected,
		Parent:    cur.Parent,
		ParentRef: cur.ParentRef,
		Path:      cur.Path,
		Ancestry:  cur.Ancestry,
		Segment:   seg,
	})
}

func (r *resolver) collectorAddition(
	cur *NodeCoords, seg *path.Segment, collected []*NodeCoords,
) ([]*NodeCoords, error) {
	sub, err := r.subResolver(seg.Collector.Expression)
	if err != nil {
		return nil, err
	}
	err = sub.required(cur, 0, func(nc *NodeCoords) error {
		switch {
		case nc.Virtual != nil:
			collected = append(collected, nc.Virtual...)
		case nc.Node != nil && nc.Node.Type == ir.ArrayType:
			for i, ele := range nc.Node.Values {
				collected = append(collected, &NodeCoords{
					Node:      ele,
					Parent:    nc.Node,
					ParentRef: IndexRef(i),
					Path:      appendRaw(nc.Path, fmt.Sprintf("[%d]", i)),
					Ancestry:  extendAncestry(nc.Ancestry, nc.Node, IndexRef(i)),
					Segment:   seg,
				})
			}
		default:
			collected = append(collected, nc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collected, nil
}

func (r *resolver) collectorSubtraction(
	cur *NodeCoords, seg *path.Segment, collected []*NodeCoords,
) ([]*NodeCoords, error) {
	sub, err := r.subResolver(seg.Collector.Expression)
	if err != nil {
		return nil, err
	}

	// Gather the values to remove.  Container results are flattened
	// into their members; values held under a map key carry the key so
	// like-named fields can be matched.
	var remValues []*ir.Node
	var remKeys []string
	err = sub.required(cur, 0, func(nc *NodeCoords) error {
		node := nc.Unwrap()
		if node != nil &&
			(node.Type == ir.ArrayType || node.Type == ir.SetType) {
			remValues = append(remValues, node.Values...)
			return nil
		}
		remValues = append(remValues, node)
		if nc.Parent != nil && nc.Parent.Type == ir.ObjectType &&
			nc.ParentRef.IsKey {
			remKeys = append(remKeys, nc.ParentRef.Key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var kept []*NodeCoords
	for _, lhs := range collected {
		node := lhs.Unwrap()
		remove := false
		for _, rem := range remValues {
			if ir.Equal(rem, node) {
				remove = true
				break
			}
		}
		if !remove && node != nil && node.Type == ir.ObjectType &&
			lhs.ParentRef.IsKey {
			for _, key := range remKeys {
				if key == lhs.ParentRef.Key {
					remove = true
					break
				}
			}
		}
		if !remove {
			kept = append(kept, lhs.Deepest())
		}
	}
	return kept, nil
}

// byTraverse descends through every descendant.  With no following
// segment it yields all leaves; otherwise it yields each node whose
// direct evaluation of the next segment matches, letting the caller
// resume normal resolution there.
func (r *resolver) byTraverse(
	cur *NodeCoords, seg *path.Segment, depth int, visit visitFn,
) error {
	data := cur.Node
	last := depth+1 == len(r.segs)

	if last {
		switch {
		case data == nil || data.Type == ir.NullType:
			return visit(withSegment(cur, seg))
		case data.Type == ir.ObjectType:
			for _, kv := range objectItems(data) {
				child := r.keyChild(cur, kv.Val, kv.Key.Scalar(), seg)
				if err := r.byTraverse(child, seg, depth, visit); err != nil {
					return err
				}
			}
		case data.Type == ir.ArrayType:
			for i, ele := range data.Values {
				child := r.indexChild(cur, ele, i, seg)
				if err := r.byTraverse(child, seg, depth, visit); err != nil {
					return err
				}
			}
		case data.Type == ir.SetType:
			// Set members cannot hold complex children.
			for _, ele := range data.Values {
				if err := visit(
					r.keyChild(cur, ele, ele.Scalar(), seg)); err != nil {
					return err
				}
			}
		default:
			return visit(withSegment(cur, seg))
		}
		return nil
	}

	// Check this very node against the next segment; each direct match
	// re-yields the node so the caller resumes the path from here.
	peekSeg := &r.segs[depth+1]
	matches := 0
	err := r.step(cur, depth+1, false, func(*NodeCoords) error {
		matches++
		return nil
	})
	if err != nil {
		return err
	}
	for i := 0; i < matches; i++ {
		if err := visit(withSegment(cur, peekSeg)); err != nil {
			return err
		}
	}

	if data == nil {
		return nil
	}
	switch data.Type {
	case ir.ObjectType:
		for _, kv := range objectItems(data) {
			if inAncestry(cur.Ancestry, kv.Val) {
				return &RecursionError{
					Path: r.yp.Original(), Anchor: kv.Val.Anchor}
			}
			child := r.keyChild(cur, kv.Val, kv.Key.Scalar(), seg)
			if err := r.byTraverse(child, seg, depth, visit); err != nil {
				return err
			}
		}
	case ir.ArrayType:
		for i, ele := range data.Values {
			if inAncestry(cur.Ancestry, ele) {
				return &RecursionError{
					Path: r.yp.Original(), Anchor: ele.Anchor}
			}
			child := r.indexChild(cur, ele, i, seg)
			if err := r.byTraverse(child, seg, depth, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// byMatchAll yields every immediate child; with a following segment it
// instead yields only children having at least one match for it.
func (r *resolver) byMatchAll(
	cur *NodeCoords, seg *path.Segment, depth int, visit visitFn,
) error {
	data := cur.Node
	if data == nil {
		return nil
	}
	filtered := depth+1 < len(r.segs)

	yieldChild := func(child *NodeCoords) error {
		if !filtered {
			return visit(child)
		}
		hit := false
		err := r.step(child, depth+1, true, func(*NodeCoords) error {
			hit = true
			return errStop
		})
		if err != nil && !errors.Is(err, errStop) {
			return err
		}
		if hit {
			return visit(child)
		}
		return nil
	}

	switch data.Type {
	case ir.ObjectType:
		for _, kv := range objectItems(data) {
			child := r.keyChild(cur, kv.Val, kv.Key.Scalar(), seg)
			if err := yieldChild(child); err != nil {
				return err
			}
		}
	case ir.ArrayType:
		for i, ele := range data.Values {
			child := r.indexChild(cur, ele, i, seg)
			if err := yieldChild(child); err != nil {
				return err
			}
		}
	case ir.SetType:
		if filtered {
			return nil
		}
		for _, ele := range data.Values {
			if err := visit(
				r.keyChild(cur, ele, ele.Scalar(), seg)); err != nil {
				return err
			}
		}
	}
	return nil
}

// keyChild builds the coordinate of an object field, set member, or
// other key-referenced child of the cursor's node.
func (r *resolver) keyChild(
	cur *NodeCoords, node *ir.Node, key string, seg *path.Segment,
) *NodeCoords {
	ref := KeyRef(key)
	return &NodeCoords{
		Node:      node,
		Parent:    cur.Node,
		ParentRef: ref,
		Path:      appendKey(cur.Path, key),
		Ancestry:  extendAncestry(cur.Ancestry, cur.Node, ref),
		Segment:   seg,
	}
}

func (r *resolver) indexChild(
	cur *NodeCoords, node *ir.Node, idx int, seg *path.Segment,
) *NodeCoords {
	ref := IndexRef(idx)
	return &NodeCoords{
		Node:      node,
		Parent:    cur.Node,
		ParentRef: ref,
		Path:      appendRaw(cur.Path, fmt.Sprintf("[%d]", idx)),
		Ancestry:  extendAncestry(cur.Ancestry, cur.Node, ref),
		Segment:   seg,
	}
}

func withSegment(cur *NodeCoords, seg *path.Segment) *NodeCoords {
	out := *cur
	out.Segment = seg
	return &out
}

func appendKey(p *path.Path, key string) *path.Path {
	np := p.Copy()
	np.Append(path.EscapePathSection(key, np.Separator()))
	return np
}

func appendRaw(p *path.Path, segment string) *path.Path {
	np := p.Copy()
	np.Append(segment)
	return np
}

func extendAncestry(
	anc []AncestryEntry, parent *ir.Node, ref Ref,
) []AncestryEntry {
	out := make([]AncestryEntry, len(anc)+1)
	copy(out, anc)
	out[len(anc)] = AncestryEntry{Parent: parent, Ref: ref}
	return out
}

func inAncestry(anc []AncestryEntry, node *ir.Node) bool {
	for i := range anc {
		if anc[i].Parent == node {
			return true
		}
	}
	return false
}

func sliceBounds(lo, hi, length int) (int, int) {
	if lo < 0 {
		lo += length
	}
	if hi < 0 {
		hi += length
	}
	lo = max(lo, 0)
	hi = min(hi, length)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// objectItems lists an object's effective fields: local pairs first,
// then merge-key pairs not locally overridden, sources consulted in
// document order.
func objectItems(y *ir.Node) []ir.KeyVal {
	var out []ir.KeyVal
	seen := map[string]bool{}
	visited := map[*ir.Node]bool{}
	var add func(n *ir.Node)
	add = func(n *ir.Node) {
		if n == nil || n.Type != ir.ObjectType || visited[n] {
			return
		}
		visited[n] = true
		for i := range n.Fields {
			key := n.Fields[i].Scalar()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, ir.KeyVal{Key: n.Fields[i], Val: n.Values[i]})
		}
		for _, src := range n.Merge {
			add(src)
		}
	}
	add(y)
	return out
}

// arrayOfMaps indicates whether every array element is a mapping;
// acceptNulls additionally admits null elements.
func arrayOfMaps(y *ir.Node, acceptNulls bool) bool {
	if y == nil || y.Type != ir.ArrayType || len(y.Values) == 0 {
		return false
	}
	for _, ele := range y.Values {
		if ele.Type == ir.ObjectType {
			continue
		}
		if acceptNulls && ele.Type == ir.NullType {
			continue
		}
		return false
	}
	return true
}
