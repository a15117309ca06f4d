package yamlpath

import (
	"errors"
	"iter"
	"slices"

	"github.com/signadot/yamlpath/anchors"
	"github.com/signadot/yamlpath/debug"
	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
)

// Processor applies YAML Path queries and mutations to one document.
// The document is held as its parsed node tree; aliased data shares
// node pointers, so writes through one location are observed at all of
// them.
type Processor struct {
	Data *ir.Node
}

func NewProcessor(data *ir.Node) *Processor {
	return &Processor{Data: data}
}

// GetNodes resolves the path, yielding the coordinates of every
// matching node.  Missing nodes are created on demand unless MustExist
// is set; WithDefault controls the value created leaves receive.
func (pr *Processor) GetNodes(
	yp *path.Path, options ...Option,
) iter.Seq2[*NodeCoords, error] {
	o := getOpts(options)
	return func(yield func(*NodeCoords, error) bool) {
		if pr.Data == nil {
			return
		}
		yp := preparePath(yp, o)
		r, err := newResolver(pr, yp)
		if err != nil {
			yield(nil, err)
			return
		}
		if debug.Resolve() {
			debug.Logf("resolving %q against the document\n", yp.String())
		}

		found := 0
		visit := func(nc *NodeCoords) error {
			found++
			if !yield(nc, nil) {
				return errStop
			}
			return nil
		}
		if o.mustExist {
			err = r.required(r.rootCursor(), 0, visit)
		} else {
			err = r.optional(r.rootCursor(), 0, o.defaultValue, visit)
		}
		switch {
		case errors.Is(err, errStop):
		case err != nil:
			yield(nil, err)
		case o.mustExist && found == 0:
			yield(nil, resolveErr(yp,
				"required YAML Path does not match any nodes", nil))
		}
	}
}

// GatherNodes resolves the path eagerly, returning every match.
func (pr *Processor) GatherNodes(
	yp *path.Path, options ...Option,
) ([]*NodeCoords, error) {
	var gathered []*NodeCoords
	for nc, err := range pr.GetNodes(yp, options...) {
		if err != nil {
			return nil, err
		}
		gathered = append(gathered, nc)
	}
	return gathered, nil
}

// SetValue writes value into every node the path matches, creating
// missing nodes unless MustExist is set.  Anchored and aliased nodes
// are updated at every location sharing them.
func (pr *Processor) SetValue(
	yp *path.Path, value any, options ...Option,
) error {
	if pr.Data == nil {
		return nil
	}
	o := getOpts(options)
	yp = preparePath(yp, o)
	r, err := newResolver(pr, yp)
	if err != nil {
		return err
	}

	var gathered []*NodeCoords
	collect := func(nc *NodeCoords) error {
		gathered = append(gathered, nc)
		return nil
	}
	if o.mustExist {
		err = r.required(r.rootCursor(), 0, collect)
		if err == nil && len(gathered) == 0 {
			err = resolveErr(yp,
				"required YAML Path does not match any nodes", nil)
		}
	} else {
		err = r.optional(r.rootCursor(), 0, value, collect)
	}
	if err != nil {
		return err
	}
	for _, nc := range gathered {
		if err := pr.applyChange(yp, nc, value, o); err != nil {
			return err
		}
	}
	return nil
}

// DeleteNodes removes every node the path matches, returning the
// coordinates of what was removed.  Matches are deleted in reverse
// resolution order so earlier array indexes stay valid.  Deleting an
// anchored mapping that reaches its parent through a merge key removes
// the merge reference rather than the anchored data.
func (pr *Processor) DeleteNodes(
	yp *path.Path, options ...Option,
) ([]*NodeCoords, error) {
	if pr.Data == nil {
		return nil, nil
	}
	gathered, err := pr.GatherNodes(yp, append(options, MustExist())...)
	if err != nil {
		return nil, err
	}
	if err := pr.DeleteGathered(gathered); err != nil {
		return nil, err
	}
	return gathered, nil
}

// DeleteGathered removes previously gathered nodes, last match first.
func (pr *Processor) DeleteGathered(gathered []*NodeCoords) error {
	for i := len(gathered) - 1; i >= 0; i-- {
		if err := pr.deleteNode(gathered[i]); err != nil {
			return err
		}
	}
	return nil
}

func (pr *Processor) deleteNode(nc *NodeCoords) error {
	if nc.Virtual != nil {
		for i := len(nc.Virtual) - 1; i >= 0; i-- {
			if err := pr.deleteNode(nc.Virtual[i]); err != nil {
				return err
			}
		}
		return nil
	}
	parent := nc.Parent
	if parent == nil {
		return &ResolutionError{
			Path:   nc.String(),
			Reason: "refusing to delete the entire document",
		}
	}

	switch parent.Type {
	case ir.ObjectType:
		for i, src := range parent.Merge {
			if src == nc.Node {
				parent.Merge = slices.Delete(parent.Merge, i, i+1)
				return nil
			}
		}
		if idx := ir.IndexOfField(parent, nc.ParentRef.Key); idx >= 0 {
			parent.Fields = slices.Delete(parent.Fields, idx, idx+1)
			parent.Values = slices.Delete(parent.Values, idx, idx+1)
		}
	case ir.ArrayType, ir.SetType:
		for i, ele := range parent.Values {
			if ele == nc.Node {
				parent.Values = slices.Delete(parent.Values, i, i+1)
				break
			}
		}
	}
	return nil
}

// TagNodes assigns a data-type tag to every node the path matches.
func (pr *Processor) TagNodes(
	yp *path.Path, tag string, options ...Option,
) ([]*NodeCoords, error) {
	gathered, err := pr.GatherNodes(yp, append(options, MustExist())...)
	if err != nil {
		return nil, err
	}
	pr.TagGathered(gathered, tag)
	return gathered, nil
}

// TagGathered assigns a data-type tag to previously gathered nodes.
func (pr *Processor) TagGathered(gathered []*NodeCoords, tag string) {
	normal := ir.NormalizeTag(tag)
	var apply func(nc *NodeCoords)
	apply = func(nc *NodeCoords) {
		if nc.Virtual != nil {
			for _, sub := range nc.Virtual {
				apply(sub)
			}
			return
		}
		if nc.Node != nil {
			nc.Node.Tag = normal
		}
	}
	for _, nc := range gathered {
		apply(nc)
	}
}

// AliasNodes turns every node the path matches into an alias of the
// single node anchorPath names.  The anchor target gains an anchor name
// when it has none: WithAnchorName sets it, otherwise one is derived
// from the target's key and made unique.
func (pr *Processor) AliasNodes(
	yp *path.Path, anchorPath *path.Path, options ...Option,
) error {
	gathered, err := pr.GatherNodes(yp, append(options, MustExist())...)
	if err != nil {
		return err
	}
	return pr.AliasGathered(gathered, anchorPath, options...)
}

// AliasGathered aliases previously gathered nodes to the node
// anchorPath names.
func (pr *Processor) AliasGathered(
	gathered []*NodeCoords, anchorPath *path.Path, options ...Option,
) error {
	o := getOpts(options)
	anchorNode, err := pr.getAnchorNode(preparePath(anchorPath, o), o)
	if err != nil {
		return err
	}
	var apply func(nc *NodeCoords) error
	apply = func(nc *NodeCoords) error {
		if nc.Virtual != nil {
			for _, sub := range nc.Virtual {
				if err := apply(sub); err != nil {
					return err
				}
			}
			return nil
		}
		if nc.Node == anchorNode {
			return nil
		}
		setParentSlot(nc, anchorNode)
		return nil
	}
	for _, nc := range gathered {
		if err := apply(nc); err != nil {
			return err
		}
	}
	return nil
}

// MergeKeyNodes adds the single mapping anchorPath names as a merge-key
// ("<<: *anchor") source of every mapping the path matches.
func (pr *Processor) MergeKeyNodes(
	yp *path.Path, anchorPath *path.Path, options ...Option,
) error {
	gathered, err := pr.GatherNodes(yp, append(options, MustExist())...)
	if err != nil {
		return err
	}
	return pr.MergeKeyGathered(gathered, anchorPath, options...)
}

// MergeKeyGathered adds the node anchorPath names as a merge-key source
// of previously gathered mappings.
func (pr *Processor) MergeKeyGathered(
	gathered []*NodeCoords, anchorPath *path.Path, options ...Option,
) error {
	o := getOpts(options)
	anchorNode, err := pr.getAnchorNode(preparePath(anchorPath, o), o)
	if err != nil {
		return err
	}
	if anchorNode.Type != ir.ObjectType {
		return &ResolutionError{
			Path:   anchorPath.Original(),
			Reason: "only maps can be the source of a merge key",
		}
	}
	var apply func(nc *NodeCoords) error
	apply = func(nc *NodeCoords) error {
		if nc.Virtual != nil {
			for _, sub := range nc.Virtual {
				if err := apply(sub); err != nil {
					return err
				}
			}
			return nil
		}
		node := nc.Node
		if node == nil || node.Type != ir.ObjectType {
			return &ResolutionError{
				Path:   nc.String(),
				Reason: "only maps can be the target of a merge key",
			}
		}
		if node == anchorNode {
			return &ResolutionError{
				Path:   nc.String(),
				Reason: "a map cannot merge itself",
			}
		}
		for _, src := range node.Merge {
			if src == anchorNode {
				return nil
			}
		}
		node.Merge = append(node.Merge, anchorNode)
		return nil
	}
	for _, nc := range gathered {
		if err := apply(nc); err != nil {
			return err
		}
	}
	return nil
}

// getAnchorNode resolves anchorPath to exactly one real node and makes
// sure it carries an anchor name other nodes can reference.
func (pr *Processor) getAnchorNode(
	anchorPath *path.Path, o *opts,
) (*ir.Node, error) {
	r, err := newResolver(pr, anchorPath)
	if err != nil {
		return nil, err
	}
	var gathered []*NodeCoords
	err = r.required(r.rootCursor(), 0, func(nc *NodeCoords) error {
		gathered = append(gathered, nc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(gathered) != 1 {
		return nil, resolveErrf(anchorPath, nil,
			"the anchoring path must match exactly one node, not %d",
			len(gathered))
	}
	target := gathered[0]
	if target.IsVirtual() {
		return nil, resolveErr(anchorPath,
			"cannot anchor a virtual collector result", nil)
	}

	node := target.Node
	known := anchors.Scan(pr.Data)
	if o.anchorName != "" {
		if existing, ok := known[o.anchorName]; ok && existing != node {
			return nil, resolveErrf(anchorPath, nil,
				"anchor name %q is already assigned to another node",
				o.anchorName)
		}
		if node.Anchor != "" && node.Anchor != o.anchorName {
			anchors.Rename(pr.Data, node.Anchor, o.anchorName)
		}
		node.Anchor = o.anchorName
	} else if node.Anchor == "" {
		node.Anchor = anchors.GenerateUniqueName(
			pr.Data, anchorBasename(target), known)
	}
	return node, nil
}

// anchorBasename derives a readable anchor name from how the target
// hangs off its parent; positional references fall back to a generated
// name.
func anchorBasename(nc *NodeCoords) string {
	if nc.ParentRef.IsKey {
		return nc.ParentRef.Key
	}
	return ""
}

// applyChange writes value at one resolved coordinate.  Virtual
// results distribute the write over their members.  A trailing name()
// keyword renames the matched key instead of changing its value.
func (pr *Processor) applyChange(
	yp *path.Path, nc *NodeCoords, value any, o *opts,
) error {
	if nc.Virtual != nil {
		for _, sub := range nc.Virtual {
			if err := pr.applyChange(yp, sub, value, o); err != nil {
				return err
			}
		}
		return nil
	}
	if nc.Segment != nil && nc.Segment.Type == path.KeywordSegment &&
		nc.Segment.Keyword.Keyword == path.NameKeyword {
		return pr.renameKey(yp, nc, value)
	}
	return pr.updateNode(yp, nc, value, o)
}

func (pr *Processor) renameKey(
	yp *path.Path, nc *NodeCoords, value any,
) error {
	parent := nc.Parent
	if parent == nil || parent.Type != ir.ObjectType {
		return resolveErr(yp,
			"only map keys can be renamed", nc.Segment)
	}
	newKey := ir.WrapValue(value).Scalar()
	if ir.Get(parent, newKey) != nil {
		return resolveErrf(yp, nc.Segment,
			"key %q already exists in the parent map", newKey)
	}
	idx := ir.IndexOfField(parent, nc.ParentRef.Key)
	if idx < 0 {
		return resolveErrf(yp, nc.Segment,
			"key %q no longer exists in the parent map", nc.ParentRef.Key)
	}
	renamed := ir.FromString(newKey)
	renamed.Anchor = parent.Fields[idx].Anchor
	parent.Fields[idx] = renamed
	return nil
}

// updateNode replaces the matched node with a fresh node materialized
// from value.  Replacement happens across the whole document by node
// identity, so every alias of the old node observes the new value.
func (pr *Processor) updateNode(
	yp *path.Path, nc *NodeCoords, value any, o *opts,
) error {
	changeNode := nc.Node
	newNode, err := ir.MakeNode(changeNode, value, o.style)
	if err != nil {
		return &ResolutionError{Path: yp.Original(), Reason: err.Error()}
	}
	if o.tag != "" {
		newNode.Tag = ir.NormalizeTag(o.tag)
	}
	if debug.Mutate() {
		debug.Logf("updating %q\n", nc.String())
	}

	if nc.Parent == nil {
		if changeNode != nil && changeNode == pr.Data {
			newNode.CloneTo(pr.Data)
			return nil
		}
		return resolveErr(yp, "matched node has no writable location",
			nc.Segment)
	}
	anchors.Replace(pr.Data, changeNode, newNode)
	setParentSlot(nc, newNode)
	return nil
}

// setParentSlot points the parent's reference for this coordinate at
// repl.  Array and set slots fall back to identity search because
// positions may have shifted since resolution.
func setParentSlot(nc *NodeCoords, repl *ir.Node) {
	parent := nc.Parent
	if parent == nil {
		return
	}
	switch parent.Type {
	case ir.ObjectType:
		if !nc.ParentRef.IsKey {
			return
		}
		if idx := ir.IndexOfField(parent, nc.ParentRef.Key); idx >= 0 {
			parent.Values[idx] = repl
		}
	case ir.ArrayType, ir.SetType:
		for i, ele := range parent.Values {
			if ele == nc.Node {
				parent.Values[i] = repl
				return
			}
		}
		if !nc.ParentRef.IsKey {
			if i := nc.ParentRef.Index; i >= 0 && i < len(parent.Values) {
				parent.Values[i] = repl
			}
		}
	}
}

func preparePath(yp *path.Path, o *opts) *path.Path {
	if o.separator == path.AutoSeparator {
		return yp
	}
	// Rebuild from the original text: the forced separator governs
	// parsing, not just rendering.
	return path.NewWithSeparator(yp.Original(), o.separator)
}
