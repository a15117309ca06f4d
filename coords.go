package yamlpath

import (
	"strconv"

	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
)

// Ref locates a node within its parent: the key of an object field or
// set member, or the index of an array element.
type Ref struct {
	Key   string
	Index int
	IsKey bool
}

// KeyRef references an object field or set member by name.
func KeyRef(key string) Ref {
	return Ref{Key: key, IsKey: true}
}

// IndexRef references an array element by position.
func IndexRef(index int) Ref {
	return Ref{Index: index}
}

func (r Ref) String() string {
	if r.IsKey {
		return r.Key
	}
	return strconv.Itoa(r.Index)
}

// AncestryEntry is one step of the lineage from the document root down
// to a resolved node: the containing node and the reference taken
// through it.
type AncestryEntry struct {
	Parent *ir.Node
	Ref    Ref
}

// NodeCoords couples a resolved node with everything needed to mutate
// it in place: its parent, its reference within that parent, the
// translated path that was actually walked, and the full ancestry
// lineage.
//
// A NodeCoords is usually real, wrapping one document node.  Collector
// segments instead produce virtual results: Node is nil and Virtual
// lists the collected coordinates, which each have real parents even
// though the list itself does not exist in the document.
type NodeCoords struct {
	Node      *ir.Node
	Parent    *ir.Node
	ParentRef Ref
	Path      *path.Path
	Ancestry  []AncestryEntry
	Segment   *path.Segment

	Virtual []*NodeCoords
}

// IsVirtual indicates whether this coordinate wraps collected results
// rather than a document node.
func (nc *NodeCoords) IsVirtual() bool {
	return nc.Virtual != nil
}

// Unwrap returns the plain document data behind the coordinate.
// Virtual results unwrap into a fresh array node whose elements are the
// unwrapped collected nodes.
func (nc *NodeCoords) Unwrap() *ir.Node {
	if nc == nil {
		return nil
	}
	if nc.Virtual == nil {
		return nc.Node
	}
	eles := make([]*ir.Node, len(nc.Virtual))
	for i, sub := range nc.Virtual {
		eles[i] = sub.Unwrap()
	}
	return ir.FromSlice(eles)
}

// Deepest drills through single-result virtual wrappers to the
// real coordinate they carry.
func (nc *NodeCoords) Deepest() *NodeCoords {
	if len(nc.Virtual) == 1 {
		return nc.Virtual[0].Deepest()
	}
	return nc
}

func (nc *NodeCoords) String() string {
	if nc.Path == nil {
		return ""
	}
	return nc.Path.String()
}
