// Package anchors tracks YAML anchor definitions within a document and
// rewrites references to them.
//
// Aliased data shares one *ir.Node, so most operations here resolve to
// identity checks: an anchor name maps to exactly one node, and
// replacing a node by identity updates every alias location at once.
// The registry is re-derived per call; it is never cached across
// document mutations.
package anchors

import (
	"fmt"

	"github.com/signadot/yamlpath/ir"
)

// Scan collects every anchor defined in the document, mapping its name
// to the defining node.  When a name is defined more than once the last
// definition in document order wins, matching how YAML loaders resolve
// duplicate anchors.
func Scan(root *ir.Node) map[string]*ir.Node {
	res := map[string]*ir.Node{}
	if root == nil {
		return res
	}
	seen := map[*ir.Node]bool{}
	_ = root.Visit(func(y *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		// Aliases share pointers; descend into each node once.
		if seen[y] {
			return false, nil
		}
		seen[y] = true
		if y.Anchor != "" {
			res[y.Anchor] = y
		}
		return true, nil
	})
	return res
}

// NameOf returns a node's anchor name, or "" when it has none.
func NameOf(node *ir.Node) string {
	if node == nil {
		return ""
	}
	return node.Anchor
}

// Rename changes an anchor's name everywhere it is defined.  Aliases
// need no adjustment because they share the defining node.
func Rename(root *ir.Node, anchor, newAnchor string) {
	for _, node := range Scan(root) {
		if node.Anchor == anchor {
			node.Anchor = newAnchor
		}
	}
}

// Replace rewrites every reference to old within the document with
// repl: object keys, object values, array and set members, and
// merge-key directives.  Replacement is by node identity, which is what
// keeps every alias location synchronized after a value change.
func Replace(root *ir.Node, old, repl *ir.Node) {
	if root == nil || old == nil || root == old {
		return
	}
	seen := map[*ir.Node]bool{}
	replace(root, old, repl, seen)
}

func replace(node *ir.Node, old, repl *ir.Node, seen map[*ir.Node]bool) {
	if node == nil || seen[node] {
		return
	}
	seen[node] = true
	ReplaceMergeRef(node, old, repl)
	for i, key := range node.Fields {
		if key == old {
			node.Fields[i] = repl
		} else {
			replace(key, old, repl, seen)
		}
	}
	for i, val := range node.Values {
		if val == old {
			node.Values[i] = repl
		} else {
			replace(val, old, repl, seen)
		}
	}
}

// ReplaceMergeRef swaps old for repl within a single mapping's
// merge-key directive list.
func ReplaceMergeRef(data *ir.Node, old, repl *ir.Node) {
	for i, src := range data.Merge {
		if src == old {
			data.Merge[i] = repl
		}
	}
}

// GenerateUniqueName derives an anchor name not yet used in the
// document.  A non-empty basename is preferred as-is; on conflict, or
// when no basename is available, numbered candidates (basename001,
// id001, ...) are probed until one is free.
func GenerateUniqueName(
	root *ir.Node, basename string, known map[string]*ir.Node,
) string {
	if known == nil {
		known = Scan(root)
	}

	base := "id"
	if basename != "" {
		base = basename
		if _, taken := known[base]; !taken {
			return base
		}
	}

	for id := 1; ; id++ {
		candidate := fmt.Sprintf("%s%03d", base, id)
		if _, taken := known[candidate]; !taken {
			return candidate
		}
	}
}
