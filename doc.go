// Package yamlpath queries and mutates YAML documents addressed by
// YAML Paths: hierarchical path expressions with searches, wildcards,
// collectors, and anchor references.
//
// A Processor wraps one parsed document.  GetNodes resolves a path to
// the coordinates of every matching node, optionally creating missing
// nodes on demand; SetValue, DeleteNodes, TagNodes, AliasNodes, and
// MergeKeyNodes mutate the document through those same coordinates
// while preserving anchors, aliases, and merge keys.
//
// Path syntax lives in the path package; the document representation
// lives in the ir package.
package yamlpath
