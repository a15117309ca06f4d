// Package ir provides the intermediate representation (IR) for YAML
// documents addressed by YAML Paths.
//
// # Overview
//
// The IR package defines the core data structures for representing YAML
// documents as a tree of nodes.  Documents parsed from text or created
// programmatically are represented as ir.Node trees; the path and
// processor packages resolve and mutate these trees.
//
// The IR works as a recursive tagged union structure, where values are
// placed in fields depending on the node type.  It preserves the YAML
// details the query engine needs to keep intact across a load, mutate,
// dump cycle: anchors, tags, merge-key directives, scalar presentation
// styles, and comments.
//
// # Node Types
//
// The Type field indicates the node's type:
//
//   - NullType: null value
//   - BoolType: boolean (true/false)
//   - NumberType: numeric value (int64 or float64)
//   - StringType: string value
//   - TimestampType: ISO-8601 date or timestamp
//   - ObjectType: key-value pairs (fields and values)
//   - ArrayType: ordered list of nodes
//   - SetType: unordered, value-addressed members
//
// For ObjectType nodes, Fields[i] is the key for the value at
// Values[i].  ArrayType and SetType nodes use Values only.
//
// # Anchors and Aliases
//
// A node defining an anchor carries its name in the Anchor field.  An
// alias is not a distinct node: every location referencing the anchor
// holds the same *Node pointer.  Mutation helpers therefore replace
// nodes by identity so all alias locations stay synchronized, and the
// Merge field records the anchored mappings a "<<:" merge-key directive
// pulls into an object.
package ir
