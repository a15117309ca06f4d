// Package path parses YAML Path expressions into typed segments.
//
// # Overview
//
// A YAML Path addresses nodes within a document tree, for example:
//
//   - "warriors[power_level > 9000].name"
//   - "/aliases[&anchor]"
//   - "a.b.**.c"
//   - "(users.*.name)-(admins.*.name)"
//
// Path wraps one expression and lazily parses it into an ordered
// sequence of Segment values.  Each segment is one of KEY,
// INDEX/SLICE, ANCHOR, SEARCH, SEARCH_KEYWORD, COLLECTOR, TRAVERSE
// (**), or MATCH_ALL (*); see SegmentType.
//
// Segments are separated with dots or slashes; when unspecified the
// separator is inferred from the path's first character.  Keys may be
// quoted with ' or ", and backslashes escape the separator and other
// special symbols.  Rendering a parsed path with String re-escapes the
// segments, so parse, render, parse round-trips to the same segments.
package path
