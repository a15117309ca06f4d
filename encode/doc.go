// Package encode writes IR node trees back out as YAML.
//
// Anchored and pointer-shared nodes are emitted once and aliased
// everywhere else they appear, so documents round-trip through parse
// and encode without duplicating aliased data.  Merge lists render as
// "<<" entries ahead of a mapping's own fields.
//
// # Related Packages
//
//   - github.com/signadot/yamlpath/ir - IR representation
//   - github.com/signadot/yamlpath/parse - Parse YAML text to IR
package encode
