// Package parse decodes YAML text into IR node trees.
//
// Aliased data decodes to shared pointers: every occurrence of an
// anchor's alias resolves to the same *ir.Node, so a later write
// through one location is observed at all of them.  Merge keys
// ("<<: *anchor") decode into the mapping's Merge list rather than its
// fields.
//
// # Related Packages
//
//   - github.com/signadot/yamlpath/ir - IR representation
//   - github.com/signadot/yamlpath/encode - Encode IR back to YAML
package parse
