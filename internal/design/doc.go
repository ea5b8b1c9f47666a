// Package design implements the instance, options, and combine protocol that
// every sheetkit design node follows.
//
// A design node is a struct with unexported fields, getters, and validating
// setters. Its behavior is described once by a Schema: a table of Scalar,
// Child, and List field descriptors. The schema provides
//
//   - New and Reset, which put every field at its default;
//   - IsDefault, which reports whether a node carries any design at all;
//   - Clone, which copies a node together with all of its children;
//   - Combine, which fills fields still at their defaults from a reference
//     node and never overwrites a value the node already customized;
//   - Apply, which overwrites the fields a partial options value sets, after
//     validating all of them;
//   - a JSON codec that omits defaults and rejects unknown keys.
//
// Node types wrap the schema in methods so callers never see it:
//
//	func (f *Font) Combine(ref *Font) { fontSchema.Combine(f, ref) }
//
// The zero value of a node struct is not a valid node; use its constructor.
package design
