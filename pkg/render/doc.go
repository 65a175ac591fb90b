// Package render turns elaborated register-map trees into human and
// machine readable outputs.
//
// # Overview
//
// Three renderers share the same [Visitor] traversal:
//
//   - [WriteTree] prints a hierarchical listing of one element, one line
//     per node with its placement, width, access, and reset.
//   - [WriteList] flattens a memory map into absolute register addresses,
//     one "component:register : 0xADDR" line per register.
//   - [WriteJSON] encodes a whole compilation as a single JSON document,
//     stamped with a generator version, a fresh run id, and a timestamp.
//
// # Traversal
//
// [Walk] visits a tree in document order, occupants only. Renderers that
// care about unallocated space (tree output with ShowGaps) iterate the
// spaces directly instead.
package render
