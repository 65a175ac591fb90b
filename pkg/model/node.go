// Package model implements the element model of a register map: typed nodes
// for components, registers, fields, enums, arrays, instances, and memory
// maps, and the recursive elaboration that assigns every node its place.
//
// Elaboration of a node runs in four phases:
//  1. attribute phase: declared attributes are converted and defaulted,
//     inheritable values are copied from the enclosing element, and anything
//     undeclared is rejected;
//  2. before-children: the node's own Space is dimensioned and given its
//     placement policies;
//  3. children: nested tags are elaborated recursively, then placed into the
//     Space - authored offsets first, floating elements into the remaining
//     gaps;
//  4. after-children: attributes that depend on the finished layout (sizes,
//     frame sizes, derived widths, composite resets, aggregate access
//     flags) are filled in.
//
// After its document finishes elaborating, a node tree is immutable: output
// backends walk it through read-only accessors and the ordered segment view
// of each Space.
package model

import (
	"github.com/hdlutil/regmap/pkg/document"
	"github.com/hdlutil/regmap/pkg/space"
)

// Node is one elaborated element. The Kind tags which attribute payload is
// present; shared structure (name, offset and size in the parent's units,
// description paragraphs, the child space) lives directly on the node.
//
// Parent is a plain back-reference; ownership runs strictly downward through
// the child Space.
type Node struct {
	Kind   Kind
	Name   string
	Offset OptUint // position in the parent's space, once given or placed
	Size   OptUint // extent in the parent's space units
	Desc   []string
	Loc    document.Location

	Parent   *Node
	Children *space.Space[*Node] // nil for enums and instances

	attrs attrs
}

// attrs is the per-kind payload, tagged by the node's Kind. Enums carry no
// payload: their single value is the node's Offset.
type attrs interface{ attrKind() Kind }

// ComponentAttrs is the payload of a KindComponent node. Width is the bus
// width in bits; the component's space is measured in words of that width.
type ComponentAttrs struct {
	Width     uint64
	ReadOnly  OptBool
	WriteOnly OptBool
}

func (*ComponentAttrs) attrKind() Kind { return KindComponent }

// RegisterAttrs is the payload of a KindRegister node. Width is the data
// width in bits, at most the bus width; Reset is the register's composite
// reset value once derived.
type RegisterAttrs struct {
	Width     OptUint
	ReadOnly  OptBool
	WriteOnly OptBool
	Format    Format
	Reset     OptUint
}

func (*RegisterAttrs) attrKind() Kind { return KindRegister }

// FieldAttrs is the payload of a KindField node. Width is the field's bit
// count, derived from its enumeration when not authored.
type FieldAttrs struct {
	Width     OptUint
	ReadOnly  OptBool
	WriteOnly OptBool
	Format    Format
	Reset     uint64
}

func (*FieldAttrs) attrKind() Kind { return KindField }

// ArrayAttrs is the payload of a KindArray node. Elem is the kind the array
// repeats; Framesize is the extent of one repetition in the parent's units.
type ArrayAttrs struct {
	Count     uint64
	Framesize OptUint
	Elem      Kind
}

func (*ArrayAttrs) attrKind() Kind { return KindArray }

// InstanceAttrs is the payload of a KindInstance node. Binding is the
// component the instance aliases, resolved eagerly at construction.
type InstanceAttrs struct {
	Extern  string
	Binding *Node
}

func (*InstanceAttrs) attrKind() Kind { return KindInstance }

// MemoryMapAttrs is the payload of a KindMemoryMap node. Spacing is the
// address granularity instances are rounded up to; StrictAlign makes
// authored instance offsets subject to the binary alignment rule.
type MemoryMapAttrs struct {
	Base        uint64
	Spacing     uint64
	StrictAlign bool
}

func (*MemoryMapAttrs) attrKind() Kind { return KindMemoryMap }

// Component returns the component payload, or nil for other kinds.
func (n *Node) Component() *ComponentAttrs { a, _ := n.attrs.(*ComponentAttrs); return a }

// Register returns the register payload, or nil for other kinds.
func (n *Node) Register() *RegisterAttrs { a, _ := n.attrs.(*RegisterAttrs); return a }

// Field returns the field payload, or nil for other kinds.
func (n *Node) Field() *FieldAttrs { a, _ := n.attrs.(*FieldAttrs); return a }

// Array returns the array payload, or nil for other kinds.
func (n *Node) Array() *ArrayAttrs { a, _ := n.attrs.(*ArrayAttrs); return a }

// Instance returns the instance payload, or nil for other kinds.
func (n *Node) Instance() *InstanceAttrs { a, _ := n.attrs.(*InstanceAttrs); return a }

// MemoryMap returns the memory-map payload, or nil for other kinds.
func (n *Node) MemoryMap() *MemoryMapAttrs { a, _ := n.attrs.(*MemoryMapAttrs); return a }

// Value returns an enum's assigned value. Valid once the enum is placed.
func (n *Node) Value() uint64 { return n.Offset.Val }

// Width returns the node's bit width for the kinds that carry one.
func (n *Node) Width() OptUint {
	switch a := n.attrs.(type) {
	case *ComponentAttrs:
		return KnownUint(a.Width)
	case *RegisterAttrs:
		return a.Width
	case *FieldAttrs:
		return a.Width
	}
	return OptUint{}
}

// Access returns the node's access flags for the kinds that carry them.
func (n *Node) Access() (ro, wo OptBool) {
	switch a := n.attrs.(type) {
	case *ComponentAttrs:
		return a.ReadOnly, a.WriteOnly
	case *RegisterAttrs:
		return a.ReadOnly, a.WriteOnly
	case *FieldAttrs:
		return a.ReadOnly, a.WriteOnly
	}
	return OptBool{}, OptBool{}
}

/// enclosing returns the nearest non-array ancestor: the element a child
// inherits attributes from. Registers inside a register array inherit from
// the component, not the array.
func (n *Node) enclosing() *Node {
	p := n.Parent
	for p != nil && p.Kind == KindArray {
		p = p.Parent
	}
	return p
}

// ByteWidth returns the node's width in bytes for width-bearing kinds.
func (n *Node) ByteWidth() uint64 { return n.Width().Val / 8 }

// FindOffset returns the node's offset accumulated up to the root of its
// tree, in each level's own units.
func (n *Node) FindOffset() uint64 {
	off := n.Offset.Val
	if n.Parent != nil {
		off += n.Parent.FindOffset()
	}
	return off
}

// placementSize returns the number of parent-space units the node occupies.
// Only meaningful once the node's own elaboration has finished.
func (n *Node) placementSize() uint64 {
	switch n.Kind {
	case KindEnum:
		return 1
	case KindField:
		return n.Field().Width.Val
	case KindArray:
		a := n.Array()
		return a.Framesize.Val * a.Count
	default:
		return n.Size.Val
	}
}
