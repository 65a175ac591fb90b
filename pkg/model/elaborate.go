package model

import (
	"errors"
	"math/bits"
	"strings"

	"github.com/hdlutil/regmap/pkg/document"
	"github.com/hdlutil/regmap/pkg/rmerr"
	"github.com/hdlutil/regmap/pkg/space"
)

// ElaborateComponent turns a parsed component document into a finished node
// tree. The root tag must be a component.
func ElaborateComponent(tag *document.Tag) (*Node, error) {
	if tag.Name != "component" {
		return nil, rmerr.At(rmerr.New(rmerr.CodeBadRoot, "root tag is %q, want component", tag.Name), loc(tag))
	}
	c := &elabCtx{}
	return c.elaborate(tag, nil)
}

// ElaborateMemoryMap turns a parsed memory-map document into a finished node
// tree, binding each instance against the supplied components-by-name map.
// All components must be elaborated before any memory map is; the map is
// read-only here.
func ElaborateMemoryMap(tag *document.Tag, components map[string]*Node) (*Node, error) {
	if tag.Name != "memorymap" {
		return nil, rmerr.At(rmerr.New(rmerr.CodeBadRoot, "root tag is %q, want memorymap", tag.Name), loc(tag))
	}
	c := &elabCtx{components: components}
	return c.elaborate(tag, nil)
}

// elabCtx carries the cross-document state an elaboration needs: the
// components available for instance binding. It is nil-safe for the
// component phase, which binds nothing.
type elabCtx struct {
	components map[string]*Node
}

func loc(tag *document.Tag) rmerr.Location {
	return rmerr.Location{File: tag.Loc.File, Line: tag.Loc.Line}
}

// elaborate runs the four-phase lifecycle for one tag and everything under
// it. Any failure is stamped with the nearest responsible tag's location.
func (c *elabCtx) elaborate(tag *document.Tag, parent *Node) (*Node, error) {
	kind, elem, ok := tagKind(tag.Name)
	if !ok {
		return nil, rmerr.At(rmerr.New(rmerr.CodeUnknownTag, "unknown tag %q", tag.Name), loc(tag))
	}

	n, err := c.build(tag, parent, kind, elem)
	if err != nil {
		return nil, rmerr.At(err, loc(tag))
	}
	if err := n.beforeChildren(); err != nil {
		return nil, rmerr.At(err, loc(tag))
	}
	if err := c.children(tag, n); err != nil {
		return nil, rmerr.At(err, loc(tag))
	}
	if err := n.afterChildren(); err != nil {
		return nil, rmerr.At(err, loc(tag))
	}
	return n, nil
}

// beforeChildren dimensions the node's own Space and picks its policies,
// before any child is read.
func (n *Node) beforeChildren() error {
	switch n.Kind {
	case KindComponent:
		// Words of the bus width. A declared size fixes the layout; an
		// undeclared one grows to the next power of two.
		if n.Size.Known {
			n.Children = space.New[*Node](n.Size.Val, space.PlacerBinary, space.ResizerNone)
		} else {
			n.Children = space.New[*Node](1, space.PlacerBinary, space.ResizerBinary)
		}

	case KindRegister:
		// Bits across the full bus width, even when the register's own
		// data width is narrower.
		bus := n.Register().Width
		if enc := n.enclosing(); enc != nil && enc.Width().Known {
			bus = enc.Width()
		}
		if !bus.Known {
			return rmerr.New(rmerr.CodeAttrMissing, "register %q has no width to size its field space", n.Name)
		}
		n.Children = space.New[*Node](bus.Val*n.Size.Val, space.PlacerLinear, space.ResizerNone)

	case KindField:
		// Enumeration value slots: 2^width when the width is known,
		// otherwise growable until the values tell us the width.
		if w := n.Field().Width; w.Known {
			n.Children = space.New[*Node](uint64(1)<<w.Val, space.PlacerLinear, space.ResizerNone)
		} else {
			n.Children = space.New[*Node](1, space.PlacerLinear, space.ResizerLinear)
		}

	case KindArray:
		n.Children = space.New[*Node](n.Array().Framesize.Or(1), space.PlacerLinear, space.ResizerBinary)

	case KindMemoryMap:
		a := n.MemoryMap()
		n.Children = space.New[*Node](n.Size.Or(1), space.PlacerBinary, space.ResizerBinary)
		n.Children.EnforceFixedRules = a.StrictAlign
	}
	return nil
}

// children elaborates and places everything nested inside the tag: free
// text and description tags fold into the paragraph list, element tags are
// recursively elaborated and then placed - authored offsets first, in
// source order, then the rest floating into the remaining gaps. Each placed
// child learns its final offset.
func (c *elabCtx) children(tag *document.Tag, n *Node) error {
	for _, text := range tag.Text {
		if !n.Kind.allowsText() {
			return rmerr.New(rmerr.CodeFreeText, "%s %q does not allow free text", n.Kind, n.Name)
		}
		n.Desc = append(n.Desc, normalizeText(text))
	}

	var elems []*Node
	for _, child := range tag.Children {
		if isDescTag(child.Name) {
			para, err := descText(child)
			if err != nil {
				return err
			}
			n.Desc = append(n.Desc, para)
			continue
		}
		ck, ce, ok := tagKind(child.Name)
		if !ok || !childAllowed(n, ck, ce) {
			return rmerr.At(rmerr.New(rmerr.CodeUnknownTag, "%s %q cannot contain tag %q", n.Kind, n.Name, child.Name), loc(child))
		}
		cn, err := c.elaborate(child, n)
		if err != nil {
			return err
		}
		elems = append(elems, cn)
	}

	// Authored positions win: fixed placements land before any floating
	// element claims a gap.
	for _, cn := range elems {
		if cn.Offset.Known {
			if err := n.placeChild(cn, true); err != nil {
				return err
			}
		}
	}
	for _, cn := range elems {
		if !cn.Offset.Known {
			if err := n.placeChild(cn, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// descText validates a description tag and returns its normalized paragraph.
func descText(tag *document.Tag) (string, error) {
	if len(tag.Attrs) > 0 {
		for name := range tag.Attrs {
			return "", rmerr.At(rmerr.New(rmerr.CodeAttrUnsupported, "%s: unsupported attribute %q", tag.Name, name), loc(tag))
		}
	}
	if len(tag.Children) > 0 {
		return "", rmerr.At(rmerr.New(rmerr.CodeUnknownTag, "%s cannot contain tag %q", tag.Name, tag.Children[0].Name), loc(tag))
	}
	return normalizeText(strings.Join(tag.Text, " ")), nil
}

// placeChild inserts an elaborated child into the node's Space and records
// the final location back onto the child.
func (n *Node) placeChild(child *Node, fixed bool) error {
	size := child.placementSize()
	var p space.Placed[*Node]
	var err error
	if fixed {
		p, err = n.Children.AddAt(child, size, child.Offset.Val)
	} else {
		p, err = n.Children.Add(child, size)
	}
	if err != nil {
		return rmerr.At(placementError(err, n, child), loc2(child.Loc))
	}
	child.Offset = KnownUint(p.Start)
	return nil
}

func loc2(l document.Location) rmerr.Location {
	return rmerr.Location{File: l.File, Line: l.Line}
}

// placementError translates an allocator failure into the structured
// taxonomy, naming the two elements involved where the allocator knows them.
func placementError(err error, parent, child *Node) error {
	var ce *space.ConflictError[*Node]
	var ae *space.AlignError[*Node]
	switch {
	case errors.As(err, &ce):
		return rmerr.Wrap(rmerr.CodePlaceBlocked, err, "cannot place %s %q in %s %q: blocked by %q",
			child.Kind, child.Name, parent.Kind, parent.Name, ce.Blocking.Obj.Name)
	case errors.As(err, &ae):
		return rmerr.Wrap(rmerr.CodePlaceAlignment, err, "%s %q is misaligned in %s %q",
			child.Kind, child.Name, parent.Kind, parent.Name)
	default:
		return rmerr.Wrap(rmerr.CodePlaceNoRoom, err, "no room for %s %q in %s %q",
			child.Kind, child.Name, parent.Kind, parent.Name)
	}
}

// afterChildren fills in the attributes that depend on the completed child
// layout.
func (n *Node) afterChildren() error {
	switch n.Kind {
	case KindField:
		a := n.Field()
		if !a.Width.Known {
			a.Width = KnownUint(1)
			if items := n.Children.Items(); len(items) > 0 {
				highest := items[len(items)-1].Start
				a.Width = KnownUint(max(1, uint64(bits.Len64(highest))))
			}
		}
		if !a.ReadOnly.Known {
			a.ReadOnly = KnownBool(false)
		}
		if !a.WriteOnly.Known {
			a.WriteOnly = KnownBool(false)
		}
		n.Size = KnownUint(a.Width.Val)

	case KindRegister:
		a := n.Register()
		if !a.ReadOnly.Known {
			a.ReadOnly = KnownBool(andAccess(n, func(f *FieldAttrs) OptBool { return f.ReadOnly }))
		}
		if !a.WriteOnly.Known {
			a.WriteOnly = KnownBool(andAccess(n, func(f *FieldAttrs) OptBool { return f.WriteOnly }))
		}
		if err := n.syntheticField(); err != nil {
			return err
		}
		if !a.Reset.Known {
			// Composite reset: every direct field's reset shifted to its
			// bit position. Field arrays repeat and have no single
			// position, so they contribute nothing here.
			var reset uint64
			for _, it := range n.Children.Items() {
				if f := it.Obj.Field(); f != nil {
					reset |= f.Reset << it.Start
				}
			}
			a.Reset = KnownUint(reset)
		}

	case KindComponent:
		a := n.Component()
		if !n.Size.Known {
			n.Size = KnownUint(n.Children.Size())
		}
		if !a.ReadOnly.Known {
			a.ReadOnly = KnownBool(andRegisters(n, func(r *RegisterAttrs) OptBool { return r.ReadOnly }))
		}
		if !a.WriteOnly.Known {
			a.WriteOnly = KnownBool(andRegisters(n, func(r *RegisterAttrs) OptBool { return r.WriteOnly }))
		}

	case KindArray:
		a := n.Array()
		if !a.Framesize.Known {
			a.Framesize = KnownUint(n.Children.Size())
		}
		n.Size = KnownUint(a.Framesize.Val * a.Count)
		if n.Name == "" {
			items := n.Children.Items()
			if len(items) != 1 {
				return rmerr.New(rmerr.CodeUnnamedArray, "array with %d elements needs a name", len(items))
			}
			n.Name = items[0].Obj.Name
		}

	case KindMemoryMap:
		if !n.Size.Known {
			n.Size = KnownUint(n.Children.Size())
		}
	}
	return nil
}

// syntheticField gives a fieldless register narrower than its frame a
// single field spanning the data width, then widens the register to the
// full frame. A fieldless register already at full width keeps an empty
// field space.
func (n *Node) syntheticField() error {
	a := n.Register()
	frame := n.Children.Size()
	if n.Children.Len() > 0 || a.Width.Val >= frame {
		return nil
	}
	f := &Node{
		Kind:   KindField,
		Name:   n.Name,
		Loc:    n.Loc,
		Parent: n,
		Desc:   n.Desc,
		Size:   KnownUint(a.Width.Val),
		attrs: &FieldAttrs{
			Width:     a.Width,
			ReadOnly:  a.ReadOnly,
			WriteOnly: a.WriteOnly,
			Format:    a.Format,
			Reset:     a.Reset.Or(0),
		},
	}
	if err := n.placeChild(f, false); err != nil {
		return err
	}
	a.Width = KnownUint(frame)
	return nil
}

// andAccess resolves a register access flag as the AND of its fields'
// resolved flags, descending through field arrays. A register with no
// fields resolves to false.
func andAccess(n *Node, get func(*FieldAttrs) OptBool) bool {
	fields := collectKind(n, KindField)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if !get(f.Field()).Val {
			return false
		}
	}
	return true
}

// andRegisters resolves a component access flag as the AND over every
// register under it, descending through arrays. No registers means false.
func andRegisters(n *Node, get func(*RegisterAttrs) OptBool) bool {
	regs := collectKind(n, KindRegister)
	if len(regs) == 0 {
		return false
	}
	for _, r := range regs {
		if !get(r.Register()).Val {
			return false
		}
	}
	return true
}

// collectKind gathers the occupants of kind k under n, descending through
// arrays, in ascending placement order.
func collectKind(n *Node, k Kind) []*Node {
	var out []*Node
	for _, it := range n.Children.Items() {
		switch it.Obj.Kind {
		case k:
			out = append(out, it.Obj)
		case KindArray:
			out = append(out, collectKind(it.Obj, k)...)
		}
	}
	return out
}
