package model

import (
	"github.com/hdlutil/regmap/pkg/document"
	"github.com/hdlutil/regmap/pkg/rmerr"
)

// The builders below implement the attribute phase for each kind: read every
// declared attribute with typed conversion, reject the undeclared, apply
// literal defaults, and copy inheritable values down from the enclosing
// element. One builder per kind, dispatched by tag name; there is no schema
// table to reflect over.

func (c *elabCtx) build(tag *document.Tag, parent *Node, kind, elem Kind) (*Node, error) {
	switch kind {
	case KindComponent:
		return buildComponent(tag, parent)
	case KindRegister:
		return buildRegister(tag, parent)
	case KindField:
		return buildField(tag, parent)
	case KindEnum:
		return buildEnum(tag, parent)
	case KindArray:
		return buildArray(tag, parent, elem)
	case KindInstance:
		return c.buildInstance(tag, parent)
	case KindMemoryMap:
		return buildMemoryMap(tag, parent)
	}
	return nil, rmerr.New(rmerr.CodeUnknownTag, "unknown tag %q", tag.Name)
}

func buildComponent(tag *document.Tag, parent *Node) (*Node, error) {
	sc := scanAttrs(tag)
	n := &Node{Kind: KindComponent, Loc: tag.Loc, Parent: parent}
	a := &ComponentAttrs{}

	n.Name = sc.RequireString("name")
	a.Width = sc.RequireUint("width")
	n.Size = sc.Uint("size")
	a.ReadOnly = sc.Bool("readOnly")
	a.WriteOnly = sc.Bool("writeOnly")
	if err := sc.Finish(); err != nil {
		return nil, err
	}
	if err := checkAccess(tag.Name, a.ReadOnly, a.WriteOnly); err != nil {
		return nil, err
	}
	n.attrs = a
	return n, nil
}

func buildRegister(tag *document.Tag, parent *Node) (*Node, error) {
	sc := scanAttrs(tag)
	n := &Node{Kind: KindRegister, Loc: tag.Loc, Parent: parent}
	a := &RegisterAttrs{}

	n.Name = sc.RequireString("name")
	n.Offset = sc.Uint("offset")
	n.Size = sc.Uint("size")
	if !n.Size.Known {
		n.Size = KnownUint(1)
	}
	a.Width = sc.Uint("width")
	a.ReadOnly = sc.Bool("readOnly")
	a.WriteOnly = sc.Bool("writeOnly")
	a.Format = sc.Format("format")
	a.Reset = sc.Uint("reset")
	if err := sc.Finish(); err != nil {
		return nil, err
	}
	if err := checkAccess(tag.Name, a.ReadOnly, a.WriteOnly); err != nil {
		return nil, err
	}

	if enc := n.enclosing(); enc != nil {
		if !a.Width.Known {
			a.Width = enc.Width()
		}
		ro, wo := enc.Access()
		if !a.ReadOnly.Known {
			a.ReadOnly = ro
		}
		if !a.WriteOnly.Known {
			a.WriteOnly = wo
		}
	}
	n.attrs = a
	return n, nil
}

func buildField(tag *document.Tag, parent *Node) (*Node, error) {
	sc := scanAttrs(tag)
	n := &Node{Kind: KindField, Loc: tag.Loc, Parent: parent}
	a := &FieldAttrs{}

	n.Name = sc.RequireString("name")
	n.Offset = sc.Uint("offset")
	a.Width = sc.Uint("width")
	a.ReadOnly = sc.Bool("readOnly")
	a.WriteOnly = sc.Bool("writeOnly")
	a.Format = sc.Format("format")
	a.Reset = sc.Uint("reset").Or(0)
	if err := sc.Finish(); err != nil {
		return nil, err
	}
	if err := checkAccess(tag.Name, a.ReadOnly, a.WriteOnly); err != nil {
		return nil, err
	}
	if a.Width.Known && a.Width.Val > 63 {
		return nil, rmerr.New(rmerr.CodeAttrBadValue, "field: width %d out of range", a.Width.Val)
	}

	if enc := n.enclosing(); enc != nil {
		ro, wo := enc.Access()
		if !a.ReadOnly.Known {
			a.ReadOnly = ro
		}
		if !a.WriteOnly.Known {
			a.WriteOnly = wo
		}
	}
	n.attrs = a
	return n, nil
}

func buildEnum(tag *document.Tag, parent *Node) (*Node, error) {
	sc := scanAttrs(tag)
	n := &Node{Kind: KindEnum, Loc: tag.Loc, Parent: parent}

	n.Name = sc.RequireString("name")
	value := sc.Uint("value")
	offset := sc.Uint("offset")
	if err := sc.Finish(); err != nil {
		return nil, err
	}
	if value.Known && offset.Known {
		return nil, rmerr.New(rmerr.CodeAttrConflict, "enum: value and offset are aliases, give only one")
	}
	if offset.Known {
		value = offset
	}
	n.Offset = value
	n.Size = KnownUint(1)
	return n, nil
}

func buildArray(tag *document.Tag, parent *Node, elem Kind) (*Node, error) {
	sc := scanAttrs(tag)
	n := &Node{Kind: KindArray, Loc: tag.Loc, Parent: parent}
	a := &ArrayAttrs{Elem: elem}

	n.Name, _ = sc.String("name")
	n.Offset = sc.Uint("offset")
	a.Count = sc.RequireUint("count")
	a.Framesize = sc.Uint("framesize")
	if err := sc.Finish(); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		return nil, rmerr.New(rmerr.CodeAttrBadValue, "%s: count must be at least 1", tag.Name)
	}
	n.attrs = a
	return n, nil
}

func (c *elabCtx) buildInstance(tag *document.Tag, parent *Node) (*Node, error) {
	sc := scanAttrs(tag)
	n := &Node{Kind: KindInstance, Loc: tag.Loc, Parent: parent}
	a := &InstanceAttrs{}

	n.Name = sc.RequireString("name")
	extern, ok := sc.String("extern")
	if !ok {
		extern = n.Name
	}
	a.Extern = extern
	n.Offset = sc.Uint("offset")
	n.Size = sc.Uint("size")
	if err := sc.Finish(); err != nil {
		return nil, err
	}

	// The binding resolves eagerly: the default size dereferences it.
	binding, ok := c.components[a.Extern]
	if !ok {
		return nil, rmerr.New(rmerr.CodeUnbound, "unable to find component %q to bind instance %q", a.Extern, n.Name)
	}
	a.Binding = binding

	if !n.Size.Known {
		spacing := uint64(1)
		if enc := n.enclosing(); enc != nil && enc.Kind == KindMemoryMap {
			spacing = enc.MemoryMap().Spacing
		}
		bytes := binding.Size.Val * binding.Component().Width / 8
		if bytes == 0 {
			bytes = 1
		}
		n.Size = KnownUint((bytes + spacing - 1) / spacing * spacing)
	}
	n.attrs = a
	return n, nil
}

func buildMemoryMap(tag *document.Tag, parent *Node) (*Node, error) {
	sc := scanAttrs(tag)
	n := &Node{Kind: KindMemoryMap, Loc: tag.Loc, Parent: parent}
	a := &MemoryMapAttrs{}

	n.Name = sc.RequireString("name")
	a.Base = sc.RequireUint("base")
	a.Spacing = sc.Uint("spacing").Or(1)
	n.Size = sc.Uint("size")
	a.StrictAlign = sc.Bool("strictAlign").Val
	if err := sc.Finish(); err != nil {
		return nil, err
	}
	if a.Spacing == 0 {
		return nil, rmerr.New(rmerr.CodeAttrBadValue, "memorymap: spacing must be at least 1")
	}
	n.attrs = a
	return n, nil
}
