package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hdlutil/regmap/pkg/model"
)

// TreeOptions configures WriteTree output.
type TreeOptions struct {
	ShowGaps bool // Also print unallocated ranges
}

// WriteTree prints the tree under n as an indented listing, one line per
// element. With ShowGaps, unallocated ranges appear as "gap" lines in
// their document position.
func WriteTree(w io.Writer, n *model.Node, opts TreeOptions) error {
	return writeTree(w, n, opts, 0)
}

func writeTree(w io.Writer, n *model.Node, opts TreeOptions, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, nodeLine(n)); err != nil {
		return err
	}
	if n.Children == nil {
		return nil
	}
	for _, it := range n.Children.Segments() {
		if it.IsGap() {
			if opts.ShowGaps {
				line := fmt.Sprintf("%s  (0x%X) gap: %d", indent, it.Start, it.Size)
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			continue
		}
		if err := writeTree(w, it.Obj, opts, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// nodeLine renders one element as a single line. The shape varies per kind;
// offsets are printed only where the parent space makes them meaningful.
func nodeLine(n *model.Node) string {
	switch n.Kind {
	case model.KindComponent:
		a := n.Component()
		return fmt.Sprintf("component %s: width %d, size %d, %s",
			n.Name, a.Width, n.Size.Val, accessString(n))

	case model.KindRegister:
		a := n.Register()
		digits := int(a.Width.Val+3) / 4
		return fmt.Sprintf("(0x%X) register %s: width %d, %s, reset 0x%0*X",
			n.Offset.Val, n.Name, a.Width.Val, accessString(n), digits, a.Reset.Val)

	case model.KindField:
		a := n.Field()
		hi := n.Offset.Val + a.Width.Val - 1
		return fmt.Sprintf("[%d:%d] field %s: %s, reset 0x%X",
			hi, n.Offset.Val, n.Name, accessString(n), a.Reset)

	case model.KindEnum:
		return fmt.Sprintf("%d = %s", n.Value(), n.Name)

	case model.KindArray:
		a := n.Array()
		return fmt.Sprintf("(0x%X) array %s: count %d, framesize %d",
			n.Offset.Val, n.Name, a.Count, a.Framesize.Val)

	case model.KindInstance:
		a := n.Instance()
		return fmt.Sprintf("(0x%X) instance %s: binds %s, size %d",
			n.Offset.Val, n.Name, a.Binding.Name, n.Size.Val)

	case model.KindMemoryMap:
		a := n.MemoryMap()
		return fmt.Sprintf("memorymap %s: base 0x%X, size %d", n.Name, a.Base, n.Size.Val)
	}
	return n.Name
}

// accessString reduces a node's resolved access flags to "ro", "wo", or "rw".
func accessString(n *model.Node) string {
	ro, wo := n.Access()
	switch {
	case ro.Val:
		return "ro"
	case wo.Val:
		return "wo"
	default:
		return "rw"
	}
}
