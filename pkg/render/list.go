package render

import (
	"fmt"
	"io"

	"github.com/hdlutil/regmap/pkg/model"
)

// WriteList flattens a memory map into one line per register with its
// absolute byte address:
//
//	'uart:data' : 0x40000000
//
// Registers inside register arrays are listed once at their frame-zero
// address with the repeat count appended. Instance arrays list each bound
// instance in turn.
func WriteList(w io.Writer, mm *model.Node) error {
	for _, it := range mm.Children.Items() {
		if err := listInstances(w, mm, it.Obj); err != nil {
			return err
		}
	}
	return nil
}

func listInstances(w io.Writer, mm *model.Node, n *model.Node) error {
	if n.Kind == model.KindArray {
		for _, it := range n.Children.Items() {
			if err := listInstances(w, mm, it.Obj); err != nil {
				return err
			}
		}
		return nil
	}
	base := mm.MemoryMap().Base + n.FindOffset()
	comp := n.Instance().Binding
	for _, it := range comp.Children.Items() {
		if err := listRegisters(w, n.Name, base, it.Obj); err != nil {
			return err
		}
	}
	return nil
}

func listRegisters(w io.Writer, inst string, base uint64, n *model.Node) error {
	if n.Kind == model.KindArray {
		for _, it := range n.Children.Items() {
			if err := listRegisters(w, inst, base, it.Obj); err != nil {
				return err
			}
		}
		return nil
	}
	addr := base + n.FindOffset()*n.ByteWidth()
	suffix := ""
	if a := arrayOf(n); a != nil {
		suffix = fmt.Sprintf(" [%d]", a.Count)
	}
	_, err := fmt.Fprintf(w, "'%s:%s' : 0x%05X%s\n", inst, n.Name, addr, suffix)
	return err
}

// arrayOf returns the immediately enclosing array's attributes, or nil.
func arrayOf(n *model.Node) *model.ArrayAttrs {
	if p := n.Parent; p != nil && p.Kind == model.KindArray {
		return p.Array()
	}
	return nil
}
