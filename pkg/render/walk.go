package render

import (
	"github.com/hdlutil/regmap/pkg/model"
)

// Visitor receives one callback per node during a Walk. Depth is 0 for the
// node Walk started from.
type Visitor interface {
	Visit(n *model.Node, depth int) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(n *model.Node, depth int) error

func (f VisitorFunc) Visit(n *model.Node, depth int) error { return f(n, depth) }

// Walk traverses the tree under n in document order, calling v for each
// node before its children. Gaps are skipped. Traversal stops at the first
// error, which is returned.
func Walk(n *model.Node, v Visitor) error {
	return walk(n, v, 0)
}

func walk(n *model.Node, v Visitor, depth int) error {
	if err := v.Visit(n, depth); err != nil {
		return err
	}
	if n.Children == nil {
		return nil
	}
	for _, it := range n.Children.Items() {
		if err := walk(it.Obj, v, depth+1); err != nil {
			return err
		}
	}
	return nil
}
