package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hdlutil/regmap/pkg/buildinfo"
	"github.com/hdlutil/regmap/pkg/compile"
	"github.com/hdlutil/regmap/pkg/model"
)

type jsonDoc struct {
	Generator   string      `json:"generator"`
	Version     string      `json:"version"`
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Components  []*jsonNode `json:"components"`
	MemoryMaps  []*jsonNode `json:"memory_maps"`
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name"`
	Offset   *uint64     `json:"offset,omitempty"`
	Size     *uint64     `json:"size,omitempty"`
	Width    *uint64     `json:"width,omitempty"`
	Access   string      `json:"access,omitempty"`
	Reset    *uint64     `json:"reset,omitempty"`
	Count    *uint64     `json:"count,omitempty"`
	Binds    string      `json:"binds,omitempty"`
	Desc     []string    `json:"desc,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

// WriteJSON encodes a compilation result as one JSON document. Roots are
// sorted by name so repeated runs over the same sources differ only in the
// run id and timestamp.
func WriteJSON(w io.Writer, res *compile.Result) error {
	doc := jsonDoc{
		Generator:   "regmap",
		Version:     buildinfo.Version,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Components:  sortedNodes(res.Components),
		MemoryMaps:  sortedNodes(res.MemoryMaps),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a compilation result to a JSON file at path.
func ExportJSON(res *compile.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, res)
}

func sortedNodes(m map[string]*model.Node) []*jsonNode {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*jsonNode, len(names))
	for i, name := range names {
		out[i] = toJSON(m[name])
	}
	return out
}

func toJSON(n *model.Node) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
		Name: n.Name,
		Desc: n.Desc,
	}
	if n.Offset.Known {
		jn.Offset = ptr(n.Offset.Val)
	}
	if n.Size.Known {
		jn.Size = ptr(n.Size.Val)
	}
	if w := n.Width(); w.Known {
		jn.Width = ptr(w.Val)
	}
	if ro, wo := n.Access(); ro.Known || wo.Known {
		jn.Access = accessString(n)
	}

	switch n.Kind {
	case model.KindRegister:
		if a := n.Register(); a.Reset.Known {
			jn.Reset = ptr(a.Reset.Val)
		}
	case model.KindField:
		jn.Reset = ptr(n.Field().Reset)
	case model.KindArray:
		jn.Count = ptr(n.Array().Count)
	case model.KindInstance:
		jn.Binds = n.Instance().Binding.Name
	}

	if n.Children != nil {
		for _, it := range n.Children.Items() {
			jn.Children = append(jn.Children, toJSON(it.Obj))
		}
	}
	return jn
}

func ptr(v uint64) *uint64 { return &v }
