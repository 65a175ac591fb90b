package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hdlutil/regmap/pkg/compile"
	"github.com/hdlutil/regmap/pkg/document"
	"github.com/hdlutil/regmap/pkg/model"
)

func component(t *testing.T, src string) *model.Node {
	t.Helper()
	tag, err := document.Parse(strings.NewReader(src), "test.xml")
	if err != nil {
		t.Fatal(err)
	}
	n, err := model.ElaborateComponent(tag)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func memoryMap(t *testing.T, src string, comps map[string]*model.Node) *model.Node {
	t.Helper()
	tag, err := document.Parse(strings.NewReader(src), "test.xml")
	if err != nil {
		t.Fatal(err)
	}
	n, err := model.ElaborateMemoryMap(tag, comps)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func uartFixture(t *testing.T) *model.Node {
	t.Helper()
	return component(t, `
<component name="uart" width="32">
  <register name="data" offset="0"/>
  <register name="ctrl" offset="2" readOnly="yes">
    <field name="mode" width="2" offset="0" reset="1">
      <enum name="off"/>
      <enum name="fast" value="2"/>
    </field>
  </register>
</component>`)
}

func TestWalk(t *testing.T) {
	var names []string
	err := Walk(uartFixture(t), VisitorFunc(func(n *model.Node, depth int) error {
		names = append(names, n.Name)
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"uart", "data", "ctrl", "mode", "off", "fast"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestWriteTree(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTree(&buf, uartFixture(t), TreeOptions{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"component uart: width 32, size 4, rw",
		"(0x0) register data: width 32, rw, reset 0x00000000",
		"(0x2) register ctrl: width 32, ro, reset 0x00000001",
		"[1:0] field mode: ro, reset 0x1",
		"0 = off",
		"2 = fast",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gap") {
		t.Error("gaps should be hidden by default")
	}
}

func TestWriteTreeShowGaps(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTree(&buf, uartFixture(t), TreeOptions{ShowGaps: true}); err != nil {
		t.Fatal(err)
	}
	// Word 1 between the two registers is unallocated.
	if !strings.Contains(buf.String(), "(0x1) gap: 1") {
		t.Errorf("tree output missing gap line:\n%s", buf.String())
	}
}

func TestWriteList(t *testing.T) {
	uart := uartFixture(t)
	mm := memoryMap(t, `
<memorymap name="soc" base="0x40000000">
  <instance name="uart"/>
  <instance name="uart2" extern="uart" offset="0x100"/>
</memorymap>`, map[string]*model.Node{"uart": uart})

	var buf bytes.Buffer
	if err := WriteList(&buf, mm); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"'uart:data' : 0x40000000",
		"'uart:ctrl' : 0x40000008",
		"'uart2:data' : 0x40000100",
		"'uart2:ctrl' : 0x40000108",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteJSON(t *testing.T) {
	res := &compile.Result{
		Components: map[string]*model.Node{"uart": uartFixture(t)},
		MemoryMaps: map[string]*model.Node{},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Generator  string `json:"generator"`
		RunID      string `json:"run_id"`
		Components []struct {
			Kind     string `json:"kind"`
			Name     string `json:"name"`
			Size     uint64 `json:"size"`
			Children []struct {
				Name   string  `json:"name"`
				Offset *uint64 `json:"offset"`
				Reset  *uint64 `json:"reset"`
				Access string  `json:"access"`
			} `json:"children"`
		} `json:"components"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Generator != "regmap" {
		t.Errorf("generator = %q", doc.Generator)
	}
	if _, err := uuid.Parse(doc.RunID); err != nil {
		t.Errorf("run_id %q is not a UUID", doc.RunID)
	}
	if len(doc.Components) != 1 || doc.Components[0].Name != "uart" {
		t.Fatalf("components = %+v", doc.Components)
	}
	comp := doc.Components[0]
	if comp.Size != 4 {
		t.Errorf("uart size = %d, want 4", comp.Size)
	}
	ctrl := comp.Children[1]
	if ctrl.Name != "ctrl" || *ctrl.Offset != 2 || *ctrl.Reset != 1 || ctrl.Access != "ro" {
		t.Errorf("ctrl = %+v", ctrl)
	}
}
