package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hdlutil/regmap/pkg/rmerr"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const uartXML = `<component name="uart" width="32">
  <register name="data"/>
  <register name="status"/>
</component>`

const socXML = `<memorymap name="soc" base="0x80000000">
  <instance name="uart"/>
</memorymap>`

func TestCompile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"soc.xml":              socXML,
		"periph/uart.xml":      uartXML,
		"periph/notes.txt":     "ignored",
		"_build/stale.xml":     "<component/>",
		".cache/leftover.xml":  "<component/>",
		"periph/.hidden/x.xml": "<component/>",
	})

	res, err := Compile(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("compiled %d files, want 2: %v", len(res.Files), res.Files)
	}
	if _, ok := res.Components["uart"]; !ok {
		t.Error("component uart missing from result")
	}
	mm, ok := res.MemoryMaps["soc"]
	if !ok {
		t.Fatal("memory map soc missing from result")
	}

	// The memory map bound even though its file sorts before the
	// component's.
	inst := mm.Children.Items()[0].Obj
	if inst.Instance().Binding == nil {
		t.Error("instance uart did not bind")
	}
	if got := inst.Size.Val; got != 8 {
		t.Errorf("instance size = %d, want 8", got)
	}
}

func TestCompileSingleFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"uart.xml": uartXML})

	res, err := Compile(context.Background(), filepath.Join(dir, "uart.xml"), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Components) != 1 {
		t.Errorf("got %d components, want 1", len(res.Components))
	}
}

func TestCompileStopsOnFirstError(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"bad.xml":  `<component name="bad" width="nope"/>`,
		"uart.xml": uartXML,
	})

	_, err := Compile(context.Background(), dir, Options{})
	if !rmerr.Is(err, rmerr.CodeAttrConversion) {
		t.Fatalf("Compile() error = %v, want %s", err, rmerr.CodeAttrConversion)
	}
}

func TestCompileContinueOnError(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"bad.xml":   `<component name="bad" width="nope"/>`,
		"weird.xml": `<pinout name="p"/>`,
		"uart.xml":  uartXML,
		"soc.xml":   socXML,
	})

	res, err := Compile(context.Background(), dir, Options{ContinueOnError: true})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(res.Errors), res.Errors)
	}
	if !rmerr.Is(res.Errors[0], rmerr.CodeBadRoot) {
		t.Errorf("errors[0] = %v, want %s", res.Errors[0], rmerr.CodeBadRoot)
	}
	if !rmerr.Is(res.Errors[1], rmerr.CodeAttrConversion) {
		t.Errorf("errors[1] = %v, want %s", res.Errors[1], rmerr.CodeAttrConversion)
	}
	if _, ok := res.MemoryMaps["soc"]; !ok {
		t.Error("healthy documents should still compile")
	}
}

func TestCompileDuplicate(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a/uart.xml": uartXML,
		"b/uart.xml": uartXML,
	})

	_, err := Compile(context.Background(), dir, Options{})
	if !rmerr.Is(err, rmerr.CodeDuplicate) {
		t.Fatalf("Compile() error = %v, want %s", err, rmerr.CodeDuplicate)
	}
}

func TestCompileCanceled(t *testing.T) {
	dir := writeTree(t, map[string]string{"uart.xml": uartXML})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compile(ctx, dir, Options{})
	if err != context.Canceled {
		t.Fatalf("Compile() error = %v, want context.Canceled", err)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	if len(opts.Extensions) != 1 || opts.Extensions[0] != DefaultExtension {
		t.Errorf("Extensions = %v, want [%s]", opts.Extensions, DefaultExtension)
	}
	if opts.Logger == nil {
		t.Error("Logger should not be nil after WithDefaults")
	}

	opts = Options{Extensions: []string{".regmap"}}.WithDefaults()
	if opts.Extensions[0] != ".regmap" {
		t.Error("custom extensions should be preserved")
	}
}
