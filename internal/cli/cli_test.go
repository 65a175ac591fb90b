package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"uart.xml": `<component name="uart" width="32">
  <register name="data"/>
  <register name="status"/>
</component>`,
		"soc.xml": `<memorymap name="soc" base="0x40000000">
  <instance name="uart"/>
</memorymap>`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"compile", "dump", "list", "export", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCompileCommand(t *testing.T) {
	if err := execute(t, "compile", writeSources(t)); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
}

func TestCompileCommandReportsErrors(t *testing.T) {
	dir := t.TempDir()
	src := `<component name="bad" width="nope"/>`
	if err := os.WriteFile(filepath.Join(dir, "bad.xml"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "compile", dir); err == nil {
		t.Fatal("compile of broken source should fail")
	}
	if err := execute(t, "compile", dir, "--keep-going"); err == nil {
		t.Fatal("keep-going still fails overall when documents are broken")
	}
}

func TestDumpCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dump.txt")
	if err := execute(t, "dump", writeSources(t), "uart", "-o", out); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "register data") {
		t.Errorf("dump output missing register:\n%s", data)
	}
	if strings.Contains(string(data), "memorymap") {
		t.Error("dump of a named component should not include memory maps")
	}
}

func TestDumpUnknownName(t *testing.T) {
	if err := execute(t, "dump", writeSources(t), "nonesuch"); err == nil {
		t.Fatal("dump of unknown name should fail")
	}
}

func TestListCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "list.txt")
	if err := execute(t, "list", writeSources(t), "soc", "-o", out); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "'uart:data' : 0x40000000") {
		t.Errorf("list output missing register address:\n%s", data)
	}
}

func TestExportCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regs.json")
	if err := execute(t, "export", writeSources(t), "-o", out); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Fatalf("export produced invalid JSON:\n%s", data)
	}
}
