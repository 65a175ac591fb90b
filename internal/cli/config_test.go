package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regmap.toml")
	body := `extensions = [".xml", ".regmap"]
continue_on_error = true
show_gaps = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[1] != ".regmap" {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
	if !cfg.ContinueOnError || !cfg.ShowGaps {
		t.Errorf("cfg = %+v, want both flags set", cfg)
	}
}

func TestLoadConfigDefaultsWhenAbsent(t *testing.T) {
	// The default file may legitimately not exist.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if len(cfg.Extensions) != 0 || cfg.ContinueOnError {
		t.Errorf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("explicit missing config should fail")
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regmap.toml")
	if err := os.WriteFile(path, []byte("extensions = {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("malformed config should fail")
	}
}
