package validation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	content := "z_range: [-100, 100]\noutlier: 0.25\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.ZRange[0] != -100 || opts.ZRange[1] != 100 {
		t.Fatalf("unexpected z range: %v", opts.ZRange)
	}
	if opts.Outlier != 0.25 {
		t.Fatalf("unexpected outlier tolerance: %v", opts.Outlier)
	}
}

func TestLoadOptionsPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("outlier: 2.5\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultOptions()
	if opts.ZRange != def.ZRange {
		t.Fatalf("missing z_range must keep the default, got %v", opts.ZRange)
	}
	if opts.Outlier != 2.5 {
		t.Fatalf("unexpected outlier tolerance: %v", opts.Outlier)
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("z_range: {a: b}\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
