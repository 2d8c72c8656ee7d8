package files

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestFontLoaderFallsBackToBuiltin(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	dir := t.TempDir()
	garbage := filepath.Join(dir, "broken.ttf")
	if err := os.WriteFile(garbage, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFontLoader(logger, filepath.Join(dir, "missing.ttf"), garbage).Load()
	if f.Name != BuiltinFontName {
		t.Errorf("Name = %q, want %q", f.Name, BuiltinFontName)
	}
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestFontLoaderPrefersFirstUsable(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "go.ttf")
	if err := os.WriteFile(good, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewFontLoader(log.New(io.Discard, "", 0), "", filepath.Join(dir, "absent.ttf"), good)
	if f := loader.Load(); f.Name != "go.ttf" {
		t.Errorf("Name = %q, want go.ttf", f.Name)
	}
}

func TestFontFaceScalesWithSize(t *testing.T) {
	f := BuiltinFont()

	small, err := f.Face(36)
	if err != nil {
		t.Fatal(err)
	}
	large, err := f.Face(96)
	if err != nil {
		t.Fatal(err)
	}
	if small.Metrics().Height >= large.Metrics().Height {
		t.Errorf("height at 36 (%v) should be below height at 96 (%v)",
			small.Metrics().Height, large.Metrics().Height)
	}
}
