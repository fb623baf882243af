package stubs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStubPackage(t *testing.T, root string) {
	t.Helper()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, EntryFile), []byte("package: channel\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	symbols := `
symbols:
  - name: mpsc_channel
    kind: function
    type: "(Fn Int (Tuple (Named std.mpsc.Sender) (Named std.mpsc.Receiver)))"
  - name: send
    kind: method
    receiver: std.mpsc.Sender
    type: "(Fn T Unit)"
  - name: std.mpsc.Sender
    kind: type
    type: "(Named std.mpsc.Sender)"
`
	if err := os.WriteFile(filepath.Join(root, "symbols.yaml"), []byte(symbols), 0o644); err != nil {
		t.Fatal(err)
	}
	templates := `
templates:
  mpsc_channel:
    code: "mpsc::channel({0})"
    imports: ["std::sync::mpsc"]
    build:
      - crate: tokio
        version: "1"
        features: ["sync"]
  std.mpsc.Sender.send:
    code: "{self}.send({0}).await"
    imports: ["std::sync::mpsc"]
`
	if err := os.WriteFile(filepath.Join(root, "templates.yaml"), []byte(templates), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverAndLookupCallable(t *testing.T) {
	dir := t.TempDir()
	writeStubPackage(t, filepath.Join(dir, "channel"))

	r := NewRegistry().WithSearchPath(dir)
	if err := r.Discover(); err != nil {
		t.Fatalf("unexpected discovery error: %v", err)
	}

	c, ok := r.LookupCallable("mpsc_channel")
	if !ok {
		t.Fatal("expected mpsc_channel to resolve")
	}
	if c.Template != "mpsc::channel({0})" {
		t.Fatalf("unexpected template: %q", c.Template)
	}
	if len(c.Build) != 1 || c.Build[0].Crate != "tokio" {
		t.Fatalf("expected tokio build requirement, got %v", c.Build)
	}

	if _, ok := r.LookupCallable("does_not_exist"); ok {
		t.Fatal("expected unresolved callable to report false")
	}
}

func TestLookupMethodAndType(t *testing.T) {
	dir := t.TempDir()
	writeStubPackage(t, filepath.Join(dir, "channel"))

	r := NewRegistry().WithSearchPath(dir)
	if err := r.Discover(); err != nil {
		t.Fatalf("unexpected discovery error: %v", err)
	}

	m, ok := r.LookupMethod("std.mpsc.Sender", "send")
	if !ok {
		t.Fatal("expected send method to resolve")
	}
	if m.Template != "{self}.send({0}).await" {
		t.Fatalf("unexpected method template: %q", m.Template)
	}

	if _, ok := r.LookupType("std.mpsc.Sender"); !ok {
		t.Fatal("expected Sender type to resolve")
	}
	if _, ok := r.LookupType("std.mpsc.Nonexistent"); ok {
		t.Fatal("expected unknown type to report false")
	}
}

func TestCollectRequirementsAccumulatesAcrossLookups(t *testing.T) {
	dir := t.TempDir()
	writeStubPackage(t, filepath.Join(dir, "channel"))

	r := NewRegistry().WithSearchPath(dir)
	if err := r.Discover(); err != nil {
		t.Fatalf("unexpected discovery error: %v", err)
	}
	if _, ok := r.LookupCallable("mpsc_channel"); !ok {
		t.Fatal("expected mpsc_channel to resolve")
	}

	reqs := r.CollectRequirements()
	if len(reqs) != 1 || reqs[0].Crate != "tokio" {
		t.Fatalf("expected one tokio requirement, got %v", reqs)
	}
}

func TestDiscoverMissingSearchPathIsNotFatal(t *testing.T) {
	r := NewRegistry().WithSearchPath(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := r.Discover(); err != nil {
		t.Fatalf("expected missing search root to be non-fatal, got %v", err)
	}
	if _, ok := r.LookupCallable("anything"); ok {
		t.Fatal("expected no callables with no packages discovered")
	}
}
