package assembler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/emitter"
	"github.com/polylang/transpile/internal/tir"
)

func TestAssembleSingleFileWritesMainAndManifest(t *testing.T) {
	dir := t.TempDir()
	files := []*emitter.EmittedFile{
		{ModulePath: "t", Code: "fn main() {}\n", IsEntry: true},
	}
	errs := diag.NewCollector()
	res, err := Assemble(files, dir, "widgets", errs)
	if err != nil {
		t.Fatalf("unexpected error: %v (diagnostics: %v)", err, errs.Reports())
	}
	main, rerr := os.ReadFile(filepath.Join(dir, "src", "main.rs"))
	if rerr != nil {
		t.Fatalf("expected main.rs written: %v", rerr)
	}
	if !strings.Contains(string(main), "fn main()") {
		t.Fatalf("expected main body, got:\n%s", main)
	}
	manifestText, rerr := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	if rerr != nil {
		t.Fatalf("expected Cargo.toml written: %v", rerr)
	}
	if !strings.Contains(string(manifestText), `name = "widgets"`) {
		t.Fatalf("expected project name in manifest, got:\n%s", manifestText)
	}
	if len(res.FilesWritten) != 2 {
		t.Fatalf("expected 2 files written, got %d: %v", len(res.FilesWritten), res.FilesWritten)
	}
}

func TestAssembleMultiFileWritesLibDeclarations(t *testing.T) {
	dir := t.TempDir()
	files := []*emitter.EmittedFile{
		{ModulePath: "helpers", Code: "pub fn helper() {}\n"},
		{ModulePath: "main", Code: "fn main() {}\n", IsEntry: true},
	}
	errs := diag.NewCollector()
	if _, err := Assemble(files, dir, "widgets", errs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lib, rerr := os.ReadFile(filepath.Join(dir, "src", "lib.rs"))
	if rerr != nil {
		t.Fatalf("expected lib.rs written: %v", rerr)
	}
	if !strings.Contains(string(lib), "pub mod helpers;") {
		t.Fatalf("expected helpers module declared, got:\n%s", lib)
	}
	if _, rerr := os.Stat(filepath.Join(dir, "src", "helpers.rs")); rerr != nil {
		t.Fatalf("expected helpers.rs written: %v", rerr)
	}
}

func TestAssembleMergesBuildRequirementsIntoManifest(t *testing.T) {
	dir := t.TempDir()
	files := []*emitter.EmittedFile{
		{
			ModulePath: "t",
			Code:       "fn main() {}\n",
			IsEntry:    true,
			Builds:     []tir.BuildRequirement{{Crate: "tokio", Version: "1", Features: []string{"sync"}}},
		},
	}
	errs := diag.NewCollector()
	if _, err := Assemble(files, dir, "widgets", errs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	manifestText, rerr := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	if rerr != nil {
		t.Fatalf("expected Cargo.toml written: %v", rerr)
	}
	if !strings.Contains(string(manifestText), "tokio") {
		t.Fatalf("expected tokio dependency in manifest, got:\n%s", manifestText)
	}
}
