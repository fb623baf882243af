package irbuild

import (
	"testing"

	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/parser"
	"github.com/polylang/transpile/internal/tir"
)

func build(t *testing.T, src string) (*tir.Module, *diag.Collector) {
	t.Helper()
	file, perrs := parser.ParseFile(src, "t.src")
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	errs := diag.NewCollector()
	mod := New(errs).BuildModule(file, "t")
	return mod, errs
}

func TestBuildModuleAssignsDistinctIDs(t *testing.T) {
	mod, errs := build(t, "def main() -> None:\n    x: int = 1\n    y: int = 2\n")
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	if len(mod.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(mod.Items))
	}
	fn, ok := mod.Items[0].(*tir.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", mod.Items[0])
	}
	if !mod.IsEntry {
		t.Fatal("expected module to be marked as entry (defines main)")
	}
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Body))
	}
	seen := map[tir.NodeID]bool{}
	seen[mod.ID()] = true
	seen[fn.ID()] = true
	for _, s := range fn.Body {
		if seen[s.ID()] {
			t.Fatalf("duplicate node id %d", s.ID())
		}
		seen[s.ID()] = true
	}
}

func TestBuildRewritesAugAssign(t *testing.T) {
	mod, errs := build(t, "def main() -> None:\n    x: int = 0\n    x += 1\n")
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	fn := mod.Items[0].(*tir.FuncDecl)
	assign, ok := fn.Body[1].(*tir.AssignStmt)
	if !ok {
		t.Fatalf("expected augmented assignment to rewrite to AssignStmt, got %T", fn.Body[1])
	}
	bin, ok := assign.Value.(*tir.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected rewritten value to be a '+' Binary, got %#v", assign.Value)
	}
}

func TestBuildClassWithoutBasesIsClean(t *testing.T) {
	src := "class Point:\n    x: int\n    y: int\n"
	mod, errs := build(t, src)
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	td, ok := mod.Items[0].(*tir.TypeDecl)
	if !ok {
		t.Fatalf("expected TypeDecl, got %T", mod.Items[0])
	}
	if len(td.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(td.Fields))
	}
}

func TestBuildClassWithBaseIsUnsupported(t *testing.T) {
	src := "class Dog(Animal):\n    name: str\n"
	_, errs := build(t, src)
	found := false
	for _, r := range errs.Reports() {
		if r.Code == diag.EUnsupportedConstruct {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected E_UNSUPPORTED_CONSTRUCT for base class, got %v", errs.Reports())
	}
}

func TestBuildMethodMutatesSelfIsDetected(t *testing.T) {
	src := "class Counter:\n    count: int\n\n    def increment(self) -> None:\n        self.count = self.count + 1\n"
	mod, errs := build(t, src)
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	td := mod.Items[0].(*tir.TypeDecl)
	if len(td.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(td.Methods))
	}
	if !td.Methods[0].Mutates {
		t.Fatal("expected increment to be detected as mutating self")
	}
}
