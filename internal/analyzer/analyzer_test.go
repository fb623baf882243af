package analyzer

import (
	"testing"

	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/irbuild"
	"github.com/polylang/transpile/internal/parser"
	"github.com/polylang/transpile/internal/stubs"
	"github.com/polylang/transpile/internal/tir"
	"github.com/polylang/transpile/internal/types"
)

func analyze(t *testing.T, src string) (*tir.Module, *tir.Table, *diag.Collector) {
	t.Helper()
	file, perrs := parser.ParseFile(src, "t.src")
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	errs := diag.NewCollector()
	mod := irbuild.New(errs).BuildModule(file, "t")
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics during build: %v", errs.Reports())
	}
	reg := stubs.NewRegistry()
	table := Analyze(mod, reg, errs)
	return mod, table, errs
}

func TestAnalyzeInfersLocalFromLiteral(t *testing.T) {
	mod, table, errs := analyze(t, "def main() -> None:\n    x = 1\n")
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	fn := mod.Items[0].(*tir.FuncDecl)
	assign := fn.Body[0].(*tir.AssignStmt)
	got := table.Type(assign.Targets[0].ID())
	if !got.Equals(types.NewInt()) {
		t.Fatalf("expected int, got %s", got)
	}
}

func TestAnalyzeMissingParamAnnotationIsFatal(t *testing.T) {
	_, _, errs := analyze(t, "def greet(name) -> None:\n    print(name)\n")
	found := false
	for _, r := range errs.Reports() {
		if r.Code == diag.EMissingAnnotation {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected E_MISSING_ANNOTATION, got %v", errs.Reports())
	}
}

func TestAnalyzeReassignmentMarksOriginalMutable(t *testing.T) {
	mod, table, errs := analyze(t, "def main() -> None:\n    x: int = 1\n    x = 2\n")
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	fn := mod.Items[0].(*tir.FuncDecl)
	let := fn.Body[0].(*tir.LetStmt)
	ann := table.Get(let.ID())
	if ann == nil || !ann.Mutable {
		t.Fatalf("expected reassigned local to be marked mutable, got %#v", ann)
	}
}

func TestAnalyzeAwaitOutsideAsyncIsFatal(t *testing.T) {
	src := "async def fetch() -> int:\n    return 1\n\ndef main() -> None:\n    x = await fetch()\n"
	_, _, errs := analyze(t, src)
	found := false
	for _, r := range errs.Reports() {
		if r.Code == diag.EAwaitOutsideAsync {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected E_AWAIT_OUTSIDE_ASYNC, got %v", errs.Reports())
	}
}

func TestAnalyzeIndexCastOnSequenceInt(t *testing.T) {
	src := "def first(xs: list[int]) -> int:\n    return xs[0]\n"
	mod, table, errs := analyze(t, src)
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	fn := mod.Items[0].(*tir.FuncDecl)
	ret := fn.Body[0].(*tir.ReturnStmt)
	idx := ret.Value.(*tir.Index)
	ann := table.Get(idx.ID())
	if ann == nil || !ann.InsertIndexCast {
		t.Fatalf("expected InsertIndexCast on sequence[int] subscript, got %#v", ann)
	}
}

func TestAnalyzeFallibleAssignmentIsPropagationSite(t *testing.T) {
	src := "def risky() -> Result[int, str]:\n    return Ok(1)\n\n" +
		"def main() -> Result[int, str]:\n    x = risky()\n    return x\n"
	mod, table, errs := analyze(t, src)
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", errs.Reports())
	}
	main := mod.Items[1].(*tir.FuncDecl)
	assign := main.Body[0].(*tir.AssignStmt)
	ann := table.Get(assign.Targets[0].ID())
	if ann == nil || !ann.PropagationSite {
		t.Fatalf("expected propagation site for Fallible binding in a Fallible-returning function, got %#v", ann)
	}
}
