package parser

import (
	"testing"

	"github.com/polylang/transpile/internal/ast"
)

func TestParseGreet(t *testing.T) {
	src := `def greet(name: str) -> str:
    return f"Hello, {name}!"

def main() -> None:
    message: str = greet("World")
    print(message)
`
	file, errs := ParseFile(src, "greet.src")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(file.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(file.Items))
	}

	greet, ok := file.Items[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", file.Items[0])
	}
	if greet.Name != "greet" || len(greet.Params) != 1 || greet.Params[0].Name != "name" {
		t.Fatalf("unexpected greet decl: %+v", greet)
	}
	ret, ok := greet.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", greet.Body[0])
	}
	if _, ok := ret.Value.(*ast.FStringLit); !ok {
		t.Fatalf("expected FStringLit return value, got %T", ret.Value)
	}

	main, ok := file.Items[1].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", file.Items[1])
	}
	assign, ok := main.Body[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", main.Body[0])
	}
	if !assign.IsDecl {
		t.Fatal("expected typed declaration")
	}
}

func TestParseMutableCounter(t *testing.T) {
	src := `def increment() -> int:
    x: int = 0
    x = x + 1
    x = x + 1
    return x
`
	file, errs := ParseFile(src, "counter.src")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := file.Items[0].(*ast.FuncDecl)
	if len(fn.Body) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(fn.Body))
	}
	second := fn.Body[1].(*ast.AssignStmt)
	if second.IsDecl {
		t.Fatal("reassignment should not be IsDecl")
	}
}

func TestParseAsyncAwait(t *testing.T) {
	src := `async def greet(name: str) -> str:
    return f"Hello, {name}!"

async def main() -> None:
    message: str = await greet("World")
`
	file, errs := ParseFile(src, "async.src")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	greet := file.Items[0].(*ast.FuncDecl)
	if !greet.IsAsync {
		t.Fatal("expected greet to be async")
	}
	main := file.Items[1].(*ast.FuncDecl)
	assign := main.Body[0].(*ast.AssignStmt)
	if _, ok := assign.Value.(*ast.AwaitExpr); !ok {
		t.Fatalf("expected AwaitExpr, got %T", assign.Value)
	}
}

func TestParseTupleDestructure(t *testing.T) {
	src := `def main() -> None:
    tx, rx = mpsc_channel(10)
`
	file, errs := ParseFile(src, "chan.src")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := file.Items[0].(*ast.FuncDecl)
	assign := fn.Body[0].(*ast.AssignStmt)
	if len(assign.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(assign.Targets))
	}
}

func TestParseIndexCastLoop(t *testing.T) {
	src := `def show(values: list[int]) -> None:
    i: int = 0
    while i < len(values):
        print(values[i])
        i = i + 1
`
	file, errs := ParseFile(src, "loop.src")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := file.Items[0].(*ast.FuncDecl)
	loop, ok := fn.Body[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", fn.Body[1])
	}
	if len(loop.Body) != 2 {
		t.Fatalf("expected 2 statements in loop body, got %d", len(loop.Body))
	}
}

func TestParseDataclassAttribute(t *testing.T) {
	src := "# #[derive(Debug)]\n@dataclass\nclass Point:\n    x: int\n    y: int\n"
	file, errs := ParseFile(src, "dataclass.src")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	cls := file.Items[0].(*ast.ClassDecl)
	if !cls.IsDataclass {
		t.Fatal("expected dataclass marker")
	}
	if len(cls.Attrs) != 1 || cls.Attrs[0].Text != "#[derive(Debug)]" {
		t.Fatalf("expected lifted attribute, got %+v", cls.Attrs)
	}
	if len(cls.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(cls.Fields))
	}
}

func TestParseUnsupportedDecorator(t *testing.T) {
	src := "@some_other_decorator\ndef f() -> None:\n    pass\n"
	_, errs := ParseFile(src, "bad.src")
	if len(errs) == 0 {
		t.Fatal("expected a diagnostic for an unsupported decorator")
	}
}
