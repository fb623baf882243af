package tir

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/polylang/transpile/internal/ast"
	"github.com/polylang/transpile/internal/types"
)

func TestDumpRendersFunctionAndStatements(t *testing.T) {
	g := NewIDGen()
	span := SpanOf(ast.Pos{File: "t", Line: 1, Column: 1})

	body := []Stmt{
		&LetStmt{Base: g.Node(span), Name: "x", Declared: types.NewInt(), Value: &IntLit{Base: g.Node(span), Value: 1}},
		&ReturnStmt{Base: g.Node(span), Value: &Ident{Base: g.Node(span), Name: "x"}},
	}
	fn := &FuncDecl{
		Base: g.Node(span), Name: "main",
		ReturnDeclared: &types.TPrim{Kind: types.Unit},
		Body:           body,
	}
	mod := &Module{Base: g.Node(span), Path: "t", Items: []Item{fn}, IsEntry: true}

	out := Dump(mod)

	for _, want := range []string{
		`(module "t"`,
		"(fn main ()",
		"(let x 1)",
		"(return x)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected dump to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDumpMarksAsyncFunctions(t *testing.T) {
	g := NewIDGen()
	span := SpanOf(ast.Pos{File: "t", Line: 1, Column: 1})

	fn := &FuncDecl{Base: g.Node(span), Name: "main", IsAsync: true}
	mod := &Module{Base: g.Node(span), Path: "t", Items: []Item{fn}}

	out := Dump(mod)
	if !strings.Contains(out, "(async-fn main ()\n  )") {
		t.Fatalf("expected async-fn marker, got:\n%s", out)
	}
}

func TestDumpRendersCallsAndBinaryOps(t *testing.T) {
	g := NewIDGen()
	span := SpanOf(ast.Pos{File: "t", Line: 1, Column: 1})

	call := &Call{
		Base:   g.Node(span),
		Callee: &Ident{Base: g.Node(span), Name: "greet"},
		Args:   []Expr{&StrLit{Base: g.Node(span), Value: "hi"}},
	}
	bin := &Binary{Base: g.Node(span), Op: "+", Left: &IntLit{Base: g.Node(span), Value: 1}, Right: &IntLit{Base: g.Node(span), Value: 2}}

	if diff := cmp.Diff(`(call greet "hi")`, dumpExpr(call)); diff != "" {
		t.Fatalf("call dump mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("(+ 1 2)", dumpExpr(bin)); diff != "" {
		t.Fatalf("binary dump mismatch (-want +got):\n%s", diff)
	}
}
