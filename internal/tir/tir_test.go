package tir

import (
	"testing"

	"github.com/polylang/transpile/internal/ast"
	"github.com/polylang/transpile/internal/types"
)

func TestIDGenAssignsDistinctIDs(t *testing.T) {
	g := NewIDGen()
	span := SpanOf(ast.Pos{File: "t", Line: 1, Column: 1})

	a := &Ident{Base: g.Node(span), Name: "x"}
	b := &Ident{Base: g.Node(span), Name: "y"}

	if a.ID() == b.ID() {
		t.Fatalf("expected distinct node IDs, got %d and %d", a.ID(), b.ID())
	}
	if a.ID() == 0 {
		t.Fatal("expected node IDs to start above zero")
	}
}

func TestAnnotationTableSideTable(t *testing.T) {
	g := NewIDGen()
	span := SpanOf(ast.Pos{File: "t", Line: 1, Column: 1})
	x := &Ident{Base: g.Node(span), Name: "x"}

	table := NewTable()
	if table.Get(x.ID()) != nil {
		t.Fatal("expected no annotation before Set")
	}

	table.Set(x.ID(), &Annotation{Type: types.NewInt(), Mutable: true})
	ann := table.Get(x.ID())
	if ann == nil || !ann.Mutable {
		t.Fatal("expected mutable annotation to round-trip")
	}
	if !table.Type(x.ID()).Equals(types.NewInt()) {
		t.Fatalf("expected int type, got %s", table.Type(x.ID()))
	}

	// A node never visited by the analyzer reports Unknown, not a panic.
	other := &Ident{Base: g.Node(span), Name: "y"}
	if !types.IsUnknown(table.Type(other.ID())) {
		t.Fatal("expected unannotated node to report Unknown")
	}
}

func TestEnsureCreatesOnce(t *testing.T) {
	table := NewTable()
	a1 := table.Ensure(5)
	a1.Mutable = true
	a2 := table.Ensure(5)
	if !a2.Mutable {
		t.Fatal("expected Ensure to return the same annotation instance")
	}
}
