package tir

import "github.com/polylang/transpile/internal/ast"

// IDGen assigns monotonically increasing NodeIDs while the IR builder
// lowers the files of one invocation. One IDGen is scoped to one invocation, matching the
// single-threaded cooperative execution model (spec §5).
type IDGen struct {
	next NodeID
}

// NewIDGen returns an IDGen starting at 1 (0 is reserved as "no node").
func NewIDGen() *IDGen {
	return &IDGen{next: 1}
}

// Node builds the embeddable base for a new TIR node at the given span.
func (g *IDGen) Node(span ast.Span) Base {
	id := g.next
	g.next++
	return Base{id: id, span: span}
}

// SpanOf converts a single surface position into a degenerate (zero-width)
// Span, for nodes lowered from a single-token construct.
func SpanOf(p ast.Pos) ast.Span {
	return ast.Span{Start: p, End: p}
}
