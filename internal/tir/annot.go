package tir

import "github.com/polylang/transpile/internal/types"

// BorrowMode classifies how a call argument is passed, per the analyzer's
// borrow-hint policy (spec §4.4).
type BorrowMode int

const (
	ByValue BorrowMode = iota
	BorrowShared
	BorrowMut
)

// StubResolution records how a call or method resolved through the stub
// registry, so the emitter can expand its template without consulting the
// registry a second time (spec §4.3, §4.5).
type StubResolution struct {
	Template string
	Imports  []string
	Build    []BuildRequirement
}

// BuildRequirement is a single DST build-manifest dependency.
type BuildRequirement struct {
	Crate    string
	Version  string
	Features []string
}

// Annotation is everything the semantic analyzer attaches to one TIR node,
// stored side-by-side in a Table rather than mutated onto the node (spec §3
// Lifecycle invariant).
type Annotation struct {
	Type            types.Type
	Mutable         bool // local is reassigned or is an exclusive-receiver call
	PropagationSite bool // binding receives an implicit unwrap (spec §4.4)
	InsertIndexCast bool // subscript needs the platform-width cast
	Borrow          BorrowMode
	Stub            *StubResolution
	AsyncMain       bool // entry module's main needs the async-runtime attribute
	Declares        bool // this Ident is the first binding of its name, not a reassignment
}

// Table is the analyzer's output: an immutable-after-build side table keyed
// by NodeID. The core is single-threaded cooperative (spec §5), so no
// locking is needed; the table lives for one invocation only.
type Table struct {
	m map[NodeID]*Annotation
}

// NewTable returns an empty annotation table.
func NewTable() *Table {
	return &Table{m: make(map[NodeID]*Annotation)}
}

// Set attaches or replaces the annotation for id.
func (t *Table) Set(id NodeID, a *Annotation) {
	t.m[id] = a
}

// Get returns the annotation for id, or nil if the analyzer never annotated
// that node.
func (t *Table) Get(id NodeID) *Annotation {
	return t.m[id]
}

// Type is a convenience accessor returning the resolved type for a node, or
// an Unknown placeholder if the node was never annotated.
func (t *Table) Type(id NodeID) types.Type {
	if a := t.m[id]; a != nil && a.Type != nil {
		return a.Type
	}
	return &types.TUnknown{}
}

// Ensure returns the existing annotation for id, creating an empty one if
// absent, so analyzer passes can incrementally fill in fields.
func (t *Table) Ensure(id NodeID) *Annotation {
	a, ok := t.m[id]
	if !ok {
		a = &Annotation{}
		t.m[id] = a
	}
	return a
}
