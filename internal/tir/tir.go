// Package tir defines the typed intermediate representation produced by
// the IR builder (spec §4.2) and consumed by the semantic analyzer and
// emitter. TIR nodes are immutable once built; the analyzer's findings are
// stored side-by-side in an annotation table keyed by NodeID (spec §3
// Lifecycle), never by mutating a node in place.
package tir

import (
	"github.com/polylang/transpile/internal/ast"
	"github.com/polylang/transpile/internal/types"
)

// NodeID is a stable per-node identity assigned by the IR builder, stable
// for the lifetime of one compiler invocation.
type NodeID uint64

// Base is embedded by every concrete TIR node to supply identity and
// source-span tracking, mirroring the CoreNode embedding idiom of the
// A-Normal-Form core representation this design descends from.
type Base struct {
	id   NodeID
	span ast.Span
}

func (n Base) ID() NodeID     { return n.id }
func (n Base) Span() ast.Span { return n.span }

// Node is the base interface for all TIR nodes.
type Node interface {
	ID() NodeID
	Span() ast.Span
}

// Expr is a TIR expression.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a TIR statement.
type Stmt interface {
	Node
	stmtNode()
}

// Item is a TIR top-level declaration.
type Item interface {
	Node
	itemNode()
}

// Module is one lowered source file.
type Module struct {
	Base
	Path    string
	Items   []Item
	IsEntry bool // defines a function named "main"
}

// Param is a function parameter. Declared is nil when the surface source
// omitted the annotation, which the analyzer treats as fatal
// (E_MISSING_ANNOTATION, spec §4.4).
type Param struct {
	Base
	Name     string
	Declared types.Type
}

// FuncDecl is a function or method definition. ReturnDeclared is nil when
// the surface source omitted the return annotation.
type FuncDecl struct {
	Base
	Name           string
	Params         []*Param
	ReturnDeclared types.Type
	IsAsync        bool
	IsMethod       bool
	IsStatic       bool
	Mutates        bool
	Body           []Stmt
	Attrs          []ast.Attr
}

func (d *FuncDecl) itemNode() {}

// FieldDecl is a dataclass-style field.
type FieldDecl struct {
	Base
	Name       string
	Declared   types.Type
	HasDefault bool
	Default    Expr // non-nil iff HasDefault; the surface default value expression
}

// TypeDecl is a lowered class/dataclass declaration. The synthetic
// constructor ("new") takes one parameter per field; fields with a surface
// default become Optional parameters (spec §4.2).
type TypeDecl struct {
	Base
	Name    string
	Fields  []*FieldDecl
	Methods []*FuncDecl
	Attrs   []ast.Attr
}

func (d *TypeDecl) itemNode() {}

// ConstDecl is a top-level constant binding.
type ConstDecl struct {
	Base
	Name     string
	Declared types.Type
	Value    Expr
}

func (d *ConstDecl) itemNode() {}

// --- Statements --------------------------------------------------------

// LetStmt introduces a new local binding with an explicit declared type.
type LetStmt struct {
	Base
	Name     string
	Declared types.Type
	Value    Expr
}

func (s *LetStmt) stmtNode() {}

// AssignStmt is an un-annotated assignment to one binding (or a flat list of
// bindings, for tuple-destructuring assignment). A target's first occurrence
// introduces the binding (the analyzer sets Annotation.Declares on it); a
// later occurrence reassigns it.
type AssignStmt struct {
	Base
	Targets []Expr
	Value   Expr
}

func (s *AssignStmt) stmtNode() {}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	Base
	X Expr
}

func (s *ExprStmt) stmtNode() {}

// IfStmt is a conditional; Else is nil, or a single-element slice holding a
// nested IfStmt (elif chains), or an arbitrary block (else).
type IfStmt struct {
	Base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (s *IfStmt) stmtNode() {}

// WhileStmt is a while loop.
type WhileStmt struct {
	Base
	Cond Expr
	Body []Stmt
}

func (s *WhileStmt) stmtNode() {}

// ForStmt is a for-over-iterable loop.
type ForStmt struct {
	Base
	Var      string
	Iterable Expr
	Body     []Stmt
}

func (s *ForStmt) stmtNode() {}

// BreakStmt / ContinueStmt / ReturnStmt are the remaining control-flow
// statements.
type BreakStmt struct{ Base }

func (s *BreakStmt) stmtNode() {}

type ContinueStmt struct{ Base }

func (s *ContinueStmt) stmtNode() {}

type ReturnStmt struct {
	Base
	Value Expr // nil for bare return
}

func (s *ReturnStmt) stmtNode() {}

// BlockStmt is a lexical block lowered from a scoped-resource acquisition
// (spec §4.4, §9): Acquire runs first (binding a resource, possibly under
// Var), then Body, and the block's closing brace is the drop point.
type BlockStmt struct {
	Base
	Var     string
	Acquire Expr
	Body    []Stmt
}

func (s *BlockStmt) stmtNode() {}

// --- Expressions ---------------------------------------------------------

type IntLit struct {
	Base
	Value int64
}

func (e *IntLit) exprNode() {}

type FloatLit struct {
	Base
	Value float64
}

func (e *FloatLit) exprNode() {}

type BoolLit struct {
	Base
	Value bool
}

func (e *BoolLit) exprNode() {}

// StrLit is a string literal; whether it is emitted as an owned string or a
// borrowed slice is an emission-time decision driven by the boundary rule
// (spec §4.5), not carried on the node itself.
type StrLit struct {
	Base
	Value string
}

func (e *StrLit) exprNode() {}

type NoneLit struct{ Base }

func (e *NoneLit) exprNode() {}

// Ident is a variable or function name reference.
type Ident struct {
	Base
	Name string
}

func (e *Ident) exprNode() {}

// Call is a direct function call.
type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

func (e *Call) exprNode() {}

// MethodCall is `recv.name(args...)`, dispatched by receiver type first
// against the stub registry, then against user-defined methods (spec §4.4).
type MethodCall struct {
	Base
	Recv Expr
	Name string
	Args []Expr
}

func (e *MethodCall) exprNode() {}

// FieldAccess is `recv.name` where name is not being called.
type FieldAccess struct {
	Base
	Recv Expr
	Name string
}

func (e *FieldAccess) exprNode() {}

// Index is `recv[index]`.
type Index struct {
	Base
	Recv  Expr
	Index Expr
}

func (e *Index) exprNode() {}

// Unary is a prefix unary operator.
type Unary struct {
	Base
	Op string
	X  Expr
}

func (e *Unary) exprNode() {}

// Binary is an arithmetic binary operator.
type Binary struct {
	Base
	Op          string
	Left, Right Expr
}

func (e *Binary) exprNode() {}

// BoolOp is `and`/`or`.
type BoolOp struct {
	Base
	Op          string
	Left, Right Expr
}

func (e *BoolOp) exprNode() {}

// Compare is a single (non-chained) comparison.
type Compare struct {
	Base
	Op          string
	Left, Right Expr
}

func (e *Compare) exprNode() {}

// Membership is `x in y` / `x not in y`.
type Membership struct {
	Base
	Negated     bool
	Left, Right Expr
}

func (e *Membership) exprNode() {}

// Cond is a ternary conditional expression.
type Cond struct {
	Base
	Cond, Then, Else Expr
}

func (e *Cond) exprNode() {}

// TupleExpr is a tuple display.
type TupleExpr struct {
	Base
	Elems []Expr
}

func (e *TupleExpr) exprNode() {}

// SeqLit is a sequence display (list literal or single-clause comprehension,
// which the emitter lowers to an iterator filter/map/collect chain).
type SeqLit struct {
	Base
	Elems    []Expr
	IsCompr  bool
	CompVar  string
	CompIn   Expr
	CompIf   Expr
	CompBody Expr
}

func (e *SeqLit) exprNode() {}

// MapEntry is one key/value pair of a MapLit.
type MapEntry struct {
	Key, Value Expr
}

// MapLit is a mapping display.
type MapLit struct {
	Base
	Entries []MapEntry
}

func (e *MapLit) exprNode() {}

// SetLit is an unordered-set display.
type SetLit struct {
	Base
	Elems []Expr
}

func (e *SetLit) exprNode() {}

// FormatPart mirrors ast.FStringPart at the TIR level.
type FormatPart struct {
	Text string
	Expr Expr
	Spec string
}

// FormatStr is a formatted string literal; always owned-string typed.
type FormatStr struct {
	Base
	Parts []FormatPart
}

func (e *FormatStr) exprNode() {}

// Await is a prefix-await expression; lowered to postfix at emission.
type Await struct {
	Base
	X Expr
}

func (e *Await) exprNode() {}
