// Package ast defines the surface abstract syntax tree produced by the
// parser for the accepted SRC subset (spec §4.1).
package ast

import "fmt"

// Node is the base interface for all surface AST nodes.
type Node interface {
	Position() Pos
}

// Pos is a single point in source text.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Span is a half-open range in source text.
type Span struct {
	Start Pos
	End   Pos
}

// File is a single parsed SRC source file.
type File struct {
	Path  string
	Items []Item
	Pos   Pos
}

func (f *File) Position() Pos { return f.Pos }

// Item is a top-level declaration: a function, a class, or a constant.
type Item interface {
	Node
	itemNode()
}

// Attr is a lifted pass-through attribute comment (`# #[...]`), re-emitted
// verbatim above its target declaration (spec §4.1, §4.5).
type Attr struct {
	Text string
}

// Param is a single function parameter.
type Param struct {
	Name     string
	Type     TypeExpr // nil if unannotated (fatal per spec §4.4)
	Default  Expr     // parameter default (`x: int = 0`); nil if none
	Pos      Pos
}

// FuncDecl is a function or method definition.
type FuncDecl struct {
	Name       string
	Params     []*Param
	Return     TypeExpr // nil if unannotated
	IsAsync    bool
	IsMethod   bool
	IsStatic   bool // classmethod/staticmethod-style: omits a receiver
	Mutates    bool // declared body mutates self (informs receiver form)
	Body       []Stmt
	Attrs      []Attr
	Pos        Pos
}

func (d *FuncDecl) Position() Pos { return d.Pos }
func (d *FuncDecl) itemNode()     {}

// FieldDecl is a single dataclass-style annotated attribute.
type FieldDecl struct {
	Name    string
	Type    TypeExpr
	Default Expr // non-nil => becomes an Optional constructor parameter
	Pos     Pos
}

// ClassDecl is a class or dataclass-style declaration.
type ClassDecl struct {
	Name        string
	IsDataclass bool
	Bases       []string // non-empty => E_UNSUPPORTED_CONSTRUCT (no inheritance, spec §9)
	Fields      []*FieldDecl
	Methods     []*FuncDecl
	Attrs       []Attr
	Pos         Pos
}

func (c *ClassDecl) Position() Pos { return c.Pos }
func (c *ClassDecl) itemNode()     {}

// ConstDecl is a top-level constant binding.
type ConstDecl struct {
	Name  string
	Type  TypeExpr
	Value Expr
	Pos   Pos
}

func (c *ConstDecl) Position() Pos { return c.Pos }
func (c *ConstDecl) itemNode()     {}

// ImportDecl is a stub/module import.
type ImportDecl struct {
	Path string
	Pos  Pos
}

func (i *ImportDecl) Position() Pos { return i.Pos }
func (i *ImportDecl) itemNode()     {}

// --- Type expressions (surface syntax, pre-TIR) ---------------------------

// TypeExpr is a surface type annotation.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NameType is a bare or generic nominal type reference, e.g. `int`,
// `list[str]`, `Result[int, str]`.
type NameType struct {
	Name     string
	Generics []TypeExpr
	Pos      Pos
}

func (t *NameType) Position() Pos { return t.Pos }
func (t *NameType) typeExprNode() {}

// OptionalType is `Optional[T]` / `T | None`.
type OptionalType struct {
	Inner TypeExpr
	Pos   Pos
}

func (t *OptionalType) Position() Pos { return t.Pos }
func (t *OptionalType) typeExprNode() {}

// TupleType is `tuple[T, U, ...]`.
type TupleType struct {
	Elems []TypeExpr
	Pos   Pos
}

func (t *TupleType) Position() Pos { return t.Pos }
func (t *TupleType) typeExprNode() {}

// --- Statements ------------------------------------------------------------

// Stmt is a surface statement.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	X   Expr
	Pos Pos
}

func (s *ExprStmt) Position() Pos { return s.Pos }
func (s *ExprStmt) stmtNode()     {}

// AssignStmt covers plain assignment, typed local declaration, and tuple
// destructuring (`tx, rx = mpsc_channel(10)`). IsDecl is true when the
// statement carries a type annotation (`x: int = 0`); an un-annotated first
// assignment also introduces a binding but has IsDecl false.
type AssignStmt struct {
	Targets []Expr // Identifier, or a flat list for tuple unpacking
	Type    TypeExpr
	Value   Expr
	IsDecl  bool
	Pos     Pos
}

func (s *AssignStmt) Position() Pos { return s.Pos }
func (s *AssignStmt) stmtNode()     {}

// AugAssignStmt is `x += y` etc.; the IR builder rewrites it to a plain
// AssignStmt around a BinaryExpr (spec §4.2).
type AugAssignStmt struct {
	Target Expr
	Op     string
	Value  Expr
	Pos    Pos
}

func (s *AugAssignStmt) Position() Pos { return s.Pos }
func (s *AugAssignStmt) stmtNode()     {}

// IfStmt is if/elif/else; Elifs chain as nested IfStmt in Else.
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // may itself be a single *IfStmt wrapped in ExprStmt-less form
	Pos  Pos
}

func (s *IfStmt) Position() Pos { return s.Pos }
func (s *IfStmt) stmtNode()     {}

// WhileStmt is a while loop.
type WhileStmt struct {
	Cond Expr
	Body []Stmt
	Pos  Pos
}

func (s *WhileStmt) Position() Pos { return s.Pos }
func (s *WhileStmt) stmtNode()     {}

// ForStmt is `for x in iterable:`.
type ForStmt struct {
	Var      string
	Iterable Expr
	Body     []Stmt
	Pos      Pos
}

func (s *ForStmt) Position() Pos { return s.Pos }
func (s *ForStmt) stmtNode()     {}

// BreakStmt / ContinueStmt / ReturnStmt / PassStmt are the remaining
// control-flow statements.
type BreakStmt struct{ Pos Pos }

func (s *BreakStmt) Position() Pos { return s.Pos }
func (s *BreakStmt) stmtNode()     {}

type ContinueStmt struct{ Pos Pos }

func (s *ContinueStmt) Position() Pos { return s.Pos }
func (s *ContinueStmt) stmtNode()     {}

type ReturnStmt struct {
	Value Expr // nil for bare `return`
	Pos   Pos
}

func (s *ReturnStmt) Position() Pos { return s.Pos }
func (s *ReturnStmt) stmtNode()     {}

type PassStmt struct{ Pos Pos }

func (s *PassStmt) Position() Pos { return s.Pos }
func (s *PassStmt) stmtNode()     {}

// WithStmt is a supported scoped-resource acquisition (spec §4.4, §9): the
// binding acquires the resource and the block's end is the release point.
type WithStmt struct {
	Resource Expr   // call expression constructing the resource
	Var      string // binding name, empty if the stub declares none
	Body     []Stmt
	Pos      Pos
}

func (s *WithStmt) Position() Pos { return s.Pos }
func (s *WithStmt) stmtNode()     {}

// --- Expressions ------------------------------------------------------------

// Expr is a surface expression.
type Expr interface {
	Node
	exprNode()
}

// Identifier is a variable or function name reference.
type Identifier struct {
	Name string
	Pos  Pos
}

func (e *Identifier) Position() Pos { return e.Pos }
func (e *Identifier) exprNode()     {}

// IntLit, FloatLit, BoolLit, StrLit, NoneLit are literal expressions.
type IntLit struct {
	Value int64
	Pos   Pos
}

func (e *IntLit) Position() Pos { return e.Pos }
func (e *IntLit) exprNode()     {}

type FloatLit struct {
	Value float64
	Pos   Pos
}

func (e *FloatLit) Position() Pos { return e.Pos }
func (e *FloatLit) exprNode()     {}

type BoolLit struct {
	Value bool
	Pos   Pos
}

func (e *BoolLit) Position() Pos { return e.Pos }
func (e *BoolLit) exprNode()     {}

type StrLit struct {
	Value string
	Pos   Pos
}

func (e *StrLit) Position() Pos { return e.Pos }
func (e *StrLit) exprNode()     {}

type NoneLit struct{ Pos Pos }

func (e *NoneLit) Position() Pos { return e.Pos }
func (e *NoneLit) exprNode()     {}

// FStringPart is either literal text or an interpolated expression with an
// optional format specifier (`{expr:spec}`).
type FStringPart struct {
	Text string // literal text; empty when Expr != nil
	Expr Expr
	Spec string
}

// FStringLit is a formatted string literal; always owned-string typed
// (spec §4.4).
type FStringLit struct {
	Parts []FStringPart
	Pos   Pos
}

func (e *FStringLit) Position() Pos { return e.Pos }
func (e *FStringLit) exprNode()     {}

// CallExpr is a function or constructor call.
type CallExpr struct {
	Func Expr
	Args []Expr
	Pos  Pos
}

func (e *CallExpr) Position() Pos { return e.Pos }
func (e *CallExpr) exprNode()     {}

// AttrExpr is attribute access (`recv.name`), also the surface form of a
// method call before argument resolution (parsed as CallExpr{Func: AttrExpr}).
type AttrExpr struct {
	Recv Expr
	Name string
	Pos  Pos
}

func (e *AttrExpr) Position() Pos { return e.Pos }
func (e *AttrExpr) exprNode()     {}

// SubscriptExpr is `recv[index]`.
type SubscriptExpr struct {
	Recv  Expr
	Index Expr
	Pos   Pos
}

func (e *SubscriptExpr) Position() Pos { return e.Pos }
func (e *SubscriptExpr) exprNode()     {}

// UnaryExpr is a prefix unary operator (`-x`, `not x`).
type UnaryExpr struct {
	Op string
	X  Expr
	Pos Pos
}

func (e *UnaryExpr) Position() Pos { return e.Pos }
func (e *UnaryExpr) exprNode()     {}

// BinaryExpr is an arithmetic binary operator.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (e *BinaryExpr) Position() Pos { return e.Pos }
func (e *BinaryExpr) exprNode()     {}

// BoolOpExpr is `and`/`or`.
type BoolOpExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (e *BoolOpExpr) Position() Pos { return e.Pos }
func (e *BoolOpExpr) exprNode()     {}

// CompareExpr is a comparison operator (`<`, `<=`, `==`, `!=`, `>`, `>=`).
type CompareExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (e *CompareExpr) Position() Pos { return e.Pos }
func (e *CompareExpr) exprNode()     {}

// MembershipExpr is `x in y` / `x not in y`.
type MembershipExpr struct {
	Negated bool
	Left    Expr
	Right   Expr
	Pos     Pos
}

func (e *MembershipExpr) Position() Pos { return e.Pos }
func (e *MembershipExpr) exprNode()     {}

// CondExpr is `a if cond else b`.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (e *CondExpr) Position() Pos { return e.Pos }
func (e *CondExpr) exprNode()     {}

// TupleExpr is a tuple display or destructuring target list.
type TupleExpr struct {
	Elems []Expr
	Pos   Pos
}

func (e *TupleExpr) Position() Pos { return e.Pos }
func (e *TupleExpr) exprNode()     {}

// SeqLit is a sequence (list) display, optionally a single-clause
// comprehension (`[f(x) for x in xs]`, `[f(x) for x in xs if cond]`).
type SeqLit struct {
	Elems    []Expr
	IsCompr  bool
	CompFor  string // bound name, comprehension form only
	CompIn   Expr
	CompIf   Expr // nil if no filter clause
	CompBody Expr
	Pos      Pos
}

func (e *SeqLit) Position() Pos { return e.Pos }
func (e *SeqLit) exprNode()     {}

// MapEntry is a single key/value pair in a MapLit.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is a mapping display.
type MapLit struct {
	Entries []MapEntry
	Pos     Pos
}

func (e *MapLit) Position() Pos { return e.Pos }
func (e *MapLit) exprNode()     {}

// SetLit is an unordered-set display.
type SetLit struct {
	Elems []Expr
	Pos   Pos
}

func (e *SetLit) Position() Pos { return e.Pos }
func (e *SetLit) exprNode()     {}

// AwaitExpr is a prefix await expression, lowered to postfix at emission
// (spec §4.5).
type AwaitExpr struct {
	X   Expr
	Pos Pos
}

func (e *AwaitExpr) Position() Pos { return e.Pos }
func (e *AwaitExpr) exprNode()     {}
