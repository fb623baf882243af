// Package analyzer implements the semantic analyzer (spec §4.4): it walks
// the TIR bottom-up and produces an annotation table keyed by node
// identity, never mutating a TIR node in place (spec §3 Lifecycle).
package analyzer

import (
	"github.com/polylang/transpile/internal/ast"
	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/stubs"
	"github.com/polylang/transpile/internal/tir"
	"github.com/polylang/transpile/internal/types"
)

// mutatingMethods is the fixed set of container method names whose receiver
// is treated as requiring exclusive access (spec §4.4 mutability inference).
var mutatingMethods = map[string]bool{
	"push": true, "append": true, "insert": true, "clear": true,
	"pop": true, "remove": true, "extend": true, "sort": true,
}

type funcSig struct {
	params  []types.Type
	ret     types.Type
	isAsync bool
}

// Analyzer carries the state accumulated across one analysis run: resolved
// user function/type signatures, the stub registry, and the diagnostics
// collector. One Analyzer is scoped to one module (spec §5: invocation-local
// state, no internal parallelism).
type Analyzer struct {
	reg   *stubs.Registry
	errs  *diag.Collector
	table *tir.Table
	funcs map[string]*funcSig
	types map[string]*tir.TypeDecl
}

type varInfo struct {
	typ    types.Type
	declID tir.NodeID
}

type funcCtx struct {
	isAsync    bool
	returnType types.Type
	enclosing  *tir.TypeDecl
	scope      map[string]*varInfo
}

// Analyze walks mod and returns the annotation table. Diagnostics are
// collected into errs; the caller decides whether to proceed to emission
// based on errs.Fatal().
func Analyze(mod *tir.Module, reg *stubs.Registry, errs *diag.Collector) *tir.Table {
	a := &Analyzer{
		reg:   reg,
		errs:  errs,
		table: tir.NewTable(),
		funcs: make(map[string]*funcSig),
		types: make(map[string]*tir.TypeDecl),
	}
	a.collectSignatures(mod)

	for _, item := range mod.Items {
		switch it := item.(type) {
		case *tir.FuncDecl:
			a.analyzeFunc(it, nil)
			if mod.IsEntry && it.Name == "main" && !it.IsMethod && it.IsAsync {
				a.table.Ensure(it.ID()).AsyncMain = true
			}
		case *tir.TypeDecl:
			for _, m := range it.Methods {
				a.analyzeFunc(m, it)
			}
		case *tir.ConstDecl:
			t := a.inferExpr(it.Value, &funcCtx{scope: map[string]*varInfo{}})
			final := it.Declared
			if final == nil {
				final = t
			}
			a.table.Set(it.ID(), &tir.Annotation{Type: final})
		}
	}
	return a.table
}

// collectSignatures makes a first pass recording every user function and
// type signature so forward references within the module resolve, and
// reports missing parameter/return annotations (spec §4.4: fatal but
// continuable, so registration still proceeds with an Unknown placeholder).
func (a *Analyzer) collectSignatures(mod *tir.Module) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *tir.FuncDecl:
			a.funcs[it.Name] = a.signatureOf(it)
		case *tir.TypeDecl:
			a.types[it.Name] = it
			for _, f := range it.Fields {
				if f.Declared == nil {
					a.errs.Add(diag.New(diag.EMissingAnnotation, "analyze", spanOf(f),
						"field %s.%s has no declared type", it.Name, f.Name))
				}
			}
			for _, m := range it.Methods {
				a.funcs[it.Name+"."+m.Name] = a.signatureOf(m)
			}
		}
	}
}

func (a *Analyzer) signatureOf(fn *tir.FuncDecl) *funcSig {
	sig := &funcSig{isAsync: fn.IsAsync}
	for _, p := range fn.Params {
		if p.Declared == nil {
			a.errs.Add(diag.New(diag.EMissingAnnotation, "analyze", spanOf(p),
				"parameter %s of %s has no declared type", p.Name, fn.Name))
			sig.params = append(sig.params, &types.TUnknown{Hint: "missing parameter annotation"})
			continue
		}
		sig.params = append(sig.params, p.Declared)
	}
	if fn.ReturnDeclared == nil {
		a.errs.Add(diag.New(diag.EMissingAnnotation, "analyze", spanOf(fn),
			"function %s has no declared return type", fn.Name))
		sig.ret = &types.TUnknown{Hint: "missing return annotation"}
	} else {
		sig.ret = fn.ReturnDeclared
	}
	return sig
}

func spanOf(n tir.Node) *ast.Span {
	s := n.Span()
	return &s
}

func (a *Analyzer) analyzeFunc(fn *tir.FuncDecl, enclosing *tir.TypeDecl) {
	scope := make(map[string]*varInfo, len(fn.Params)+1)
	for _, p := range fn.Params {
		t := p.Declared
		if t == nil {
			t = &types.TUnknown{Hint: "missing parameter annotation"}
		}
		a.table.Set(p.ID(), &tir.Annotation{Type: t})
		scope[p.Name] = &varInfo{typ: t, declID: p.ID()}
	}
	if enclosing != nil && fn.IsMethod {
		scope["self"] = &varInfo{typ: &types.TNamed{Path: enclosing.Name}, declID: fn.ID()}
	}
	ret := fn.ReturnDeclared
	if ret == nil {
		ret = &types.TUnknown{Hint: "missing return annotation"}
	}
	ctx := &funcCtx{isAsync: fn.IsAsync, returnType: ret, enclosing: enclosing, scope: scope}
	a.analyzeBlock(fn.Body, ctx)
}

func (a *Analyzer) analyzeBlock(stmts []tir.Stmt, ctx *funcCtx) {
	for _, s := range stmts {
		a.analyzeStmt(s, ctx)
	}
}

func (a *Analyzer) analyzeStmt(s tir.Stmt, ctx *funcCtx) {
	switch st := s.(type) {
	case *tir.LetStmt:
		valType := a.inferExpr(st.Value, ctx)
		final := st.Declared
		if final == nil {
			if valType == nil || types.IsUnknown(valType) {
				a.errs.Add(diag.New(diag.EUninferableLocal, "analyze", spanOf(st),
					"cannot infer type of %s", st.Name))
				final = &types.TUnknown{Hint: "uninferable local"}
			} else {
				final = valType
			}
		}
		ann := &tir.Annotation{Type: final}
		if isPropagationSite(valType, ctx.returnType) {
			ann.PropagationSite = true
		}
		a.table.Set(st.ID(), ann)
		ctx.scope[st.Name] = &varInfo{typ: final, declID: st.ID()}

	case *tir.AssignStmt:
		valType := a.inferExpr(st.Value, ctx)
		if len(st.Targets) == 1 {
			a.bindTarget(st.Targets[0], valType, ctx, isPropagationSite(valType, ctx.returnType))
			return
		}
		elems := tupleElems(valType, len(st.Targets))
		secondIsChannelReceiver := isStubTupleCall(st.Value) && len(st.Targets) == 2
		for i, target := range st.Targets {
			forceMutable := secondIsChannelReceiver && i == 1
			a.bindTarget(target, elems[i], ctx, false)
			if forceMutable {
				if id, ok := target.(*tir.Ident); ok {
					a.table.Ensure(id.ID()).Mutable = true
				}
			}
		}

	case *tir.ExprStmt:
		a.inferExpr(st.X, ctx)

	case *tir.IfStmt:
		a.inferExpr(st.Cond, ctx)
		a.analyzeBlock(st.Then, ctx)
		a.analyzeBlock(st.Else, ctx)

	case *tir.WhileStmt:
		a.inferExpr(st.Cond, ctx)
		a.analyzeBlock(st.Body, ctx)

	case *tir.ForStmt:
		iterType := a.inferExpr(st.Iterable, ctx)
		elem := elementTypeOf(iterType)
		ctx.scope[st.Var] = &varInfo{typ: elem, declID: st.ID()}
		a.analyzeBlock(st.Body, ctx)

	case *tir.ReturnStmt:
		if st.Value != nil {
			a.inferExpr(st.Value, ctx)
		}

	case *tir.BlockStmt:
		acquireType := a.inferExpr(st.Acquire, ctx)
		if st.Var != "" {
			ctx.scope[st.Var] = &varInfo{typ: acquireType, declID: st.ID()}
		}
		a.analyzeBlock(st.Body, ctx)

	case *tir.BreakStmt, *tir.ContinueStmt:
		// no analysis required
	}
}

// bindTarget resolves a single assignment target: a first occurrence of an
// identifier introduces a local (spec §4.4 "un-annotated locals receive the
// type of their initializer"); a repeat occurrence is a reassignment, which
// marks the original declaration mutable (spec §4.4 mutability inference).
func (a *Analyzer) bindTarget(target tir.Expr, valType types.Type, ctx *funcCtx, propagates bool) {
	id, ok := target.(*tir.Ident)
	if !ok {
		a.inferExpr(target, ctx)
		return
	}
	if existing, bound := ctx.scope[id.Name]; bound {
		a.table.Ensure(existing.declID).Mutable = true
		a.table.Set(id.ID(), &tir.Annotation{Type: existing.typ})
		return
	}
	final := valType
	if final == nil || types.IsUnknown(final) {
		a.errs.Add(diag.New(diag.EUninferableLocal, "analyze", spanOf(id),
			"cannot infer type of %s", id.Name))
		final = &types.TUnknown{Hint: "uninferable local"}
	}
	ann := &tir.Annotation{Type: final, PropagationSite: propagates, Declares: true}
	a.table.Set(id.ID(), ann)
	ctx.scope[id.Name] = &varInfo{typ: final, declID: id.ID()}
}

// isPropagationSite reports whether assigning a call result of type
// valType inside a function returning ctx.returnType should be tagged as
// an implicit-unwrap propagation site (spec §4.4): the binding and the
// enclosing function must both be Fallible for the `?`-style unwrap to
// have anywhere to propagate to.
func isPropagationSite(valType, returnType types.Type) bool {
	if _, ok := valType.(*types.TFallible); !ok {
		return false
	}
	_, ok := returnType.(*types.TFallible)
	return ok
}

func tupleElems(t types.Type, n int) []types.Type {
	out := make([]types.Type, n)
	if tup, ok := t.(*types.TTuple); ok && len(tup.Elems) == n {
		copy(out, tup.Elems)
		return out
	}
	for i := range out {
		out[i] = &types.TUnknown{Hint: "tuple arity mismatch"}
	}
	return out
}

func elementTypeOf(t types.Type) types.Type {
	switch tt := t.(type) {
	case *types.TSequence:
		return tt.Elem
	case *types.TSet:
		return tt.Elem
	default:
		return &types.TUnknown{Hint: "non-iterable"}
	}
}

// isStubTupleCall reports whether e is a direct call (not a method call).
// Any such call on the right of a two-target destructuring is treated as a
// channel constructor, whose second (receiver) binding is marked mutable
// (spec §5). The callee is not looked up in the stub registry and its
// return type is not inspected.
func isStubTupleCall(e tir.Expr) bool {
	_, ok := e.(*tir.Call)
	return ok
}
