package analyzer

import (
	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/stubs"
	"github.com/polylang/transpile/internal/tir"
	"github.com/polylang/transpile/internal/types"
)

// inferExpr assigns a type to e, records its annotation in the table, and
// returns the resolved type so callers (statement analysis, enclosing
// expressions) can use it without a second table lookup.
func (a *Analyzer) inferExpr(e tir.Expr, ctx *funcCtx) types.Type {
	if e == nil {
		return &types.TUnknown{Hint: "nil expression"}
	}
	t := a.inferExprUntagged(e, ctx)
	ann := a.table.Ensure(e.ID())
	ann.Type = t
	return t
}

func (a *Analyzer) inferExprUntagged(e tir.Expr, ctx *funcCtx) types.Type {
	switch x := e.(type) {
	case *tir.IntLit:
		return types.NewInt()
	case *tir.FloatLit:
		return types.NewFloat()
	case *tir.BoolLit:
		return types.NewBool()
	case *tir.StrLit:
		return types.NewOwnedString()
	case *tir.NoneLit:
		return &types.TOptional{Inner: &types.TUnknown{Hint: "None literal"}}
	case *tir.FormatStr:
		for _, p := range x.Parts {
			if p.Expr != nil {
				a.inferExpr(p.Expr, ctx)
			}
		}
		return types.NewOwnedString()

	case *tir.Ident:
		return a.inferIdent(x, ctx)

	case *tir.Call:
		return a.inferCall(x, ctx)

	case *tir.MethodCall:
		return a.inferMethodCall(x, ctx)

	case *tir.FieldAccess:
		recvType := a.inferExpr(x.Recv, ctx)
		return a.fieldType(recvType, x.Name)

	case *tir.Index:
		recvType := a.inferExpr(x.Recv, ctx)
		idxType := a.inferExpr(x.Index, ctx)
		if seq, ok := recvType.(*types.TSequence); ok {
			if types.IsInt(idxType) {
				a.table.Ensure(x.ID()).InsertIndexCast = true
			}
			return seq.Elem
		}
		if m, ok := recvType.(*types.TMapping); ok {
			return m.Value
		}
		a.errs.Add(diag.New(diag.ETypeMismatch, "analyze", spanOf(x),
			"cannot index a value of type %s", recvType))
		return &types.TUnknown{Hint: "bad index receiver"}

	case *tir.Unary:
		return a.inferExpr(x.X, ctx)

	case *tir.Binary:
		lt := a.inferExpr(x.Left, ctx)
		rt := a.inferExpr(x.Right, ctx)
		if x.Op == "+" && types.IsString(lt) && types.IsString(rt) {
			return types.NewOwnedString()
		}
		if !lt.Equals(rt) {
			a.errs.Add(diag.New(diag.ETypeMismatch, "analyze", spanOf(x),
				"binary %s applied to %s and %s", x.Op, lt, rt))
		}
		return lt

	case *tir.BoolOp:
		a.inferExpr(x.Left, ctx)
		a.inferExpr(x.Right, ctx)
		return types.NewBool()

	case *tir.Compare:
		a.inferExpr(x.Left, ctx)
		a.inferExpr(x.Right, ctx)
		return types.NewBool()

	case *tir.Membership:
		a.inferExpr(x.Left, ctx)
		a.inferExpr(x.Right, ctx)
		return types.NewBool()

	case *tir.Cond:
		a.inferExpr(x.Cond, ctx)
		thenT := a.inferExpr(x.Then, ctx)
		a.inferExpr(x.Else, ctx)
		return thenT

	case *tir.TupleExpr:
		elems := make([]types.Type, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = a.inferExpr(el, ctx)
		}
		return &types.TTuple{Elems: elems}

	case *tir.SeqLit:
		if x.IsCompr {
			inT := a.inferExpr(x.CompIn, ctx)
			elemT := elementTypeOf(inT)
			ctx.scope[x.CompVar] = &varInfo{typ: elemT}
			if x.CompIf != nil {
				a.inferExpr(x.CompIf, ctx)
			}
			bodyT := a.inferExpr(x.CompBody, ctx)
			return &types.TSequence{Elem: bodyT}
		}
		var elemT types.Type = &types.TUnknown{Hint: "empty sequence literal"}
		for _, el := range x.Elems {
			elemT = a.inferExpr(el, ctx)
		}
		return &types.TSequence{Elem: elemT}

	case *tir.MapLit:
		var kt, vt types.Type = &types.TUnknown{Hint: "empty mapping literal"}, &types.TUnknown{Hint: "empty mapping literal"}
		for _, entry := range x.Entries {
			kt = a.inferExpr(entry.Key, ctx)
			vt = a.inferExpr(entry.Value, ctx)
		}
		return &types.TMapping{Key: kt, Value: vt}

	case *tir.SetLit:
		var elemT types.Type = &types.TUnknown{Hint: "empty set literal"}
		for _, el := range x.Elems {
			elemT = a.inferExpr(el, ctx)
		}
		return &types.TSet{Elem: elemT}

	case *tir.Await:
		if !ctx.isAsync {
			a.errs.Add(diag.New(diag.EAwaitOutsideAsync, "analyze", spanOf(x),
				"await used outside an async function"))
		}
		return a.inferExpr(x.X, ctx)

	default:
		return &types.TUnknown{Hint: "unhandled expression kind"}
	}
}

func (a *Analyzer) inferIdent(id *tir.Ident, ctx *funcCtx) types.Type {
	if v, ok := ctx.scope[id.Name]; ok {
		return v.typ
	}
	if sig, ok := a.funcs[id.Name]; ok {
		return &types.TFunc{Params: sig.params, Return: sig.ret, IsAsync: sig.isAsync}
	}
	if _, ok := a.types[id.Name]; ok {
		return &types.TNamed{Path: id.Name}
	}
	switch id.Name {
	case "print", "len", "Ok", "Err":
		return &types.TUnknown{Hint: "builtin reference"}
	}
	a.errs.Add(diag.New(diag.EUnknownSymbol, "analyze", spanOf(id),
		"unknown name %s", id.Name))
	return &types.TUnknown{Hint: "unknown symbol"}
}

// inferCall resolves a direct call: a class constructor, a builtin, a
// user-defined function, or a stub-registered free function (spec §4.4).
func (a *Analyzer) inferCall(c *tir.Call, ctx *funcCtx) types.Type {
	name, ok := calleeName(c.Callee)
	if !ok {
		a.inferExpr(c.Callee, ctx)
		for _, arg := range c.Args {
			a.inferExpr(arg, ctx)
		}
		return &types.TUnknown{Hint: "indirect call"}
	}

	for _, arg := range c.Args {
		a.inferExpr(arg, ctx)
	}

	if td, ok := a.types[name]; ok {
		return &types.TNamed{Path: td.Name}
	}

	switch name {
	case "print":
		return types.NewUnit()
	case "len":
		return types.NewInt()
	case "Ok":
		var inner types.Type = &types.TUnknown{Hint: "empty Ok()"}
		if len(c.Args) == 1 {
			inner = a.table.Type(c.Args[0].ID())
		}
		return &types.TFallible{Ok: inner, Err: &types.TUnknown{Hint: "inferred Err"}}
	case "Err":
		var inner types.Type = &types.TUnknown{Hint: "empty Err()"}
		if len(c.Args) == 1 {
			inner = a.table.Type(c.Args[0].ID())
		}
		return &types.TFallible{Ok: &types.TUnknown{Hint: "inferred Ok"}, Err: inner}
	}

	if sig, ok := a.funcs[name]; ok {
		return sig.ret
	}

	if cal, ok := a.reg.LookupCallable(name); ok {
		sigType := stubs.ParseType(cal.Signature)
		fn, isFn := sigType.(*types.TFunc)
		a.table.Set(c.ID(), &tir.Annotation{Stub: &tir.StubResolution{
			Template: cal.Template,
			Imports:  cal.Imports,
			Build:    toBuildRequirements(cal.Build),
		}})
		if isFn {
			return fn.Return
		}
		return sigType
	}

	a.errs.Add(diag.New(diag.EUnknownSymbol, "analyze", spanOf(c),
		"unknown callable %s", name))
	return &types.TUnknown{Hint: "unresolved call"}
}

// inferMethodCall dispatches `recv.name(args)` against the stub registry
// first, keyed by the receiver's resolved type, then against user-defined
// methods on that type (spec §4.4).
func (a *Analyzer) inferMethodCall(mc *tir.MethodCall, ctx *funcCtx) types.Type {
	recvType := a.inferExpr(mc.Recv, ctx)
	for _, arg := range mc.Args {
		a.inferExpr(arg, ctx)
	}

	if mutatingMethods[mc.Name] {
		if id, ok := mc.Recv.(*tir.Ident); ok {
			if v, bound := ctx.scope[id.Name]; bound {
				a.table.Ensure(v.declID).Mutable = true
			}
		}
	}

	recvPath := namedPath(recvType)
	if recvPath != "" {
		if m, ok := a.reg.LookupMethod(recvPath, mc.Name); ok {
			sigType := stubs.ParseType(m.Signature)
			a.table.Set(mc.ID(), &tir.Annotation{Stub: &tir.StubResolution{
				Template: m.Template,
				Imports:  m.Imports,
			}})
			if fn, ok := sigType.(*types.TFunc); ok {
				return fn.Return
			}
			return sigType
		}
		if td, ok := a.types[recvPath]; ok {
			for _, m := range td.Methods {
				if m.Name == mc.Name {
					ret := m.ReturnDeclared
					if ret == nil {
						ret = &types.TUnknown{Hint: "missing return annotation"}
					}
					return ret
				}
			}
		}
	}

	if types.IsUnknown(recvType) {
		a.errs.Add(diag.New(diag.EUninferableLocal, "analyze", spanOf(mc),
			"cannot infer the receiver type of method %s; annotate the receiver", mc.Name))
		return &types.TUnknown{Hint: "uninferable receiver"}
	}

	a.errs.Add(diag.New(diag.EUnknownSymbol, "analyze", spanOf(mc),
		"unknown method %s on %s", mc.Name, recvType))
	return &types.TUnknown{Hint: "unresolved method"}
}

func (a *Analyzer) fieldType(recvType types.Type, name string) types.Type {
	path := namedPath(recvType)
	if td, ok := a.types[path]; ok {
		for _, f := range td.Fields {
			if f.Name == name {
				return f.Declared
			}
		}
	}
	return &types.TUnknown{Hint: "unresolved field"}
}

func calleeName(e tir.Expr) (string, bool) {
	id, ok := e.(*tir.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func namedPath(t types.Type) string {
	n, ok := t.(*types.TNamed)
	if !ok {
		return ""
	}
	return n.Path
}

func toBuildRequirements(in []stubs.BuildReq) []tir.BuildRequirement {
	out := make([]tir.BuildRequirement, len(in))
	for i, b := range in {
		out[i] = tir.BuildRequirement{Crate: b.Crate, Version: b.Version, Features: b.Features}
	}
	return out
}
