// Package irbuild lowers the surface AST into the typed intermediate
// representation (spec §4.2): canonicalizing augmented assignment,
// lifting pass-through attributes, tagging async functions, and turning
// dataclass-marked classes into TIR type declarations.
package irbuild

import (
	"github.com/polylang/transpile/internal/ast"
	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/tir"
	"github.com/polylang/transpile/internal/types"
)

// Builder lowers one or more surface files into TIR modules, sharing a
// single NodeID generator across every module it builds; the pipeline and
// the CLI use one Builder per invocation (spec §3 Lifecycle: node identity
// is stable per invocation).
type Builder struct {
	ids  *tir.IDGen
	errs *diag.Collector
}

// New returns a Builder collecting diagnostics into errs.
func New(errs *diag.Collector) *Builder {
	return &Builder{ids: tir.NewIDGen(), errs: errs}
}

// BuildModule lowers a single parsed file into a TIR module. modulePath is
// the module's dotted identity (derived from the file's path relative to
// the input root by the caller).
func (b *Builder) BuildModule(file *ast.File, modulePath string) *tir.Module {
	mod := &tir.Module{Base: b.ids.Node(tir.SpanOf(file.Pos)), Path: modulePath}
	for _, item := range file.Items {
		switch it := item.(type) {
		case *ast.FuncDecl:
			fn := b.buildFunc(it)
			mod.Items = append(mod.Items, fn)
			if fn.Name == "main" && !fn.IsMethod {
				mod.IsEntry = true
			}
		case *ast.ClassDecl:
			mod.Items = append(mod.Items, b.buildClass(it))
		case *ast.ConstDecl:
			mod.Items = append(mod.Items, &tir.ConstDecl{
				Base: b.ids.Node(tir.SpanOf(it.Pos)), Name: it.Name,
				Declared: convertType(it.Type), Value: b.buildExpr(it.Value),
			})
		case *ast.ImportDecl:
			// Imports resolve through the stub registry at analysis time;
			// the IR carries no node for them (spec §4.3).
		}
	}
	return mod
}

func (b *Builder) buildFunc(f *ast.FuncDecl) *tir.FuncDecl {
	params := make([]*tir.Param, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, &tir.Param{
			Base: b.ids.Node(tir.SpanOf(p.Pos)), Name: p.Name, Declared: convertType(p.Type),
		})
	}
	return &tir.FuncDecl{
		Base:           b.ids.Node(tir.SpanOf(f.Pos)),
		Name:           f.Name,
		Params:         params,
		ReturnDeclared: convertType(f.Return),
		IsAsync:        f.IsAsync,
		IsMethod:       f.IsMethod,
		IsStatic:       f.IsStatic,
		Mutates:        mutatesSelf(f),
		Body:           b.buildBlock(f.Body),
		Attrs:          f.Attrs,
	}
}

// convertType lowers a surface type annotation to a TIR type. It returns
// nil for a nil TypeExpr, which the analyzer treats as a missing
// annotation (spec §4.4).
func convertType(t ast.TypeExpr) types.Type {
	if t == nil {
		return nil
	}
	switch tt := t.(type) {
	case *ast.NameType:
		return convertNameType(tt)
	case *ast.OptionalType:
		return &types.TOptional{Inner: convertType(tt.Inner)}
	case *ast.TupleType:
		elems := make([]types.Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = convertType(e)
		}
		return &types.TTuple{Elems: elems}
	default:
		return &types.TUnknown{Hint: "unrecognized type expression"}
	}
}

func convertNameType(t *ast.NameType) types.Type {
	switch t.Name {
	case "int":
		return types.NewInt()
	case "float":
		return types.NewFloat()
	case "bool":
		return types.NewBool()
	case "str":
		return types.NewOwnedString()
	case "None":
		return types.NewUnit()
	case "list":
		if len(t.Generics) == 1 {
			return &types.TSequence{Elem: convertType(t.Generics[0])}
		}
	case "dict":
		if len(t.Generics) == 2 {
			return &types.TMapping{Key: convertType(t.Generics[0]), Value: convertType(t.Generics[1])}
		}
	case "set":
		if len(t.Generics) == 1 {
			return &types.TSet{Elem: convertType(t.Generics[0])}
		}
	case "Optional":
		if len(t.Generics) == 1 {
			return &types.TOptional{Inner: convertType(t.Generics[0])}
		}
	case "Result":
		if len(t.Generics) == 2 {
			return &types.TFallible{Ok: convertType(t.Generics[0]), Err: convertType(t.Generics[1])}
		}
	case "Shared":
		if len(t.Generics) == 1 {
			return &types.TShared{Inner: convertType(t.Generics[0])}
		}
	case "Guarded":
		if len(t.Generics) == 1 {
			return &types.TGuarded{Inner: convertType(t.Generics[0])}
		}
	}
	generics := make([]types.Type, len(t.Generics))
	for i, g := range t.Generics {
		generics[i] = convertType(g)
	}
	return &types.TNamed{Path: t.Name, Generics: generics}
}

// mutatesSelf reports whether a method's body reassigns or mutates an
// attribute of self, informing the emitter's exclusive- vs shared-receiver
// choice (spec §4.5). A conservative syntactic check: any assignment whose
// target is `self.<field>` counts as mutation.
func mutatesSelf(f *ast.FuncDecl) bool {
	if !f.IsMethod {
		return false
	}
	found := false
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch st := s.(type) {
			case *ast.AssignStmt:
				for _, t := range st.Targets {
					if attr, ok := t.(*ast.AttrExpr); ok {
						if id, ok := attr.Recv.(*ast.Identifier); ok && id.Name == "self" {
							found = true
						}
					}
				}
			case *ast.IfStmt:
				walk(st.Then)
				walk(st.Else)
			case *ast.WhileStmt:
				walk(st.Body)
			case *ast.ForStmt:
				walk(st.Body)
			case *ast.WithStmt:
				walk(st.Body)
			}
		}
	}
	walk(f.Body)
	return found
}

func (b *Builder) buildClass(c *ast.ClassDecl) *tir.TypeDecl {
	if len(c.Bases) > 0 {
		b.errs.Add(diag.New(diag.EUnsupportedConstruct, "build", &ast.Span{Start: c.Pos, End: c.Pos},
			"inheritance is not supported: class %s declares base(s) %v", c.Name, c.Bases))
	}
	td := &tir.TypeDecl{Base: b.ids.Node(tir.SpanOf(c.Pos)), Name: c.Name, Attrs: c.Attrs}
	for _, f := range c.Fields {
		fd := &tir.FieldDecl{
			Base: b.ids.Node(tir.SpanOf(f.Pos)), Name: f.Name,
			Declared: convertType(f.Type), HasDefault: f.Default != nil,
		}
		if f.Default != nil {
			fd.Default = b.buildExpr(f.Default)
		}
		td.Fields = append(td.Fields, fd)
	}
	for _, m := range c.Methods {
		td.Methods = append(td.Methods, b.buildFunc(m))
	}
	return td
}

func (b *Builder) buildBlock(stmts []ast.Stmt) []tir.Stmt {
	out := make([]tir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		if ts := b.buildStmt(s); ts != nil {
			out = append(out, ts)
		}
	}
	return out
}

func (b *Builder) buildStmt(s ast.Stmt) tir.Stmt {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return &tir.ExprStmt{Base: b.ids.Node(tir.SpanOf(st.Pos)), X: b.buildExpr(st.X)}

	case *ast.AssignStmt:
		targets := make([]tir.Expr, len(st.Targets))
		for i, t := range st.Targets {
			targets[i] = b.buildExpr(t)
		}
		val := b.buildExpr(st.Value)
		if st.IsDecl {
			name := ""
			if id, ok := st.Targets[0].(*ast.Identifier); ok {
				name = id.Name
			}
			return &tir.LetStmt{
				Base: b.ids.Node(tir.SpanOf(st.Pos)), Name: name, Declared: convertType(st.Type), Value: val,
			}
		}
		return &tir.AssignStmt{Base: b.ids.Node(tir.SpanOf(st.Pos)), Targets: targets, Value: val}

	case *ast.AugAssignStmt:
		// Rewrite `x += y` to `x = x + y` before TIR construction (spec §4.2).
		target := b.buildExpr(st.Target)
		bin := &tir.Binary{
			Base: b.ids.Node(tir.SpanOf(st.Pos)), Op: st.Op, Left: target, Right: b.buildExpr(st.Value),
		}
		return &tir.AssignStmt{Base: b.ids.Node(tir.SpanOf(st.Pos)), Targets: []tir.Expr{target}, Value: bin}

	case *ast.IfStmt:
		return &tir.IfStmt{
			Base: b.ids.Node(tir.SpanOf(st.Pos)), Cond: b.buildExpr(st.Cond),
			Then: b.buildBlock(st.Then), Else: b.buildBlock(st.Else),
		}

	case *ast.WhileStmt:
		return &tir.WhileStmt{
			Base: b.ids.Node(tir.SpanOf(st.Pos)), Cond: b.buildExpr(st.Cond), Body: b.buildBlock(st.Body),
		}

	case *ast.ForStmt:
		return &tir.ForStmt{
			Base: b.ids.Node(tir.SpanOf(st.Pos)), Var: st.Var,
			Iterable: b.buildExpr(st.Iterable), Body: b.buildBlock(st.Body),
		}

	case *ast.BreakStmt:
		return &tir.BreakStmt{Base: b.ids.Node(tir.SpanOf(st.Pos))}

	case *ast.ContinueStmt:
		return &tir.ContinueStmt{Base: b.ids.Node(tir.SpanOf(st.Pos))}

	case *ast.PassStmt:
		return nil

	case *ast.ReturnStmt:
		var val tir.Expr
		if st.Value != nil {
			val = b.buildExpr(st.Value)
		}
		return &tir.ReturnStmt{Base: b.ids.Node(tir.SpanOf(st.Pos)), Value: val}

	case *ast.WithStmt:
		return &tir.BlockStmt{
			Base: b.ids.Node(tir.SpanOf(st.Pos)), Var: st.Var,
			Acquire: b.buildExpr(st.Resource), Body: b.buildBlock(st.Body),
		}

	default:
		b.errs.Add(diag.New(diag.EUnsupportedConstruct, "build", nil, "unsupported statement form %T", s))
		return nil
	}
}

func (b *Builder) buildExpr(e ast.Expr) tir.Expr {
	switch x := e.(type) {
	case *ast.IntLit:
		return &tir.IntLit{Base: b.ids.Node(tir.SpanOf(x.Pos)), Value: x.Value}
	case *ast.FloatLit:
		return &tir.FloatLit{Base: b.ids.Node(tir.SpanOf(x.Pos)), Value: x.Value}
	case *ast.BoolLit:
		return &tir.BoolLit{Base: b.ids.Node(tir.SpanOf(x.Pos)), Value: x.Value}
	case *ast.StrLit:
		return &tir.StrLit{Base: b.ids.Node(tir.SpanOf(x.Pos)), Value: x.Value}
	case *ast.NoneLit:
		return &tir.NoneLit{Base: b.ids.Node(tir.SpanOf(x.Pos))}
	case *ast.Identifier:
		return &tir.Ident{Base: b.ids.Node(tir.SpanOf(x.Pos)), Name: x.Name}
	case *ast.FStringLit:
		parts := make([]tir.FormatPart, len(x.Parts))
		for i, p := range x.Parts {
			parts[i] = tir.FormatPart{Text: p.Text, Spec: p.Spec}
			if p.Expr != nil {
				parts[i].Expr = b.buildExpr(p.Expr)
			}
		}
		return &tir.FormatStr{Base: b.ids.Node(tir.SpanOf(x.Pos)), Parts: parts}
	case *ast.CallExpr:
		if attr, ok := x.Func.(*ast.AttrExpr); ok {
			args := make([]tir.Expr, len(x.Args))
			for i, a := range x.Args {
				args[i] = b.buildExpr(a)
			}
			return &tir.MethodCall{
				Base: b.ids.Node(tir.SpanOf(x.Pos)), Recv: b.buildExpr(attr.Recv), Name: attr.Name, Args: args,
			}
		}
		args := make([]tir.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = b.buildExpr(a)
		}
		return &tir.Call{Base: b.ids.Node(tir.SpanOf(x.Pos)), Callee: b.buildExpr(x.Func), Args: args}
	case *ast.AttrExpr:
		return &tir.FieldAccess{Base: b.ids.Node(tir.SpanOf(x.Pos)), Recv: b.buildExpr(x.Recv), Name: x.Name}
	case *ast.SubscriptExpr:
		return &tir.Index{Base: b.ids.Node(tir.SpanOf(x.Pos)), Recv: b.buildExpr(x.Recv), Index: b.buildExpr(x.Index)}
	case *ast.UnaryExpr:
		return &tir.Unary{Base: b.ids.Node(tir.SpanOf(x.Pos)), Op: x.Op, X: b.buildExpr(x.X)}
	case *ast.BinaryExpr:
		return &tir.Binary{Base: b.ids.Node(tir.SpanOf(x.Pos)), Op: x.Op, Left: b.buildExpr(x.Left), Right: b.buildExpr(x.Right)}
	case *ast.BoolOpExpr:
		return &tir.BoolOp{Base: b.ids.Node(tir.SpanOf(x.Pos)), Op: x.Op, Left: b.buildExpr(x.Left), Right: b.buildExpr(x.Right)}
	case *ast.CompareExpr:
		return &tir.Compare{Base: b.ids.Node(tir.SpanOf(x.Pos)), Op: x.Op, Left: b.buildExpr(x.Left), Right: b.buildExpr(x.Right)}
	case *ast.MembershipExpr:
		return &tir.Membership{Base: b.ids.Node(tir.SpanOf(x.Pos)), Negated: x.Negated, Left: b.buildExpr(x.Left), Right: b.buildExpr(x.Right)}
	case *ast.CondExpr:
		return &tir.Cond{Base: b.ids.Node(tir.SpanOf(x.Pos)), Cond: b.buildExpr(x.Cond), Then: b.buildExpr(x.Then), Else: b.buildExpr(x.Else)}
	case *ast.TupleExpr:
		elems := make([]tir.Expr, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = b.buildExpr(e)
		}
		return &tir.TupleExpr{Base: b.ids.Node(tir.SpanOf(x.Pos)), Elems: elems}
	case *ast.SeqLit:
		if x.IsCompr {
			var cif tir.Expr
			if x.CompIf != nil {
				cif = b.buildExpr(x.CompIf)
			}
			return &tir.SeqLit{
				Base: b.ids.Node(tir.SpanOf(x.Pos)), IsCompr: true, CompVar: x.CompFor,
				CompIn: b.buildExpr(x.CompIn), CompIf: cif, CompBody: b.buildExpr(x.CompBody),
			}
		}
		elems := make([]tir.Expr, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = b.buildExpr(e)
		}
		return &tir.SeqLit{Base: b.ids.Node(tir.SpanOf(x.Pos)), Elems: elems}
	case *ast.MapLit:
		entries := make([]tir.MapEntry, len(x.Entries))
		for i, en := range x.Entries {
			entries[i] = tir.MapEntry{Key: b.buildExpr(en.Key), Value: b.buildExpr(en.Value)}
		}
		return &tir.MapLit{Base: b.ids.Node(tir.SpanOf(x.Pos)), Entries: entries}
	case *ast.SetLit:
		elems := make([]tir.Expr, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = b.buildExpr(e)
		}
		return &tir.SetLit{Base: b.ids.Node(tir.SpanOf(x.Pos)), Elems: elems}
	case *ast.AwaitExpr:
		return &tir.Await{Base: b.ids.Node(tir.SpanOf(x.Pos)), X: b.buildExpr(x.X)}
	default:
		b.errs.Add(diag.New(diag.EUnsupportedConstruct, "build", nil, "unsupported expression form %T", e))
		return &tir.NoneLit{Base: b.ids.Node(tir.SpanOf(ast.Pos{}))}
	}
}
