package tir

import (
	"fmt"
	"strings"
)

// Dump renders mod as a parenthesized textual form, one s-expression per
// node, for the `parse -v` CLI subcommand (spec §6). Grounded on the
// teacher's per-node String() idiom (internal/ast/ast.go: every AST node
// renders itself as "(kind ...)"), generalized here to a single recursive
// function over the TIR's node kinds rather than one method per type.
func Dump(mod *Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(module %q\n", mod.Path)
	for _, item := range mod.Items {
		sb.WriteString(dumpItem(item, 1))
		sb.WriteString("\n")
	}
	sb.WriteString(")")
	return sb.String()
}

func pad(depth int) string { return strings.Repeat("  ", depth) }

func dumpItem(item Item, depth int) string {
	switch it := item.(type) {
	case *FuncDecl:
		return dumpFunc(it, depth)
	case *TypeDecl:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s(type %s\n", pad(depth), it.Name)
		for _, f := range it.Fields {
			fmt.Fprintf(&sb, "%s(field %s)\n", pad(depth+1), f.Name)
		}
		for _, m := range it.Methods {
			sb.WriteString(dumpFunc(m, depth+1))
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s)", pad(depth))
		return sb.String()
	case *ConstDecl:
		return fmt.Sprintf("%s(const %s %s)", pad(depth), it.Name, dumpExpr(it.Value))
	default:
		return fmt.Sprintf("%s(unknown-item)", pad(depth))
	}
}

func dumpFunc(fn *FuncDecl, depth int) string {
	var sb strings.Builder
	kind := "fn"
	if fn.IsAsync {
		kind = "async-fn"
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	fmt.Fprintf(&sb, "%s(%s %s (%s)\n", pad(depth), kind, fn.Name, strings.Join(params, " "))
	for _, s := range fn.Body {
		fmt.Fprintf(&sb, "%s\n", dumpStmt(s, depth+1))
	}
	fmt.Fprintf(&sb, "%s)", pad(depth))
	return sb.String()
}

func dumpStmt(s Stmt, depth int) string {
	p := pad(depth)
	switch st := s.(type) {
	case *LetStmt:
		return fmt.Sprintf("%s(let %s %s)", p, st.Name, dumpExpr(st.Value))
	case *AssignStmt:
		names := make([]string, len(st.Targets))
		for i, t := range st.Targets {
			names[i] = dumpExpr(t)
		}
		return fmt.Sprintf("%s(assign (%s) %s)", p, strings.Join(names, " "), dumpExpr(st.Value))
	case *ExprStmt:
		return fmt.Sprintf("%s%s", p, dumpExpr(st.X))
	case *IfStmt:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s(if %s\n", p, dumpExpr(st.Cond))
		for _, s := range st.Then {
			fmt.Fprintf(&sb, "%s\n", dumpStmt(s, depth+1))
		}
		if len(st.Else) > 0 {
			fmt.Fprintf(&sb, "%s(else\n", pad(depth))
			for _, s := range st.Else {
				fmt.Fprintf(&sb, "%s\n", dumpStmt(s, depth+1))
			}
			fmt.Fprintf(&sb, "%s)\n", pad(depth))
		}
		fmt.Fprintf(&sb, "%s)", p)
		return sb.String()
	case *WhileStmt:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s(while %s\n", p, dumpExpr(st.Cond))
		for _, s := range st.Body {
			fmt.Fprintf(&sb, "%s\n", dumpStmt(s, depth+1))
		}
		fmt.Fprintf(&sb, "%s)", p)
		return sb.String()
	case *ForStmt:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s(for %s %s\n", p, st.Var, dumpExpr(st.Iterable))
		for _, s := range st.Body {
			fmt.Fprintf(&sb, "%s\n", dumpStmt(s, depth+1))
		}
		fmt.Fprintf(&sb, "%s)", p)
		return sb.String()
	case *ReturnStmt:
		if st.Value == nil {
			return fmt.Sprintf("%s(return)", p)
		}
		return fmt.Sprintf("%s(return %s)", p, dumpExpr(st.Value))
	case *BlockStmt:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s(scope %s %s\n", p, st.Var, dumpExpr(st.Acquire))
		for _, s := range st.Body {
			fmt.Fprintf(&sb, "%s\n", dumpStmt(s, depth+1))
		}
		fmt.Fprintf(&sb, "%s)", p)
		return sb.String()
	case *BreakStmt:
		return p + "(break)"
	case *ContinueStmt:
		return p + "(continue)"
	default:
		return p + "(unknown-stmt)"
	}
}

func dumpExpr(e Expr) string {
	switch x := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", x.Value)
	case *FloatLit:
		return fmt.Sprintf("%g", x.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", x.Value)
	case *StrLit:
		return fmt.Sprintf("%q", x.Value)
	case *NoneLit:
		return "none"
	case *Ident:
		return x.Name
	case *Call:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = dumpExpr(a)
		}
		return fmt.Sprintf("(call %s %s)", dumpExpr(x.Callee), strings.Join(args, " "))
	case *MethodCall:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = dumpExpr(a)
		}
		return fmt.Sprintf("(method-call %s %s %s)", dumpExpr(x.Recv), x.Name, strings.Join(args, " "))
	case *FieldAccess:
		return fmt.Sprintf("(field %s %s)", dumpExpr(x.Recv), x.Name)
	case *Index:
		return fmt.Sprintf("(index %s %s)", dumpExpr(x.Recv), dumpExpr(x.Index))
	case *Unary:
		return fmt.Sprintf("(%s %s)", x.Op, dumpExpr(x.X))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", x.Op, dumpExpr(x.Left), dumpExpr(x.Right))
	case *BoolOp:
		return fmt.Sprintf("(%s %s %s)", x.Op, dumpExpr(x.Left), dumpExpr(x.Right))
	case *Compare:
		return fmt.Sprintf("(%s %s %s)", x.Op, dumpExpr(x.Left), dumpExpr(x.Right))
	case *Membership:
		if x.Negated {
			return fmt.Sprintf("(not-in %s %s)", dumpExpr(x.Left), dumpExpr(x.Right))
		}
		return fmt.Sprintf("(in %s %s)", dumpExpr(x.Left), dumpExpr(x.Right))
	case *Cond:
		return fmt.Sprintf("(cond %s %s %s)", dumpExpr(x.Cond), dumpExpr(x.Then), dumpExpr(x.Else))
	case *TupleExpr:
		elems := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = dumpExpr(el)
		}
		return fmt.Sprintf("(tuple %s)", strings.Join(elems, " "))
	case *SeqLit:
		if x.IsCompr {
			return fmt.Sprintf("(seq-compr %s %s)", x.CompVar, dumpExpr(x.CompIn))
		}
		elems := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = dumpExpr(el)
		}
		return fmt.Sprintf("(seq %s)", strings.Join(elems, " "))
	case *MapLit:
		entries := make([]string, len(x.Entries))
		for i, en := range x.Entries {
			entries[i] = fmt.Sprintf("(%s %s)", dumpExpr(en.Key), dumpExpr(en.Value))
		}
		return fmt.Sprintf("(map %s)", strings.Join(entries, " "))
	case *SetLit:
		elems := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = dumpExpr(el)
		}
		return fmt.Sprintf("(set %s)", strings.Join(elems, " "))
	case *FormatStr:
		parts := make([]string, len(x.Parts))
		for i, p := range x.Parts {
			if p.Expr != nil {
				parts[i] = fmt.Sprintf("{%s}", dumpExpr(p.Expr))
			} else {
				parts[i] = fmt.Sprintf("%q", p.Text)
			}
		}
		return fmt.Sprintf("(format-str %s)", strings.Join(parts, " "))
	case *Await:
		return fmt.Sprintf("(await %s)", dumpExpr(x.X))
	default:
		return "(unknown-expr)"
	}
}
