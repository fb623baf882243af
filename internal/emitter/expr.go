package emitter

import (
	"fmt"
	"strings"

	"github.com/polylang/transpile/internal/tir"
	"github.com/polylang/transpile/internal/types"
)

// stringMethods is the fixed SRC→DST string-method translation table
// (spec §4.5): each entry renders `recv.srcName(args...)`.
var stringMethods = map[string]func(recv string, args []string) string{
	"upper":       func(r string, a []string) string { return fmt.Sprintf("%s.to_uppercase()", r) },
	"lower":       func(r string, a []string) string { return fmt.Sprintf("%s.to_lowercase()", r) },
	"strip":       func(r string, a []string) string { return fmt.Sprintf("%s.trim().to_string()", r) },
	"starts_with": func(r string, a []string) string { return fmt.Sprintf("%s.starts_with(%s)", r, strings.Join(a, ", ")) },
	"ends_with":   func(r string, a []string) string { return fmt.Sprintf("%s.ends_with(%s)", r, strings.Join(a, ", ")) },
	"split": func(r string, a []string) string {
		return fmt.Sprintf("%s.split(%s).map(|s| s.to_string()).collect::<Vec<String>>()", r, strings.Join(a, ", "))
	},
	"join": func(r string, a []string) string {
		if len(a) != 1 {
			return fmt.Sprintf("%s.join(%s)", r, strings.Join(a, ", "))
		}
		return fmt.Sprintf("%s.join(&%s)", a[0], r)
	},
	"is_digit": func(r string, a []string) string { return fmt.Sprintf("%s.chars().all(|c| c.is_ascii_digit())", r) },
}

func (e *Emitter) emitBlock(w *strings.Builder, stmts []tir.Stmt, depth int) {
	for _, s := range stmts {
		e.emitStmt(w, s, depth)
	}
}

func (e *Emitter) emitStmt(w *strings.Builder, s tir.Stmt, depth int) {
	pad := indent(depth)
	switch st := s.(type) {
	case *tir.LetStmt:
		t := st.Declared
		if t == nil {
			t = e.table.Type(st.ID())
		}
		collectTypeImports(t, e.imports)
		ann := e.table.Get(st.ID())
		mut := ""
		if ann != nil && ann.Mutable {
			mut = "mut "
		}
		val := e.emitExpr(st.Value, true)
		if ann != nil && ann.PropagationSite {
			val += "?"
		}
		fmt.Fprintf(w, "%slet %s%s: %s = %s;\n", pad, mut, st.Name, renderType(t), val)

	case *tir.AssignStmt:
		if len(st.Targets) == 1 {
			target := st.Targets[0]
			ann := e.table.Get(target.ID())
			val := e.emitExpr(st.Value, true)
			if ann != nil && ann.PropagationSite {
				val += "?"
			}
			if ann != nil && ann.Declares {
				mut := ""
				if ann.Mutable {
					mut = "mut "
				}
				t := ann.Type
				collectTypeImports(t, e.imports)
				fmt.Fprintf(w, "%slet %s%s: %s = %s;\n", pad, mut, e.emitExpr(target, false), renderType(t), val)
				return
			}
			fmt.Fprintf(w, "%s%s = %s;\n", pad, e.emitExpr(target, false), val)
			return
		}
		names := make([]string, len(st.Targets))
		for i, t := range st.Targets {
			name := e.emitExpr(t, false)
			if ann := e.table.Get(t.ID()); ann != nil && ann.Mutable {
				name = "mut " + name
			}
			names[i] = name
		}
		fmt.Fprintf(w, "%slet (%s) = %s;\n", pad, strings.Join(names, ", "), e.emitExpr(st.Value, true))

	case *tir.ExprStmt:
		fmt.Fprintf(w, "%s%s;\n", pad, e.emitExpr(st.X, true))

	case *tir.IfStmt:
		fmt.Fprintf(w, "%sif %s {\n", pad, e.emitExpr(st.Cond, true))
		e.emitBlock(w, st.Then, depth+1)
		if len(st.Else) > 0 {
			fmt.Fprintf(w, "%s} else {\n", pad)
			e.emitBlock(w, st.Else, depth+1)
		}
		fmt.Fprintf(w, "%s}\n", pad)

	case *tir.WhileStmt:
		fmt.Fprintf(w, "%swhile %s {\n", pad, e.emitExpr(st.Cond, true))
		e.emitBlock(w, st.Body, depth+1)
		fmt.Fprintf(w, "%s}\n", pad)

	case *tir.ForStmt:
		fmt.Fprintf(w, "%sfor %s in %s {\n", pad, st.Var, e.emitExpr(st.Iterable, true))
		e.emitBlock(w, st.Body, depth+1)
		fmt.Fprintf(w, "%s}\n", pad)

	case *tir.ReturnStmt:
		if st.Value == nil {
			fmt.Fprintf(w, "%sreturn;\n", pad)
			return
		}
		fmt.Fprintf(w, "%sreturn %s;\n", pad, e.emitExpr(st.Value, true))

	case *tir.BlockStmt:
		fmt.Fprintf(w, "%s{\n", pad)
		if st.Var != "" {
			fmt.Fprintf(w, "%slet %s = %s;\n", indent(depth+1), st.Var, e.emitExpr(st.Acquire, true))
		} else {
			fmt.Fprintf(w, "%s%s;\n", indent(depth+1), e.emitExpr(st.Acquire, true))
		}
		e.emitBlock(w, st.Body, depth+1)
		fmt.Fprintf(w, "%s}\n", pad)

	case *tir.BreakStmt:
		fmt.Fprintf(w, "%sbreak;\n", pad)
	case *tir.ContinueStmt:
		fmt.Fprintf(w, "%scontinue;\n", pad)
	}
}

// emitExpr renders e. boundary marks a "value position" (call argument,
// return value, let/assign value) where an owned-string literal receives
// its `.to_string()` conversion (spec §4.5's string boundary rule);
// read-only receiver positions pass boundary=false.
func (e *Emitter) emitExpr(ex tir.Expr, boundary bool) string {
	switch x := ex.(type) {
	case *tir.IntLit:
		return fmt.Sprintf("%d", x.Value)
	case *tir.FloatLit:
		return fmt.Sprintf("%g", x.Value)
	case *tir.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *tir.StrLit:
		lit := fmt.Sprintf("%q", x.Value)
		if boundary {
			return lit + ".to_string()"
		}
		return lit
	case *tir.NoneLit:
		return "None"
	case *tir.FormatStr:
		tmpl, args := e.formatTemplate(x.Parts)
		if len(args) == 0 {
			return fmt.Sprintf("format!(%q)", tmpl)
		}
		return fmt.Sprintf("format!(%q, %s)", tmpl, strings.Join(args, ", "))

	case *tir.Ident:
		return x.Name

	case *tir.Call:
		return e.emitCall(x)

	case *tir.MethodCall:
		return e.emitMethodCall(x)

	case *tir.FieldAccess:
		return fmt.Sprintf("%s.%s", e.emitExpr(x.Recv, false), x.Name)

	case *tir.Index:
		idx := e.emitExpr(x.Index, true)
		ann := e.table.Get(x.ID())
		if ann != nil && ann.InsertIndexCast {
			idx = fmt.Sprintf("(%s as usize)", idx)
		}
		return fmt.Sprintf("%s[%s]", e.emitExpr(x.Recv, false), idx)

	case *tir.Unary:
		if x.Op == "not" {
			return fmt.Sprintf("!%s", e.emitExpr(x.X, true))
		}
		return fmt.Sprintf("%s%s", x.Op, e.emitExpr(x.X, true))

	case *tir.Binary:
		return fmt.Sprintf("%s %s %s", e.emitExpr(x.Left, true), x.Op, e.emitExpr(x.Right, true))

	case *tir.BoolOp:
		op := "&&"
		if x.Op == "or" {
			op = "||"
		}
		return fmt.Sprintf("%s %s %s", e.emitExpr(x.Left, true), op, e.emitExpr(x.Right, true))

	case *tir.Compare:
		if rewritten, ok := e.rewriteFindCompare(x); ok {
			return rewritten
		}
		left := e.emitExpr(x.Left, true)
		right := e.emitExpr(x.Right, true)
		// A comparison against a `len()` call (which renders as `.len() ->
		// usize`) needs its int-typed counterpart cast the same way a
		// sequence subscript does (spec §4.5, S5): the two operands must
		// agree in width for the comparison to typecheck in DST.
		switch {
		case isLenCall(x.Right) && !isLenCall(x.Left):
			left = fmt.Sprintf("(%s as usize)", left)
		case isLenCall(x.Left) && !isLenCall(x.Right):
			right = fmt.Sprintf("(%s as usize)", right)
		}
		return fmt.Sprintf("%s %s %s", left, x.Op, right)

	case *tir.Membership:
		call := fmt.Sprintf("%s.contains(&%s)", e.emitExpr(x.Right, false), e.emitExpr(x.Left, true))
		if x.Negated {
			return "!" + call
		}
		return call

	case *tir.Cond:
		return fmt.Sprintf("if %s { %s } else { %s }",
			e.emitExpr(x.Cond, true), e.emitExpr(x.Then, true), e.emitExpr(x.Else, true))

	case *tir.TupleExpr:
		parts := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			parts[i] = e.emitExpr(el, true)
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))

	case *tir.SeqLit:
		if x.IsCompr {
			iter := e.emitExpr(x.CompIn, false) + ".iter()"
			if x.CompIf != nil {
				iter += fmt.Sprintf(".filter(|&%s| %s)", x.CompVar, e.emitExpr(x.CompIf, true))
			}
			return fmt.Sprintf("%s.map(|%s| %s).collect::<Vec<_>>()",
				iter, x.CompVar, e.emitExpr(x.CompBody, true))
		}
		parts := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			parts[i] = e.emitExpr(el, true)
		}
		return fmt.Sprintf("vec![%s]", strings.Join(parts, ", "))

	case *tir.MapLit:
		if len(x.Entries) == 0 {
			return "HashMap::new()"
		}
		var sb strings.Builder
		sb.WriteString("HashMap::from([")
		for i, entry := range x.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "(%s, %s)", e.emitExpr(entry.Key, true), e.emitExpr(entry.Value, true))
		}
		sb.WriteString("])")
		return sb.String()

	case *tir.SetLit:
		parts := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			parts[i] = e.emitExpr(el, true)
		}
		return fmt.Sprintf("HashSet::from([%s])", strings.Join(parts, ", "))

	case *tir.Await:
		return fmt.Sprintf("%s.await", e.emitExpr(x.X, true))

	default:
		return "/* unhandled expression */"
	}
}

// formatTemplate builds a DST format-macro template and argument list from
// the TIR format parts (spec §4.5): `{expr:spec}` becomes `{:spec}` with
// `expr` moved into the argument list, text runs pass through unchanged.
func (e *Emitter) formatTemplate(parts []tir.FormatPart) (string, []string) {
	var tmpl strings.Builder
	var args []string
	for _, p := range parts {
		if p.Expr == nil {
			tmpl.WriteString(escapeBraces(p.Text))
			continue
		}
		if p.Spec != "" {
			fmt.Fprintf(&tmpl, "{:%s}", p.Spec)
		} else {
			tmpl.WriteString("{}")
		}
		args = append(args, e.emitExpr(p.Expr, false))
	}
	return tmpl.String(), args
}

func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	s = strings.ReplaceAll(s, "}", "}}")
	return s
}

// rewriteFindCompare recognizes `recv.find(x) >= 0` / `recv.find(x) == -1`
// sentinel comparisons and rewrites them to `.contains` calls (spec §4.5,
// testable property 7).
func (e *Emitter) rewriteFindCompare(c *tir.Compare) (string, bool) {
	mc, ok := c.Left.(*tir.MethodCall)
	if !ok || mc.Name != "find" || len(mc.Args) != 1 {
		return "", false
	}
	lit, ok := c.Right.(*tir.IntLit)
	if !ok {
		return "", false
	}
	needle := e.emitExpr(mc.Args[0], true)
	recv := e.emitExpr(mc.Recv, false)
	switch {
	case c.Op == ">=" && lit.Value == 0:
		return fmt.Sprintf("%s.contains(%s)", recv, needle), true
	case c.Op == "==" && lit.Value == -1:
		return fmt.Sprintf("!%s.contains(%s)", recv, needle), true
	}
	return "", false
}

func (e *Emitter) emitCall(c *tir.Call) string {
	ann := e.table.Get(c.ID())
	if ann != nil && ann.Stub != nil {
		return e.expandStubTemplate(ann.Stub, "", c.Args)
	}

	name, _ := calleeName(c.Callee)
	switch name {
	case "print":
		return e.emitPrint(c.Args)
	case "len":
		if len(c.Args) == 1 {
			return fmt.Sprintf("%s.len()", e.emitExpr(c.Args[0], false))
		}
	case "Ok", "Err":
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = e.emitExpr(a, true)
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
	}

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		t := e.table.Type(a.ID())
		arg := e.emitExpr(a, true)
		if _, shared := t.(*types.TShared); shared {
			arg = arg + ".clone()"
		}
		args[i] = arg
	}
	callee := e.emitExpr(c.Callee, false)
	if named, ok := e.table.Type(c.ID()).(*types.TNamed); ok && named.Path == name {
		return fmt.Sprintf("%s::new(%s)", callee, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", "))
}

func (e *Emitter) emitPrint(args []tir.Expr) string {
	if len(args) == 1 {
		if fs, ok := args[0].(*tir.FormatStr); ok {
			tmpl, fargs := e.formatTemplate(fs.Parts)
			if len(fargs) == 0 {
				return fmt.Sprintf("println!(%q)", tmpl)
			}
			return fmt.Sprintf("println!(%q, %s)", tmpl, strings.Join(fargs, ", "))
		}
		return fmt.Sprintf("println!(\"{}\", %s)", e.emitExpr(args[0], true))
	}
	return "println!()"
}

func (e *Emitter) emitMethodCall(mc *tir.MethodCall) string {
	ann := e.table.Get(mc.ID())
	recv := e.emitExpr(mc.Recv, false)
	if ann != nil && ann.Stub != nil {
		return e.expandStubTemplate(ann.Stub, recv, mc.Args)
	}

	recvType := e.table.Type(mc.Recv.ID())
	if types.IsString(recvType) {
		if render, ok := stringMethods[mc.Name]; ok {
			args := make([]string, len(mc.Args))
			for i, a := range mc.Args {
				args[i] = e.emitExpr(a, true)
			}
			return render(recv, args)
		}
	}

	args := make([]string, len(mc.Args))
	for i, a := range mc.Args {
		args[i] = e.emitExpr(a, true)
	}
	return fmt.Sprintf("%s.%s(%s)", recv, mc.Name, strings.Join(args, ", "))
}

// expandStubTemplate substitutes the receiver and positional arguments into
// a stub's DST code template (spec §4.3, §4.5), merging its declared
// imports and build requirements into this module's accumulated sets.
func (e *Emitter) expandStubTemplate(stub *tir.StubResolution, recv string, args []tir.Expr) string {
	code := stub.Template
	code = strings.ReplaceAll(code, "{self}", recv)
	for i, a := range args {
		placeholder := fmt.Sprintf("{%d}", i)
		code = strings.ReplaceAll(code, placeholder, e.emitExpr(a, true))
	}
	for _, imp := range stub.Imports {
		e.imports[imp] = true
	}
	for _, b := range stub.Build {
		e.builds[b.Crate] = b
	}
	return code
}

func isLenCall(ex tir.Expr) bool {
	c, ok := ex.(*tir.Call)
	if !ok {
		return false
	}
	name, ok := calleeName(c.Callee)
	return ok && name == "len"
}

func calleeName(ex tir.Expr) (string, bool) {
	id, ok := ex.(*tir.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}
