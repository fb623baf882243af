package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polylang/transpile/internal/tir"
)

// EmittedFile is one module's emission result: the rendered DST source plus
// the import set and build requirements the assembler folds into the
// project manifest (spec §4.6).
type EmittedFile struct {
	ModulePath string
	Code       string
	Imports    []string
	Builds     []tir.BuildRequirement
	IsEntry    bool
}

// Emitter walks one module's annotated TIR and renders DST source text.
// Grounded on the teacher's strings.Builder-accumulation idiom
// (internal/eval_analysis/formatter.go's FormatComparison).
type Emitter struct {
	table   *tir.Table
	imports map[string]bool
	builds  map[string]tir.BuildRequirement
}

// New returns an Emitter consuming the analyzer's annotation table.
func New(table *tir.Table) *Emitter {
	return &Emitter{table: table}
}

// EmitModule renders mod to DST source text.
func (e *Emitter) EmitModule(mod *tir.Module) *EmittedFile {
	e.imports = make(map[string]bool)
	e.builds = make(map[string]tir.BuildRequirement)

	var body strings.Builder
	for i, item := range mod.Items {
		if i > 0 {
			body.WriteString("\n")
		}
		switch it := item.(type) {
		case *tir.FuncDecl:
			e.emitFunc(&body, it, 0, mod.IsEntry)
		case *tir.TypeDecl:
			e.emitType(&body, it)
		case *tir.ConstDecl:
			e.emitConst(&body, it)
		}
	}

	imports := make([]string, 0, len(e.imports))
	for imp := range e.imports {
		imports = append(imports, imp)
	}
	sort.Strings(imports)

	builds := make([]tir.BuildRequirement, 0, len(e.builds))
	for _, b := range e.builds {
		builds = append(builds, b)
	}
	sort.Slice(builds, func(i, j int) bool { return builds[i].Crate < builds[j].Crate })

	var out strings.Builder
	for _, imp := range imports {
		fmt.Fprintf(&out, "use %s;\n", imp)
	}
	if len(imports) > 0 {
		out.WriteString("\n")
	}
	out.WriteString(body.String())

	return &EmittedFile{
		ModulePath: mod.Path,
		Code:       out.String(),
		Imports:    imports,
		Builds:     builds,
		IsEntry:    mod.IsEntry,
	}
}

func indent(n int) string { return strings.Repeat("    ", n) }

func (e *Emitter) emitFunc(w *strings.Builder, fn *tir.FuncDecl, depth int, moduleIsEntry bool) {
	e.emitFuncAttrs(w, fn, depth, moduleIsEntry)

	fmt.Fprintf(w, "%s", indent(depth))
	if fn.IsAsync {
		w.WriteString("async ")
	}
	fmt.Fprintf(w, "fn %s(", fn.Name)

	params := make([]string, 0, len(fn.Params)+1)
	if fn.IsMethod && !fn.IsStatic {
		if fn.Mutates {
			params = append(params, "&mut self")
		} else {
			params = append(params, "&self")
		}
	}
	for _, p := range fn.Params {
		t := e.table.Type(p.ID())
		collectTypeImports(t, e.imports)
		params = append(params, fmt.Sprintf("%s: %s", p.Name, renderType(t)))
	}
	w.WriteString(strings.Join(params, ", "))
	w.WriteString(")")

	ret := fn.ReturnDeclared
	if ret == nil {
		ret = e.table.Type(fn.ID())
	}
	if r := renderType(ret); r != "()" {
		collectTypeImports(ret, e.imports)
		fmt.Fprintf(w, " -> %s", r)
	}
	w.WriteString(" {\n")
	e.emitBlock(w, fn.Body, depth+1)
	fmt.Fprintf(w, "%s}\n", indent(depth))
}

// emitFuncAttrs re-emits pass-through attributes verbatim, suppressing the
// automatic async-main attribute when the caller already supplied one
// (spec §4.5).
func (e *Emitter) emitFuncAttrs(w *strings.Builder, fn *tir.FuncDecl, depth int, moduleIsEntry bool) {
	hasMainAttr := false
	for _, a := range fn.Attrs {
		fmt.Fprintf(w, "%s%s\n", indent(depth), a.Text)
		if strings.Contains(a.Text, "main") {
			hasMainAttr = true
		}
	}
	if moduleIsEntry && fn.Name == "main" && fn.IsAsync && !hasMainAttr {
		fmt.Fprintf(w, "%s#[tokio::main]\n", indent(depth))
	}
}

func (e *Emitter) emitType(w *strings.Builder, td *tir.TypeDecl) {
	hasDerive := false
	for _, a := range td.Attrs {
		fmt.Fprintf(w, "%s\n", a.Text)
		if strings.Contains(a.Text, "derive") {
			hasDerive = true
		}
	}
	if !hasDerive {
		w.WriteString("#[derive(Debug, Clone)]\n")
	}
	fmt.Fprintf(w, "struct %s {\n", td.Name)
	for _, f := range td.Fields {
		collectTypeImports(f.Declared, e.imports)
		fmt.Fprintf(w, "%spub %s: %s,\n", indent(1), f.Name, renderType(f.Declared))
	}
	w.WriteString("}\n\n")

	fmt.Fprintf(w, "impl %s {\n", td.Name)
	w.WriteString(indent(1) + "pub fn new(")
	params := make([]string, len(td.Fields))
	for i, f := range td.Fields {
		if f.HasDefault {
			params[i] = fmt.Sprintf("%s: Option<%s>", f.Name, renderType(f.Declared))
		} else {
			params[i] = fmt.Sprintf("%s: %s", f.Name, renderType(f.Declared))
		}
	}
	w.WriteString(strings.Join(params, ", "))
	fmt.Fprintf(w, ") -> Self {\n%sSelf {\n", indent(2))
	for _, f := range td.Fields {
		if f.HasDefault {
			fmt.Fprintf(w, "%s%s: %s.unwrap_or(%s),\n", indent(3), f.Name, f.Name, e.emitExpr(f.Default, true))
		} else {
			fmt.Fprintf(w, "%s%s,\n", indent(3), f.Name)
		}
	}
	fmt.Fprintf(w, "%s}\n%s}\n", indent(2), indent(1))

	for _, m := range td.Methods {
		w.WriteString("\n")
		e.emitFunc(w, m, 1, false)
	}
	w.WriteString("}\n")
}

func (e *Emitter) emitConst(w *strings.Builder, c *tir.ConstDecl) {
	t := c.Declared
	if t == nil {
		t = e.table.Type(c.ID())
	}
	collectTypeImports(t, e.imports)
	fmt.Fprintf(w, "static %s: %s = %s;\n", strings.ToUpper(c.Name), renderType(t), e.emitExpr(c.Value, true))
}
