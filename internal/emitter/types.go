// Package emitter walks an annotated TIR module and writes DST source text,
// per spec §4.5: type rendering, string-boundary canonicalization,
// mutability modifiers, postfix-await, error propagation, format-string
// lowering, index casts, membership rewrites, and stub template expansion.
package emitter

import (
	"fmt"
	"strings"

	"github.com/polylang/transpile/internal/types"
)

// renderType gives each TIR type its single canonical DST rendering
// (spec §4.5). Every type constructor in the closed universe has exactly
// one entry here; a type that survives to emission as Unknown indicates a
// bug earlier in the pipeline, not a rendering choice, so it renders
// visibly rather than silently guessing.
func renderType(t types.Type) string {
	switch tt := t.(type) {
	case *types.TPrim:
		switch tt.Kind {
		case types.Bool:
			return "bool"
		case types.Int:
			return "i64"
		case types.Float:
			return "f64"
		case types.Unit:
			return "()"
		case types.Never:
			return "!"
		case types.UntypedString, types.OwnedString:
			return "String"
		}
		return "()"
	case *types.TSequence:
		return fmt.Sprintf("Vec<%s>", renderType(tt.Elem))
	case *types.TMapping:
		return fmt.Sprintf("HashMap<%s, %s>", renderType(tt.Key), renderType(tt.Value))
	case *types.TSet:
		return fmt.Sprintf("HashSet<%s>", renderType(tt.Elem))
	case *types.TTuple:
		parts := make([]string, len(tt.Elems))
		for i, e := range tt.Elems {
			parts[i] = renderType(e)
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	case *types.TOptional:
		return fmt.Sprintf("Option<%s>", renderType(tt.Inner))
	case *types.TFallible:
		return fmt.Sprintf("Result<%s, %s>", renderType(tt.Ok), renderType(tt.Err))
	case *types.TShared:
		return fmt.Sprintf("Arc<%s>", renderType(tt.Inner))
	case *types.TGuarded:
		return fmt.Sprintf("Mutex<%s>", renderType(tt.Inner))
	case *types.TFunc:
		parts := make([]string, len(tt.Params))
		for i, p := range tt.Params {
			parts[i] = renderType(p)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), renderType(tt.Return))
	case *types.TNamed:
		return renderNamed(tt)
	case *types.TUnknown:
		return "/* unresolved type */"
	default:
		return "/* unrenderable type */"
	}
}

// renderNamed renders a stub or user nominal type. Stub paths are
// dot-qualified (e.g. "std.mpsc.Sender"); the emitter renders the DST
// module-path separator, leaving the leaf segment as the type name.
func renderNamed(t *types.TNamed) string {
	path := strings.ReplaceAll(t.Path, ".", "::")
	if len(t.Generics) == 0 {
		return path
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = renderType(g)
	}
	return fmt.Sprintf("%s<%s>", path, strings.Join(parts, ", "))
}

// collectTypeImports records the standard-library imports a rendered type
// requires (Vec, Option, Result, String, and scalars are all prelude items
// and need none). Called wherever a type is rendered at a declaration site
// so the emitted file's import set stays exactly what the type usage
// demands (spec §8 import closure, generalized from stub symbols to the
// intrinsic collection/ownership types).
func collectTypeImports(t types.Type, imports map[string]bool) {
	switch tt := t.(type) {
	case *types.TMapping:
		imports["std::collections::HashMap"] = true
		collectTypeImports(tt.Key, imports)
		collectTypeImports(tt.Value, imports)
	case *types.TSet:
		imports["std::collections::HashSet"] = true
		collectTypeImports(tt.Elem, imports)
	case *types.TShared:
		imports["std::sync::Arc"] = true
		collectTypeImports(tt.Inner, imports)
	case *types.TGuarded:
		imports["tokio::sync::Mutex"] = true
		collectTypeImports(tt.Inner, imports)
	case *types.TSequence:
		collectTypeImports(tt.Elem, imports)
	case *types.TOptional:
		collectTypeImports(tt.Inner, imports)
	case *types.TFallible:
		collectTypeImports(tt.Ok, imports)
		collectTypeImports(tt.Err, imports)
	case *types.TTuple:
		for _, e := range tt.Elems {
			collectTypeImports(e, imports)
		}
	case *types.TNamed:
		for _, g := range tt.Generics {
			collectTypeImports(g, imports)
		}
	}
}
