package stubs

import (
	"strings"

	"github.com/polylang/transpile/internal/types"
)

// ParseType reads a stub-declared TIR type s-expression (spec §4.3's
// "enumerates names and their TIR types using the same type constructors")
// such as "(Fn Int (Tuple (Named std.mpsc.Sender) (Named std.mpsc.Receiver)))"
// and returns the equivalent types.Type. Malformed input yields TUnknown
// rather than an error. Type strings are not validated when a stub package
// is loaded, and no E_STUB_LOAD diagnostic is raised for them.
func ParseType(s string) types.Type {
	toks := tokenize(s)
	if len(toks) == 0 {
		return &types.TUnknown{Hint: "empty stub type"}
	}
	t, _ := parseTokens(&toks)
	return t
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}

func parseTokens(toks *[]string) (types.Type, int) {
	if len(*toks) == 0 {
		return &types.TUnknown{Hint: "truncated stub type"}, 0
	}
	tok := (*toks)[0]
	*toks = (*toks)[1:]

	if tok != "(" {
		return atomType(tok), 0
	}

	if len(*toks) == 0 {
		return &types.TUnknown{Hint: "unclosed stub type"}, 0
	}
	head := (*toks)[0]
	*toks = (*toks)[1:]

	var children []types.Type
	for len(*toks) > 0 && (*toks)[0] != ")" {
		child, _ := parseTokens(toks)
		children = append(children, child)
	}
	if len(*toks) > 0 {
		*toks = (*toks)[1:] // consume ")"
	}

	return compose(head, children), 0
}

func compose(head string, children []types.Type) types.Type {
	switch head {
	case "Fn":
		if len(children) == 0 {
			return &types.TFunc{Return: types.NewUnit()}
		}
		return &types.TFunc{Params: children[:len(children)-1], Return: children[len(children)-1]}
	case "Tuple":
		return &types.TTuple{Elems: children}
	case "Sequence":
		if len(children) != 1 {
			return &types.TUnknown{Hint: "Sequence arity"}
		}
		return &types.TSequence{Elem: children[0]}
	case "Mapping":
		if len(children) != 2 {
			return &types.TUnknown{Hint: "Mapping arity"}
		}
		return &types.TMapping{Key: children[0], Value: children[1]}
	case "Set":
		if len(children) != 1 {
			return &types.TUnknown{Hint: "Set arity"}
		}
		return &types.TSet{Elem: children[0]}
	case "Optional":
		if len(children) != 1 {
			return &types.TUnknown{Hint: "Optional arity"}
		}
		return &types.TOptional{Inner: children[0]}
	case "Fallible":
		if len(children) != 2 {
			return &types.TUnknown{Hint: "Fallible arity"}
		}
		return &types.TFallible{Ok: children[0], Err: children[1]}
	case "Shared":
		if len(children) != 1 {
			return &types.TUnknown{Hint: "Shared arity"}
		}
		return &types.TShared{Inner: children[0]}
	case "Guarded":
		if len(children) != 1 {
			return &types.TUnknown{Hint: "Guarded arity"}
		}
		return &types.TGuarded{Inner: children[0]}
	case "Named":
		if len(children) == 0 {
			return &types.TUnknown{Hint: "Named missing path"}
		}
		// The path itself tokenizes as a bare atom, parsed as a TNamed with
		// no generics; re-flatten it here and attach any remaining children.
		named, ok := children[0].(*types.TNamed)
		if !ok {
			return &types.TUnknown{Hint: "Named path"}
		}
		named.Generics = children[1:]
		return named
	default:
		return &types.TUnknown{Hint: "unrecognized stub type head " + head}
	}
}

func atomType(tok string) types.Type {
	switch tok {
	case "Int":
		return types.NewInt()
	case "Float":
		return types.NewFloat()
	case "Bool":
		return types.NewBool()
	case "Unit":
		return types.NewUnit()
	case "Never":
		return types.NewNever()
	case "Str":
		return types.NewOwnedString()
	default:
		return &types.TNamed{Path: tok}
	}
}
