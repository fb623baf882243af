// Package types defines the TIR type universe: the closed set of type
// constructors that every typed-intermediate-representation node carries
// after semantic analysis (spec §3).
package types

import (
	"fmt"
	"strings"
)

// Type is satisfied by every TIR type constructor.
type Type interface {
	String() string
	Equals(Type) bool
}

// Prim enumerates the primitive kinds.
type Prim int

const (
	Bool Prim = iota
	Int
	Float
	Unit
	Never
	UntypedString // string literal before boundary canonicalization
	OwnedString   // canonicalized owned string at a boundary
)

func (p Prim) String() string {
	switch p {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Unit:
		return "unit"
	case Never:
		return "never"
	case UntypedString:
		return "str"
	case OwnedString:
		return "string"
	default:
		return "<bad-prim>"
	}
}

// TPrim is a primitive type.
type TPrim struct {
	Kind Prim
}

func (t *TPrim) String() string { return t.Kind.String() }
func (t *TPrim) Equals(o Type) bool {
	op, ok := o.(*TPrim)
	return ok && op.Kind == t.Kind
}

// TSequence is a growable ordered container.
type TSequence struct{ Elem Type }

func (t *TSequence) String() string { return fmt.Sprintf("Sequence[%s]", t.Elem) }
func (t *TSequence) Equals(o Type) bool {
	op, ok := o.(*TSequence)
	return ok && t.Elem.Equals(op.Elem)
}

// TMapping is a hashed key-value store.
type TMapping struct{ Key, Value Type }

func (t *TMapping) String() string { return fmt.Sprintf("Mapping[%s, %s]", t.Key, t.Value) }
func (t *TMapping) Equals(o Type) bool {
	op, ok := o.(*TMapping)
	return ok && t.Key.Equals(op.Key) && t.Value.Equals(op.Value)
}

// TSet is an unordered-set container.
type TSet struct{ Elem Type }

func (t *TSet) String() string { return fmt.Sprintf("Set[%s]", t.Elem) }
func (t *TSet) Equals(o Type) bool {
	op, ok := o.(*TSet)
	return ok && t.Elem.Equals(op.Elem)
}

// TTuple is a fixed-arity heterogeneous product.
type TTuple struct{ Elems []Type }

func (t *TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t *TTuple) Equals(o Type) bool {
	op, ok := o.(*TTuple)
	if !ok || len(op.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(op.Elems[i]) {
			return false
		}
	}
	return true
}

// TOptional represents presence-or-absence of Inner.
type TOptional struct{ Inner Type }

func (t *TOptional) String() string { return fmt.Sprintf("Optional[%s]", t.Inner) }
func (t *TOptional) Equals(o Type) bool {
	op, ok := o.(*TOptional)
	return ok && t.Inner.Equals(op.Inner)
}

// TFallible is success Ok or failure Err; maps to the DST sum type.
type TFallible struct{ Ok, Err Type }

func (t *TFallible) String() string { return fmt.Sprintf("Fallible[%s, %s]", t.Ok, t.Err) }
func (t *TFallible) Equals(o Type) bool {
	op, ok := o.(*TFallible)
	return ok && t.Ok.Equals(op.Ok) && t.Err.Equals(op.Err)
}

// TNamed is a user- or stub-defined nominal type.
type TNamed struct {
	Path     string
	Generics []Type
}

func (t *TNamed) String() string {
	if len(t.Generics) == 0 {
		return t.Path
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = g.String()
	}
	return fmt.Sprintf("%s[%s]", t.Path, strings.Join(parts, ", "))
}
func (t *TNamed) Equals(o Type) bool {
	op, ok := o.(*TNamed)
	if !ok || op.Path != t.Path || len(op.Generics) != len(t.Generics) {
		return false
	}
	for i := range t.Generics {
		if !t.Generics[i].Equals(op.Generics[i]) {
			return false
		}
	}
	return true
}

// TFunc is a function type.
type TFunc struct {
	Params  []Type
	Return  Type
	IsAsync bool
}

func (t *TFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	prefix := ""
	if t.IsAsync {
		prefix = "async "
	}
	return fmt.Sprintf("%sfn(%s) -> %s", prefix, strings.Join(parts, ", "), t.Return)
}
func (t *TFunc) Equals(o Type) bool {
	op, ok := o.(*TFunc)
	if !ok || op.IsAsync != t.IsAsync || len(op.Params) != len(t.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equals(op.Params[i]) {
			return false
		}
	}
	return t.Return.Equals(op.Return)
}

// TShared is reference-counted shared ownership of Inner (spec §9).
type TShared struct{ Inner Type }

func (t *TShared) String() string { return fmt.Sprintf("Shared[%s]", t.Inner) }
func (t *TShared) Equals(o Type) bool {
	op, ok := o.(*TShared)
	return ok && t.Inner.Equals(op.Inner)
}

// TGuarded is mutually-exclusive, async-aware mutable access to Inner.
type TGuarded struct{ Inner Type }

func (t *TGuarded) String() string { return fmt.Sprintf("Guarded[%s]", t.Inner) }
func (t *TGuarded) Equals(o Type) bool {
	op, ok := o.(*TGuarded)
	return ok && t.Inner.Equals(op.Inner)
}

// TUnknown is a placeholder used only during inference. A TUnknown that
// survives to emission is a fatal diagnostic (spec §3 invariant).
type TUnknown struct{ Hint string }

func (t *TUnknown) String() string { return "Unknown" }
func (t *TUnknown) Equals(o Type) bool {
	_, ok := o.(*TUnknown)
	return ok
}

// IsUnknown reports whether t is an unresolved placeholder.
func IsUnknown(t Type) bool {
	_, ok := t.(*TUnknown)
	return ok
}

// Convenience constructors used throughout the analyzer and emitter.
func NewBool() Type          { return &TPrim{Kind: Bool} }
func NewInt() Type           { return &TPrim{Kind: Int} }
func NewFloat() Type         { return &TPrim{Kind: Float} }
func NewUnit() Type          { return &TPrim{Kind: Unit} }
func NewNever() Type         { return &TPrim{Kind: Never} }
func NewUntypedString() Type { return &TPrim{Kind: UntypedString} }
func NewOwnedString() Type   { return &TPrim{Kind: OwnedString} }

// IsString reports whether t is either string primitive.
func IsString(t Type) bool {
	p, ok := t.(*TPrim)
	return ok && (p.Kind == UntypedString || p.Kind == OwnedString)
}

// IsNumeric reports whether t is int or float.
func IsNumeric(t Type) bool {
	p, ok := t.(*TPrim)
	return ok && (p.Kind == Int || p.Kind == Float)
}

// IsInt reports whether t is exactly int.
func IsInt(t Type) bool {
	p, ok := t.(*TPrim)
	return ok && p.Kind == Int
}
