// Package diag provides centralized diagnostic code definitions for the
// transpiler. All diagnostic kinds follow a consistent taxonomy so tooling
// (and readers) can identify a failure mode by code alone.
package diag

// Diagnostic codes, one per kind in the pipeline. All are fatal (§7 of the
// specification); the kinds marked "continues" below allow the analyzer to
// keep walking the TIR to surface further diagnostics in the same run.
const (
	// EParse indicates the surface syntax is not in the accepted subset.
	EParse = "E_PARSE"

	// EMissingAnnotation indicates a parameter or return type lacks an
	// annotation. Continues.
	EMissingAnnotation = "E_MISSING_ANNOTATION"

	// EUninferableLocal indicates a local's type cannot be inferred and is
	// not annotated. Continues.
	EUninferableLocal = "E_UNINFERABLE_LOCAL"

	// ETypeMismatch indicates an operation applied to incompatible types.
	// Continues.
	ETypeMismatch = "E_TYPE_MISMATCH"

	// EUnknownSymbol indicates an identifier is neither defined locally nor
	// resolvable via the stub registry. Continues.
	EUnknownSymbol = "E_UNKNOWN_SYMBOL"

	// EAwaitOutsideAsync indicates an await expression appears in a
	// non-async function.
	EAwaitOutsideAsync = "E_AWAIT_OUTSIDE_ASYNC"

	// EUnsupportedConstruct indicates a syntactic form is outside the
	// accepted subset. Continues.
	EUnsupportedConstruct = "E_UNSUPPORTED_CONSTRUCT"

	// EStubLoad indicates a stub package is malformed.
	EStubLoad = "E_STUB_LOAD"

	// EIO indicates an input read or output write failed.
	EIO = "E_IO"
)

// continuable holds the kinds whose diagnostics do not stop semantic
// analysis early; the analyzer keeps walking to collect more of the same
// kinds within a single run (spec §7).
var continuable = map[string]bool{
	EMissingAnnotation:    true,
	EUninferableLocal:     true,
	ETypeMismatch:         true,
	EUnknownSymbol:        true,
	EUnsupportedConstruct: true,
}

// Continues reports whether code is one of the kinds marked "continues"
// above. No pipeline stage consults it: analysis keeps running after a
// diagnostic of any kind.
func Continues(code string) bool {
	return continuable[code]
}
