package diag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/polylang/transpile/internal/ast"
)

// SchemaV1 tags every Report with the diagnostic schema version, so
// downstream tooling can evolve the shape without breaking consumers that
// pin to a version.
const SchemaV1 = "transpile.diag/v1"

// Fix is an optional suggested remediation attached to a Report.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured diagnostic. Every error builder in the
// pipeline returns a *Report (or collects one), so a single data shape
// carries the full taxonomy described in spec §7.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"` // "parse", "build", "analyze", "emit", "assemble"
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report as an error so it survives errors.As
// unwrapping through normal Go error-handling code paths.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return e.Rep.String()
}

// String renders a Report in the "path:line:col: KIND: message" form
// required by spec §7 for user-visible output.
func (r *Report) String() string {
	if r.Span == nil {
		return fmt.Sprintf("%s: %s: %s", r.Code, r.Phase, r.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", r.Span.Start.File, r.Span.Start.Line, r.Span.Start.Column, r.Code, r.Message)
}

// AsReport extracts a *Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New constructs a Report with the given code, phase, span and message.
func New(code, phase string, span *ast.Span, msg string, args ...any) *Report {
	return &Report{
		Schema:  SchemaV1,
		Code:    code,
		Phase:   phase,
		Span:    span,
		Message: fmt.Sprintf(msg, args...),
	}
}

// WithData attaches structured data to a Report and returns it, for
// chaining at the call site.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}

// WithFix attaches a suggested fix.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// ToJSON renders the Report as deterministic JSON (sorted map keys, since
// encoding/json sorts map[string]any keys by default).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
