package emitter

import (
	"strings"
	"testing"

	"github.com/polylang/transpile/internal/analyzer"
	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/irbuild"
	"github.com/polylang/transpile/internal/parser"
	"github.com/polylang/transpile/internal/stubs"
)

func compile(t *testing.T, src string) (*EmittedFile, *diag.Collector) {
	t.Helper()
	file, perrs := parser.ParseFile(src, "t.src")
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	errs := diag.NewCollector()
	mod := irbuild.New(errs).BuildModule(file, "t")
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics during build: %v", errs.Reports())
	}
	table := analyzer.Analyze(mod, stubs.NewRegistry(), errs)
	if errs.Fatal() {
		t.Fatalf("unexpected fatal diagnostics during analysis: %v", errs.Reports())
	}
	return New(table).EmitModule(mod), errs
}

func TestEmitGreetFormatsAndConvertsStringBoundary(t *testing.T) {
	src := "def greet(name: str) -> str:\n    return f\"Hello, {name}!\"\n\n" +
		"def main() -> None:\n    message: str = greet(\"World\")\n    print(message)\n"
	out, _ := compile(t, src)
	if !strings.Contains(out.Code, `format!("Hello, {}!", name)`) {
		t.Fatalf("expected format! macro rendering, got:\n%s", out.Code)
	}
	if !strings.Contains(out.Code, `greet("World".to_string())`) {
		t.Fatalf("expected string-literal argument converted to owned at the call boundary, got:\n%s", out.Code)
	}
	if !strings.Contains(out.Code, "let message: String") {
		t.Fatalf("expected message declared as String, got:\n%s", out.Code)
	}
}

func TestEmitMutableCounter(t *testing.T) {
	src := "def increment() -> int:\n    x: int = 0\n    x = x + 1\n    x = x + 1\n    return x\n"
	out, _ := compile(t, src)
	if !strings.Contains(out.Code, "let mut x: i64 = 0;") {
		t.Fatalf("expected x declared mutable, got:\n%s", out.Code)
	}
	if !strings.Contains(out.Code, "return x;") {
		t.Fatalf("expected bare return of x, got:\n%s", out.Code)
	}
}

func TestEmitAsyncMainGetsEntryAttributeAndPostfixAwait(t *testing.T) {
	src := "async def greet(name: str) -> str:\n    return f\"Hello, {name}!\"\n\n" +
		"async def main() -> None:\n    x = await greet(\"World\")\n"
	out, _ := compile(t, src)
	if !strings.Contains(out.Code, "#[tokio::main]") {
		t.Fatalf("expected async-runtime entry attribute on main, got:\n%s", out.Code)
	}
	if !strings.Contains(out.Code, ".await") {
		t.Fatalf("expected postfix .await, got:\n%s", out.Code)
	}
	if strings.Contains(out.Code, "await greet") {
		t.Fatalf("await must not remain prefix, got:\n%s", out.Code)
	}
}

func TestEmitErrorPropagationOperator(t *testing.T) {
	src := "def might_fail() -> Result[int, str]:\n    return Ok(42)\n\n" +
		"def caller() -> Result[int, str]:\n    value: int = might_fail()\n    return Ok(value + 1)\n"
	out, _ := compile(t, src)
	if !strings.Contains(out.Code, "might_fail()?") {
		t.Fatalf("expected error-propagation operator on might_fail() call, got:\n%s", out.Code)
	}
}

func TestEmitIndexCastOnSequenceSubscript(t *testing.T) {
	src := "def first(xs: list[int]) -> int:\n    return xs[0]\n"
	out, _ := compile(t, src)
	if !strings.Contains(out.Code, "xs[(0 as usize)]") {
		t.Fatalf("expected platform-width cast on sequence subscript, got:\n%s", out.Code)
	}
}

func TestEmitDataclassDefaultFieldBecomesOptionalConstructorParam(t *testing.T) {
	src := "@dataclass\nclass Point:\n    x: int\n    y: int = 0\n"
	out, _ := compile(t, src)
	if !strings.Contains(out.Code, "pub x: i64,") || !strings.Contains(out.Code, "pub y: i64,") {
		t.Fatalf("expected plain-typed struct fields, got:\n%s", out.Code)
	}
	if !strings.Contains(out.Code, "pub fn new(x: i64, y: Option<i64>) -> Self {") {
		t.Fatalf("expected defaulted field lowered to an Option constructor parameter, got:\n%s", out.Code)
	}
	if !strings.Contains(out.Code, "y: y.unwrap_or(0),") {
		t.Fatalf("expected default value substituted via unwrap_or, got:\n%s", out.Code)
	}
	if !strings.Contains(out.Code, "x,\n") {
		t.Fatalf("expected non-defaulted field assigned by shorthand, got:\n%s", out.Code)
	}
}

func TestEmitMembershipRewrite(t *testing.T) {
	src := "def contains(xs: list[int], x: int) -> bool:\n    return x in xs\n"
	out, _ := compile(t, src)
	if !strings.Contains(out.Code, "xs.contains(&x)") {
		t.Fatalf("expected membership rewrite to .contains(&x), got:\n%s", out.Code)
	}
}
