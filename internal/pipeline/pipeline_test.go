package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/stubs"
)

func runOne(t *testing.T, modulePath, src string) (string, *diag.Collector) {
	t.Helper()
	outDir := t.TempDir()
	errs := diag.NewCollector()
	reg := stubs.NewRegistry()
	_, err := Run([]Source{{ModulePath: modulePath, Code: src}}, reg, outDir, "widgets", errs)
	if err != nil {
		t.Fatalf("unexpected error: %v (diagnostics: %v)", err, errs.Reports())
	}
	if errs.Fatal() {
		t.Fatalf("unexpected diagnostics: %v", errs.Reports())
	}
	code, rerr := os.ReadFile(filepath.Join(outDir, "src", "main.rs"))
	if rerr != nil {
		t.Fatalf("expected main.rs: %v", rerr)
	}
	return string(code), errs
}

func TestGoldenS1Greet(t *testing.T) {
	src := "def greet(name: str) -> str:\n    return f\"Hello, {name}!\"\n\n" +
		"def main() -> None:\n    message: str = greet(\"World\")\n    print(message)\n"
	code, _ := runOne(t, "main", src)
	if !strings.Contains(code, `fn greet(name: String) -> String`) {
		t.Fatalf("expected greet signature taking and returning owned string, got:\n%s", code)
	}
	if !strings.Contains(code, `format!("Hello, {}!", name)`) {
		t.Fatalf("expected format! template, got:\n%s", code)
	}
	if !strings.Contains(code, `greet("World".to_string())`) {
		t.Fatalf("expected call boundary conversion, got:\n%s", code)
	}
	if !strings.Contains(code, "let message: String") {
		t.Fatalf("expected message: String, got:\n%s", code)
	}
}

func TestGoldenS2MutableCounter(t *testing.T) {
	src := "def increment() -> int:\n    x: int = 0\n    x = x + 1\n    x = x + 1\n    return x\n"
	code, _ := runOne(t, "main", src)
	if !strings.Contains(code, "let mut x: i64 = 0;") {
		t.Fatalf("expected x declared mutable, got:\n%s", code)
	}
	if !strings.Contains(code, "return x;") {
		t.Fatalf("expected bare return of x, got:\n%s", code)
	}
}

func TestGoldenS3AsyncEntry(t *testing.T) {
	src := "async def greet(name: str) -> str:\n    return f\"Hello, {name}!\"\n\n" +
		"async def main() -> None:\n    x = await greet(\"World\")\n"
	code, _ := runOne(t, "main", src)
	if !strings.Contains(code, "#[tokio::main]") {
		t.Fatalf("expected async-runtime entry attribute, got:\n%s", code)
	}
	if !strings.Contains(code, "greet(\"World\".to_string()).await") {
		t.Fatalf("expected postfix await on the call, got:\n%s", code)
	}
}

func TestGoldenS4ErrorPropagation(t *testing.T) {
	src := "def might_fail() -> Result[int, str]:\n    return Ok(42)\n\n" +
		"def main() -> Result[int, str]:\n    value: int = might_fail()\n    return Ok(value + 1)\n"
	code, _ := runOne(t, "main", src)
	if !strings.Contains(code, "might_fail()?") {
		t.Fatalf("expected error-propagation operator, got:\n%s", code)
	}
}

func TestGoldenS5IndexCast(t *testing.T) {
	src := "def main() -> None:\n    values: list[int] = [1, 2, 3]\n    i: int = 0\n" +
		"    while i < len(values):\n        print(values[i])\n        i = i + 1\n"
	code, _ := runOne(t, "main", src)
	if !strings.Contains(code, "values[(i as usize)]") {
		t.Fatalf("expected cast subscript, got:\n%s", code)
	}
	if !strings.Contains(code, "(i as usize) < values.len()") {
		t.Fatalf("expected cast loop condition, got:\n%s", code)
	}
}

func TestGoldenS6StubClosure(t *testing.T) {
	stubDir := t.TempDir()
	pkgDir := filepath.Join(stubDir, "channels")
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatalf("failed to create stub package dir: %v", err)
	}
	mustWrite(t, filepath.Join(pkgDir, ".transpile-stubs.yaml"), "")
	mustWrite(t, filepath.Join(pkgDir, "symbols.yaml"), "symbols:\n"+
		"  - name: mpsc_channel\n"+
		"    kind: function\n"+
		"    type: \"(Fn Int (Tuple (Named std.mpsc.Sender) (Named std.mpsc.Receiver)))\"\n")
	mustWrite(t, filepath.Join(pkgDir, "templates.yaml"), "templates:\n"+
		"  mpsc_channel:\n"+
		"    code: \"std::sync::mpsc::channel({0})\"\n"+
		"    imports:\n"+
		"      - std::sync::mpsc\n"+
		"    build:\n"+
		"      - crate: tokio\n"+
		"        version: \"1\"\n"+
		"        features: [\"sync\"]\n")

	reg := stubs.NewRegistry().WithSearchPath(stubDir)
	if err := reg.Discover(); err != nil {
		t.Fatalf("stub discovery failed: %v", err)
	}

	src := "def main() -> None:\n    tx, rx = mpsc_channel(10)\n"
	outDir := t.TempDir()
	errs := diag.NewCollector()
	_, err := Run([]Source{{ModulePath: "main", Code: src}}, reg, outDir, "widgets", errs)
	if err != nil {
		t.Fatalf("unexpected error: %v (diagnostics: %v)", err, errs.Reports())
	}
	if errs.Fatal() {
		t.Fatalf("unexpected diagnostics: %v", errs.Reports())
	}

	code, rerr := os.ReadFile(filepath.Join(outDir, "src", "main.rs"))
	if rerr != nil {
		t.Fatalf("expected main.rs: %v", rerr)
	}
	if !strings.Contains(string(code), "let (tx, mut rx) = std::sync::mpsc::channel(10);") {
		t.Fatalf("expected rx declared mutable via stub template expansion, got:\n%s", code)
	}
	if !strings.Contains(string(code), "use std::sync::mpsc;") {
		t.Fatalf("expected stub import in emitted file, got:\n%s", code)
	}

	manifestText, rerr := os.ReadFile(filepath.Join(outDir, "Cargo.toml"))
	if rerr != nil {
		t.Fatalf("expected Cargo.toml: %v", rerr)
	}
	if !strings.Contains(string(manifestText), "tokio") {
		t.Fatalf("expected stub build requirement in manifest, got:\n%s", manifestText)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
