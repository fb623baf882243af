package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `def greet(name: str) -> str:
    return f"Hello, {name}!"
`
	want := []Kind{
		DEF, IDENT, LPAREN, IDENT, COLON, IDENT, RPAREN, ARROW, IDENT, COLON, NEWLINE,
		INDENT, RETURN, FSTRING, NEWLINE,
		DEDENT, EOF,
	}

	l := New(input, "test.src")
	for i, wantKind := range want {
		tok := l.NextToken()
		if tok.Kind != wantKind {
			t.Fatalf("token %d: got kind %d (%q), want %d", i, tok.Kind, tok.Literal, wantKind)
		}
	}
}

func TestIndentationDedent(t *testing.T) {
	input := "if x:\n    y = 1\nz = 2\n"
	l := New(input, "t")
	var kinds []Kind
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}
	// if x : NEWLINE INDENT y = 1 NEWLINE DEDENT z = 2 NEWLINE EOF
	wantPrefix := []Kind{IF, IDENT, COLON, NEWLINE, INDENT, IDENT, ASSIGN, INT, NEWLINE, DEDENT}
	for i, k := range wantPrefix {
		if kinds[i] != k {
			t.Fatalf("position %d: got %d want %d (%v)", i, kinds[i], k, kinds)
		}
	}
}

func TestOperators(t *testing.T) {
	input := "x += 1\ny == 2\nz -> 3"
	l := New(input, "t")
	var got []Kind
	for {
		tok := l.NextToken()
		got = append(got, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}
	mustContain := []Kind{PLUSEQ, EQ, ARROW}
	for _, want := range mustContain {
		found := false
		for _, k := range got {
			if k == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected token kind %d among %v", want, got)
		}
	}
}

func TestFString(t *testing.T) {
	l := New(`f"Hello, {name}!"`, "t")
	tok := l.NextToken()
	if tok.Kind != FSTRING {
		t.Fatalf("expected FSTRING, got %d", tok.Kind)
	}
	if tok.Literal != "Hello, {name}!" {
		t.Fatalf("unexpected literal: %q", tok.Literal)
	}
}
