// Package parser implements a recursive-descent parser over the accepted
// SRC grammar subset (spec §4.1), producing a surface AST.
package parser

import (
	"strconv"
	"strings"

	"github.com/polylang/transpile/internal/ast"
	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/lexer"
)

// Parser consumes a token stream from the lexer and builds a surface AST.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  lexer.Token
	peek lexer.Token

	pendingAttrs []ast.Attr
	errs         *diag.Collector
}

// New creates a Parser over src, attributing diagnostics to filename.
func New(src, filename string) *Parser {
	p := &Parser{l: lexer.New(src, filename), file: filename, errs: diag.NewCollector()}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
	for p.peek.Kind == lexer.ATTR {
		p.pendingAttrs = append(p.pendingAttrs, ast.Attr{Text: p.peek.Literal})
		p.peek = p.l.NextToken()
	}
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) takeAttrs() []ast.Attr {
	a := p.pendingAttrs
	p.pendingAttrs = nil
	return a
}

func (p *Parser) errorf(code string, msg string, args ...any) {
	p.errs.Add(diag.New(code, "parse", &ast.Span{Start: p.pos(), End: p.pos()}, msg, args...))
}

// Errors returns every diagnostic collected during parsing.
func (p *Parser) Errors() []*diag.Report { return p.errs.Reports() }

func (p *Parser) expect(k lexer.Kind, what string) bool {
	if p.cur.Kind != k {
		p.errorf(diag.EParse, "expected %s, found %q", what, p.cur.Literal)
		return false
	}
	p.next()
	return true
}

func (p *Parser) skipNewlines() {
	for p.cur.Kind == lexer.NEWLINE {
		p.next()
	}
}

// ParseFile parses a complete source file into a surface AST.
func ParseFile(src, filename string) (*ast.File, []*diag.Report) {
	p := New(src, filename)
	file := p.parseFile()
	return file, p.Errors()
}

func (p *Parser) parseFile() *ast.File {
	// swallow any ATTR tokens lexed ahead of the very first real token
	for p.cur.Kind == lexer.ATTR {
		p.pendingAttrs = append(p.pendingAttrs, ast.Attr{Text: p.cur.Literal})
		p.next()
	}

	f := &ast.File{Path: p.file, Pos: p.pos()}
	p.skipNewlines()
	for p.cur.Kind != lexer.EOF {
		item := p.parseItem()
		if item != nil {
			f.Items = append(f.Items, item)
		}
		p.skipNewlines()
	}
	return f
}

func (p *Parser) parseItem() ast.Item {
	attrs := p.takeAttrs()
	isDataclass := false

	for p.cur.Kind == lexer.AT {
		p.next()
		name := p.cur.Literal
		p.expect(lexer.IDENT, "decorator name")
		if p.cur.Kind == lexer.LPAREN {
			p.skipParenGroup()
		}
		p.skipNewlines()
		if name == "dataclass" {
			isDataclass = true
		} else {
			p.errorf(diag.EUnsupportedConstruct, "unsupported decorator @%s", name)
		}
		attrs = append(attrs, p.takeAttrs()...)
	}

	switch p.cur.Kind {
	case lexer.ASYNC:
		p.next()
		if !p.expect(lexer.DEF, "'def'") {
			return nil
		}
		return p.parseFuncDecl(true, attrs)
	case lexer.DEF:
		p.next()
		return p.parseFuncDecl(false, attrs)
	case lexer.CLASS:
		return p.parseClassDecl(isDataclass, attrs)
	case lexer.IMPORT:
		return p.parseImportDecl()
	case lexer.IDENT:
		return p.parseConstDecl()
	default:
		p.errorf(diag.EParse, "unexpected token %q at top level", p.cur.Literal)
		p.next()
		return nil
	}
}

func (p *Parser) skipParenGroup() {
	depth := 0
	for {
		if p.cur.Kind == lexer.LPAREN {
			depth++
		} else if p.cur.Kind == lexer.RPAREN {
			depth--
			if depth == 0 {
				p.next()
				return
			}
		} else if p.cur.Kind == lexer.EOF {
			return
		}
		p.next()
	}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	pos := p.pos()
	p.next() // 'import'
	var parts []string
	parts = append(parts, p.cur.Literal)
	p.expect(lexer.IDENT, "module path")
	for p.cur.Kind == lexer.DOT {
		p.next()
		parts = append(parts, p.cur.Literal)
		p.expect(lexer.IDENT, "module path segment")
	}
	return &ast.ImportDecl{Path: strings.Join(parts, "."), Pos: pos}
}

func (p *Parser) parseConstDecl() *ast.ConstDecl {
	pos := p.pos()
	name := p.cur.Literal
	p.expect(lexer.IDENT, "identifier")
	var typ ast.TypeExpr
	if p.cur.Kind == lexer.COLON {
		p.next()
		typ = p.parseTypeExpr()
	}
	p.expect(lexer.ASSIGN, "'='")
	val := p.parseExpr()
	return &ast.ConstDecl{Name: name, Type: typ, Value: val, Pos: pos}
}

func (p *Parser) parseFuncDecl(isAsync bool, attrs []ast.Attr) *ast.FuncDecl {
	pos := p.pos()
	name := p.cur.Literal
	p.expect(lexer.IDENT, "function name")
	p.expect(lexer.LPAREN, "'('")

	var params []*ast.Param
	isMethod := false
	isStatic := false
	first := true
	for p.cur.Kind != lexer.RPAREN {
		if !first {
			p.expect(lexer.COMMA, "','")
		}
		first = false
		pp := p.pos()
		pname := p.cur.Literal
		p.expect(lexer.IDENT, "parameter name")
		if pname == "self" && len(params) == 0 {
			isMethod = true
			continue
		}
		var ptype ast.TypeExpr
		if p.cur.Kind == lexer.COLON {
			p.next()
			ptype = p.parseTypeExpr()
		}
		var def ast.Expr
		if p.cur.Kind == lexer.ASSIGN {
			p.next()
			def = p.parseExpr()
		}
		params = append(params, &ast.Param{Name: pname, Type: ptype, Default: def, Pos: pp})
	}
	if len(params) == 0 && !isMethod {
		isStatic = true
	}
	p.expect(lexer.RPAREN, "')'")

	var ret ast.TypeExpr
	if p.cur.Kind == lexer.ARROW {
		p.next()
		ret = p.parseTypeExpr()
	}
	p.expect(lexer.COLON, "':'")
	body := p.parseBlock()

	return &ast.FuncDecl{
		Name: name, Params: params, Return: ret, IsAsync: isAsync,
		IsMethod: isMethod, IsStatic: isStatic, Body: body, Attrs: attrs, Pos: pos,
	}
}

func (p *Parser) parseClassDecl(isDataclass bool, attrs []ast.Attr) *ast.ClassDecl {
	pos := p.pos()
	p.next() // 'class'
	name := p.cur.Literal
	p.expect(lexer.IDENT, "class name")

	var bases []string
	if p.cur.Kind == lexer.LPAREN {
		p.next()
		for p.cur.Kind != lexer.RPAREN {
			bases = append(bases, p.cur.Literal)
			p.expect(lexer.IDENT, "base class name")
			if p.cur.Kind == lexer.COMMA {
				p.next()
			}
		}
		p.next()
	}
	p.expect(lexer.COLON, "':'")
	p.expect(lexer.NEWLINE, "newline")
	p.expect(lexer.INDENT, "indented class body")

	cls := &ast.ClassDecl{Name: name, IsDataclass: isDataclass, Bases: bases, Attrs: attrs, Pos: pos}
	for p.cur.Kind != lexer.DEDENT && p.cur.Kind != lexer.EOF {
		p.skipNewlines()
		if p.cur.Kind == lexer.DEDENT {
			break
		}
		memberAttrs := p.takeAttrs()
		switch p.cur.Kind {
		case lexer.ASYNC:
			p.next()
			p.expect(lexer.DEF, "'def'")
			m := p.parseFuncDecl(true, memberAttrs)
			m.IsMethod = true
			cls.Methods = append(cls.Methods, m)
		case lexer.DEF:
			p.next()
			m := p.parseFuncDecl(false, memberAttrs)
			m.IsMethod = true
			cls.Methods = append(cls.Methods, m)
		case lexer.IDENT:
			fp := p.pos()
			fname := p.cur.Literal
			p.next()
			var ftyp ast.TypeExpr
			if p.cur.Kind == lexer.COLON {
				p.next()
				ftyp = p.parseTypeExpr()
			}
			var def ast.Expr
			if p.cur.Kind == lexer.ASSIGN {
				p.next()
				def = p.parseExpr()
			}
			cls.Fields = append(cls.Fields, &ast.FieldDecl{Name: fname, Type: ftyp, Default: def, Pos: fp})
		default:
			p.errorf(diag.EParse, "unexpected token %q in class body", p.cur.Literal)
			p.next()
		}
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT, "dedent")
	return cls
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	pos := p.pos()
	name := p.cur.Literal
	p.expect(lexer.IDENT, "type name")

	if name == "tuple" && p.cur.Kind == lexer.LBRACKET {
		p.next()
		var elems []ast.TypeExpr
		elems = append(elems, p.parseTypeExpr())
		for p.cur.Kind == lexer.COMMA {
			p.next()
			elems = append(elems, p.parseTypeExpr())
		}
		p.expect(lexer.RBRACKET, "']'")
		return &ast.TupleType{Elems: elems, Pos: pos}
	}
	if name == "Optional" && p.cur.Kind == lexer.LBRACKET {
		p.next()
		inner := p.parseTypeExpr()
		p.expect(lexer.RBRACKET, "']'")
		return &ast.OptionalType{Inner: inner, Pos: pos}
	}

	nt := &ast.NameType{Name: name, Pos: pos}
	if p.cur.Kind == lexer.LBRACKET {
		p.next()
		nt.Generics = append(nt.Generics, p.parseTypeExpr())
		for p.cur.Kind == lexer.COMMA {
			p.next()
			nt.Generics = append(nt.Generics, p.parseTypeExpr())
		}
		p.expect(lexer.RBRACKET, "']'")
	}
	return nt
}

// parseBlock parses a NEWLINE-INDENT Stmt+ DEDENT block following a ':'.
func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(lexer.NEWLINE, "newline")
	p.expect(lexer.INDENT, "indented block")
	var stmts []ast.Stmt
	for p.cur.Kind != lexer.DEDENT && p.cur.Kind != lexer.EOF {
		if p.cur.Kind == lexer.NEWLINE {
			p.next()
			continue
		}
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(lexer.DEDENT, "dedent")
	return stmts
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.WITH:
		return p.parseWithStmt()
	case lexer.RETURN:
		pos := p.pos()
		p.next()
		var val ast.Expr
		if p.cur.Kind != lexer.NEWLINE && p.cur.Kind != lexer.DEDENT && p.cur.Kind != lexer.EOF {
			val = p.parseExpr()
		}
		return &ast.ReturnStmt{Value: val, Pos: pos}
	case lexer.BREAK:
		pos := p.pos()
		p.next()
		return &ast.BreakStmt{Pos: pos}
	case lexer.CONTINUE:
		pos := p.pos()
		p.next()
		return &ast.ContinueStmt{Pos: pos}
	case lexer.PASS:
		pos := p.pos()
		p.next()
		return &ast.PassStmt{Pos: pos}
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	pos := p.pos()
	p.next() // 'if'
	cond := p.parseExpr()
	p.expect(lexer.COLON, "':'")
	then := p.parseBlock()

	stmt := &ast.IfStmt{Cond: cond, Then: then, Pos: pos}
	switch p.cur.Kind {
	case lexer.ELIF:
		elifPos := p.pos()
		p.next()
		elifCond := p.parseExpr()
		p.expect(lexer.COLON, "':'")
		elifThen := p.parseBlock()
		nested := &ast.IfStmt{Cond: elifCond, Then: elifThen, Pos: elifPos}
		stmt.Else = []ast.Stmt{p.continueElifChain(nested)}
	case lexer.ELSE:
		p.next()
		p.expect(lexer.COLON, "':'")
		stmt.Else = p.parseBlock()
	}
	return stmt
}

// continueElifChain folds a run of trailing elif/else clauses into nested
// IfStmt.Else values, matching how the caller already consumed the first
// 'elif'.
func (p *Parser) continueElifChain(node *ast.IfStmt) *ast.IfStmt {
	switch p.cur.Kind {
	case lexer.ELIF:
		elifPos := p.pos()
		p.next()
		cond := p.parseExpr()
		p.expect(lexer.COLON, "':'")
		then := p.parseBlock()
		nested := &ast.IfStmt{Cond: cond, Then: then, Pos: elifPos}
		node.Else = []ast.Stmt{p.continueElifChain(nested)}
	case lexer.ELSE:
		p.next()
		p.expect(lexer.COLON, "':'")
		node.Else = p.parseBlock()
	}
	return node
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	pos := p.pos()
	p.next()
	cond := p.parseExpr()
	p.expect(lexer.COLON, "':'")
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	pos := p.pos()
	p.next()
	varName := p.cur.Literal
	p.expect(lexer.IDENT, "loop variable")
	p.expect(lexer.IN, "'in'")
	iter := p.parseExpr()
	p.expect(lexer.COLON, "':'")
	body := p.parseBlock()
	return &ast.ForStmt{Var: varName, Iterable: iter, Body: body, Pos: pos}
}

func (p *Parser) parseWithStmt() *ast.WithStmt {
	pos := p.pos()
	p.next()
	resource := p.parseExpr()
	var asName string
	if p.cur.Kind == lexer.AS {
		p.next()
		asName = p.cur.Literal
		p.expect(lexer.IDENT, "bound name")
	}
	p.expect(lexer.COLON, "':'")
	body := p.parseBlock()
	return &ast.WithStmt{Resource: resource, Var: asName, Body: body, Pos: pos}
}

// parseSimpleStmt handles assignment (incl. tuple destructuring and typed
// declaration), augmented assignment, and bare expression statements.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	pos := p.pos()
	first := p.parseExpr()

	switch p.cur.Kind {
	case lexer.PLUSEQ, lexer.MINUSEQ, lexer.STAREQ, lexer.SLASHEQ:
		op := augOp(p.cur.Kind)
		p.next()
		val := p.parseExpr()
		return &ast.AugAssignStmt{Target: first, Op: op, Value: val, Pos: pos}
	case lexer.COLON:
		// typed local declaration: IDENT ':' Type '=' Expr
		p.next()
		typ := p.parseTypeExpr()
		p.expect(lexer.ASSIGN, "'='")
		val := p.parseExpr()
		return &ast.AssignStmt{Targets: []ast.Expr{first}, Type: typ, Value: val, IsDecl: true, Pos: pos}
	case lexer.COMMA:
		targets := []ast.Expr{first}
		for p.cur.Kind == lexer.COMMA {
			p.next()
			targets = append(targets, p.parseExpr())
		}
		p.expect(lexer.ASSIGN, "'='")
		val := p.parseExpr()
		return &ast.AssignStmt{Targets: targets, Value: val, Pos: pos}
	case lexer.ASSIGN:
		p.next()
		val := p.parseExpr()
		return &ast.AssignStmt{Targets: []ast.Expr{first}, Value: val, Pos: pos}
	default:
		return &ast.ExprStmt{X: first, Pos: pos}
	}
}

func augOp(k lexer.Kind) string {
	switch k {
	case lexer.PLUSEQ:
		return "+"
	case lexer.MINUSEQ:
		return "-"
	case lexer.STAREQ:
		return "*"
	case lexer.SLASHEQ:
		return "/"
	}
	return "?"
}

// --- Expressions, lowest to highest precedence -----------------------------

func (p *Parser) parseExpr() ast.Expr {
	return p.parseCond()
}

func (p *Parser) parseCond() ast.Expr {
	thenVal := p.parseOr()
	if p.cur.Kind == lexer.IF {
		pos := p.pos()
		p.next()
		cond := p.parseOr()
		p.expect(lexer.ELSE, "'else'")
		elseVal := p.parseCond()
		return &ast.CondExpr{Cond: cond, Then: thenVal, Else: elseVal, Pos: pos}
	}
	return thenVal
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.cur.Kind == lexer.OR {
		pos := p.pos()
		p.next()
		right := p.parseAnd()
		left = &ast.BoolOpExpr{Op: "or", Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for p.cur.Kind == lexer.AND {
		pos := p.pos()
		p.next()
		right := p.parseNot()
		left = &ast.BoolOpExpr{Op: "and", Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseNot() ast.Expr {
	if p.cur.Kind == lexer.NOT {
		pos := p.pos()
		p.next()
		x := p.parseNot()
		return &ast.UnaryExpr{Op: "not", X: x, Pos: pos}
	}
	return p.parseMembership()
}

func (p *Parser) parseMembership() ast.Expr {
	left := p.parseCompare()
	if p.cur.Kind == lexer.IN {
		pos := p.pos()
		p.next()
		right := p.parseCompare()
		return &ast.MembershipExpr{Negated: false, Left: left, Right: right, Pos: pos}
	}
	if p.cur.Kind == lexer.NOT && p.peek.Kind == lexer.IN {
		pos := p.pos()
		p.next()
		p.next()
		right := p.parseCompare()
		return &ast.MembershipExpr{Negated: true, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseCompare() ast.Expr {
	left := p.parseAdditive()
	if op, ok := compareOp(p.cur.Kind); ok {
		pos := p.pos()
		p.next()
		right := p.parseAdditive()
		return &ast.CompareExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

func compareOp(k lexer.Kind) (string, bool) {
	switch k {
	case lexer.LT:
		return "<", true
	case lexer.LTE:
		return "<=", true
	case lexer.GT:
		return ">", true
	case lexer.GTE:
		return ">=", true
	case lexer.EQ:
		return "==", true
	case lexer.NEQ:
		return "!=", true
	}
	return "", false
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur.Kind == lexer.PLUS || p.cur.Kind == lexer.MINUS {
		pos := p.pos()
		op := "+"
		if p.cur.Kind == lexer.MINUS {
			op = "-"
		}
		p.next()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.cur.Kind == lexer.STAR || p.cur.Kind == lexer.SLASH || p.cur.Kind == lexer.PERCENT {
		pos := p.pos()
		op := map[lexer.Kind]string{lexer.STAR: "*", lexer.SLASH: "/", lexer.PERCENT: "%"}[p.cur.Kind]
		p.next()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.cur.Kind == lexer.MINUS {
		pos := p.pos()
		p.next()
		return &ast.UnaryExpr{Op: "-", X: p.parseUnary(), Pos: pos}
	}
	if p.cur.Kind == lexer.AWAIT {
		pos := p.pos()
		p.next()
		return &ast.AwaitExpr{X: p.parseUnary(), Pos: pos}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case lexer.DOT:
			pos := p.pos()
			p.next()
			name := p.cur.Literal
			p.expect(lexer.IDENT, "attribute name")
			x = &ast.AttrExpr{Recv: x, Name: name, Pos: pos}
		case lexer.LPAREN:
			pos := p.pos()
			p.next()
			var args []ast.Expr
			for p.cur.Kind != lexer.RPAREN {
				if len(args) > 0 {
					p.expect(lexer.COMMA, "','")
				}
				args = append(args, p.parseExpr())
			}
			p.expect(lexer.RPAREN, "')'")
			x = &ast.CallExpr{Func: x, Args: args, Pos: pos}
		case lexer.LBRACKET:
			pos := p.pos()
			p.next()
			idx := p.parseExpr()
			p.expect(lexer.RBRACKET, "']'")
			x = &ast.SubscriptExpr{Recv: x, Index: idx, Pos: pos}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.cur.Kind {
	case lexer.INT:
		v, _ := strconv.ParseInt(p.cur.Literal, 10, 64)
		p.next()
		return &ast.IntLit{Value: v, Pos: pos}
	case lexer.FLOAT:
		v, _ := strconv.ParseFloat(p.cur.Literal, 64)
		p.next()
		return &ast.FloatLit{Value: v, Pos: pos}
	case lexer.TRUE:
		p.next()
		return &ast.BoolLit{Value: true, Pos: pos}
	case lexer.FALSE:
		p.next()
		return &ast.BoolLit{Value: false, Pos: pos}
	case lexer.NONE:
		p.next()
		return &ast.NoneLit{Pos: pos}
	case lexer.STRING:
		v := p.cur.Literal
		p.next()
		return &ast.StrLit{Value: v, Pos: pos}
	case lexer.FSTRING:
		v := p.cur.Literal
		p.next()
		return p.parseFString(v, pos)
	case lexer.IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Name: name, Pos: pos}
	case lexer.LPAREN:
		p.next()
		if p.cur.Kind == lexer.RPAREN {
			p.next()
			return &ast.TupleExpr{Pos: pos}
		}
		first := p.parseExpr()
		if p.cur.Kind == lexer.COMMA {
			elems := []ast.Expr{first}
			for p.cur.Kind == lexer.COMMA {
				p.next()
				if p.cur.Kind == lexer.RPAREN {
					break
				}
				elems = append(elems, p.parseExpr())
			}
			p.expect(lexer.RPAREN, "')'")
			return &ast.TupleExpr{Elems: elems, Pos: pos}
		}
		p.expect(lexer.RPAREN, "')'")
		return first
	case lexer.LBRACKET:
		return p.parseSeqLit()
	case lexer.LBRACE:
		return p.parseMapOrSetLit()
	default:
		p.errorf(diag.EParse, "unexpected token %q in expression", p.cur.Literal)
		lit := p.cur.Literal
		p.next()
		return &ast.Identifier{Name: lit, Pos: pos}
	}
}

func (p *Parser) parseSeqLit() ast.Expr {
	pos := p.pos()
	p.next() // '['
	if p.cur.Kind == lexer.RBRACKET {
		p.next()
		return &ast.SeqLit{Pos: pos}
	}
	first := p.parseExpr()
	if p.cur.Kind == lexer.FOR {
		p.next()
		varName := p.cur.Literal
		p.expect(lexer.IDENT, "loop variable")
		p.expect(lexer.IN, "'in'")
		iter := p.parseOr()
		var cond ast.Expr
		if p.cur.Kind == lexer.IF {
			p.next()
			cond = p.parseOr()
		}
		p.expect(lexer.RBRACKET, "']'")
		return &ast.SeqLit{IsCompr: true, CompFor: varName, CompIn: iter, CompIf: cond, CompBody: first, Pos: pos}
	}
	elems := []ast.Expr{first}
	for p.cur.Kind == lexer.COMMA {
		p.next()
		if p.cur.Kind == lexer.RBRACKET {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(lexer.RBRACKET, "']'")
	return &ast.SeqLit{Elems: elems, Pos: pos}
}

func (p *Parser) parseMapOrSetLit() ast.Expr {
	pos := p.pos()
	p.next() // '{'
	if p.cur.Kind == lexer.RBRACE {
		p.next()
		return &ast.MapLit{Pos: pos}
	}
	firstKey := p.parseExpr()
	if p.cur.Kind == lexer.COLON {
		p.next()
		firstVal := p.parseExpr()
		entries := []ast.MapEntry{{Key: firstKey, Value: firstVal}}
		for p.cur.Kind == lexer.COMMA {
			p.next()
			if p.cur.Kind == lexer.RBRACE {
				break
			}
			k := p.parseExpr()
			p.expect(lexer.COLON, "':'")
			v := p.parseExpr()
			entries = append(entries, ast.MapEntry{Key: k, Value: v})
		}
		p.expect(lexer.RBRACE, "'}'")
		return &ast.MapLit{Entries: entries, Pos: pos}
	}
	elems := []ast.Expr{firstKey}
	for p.cur.Kind == lexer.COMMA {
		p.next()
		if p.cur.Kind == lexer.RBRACE {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(lexer.RBRACE, "'}'")
	return &ast.SetLit{Elems: elems, Pos: pos}
}

// parseFString splits a raw f-string body into literal-text and
// interpolation parts. An interpolation is `{expr[:spec]}`; `{{`/`}}` escape
// a literal brace. Each `expr` is itself parsed with a nested Parser.
func (p *Parser) parseFString(raw string, pos ast.Pos) *ast.FStringLit {
	lit := &ast.FStringLit{Pos: pos}
	var text strings.Builder
	i := 0
	for i < len(raw) {
		switch {
		case raw[i] == '{' && i+1 < len(raw) && raw[i+1] == '{':
			text.WriteByte('{')
			i += 2
		case raw[i] == '}' && i+1 < len(raw) && raw[i+1] == '}':
			text.WriteByte('}')
			i += 2
		case raw[i] == '{':
			if text.Len() > 0 {
				lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
				text.Reset()
			}
			depth := 1
			start := i + 1
			j := start
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			inner := raw[start:j]
			exprText, spec := splitFormatSpec(inner)
			sub := New(exprText, p.file)
			expr := sub.parseExpr()
			lit.Parts = append(lit.Parts, ast.FStringPart{Expr: expr, Spec: spec})
			i = j + 1
		default:
			text.WriteByte(raw[i])
			i++
		}
	}
	if text.Len() > 0 {
		lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
	}
	return lit
}

// splitFormatSpec separates `expr:spec` on the top-level colon (not inside
// brackets), returning spec == "" when no specifier is present.
func splitFormatSpec(inner string) (expr string, spec string) {
	depth := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth == 0 {
				return inner[:i], inner[i+1:]
			}
		}
	}
	return inner, ""
}
