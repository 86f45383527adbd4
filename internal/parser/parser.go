// Package parser implements the compiler's hand-written recursive-descent
// parser: precedence climbing for arithmetic, a dedicated right-recursive
// rule for assignment, and a postfix loop for calls.
//
// Grounded on the teacher's internal/parser package for overall shape
// (dedicated grammar-named methods, a CompilerError on any mismatch) but
// not on its TokenCursor: that abstraction buys immutable backtracking for
// a grammar with optional keywords and speculative lookahead (THEN/DO/OF),
// which this grammar never needs — spec.md §4.5 is a classic one-token
// current/advance recursive descent, as original_source/ezc.c implements
// it (tok_peek/tok_next), and that is what this package mirrors.
package parser

import (
	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/errors"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/lexer"
	"github.com/ezc-lang/ezcc/internal/types"
)

// precedence maps each arithmetic binary operator token to its climbing
// precedence (lower binds tighter), per spec.md §4.5. Assignment is not a
// member of this table: it is parsed by a separate, right-recursive rule
// (see parseAssign) rather than folded into the climbing loop the way
// original_source/ezc.c does — see the note on parseAssign for why.
var precedence = map[lexer.TokenType]int{
	lexer.STAR:    0,
	lexer.SLASH:   0,
	lexer.PERCENT: 0,
	lexer.PLUS:    1,
	lexer.MINUS:   1,
}

// maxPrecedence is the climbing loop's initial ceiling: looser than any
// real operator precedence, so the first operator encountered is always
// eligible to bind.
const maxPrecedence = 1 << 30

// Parser consumes tokens from a Lexer and builds an ast.Unit.
type Parser struct {
	lex      *lexer.Lexer
	interner *intern.Table
	types    *types.Cache
	src      string

	cur lexer.Token
}

// New creates a Parser reading from lex. interner and typeCache are shared
// with the lexer (for identifiers) and the rest of the pipeline (for
// hash-consed pointer/function types); src is the original source text,
// threaded through purely so syntax errors can render a caret.
func New(lex *lexer.Lexer, interner *intern.Table, typeCache *types.Cache, src string) *Parser {
	p := &Parser{lex: lex, interner: interner, types: typeCache, src: src}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
}

func (p *Parser) fatalf(format string, args ...any) {
	errors.Fatal(errors.Syntax, p.cur.Pos, p.src, format, args...)
}

// expect consumes the current token if it has type t, and fails otherwise.
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.cur.Type != t {
		p.fatalf("expected %s, got %s", t, p.cur.Type)
	}
	tok := p.cur
	p.advance()
	return tok
}

// ParseUnit parses an entire translation unit: zero or more top-level
// declarations followed by end of input.
func ParseUnit(lex *lexer.Lexer, interner *intern.Table, typeCache *types.Cache, src string) *ast.Unit {
	p := New(lex, interner, typeCache, src)
	return p.parseUnit()
}

func (p *Parser) parseUnit() *ast.Unit {
	unit := &ast.Unit{}
	for p.cur.Type != lexer.EOF {
		unit.Decls = append(unit.Decls, p.parseGlobDecl())
	}
	return unit
}

// parseBaseType recognizes the sole base type this grammar has: `int`.
func (p *Parser) parseBaseType() *types.Type {
	if p.cur.Type != lexer.KW_INT {
		p.fatalf("expected a type, got %s", p.cur.Type)
	}
	p.advance()
	return types.IntType()
}

// parsePtrSuffix consumes zero or more `*` after a base type, wrapping base
// in a hash-consed pointer type for each one.
func (p *Parser) parsePtrSuffix(base *types.Type) *types.Type {
	t := base
	for p.cur.Type == lexer.STAR {
		p.advance()
		t = p.types.PtrType(t)
	}
	return t
}

// parseGlobDecl parses one top-level declaration: a global variable or a
// function (prototype or definition), disambiguated by the token following
// the identifier (spec.md §4.5).
func (p *Parser) parseGlobDecl() *ast.GlobDecl {
	pos := p.cur.Pos
	base := p.parseBaseType()
	typ := p.parsePtrSuffix(base)
	name := p.expect(lexer.IDENT).Name

	if p.cur.Type != lexer.LPAREN {
		p.expect(lexer.SEMI)
		return ast.NewGlobVar(name, typ, pos)
	}

	p.advance() // consume '('
	params := p.parseParams()
	p.expect(lexer.RPAREN)

	funcType := p.types.FuncType(typ, params)

	if p.cur.Type == lexer.SEMI {
		p.advance()
		return ast.NewGlobFunc(name, funcType, nil, pos)
	}

	body := p.parseBlock()
	return ast.NewGlobFunc(name, funcType, body, pos)
}

// parseParams parses an optional comma-separated parameter list. The
// accumulator is a plain nil slice, appended to as each param is parsed —
// explicitly initialized so there is no uninitialized first read, unlike
// original_source/ezc.c's curr_param (spec.md §9, fix (e)).
func (p *Parser) parseParams() []types.Param {
	var params []types.Param
	if p.cur.Type == lexer.RPAREN {
		return params
	}
	for {
		base := p.parseBaseType()
		typ := p.parsePtrSuffix(base)
		name := p.expect(lexer.IDENT).Name
		params = append(params, types.Param{Name: name, Type: typ})
		if p.cur.Type != lexer.COMMA {
			break
		}
		p.advance()
	}
	return params
}

// parseBlock parses a brace-delimited sequence of statements.
func (p *Parser) parseBlock() []*ast.Stmt {
	p.expect(lexer.LBRACE)
	var stmts []*ast.Stmt
	for p.cur.Type != lexer.RBRACE {
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(lexer.RBRACE)
	return stmts
}

// parseStmt parses one statement. Leading semicolons are empty statements
// and are absorbed without producing a node (spec.md §4.5: `stmt := ';'+
// stmt`); parseStmt returns nil when nothing but semicolons precede the
// closing brace.
func (p *Parser) parseStmt() *ast.Stmt {
	for p.cur.Type == lexer.SEMI {
		p.advance()
	}
	if p.cur.Type == lexer.RBRACE {
		return nil
	}

	pos := p.cur.Pos

	switch p.cur.Type {
	case lexer.LBRACE:
		return ast.NewBlockStmt(p.parseBlock(), pos)

	case lexer.KW_RETURN:
		p.advance()
		var expr *ast.Expr
		if p.cur.Type != lexer.SEMI {
			expr = p.parseExpr()
		}
		p.expect(lexer.SEMI)
		return ast.NewReturnStmt(expr, pos)

	case lexer.KW_INT:
		decl := p.parseDecl()
		p.expect(lexer.SEMI)
		return ast.NewDeclStmt(decl, pos)

	default:
		expr := p.parseExpr()
		p.expect(lexer.SEMI)
		return ast.NewExprStmt(expr, pos)
	}
}

// parseDecl parses a local variable declaration's type and name (the
// caller handles the trailing semicolon).
func (p *Parser) parseDecl() *ast.Decl {
	pos := p.cur.Pos
	base := p.parseBaseType()
	typ := p.parsePtrSuffix(base)
	name := p.expect(lexer.IDENT).Name
	return &ast.Decl{Type: typ, Name: name, Pos: pos}
}

func (p *Parser) parseExpr() *ast.Expr {
	return p.parseAssign()
}

// parseAssign implements `assign := binary ('=' binary)?` as a
// right-recursive rule, separate from the arithmetic climbing loop: the
// left side is parsed with parseBinary (which only ever sees *, /, %, +,
// -), and if a bare `=` follows, the right side recurses into parseAssign
// again so that `a = b = c` parses as `a = (b = c)`.
//
// original_source/ezc.c instead folds `=` into the same precedence table
// parse_expr_binary climbs and calls it twice at precedence 999 from
// parse_expr_assign; design note (b) flags that path as producing
// right-associativity only by coincidence of how the loop happens to
// re-peek after each reduction, not by construction. This rule gets
// right-associativity by construction, matching the comment on the
// normative grammar in spec.md §4.5.
func (p *Parser) parseAssign() *ast.Expr {
	left := p.parseBinary(maxPrecedence)
	if p.cur.Type != lexer.ASSIGN {
		return left
	}
	pos := p.cur.Pos
	p.advance()
	right := p.parseAssign()
	return ast.NewBinary(ast.Assign, left, right, pos)
}

// parseBinary implements precedence climbing over *, /, %, +, -: an
// operator is consumed only when its precedence is strictly tighter
// (numerically lower) than ceiling, and its right operand is parsed with
// the operator's own precedence as the new ceiling.
func (p *Parser) parseBinary(ceiling int) *ast.Expr {
	left := p.parseUnary()

	for {
		prec, ok := precedence[p.cur.Type]
		if !ok || prec >= ceiling {
			break
		}
		kind := binaryKind(p.cur.Type)
		pos := p.cur.Pos
		p.advance()
		right := p.parseBinary(prec)
		left = ast.NewBinary(kind, left, right, pos)
	}

	return left
}

func binaryKind(t lexer.TokenType) ast.ExprKind {
	switch t {
	case lexer.STAR:
		return ast.Mul
	case lexer.SLASH:
		return ast.Div
	case lexer.PERCENT:
		return ast.Mod
	case lexer.PLUS:
		return ast.Add
	case lexer.MINUS:
		return ast.Sub
	default:
		panic("parser: unreachable binary token " + t.String())
	}
}

// parseUnary implements `unary := '-' unary | '+' postfix | postfix`:
// unary minus wraps in a Neg node and is itself right-recursive (`--x` is
// valid); unary plus is purely syntactic and produces no node.
func (p *Parser) parseUnary() *ast.Expr {
	switch p.cur.Type {
	case lexer.MINUS:
		pos := p.cur.Pos
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnary(ast.Neg, operand, pos)
	case lexer.PLUS:
		p.advance()
		return p.parsePostfix()
	default:
		return p.parsePostfix()
	}
}

// parsePostfix implements `postfix := primary ( '(' arglist? ')' )*`: a
// primary followed by zero or more call applications.
func (p *Parser) parsePostfix() *ast.Expr {
	expr := p.parsePrimary()

	for p.cur.Type == lexer.LPAREN {
		pos := p.cur.Pos
		p.advance()
		var args []*ast.Expr
		if p.cur.Type != lexer.RPAREN {
			for {
				// Each argument is parsed at assignment level (spec.md
				// §4.5): parseAssign never touches ',', so a bare comma
				// always terminates one argument without special-casing.
				args = append(args, p.parseAssign())
				if p.cur.Type != lexer.COMMA {
					break
				}
				p.advance()
			}
		}
		p.expect(lexer.RPAREN)
		expr = ast.NewCall(expr, args, pos)
	}

	return expr
}

// parsePrimary implements `primary := integer | ident | '(' expr ')'`.
func (p *Parser) parsePrimary() *ast.Expr {
	pos := p.cur.Pos

	switch p.cur.Type {
	case lexer.INT:
		value := p.cur.Value
		p.advance()
		return ast.NewIntLit(value, pos)

	case lexer.IDENT:
		name := p.cur.Name
		p.advance()
		return ast.NewIdent(name, pos)

	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpr()
		p.expect(lexer.RPAREN)
		return expr

	default:
		p.fatalf("unexpected token %s", p.cur.Type)
		panic("unreachable")
	}
}
