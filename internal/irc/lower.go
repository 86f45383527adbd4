// Package irc lowers a type-checked ast.Unit into IR-C: the same node
// types, restricted so that every operand of a unary, binary, or call
// node is an atom (an integer literal or an identifier). Non-atomic
// subexpressions are bound to freshly introduced temporaries.
//
// Grounded directly on original_source/ezc.c's store_expr_temp_var /
// stmt_to_irc / block_to_irc: the two-mode store(expr, first) recurrence,
// a monotonically increasing temporary counter never reset between
// functions (spec.md §4.7), and statement lowering that appends newly
// generated declarations/assignments into the block currently being
// built. Where the C source threads this through a single global
// curr_block pointer swapped in and out around nested blocks, this
// package carries the same "current output block" state as an explicit
// field on Lowerer, swapped via ordinary call/return instead of a global
// — the only structural change, and one forced by not having (or wanting)
// process-wide mutable globals in Go.
//
// Unlike the C source, this package does not touch the symbol table or
// assign frame offsets while lowering: spec.md §4.8 assigns that
// responsibility to the code generator, which rebuilds the symbol table
// from scratch in its own declaration order, so IR-C lowering is a pure
// AST-to-AST transform.
package irc

import (
	"fmt"

	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/errors"
	"github.com/ezc-lang/ezcc/internal/intern"
)

// Lowerer rewrites a checked Unit into IR-C normal form.
type Lowerer struct {
	interner *intern.Table
	tmpCount int

	// block points at the statement slice currently being appended to;
	// swapped out (and restored) around each nested block, mirroring the
	// source's curr_block save/restore around block_to_irc.
	block *[]*ast.Stmt
}

// New creates a Lowerer. The temporary counter it owns is shared across
// every function in the unit passed to Lower, guaranteeing every
// generated name is unique translation-unit-wide (spec.md §4.7, §8
// Testable Property 5).
func New(interner *intern.Table) *Lowerer {
	return &Lowerer{interner: interner}
}

// Lower rewrites unit into IR-C, returning a new Unit. Global variable
// declarations and function forward declarations pass through unchanged;
// only function bodies are lowered.
func (lo *Lowerer) Lower(unit *ast.Unit) *ast.Unit {
	out := &ast.Unit{Decls: make([]*ast.GlobDecl, len(unit.Decls))}
	for i, d := range unit.Decls {
		out.Decls[i] = lo.globDecl(d)
	}
	return out
}

func (lo *Lowerer) globDecl(d *ast.GlobDecl) *ast.GlobDecl {
	if d.Kind != ast.GlobFunc || d.Body == nil {
		return d
	}
	return ast.NewGlobFunc(d.Name, d.Type, lo.loweredBlock(d.Body), d.Pos)
}

// loweredBlock lowers stmts into a fresh statement slice, installing it as
// the current output block for the duration.
func (lo *Lowerer) loweredBlock(stmts []*ast.Stmt) []*ast.Stmt {
	var out []*ast.Stmt
	parent := lo.block
	lo.block = &out
	for _, s := range stmts {
		lo.stmt(s)
	}
	lo.block = parent
	return out
}

func (lo *Lowerer) addStmt(s *ast.Stmt) {
	*lo.block = append(*lo.block, s)
}

func (lo *Lowerer) stmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.DeclStmt:
		lo.addStmt(s)

	case ast.ExprStmt:
		lo.store(s.Expr, true)

	case ast.BlockStmt:
		lo.addStmt(ast.NewBlockStmt(lo.loweredBlock(s.Block), s.Pos))

	case ast.ReturnStmt:
		if s.Expr == nil {
			lo.addStmt(s)
			return
		}
		lo.addStmt(ast.NewReturnStmt(lo.atom(s.Expr), s.Pos))

	default:
		errors.Fatal(errors.Internal, s.Pos, "", "irc: unexpected statement kind %v", s.Kind)
	}
}

func isAtom(e *ast.Expr) bool {
	return e.Kind == ast.IntLit || e.Kind == ast.Ident
}

// atom flattens e into an atom: e itself if it already is one, or an
// identifier referencing a fresh temporary that store(e, false) binds it
// to.
func (lo *Lowerer) atom(e *ast.Expr) *ast.Expr {
	if isAtom(e) {
		return e
	}
	name := lo.store(e, false)
	ident := ast.NewIdent(name, e.Pos)
	ident.Type = e.Type
	return ident
}

// store implements the store(expr, first) recurrence from spec.md §4.7.
// When first is false, it allocates a temporary, emits its declaration,
// and returns the temporary's name once its assignment has been emitted.
// When first is true, the flattened expression is emitted as a bare
// expression statement and the return value is unused.
func (lo *Lowerer) store(e *ast.Expr, first bool) intern.Symbol {
	var tmpName intern.Symbol
	if !first {
		tmpName = lo.newTemp()
		lo.addStmt(ast.NewDeclStmt(&ast.Decl{Type: e.Type, Name: tmpName, Pos: e.Pos}, e.Pos))
	}

	rvalue := lo.flatten(e)

	if first {
		lo.addStmt(ast.NewExprStmt(rvalue, e.Pos))
		return 0
	}

	target := ast.NewIdent(tmpName, e.Pos)
	target.Type = e.Type
	assign := ast.NewBinary(ast.Assign, target, rvalue, e.Pos)
	assign.Type = e.Type
	lo.addStmt(ast.NewExprStmt(assign, e.Pos))
	return tmpName
}

// flatten rebuilds e with every operand reduced to an atom, without
// emitting anything itself; the caller (store) decides whether the result
// becomes a bare statement or an assignment's right-hand side.
func (lo *Lowerer) flatten(e *ast.Expr) *ast.Expr {
	switch {
	case isAtom(e):
		return e

	case e.Kind == ast.Call:
		callee := lo.atom(e.L)
		var args []*ast.Expr
		for _, a := range e.Args {
			args = append(args, lo.atom(a))
		}
		rvalue := ast.NewCall(callee, args, e.Pos)
		rvalue.Type = e.Type
		return rvalue

	case e.Kind == ast.Neg:
		l := lo.atom(e.L)
		rvalue := ast.NewUnary(ast.Neg, l, e.Pos)
		rvalue.Type = e.Type
		return rvalue

	case e.Kind.IsBinary():
		l := lo.atom(e.L)
		r := lo.atom(e.R)
		rvalue := ast.NewBinary(e.Kind, l, r, e.Pos)
		rvalue.Type = e.Type
		return rvalue

	default:
		errors.Fatal(errors.Internal, e.Pos, "", "irc: unexpected expression kind %v", e.Kind)
		panic("unreachable")
	}
}

func (lo *Lowerer) newTemp() intern.Symbol {
	name := fmt.Sprintf("___t%d", lo.tmpCount)
	lo.tmpCount++
	return lo.interner.Intern(name)
}
