// Package ast defines the abstract syntax tree produced by the parser and
// consumed, in turn, by the semantic analyzer, the IR-C lowering pass, and
// the code generator. The same node types describe all three stages
// (spec.md §2: "AST → typed AST → IR-C AST", all one shape with
// progressively stricter invariants) — only the Type field and the shape
// of operands change between stages.
//
// Grounded on the teacher's internal/ast package: tagged node structs with
// a Kind enum and a position for diagnostics. Departs from the teacher (and
// from original_source/ezc.c) in one respect spec.md §9 REDESIGN FLAGS
// calls out explicitly: children are ordered Go slices, not singly-linked
// `next` chains — idiomatic here, and not required by anything downstream.
package ast

import (
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/source"
	"github.com/ezc-lang/ezcc/internal/types"
)

// ExprKind tags the variant of an Expr.
type ExprKind int

const (
	IntLit ExprKind = iota
	Ident
	Neg // unary

	// Binary kinds.
	Mul
	Div
	Mod
	Add
	Sub
	Assign

	Call
)

func (k ExprKind) String() string {
	switch k {
	case IntLit:
		return "IntLit"
	case Ident:
		return "Ident"
	case Neg:
		return "Neg"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Add:
		return "+"
	case Sub:
		return "-"
	case Assign:
		return "="
	case Call:
		return "Call"
	default:
		return "<unknown ExprKind>"
	}
}

// IsBinary reports whether k takes a left and right operand.
func (k ExprKind) IsBinary() bool {
	switch k {
	case Mul, Div, Mod, Add, Sub, Assign:
		return true
	default:
		return false
	}
}

// Expr is a tagged expression node. Which fields are meaningful depends on
// Kind:
//
//	IntLit:  Value
//	Ident:   Name
//	Neg:     L
//	binary:  L, R
//	Call:    L (callee), Args
//
// Type is nil until the semantic analyzer fills it in; after that point it
// is never nil on any reachable Expr.
type Expr struct {
	Kind  ExprKind
	Value int
	Name  intern.Symbol
	L, R  *Expr
	Args  []*Expr
	Pos   source.Position
	Type  *types.Type
}

// NewIntLit builds an integer literal node.
func NewIntLit(value int, pos source.Position) *Expr {
	return &Expr{Kind: IntLit, Value: value, Pos: pos}
}

// NewIdent builds an identifier reference node.
func NewIdent(name intern.Symbol, pos source.Position) *Expr {
	return &Expr{Kind: Ident, Name: name, Pos: pos}
}

// NewUnary builds a unary node (only Neg exists as a real operator; unary
// plus is parsed away without a node, per spec.md §4.5).
func NewUnary(kind ExprKind, l *Expr, pos source.Position) *Expr {
	return &Expr{Kind: kind, L: l, Pos: pos}
}

// NewBinary builds a binary operator node.
func NewBinary(kind ExprKind, l, r *Expr, pos source.Position) *Expr {
	return &Expr{Kind: kind, L: l, R: r, Pos: pos}
}

// NewCall builds a call node. callee is typically an Ident; args is in
// source order.
func NewCall(callee *Expr, args []*Expr, pos source.Position) *Expr {
	return &Expr{Kind: Call, L: callee, Args: args, Pos: pos}
}

// Decl is a local variable declaration: a base type (with pointer stars
// already applied) paired with an identifier.
type Decl struct {
	Type *types.Type
	Name intern.Symbol
	Pos  source.Position
}

// StmtKind tags the variant of a Stmt.
type StmtKind int

const (
	DeclStmt StmtKind = iota
	ExprStmt
	BlockStmt
	ReturnStmt
)

func (k StmtKind) String() string {
	switch k {
	case DeclStmt:
		return "DeclStmt"
	case ExprStmt:
		return "ExprStmt"
	case BlockStmt:
		return "BlockStmt"
	case ReturnStmt:
		return "ReturnStmt"
	default:
		return "<unknown StmtKind>"
	}
}

// Stmt is a tagged statement node. Which fields are meaningful depends on
// Kind:
//
//	DeclStmt:   Decl
//	ExprStmt:   Expr
//	BlockStmt:  Block
//	ReturnStmt: Expr (nil for a bare `return;`)
type Stmt struct {
	Kind  StmtKind
	Decl  *Decl
	Expr  *Expr
	Block []*Stmt
	Pos   source.Position
}

func NewDeclStmt(decl *Decl, pos source.Position) *Stmt {
	return &Stmt{Kind: DeclStmt, Decl: decl, Pos: pos}
}

func NewExprStmt(expr *Expr, pos source.Position) *Stmt {
	return &Stmt{Kind: ExprStmt, Expr: expr, Pos: pos}
}

func NewBlockStmt(stmts []*Stmt, pos source.Position) *Stmt {
	return &Stmt{Kind: BlockStmt, Block: stmts, Pos: pos}
}

func NewReturnStmt(expr *Expr, pos source.Position) *Stmt {
	return &Stmt{Kind: ReturnStmt, Expr: expr, Pos: pos}
}

// GlobDeclKind tags the variant of a GlobDecl.
type GlobDeclKind int

const (
	GlobVar GlobDeclKind = iota
	GlobFunc
)

func (k GlobDeclKind) String() string {
	switch k {
	case GlobVar:
		return "GlobVar"
	case GlobFunc:
		return "GlobFunc"
	default:
		return "<unknown GlobDeclKind>"
	}
}

// GlobDecl is a top-level declaration: a global variable or a function
// (prototype or definition). For GlobFunc, Type is a *types.Type of Kind
// Func; Body is nil for a forward declaration (`int f();`) and the
// function's block otherwise.
type GlobDecl struct {
	Kind GlobDeclKind
	Name intern.Symbol
	Type *types.Type
	Body []*Stmt
	Pos  source.Position
}

func NewGlobVar(name intern.Symbol, typ *types.Type, pos source.Position) *GlobDecl {
	return &GlobDecl{Kind: GlobVar, Name: name, Type: typ, Pos: pos}
}

func NewGlobFunc(name intern.Symbol, typ *types.Type, body []*Stmt, pos source.Position) *GlobDecl {
	return &GlobDecl{Kind: GlobFunc, Name: name, Type: typ, Body: body, Pos: pos}
}

// Unit is a complete translation unit: an ordered sequence of top-level
// declarations, in source order (spec.md §5 ordering guarantee 1).
type Unit struct {
	Decls []*GlobDecl
}
