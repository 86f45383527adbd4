// Package semantic walks a parsed ast.Unit, resolving identifiers against
// a symbol table, evaluating and checking every expression's Type, and
// assigning frame offsets to local declarations.
//
// Grounded on spec.md §4.6 for the type-evaluation rules themselves, and
// on original_source/ezc.c's single recursive eval_expr_type/check_stmt
// walk for the overall shape: one pass, mutating Expr.Type in place,
// rather than the teacher's internal/semantic multi-pass Pass/PassManager
// architecture. The teacher's multi-pass design exists to let DWScript
// handle forward-referencing classes, lambdas, and operator overloads —
// concerns this grammar doesn't have (spec.md Non-goals: no structs, no
// control flow beyond return); a single top-to-bottom pass is what
// original_source/ezc.c itself does, and is all the ten expression kinds
// and four statement kinds here need.
package semantic

import (
	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/errors"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/source"
	"github.com/ezc-lang/ezcc/internal/symtab"
	"github.com/ezc-lang/ezcc/internal/types"
)

// Analyzer resolves and type-checks a Unit against a fresh symbol table.
type Analyzer struct {
	interner *intern.Table
	symbols  *symtab.Table

	// funcOffset is the signed frame-offset counter for the function
	// currently being analyzed; reset to -4 at the start of each function
	// body and decreased by each local's size (spec.md §4.8).
	funcOffset int
}

// New creates an Analyzer sharing interner with the rest of the pipeline.
// It does not need a *types.Cache of its own: every Type it assigns to an
// Expr is either a singleton (char/int) or was already constructed by the
// parser (for declarations and function signatures).
func New(interner *intern.Table) *Analyzer {
	return &Analyzer{
		interner: interner,
		symbols:  symtab.New(),
	}
}

// Analyze resolves and type-checks every declaration in unit, in place,
// against a symbol table seeded with the compiler's built-ins.
func (a *Analyzer) Analyze(unit *ast.Unit) {
	a.installBuiltins()
	for _, decl := range unit.Decls {
		a.globDecl(decl)
	}
}

// installBuiltins pre-declares the identifiers user code may reference
// without its own declaration. putchar is installed with Type int rather
// than a function type — spec.md §9 design note (a) marks this an
// intentional, unresolved discrepancy in the reference behavior ("pending
// correction to a function type"), and §9's instruction is not to guess
// beyond what is given, so it is preserved here rather than fixed.
func (a *Analyzer) installBuiltins() {
	sym := a.symbols.Add(a.interner.Intern("putchar"), types.IntType())
	sym.Global = true
	sym.Builtin = true
}

func (a *Analyzer) globDecl(decl *ast.GlobDecl) {
	// A user declaration may refine a built-in placeholder (e.g. give
	// putchar its real prototype, spec.md §8 scenario S3) without that
	// counting as a redeclaration; only a second real declaration of the
	// same name is an error.
	if existing := a.symbols.Get(decl.Name); existing != nil && !existing.Builtin {
		errors.Fatal(errors.Semantic, decl.Pos, "", "redeclaration of %q", a.interner.String(decl.Name))
	}

	sym := a.symbols.Add(decl.Name, decl.Type)
	sym.Global = true

	if decl.Kind != ast.GlobFunc || decl.Body == nil {
		return
	}

	sym.FuncBody = decl.Body

	// Function parameters are parsed into decl.Type.Params but are
	// deliberately not bound as local symbols here: spec.md §9 design note
	// (f) records that the reference implementation never does this either
	// ("calls therefore cannot reference their arguments by name"), and
	// instructs against guessing a fix.
	mark := a.symbols.Mark()
	a.funcOffset = -4
	for _, s := range decl.Body {
		a.stmt(s)
	}
	a.symbols.Rewind(mark)
}

func (a *Analyzer) stmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.DeclStmt:
		a.declStmt(s)
	case ast.ExprStmt:
		a.exprType(s.Expr)
	case ast.BlockStmt:
		mark := a.symbols.Mark()
		for _, sub := range s.Block {
			a.stmt(sub)
		}
		a.symbols.Rewind(mark)
	case ast.ReturnStmt:
		if s.Expr != nil {
			a.exprType(s.Expr)
		}
	default:
		errors.Fatal(errors.Internal, s.Pos, "", "unexpected statement kind %v", s.Kind)
	}
}

func (a *Analyzer) declStmt(s *ast.Stmt) {
	decl := s.Decl
	if a.symbols.Get(decl.Name) != nil {
		errors.Fatal(errors.Semantic, decl.Pos, "", "redeclaration of %q", a.interner.String(decl.Name))
	}

	sym := a.symbols.Add(decl.Name, decl.Type)
	sym.Offset = a.funcOffset
	a.funcOffset -= types.SizeOf(decl.Type)
}

// exprType evaluates e's Type per spec.md §4.6, recording it on e.Type and
// returning it for the caller's own use.
func (a *Analyzer) exprType(e *ast.Expr) *types.Type {
	switch e.Kind {
	case ast.IntLit:
		e.Type = literalType(e.Value)

	case ast.Ident:
		sym := a.symbols.Get(e.Name)
		if sym == nil {
			errors.Fatal(errors.Semantic, e.Pos, "", "use of undeclared identifier %q", a.interner.String(e.Name))
		}
		e.Type = sym.Type

	case ast.Neg:
		e.Type = a.exprType(e.L)

	case ast.Call:
		e.Type = a.callType(e)

	case ast.Assign:
		if e.L.Kind != ast.Ident {
			errors.Fatal(errors.Semantic, e.Pos, "", "left side of assignment must be an identifier")
		}
		l := a.exprType(e.L)
		r := a.exprType(e.R)
		e.Type = a.arithmeticType(e.Pos, l, r)

	default:
		if !e.Kind.IsBinary() {
			errors.Fatal(errors.Internal, e.Pos, "", "unexpected expression kind %v", e.Kind)
		}
		l := a.exprType(e.L)
		r := a.exprType(e.R)
		e.Type = a.arithmeticType(e.Pos, l, r)
	}

	return e.Type
}

// literalType implements spec.md §4.6's rule for integer literals: char if
// the value fits an unsigned byte, else int.
func literalType(value int) *types.Type {
	if value >= 0 && value < 256 {
		return types.CharType()
	}
	return types.IntType()
}

func (a *Analyzer) callType(e *ast.Expr) *types.Type {
	if e.L.Kind != ast.Ident {
		errors.Fatal(errors.Semantic, e.Pos, "", "call target must be an identifier")
	}
	sym := a.symbols.Get(e.L.Name)
	if sym == nil {
		errors.Fatal(errors.Semantic, e.Pos, "", "call to undeclared identifier %q", a.interner.String(e.L.Name))
	}
	if !sym.Global {
		errors.Fatal(errors.Semantic, e.Pos, "", "cannot call non-global identifier %q", a.interner.String(e.L.Name))
	}
	if sym.Type.Kind != types.Func {
		errors.Fatal(errors.Semantic, e.Pos, "", "%q is not callable", a.interner.String(e.L.Name))
	}
	e.L.Type = sym.Type

	// Argument arity and type compatibility are not checked (spec.md §4.6,
	// §9 design note (g)): only type evaluation, so each argument has a
	// Type by the time IR-C lowering needs one.
	for _, arg := range e.Args {
		a.exprType(arg)
	}

	return sym.Type.Base
}

// arithmeticType implements spec.md §4.6's binary/assignment rule: void
// anywhere is fatal; int dominates char; pointer arithmetic is
// unsupported (an open question in spec.md §9, left unimplemented rather
// than guessed at).
func (a *Analyzer) arithmeticType(pos source.Position, l, r *types.Type) *types.Type {
	if l.Kind == types.Void || r.Kind == types.Void {
		errors.Fatal(errors.Semantic, pos, "", "void value used in an expression")
	}
	if l.Kind == types.Ptr || r.Kind == types.Ptr {
		errors.Fatal(errors.Semantic, pos, "", "pointer arithmetic is not supported")
	}
	if l.Kind == types.Func || r.Kind == types.Func {
		errors.Fatal(errors.Internal, pos, "", "function value used in an expression")
	}
	if l.Kind == types.Int || r.Kind == types.Int {
		return types.IntType()
	}
	return types.CharType()
}
