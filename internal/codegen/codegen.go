// Package codegen emits 32-bit x86 AT&T-syntax assembly text from a
// lowered (IR-C) ast.Unit.
//
// Grounded directly on original_source/ezc.c's compile_expr/compile_lvalue/
// compile_stmt/compile_glob_decl/compile_unit: evaluation order (right
// operand first, moved to C, then the left operand, then the instruction),
// the caller-cleanup push/call/pop calling convention, the BP-based frame
// with a signed func_var_offset counter starting at -4, lvalue-as-address
// emission, and the ___entry bootstrap stub. Style (a single struct holding
// emission state) follows the teacher's internal/bytecode.Compiler; errors
// go straight to the panic/recover error boundary (internal/errors.Fatal)
// rather than Go's returned-error
// convention — this package's callers expect the same first-error-aborts
// policy the rest of the pipeline uses, not per-call error propagation.
//
// Unlike the rest of the pipeline, code generation rebuilds its own
// internal/symtab.Table from scratch (spec.md §4.8): the semantic
// analyzer's table (and the offsets it assigned) is not reused, so symbol
// offsets are assigned in exactly the order this package walks
// declarations.
package codegen

import (
	"fmt"
	"io"

	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/errors"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/symtab"
	"github.com/ezc-lang/ezcc/internal/types"
)

// Generator emits assembly for a single translation unit to an io.Writer.
type Generator struct {
	w        io.Writer
	interner *intern.Table
	symbols  *symtab.Table

	// funcOffset is the signed frame-offset counter for the function
	// currently being emitted; reset to -4 on entry, decreased by each
	// local's declared size (spec.md §4.8).
	funcOffset int

	lblCount int
}

// New creates a Generator writing to w.
func New(w io.Writer, interner *intern.Table) *Generator {
	return &Generator{
		w:        w,
		interner: interner,
		symbols:  symtab.New(),
	}
}

// Emit writes the full program: the ___entry bootstrap stub followed by
// every declaration in unit, in translation-unit order (spec.md §5,
// ordering guarantee 3).
func (g *Generator) Emit(unit *ast.Unit) {
	g.symbols.Reset()
	g.entryStub()
	for _, decl := range unit.Decls {
		g.globDecl(decl)
	}
}

// entryStub emits the fixed ___entry label spec.md §4.8/§6 describes: push
// a frame, call main, move its return value into B, load syscall number 1
// into A, and invoke syscall. The trailing leave/ret is unreachable in
// practice (syscall does not return) but matches the reference compiler's
// emission exactly.
func (g *Generator) entryStub() {
	g.label("___entry")
	g.insn("pushl", "%ebp")
	g.insn("movl", "%esp,%ebp")
	g.insn("call", "main")
	g.insn("movl", "%eax,%ebx")
	g.insn("movl", "$1,%eax")
	g.insn("syscall")
	g.insn("leave")
	g.insn("ret")
}

func (g *Generator) globDecl(decl *ast.GlobDecl) {
	switch decl.Kind {
	case ast.GlobVar:
		g.label(g.interner.String(decl.Name))
		g.insn(".zero", fmt.Sprintf("$%d", types.SizeOf(decl.Type)))

		sym := g.symbols.Add(decl.Name, decl.Type)
		sym.Global = true

	case ast.GlobFunc:
		g.funcOffset = -4

		sym := g.symbols.Add(decl.Name, decl.Type)
		sym.Global = true

		if decl.Body == nil {
			return
		}

		g.label(g.interner.String(decl.Name))
		g.insn("pushl", "%ebp")
		g.insn("movl", "%esp,%ebp")
		for _, s := range decl.Body {
			g.stmt(s)
		}
		g.insn("leave")
		g.insn("ret")

	default:
		errors.Fatal(errors.Internal, decl.Pos, "", "codegen: unexpected global declaration kind %v", decl.Kind)
	}
}

func (g *Generator) stmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.DeclStmt:
		g.declStmt(s)

	case ast.ExprStmt:
		g.expr(s.Expr)

	case ast.BlockStmt:
		mark := g.symbols.Mark()
		for _, sub := range s.Block {
			g.stmt(sub)
		}
		g.symbols.Rewind(mark)

	case ast.ReturnStmt:
		if s.Expr != nil {
			g.expr(s.Expr)
		}
		g.insn("leave")
		g.insn("ret")

	default:
		errors.Fatal(errors.Internal, s.Pos, "", "codegen: unexpected statement kind %v", s.Kind)
	}
}

func (g *Generator) declStmt(s *ast.Stmt) {
	decl := s.Decl
	size := types.SizeOf(decl.Type)
	g.insn("subl", fmt.Sprintf("$%d,%%esp", size))

	sym := g.symbols.Add(decl.Name, decl.Type)
	sym.Offset = g.funcOffset
	g.funcOffset -= size
}

// expr emits e's rvalue, leaving the result in %eax.
func (g *Generator) expr(e *ast.Expr) {
	switch e.Kind {
	case ast.IntLit:
		g.insn("movl", fmt.Sprintf("$%d,%%eax", e.Value))

	case ast.Ident:
		g.identRvalue(e)

	case ast.Call:
		g.call(e)

	case ast.Neg:
		g.expr(e.L)
		g.insn("negl", "%eax")

	case ast.Assign:
		g.assign(e)

	default:
		if !e.Kind.IsBinary() {
			errors.Fatal(errors.Internal, e.Pos, "", "codegen: unexpected expression kind %v", e.Kind)
		}
		g.binary(e)
	}
}

// identRvalue loads e's value into %eax: a global dereferences its symbol
// address, a local loads directly from its frame offset.
func (g *Generator) identRvalue(e *ast.Expr) {
	sym := g.symbols.Get(e.Name)
	if sym == nil {
		errors.Fatal(errors.Internal, e.Pos, "", "codegen: undeclared identifier %q reached codegen", g.interner.String(e.Name))
	}

	if sym.Global {
		g.insn("movl", fmt.Sprintf("$%s,%%ebx", g.interner.String(e.Name)))
		g.insn("movl", "(%ebx),%eax")
	} else {
		g.insn("movl", fmt.Sprintf("%d(%%ebp),%%eax", sym.Offset))
	}
}

// lvalue emits the *address* of e into %eax (spec.md §4.8): the assembler
// symbol name for a global, BP plus the frame offset for a local. Only bare
// identifiers are valid lvalues, matching the semantic analyzer's own check.
func (g *Generator) lvalue(e *ast.Expr) {
	if e.Kind != ast.Ident {
		errors.Fatal(errors.Internal, e.Pos, "", "codegen: invalid lvalue")
	}

	sym := g.symbols.Get(e.Name)
	if sym == nil {
		errors.Fatal(errors.Internal, e.Pos, "", "codegen: undeclared identifier %q reached codegen", g.interner.String(e.Name))
	}

	if sym.Global {
		g.insn("movl", fmt.Sprintf("$%s,%%eax", g.interner.String(e.Name)))
	} else {
		g.insn("movl", "%ebp,%eax")
		g.insn("addl", fmt.Sprintf("$%d,%%eax", sym.Offset))
	}
}

func (g *Generator) assign(e *ast.Expr) {
	g.expr(e.R)
	g.insn("movl", "%eax,%ecx")
	g.lvalue(e.L)
	g.insn("movl", "%ecx,(%eax)")
}

// binary evaluates the right operand first, moves it to %ecx, then the
// left operand into %eax, then applies the operator — matching
// compile_expr's EXPR_MUL/DIV/ADD/SUB cases exactly, including the
// cdq-before-idivl fix spec.md §9 design note (h) requires.
func (g *Generator) binary(e *ast.Expr) {
	g.expr(e.R)
	g.insn("movl", "%eax,%ecx")
	g.expr(e.L)

	switch e.Kind {
	case ast.Mul:
		g.insn("imull", "%ecx")
	case ast.Div, ast.Mod:
		g.insn("cdq")
		g.insn("idivl", "%ecx")
		if e.Kind == ast.Mod {
			g.insn("movl", "%edx,%eax")
		}
	case ast.Add:
		g.insn("addl", "%ecx,%eax")
	case ast.Sub:
		g.insn("subl", "%ecx,%eax")
	default:
		errors.Fatal(errors.Internal, e.Pos, "", "codegen: unexpected binary expression kind %v", e.Kind)
	}
}

// call pushes arguments in source-list order, emits the call, then pops
// each argument back off with a sequence of pops into %eax (caller
// cleanup). Non-identifier callees are fatal, matching the reference
// compiler's "we don't handle complex function calls" restriction.
func (g *Generator) call(e *ast.Expr) {
	if e.L.Kind != ast.Ident {
		errors.Fatal(errors.Internal, e.Pos, "", "codegen: call target must be an identifier")
	}

	for _, arg := range e.Args {
		g.expr(arg)
		g.insn("pushl", "%eax")
	}

	g.insn("call", g.interner.String(e.L.Name))

	for range e.Args {
		g.insn("popl", "%eax")
	}
}

// newLabel allocates a fresh ".L<N>" label. Unused today: this grammar has
// no control flow beyond return, so nothing ever branches. Reserved per
// spec.md §6 for the control-flow extension that would need it.
func (g *Generator) newLabel() string {
	lbl := fmt.Sprintf(".L%d", g.lblCount)
	g.lblCount++
	return lbl
}

func (g *Generator) label(name string) {
	fmt.Fprintf(g.w, "%s:\n", name)
}

func (g *Generator) insn(mnemonic string, operands ...string) {
	if len(operands) == 0 {
		fmt.Fprintf(g.w, "\t%s\n", mnemonic)
		return
	}
	fmt.Fprintf(g.w, "\t%s %s\n", mnemonic, operands[0])
}
