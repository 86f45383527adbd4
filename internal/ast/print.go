package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/types"
)

// Fprint writes a parenthesized-prefix rendering of unit to w, resolving
// interned names through interner. It restores the printer
// original_source/ezc.c carried (print_expr/print_stmt/print_glob_decl/
// print_unit) — see SPEC_FULL.md §7 — in the idiom of the rest of this
// package rather than as a line-for-line port: expressions render as
// `(+ 1 (* 2 3))`, statements one per line indented by nesting depth, and
// a function's body block is printed after its signature.
//
// Fprint is deterministic: the same Unit always prints the same bytes,
// which is what makes "parse then print" a useful property to test
// (spec.md §8 Testable Property 3).
func Fprint(w io.Writer, unit *Unit, interner *intern.Table) error {
	p := &printer{w: w, interner: interner}
	for _, decl := range unit.Decls {
		p.globDecl(decl)
	}
	return p.err
}

type printer struct {
	w        io.Writer
	interner *intern.Table
	err      error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, err := fmt.Fprintf(p.w, format, args...)
	if err != nil {
		p.err = err
	}
}

func (p *printer) name(sym intern.Symbol) string {
	return p.interner.String(sym)
}

func (p *printer) expr(e *Expr) {
	switch e.Kind {
	case IntLit:
		p.printf("%d", e.Value)
	case Ident:
		p.printf("%s", p.name(e.Name))
	case Neg:
		p.printf("(- ")
		p.expr(e.L)
		p.printf(")")
	case Call:
		p.printf("(call %s", p.name(e.L.Name))
		for _, arg := range e.Args {
			p.printf(" ")
			p.expr(arg)
		}
		p.printf(")")
	default:
		if !e.Kind.IsBinary() {
			panic(fmt.Sprintf("ast: invalid expression kind %v", e.Kind))
		}
		p.printf("(%s ", e.Kind)
		p.expr(e.L)
		p.printf(" ")
		p.expr(e.R)
		p.printf(")")
	}
}

func (p *printer) typ(t *types.Type) {
	p.printf("%s", t.String())
}

func (p *printer) decl(d *Decl) {
	p.printf("(var %s ", p.name(d.Name))
	p.typ(d.Type)
	p.printf(")")
}

func (p *printer) stmt(s *Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	p.printf("%s", indent)

	switch s.Kind {
	case DeclStmt:
		p.decl(s.Decl)
	case ExprStmt:
		p.expr(s.Expr)
	case BlockStmt:
		p.printf("(\n")
		for _, sub := range s.Block {
			p.stmt(sub, depth+1)
		}
		p.printf("%s)", indent)
	case ReturnStmt:
		p.printf("(ret")
		if s.Expr != nil {
			p.printf(" ")
			p.expr(s.Expr)
		}
		p.printf(")")
	default:
		panic(fmt.Sprintf("ast: invalid statement kind %v", s.Kind))
	}
	p.printf("\n")
}

func (p *printer) globDecl(d *GlobDecl) {
	switch d.Kind {
	case GlobVar:
		p.printf("(var %s ", p.name(d.Name))
		p.typ(d.Type)
		p.printf(")")
	case GlobFunc:
		p.printf("(func %s ", p.name(d.Name))
		p.typ(d.Type.Base)
		if d.Body != nil {
			p.printf("\n")
			for _, s := range d.Body {
				p.stmt(s, 1)
			}
		}
		p.printf(")\n")
	default:
		panic(fmt.Sprintf("ast: invalid global declaration kind %v", d.Kind))
	}
	p.printf("\n")
}
