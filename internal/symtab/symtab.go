// Package symtab implements the compiler's flat, ordered symbol table.
//
// Grounded on spec.md §4.3 (normative, and diverging from the teacher's
// internal/semantic scoped-map design, which spec.md §9 Design Notes
// explicitly permits as an alternative but does not mandate): a single
// growable slice of Symbols, where nested scopes are emulated by recording
// the slice length on entry (Mark) and truncating back to it on exit
// (Rewind). Lookup (Get) scans backward so that, with shadowing, the last
// matching entry — the innermost declaration — wins.
package symtab

import (
	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/types"
)

// Symbol is one declared name: a variable or function, global or local.
type Symbol struct {
	Name   intern.Symbol
	Type   *types.Type
	Global bool

	// Offset is the frame offset in bytes, meaningful only when !Global:
	// negative, for locals declared after the frame pointer (spec.md §4.8).
	Offset int

	// Builtin marks a symbol installed by the compiler's own bootstrap
	// (currently only putchar) rather than declared by user source. A
	// top-level declaration with the same name is a refinement of this
	// placeholder, not a redeclaration (see internal/semantic).
	Builtin bool

	// FuncBody is the body of a function Symbol with a definition (as
	// opposed to a forward declaration). The semantic analyzer sets it;
	// the code generator's own table never does, so it is nil there.
	FuncBody []*ast.Stmt
}

// Table is the flat, ordered symbol table.
type Table struct {
	syms []Symbol
}

// New creates an empty Table.
func New() *Table {
	return &Table{}
}

// Add appends a new Symbol for id with the given type, returning it.
// Callers are responsible for checking Get first — Add never checks for
// redeclaration itself (spec.md §4.6: that check belongs to the semantic
// analyzer, which decides what "already present" means for its own scope
// rules).
func (t *Table) Add(id intern.Symbol, typ *types.Type) *Symbol {
	t.syms = append(t.syms, Symbol{Name: id, Type: typ})
	return &t.syms[len(t.syms)-1]
}

// Get returns the innermost Symbol bound to id, or nil if none is visible.
// Lookup is identity comparison on interned ids, scanning from the most
// recently added entry backward so shadowing resolves correctly.
func (t *Table) Get(id intern.Symbol) *Symbol {
	for i := len(t.syms) - 1; i >= 0; i-- {
		if t.syms[i].Name == id {
			return &t.syms[i]
		}
	}
	return nil
}

// Mark returns the current table length, to be passed to a later Rewind
// when the enclosing scope exits.
func (t *Table) Mark() int {
	return len(t.syms)
}

// Rewind truncates the table back to a length previously returned by Mark,
// discarding every Symbol declared since.
func (t *Table) Rewind(n int) {
	t.syms = t.syms[:n]
}

// Reset empties the table entirely. Called between semantic analysis and
// code generation so the code generator rebuilds symbols (and, critically,
// frame offsets) from scratch in its own declaration order (spec.md §4.8).
func (t *Table) Reset() {
	t.syms = t.syms[:0]
}

// Len reports the number of symbols currently visible.
func (t *Table) Len() int {
	return len(t.syms)
}
