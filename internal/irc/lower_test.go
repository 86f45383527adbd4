package irc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/irc"
	"github.com/ezc-lang/ezcc/internal/lexer"
	"github.com/ezc-lang/ezcc/internal/parser"
	"github.com/ezc-lang/ezcc/internal/semantic"
	"github.com/ezc-lang/ezcc/internal/types"
)

func lower(t *testing.T, src string) (*ast.Unit, *intern.Table) {
	t.Helper()
	interner := intern.NewTable()
	l := lexer.New(src, interner)
	unit := parser.ParseUnit(l, interner, types.NewCache(), src)
	semantic.New(interner).Analyze(unit)
	lowered := irc.New(interner).Lower(unit)
	return lowered, interner
}

// assertAtom fails the test unless e is an IR-C atom.
func assertAtom(t *testing.T, e *ast.Expr) {
	t.Helper()
	assert.Truef(t, e.Kind == ast.IntLit || e.Kind == ast.Ident, "expected an atom, got %v", e.Kind)
}

func TestLowerIntroducesTemporaryForNestedCall(t *testing.T) {
	unit, interner := lower(t, "int f() { return 69; } int main() { return f(); }")

	mainBody := unit.Decls[1].Body
	require.NotEmpty(t, mainBody)

	last := mainBody[len(mainBody)-1]
	require.Equal(t, ast.ReturnStmt, last.Kind)
	assertAtom(t, last.Expr)
	assert.Equal(t, ast.Ident, last.Expr.Kind, "return operand should be the temporary bound to the call")

	// The statement before the return should be `___t0 = f()`.
	assign := mainBody[len(mainBody)-2]
	require.Equal(t, ast.ExprStmt, assign.Kind)
	require.Equal(t, ast.Assign, assign.Expr.Kind)
	assert.Equal(t, ast.Call, assign.Expr.R.Kind)
	assert.Equal(t, "___t0", interner.String(assign.Expr.L.Name))
}

// assertOperandsAreAtoms checks the IR-C normal-form invariant on a single
// node: every operand of a unary, binary, or call expression is an atom.
// The node itself need not be an atom (an assignment's right-hand side,
// in particular, is the flattened call/unary/binary expression, not
// required to reduce further).
func assertOperandsAreAtoms(t *testing.T, e *ast.Expr) {
	t.Helper()
	switch {
	case e.Kind == ast.Call:
		assertAtom(t, e.L)
		for _, arg := range e.Args {
			assertAtom(t, arg)
		}
	case e.Kind == ast.Neg:
		assertAtom(t, e.L)
	case e.Kind.IsBinary():
		assertAtom(t, e.L)
		assertAtom(t, e.R)
	}
}

func TestLowerFlattensNestedArithmetic(t *testing.T) {
	unit, _ := lower(t, "int main() { return 1+2*3; }")
	body := unit.Decls[0].Body

	for _, s := range body {
		switch s.Kind {
		case ast.ExprStmt:
			if s.Expr.Kind == ast.Assign {
				assertOperandsAreAtoms(t, s.Expr.R)
			} else {
				assertOperandsAreAtoms(t, s.Expr)
			}
		case ast.ReturnStmt:
			if s.Expr != nil {
				assertAtom(t, s.Expr)
			}
		}
	}

	last := body[len(body)-1]
	require.Equal(t, ast.ReturnStmt, last.Kind)
	assertAtom(t, last.Expr)
}

func TestLowerTemporaryNamesAreUnique(t *testing.T) {
	unit, interner := lower(t, "int main() { return 1*2+3*4; }")
	body := unit.Decls[0].Body

	seen := map[string]bool{}
	for _, s := range body {
		if s.Kind == ast.DeclStmt {
			name := interner.String(s.Decl.Name)
			assert.False(t, seen[name], "temporary %q generated twice", name)
			seen[name] = true
			assert.True(t, strings.HasPrefix(name, "___t"))
		}
	}
	assert.NotEmpty(t, seen)
}

func TestLowerCounterNotResetAcrossFunctions(t *testing.T) {
	unit, interner := lower(t, "int f() { return 1*2; } int g() { return 3*4; }")

	var names []string
	for _, decl := range unit.Decls {
		for _, s := range decl.Body {
			if s.Kind == ast.DeclStmt {
				names = append(names, interner.String(s.Decl.Name))
			}
		}
	}
	require.Len(t, names, 2)
	assert.Equal(t, "___t0", names[0])
	assert.Equal(t, "___t1", names[1])
}

func TestLowerBareAtomExprStatementPassesThrough(t *testing.T) {
	unit, _ := lower(t, "int x; int main() { x; return 0; }")
	body := unit.Decls[1].Body
	require.Equal(t, ast.ExprStmt, body[0].Kind)
	assertAtom(t, body[0].Expr)
}

func TestLowerPreservesScopeNesting(t *testing.T) {
	unit, _ := lower(t, "int main() { { int a; } return 0; }")
	body := unit.Decls[0].Body
	require.Equal(t, ast.BlockStmt, body[0].Kind)
	require.Len(t, body[0].Block, 1)
	assert.Equal(t, ast.DeclStmt, body[0].Block[0].Kind)
}
