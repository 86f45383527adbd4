package parser_test

import (
	"strings"
	"testing"

	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/lexer"
	"github.com/ezc-lang/ezcc/internal/parser"
	"github.com/ezc-lang/ezcc/internal/types"
)

func parseSource(t *testing.T, src string) (*ast.Unit, *intern.Table) {
	t.Helper()
	interner := intern.NewTable()
	l := lexer.New(src, interner)
	unit := parser.ParseUnit(l, interner, types.NewCache(), src)
	return unit, interner
}

func printUnit(t *testing.T, unit *ast.Unit, interner *intern.Table) string {
	t.Helper()
	var sb strings.Builder
	if err := ast.Fprint(&sb, unit, interner); err != nil {
		t.Fatalf("Fprint: %v", err)
	}
	return sb.String()
}

func TestParseSimpleReturn(t *testing.T) {
	unit, interner := parseSource(t, "int main() { return 0; }")
	if len(unit.Decls) != 1 {
		t.Fatalf("len(Decls) = %d, want 1", len(unit.Decls))
	}
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(ret 0)") {
		t.Fatalf("missing return statement in output:\n%s", out)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	unit, interner := parseSource(t, "int main() { return 1+2*3; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(+ 1 (* 2 3))") {
		t.Fatalf("precedence not respected:\n%s", out)
	}
}

func TestParseLeftAssociativeSubtraction(t *testing.T) {
	unit, interner := parseSource(t, "int main() { return 10-3-2; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(- (- 10 3) 2)") {
		t.Fatalf("subtraction not left-associative:\n%s", out)
	}
}

func TestParseRightAssociativeAssignment(t *testing.T) {
	unit, interner := parseSource(t, "int main() { int a; int b; int c; a = b = c; return 0; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(= a (= b c))") {
		t.Fatalf("assignment not right-associative:\n%s", out)
	}
}

func TestParseUnaryNeg(t *testing.T) {
	unit, interner := parseSource(t, "int main() { return -5; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(ret (- 5))") {
		t.Fatalf("unary minus not parsed:\n%s", out)
	}
}

func TestParseUnaryPlusIsSyntacticOnly(t *testing.T) {
	unit, interner := parseSource(t, "int main() { return +5; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(ret 5)") {
		t.Fatalf("unary plus should produce no node:\n%s", out)
	}
}

func TestParseCallWithArgs(t *testing.T) {
	unit, interner := parseSource(t, "int putchar(int c); int main() { putchar(65); return 0; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(call putchar 65)") {
		t.Fatalf("call not parsed:\n%s", out)
	}
}

func TestParseCallArgIsAssignLevel(t *testing.T) {
	unit, interner := parseSource(t, "int f(int a, int b); int main() { int x; f(x = 1, 2); return 0; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(call f (= x 1) 2)") {
		t.Fatalf("call arguments not parsed at assign level:\n%s", out)
	}
}

func TestParsePointerDecl(t *testing.T) {
	unit, _ := parseSource(t, "int* p; int main() { return 0; }")
	if unit.Decls[0].Type.Kind != types.Ptr {
		t.Fatalf("global declared with `int*` did not get a pointer type: %v", unit.Decls[0].Type)
	}
	if unit.Decls[0].Type.Base != types.IntType() {
		t.Fatalf("pointer base type mismatch: %v", unit.Decls[0].Type.Base)
	}
}

func TestParseForwardDeclarationHasNilBody(t *testing.T) {
	unit, _ := parseSource(t, "int f();")
	if unit.Decls[0].Body != nil {
		t.Fatal("forward declaration should have a nil body")
	}
}

func TestParseFunctionParams(t *testing.T) {
	unit, _ := parseSource(t, "int add(int a, int b) { return a+b; }")
	typ := unit.Decls[0].Type
	if len(typ.Params) != 2 {
		t.Fatalf("len(Params) = %d, want 2", len(typ.Params))
	}
}

func TestParseEmptyStatementsAreSkipped(t *testing.T) {
	unit, interner := parseSource(t, "int main() { ;;; return 0; ;; }")
	out := printUnit(t, unit, interner)
	if !strings.Contains(out, "(ret 0)") {
		t.Fatalf("statement after stray semicolons not parsed:\n%s", out)
	}
}

func TestParseNestedBlock(t *testing.T) {
	unit, _ := parseSource(t, "int main() { { int x; } return 0; }")
	body := unit.Decls[0].Body
	if len(body) != 2 {
		t.Fatalf("len(body) = %d, want 2", len(body))
	}
	if body[0].Kind != ast.BlockStmt {
		t.Fatalf("body[0].Kind = %v, want BlockStmt", body[0].Kind)
	}
}

func TestParseInvalidTokenIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a malformed declaration")
		}
	}()
	parseSource(t, "int main( { return 0; }")
}
