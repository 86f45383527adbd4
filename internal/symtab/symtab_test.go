package symtab_test

import (
	"testing"

	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/symtab"
	"github.com/ezc-lang/ezcc/internal/types"
)

func TestAddAndGet(t *testing.T) {
	interner := intern.NewTable()
	tab := symtab.New()

	x := interner.Intern("x")
	tab.Add(x, types.IntType())

	got := tab.Get(x)
	if got == nil {
		t.Fatal("Get returned nil for a declared symbol")
	}
	if got.Type != types.IntType() {
		t.Fatalf("Get returned wrong type: %v", got.Type)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	interner := intern.NewTable()
	tab := symtab.New()
	if tab.Get(interner.Intern("nope")) != nil {
		t.Fatal("Get found a symbol that was never added")
	}
}

func TestGetReturnsInnermostShadowingEntry(t *testing.T) {
	interner := intern.NewTable()
	tab := symtab.New()

	x := interner.Intern("x")
	tab.Add(x, types.IntType())
	tab.Add(x, types.CharType())

	got := tab.Get(x)
	if got.Type != types.CharType() {
		t.Fatalf("Get did not return the innermost (last) declaration: %v", got.Type)
	}
}

func TestMarkAndRewind(t *testing.T) {
	interner := intern.NewTable()
	tab := symtab.New()

	tab.Add(interner.Intern("outer"), types.IntType())
	mark := tab.Mark()

	tab.Add(interner.Intern("inner1"), types.IntType())
	tab.Add(interner.Intern("inner2"), types.IntType())
	if tab.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tab.Len())
	}

	tab.Rewind(mark)
	if tab.Len() != 1 {
		t.Fatalf("Len after Rewind = %d, want 1", tab.Len())
	}
	if tab.Get(interner.Intern("inner1")) != nil {
		t.Fatal("inner1 still visible after Rewind")
	}
	if tab.Get(interner.Intern("outer")) == nil {
		t.Fatal("outer no longer visible after Rewind")
	}
}

func TestReset(t *testing.T) {
	interner := intern.NewTable()
	tab := symtab.New()
	tab.Add(interner.Intern("a"), types.IntType())
	tab.Add(interner.Intern("b"), types.IntType())

	tab.Reset()
	if tab.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", tab.Len())
	}
}

func TestAddReturnsMutableSymbol(t *testing.T) {
	interner := intern.NewTable()
	tab := symtab.New()

	sym := tab.Add(interner.Intern("x"), types.IntType())
	sym.Global = true
	sym.Offset = -4

	got := tab.Get(interner.Intern("x"))
	if !got.Global || got.Offset != -4 {
		t.Fatalf("mutation through returned *Symbol was not observed: %+v", got)
	}
}
