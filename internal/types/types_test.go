package types

import "testing"

func TestBasicTypesAreSingletons(t *testing.T) {
	if VoidType() != VoidType() {
		t.Fatal("VoidType() is not a singleton")
	}
	if CharType() != CharType() {
		t.Fatal("CharType() is not a singleton")
	}
	if IntType() != IntType() {
		t.Fatal("IntType() is not a singleton")
	}
}

func TestBasicTypeSizes(t *testing.T) {
	tests := []struct {
		typ  *Type
		size int
	}{
		{VoidType(), 0},
		{CharType(), 1},
		{IntType(), 4},
	}
	for _, tt := range tests {
		if got := SizeOf(tt.typ); got != tt.size {
			t.Fatalf("SizeOf(%s) = %d, want %d", tt.typ, got, tt.size)
		}
	}
}

func TestPtrTypeHashConsing(t *testing.T) {
	c := NewCache()

	p1 := c.PtrType(IntType())
	p2 := c.PtrType(IntType())
	if p1 != p2 {
		t.Fatal("PtrType(int) returned two different identities")
	}

	pc1 := c.PtrType(CharType())
	if p1 == pc1 {
		t.Fatal("PtrType(int) == PtrType(char), want distinct identities")
	}

	pp1 := c.PtrType(p1)
	pp2 := c.PtrType(c.PtrType(IntType()))
	if pp1 != pp2 {
		t.Fatal("PtrType(PtrType(int)) is not stable across calls")
	}
}

func TestPtrTypeSize(t *testing.T) {
	c := NewCache()
	if got := SizeOf(c.PtrType(IntType())); got != 4 {
		t.Fatalf("SizeOf(ptr) = %d, want 4", got)
	}
}

func TestFuncTypeNotDeduplicated(t *testing.T) {
	c := NewCache()

	f1 := c.FuncType(IntType(), nil)
	f2 := c.FuncType(IntType(), nil)
	if f1 == f2 {
		t.Fatal("FuncType returned the same identity twice, want fresh types")
	}
}

func TestSizeOfFuncPanics(t *testing.T) {
	c := NewCache()
	f := c.FuncType(IntType(), nil)

	defer func() {
		if recover() == nil {
			t.Fatal("SizeOf(func type) did not panic")
		}
	}()
	SizeOf(f)
}

func TestCachesAreIndependent(t *testing.T) {
	c1 := NewCache()
	c2 := NewCache()

	p1 := c1.PtrType(IntType())
	p2 := c2.PtrType(IntType())
	if p1 == p2 {
		t.Fatal("two independent caches produced the same pointer-type identity")
	}
}
