// Package types implements the compiler's small closed set of value
// categories: void, char, int, pointer-to-T, and function types.
//
// Types are hash-consed where the spec requires it (spec.md §3: "for each
// distinct structural type there is exactly one Type identity"): the three
// basic types are process-wide singletons, and ptr(T) is cached in a map
// keyed by base-type identity so that ptr(T1) == ptr(T2) iff T1 == T2.
// Function types are never deduplicated — every call to FuncType constructs a
// fresh *Type, matching spec.md §4.2 and the C source's type_func.
package types

import "github.com/ezc-lang/ezcc/internal/intern"

// Kind tags which variant a Type is.
type Kind int

const (
	Void Kind = iota
	Char
	Int
	Ptr
	Func
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Char:
		return "char"
	case Int:
		return "int"
	case Ptr:
		return "ptr"
	case Func:
		return "func"
	default:
		return "invalid"
	}
}

// Param is one named, typed entry in a function type's parameter list.
type Param struct {
	Name intern.Symbol
	Type *Type
}

// Type is a tagged value: void/char/int carry only a Kind and a Size; Ptr
// additionally carries Base; Func carries Base (the return type) and
// Params. Size is defined only for storage types (void/char/int/ptr);
// querying it on a Func type is a program error (see SizeOf).
type Type struct {
	Kind   Kind
	Size   int
	Base   *Type
	Params []Param
}

var (
	voidType = &Type{Kind: Void, Size: 0}
	charType = &Type{Kind: Char, Size: 1}
	intType  = &Type{Kind: Int, Size: 4}
)

// VoidType returns the singleton void type.
func VoidType() *Type { return voidType }

// CharType returns the singleton char type.
func CharType() *Type { return charType }

// IntType returns the singleton int type.
func IntType() *Type { return intType }

// Cache hash-conses pointer types so that PtrType returns the same *Type
// identity for the same base type on every call. The reference
// implementation reserves a fixed 1000-entry array for this (type_ptr_cache);
// Design Note §9 in spec.md explicitly recommends replacing it with a proper
// map, which is what Cache does.
type Cache struct {
	ptrs map[*Type]*Type
}

// NewCache creates an empty pointer-type cache. Each compilation owns one
// Cache so that multiple compilations never share hash-consed identities.
func NewCache() *Cache {
	return &Cache{ptrs: make(map[*Type]*Type)}
}

// PtrType returns the unique pointer-to-base type, creating it on first
// request.
func (c *Cache) PtrType(base *Type) *Type {
	if t, ok := c.ptrs[base]; ok {
		return t
	}
	t := &Type{Kind: Ptr, Size: 4, Base: base}
	c.ptrs[base] = t
	return t
}

// FuncType constructs a fresh, never-deduplicated function type.
func (c *Cache) FuncType(ret *Type, params []Param) *Type {
	return &Type{Kind: Func, Base: ret, Params: params}
}

// IsStorage reports whether t has a meaningful runtime size (i.e. is not a
// function type).
func (t *Type) IsStorage() bool {
	return t.Kind != Func
}

// SizeOf returns t's size in bytes. It panics if called on a function type,
// matching spec.md §4.2: "attempting to query the size of func is a program
// error."
func SizeOf(t *Type) int {
	if t.Kind == Func {
		panic("types: SizeOf called on a function type")
	}
	return t.Size
}

// String renders a Type the way the compiler's diagnostics and printer
// describe it ("ptr to ptr to int", "func -> int", ...). A function type
// renders only its return type, not its parameters.
func (t *Type) String() string {
	switch t.Kind {
	case Void:
		return "void"
	case Char:
		return "char"
	case Int:
		return "int"
	case Ptr:
		return "ptr to " + t.Base.String()
	case Func:
		return "func -> " + t.Base.String()
	default:
		return "<invalid type>"
	}
}
