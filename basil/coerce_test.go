package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/symbol"
)

func TestCoerceReflexive(t *testing.T) {
	for _, typ := range []*Type{Int, Float, Double, Bool, String, TList(Int), TTuple([]*Type{Int, Bool}, false)} {
		assert.True(t, CoercesTo(typ, typ), "%s", typ)
	}
}

func TestCoerceTopAndAbsorb(t *testing.T) {
	// Any is a top element; Error absorbs.
	for _, typ := range []*Type{Int, TList(Bool), TFunc(Int, Int, false)} {
		assert.True(t, CoercesTo(typ, Any))
		assert.True(t, CoercesTo(typ, ErrorType))
		assert.True(t, CoercesTo(ErrorType, typ))
	}
	assert.False(t, CoercesTo(Any, Int))
}

func TestNumericWidening(t *testing.T) {
	assert.True(t, CoercesTo(Int, Float))
	assert.True(t, CoercesTo(Int, Double))
	assert.True(t, CoercesTo(Float, Double))
	assert.False(t, CoercesTo(Double, Int))
	assert.False(t, CoercesTo(Float, Int))
	// Generic coercion never widens.
	assert.False(t, CoercesToGeneric(Int, Double))
}

func TestVoidToList(t *testing.T) {
	assert.True(t, CoercesTo(Void, TList(Int)))
	assert.False(t, CoercesTo(Void, Int))
}

func TestTupleCoercion(t *testing.T) {
	complete := TTuple([]*Type{Int, Bool}, false)
	bigger := TTuple([]*Type{Int, Bool, String}, false)
	incomplete := TTuple([]*Type{Int}, true)
	// complete -> incomplete prefix ok; never smaller-complete, never
	// growing-complete.
	assert.True(t, CoercesTo(complete, incomplete))
	assert.True(t, CoercesTo(bigger, incomplete))
	assert.False(t, CoercesTo(complete, bigger))
	assert.False(t, CoercesTo(bigger, complete))
	assert.False(t, CoercesTo(incomplete, complete))
}

func TestArrayCoercion(t *testing.T) {
	n3, n4 := 3, 4
	assert.True(t, CoercesTo(TArray(Int, &n3), TArray(Int, nil)))
	assert.False(t, CoercesTo(TArray(Int, nil), TArray(Int, &n3)))
	assert.False(t, CoercesTo(TArray(Int, &n3), TArray(Int, &n4)))
}

func TestUnionCoercion(t *testing.T) {
	ib := TUnion([]*Type{Int, Bool})
	ibs := TUnion([]*Type{Int, Bool, String})
	assert.True(t, CoercesTo(Int, ib))
	assert.True(t, CoercesTo(ib, ibs))
	assert.False(t, CoercesTo(ibs, ib))
	assert.False(t, CoercesTo(Double, TUnion([]*Type{Bool, String})))
}

func TestStructCoercion(t *testing.T) {
	x, y := symbol.Intern("sx"), symbol.Intern("sy")
	full := TStruct([]symbol.ID{x, y}, map[symbol.ID]*Type{x: Int, y: Bool}, false)
	part := TStruct([]symbol.ID{x}, map[symbol.ID]*Type{x: Int}, true)
	assert.True(t, CoercesTo(full, part))
	assert.False(t, CoercesTo(part, full))
}

func TestIntersectCoercesToMember(t *testing.T) {
	f1 := TFunc(Int, Int, false)
	f2 := TFunc(Double, Double, false)
	isect := TIntersect([]*Type{f1, f2})
	assert.True(t, CoercesTo(isect, f1))
	assert.True(t, CoercesTo(isect, f2))
	assert.False(t, CoercesTo(isect, TFunc(Bool, Bool, false)))
}

func TestRuntimeLift(t *testing.T) {
	assert.True(t, CoercesTo(Int, TRuntime(Int)))
	assert.True(t, CoercesTo(TRuntime(Int), Int))
	assert.True(t, CoercesTo(TRuntime(Int), TRuntime(Double)))
	assert.False(t, CoercesToGeneric(Int, TRuntime(Double)))
}

func TestTIsConcrete(t *testing.T) {
	ResetTVarTable()
	assert.True(t, TIsConcrete(Int))
	assert.True(t, TIsConcrete(TList(Int)))
	assert.False(t, TIsConcrete(Any))
	assert.False(t, TIsConcrete(Undefined))
	assert.False(t, TIsConcrete(TTuple([]*Type{Int}, true)))
	tv := TVar(symbol.Invalid)
	assert.False(t, TIsConcrete(tv))
	require.True(t, CoercesTo(Int, tv)) // binds tv := Int
	assert.True(t, TIsConcrete(tv))
}

func TestTLower(t *testing.T) {
	ResetTVarTable()
	lowered, ok := TLower(TRuntime(Int))
	require.True(t, ok)
	assert.True(t, lowered == Int)

	anyLowered, ok := TLower(Any)
	require.True(t, ok)
	assert.Equal(t, KTVar, anyLowered.Kind)

	listLowered, ok := TLower(TList(TRuntime(Bool)))
	require.True(t, ok)
	assert.True(t, listLowered == TList(Bool))

	// An intersect lowers memberwise, failing only if a member fails.
	isect := TIntersect([]*Type{TFunc(Int, Int, false), TFunc(Double, Double, false)})
	isectLowered, ok := TLower(isect)
	require.True(t, ok)
	assert.True(t, isectLowered == isect)
	_, ok = TLower(TIntersect([]*Type{TFunc(Int, Int, false), TFunc(Bool, Bool, true)}))
	assert.False(t, ok)

	_, ok = TLower(ModuleT)
	assert.False(t, ok)
	_, ok = TLower(TFunc(Int, Int, true))
	assert.False(t, ok)
}
