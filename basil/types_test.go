package basil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/symbol"
)

// typeCmp compares *Type by canonical key, for go-cmp diffs over structures
// that embed types.
var typeCmp = cmp.Comparer(func(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
})

func TestHashConsing(t *testing.T) {
	// Structurally equal constructions return the identical handle.
	assert.True(t, TList(Int) == TList(Int))
	assert.True(t, TTuple([]*Type{Int, Bool}, false) == TTuple([]*Type{Int, Bool}, false))
	assert.True(t, TFunc(Int, Bool, false) == TFunc(Int, Bool, false))
	n := 3
	assert.True(t, TArray(Int, &n) == TArray(Int, &n))
	assert.False(t, TArray(Int, &n) == TArray(Int, nil))
	assert.False(t, TTuple([]*Type{Int}, false) == TTuple([]*Type{Int}, true))
	assert.False(t, TFunc(Int, Bool, false) == TFunc(Int, Bool, true))
}

func TestUnionNormalization(t *testing.T) {
	// Unordered, flattened, de-duplicated.
	a := TUnion([]*Type{Int, Bool})
	b := TUnion([]*Type{Bool, Int})
	assert.True(t, a == b)
	flat := TUnion([]*Type{a, Double})
	assert.Equal(t, 3, len(flat.Members))
	// A union that collapses to one member is that member.
	assert.True(t, TUnion([]*Type{Int, Int}) == Int)
}

func TestIntersectNormalization(t *testing.T) {
	f1 := TFunc(Int, Int, false)
	f2 := TFunc(Double, Double, false)
	a := TIntersect([]*Type{f1, f2})
	b := TIntersect([]*Type{f2, f1})
	assert.True(t, a == b)
	assert.True(t, TIntersect([]*Type{f1, f1}) == f1)
	assert.Equal(t, 2, len(TIntersect([]*Type{a}).Members))
}

func TestRuntimeNeverNests(t *testing.T) {
	r := TRuntime(Int)
	assert.True(t, TRuntime(r) == r)
	assert.Equal(t, KRuntime, r.Kind)
	assert.True(t, r.Elem == Int)
}

func TestTVarFreshness(t *testing.T) {
	name := symbol.Intern("t")
	a, b := TVar(name), TVar(name)
	assert.False(t, a == b)
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestStructTypes(t *testing.T) {
	x, y := symbol.Intern("x"), symbol.Intern("y")
	s1 := TStruct([]symbol.ID{x, y}, map[symbol.ID]*Type{x: Int, y: Bool}, false)
	s2 := TStruct([]symbol.ID{x, y}, map[symbol.ID]*Type{x: Int, y: Bool}, false)
	assert.True(t, s1 == s2)
	require.Empty(t, cmp.Diff(s1, s2, typeCmp))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "list(Int)", TList(Int).String())
	assert.Equal(t, "Int -> Bool", TFunc(Int, Bool, false).String())
	assert.Equal(t, "runtime(Int)", TRuntime(Int).String())
}
