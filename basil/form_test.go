package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/symbol"
)

func param(name string) symbol.ID { return symbol.Intern(name) }

func TestMangling(t *testing.T) {
	a := NewCallable([]Param{PSelf, PVar(param("a")), PVar(param("b"))}, nil)
	b := NewCallable([]Param{PSelf, PVar(param("x")), PVar(param("y"))}, nil)
	// Parameter names don't distinguish signatures.
	assert.Equal(t, a.Mangle(), b.Mangle())

	kw := NewCallable([]Param{PSelf, PVar(param("a")), PKeyword(param("then")), PVar(param("b"))}, nil)
	assert.NotEqual(t, a.Mangle(), kw.Mangle())

	// Consecutive variadics collapse.
	v1 := NewCallable([]Param{PSelf, PVariadic(param("xs"))}, nil)
	v2 := NewCallable([]Param{PSelf, PVariadic(param("xs")), PVariadic(param("ys"))}, nil)
	assert.Equal(t, v1.Mangle(), v2.Mangle())
}

func TestOverloadCollisionPanics(t *testing.T) {
	a := NewCallable([]Param{PSelf, PVar(param("a"))}, nil)
	b := NewCallable([]Param{PSelf, PVar(param("b"))}, nil)
	assert.Panics(t, func() { NewOverloaded([]*Callable{a, b}) })
}

func TestToPrefix(t *testing.T) {
	infix := FCallable(10, AssocLeft, NewCallable([]Param{PVar(param("lhs")), PSelf, PVar(param("rhs"))}, nil))
	assert.False(t, infix.HasPrefixCase())
	assert.True(t, infix.HasInfixCase())

	prefix := infix.ToPrefix()
	require.True(t, prefix.HasPrefixCase())
	c := prefix.Invokable.(*Callable)
	assert.Equal(t, PKSelf, c.Parameters[0].Kind)
	assert.Equal(t, int64(10), prefix.Precedence)

	// Already-prefix forms come back unchanged.
	assert.True(t, prefix.ToPrefix().Invokable.(*Callable) == c)
}

func TestInferFormFunction(t *testing.T) {
	f := InferForm(TFunc(TTuple([]*Type{Int, Bool}, false), Int, false))
	require.Equal(t, FKCallable, f.Kind)
	c := f.Invokable.(*Callable)
	// Self plus one anonymous Var per argument.
	require.Equal(t, 3, len(c.Parameters))
	assert.Equal(t, PKSelf, c.Parameters[0].Kind)
	assert.Equal(t, PKVar, c.Parameters[1].Kind)
	assert.False(t, f.IsMacroForm)
}

func TestInferFormIntersect(t *testing.T) {
	isect := TIntersect([]*Type{TFunc(Int, Int, false), TFunc(Double, Double, false)})
	f := InferForm(isect)
	assert.Equal(t, FKOverloaded, f.Kind)

	// Inconsistent macro-ness degrades to Term.
	mixed := TIntersect([]*Type{TFunc(Int, Int, false), TFunc(Bool, Bool, true)})
	assert.Equal(t, FKTerm, InferForm(mixed).Kind)

	// Non-function members degrade to Term.
	assert.Equal(t, FKTerm, InferForm(Int).Kind)
}

func TestInferFormRuntimeUnwraps(t *testing.T) {
	f := InferForm(TRuntime(TFunc(Int, Int, false)))
	assert.Equal(t, FKCallable, f.Kind)
}
