package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/symbol"
)

func testSym(s string) symbol.ID { return symbol.Intern(s) }

func TestEnvScopeChaining(t *testing.T) {
	env := NewRootEnv()
	env.Bind(testSym("a"), NewInt(1))
	env.PushScope()
	env.Bind(testSym("b"), NewInt(2))

	v, ok := env.Lookup(testSym("a"))
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int())
	v, ok = env.Lookup(testSym("b"))
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int())

	env.PopScope()
	_, ok = env.Lookup(testSym("b"))
	assert.False(t, ok)
}

func TestEnvShadowing(t *testing.T) {
	env := NewRootEnv()
	env.Bind(testSym("x"), NewInt(1))
	env.PushScope()
	env.Bind(testSym("x"), NewInt(2))
	v, _ := env.Lookup(testSym("x"))
	assert.Equal(t, int64(2), v.Int())
	env.PopScope()
	v, _ = env.Lookup(testSym("x"))
	assert.Equal(t, int64(1), v.Int())
}

func TestEnvRebindSearchesOutward(t *testing.T) {
	env := NewRootEnv()
	env.Bind(testSym("x"), NewInt(1))
	env.PushScope()
	require.True(t, env.Rebind(testSym("x"), NewInt(9)))
	env.PopScope()
	v, _ := env.Lookup(testSym("x"))
	assert.Equal(t, int64(9), v.Int())
	assert.False(t, env.Rebind(testSym("nosuch"), NewInt(0)))
}

func TestEnvCloneIsIndependent(t *testing.T) {
	env := NewRootEnv()
	env.Bind(testSym("x"), NewInt(1))
	snap := env.Clone()
	env.Rebind(testSym("x"), NewInt(2))

	v, _ := snap.Lookup(testSym("x"))
	assert.Equal(t, int64(1), v.Int())
	v, _ = env.Lookup(testSym("x"))
	assert.Equal(t, int64(2), v.Int())
}

func TestEnvCloneSharesGlobalFrame(t *testing.T) {
	env := NewRootEnv()
	snap := env.Clone()
	// Builtins remain visible through the clone.
	_, ok := snap.Lookup(symbol.Intern("def"))
	assert.True(t, ok)
}

func TestEnvManyBindingsSpillToMap(t *testing.T) {
	// The frame keeps two inline slots before spilling to a map; both paths
	// must behave identically.
	env := NewRootEnv()
	env.PushScope()
	syms := []symbol.ID{testSym("s1"), testSym("s2"), testSym("s3"), testSym("s4")}
	for i, s := range syms {
		env.Bind(s, NewInt(int64(i)))
	}
	for i, s := range syms {
		v, ok := env.Lookup(s)
		require.True(t, ok, "%s", s.Str())
		assert.Equal(t, int64(i), v.Int())
	}
	require.True(t, env.Rebind(syms[0], NewInt(100)))
	v, _ := env.Lookup(syms[0])
	assert.Equal(t, int64(100), v.Int())
}

func TestScopeNames(t *testing.T) {
	env := NewRootEnv()
	env.PushScope()
	env.Bind(testSym("m1"), NewInt(1))
	env.Bind(testSym("m2"), NewInt(2))
	names := env.ScopeNames()
	assert.ElementsMatch(t, []symbol.ID{testSym("m1"), testSym("m2")}, names)
}

func TestBindMergedReplacesPlain(t *testing.T) {
	env := NewRootEnv()
	env.Bind(testSym("p"), NewInt(1))
	merged, ok := env.BindMerged(testSym("p"), NewInt(2))
	require.True(t, ok)
	assert.Equal(t, int64(2), merged.Int())
	v, _ := env.Lookup(testSym("p"))
	assert.Equal(t, int64(2), v.Int())
}
