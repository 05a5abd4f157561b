package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/config"
)

func TestPerfCutoffInstantiates(t *testing.T) {
	// Spec scenario 3: with the budget floored, `inc 1` can't reduce at
	// compile time and becomes a runtime call to an instantiation of inc
	// over one Int, returning Int.
	cfg := config.Default()
	cfg.Perf.MaxCount = 0
	p := NewPipeline(cfg)
	vals := p.EvalText("def (inc x?) = x + 1\ninc 1")
	require.Equal(t, 0, ErrorCount(), "diagnostics: %v", Diagnostics())
	v := vals[len(vals)-1]
	require.Equal(t, KRuntime, v.Type().Kind)

	call, ok := v.RuntimeAST().(*ASTCall)
	require.True(t, ok)
	assert.True(t, call.Type() == Int)
	callee, ok := call.Callee.(*ASTUnknown)
	require.True(t, ok)
	assert.Equal(t, "inc", callee.Name.Str())
	require.Equal(t, 1, len(call.Args))
}

func TestSameBudgetReducesAtCompileTime(t *testing.T) {
	// The same program under the default budget folds completely.
	v := evalLast(t, "def (inc x?) = x + 1\ninc 1")
	require.Equal(t, KInt, v.Type().Kind)
	assert.Equal(t, int64(2), v.Int())
}

func TestInstantiationCacheHit(t *testing.T) {
	p := NewPipeline(config.Default())
	vals := p.EvalText("def (inc x?) = x + 1")
	require.Equal(t, 1, len(vals))
	fn := vals[0].AsFunc()

	callAST := NewASTUnknown(NoPos, TFunc(Int, Int, false), fn.Name())
	inst1, ok := Monomorphize(fn, callAST, Int)
	require.True(t, ok)
	inst2, ok := Monomorphize(fn, callAST, Int)
	require.True(t, ok)
	// Repeated monomorphization at the same argument type returns the same
	// AST node object.
	assert.True(t, inst1 == inst2)
	assert.True(t, inst1.AST == inst2.AST)

	// A different argument type is a different instantiation.
	inst3, ok := Monomorphize(fn, NewASTUnknown(NoPos, TFunc(Double, Double, false), fn.Name()), Double)
	require.True(t, ok)
	assert.False(t, inst1 == inst3)
}

func TestSelfRecursionInstantiatesOnce(t *testing.T) {
	// A self-recursive function doesn't unfold forever: the recursive call
	// inside the instantiated body compiles against the in-progress stub.
	p := NewPipeline(config.Default())
	vals := p.EvalText("def (loop x?) = loop (x + 1)\nloop 1")
	v := vals[len(vals)-1]
	require.Equal(t, KRuntime, v.Type().Kind, "diagnostics: %v", Diagnostics())
	call, ok := v.RuntimeAST().(*ASTCall)
	require.True(t, ok)
	callee, ok := call.Callee.(*ASTUnknown)
	require.True(t, ok)
	assert.Equal(t, "loop", callee.Name.Str())
}

func TestInstantiatedBodyShape(t *testing.T) {
	p := NewPipeline(config.Default())
	vals := p.EvalText("def (inc x?) = x + 1")
	fn := vals[0].AsFunc()
	inst, ok := Monomorphize(fn, NewASTUnknown(NoPos, TFunc(Int, Int, false), fn.Name()), Int)
	require.True(t, ok)
	require.NotNil(t, inst.AST)
	assert.Equal(t, "inc", inst.AST.Name.Str())
	require.Equal(t, 1, len(inst.AST.Params))
	// The body is a runtime call to + over the parameter and the literal.
	body, ok := inst.AST.Body.(*ASTCall)
	require.True(t, ok)
	assert.Equal(t, 2, len(body.Args))
	assert.True(t, inst.AST.Type().Ret == Int)
}

func TestMergeDefsGrowsOverloadSet(t *testing.T) {
	ResetErrors()
	env := NewRootEnv()
	a := newBuiltinFormValue(testSym("ovl"), "", PrecDefault, AssocLeft,
		[]Param{PSelf, PVar(testSym("a"))}, Int, Int,
		func(_ *Env, _ ASTNode, args []Value) Value { return args[0] }, BuiltinOpts{})
	b := newBuiltinFormValue(testSym("ovl"), "", PrecDefault, AssocLeft,
		[]Param{PSelf, PVar(testSym("a")), PVar(testSym("b"))},
		TTuple([]*Type{Int, Int}, false), Int,
		func(_ *Env, _ ASTNode, args []Value) Value { return args[0] }, BuiltinOpts{})

	env.Bind(testSym("ovl"), a)
	merged, ok := env.BindMerged(testSym("ovl"), b)
	require.True(t, ok)
	require.Equal(t, KIntersect, merged.Type().Kind)
	assert.Equal(t, 2, len(merged.Type().Members))

	// Re-adding an overload with the same mangled signature is a hard error.
	dup := newBuiltinFormValue(testSym("ovl"), "", PrecDefault, AssocLeft,
		[]Param{PSelf, PVar(testSym("z"))}, Int, Int,
		func(_ *Env, _ ASTNode, args []Value) Value { return args[0] }, BuiltinOpts{})
	_, ok = env.BindMerged(testSym("ovl"), dup)
	assert.False(t, ok)
}

func TestMergeDefsReplacesPlainValues(t *testing.T) {
	existing := NewInt(1)
	fresh := NewInt(2)
	merged, ok := MergeDefs(existing, fresh)
	require.True(t, ok)
	assert.Equal(t, int64(2), merged.Int())

	merged, ok = MergeDefs(NewUndefined(), fresh)
	require.True(t, ok)
	assert.Equal(t, int64(2), merged.Int())
}
