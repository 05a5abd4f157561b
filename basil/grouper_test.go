package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/symbol"
)

func sym(s string) Value  { return NewSymbol(symbol.Intern(s)) }
func num(n int64) Value   { return NewInt(n) }

// groupTerms resolves and groups a flat term run against a fresh root env.
func groupTerms(t *testing.T, terms ...Value) Value {
	t.Helper()
	ResetErrors()
	env := NewRootEnv()
	grouped, gerr := GroupSequence(env, terms)
	require.Nil(t, gerr)
	return grouped
}

// infixOp builds a symbol term carrying an explicit infix binary form, so
// grouping tests don't depend on any builtin's registration.
func infixOp(name string, prec int64, assoc Associativity) Value {
	c := NewCallable([]Param{PVar(symbol.Intern("lhs")), PSelf, PVar(symbol.Intern("rhs"))}, nil)
	return sym(name).WithForm(FCallable(prec, assoc, c))
}

// items unpacks a grouped application list.
func items(t *testing.T, v Value) []Value {
	t.Helper()
	require.Equal(t, KList, v.Type().Kind)
	return v.ListItems()
}

func TestGroupLeftAssociative(t *testing.T) {
	op := func() Value { return infixOp("⊕", 50, AssocLeft) }
	grouped := groupTerms(t, num(1), op(), num(2), op(), num(3))
	// ((⊕ (⊕ 1 2) 3))
	outer := items(t, grouped)
	require.Equal(t, 3, len(outer))
	assert.Equal(t, "⊕", outer[0].Symbol().Str())
	inner := items(t, outer[1])
	require.Equal(t, 3, len(inner))
	assert.Equal(t, int64(1), inner[1].Int())
	assert.Equal(t, int64(2), inner[2].Int())
	assert.Equal(t, int64(3), outer[2].Int())
}

func TestGroupRightAssociative(t *testing.T) {
	op := func() Value { return infixOp("⊗", 50, AssocRight) }
	grouped := groupTerms(t, num(1), op(), num(2), op(), num(3))
	// ((⊗ 1 (⊗ 2 3)))
	outer := items(t, grouped)
	require.Equal(t, 3, len(outer))
	assert.Equal(t, int64(1), outer[1].Int())
	inner := items(t, outer[2])
	require.Equal(t, 3, len(inner))
	assert.Equal(t, int64(2), inner[1].Int())
	assert.Equal(t, int64(3), inner[2].Int())
}

func TestGroupPrecedence(t *testing.T) {
	// 1 + 2 * 3 with the registered builtins: (+ 1 (* 2 3)).
	grouped := groupTerms(t, num(1), sym("+"), num(2), sym("*"), num(3))
	outer := items(t, grouped)
	require.Equal(t, 3, len(outer))
	assert.Equal(t, "+", outer[0].Symbol().Str())
	assert.Equal(t, int64(1), outer[1].Int())
	inner := items(t, outer[2])
	assert.Equal(t, "*", inner[0].Symbol().Str())
	assert.Equal(t, int64(2), inner[1].Int())
	assert.Equal(t, int64(3), inner[2].Int())
}

func TestGroupPrecedenceReversed(t *testing.T) {
	// 1 * 2 + 3: (+ (* 1 2) 3).
	grouped := groupTerms(t, num(1), sym("*"), num(2), sym("+"), num(3))
	outer := items(t, grouped)
	require.Equal(t, 3, len(outer))
	assert.Equal(t, "+", outer[0].Symbol().Str())
	inner := items(t, outer[1])
	assert.Equal(t, "*", inner[0].Symbol().Str())
	assert.Equal(t, int64(3), outer[2].Int())
}

func TestMaximalMunch(t *testing.T) {
	// Overloads of arities 1/2/3 sharing the self keyword and no separating
	// keywords: the longest viable match wins.
	f := symbol.Intern("mm")
	o := NewOverloaded([]*Callable{
		NewCallable([]Param{PSelf, PVar(symbol.Intern("a"))}, nil),
		NewCallable([]Param{PSelf, PVar(symbol.Intern("a")), PVar(symbol.Intern("b"))}, nil),
		NewCallable([]Param{PSelf, PVar(symbol.Intern("a")), PVar(symbol.Intern("b")), PVar(symbol.Intern("c"))}, nil),
	})
	head := NewSymbol(f).WithForm(FOverloaded(40, AssocLeft, o))

	grouped := groupTerms(t, head, num(1), num(2), num(3))
	got := items(t, grouped)
	require.Equal(t, 4, len(got))

	grouped = groupTerms(t, head, num(1), num(2))
	assert.Equal(t, 3, len(items(t, grouped)))
}

func TestKeywordPriority(t *testing.T) {
	env := NewRootEnv()
	// if c then t else e groups the longer overload when else is present...
	terms := []Value{sym("if"), sym("true"), sym("then"), num(1), sym("else"), num(2)}
	grouped, gerr := GroupSequence(env, terms)
	require.Nil(t, gerr)
	assert.Equal(t, 6, len(items(t, grouped)))

	// ...and only the shorter when it's absent.
	terms = []Value{sym("if"), sym("true"), sym("then"), num(1)}
	grouped, gerr = GroupSequence(env, terms)
	require.Nil(t, gerr)
	assert.Equal(t, 4, len(items(t, grouped)))
}

func TestTermParameterDoesNotRecurse(t *testing.T) {
	// foo with a Term parameter consumes its argument whole, without
	// resolving the argument's own infix structure at this level.
	foo := sym("foo").WithForm(FCallable(40, AssocLeft,
		NewCallable([]Param{PSelf, PTerm(symbol.Intern("t"))}, nil)))
	arg := NewList(Any, []Value{num(1), sym("+"), num(2)})
	grouped := groupTerms(t, foo, arg)
	got := items(t, grouped)
	require.Equal(t, 2, len(got))
	// The argument is still the raw three-term run.
	raw := got[1].ListItems()
	require.Equal(t, 3, len(raw))
	assert.Equal(t, "+", raw[1].Symbol().Str())
}

func TestGroupErrorCandidates(t *testing.T) {
	ResetErrors()
	env := NewRootEnv()
	// A binary operator with no right-hand side: no machine reaches an
	// accepting state.
	op := infixOp("⊘", 50, AssocLeft)
	_, gerr := GroupSequence(env, []Value{num(1), op})
	require.NotNil(t, gerr)
	assert.NotEmpty(t, gerr.Candidates)
}

func TestGroupedFormIsMatchedCallable(t *testing.T) {
	grouped := groupTerms(t, num(1), sym("+"), num(2))
	f := grouped.Form()
	require.NotNil(t, f)
	require.Equal(t, FKCallable, f.Kind)
	c := f.Invokable.(*Callable)
	assert.Equal(t, PKSelf, c.Parameters[0].Kind)
}
