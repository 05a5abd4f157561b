package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueScalarRoundTrips(t *testing.T) {
	assert.Equal(t, int64(-7), NewInt(-7).Int())
	assert.Equal(t, true, NewBool(true).Bool())
	assert.Equal(t, 2.5, NewDouble(2.5).Float())
	assert.Equal(t, 'q', NewChar('q').Char())
	assert.Equal(t, "s", NewString("s").Str())
	assert.Equal(t, testSym("sv"), NewSymbol(testSym("sv")).Symbol())
	assert.True(t, NewType(Int).AsType() == Int)
}

func TestListConsAndItems(t *testing.T) {
	l := NewList(Int, []Value{NewInt(1), NewInt(2)})
	require.False(t, l.ListEmpty())
	assert.Equal(t, int64(1), l.ListHead().Int())
	assert.Equal(t, 1, len(l.ListTail().ListItems()))

	c := Cons(NewInt(0), l)
	items := c.ListItems()
	require.Equal(t, 3, len(items))
	assert.Equal(t, int64(0), items[0].Int())
}

func TestDictCopyOnWrite(t *testing.T) {
	d := NewDict(String, Int)
	d2 := d.DictSet(NewString("a"), NewInt(1))
	// The original is untouched.
	_, ok := d.DictGet(NewString("a"))
	assert.False(t, ok)
	v, ok := d2.DictGet(NewString("a"))
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int())

	d3 := d2.DictSet(NewString("a"), NewInt(2))
	v, _ = d3.DictGet(NewString("a"))
	assert.Equal(t, int64(2), v.Int())
	assert.Equal(t, 1, len(d3.DictEntries()))
}

func TestUnionAndNamedValues(t *testing.T) {
	u := TUnion([]*Type{Int, Bool})
	v := NewUnion(u, NewInt(3))
	assert.Equal(t, KUnion, v.Type().Kind)
	assert.Equal(t, int64(3), v.UnionInner().Int())

	n := NewNamed(testSym("Tag"), NewInt(4))
	assert.Equal(t, KNamed, n.Type().Kind)
	assert.Equal(t, int64(4), n.NamedInner().Int())
}

func TestStructValues(t *testing.T) {
	s := NewStruct([]StructField{
		{Name: testSym("fx"), Value: NewInt(1)},
		{Name: testSym("fy"), Value: NewBool(true)},
	}, false)
	v, ok := s.StructField(testSym("fy"))
	require.True(t, ok)
	assert.True(t, v.Bool())
	_, ok = s.StructField(testSym("fz"))
	assert.False(t, ok)
}

func TestValueStrings(t *testing.T) {
	assert.Equal(t, "3", NewInt(3).String())
	assert.Equal(t, `"hi"`, NewString("hi").String())
	assert.Equal(t, "[1 2]", NewList(Int, []Value{NewInt(1), NewInt(2)}).String())
	assert.Equal(t, "(1, 2)", NewTuple([]Value{NewInt(1), NewInt(2)}, false).String())
	assert.Equal(t, "void", NewVoid().String())
}

func TestErrorContagion(t *testing.T) {
	assert.True(t, ErrorValue.IsError())
	assert.False(t, NewInt(1).IsError())
}
