package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfBalancedFrames(t *testing.T) {
	g := NewPerfGovernor(50, 50)
	g.BeginCall(NoPos, "outer")
	g.Tick()
	g.BeginCall(NoPos, "inner")
	g.Tick()
	g.Tick()
	assert.Equal(t, 2, g.Depth())
	g.EndCall()
	// The callee's count folds into the parent.
	assert.Equal(t, 1, g.Depth())
	g.EndCall()
	assert.Equal(t, 0, g.Depth())
}

func TestPerfComptimeCountExcluded(t *testing.T) {
	g := NewPerfGovernor(50, 2)
	g.BeginCall(NoPos, "outer")
	g.BeginCall(NoPos, "inner")
	g.EnterComptime()
	for i := 0; i < 100; i++ {
		g.Tick()
	}
	// Comptime frames are exempt from the budget...
	assert.False(t, g.Exceeded())
	g.EndCall()
	// ...and their cost never folds into the parent.
	g.Tick()
	assert.False(t, g.Exceeded())
	g.EndCall()
}

func TestPerfMetaInheritsThroughCalls(t *testing.T) {
	g := NewPerfGovernor(50, 50)
	g.BeginCall(NoPos, "outer")
	g.EnterMeta()
	g.BeginCall(NoPos, "inner")
	// A meta region stays meta through nested calls, and meta is strictly
	// stronger than comptime.
	assert.True(t, g.InMeta())
	g.EndCall()
	g.EndCall()
	assert.False(t, g.InMeta())
}

func TestPerfBudgetExceeded(t *testing.T) {
	g := NewPerfGovernor(50, 3)
	g.BeginCall(NoPos, "f")
	for i := 0; i < 4; i++ {
		g.Tick()
	}
	assert.True(t, g.Exceeded())
	assert.True(t, g.WasExceeded())
	// The latch reports once and clears.
	assert.False(t, g.WasExceeded())
	g.EndCall()
}

func TestPerfDepthExceeded(t *testing.T) {
	g := NewPerfGovernor(3, 1000)
	for i := 0; i < 4; i++ {
		g.BeginCall(NoPos, "f")
	}
	assert.True(t, g.Exceeded())
	for i := 0; i < 4; i++ {
		g.EndCall()
	}
}

func TestPerfInstantiatingExempt(t *testing.T) {
	g := NewPerfGovernor(2, 1)
	g.BeginCall(NoPos, "f")
	g.EnterInstantiating()
	g.BeginCall(NoPos, "g")
	g.BeginCall(NoPos, "h")
	g.Tick()
	g.Tick()
	// Instantiation frames (and everything under them) skip budget checks.
	assert.False(t, g.Exceeded())
	g.EndCall()
	g.EndCall()
	g.EndCall()
}

func TestPerfSelfRecursive(t *testing.T) {
	g := NewPerfGovernor(50, 50)
	g.BeginCall(NoPos, "f")
	g.BeginCall(NoPos, "g")
	assert.False(t, g.SelfRecursive("g"))
	g.BeginCall(NoPos, "g")
	assert.True(t, g.SelfRecursive("g"))
	require.Equal(t, 3, len(g.Stack()))
	g.EndCall()
	g.EndCall()
	g.EndCall()
}

func TestPerfStackSnapshot(t *testing.T) {
	g := NewPerfGovernor(50, 50)
	g.BeginCall(Pos{LineStart: 3, ColStart: 1, LineEnd: 3, ColEnd: 5}, "f")
	stack := g.Stack()
	require.Equal(t, 1, len(stack))
	assert.Equal(t, "f", stack[0].Name)
	assert.Equal(t, 3, stack[0].Pos.LineStart)
	g.EndCall()
}
