package symbol_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/basilTeam/basil/hash"
	"github.com/basilTeam/basil/symbol"
)

func TestIntern(t *testing.T) {
	assert.Equal(t, symbol.Intern("abc"), symbol.Intern("abc"))
	assert.False(t, symbol.Intern("abc") == symbol.Intern("cde"))
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"_", "_3", "$x", "xyz", "::", "=>"} {
		id := symbol.Intern(name)
		name2 := id.Str()
		assert.Equal(t, name, name2)
	}
}

func TestPredefined(t *testing.T) {
	// Predefined operator symbols intern to themselves and stay stable.
	assert.Equal(t, symbol.Comma, symbol.Intern(","))
	assert.Equal(t, symbol.ColonColon, symbol.Intern("::"))
	assert.Equal(t, symbol.Quote, symbol.Intern("quote"))
	assert.Equal(t, symbol.Splice, symbol.Intern("splice"))
	assert.NotEqual(t, symbol.Invalid, symbol.Assign)
}

func TestHashDistinct(t *testing.T) {
	a := symbol.Intern("hasha").Hash()
	b := symbol.Intern("hashb").Hash()
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, symbol.Intern("hasha").Hash())
}

func BenchmarkHashInterned(b *testing.B) {
	sym := symbol.Intern("abcdefghijk")
	symbol.MarkPreInternedSymbols()
	for i := 0; i < b.N; i++ {
		_ = sym.Hash()
	}
}

func BenchmarkHashNonInterned(b *testing.B) {
	sym := symbol.Intern("lmnopqrstuv")
	var h hash.Hash
	for i := 0; i < b.N; i++ {
		h = sym.Hash()
	}
	fmt.Printf("hash: %v\n", h)
}
