package basil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexScalars(t *testing.T) {
	ResetErrors()
	toks := Lex(NewSource("t", `1 2.5 "hi" 'c' foo`))
	require.Equal(t, 0, ErrorCount())
	assert.Equal(t, []TokenKind{TokInt, TokFloat, TokString, TokChar, TokSymbol, TokNewline}, kinds(toks))
	assert.Equal(t, int64(1), toks[0].IntVal)
	assert.Equal(t, 2.5, toks[1].FloatVal)
	assert.Equal(t, "hi", toks[2].Text)
	assert.Equal(t, 'c', toks[3].CharVal)
	assert.Equal(t, "foo", toks[4].Text)
}

func TestLexOperators(t *testing.T) {
	toks := Lex(NewSource("t", "a :: b == c"))
	require.Equal(t, 6, len(toks))
	assert.Equal(t, "::", toks[1].Text)
	assert.Equal(t, "==", toks[3].Text)
}

func TestLexAccessVersusArray(t *testing.T) {
	toks := Lex(NewSource("t", "foo[1] foo [1]"))
	// Adjacent bracket is access; a spaced bracket opens an array literal.
	assert.Equal(t, []TokenKind{
		TokSymbol, TokAccess, TokInt, TokRSquare,
		TokSymbol, TokLSquare, TokInt, TokRSquare, TokNewline,
	}, kinds(toks))
}

func TestLexCoefficient(t *testing.T) {
	toks := Lex(NewSource("t", "2x 1.5y 3"))
	assert.Equal(t, []TokenKind{TokIntCoeff, TokSymbol, TokFloatCoeff, TokSymbol, TokInt, TokNewline}, kinds(toks))
}

func TestLexQuotePrefix(t *testing.T) {
	toks := Lex(NewSource("t", ":foo x : y"))
	// Prefix colon quotes; a spaced colon is the annotation operator.
	assert.Equal(t, TokQuote, toks[0].Kind)
	assert.Equal(t, TokSymbol, toks[1].Kind)
	assert.Equal(t, ":", toks[3].Text)
}

func TestLexPrefixSign(t *testing.T) {
	toks := Lex(NewSource("t", "-3 1 - 2"))
	assert.Equal(t, TokMinus, toks[0].Kind)
	// Binary minus stays a symbol.
	assert.Equal(t, TokSymbol, toks[3].Kind)
	assert.Equal(t, "-", toks[3].Text)
}

func TestLexSemicolonSeparates(t *testing.T) {
	toks := Lex(NewSource("t", "1; 2"))
	assert.Equal(t, []TokenKind{TokInt, TokNewline, TokInt, TokNewline}, kinds(toks))
}

func TestLexCommentsSkipped(t *testing.T) {
	toks := Lex(NewSource("t", "1 # rest is ignored\n2"))
	assert.Equal(t, []TokenKind{TokInt, TokNewline, TokInt, TokNewline}, kinds(toks))
}

func TestLexPositions(t *testing.T) {
	toks := Lex(NewSource("t", "ab cd\nef"))
	assert.Equal(t, 1, toks[0].Pos.LineStart)
	assert.Equal(t, 1, toks[0].Pos.ColStart)
	assert.Equal(t, 4, toks[1].Pos.ColStart)
	assert.Equal(t, 2, toks[3].Pos.LineStart)
}

func TestParseArraySugar(t *testing.T) {
	ResetErrors()
	prog := Parse(Lex(NewSource("t", "[1 2 3]")))
	exprs := prog.ListItems()
	require.Equal(t, 1, len(exprs))
	arr := exprs[0].ListItems()
	require.Equal(t, 4, len(arr))
	assert.Equal(t, "array", arr[0].Symbol().Str())
}

func TestParseBraceSugar(t *testing.T) {
	prog := Parse(Lex(NewSource("t", "{1 2}")))
	arr := prog.ListItems()[0].ListItems()
	require.Equal(t, 3, len(arr))
	assert.Equal(t, "array", arr[0].Symbol().Str())
}

func TestParseAccessSugar(t *testing.T) {
	prog := Parse(Lex(NewSource("t", "foo[2]")))
	expr := prog.ListItems()[0].ListItems()
	// (at foo (array 2))
	require.Equal(t, 3, len(expr))
	assert.Equal(t, "at", expr[0].Symbol().Str())
	assert.Equal(t, "foo", expr[1].Symbol().Str())
	idx := expr[2].ListItems()
	assert.Equal(t, "array", idx[0].Symbol().Str())
	assert.Equal(t, int64(2), idx[1].Int())
}

func TestParseCoefficientSugar(t *testing.T) {
	prog := Parse(Lex(NewSource("t", "2x")))
	expr := prog.ListItems()[0].ListItems()
	// (* 2 x)
	require.Equal(t, 3, len(expr))
	assert.Equal(t, "*", expr[0].Symbol().Str())
	assert.Equal(t, int64(2), expr[1].Int())
}

func TestParseQuoteSugar(t *testing.T) {
	prog := Parse(Lex(NewSource("t", ":foo")))
	expr := prog.ListItems()[0].ListItems()
	require.Equal(t, 2, len(expr))
	assert.Equal(t, "quote", expr[0].Symbol().Str())
	assert.Equal(t, "foo", expr[1].Symbol().Str())
}

func TestParseNewlinesSeparateExpressions(t *testing.T) {
	prog := Parse(Lex(NewSource("t", "1 + 2\n3 + 4")))
	assert.Equal(t, 2, len(prog.ListItems()))
}

func TestParseParensNest(t *testing.T) {
	prog := Parse(Lex(NewSource("t", "(1 + 2) * 3")))
	expr := prog.ListItems()[0].ListItems()
	require.Equal(t, 3, len(expr))
	assert.Equal(t, KList, expr[0].Type().Kind)
	assert.Equal(t, "*", expr[1].Symbol().Str())
}

func TestParseNegativeLiteral(t *testing.T) {
	prog := Parse(Lex(NewSource("t", "-3")))
	v := prog.ListItems()[0]
	require.Equal(t, KInt, v.Type().Kind)
	assert.Equal(t, int64(-3), v.Int())
}

func TestParseSingleTermIsItself(t *testing.T) {
	prog := Parse(Lex(NewSource("t", "42")))
	v := prog.ListItems()[0]
	assert.Equal(t, KInt, v.Type().Kind)
}
