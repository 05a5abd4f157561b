package basil

import "github.com/basilTeam/basil/symbol"

// Parse turns a token stream into a Value tree (spec.md §6 parser contract):
// parenthesized runs nest into lists, `[a b c]` and `{a b}` sugar to
// (array ...), `foo[bar]` to (at foo (array bar)), a coefficient to
// (* n term), and a prefix quote to (quote term). The result is a List of
// top-level expressions, one per newline-separated run; forms are attached
// later by resolve (spec.md §4.4), not here. Like the lexer, this is the
// minimal in-scope sliver of an out-of-scope collaborator: indented blocks
// are not produced (see DESIGN.md).
func Parse(tokens []Token) Value {
	p := &parser{tokens: tokens}
	var exprs []Value
	for !p.done() {
		if p.peek().Kind == TokNewline {
			p.next()
			continue
		}
		expr, ok := p.parseRun(func(t Token) bool { return t.Kind == TokNewline })
		if !ok {
			return ErrorValue
		}
		exprs = append(exprs, expr)
	}
	return NewList(Any, exprs)
}

type parser struct {
	tokens []Token
	idx    int
}

func (p *parser) done() bool   { return p.idx >= len(p.tokens) }
func (p *parser) peek() Token  { return p.tokens[p.idx] }
func (p *parser) next() Token  { t := p.tokens[p.idx]; p.idx++; return t }

// parseRun collects terms until stop matches (which is consumed) or the
// stream ends. A one-term run is that term itself; anything longer is a flat
// List for the grouper to shape.
func (p *parser) parseRun(stop func(Token) bool) (Value, bool) {
	var terms []Value
	pos := NoPos
	for !p.done() {
		t := p.peek()
		if stop(t) {
			p.next()
			break
		}
		if t.Kind == TokNewline {
			// Inside a bracketed run a newline is plain whitespace.
			p.next()
			continue
		}
		term, ok := p.parseTerm()
		if !ok {
			return Value{}, false
		}
		// foo[bar]: access binds to the just-parsed term.
		for !p.done() && p.peek().Kind == TokAccess {
			term, ok = p.parseAccess(term)
			if !ok {
				return Value{}, false
			}
		}
		terms = append(terms, term)
		pos = Span(pos, term.Pos())
	}
	switch len(terms) {
	case 0:
		return NewVoid().WithPos(pos), true
	case 1:
		return terms[0], true
	default:
		return NewList(Any, terms).WithPos(pos), true
	}
}

func (p *parser) parseTerm() (Value, bool) {
	t := p.next()
	switch t.Kind {
	case TokInt:
		return NewInt(t.IntVal).WithPos(t.Pos), true
	case TokFloat:
		return NewDouble(t.FloatVal).WithPos(t.Pos), true
	case TokString:
		return NewString(t.Text).WithPos(t.Pos), true
	case TokChar:
		return NewChar(t.CharVal).WithPos(t.Pos), true
	case TokSymbol:
		return NewSymbol(t.Symbol()).WithPos(t.Pos), true
	case TokSplice:
		return NewSymbol(symbol.Splice).WithPos(t.Pos), true
	case TokPlus, TokMinus:
		val, ok := p.parseTerm()
		if !ok {
			return Value{}, false
		}
		if t.Kind == TokPlus {
			return val.WithPos(Span(t.Pos, val.Pos())), true
		}
		switch val.Type().Kind {
		case KInt:
			return NewInt(-val.Int()).WithPos(Span(t.Pos, val.Pos())), true
		case KFloat:
			return NewFloat(-val.Float()).WithPos(Span(t.Pos, val.Pos())), true
		case KDouble:
			return NewDouble(-val.Float()).WithPos(Span(t.Pos, val.Pos())), true
		default:
			Diagf(CategorySyntax, t.Pos, "expected a numeric literal after prefix '-'")
			return Value{}, false
		}
	case TokIntCoeff, TokFloatCoeff:
		// 2x sugars to (* 2 x).
		coeff := NewInt(t.IntVal).WithPos(t.Pos)
		if t.Kind == TokFloatCoeff {
			coeff = NewDouble(t.FloatVal).WithPos(t.Pos)
		}
		term, ok := p.parseTerm()
		if !ok {
			return Value{}, false
		}
		pos := Span(t.Pos, term.Pos())
		return NewList(Any, []Value{NewSymbol(symbol.Star).WithPos(t.Pos), coeff, term}).WithPos(pos), true
	case TokQuote:
		term, ok := p.parseTerm()
		if !ok {
			return Value{}, false
		}
		pos := Span(t.Pos, term.Pos())
		return NewList(Any, []Value{NewSymbol(symbol.Quote).WithPos(t.Pos), term}).WithPos(pos), true
	case TokLParen:
		return p.parseRun(func(t Token) bool { return t.Kind == TokRParen })
	case TokLSquare, TokLBrace:
		closer := TokRSquare
		if t.Kind == TokLBrace {
			closer = TokRBrace
		}
		items, ok := p.parseItems(closer)
		if !ok {
			return Value{}, false
		}
		pos := t.Pos
		for _, it := range items {
			pos = Span(pos, it.Pos())
		}
		terms := append([]Value{NewSymbol(symbol.ArrayKw).WithPos(t.Pos)}, items...)
		return NewList(Any, terms).WithPos(pos), true
	default:
		Diagf(CategorySyntax, t.Pos, "unexpected token")
		return Value{}, false
	}
}

// parseAccess consumes `[index...]` after container, yielding
// (at container (array index...)).
func (p *parser) parseAccess(container Value) (Value, bool) {
	open := p.next() // TokAccess
	items, ok := p.parseItems(TokRSquare)
	if !ok {
		return Value{}, false
	}
	arr := append([]Value{NewSymbol(symbol.ArrayKw).WithPos(open.Pos)}, items...)
	pos := Span(container.Pos(), open.Pos)
	for _, it := range items {
		pos = Span(pos, it.Pos())
	}
	return NewList(Any, []Value{
		NewSymbol(symbol.At).WithPos(open.Pos),
		container,
		NewList(Any, arr).WithPos(open.Pos),
	}).WithPos(pos), true
}

// parseItems collects whole terms until the closing bracket. Each item is a
// single term (a parenthesized run for anything compound).
func (p *parser) parseItems(closer TokenKind) ([]Value, bool) {
	var items []Value
	for {
		if p.done() {
			Diagf(CategorySyntax, NoPos, "unterminated bracket")
			return nil, false
		}
		t := p.peek()
		if t.Kind == closer {
			p.next()
			return items, true
		}
		if t.Kind == TokNewline {
			p.next()
			continue
		}
		item, ok := p.parseTerm()
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
}
