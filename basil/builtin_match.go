package basil

import "github.com/basilTeam/basil/symbol"

// matches and match implement spec.md §4.6 pattern matching: literal values,
// a binding pattern `(? x)`, an annotation pattern `(: p T)` that also peels
// through a union member carrying T, a cons pattern `(:: h t)`, a tuple
// pattern `(, a b ...)`, and a named pattern `(of Name p)` that peels through
// a union the same way. Grounded closely on original_source/compiler/
// builtin.cpp's match_case/MATCHES/MATCH: both builtins are BF_COMPTIME
// only — pattern matching is a static decision this rendering never defers
// to runtime, so neither registers a Preserving/runtime path.
func init() {
	value := symbol.Intern("value")
	caseTerm := symbol.Intern("case")
	cases := symbol.Intern("cases")

	// Infix like the original's `value matches case` (self in the second
	// parameter slot); the grouper prefix-normalizes the grouped call, so the
	// callback still receives [value, case] in that order.
	RegisterBuiltinForm("matches", `
value matches case

Tests whether value matches the pattern case, binding any '(? x)' variables
into the enclosing scope as a side effect. Evaluates to a Bool.
`,
		PrecCompare-20, AssocLeft,
		[]Param{PVar(value), PSelf, PQuoted(caseTerm)},
		TTuple([]*Type{Any, Any}, false), Bool,
		builtinMatches,
		BuiltinOpts{},
	)

	RegisterBuiltinForm("match", `
match value with
  pattern => body
  pattern => body
  ...

Tries each case's pattern against value in order, evaluating and returning
the body of the first one that matches. An error if none match.
`,
		PrecControl-40, AssocRight,
		[]Param{PSelf, PVar(value), PQuoted(cases)},
		TTuple([]*Type{Any, Any}, false), Any,
		builtinMatch,
		BuiltinOpts{},
	)
}

func builtinMatches(env *Env, ast ASTNode, args []Value) Value {
	v, pattern := args[0], args[1]
	return matchCase(env, pattern, v)
}

var caseArrow = symbol.Intern("=>")
var withKw = symbol.Intern("with")

func builtinMatch(env *Env, ast ASTNode, args []Value) Value {
	v, casesTerm := args[0], args[1]
	if casesTerm.Type().Kind != KList || casesTerm.ListEmpty() {
		Errorf(casesTerm.Pos(), "match: no cases provided")
		return ErrorValue
	}
	head := casesTerm.ListHead()
	if head.Type().Kind != KSymbol || head.Symbol() != withKw {
		Errorf(head.Pos(), "match: expected 'with' before match cases, found %s", head)
		return ErrorValue
	}
	rest := casesTerm.ListTail()
	if rest.ListEmpty() {
		Errorf(casesTerm.Pos(), "match: no cases provided after 'with'")
		return ErrorValue
	}
	for _, c := range rest.ListItems() {
		pattern, body, ok := splitCase(c)
		if !ok {
			return ErrorValue
		}
		result := matchCase(env, pattern, v)
		if result.IsError() {
			return ErrorValue
		}
		if result.Bool() {
			return eval(env, body)
		}
	}
	Errorf(v.Pos(), "match: value %s did not match any case", v)
	return ErrorValue
}

// splitCase parses one `pattern => body` case term (spec.md §4.6's case
// arrow), a 3-item list: [pattern, "=>", body].
func splitCase(c Value) (pattern, body Value, ok bool) {
	if c.Type().Kind != KList {
		Errorf(c.Pos(), "match: expected a case 'pattern => body', found %s", c)
		return Value{}, Value{}, false
	}
	items := c.ListItems()
	if len(items) != 3 || items[1].Type().Kind != KSymbol || items[1].Symbol() != caseArrow {
		Errorf(c.Pos(), "match: expected a case of the form 'pattern => body', found %s", c)
		return Value{}, Value{}, false
	}
	return items[0], items[2], true
}

var (
	symQuestion = symbol.Intern("?")
	symColon    = symbol.Intern(":")
	symCons     = symbol.Intern("::")
	symComma    = symbol.Intern(",")
	symOf       = symbol.Intern("of")
)

// matchCase tests v against pattern, returning a Bool Value (or Error).
// Matching a `(? x)` subpattern binds x into env's innermost scope as a
// side effect, merged via the same machinery `def` uses.
func matchCase(env *Env, pattern, v Value) Value {
	switch pattern.Type().Kind {
	case KInt, KFloat, KDouble, KVoid, KString, KChar:
		return NewBool(valuesEqual(pattern, v))
	case KSymbol:
		bound := eval(env, pattern)
		if bound.IsError() {
			return ErrorValue
		}
		return NewBool(valuesEqual(bound, v))
	case KList:
		return matchCompound(env, pattern, v)
	default:
		return NewBool(false)
	}
}

func matchCompound(env *Env, pattern, v Value) Value {
	if pattern.ListEmpty() {
		Errorf(pattern.Pos(), "match: empty list is not a valid pattern")
		return ErrorValue
	}
	opTerm := pattern.ListHead()
	if opTerm.Type().Kind != KSymbol {
		Errorf(pattern.Pos(), "match: unknown pattern %s: expected an operator symbol (e.g. '::' or ',')", pattern)
		return ErrorValue
	}
	op := opTerm.Symbol()
	rest := pattern.ListTail().ListItems()

	switch op {
	case symQuestion:
		if len(rest) != 1 || rest[0].Type().Kind != KSymbol {
			Errorf(pattern.Pos(), "match: expected a single name in binding pattern '%s'", pattern)
			return ErrorValue
		}
		if _, ok := env.BindMerged(rest[0].Symbol(), v); !ok {
			return ErrorValue
		}
		return NewBool(true)

	case symColon:
		if len(rest) != 2 {
			Errorf(pattern.Pos(), "match: expected 'subpattern : type' in annotation pattern '%s'", pattern)
			return ErrorValue
		}
		sub, typeExpr := rest[0], rest[1]
		typeVal := eval(env, typeExpr)
		if typeVal.IsError() {
			return ErrorValue
		}
		if typeVal.Type().Kind != KType {
			Errorf(typeExpr.Pos(), "match: expected a type in annotation pattern, got %s", typeVal)
			return ErrorValue
		}
		target := typeVal.AsType()
		if CoercesTo(v.Type(), target) {
			return matchCase(env, sub, Coerce(env, v, target))
		}
		if v.Type().Kind == KUnion {
			inner := v.UnionInner()
			if inner.Type().Key() == target.Key() {
				return matchCase(env, sub, inner)
			}
		}
		return NewBool(false)

	case symCons:
		if len(rest) != 2 {
			Errorf(pattern.Pos(), "match: expected 'head :: tail' in list pattern '%s'", pattern)
			return ErrorValue
		}
		if v.Type().Kind != KList || v.ListEmpty() {
			return NewBool(false)
		}
		left := matchCase(env, rest[0], v.ListHead())
		if left.IsError() {
			return ErrorValue
		}
		right := matchCase(env, rest[1], v.ListTail())
		if right.IsError() {
			return ErrorValue
		}
		return NewBool(left.Bool() && right.Bool())

	case symComma:
		if len(rest) < 2 {
			Errorf(pattern.Pos(), "match: at least two subpatterns required in tuple pattern '%s'", pattern)
			return ErrorValue
		}
		if v.Type().Kind != KTuple {
			return NewBool(false)
		}
		items := v.TupleItems()
		if len(items) != len(rest) {
			return NewBool(false)
		}
		for i, sub := range rest {
			result := matchCase(env, sub, items[i])
			if result.IsError() {
				return ErrorValue
			}
			if !result.Bool() {
				return NewBool(false)
			}
		}
		return NewBool(true)

	case symOf:
		if len(rest) != 2 || rest[0].Type().Kind != KSymbol {
			Errorf(pattern.Pos(), "match: expected 'of Name subpattern' in named pattern '%s'", pattern)
			return ErrorValue
		}
		name, sub := rest[0].Symbol(), rest[1]
		target := v
		if v.Type().Kind == KUnion {
			target = v.UnionInner()
		}
		if target.Type().Kind == KNamed && target.Type().Name == name {
			return matchCase(env, sub, target.NamedInner())
		}
		return NewBool(false)

	default:
		Errorf(pattern.Pos(), "match: unknown pattern '%s': operator '%s' has no matching behavior", pattern, op.Str())
		return ErrorValue
	}
}

// valuesEqual is a structural equality test over compile-time Values, used
// by matchCase's literal and variable-value comparisons.
func valuesEqual(a, b Value) bool {
	if a.Type().Kind != b.Type().Kind {
		return false
	}
	switch a.Type().Kind {
	case KVoid:
		return true
	case KBool:
		return a.Bool() == b.Bool()
	case KInt:
		return a.Int() == b.Int()
	case KFloat, KDouble:
		return a.Float() == b.Float()
	case KChar:
		return a.Char() == b.Char()
	case KString:
		return a.Str() == b.Str()
	case KSymbol:
		return a.Symbol() == b.Symbol()
	case KList:
		ai, bi := a.ListItems(), b.ListItems()
		if len(ai) != len(bi) {
			return false
		}
		for i := range ai {
			if !valuesEqual(ai[i], bi[i]) {
				return false
			}
		}
		return true
	case KTuple:
		ai, bi := a.TupleItems(), b.TupleItems()
		if len(ai) != len(bi) {
			return false
		}
		for i := range ai {
			if !valuesEqual(ai[i], bi[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
