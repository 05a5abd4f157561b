package basil

import "github.com/basilTeam/basil/symbol"

// lambda builds an anonymous function value (spec.md §4.6 `lambda`:
// "anonymous procedure, right-assoc, self-first"). Both its parameter list
// and its body arrive unevaluated, the same shape `def`'s call-pattern case
// uses, minus the name.
func init() {
	params := symbol.Intern("params")
	body := symbol.Intern("body")
	RegisterBuiltinForm("lambda", `
lambda params body

Produces an anonymous function. params is either a single symbol (a
one-argument function) or a parenthesized list of symbols. body is the
function's unevaluated definition, closing over the defining scope.
`,
		PrecDefault, AssocRight,
		[]Param{PSelf, PTerm(params), PTerm(body)},
		TTuple([]*Type{Any, Any}, false), Any,
		builtinLambda,
		BuiltinOpts{},
	)
}

func builtinLambda(env *Env, ast ASTNode, args []Value) Value {
	paramsTerm, bodyTerm := args[0], args[1]
	var params []symbol.ID
	switch paramsTerm.Type().Kind {
	case KSymbol:
		params = []symbol.ID{paramsTerm.Symbol()}
	case KList:
		for _, it := range paramsTerm.ListItems() {
			if it.Type().Kind != KSymbol {
				Errorf(it.Pos(), "lambda: parameter must be a symbol, got %s", it)
				return ErrorValue
			}
			params = append(params, it.Symbol())
		}
	default:
		Errorf(paramsTerm.Pos(), "lambda: parameter list must be a symbol or a list of symbols, got %s", paramsTerm)
		return ErrorValue
	}

	argType := defArgType(len(params))
	stub := NewASTUnknown(paramsTerm.Pos(), TFunc(argType, Any, false), symbol.Invalid)
	f := NewUserDefinedFunc(stub, symbol.Invalid, env, params, argType, bodyTerm)
	val := NewFunc(f)
	return val.WithForm(InferForm(val.Type())).WithPos(paramsTerm.Pos())
}
