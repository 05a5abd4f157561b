package basil

import "github.com/basilTeam/basil/symbol"

// do sequences subexpressions, evaluating each in turn (spec.md §4.6 `do`).
// If every subexpression stays compile-time, only the last value survives;
// if any turns runtime, the whole thing emits a runtime `do` node that
// preserves every subexpression's effects but still only carries the last
// value's type.
func init() {
	exprs := symbol.Intern("exprs")
	RegisterBuiltinForm("do", `
do expr...

Evaluates each expr in order. If all reduce at compile time, do evaluates
to the last one; if any turns runtime, do emits a runtime sequence so
every earlier expr's side effects still happen before the final value.
`,
		PrecStructure, AssocLeft,
		[]Param{PSelf, PTermVariadic(exprs)},
		TList(Any), Any,
		builtinDo,
		BuiltinOpts{},
	)
}

func builtinDo(env *Env, ast ASTNode, args []Value) Value {
	terms := args[0].ListItems()
	if len(terms) == 0 {
		return NewVoid()
	}

	results := make([]Value, len(terms))
	anyRuntime := false
	for i, t := range terms {
		v := eval(env, t)
		if v.IsError() {
			return ErrorValue
		}
		results[i] = v
		if v.Type().Kind == KRuntime {
			anyRuntime = true
		}
	}
	if !anyRuntime {
		return results[len(results)-1]
	}

	astExprs := make([]ASTNode, len(results))
	for i, v := range results {
		lv := Lower(env, v)
		if lv.IsError() {
			return ErrorValue
		}
		astExprs[i] = lv.RuntimeAST()
	}
	return NewRuntime(NewASTDo(ast.Pos(), astExprs))
}
