package basil

import "github.com/basilTeam/basil/symbol"

// quote / eval / meta — spec.md §4.6's staging builtins. `quote` returns its
// term unevaluated; `eval` forces another evaluation pass over an
// already-computed term value; `meta` does the same inside a meta perf frame,
// which skips cost accounting entirely and is the only context allowed to
// invoke stateful builtins (spec.md §4.9). Grounded on original_source/
// compiler/builtin.cpp's QUOTE/EVAL/META structs; the comptime/meta frame
// flags map onto PerfGovernor.EnterComptime/EnterMeta.
func init() {
	term := symbol.Intern("term")

	RegisterBuiltinForm("quote", `
quote term

Returns term itself, unevaluated.
`,
		PrecQuote, AssocRight,
		[]Param{PSelf, PQuoted(term)},
		Any, Any,
		func(_ *Env, _ ASTNode, a []Value) Value { return a[0] },
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm("eval", `
eval term

Evaluates term (typically a quoted expression) one more time, inside a
comptime frame: the evaluation is exempt from the perf governor's cost
budget, but stateful builtins remain off-limits.
`,
		PrecQuote, AssocRight,
		[]Param{PSelf, PVar(term)},
		Any, Any,
		builtinEval,
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm("meta", `
meta term

Evaluates term inside a meta frame: exempt from cost accounting, and
permitted to invoke stateful builtins.
`,
		PrecQuote, AssocRight,
		[]Param{PSelf, PQuoted(term)},
		Any, Any,
		builtinMeta,
		BuiltinOpts{Preserving: true},
	)
}

func builtinEval(env *Env, _ ASTNode, args []Value) Value {
	perf.EnterComptime()
	return eval(env, args[0])
}

func builtinMeta(env *Env, _ ASTNode, args []Value) Value {
	perf.EnterMeta()
	return eval(env, args[0])
}
