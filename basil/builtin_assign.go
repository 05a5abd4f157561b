package basil

import "github.com/basilTeam/basil/symbol"

// = assignment (spec.md §4.6 `=`): the only lvalue pattern is a bare symbol
// that must already be defined. A compile-time assignment simply rebinds the
// name; once either side is runtime, the variable's binding is redefined to
// Runtime(T) holding a variable-reference node — so later reads compile as
// variable loads — and the write itself emits as an ASTAssign for the
// (external) SSA pass to rename. Grounded on original_source/compiler/
// builtin.cpp's ASSIGN struct and its resolve-lvalue-first discipline.
func init() {
	target := symbol.Intern("target")
	value := symbol.Intern("value")
	RegisterBuiltinForm("=", `
target = value

Assigns value to the already-defined variable target.
`,
		PrecStructure, AssocRight,
		[]Param{PTerm(target), PSelf, PVar(value)},
		TTuple([]*Type{Any, Any}, false), Any,
		builtinAssign,
		BuiltinOpts{Preserving: true},
	)
}

func builtinAssign(env *Env, ast ASTNode, args []Value) Value {
	target, val := args[0], args[1]
	if target.Type().Kind != KSymbol {
		Errorf(target.Pos(), "=: assignment target must be a variable name, got %s", target)
		return ErrorValue
	}
	name := target.Symbol()
	existing, ok := env.Lookup(name)
	if !ok {
		Errorf(target.Pos(), "=: variable %q is not defined", name.Str())
		return ErrorValue
	}
	if val.IsError() {
		return ErrorValue
	}

	if val.Type().Kind != KRuntime && existing.Type().Kind != KRuntime {
		env.Rebind(name, val)
		return val.WithPos(target.Pos())
	}

	lowered := Lower(env, val)
	if lowered.IsError() {
		return ErrorValue
	}
	varType := lowered.RuntimeAST().Type()
	env.Rebind(name, NewRuntime(NewASTVariable(target.Pos(), varType, name)))
	return NewRuntime(NewASTAssign(target.Pos(), name, lowered.RuntimeAST()))
}
