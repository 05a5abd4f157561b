package basil

import "github.com/basilTeam/basil/symbol"

// if / if-else / while are spec.md §4.6's control builtins, and the only
// ones in this package that truly need BuiltinOpts.Preserving: their
// branches and bodies arrive as raw Quoted terms (an `if` with a runtime
// condition must decide, per branch, whether to evaluate it now or lower it
// into an ASTIf node), so the generic call()/emitCallNode path — which would
// try to Lower an unevaluated term before the callback ever sees it — has to
// stay out of the way and let the callback do both jobs itself. Grounded on
// original_source/compiler/builtin.cpp's IF, IF_ELSE and WHILE struct
// definitions, which give each of these a pair of callbacks (one compile-time,
// one to-AST); this rendering folds that pair into a single FuncCallback that
// branches on whether its condition came back Runtime.
func init() {
	cond := symbol.Intern("cond")
	thenKw := symbol.Intern("then")
	ifTrue := symbol.Intern("if-true")
	elseKw := symbol.Intern("else")
	ifFalse := symbol.Intern("if-false")
	body := symbol.Intern("body")

	ifForm := newBuiltinFormValue(symbol.Intern("if"), `
if cond then if-true

Evaluates cond. If cond is a compile-time Bool, evaluates if-true only when
cond is true and always produces Void. If cond turns out runtime, emits a
runtime conditional with no else branch.
`,
		PrecControl, AssocRight,
		[]Param{PSelf, PVar(cond), PKeyword(thenKw), PQuoted(ifTrue)},
		TTuple([]*Type{Bool, Any}, false), Void,
		builtinIf,
		BuiltinOpts{Preserving: true},
	)
	ifElseForm := newBuiltinFormValue(symbol.Intern("if"), `
if cond then if-true else if-false

Evaluates cond. If cond is a compile-time Bool, reduces to whichever branch
it selects. If cond turns out runtime, both branches are evaluated and
lowered, and the call emits a runtime conditional carrying both.
`,
		PrecControl, AssocRight,
		[]Param{PSelf, PVar(cond), PKeyword(thenKw), PQuoted(ifTrue), PKeyword(elseKw), PQuoted(ifFalse)},
		TTuple([]*Type{Bool, Any, Any}, false), Any,
		builtinIfElse,
		BuiltinOpts{Preserving: true},
	)
	RegisterBuiltinOverloads("if", ifForm, ifElseForm)

	RegisterBuiltinForm("while", `
while cond body

Loops while cond evaluates to a compile-time true, re-evaluating body each
iteration. If cond ever turns runtime, the loop stops unrolling: any
variable that was compile-time before the loop but turned runtime inside it
is promoted with a synthesized definition ahead of the loop, and the whole
thing emits as a runtime while.
`,
		PrecControl, AssocRight,
		[]Param{PSelf, PQuoted(cond), PQuoted(body)},
		TTuple([]*Type{Any, Any}, false), Void,
		builtinWhile,
		BuiltinOpts{Preserving: true},
	)
}

func builtinIf(env *Env, ast ASTNode, args []Value) Value {
	condVal, ifTrueTerm := args[0], args[1]
	if condVal.Type().Kind == KRuntime {
		return emitRuntimeIf(env, ast, condVal, ifTrueTerm, Value{})
	}
	if condVal.Type().Kind != KBool {
		Errorf(condVal.Pos(), "if: condition must be a Bool, got %s", condVal.Type())
		return ErrorValue
	}
	if condVal.Bool() {
		if v := eval(env, ifTrueTerm); v.IsError() {
			return ErrorValue
		}
	}
	return NewVoid()
}

func builtinIfElse(env *Env, ast ASTNode, args []Value) Value {
	condVal, ifTrueTerm, ifFalseTerm := args[0], args[1], args[2]
	if condVal.Type().Kind == KRuntime {
		return emitRuntimeIf(env, ast, condVal, ifTrueTerm, ifFalseTerm)
	}
	if condVal.Type().Kind != KBool {
		Errorf(condVal.Pos(), "if: condition must be a Bool, got %s", condVal.Type())
		return ErrorValue
	}
	if condVal.Bool() {
		return eval(env, ifTrueTerm)
	}
	return eval(env, ifFalseTerm)
}

// emitRuntimeIf evaluates and lowers whichever branches are present and
// wraps them in an ASTIf. ifFalseTerm may be the zero Value, meaning a
// value-less `if` with no else.
func emitRuntimeIf(env *Env, ast ASTNode, condVal, ifTrueTerm, ifFalseTerm Value) Value {
	thenVal := eval(env, ifTrueTerm)
	if thenVal.IsError() {
		return ErrorValue
	}
	thenLowered := Lower(env, thenVal)
	if thenLowered.IsError() {
		return ErrorValue
	}

	if ifFalseTerm.Type() == nil {
		return NewRuntime(NewASTIf(ast.Pos(), Void, condVal.RuntimeAST(), thenLowered.RuntimeAST(), nil))
	}

	elseVal := eval(env, ifFalseTerm)
	if elseVal.IsError() {
		return ErrorValue
	}
	elseLowered := Lower(env, elseVal)
	if elseLowered.IsError() {
		return ErrorValue
	}
	return NewRuntime(NewASTIf(ast.Pos(), thenLowered.RuntimeAST().Type(), condVal.RuntimeAST(), thenLowered.RuntimeAST(), elseLowered.RuntimeAST()))
}

// builtinWhile unrolls the loop at compile time for as long as cond keeps
// reducing to a compile-time Bool. The moment cond turns runtime, it lowers
// the body once more: the env clone taken up front tells it which snapshot
// variables were compile-time before the loop but are runtime now — those
// get a synthesized ASTDef ahead of the emitted while, so the body sees a
// live runtime location. The clone/diff/synthesize dance of
// original_source/compiler/builtin.cpp's WHILE handler.
func builtinWhile(env *Env, ast ASTNode, args []Value) Value {
	condTerm, bodyTerm := args[0], args[1]
	before := env.Clone()

	condVal := eval(env, condTerm)
	if condVal.IsError() {
		return ErrorValue
	}
	for condVal.Type().Kind == KBool && condVal.Bool() {
		if perf.Exceeded() {
			return ErrorValue
		}
		if v := eval(env, bodyTerm); v.IsError() {
			return ErrorValue
		}
		condVal = eval(env, condTerm)
		if condVal.IsError() {
			return ErrorValue
		}
	}

	if condVal.Type().Kind == KBool {
		// Terminated normally without ever turning runtime.
		return NewVoid()
	}
	if condVal.Type().Kind != KRuntime {
		Errorf(condVal.Pos(), "while: condition must be a Bool, got %s", condVal.Type())
		return ErrorValue
	}

	bodyVal := eval(env, bodyTerm)
	if bodyVal.IsError() {
		return ErrorValue
	}
	loweredBody := Lower(env, bodyVal)
	if loweredBody.IsError() {
		return ErrorValue
	}

	var preamble []*ASTDef
	for _, name := range before.Names() {
		beforeVal, ok := before.Lookup(name)
		if !ok || beforeVal.Type().Kind == KRuntime {
			continue
		}
		nowVal, ok := env.Lookup(name)
		if !ok || nowVal.Type().Kind != KRuntime {
			continue
		}
		loweredInit := Lower(env, beforeVal)
		if loweredInit.IsError() {
			return ErrorValue
		}
		preamble = append(preamble, NewASTDef(ast.Pos(), name, loweredInit.RuntimeAST()))
	}

	whileNode := NewASTWhile(ast.Pos(), preamble, condVal.RuntimeAST(), loweredBody.RuntimeAST())
	exprs := make([]ASTNode, 0, len(preamble)+1)
	for _, d := range preamble {
		exprs = append(exprs, d)
	}
	exprs = append(exprs, whileNode)
	return NewRuntime(NewASTDo(ast.Pos(), exprs))
}
