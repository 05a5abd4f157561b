package basil

import "github.com/basilTeam/basil/symbol"

// def binds a name to a value (spec.md §4.6 `def` and its annotated/extern
// variants). Target shapes:
//
//	def x 1             -- plain binding: evaluate the body, bind x to it
//	def x = 1           -- same, with the optional `=` keyword
//	def (f a b) = a + b -- procedure binding: f becomes a user-defined
//	                       function over a, b, with body left unevaluated
//	extern n Int        -- runtime-only binding: n exists only in emitted
//	                       code, reads compile as variable loads
//
// The body is a quoted-variadic run: everything to the end of the
// expression stays raw, so `def x = x + 1` captures `x + 1` whole and the
// grouper shapes it on evaluation, not at definition. Redefining a name
// already bound in the same scope goes through MergeDefs (spec.md §4.8),
// which is how a second `def` of the same name grows an overloaded
// intersect instead of erroring.
func init() {
	target := symbol.Intern("target")
	body := symbol.Intern("body")
	name := symbol.Intern("name")
	typeArg := symbol.Intern("type")

	RegisterBuiltinForm("def", `
def target body...
def target = body...

Binds target to body's value. If target is a bare symbol, body is
evaluated immediately and bound under that name. If target is a call
pattern (name param...), a new function named name is defined over
param..., with body as its unevaluated definition. The `+"`=`"+` between
target and body is optional surface; both spellings are one form.
`,
		PrecDefault, AssocRight,
		[]Param{PSelf, PTerm(target), PQuotedVariadic(body)},
		TTuple([]*Type{Any, Any}, false), Any,
		builtinDef,
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm("extern", `
extern name type

Declares name as a runtime-resident variable of the given type: it has no
compile-time value, so every read compiles to a variable load and every
operation touching it lowers.
`,
		PrecDefault, AssocRight,
		[]Param{PSelf, PTerm(name), PVar(typeArg)},
		TTuple([]*Type{Any, TypeT}, false), Void,
		builtinExtern,
		BuiltinOpts{},
	)
}

func builtinDef(env *Env, ast ASTNode, args []Value) Value {
	target, bodyRun := args[0], args[1]
	bodyTerm := defBody(bodyRun)
	if bodyTerm.IsError() {
		Errorf(target.Pos(), "def: missing body")
		return ErrorValue
	}
	switch target.Type().Kind {
	case KSymbol:
		val := eval(env, bodyTerm)
		if val.IsError() {
			return ErrorValue
		}
		return bindDef(env, target.Pos(), target.Symbol(), val)
	case KList:
		return defFunc(env, target, bodyTerm)
	default:
		Errorf(target.Pos(), "def: target must be a symbol or a call pattern, got %s", target)
		return ErrorValue
	}
}

// defBody folds the quoted-variadic body run back into one term, dropping
// the optional leading `=`: a single collected term is the body itself, a
// longer run stays a flat list for the grouper to shape when the body is
// eventually evaluated.
func defBody(run Value) Value {
	items := run.ListItems()
	if len(items) > 0 && items[0].Type().Kind == KSymbol && items[0].Symbol() == symbol.Assign {
		items = items[1:]
	}
	switch len(items) {
	case 0:
		return ErrorValue
	case 1:
		return items[0]
	default:
		return NewList(Any, items).WithPos(run.Pos())
	}
}

func builtinExtern(env *Env, ast ASTNode, args []Value) Value {
	nameTerm, typeVal := args[0], args[1]
	if nameTerm.Type().Kind != KSymbol {
		Errorf(nameTerm.Pos(), "extern: expected a name, got %s", nameTerm)
		return ErrorValue
	}
	if typeVal.Type().Kind != KType {
		Errorf(typeVal.Pos(), "extern: expected a type, got %s", typeVal)
		return ErrorValue
	}
	declared := typeVal.AsType()
	lowered, ok := TLower(declared)
	if !ok {
		Errorf(typeVal.Pos(), "extern: %s has no runtime representation", declared)
		return ErrorValue
	}
	if !TIsConcrete(lowered) {
		// A generic type in an extern signature is a type error (spec.md §7).
		Diagf(CategoryType, typeVal.Pos(), "extern: generic type %s in extern signature", declared)
		return ErrorValue
	}
	name := nameTerm.Symbol()
	sym := NewRuntime(NewASTVariable(nameTerm.Pos(), lowered, name))
	if _, ok := env.BindMerged(name, sym); !ok {
		return ErrorValue
	}
	return NewVoid()
}

func bindDef(env *Env, pos Pos, name symbol.ID, val Value) Value {
	merged, ok := env.BindMerged(name, val)
	if !ok {
		return ErrorValue
	}
	return merged.WithPos(pos)
}

// defFunc handles `def (name param...) body`: target is the call-pattern
// list, its head the function's name and its tail the parameter symbols. A
// trailing `?` sigil on a parameter (`def (inc x ?) ...`, which the lexer
// splits off `x?`) marks an ordinary evaluated parameter and is skipped;
// the finer Term/Quoted parameter sigils are a lexer-level concern out of
// scope for this rendering (see DESIGN.md), so every user-defined function
// takes ordinarily-evaluated arguments.
func defFunc(env *Env, target, body Value) Value {
	items := target.ListItems()
	if len(items) == 0 {
		Errorf(target.Pos(), "def: empty call pattern")
		return ErrorValue
	}
	head := items[0]
	if head.Type().Kind != KSymbol {
		Errorf(head.Pos(), "def: call pattern head must be a symbol, got %s", head)
		return ErrorValue
	}
	name := head.Symbol()
	var params []symbol.ID
	for i, p := range items[1:] {
		if p.Type().Kind != KSymbol {
			Errorf(p.Pos(), "def: parameter %d must be a symbol, got %s", i, p)
			return ErrorValue
		}
		if p.Symbol() == symQuestion {
			continue
		}
		params = append(params, p.Symbol())
	}

	argType := defArgType(len(params))
	ast := NewASTUnknown(target.Pos(), TFunc(argType, Any, false), name)
	f := NewUserDefinedFunc(ast, name, env, params, argType, body)
	funcVal := NewFunc(f)
	funcVal = funcVal.WithForm(InferForm(funcVal.Type()))

	// The closure env was snapshotted before this def completed, so bind the
	// function into its own closure too — a recursive body's self-reference
	// resolves through it (and merges with any overload already visible).
	f.env.BindMerged(name, funcVal)

	return bindDef(env, target.Pos(), name, funcVal)
}

func defArgType(n int) *Type {
	switch n {
	case 0:
		return Void
	case 1:
		return Any
	default:
		members := make([]*Type, n)
		for i := range members {
			members[i] = Any
		}
		return TTuple(members, false)
	}
}
