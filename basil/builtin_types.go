package basil

import "github.com/basilTeam/basil/symbol"

// Type-constructor and type-test builtins (spec.md §4.6: "| (union), of
// (named), -> (function type), ? (type var), just, typeof, is, : (annotate),
// :> (subtype test)"). Grounded on original_source/compiler/builtin.cpp's
// UNION_TYPE/NAMED_TYPE/FN_TYPE/TYPEVAR/JUST/TYPEOF/IS/ANNOTATE/COERCE
// structs. All reduce at compile time: a Type is a compile-time-only value
// (TLower rejects it reaching runtime), so none of these ever emit code.
func init() {
	lhs := symbol.Intern("lhs")
	rhs := symbol.Intern("rhs")
	name := symbol.Intern("name")
	base := symbol.Intern("base")
	x := symbol.Intern("x")
	typeArg := symbol.Intern("type")

	// The primitive types are ordinary compile-time constants.
	for _, tc := range []struct {
		name string
		t    *Type
	}{
		{"Int", Int}, {"Float", Float}, {"Double", Double}, {"Bool", Bool},
		{"Char", Char}, {"String", String}, {"Symbol", SymbolT}, {"Type", TypeT},
		{"Void", Void}, {"Any", Any},
	} {
		RegisterGlobalConst(tc.name, NewType(tc.t))
	}

	RegisterBuiltinForm("|", `
lhs | rhs

The union of two types. Unions flatten and de-duplicate; a union that
collapses to a single member is that member.
`,
		PrecType, AssocLeft,
		[]Param{PVar(lhs), PSelf, PVar(rhs)},
		TTuple([]*Type{TypeT, TypeT}, false), TypeT,
		func(_ *Env, _ ASTNode, a []Value) Value {
			return NewType(TUnion([]*Type{a[0].AsType(), a[1].AsType()}))
		},
		BuiltinOpts{},
	)

	RegisterBuiltinForm("->", `
arg -> ret

The type of functions from arg to ret.
`,
		PrecType, AssocRight,
		[]Param{PVar(lhs), PSelf, PVar(rhs)},
		TTuple([]*Type{TypeT, TypeT}, false), TypeT,
		func(_ *Env, _ ASTNode, a []Value) Value {
			return NewType(TFunc(a[0].AsType(), a[1].AsType(), false))
		},
		BuiltinOpts{},
	)

	RegisterBuiltinForm("of", `
name of base

Names a type (base a Type value) or tags a value (base anything else) as
the nominal type name.
`,
		PrecType, AssocRight,
		[]Param{PTerm(name), PSelf, PVar(base)},
		TTuple([]*Type{SymbolT, Any}, false), Any,
		builtinOf,
		BuiltinOpts{},
	)

	RegisterBuiltinForm("?", `
? name

Introduces a fresh type variable displayed as ?name. Each use site gets its
own variable; names are for display only.
`,
		PrecPrefix, AssocRight,
		[]Param{PSelf, PTerm(name)},
		SymbolT, TypeT,
		func(_ *Env, _ ASTNode, a []Value) Value {
			if a[0].Type().Kind != KSymbol {
				Errorf(a[0].Pos(), "?: expected a name, got %s", a[0])
				return ErrorValue
			}
			return NewType(TVar(a[0].Symbol()))
		},
		BuiltinOpts{},
	)

	RegisterBuiltinForm("just", `
just x

The exact compile-time type of x, runtime wrapping included: `+"`just`"+` on a
lowered value reports runtime(T) where typeof would report T.
`,
		PrecPrefix, AssocRight,
		[]Param{PSelf, PVar(x)},
		Any, TypeT,
		func(_ *Env, _ ASTNode, a []Value) Value { return NewType(a[0].Type()) },
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm("typeof", `
typeof x

The type of x as the emitted program sees it: Runtime wrappers are stripped,
so a lowered Int and a compile-time Int both report Int.
`,
		PrecPrefix, AssocRight,
		[]Param{PSelf, PVar(x)},
		Any, TypeT,
		func(_ *Env, _ ASTNode, a []Value) Value { return NewType(stripRuntime(a[0].Type())) },
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm("is", `
x is type

Whether x's type coerces to type. Scored without committing type-variable
bindings, like overload resolution's dry runs.
`,
		PrecCompare, AssocLeft,
		[]Param{PVar(x), PSelf, PVar(typeArg)},
		TTuple([]*Type{Any, TypeT}, false), Bool,
		func(_ *Env, _ ASTNode, a []Value) Value {
			return NewBool(NonbindingCoercesTo(stripRuntime(a[0].Type()), a[1].AsType()))
		},
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm(":", `
x : type

Annotates x with type, coercing it. An error if x cannot coerce.
`,
		PrecAnnotated, AssocRight,
		[]Param{PVar(x), PSelf, PVar(typeArg)},
		TTuple([]*Type{Any, TypeT}, false), Any,
		builtinAnnotate,
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm(":>", `
sub :> super

Whether values of type sub coerce to type super. Both operands are Type
values; no type-variable bindings are committed.
`,
		PrecType, AssocLeft,
		[]Param{PVar(lhs), PSelf, PVar(rhs)},
		TTuple([]*Type{TypeT, TypeT}, false), Bool,
		func(_ *Env, _ ASTNode, a []Value) Value {
			return NewBool(NonbindingCoercesTo(a[0].AsType(), a[1].AsType()))
		},
		BuiltinOpts{},
	)
}

func builtinOf(env *Env, _ ASTNode, args []Value) Value {
	nameTerm, baseVal := args[0], args[1]
	if nameTerm.Type().Kind != KSymbol {
		Errorf(nameTerm.Pos(), "of: expected a name, got %s", nameTerm)
		return ErrorValue
	}
	if baseVal.Type().Kind == KType {
		return NewType(TNamed(nameTerm.Symbol(), baseVal.AsType()))
	}
	return NewNamed(nameTerm.Symbol(), baseVal)
}

func builtinAnnotate(env *Env, _ ASTNode, args []Value) Value {
	v, typeVal := args[0], args[1]
	if typeVal.Type().Kind != KType {
		Errorf(typeVal.Pos(), "annotation: expected a type, got %s", typeVal)
		return ErrorValue
	}
	target := typeVal.AsType()
	if !CoercesTo(stripRuntime(v.Type()), target) {
		Errorf(v.Pos(), "annotation: %s does not coerce to %s", v.Type(), target)
		return ErrorValue
	}
	return Coerce(env, v, target)
}
