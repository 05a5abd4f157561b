package basil

import (
	"math"

	"github.com/basilTeam/basil/hash"
	"github.com/basilTeam/basil/symbol"
)

// Arithmetic, relational and equality builtins (spec.md §4.6: "Arithmetic
// + - * / %, relational < <= > >= == !="). Grounded on original_source/
// compiler/builtin.cpp's ADD_INT/ADD_FLOAT/ADD_DOUBLE/SUB/MUL/DIV/REM/LESS/
// LESS_EQUAL/GREATER/GREATER_EQUAL/EQUAL/NOT_EQUAL structs. None of these
// are Preserving: both operands are plain Var parameters (eagerly
// evaluated), so call()'s generic, non-Preserving dispatch already emits a
// runtime call node the moment either argument is Runtime — the callbacks
// here only ever run on fully-reduced scalars.
//
// The original gives each arithmetic operator only an Int overload (plus
// ADD's extra Float/Double pair, evidently written first as the template
// for the others but never carried through). This rendering completes that
// template: + - * / % and the four ordering relations all get Int/Float/
// Double overloads, sharing ADD's already-established three-way numeric
// pattern rather than leaving `1.5 - 1.0` unsupported by construction.
func init() {
	lhs := symbol.Intern("lhs")
	rhs := symbol.Intern("rhs")
	// Infix-shaped (self in the second slot), exactly as the original
	// registers its operators; the grouper's ToPrefix normalization is what
	// lets the same registration serve both `1 + 2` and a by-name `(+ 1 2)`.
	params := []Param{PVar(lhs), PSelf, PVar(rhs)}

	registerNumericBuiltin("+", `
lhs + rhs

Adds two numbers of the same kind (Int, Float, or Double).
`, PrecAdd, AssocLeft, params, []numVariant{
		{Int, Int, Int, func(_ *Env, _ ASTNode, a []Value) Value { return NewInt(a[0].Int() + a[1].Int()) }},
		{Float, Float, Float, func(_ *Env, _ ASTNode, a []Value) Value { return NewFloat(a[0].Float() + a[1].Float()) }},
		{Double, Double, Double, func(_ *Env, _ ASTNode, a []Value) Value { return NewDouble(a[0].Float() + a[1].Float()) }},
	})

	registerNumericBuiltin("-", `
lhs - rhs

Subtracts rhs from lhs; Int, Float, or Double.
`, PrecAdd, AssocLeft, params, []numVariant{
		{Int, Int, Int, func(_ *Env, _ ASTNode, a []Value) Value { return NewInt(a[0].Int() - a[1].Int()) }},
		{Float, Float, Float, func(_ *Env, _ ASTNode, a []Value) Value { return NewFloat(a[0].Float() - a[1].Float()) }},
		{Double, Double, Double, func(_ *Env, _ ASTNode, a []Value) Value { return NewDouble(a[0].Float() - a[1].Float()) }},
	})

	registerNumericBuiltin("*", `
lhs * rhs

Multiplies two numbers; Int, Float, or Double.
`, PrecMul, AssocLeft, params, []numVariant{
		{Int, Int, Int, func(_ *Env, _ ASTNode, a []Value) Value { return NewInt(a[0].Int() * a[1].Int()) }},
		{Float, Float, Float, func(_ *Env, _ ASTNode, a []Value) Value { return NewFloat(a[0].Float() * a[1].Float()) }},
		{Double, Double, Double, func(_ *Env, _ ASTNode, a []Value) Value { return NewDouble(a[0].Float() * a[1].Float()) }},
	})

	registerNumericBuiltin("/", `
lhs / rhs

Divides lhs by rhs; Int, Float, or Double. An Int division by zero is a
compile-time error rather than a crash.
`, PrecMul, AssocLeft, params, []numVariant{
		{Int, Int, Int, divInt},
		{Float, Float, Float, func(_ *Env, _ ASTNode, a []Value) Value { return NewFloat(a[0].Float() / a[1].Float()) }},
		{Double, Double, Double, func(_ *Env, _ ASTNode, a []Value) Value { return NewDouble(a[0].Float() / a[1].Float()) }},
	})

	registerNumericBuiltin("%", `
lhs % rhs

Remainder of lhs divided by rhs; Int, Float, or Double. An Int remainder by
zero is a compile-time error rather than a crash.
`, PrecMul, AssocLeft, params, []numVariant{
		{Int, Int, Int, remInt},
		{Float, Float, Float, func(_ *Env, _ ASTNode, a []Value) Value { return NewFloat(math.Mod(a[0].Float(), a[1].Float())) }},
		{Double, Double, Double, func(_ *Env, _ ASTNode, a []Value) Value { return NewDouble(math.Mod(a[0].Float(), a[1].Float())) }},
	})

	registerNumericBuiltin("<", `
lhs < rhs
`, PrecCompare, AssocLeft, params, []numVariant{
		{Int, Int, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Int() < a[1].Int()) }},
		{Float, Float, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() < a[1].Float()) }},
		{Double, Double, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() < a[1].Float()) }},
	})

	registerNumericBuiltin("<=", `
lhs <= rhs
`, PrecCompare, AssocLeft, params, []numVariant{
		{Int, Int, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Int() <= a[1].Int()) }},
		{Float, Float, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() <= a[1].Float()) }},
		{Double, Double, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() <= a[1].Float()) }},
	})

	registerNumericBuiltin(">", `
lhs > rhs
`, PrecCompare, AssocLeft, params, []numVariant{
		{Int, Int, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Int() > a[1].Int()) }},
		{Float, Float, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() > a[1].Float()) }},
		{Double, Double, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() > a[1].Float()) }},
	})

	registerNumericBuiltin(">=", `
lhs >= rhs
`, PrecCompare, AssocLeft, params, []numVariant{
		{Int, Int, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Int() >= a[1].Int()) }},
		{Float, Float, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() >= a[1].Float()) }},
		{Double, Double, Bool, func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(a[0].Float() >= a[1].Float()) }},
	})

	// EQUAL/NOT_EQUAL take Any,Any in the original (structural value
	// equality, not numeric comparison), so unlike the rest of this file
	// they get a single plain registration rather than per-type overloads.
	RegisterBuiltinForm("==", `
lhs == rhs

Structural equality over compile-time values.
`, PrecCompare, AssocLeft, params, TTuple([]*Type{Any, Any}, false), Bool,
		func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(valuesEqual(a[0], a[1])) },
		BuiltinOpts{})

	RegisterBuiltinForm("!=", `
lhs != rhs
`, PrecCompare, AssocLeft, params, TTuple([]*Type{Any, Any}, false), Bool,
		func(_ *Env, _ ASTNode, a []Value) Value { return NewBool(!valuesEqual(a[0], a[1])) },
		BuiltinOpts{})
}

func divInt(_ *Env, ast ASTNode, a []Value) Value {
	if a[1].Int() == 0 {
		Errorf(ast.Pos(), "/: division by zero")
		return ErrorValue
	}
	return NewInt(a[0].Int() / a[1].Int())
}

func remInt(_ *Env, ast ASTNode, a []Value) Value {
	if a[1].Int() == 0 {
		Errorf(ast.Pos(), "%%: division by zero")
		return ErrorValue
	}
	return NewInt(a[0].Int() % a[1].Int())
}

// numVariant is one type-specific signature of a typed-overloaded builtin
// (e.g. the Int, Float, and Double forms of `+`).
type numVariant struct {
	argA, argB, ret *Type
	callback        FuncCallback
}

// registerNumericBuiltin combines several same-shaped, differently-typed
// builtin signatures under a single parsing Form, registering the result as
// an Intersect Value. This differs from RegisterBuiltinOverloads (used by
// `if`/`if-else`, form.go's Mangle distinguishing them by keyword pattern):
// here every variant shares the identical parameter shape (self, lhs, rhs),
// so there is exactly one way to parse a call and only the argument types
// differ — dispatch among them happens at call time via ResolveCall's
// per-argument type scoring (overload.go), not via distinct mangled forms.
func registerNumericBuiltin(name, desc string, precedence int64, assoc Associativity, params []Param, variants []numVariant) {
	id := symbol.Intern(name)
	if _, ok := globalFrame.lookup(id); ok {
		Panicf(NoPos, "registerNumericBuiltin: %s already registered", name)
	}
	members := make([]*Type, len(variants))
	entries := make(map[*Type]Value, len(variants))
	for i, variant := range variants {
		argType := TTuple([]*Type{variant.argA, variant.argB}, false)
		f := &Func{
			name:        id,
			ast:         NewASTUnknown(NoPos, TFunc(argType, variant.ret, false), id),
			builtin:     true,
			argType:     argType,
			retType:     variant.ret,
			callback:    variant.callback,
			description: desc,
			hash:        hash.String("builtin:" + name + ":" + variant.argA.Key() + "," + variant.argB.Key()),
		}
		v := NewFunc(f)
		members[i] = v.Type()
		entries[v.Type()] = v
	}
	typ := TIntersect(members)
	merged := NewIntersect(typ, entries).WithForm(FCallable(precedence, assoc, NewCallable(params, nil)))
	globalFrame.set(id, merged)
}
