package basil

import "github.com/basilTeam/basil/symbol"

// FnInst is one monomorphization of a user function body, specialized to
// a concrete argument type (spec.md §4.8 "FnInst").
type FnInst struct {
	ArgsType *Type
	Env      *Env
	AST      *ASTFunc
}

// InstTable memoizes a user function's form-resolved body and its
// per-argument-type monomorphizations (spec.md §4.8 "InstTable"). There is
// one table per Func (see resolveInstTable); Insts is keyed by argument
// type key.
type InstTable struct {
	// Env is the resolution-time environment (the function's closure
	// extended with Undefined parameter bindings).
	Env *Env
	// Base is the form-resolved body, shared across every instantiation. It
	// is still a syntax term (not lowered IR) — each instantiation re-`eval`s
	// it fresh against its own extended Env.
	Base Value

	Insts map[string]*FnInst // keyed by args_type.Key()
	// IsInst is a recursion guard: nonzero while a monomorphization for a
	// given args type is in progress (spec.md §4.8's "is_inst: multiset").
	IsInst map[string]int
}

func newInstTable(env *Env, base Value) *InstTable {
	return &InstTable{Env: env, Base: base, Insts: map[string]*FnInst{}, IsInst: map[string]int{}}
}

// resolveInstTable lazily builds f's InstTable by cloning its environment,
// defining each parameter as Undefined, and running form resolution over a
// clone of the body (spec.md §4.8 "On the first call with a new form
// tuple"). Basil's grouper/resolver operate over a single textual body per
// function (no per-call-site body specialization prior to argument types),
// so in this rendering InstTable is built once per Func, the first time it
// is needed.
func (f *Func) resolveInstTable() *InstTable {
	if f.inst != nil {
		return f.inst
	}
	env := f.env.Clone()
	env.PushScope()
	for _, p := range f.params {
		env.Bind(p, NewUndefined())
	}
	base := ResolveForm(env, f.body)
	f.inst = newInstTable(env, base)
	return f.inst
}

// Monomorphize produces (or retrieves from cache) a concrete, lowered AST
// body of f specialized to argsType (spec.md §4.8 "monomorphize").
func Monomorphize(f *Func, callAST ASTNode, argsType *Type) (*FnInst, bool) {
	table := f.resolveInstTable()

	lowered, ok := TLower(argsType)
	if !ok {
		Errorf(callAST.Pos(), "cannot instantiate %s: argument type %s has no runtime representation", f.DisplayName(), argsType)
		return nil, false
	}
	key := lowered.Key()

	if inst, ok := table.Insts[key]; ok {
		return inst, true
	}
	if table.IsInst[key] > 0 {
		// Simultaneous instantiation for the same args type: the caller
		// must emit a call to the in-progress stub rather than re-enter
		// (spec.md §4.8 closing paragraph).
		return nil, false
	}
	table.IsInst[key]++
	defer func() { table.IsInst[key]-- }()

	instEnv := table.Env.Clone()
	instEnv.PushScope()
	paramNames := append([]symbol.ID{}, f.params...)
	argMembers := tupleMembers(lowered)
	for i, p := range paramNames {
		instEnv.Bind(p, NewRuntime(NewASTUnknown(callAST.Pos(), argMembers[i], p)))
	}

	retVar := TVar(symbol.Invalid)
	if f.name != symbol.Invalid {
		// A stub AST, not a function value: a recursive reference compiles
		// as a runtime call against the in-progress instantiation instead of
		// trying to instantiate it again (spec.md §4.8 step 3).
		stubType := TFunc(lowered, retVar, f.macro)
		instEnv.Bind(f.name, NewRuntime(NewASTUnknown(callAST.Pos(), stubType, f.name)))
		table.Insts[key] = &FnInst{ArgsType: lowered, Env: instEnv}
	}

	perf.EnterInstantiating()
	bodyVal := eval(instEnv, cloneBody(table.Base))
	bodyVal = Lower(instEnv, bodyVal)
	if bodyVal.IsError() {
		return nil, false
	}
	bodyAST := bodyVal.RuntimeAST()

	retType := f.retType
	if retType == nil || retType == Any {
		retType = bodyAST.Type()
	} else if !CoercesTo(bodyAST.Type(), retVar) && !CoercesTo(bodyAST.Type(), retType) {
		Errorf(callAST.Pos(), "%s: body type %s does not coerce to declared return type %s", f.DisplayName(), bodyAST.Type(), retType)
		return nil, false
	}

	fnAST := NewASTFunc(callAST.Pos(), TFunc(lowered, retType, f.macro), f.name, paramNames, bodyAST)
	inst := &FnInst{ArgsType: lowered, Env: instEnv, AST: fnAST}
	table.Insts[key] = inst
	return inst, true
}

// cloneBody returns v itself: spec.md §4.8 step 4 calls for a "deep-clone"
// of the base body before each re-evaluation, but every Value in this
// rendering is an immutable, by-value struct (composite payloads are
// reference-counted copy-on-write, per §5's resource discipline), so plain
// assignment already gives each instantiation an independent view.
func cloneBody(v Value) Value {
	return v
}

// MergeDefs combines a fresh definition with whatever is already bound to
// the same name (spec.md §4.8 "merge_defs"), implementing `def`'s
// multi-definition rule: undefined is replaced outright; a redefinition
// under an identical signature replaces in place (plain shadowing); a
// differing signature lifts both into an overloaded intersect; and a
// fresh overload added to an already-overloaded name grows that intersect.
// Returns false (with a diagnostic already reported) on a mangling
// collision, which spec.md calls out as a hard error.
func MergeDefs(existing, fresh Value) (Value, bool) {
	if existing.Type() == nil || existing.Type().Kind == KUndefined {
		return fresh, true
	}
	switch existing.Type().Kind {
	case KFunction:
		if fresh.Type().Kind != KFunction {
			Errorf(NoPos, "cannot redefine %s: existing definition is a function, new one is not", existing)
			return ErrorValue, false
		}
		if sameForm(existing.Form(), fresh.Form()) {
			return fresh, true
		}
		return liftIntersect([]Value{existing, fresh})
	case KIntersect:
		if fresh.Type().Kind != KFunction {
			Errorf(NoPos, "cannot add overload: new definition is not a function")
			return ErrorValue, false
		}
		members := existing.IntersectMembers()
		values := make([]Value, 0, len(members)+1)
		for _, m := range members {
			v, ok := existing.IntersectMember(m)
			if !ok {
				Panicf(NoPos, "MergeDefs: intersect member %s missing from its own value", m)
			}
			values = append(values, v)
		}
		values = append(values, fresh)
		return liftIntersect(values)
	default:
		// Plain (non-function) redefinition: last writer wins, matching
		// `def x 1` followed by `def x 2` rebinding x outright.
		return fresh, true
	}
}

// sameForm reports whether two forms describe an identical call signature:
// same mangled parameter pattern, precedence, and associativity. Forms with
// no Callable invokable (e.g. plain terms) are compared by identity.
func sameForm(a, b *Form) bool {
	if a == nil || b == nil {
		return a == b
	}
	ac, aok := a.Invokable.(*Callable)
	bc, bok := b.Invokable.(*Callable)
	if !aok || !bok {
		return a == b
	}
	return ac.Mangle() == bc.Mangle() && a.Precedence == b.Precedence && a.Assoc == b.Assoc
}

// liftIntersect builds a type-level intersect Value out of several
// same-named function definitions with distinct signatures, rejecting a
// mangling collision as a hard error (spec.md §4.8: "Adding an overload
// with the same mangled signature is a hard error").
func liftIntersect(values []Value) (Value, bool) {
	members := make([]*Type, len(values))
	entries := make(map[*Type]Value, len(values))
	callables := make([]*Callable, 0, len(values))
	seen := map[symbol.ID]bool{}
	for i, v := range values {
		c, ok := v.Form().Invokable.(*Callable)
		if !ok {
			Errorf(NoPos, "cannot overload %s: not a plain callable signature", v)
			return ErrorValue, false
		}
		m := c.Mangle()
		if seen[m] {
			Errorf(NoPos, "overload of %s collides with an existing signature", v)
			return ErrorValue, false
		}
		seen[m] = true
		members[i] = v.Type()
		entries[v.Type()] = v
		callables = append(callables, c)
	}
	typ := TIntersect(members)
	macro, consistent := firstMacroness(members)
	if !consistent {
		macro = false
	}
	form := FOverloaded(values[0].Form().Precedence, values[0].Form().Assoc, NewOverloaded(callables))
	form.IsMacroForm = macro
	return NewIntersect(typ, entries).WithForm(form), true
}
