package basil

import "github.com/basilTeam/basil/symbol"

// call implements spec.md §4.5's call sequence: enforce the perf budget,
// resolve overloads if the callee is an intersect, decide whether the call
// must emit runtime code, coerce arguments, and dispatch to a builtin, a
// user function (directly, or via monomorphization), or a runtime call node
// referencing an already-runtime closure.
func call(env *Env, callTerm Value, funcVal Value, args []Value) Value {
	perf.BeginCall(callTerm.Pos(), calleeName(funcVal))
	defer perf.EndCall()
	if perf.Exceeded() {
		return ErrorValue
	}
	perf.Tick()

	argsType := stripRuntime(argsBag(args).Type())

	if funcVal.Type().Kind == KRuntime {
		retType := Any
		if elem := funcVal.Type().Elem; elem.Kind == KFunction {
			retType = elem.Ret
		}
		return emitCallNode(env, callTerm, funcVal.RuntimeAST(), args, retType)
	}

	fnType := funcVal.Type()
	var fn *Func
	var paramType, retType *Type

	switch fnType.Kind {
	case KIntersect:
		res := ResolveCall(narrowByForm(callTerm, funcVal, fnType), argsType)
		switch {
		case res.Ambiguous:
			Errorf(callTerm.Pos(), "ambiguous call: %d candidates tie for best match", len(res.Candidates))
			return ErrorValue
		case res.Resolved != nil:
			member, ok := funcVal.IntersectMember(res.Resolved)
			if !ok {
				Panicf(callTerm.Pos(), "call: resolved overload %s missing from intersect value", res.Resolved)
			}
			fn = member.AsFunc()
			paramType, retType = res.Resolved.Arg, res.Resolved.Ret
		case res.Narrowed != nil:
			return emitOverloadDispatch(env, callTerm, args, res.Narrowed)
		default:
			Errorf(callTerm.Pos(), "no overload of %s matches argument type %s", calleeName(funcVal), argsType)
			return ErrorValue
		}
	case KFunction:
		fn = funcVal.AsFunc()
		paramType, retType = fnType.Arg, fnType.Ret
	default:
		Panicf(callTerm.Pos(), "call: value of type %s is not callable", fnType)
	}

	isRuntime := anyRuntime(args)
	if fn.RuntimeOnly() {
		isRuntime = true
	}
	if fn.StatefulOutsideMeta() && !perf.InMeta() {
		isRuntime = true
	}

	coerced, ok := coerceArgs(env, args, paramType)
	if !ok {
		return ErrorValue
	}

	callAST := callSiteAST(callTerm, fnType)

	if fn.Builtin() {
		// A Preserving builtin (spec.md §4.5 step 5: "suppress that
		// pre-evaluation") owns its own Term/Quoted arguments raw — it
		// decides for itself, inside its single callback, whether to reduce
		// at compile time or build a runtime AST node (e.g. `if` inspecting
		// whether its condition came back Runtime). Generic emitCallNode
		// would instead try to Lower those still-unevaluated terms, which
		// isn't even meaningful for them, so such builtins always run their
		// callback directly regardless of isRuntime.
		if isRuntime && !fn.Preserving() {
			return emitCallNode(env, callTerm, NewASTUnknown(callTerm.Pos(), fnType, fn.Name()), coerced, retType)
		}
		result := fn.Eval(env, callAST, coerced)
		if result.IsError() && perf.WasExceeded() {
			return emitCallNode(env, callTerm, NewASTUnknown(callTerm.Pos(), fnType, fn.Name()), coerced, retType)
		}
		return result
	}

	// User function (spec.md §4.5 step 6 "User function"): stay at compile
	// time unless the call must emit, or the call is a self-recursive loop
	// the perf governor would otherwise unfold forever.
	if isRuntime || perf.SelfRecursive(calleeName(funcVal)) {
		return instantiateUser(env, callTerm, fn, coerced, retType)
	}
	result := fn.Eval(env, callAST, coerced)
	if perf.Exceeded() {
		return instantiateUser(env, callTerm, fn, coerced, retType)
	}
	return result
}

// narrowByForm restricts a form-level intersect to the members whose own
// form mangles to the same signature the grouper matched for this call
// (spec.md §4.5 step 2: "narrow by call_term.form to the single overload
// that matches"). Members carrying no form of their own (e.g. the per-type
// variants of one operator, which share a single parsing form) can't be
// distinguished this way and are all kept.
func narrowByForm(callTerm, funcVal Value, fnType *Type) *Type {
	cf := callTerm.Form()
	if cf == nil || cf.Kind != FKCallable {
		return fnType
	}
	cc, ok := cf.Invokable.(*Callable)
	if !ok {
		return fnType
	}
	mangled := cc.Mangle()
	var matching []*Type
	for _, m := range fnType.Members {
		v, ok := funcVal.IntersectMember(m)
		if !ok {
			continue
		}
		vf := v.Form()
		if vf == nil {
			continue
		}
		if vc, ok := vf.Invokable.(*Callable); ok && vc.Mangle() == mangled {
			matching = append(matching, m)
		}
	}
	if len(matching) == 0 {
		return fnType
	}
	return TIntersect(matching)
}

func calleeName(funcVal Value) string {
	switch funcVal.Type().Kind {
	case KRuntime:
		return "<runtime>"
	case KFunction:
		return funcVal.AsFunc().DisplayName()
	case KIntersect:
		return "<overloaded>"
	default:
		return "<callee>"
	}
}

// callSiteAST builds a synthetic node for a call's position/type, used only
// so builtins can report diagnostics against the call site (spec.md §4.6
// builtin bodies take `ast ASTNode` for exactly this).
func callSiteAST(callTerm Value, typ *Type) ASTNode {
	name := symbol.Invalid
	if callTerm.Type().Kind == KList && !callTerm.ListEmpty() {
		if head := callTerm.ListHead(); head.Type().Kind == KSymbol {
			name = head.Symbol()
		}
	}
	return NewASTUnknown(callTerm.Pos(), typ, name)
}

// stripRuntime removes Runtime wrapping before overload scoring, recursing
// into tuples so a mixed compile-time/runtime argument list still scores
// against the underlying (non-Runtime) parameter types (spec.md §4.5 step 2).
func stripRuntime(t *Type) *Type {
	switch t.Kind {
	case KRuntime:
		return stripRuntime(t.Elem)
	case KTuple:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = stripRuntime(m)
		}
		return TTuple(members, t.Incomplete)
	default:
		return t
	}
}

func anyRuntime(args []Value) bool {
	for _, a := range args {
		if a.Type().Kind == KRuntime {
			return true
		}
	}
	return false
}

// coerceArgs coerces each argument to its parameter type (spec.md §4.5
// step 5).
func coerceArgs(env *Env, args []Value, paramType *Type) ([]Value, bool) {
	params := tupleMembers(paramType)
	if len(params) != len(args) {
		Errorf(NoPos, "argument count mismatch: expected %d, got %d", len(params), len(args))
		return nil, false
	}
	out := make([]Value, len(args))
	for i, a := range args {
		c := Coerce(env, a, params[i])
		if c.IsError() {
			Errorf(a.Pos(), "argument %d: cannot coerce %s to %s", i, a.Type(), params[i])
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

// instantiateUser monomorphizes fn at the lowered argument type and emits a
// call to the instantiation (spec.md §4.5 step 6, §4.8). The instantiated
// ASTFunc body is retained in fn's InstTable for the (external) backend to
// collect; what's emitted here is just a reference to it by name.
func instantiateUser(env *Env, callTerm Value, fn *Func, args []Value, declaredRet *Type) Value {
	argsType := argsBag(args).Type()
	stubType := TFunc(argsType, declaredRet, fn.IsMacro())
	callAST := callSiteAST(callTerm, stubType)
	inst, ok := Monomorphize(fn, callAST, argsType)
	if !ok {
		// Simultaneous instantiation in progress (spec.md §4.8 closing
		// paragraph): emit a call against the stub already bound under fn's
		// name, to be patched once the in-progress instantiation finishes.
		return emitCallNode(env, callTerm, NewASTUnknown(callTerm.Pos(), stubType, fn.Name()), args, declaredRet)
	}
	return emitCallNode(env, callTerm, NewASTUnknown(callTerm.Pos(), inst.AST.Type(), inst.AST.Name), args, inst.AST.Type().Ret)
}

// emitCallNode lowers every argument and wraps a call to calleeAST as a
// Runtime value (spec.md §4.5 step 6's runtime dispatch cases).
func emitCallNode(env *Env, callTerm Value, calleeAST ASTNode, args []Value, retType *Type) Value {
	argASTs := make([]ASTNode, len(args))
	for i, a := range args {
		la := Lower(env, a)
		if la.IsError() {
			return ErrorValue
		}
		argASTs[i] = la.RuntimeAST()
	}
	return NewRuntime(NewASTCall(callTerm.Pos(), retType, calleeAST, argASTs))
}

// emitOverloadDispatch handles the "resolved intersect, narrowed" dispatch
// kind (spec.md §4.5 step 6): the emitted call carries every tied candidate
// so the (external) backend can pick the concrete target once the argument
// types are fully known (spec.md §9 "Overloaded intersections at the call
// site").
func emitOverloadDispatch(env *Env, callTerm Value, args []Value, narrowed *Type) Value {
	argASTs := make([]ASTNode, len(args))
	for i, a := range args {
		la := Lower(env, a)
		if la.IsError() {
			return ErrorValue
		}
		argASTs[i] = la.RuntimeAST()
	}
	callNode := &ASTCall{
		astBase:   astBase{pos: callTerm.Pos(), typ: narrowed},
		Args:      argASTs,
		Overloads: map[string]ASTNode{},
	}
	for _, m := range narrowed.Members {
		callNode.Overloads[m.Key()] = NewASTUnknown(callTerm.Pos(), m, symbol.Invalid)
	}
	return NewRuntime(callNode)
}
