package basil

// eval dispatches a form-resolved Value per spec.md §4.5. Scalars, strings
// and void reduce to themselves; a symbol resolves through env (producing
// either its bound value, a Runtime variable reference, or an Undefined
// error); a list either stands alone (single-element, head only) or
// drives its callable head's parameter state machine to assemble an
// argument bag for call().
func eval(env *Env, v Value) Value {
	if v.IsError() {
		return v
	}
	v = ResolveForm(env, v)
	switch v.Type().Kind {
	case KInt, KFloat, KDouble, KBool, KChar, KString, KVoid, KType, KUndefined:
		return v
	case KSymbol:
		return evalSymbol(env, v)
	case KList:
		return evalList(env, v)
	default:
		return v
	}
}

func evalSymbol(env *Env, v Value) Value {
	val, ok := env.Lookup(v.Symbol())
	if !ok {
		Errorf(v.Pos(), "undefined variable %q", v.Symbol().Str())
		return ErrorValue
	}
	if val.Type().Kind == KUndefined {
		Errorf(v.Pos(), "variable %q used before definition", v.Symbol().Str())
		return ErrorValue
	}
	if val.Type().Kind == KTVar {
		resolved := resolveTVars(val.Type())
		if resolved.Kind != KTVar {
			return NewType(resolved)
		}
	}
	if val.Type().Kind == KRuntime {
		return NewRuntime(NewASTVariable(v.Pos(), val.Type().Elem, v.Symbol()))
	}
	return val.WithPos(v.Pos())
}

func evalList(env *Env, v Value) Value {
	if v.ListEmpty() {
		return v
	}
	items := v.ListItems()
	head := eval(env, items[0])
	if head.IsError() {
		return ErrorValue
	}
	if len(items) == 1 {
		return head.WithForm(InferForm(head.Type()))
	}
	switch head.Type().Kind {
	case KFunction, KIntersect, KRuntime:
	default:
		Errorf(v.Pos(), "value %s is not callable", head)
		return ErrorValue
	}
	callable := callCallable(env, v, items[0])
	args, variadicBuilt := assembleArgs(env, callable, items[1:])
	if args == nil && !variadicBuilt {
		return ErrorValue
	}
	return call(env, v, head, args)
}

// callCallable picks the Callable whose parameter list classifies the call's
// tail terms. A grouped list already carries the single callable the grouper
// matched (including the winning overload of an overloaded form); a hand-built
// prefix list falls back to the head's own form, normalized through ToPrefix
// so Parameters[0] is always the Self slot as assembleArgs assumes.
func callCallable(env *Env, callTerm, headTerm Value) *Callable {
	if f := callTerm.Form(); f != nil && f.Kind == FKCallable {
		if c, ok := f.Invokable.(*Callable); ok {
			return c
		}
	}
	headTerm = ResolveForm(env, headTerm)
	f := headTerm.Form()
	if f == nil || !f.IsInvokable() {
		return nil
	}
	f = f.ToPrefix()
	switch inv := f.Invokable.(type) {
	case *Callable:
		return inv
	case *Overloaded:
		if len(inv.Overloads) > 0 {
			return inv.Overloads[0]
		}
	}
	return nil
}

// assembleArgs classifies each tail term by the callable's current
// parameter role, evaluating everything except Term/Quoted parameters and
// collecting variadics into a single List value (spec.md §4.5 bullet 3).
// It returns the final argument Values, one per non-Self/Keyword
// parameter slot (after folding any variadic run into one list arg).
func assembleArgs(env *Env, c *Callable, tail []Value) ([]Value, bool) {
	if c == nil {
		if len(tail) != 0 {
			Errorf(NoPos, "callable expects zero args but got %d", len(tail))
			return nil, false
		}
		return nil, true
	}
	var args []Value
	var variadicItems []Value
	var variadicElem *Type
	flushVariadic := func() {
		if variadicElem == nil {
			variadicElem = Any
		}
		args = append(args, NewList(variadicElem, variadicItems))
		variadicItems = nil
		variadicElem = nil
	}
	inVariadic := false
	idx := 0
	// c.Parameters[0] is always Self (to_prefix guarantees this for any
	// invokable form), and tail is items[1:] — the terms matched against
	// c.Parameters[1:] one-for-one, including keyword slots, which still
	// consume a tail position (the literal keyword symbol) even though they
	// contribute nothing to the assembled argument list.
	for _, p := range c.Parameters[1:] {
		if idx >= len(tail) {
			break
		}
		term := tail[idx]
		if p.Kind == PKKeyword {
			idx++
			continue
		}
		if p.Kind.IsVariadic() {
			inVariadic = true
			var val Value
			if p.Kind.IsEvaluated() {
				val = eval(env, term)
			} else {
				val = term
			}
			if val.IsError() {
				return nil, false
			}
			variadicItems = append(variadicItems, val)
			if variadicElem == nil {
				variadicElem = val.Type()
			} else if val.Type().Key() != variadicElem.Key() {
				variadicElem = TUnion([]*Type{variadicElem, val.Type()})
			}
			idx++
			continue
		}
		if inVariadic {
			flushVariadic()
			inVariadic = false
		}
		var val Value
		if p.Kind.IsEvaluated() {
			val = eval(env, term)
		} else {
			val = term
		}
		if val.IsError() {
			return nil, false
		}
		args = append(args, val)
		idx++
	}
	if inVariadic {
		flushVariadic()
	}
	return args, true
}

// argsBag packages a []Value argument list into the single Value spec
// §4.5 calls "the argument bag": the lone value for arity 1, a Tuple
// otherwise.
func argsBag(args []Value) Value {
	if len(args) == 1 {
		return args[0]
	}
	return NewTuple(args, false)
}
