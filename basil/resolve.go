package basil

// ResolveForm fills in v's form, lazily and idempotently (spec.md §4.4
// "resolve_form"). A Value that already carries a form is returned
// unchanged — this is what lets backtracking during grouping re-read
// already-resolved subterms cheaply (spec.md §5 "Ordering").
func ResolveForm(env *Env, v Value) Value {
	if v.Form() != nil {
		return v
	}
	switch v.Type().Kind {
	case KSymbol:
		if val, ok := env.Lookup(v.Symbol()); ok {
			if val.Form() != nil {
				return v.WithForm(val.Form())
			}
			return v.WithForm(InferForm(val.Type()))
		}
		return v.WithForm(FTerm)
	case KList:
		return resolveListForm(env, v)
	default:
		return v.WithForm(FTerm)
	}
}

// resolveListForm groups a flat term sequence (spec.md §4.3), then assigns
// the resulting application's own form by inspecting its head (spec.md
// §4.4's list case).
func resolveListForm(env *Env, v Value) Value {
	items := v.ListItems()
	if len(items) == 0 {
		return v.WithForm(FTerm)
	}
	grouped, gerr := GroupSequence(env, items)
	if gerr != nil {
		d := Diagf(CategoryGrouping, gerr.HeadPos, "%s", gerr.Error())
		for _, c := range gerr.Candidates {
			d.WithNote(gerr.HeadPos, "candidate: %s", c.Describe())
		}
		return v.WithForm(FTerm)
	}
	if grouped.Form() != nil {
		return grouped
	}
	return formForApplication(env, grouped)
}

// formForApplication determines the form of a grouped application value
// by inspecting its head: a callable head with a FormCallback gets the
// callback's dynamically-resolved form; a head resolving to a user
// function gets that function's inferred form; otherwise Term (spec.md
// §4.4). The user-function case is InferForm over the function's type, not
// the per-argument-form resolve_body walk — the same per-Func narrowing the
// InstTable makes (see instantiate.go and DESIGN.md): a def-created
// function's arguments only ever carry arity-based forms here, so the walk
// would collect nothing InferForm doesn't already encode.
func formForApplication(env *Env, v Value) Value {
	if v.Type().Kind != KList || v.ListEmpty() {
		return v.WithForm(FTerm)
	}
	head := ResolveForm(env, v.ListHead())
	hf := head.Form()
	if hf == nil {
		return v.WithForm(FTerm)
	}
	if hf.Kind == FKCallable {
		if c, ok := hf.Invokable.(*Callable); ok && c.Callback != nil {
			if f := c.Callback(env, v); f != nil {
				return v.WithForm(f)
			}
		}
	}
	if head.Type().Kind == KSymbol {
		if val, ok := env.Lookup(head.Symbol()); ok && val.Type().Kind == KFunction {
			return v.WithForm(InferForm(val.Type()))
		}
	}
	return v.WithForm(FTerm)
}
