package basil

// GroupResult is the outcome of grouping a run of terms starting at some
// position: the grouped Value and the index just past what was consumed
// (spec.md §4.3). Grounded on original_source/compiler/eval.cpp's
// GroupResult/try_group/next_group, rendered as an explicit index-based
// walk over a slice instead of C++ list iterators.
type GroupResult struct {
	Value Value
	Next  int
}

// GroupError reports that no callable in a form's state machine could be
// driven to an accepting state (spec.md §4.3 "the grouper returns a
// GroupError carrying the list of callables with the deepest advances
// prefix").
type GroupError struct {
	Candidates []*Callable
	HeadPos    Pos
	HeadDesc   string
}

func (e *GroupError) Error() string {
	return e.HeadPos.String() + ": couldn't figure out how to apply '" + e.HeadDesc + "'"
}

// groupState threads the macro-range deferral state through a single call
// to Group (spec.md §4.3 "Macro deferral"). macroFound set on return would
// mean grouping saw a macro-headed subgroup; the caller (resolve_form) is
// then responsible for wrapping the remainder as `(splice ...)` for a later
// expansion pass. Deferral is a stub in this rendering — see DESIGN.md's
// grouper entry.
type groupState struct {
	macroFound bool
}

// Group walks terms[idx:] producing the next grouped term, honoring
// outerAssoc/outerPrec for infix continuation (spec.md §4.3 steps 1-3).
// Terms must already have forms resolvable via ResolveForm.
func Group(env *Env, terms []Value, idx int, outerAssoc Associativity, outerPrec int64) (GroupResult, *GroupError) {
	if idx >= len(terms) {
		Panicf(NoPos, "Group: called on empty range")
	}
	term := ResolveForm(env, terms[idx])
	// A list term stands as an atom (spec.md §4.3 step 2): its form describes
	// the application it already is, not a fresh prefix case to start — so
	// only non-list terms (operator/function symbols) open a state machine.
	for term.Type().Kind != KList && term.Form() != nil && term.Form().HasPrefixCase() {
		sm := term.Form().Start()
		sm.Advance(term)
		params := []Value{term}
		gr, gerr := tryGroup(env, params, sm, terms, idx+1, outerAssoc, term.Form().Precedence)
		if gerr == nil {
			term = ResolveForm(env, gr.Value)
			idx = gr.Next
			continue
		}
		if len(params) == 1 {
			idx++
			break
		}
		return GroupResult{}, gerr
	}

	result := GroupResult{Value: term, Next: idx + 1}
	// Infix continuation (spec.md §4.3 step 3).
	for result.Next < len(terms) {
		op := ResolveForm(env, terms[result.Next])
		if op.Form() == nil || !op.Form().HasInfixCase() {
			break
		}
		prec := op.Form().Precedence
		if !(prec > outerPrec || (prec == outerPrec && op.Form().Assoc == AssocRight)) {
			break
		}
		// The emitted group is prefix-normalized: the operator leads, matching
		// the ToPrefix'd machine's own slot order, so `a + b` groups as
		// (+ a b) and downstream evaluation never has to re-find the head.
		sm := op.Form().ToPrefix().Start()
		sm.Advance(op)
		sm.Advance(result.Value)
		params := []Value{op, result.Value}
		gr, gerr := tryGroup(env, params, sm, terms, result.Next+1, outerAssoc, prec)
		if gerr != nil {
			return GroupResult{}, gerr
		}
		result = gr
	}
	return result, nil
}

// tryGroup drives sm across terms[idx:], recording the last accepting
// match (maximal munch), and recursively groups non-keyword, non-term
// parameters via Group itself (spec.md §4.3's try_group).
func tryGroup(env *Env, params []Value, sm StateMachine, terms []Value, idx int, outerAssoc Associativity, outerPrec int64) (GroupResult, *GroupError) {
	var bestParams []Value
	var bestCallable *Callable
	bestNext := -1
	record := func() {
		if m, ok := sm.Match(); ok {
			bestParams = append([]Value{}, params...)
			bestCallable = m
			bestNext = idx
		}
	}
	record()

	for !sm.IsFinished() && idx < len(terms) {
		v := terms[idx]
		switch {
		case v.Type() == SymbolT && sm.PrecheckKeyword(v):
			params = append(params, v)
			sm.Advance(v)
			idx++
		case sm.PrecheckTerm(v):
			params = append(params, v)
			sm.Advance(v)
			idx++
		default:
			gr, gerr := Group(env, terms, idx, outerAssoc, outerPrec)
			if gerr != nil {
				return GroupResult{}, gerr
			}
			params = append(params, gr.Value)
			sm.Advance(gr.Value)
			idx = gr.Next
		}
		record()
	}

	if bestNext < 0 {
		return GroupResult{}, &GroupError{Candidates: gatherCallables(sm), HeadPos: params[0].Pos(), HeadDesc: params[0].String()}
	}

	self := bestParams[0]
	var newForm *Form
	if f := self.Form(); f != nil {
		newForm = FCallable(f.Precedence, f.Assoc, bestCallable)
		newForm.IsMacroForm = f.IsMacroForm
	}
	pos := bestParams[0].Pos()
	for _, p := range bestParams[1:] {
		pos = Span(pos, p.Pos())
	}
	result := NewList(Any, bestParams).WithPos(pos).WithForm(newForm)
	return GroupResult{Value: ResolveForm(env, result), Next: bestNext}, nil
}

func gatherCallables(sm StateMachine) []*Callable {
	switch s := sm.(type) {
	case *Callable:
		return []*Callable{s}
	case *Overloaded:
		best := -1
		var out []*Callable
		for _, c := range s.active {
			if c.advances > best {
				out = out[:0]
				best = c.advances
			}
			if c.advances == best {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// GroupSequence groups an entire flat list of terms into a single nested
// list, repeatedly grouping from the left at precedence -inf (spec.md
// §4.3's top-level entry point; used by resolve_form on a List value).
func GroupSequence(env *Env, terms []Value) (Value, *GroupError) {
	if len(terms) == 0 {
		return NewEmptyList(Any), nil
	}
	var out []Value
	idx := 0
	for idx < len(terms) {
		gr, gerr := Group(env, terms, idx, AssocLeft, minPrecedence)
		if gerr != nil {
			return Value{}, gerr
		}
		out = append(out, gr.Value)
		idx = gr.Next
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return NewList(Any, out), nil
}

const minPrecedence = -1 << 62
