package basil

import "github.com/basilTeam/basil/symbol"

// CoercesTo implements the coercion relation A -> B from spec.md §3. It may
// bind type variables reachable from b. This is the rendering, as a Go type
// switch, of original_source/compiler/type.cpp's per-Class coerces_to
// dispatch (spec.md §9 design note).
func CoercesTo(a, b *Type) bool {
	return coercesTo(a, b, false)
}

// CoercesToGeneric is the binding-aware variant that recurses into
// composites without widening numerics or accepting runtime wrapping
// (spec.md §3 "Generic coercion").
func CoercesToGeneric(a, b *Type) bool {
	return coercesToGeneric(a, b)
}

// NonbindingCoercesTo evaluates CoercesTo with tvar binding suppressed
// (spec.md §4.1 "nonbinding_coerces_to"), used to score overload candidates
// without committing bindings.
func NonbindingCoercesTo(a, b *Type) bool {
	EnterNonbindingMode()
	defer ExitNonbindingMode()
	return coercesTo(a, b, false)
}

func coercesTo(a, b *Type, generic bool) bool {
	a = resolveTVars(a)
	b = resolveTVars(b)

	// Identity.
	if a.key == b.key {
		return true
	}
	// To Any.
	if b.Kind == KAny {
		return true
	}
	// To Error; Error absorbs.
	if b.Kind == KError || a.Kind == KError {
		return true
	}

	switch {
	case b.Kind == KTVar:
		return bindTVar(b, a)
	case a.Kind == KTVar:
		// An abstract source only coerces to a concrete target by binding the
		// variable to that target (spec.md §3 "tvar: if concrete, delegate; if
		// abstract, binding is attempted").
		return bindTVar(a, b)
	}

	if !generic {
		// Numeric widening: Int -> Float -> Double, Int -> Double.
		if a.Kind.LikeNumber() && b.Kind.LikeNumber() {
			rank := func(k Kind) int {
				switch k {
				case KInt:
					return 0
				case KFloat:
					return 1
				case KDouble:
					return 2
				}
				return -1
			}
			if rank(a.Kind) <= rank(b.Kind) {
				return true
			}
		}
	}

	switch a.Kind {
	case KVoid:
		// Void -> any list.
		if b.Kind == KList {
			return true
		}
	case KList:
		if b.Kind == KList {
			return elemCoerces(a.Elem, b.Elem, generic)
		}
	case KArray:
		if b.Kind == KArray {
			if !elemCoerces(a.Elem, b.Elem, generic) {
				return false
			}
			// sized -> unsized ok; sized -> differently-sized not ok.
			if b.ArraySize == nil {
				return true
			}
			return a.ArraySize != nil && *a.ArraySize == *b.ArraySize
		}
	case KTuple:
		if b.Kind == KTuple {
			return tupleCoerces(a, b, generic)
		}
	case KUnion:
		// Union coerces to superset.
		if b.Kind == KUnion {
			for _, m := range a.Members {
				if !memberOf(m, b.Members, generic) {
					return false
				}
			}
			return true
		}
	case KStruct:
		if b.Kind == KStruct {
			return structCoerces(a, b, generic)
		}
	case KFunction:
		if b.Kind == KFunction {
			// Invariant, but generic-coercion recurses elementwise.
			if generic {
				return coercesToGeneric(b.Arg, a.Arg) && coercesToGeneric(a.Ret, b.Ret)
			}
			return a.Arg.key == b.Arg.key && a.Ret.key == b.Ret.key
		}
	case KNamed:
		return coercesTo(a.Elem, b, generic)
	case KIntersect:
		// Intersect[T…] coerces to any of its members.
		for _, m := range a.Members {
			if coercesTo(m, b, generic) {
				return true
			}
		}
		return false
	}

	// Any T coerces to a union containing T.
	if b.Kind == KUnion {
		return memberOf(a, b.Members, generic)
	}

	// runtime(T) <-> T, outside generic mode only: T -> Runtime(T) is the lift
	// (lowering produces the Runtime value), and Runtime(T) -> T is accepted as
	// a type check only: Coerce keeps such a value Runtime and defers any
	// conversion to an ASTCoerce node, so nothing here unwraps it.
	if !generic && b.Kind == KRuntime {
		return coercesTo(a, b.Elem, generic)
	}
	if !generic && a.Kind == KRuntime {
		return coercesTo(a.Elem, b, generic)
	}

	return false
}

func elemCoerces(a, b *Type, generic bool) bool {
	if generic {
		return coercesToGeneric(a, b)
	}
	return a.key == b.key || coercesTo(a, b, false) && coercesTo(b, a, false)
}

func tupleCoerces(a, b *Type, generic bool) bool {
	// Elementwise, from complete to incomplete, never smaller-complete, never
	// growing-complete.
	if b.Incomplete {
		if len(a.Members) < len(b.Members) {
			return false
		}
	} else {
		if a.Incomplete || len(a.Members) != len(b.Members) {
			return false
		}
	}
	for i, bm := range b.Members {
		if !coercesTo(a.Members[i], bm, generic) {
			return false
		}
	}
	return true
}

func structCoerces(a, b *Type, generic bool) bool {
	if !b.Incomplete {
		// complete -> complete of same size field-wise.
		if a.Incomplete || len(a.FieldOrder) != len(b.FieldOrder) {
			return false
		}
		for _, name := range b.FieldOrder {
			af, ok := a.Fields[name]
			if !ok || !coercesTo(af, b.Fields[name], generic) {
				return false
			}
		}
		return true
	}
	// complete -> smaller incomplete (never incomplete -> complete, handled
	// above by requiring b.Incomplete here).
	if a.Incomplete {
		return false
	}
	for _, name := range b.FieldOrder {
		af, ok := a.Fields[name]
		if !ok || !coercesTo(af, b.Fields[name], generic) {
			return false
		}
	}
	return true
}

func memberOf(t *Type, members []*Type, generic bool) bool {
	for _, m := range members {
		if coercesTo(t, m, generic) {
			return true
		}
	}
	return false
}

func coercesToGeneric(a, b *Type) bool {
	return coercesTo(a, b, true)
}

// TIsConcrete walks t, failing on Any, Undefined, and on incomplete
// tuples/structs; tvars are resolved first (spec.md §4.1).
func TIsConcrete(t *Type) bool {
	t = resolveTVars(t)
	switch t.Kind {
	case KAny, KUndefined:
		return false
	case KTVar:
		return false
	case KTuple:
		if t.Incomplete {
			return false
		}
		for _, m := range t.Members {
			if !TIsConcrete(m) {
				return false
			}
		}
		return true
	case KStruct:
		if t.Incomplete {
			return false
		}
		for _, m := range t.Fields {
			if !TIsConcrete(m) {
				return false
			}
		}
		return true
	case KList, KArray, KRuntime, KNamed:
		return TIsConcrete(t.Elem)
	case KUnion, KIntersect:
		for _, m := range t.Members {
			if !TIsConcrete(m) {
				return false
			}
		}
		return true
	case KFunction:
		return TIsConcrete(t.Arg) && TIsConcrete(t.Ret)
	case KDict:
		return TIsConcrete(t.Arg) && TIsConcrete(t.Ret)
	default:
		return true
	}
}

// TLower produces the runtime counterpart of a compile-time type (spec.md
// §4.1 "t_lower"): strips Runtime, turns Any into a fresh TVar, recurses into
// composites, and fails for Module, macro Function, and the form-value kinds
// (which have no Type representation in this system and are rejected at the
// value layer — see Value.Lower).
func TLower(t *Type) (*Type, bool) {
	switch t.Kind {
	case KRuntime:
		return t.Elem, true
	case KAny:
		return TVar(0), true
	case KModule:
		return nil, false
	case KList:
		e, ok := TLower(t.Elem)
		if !ok {
			return nil, false
		}
		return TList(e), true
	case KArray:
		e, ok := TLower(t.Elem)
		if !ok {
			return nil, false
		}
		return TArray(e, t.ArraySize), true
	case KTuple:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			lm, ok := TLower(m)
			if !ok {
				return nil, false
			}
			members[i] = lm
		}
		return TTuple(members, t.Incomplete), true
	case KStruct:
		fields := make(map[symbol.ID]*Type, len(t.Fields))
		for name, ft := range t.Fields {
			lf, ok := TLower(ft)
			if !ok {
				return nil, false
			}
			fields[name] = lf
		}
		return TStruct(t.FieldOrder, fields, t.Incomplete), true
	case KUnion:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			lm, ok := TLower(m)
			if !ok {
				return nil, false
			}
			members[i] = lm
		}
		return TUnion(members), true
	case KFunction:
		if t.Macro {
			return nil, false
		}
		arg, ok := TLower(t.Arg)
		if !ok {
			return nil, false
		}
		ret, ok := TLower(t.Ret)
		if !ok {
			return nil, false
		}
		return TFunc(arg, ret, false), true
	case KNamed:
		base, ok := TLower(t.Elem)
		if !ok {
			return nil, false
		}
		return TNamed(t.Name, base), true
	case KDict:
		k, ok := TLower(t.Arg)
		if !ok {
			return nil, false
		}
		v, ok := TLower(t.Ret)
		if !ok {
			return nil, false
		}
		return TDict(k, v), true
	case KIntersect:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			lm, ok := TLower(m)
			if !ok {
				return nil, false
			}
			members[i] = lm
		}
		return TIntersect(members), true
	default:
		return t, true
	}
}
