package basil

// Score ranks how well an actual argument type matches a candidate's
// parameter type (spec.md §4.7). Scores are ordered
// EQUAL > GENERIC > COERCE > UNION, scaled by (len+1) so that a better
// per-argument match at a given tuple length always outranks a worse match
// at any shorter tuple length.
type Score int64

const (
	ScoreReject Score = 0
)

func scoreEqual(length int) Score  { n := int64(length + 1); return Score(n * n * n) }
func scoreGeneric(length int) Score { n := int64(length + 1); return Score(n * n) }
func scoreCoerce(length int) Score  { n := int64(length + 1); return Score(n) }
func scoreUnion(int) Score          { return Score(1) }

// OverloadCandidate is one member of an intersect type being scored.
type OverloadCandidate struct {
	Type  *Type // a KFunction type
	Score Score
	// Mismatch, if Score == ScoreReject, names the first argument
	// position that failed to match, for diagnostics (spec.md §4.7).
	Mismatch int
}

func tupleLen(t *Type) int {
	if t.Kind == KTuple {
		return len(t.Members)
	}
	return 1
}

func tupleMembers(t *Type) []*Type {
	if t.Kind == KTuple {
		return t.Members
	}
	return []*Type{t}
}

// scoreArg scores one (actual, param) pair per spec.md §4.7.
func scoreArg(actual, param *Type, length int) (Score, bool) {
	if actual.Key() == param.Key() {
		return scoreEqual(length), true
	}
	if CoercesToGeneric(actual, param) {
		return scoreGeneric(length), true
	}
	if NonbindingCoercesTo(actual, param) {
		return scoreCoerce(length), true
	}
	if actual.Kind == KUnion {
		for _, m := range actual.Members {
			if m.Key() == param.Key() {
				return scoreUnion(length), true
			}
		}
	}
	return ScoreReject, false
}

// ScoreCandidate scores fn (a KFunction type) against an actual argument
// type, per-argument, summing the per-position scores (spec.md §4.7).
func ScoreCandidate(fn *Type, argsType *Type) OverloadCandidate {
	length := tupleLen(argsType)
	actuals := tupleMembers(argsType)
	params := tupleMembers(fn.Arg)
	if len(actuals) != len(params) {
		return OverloadCandidate{Type: fn, Score: ScoreReject, Mismatch: 0}
	}
	var total Score
	for i := range actuals {
		s, ok := scoreArg(actuals[i], params[i], length)
		if !ok {
			return OverloadCandidate{Type: fn, Score: ScoreReject, Mismatch: i}
		}
		total += s
	}
	return OverloadCandidate{Type: fn, Score: total}
}

// OverloadResolution is the outcome of resolving a call against an
// Intersect[Function...] type (spec.md §4.7).
type OverloadResolution struct {
	// Resolved is the single winning candidate, set unless Ambiguous or
	// Rejected is true.
	Resolved *Type
	// Narrowed is set instead of Resolved when the actual argument type
	// was not concrete: the tied candidates are committed into the tvar
	// table via a dry-run intersect-mode pass, and the narrowed type
	// (possibly itself an Intersect) is returned for downstream dispatch.
	Narrowed *Type

	Ambiguous  bool
	Candidates []OverloadCandidate // every candidate, for diagnostics
}

// ResolveCall performs overload resolution over fnType (a plain Function or
// an Intersect of Functions) against argsType (spec.md §4.7).
func ResolveCall(fnType *Type, argsType *Type) OverloadResolution {
	var members []*Type
	if fnType.Kind == KIntersect {
		members = fnType.Members
	} else {
		members = []*Type{fnType}
	}

	cands := make([]OverloadCandidate, len(members))
	var best Score
	for i, m := range members {
		cands[i] = ScoreCandidate(m, argsType)
		if cands[i].Score > best {
			best = cands[i].Score
		}
	}
	if best == ScoreReject {
		return OverloadResolution{Candidates: cands}
	}

	var tied []*Type
	for i, c := range cands {
		if c.Score == best {
			tied = append(tied, members[i])
		}
	}
	if len(tied) == 1 {
		return OverloadResolution{Resolved: tied[0], Candidates: cands}
	}

	if TIsConcrete(argsType) {
		return OverloadResolution{Ambiguous: true, Candidates: cands}
	}

	// Non-concrete actual: dry-run coerces_to under intersect mode so each
	// tied candidate's tvar bindings are staged, then commit (spec.md
	// §4.7 last paragraph).
	EnterIntersectMode()
	for _, t := range tied {
		CoercesTo(argsType, t.Arg)
	}
	ExitIntersectMode()
	return OverloadResolution{Narrowed: TIntersect(tied), Candidates: cands}
}
