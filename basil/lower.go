package basil

import "github.com/basilTeam/basil/hash"

// Lower maps a compile-time Value to its Runtime(T) AST counterpart
// (spec.md §4.10 "lower"). Scalars become direct literal AST nodes;
// Named retags the inner AST's type; Runtime values are already lowered
// (identity); everything else (Module, macro Function, form values) is an
// error, returned as ErrorValue.
func Lower(env *Env, v Value) Value {
	switch v.Type().Kind {
	case KInt, KFloat, KDouble, KSymbol, KChar, KString, KType, KVoid, KBool:
		return NewRuntime(NewASTLiteral(v.Pos(), v))
	case KNamed:
		inner := Lower(env, v.NamedInner())
		if inner.IsError() {
			return inner
		}
		ast := inner.RuntimeAST()
		return NewRuntime(namedRetag(ast, TNamed(v.Type().Name, ast.Type())))
	case KRuntime:
		return v
	case KList:
		items := v.ListItems()
		lowered := make([]ASTNode, len(items))
		for i, it := range items {
			lv := Lower(env, it)
			if lv.IsError() {
				return ErrorValue
			}
			lowered[i] = lv.RuntimeAST()
		}
		elemType, _ := TLower(v.Type().Elem)
		return NewRuntime(NewASTLiteral(v.Pos(), NewList(elemType, items)).withListAST(lowered))
	case KTuple:
		items := v.TupleItems()
		lowered := make([]ASTNode, len(items))
		for i, it := range items {
			lv := Lower(env, it)
			if lv.IsError() {
				return ErrorValue
			}
			lowered[i] = lv.RuntimeAST()
		}
		return NewRuntime(tupleLiteralAST(v.Pos(), lowered))
	default:
		Errorf(v.Pos(), "cannot lower value of type %s to runtime", v.Type())
		return ErrorValue
	}
}

// namedRetag rewraps ast to report typ instead of its original type,
// resolving spec.md §9 open question 2 in favor of cloning: lower always
// produces a fresh wrapper node rather than mutating a node that may be
// aliased elsewhere in the tree.
func namedRetag(ast ASTNode, typ *Type) ASTNode {
	return &retaggedNode{ASTNode: ast, typ: typ}
}

type retaggedNode struct {
	ASTNode
	typ *Type
}

func (n *retaggedNode) Type() *Type { return n.typ }

// aggregateLiteralAST is a synthetic ASTNode used by Lower to represent a
// lowered list/tuple whose elements are themselves lowered ASTNodes. It
// exists because ASTLiteral alone cannot carry per-element ASTNodes (only
// a compile-time Value); the backend (external) is expected to special-
// case this node the same way it special-cases ASTCall.
type aggregateLiteralAST struct {
	astBase
	elems []ASTNode
	tuple bool
}

func (n *aggregateLiteralAST) Eval() Value { Panicf(n.pos, "aggregateLiteralAST: not foldable"); return Value{} }
func (n *aggregateLiteralAST) String() string {
	s := "["
	if n.tuple {
		s = "("
	}
	for i, e := range n.elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	if n.tuple {
		return s + ")"
	}
	return s + "]"
}
func (n *aggregateLiteralAST) Hash() hash.Hash {
	h := hash.String("ast.aggregate")
	for _, e := range n.elems {
		h = h.Merge(e.Hash())
	}
	return h
}

func (l *ASTLiteral) withListAST(elems []ASTNode) ASTNode {
	return &aggregateLiteralAST{astBase: astBase{pos: l.pos, typ: l.typ}, elems: elems, tuple: false}
}

func tupleLiteralAST(pos Pos, elems []ASTNode) ASTNode {
	members := make([]*Type, len(elems))
	for i, e := range elems {
		members[i] = e.Type()
	}
	return &aggregateLiteralAST{astBase: astBase{pos: pos, typ: TTuple(members, false)}, elems: elems, tuple: true}
}

// Coerce implements the unified compile-time/runtime coercion path used by
// argument binding, annotations, and return-value conversion (spec.md
// §4.10 "coerce"). identity and generic coercion short-circuit; a Runtime
// target lowers the source (if it is compile-time) and wraps a coerce node
// if the lowered type still differs; Type-target folds list/tuple/named
// values that hold Type members into a type value; tuple-to-tuple coerces
// elementwise; numeric widening is applied directly; a union target with a
// compatible member wraps the value under that union. Anything else is an
// internal error (a bug reaching an unimplemented coercion), per spec.md
// §4.10's closing line.
func Coerce(env *Env, v Value, target *Type) Value {
	if v.IsError() {
		return v
	}
	if v.Type().Key() == target.Key() {
		return v
	}
	if CoercesToGeneric(v.Type(), target) && v.Type().Kind != KRuntime {
		return v
	}

	// A Runtime source meeting a concrete (non-Runtime) target: the backend
	// will produce the actual value later, so this is a static check that the
	// eventual value will satisfy target, not a data conversion now. Lift is
	// always permitted (coerce.go's "runtime(T) <-> T" note); when T and
	// target already agree exactly, v is already Runtime(target) and passes
	// through as-is, otherwise the difference (e.g. Int widening to Double)
	// is deferred to the backend via an ASTCoerce wrapper.
	if v.Type().Kind == KRuntime && target.Kind != KRuntime {
		if CoercesTo(v.Type().Elem, target) {
			if v.Type().Elem.Key() == target.Key() {
				return v
			}
			return NewRuntime(NewASTCoerce(v.Pos(), target, v.RuntimeAST()))
		}
	}

	if target.Kind == KRuntime {
		src := v
		if src.Type().Kind != KRuntime {
			src = Lower(env, src)
			if src.IsError() {
				return src
			}
		}
		if src.Type().Key() == target.Key() {
			return src
		}
		return NewRuntime(NewASTCoerce(v.Pos(), target.Elem, src.RuntimeAST()))
	}

	if target.Kind == KType {
		switch v.Type().Kind {
		case KList:
			items := v.ListItems()
			types := make([]*Type, len(items))
			for i, it := range items {
				types[i] = it.AsType()
			}
			return NewType(TTuple(types, false))
		case KTuple:
			items := v.TupleItems()
			types := make([]*Type, len(items))
			for i, it := range items {
				types[i] = it.AsType()
			}
			return NewType(TTuple(types, false))
		case KNamed:
			return NewType(TNamed(v.Type().Name, v.NamedInner().AsType()))
		}
	}

	if v.Type().Kind == KTuple && target.Kind == KTuple {
		items := v.TupleItems()
		members := target.Members
		if len(items) == len(members) {
			out := make([]Value, len(items))
			for i := range items {
				out[i] = Coerce(env, items[i], members[i])
				if out[i].IsError() {
					return ErrorValue
				}
			}
			return NewTuple(out, target.Incomplete)
		}
	}

	if v.Type().Kind.LikeNumber() && target.Kind.LikeNumber() {
		switch target.Kind {
		case KFloat, KDouble:
			if v.Type().Kind == KInt {
				return NewDouble(float64(v.Int()))
			}
			return NewDouble(v.Float())
		case KInt:
			return v
		}
	}

	if target.Kind == KUnion {
		for _, m := range target.Members {
			if CoercesTo(v.Type(), m) {
				return NewUnion(target, v)
			}
		}
	}

	Panicf(v.Pos(), "coerce: unimplemented conversion from %s to %s", v.Type(), target)
	return ErrorValue
}
