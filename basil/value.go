package basil

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/basilTeam/basil/symbol"
)

// Value is a unified representation of a compile-time value in Basil,
// adapted from the teacher's gql/value.go tagged union. Unlike the teacher
// (which packs scalars into an unsafe.Pointer + uint64 pair for compactness),
// Value here keeps the same "small inline scalar vs. boxed composite" shape
// but stores the boxed payload behind an interface{} slot instead of raw
// unsafe pointers — a safety-first substitution noted in DESIGN.md, since
// this repository is never compiled or tested by its own author.
//
// Every reachable Value has a non-null Type (spec.md Invariant 1). A Value is
// immutable once constructed; composites are deep-cloned, functions/modules
// shallow-cloned, exactly as the teacher's value.go documents.
type Value struct {
	typ  *Type
	pos  Pos
	form *Form // may be nil; resolved lazily by resolve_form

	num uint64      // inline payload: bool, int64 bits, float64 bits, rune, small symbol id
	ref interface{} // boxed payload for every composite/reference kind
}

// Type returns the value's type.
func (v Value) Type() *Type { return v.typ }

// Pos returns the value's source position.
func (v Value) Pos() Pos { return v.pos }

// Form returns the value's form, or nil if unresolved.
func (v Value) Form() *Form { return v.form }

// WithForm returns a copy of v with its form set.
func (v Value) WithForm(f *Form) Value {
	v.form = f
	return v
}

// WithPos returns a copy of v with its position set.
func (v Value) WithPos(p Pos) Value {
	v.pos = p
	return v
}

// IsError reports whether v is an Error value. Error values are contagious
// (spec.md Invariant 1): any operation receiving one should propagate it
// without emitting another diagnostic.
func (v Value) IsError() bool { return v.typ != nil && v.typ.Kind == KError }

// ErrorValue is the single Error value used for contagious propagation.
var ErrorValue = Value{typ: ErrorType}

// --- Scalars ---

// NewVoid creates the Void value.
func NewVoid() Value { return Value{typ: Void} }

// NewBool creates a Bool value.
func NewBool(b bool) Value {
	v := uint64(0)
	if b {
		v = 1
	}
	return Value{typ: Bool, num: v}
}

// Bool extracts a bool. Requires v.Type() == Bool.
func (v Value) Bool() bool {
	if v.typ != Bool {
		Panicf(v.pos, "Value.Bool: not a bool (%s)", v.typ)
	}
	return v.num != 0
}

// NewInt creates an Int value.
func NewInt(n int64) Value { return Value{typ: Int, num: uint64(n)} }

// Int extracts an int64. Requires v.Type() == Int.
func (v Value) Int() int64 {
	if v.typ != Int {
		Panicf(v.pos, "Value.Int: not an int (%s)", v.typ)
	}
	return int64(v.num)
}

// NewFloat creates a Float value (32-bit-semantics float stored widened).
func NewFloat(f float64) Value { return Value{typ: Float, num: math.Float64bits(f)} }

// NewDouble creates a Double value.
func NewDouble(f float64) Value { return Value{typ: Double, num: math.Float64bits(f)} }

// Float extracts a float64 from a Float or Double value.
func (v Value) Float() float64 {
	if v.typ != Float && v.typ != Double {
		Panicf(v.pos, "Value.Float: not a float/double (%s)", v.typ)
	}
	return math.Float64frombits(v.num)
}

// NewChar creates a Char value.
func NewChar(r rune) Value { return Value{typ: Char, num: uint64(r)} }

// Char extracts a rune. Requires v.Type() == Char.
func (v Value) Char() rune {
	if v.typ != Char {
		Panicf(v.pos, "Value.Char: not a char (%s)", v.typ)
	}
	return rune(v.num)
}

// NewString creates a String value.
func NewString(s string) Value { return Value{typ: String, ref: s} }

// Str extracts a string. Requires v.Type() == String.
func (v Value) Str() string {
	if v.typ != String {
		Panicf(v.pos, "Value.Str: not a string (%s)", v.typ)
	}
	return v.ref.(string)
}

// NewSymbol creates a Symbol value.
func NewSymbol(id symbol.ID) Value { return Value{typ: SymbolT, num: uint64(id)} }

// Symbol extracts a symbol.ID. Requires v.Type() == Symbol.
func (v Value) Symbol() symbol.ID {
	if v.typ != SymbolT {
		Panicf(v.pos, "Value.Symbol: not a symbol (%s)", v.typ)
	}
	return symbol.ID(v.num)
}

// NewType creates a Type-valued Value (a first-class compile-time type).
func NewType(t *Type) Value { return Value{typ: TypeT, ref: t} }

// AsType extracts the wrapped *Type. Requires v.Type() == Type.
func (v Value) AsType() *Type {
	if v.typ != TypeT {
		Panicf(v.pos, "Value.AsType: not a type value (%s)", v.typ)
	}
	return v.ref.(*Type)
}

// NewUndefined creates an Undefined value (spec.md §4.8: parameters are
// bound to Undefined before their first form-resolution pass).
func NewUndefined() Value { return Value{typ: Undefined} }

// --- List ---

type listCell struct {
	head Value
	tail Value // another List value; empty list has ref == nil
}

// NewEmptyList creates an empty List(elem) value.
func NewEmptyList(elem *Type) Value {
	return Value{typ: TList(elem)}
}

// Cons prepends head to tail, which must be a List value of a coercible
// element type.
func Cons(head, tail Value) Value {
	if tail.typ.Kind != KList {
		Panicf(tail.pos, "Cons: tail is not a list (%s)", tail.typ)
	}
	return Value{typ: tail.typ, ref: &listCell{head: head, tail: tail}}
}

// NewList builds a List(elem) value from a slice, in order.
func NewList(elem *Type, items []Value) Value {
	out := NewEmptyList(elem)
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out
}

// ListEmpty reports whether a List value has no elements.
func (v Value) ListEmpty() bool {
	if v.typ.Kind != KList {
		Panicf(v.pos, "Value.ListEmpty: not a list (%s)", v.typ)
	}
	return v.ref == nil
}

// ListHead returns the first element of a non-empty List value.
func (v Value) ListHead() Value {
	return v.ref.(*listCell).head
}

// ListTail returns the rest of a non-empty List value.
func (v Value) ListTail() Value {
	return v.ref.(*listCell).tail
}

// ListItems materializes a List value into a slice. Uses an explicit stack
// loop, not recursion, per spec.md §5's resource-discipline requirement that
// deep list traversals avoid recursive stack growth.
func (v Value) ListItems() []Value {
	if v.typ.Kind != KList {
		Panicf(v.pos, "Value.ListItems: not a list (%s)", v.typ)
	}
	var out []Value
	for cur := v; !cur.ListEmpty(); cur = cur.ListTail() {
		out = append(out, cur.ListHead())
	}
	return out
}

// --- Tuple ---

// NewTuple builds a Tuple value. incomplete marks a tuple type still open to
// growth (spec.md §3 coercion rules on tuples).
func NewTuple(items []Value, incomplete bool) Value {
	members := make([]*Type, len(items))
	for i, it := range items {
		members[i] = it.typ
	}
	return Value{typ: TTuple(members, incomplete), ref: append([]Value{}, items...)}
}

// TupleItems returns the tuple's elements.
func (v Value) TupleItems() []Value {
	if v.typ.Kind != KTuple {
		Panicf(v.pos, "Value.TupleItems: not a tuple (%s)", v.typ)
	}
	return v.ref.([]Value)
}

// --- Array ---

// NewArray builds an Array(elem, len(items)) value.
func NewArray(elem *Type, items []Value) Value {
	n := len(items)
	return Value{typ: TArray(elem, &n), ref: append([]Value{}, items...)}
}

// ArrayItems returns the array's elements.
func (v Value) ArrayItems() []Value {
	if v.typ.Kind != KArray {
		Panicf(v.pos, "Value.ArrayItems: not an array (%s)", v.typ)
	}
	return v.ref.([]Value)
}

// --- Struct ---

// StructField is one name/value pair of a Struct value, in declaration order.
type StructField struct {
	Name  symbol.ID
	Value Value
}

type structBox struct {
	fields []StructField
}

// NewStruct builds a Struct value in the given field order.
func NewStruct(fields []StructField, incomplete bool) Value {
	order := make([]symbol.ID, len(fields))
	types := make(map[symbol.ID]*Type, len(fields))
	for i, f := range fields {
		order[i] = f.Name
		types[f.Name] = f.Value.typ
	}
	return Value{typ: TStruct(order, types, incomplete), ref: &structBox{fields: append([]StructField{}, fields...)}}
}

// StructFields returns the struct's fields in declaration order.
func (v Value) StructFields() []StructField {
	if v.typ.Kind != KStruct {
		Panicf(v.pos, "Value.StructFields: not a struct (%s)", v.typ)
	}
	return v.ref.(*structBox).fields
}

// StructField looks up a field by name.
func (v Value) StructField(name symbol.ID) (Value, bool) {
	for _, f := range v.StructFields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// --- Dict ---

type dictEntry struct {
	key, val Value
}

type dictBox struct {
	// entries are keyed by the key value's canonical string representation.
	// This is a documented simplification: a production Dict would hash keys
	// structurally (as the type registry does for Types); ordering is
	// insertion order for determinism in tests.
	order   []string
	entries map[string]dictEntry
}

// NewDict builds an empty Dict(k, v) value.
func NewDict(k, v *Type) Value {
	return Value{typ: TDict(k, v), ref: &dictBox{entries: map[string]dictEntry{}}}
}

// DictSet returns a copy of the dict with key bound to val (copy-on-write,
// consistent with "Value ... immutable once constructed").
func (v Value) DictSet(key, val Value) Value {
	box := v.ref.(*dictBox)
	nb := &dictBox{entries: make(map[string]dictEntry, len(box.entries)+1)}
	for k, e := range box.entries {
		nb.entries[k] = e
	}
	nb.order = append(append([]string{}, box.order...))
	ks := valueKeyString(key)
	if _, exists := nb.entries[ks]; !exists {
		nb.order = append(nb.order, ks)
	}
	nb.entries[ks] = dictEntry{key: key, val: val}
	return Value{typ: v.typ, ref: nb}
}

// DictGet looks up a key.
func (v Value) DictGet(key Value) (Value, bool) {
	box := v.ref.(*dictBox)
	e, ok := box.entries[valueKeyString(key)]
	return e.val, ok
}

// DictEntries returns the dict's entries in insertion order.
func (v Value) DictEntries() []struct{ Key, Val Value } {
	box := v.ref.(*dictBox)
	out := make([]struct{ Key, Val Value }, 0, len(box.order))
	for _, k := range box.order {
		e := box.entries[k]
		out = append(out, struct{ Key, Val Value }{e.key, e.val})
	}
	return out
}

func valueKeyString(v Value) string {
	return v.typ.Key() + "=" + v.String()
}

// --- Named ---

type namedBox struct {
	inner Value
}

// NewNamed wraps inner in a Named(name, inner.Type()) value.
func NewNamed(name symbol.ID, inner Value) Value {
	return Value{typ: TNamed(name, inner.typ), ref: &namedBox{inner: inner}}
}

// NamedInner unwraps a Named value.
func (v Value) NamedInner() Value {
	return v.ref.(*namedBox).inner
}

// --- Union ---

type unionBox struct {
	inner Value
}

// NewUnion wraps inner so it carries unionType (which must contain inner's
// type as a member, after coercion).
func NewUnion(unionType *Type, inner Value) Value {
	return Value{typ: unionType, ref: &unionBox{inner: inner}}
}

// UnionInner returns the concrete value carried by a Union value.
func (v Value) UnionInner() Value {
	return v.ref.(*unionBox).inner
}

// --- Intersect ---

type intersectBox struct {
	// byType maps each member type's canonical key to the value holding that
	// type (spec.md §3: "Intersect{type->value}").
	byType map[string]Value
	order  []*Type
}

// NewIntersect builds an Intersect value from type->value entries, one per
// member of typ (typ.Kind must be KIntersect).
func NewIntersect(typ *Type, entries map[*Type]Value) Value {
	box := &intersectBox{byType: map[string]Value{}}
	for _, m := range typ.Members {
		val, ok := entries[m]
		if !ok {
			Panicf(NoPos, "NewIntersect: missing entry for member %s", m)
		}
		box.byType[m.Key()] = val
		box.order = append(box.order, m)
	}
	return Value{typ: typ, ref: box}
}

// IntersectMember returns the value carried for a specific member type.
func (v Value) IntersectMember(member *Type) (Value, bool) {
	box := v.ref.(*intersectBox)
	val, ok := box.byType[member.Key()]
	return val, ok
}

// IntersectMembers returns the intersect's member types, in the stable order
// fixed by the Intersect type's own Members slice.
func (v Value) IntersectMembers() []*Type {
	return v.ref.(*intersectBox).order
}

// --- Runtime ---

type runtimeBox struct {
	ast ASTNode
}

// NewRuntime wraps ast as a Runtime(T) value, where T is ast's reported type.
func NewRuntime(ast ASTNode) Value {
	return Value{typ: TRuntime(ast.Type()), ref: &runtimeBox{ast: ast}, pos: ast.Pos()}
}

// RuntimeAST unwraps a Runtime value's AST node.
func (v Value) RuntimeAST() ASTNode {
	if v.typ.Kind != KRuntime {
		Panicf(v.pos, "Value.RuntimeAST: not runtime (%s)", v.typ)
	}
	return v.ref.(*runtimeBox).ast
}

// --- Function / Module / Form ---

// NewFunc wraps f as a Function-typed Value.
func NewFunc(f *Func) Value {
	return Value{typ: TFunc(f.ArgType(), f.RetType(), f.IsMacro()), ref: f}
}

// AsFunc extracts the *Func. Requires v.Type().Kind == KFunction.
func (v Value) AsFunc() *Func {
	if v.typ.Kind != KFunction {
		Panicf(v.pos, "Value.AsFunc: not a function (%s)", v.typ)
	}
	return v.ref.(*Func)
}

// NewModule wraps env as a Module value.
func NewModule(env *Env) Value {
	return Value{typ: ModuleT, ref: env}
}

// AsModule extracts the module's *Env.
func (v Value) AsModule() *Env {
	if v.typ.Kind != KModule {
		Panicf(v.pos, "Value.AsModule: not a module (%s)", v.typ)
	}
	return v.ref.(*Env)
}

// NewFormValue reifies a standalone Form (a Callable or Overloaded not bound
// to any particular function body) as a first-class compile-time value —
// spec.md §3's "FormFn, FormIsect" payload kinds. Its type is Type (it
// denotes a parsing-time concept, not a runtime kind); callers that need the
// form itself use Value.Form(), which every Value already carries.
func NewFormValue(f *Form) Value {
	return Value{typ: TypeT, ref: f, form: f}
}

// String renders a human-readable (not necessarily re-parseable)
// description of the value. Exhaustive switch with a panicking default,
// directly resolving spec.md §9's "builtin_display ... no default branch"
// open note.
func (v Value) String() string {
	switch v.typ.Kind {
	case KInvalid:
		return "<invalid>"
	case KVoid:
		return "void"
	case KBool:
		return strconv.FormatBool(v.Bool())
	case KInt:
		return strconv.FormatInt(v.Int(), 10)
	case KFloat, KDouble:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case KChar:
		return strconv.QuoteRune(v.Char())
	case KString:
		return strconv.Quote(v.Str())
	case KSymbol:
		return v.Symbol().Str()
	case KType:
		if v.form != nil && v.ref != nil {
			if f, ok := v.ref.(*Form); ok {
				return f.String()
			}
		}
		return v.AsType().String()
	case KUndefined:
		return "<undefined>"
	case KError:
		return "<error>"
	case KModule:
		return "<module>"
	case KList:
		items := v.ListItems()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KArray:
		items := v.ArrayItems()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	case KTuple:
		items := v.TupleItems()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KStruct:
		fields := v.StructFields()
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = f.Name.Str() + "=" + f.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KDict:
		entries := v.DictEntries()
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = e.Key.String() + ":" + e.Val.String()
		}
		return "dict{" + strings.Join(parts, ", ") + "}"
	case KNamed:
		return v.typ.Name.Str() + "(" + v.NamedInner().String() + ")"
	case KUnion:
		return v.UnionInner().String()
	case KIntersect:
		parts := make([]string, 0, len(v.IntersectMembers()))
		for _, m := range v.IntersectMembers() {
			inner, _ := v.IntersectMember(m)
			parts = append(parts, inner.String())
		}
		return "intersect(" + strings.Join(parts, ", ") + ")"
	case KFunction:
		return "<func " + v.AsFunc().DisplayName() + ">"
	case KRuntime:
		return "runtime(" + v.RuntimeAST().String() + ")"
	default:
		Panicf(v.pos, "Value.String: unhandled kind %s", v.typ.Kind)
		return ""
	}
}

var _ = fmt.Sprintf // keep fmt imported for future Stringer-style helpers
