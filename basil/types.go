package basil

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/basilTeam/basil/symbol"
)

// Type is a hash-consed, structurally compared type (spec.md §3). Two Types
// with equal structural content are guaranteed to be the identical *Type
// pointer, so Type identity is Go pointer identity (Invariant: "Hash-consing
// invariant").
//
// This is the Go type-switch rendering of original_source/compiler/type.cpp's
// per-kind Class hierarchy, per spec.md §9's design note asking for exactly
// that rewrite.
type Type struct {
	Kind Kind

	// Composite payloads. Only the fields relevant to Kind are populated.
	Elem       *Type            // List, Array, Runtime, Named (base)
	ArraySize  *int             // Array; nil means unsized
	Members    []*Type          // Tuple, Union, Intersect
	Incomplete bool             // Tuple, Struct
	Fields     map[symbol.ID]*Type
	FieldOrder []symbol.ID // Struct: stable declaration order
	Arg, Ret   *Type       // Function
	Macro      bool        // Function
	Name       symbol.ID   // Named, TVar (0 if anonymous)

	// Meta kind only.
	TVarID int64

	key string // canonical structural key, used for hash-consing and as a cache key elsewhere
}

// Primitive singletons.
var (
	Int       = &Type{Kind: KInt, key: "Int"}
	Float     = &Type{Kind: KFloat, key: "Float"}
	Double    = &Type{Kind: KDouble, key: "Double"}
	Bool      = &Type{Kind: KBool, key: "Bool"}
	Char      = &Type{Kind: KChar, key: "Char"}
	String    = &Type{Kind: KString, key: "String"}
	SymbolT   = &Type{Kind: KSymbol, key: "Symbol"}
	TypeT     = &Type{Kind: KType, key: "Type"}
	Void      = &Type{Kind: KVoid, key: "Void"}
	Any       = &Type{Kind: KAny, key: "Any"}
	ErrorType = &Type{Kind: KError, key: "Error"}
	Undefined = &Type{Kind: KUndefined, key: "Undefined"}
	ModuleT   = &Type{Kind: KModule, key: "Module"}
)

// registry is the process-wide hash-consing table (spec.md §5: "process-wide:
// ... the type hash-cons table").
type registry struct {
	mu      sync.Mutex
	byKey   map[string]*Type
	tvarSeq int64
}

var reg = newRegistry()

func newRegistry() *registry {
	r := &registry{byKey: map[string]*Type{}}
	for _, t := range []*Type{Int, Float, Double, Bool, Char, String, SymbolT, TypeT, Void, Any, ErrorType, Undefined, ModuleT} {
		r.byKey[t.key] = t
	}
	return r
}

// ResetTypeRegistry clears all non-primitive hash-consed types and tvar ids.
// Called between compilations (spec.md §5).
func ResetTypeRegistry() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r := newRegistry()
	reg.byKey = r.byKey
	atomic.StoreInt64(&reg.tvarSeq, 0)
}

func (r *registry) intern(t *Type) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byKey[t.key]; ok {
		return existing
	}
	r.byKey[t.key] = t
	return t
}

// TList constructs List(T).
func TList(elem *Type) *Type {
	return reg.intern(&Type{Kind: KList, Elem: elem, key: "List(" + elem.key + ")"})
}

// TArray constructs Array(T, n?). size == nil means unsized.
func TArray(elem *Type, size *int) *Type {
	k := "Array(" + elem.key + ","
	if size != nil {
		k += fmt.Sprint(*size)
	}
	k += ")"
	var sz *int
	if size != nil {
		s := *size
		sz = &s
	}
	return reg.intern(&Type{Kind: KArray, Elem: elem, ArraySize: sz, key: k})
}

// TTuple constructs Tuple(T…, incomplete?).
func TTuple(members []*Type, incomplete bool) *Type {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.key
	}
	k := fmt.Sprintf("Tuple(%s;incomplete=%v)", strings.Join(parts, ","), incomplete)
	return reg.intern(&Type{Kind: KTuple, Members: append([]*Type{}, members...), Incomplete: incomplete, key: k})
}

// TUnion constructs Union{T…}: unordered, flattened, de-duplicated, with ≥2
// distinct members (spec.md Invariant 4). Flattening a single resulting
// member returns that member directly instead of a degenerate union.
func TUnion(members []*Type) *Type {
	flat := make([]*Type, 0, len(members))
	for _, m := range members {
		if m.Kind == KUnion {
			flat = append(flat, m.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	dedup := dedupTypes(flat)
	if len(dedup) == 1 {
		return dedup[0]
	}
	if len(dedup) == 0 {
		Panicf(NoPos, "t_union: no members")
	}
	sort.Slice(dedup, func(i, j int) bool { return dedup[i].key < dedup[j].key })
	parts := make([]string, len(dedup))
	for i, m := range dedup {
		parts[i] = m.key
	}
	return reg.intern(&Type{Kind: KUnion, Members: dedup, key: "Union{" + strings.Join(parts, ",") + "}"})
}

// TIntersect constructs Intersect[T…]: de-duplicated, ≥1 member (spec.md
// Invariant 3). A single resulting member returns that member directly.
func TIntersect(members []*Type) *Type {
	flat := make([]*Type, 0, len(members))
	for _, m := range members {
		if m.Kind == KIntersect {
			flat = append(flat, m.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	dedup := dedupTypes(flat)
	if len(dedup) == 0 {
		Panicf(NoPos, "t_intersect: no members")
	}
	if len(dedup) == 1 {
		return dedup[0]
	}
	// Order doesn't matter for identity, but keep it stable for hashing.
	sort.Slice(dedup, func(i, j int) bool { return dedup[i].key < dedup[j].key })
	parts := make([]string, len(dedup))
	for i, m := range dedup {
		parts[i] = m.key
	}
	return reg.intern(&Type{Kind: KIntersect, Members: dedup, key: "Intersect[" + strings.Join(parts, ",") + "]"})
}

func dedupTypes(in []*Type) []*Type {
	out := make([]*Type, 0, len(in))
	for _, t := range in {
		found := false
		for _, o := range out {
			if softEqual(t, o) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, t)
		}
	}
	return out
}

// softEqual is "equality after type-variable resolution" (spec.md §3), used
// by intersect/union de-duplication.
func softEqual(a, b *Type) bool {
	return resolveTVars(a).key == resolveTVars(b).key
}

// TFunc constructs Function(Targ->Tret, macro?).
func TFunc(arg, ret *Type, macro bool) *Type {
	k := fmt.Sprintf("Function(%s->%s;macro=%v)", arg.key, ret.key, macro)
	return reg.intern(&Type{Kind: KFunction, Arg: arg, Ret: ret, Macro: macro, key: k})
}

// TStruct constructs Struct{name->T…, incomplete?}. order gives the stable
// field declaration order.
func TStruct(order []symbol.ID, fields map[symbol.ID]*Type, incomplete bool) *Type {
	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = fmt.Sprintf("%s:%s", name.Str(), fields[name].key)
	}
	k := fmt.Sprintf("Struct{%s;incomplete=%v}", strings.Join(parts, ","), incomplete)
	fc := make(map[symbol.ID]*Type, len(fields))
	for k2, v := range fields {
		fc[k2] = v
	}
	return reg.intern(&Type{Kind: KStruct, FieldOrder: append([]symbol.ID{}, order...), Fields: fc, Incomplete: incomplete, key: k})
}

// TDict constructs Dict(K,V).
func TDict(key, value *Type) *Type {
	return reg.intern(&Type{Kind: KDict, Arg: key, Ret: value, key: "Dict(" + key.key + "," + value.key + ")"})
}

// TNamed constructs Named(name, base).
func TNamed(name symbol.ID, base *Type) *Type {
	k := "Named(" + name.Str() + "," + base.key + ")"
	return reg.intern(&Type{Kind: KNamed, Name: name, Elem: base, key: k})
}

// TVar constructs a fresh, globally unique type variable. Unlike every other
// constructor, TVar is never hash-consed against an existing Type: each call
// introduces a new meta-variable, even if name is reused for two different
// calls (names are for display only).
func TVar(name symbol.ID) *Type {
	id := atomic.AddInt64(&reg.tvarSeq, 1)
	return &Type{Kind: KTVar, Name: name, TVarID: id, key: fmt.Sprintf("TVar#%d", id)}
}

// TRuntime wraps t in Runtime(T). Idempotent: Runtime(Runtime(T)) == Runtime(T)
// (spec.md §3: "never nests").
func TRuntime(t *Type) *Type {
	if t.Kind == KRuntime {
		return t
	}
	return reg.intern(&Type{Kind: KRuntime, Elem: t, key: "Runtime(" + t.key + ")"})
}

// Key returns the canonical structural key. Exposed for use as a map key
// elsewhere (e.g. the per-argument-type instantiation cache).
func (t *Type) Key() string { return t.key }

func (t *Type) String() string {
	switch t.Kind {
	case KList:
		return "list(" + t.Elem.String() + ")"
	case KArray:
		if t.ArraySize != nil {
			return fmt.Sprintf("array(%s, %d)", t.Elem.String(), *t.ArraySize)
		}
		return "array(" + t.Elem.String() + ")"
	case KTuple:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		s := "(" + strings.Join(parts, ", ")
		if t.Incomplete {
			s += ", ..."
		}
		return s + ")"
	case KUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	case KIntersect:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " & ")
	case KStruct:
		parts := make([]string, len(t.FieldOrder))
		for i, n := range t.FieldOrder {
			parts[i] = n.Str() + ": " + t.Fields[n].String()
		}
		s := "{" + strings.Join(parts, ", ")
		if t.Incomplete {
			s += ", ..."
		}
		return s + "}"
	case KDict:
		return fmt.Sprintf("dict(%s, %s)", t.Arg.String(), t.Ret.String())
	case KFunction:
		if t.Macro {
			return t.Arg.String() + " ~> " + t.Ret.String()
		}
		return t.Arg.String() + " -> " + t.Ret.String()
	case KNamed:
		return t.Name.Str()
	case KTVar:
		if t.Name != symbol.Invalid && t.Name != 0 {
			return "?" + t.Name.Str()
		}
		return fmt.Sprintf("?t%d", t.TVarID)
	case KRuntime:
		return "runtime(" + t.Elem.String() + ")"
	default:
		return t.Kind.String()
	}
}
