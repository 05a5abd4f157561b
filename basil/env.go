package basil

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/basilTeam/basil/hash"
	"github.com/basilTeam/basil/symbol"
)

// Env is a stack of call frames mapping symbols to Values, adapted from the
// teacher's gql/eval.go bindings type. frames[0] holds the global builtin
// table (immutable, shared by every Env derived from the root), frames[1]
// holds top-level module bindings, and frames[2:] are pushed/popped for each
// function call, module body and function instantiation (spec.md §4.5,
// §4.6). `do`, `while` and `match` bind into the current scope.
//
// Env is thread-compatible: it is owned by one goroutine at a time. Clone it
// before sharing across concurrently-instantiated function bodies.
type Env struct {
	frames []*frame
}

type frame struct {
	sym0, sym1 symbol.ID
	val0, val1 Value
	vars       map[symbol.ID]Value
}

func newFrame() *frame { return &frame{} }

func (f *frame) set(sym symbol.ID, v Value) {
	if f.sym1 != symbol.Invalid {
		if f.vars == nil {
			f.vars = map[symbol.ID]Value{}
		}
		f.vars[f.sym1] = f.val1
		f.vars[f.sym0] = f.val0
		f.sym0, f.sym1 = symbol.Invalid, symbol.Invalid
	} else if f.sym0 != symbol.Invalid {
		f.sym1, f.val1 = sym, v
		return
	}
	if f.vars == nil {
		f.vars = map[symbol.ID]Value{}
	}
	f.vars[sym] = v
}

// rebind overwrites an existing binding in place, used by assignment
// (spec.md §4.9 builtin_assign), as opposed to set which is for first
// introduction of a name into a fresh frame.
func (f *frame) rebind(sym symbol.ID, v Value) bool {
	if sym == f.sym0 {
		f.val0 = v
		return true
	}
	if sym == f.sym1 {
		f.val1 = v
		return true
	}
	if f.vars != nil {
		if _, ok := f.vars[sym]; ok {
			f.vars[sym] = v
			return true
		}
	}
	return false
}

func (f *frame) lookup(name symbol.ID) (Value, bool) {
	if name == f.sym0 {
		return f.val0, true
	}
	if name == f.sym1 {
		return f.val1, true
	}
	if f.vars != nil {
		val, ok := f.vars[name]
		return val, ok
	}
	return Value{}, false
}

func (f *frame) list() (syms []symbol.ID, vals []Value) {
	if f.sym0 != symbol.Invalid {
		syms = append(syms, f.sym0)
		vals = append(vals, f.val0)
	}
	if f.sym1 != symbol.Invalid {
		syms = append(syms, f.sym1)
		vals = append(vals, f.val1)
	}
	for s, v := range f.vars {
		syms = append(syms, s)
		vals = append(vals, v)
	}
	return
}

func (f *frame) clone() *frame {
	n := &frame{sym0: f.sym0, sym1: f.sym1, val0: f.val0, val1: f.val1}
	if f.vars != nil {
		n.vars = make(map[symbol.ID]Value, len(f.vars))
		for k, v := range f.vars {
			n.vars[k] = v
		}
	}
	return n
}

func (f *frame) hash() hash.Hash {
	h := hash.String("basil.frame")
	if f.sym0 != symbol.Invalid {
		h = h.Add(f.sym0.Hash().Merge(valueHash(f.val0)))
	}
	if f.sym1 != symbol.Invalid {
		h = h.Add(f.sym1.Hash().Merge(valueHash(f.val1)))
	}
	for k, v := range f.vars {
		h = h.Add(k.Hash().Merge(valueHash(v)))
	}
	return h
}

// globalFrame is the process-wide table of builtin functions and constants,
// shared (by reference, never copied) as frames[0] of every root Env.
var globalFrame = newFrame()

// RegisterGlobalConst adds a name->value binding to the global builtin
// table. Panics if the name is already registered. Meant to be called from
// init() of builtin_*.go files (spec.md §4 builtins enumeration).
func RegisterGlobalConst(name string, val Value) {
	id := symbol.Intern(name)
	if _, ok := globalFrame.lookup(id); ok {
		Panicf(NoPos, "RegisterGlobalConst: %s already registered", name)
	}
	globalFrame.set(id, val)
}

// NewRootEnv creates a fresh Env with the global builtin frame and an empty
// top-level module frame.
func NewRootEnv() *Env {
	return &Env{frames: []*frame{globalFrame, newFrame()}}
}

// PushScope opens a new, empty lexical scope (used for module bodies,
// imported files, and a user function's resolution and instantiation
// scopes — spec.md §4.5, §4.6).
func (e *Env) PushScope() {
	e.frames = append(e.frames, newFrame())
}

// PushScope1 opens a new scope with a single binding already present, the
// common case for single-parameter function calls.
func (e *Env) PushScope1(sym symbol.ID, v Value) {
	f := newFrame()
	f.sym0, f.val0 = sym, v
	e.frames = append(e.frames, f)
}

// PushScopeN opens a new scope with the given bindings already present.
//
// REQUIRES: len(syms) == len(values).
func (e *Env) PushScopeN(syms []symbol.ID, values []Value) {
	if len(syms) != len(values) {
		Panicf(NoPos, "PushScopeN: length mismatch (%d syms, %d values)", len(syms), len(values))
	}
	f := newFrame()
	for i := range syms {
		f.set(syms[i], values[i])
	}
	e.frames = append(e.frames, f)
}

// PopScope removes the innermost scope opened by the matching Push call.
func (e *Env) PopScope() {
	e.frames = e.frames[:len(e.frames)-1]
}

// Bind introduces a new name into the innermost scope (spec.md §4.3
// builtin_def). Panics if the name already exists in that scope — shadowing
// an outer scope is fine, redefining within the same scope is not.
func (e *Env) Bind(sym symbol.ID, v Value) {
	top := e.frames[len(e.frames)-1]
	if _, ok := top.lookup(sym); ok {
		Panicf(NoPos, "variable %q already bound in this scope", sym.Str())
	}
	top.set(sym, v)
}

// BindMerged introduces sym into the innermost scope, combining it with
// whatever is already bound there (in that same scope only) via MergeDefs
// (spec.md §4.8 "merge_defs") instead of Bind's strict one-shot discipline.
// This is what `def` uses, since re-defining a name at the same scope is how
// Basil adds an overload rather than an error.
func (e *Env) BindMerged(sym symbol.ID, v Value) (Value, bool) {
	top := e.frames[len(e.frames)-1]
	existing, ok := top.lookup(sym)
	if !ok {
		top.set(sym, v)
		return v, true
	}
	merged, ok := MergeDefs(existing, v)
	if !ok {
		return ErrorValue, false
	}
	if !top.rebind(sym, merged) {
		top.set(sym, merged)
	}
	return merged, true
}

// Rebind overwrites the value of an already-bound name, searching outward
// from the innermost scope (spec.md §4.9 builtin_assign). Returns false if
// the name is unbound anywhere.
func (e *Env) Rebind(sym symbol.ID, v Value) bool {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].rebind(sym, v) {
			return true
		}
	}
	return false
}

// Lookup searches every scope, innermost first, for a binding of name.
func (e *Env) Lookup(name symbol.ID) (Value, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if val, ok := e.frames[i].lookup(name); ok {
			return val, true
		}
	}
	return Value{}, false
}

// Clone produces an independent deep copy of every mutable frame. The
// shared global builtin frame (frames[0]) is kept by reference, matching
// the teacher's bindings.clone.
func (e *Env) Clone() *Env {
	n := &Env{frames: make([]*frame, len(e.frames))}
	for i, f := range e.frames {
		if i == 0 {
			n.frames[i] = f
			continue
		}
		n.frames[i] = f.clone()
	}
	return n
}

// Names lists every bound symbol across all scopes, innermost-first,
// deduplicated. Slow; used by the `while` builtin to walk its pre-loop
// snapshot's bindings.
func (e *Env) Names() []symbol.ID {
	seen := map[symbol.ID]bool{}
	var out []symbol.ID
	for i := len(e.frames) - 1; i >= 0; i-- {
		syms, _ := e.frames[i].list()
		for _, s := range syms {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// ScopeNames lists the symbols bound in the innermost scope only — the
// exportable surface of a module Env (builtin_module.go), whose body's
// bindings all land in the one scope pushed around it.
func (e *Env) ScopeNames() []symbol.ID {
	syms, _ := e.frames[len(e.frames)-1].list()
	return syms
}

// Describe renders the non-global frames for debugging.
func (e *Env) Describe() string {
	buf := bytes.NewBuffer(nil)
	for i := len(e.frames) - 1; i >= 1; i-- {
		syms, _ := e.frames[i].list()
		names := make([]string, len(syms))
		for j, s := range syms {
			names[j] = s.Str()
		}
		sort.Strings(names)
		fmt.Fprintf(buf, "scope %d: %v\n", i, names)
	}
	return buf.String()
}

// Hash computes a structural digest of every scope above the global frame,
// used by function instantiation's memoization key (spec.md §4.10).
func (e *Env) Hash() hash.Hash {
	h := hash.String("basil.env")
	for i := 1; i < len(e.frames); i++ {
		h = h.Merge(e.frames[i].hash())
	}
	return h
}

// valueHash is a best-effort structural hash of a Value, used only for
// closure-environment hashing (spec.md §4.10's instantiation cache key),
// not for correctness-critical equality.
func valueHash(v Value) hash.Hash {
	if v.typ == nil {
		return hash.Hash{}
	}
	return hash.String(v.typ.Key()).Merge(hash.String(v.String()))
}
