package basil

import (
	"fmt"
	"strings"

	"github.com/basilTeam/basil/hash"
	"github.com/basilTeam/basil/symbol"
)

// FuncCallback is a builtin function body (spec.md §4.6 special forms).
// ast is the call site, used only for error positions. args are already
// coerced to the callback's expected argument types.
type FuncCallback func(env *Env, ast ASTNode, args []Value) Value

// Func represents a callable closure, stored inside a Function-typed Value
// — adapted from the teacher's gql/func.go Func, generalized from GQL's
// single-dispatch builtins to Basil's builtin/user-defined/macro split.
type Func struct {
	name    symbol.ID
	ast     ASTNode
	builtin bool
	macro   bool

	// runtimeOnly forces call() to always emit runtime code, never reduce
	// at compile time (spec.md §4.5 step 4 "Builtins flagged
	// runtime-only... force is_runtime").
	runtimeOnly bool
	// statefulOutsideMeta mirrors the same step: only a `meta` perf frame
	// may invoke this builtin at compile time.
	statefulOutsideMeta bool
	// preserving suppresses the evaluate-then-lower pass normally applied
	// to Term/Quoted parameters when the call turns out to be runtime
	// (spec.md §4.5 step 5).
	preserving bool

	argType, retType *Type
	callback         FuncCallback
	hash             hash.Hash
	description      string

	// Set only for user-defined (non-builtin) functions. body is the raw,
	// unevaluated syntax term (spec.md §4.8's "syntactic body"), re-`eval`ed
	// fresh on every call / instantiation — not an ASTNode, which is reserved
	// for already-lowered runtime IR.
	env    *Env
	params []symbol.ID
	body   Value

	// instTable memoizes per-form-tuple resolution and per-argument-type
	// monomorphization (spec.md §4.8). Lazily created.
	inst *InstTable
}

// ArgType reports the function's formal argument type (a Tuple for arity
// >1, the bare type for arity 1, Void for arity 0).
func (f *Func) ArgType() *Type { return f.argType }

// RetType reports the function's declared or inferred return type.
func (f *Func) RetType() *Type { return f.retType }

// IsMacro reports whether this function is a macro (its Function type
// carries macro=true, per spec.md §3 Form).
func (f *Func) IsMacro() bool { return f.macro }

// Builtin reports whether this is a builtin (vs. a user lambda).
func (f *Func) Builtin() bool { return f.builtin }

// RuntimeOnly reports whether calls to this function always emit runtime
// code (spec.md §4.5 step 4).
func (f *Func) RuntimeOnly() bool { return f.runtimeOnly }

// StatefulOutsideMeta reports whether this builtin may only run at compile
// time inside a `meta` perf frame (spec.md §4.9: "only meta ... may invoke
// stateful builtins").
func (f *Func) StatefulOutsideMeta() bool { return f.statefulOutsideMeta }

// Preserving reports whether Term/Quoted parameters bypass the
// evaluate-then-lower pass (spec.md §4.5 step 5).
func (f *Func) Preserving() bool { return f.preserving }

// Name returns the function's identifying symbol.
func (f *Func) Name() symbol.ID { return f.name }

// Hash returns the function's structural hash, including its closure
// environment for user-defined functions.
func (f *Func) Hash() hash.Hash { return f.hash }

// DisplayName renders a short human-readable label.
func (f *Func) DisplayName() string {
	if f.builtin {
		return f.name.Str()
	}
	return "λ" + f.name.Str()
}

// BuiltinOpts customizes RegisterBuiltinFunc beyond the required fields.
type BuiltinOpts struct {
	Macro               bool
	RuntimeOnly         bool
	StatefulOutsideMeta bool
	Preserving          bool
}

// RegisterBuiltinFunc registers a builtin special form under name, callable
// for compile-time reduction via cb. It should be called from init() in a
// builtin_*.go file (spec.md §4.6's enumeration of special forms).
func RegisterBuiltinFunc(name, desc string, argType, retType *Type, cb FuncCallback, opts BuiltinOpts) Value {
	id := symbol.Intern(name)
	f := &Func{
		name:                id,
		ast:                 NewASTUnknown(NoPos, TFunc(argType, retType, opts.Macro), id),
		builtin:             true,
		macro:               opts.Macro,
		runtimeOnly:         opts.RuntimeOnly,
		statefulOutsideMeta: opts.StatefulOutsideMeta,
		preserving:          opts.Preserving,
		argType:             argType,
		retType:             retType,
		callback:            cb,
		description:         desc,
		hash:                hash.String("builtin:" + name),
	}
	val := NewFunc(f)
	RegisterGlobalConst(name, val)
	return val
}

// RegisterBuiltinForm registers a builtin special form that needs an
// explicit parsing-time Form — a fixed precedence/associativity and a
// parameter list naming which slots are Term/Quoted (unevaluated) versus
// Var (evaluated) — instead of the generic prefix-call form InferForm would
// synthesize from argType alone. This is how `if`, `lambda`, `=`, `::`, and
// the rest of spec.md §4.6's precedence-ordered builtins get their actual
// call syntax: the self slot (PSelf, or a keyword occupying it) is params[0]
// for a prefix form and params[1] for an infix one, matching spec.md §3's
// "Self occupies a fixed slot" rule.
//
// It does not go through RegisterBuiltinFunc: a frame's set() only ever
// expects to place a given symbol once (global builtin registration is a
// one-shot init()-time affair), so registering once with the inferred form
// and then a second time to overwrite it would alias the symbol onto both
// of the frame's inline slots and make the first (formless) registration
// the one lookups see.
func RegisterBuiltinForm(name, desc string, precedence int64, assoc Associativity, params []Param, argType, retType *Type, cb FuncCallback, opts BuiltinOpts) Value {
	id := symbol.Intern(name)
	val := newBuiltinFormValue(id, desc, precedence, assoc, params, argType, retType, cb, opts)
	if _, ok := globalFrame.lookup(id); ok {
		Panicf(NoPos, "RegisterBuiltinForm: %s already registered", name)
	}
	globalFrame.set(id, val)
	return val
}

// newBuiltinFormValue builds (without registering) a single builtin Func
// value carrying an explicit Callable form. Used directly by
// RegisterBuiltinForm, and by builtins that register more than one
// Callable signature under the same name (e.g. `if`/`if-else`, both named
// "if" — spec.md §4.6), which combine several of these via liftIntersect
// before making exactly one globalFrame registration.
func newBuiltinFormValue(id symbol.ID, desc string, precedence int64, assoc Associativity, params []Param, argType, retType *Type, cb FuncCallback, opts BuiltinOpts) Value {
	f := &Func{
		name:                id,
		ast:                 NewASTUnknown(NoPos, TFunc(argType, retType, opts.Macro), id),
		builtin:             true,
		macro:               opts.Macro,
		runtimeOnly:         opts.RuntimeOnly,
		statefulOutsideMeta: opts.StatefulOutsideMeta,
		preserving:          opts.Preserving,
		argType:             argType,
		retType:             retType,
		callback:            cb,
		description:         desc,
		hash:                hash.String("builtin:" + id.Str()),
	}
	form := FCallable(precedence, assoc, NewCallable(params, nil))
	form.IsMacroForm = opts.Macro
	return NewFunc(f).WithForm(form)
}

// RegisterBuiltinOverloads combines several same-named Callable signatures
// (built via newBuiltinFormValue) into one intersect Value and registers it
// under name, for builtins with a genuinely different shape depending on
// the keywords present (e.g. `if` vs `if-else`) rather than argument types
// alone distinguishing them.
func RegisterBuiltinOverloads(name string, values ...Value) Value {
	merged, ok := liftIntersect(values)
	if !ok {
		Panicf(NoPos, "RegisterBuiltinOverloads(%s): overload signatures collide", name)
	}
	RegisterGlobalConst(name, merged)
	return merged
}

// NewUserDefinedFunc creates a function value for a `lambda`/`def` body
// (spec.md §4.6 `lambda`, §4.8). orgEnv is cloned so later mutation of the
// defining scope does not retroactively change the closure.
func NewUserDefinedFunc(ast ASTNode, name symbol.ID, orgEnv *Env, params []symbol.ID, argType *Type, body Value) *Func {
	env := orgEnv.Clone()
	h := hash.String("lambda").Merge(env.Hash()).Merge(valueHash(body))
	for _, p := range params {
		h = h.Merge(p.Hash())
	}
	f := &Func{
		name:    name,
		ast:     ast,
		builtin: false,
		argType: argType,
		retType: Any, // refined once resolved/instantiated (spec.md §4.8 step 5)
		hash:    h,
		env:     env,
		params:  params,
		body:    body,
	}
	return f
}

// Eval invokes the function's body directly (used by builtins and by the
// compile-time path of call(); spec.md §4.5 step 6 "User function").
func (f *Func) Eval(env *Env, ast ASTNode, args []Value) Value {
	if f.builtin {
		return f.callback(env, ast, args)
	}
	callEnv := f.env.Clone()
	if len(f.params) == 1 {
		callEnv.PushScope1(f.params[0], args[0])
	} else {
		callEnv.PushScopeN(f.params, args)
	}
	val := eval(callEnv, f.body)
	callEnv.PopScope()
	return val
}

// String renders the function for debugging.
func (f *Func) String() string {
	if f.builtin {
		return f.name.Str()
	}
	names := make([]string, len(f.params))
	for i, p := range f.params {
		names[i] = p.Str()
	}
	return fmt.Sprintf("λ(%s)%s", strings.Join(names, ","), f.body)
}
