package basil

import (
	"fmt"
	"strings"

	"github.com/basilTeam/basil/hash"
	"github.com/basilTeam/basil/symbol"
)

// ASTNode is a typed runtime-IR node produced by lowering (spec.md §4.10).
// It is the surface consumed by the (external, out-of-scope) SSA backend.
// Modeled after the teacher's gql/ast.go ASTNode interface, minus the
// GOB-encoding requirement (this system resets its whole process state
// between compilations instead of serializing across a cluster).
type ASTNode interface {
	// Eval evaluates the node in a runtime-codegen sense: for every node
	// kind in this package that's trivially foldable (constants), Eval
	// returns the folded Value; composite/call nodes panic, since by
	// construction an ASTNode only exists for values that could not be
	// reduced further at compile time. The backend (external) interprets
	// the tree instead of calling Eval on call/variable nodes.
	Eval() Value

	// String renders a human-readable, non-reparseable description.
	String() string

	// Hash computes a structural digest of this node (and descendants).
	Hash() hash.Hash

	// Pos reports this node's source location.
	Pos() Pos

	// Type reports the node's static (lowered) type.
	Type() *Type
}

// astBase factors the fields every concrete node needs.
type astBase struct {
	pos Pos
	typ *Type
}

func (b astBase) Pos() Pos   { return b.pos }
func (b astBase) Type() *Type { return b.typ }

// ASTUnknown is a placeholder node used for a not-yet-resolved reference,
// e.g. a recursive function's self-stub during instantiation (spec.md
// §4.8 step 3) or a builtin's dummy ast when no source call site exists.
type ASTUnknown struct {
	astBase
	Name symbol.ID
}

func NewASTUnknown(pos Pos, typ *Type, name symbol.ID) *ASTUnknown {
	return &ASTUnknown{astBase: astBase{pos: pos, typ: typ}, Name: name}
}

func (n *ASTUnknown) Eval() Value { Panicf(n.pos, "ASTUnknown: not evaluable") ; return Value{} }
func (n *ASTUnknown) String() string {
	if n.Name != symbol.Invalid {
		return "<unknown:" + n.Name.Str() + ">"
	}
	return "<unknown>"
}
func (n *ASTUnknown) Hash() hash.Hash { return hash.String("ast.unknown").Merge(n.Name.Hash()) }

// ASTLiteral wraps a fully compile-time-reducible scalar or aggregate Value
// that has nonetheless been lowered (e.g. because an enclosing expression
// is runtime). Eval returns the wrapped Value directly.
type ASTLiteral struct {
	astBase
	Value Value
}

func NewASTLiteral(pos Pos, v Value) *ASTLiteral {
	return &ASTLiteral{astBase: astBase{pos: pos, typ: v.Type()}, Value: v}
}

func (n *ASTLiteral) Eval() Value      { return n.Value }
func (n *ASTLiteral) String() string   { return n.Value.String() }
func (n *ASTLiteral) Hash() hash.Hash  { return hash.String("ast.literal").Merge(hash.String(n.Value.String())) }

// ASTVariable is a reference to a runtime-resident binding (spec.md §4.5
// "Runtime(T) -> produce a variable AST node referencing the name").
type ASTVariable struct {
	astBase
	Name symbol.ID
}

func NewASTVariable(pos Pos, typ *Type, name symbol.ID) *ASTVariable {
	return &ASTVariable{astBase: astBase{pos: pos, typ: typ}, Name: name}
}

func (n *ASTVariable) Eval() Value     { Panicf(n.pos, "ASTVariable %s: not foldable", n.Name.Str()); return Value{} }
func (n *ASTVariable) String() string  { return n.Name.Str() }
func (n *ASTVariable) Hash() hash.Hash { return hash.String("ast.var").Merge(n.Name.Hash()) }

// ASTDef introduces sym := Value in an emitted runtime block, synthesized
// by the `while` backedge-snapshot promotion (spec.md §4.6). A runtime `=`
// emits ASTAssign instead.
type ASTDef struct {
	astBase
	Name  symbol.ID
	Value ASTNode
}

func NewASTDef(pos Pos, name symbol.ID, value ASTNode) *ASTDef {
	return &ASTDef{astBase: astBase{pos: pos, typ: Void}, Name: name, Value: value}
}

func (n *ASTDef) Eval() Value { Panicf(n.pos, "ASTDef: not foldable"); return Value{} }
func (n *ASTDef) String() string {
	return n.Name.Str() + " := " + n.Value.String()
}
func (n *ASTDef) Hash() hash.Hash {
	return hash.String("ast.def").Merge(n.Name.Hash()).Merge(n.Value.Hash())
}

// ASTAssign writes Value into the runtime location Name, emitted by `=`
// once a variable's binding has turned runtime (spec.md §4.6 `=`). The SSA
// backend (external) renames each write, which is what gives §8's scenarios
// their distinct per-write variable ids.
type ASTAssign struct {
	astBase
	Name  symbol.ID
	Value ASTNode
}

func NewASTAssign(pos Pos, name symbol.ID, value ASTNode) *ASTAssign {
	return &ASTAssign{astBase: astBase{pos: pos, typ: value.Type()}, Name: name, Value: value}
}

func (n *ASTAssign) Eval() Value { Panicf(n.pos, "ASTAssign: not foldable"); return Value{} }
func (n *ASTAssign) String() string {
	return n.Name.Str() + " = " + n.Value.String()
}
func (n *ASTAssign) Hash() hash.Hash {
	return hash.String("ast.assign").Merge(n.Name.Hash()).Merge(n.Value.Hash())
}

// ASTCall is an invocation of a runtime function, builtin, or (per spec.md
// §9 "Overloaded intersections at the call site") a full overload table
// left for the backend to pick from.
type ASTCall struct {
	astBase
	Callee   ASTNode // nil when Overloads is set
	Args     []ASTNode
	Overloads map[string]ASTNode // type-key -> candidate callee, set only for deferred intersect dispatch
}

func NewASTCall(pos Pos, typ *Type, callee ASTNode, args []ASTNode) *ASTCall {
	return &ASTCall{astBase: astBase{pos: pos, typ: typ}, Callee: callee, Args: args}
}

func (n *ASTCall) Eval() Value { Panicf(n.pos, "ASTCall: not foldable"); return Value{} }
func (n *ASTCall) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	callee := "<overloaded>"
	if n.Callee != nil {
		callee = n.Callee.String()
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(parts, ", "))
}
func (n *ASTCall) Hash() hash.Hash {
	h := hash.String("ast.call")
	if n.Callee != nil {
		h = h.Merge(n.Callee.Hash())
	}
	for _, a := range n.Args {
		h = h.Merge(a.Hash())
	}
	return h
}

// ASTDo is a runtime sequence node (spec.md §4.6 `do`): every subexpression
// is emitted for its side effects, but only the last's value is live.
type ASTDo struct {
	astBase
	Exprs []ASTNode
}

func NewASTDo(pos Pos, exprs []ASTNode) *ASTDo {
	typ := Void
	if len(exprs) > 0 {
		typ = exprs[len(exprs)-1].Type()
	}
	return &ASTDo{astBase: astBase{pos: pos, typ: typ}, Exprs: exprs}
}

func (n *ASTDo) Eval() Value { Panicf(n.pos, "ASTDo: not foldable"); return Value{} }
func (n *ASTDo) String() string {
	parts := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		parts[i] = e.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
func (n *ASTDo) Hash() hash.Hash {
	h := hash.String("ast.do")
	for _, e := range n.Exprs {
		h = h.Merge(e.Hash())
	}
	return h
}

// ASTIf is a runtime conditional (spec.md §4.6 `if`/`if-else`).
type ASTIf struct {
	astBase
	Cond, Then, Else ASTNode // Else may be nil for a value-less `if`
}

func NewASTIf(pos Pos, typ *Type, cond, then, els ASTNode) *ASTIf {
	return &ASTIf{astBase: astBase{pos: pos, typ: typ}, Cond: cond, Then: then, Else: els}
}

func (n *ASTIf) Eval() Value { Panicf(n.pos, "ASTIf: not foldable"); return Value{} }
func (n *ASTIf) String() string {
	if n.Else != nil {
		return fmt.Sprintf("if %s then %s else %s", n.Cond, n.Then, n.Else)
	}
	return fmt.Sprintf("if %s then %s", n.Cond, n.Then)
}
func (n *ASTIf) Hash() hash.Hash {
	h := hash.String("ast.if").Merge(n.Cond.Hash()).Merge(n.Then.Hash())
	if n.Else != nil {
		h = h.Merge(n.Else.Hash())
	}
	return h
}

// ASTWhile is a runtime loop with an optional preamble of synthesized
// definitions for variables the snapshot-promotion mechanism discovered
// turned runtime partway through the body (spec.md §4.6, REDESIGN open
// question 1).
type ASTWhile struct {
	astBase
	Preamble []*ASTDef
	Cond     ASTNode
	Body     ASTNode
}

func NewASTWhile(pos Pos, preamble []*ASTDef, cond, body ASTNode) *ASTWhile {
	return &ASTWhile{astBase: astBase{pos: pos, typ: Void}, Preamble: preamble, Cond: cond, Body: body}
}

func (n *ASTWhile) Eval() Value { Panicf(n.pos, "ASTWhile: not foldable"); return Value{} }
func (n *ASTWhile) String() string {
	return fmt.Sprintf("while %s do %s", n.Cond, n.Body)
}
func (n *ASTWhile) Hash() hash.Hash {
	h := hash.String("ast.while")
	for _, d := range n.Preamble {
		h = h.Merge(d.Hash())
	}
	return h.Merge(n.Cond.Hash()).Merge(n.Body.Hash())
}

// ASTCoerce wraps an ASTNode whose runtime type must be converted to a
// different target type (spec.md §4.10 "wrap through an AST coerce node").
type ASTCoerce struct {
	astBase
	Inner ASTNode
}

func NewASTCoerce(pos Pos, target *Type, inner ASTNode) *ASTCoerce {
	return &ASTCoerce{astBase: astBase{pos: pos, typ: target}, Inner: inner}
}

func (n *ASTCoerce) Eval() Value { Panicf(n.pos, "ASTCoerce: not foldable"); return Value{} }
func (n *ASTCoerce) String() string {
	return fmt.Sprintf("coerce(%s -> %s)", n.Inner, n.typ)
}
func (n *ASTCoerce) Hash() hash.Hash {
	return hash.String("ast.coerce").Merge(hash.String(n.typ.Key())).Merge(n.Inner.Hash())
}

// ASTFunc is a lowered function body, the product of monomorphize (spec.md
// §4.8 step 6: "AST(func, args, body)").
type ASTFunc struct {
	astBase
	Name   symbol.ID
	Params []symbol.ID
	Body   ASTNode
}

func NewASTFunc(pos Pos, typ *Type, name symbol.ID, params []symbol.ID, body ASTNode) *ASTFunc {
	return &ASTFunc{astBase: astBase{pos: pos, typ: typ}, Name: name, Params: params, Body: body}
}

func (n *ASTFunc) Eval() Value { Panicf(n.pos, "ASTFunc: not foldable"); return Value{} }
func (n *ASTFunc) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Str()
	}
	return fmt.Sprintf("func %s(%s) %s", n.Name.Str(), strings.Join(names, ", "), n.Body)
}
func (n *ASTFunc) Hash() hash.Hash {
	h := hash.String("ast.func").Merge(n.Name.Hash())
	for _, p := range n.Params {
		h = h.Merge(p.Hash())
	}
	return h.Merge(n.Body.Hash())
}
