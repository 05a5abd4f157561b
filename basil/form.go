package basil

import (
	"fmt"
	"strings"

	"github.com/basilTeam/basil/symbol"
)

// FormKind distinguishes the four shapes a Form can take (spec.md §3
// "Form"). Rendered as a Go enum + sum-type dispatch, per spec.md §9's
// design note ("StateMachine ... maps to a sum type").
type FormKind int

const (
	FKTerm FormKind = iota
	FKCallable
	FKOverloaded
	FKCompound
)

// Associativity is how a form associates with operators of equal
// precedence (spec.md §3).
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
)

// Precedence tiers for the builtins registered across builtin_*.go (spec.md
// §4.6: "annotated > prefix > mul > add > type > default > compare > logic >
// compound > control > structure > quote"). Gaps between tiers leave room
// for a future builtin to slot in without renumbering its neighbors.
const (
	PrecQuote     int64 = 10
	PrecStructure int64 = 20
	PrecControl   int64 = 30
	PrecCompound  int64 = 40
	PrecLogic     int64 = 50
	PrecCompare   int64 = 60
	PrecDefault   int64 = 70
	PrecType      int64 = 80
	PrecAdd       int64 = 90
	PrecMul       int64 = 100
	PrecPrefix    int64 = 110
	PrecAnnotated int64 = 120
)

// ParamKind enumerates the parameter roles a Callable's parameter list can
// hold (spec.md §3 "Param").
type ParamKind int

const (
	PKSelf ParamKind = iota
	PKKeyword
	PKVar
	PKTerm
	PKQuoted
	PKVariadic
	PKTermVariadic
	PKQuotedVariadic
)

// IsVariadic reports whether a parameter kind accepts any number of terms.
func (pk ParamKind) IsVariadic() bool {
	return pk == PKVariadic || pk == PKTermVariadic || pk == PKQuotedVariadic
}

// IsEvaluated reports whether a parameter kind is evaluated before the
// call (false for Term/Quoted/their variadics, per spec.md §4.5 "pass
// Term/Quoted parameters unevaluated").
func (pk ParamKind) IsEvaluated() bool {
	switch pk {
	case PKTerm, PKQuoted, PKTermVariadic, PKQuotedVariadic:
		return false
	}
	return true
}

// Param is one slot of a Callable's parameter list (spec.md §3).
type Param struct {
	Name symbol.ID
	Kind ParamKind
}

// PSelf is the constant self-parameter, occupying the operator/function
// name's own slot.
var PSelf = Param{Kind: PKSelf}

func PVar(name symbol.ID) Param           { return Param{Name: name, Kind: PKVar} }
func PTerm(name symbol.ID) Param          { return Param{Name: name, Kind: PKTerm} }
func PQuoted(name symbol.ID) Param        { return Param{Name: name, Kind: PKQuoted} }
func PVariadic(name symbol.ID) Param      { return Param{Name: name, Kind: PKVariadic} }
func PTermVariadic(name symbol.ID) Param  { return Param{Name: name, Kind: PKTermVariadic} }
func PQuotedVariadic(name symbol.ID) Param { return Param{Name: name, Kind: PKQuotedVariadic} }
func PKeyword(name symbol.ID) Param       { return Param{Name: name, Kind: PKKeyword} }

// Matches reports whether v (as a bare code term, pre-evaluation) is a
// candidate binding for this parameter. Keyword parameters match only the
// literal symbol; everything else matches any term (spec.md forms.h
// Param::matches; keyword-vs-term discrimination is handled earlier by
// precheck_keyword/precheck_term, so this is a coarse acceptance test used
// by callers that already know the slot is not a keyword check).
func (p Param) Matches(v Value) bool {
	if p.Kind == PKKeyword {
		return v.Type() == SymbolT && v.Symbol() == p.Name
	}
	return true
}

// StateMachine is the parsing-time acceptance automaton shared by Callable
// and Overloaded (spec.md §4.3).
type StateMachine interface {
	HasPrefixCase() bool
	HasInfixCase() bool
	Reset()
	PrecheckKeyword(kw Value) bool
	PrecheckTerm(term Value) bool
	Advance(v Value)
	IsFinished() bool
	Match() (*Callable, bool)
	Clone() StateMachine
}

// Callable is the form of a single invokable signature: a function,
// macro, or operator overload (spec.md §3 "Callable").
type Callable struct {
	Parameters []Param
	Callback   FormCallback // may be nil

	index     int
	stopped   bool
	advances  int
	wrongVal  *Value
}

// FormCallback dynamically resolves the form used for a specific
// application (spec.md forms.h "FormCallback"). Implementations must not
// themselves report errors; on failure, return F_TERM.
type FormCallback func(env *Env, call Value) *Form

func NewCallable(params []Param, cb FormCallback) *Callable {
	if len(params) == 0 {
		Panicf(NoPos, "Callable: empty parameter list")
	}
	return &Callable{Parameters: append([]Param{}, params...), Callback: cb}
}

// IsPrefixish reports whether parameters[0] is Self or Keyword (spec.md §3).
func (c *Callable) IsPrefixish() bool {
	k := c.Parameters[0].Kind
	return k == PKSelf || k == PKKeyword
}

// IsInfixish reports whether parameters[1] holds the self/keyword role.
func (c *Callable) IsInfixish() bool {
	if len(c.Parameters) < 2 {
		return false
	}
	k := c.Parameters[1].Kind
	return k == PKSelf || k == PKKeyword
}

func (c *Callable) HasPrefixCase() bool { return c.IsPrefixish() }
func (c *Callable) HasInfixCase() bool  { return c.IsInfixish() }

func (c *Callable) Reset() {
	c.index = 0
	c.stopped = false
	c.advances = 0
	c.wrongVal = nil
}

func (c *Callable) currentParam() (Param, bool) {
	if c.index >= len(c.Parameters) {
		return Param{}, false
	}
	return c.Parameters[c.index], true
}

func (c *Callable) PrecheckKeyword(kw Value) bool {
	p, ok := c.currentParam()
	if !ok || c.stopped {
		return false
	}
	if p.Kind == PKKeyword {
		if p.Name == kw.Symbol() {
			return true
		}
		c.stopped = true
		return false
	}
	if p.Kind.IsVariadic() {
		// A keyword can end a variadic run by matching a later keyword slot.
		for i := c.index + 1; i < len(c.Parameters); i++ {
			if c.Parameters[i].Kind == PKKeyword && c.Parameters[i].Name == kw.Symbol() {
				return true
			}
		}
	}
	return false
}

func (c *Callable) PrecheckTerm(term Value) bool {
	p, ok := c.currentParam()
	if !ok || c.stopped {
		return false
	}
	return p.Kind == PKTerm || p.Kind == PKQuoted
}

func (c *Callable) Advance(v Value) {
	p, ok := c.currentParam()
	if !ok {
		c.stopped = true
		return
	}
	if !p.Matches(v) {
		c.stopped = true
		c.wrongVal = &v
		return
	}
	if p.Kind == PKKeyword {
		// A keyword consumes the variadic run (or itself) and moves on.
		for c.index < len(c.Parameters) && c.Parameters[c.index].Kind == PKKeyword && c.Parameters[c.index].Name != v.Symbol() {
			c.index++
		}
		if c.index < len(c.Parameters) {
			c.index++
		}
		c.advances++
		return
	}
	if p.Kind.IsVariadic() {
		// Variadic stays current until a keyword elsewhere consumes it.
		c.advances++
		return
	}
	c.index++
	c.advances++
}

func (c *Callable) IsFinished() bool {
	return c.stopped || c.index >= len(c.Parameters)
}

func (c *Callable) Match() (*Callable, bool) {
	if c.stopped {
		return nil, false
	}
	if c.index >= len(c.Parameters) {
		return c, true
	}
	if c.index == len(c.Parameters)-1 && c.Parameters[c.index].Kind.IsVariadic() {
		return c, true
	}
	return nil, false
}

func (c *Callable) Clone() StateMachine {
	n := &Callable{Parameters: c.Parameters, Callback: c.Callback, index: c.index, stopped: c.stopped, advances: c.advances}
	return n
}

// Describe renders the parameter pattern and, when the machine stopped on a
// mismatch, the value (or missing-parameter index) it stopped at — used
// verbatim as a GroupError diagnostic note (spec.md §4.3 "Best-match
// policy", §7 Grouping errors).
func (c *Callable) Describe() string {
	var b strings.Builder
	for i, p := range c.Parameters {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch p.Kind {
		case PKSelf:
			b.WriteString("<self>")
		case PKKeyword:
			b.WriteString(p.Name.Str())
		case PKVariadic, PKTermVariadic, PKQuotedVariadic:
			b.WriteString(paramName(p) + "...")
		default:
			b.WriteString(paramName(p))
		}
	}
	if c.wrongVal != nil {
		b.WriteString("; stopped at " + c.wrongVal.String())
	} else if c.advances < len(c.Parameters) {
		b.WriteString(fmt.Sprintf("; missing parameter %d", c.advances))
	}
	return b.String()
}

func paramName(p Param) string {
	if p.Name == symbol.Invalid {
		return "_"
	}
	return p.Name.Str()
}

// Mangle turns the parameter pattern into a canonical symbol, colliding
// exactly when two callables would be ambiguous overloads (spec.md §3
// "Mangling").
func (c *Callable) Mangle() symbol.ID {
	var b strings.Builder
	sawVariadic := false
	for _, p := range c.Parameters {
		switch p.Kind {
		case PKKeyword:
			b.WriteString(p.Name.Str())
			b.WriteByte('\\')
		case PKSelf:
			// Self occupies a fixed slot; contributes nothing distinguishing.
		default:
			if p.Kind.IsVariadic() {
				if sawVariadic {
					continue // collapse consecutive variadics
				}
				sawVariadic = true
			} else {
				sawVariadic = false
			}
			b.WriteString("#\\")
		}
	}
	return symbol.Intern(b.String())
}

// Overloaded is the form of a term invokable in multiple distinct ways
// (spec.md §3 "Overloaded").
type Overloaded struct {
	Overloads []*Callable
	mangled   map[symbol.ID]bool

	active []*Callable // working set during a parse; subset of Overloads
}

// NewOverloaded builds an Overloaded form, rejecting a mangling collision
// among the given callables (spec.md §3: "Adding an overload that mangles
// to an existing signature is rejected").
func NewOverloaded(overloads []*Callable) *Overloaded {
	o := &Overloaded{mangled: map[symbol.ID]bool{}}
	for _, c := range overloads {
		o.AddOverload(c)
	}
	return o
}

// AddOverload appends c, panicking on a mangling collision.
func (o *Overloaded) AddOverload(c *Callable) {
	m := c.Mangle()
	if o.mangled[m] {
		Panicf(NoPos, "overload mangling collision: %s", m.Str())
	}
	o.mangled[m] = true
	o.Overloads = append(o.Overloads, c)
}

func (o *Overloaded) HasPrefixCase() bool {
	for _, c := range o.Overloads {
		if c.HasPrefixCase() {
			return true
		}
	}
	return false
}

func (o *Overloaded) HasInfixCase() bool {
	for _, c := range o.Overloads {
		if c.HasInfixCase() {
			return true
		}
	}
	return false
}

func (o *Overloaded) Reset() {
	// The active set holds clones: a nested Group over the same operator
	// (e.g. an `if` inside an `if` branch) starts its own machines, and
	// advancing those must not disturb this one's.
	o.active = make([]*Callable, len(o.Overloads))
	for i, c := range o.Overloads {
		n := c.Clone().(*Callable)
		n.Reset()
		o.active[i] = n
	}
}

func (o *Overloaded) PrecheckKeyword(kw Value) bool {
	accepted := make([]bool, len(o.active))
	matched := false
	for i, c := range o.active {
		accepted[i] = c.PrecheckKeyword(kw)
		if accepted[i] {
			matched = true
		}
	}
	if matched {
		// Keywords take priority over grouping: once any child accepts the
		// keyword, every child that didn't is stopped (spec.md §4.3), so a
		// sibling can't swallow the keyword into a variadic or term slot.
		next := o.active[:0]
		for i, c := range o.active {
			if accepted[i] {
				next = append(next, c)
			}
		}
		o.active = next
	}
	return matched
}

func (o *Overloaded) PrecheckTerm(term Value) bool {
	matched := false
	for _, c := range o.active {
		if c.PrecheckTerm(term) {
			matched = true
		}
	}
	if matched {
		next := o.active[:0]
		for _, c := range o.active {
			if !c.stopped {
				next = append(next, c)
			}
		}
		o.active = next
	}
	return matched
}

func (o *Overloaded) Advance(v Value) {
	for _, c := range o.active {
		c.Advance(v)
	}
}

func (o *Overloaded) IsFinished() bool {
	for _, c := range o.active {
		if !c.IsFinished() {
			return false
		}
	}
	return true
}

// Match returns the last (maximal-munch) matching callable among the
// active set, per spec.md §4.3 "Best-match policy".
func (o *Overloaded) Match() (*Callable, bool) {
	var best *Callable
	bestAdvances := -1
	for _, c := range o.active {
		if m, ok := c.Match(); ok && m.advances >= bestAdvances {
			best, bestAdvances = m, m.advances
		}
	}
	return best, best != nil
}

func (o *Overloaded) Clone() StateMachine {
	n := &Overloaded{Overloads: o.Overloads, mangled: o.mangled}
	n.active = make([]*Callable, len(o.active))
	for i, c := range o.active {
		n.active[i] = c.Clone().(*Callable)
	}
	return n
}

// Compound holds named subforms, used for modules (spec.md §3 "Compound").
type Compound struct {
	Members map[string]*Form // keyed by the member Value's canonical display string
}

func NewCompound(members map[string]*Form) *Compound {
	m := make(map[string]*Form, len(members))
	for k, v := range members {
		m[k] = v
	}
	return &Compound{Members: m}
}

// Form is how a value is (or is not) applied to surrounding terms
// (spec.md §3).
type Form struct {
	Kind       FormKind
	Precedence int64
	Assoc      Associativity
	Invokable  StateMachine // set for Callable/Overloaded kinds
	CompoundV  *Compound    // set for Compound kind
	IsMacroForm bool
}

// FTerm is the form of a non-applied, singular value.
var FTerm = &Form{Kind: FKTerm}

// FCallable builds a Callable-kind form.
func FCallable(precedence int64, assoc Associativity, c *Callable) *Form {
	return &Form{Kind: FKCallable, Precedence: precedence, Assoc: assoc, Invokable: c}
}

// FOverloaded builds an Overloaded-kind form.
func FOverloaded(precedence int64, assoc Associativity, o *Overloaded) *Form {
	return &Form{Kind: FKOverloaded, Precedence: precedence, Assoc: assoc, Invokable: o}
}

// FCompound builds a Compound-kind form (modules; no precedence/assoc).
func FCompound(c *Compound) *Form {
	return &Form{Kind: FKCompound, CompoundV: c}
}

// IsInvokable reports whether this form can ever be the head of an
// application (spec.md §3).
func (f *Form) IsInvokable() bool {
	return f.Kind == FKCallable || f.Kind == FKOverloaded
}

func (f *Form) HasPrefixCase() bool {
	if !f.IsInvokable() {
		return false
	}
	return f.Invokable.HasPrefixCase()
}

func (f *Form) HasInfixCase() bool {
	if !f.IsInvokable() {
		return false
	}
	return f.Invokable.HasInfixCase()
}

// Start returns the invokable's state machine reset to its initial state.
// Panics if this form is not invokable.
func (f *Form) Start() StateMachine {
	if !f.IsInvokable() {
		Panicf(NoPos, "Form.Start: form is not invokable (%v)", f.Kind)
	}
	sm := f.Invokable.Clone()
	sm.Reset()
	return sm
}

// ToPrefix returns a copy of f where, if Self occupies the second slot
// (infix), it is swapped to first (spec.md §4.2 "to_prefix").
func (f *Form) ToPrefix() *Form {
	switch inv := f.Invokable.(type) {
	case *Callable:
		if inv.IsInfixish() && !inv.IsPrefixish() {
			params := append([]Param{}, inv.Parameters...)
			params[0], params[1] = params[1], params[0]
			n := NewCallable(params, inv.Callback)
			return FCallable(f.Precedence, f.Assoc, n)
		}
		return f
	case *Overloaded:
		out := make([]*Callable, len(inv.Overloads))
		for i, c := range inv.Overloads {
			if c.IsInfixish() && !c.IsPrefixish() {
				params := append([]Param{}, c.Parameters...)
				params[0], params[1] = params[1], params[0]
				out[i] = NewCallable(params, c.Callback)
			} else {
				out[i] = c
			}
		}
		return FOverloaded(f.Precedence, f.Assoc, NewOverloaded(out))
	}
	return f
}

func (f *Form) String() string {
	switch f.Kind {
	case FKTerm:
		return "<term>"
	case FKCallable:
		return "<callable>"
	case FKOverloaded:
		return "<overloaded>"
	case FKCompound:
		return "<compound>"
	default:
		return "<form>"
	}
}

// InferForm produces a form from a type alone, used when a value has no
// explicit form (spec.md §4.2 "infer_form"). A function type yields a
// prefix callable of anonymous Var parameters; a procedural intersect
// (all-function members sharing macro-ness) yields an overloaded form;
// inconsistent macro-ness falls back to Term; anything else is Term.
func InferForm(t *Type) *Form {
	switch t.Kind {
	case KRuntime:
		// A runtime-resident closure still has a fixed parameter shape; only
		// its invocation is deferred, so grouping should treat it exactly
		// like its unwrapped function/intersect type (spec.md §4.2).
		return InferForm(t.Elem)
	case KFunction:
		arity := 1
		if t.Arg.Kind == KTuple {
			arity = len(t.Arg.Members)
		}
		params := make([]Param, 0, arity+1)
		params = append(params, PSelf)
		for i := 0; i < arity; i++ {
			params = append(params, PVar(symbol.Invalid))
		}
		c := NewCallable(params, nil)
		f := FCallable(0, AssocLeft, c)
		f.IsMacroForm = t.Macro
		return f
	case KIntersect:
		macro, consistent := firstMacroness(t.Members)
		if !consistent {
			return FTerm
		}
		var callables []*Callable
		for _, m := range t.Members {
			if m.Kind != KFunction {
				return FTerm
			}
			sub := InferForm(m)
			if c, ok := sub.Invokable.(*Callable); ok {
				callables = append(callables, c)
			}
		}
		f := FOverloaded(0, AssocLeft, NewOverloaded(callables))
		f.IsMacroForm = macro
		return f
	default:
		return FTerm
	}
}

func firstMacroness(members []*Type) (macro bool, consistent bool) {
	for i, m := range members {
		if m.Kind != KFunction {
			return false, false
		}
		if i == 0 {
			macro = m.Macro
		} else if m.Macro != macro {
			return false, false
		}
	}
	return macro, true
}
