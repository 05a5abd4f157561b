package basil

import (
	"path/filepath"
	"strings"

	"github.com/basilTeam/basil/symbol"
)

// module / use / import / at / . — spec.md §4.6's namespace builtins. A
// Module value wraps the Env its body's definitions landed in; `at` and `.`
// index into it by symbol (and into tuples/arrays by Int, which is also what
// the parser's `foo[bar]` sugar lowers to); `use` splices a module's
// bindings into the current scope; `import` runs a whole source file through
// the front half of the pipeline into a fresh module. Grounded on
// original_source/compiler/builtin.cpp's MODULE/USE/IMPORT/AT/DOT structs
// and, for import's load-lex-parse-eval chain, on the teacher's
// gql/gql.go Session.EvalFile shape.
func init() {
	name := symbol.Intern("name")
	body := symbol.Intern("body")
	mod := symbol.Intern("mod")
	container := symbol.Intern("container")
	index := symbol.Intern("index")
	member := symbol.Intern("member")
	path := symbol.Intern("path")

	RegisterBuiltinForm("module", `
module name body

Evaluates body in a fresh scope and binds name to a Module collecting every
definition the body made.
`,
		PrecCompound, AssocRight,
		[]Param{PSelf, PTerm(name), PQuoted(body)},
		TTuple([]*Type{Any, Any}, false), ModuleT,
		builtinModule,
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm("use", `
use mod

Splices every binding of the module mod into the current scope. Bindings
merge the way repeated defs do, so using two modules that both define an
operator grows an overload set rather than erroring.
`,
		PrecCompound, AssocRight,
		[]Param{PSelf, PVar(mod)},
		ModuleT, Void,
		builtinUse,
		BuiltinOpts{},
	)

	RegisterBuiltinForm("import", `
import path

Loads, lexes, parses and evaluates the source file at path into a fresh
module, binding it under the file's stem name and evaluating to it.
`,
		PrecCompound, AssocRight,
		[]Param{PSelf, PVar(path)},
		String, ModuleT,
		builtinImport,
		BuiltinOpts{},
	)

	RegisterBuiltinForm("at", `
at container index

Indexes container: a Module by symbol, a Tuple, Array or List by Int. The
parser's container[index] sugar arrives here with index wrapped in a
one-element array, which is unwrapped first.
`,
		PrecPrefix, AssocLeft,
		[]Param{PSelf, PVar(container), PVar(index)},
		TTuple([]*Type{Any, Any}, false), Any,
		builtinAt,
		BuiltinOpts{Preserving: true},
	)

	RegisterBuiltinForm(".", `
container . member

Member access: container.member is at container 'member with the member
name left unevaluated.
`,
		PrecAnnotated, AssocLeft,
		[]Param{PVar(container), PSelf, PTerm(member)},
		TTuple([]*Type{Any, Any}, false), Any,
		builtinDot,
		BuiltinOpts{Preserving: true},
	)
}

func builtinModule(env *Env, ast ASTNode, args []Value) Value {
	nameTerm, bodyTerm := args[0], args[1]
	if nameTerm.Type().Kind != KSymbol {
		Errorf(nameTerm.Pos(), "module: expected a name, got %s", nameTerm)
		return ErrorValue
	}
	modEnv := env.Clone()
	modEnv.PushScope()
	if v := eval(modEnv, bodyTerm); v.IsError() {
		return ErrorValue
	}
	modVal := newModuleValue(modEnv)
	return bindDef(env, nameTerm.Pos(), nameTerm.Symbol(), modVal)
}

// newModuleValue wraps modEnv as a Module value carrying a Compound form
// whose members map each exported name to its binding's form, which is what
// lets `at` lookups resolve an operator's parsing form without evaluating
// the module expression again (spec.md §3 "Compound{members} represents
// modules; at lookups use it").
func newModuleValue(modEnv *Env) Value {
	members := map[string]*Form{}
	for _, sym := range modEnv.ScopeNames() {
		val, ok := modEnv.Lookup(sym)
		if !ok {
			continue
		}
		f := val.Form()
		if f == nil {
			f = InferForm(val.Type())
		}
		members[sym.Str()] = f
	}
	return NewModule(modEnv).WithForm(FCompound(NewCompound(members)))
}

// builtinUse splices mod's scope into the caller's innermost scope. Each
// name goes through BindMerged so a use can grow an existing overload set.
// A module member that is still Undefined (a forward stub) is bound anyway:
// that is the point of `use` shadowing undefined stubs — callers resolve the
// stub's form now and its value on a later pass.
func builtinUse(env *Env, ast ASTNode, args []Value) Value {
	modEnv := args[0].AsModule()
	for _, sym := range modEnv.ScopeNames() {
		val, ok := modEnv.Lookup(sym)
		if !ok {
			continue
		}
		if _, ok := env.BindMerged(sym, val); !ok {
			return ErrorValue
		}
	}
	return NewVoid()
}

func builtinImport(env *Env, ast ASTNode, args []Value) Value {
	pathVal := args[0]
	src, err := Load(pathVal.Str())
	if err != nil {
		Errorf(pathVal.Pos(), "import: %v", err)
		return ErrorValue
	}
	modEnv := NewRootEnv()
	modEnv.PushScope()
	prog := Parse(Lex(src))
	if prog.IsError() {
		return ErrorValue
	}
	for _, expr := range prog.ListItems() {
		if v := eval(modEnv, expr); v.IsError() {
			return ErrorValue
		}
	}
	modVal := newModuleValue(modEnv)
	stem := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	return bindDef(env, pathVal.Pos(), symbol.Intern(stem), modVal)
}

func builtinAt(env *Env, ast ASTNode, args []Value) Value {
	return indexValue(env, args[0], args[1])
}

func builtinDot(env *Env, ast ASTNode, args []Value) Value {
	containerVal, memberTerm := args[0], args[1]
	if memberTerm.Type().Kind != KSymbol {
		Errorf(memberTerm.Pos(), ".: expected a member name, got %s", memberTerm)
		return ErrorValue
	}
	return indexValue(env, containerVal, memberTerm)
}

func indexValue(env *Env, container, index Value) Value {
	// container[x] parses as (at container (array x)).
	if index.Type().Kind == KArray {
		items := index.ArrayItems()
		if len(items) != 1 {
			Errorf(index.Pos(), "at: expected a single index, got %d", len(items))
			return ErrorValue
		}
		index = items[0]
	}

	switch container.Type().Kind {
	case KModule:
		if index.Type().Kind != KSymbol {
			Errorf(index.Pos(), "at: module index must be a symbol, got %s", index.Type())
			return ErrorValue
		}
		val, ok := container.AsModule().Lookup(index.Symbol())
		if !ok {
			Errorf(index.Pos(), "at: module has no member %q", index.Symbol().Str())
			return ErrorValue
		}
		return val.WithPos(index.Pos())
	case KStruct:
		if index.Type().Kind != KSymbol {
			Errorf(index.Pos(), "at: struct index must be a field name, got %s", index.Type())
			return ErrorValue
		}
		val, ok := container.StructField(index.Symbol())
		if !ok {
			Errorf(index.Pos(), "at: struct has no field %q", index.Symbol().Str())
			return ErrorValue
		}
		return val.WithPos(index.Pos())
	case KTuple:
		return indexSeq(container.TupleItems(), index)
	case KArray:
		return indexSeq(container.ArrayItems(), index)
	case KList:
		return indexSeq(container.ListItems(), index)
	case KDict:
		val, ok := container.DictGet(index)
		if !ok {
			Errorf(index.Pos(), "at: no entry for key %s", index)
			return ErrorValue
		}
		return val.WithPos(index.Pos())
	default:
		Errorf(container.Pos(), "at: cannot index a %s", container.Type())
		return ErrorValue
	}
}

func indexSeq(items []Value, index Value) Value {
	if index.Type().Kind != KInt {
		Errorf(index.Pos(), "at: index must be an Int, got %s", index.Type())
		return ErrorValue
	}
	i := index.Int()
	if i < 0 || i >= int64(len(items)) {
		Errorf(index.Pos(), "at: index %d out of range [0, %d)", i, len(items))
		return ErrorValue
	}
	return items[i].WithPos(index.Pos())
}
