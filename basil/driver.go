package basil

import (
	"os"

	"github.com/basilTeam/basil/config"
)

// Source is one loaded compilation unit (spec.md §6 "load(path) → Source").
type Source struct {
	Path string
	Text string
}

// Load reads a source file (spec.md §6). The only blocking operation in the
// whole pipeline (spec.md §5: "No operation suspends or blocks except for
// source I/O").
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{Path: path, Text: string(data)}, nil
}

// NewSource wraps in-memory text as a Source, for tests and embedded use.
func NewSource(path, text string) *Source {
	return &Source{Path: path, Text: text}
}

// Resolve attaches forms to a parsed Value tree (spec.md §6 "resolve(Value)").
func Resolve(env *Env, v Value) Value {
	return ResolveForm(env, v)
}

// Eval reduces a form-resolved Value, possibly to a Runtime-wrapped AST
// (spec.md §6 "eval(Value)").
func Eval(env *Env, v Value) Value {
	return eval(env, v)
}

// AST strips the Runtime wrapper off an evaluated value, lowering a
// still-compile-time result first (spec.md §6 "ast(Value) → AST"). Returns
// false if the value has no runtime representation (e.g. a Module).
func AST(env *Env, v Value) (ASTNode, bool) {
	if v.IsError() {
		return nil, false
	}
	if v.Type().Kind != KRuntime {
		v = Lower(env, v)
		if v.IsError() {
			return nil, false
		}
	}
	return v.RuntimeAST(), true
}

// Pipeline sequences the compilation phases over source files, collecting
// errors through the process-wide diagnostic buffer (spec.md §6's pass
// pipeline; the Session/Opts shape is the teacher's gql.Create, re-pointed
// at compilation instead of query execution).
type Pipeline struct {
	env *Env
	cfg config.Config
}

// NewPipeline creates a Pipeline with a fresh root environment, resetting
// the process-wide compilation state (tvar bindings, perf governor,
// diagnostic buffer) that spec.md §5 requires to be per-compilation. The
// symbol intern table and type hash-cons table deliberately survive: builtin
// registration happens once per process, and the handles it interned are
// permanent (spec.md §5 "Type handles are permanent").
func NewPipeline(cfg config.Config) *Pipeline {
	ResetTVarTable()
	ResetPerfGovernor(cfg.Perf.MaxDepth, cfg.Perf.MaxCount)
	ResetErrors()
	return &Pipeline{env: NewRootEnv(), cfg: cfg}
}

// Env exposes the pipeline's root environment (the `unbind`-on-teardown
// responsibility spec.md §5 gives the driver is moot here: Env frames are
// plain Go maps with no refcount cycles to break).
func (p *Pipeline) Env() *Env { return p.env }

// Run loads and evaluates a source file, returning the value of each
// top-level expression. Phases stop promoting once any diagnostic has been
// recorded (spec.md §5 "Cancellation is global"), but the in-progress phase
// always runs to completion so one bad subexpression doesn't hide its
// neighbors' diagnostics.
func (p *Pipeline) Run(path string) ([]Value, error) {
	src, err := Load(path)
	if err != nil {
		return nil, err
	}
	return p.RunSource(src), compileErrors.Err()
}

// RunSource is Run over an already-loaded Source.
func (p *Pipeline) RunSource(src *Source) []Value {
	tokens := Lex(src)
	if ErrorCount() > 0 {
		return nil
	}
	prog := Parse(tokens)
	if prog.IsError() || ErrorCount() > 0 {
		return nil
	}
	var out []Value
	for _, expr := range prog.ListItems() {
		resolved := Resolve(p.env, expr)
		out = append(out, Eval(p.env, resolved))
	}
	return out
}

// EvalText parses and evaluates in-memory source, a convenience wrapper used
// by tests and the `import` builtin's siblings.
func (p *Pipeline) EvalText(text string) []Value {
	return p.RunSource(NewSource("<text>", text))
}
