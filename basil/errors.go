package basil

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Category classifies a diagnostic per spec.md §7.
type Category int

const (
	CategorySyntax Category = iota
	CategoryFormResolution
	CategoryGrouping
	CategoryType
	CategoryOverload
	CategoryEval
	CategoryLowering
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryFormResolution:
		return "form-resolution"
	case CategoryGrouping:
		return "grouping"
	case CategoryType:
		return "type"
	case CategoryOverload:
		return "overload"
	case CategoryEval:
		return "eval"
	case CategoryLowering:
		return "lowering"
	default:
		return "unknown"
	}
}

// Note is a secondary annotation attached to a Diagnostic, each with its own
// position (spec.md §7: "optional notes each with their own position").
type Note struct {
	Pos     Pos
	Message string
}

// Frame is one entry of a call-stack snapshot attached to a diagnostic
// (spec.md §7: "an attached call-stack snapshot from the perf governor").
type Frame struct {
	Pos  Pos
	Name string
}

// Diagnostic is a recoverable compiler error: a message, a position, zero or
// more notes, and the perf-governor call stack active when it was raised.
type Diagnostic struct {
	Category Category
	Pos      Pos
	Message  string
	Notes    []Note
	Stack    []Frame
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s", d.Pos, d.Category, d.Message)
	for _, n := range d.Notes {
		fmt.Fprintf(&sb, "\n  note at %s: %s", n.Pos, n.Message)
	}
	return sb.String()
}

// NewDiagnostic constructs a Diagnostic with no call-stack snapshot; Diagf
// attaches the perf governor's current stack through WithStack.
func NewDiagnostic(cat Category, pos Pos, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Category: cat,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WithNote appends a note and returns the receiver, for fluent construction.
func (d *Diagnostic) WithNote(pos Pos, format string, args ...interface{}) *Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Message: fmt.Sprintf(format, args...)})
	return d
}

// WithStack attaches a call-stack snapshot and returns the receiver.
func (d *Diagnostic) WithStack(stack []Frame) *Diagnostic {
	d.Stack = stack
	return d
}

// ErrorBuffer accumulates diagnostics without aborting compilation, per
// spec.md §5: "errors are accumulated, not raised". It is backed by
// go.uber.org/multierr, which the teacher has no analogue for (GQL fails
// fast on the first error); modeled on the accumulate-don't-raise discipline
// used by logic-language implementations in the wider retrieval pack.
type ErrorBuffer struct {
	err error
}

// Append records a diagnostic. Nil is ignored.
func (b *ErrorBuffer) Append(d *Diagnostic) {
	if d == nil {
		return
	}
	b.err = multierr.Append(b.err, d)
}

// Count returns the number of diagnostics recorded so far — the gate spec.md
// §6 calls error_count().
func (b *ErrorBuffer) Count() int {
	return len(multierr.Errors(b.err))
}

// Diagnostics returns every recorded diagnostic, in the order appended.
func (b *ErrorBuffer) Diagnostics() []*Diagnostic {
	errs := multierr.Errors(b.err)
	out := make([]*Diagnostic, 0, len(errs))
	for _, e := range errs {
		if d, ok := e.(*Diagnostic); ok {
			out = append(out, d)
		}
	}
	return out
}

// Err returns the accumulated error (nil if none were recorded), suitable for
// returning from a function that follows Go's usual error-return convention
// at a phase boundary.
func (b *ErrorBuffer) Err() error {
	return b.err
}

// Reset clears the buffer, e.g. between compilation units.
func (b *ErrorBuffer) Reset() {
	b.err = nil
}

// compileErrors is the process-wide diagnostic buffer (spec.md §5
// "Process-wide: ... the error buffer"). Every recoverable diagnostic raised
// anywhere in the pipeline lands here; ErrorCount is the error_count() gate
// the driver consults between phases (spec.md §6).
var compileErrors = &ErrorBuffer{}

// Diagf records a recoverable diagnostic in the given category, stamped with
// the perf governor's current call stack, and logs it.
func Diagf(cat Category, pos Pos, format string, args ...interface{}) *Diagnostic {
	d := NewDiagnostic(cat, pos, format, args...).WithStack(perf.Stack())
	compileErrors.Append(d)
	return d
}

// ErrorCount reports the number of diagnostics recorded so far.
func ErrorCount() int { return compileErrors.Count() }

// Diagnostics returns every diagnostic recorded so far, in order.
func Diagnostics() []*Diagnostic { return compileErrors.Diagnostics() }

// ResetErrors clears the process-wide diagnostic buffer between compilations.
func ResetErrors() { compileErrors.Reset() }
