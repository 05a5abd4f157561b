package basil

// Logging helpers, adapted from the teacher's gql/log.go. They attach a
// source position to every line, the same way the teacher prefixes log lines
// with the AST node's position and textual form.

import (
	"fmt"

	"github.com/grailbio/base/log"
)

// Debugf logs at debug level, prefixed with pos.
func Debugf(pos Pos, format string, args ...interface{}) {
	if log.At(log.Debug) {
		log.Output(2, log.Debug, pos.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
	}
}

// Logf logs at info level, prefixed with pos.
func Logf(pos Pos, format string, args ...interface{}) {
	if log.At(log.Info) {
		log.Output(2, log.Info, pos.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
	}
}

// Errorf records a recoverable compiler diagnostic (eval category — callers
// with a more specific category use Diagf directly) and logs it at error
// level, prefixed with pos. Errors accumulate rather than abort (spec.md §5);
// ErrorCount() is the gate.
func Errorf(pos Pos, format string, args ...interface{}) {
	Diagf(CategoryEval, pos, format, args...)
	log.Output(2, log.Error, pos.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
}

// Panicf reports an internal invariant violation: a compiler bug, not a
// user-facing diagnostic (spec.md §7: "Panics ... indicate compiler bugs and
// abort the process").
func Panicf(pos Pos, format string, args ...interface{}) {
	panic(pos.String() + ": " + fmt.Sprintf(format, args...))
}
