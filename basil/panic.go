package basil

import (
	"runtime/debug"

	"github.com/pkg/errors"
)

// Recover runs cb, catching any panic it throws and turning it into an error
// with a captured stack trace. If cb finishes without panicking, Recover
// returns nil. Adapted verbatim in spirit from the teacher's gql/panic.go.
func Recover(cb func()) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("panic: %v\n%s", e, string(debug.Stack()))
		}
	}()
	cb()
	return nil
}
