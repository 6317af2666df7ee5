package builtins

import (
	"testing"

	"cellang"

	"github.com/stretchr/testify/require"
)

// errPanic and withRecoveredError mirror the sentinel-panic recovery
// pattern cellang's own gc_test.go uses: the only way to stop
// Context.Error from reaching its default print-and-exit tail is for the
// installed handler to unwind the Go stack itself.
type errPanic struct{ err *cellang.EvalError }

func withRecoveredError(t *testing.T, ctx *cellang.Context, fn func()) *cellang.EvalError {
	t.Helper()
	var caught *cellang.EvalError
	ctx.SetHandlers(cellang.Handlers{
		Error: func(ctx *cellang.Context, err *cellang.EvalError) {
			panic(errPanic{err})
		},
	})
	func() {
		defer func() {
			if r := recover(); r != nil {
				ep, ok := r.(errPanic)
				require.True(t, ok, "unexpected panic: %v", r)
				caught = ep.err
			}
		}()
		fn()
	}()
	return caught
}
