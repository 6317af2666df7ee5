package cellang

import "fmt"

// CallTrailFrame is one snapshotted entry of the call trail, safe to hold
// onto after the evaluator has unwound (unlike a live *Cell reference
// during a handler that might trigger further allocation).
type CallTrailFrame struct {
	Text string
}

// EvalError is what an installed error handler receives, and what is
// printed by the default handler. It plays the role the teacher's
// ParsingError plays for the PEG compiler, adapted to a runtime
// call-trail instead of a parse-production stack.
type EvalError struct {
	Message string
	Trail   []CallTrailFrame
}

func (e *EvalError) Error() string { return e.Message }

func newEvalError(msg string, trail []callFrame, ctx *Context) *EvalError {
	frames := make([]CallTrailFrame, len(trail))
	for i, f := range trail {
		frames[i] = CallTrailFrame{Text: ctx.ToString(f.expr, false)}
	}
	return &EvalError{Message: msg, Trail: frames}
}

// ErrorFn is the host error hook (fe_Handlers.error). It receives the
// fully-formed EvalError; if it returns normally the default policy
// (print + exit) applies, exactly as spec.md §4.11/§7 describe.
type ErrorFn func(ctx *Context, err *EvalError)

// MarkFn lets a host walk extra roots reachable only through a PTR cell's
// opaque payload.
type MarkFn func(ctx *Context, ptr any)

// GCFn is invoked on a PTR cell's payload right before it is freed.
type GCFn func(ctx *Context, ptr any)

// CompileError is one surface-syntax diagnostic. Unlike EvalError these
// never reach the fatal path (spec.md §7): Compile returns a slice of
// them alongside a nil AST.
type CompileError struct {
	Line    int
	Where   string
	Message string
}

func (e *CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Where, e.Message)
}

// defaultErrorFn implements the fallback policy from spec.md §7: print
// "error: <msg>" followed by the call trail. It only prints; Context.Error
// terminates the process through the exit hook right after calling it.
// Context.Error always calls this after any installed handler returns --
// only a handler that unwinds the Go stack itself (panic/recover) can
// prevent it from running.
func defaultErrorFn(ctx *Context, err *EvalError) {
	fmt.Fprintf(ctx.stderr(), "error: %s\n", err.Message)
	for _, f := range err.Trail {
		fmt.Fprintf(ctx.stderr(), "=> %s\n", f.Text)
	}
}
