package builtins

import (
	"cellang"
	"time"
)

// System registers time/exit, grounded on fex_builtins.c's
// register_system_functions. builtin_system (a raw shell-exec via the C
// `system()` call) is deliberately not ported -- see the documented
// scope-narrowing decision for this category.
func System(ctx *cellang.Context) {
	register(ctx, "time", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		return ctx.MakeNumber(float64(time.Now().Unix()))
	})
	register(ctx, "exit", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		code := 0
		a := argSlice(ctx, args)
		if len(a) > 0 {
			code = int(ctx.ToNumber(a[0]))
		}
		ctx.Exit(code)
		return cellang.Nil()
	})
}
