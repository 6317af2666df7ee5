package builtins

import (
	"cellang"
	"math"
	"time"
)

// rngState is process-global, matching fex_builtins.c's static
// sfc32_state rng_state / seeded pair: the PRNG is shared across every
// context that registers the math category, not per-context.
var (
	rngState  sfc32State
	rngSeeded bool
)

func ensureSeeded() {
	if !rngSeeded {
		rngState.seed(uint32(time.Now().Unix()))
		rngSeeded = true
	}
}

func checkArgs(ctx *cellang.Context, args cellang.Value, min int, name string) []cellang.Value {
	got := argSlice(ctx, args)
	if len(got) < min {
		ctx.Error("%s: expected at least %d argument(s)", name, min)
	}
	return got
}

// Math registers sqrt/sin/cos/tan/abs/floor/ceil/round/min/max/pow/log
// plus the seedable PRNG family, grounded on fex_builtins.c's
// register_math_functions and its sfc32-backed rand/randint/randbytes.
func Math(ctx *cellang.Context) {
	register(ctx, "sqrt", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "sqrt")
		n := ctx.ToNumber(a[0])
		if n < 0.0 {
			return ctx.Error("sqrt: negative argument")
		}
		return ctx.MakeNumber(math.Sqrt(n))
	})
	register(ctx, "sin", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "sin")
		return ctx.MakeNumber(math.Sin(ctx.ToNumber(a[0])))
	})
	register(ctx, "cos", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "cos")
		return ctx.MakeNumber(math.Cos(ctx.ToNumber(a[0])))
	})
	register(ctx, "tan", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "tan")
		return ctx.MakeNumber(math.Tan(ctx.ToNumber(a[0])))
	})
	register(ctx, "abs", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "abs")
		return ctx.MakeNumber(math.Abs(ctx.ToNumber(a[0])))
	})
	register(ctx, "floor", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "floor")
		return ctx.MakeNumber(math.Floor(ctx.ToNumber(a[0])))
	})
	register(ctx, "ceil", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "ceil")
		return ctx.MakeNumber(math.Ceil(ctx.ToNumber(a[0])))
	})
	register(ctx, "round", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "round")
		return ctx.MakeNumber(math.Round(ctx.ToNumber(a[0])))
	})
	register(ctx, "min", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "min")
		result := ctx.ToNumber(a[0])
		for _, v := range a[1:] {
			if n := ctx.ToNumber(v); n < result {
				result = n
			}
		}
		return ctx.MakeNumber(result)
	})
	register(ctx, "max", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "max")
		result := ctx.ToNumber(a[0])
		for _, v := range a[1:] {
			if n := ctx.ToNumber(v); n > result {
				result = n
			}
		}
		return ctx.MakeNumber(result)
	})
	register(ctx, "pow", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "pow")
		return ctx.MakeNumber(math.Pow(ctx.ToNumber(a[0]), ctx.ToNumber(a[1])))
	})
	register(ctx, "log", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "log")
		n := ctx.ToNumber(a[0])
		if n <= 0.0 {
			return ctx.Error("log: argument must be positive")
		}
		return ctx.MakeNumber(math.Log(n))
	})
	register(ctx, "rand", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		ensureSeeded()
		return ctx.MakeNumber(float64(rngState.next()) / float64(math.MaxUint32))
	})
	register(ctx, "seedrand", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "seedrand")
		rngState.seed(uint32(ctx.ToNumber(a[0])))
		rngSeeded = true
		return cellang.Nil()
	})
	register(ctx, "randint", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		ensureSeeded()
		a := argSlice(ctx, args)
		if len(a) == 0 {
			return ctx.MakeNumber(float64(rngState.next()))
		}
		maxNum := ctx.ToNumber(a[0])
		if maxNum <= 0 {
			return ctx.Error("randint: maximum must be positive")
		}
		return ctx.MakeNumber(float64(rngState.next() % uint32(maxNum)))
	})
	register(ctx, "randbytes", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "randbytes")
		count := int(ctx.ToNumber(a[0]))
		if count <= 0 || count > 1024 {
			return ctx.Error("randbytes: count must be between 1 and 1024")
		}
		ensureSeeded()
		items := make([]cellang.Value, count)
		for i := range items {
			items[i] = ctx.MakeNumber(float64(rngState.next() & 0xFF))
		}
		return ctx.List(items...)
	})
}
