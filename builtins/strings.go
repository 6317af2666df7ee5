package builtins

import (
	"cellang"
	"strings"
)

// Strings registers strlen/upper/lower/concat/substring/split/trim/
// contains, grounded on fex_builtins.c's register_string_functions.
// Unlike the C original (which tostrings every argument through a fixed
// 1024-byte stack buffer), these operate on Go strings of any length.
func Strings(ctx *cellang.Context) {
	register(ctx, "strlen", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "strlen")
		requireString(ctx, a[0], "strlen")
		return ctx.MakeNumber(float64(len(ctx.ToString(a[0], false))))
	})
	register(ctx, "upper", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "upper")
		requireString(ctx, a[0], "upper")
		return ctx.String(strings.ToUpper(ctx.ToString(a[0], false)))
	})
	register(ctx, "lower", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "lower")
		requireString(ctx, a[0], "lower")
		return ctx.String(strings.ToLower(ctx.ToString(a[0], false)))
	})
	register(ctx, "concat", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		var sb strings.Builder
		for _, v := range argSlice(ctx, args) {
			sb.WriteString(ctx.ToString(v, false))
		}
		return ctx.String(sb.String())
	})
	register(ctx, "substring", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "substring")
		requireString(ctx, a[0], "substring")
		s := ctx.ToString(a[0], false)
		start := int(ctx.ToNumber(a[1]))
		end := len(s)
		if len(a) > 2 && !ctx.IsNil(a[2]) {
			end = int(ctx.ToNumber(a[2]))
		}
		if start < 0 {
			start = 0
		}
		if end > len(s) {
			end = len(s)
		}
		if start >= end {
			return ctx.String("")
		}
		return ctx.String(s[start:end])
	})
	register(ctx, "split", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "split")
		requireString(ctx, a[0], "split")
		s := ctx.ToString(a[0], false)
		delim := ctx.ToString(a[1], false)
		parts := strings.Split(s, delim)
		items := make([]cellang.Value, 0, len(parts))
		for _, p := range parts {
			if p == "" {
				continue
			}
			items = append(items, ctx.String(p))
		}
		return ctx.List(items...)
	})
	register(ctx, "trim", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "trim")
		requireString(ctx, a[0], "trim")
		return ctx.String(strings.TrimSpace(ctx.ToString(a[0], false)))
	})
	register(ctx, "contains", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "contains")
		requireString(ctx, a[0], "contains")
		requireString(ctx, a[1], "contains")
		return cellang.Bool(strings.Contains(ctx.ToString(a[0], false), ctx.ToString(a[1], false)))
	})
}

func requireString(ctx *cellang.Context, v cellang.Value, name string) {
	if ctx.Type(v) != cellang.TString {
		ctx.Error("%s: expected a string argument", name)
	}
}
