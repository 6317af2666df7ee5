package builtins

import "cellang"

// Lists registers length/nth/append/reverse/map/filter/fold, grounded on
// fex_builtins.c's register_list_functions. map/filter/fold re-enter the
// evaluator via Context.Apply, the re-entrant hook spec.md §5 calls out
// explicitly for this kind of host callback.
func Lists(ctx *cellang.Context) {
	register(ctx, "length", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "length")
		requireList(ctx, a[0], "length")
		count := 0
		for l := a[0]; !ctx.IsNil(l); l = ctx.Cdr(l) {
			count++
		}
		return ctx.MakeNumber(float64(count))
	})
	register(ctx, "nth", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "nth")
		requireList(ctx, a[0], "nth")
		idx := int(ctx.ToNumber(a[1]))
		l := a[0]
		for i := 0; i < idx && !ctx.IsNil(l); i++ {
			l = ctx.Cdr(l)
		}
		if ctx.IsNil(l) {
			return cellang.Nil()
		}
		return ctx.Car(l)
	})
	register(ctx, "append", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		lists := argSlice(ctx, args)
		if len(lists) == 0 {
			return cellang.Nil()
		}
		requireList(ctx, lists[0], "append")
		var items []cellang.Value
		for _, l := range lists {
			requireList(ctx, l, "append")
			for !ctx.IsNil(l) {
				items = append(items, ctx.Car(l))
				l = ctx.Cdr(l)
			}
		}
		return ctx.List(items...)
	})
	register(ctx, "reverse", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "reverse")
		requireList(ctx, a[0], "reverse")
		result := cellang.Nil()
		for l := a[0]; !ctx.IsNil(l); l = ctx.Cdr(l) {
			result = ctx.Cons(ctx.Car(l), result)
		}
		return result
	})
	register(ctx, "map", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "map")
		fn, list := a[0], a[1]
		var items []cellang.Value
		for !ctx.IsNil(list) {
			item := ctx.Car(list)
			items = append(items, ctx.Apply(fn, ctx.List(item)))
			list = ctx.Cdr(list)
		}
		return ctx.List(items...)
	})
	register(ctx, "filter", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "filter")
		pred, list := a[0], a[1]
		var items []cellang.Value
		for !ctx.IsNil(list) {
			item := ctx.Car(list)
			if ctx.Truthy(ctx.Apply(pred, ctx.List(item))) {
				items = append(items, item)
			}
			list = ctx.Cdr(list)
		}
		return ctx.List(items...)
	})
	register(ctx, "fold", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 3, "fold")
		fn, acc, list := a[0], a[1], a[2]
		for !ctx.IsNil(list) {
			item := ctx.Car(list)
			acc = ctx.Apply(fn, ctx.List(item, acc))
			list = ctx.Cdr(list)
		}
		return acc
	})
}

func requireList(ctx *cellang.Context, v cellang.Value, name string) {
	if ctx.Type(v) != cellang.TPair && !ctx.IsNil(v) {
		ctx.Error("%s: expected a list argument", name)
	}
}
