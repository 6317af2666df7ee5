package builtins

import (
	"testing"

	"cellang"

	"github.com/stretchr/testify/assert"
)

func newListsContext(t *testing.T) *cellang.Context {
	t.Helper()
	ctx := cellang.Open(nil, nil)
	Lists(ctx)
	return ctx
}

func intList(ctx *cellang.Context, ns ...int) cellang.Value {
	items := make([]cellang.Value, len(ns))
	for i, n := range ns {
		items[i] = ctx.MakeNumber(float64(n))
	}
	return ctx.List(items...)
}

func TestLists_LengthNthAppendReverse(t *testing.T) {
	ctx := newListsContext(t)
	defer ctx.Close()

	l := intList(ctx, 1, 2, 3)
	assert.Equal(t, "3", ctx.ToString(callFn(ctx, "length", l), false))
	assert.Equal(t, "2", ctx.ToString(callFn(ctx, "nth", l, ctx.MakeNumber(1)), false))
	assert.True(t, ctx.IsNil(callFn(ctx, "nth", l, ctx.MakeNumber(99))))
	assert.Equal(t, "(3 2 1)", ctx.ToString(callFn(ctx, "reverse", l), false))
	assert.Equal(t, "(1 2 3 4 5)", ctx.ToString(callFn(ctx, "append", intList(ctx, 1, 2), intList(ctx, 3, 4, 5)), false))
}

func TestLists_MapCallsBackIntoGuestClosure(t *testing.T) {
	ctx := newListsContext(t)
	defer ctx.Close()

	double := ctx.Eval(ctx.List(ctx.Symbol("fn"), ctx.List(ctx.Symbol("x")),
		ctx.List(ctx.Symbol("*"), ctx.Symbol("x"), ctx.MakeNumber(2))))

	got := callFn(ctx, "map", double, intList(ctx, 1, 2, 3))
	assert.Equal(t, "(2 4 6)", ctx.ToString(got, false))
}

func TestLists_FilterUsesCoreTruthiness(t *testing.T) {
	ctx := newListsContext(t)
	defer ctx.Close()

	lessThanThree := ctx.Eval(ctx.List(ctx.Symbol("fn"), ctx.List(ctx.Symbol("x")),
		ctx.List(ctx.Symbol("<"), ctx.Symbol("x"), ctx.MakeNumber(3))))

	got := callFn(ctx, "filter", lessThanThree, intList(ctx, 1, 2, 3, 4))
	assert.Equal(t, "(1 2)", ctx.ToString(got, false))
}

func TestLists_FoldAccumulatesLeftToRight(t *testing.T) {
	ctx := newListsContext(t)
	defer ctx.Close()

	add := ctx.Eval(ctx.List(ctx.Symbol("fn"), ctx.List(ctx.Symbol("item"), ctx.Symbol("acc")),
		ctx.List(ctx.Symbol("+"), ctx.Symbol("item"), ctx.Symbol("acc"))))

	got := callFn(ctx, "fold", add, ctx.MakeNumber(0), intList(ctx, 1, 2, 3, 4))
	assert.Equal(t, "10", ctx.ToString(got, false))
}

func TestLists_AppendWithNoArgumentsIsNil(t *testing.T) {
	ctx := newListsContext(t)
	defer ctx.Close()

	got := ctx.Eval(ctx.List(ctx.Symbol("append")))
	assert.True(t, ctx.IsNil(got))
}
