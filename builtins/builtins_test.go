package builtins

import (
	"bytes"
	"testing"

	"cellang"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAll_NilConfigOnlyInstallsCoreHost(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()

	RegisterAll(ctx, nil)

	sym := ctx.Symbol("println")
	assert.Equal(t, cellang.TCFunc, ctx.Type(ctx.Eval(sym)))

	// No math/strings/etc. category was requested, so e.g. sqrt stays
	// unbound (evaluating its bare symbol returns nil, the unset-global
	// sentinel -- see symbol.go).
	got := ctx.Eval(ctx.Symbol("sqrt"))
	assert.True(t, ctx.IsNil(got))
}

func TestRegisterAll_RespectsBuiltinCategoryBitmask(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()

	cfg := cellang.NewDefaultConfig()
	cfg.Builtins = cellang.BuiltinMath
	RegisterAll(ctx, cfg)

	assert.Equal(t, cellang.TCFunc, ctx.Type(ctx.Eval(ctx.Symbol("sqrt"))))
	assert.True(t, ctx.IsNil(ctx.Eval(ctx.Symbol("upper"))), "strings category was not requested")
}

func TestRegisterCoreHost_PrintlnWritesToConfiguredOutput(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()

	var buf bytes.Buffer
	ctx.SetOutput(&buf)
	RegisterCoreHost(ctx)

	ctx.Eval(ctx.List(ctx.Symbol("println"), ctx.String("hi")))
	assert.Contains(t, buf.String(), "hi")
}
