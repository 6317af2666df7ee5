// Package builtins is the extended builtin library spec.md §1 scopes out
// of the core as an external collaborator: math, strings, lists, I/O,
// system and type-inspection functions. It is grounded on
// original_source/src/fex_builtins.c/.h and registers itself purely
// through the public host API (package cellang's CFunc/Set), the same
// way any other embedder would -- it never reaches into cellang's
// unexported internals.
package builtins

import "cellang"

// RegisterAll installs every category enabled in cfg.Builtins, plus the
// minimal print/println core that an interactive REPL depends on.
func RegisterAll(ctx *cellang.Context, cfg *cellang.Config) {
	RegisterCoreHost(ctx)
	if cfg == nil {
		return
	}
	if cfg.Builtins&cellang.BuiltinMath != 0 {
		Math(ctx)
	}
	if cfg.Builtins&cellang.BuiltinStrings != 0 {
		Strings(ctx)
	}
	if cfg.Builtins&cellang.BuiltinLists != 0 {
		Lists(ctx)
	}
	if cfg.Builtins&cellang.BuiltinIO != 0 {
		IO(ctx)
	}
	if cfg.Builtins&cellang.BuiltinSystem != 0 {
		System(ctx)
	}
	if cfg.Builtins&cellang.BuiltinTypes != 0 {
		Types(ctx)
	}
}

// RegisterCoreHost installs the minimal host functions an interactive
// REPL depends on that are not already core special forms. `print` is a
// core primitive (spec.md §4.6); `println` is offered here purely for
// parity with fex_builtins.c's builtin_print/builtin_println pair, since
// core print already terminates with a newline.
func RegisterCoreHost(ctx *cellang.Context) {
	register(ctx, "println", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		return ctx.Println(args)
	})
}

// register is the common "make a CFunc, bind it to a global symbol" step
// every category below repeats, grounded on fex_builtins.c's
// `fe_set(ctx, fe_symbol(ctx, name), fe_cfunc(ctx, fn))` idiom.
func register(ctx *cellang.Context, name string, fn cellang.HostFunc) {
	ctx.Set(ctx.Symbol(name), ctx.CFunc(fn))
}

// argSlice drains a raw argument list (already evaluated by the
// evaluator before a CFunc is invoked) into a Go slice for convenient
// indexed access.
func argSlice(ctx *cellang.Context, args cellang.Value) []cellang.Value {
	var out []cellang.Value
	for !ctx.IsNil(args) {
		out = append(out, ctx.NextArg(&args))
	}
	return out
}
