package builtins

import (
	"cellang"
	"os"
)

const readFileLimit = 8 * 1024 // mirrors fex_builtins.c's 8KB readfile cap

// IO registers readfile/writefile, grounded on fex_builtins.c's
// register_io_functions. The C original buffers to a fixed-size stack
// array and caps readfile at 8KB; the cap is preserved here since it's a
// deliberate guest-facing limit, not an implementation artifact.
func IO(ctx *cellang.Context) {
	register(ctx, "readfile", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "readfile")
		name := ctx.ToString(a[0], false)
		info, err := os.Stat(name)
		if err != nil {
			return ctx.Error("readfile: could not open file")
		}
		if info.Size() > readFileLimit {
			return ctx.Error("readfile: file too large (max 8KB)")
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return ctx.Error("readfile: error reading file")
		}
		return ctx.String(string(data))
	})
	register(ctx, "writefile", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 2, "writefile")
		name := ctx.ToString(a[0], false)
		content := ctx.ToString(a[1], false)
		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			return ctx.Error("writefile: could not open file for writing")
		}
		return ctx.MakeNumber(float64(len(content)))
	})
}
