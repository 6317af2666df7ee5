package builtins

import (
	"cellang"
	"strconv"
)

// Types registers typeof/tostring/tonumber/isnil/isnumber/isstring/islist,
// grounded on fex_builtins.c's register_type_functions.
func Types(ctx *cellang.Context) {
	register(ctx, "typeof", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "typeof")
		return ctx.String(typeName(ctx.Type(a[0])))
	})
	register(ctx, "tostring", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "tostring")
		return ctx.String(ctx.ToString(a[0], false))
	})
	register(ctx, "tonumber", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "tonumber")
		v := a[0]
		switch ctx.Type(v) {
		case cellang.TNumber:
			return v
		case cellang.TString:
			n, err := strconv.ParseFloat(ctx.ToString(v, false), 64)
			if err != nil {
				return ctx.Error("tonumber: invalid number format")
			}
			return ctx.MakeNumber(n)
		default:
			return ctx.Error("tonumber: cannot convert to number")
		}
	})
	register(ctx, "isnil", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "isnil")
		return cellang.Bool(ctx.IsNil(a[0]))
	})
	register(ctx, "isnumber", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "isnumber")
		return cellang.Bool(ctx.Type(a[0]) == cellang.TNumber)
	})
	register(ctx, "isstring", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "isstring")
		return cellang.Bool(ctx.Type(a[0]) == cellang.TString)
	})
	register(ctx, "islist", func(ctx *cellang.Context, args cellang.Value) cellang.Value {
		a := checkArgs(ctx, args, 1, "islist")
		return cellang.Bool(ctx.Type(a[0]) == cellang.TPair || ctx.IsNil(a[0]))
	})
}

func typeName(t cellang.Type) string {
	switch t {
	case cellang.TNil:
		return "nil"
	case cellang.TNumber:
		return "number"
	case cellang.TString:
		return "string"
	case cellang.TSymbol:
		return "symbol"
	case cellang.TPair:
		return "pair"
	case cellang.TFunc:
		return "function"
	case cellang.TMacro:
		return "macro"
	case cellang.TCFunc:
		return "cfunction"
	case cellang.TPtr:
		return "pointer"
	case cellang.TBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}
