package cellang

import "fmt"

// This file is the host embedding surface named by spec.md §6: the
// construction/inspection/root-discipline functions an embedder (or the
// surface compiler, or the builtins package) calls against a *Context.

// Cons allocates a new pair. Both operands are rooted across the
// allocation so a GC triggered by a low freelist cannot reclaim them.
func (ctx *Context) Cons(a, b Value) Value {
	depth := ctx.SaveGC()
	ctx.PushGC(a)
	ctx.PushGC(b)
	c := ctx.object()
	c.car = a
	c.cdr = b
	ctx.RestoreGC(depth)
	return ctx.PushGC(valueOf(c))
}

// Number boxes a float64 value. MakeNumber should be preferred by callers
// that want the fixnum fast path when the value happens to be integral
// and in range.
func (ctx *Context) Number(n float64) Value {
	c := ctx.object()
	c.setType(TNumber)
	c.cdr = numberBits(n)
	return valueOf(c)
}

// MakeNumber returns an immediate fixnum when n is integral and fits in
// the fixnum range, otherwise a boxed NUMBER cell -- fe_make_number's
// auto-fit behavior.
func (ctx *Context) MakeNumber(n float64) Value {
	const fixnumBits = 62 // one bit for the tag, one reserved for sign safety
	lim := float64(int64(1) << (fixnumBits - 1))
	if n == float64(int64(n)) && n > -lim && n < lim {
		return MakeFixnum(int(n))
	}
	return ctx.Number(n)
}

// ToNumber converts any numeric value (fixnum or boxed) to a float64.
func (ctx *Context) ToNumber(v Value) float64 {
	if isFixnum(v) {
		return float64(fixnumValue(v))
	}
	return bitsToNumber(cellOf(v).cdr)
}

// String allocates an owned copy of s. The backing bytes live in a
// side table (outside the three-word cell), mirroring make_string_obj's
// separate malloc; the cell only stores the length and a side-table
// index, and the GC sweep releases the entry when the cell is collected.
func (ctx *Context) String(s string) Value {
	idx := len(ctx.strings)
	ctx.strings = append(ctx.strings, ownedString{bytes: []byte(s)})
	c := ctx.object()
	c.setType(TString)
	c.car = MakeFixnum(len(s))
	c.cdr = MakeFixnum(idx)
	return valueOf(c)
}

func (ctx *Context) stringBytesOf(v Value) string {
	if ctx.Type(v) != TString {
		return ""
	}
	idx := fixnumValue(cellOf(v).cdr)
	if idx < 0 || idx >= len(ctx.strings) || ctx.strings[idx].freed {
		return ""
	}
	return string(ctx.strings[idx].bytes)
}

// ToString renders v using the printer (C5). quote controls whether
// strings are printed with surrounding quotes and escapes.
func (ctx *Context) ToString(v Value, quote bool) string {
	var sb stringWriter
	ctx.Write(v, &sb, quote)
	return string(sb)
}

type stringWriter []byte

func (w *stringWriter) WriteByte(b byte) error { *w = append(*w, b); return nil }

// Symbol is declared in symbol.go.

// CFunc registers fn as a host function and returns its callable value.
func (ctx *Context) CFunc(fn HostFunc) Value {
	idx := len(ctx.hostFuncs)
	ctx.hostFuncs = append(ctx.hostFuncs, fn)
	c := ctx.object()
	c.setType(TCFunc)
	c.cdr = MakeFixnum(idx)
	return valueOf(c)
}

// Ptr wraps an arbitrary host-owned value as an opaque PTR cell.
func (ctx *Context) Ptr(p any) Value {
	idx := len(ctx.ptrs)
	ctx.ptrs = append(ctx.ptrs, p)
	c := ctx.object()
	c.setType(TPtr)
	c.cdr = MakeFixnum(idx)
	return valueOf(c)
}

// ToPtr unwraps a PTR cell's payload.
func (ctx *Context) ToPtr(v Value) any {
	if ctx.Type(v) != TPtr {
		return nil
	}
	idx := fixnumValue(cellOf(v).cdr)
	return ctx.ptrs[idx]
}

// List builds a proper list from items, in order.
func (ctx *Context) List(items ...Value) Value {
	depth := ctx.SaveGC()
	for _, v := range items {
		ctx.PushGC(v)
	}
	result := valNil
	for i := len(items) - 1; i >= 0; i-- {
		result = ctx.Cons(items[i], result)
	}
	ctx.RestoreGC(depth)
	return ctx.PushGC(result)
}

// Car and Cdr read a pair's fields; both error on a non-pair.
func (ctx *Context) Car(v Value) Value {
	if ctx.Type(v) != TPair {
		ctx.Error("expected pair, got " + ctx.Type(v).String())
		return valNil
	}
	return cellOf(v).car
}

func (ctx *Context) Cdr(v Value) Value {
	if ctx.Type(v) != TPair {
		ctx.Error("expected pair, got " + ctx.Type(v).String())
		return valNil
	}
	return cellOf(v).cdr
}

// Set binds sym's global slot to v.
func (ctx *Context) Set(sym, v Value) {
	if ctx.Type(sym) != TSymbol {
		ctx.Error("expected symbol, got " + ctx.Type(sym).String())
		return
	}
	ctx.setSymbolValue(sym, v)
}

// NextArg extracts the next argument from *args, advancing it, and
// errors on too few arguments or a dotted list -- fe_nextarg's contract.
func (ctx *Context) NextArg(args *Value) Value {
	if ctx.Type(*args) != TPair {
		ctx.Error("too few arguments")
		return valNil
	}
	c := cellOf(*args)
	if ctx.Type(c.cdr) != TPair && c.cdr != valNil {
		ctx.Error("dotted pair in argument list")
	}
	v := c.car
	*args = c.cdr
	return v
}

// Error invokes the installed error handler (or the default policy) with
// a freshly snapshotted call trail, following spec.md §7's single-entry
// policy: snapshot+clear the trail, invoke the handler, and if it returns
// print the message and trail and terminate the process.
func (ctx *Context) Error(format string, args ...any) Value {
	msg := fmt.Sprintf(format, args...)
	snap := ctx.trail.snapshot()
	ctx.trail.clear()
	err := newEvalError(msg, snap, ctx)
	if ctx.handlers.Error != nil {
		ctx.handlers.Error(ctx, err)
	}
	// If the handler above returns (rather than unwinding the Go stack
	// itself, e.g. via panic/recover), the default policy still applies:
	// print the message and trail, then terminate.
	defaultErrorFn(ctx, err)
	if ctx.exitFn != nil {
		ctx.exitFn(1)
	}
	return valNil
}
