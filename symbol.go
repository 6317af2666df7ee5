package cellang

// Symbol interns name, returning the canonical cell for it. A linear scan
// of the symbol list keyed on string equality decides hit vs. miss, the
// same approach fe_symbol takes -- this language has nowhere near enough
// distinct identifiers per program for a hash table to earn its keep.
func (ctx *Context) Symbol(name string) Value {
	for s := ctx.symbols; s != valNil; s = cellOf(s).cdr {
		sym := cellOf(s).car
		pair := cellOf(cellOf(sym).cdr)
		if ctx.stringBytesOf(pair.car) == name {
			return sym
		}
	}

	depth := ctx.SaveGC()
	nameVal := ctx.PushGC(ctx.String(name))
	pair := ctx.PushGC(ctx.cons2(nameVal, valNil))

	c := ctx.object()
	c.setType(TSymbol)
	c.cdr = pair
	sym := valueOf(c)

	ctx.RestoreGC(depth)
	ctx.symbols = ctx.cons2(sym, ctx.symbols)
	return sym
}

// cons2 is a root-stack-safe cons used internally where both operands
// are already guaranteed live (e.g. a freshly built symbol and the
// existing symbol-list head, itself a GC root).
func (ctx *Context) cons2(a, b Value) Value {
	depth := ctx.SaveGC()
	ctx.PushGC(a)
	ctx.PushGC(b)
	c := ctx.object()
	c.car = a
	c.cdr = b
	ctx.RestoreGC(depth)
	return valueOf(c)
}

// symbolValue returns the global binding slot (the pair's cdr) for sym.
func (ctx *Context) symbolValue(sym Value) Value {
	pair := cellOf(cellOf(sym).cdr)
	return pair.cdr
}

func (ctx *Context) setSymbolValue(sym, v Value) {
	pair := cellOf(cellOf(sym).cdr)
	pair.cdr = v
}

func (ctx *Context) symbolName(sym Value) string {
	pair := cellOf(cellOf(sym).cdr)
	return ctx.stringBytesOf(pair.car)
}

// initSymbols sets up the context-local reserved symbols (spec.md §9:
// "keep them as fields of the context, never as module-global statics").
func (ctx *Context) initSymbols() {
	ctx.returnSym = ctx.Symbol("return")
	ctx.frameSym = ctx.Symbol("frame")
	ctx.doSym = ctx.Symbol("do")
	ctx.letSym = ctx.Symbol("let")
	ctx.quoteSym = ctx.Symbol("quote")
	ctx.fnSym = ctx.Symbol("fn")
	ctx.macSym = ctx.Symbol("mac")
	ctx.registerPrimitives()
}
