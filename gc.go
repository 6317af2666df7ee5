package cellang

// SaveGC returns the current root-stack depth, to be passed to RestoreGC
// later. Pairs with PushGC/RestoreGC to bracket a burst of allocation the
// way spec.md §4.2 describes: "save before a burst and restore after,
// typically re-pushing the single value they want to retain."
func (ctx *Context) SaveGC() int { return ctx.gcStack.len() }

// PushGC roots v. Pushing an immediate is a silent no-op, per spec.md
// §4.2. A push past the root stack's capacity is a fatal error.
func (ctx *Context) PushGC(v Value) Value {
	if isImmediate(v) {
		return v
	}
	if !ctx.gcStack.push(v) {
		ctx.Error("gc stack overflow")
		return v
	}
	return v
}

// RestoreGC truncates the root stack back to depth.
func (ctx *Context) RestoreGC(depth int) { ctx.gcStack.truncate(depth) }

// Mark walks v (and everything reachable from it) and flags it live.
// Car recurses; cdr loops, so a long list does not blow the Go call
// stack, mirroring fe_mark's iterative-cdr walk.
func (ctx *Context) Mark(v Value) {
	for {
		if isImmediate(v) {
			return
		}
		c := cellOf(v)
		if !ctx.isCellInArena(c) {
			return
		}
		if c.marked() {
			return
		}
		c.setMarked(true)

		switch c.cellType() {
		case TPair, TFunc, TMacro:
			ctx.Mark(c.car)
			v = c.cdr
			continue
		case TSymbol:
			v = c.cdr
			continue
		case TPtr:
			if ctx.handlers.Mark != nil {
				idx := fixnumValue(c.cdr)
				ctx.handlers.Mark(ctx, ctx.ptrs[idx])
			}
			return
		default:
			return
		}
	}
}

// Collect runs one mark-sweep cycle: mark the root stack, module-export
// stack and symbol list (in that order, per spec.md §4.2), then sweep the
// whole arena, releasing STRING buffers, invoking the host GC hook for
// PTR cells, and re-threading unmarked cells onto the freelist. Adaptive
// pacing recomputes the next threshold from the post-sweep live count.
func (ctx *Context) Collect() {
	for _, v := range ctx.gcStack.items {
		ctx.Mark(v)
	}
	for _, v := range ctx.moduleExp.items {
		ctx.Mark(v)
	}
	ctx.Mark(ctx.symbols)

	live := 0
	ctx.free = valNil
	for i := range ctx.cells {
		c := &ctx.cells[i]
		if c.marked() {
			c.setMarked(false)
			live++
			continue
		}
		switch c.cellType() {
		case TString:
			idx := fixnumValue(c.cdr)
			if idx >= 0 && idx < len(ctx.strings) {
				ctx.strings[idx].bytes = nil
				ctx.strings[idx].freed = true
			}
		case TPtr:
			if ctx.handlers.GC != nil {
				idx := fixnumValue(c.cdr)
				ctx.handlers.GC(ctx, ctx.ptrs[idx])
			}
		}
		c.flags = flagAtom | byte(TFree)<<typeShift
		c.cdr = ctx.free
		ctx.free = valueOf(c)
	}

	ctx.allocs = 0
	next := live * ctx.cfg.GCGrowthFactor
	if next < ctx.cfg.GCMinThreshold {
		next = ctx.cfg.GCMinThreshold
	}
	ctx.threshold = next
}
