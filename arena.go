package cellang

import (
	"io"
	"os"
	"unsafe"
)

// Context is the embeddable interpreter instance: one arena, one freelist,
// one set of roots, one symbol table. Nothing is package-global so that
// multiple independent contexts can coexist in one process, per
// spec.md §9 ("keep them as fields of the context, never as module-global
// statics").
type Context struct {
	cells []Cell // the caller-owned arena, carved from the buffer passed to Open
	free  Value  // head of the freelist, or valNil when exhausted

	allocs    int
	threshold int
	cfg       Config

	gcStack    *valueStack
	moduleExp  *valueStack
	trail      callTrail

	symbols Value // head of the interned-symbol list

	// reserved symbols, fields of the context per spec.md §9
	returnSym, frameSym, doSym, letSym, quoteSym, fnSym, macSym Value

	// side tables for payloads too wide to fit in one Value word.
	strings   []ownedString
	hostFuncs []HostFunc
	ptrs      []any

	handlers Handlers

	out io.Writer
	exitFn func(code int)
}

type ownedString struct {
	bytes []byte
	freed bool
}

// Handlers mirrors fe_Handlers: the three host hooks a context may install.
type Handlers struct {
	Error ErrorFn
	Mark  MarkFn
	GC    GCFn
}

// HostFunc is a registered foreign function (fe_CFunc).
type HostFunc func(ctx *Context, args Value) Value

// Open carves a Context out of buf, reinterpreting it as a flat array of
// Cells exactly as fe_open carves a fe_Object array from caller memory.
// If buf is nil or too small for even one cell, Open allocates an arena of
// cfg.RootStackSize*8 cells itself -- the arena is still a single
// contiguous, non-growing allocation either way.
func Open(buf []byte, cfg *Config) *Context {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	n := len(buf) / int(unsafe.Sizeof(Cell{}))
	var cells []Cell
	if n > 0 {
		cells = unsafe.Slice((*Cell)(unsafe.Pointer(&buf[0])), n)
	} else {
		// Fall back to a Go-allocated arena sized by RootStackSize*8 as a
		// reasonable default capacity when the caller passes no buffer.
		n = cfg.RootStackSize * 8
		cells = make([]Cell, n)
	}

	ctx := &Context{
		cells:     cells,
		cfg:       *cfg,
		gcStack:   newValueStack(cfg.RootStackSize),
		moduleExp: newValueStack(cfg.RootStackSize),
		symbols:   valNil,
		out:       os.Stdout,
		exitFn:    os.Exit,
	}
	ctx.threshold = len(cells) / maxInt(cfg.GCInitialDivisor, 1)
	if ctx.threshold < cfg.GCMinThreshold {
		ctx.threshold = cfg.GCMinThreshold
	}

	// thread every cell onto the freelist
	ctx.free = valNil
	for i := range cells {
		c := &cells[i]
		c.flags = flagAtom | byte(TFree)<<typeShift
		c.cdr = ctx.free
		ctx.free = valueOf(c)
	}

	ctx.initSymbols()
	return ctx
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Close clears the root stack, the module-export stack and the symbol list,
// then runs a final collection. Strings and host-owned pointers that never
// got swept are finalized here, mirroring fe_close's final
// sweep-after-clearing-roots.
func (ctx *Context) Close() {
	ctx.gcStack.truncate(0)
	ctx.moduleExp.truncate(0)
	ctx.symbols = valNil
	ctx.Collect()
}

// SetExitFn overrides the hook Context.Exit and the default error handler
// call at process termination, the same way SetOutput overrides the
// default print sink. Embedders that want to recover instead of calling
// os.Exit (tests chief among them) install their own here.
func (ctx *Context) SetExitFn(fn func(code int)) { ctx.exitFn = fn }

// SetOutput redirects the default error/print sink (used by the REPL and
// by tests); the writer and reader callbacks named in spec.md §6 remain
// the caller's responsibility per-call.
func (ctx *Context) SetOutput(w io.Writer) { ctx.out = w }
func (ctx *Context) stderr() io.Writer     { return ctx.out }

// Exit terminates the process through the context's configured exit hook,
// the same path Context.Error uses after its default handler runs. It
// backs the `exit` builtin (fex_builtins.c's builtin_exit).
func (ctx *Context) Exit(code int) {
	if ctx.exitFn != nil {
		ctx.exitFn(code)
	}
}

// SetHandlers installs, and returns the previous, set of host hooks.
func (ctx *Context) SetHandlers(h Handlers) Handlers {
	prev := ctx.handlers
	ctx.handlers = h
	return prev
}

func (ctx *Context) isCellInArena(c *Cell) bool {
	if len(ctx.cells) == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(&ctx.cells[0]))
	hi := uintptr(unsafe.Pointer(&ctx.cells[len(ctx.cells)-1]))
	p := uintptr(unsafe.Pointer(c))
	return p >= lo && p <= hi && (p-lo)%unsafe.Sizeof(Cell{}) == 0
}

// object pops the freelist, collecting first if the threshold was
// exceeded or the list is already empty, and fails with an out-of-memory
// error if the list is still empty after collection -- the allocation
// trigger logic of fe.c's object().
func (ctx *Context) object() *Cell {
	if ctx.allocs > ctx.threshold || ctx.free == valNil {
		ctx.Collect()
	}
	if ctx.free == valNil {
		ctx.Error("out of memory")
		return nil
	}
	c := cellOf(ctx.free)
	ctx.free = c.cdr
	ctx.allocs++
	c.car = valNil
	c.cdr = valNil
	c.flags = 0
	ctx.PushGC(valueOf(c))
	return c
}
