package cellang

// BuiltinCategory is a bitmask selecting which extended-builtin groups an
// embedder wants registered, mirroring FexBuiltinsConfig in
// fex_builtins.h. The categories themselves live in package builtins;
// Config only carries the flags so the core has no import-time
// dependency on that package.
type BuiltinCategory uint

const (
	BuiltinMath BuiltinCategory = 1 << iota
	BuiltinStrings
	BuiltinLists
	BuiltinIO
	BuiltinSystem
	BuiltinTypes
)

const BuiltinAll = BuiltinMath | BuiltinStrings | BuiltinLists | BuiltinIO | BuiltinSystem | BuiltinTypes

// Config gathers the small, fixed set of knobs this interpreter exposes.
// It plays the role the teacher's string-keyed Config map plays for the
// PEG compiler, but since this domain's knob set is small and fixed it is
// a concrete struct rather than a dynamic map.
type Config struct {
	// GCGrowthFactor multiplies the live-cell count to get the next
	// collection threshold.
	GCGrowthFactor int
	// GCMinThreshold floors the adaptive threshold.
	GCMinThreshold int
	// GCInitialDivisor sets the first threshold to capacity/divisor.
	GCInitialDivisor int
	// RootStackSize bounds the GC root stack (spec: 1024).
	RootStackSize int
	// EnableSpans turns on source-span bookkeeping in the surface
	// compiler (see span.go), mirroring fex's --spans flag.
	EnableSpans bool
	// Builtins selects which extended-builtin categories a caller of
	// builtins.RegisterAll should install.
	Builtins BuiltinCategory
}

// NewDefaultConfig mirrors the constants fe_open/fex_init bake in.
func NewDefaultConfig() *Config {
	return &Config{
		GCGrowthFactor:   2,
		GCMinThreshold:   1024,
		GCInitialDivisor: 4,
		RootStackSize:    1024,
		EnableSpans:      false,
		Builtins:         BuiltinAll,
	}
}
