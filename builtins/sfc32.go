package builtins

// sfc32State is Chris Doty-Humphrey's Small Fast Chaotic PRNG, ported
// directly from original_source/src/sfc32.c: 96 bits of state (a, b, c)
// plus a 32-bit counter (d), an 8-instruction step with no multiply, and a
// MurmurHash3-finalizer-style mixing function used only for seeding.
type sfc32State struct {
	a, b, c, d uint32
}

func seedMix32(x *uint32) uint32 {
	*x += 0x9e3779b9
	z := *x
	z = (z ^ (z >> 16)) * 0x85ebca6b
	z = (z ^ (z >> 13)) * 0xc2b2ae35
	return z ^ (z >> 16)
}

func (s *sfc32State) next() uint32 {
	t := s.a + s.b + s.d
	s.d++
	s.a = s.b ^ (s.b >> 9)
	s.b = s.c + (s.c << 3)
	s.c = (s.c << 21) | (s.c >> 11)
	s.c += t
	return s.c
}

func (s *sfc32State) seed4(a, b, c, d uint32) {
	if d == 0 {
		d = 1
	}
	s.a, s.b, s.c, s.d = a, b, c, d
	for i := 0; i < 12; i++ {
		s.next()
	}
}

func (s *sfc32State) seed(seedVal uint32) {
	x := seedVal
	a := seedMix32(&x)
	b := seedMix32(&x)
	c := seedMix32(&x)
	s.seed4(a, b, c, 1)
}
