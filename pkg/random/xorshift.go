package random

// initMultiplier is applied at every stage of the state expansion in New.
const initMultiplier uint32 = 1812433253

// floatDivisor is the largest value of next<<9 (2^32 - 512), not 2^32.
const floatDivisor = 4294966784.0

// State is a xorshift128 generator.
//
// State is a value type: Next and Float return the advanced state instead of
// mutating the receiver, so a State can be copied, compared and shared
// between goroutines freely. There is no package-level generator.
type State struct {
	A, B, C, D uint32
}

// New expands a 32-bit seed into a full generator state.
//
// Every word is derived from the previous one as w*1812433253 + 1, wrapping
// modulo 2^32.
func New(seed uint32) State {
	s := State{A: seed}
	s.B = s.A*initMultiplier + 1
	s.C = s.B*initMultiplier + 1
	s.D = s.C*initMultiplier + 1
	return s
}

// Next advances the generator by one step and returns the new word.
func (s State) Next() (uint32, State) {
	e := s.A ^ (s.A << 11)
	d := s.D ^ (s.D >> 19) ^ e ^ (e >> 8)
	return d, State{A: s.B, B: s.C, C: s.D, D: d}
}

// Float draws a uniform value. The 9 low bits dropped by the shift are
// reflected in the divisor, so the result lies in [0,1].
func (s State) Float() (float64, State) {
	v, next := s.Next()
	return float64(v<<9) / floatDivisor, next
}

// Words returns the first n raw outputs of a generator seeded with seed.
func Words(seed uint32, n int) []uint32 {
	out := make([]uint32, 0, n)
	s := New(seed)
	for i := 0; i < n; i++ {
		var v uint32
		v, s = s.Next()
		out = append(out, v)
	}
	return out
}
