package pixelsnap

// mulberry32 is a 32-bit mixing PRNG. All arithmetic wraps at 32 bits so a
// given seed yields the same sequence on every platform.
type mulberry32 struct {
	s uint32
}

func newMulberry32(seed int) *mulberry32 {
	return &mulberry32{s: uint32(seed)}
}

// next returns a value in [0,1).
func (m *mulberry32) next() float64 {
	m.s += 0x6d2b79f5
	t := (m.s ^ (m.s >> 15)) * (1 | m.s)
	t = (t + (t^(t>>7))*(61|t)) ^ t
	return float64(t^(t>>14)) / 4294967296.0
}

func (m *mulberry32) intn(n int) int {
	return int(m.next() * float64(n))
}

// weighted draws an index with probability proportional to weights.
// A non-positive total falls back to a uniform draw.
func (m *mulberry32) weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return m.intn(len(weights))
	}
	r := m.next() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}
