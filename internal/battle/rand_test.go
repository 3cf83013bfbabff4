package battle

import "math/rand"

// scriptedSource feeds a fixed sequence of Int63 values into rand.Rand
// so probabilistic branches are pinned in tests.
//
// Useful values, given Go's math/rand derivations:
//   - Float64() = Int63 / 2^63, so f64(x) yields exactly x for dyadic x.
//   - Intn(n) for small n routes through Int31, which is Int63 >> 32,
//     so i31(k) makes Intn return k % n.
type scriptedSource struct {
	values []int64
	next   int
}

func (s *scriptedSource) Int63() int64 {
	if len(s.values) == 0 {
		return 1 << 62
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *scriptedSource) Seed(int64) {}

// f64 encodes a target Float64() result.
func f64(f float64) int64 {
	return int64(f * (1 << 63))
}

// i31 encodes a target Int31() result.
func i31(k int64) int64 {
	return k << 32
}

func scriptedRand(values ...int64) *rand.Rand {
	return rand.New(&scriptedSource{values: values})
}

// noCrit is a Float64 roll that fails the 10% crit check and the 25%/20%
// status checks.
const noCritRoll = int64(1 << 62) // Float64() = 0.5

// minVariance is a Float64 roll of 0, the bottom of the damage variance
// range (factor 0.85).
const minVarianceRoll = int64(0)
