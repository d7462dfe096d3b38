// Package entropy provides the seeded random source used by faction generation.
// A zero seed is replaced with one drawn from crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"math"
	mrand "math/rand"
)

// Source is a deterministic random source with the range helpers the
// generators need. Not safe for concurrent use; callers hold the simulation lock.
type Source struct {
	seed int64
	rng  *mrand.Rand
}

// New creates a Source from seed. Seed 0 means "pick one".
func New(seed int64) *Source {
	if seed == 0 {
		seed = CryptoSeed()
		slog.Debug("entropy seed drawn from crypto/rand", "seed", seed)
	}
	return &Source{
		seed: seed,
		rng:  mrand.New(mrand.NewSource(seed)),
	}
}

// Seed returns the seed this source was built from.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a value in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Intn returns a value in [0, n). n must be > 0.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// RangeInclusive returns an integer in [min, max]. Swapped bounds are tolerated.
func (s *Source) RangeInclusive(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.rng.Intn(max-min+1)
}

// FloatRange returns a value uniformly drawn from [min, max].
func (s *Source) FloatRange(min, max float64) float64 {
	return min + (max-min)*s.rng.Float64()
}

// Gaussian returns a normally distributed value around center with the
// given width (standard deviation).
func (s *Source) Gaussian(center, width float64) float64 {
	return center + s.rng.NormFloat64()*width
}

// RoundRandom rounds f up with probability equal to its fractional part.
// The expected value of the result equals f.
func (s *Source) RoundRandom(f float64) int {
	floor := math.Floor(f)
	if s.rng.Float64() < f-floor {
		return int(floor) + 1
	}
	return int(floor)
}

// WeightedIndex picks an index with probability proportional to its weight.
// Returns -1 when no weight is positive.
func (s *Source) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	roll := s.rng.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if roll < w {
			return i
		}
		roll -= w
	}
	// Float rounding can leave a sliver past the final bucket.
	return last
}

// InverseLerp returns where v sits between a and b, clamped to [0, 1].
// Returns 0 when a == b.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	t := (v - a) / (b - a)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundHalfEven rounds to the nearest integer, ties to even.
func RoundHalfEven(f float64) int {
	return int(math.RoundToEven(f))
}

// CryptoSeed returns a non-zero seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but a fixed seed keeps the world usable.
		return 42
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		return 1
	}
	return seed
}
