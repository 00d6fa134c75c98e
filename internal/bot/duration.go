package bot

import (
	"math"
	"math/rand/v2"
)

// Timing defaults tuned for a 1080p portrait screen
const (
	DefaultDurationCoeff = 1.448
	DefaultJitterRange   = 10
)

// DurationMapper converts a pixel distance into a press duration in
// milliseconds: floor(distance*Coeff) plus uniform jitter in
// [-Jitter, +Jitter].
type DurationMapper struct {
	Coeff  float64
	Jitter int
	rng    *rand.Rand
}

// NewDurationMapper creates a mapper with its own random source
func NewDurationMapper(coeff float64, jitter int) *DurationMapper {
	return NewDurationMapperWithRand(coeff, jitter, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewDurationMapperWithRand creates a mapper drawing jitter from rng
func NewDurationMapperWithRand(coeff float64, jitter int, rng *rand.Rand) *DurationMapper {
	if jitter < 0 {
		jitter = 0
	}
	return &DurationMapper{Coeff: coeff, Jitter: jitter, rng: rng}
}

// Duration returns the press duration for distance. Short distances can
// map to zero or negative values; callers clamp before dispatch.
func (m *DurationMapper) Duration(distance float64) int {
	ms := int(math.Floor(distance * m.Coeff))
	if m.Jitter > 0 {
		ms += m.rng.IntN(2*m.Jitter+1) - m.Jitter
	}
	return ms
}
