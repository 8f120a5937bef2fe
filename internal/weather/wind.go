package weather

import (
	"math"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/pkg/random"
)

var windOctaves = [...]int64{1, 2, 4, 8}

// windAccumulator sums octave contributions. Angle is in radians until result.
type windAccumulator struct {
	angle     float64
	intensity float64
}

func newWindAccumulator() windAccumulator {
	return windAccumulator{intensity: domain.WindBaseIntensity}
}

func (a *windAccumulator) add(octave int64, angleRoll, intensityRoll float64) {
	o := float64(octave)
	a.angle += angleRoll * (2 * math.Pi) / o
	a.intensity += (intensityRoll - 0.5) / o
}

func (a windAccumulator) result() domain.Wind {
	return domain.Wind{
		Angle:     normalizeDegrees(a.angle * 180 / math.Pi),
		Intensity: clamp01(a.intensity),
	}
}

// WindAt resolves wind angle and intensity at tick for a world seed.
func (r *Resolver) WindAt(tick timeline.Tick, seed uint32) (domain.Wind, error) {
	windTick, err := r.converter.WindTick(tick)
	if err != nil {
		return domain.Wind{}, err
	}
	return WindForTick(windTick, seed), nil
}

// WindForTick resolves wind for a wind sub-tick. Each octave reseeds its own
// generator from the period it falls into.
func WindForTick(windTick int64, seed uint32) domain.Wind {
	acc := newWindAccumulator()
	for _, octave := range windOctaves {
		period := windTick / (domain.WindOctaves / octave)
		s := random.New(uint32(period) + seed)
		angleRoll, s := s.Float()
		intensityRoll, _ := s.Float()
		acc.add(octave, angleRoll, intensityRoll)
	}
	return acc.result()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -1e-15 + 360 rounds to 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}
