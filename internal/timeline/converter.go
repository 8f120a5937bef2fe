package timeline

import (
	"fmt"
	"math"

	"jotunheim-weather/internal/domain"
)

// Converter maps ticks to weather indices and wind sub-ticks.
//
// EpochOffset is added to the tick before dividing. Zero reproduces the
// client; some third-party tools historically used a fixed non-zero epoch.
type Converter struct {
	EpochOffset int64
}

// maxShifted keeps sec*WindOctaves inside int64.
const maxShifted = math.MaxInt64 / domain.WindOctaves

func (c Converter) shifted(t Tick) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if c.EpochOffset > maxShifted-int64(t) {
		return 0, fmt.Errorf("%w: tick %d with epoch offset %d is too large", domain.ErrInvalidInput, t, c.EpochOffset)
	}
	sec := int64(t) + c.EpochOffset
	if sec < 0 {
		return 0, fmt.Errorf("%w: tick %d with epoch offset %d is negative", domain.ErrInvalidInput, t, c.EpochOffset)
	}
	return sec, nil
}

// WeatherIndex is the number of whole weather periods elapsed at t.
func (c Converter) WeatherIndex(t Tick) (int64, error) {
	sec, err := c.shifted(t)
	if err != nil {
		return 0, err
	}
	return sec / domain.WeatherPeriod, nil
}

// WindTick is the number of whole wind sub-ticks (WindPeriod/WindOctaves)
// elapsed at t.
func (c Converter) WindTick(t Tick) (int64, error) {
	sec, err := c.shifted(t)
	if err != nil {
		return 0, err
	}
	return sec * domain.WindOctaves / domain.WindPeriod, nil
}

// PeriodStart is the first tick of the given weather period.
func (c Converter) PeriodStart(index int64) Tick {
	return Tick(index*domain.WeatherPeriod - c.EpochOffset)
}
