package weather

import (
	"fmt"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/internal/timeline"
)

// Timeline returns one entry per weather period overlapping [from, to].
// Wind is sampled at the start of each period, or at from for the first one.
func (r *Resolver) Timeline(from, to timeline.Tick, seed uint32) ([]domain.ForecastEntry, error) {
	if to < from {
		return nil, fmt.Errorf("%w: range end %d before start %d", domain.ErrInvalidInput, to, from)
	}
	first, err := r.converter.WeatherIndex(from)
	if err != nil {
		return nil, err
	}
	last, err := r.converter.WeatherIndex(to)
	if err != nil {
		return nil, err
	}
	if n := last - first + 1; n > domain.MaxForecastPeriods {
		return nil, fmt.Errorf("%w: %d weather periods requested, limit is %d", domain.ErrInvalidInput, n, domain.MaxForecastPeriods)
	}

	entries := make([]domain.ForecastEntry, 0, last-first+1)
	for index := first; index <= last; index++ {
		start := r.converter.PeriodStart(index)
		if start < from {
			start = from
		}
		wind, err := r.WindAt(start, seed)
		if err != nil {
			return nil, err
		}
		w := r.weathersForIndex(index, seed)
		entries = append(entries, domain.ForecastEntry{
			Tick:         int64(start),
			WeatherIndex: index,
			Intro:        w.Intro,
			Wind:         wind,
			Weathers:     w.Labels,
		})
	}
	return entries, nil
}
