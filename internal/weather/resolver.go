// Package weather reconstructs the weather and wind the game client computes
// for a given tick and world seed.
//
// Every call seeds its own generator from the tick and seed, so all functions
// are pure and safe for concurrent use.
package weather

import (
	"fmt"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/pkg/random"
)

// Resolver holds the static configuration of a simulation.
// Use NewResolver; the zero value has no weather table.
type Resolver struct {
	table     domain.WeatherTable
	biomes    []domain.Biome
	intro     string
	rangeMode random.RangeMode
	converter timeline.Converter
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIntroWeather sets the label every biome reports during the intro.
func WithIntroWeather(label string) Option {
	return func(r *Resolver) { r.intro = label }
}

// WithRangeMode overrides the roll mapping. Only useful for comparisons.
func WithRangeMode(m random.RangeMode) Option {
	return func(r *Resolver) { r.rangeMode = m }
}

// WithConverter sets the tick conversion (epoch offset).
func WithConverter(c timeline.Converter) Option {
	return func(r *Resolver) { r.converter = c }
}

// NewResolver validates table and builds a resolver over its biomes in the
// fixed biome order.
func NewResolver(table domain.WeatherTable, opts ...Option) (*Resolver, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	r := &Resolver{
		table:  table,
		biomes: table.Biomes(),
		intro:  domain.IntroWeatherClear,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.intro == "" {
		return nil, fmt.Errorf("%w: empty intro weather", domain.ErrInvalidConfiguration)
	}
	return r, nil
}

// With returns a copy of r with opts applied.
func (r *Resolver) With(opts ...Option) *Resolver {
	cp := *r
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Biomes returns the biome order of every Weathers this resolver produces.
func (r *Resolver) Biomes() []domain.Biome {
	out := make([]domain.Biome, len(r.biomes))
	copy(out, r.biomes)
	return out
}

// Converter returns the tick conversion in use.
func (r *Resolver) Converter() timeline.Converter { return r.converter }

// RangeMode returns the roll mapping in use.
func (r *Resolver) RangeMode() random.RangeMode { return r.rangeMode }

// Weathers is the weather of every biome for one weather period.
type Weathers struct {
	Index  int64   // Weather period index
	Roll   float64 // Shared roll after range mapping; 0 during the intro
	Intro  bool
	Biomes []domain.Biome
	Labels []string // Aligned with Biomes
}

// Get returns the label for biome b.
func (w Weathers) Get(b domain.Biome) (string, bool) {
	for i, biome := range w.Biomes {
		if biome == b {
			return w.Labels[i], true
		}
	}
	return "", false
}

// WeathersAt resolves the weather of every biome at tick for a world seed.
func (r *Resolver) WeathersAt(tick timeline.Tick, seed uint32) (Weathers, error) {
	index, err := r.converter.WeatherIndex(tick)
	if err != nil {
		return Weathers{}, err
	}
	return r.weathersForIndex(index, seed), nil
}

func (r *Resolver) weathersForIndex(index int64, seed uint32) Weathers {
	w := Weathers{
		Index:  index,
		Biomes: r.biomes,
		Labels: make([]string, len(r.biomes)),
	}

	if InIntro(index) {
		w.Intro = true
		for i := range w.Labels {
			w.Labels[i] = r.intro
		}
		return w
	}

	w.Roll = r.Roll(index, seed)
	for i, b := range r.biomes {
		w.Labels[i] = mustSelect(r.table[b], w.Roll)
	}
	return w
}

// Roll is the mapped roll shared by all biomes in weather period index.
func (r *Resolver) Roll(index int64, seed uint32) float64 {
	raw, _ := random.New(uint32(index) + seed).Float()
	return r.rangeMode.Map(0, 1, raw)
}

// InIntro reports whether weather period index starts before the intro ends.
func InIntro(index int64) bool {
	return index*domain.WeatherPeriod < domain.IntroDuration
}
