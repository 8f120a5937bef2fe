package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WeatherEntry одна строка таблицы: погода и ее вес.
type WeatherEntry struct {
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// UnmarshalJSON принимает и объект {"label": "Rain", "weight": 1},
// и кортеж ["Rain", 1] (так таблицы выгружаются из клиента игры).
func (e *WeatherEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tuple []json.RawMessage
		if err := json.Unmarshal(data, &tuple); err != nil {
			return err
		}
		if len(tuple) != 2 {
			return fmt.Errorf("weather entry tuple must have 2 elements, got %d", len(tuple))
		}
		if err := json.Unmarshal(tuple[0], &e.Label); err != nil {
			return fmt.Errorf("weather entry label: %w", err)
		}
		if err := json.Unmarshal(tuple[1], &e.Weight); err != nil {
			return fmt.Errorf("weather entry weight: %w", err)
		}
		return nil
	}

	type plain WeatherEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = WeatherEntry(p)
	return nil
}

// WeatherTable биом -> упорядоченный список погод с весами.
// Порядок значим: при равенстве выигрывает более ранняя запись.
type WeatherTable map[Biome][]WeatherEntry

// Validate проверяет, что по таблице вообще можно выбрать погоду.
func (t WeatherTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: weather table is empty", ErrInvalidConfiguration)
	}
	for biome, entries := range t {
		if !biome.IsKnown() {
			return fmt.Errorf("%w: unknown biome %q", ErrInvalidConfiguration, biome)
		}
		if err := ValidateEntries(entries); err != nil {
			return fmt.Errorf("biome %s: %w", biome, err)
		}
	}
	return nil
}

// ValidateEntries проверяет список одного биома.
func ValidateEntries(entries []WeatherEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty weight list", ErrInvalidConfiguration)
	}
	for i, e := range entries {
		if e.Label == "" {
			return fmt.Errorf("%w: entry %d has no label", ErrInvalidConfiguration, i)
		}
		if e.Weight <= 0 {
			return fmt.Errorf("%w: entry %d (%s) has non-positive weight %d", ErrInvalidConfiguration, i, e.Label, e.Weight)
		}
	}
	return nil
}

// Biomes возвращает биомы таблицы в фиксированном порядке.
func (t WeatherTable) Biomes() []Biome {
	out := make([]Biome, 0, len(t))
	for _, b := range biomeOrder {
		if _, ok := t[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Labels возвращает все метки погоды таблицы без повторов, в порядке появления.
func (t WeatherTable) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range t.Biomes() {
		for _, e := range t[b] {
			if !seen[e.Label] {
				seen[e.Label] = true
				out = append(out, e.Label)
			}
		}
	}
	return out
}

// ReadWeatherTable читает таблицу из JSON и валидирует ее.
func ReadWeatherTable(r io.Reader) (WeatherTable, error) {
	var raw map[string][]WeatherEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	table := make(WeatherTable, len(raw))
	for name, entries := range raw {
		biome, err := ParseBiome(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		table[biome] = entries
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadWeatherTable читает таблицу из файла.
func LoadWeatherTable(path string) (WeatherTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadWeatherTable(f)
}

// DefaultWeatherTable встроенная таблица погоды клиента.
func DefaultWeatherTable() WeatherTable {
	return WeatherTable{
		BiomeMeadows: {
			{"Clear", 25}, {"Rain", 2}, {"Misty", 2}, {"ThunderStorm", 2}, {"LightRain", 5},
		},
		BiomeBlackForest: {
			{"DeepForest_Mist", 20}, {"Rain", 1}, {"Misty", 1}, {"ThunderStorm", 1},
		},
		BiomeSwamp: {
			{"SwampRain", 1},
		},
		BiomeMountain: {
			{"SnowStorm", 1}, {"Snow", 5},
		},
		BiomePlains: {
			{"Heath_clear", 5}, {"Misty", 1}, {"LightRain", 1},
		},
		BiomeOcean: {
			{"Rain", 1}, {"LightRain", 1}, {"Misty", 1}, {"Clear", 10}, {"ThunderStorm", 1},
		},
		BiomeMistlands: {
			{"Mistlands_clear", 15}, {"Mistlands_rain", 1}, {"Mistlands_thunder", 1},
		},
		BiomeAshlands: {
			{"Ashlands_ashrain", 30}, {"Ashlands_meteorrain", 1}, {"Ashlands_storm", 1}, {"Ashlands_misty", 2}, {"Ashlands_CinderRain", 4},
		},
		BiomeDeepNorth: {
			{"Twilight_Snow", 1}, {"Twilight_SnowStorm", 1},
		},
	}
}
