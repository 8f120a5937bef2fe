package domain

// Wind итоговый ветер: угол в градусах [0,360) и сила [0,1].
type Wind struct {
	Angle     float64 `json:"angle"`
	Intensity float64 `json:"intensity"`
}

// ForecastEntry один погодный период прогноза.
type ForecastEntry struct {
	Tick         int64    `json:"tick"` // Начало периода, секунды игрового времени
	WeatherIndex int64    `json:"weatherIndex"`
	Intro        bool     `json:"intro,omitempty"`
	Wind         Wind     `json:"wind"`
	Weathers     []string `json:"weathers"` // Выровнено по Biomes снапшота
}

// ForecastSnapshot сохраненный прогноз. Используется как эталон для регрессии:
// пересчитываем и сравниваем с тем, что было записано.
type ForecastSnapshot struct {
	Seed        uint32          `json:"seed"`
	EpochOffset int64           `json:"epochOffset"`
	Biomes      []Biome         `json:"biomes"`
	Entries     []ForecastEntry `json:"entries"`
}
