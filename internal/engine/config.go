package engine

import (
	"fmt"
	"time"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/pkg/random"
)

// Config хранит параметры запуска симуляции
type Config struct {
	// Seed - мир по умолчанию, если в запросе сид не указан.
	// Строка: числовая используется как есть, иначе хешируется.
	Seed string

	// EpochOffset сдвиг (в игровых секундах), добавляемый к тику перед делением
	// на периоды. 0 - как в клиенте игры.
	EpochOffset int64

	// IntroWeather погода всех биомов во время интро (Clear или ThunderStorm).
	IntroWeather string

	// RangeMode отображение броска. Не-reference только для сравнений.
	RangeMode random.RangeMode

	// TablePath JSON с таблицей погоды. Пусто - встроенная таблица.
	TablePath string

	// Живые часы: с какого дня стартуют и сколько игровых секунд
	// проходит за одну реальную.
	StartDay      int64
	TimeScale     float64
	ClockInterval time.Duration
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		IntroWeather:  domain.IntroWeatherClear,
		RangeMode:     random.RangeReference,
		StartDay:      1,
		TimeScale:     1,
		ClockInterval: time.Second,
	}
}

// Validate проверяет значения, которые нельзя отловить позже.
func (c Config) Validate() error {
	if c.IntroWeather == "" {
		return fmt.Errorf("%w: intro weather is empty", domain.ErrInvalidConfiguration)
	}
	if c.StartDay < 0 {
		return fmt.Errorf("%w: start day %d is negative", domain.ErrInvalidConfiguration, c.StartDay)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("%w: time scale must be positive", domain.ErrInvalidConfiguration)
	}
	if c.ClockInterval <= 0 {
		return fmt.Errorf("%w: clock interval must be positive", domain.ErrInvalidConfiguration)
	}
	return nil
}
