package api

import (
	"encoding/json"

	"jotunheim-weather/internal/domain"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера
const (
	MessageUpdate   = "UPDATE"   // Погода на текущий тик живых часов
	MessageReport   = "REPORT"   // Ответ на AT
	MessageForecast = "FORECAST" // Ответ на FORECAST
	MessageClock    = "CLOCK"    // Внутреннее: часы сдвинулись (Hub -> клиент)
	MessageError    = "ERROR"
)

// WeatherReport погода и ветер в одной точке времени для одного мира.
// Weathers выровнен по Biomes.
type WeatherReport struct {
	Day          int64       `json:"day"`
	Tick         int64       `json:"tick"`
	Clock        string      `json:"clock"` // HH:MM внутри игрового дня
	NumericSeed  uint32      `json:"numericSeed"`
	WeatherIndex int64       `json:"weatherIndex"`
	Intro        bool        `json:"intro"`
	Wind         domain.Wind `json:"wind"`
	Biomes       []string    `json:"biomes"`
	Weathers     []string    `json:"weathers"`
}

// ForecastReport последовательность погодных периодов.
type ForecastReport struct {
	NumericSeed uint32                 `json:"numericSeed"`
	FromTick    int64                  `json:"fromTick"`
	ToTick      int64                  `json:"toTick"`
	Biomes      []string               `json:"biomes"`
	Periods     []domain.ForecastEntry `json:"periods"`
}

// ComparisonReport исходы обоих отображений броска для одной точки.
type ComparisonReport struct {
	Tick         int64          `json:"tick"`
	NumericSeed  uint32         `json:"numericSeed"`
	WeatherIndex int64          `json:"weatherIndex"`
	Reference    ComparisonSide `json:"reference"`
	Linear       ComparisonSide `json:"linear"`
	Differences  []string       `json:"differences,omitempty"` // Биомы с разной погодой
}

// ComparisonSide результат одного режима.
type ComparisonSide struct {
	Roll     float64           `json:"roll"`
	Weathers map[string]string `json:"weathers"`
}

// TickReport результат конвертации дня и времени в тик.
type TickReport struct {
	Day          int64  `json:"day"`
	Clock        string `json:"clock"`
	Tick         int64  `json:"tick"`
	WeatherIndex int64  `json:"weatherIndex"`
	WindTick     int64  `json:"windTick"`
}

// ServerMessage корневой объект WebSocket-сообщений от сервера.
type ServerMessage struct {
	Type     string          `json:"type"`
	Tick     int64           `json:"tick"`
	Report   *WeatherReport  `json:"report,omitempty"`
	Forecast *ForecastReport `json:"forecast,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ErrorResponse тело ответа REST при ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// Команды клиента
const (
	ActionSubscribe = "SUBSCRIBE"
	ActionAt        = "AT"
	ActionForecast  = "FORECAST"
)

// ClientCommand корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// SubscribePayload выбирает мир, для которого клиент получает UPDATE.
type SubscribePayload struct {
	Seed string `json:"seed"`
}

// AtPayload точка во времени: либо явный тик, либо день + время.
type AtPayload struct {
	Day  int64  `json:"day"`
	Time string `json:"time,omitempty"` // HH:MM
	Tick *int64 `json:"tick,omitempty"`
}

// ForecastPayload диапазон дней (включительно).
type ForecastPayload struct {
	FromDay int64 `json:"fromDay"`
	ToDay   int64 `json:"toDay"`
}
