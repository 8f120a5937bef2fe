package domain

// Игровое время, в секундах симуляции
const (
	// GameDay длина одних игровых суток.
	GameDay = 1800
	// WeatherPeriod погода постоянна в пределах одного периода.
	WeatherPeriod = 666
	// WindPeriod период самой медленной октавы ветра.
	WindPeriod = 125
	// IntroDuration пока не истекло, у всех биомов одна и та же погода.
	IntroDuration = 2040
)

// Параметры ветра
const (
	// WindOctaves число под-тиков в одном WindPeriod. Октавы 1, 2, 4, 8
	// обновляются каждые 8, 4, 2 и 1 под-тик соответственно.
	WindOctaves = 8
	// WindBaseIntensity начальное значение силы ветра до сложения октав.
	WindBaseIntensity = 0.5
)

// Погода на время интро. Какая из двух верна, не установлено:
// выбирается через конфиг, по умолчанию Clear.
const (
	IntroWeatherClear        = "Clear"
	IntroWeatherThunderStorm = "ThunderStorm"
)

// MaxForecastPeriods ограничивает длину одного прогноза.
const MaxForecastPeriods = 4096
