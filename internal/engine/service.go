package engine

import (
	"context"
	"fmt"
	"math"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/internal/network"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/internal/weather"
	"jotunheim-weather/pkg/api"
	"jotunheim-weather/pkg/logger"
	"jotunheim-weather/pkg/random"

	"github.com/sirupsen/logrus"
)

// WeatherService связывает ядро симуляции с транспортом:
// HTTP, WebSocket и утилиты ходят только сюда.
type WeatherService struct {
	Config   Config
	Resolver *weather.Resolver
	Hub      *network.Broadcaster
	Clock    *WorldClock

	defaultSeed uint32
	log         *logrus.Entry
}

// Query точка во времени для одного мира
type Query struct {
	Tick timeline.Tick
	Seed uint32
}

// NewService собирает резолвер из конфига. Ошибка таблицы погоды фатальна.
func NewService(cfg Config) (*WeatherService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table := domain.DefaultWeatherTable()
	if cfg.TablePath != "" {
		loaded, err := domain.LoadWeatherTable(cfg.TablePath)
		if err != nil {
			return nil, fmt.Errorf("load weather table %s: %w", cfg.TablePath, err)
		}
		table = loaded
	}

	converter := timeline.Converter{EpochOffset: cfg.EpochOffset}
	resolver, err := weather.NewResolver(table,
		weather.WithIntroWeather(cfg.IntroWeather),
		weather.WithRangeMode(cfg.RangeMode),
		weather.WithConverter(converter),
	)
	if err != nil {
		return nil, err
	}

	s := &WeatherService{
		Config:   cfg,
		Resolver: resolver,
		Hub:      network.NewBroadcaster(),
		log:      logger.Component("engine"),
	}

	// Тот же откат, что и у ResolveSeed: невалидный сид не мешает старту
	seed, err := timeline.ParseSeed(cfg.Seed)
	if err != nil {
		s.log.WithError(err).WithField("seed_len", len(cfg.Seed)).Warn("Invalid default seed, falling back to 0")
		seed = 0
	}
	s.defaultSeed = seed

	startTick, err := timeline.DayTick(cfg.StartDay, timeline.Clock{})
	if err != nil {
		return nil, err
	}
	s.Clock = NewWorldClock(s.Hub, converter, startTick, cfg.TimeScale, cfg.ClockInterval)

	s.log.WithFields(logrus.Fields{
		"biomes":       len(resolver.Biomes()),
		"default_seed": s.defaultSeed,
		"epoch_offset": cfg.EpochOffset,
		"intro":        cfg.IntroWeather,
		"range_mode":   cfg.RangeMode.String(),
	}).Info("Weather service ready")

	if cfg.RangeMode != random.RangeReference {
		s.log.Warn("Non-reference range mode: results will not match the game client")
	}
	return s, nil
}

// Start запускает живые часы до отмены ctx.
func (s *WeatherService) Start(ctx context.Context) {
	go s.Clock.Run(ctx)
}

// DefaultSeed числовой сид мира по умолчанию.
func (s *WeatherService) DefaultSeed() uint32 { return s.defaultSeed }

// ResolveSeed сворачивает сид из запроса. Пустая строка - мир по умолчанию.
// Невалидный сид не ошибка для клиента: откатываемся на 0 и пишем warning.
func (s *WeatherService) ResolveSeed(raw string) uint32 {
	if raw == "" {
		return s.defaultSeed
	}
	seed, err := timeline.ParseSeed(raw)
	if err != nil {
		s.log.WithError(err).WithField("seed_len", len(raw)).Warn("Invalid seed, falling back to 0")
		return 0
	}
	return seed
}

// Report погода всех биомов и ветер в точке q.
func (s *WeatherService) Report(q Query) (api.WeatherReport, error) {
	w, err := s.Resolver.WeathersAt(q.Tick, q.Seed)
	if err != nil {
		return api.WeatherReport{}, err
	}
	wind, err := s.Resolver.WindAt(q.Tick, q.Seed)
	if err != nil {
		return api.WeatherReport{}, err
	}

	return api.WeatherReport{
		Day:          q.Tick.Day(),
		Tick:         int64(q.Tick),
		Clock:        q.Tick.Clock().String(),
		NumericSeed:  q.Seed,
		WeatherIndex: w.Index,
		Intro:        w.Intro,
		Wind:         wind,
		Biomes:       biomeNames(w.Biomes),
		Weathers:     w.Labels,
	}, nil
}

// Forecast погодные периоды с начала fromDay до конца toDay.
func (s *WeatherService) Forecast(seed uint32, fromDay, toDay int64) (api.ForecastReport, error) {
	if toDay < fromDay {
		return api.ForecastReport{}, fmt.Errorf("%w: toDay %d before fromDay %d", domain.ErrInvalidInput, toDay, fromDay)
	}
	from, err := timeline.DayTick(fromDay, timeline.Clock{})
	if err != nil {
		return api.ForecastReport{}, err
	}
	end, err := timeline.DayTick(toDay+1, timeline.Clock{})
	if err != nil {
		return api.ForecastReport{}, err
	}
	to := end - 1

	periods, err := s.Resolver.Timeline(from, to, seed)
	if err != nil {
		return api.ForecastReport{}, err
	}
	return api.ForecastReport{
		NumericSeed: seed,
		FromTick:    int64(from),
		ToTick:      int64(to),
		Biomes:      biomeNames(s.Resolver.Biomes()),
		Periods:     periods,
	}, nil
}

// Compare считает погоду обоими отображениями броска.
// Intro для сравнения не имеет смысла, там оба режима совпадают.
func (s *WeatherService) Compare(q Query) (api.ComparisonReport, error) {
	reference := s.Resolver.With(weather.WithRangeMode(random.RangeReference))
	linear := s.Resolver.With(weather.WithRangeMode(random.RangeLinear))

	ref, err := reference.WeathersAt(q.Tick, q.Seed)
	if err != nil {
		return api.ComparisonReport{}, err
	}
	lin, err := linear.WeathersAt(q.Tick, q.Seed)
	if err != nil {
		return api.ComparisonReport{}, err
	}

	report := api.ComparisonReport{
		Tick:         int64(q.Tick),
		NumericSeed:  q.Seed,
		WeatherIndex: ref.Index,
		Reference:    api.ComparisonSide{Roll: ref.Roll, Weathers: make(map[string]string)},
		Linear:       api.ComparisonSide{Roll: lin.Roll, Weathers: make(map[string]string)},
	}
	for i, b := range ref.Biomes {
		report.Reference.Weathers[b.String()] = ref.Labels[i]
		report.Linear.Weathers[b.String()] = lin.Labels[i]
		if ref.Labels[i] != lin.Labels[i] {
			report.Differences = append(report.Differences, b.String())
		}
	}
	return report, nil
}

// Snapshot строит прогноз для сохранения в файл.
func (s *WeatherService) Snapshot(seed uint32, fromDay, toDay int64) (*domain.ForecastSnapshot, error) {
	forecast, err := s.Forecast(seed, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	return &domain.ForecastSnapshot{
		Seed:        seed,
		EpochOffset: s.Config.EpochOffset,
		Biomes:      s.Resolver.Biomes(),
		Entries:     forecast.Periods,
	}, nil
}

// Mismatch одно расхождение снапшота с пересчетом.
type Mismatch struct {
	WeatherIndex int64  `json:"weatherIndex"`
	Field        string `json:"field"`
	Want         string `json:"want"`
	Got          string `json:"got"`
}

const windTolerance = 1e-9

// VerifySnapshot пересчитывает каждый период снапшота и возвращает расхождения.
func (s *WeatherService) VerifySnapshot(snap *domain.ForecastSnapshot) ([]Mismatch, error) {
	r := s.Resolver.With(weather.WithConverter(timeline.Converter{EpochOffset: snap.EpochOffset}))

	column := make(map[domain.Biome]int)
	for i, b := range r.Biomes() {
		column[b] = i
	}
	for _, b := range snap.Biomes {
		if _, ok := column[b]; !ok {
			return nil, fmt.Errorf("%w: snapshot biome %q not in weather table", domain.ErrInvalidConfiguration, b)
		}
	}

	var out []Mismatch
	for _, e := range snap.Entries {
		if len(e.Weathers) != len(snap.Biomes) {
			return nil, fmt.Errorf("%w: period %d has %d weathers for %d biomes", domain.ErrInvalidConfiguration, e.WeatherIndex, len(e.Weathers), len(snap.Biomes))
		}
		tick := timeline.Tick(e.Tick)
		w, err := r.WeathersAt(tick, snap.Seed)
		if err != nil {
			return nil, err
		}
		if w.Index != e.WeatherIndex {
			out = append(out, Mismatch{e.WeatherIndex, "weatherIndex", fmt.Sprint(e.WeatherIndex), fmt.Sprint(w.Index)})
			continue
		}
		for i, b := range snap.Biomes {
			if got := w.Labels[column[b]]; got != e.Weathers[i] {
				out = append(out, Mismatch{e.WeatherIndex, b.String(), e.Weathers[i], got})
			}
		}

		wind, err := r.WindAt(tick, snap.Seed)
		if err != nil {
			return nil, err
		}
		if math.Abs(wind.Angle-e.Wind.Angle) > windTolerance {
			out = append(out, Mismatch{e.WeatherIndex, "wind.angle", fmt.Sprint(e.Wind.Angle), fmt.Sprint(wind.Angle)})
		}
		if math.Abs(wind.Intensity-e.Wind.Intensity) > windTolerance {
			out = append(out, Mismatch{e.WeatherIndex, "wind.intensity", fmt.Sprint(e.Wind.Intensity), fmt.Sprint(wind.Intensity)})
		}
	}

	s.log.WithFields(logrus.Fields{
		"entries":    len(snap.Entries),
		"mismatches": len(out),
		"seed":       snap.Seed,
	}).Info("Snapshot verified")
	return out, nil
}

func biomeNames(biomes []domain.Biome) []string {
	out := make([]string, len(biomes))
	for i, b := range biomes {
		out[i] = b.String()
	}
	return out
}
