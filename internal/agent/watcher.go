package agent

import (
	"jotunheim-weather/internal/engine"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/pkg/api"
	"jotunheim-weather/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Watcher - внутренний подписчик хаба (как обычный WebSocket-клиент).
// Следит за одним миром и сообщает о смене погоды в биомах.
//
// Жизненный цикл:
//  1. NewWatcher -> регистрация в хабе, получение личного канала (Inbox).
//  2. Run -> в отдельной горутине слушает CLOCK.
//  3. При смене погодного периода сравнивает погоду биомов с прошлой
//     и вызывает OnChange для каждого изменения.
type Watcher struct {
	ID       string
	Service  *engine.WeatherService
	Seed     uint32
	Inbox    <-chan api.ServerMessage
	OnChange func(Change)

	lastIndex int64
	last      []string
	log       *logrus.Entry
}

// Change смена погоды в одном биоме.
type Change struct {
	Tick         int64
	WeatherIndex int64
	Biome        string
	From         string
	To           string
}

func NewWatcher(id string, service *engine.WeatherService, seed uint32) *Watcher {
	w := &Watcher{
		ID:        id,
		Service:   service,
		Seed:      seed,
		Inbox:     service.Hub.Register(id),
		lastIndex: -1,
		log:       logger.Component("watcher").WithField("seed", seed),
	}
	w.OnChange = w.logChange
	return w
}

// Run слушает Inbox, пока хаб не закроет канал. Запускать в горутине.
func (w *Watcher) Run() {
	defer w.Service.Hub.Unregister(w.ID)

	for msg := range w.Inbox {
		if msg.Type != api.MessageClock {
			continue
		}
		if err := w.observe(timeline.Tick(msg.Tick)); err != nil {
			w.log.WithError(err).Warn("Weather lookup failed")
		}
	}
	w.log.Info("Watcher shut down")
}

// observe сравнивает погоду на tick с последней увиденной.
// Первый период только запоминается.
func (w *Watcher) observe(tick timeline.Tick) error {
	report, err := w.Service.Report(engine.Query{Tick: tick, Seed: w.Seed})
	if err != nil {
		return err
	}
	if report.WeatherIndex == w.lastIndex {
		return nil
	}

	if w.last != nil {
		for i, label := range report.Weathers {
			if label == w.last[i] {
				continue
			}
			w.OnChange(Change{
				Tick:         report.Tick,
				WeatherIndex: report.WeatherIndex,
				Biome:        report.Biomes[i],
				From:         w.last[i],
				To:           label,
			})
		}
	}

	w.lastIndex = report.WeatherIndex
	w.last = report.Weathers
	return nil
}

func (w *Watcher) logChange(c Change) {
	w.log.WithFields(logrus.Fields{
		"biome":         c.Biome,
		"from":          c.From,
		"to":            c.To,
		"weather_index": c.WeatherIndex,
		"tick":          c.Tick,
	}).Info("🌦️ Weather changed")
}
