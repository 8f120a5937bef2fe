package engine

import (
	"context"
	"sync"
	"time"

	"jotunheim-weather/internal/network"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/pkg/api"
	"jotunheim-weather/pkg/logger"
)

// WorldClock живые игровые часы. Время течет от startTick со скоростью
// scale игровых секунд за реальную. Подписчики Hub получают CLOCK каждый раз,
// когда меняется под-тик ветра (погода меняется реже, на границе периода).
type WorldClock struct {
	hub       *network.Broadcaster
	converter timeline.Converter
	startTick timeline.Tick
	scale     float64
	interval  time.Duration

	// now подменяется в тестах
	now func() time.Time

	mu           sync.Mutex
	started      time.Time
	lastWindTick int64
}

func NewWorldClock(hub *network.Broadcaster, conv timeline.Converter, startTick timeline.Tick, scale float64, interval time.Duration) *WorldClock {
	return &WorldClock{
		hub:          hub,
		converter:    conv,
		startTick:    startTick,
		scale:        scale,
		interval:     interval,
		now:          time.Now,
		started:      time.Now(),
		lastWindTick: -1,
	}
}

// Now текущий игровой тик.
func (c *WorldClock) Now() timeline.Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickLocked()
}

func (c *WorldClock) tickLocked() timeline.Tick {
	elapsed := c.now().Sub(c.started).Seconds() * c.scale
	if elapsed < 0 {
		elapsed = 0
	}
	return c.startTick + timeline.Tick(elapsed)
}

// Run крутит часы до отмены ctx.
func (c *WorldClock) Run(ctx context.Context) {
	log := logger.Component("clock")

	c.mu.Lock()
	c.started = c.now()
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.WithField("start_tick", c.startTick).Info("World clock started")
	c.step()

	for {
		select {
		case <-ctx.Done():
			log.Info("World clock stopped")
			return
		case <-ticker.C:
			c.step()
		}
	}
}

// step публикует CLOCK, если под-тик ветра сменился. Возвращает true, если опубликовал.
func (c *WorldClock) step() bool {
	c.mu.Lock()
	tick := c.tickLocked()
	windTick, err := c.converter.WindTick(tick)
	if err != nil || windTick == c.lastWindTick {
		c.mu.Unlock()
		return false
	}
	c.lastWindTick = windTick
	c.mu.Unlock()

	c.hub.Broadcast(api.ServerMessage{Type: api.MessageClock, Tick: int64(tick)})
	return true
}
