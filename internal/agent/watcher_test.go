package agent

import (
	"testing"
	"time"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/internal/engine"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/pkg/api"
)

func newTestWatcher(t *testing.T) (*Watcher, *[]Change) {
	t.Helper()
	svc, err := engine.NewService(engine.NewConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	w := NewWatcher("watcher-test", svc, 0)
	var changes []Change
	w.OnChange = func(c Change) { changes = append(changes, c) }
	return w, &changes
}

func TestWatcher_ReportsOnlyRealChanges(t *testing.T) {
	w, changes := newTestWatcher(t)

	// Первый период только запоминается
	if err := w.observe(0); err != nil {
		t.Fatalf("observe: %v", err)
	}
	if len(*changes) != 0 {
		t.Fatalf("first observation produced changes: %+v", *changes)
	}

	// Тот же период - ничего нового
	if err := w.observe(domain.WeatherPeriod - 1); err != nil {
		t.Fatalf("observe: %v", err)
	}
	if len(*changes) != 0 {
		t.Fatalf("same period produced changes: %+v", *changes)
	}

	// Проходим много периодов: каждое изменение согласовано с Report
	for i := int64(1); i < 50; i++ {
		prev := w.last
		tick := timeline.Tick(i * domain.WeatherPeriod)
		before := len(*changes)
		if err := w.observe(tick); err != nil {
			t.Fatalf("observe %d: %v", tick, err)
		}
		for _, c := range (*changes)[before:] {
			if c.From == c.To {
				t.Errorf("no-op change reported: %+v", c)
			}
			if c.WeatherIndex != i {
				t.Errorf("change index = %d, want %d", c.WeatherIndex, i)
			}
		}
		diff := 0
		for j := range prev {
			if prev[j] != w.last[j] {
				diff++
			}
		}
		if got := len(*changes) - before; got != diff {
			t.Errorf("period %d: %d changes reported, %d biomes differ", i, got, diff)
		}
	}
	if len(*changes) == 0 {
		t.Error("no weather change in 50 periods")
	}
}

func TestWatcher_RunStopsWhenUnregistered(t *testing.T) {
	w, _ := newTestWatcher(t)

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	w.Service.Hub.Broadcast(api.ServerMessage{Type: api.MessageClock, Tick: 4000})
	w.Service.Hub.Unregister(w.ID)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after unregister")
	}
	if w.Service.Hub.HasSubscriber(w.ID) {
		t.Error("watcher still registered")
	}
}
