package server

import (
	"errors"
	"net/http"

	"jotunheim-weather/internal/engine"
	"jotunheim-weather/pkg/random"
)

const maxDebugDraws = 64

// DebugHandler предоставляет доступ к внутреннему состоянию генератора
type DebugHandler struct {
	Service *engine.WeatherService
}

func NewDebugHandler(s *engine.WeatherService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/rng", enableCORS(h.handleRNG))
	mux.HandleFunc("/debug/compare", enableCORS(h.handleCompare))
}

// RNGDump сырые слова генератора и соответствующие float.
type RNGDump struct {
	Seed   uint32       `json:"seed"`
	State  random.State `json:"state"`
	Words  []uint32     `json:"words"`
	Floats []float64    `json:"floats"`
}

// /debug/rng?seed=0&count=4 - первые выходы xorshift для числового сида
func (h *DebugHandler) handleRNG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seed, err := intParam(q.Get("seed"), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if seed < 0 || seed > int64(^uint32(0)) {
		writeError(w, invalidInput(errors.New("seed must fit in uint32")))
		return
	}
	count, err := intParam(q.Get("count"), 4)
	if err != nil {
		writeError(w, err)
		return
	}
	if count < 1 || count > maxDebugDraws {
		writeError(w, invalidInput(errors.New("count must be between 1 and 64")))
		return
	}

	dump := RNGDump{
		Seed:   uint32(seed),
		State:  random.New(uint32(seed)),
		Words:  random.Words(uint32(seed), int(count)),
		Floats: make([]float64, 0, count),
	}
	state := dump.State
	for i := int64(0); i < count; i++ {
		var f float64
		f, state = state.Float()
		dump.Floats = append(dump.Floats, f)
	}

	writeJSON(w, http.StatusOK, dump)
}

// /debug/compare?day=984&time=13:41&seed=... - оба отображения броска рядом
func (h *DebugHandler) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tick, err := tickFromQuery(q.Get("tick"), q.Get("day"), q.Get("time"))
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.Service.Compare(engine.Query{Tick: tick, Seed: h.Service.ResolveSeed(q.Get("seed"))})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
