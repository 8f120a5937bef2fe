package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Profiling
	"strconv"
	"time"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/internal/engine"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/internal/version"
	"jotunheim-weather/pkg/api"
	"jotunheim-weather/pkg/logger"
)

type Server struct {
	Engine *engine.WeatherService
	Port   string

	httpServer *http.Server
}

func New(engine *engine.WeatherService, port string) *Server {
	return &Server{
		Engine: engine,
		Port:   port,
	}
}

// Routes собирает все маршруты. Вынесено отдельно для httptest.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/weather", enableCORS(s.handleWeather))
	mux.HandleFunc("/api/forecast", enableCORS(s.handleForecast))
	mux.HandleFunc("/api/tick", enableCORS(s.handleTick))
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(mux)

	// pprof регистрируется в DefaultServeMux
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	return mux
}

// Run запускает HTTP сервер и блокируется до Shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Log.Infof("🌦️  Weather server running on :%s", s.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// /api/weather?day=984&time=13:41&seed=HelloWorld&biome=BlackForest
// Явный tick имеет приоритет над day/time. day по умолчанию 1.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tick, err := tickFromQuery(q.Get("tick"), q.Get("day"), q.Get("time"))
	if err != nil {
		writeError(w, err)
		return
	}
	seed := s.Engine.ResolveSeed(q.Get("seed"))

	report, err := s.Engine.Report(engine.Query{Tick: tick, Seed: seed})
	if err != nil {
		writeError(w, err)
		return
	}

	if name := q.Get("biome"); name != "" {
		biome, err := domain.ParseBiome(name)
		if err != nil {
			writeError(w, err)
			return
		}
		report = filterBiome(report, biome)
	}

	writeJSON(w, http.StatusOK, report)
}

// /api/forecast?from=1&to=3&seed=...
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := intParam(q.Get("from"), 1)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := intParam(q.Get("to"), from)
	if err != nil {
		writeError(w, err)
		return
	}
	payload := api.ForecastPayload{FromDay: from, ToDay: to}
	if err := payload.Validate(); err != nil {
		writeError(w, invalidInput(err))
		return
	}

	forecast, err := s.Engine.Forecast(s.Engine.ResolveSeed(q.Get("seed")), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

// /api/tick?day=984&time=13:41 - конвертация без расчета погоды
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tick, err := tickFromQuery(q.Get("tick"), q.Get("day"), q.Get("time"))
	if err != nil {
		writeError(w, err)
		return
	}
	conv := s.Engine.Resolver.Converter()
	weatherIndex, err := conv.WeatherIndex(tick)
	if err != nil {
		writeError(w, err)
		return
	}
	windTick, err := conv.WindTick(tick)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TickReport{
		Day:          tick.Day(),
		Clock:        tick.Clock().String(),
		Tick:         int64(tick),
		WeatherIndex: weatherIndex,
		WindTick:     windTick,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

// tickFromQuery: tick, иначе day (по умолчанию 1) + time.
func tickFromQuery(rawTick, rawDay, rawTime string) (timeline.Tick, error) {
	if rawTick != "" {
		n, err := strconv.ParseInt(rawTick, 10, 64)
		if err != nil {
			return 0, invalidInput(errors.New("tick must be an integer"))
		}
		t := timeline.Tick(n)
		return t, t.Validate()
	}

	day, err := intParam(rawDay, 1)
	if err != nil {
		return 0, err
	}
	clock, err := timeline.ParseClock(rawTime)
	if err != nil {
		return 0, err
	}
	return timeline.DayTick(day, clock)
}

func intParam(raw string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidInput(errors.New("expected an integer, got " + strconv.Quote(raw)))
	}
	return n, nil
}

func filterBiome(report api.WeatherReport, biome domain.Biome) api.WeatherReport {
	for i, name := range report.Biomes {
		if name == biome.String() {
			report.Biomes = []string{name}
			report.Weathers = []string{report.Weathers[i]}
			return report
		}
	}
	report.Biomes = []string{}
	report.Weathers = []string{}
	return report
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

// statusFor переводит ошибки ядра в HTTP-коды.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidSeed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Log.WithError(err).Error("Request failed")
	}
	writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("write json response failed")
	}
}
