package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jotunheim-weather/internal/engine"
	"jotunheim-weather/pkg/api"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc, err := engine.NewService(engine.NewConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return New(svc, "0")
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v (body %q)", v, err, rec.Body.String())
	}
	return v
}

func TestHandleWeather(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		target      string
		blackForest string
	}{
		{"day and time", "/api/weather?day=984&time=13:41", "ThunderStorm"},
		{"explicit tick", "/api/weather?tick=1772226", "ThunderStorm"},
		{"tick wins over day", "/api/weather?tick=1772226&day=1", "ThunderStorm"},
		{"numeric seed", "/api/weather?day=984&time=13:41&seed=12345", "Misty"},
		{"invalid seed falls back to zero", "/api/weather?day=984&time=13:41&seed=" + strings.Repeat("x", 65), "ThunderStorm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			report := decode[api.WeatherReport](t, rec)
			if report.Biomes[1] != "BlackForest" {
				t.Fatalf("biome order changed: %v", report.Biomes)
			}
			if report.Weathers[1] != tt.blackForest {
				t.Errorf("BlackForest = %s, want %s", report.Weathers[1], tt.blackForest)
			}
		})
	}
}

func TestHandleWeather_BiomeFilter(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/weather?day=984&time=13:41&biome=black_forest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	report := decode[api.WeatherReport](t, rec)
	if len(report.Biomes) != 1 || report.Biomes[0] != "BlackForest" || report.Weathers[0] != "ThunderStorm" {
		t.Errorf("filtered report = %v/%v", report.Biomes, report.Weathers)
	}
}

func TestHandleWeather_BadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		target  string
		contain string
	}{
		{"negative day", "/api/weather?day=-1", "negative day"},
		{"negative tick", "/api/weather?tick=-5", "negative"},
		{"huge day", "/api/weather?day=9223372036854775807", "too large"},
		{"huge tick", "/api/weather?tick=9223372036854775807", "exceeds"},
		{"bad clock", "/api/weather?day=1&time=25:00", "bad hour"},
		{"non numeric day", "/api/weather?day=abc", "expected an integer"},
		{"unknown biome", "/api/weather?biome=Medows", "Meadows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			resp := decode[api.ErrorResponse](t, rec)
			if !strings.Contains(resp.Error, tt.contain) {
				t.Errorf("error %q does not mention %q", resp.Error, tt.contain)
			}
		})
	}
}

func TestHandleForecast(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/forecast?from=1&to=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	f := decode[api.ForecastReport](t, rec)
	if f.FromTick != 1800 || f.ToTick != 3*1800-1 {
		t.Errorf("range = [%d, %d], want [1800, 5399]", f.FromTick, f.ToTick)
	}
	if len(f.Periods) == 0 || f.Periods[0].Tick != 1800 {
		t.Fatalf("first period should start at the requested tick: %+v", f.Periods)
	}
	for i := 1; i < len(f.Periods); i++ {
		if f.Periods[i].WeatherIndex != f.Periods[i-1].WeatherIndex+1 {
			t.Errorf("gap between periods %d and %d", i-1, i)
		}
	}
}

func TestHandleForecast_BadRange(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/api/forecast?from=5&to=2",
		"/api/forecast?from=-1",
		"/api/forecast?from=0&to=5000",
	} {
		if rec := get(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestHandleTick(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/tick?day=984&time=13:41")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	r := decode[api.TickReport](t, rec)
	want := api.TickReport{Day: 984, Clock: "13:41", Tick: 1772226, WeatherIndex: 2661, WindTick: 113422}
	if r != want {
		t.Errorf("tick report = %+v, want %+v", r, want)
	}
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/weather", nil)
	pre := httptest.NewRecorder()
	s.Routes().ServeHTTP(pre, req)
	if pre.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", pre.Code)
	}
}

func TestDebugRNG(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/debug/rng?seed=0&count=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	dump := decode[RNGDump](t, rec)
	wantWords := []uint32{1900725526, 1900725046, 559298752}
	for i, w := range wantWords {
		if dump.Words[i] != w {
			t.Errorf("word %d = %d, want %d", i, dump.Words[i], w)
		}
	}
	if dump.Floats[0] != 0.5841396551298684 {
		t.Errorf("first float = %v", dump.Floats[0])
	}

	if rec := get(t, s, "/debug/rng?count=1000"); rec.Code != http.StatusBadRequest {
		t.Errorf("oversized count status = %d, want 400", rec.Code)
	}
}

func TestDebugCompare(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/debug/compare?day=984&time=13:41")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	c := decode[api.ComparisonReport](t, rec)
	if c.Reference.Weathers["BlackForest"] != "ThunderStorm" {
		t.Errorf("reference BlackForest = %s", c.Reference.Weathers["BlackForest"])
	}
	if c.Linear.Weathers["BlackForest"] != "DeepForest_Mist" {
		t.Errorf("linear BlackForest = %s", c.Linear.Weathers["BlackForest"])
	}
}
