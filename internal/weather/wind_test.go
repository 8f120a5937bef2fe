package weather

import (
	"math"
	"testing"

	"jotunheim-weather/internal/timeline"
)

func TestWindAt_Golden(t *testing.T) {
	tests := []struct {
		name          string
		tick          timeline.Tick
		seed          uint32
		wantAngle     float64
		wantIntensity float64
	}{
		{name: "origin", tick: 0, wantAngle: 34.29426721266117, wantIntensity: 0.6576545649951178},
		{name: "second day", tick: 3600, wantAngle: 139.40350108188403, wantIntensity: 0.5816296063816078},
		{name: "reference scenario", tick: referenceTick, wantAngle: 132.63344378870056, wantIntensity: 0.9731372935339562},
		{name: "reference with seed", tick: referenceTick, seed: 12345, wantAngle: 147.96906149018548, wantIntensity: 0.9581924552550858},
	}

	r := newTestResolver(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.WindAt(tt.tick, tt.seed)
			if err != nil {
				t.Fatalf("WindAt: %v", err)
			}
			if math.Abs(got.Angle-tt.wantAngle) > 1e-9 {
				t.Errorf("angle = %.15g, want %.15g", got.Angle, tt.wantAngle)
			}
			if math.Abs(got.Intensity-tt.wantIntensity) > 1e-9 {
				t.Errorf("intensity = %.15g, want %.15g", got.Intensity, tt.wantIntensity)
			}
		})
	}
}

func TestWindAt_Bounds(t *testing.T) {
	r := newTestResolver(t)
	for tick := timeline.Tick(0); tick < 500_000; tick += 997 {
		w, err := r.WindAt(tick, uint32(tick))
		if err != nil {
			t.Fatalf("WindAt(%d): %v", tick, err)
		}
		if w.Angle < 0 || w.Angle >= 360 {
			t.Fatalf("tick %d: angle %v out of [0,360)", tick, w.Angle)
		}
		if w.Intensity < 0 || w.Intensity > 1 {
			t.Fatalf("tick %d: intensity %v out of [0,1]", tick, w.Intensity)
		}
	}
}

func TestWindForTick_ConstantWithinFastestOctave(t *testing.T) {
	// Wind only changes when a sub-tick boundary is crossed.
	r := newTestResolver(t)
	a, _ := r.WindAt(16, 0) // sub-tick 1
	b, _ := r.WindAt(31, 0) // still sub-tick 1
	if a != b {
		t.Errorf("wind changed inside one sub-tick: %+v vs %+v", a, b)
	}
}

func TestWindAccumulator_ClampsIntensity(t *testing.T) {
	tests := []struct {
		name  string
		rolls float64
		want  float64
	}{
		{name: "all high overshoots", rolls: 1, want: 1},
		{name: "all low undershoots", rolls: 0, want: 0},
		{name: "neutral stays at base", rolls: 0.5, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newWindAccumulator()
			for _, octave := range windOctaves {
				acc.add(octave, 0, tt.rolls)
			}
			if got := acc.result().Intensity; got != tt.want {
				t.Errorf("intensity = %v, want %v (raw %v)", got, tt.want, acc.intensity)
			}
		})
	}
}

func TestWindAccumulator_NormalizesAngle(t *testing.T) {
	tests := []struct {
		name    string
		radians float64
		want    float64
	}{
		{name: "negative quarter", radians: -math.Pi / 2, want: 270},
		{name: "more than a turn", radians: 5 * math.Pi, want: 180},
		{name: "negative turns", radians: -4*math.Pi - math.Pi/4, want: 315},
		{name: "zero", radians: 0, want: 0},
		{name: "exact turn", radians: 2 * math.Pi, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := windAccumulator{angle: tt.radians, intensity: 0.5}
			got := acc.result().Angle
			if got < 0 || got >= 360 {
				t.Fatalf("angle %v out of [0,360)", got)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("angle = %v, want %v", got, tt.want)
			}
		})
	}
}
