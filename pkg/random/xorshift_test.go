package random

import (
	"math"
	"testing"
)

func TestNew_StateExpansion(t *testing.T) {
	tests := []struct {
		name string
		seed uint32
		want State
	}{
		{
			name: "zero seed",
			seed: 0,
			want: State{A: 0, B: 1, C: 1812433254, D: 1900727103},
		},
		{
			name: "small seed",
			seed: 12345,
			want: State{A: 12345, B: 2003863422, C: 878305975, D: 684417332},
		},
		{
			name: "max seed wraps",
			seed: math.MaxUint32,
			want: State{A: 4294967295, B: 2482534044, C: 1724139405, D: 110473122},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.seed); got != tt.want {
				t.Errorf("New(%d) = %+v, want %+v", tt.seed, got, tt.want)
			}
		})
	}
}

func TestNext_GoldenSequence(t *testing.T) {
	tests := []struct {
		seed uint32
		want []uint32
	}{
		{seed: 0, want: []uint32{1900725526, 1900725046, 559298752}},
		{seed: 12345, want: []uint32{692788716, 3673367756, 558115199}},
		{seed: math.MaxUint32, want: []uint32{110471304, 1451848272, 305508131}},
	}

	for _, tt := range tests {
		got := Words(tt.seed, len(tt.want))
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Fatalf("seed %d: word %d = %d, want %d", tt.seed, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNext_DoesNotMutateReceiver(t *testing.T) {
	s := New(42)
	before := s

	v1, _ := s.Next()
	v2, _ := s.Next()

	if s != before {
		t.Fatalf("receiver changed: %+v -> %+v", before, s)
	}
	if v1 != v2 {
		t.Fatalf("same state produced different words: %d vs %d", v1, v2)
	}
}

func TestNext_RotatesWords(t *testing.T) {
	s := New(7)
	v, next := s.Next()

	if next.A != s.B || next.B != s.C || next.C != s.D || next.D != v {
		t.Errorf("unexpected rotation: %+v -> %+v (word %d)", s, next, v)
	}
}

func TestFloat_Golden(t *testing.T) {
	tests := []struct {
		seed uint32
		want float64
	}{
		{seed: 0, want: 0.5841396551298684},
		{seed: 1, want: 0.9996846913915505},
		{seed: 6, want: 0.07320905604470444},
		{seed: 18, want: 0.04841745476930794},
	}

	for _, tt := range tests {
		got, _ := New(tt.seed).Float()
		if math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("New(%d).Float() = %.17g, want %.17g", tt.seed, got, tt.want)
		}
	}
}

func TestFloat_SecondDraw(t *testing.T) {
	s := New(0)
	first, s := s.Float()
	second, s := s.Float()
	third, _ := s.Float()

	want := []float64{0.5841396551298684, 0.5840824346640628, 0.6736069528588}
	for i, got := range []float64{first, second, third} {
		if math.Abs(got-want[i]) > 1e-15 {
			t.Errorf("draw %d = %.17g, want %.17g", i, got, want[i])
		}
	}
}

func TestFloat_UnitInterval(t *testing.T) {
	for seed := uint32(0); seed < 5000; seed++ {
		s := New(seed * 2654435761)
		for i := 0; i < 4; i++ {
			var f float64
			f, s = s.Float()
			if f < 0 || f > 1 {
				t.Fatalf("seed %d draw %d out of range: %v", seed, i, f)
			}
		}
	}
}

func TestFloat_UsesReducedDivisor(t *testing.T) {
	// The largest shifted word divides to exactly 1 only with 2^32-512.
	maxWord := uint32(math.MaxUint32)
	if got := float64(maxWord<<9) / floatDivisor; got != 1 {
		t.Errorf("max shifted word = %v, want 1", got)
	}
}
