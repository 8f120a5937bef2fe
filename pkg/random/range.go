package random

import "fmt"

// RangeMode selects how a roll is mapped into an interval.
type RangeMode uint8

const (
	// RangeReference interpolates from max downwards. This is what the game
	// client does and the only mode that reproduces its weather.
	RangeReference RangeMode = iota
	// RangeLinear interpolates from min upwards. Kept for comparison reports.
	RangeLinear
)

// RangeFloat maps roll into [min,max) as max - roll*(max-min).
func RangeFloat(min, max, roll float64) float64 {
	return max - roll*(max-min)
}

// RangeFloatLinear maps roll into [min,max) as min + roll*(max-min).
func RangeFloatLinear(min, max, roll float64) float64 {
	return min + roll*(max-min)
}

// Map applies the mode to roll.
func (m RangeMode) Map(min, max, roll float64) float64 {
	if m == RangeLinear {
		return RangeFloatLinear(min, max, roll)
	}
	return RangeFloat(min, max, roll)
}

func (m RangeMode) String() string {
	switch m {
	case RangeReference:
		return "reference"
	case RangeLinear:
		return "linear"
	default:
		return fmt.Sprintf("RangeMode(%d)", uint8(m))
	}
}

// ParseRangeMode accepts "reference" (or "b") and "linear" (or "a").
func ParseRangeMode(s string) (RangeMode, error) {
	switch s {
	case "", "reference", "b", "B":
		return RangeReference, nil
	case "linear", "a", "A":
		return RangeLinear, nil
	}
	return RangeReference, fmt.Errorf("unknown range mode %q", s)
}
