package weather

import (
	"fmt"

	"jotunheim-weather/internal/domain"
)

// Select picks one label from entries using roll in [0,1].
//
// The roll is scaled by the total weight and the first entry whose running
// sum is strictly greater than the scaled roll wins. If rounding leaves no
// winner (roll at 1), the last label is returned.
func Select(entries []domain.WeatherEntry, roll float64) (string, error) {
	if err := domain.ValidateEntries(entries); err != nil {
		return "", err
	}

	total := 0
	for _, e := range entries {
		total += e.Weight
	}

	target := float64(total) * roll
	running := 0.0
	for _, e := range entries {
		running += float64(e.Weight)
		if target < running {
			return e.Label, nil
		}
	}
	return entries[len(entries)-1].Label, nil
}

// mustSelect is Select for tables that were validated up front.
func mustSelect(entries []domain.WeatherEntry, roll float64) string {
	label, err := Select(entries, roll)
	if err != nil {
		panic(fmt.Sprintf("weather: unvalidated table reached resolver: %v", err))
	}
	return label
}
