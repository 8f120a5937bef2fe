package api

import "errors"

// MaxForecastDays ограничение на диапазон одного запроса прогноза.
const MaxForecastDays = 1000

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p SubscribePayload) Validate() error {
	if len(p.Seed) > 64 {
		return errors.New("seed is too long")
	}
	return nil
}

func (p AtPayload) Validate() error {
	if p.Tick != nil {
		if *p.Tick < 0 {
			return errors.New("tick cannot be negative")
		}
		return nil
	}
	if p.Day < 0 {
		return errors.New("day cannot be negative")
	}
	return nil
}

func (p ForecastPayload) Validate() error {
	if p.FromDay < 0 || p.ToDay < 0 {
		return errors.New("days cannot be negative")
	}
	if p.ToDay < p.FromDay {
		return errors.New("toDay is before fromDay")
	}
	if p.ToDay-p.FromDay >= MaxForecastDays {
		return errors.New("forecast range too large")
	}
	return nil
}
