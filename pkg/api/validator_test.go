package api

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	neg := int64(-3)
	pos := int64(42)

	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{name: "subscribe ok", payload: SubscribePayload{Seed: "HelloWorld"}},
		{name: "subscribe empty ok", payload: SubscribePayload{}},
		{name: "subscribe long", payload: SubscribePayload{Seed: strings.Repeat("s", 65)}, wantErr: true},
		{name: "at day", payload: AtPayload{Day: 984, Time: "13:41"}},
		{name: "at tick", payload: AtPayload{Tick: &pos}},
		{name: "at negative tick", payload: AtPayload{Tick: &neg}, wantErr: true},
		{name: "at negative day", payload: AtPayload{Day: -1}, wantErr: true},
		{name: "forecast ok", payload: ForecastPayload{FromDay: 1, ToDay: 3}},
		{name: "forecast single day", payload: ForecastPayload{FromDay: 5, ToDay: 5}},
		{name: "forecast reversed", payload: ForecastPayload{FromDay: 3, ToDay: 1}, wantErr: true},
		{name: "forecast too long", payload: ForecastPayload{FromDay: 0, ToDay: MaxForecastDays}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
