package core

import "testing"

func TestRuntimeConfigWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   RuntimeConfig
		want RuntimeConfig
	}{
		{"zero", RuntimeConfig{}, RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}},
		{"negative tick rate", RuntimeConfig{ScreenW: 100, ScreenH: 40, TickRate: -1}, RuntimeConfig{ScreenW: 100, ScreenH: 40, TickRate: 60}},
		{"seed kept", RuntimeConfig{ScreenW: 90, ScreenH: 30, TickRate: 30, Seed: 7}, RuntimeConfig{ScreenW: 90, ScreenH: 30, TickRate: 30, Seed: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.WithDefaults(); got != tt.want {
				t.Errorf("WithDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
