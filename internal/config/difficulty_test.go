package config

import "testing"

func TestDifficultyLevel(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{SpeedMultiplier: 3},
	})

	tests := []struct {
		score int
		want  float64
	}{
		{0, 0}, {50, 0.5}, {100, 1}, {1000, 1},
	}
	for _, tt := range tests {
		if got := d.Level(tt.score, 0); got != tt.want {
			t.Errorf("Level(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}

	d.SetEnabled(false)
	if d.Level(100, 0) != 0 {
		t.Error("Disabled progression should stay at the initial level")
	}
}

func TestGravityInterval(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{SpeedMultiplier: 3},
	})

	if got := d.GravityInterval(30, 3, 0, 0); got != 30 {
		t.Errorf("Expected base interval 30, got %d", got)
	}
	// Max level: speed x4
	if got := d.GravityInterval(30, 3, 100, 0); got != 8 {
		t.Errorf("Expected interval 8 at max level, got %d", got)
	}
	// Never faster than the floor
	if got := d.GravityInterval(30, 10, 100, 0); got != 10 {
		t.Errorf("Expected floor of 10, got %d", got)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 60},
	})
	d.SetInitialLevel(0.5)

	if got := d.Level(0, 30); got != 0.75 {
		t.Errorf("Expected 0.75, got %v", got)
	}
	if !d.IsEnabled() {
		t.Error("Expected progression enabled")
	}
}
