package core

import "testing"

func TestPointLess(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected bool
	}{
		{"smaller x", Pt(0, 5), Pt(1, 0), true},
		{"larger x", Pt(2, 0), Pt(1, 9), false},
		{"same x smaller y", Pt(1, 1), Pt(1, 2), true},
		{"equal", Pt(3, 3), Pt(3, 3), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Less(tc.b); got != tc.expected {
				t.Errorf("%v.Less(%v) = %v, expected %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestPointAdd(t *testing.T) {
	got := Pt(2, 3).Add(Pt(-1, 4))
	if got != Pt(1, 7) {
		t.Errorf("Add() = %v, expected (1,7)", got)
	}
	if Pt(1, 7).String() != "(1,7)" {
		t.Errorf("String() = %q", Pt(1, 7).String())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
