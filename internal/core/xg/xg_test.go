package xg

import "testing"

func TestHeuristic_Monotonic(t *testing.T) {
	h := DefaultHeuristic()
	prev := 1.0
	for d := 0.0; d <= 80; d += 5 {
		got := h.ExpectedGoal(Features{DistanceFt: d, AngleDeg: 10, Type: Wrist})
		if got > prev {
			t.Errorf("ExpectedGoal(distance=%v) = %v; rose above %v", d, got, prev)
		}
		prev = got
	}
	prev = 1.0
	for a := 0.0; a <= 60; a += 5 {
		got := h.ExpectedGoal(Features{DistanceFt: 20, AngleDeg: a, Type: Wrist})
		if got > prev {
			t.Errorf("ExpectedGoal(angle=%v) = %v; rose above %v", a, got, prev)
		}
		prev = got
	}
}

func TestHeuristic_Values(t *testing.T) {
	h := DefaultHeuristic()
	tests := []struct {
		name string
		f    Features
		want float64
	}{
		{"wrist 30ft 30deg", Features{DistanceFt: 30, AngleDeg: 30, Type: Wrist}, 0.25},
		{"slap 30ft 30deg", Features{DistanceFt: 30, AngleDeg: 30, Type: Slap}, 0.225},
		{"rebound", Features{DistanceFt: 30, AngleDeg: 30, Type: Wrist, Rebound: true}, 0.313},
		{"rush", Features{DistanceFt: 36, AngleDeg: 0, Type: Wrist, Rush: true}, 0.46},
		{"point blank capped", Features{DistanceFt: 0, AngleDeg: 0, Type: Wrist, Rebound: true}, 0.9},
		{"beyond range floors", Features{DistanceFt: 90, AngleDeg: 0, Type: Wrist}, 0.01},
	}
	for _, tt := range tests {
		if got := h.ExpectedGoal(tt.f); got != tt.want {
			t.Errorf("%s: ExpectedGoal = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestModelFunc(t *testing.T) {
	var m Model = ModelFunc(func(Features) float64 { return 0.42 })
	if got := m.ExpectedGoal(Features{}); got != 0.42 {
		t.Errorf("ModelFunc.ExpectedGoal = %v; want 0.42", got)
	}
}
