package steering

import "testing"

func TestServoMapper_Endpoints(t *testing.T) {
	m := NewServoMapper(DefaultConfig())
	tests := []struct {
		angle float64
		want  ServoCommand
	}{
		{-30, 90},
		{0, 115},
		{30, 140},
		{-45, 90}, // pre-clamped domain, but stay in range anyway
		{12, 125},
		{-12.5, 105}, // 17.5 * 5/6 = 14.58 -> 104.58 -> 105
	}
	for _, tc := range tests {
		if got := m.Map(tc.angle); got != tc.want {
			t.Errorf("Map(%v) = %d, want %d", tc.angle, got, tc.want)
		}
	}
	if m.Center() != 115 {
		t.Errorf("Center = %d, want 115", m.Center())
	}
}

func TestServoMapper_MonotonicAndBounded(t *testing.T) {
	m := NewServoMapper(DefaultConfig())
	prev := m.Map(-30)
	for a := -30.0; a <= 30.0; a += 0.01 {
		got := m.Map(a)
		if got < 90 || got > 140 {
			t.Fatalf("Map(%v) = %d out of [90, 140]", a, got)
		}
		if got < prev {
			t.Fatalf("Map not monotonic at %v: %d < %d", a, got, prev)
		}
		prev = got
	}
}

func TestServoCommand_Line(t *testing.T) {
	if got := string(ServoCommand(115).Line()); got != "115\n" {
		t.Errorf("Line = %q, want %q", got, "115\n")
	}
	if got := ServoCommand(90).String(); got != "90" {
		t.Errorf("String = %q, want %q", got, "90")
	}
}
