package steering

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		angle float64
		want  Direction
	}{
		{0, Straight},
		{14.9, Straight},
		{-14.9, Straight},
		{15, CurveRight},
		{-15, CurveLeft},
		{30, CurveRight},
		{-30, CurveLeft},
	}
	for _, tc := range tests {
		if got := Classify(tc.angle, 15); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.angle, got, tc.want)
		}
	}
}

func TestDirection_TextRoundTrip(t *testing.T) {
	for _, d := range []Direction{Straight, CurveLeft, CurveRight} {
		b, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", d, err)
		}
		var got Direction
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if got != d {
			t.Errorf("round trip %v -> %q -> %v", d, b, got)
		}
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(" curve left "); err != nil || d != CurveLeft {
		t.Errorf("ParseDirection(curve left) = %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}
