package lane

import (
	"math"
	"testing"
)

const fitTolerance = 1e-3

// verticalLine switches on a band of the given half-width around column x.
func verticalLine(m *Mask, x, halfWidth int) {
	m.FillRect(x-halfWidth, 0, x+halfWidth+1, m.Height)
}

func TestFit_StraightLanes(t *testing.T) {
	m := NewMask(640, 480)
	verticalLine(m, 100, 2)
	verticalLine(m, 540, 2)

	res := NewFitter(DefaultFitConfig()).Fit(m)
	if !res.Found() {
		t.Fatalf("expected both sides, got left=%v right=%v", res.Left, res.Right)
	}

	cases := []struct {
		name string
		fit  *Polynomial2
		want float64
	}{
		{"left", res.Left, 100},
		{"right", res.Right, 540},
	}
	for _, tc := range cases {
		if math.Abs(tc.fit.A) > 1e-6 || math.Abs(tc.fit.B) > 1e-3 {
			t.Errorf("%s: expected near-zero curvature, got %+v", tc.name, *tc.fit)
		}
		if got := tc.fit.At(480); math.Abs(got-tc.want) > 0.5 {
			t.Errorf("%s: x at bottom = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFit_HistogramBasesUseFirstPeak(t *testing.T) {
	m := NewMask(640, 480)
	verticalLine(m, 100, 2)
	verticalLine(m, 540, 2)

	res := NewFitter(DefaultFitConfig()).Fit(m)
	if res.LeftBase != 98 {
		t.Errorf("LeftBase = %d, want 98", res.LeftBase)
	}
	if res.RightBase != 538 {
		t.Errorf("RightBase = %d, want 538", res.RightBase)
	}
}

func TestFit_MissingRightSide(t *testing.T) {
	m := NewMask(640, 480)
	// Slanted left boundary: x runs from 196 at the top to 100 at the bottom.
	for y := 0; y < m.Height; y++ {
		x := 100 + int(0.2*float64(m.Height-y))
		m.FillRect(x-2, y, x+3, y+1)
	}

	res := NewFitter(DefaultFitConfig()).Fit(m)
	if res.Right != nil {
		t.Errorf("expected right side absent, got %+v", *res.Right)
	}
	if res.RightPixels != 0 {
		t.Errorf("RightPixels = %d, want 0", res.RightPixels)
	}
	if res.Left == nil {
		t.Fatal("expected left side to be fitted")
	}
	if math.Abs(res.Left.B+0.2) > 0.02 {
		t.Errorf("left slope = %v, want about -0.2", res.Left.B)
	}
	if res.Found() {
		t.Error("Found() should be false with one side missing")
	}
}

func TestFit_EmptyMask(t *testing.T) {
	res := NewFitter(DefaultFitConfig()).Fit(NewMask(640, 480))
	if res.Left != nil || res.Right != nil {
		t.Errorf("expected no lane in empty mask, got %+v", res)
	}
}

func TestFit_NilAndZeroSizedMask(t *testing.T) {
	f := NewFitter(DefaultFitConfig())
	if res := f.Fit(nil); res.Left != nil || res.Right != nil {
		t.Error("nil mask should produce no lane")
	}
	if res := f.Fit(NewMask(0, 0)); res.Left != nil || res.Right != nil {
		t.Error("zero-sized mask should produce no lane")
	}
}

// A side is absent exactly when none of its windows collected a pixel.
func TestFit_AbsentIffNoPixels(t *testing.T) {
	masks := map[string]*Mask{
		"empty":      NewMask(200, 90),
		"left only":  NewMask(200, 90),
		"right only": NewMask(200, 90),
		"both":       NewMask(200, 90),
		"speck":      NewMask(200, 90),
	}
	verticalLine(masks["left only"], 30, 1)
	verticalLine(masks["right only"], 170, 1)
	verticalLine(masks["both"], 30, 1)
	verticalLine(masks["both"], 170, 1)
	masks["speck"].Set(150, 85, true)

	f := NewFitter(FitConfig{Windows: 9, Margin: 20, MinPixels: 5})
	for name, m := range masks {
		res := f.Fit(m)
		if (res.Left == nil) != (res.LeftPixels == 0) {
			t.Errorf("%s: left absent=%v with %d pixels", name, res.Left == nil, res.LeftPixels)
		}
		if (res.Right == nil) != (res.RightPixels == 0) {
			t.Errorf("%s: right absent=%v with %d pixels", name, res.Right == nil, res.RightPixels)
		}
	}
}

func TestFit_WindowsFollowCurve(t *testing.T) {
	m := NewMask(640, 480)
	truth := Polynomial2{A: 0.0005, B: -0.3, C: 260}
	for y := 0; y < m.Height; y++ {
		x := int(math.Round(truth.At(float64(y))))
		m.FillRect(x-2, y, x+3, y+1)
	}

	res := NewFitter(DefaultFitConfig()).Fit(m)
	if res.Left == nil {
		t.Fatal("expected left side")
	}
	for _, y := range []float64{100, 240, 470} {
		if got, want := res.Left.At(y), truth.At(y); math.Abs(got-want) > 2 {
			t.Errorf("x(%v) = %v, want %v", y, got, want)
		}
	}
}

func TestPeak_FirstOccurrence(t *testing.T) {
	hist := []int{0, 3, 7, 7, 2, 7}
	if got := Peak(hist, 0, len(hist)); got != 2 {
		t.Errorf("Peak = %d, want 2", got)
	}
	if got := Peak(hist, 3, len(hist)); got != 3 {
		t.Errorf("Peak from 3 = %d, want 3", got)
	}
	if got := Peak([]int{0, 0, 0}, 1, 3); got != 1 {
		t.Errorf("flat histogram Peak = %d, want 1", got)
	}
}

func TestHistogram_BottomHalfOnly(t *testing.T) {
	m := NewMask(4, 4)
	m.Set(0, 0, true) // top half, ignored
	m.Set(1, 2, true)
	m.Set(1, 3, true)
	m.Set(3, 3, true)

	got := Histogram(m)
	want := []int{0, 2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Histogram = %v, want %v", got, want)
		}
	}
}

func TestFitConfig_Validate(t *testing.T) {
	if errs := DefaultFitConfig().Validate(); len(errs) != 0 {
		t.Errorf("default config invalid: %v", errs)
	}
	if errs := (FitConfig{}).Validate(); len(errs) != 2 {
		t.Errorf("zero config: got %d errors, want 2: %v", len(errs), errs)
	}
}
