package steering

import "testing"

func pushAll(s *Smoother, d Direction, n int) Direction {
	var out Direction
	for i := 0; i < n; i++ {
		out = s.Update(d)
	}
	return out
}

func TestHistory_BoundedFIFO(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 25; i++ {
		h.Push(Direction(i % 3))
		if h.Len() > 10 {
			t.Fatalf("Len = %d after %d pushes, exceeds capacity", h.Len(), i+1)
		}
	}
	if h.Len() != 10 {
		t.Errorf("Len = %d, want 10", h.Len())
	}
	// Pushes 15..24 survive; the oldest is 15 % 3.
	for i := 0; i < h.Len(); i++ {
		if want := Direction((15 + i) % 3); h.at(i) != want {
			t.Errorf("at(%d) = %v, want %v", i, h.at(i), want)
		}
	}
}

func TestHistory_ModeTieBreak(t *testing.T) {
	tests := []struct {
		name  string
		votes []Direction
		want  Direction
	}{
		{"empty", nil, Straight},
		{"single", []Direction{CurveRight}, CurveRight},
		{"clear majority", []Direction{CurveLeft, Straight, CurveLeft}, CurveLeft},
		{"tie first to reach max", []Direction{CurveRight, CurveLeft, CurveLeft, CurveRight}, CurveLeft},
		{"tie in order", []Direction{CurveRight, CurveLeft, CurveRight, CurveLeft}, CurveRight},
		{"three way tie", []Direction{CurveLeft, Straight, CurveRight}, CurveLeft},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHistory(10)
			for _, v := range tc.votes {
				h.Push(v)
			}
			if got := h.Mode(); got != tc.want {
				t.Errorf("Mode = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSmoother_MajorityFlip(t *testing.T) {
	s := NewSmoother(NewHistory(10))

	if got := pushAll(s, Straight, 10); got != Straight {
		t.Fatalf("after 10 Straight: %v", got)
	}
	if got := s.Update(CurveRight); got != Straight {
		t.Errorf("9 Straight vs 1 CurveRight: got %v, want Straight", got)
	}

	// Four more CurveRight: 5 Straight vs 5 CurveRight, Straight reached 5 first.
	if got := pushAll(s, CurveRight, 4); got != Straight {
		t.Errorf("5 vs 5: got %v, want Straight", got)
	}
	// One more: 4 Straight vs 6 CurveRight.
	if got := s.Update(CurveRight); got != CurveRight {
		t.Errorf("4 Straight vs 6 CurveRight: got %v, want CurveRight", got)
	}
	if s.History().Len() != 10 {
		t.Errorf("history Len = %d, want 10", s.History().Len())
	}
}

func TestSmoother_ReportsModeForAnySequence(t *testing.T) {
	seq := []Direction{
		CurveLeft, CurveLeft, Straight, CurveRight, CurveRight, CurveRight, Straight,
		CurveLeft, Straight, Straight, CurveRight, CurveLeft, CurveLeft, CurveLeft,
	}
	s := NewSmoother(NewHistory(5))
	for i, d := range seq {
		got := s.Update(d)

		// Recompute from the raw window.
		lo := max(0, i+1-5)
		window := seq[lo : i+1]
		counts := map[Direction]int{}
		for _, v := range window {
			counts[v]++
		}
		best := 0
		for _, n := range counts {
			best = max(best, n)
		}
		if counts[got] != best {
			t.Errorf("step %d: got %v with count %d, max is %d", i, got, counts[got], best)
		}
	}
}

func TestHistory_ResetAndMinimumCapacity(t *testing.T) {
	h := NewHistory(0)
	if h.Cap() != 1 {
		t.Errorf("Cap = %d, want 1", h.Cap())
	}
	h.Push(CurveLeft)
	h.Push(CurveRight)
	if h.Mode() != CurveRight {
		t.Errorf("Mode = %v, want CurveRight", h.Mode())
	}
	h.Reset()
	if h.Len() != 0 || h.Mode() != Straight {
		t.Errorf("after Reset: Len=%d Mode=%v", h.Len(), h.Mode())
	}
}
