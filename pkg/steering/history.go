package steering

// History is a fixed-capacity FIFO of direction votes.
type History struct {
	buf   []Direction
	start int
	size  int
}

// NewHistory creates an empty history. Capacity below 1 is raised to 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Direction, capacity)}
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return len(h.buf)
}

// Len returns the number of votes held.
func (h *History) Len() int {
	return h.size
}

// Push appends a vote, evicting the oldest one when full.
func (h *History) Push(d Direction) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = d
		h.size++
		return
	}
	h.buf[h.start] = d
	h.start = (h.start + 1) % len(h.buf)
}

// Reset drops every vote.
func (h *History) Reset() {
	h.start = 0
	h.size = 0
}

// at returns the i-th oldest vote.
func (h *History) at(i int) Direction {
	return h.buf[(h.start+i)%len(h.buf)]
}

// Mode returns the most frequent vote. On a tie the value whose running
// count reaches the maximum first, scanning oldest to newest, wins.
// An empty history reports Straight.
func (h *History) Mode() Direction {
	if h.size == 0 {
		return Straight
	}

	total := make(map[Direction]int, 3)
	for i := 0; i < h.size; i++ {
		total[h.at(i)]++
	}
	best := 0
	for _, n := range total {
		best = max(best, n)
	}

	running := make(map[Direction]int, 3)
	for i := 0; i < h.size; i++ {
		d := h.at(i)
		running[d]++
		if running[d] == best {
			return d
		}
	}
	return Straight
}

// Smoother majority-votes classified directions over a bounded history.
type Smoother struct {
	history *History
}

// NewSmoother creates a smoother that owns the given history.
func NewSmoother(history *History) *Smoother {
	return &Smoother{history: history}
}

// Update records d and returns the current majority direction.
func (s *Smoother) Update(d Direction) Direction {
	s.history.Push(d)
	return s.history.Mode()
}

// History returns the history the smoother votes over.
func (s *Smoother) History() *History {
	return s.history
}
