package lane

import "gonum.org/v1/gonum/stat"

// FitConfig holds the sliding-window search parameters.
type FitConfig struct {
	Windows   int `json:"windows"`    // Horizontal bands, searched bottom to top
	Margin    int `json:"margin"`     // Half-width of each search window (px)
	MinPixels int `json:"min_pixels"` // Recenter a window only above this many hits
}

// DefaultFitConfig returns the standard search: 9 bands, ±100 px, 50 px to recenter.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Windows:   9,
		Margin:    100,
		MinPixels: 50,
	}
}

// Validate returns a list of problems with the configuration, or nil.
func (c FitConfig) Validate() []string {
	var errs []string
	if c.Windows < 1 {
		errs = append(errs, "fit.windows must be >= 1")
	}
	if c.Margin < 1 {
		errs = append(errs, "fit.margin must be >= 1")
	}
	if c.MinPixels < 0 {
		errs = append(errs, "fit.min_pixels must be >= 0")
	}
	return errs
}

// FitResult is the outcome of one lane search. A nil side was not found.
type FitResult struct {
	Left  *Polynomial2 `json:"left,omitempty"`
	Right *Polynomial2 `json:"right,omitempty"`

	LeftPixels  int `json:"left_pixels"`
	RightPixels int `json:"right_pixels"`
	LeftBase    int `json:"left_base"`
	RightBase   int `json:"right_base"`
}

// Found reports whether both boundaries were fitted.
func (r FitResult) Found() bool {
	return r.Left != nil && r.Right != nil
}

// Fitter runs the sliding-window search over a bird's-eye mask.
type Fitter struct {
	cfg FitConfig
}

// NewFitter creates a fitter with the given configuration.
func NewFitter(cfg FitConfig) *Fitter {
	return &Fitter{cfg: cfg}
}

// Config returns the fitter configuration.
func (f *Fitter) Config() FitConfig {
	return f.cfg
}

// side accumulates the pixels claimed by one boundary.
type side struct {
	current int
	xs, ys  []float64
}

// Fit locates the left and right boundaries in mask.
//
// The search starts at the histogram peaks of each image half, then walks
// up the image in equal bands, collecting on pixels within the margin of
// each side's current center. A side that collects no pixels is absent.
func (f *Fitter) Fit(mask *Mask) FitResult {
	var res FitResult
	if mask == nil || mask.Width == 0 || mask.Height == 0 || f.cfg.Windows < 1 {
		return res
	}

	hist := Histogram(mask)
	mid := mask.Width / 2
	res.LeftBase = Peak(hist, 0, mid)
	res.RightBase = Peak(hist, mid, mask.Width)

	left := &side{current: res.LeftBase}
	right := &side{current: res.RightBase}

	windowHeight := mask.Height / f.cfg.Windows
	for w := 0; w < f.cfg.Windows; w++ {
		yLow := mask.Height - (w+1)*windowHeight
		yHigh := mask.Height - w*windowHeight
		f.collect(mask, left, yLow, yHigh)
		f.collect(mask, right, yLow, yHigh)
	}

	res.LeftPixels = len(left.xs)
	res.RightPixels = len(right.xs)
	res.Left = fitSide(left)
	res.Right = fitSide(right)
	return res
}

// collect gathers the on pixels of one band inside the side's window and
// recenters the side when the band is dense enough.
func (f *Fitter) collect(mask *Mask, s *side, yLow, yHigh int) {
	xLow := max(s.current-f.cfg.Margin, 0)
	xHigh := min(s.current+f.cfg.Margin, mask.Width)

	var bandXs []float64
	for y := max(yLow, 0); y < yHigh; y++ {
		row := mask.Pix[y*mask.Width : (y+1)*mask.Width]
		for x := xLow; x < xHigh; x++ {
			if row[x] == Off {
				continue
			}
			bandXs = append(bandXs, float64(x))
			s.ys = append(s.ys, float64(y))
		}
	}
	s.xs = append(s.xs, bandXs...)

	if len(bandXs) > f.cfg.MinPixels {
		s.current = int(stat.Mean(bandXs, nil))
	}
}

func fitSide(s *side) *Polynomial2 {
	if len(s.xs) == 0 {
		return nil
	}
	p, err := FitQuadratic(s.ys, s.xs)
	if err != nil {
		return nil
	}
	return &p
}

// Histogram counts the on pixels of every column over the bottom half of mask.
func Histogram(mask *Mask) []int {
	hist := make([]int, mask.Width)
	for y := mask.Height / 2; y < mask.Height; y++ {
		row := mask.Pix[y*mask.Width : (y+1)*mask.Width]
		for x, v := range row {
			if v != Off {
				hist[x]++
			}
		}
	}
	return hist
}

// Peak returns the index of the largest value in hist[lo:hi].
// Ties resolve to the first occurrence; an empty range returns lo.
func Peak(hist []int, lo, hi int) int {
	best := lo
	for i := lo + 1; i < hi && i < len(hist); i++ {
		if hist[i] > hist[best] {
			best = i
		}
	}
	return best
}
