package lane

import (
	"fmt"
	"math"
)

// PreprocessConfig holds the edge-mask constants.
type PreprocessConfig struct {
	Threshold  float32 `json:"threshold"`   // Intensity cut; darker pixels become on
	BlurKernel int     `json:"blur_kernel"` // Gaussian kernel size (odd)
	CannyLow   float32 `json:"canny_low"`   // Hysteresis lower threshold
	CannyHigh  float32 `json:"canny_high"`  // Hysteresis upper threshold

	// Region of interest: trapezoid from the bottom edge (full width) up to
	// ROITop (fraction of height), inset by ROITopInset of the width on each
	// side at the top.
	ROITop      float64 `json:"roi_top"`
	ROITopInset float64 `json:"roi_top_inset"`
}

// DefaultPreprocessConfig returns the standard preprocessing for dark lane tape.
func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{
		Threshold:  150,
		BlurKernel: 5,
		CannyLow:   50,
		CannyHigh:  150,

		ROITop:      0.6,
		ROITopInset: 0.1,
	}
}

// Validate returns a list of problems with the configuration, or nil.
func (c PreprocessConfig) Validate() []string {
	var errs []string
	if c.Threshold < 0 || c.Threshold > 255 {
		errs = append(errs, "preprocess.threshold must be in [0, 255]")
	}
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		errs = append(errs, "preprocess.blur_kernel must be odd and >= 1")
	}
	if c.CannyLow < 0 || c.CannyHigh < c.CannyLow {
		errs = append(errs, "preprocess.canny thresholds must satisfy 0 <= low <= high")
	}
	if c.ROITop < 0 || c.ROITop >= 1 {
		errs = append(errs, "preprocess.roi_top must be in [0, 1)")
	}
	if c.ROITopInset < 0 || c.ROITopInset >= 0.5 {
		errs = append(errs, "preprocess.roi_top_inset must be in [0, 0.5)")
	}
	return errs
}

// Point is a position expressed as fractions of the frame width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WarpConfig describes the road-plane quadrilateral and where it lands in
// the bird's-eye view. Corners run top-left, top-right, bottom-right,
// bottom-left.
type WarpConfig struct {
	Src [4]Point `json:"src"`
	Dst [4]Point `json:"dst"`
}

// DefaultWarpConfig returns the standard road trapezoid for a forward camera.
func DefaultWarpConfig() WarpConfig {
	return WarpConfig{
		Src: [4]Point{
			{X: 0.45, Y: 0.6},
			{X: 0.55, Y: 0.6},
			{X: 0.9, Y: 1.0},
			{X: 0.1, Y: 1.0},
		},
		Dst: [4]Point{
			{X: 0.2, Y: 0},
			{X: 0.8, Y: 0},
			{X: 0.8, Y: 1.0},
			{X: 0.2, Y: 1.0},
		},
	}
}

// Validate returns a list of problems with the corner configuration, or nil.
func (c WarpConfig) Validate() []string {
	var errs []string
	for i, p := range append(c.Src[:], c.Dst[:]...) {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			errs = append(errs, fmt.Sprintf("warp corner %d must lie within the frame (fractions in [0, 1])", i))
		}
	}
	if area(c.Src) == 0 || area(c.Dst) == 0 {
		errs = append(errs, "warp quadrilaterals must not be degenerate")
	}
	return errs
}

// area returns the shoelace area of a quadrilateral.
func area(q [4]Point) float64 {
	var s float64
	for i := range q {
		j := (i + 1) % len(q)
		s += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return math.Abs(s) / 2
}
