package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-lanefollow/pkg/lane"
)

// Preprocessor reduces a camera frame to a binary edge mask of the road.
type Preprocessor struct {
	cfg lane.PreprocessConfig

	roi     gocv.Mat
	roiSize image.Point
}

// NewPreprocessor creates a preprocessor with the given configuration.
func NewPreprocessor(cfg lane.PreprocessConfig) *Preprocessor {
	return &Preprocessor{cfg: cfg}
}

// Config returns the active configuration.
func (p *Preprocessor) Config() lane.PreprocessConfig {
	return p.cfg
}

// SetConfig replaces the configuration. The region-of-interest mask is
// rebuilt on the next frame.
func (p *Preprocessor) SetConfig(cfg lane.PreprocessConfig) {
	p.cfg = cfg
	p.dropROI()
}

// Process runs grayscale, inverted threshold, ROI mask, blur and Canny.
// The returned Mat is single-channel 8-bit, the size of frame, and owned by
// the caller.
func (p *Preprocessor) Process(frame gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	toGray(frame, &gray)

	// Lane tape is dark: pixels below the threshold become on.
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, p.cfg.Threshold, 255, gocv.ThresholdBinaryInv)

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAnd(binary, p.roiFor(gray.Cols(), gray.Rows()), &masked)

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := p.cfg.BlurKernel
	gocv.GaussianBlur(masked, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	gocv.Canny(blurred, &edges, p.cfg.CannyLow, p.cfg.CannyHigh)
	return edges
}

// Close releases the cached ROI mask.
func (p *Preprocessor) Close() error {
	p.dropROI()
	return nil
}

// roiFor returns the ROI mask for a frame size, building it on first use.
func (p *Preprocessor) roiFor(width, height int) gocv.Mat {
	size := image.Pt(width, height)
	if p.roiSize == size && size != (image.Point{}) {
		return p.roi
	}
	p.dropROI()
	p.roi = ROIMask(width, height, p.cfg.ROITop, p.cfg.ROITopInset)
	p.roiSize = size
	return p.roi
}

func (p *Preprocessor) dropROI() {
	if p.roiSize != (image.Point{}) {
		p.roi.Close()
	}
	p.roiSize = image.Point{}
}

// ROIPolygon returns the region-of-interest trapezoid in pixels.
func ROIPolygon(width, height int, top, inset float64) []image.Point {
	y := int(float64(height) * top)
	return []image.Point{
		{X: 0, Y: height},
		{X: width, Y: height},
		{X: int(float64(width) * (1 - inset)), Y: y},
		{X: int(float64(width) * inset), Y: y},
	}
}

// ROIMask returns an 8-bit mask with the ROI trapezoid filled with 255.
func ROIMask(width, height int, top, inset float64) gocv.Mat {
	mask := gocv.Zeros(height, width, gocv.MatTypeCV8U)
	pts := gocv.NewPointsVectorFromPoints([][]image.Point{ROIPolygon(width, height, top, inset)})
	defer pts.Close()
	gocv.FillPoly(&mask, pts, color.RGBA{R: 255, G: 255, B: 255, A: 0})
	return mask
}

// toGray converts any 1, 3 or 4 channel frame to single-channel intensity.
func toGray(src gocv.Mat, dst *gocv.Mat) {
	switch src.Channels() {
	case 1:
		src.CopyTo(dst)
	case 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	}
}
