package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-lanefollow/pkg/lane"
)

// Warper rectifies the road trapezoid into a top-down view.
//
// The transform depends only on the frame size, so it is computed once and
// reused until a frame of a different size arrives.
type Warper struct {
	cfg lane.WarpConfig

	matrix gocv.Mat
	size   image.Point
}

// NewWarper creates a warper with the given corner configuration.
func NewWarper(cfg lane.WarpConfig) *Warper {
	return &Warper{cfg: cfg}
}

// Warp resamples mask into the bird's-eye view. Nearest-neighbour sampling
// keeps the output two-level. The returned Mat is owned by the caller.
func (w *Warper) Warp(mask gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	size := image.Pt(mask.Cols(), mask.Rows())
	gocv.WarpPerspectiveWithParams(mask, &out, w.matrixFor(size), size,
		gocv.InterpolationNearestNeighbor, gocv.BorderConstant, color.RGBA{})
	return out
}

// Close releases the cached transform.
func (w *Warper) Close() error {
	if w.size != (image.Point{}) {
		w.matrix.Close()
		w.size = image.Point{}
	}
	return nil
}

func (w *Warper) matrixFor(size image.Point) gocv.Mat {
	if size == w.size {
		return w.matrix
	}
	w.Close()

	src := gocv.NewPoint2fVectorFromPoints(scale(w.cfg.Src, size))
	defer src.Close()
	dst := gocv.NewPoint2fVectorFromPoints(scale(w.cfg.Dst, size))
	defer dst.Close()

	w.matrix = gocv.GetPerspectiveTransform2f(src, dst)
	w.size = size
	return w.matrix
}

// scale converts fractional corners to pixel coordinates.
func scale(corners [4]lane.Point, size image.Point) []gocv.Point2f {
	pts := make([]gocv.Point2f, len(corners))
	for i, c := range corners {
		pts[i] = gocv.Point2f{
			X: float32(c.X * float64(size.X)),
			Y: float32(c.Y * float64(size.Y)),
		}
	}
	return pts
}
