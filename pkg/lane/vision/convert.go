package vision

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-lanefollow/pkg/lane"
)

// ToMask copies a single-channel 8-bit Mat into a lane.Mask.
func ToMask(m gocv.Mat) (*lane.Mask, error) {
	if m.Empty() {
		return lane.NewMask(0, 0), nil
	}
	if m.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("vision: expected 8-bit single-channel mat, got type %v", m.Type())
	}
	src := m
	if !m.IsContinuous() {
		src = m.Clone()
		defer src.Close()
	}
	return lane.MaskFromBytes(src.Cols(), src.Rows(), src.ToBytes()), nil
}

// FromMask builds a single-channel 8-bit Mat from a lane.Mask.
// The returned Mat is owned by the caller.
func FromMask(mask *lane.Mask) (gocv.Mat, error) {
	view, err := gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8U, mask.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("vision: mat from mask: %w", err)
	}
	defer view.Close()
	return view.Clone(), nil
}
