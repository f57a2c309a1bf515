// Package lane finds lane boundaries in a top-down binary edge image.
//
// Everything in this package is pure Go and works on Mask values, so the
// lane search can be tested with synthetic images and no OpenCV install.
package lane

// Pixel levels of a Mask. A mask never holds any other value.
const (
	Off uint8 = 0
	On  uint8 = 255
)

// Mask is a single-channel binary image stored row-major.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask returns an all-off mask of the given size.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// MaskFromBytes copies a row-major 8-bit image into a Mask.
// Any non-zero sample becomes On.
func MaskFromBytes(width, height int, data []uint8) *Mask {
	m := NewMask(width, height)
	n := len(m.Pix)
	if len(data) < n {
		n = len(data)
	}
	for i := 0; i < n; i++ {
		if data[i] != 0 {
			m.Pix[i] = On
		}
	}
	return m
}

// At reports whether the pixel at (x, y) is on. Out of range reads are off.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != Off
}

// Set switches the pixel at (x, y). Out of range writes are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if on {
		m.Pix[y*m.Width+x] = On
	} else {
		m.Pix[y*m.Width+x] = Off
	}
}

// FillRect switches on every pixel in [x0, x1) x [y0, y1), clipped to the mask.
func (m *Mask) FillRect(x0, y0, x1, y1 int) {
	for y := max(y0, 0); y < min(y1, m.Height); y++ {
		for x := max(x0, 0); x < min(x1, m.Width); x++ {
			m.Pix[y*m.Width+x] = On
		}
	}
}

// Count returns the number of on pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != Off {
			n++
		}
	}
	return n
}
