package camera

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-lanefollow/internal/log"
)

var (
	// ErrEndOfStream is returned once a finite source has no more frames.
	// It wraps io.EOF so consumers need not import this package to detect it.
	ErrEndOfStream = fmt.Errorf("camera: end of stream: %w", io.EOF)
	// ErrReadFailed is returned when a live source fails to deliver a frame.
	ErrReadFailed = errors.New("camera: read failed")
)

// Source delivers frames into a caller-owned Mat.
type Source interface {
	// Read fills frame with the next image.
	Read(frame *gocv.Mat) error
	// Close releases the device.
	Close() error
}

// CaptureSource reads from an OpenCV VideoCapture.
type CaptureSource struct {
	mu     sync.Mutex
	vc     *gocv.VideoCapture
	finite bool
	name   string
}

// Open opens the camera or file described by cfg and applies its settings.
func Open(cfg Config) (*CaptureSource, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid camera config: %v", errs)
	}

	var (
		vc   *gocv.VideoCapture
		err  error
		name string
	)
	if cfg.Path != "" {
		name = cfg.Path
		vc, err = gocv.OpenVideoCapture(cfg.Path)
	} else {
		name = fmt.Sprintf("device %d", cfg.Device)
		vc, err = gocv.VideoCaptureDevice(cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("open camera %s: %w", name, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open camera %s: not opened", name)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	if cfg.BufferSize > 0 {
		vc.Set(gocv.VideoCaptureBufferSize, float64(cfg.BufferSize))
	}
	if cfg.Brightness != 0 {
		vc.Set(gocv.VideoCaptureBrightness, cfg.Brightness)
	}
	if cfg.Exposure != 0 {
		vc.Set(gocv.VideoCaptureExposure, cfg.Exposure)
	}

	log.Info("camera opened", "source", name,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight),
		"fps", vc.Get(gocv.VideoCaptureFPS))

	return &CaptureSource{vc: vc, finite: isFile(cfg), name: name}, nil
}

// Read grabs the next frame. Files report ErrEndOfStream when exhausted;
// live devices report ErrReadFailed.
func (s *CaptureSource) Read(frame *gocv.Mat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vc == nil {
		return fmt.Errorf("%s: %w", s.name, ErrReadFailed)
	}
	if ok := s.vc.Read(frame); !ok || frame.Empty() {
		if s.finite {
			return ErrEndOfStream
		}
		return fmt.Errorf("%s: %w", s.name, ErrReadFailed)
	}
	return nil
}

// Close releases the capture device.
func (s *CaptureSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vc == nil {
		return nil
	}
	err := s.vc.Close()
	s.vc = nil
	return err
}

// isFile reports whether the path names a finite recording rather than a
// live device or pipeline.
func isFile(cfg Config) bool {
	if cfg.Path == "" {
		return false
	}
	for _, prefix := range []string{"/dev/", "v4l2src", "libcamerasrc", "rtsp://", "http://", "https://"} {
		if strings.HasPrefix(cfg.Path, prefix) {
			return false
		}
	}
	return true
}

// ImageSource replays still images in order, then reports ErrEndOfStream.
type ImageSource struct {
	paths []string
	next  int
}

// NewImageSource creates a source over the given image files.
func NewImageSource(paths ...string) *ImageSource {
	return &ImageSource{paths: paths}
}

// Read loads the next image. Unreadable files are reported as ErrReadFailed
// and skipped on the following call.
func (s *ImageSource) Read(frame *gocv.Mat) error {
	if s.next >= len(s.paths) {
		return ErrEndOfStream
	}
	path := s.paths[s.next]
	s.next++

	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		return fmt.Errorf("%s: %w", path, ErrReadFailed)
	}
	img.CopyTo(frame)
	return nil
}

// Remaining returns how many images are left.
func (s *ImageSource) Remaining() int {
	return len(s.paths) - s.next
}

// Close is a no-op; images are loaded on demand.
func (s *ImageSource) Close() error {
	return nil
}
