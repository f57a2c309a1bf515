package vision

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-lanefollow/pkg/camera"
	"github.com/teslashibe/go-lanefollow/pkg/lane"
)

// MaskSource reads frames from a camera source and reduces each one to a
// bird's-eye lane mask.
type MaskSource struct {
	mu   sync.Mutex
	src  camera.Source
	pre  *Preprocessor
	warp *Warper

	frame gocv.Mat
}

// NewMaskSource wires a camera source to the preprocessing and warp stages.
func NewMaskSource(src camera.Source, pre lane.PreprocessConfig, warp lane.WarpConfig) *MaskSource {
	return &MaskSource{
		src:   src,
		pre:   NewPreprocessor(pre),
		warp:  NewWarper(warp),
		frame: gocv.NewMat(),
	}
}

// NextMask acquires one frame and returns its bird's-eye mask.
// Acquisition errors from the camera are returned unchanged.
func (s *MaskSource) NextMask() (*lane.Mask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.src.Read(&s.frame); err != nil {
		return nil, err
	}
	return s.process(s.frame)
}

// Process reduces an already acquired frame.
func (s *MaskSource) Process(frame gocv.Mat) (*lane.Mask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.process(frame)
}

func (s *MaskSource) process(frame gocv.Mat) (*lane.Mask, error) {
	edges := s.pre.Process(frame)
	defer edges.Close()

	top := s.warp.Warp(edges)
	defer top.Close()

	return ToMask(top)
}

// Preprocess returns the active preprocessing configuration.
func (s *MaskSource) Preprocess() lane.PreprocessConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pre.Config()
}

// SetPreprocess replaces the preprocessing configuration from the next frame on.
func (s *MaskSource) SetPreprocess(cfg lane.PreprocessConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pre.SetConfig(cfg)
}

// Close releases the OpenCV buffers and the camera source.
func (s *MaskSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Close()
	return errors.Join(s.pre.Close(), s.warp.Close(), s.src.Close())
}
