// Package camera supplies frames to the lane pipeline from a USB camera,
// a video file or a list of still images.
// Settings follow the same preset pattern as the pilot configuration.
package camera

import "fmt"

// Config holds the capture settings.
type Config struct {
	// === Source ===
	// Device is the V4L2/AVFoundation index used when Path is empty.
	Device int `json:"device"`
	// Path opens a video file, device node or GStreamer pipeline instead.
	Path string `json:"path,omitempty"`

	// === Resolution ===
	Width     int `json:"width"`     // Requested frame width in pixels
	Height    int `json:"height"`    // Requested frame height in pixels
	Framerate int `json:"framerate"` // Requested FPS

	// === Image controls ===
	// Brightness and Exposure are passed straight to the driver.
	// Zero leaves the driver default untouched.
	Brightness float64 `json:"brightness"`
	Exposure   float64 `json:"exposure"`

	// BufferSize caps the driver queue so the loop always sees a fresh frame.
	BufferSize int `json:"buffer_size"`
}

// Capture limits accepted by Validate.
const (
	MinWidth     = 160
	MinHeight    = 120
	MaxWidth     = 3840
	MaxHeight    = 2160
	MaxFramerate = 120
)

// DefaultConfig returns 640x480 at 30 FPS from the first camera.
// The lane geometry defaults are tuned for this resolution.
func DefaultConfig() Config {
	return Config{
		Device:     0,
		Width:      640,
		Height:     480,
		Framerate:  30,
		BufferSize: 1,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Path == "" && c.Device < 0 {
		errors = append(errors, "device must be >= 0 when no path is set")
	}
	if c.Width < MinWidth || c.Width > MaxWidth {
		errors = append(errors, fmt.Sprintf("width must be between %d and %d", MinWidth, MaxWidth))
	}
	if c.Height < MinHeight || c.Height > MaxHeight {
		errors = append(errors, fmt.Sprintf("height must be between %d and %d", MinHeight, MaxHeight))
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, fmt.Sprintf("framerate must be between 1 and %d", MaxFramerate))
	}
	if c.BufferSize < 0 {
		errors = append(errors, "buffer_size must be >= 0")
	}

	return errors
}
