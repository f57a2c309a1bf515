package pilot

import "github.com/teslashibe/go-lanefollow/pkg/lane"

// TuningParams holds the parameters that can change while the loop runs.
type TuningParams struct {
	// Steering
	Gain         float64 `json:"gain"`          // Cross-track gain k
	Velocity     float64 `json:"velocity"`      // Assumed forward velocity
	StraightBand float64 `json:"straight_band"` // Degrees classified Straight

	// Edge mask
	Threshold float64 `json:"threshold"`  // Intensity cut (0-255)
	CannyLow  float64 `json:"canny_low"`  // Hysteresis lower threshold
	CannyHigh float64 `json:"canny_high"` // Hysteresis upper threshold
}

// PreprocessTuner is implemented by mask sources whose edge stage can be
// retuned between frames.
type PreprocessTuner interface {
	Preprocess() lane.PreprocessConfig
	SetPreprocess(cfg lane.PreprocessConfig)
}

// Tuning returns the controller's steering parameters.
func (c *Controller) Tuning() TuningParams {
	return TuningParams{
		Gain:         c.estimator.Gain,
		Velocity:     c.estimator.Velocity,
		StraightBand: c.band,
	}
}

// ApplyTuning updates the steering parameters. Only positive values are
// applied; the straight band is capped at the maximum angle.
func (c *Controller) ApplyTuning(p TuningParams) {
	if p.Gain > 0 {
		c.estimator.Gain = p.Gain
	}
	if p.Velocity > 0 {
		c.estimator.Velocity = p.Velocity
	}
	if p.StraightBand > 0 {
		c.band = min(p.StraightBand, c.maxAngle)
	}
}

// applyPreprocess merges the edge parameters of p into cfg.
func applyPreprocess(cfg lane.PreprocessConfig, p TuningParams) lane.PreprocessConfig {
	if p.Threshold > 0 {
		cfg.Threshold = float32(min(p.Threshold, 255))
	}
	if p.CannyLow > 0 {
		cfg.CannyLow = float32(p.CannyLow)
	}
	if p.CannyHigh > 0 {
		cfg.CannyHigh = float32(p.CannyHigh)
	}
	if cfg.CannyHigh < cfg.CannyLow {
		cfg.CannyHigh = cfg.CannyLow
	}
	return cfg
}
