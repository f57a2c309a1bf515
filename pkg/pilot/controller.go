package pilot

import (
	"github.com/teslashibe/go-lanefollow/pkg/lane"
	"github.com/teslashibe/go-lanefollow/pkg/steering"
)

// Decision is everything the controller concluded about one frame.
type Decision struct {
	Fit       lane.FitResult        `json:"fit"`
	Steering  steering.State        `json:"steering"`
	Direction steering.Direction    `json:"direction"` // From this frame alone
	Smoothed  steering.Direction    `json:"smoothed"`  // Mode of the history
	Servo     steering.ServoCommand `json:"servo"`
}

// Command encodes the decision for the actuator.
func (d Decision) Command(mode CommandMode) []byte {
	if mode == DirectionCommands {
		return []byte(d.Smoothed.Label() + "\n")
	}
	return d.Servo.Line()
}

// Controller runs the mask-to-command stages for one frame at a time and
// owns the direction history shared across frames.
//
// A Controller is not safe for concurrent use; the loop that owns it is the
// only caller.
type Controller struct {
	fitter    *lane.Fitter
	estimator *steering.Estimator
	band      float64
	maxAngle  float64
	smoother  *steering.Smoother
	mapper    *steering.ServoMapper
}

// NewController creates a controller with an empty history.
func NewController(cfg Config) *Controller {
	return &Controller{
		fitter:    lane.NewFitter(cfg.Fit),
		estimator: steering.NewEstimator(cfg.Steering),
		band:      cfg.Steering.StraightBand,
		maxAngle:  cfg.Steering.MaxAngle,
		smoother:  steering.NewSmoother(steering.NewHistory(cfg.Steering.HistorySize)),
		mapper:    steering.NewServoMapper(cfg.Steering),
	}
}

// Step fits, estimates, classifies, smooths and maps one bird's-eye mask.
// A missing lane is not an error: it steers straight.
func (c *Controller) Step(mask *lane.Mask) Decision {
	var width, height int
	if mask != nil {
		width, height = mask.Width, mask.Height
	}

	fit := c.fitter.Fit(mask)
	state := c.estimator.Estimate(fit, width, height)
	dir := steering.Classify(state.AngleDeg, c.band)

	return Decision{
		Fit:       fit,
		Steering:  state,
		Direction: dir,
		Smoothed:  c.smoother.Update(dir),
		Servo:     c.mapper.Map(state.AngleDeg),
	}
}

// History returns the direction history.
func (c *Controller) History() *steering.History {
	return c.smoother.History()
}

// Reset clears the direction history.
func (c *Controller) Reset() {
	c.smoother.History().Reset()
}
