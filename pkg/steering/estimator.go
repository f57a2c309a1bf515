package steering

import (
	"math"

	"github.com/teslashibe/go-lanefollow/pkg/lane"
)

// State is the steering estimate for one frame.
//
// Sign convention: CTE = lane center - frame center, so a negative angle
// means the lane lies to the left of the robot.
type State struct {
	AngleDeg        float64 `json:"angle_deg"`         // Clamped to ±MaxAngle
	RawAngleDeg     float64 `json:"raw_angle_deg"`     // Before clamping
	HeadingErrorDeg float64 `json:"heading_error_deg"` // Lane tangent vs forward axis
	CTE             float64 `json:"cte"`               // Cross-track error (px)
	LaneCenter      float64 `json:"lane_center"`       // Lane center at the bottom row (px)
	LaneFound       bool    `json:"lane_found"`
}

// Estimator combines heading and cross-track error into a steering angle.
type Estimator struct {
	Gain     float64
	Velocity float64
	MaxAngle float64
}

// NewEstimator creates an estimator from the steering configuration.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{
		Gain:     cfg.Gain,
		Velocity: cfg.Velocity,
		MaxAngle: cfg.MaxAngle,
	}
}

// Estimate computes the steering angle for a frame of the given size.
// With either boundary missing the robot holds straight (angle 0).
func (e *Estimator) Estimate(fit lane.FitResult, width, height int) State {
	if !fit.Found() {
		return State{}
	}

	y := float64(height)
	leftX := fit.Left.At(y)
	rightX := fit.Right.At(y)
	center := (leftX + rightX) / 2
	cte := center - float64(width)/2

	// Lane tangent measured against one unit of forward travel.
	tangent := (fit.Left.Slope(y) + fit.Right.Slope(y)) / 2
	heading := math.Atan2(tangent, 1)

	raw := Degrees(heading + math.Atan2(e.Gain*cte, e.Velocity))
	if math.IsNaN(raw) {
		raw = 0
	}

	return State{
		AngleDeg:        clamp(raw, -e.MaxAngle, e.MaxAngle),
		RawAngleDeg:     raw,
		HeadingErrorDeg: Degrees(heading),
		CTE:             cte,
		LaneCenter:      center,
		LaneFound:       true,
	}
}
