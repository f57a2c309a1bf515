package pilot

import (
	"time"

	"github.com/teslashibe/go-lanefollow/pkg/steering"
)

// FrameReport is the telemetry published after every processed frame.
type FrameReport struct {
	Seq     uint64    `json:"seq"`
	Session string    `json:"session"`
	Time    time.Time `json:"time"`

	LeftFound  bool `json:"left_found"`
	RightFound bool `json:"right_found"`

	LaneCenter      float64 `json:"lane_center"`
	CTE             float64 `json:"cte"`
	HeadingErrorDeg float64 `json:"heading_error_deg"`
	RawAngleDeg     float64 `json:"raw_angle_deg"`
	AngleDeg        float64 `json:"angle_deg"`

	Direction steering.Direction `json:"direction"`
	Smoothed  steering.Direction `json:"smoothed"`
	Servo     int                `json:"servo"`
	Command   string             `json:"command"`
	SendError string             `json:"send_error,omitempty"`
}

// NewFrameReport summarizes a decision.
func NewFrameReport(seq uint64, session string, d Decision, cmd []byte) FrameReport {
	return FrameReport{
		Seq:             seq,
		Session:         session,
		Time:            time.Now(),
		LeftFound:       d.Fit.Left != nil,
		RightFound:      d.Fit.Right != nil,
		LaneCenter:      d.Steering.LaneCenter,
		CTE:             d.Steering.CTE,
		HeadingErrorDeg: d.Steering.HeadingErrorDeg,
		RawAngleDeg:     d.Steering.RawAngleDeg,
		AngleDeg:        d.Steering.AngleDeg,
		Direction:       d.Direction,
		Smoothed:        d.Smoothed,
		Servo:           int(d.Servo),
		Command:         string(cmd),
	}
}

// Stats counts loop events since Run started.
type Stats struct {
	Frames       uint64 `json:"frames"`
	ReadFailures uint64 `json:"read_failures"`
	SendFailures uint64 `json:"send_failures"`
	NoLaneFrames uint64 `json:"no_lane_frames"`
}

// Observer receives a report after each frame. OnFrame runs on the loop
// goroutine and must not block.
type Observer interface {
	OnFrame(report FrameReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(FrameReport)

// OnFrame calls f(report).
func (f ObserverFunc) OnFrame(report FrameReport) {
	f(report)
}
