package steering

import (
	"math"
	"strconv"
)

// ServoCommand is a servo position in the actuator's native range.
type ServoCommand int

// Bytes encodes the command as ASCII decimal.
func (c ServoCommand) Bytes() []byte {
	return strconv.AppendInt(nil, int64(c), 10)
}

// Line is the wire form: decimal text plus "\n".
func (c ServoCommand) Line() []byte {
	return append(c.Bytes(), '\n')
}

func (c ServoCommand) String() string {
	return strconv.Itoa(int(c))
}

// ServoMapper maps the clamped steering angle linearly onto the servo range.
type ServoMapper struct {
	MaxAngle float64
	Min      int
	Max      int
}

// NewServoMapper creates a mapper from the steering configuration.
func NewServoMapper(cfg Config) *ServoMapper {
	return &ServoMapper{
		MaxAngle: cfg.MaxAngle,
		Min:      cfg.ServoMin,
		Max:      cfg.ServoMax,
	}
}

// Map converts an angle in [-MaxAngle, MaxAngle] to a servo position.
// -MaxAngle lands on Min (full left) and +MaxAngle on Max (full right).
func (m *ServoMapper) Map(angleDeg float64) ServoCommand {
	if math.IsNaN(angleDeg) {
		angleDeg = 0
	}
	angle := clamp(angleDeg, -m.MaxAngle, m.MaxAngle)
	span := float64(m.Max - m.Min)
	v := math.Round((angle+m.MaxAngle)*(span/(2*m.MaxAngle)) + float64(m.Min))
	return ServoCommand(int(clamp(v, float64(m.Min), float64(m.Max))))
}

// Center returns the servo position for straight ahead.
func (m *ServoMapper) Center() ServoCommand {
	return m.Map(0)
}
