package steering

import (
	"fmt"
	"math"
	"strings"
)

// Direction is the categorical steering decision.
type Direction int

const (
	Straight Direction = iota
	CurveLeft
	CurveRight
)

func (d Direction) String() string {
	switch d {
	case Straight:
		return "Straight"
	case CurveLeft:
		return "Curve Left"
	case CurveRight:
		return "Curve Right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Label is the short upper-case word sent to the microcontroller.
func (d Direction) Label() string {
	switch d {
	case CurveLeft:
		return "LEFT"
	case CurveRight:
		return "RIGHT"
	default:
		return "STRAIGHT"
	}
}

// MarshalText encodes the direction as its label.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.Label()), nil
}

// UnmarshalText accepts labels and display names, case-insensitively.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection converts a label or display name into a Direction.
func ParseDirection(value string) (Direction, error) {
	norm := strings.ToUpper(strings.TrimSpace(value))
	switch norm {
	case "STRAIGHT", "CENTER":
		return Straight, nil
	case "LEFT", "CURVE LEFT", "CURVE_LEFT":
		return CurveLeft, nil
	case "RIGHT", "CURVE RIGHT", "CURVE_RIGHT":
		return CurveRight, nil
	default:
		return Straight, fmt.Errorf("unknown direction %q", value)
	}
}

// Classify buckets a steering angle: inside ±band is Straight, otherwise the
// sign decides (negative is left).
func Classify(angleDeg, band float64) Direction {
	if math.Abs(angleDeg) < band {
		return Straight
	}
	if angleDeg < 0 {
		return CurveLeft
	}
	return CurveRight
}
