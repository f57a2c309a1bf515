// Package steering turns fitted lane boundaries into a bounded steering
// angle, a smoothed direction label and a servo command.
package steering

// Config holds the steering and actuator tuning constants.
type Config struct {
	// Control law
	Gain     float64 `json:"gain"`      // Cross-track gain k
	Velocity float64 `json:"velocity"`  // Assumed forward velocity
	MaxAngle float64 `json:"max_angle"` // Output clamp (±degrees)

	// Classification
	StraightBand float64 `json:"straight_band"` // |angle| below this is Straight (degrees)
	HistorySize  int     `json:"history_size"`  // Direction votes kept for smoothing

	// Servo range the clamped angle maps onto
	ServoMin int `json:"servo_min"`
	ServoMax int `json:"servo_max"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Gain:     0.5,
		Velocity: 1.0,
		MaxAngle: 30,

		StraightBand: 15,
		HistorySize:  10,

		ServoMin: 90,
		ServoMax: 140,
	}
}

// Validate returns a list of problems with the configuration, or nil.
func (c Config) Validate() []string {
	var errs []string
	if c.Velocity <= 0 {
		errs = append(errs, "steering.velocity must be > 0")
	}
	if c.MaxAngle <= 0 || c.MaxAngle > 90 {
		errs = append(errs, "steering.max_angle must be in (0, 90]")
	}
	if c.StraightBand < 0 || c.StraightBand > c.MaxAngle {
		errs = append(errs, "steering.straight_band must be in [0, max_angle]")
	}
	if c.HistorySize < 1 {
		errs = append(errs, "steering.history_size must be >= 1")
	}
	if c.ServoMin >= c.ServoMax {
		errs = append(errs, "steering.servo_min must be below servo_max")
	}
	return errs
}
