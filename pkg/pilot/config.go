// Package pilot runs the lane-following control loop: it pulls a bird's-eye
// mask per frame, turns it into a steering decision and sends the resulting
// command to the actuator.
package pilot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/teslashibe/go-lanefollow/pkg/lane"
	"github.com/teslashibe/go-lanefollow/pkg/steering"
)

// ReadFailurePolicy decides what the loop does when a frame cannot be read.
type ReadFailurePolicy string

const (
	// StopOnReadFailure ends the loop on the first failed read.
	StopOnReadFailure ReadFailurePolicy = "stop"
	// SkipOnReadFailure waits RetryDelay and tries the next frame.
	SkipOnReadFailure ReadFailurePolicy = "skip"
)

// CommandMode selects what is written to the actuator each frame.
type CommandMode string

const (
	// ServoCommands sends the servo value, e.g. "115\n".
	ServoCommands CommandMode = "servo"
	// DirectionCommands sends the smoothed direction, e.g. "LEFT\n".
	DirectionCommands CommandMode = "direction"
)

// Duration is a time.Duration that reads and writes as text ("250ms").
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// LoopConfig holds the I/O boundary policy.
type LoopConfig struct {
	OnReadFailure   ReadFailurePolicy `json:"on_read_failure"`
	MaxReadFailures int               `json:"max_read_failures"` // Consecutive, 0 = unlimited (skip only)
	RetryDelay      Duration          `json:"retry_delay"`
	CommandMode     CommandMode       `json:"command_mode"`
}

// Config holds every tunable of the lane follower.
type Config struct {
	Preprocess lane.PreprocessConfig `json:"preprocess"`
	Warp       lane.WarpConfig       `json:"warp"`
	Fit        lane.FitConfig        `json:"fit"`
	Steering   steering.Config       `json:"steering"`
	Loop       LoopConfig            `json:"loop"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Preprocess: lane.DefaultPreprocessConfig(),
		Warp:       lane.DefaultWarpConfig(),
		Fit:        lane.DefaultFitConfig(),
		Steering:   steering.DefaultConfig(),
		Loop: LoopConfig{
			OnReadFailure:   StopOnReadFailure,
			MaxReadFailures: 30,
			RetryDelay:      Duration(100 * time.Millisecond),
			CommandMode:     ServoCommands,
		},
	}
}

// GentleConfig returns a configuration for slow, smooth driving.
func GentleConfig() Config {
	cfg := DefaultConfig()
	cfg.Steering.Gain = 0.3
	cfg.Steering.HistorySize = 15
	return cfg
}

// AggressiveConfig returns a configuration for tight tracks.
func AggressiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Steering.Gain = 0.8
	cfg.Steering.HistorySize = 5
	return cfg
}

// Presets maps preset names to their configurations.
func Presets() map[string]Config {
	return map[string]Config{
		"default":    DefaultConfig(),
		"gentle":     GentleConfig(),
		"aggressive": AggressiveConfig(),
	}
}

// GetPreset returns a preset by name.
func GetPreset(name string) (Config, bool) {
	cfg, ok := Presets()[strings.ToLower(name)]
	return cfg, ok
}

// Validate returns every problem with the configuration, or nil.
func (c Config) Validate() []string {
	var errs []string
	errs = append(errs, c.Preprocess.Validate()...)
	errs = append(errs, c.Warp.Validate()...)
	errs = append(errs, c.Fit.Validate()...)
	errs = append(errs, c.Steering.Validate()...)

	switch c.Loop.OnReadFailure {
	case StopOnReadFailure, SkipOnReadFailure:
	default:
		errs = append(errs, fmt.Sprintf("loop.on_read_failure %q must be stop or skip", c.Loop.OnReadFailure))
	}
	if c.Loop.MaxReadFailures < 0 {
		errs = append(errs, "loop.max_read_failures must be >= 0")
	}
	if c.Loop.RetryDelay < 0 {
		errs = append(errs, "loop.retry_delay must be >= 0")
	}
	switch c.Loop.CommandMode {
	case ServoCommands, DirectionCommands:
	default:
		errs = append(errs, fmt.Sprintf("loop.command_mode %q must be servo or direction", c.Loop.CommandMode))
	}
	return errs
}

// LoadConfig reads a JSON file over base. Fields missing from the file keep
// their base values. The merged configuration is validated.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, base)
}

// ParseConfig decodes JSON over base and validates the result.
func ParseConfig(data []byte, base Config) (Config, error) {
	cfg := base
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return base, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}
