// Package config provides environment overrides for go-lanefollow commands.
package config

import (
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvSerialPort   = "LANE_SERIAL_PORT"
	EnvCameraDevice = "LANE_CAMERA_DEVICE"
	EnvConfigPath   = "LANE_CONFIG"
	EnvLogLevel     = "LANE_LOG_LEVEL"
)

// Defaults used when neither a flag nor the environment sets a value.
const (
	DefaultSerialPort = "/dev/ttyUSB0"
	DefaultBaudRate   = 9600
	DefaultWebPort    = "8080"
)

// SerialPort returns the actuator port from LANE_SERIAL_PORT.
// Falls back to the provided default if not set.
func SerialPort(defaultPort string) string {
	if p := os.Getenv(EnvSerialPort); p != "" {
		return p
	}
	return defaultPort
}

// CameraDevice returns the camera index from LANE_CAMERA_DEVICE.
// Falls back to the provided default if unset or not a number.
func CameraDevice(defaultDevice int) int {
	v := os.Getenv(EnvCameraDevice)
	if v == "" {
		return defaultDevice
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultDevice
	}
	return n
}

// ConfigPath returns the JSON config path from LANE_CONFIG, or "" when unset.
func ConfigPath(defaultPath string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return defaultPath
}

// LogLevel returns the log level from LANE_LOG_LEVEL, or the default.
func LogLevel(defaultLevel string) string {
	if l := os.Getenv(EnvLogLevel); l != "" {
		return l
	}
	return defaultLevel
}
