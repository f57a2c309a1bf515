// Package debug provides global debug logging flags
package debug

import (
	"fmt"
	"os"
)

// Enabled controls whether debug logging is active
var Enabled bool

// Frames controls whether a trace line is logged for every processed frame
// (fit sides, cte, angle, servo). Use --debug-frames to enable; it is noisy.
var Frames bool

// Log prints a message to stderr only if debug mode is enabled.
// Stdout is left to command output.
func Log(format string, args ...any) {
	if Enabled {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
