// Package actuator delivers steering commands to the vehicle.
//
// A Sink accepts one encoded command per frame. The serial sink writes to
// the microcontroller that drives the steering servo; the writer sink prints
// commands for dry runs; the recording sink captures them for tests.
package actuator

import "errors"

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("actuator: sink closed")

// Sink is a destination for encoded steering commands.
type Sink interface {
	// Send delivers one command. Implementations must write every byte or
	// return an error.
	Send(cmd []byte) error
	Close() error
}
