package actuator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/teslashibe/go-lanefollow/internal/log"
)

// Serial defaults for the steering microcontroller.
const (
	DefaultBaudRate    = 9600
	DefaultSettleDelay = 2 * time.Second
)

// PortOptions describes the serial link to the steering controller.
type PortOptions struct {
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`

	// SettleDelay is how long to wait after opening before the first write.
	// Most boards reset when the port opens.
	SettleDelay time.Duration `json:"settle_delay"`
}

// Normalize validates the options and applies defaults for any unset values.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaudRate
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))
	switch parity {
	case "", "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}
	opts.Parity = parity

	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	return opts, nil
}

// SerialMode converts the options into the mode go.bug.st/serial expects.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: serial.OneStopBit,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	switch opts.Parity {
	case "N":
		mode.Parity = serial.NoParity
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	return mode, nil
}

// openPort is swapped out in tests.
var openPort = func(name string, mode *serial.Mode) (serial.Port, error) {
	return serial.Open(name, mode)
}

// SerialSink writes commands to a serial port.
type SerialSink struct {
	mu     sync.Mutex
	port   io.WriteCloser
	name   string
	closed bool
}

// OpenSerial opens the named port and waits out the settle delay.
// The wait is cut short if ctx is cancelled, in which case the port is closed.
func OpenSerial(ctx context.Context, name string, opts PortOptions) (*SerialSink, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := openPort(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	log.Info("serial port opened", "port", name, "baud", opts.BaudRate, "settle", opts.SettleDelay)

	if opts.SettleDelay > 0 {
		timer := time.NewTimer(opts.SettleDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			port.Close()
			return nil, ctx.Err()
		}
	}

	return &SerialSink{port: port, name: name}, nil
}

// NewSerialSink wraps an already open port.
func NewSerialSink(name string, port io.WriteCloser) *SerialSink {
	return &SerialSink{port: port, name: name}
}

// Send writes cmd in full.
func (s *SerialSink) Send(cmd []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	for len(cmd) > 0 {
		n, err := s.port.Write(cmd)
		if err != nil {
			return fmt.Errorf("write %s: %w", s.name, err)
		}
		if n == 0 {
			return fmt.Errorf("write %s: %w", s.name, io.ErrShortWrite)
		}
		cmd = cmd[n:]
	}
	return nil
}

// Close releases the port. Closing twice is a no-op.
func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}

// Name returns the port name.
func (s *SerialSink) Name() string {
	return s.name
}
