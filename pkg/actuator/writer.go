package actuator

import (
	"io"
	"sync"
)

// WriterSink writes commands to an io.Writer, typically stdout in dry runs.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

// NewWriterSink creates a sink that writes to w. Close does not close w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Send writes cmd to the underlying writer.
func (s *WriterSink) Send(cmd []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	n, err := s.w.Write(cmd)
	if err != nil {
		return err
	}
	if n < len(cmd) {
		return io.ErrShortWrite
	}
	return nil
}

// Close marks the sink closed.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
