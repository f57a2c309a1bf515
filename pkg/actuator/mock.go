package actuator

import "sync"

// RecordingSink keeps every command it receives. Set FailNext to make the
// next Send return that error without recording.
type RecordingSink struct {
	mu       sync.Mutex
	commands [][]byte
	closed   bool

	FailNext error
}

// NewRecordingSink creates an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Send records a copy of cmd.
func (s *RecordingSink) Send(cmd []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.FailNext; err != nil {
		s.FailNext = nil
		return err
	}
	s.commands = append(s.commands, append([]byte(nil), cmd...))
	return nil
}

// Close marks the sink closed.
func (s *RecordingSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Commands returns the recorded commands as strings.
func (s *RecordingSink) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.commands))
	for i, c := range s.commands {
		out[i] = string(c)
	}
	return out
}

// Closed reports whether Close has been called.
func (s *RecordingSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
