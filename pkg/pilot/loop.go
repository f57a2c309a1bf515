package pilot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-lanefollow/internal/log"
	"github.com/teslashibe/go-lanefollow/pkg/actuator"
	"github.com/teslashibe/go-lanefollow/pkg/debug"
	"github.com/teslashibe/go-lanefollow/pkg/lane"
)

// ErrTooManyReadFailures ends a skipping loop after MaxReadFailures
// consecutive failed reads.
var ErrTooManyReadFailures = errors.New("pilot: too many consecutive read failures")

// MaskSource produces one bird's-eye lane mask per call.
// An error wrapping io.EOF means the source is exhausted.
type MaskSource interface {
	NextMask() (*lane.Mask, error)
	Close() error
}

// Loop is the frame-at-a-time control loop. The next frame is not read
// until the command for the current one has been sent.
type Loop struct {
	cfg        LoopConfig
	source     MaskSource
	sink       actuator.Sink
	controller *Controller
	observer   Observer
	session    string
	logger     *slog.Logger

	mu      sync.Mutex
	stats   Stats
	pending *TuningParams
}

// NewLoop creates a loop over source and sink with a fresh session id.
func NewLoop(cfg Config, source MaskSource, sink actuator.Sink) *Loop {
	session := uuid.NewString()
	return &Loop{
		cfg:        cfg.Loop,
		source:     source,
		sink:       sink,
		controller: NewController(cfg),
		session:    session,
		logger:     log.For("pilot").With("session", session),
	}
}

// SetObserver registers the per-frame telemetry observer. Call before Run.
func (l *Loop) SetObserver(o Observer) {
	l.observer = o
}

// Session returns the id of this control session.
func (l *Loop) Session() string {
	return l.session
}

// Stats returns a snapshot of the loop counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// SetTuning queues new parameters; they take effect before the next frame.
func (l *Loop) SetTuning(p TuningParams) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending != nil {
		p = mergeTuning(*l.pending, p)
	}
	l.pending = &p
}

// Tuning returns the parameters in effect, including any still queued.
func (l *Loop) Tuning() TuningParams {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.controller.Tuning()
	if tuner, ok := l.source.(PreprocessTuner); ok {
		pre := tuner.Preprocess()
		p.Threshold = float64(pre.Threshold)
		p.CannyLow = float64(pre.CannyLow)
		p.CannyHigh = float64(pre.CannyHigh)
	}
	if l.pending != nil {
		p = mergeTuning(p, *l.pending)
	}
	return p
}

// Run drives the loop until ctx is cancelled, the source is exhausted or a
// read failure ends it under the configured policy. Cancellation and end of
// stream return nil. Send failures are logged and counted, never fatal.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("control loop started",
		"on_read_failure", l.cfg.OnReadFailure,
		"command_mode", l.cfg.CommandMode)

	consecutive := 0
	for {
		if ctx.Err() != nil {
			l.logger.Info("control loop stopped", "frames", l.Stats().Frames)
			return nil
		}
		l.applyTuning()

		mask, err := l.source.NextMask()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.logger.Info("end of stream", "frames", l.Stats().Frames)
				return nil
			}

			l.count(func(s *Stats) { s.ReadFailures++ })
			consecutive++

			if l.cfg.OnReadFailure != SkipOnReadFailure {
				return fmt.Errorf("read frame: %w", err)
			}
			if l.cfg.MaxReadFailures > 0 && consecutive >= l.cfg.MaxReadFailures {
				return fmt.Errorf("%w (%d): %w", ErrTooManyReadFailures, consecutive, err)
			}
			l.logger.Warn("frame read failed, retrying", "error", err, "consecutive", consecutive)
			if !sleep(ctx, time.Duration(l.cfg.RetryDelay)) {
				return nil
			}
			continue
		}
		consecutive = 0

		l.step(mask)
	}
}

// step runs the controller on one mask and emits its command.
func (l *Loop) step(mask *lane.Mask) {
	d := l.controller.Step(mask)
	cmd := d.Command(l.cfg.CommandMode)

	var seq uint64
	l.count(func(s *Stats) {
		s.Frames++
		if !d.Fit.Found() {
			s.NoLaneFrames++
		}
		seq = s.Frames
	})

	sendErr := l.sink.Send(cmd)
	if sendErr != nil {
		l.count(func(s *Stats) { s.SendFailures++ })
		l.logger.Warn("actuator send failed", "seq", seq, "command", strings.TrimSpace(string(cmd)), "error", sendErr)
	}

	if debug.Frames {
		l.logger.Debug("frame",
			"seq", seq,
			"left", d.Fit.Left != nil,
			"right", d.Fit.Right != nil,
			"cte", d.Steering.CTE,
			"angle", d.Steering.AngleDeg,
			"direction", d.Direction,
			"smoothed", d.Smoothed,
			"servo", int(d.Servo))
	}

	if l.observer != nil {
		report := NewFrameReport(seq, l.session, d, cmd)
		if sendErr != nil {
			report.SendError = sendErr.Error()
		}
		l.observer.OnFrame(report)
	}
}

// applyTuning installs queued parameters between frames.
func (l *Loop) applyTuning() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		return
	}
	p := *l.pending
	l.pending = nil

	l.controller.ApplyTuning(p)
	if tuner, ok := l.source.(PreprocessTuner); ok {
		tuner.SetPreprocess(applyPreprocess(tuner.Preprocess(), p))
	}
	l.logger.Info("tuning applied", "params", p)
}

func (l *Loop) count(update func(*Stats)) {
	l.mu.Lock()
	update(&l.stats)
	l.mu.Unlock()
}

// mergeTuning overlays the positive fields of next onto base.
func mergeTuning(base, next TuningParams) TuningParams {
	pick := func(a, b float64) float64 {
		if b > 0 {
			return b
		}
		return a
	}
	return TuningParams{
		Gain:         pick(base.Gain, next.Gain),
		Velocity:     pick(base.Velocity, next.Velocity),
		StraightBand: pick(base.StraightBand, next.StraightBand),
		Threshold:    pick(base.Threshold, next.Threshold),
		CannyLow:     pick(base.CannyLow, next.CannyLow),
		CannyHigh:    pick(base.CannyHigh, next.CannyHigh),
	}
}

// sleep waits d or until ctx is done, reporting whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
