package web

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-lanefollow/internal/log"
	"github.com/teslashibe/go-lanefollow/pkg/hub"
	"github.com/teslashibe/go-lanefollow/pkg/pilot"
)

// handleStatus returns the session, loop counters and latest report
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(Status{
		Session: s.control.Session(),
		Stats:   s.control.Stats(),
		Latest:  s.Latest(),
		Clients: s.telemetryHub.ClientCount(),
	})
}

// handleGetTuning returns the parameters in effect
func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(s.control.Tuning())
}

// handleSetTuning queues new parameters for the next frame.
// Omitted or zero fields keep their current values.
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var params pilot.TuningParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid tuning body: " + err.Error(),
		})
	}

	if params.Gain < 0 || params.Velocity < 0 || params.StraightBand < 0 ||
		params.Threshold < 0 || params.CannyLow < 0 || params.CannyHigh < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tuning values must not be negative",
		})
	}

	s.control.SetTuning(params)
	log.Info("tuning queued", "params", params, "remote", c.IP())
	return c.JSON(s.control.Tuning())
}

// handleTelemetryWS sends the latest report, then streams every new one
func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	var initial []byte
	if latest := s.Latest(); latest != nil {
		data, err := json.Marshal(latest)
		if err != nil {
			log.Warn("telemetry encode failed", "seq", latest.Seq, "error", err)
			return
		}
		initial = data
	}

	client := hub.NewClient(s.telemetryHub, c, initial)
	if client == nil {
		return
	}
	client.Run()
}
