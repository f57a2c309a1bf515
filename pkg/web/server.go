// Package web serves live lane-following telemetry and runtime tuning.
package web

import (
	"net"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-lanefollow/internal/log"
	"github.com/teslashibe/go-lanefollow/pkg/hub"
	"github.com/teslashibe/go-lanefollow/pkg/pilot"
)

// Control is the part of the control loop the server reads and tunes.
// *pilot.Loop implements it.
type Control interface {
	Session() string
	Stats() pilot.Stats
	Tuning() pilot.TuningParams
	SetTuning(p pilot.TuningParams)
}

// Status is the body of GET /api/status.
type Status struct {
	Session string             `json:"session"`
	Stats   pilot.Stats        `json:"stats"`
	Latest  *pilot.FrameReport `json:"latest,omitempty"`
	Clients int                `json:"clients"`
}

// Server is the telemetry and tuning server
type Server struct {
	app     *fiber.App
	control Control

	latest   *pilot.FrameReport
	latestMu sync.RWMutex

	// Fans frame reports out to websocket clients
	telemetryHub *hub.Hub
}

// NewServer creates a server for the given control loop
func NewServer(control Control) *Server {
	s := &Server{
		control:      control,
		telemetryHub: hub.New("telemetry"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Lane Follow",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tuning", s.handleGetTuning)
	api.Post("/tuning", s.handleSetTuning)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	s.app = app
	return s
}

// OnFrame stores the report and broadcasts it to telemetry clients.
// It implements pilot.Observer and never blocks the control loop.
func (s *Server) OnFrame(report pilot.FrameReport) {
	s.latestMu.Lock()
	s.latest = &report
	s.latestMu.Unlock()

	if err := s.telemetryHub.BroadcastJSON(report); err != nil {
		log.Warn("telemetry encode failed", "seq", report.Seq, "error", err)
	}
}

// Latest returns the most recent frame report, or nil before the first frame.
func (s *Server) Latest() *pilot.FrameReport {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()
	return s.latest
}

// Listen serves on addr (e.g. ":8080") until Shutdown
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	log.Info("telemetry server listening", "addr", ln.Addr().String())
	go s.telemetryHub.Run()
	return s.app.Listener(ln)
}

// ListenAsync starts the server in a goroutine
func (s *Server) ListenAsync(addr string) {
	go func() {
		if err := s.Listen(addr); err != nil {
			log.Warn("telemetry server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server and disconnects clients
func (s *Server) Shutdown() error {
	s.telemetryHub.Stop()
	return s.app.Shutdown()
}
