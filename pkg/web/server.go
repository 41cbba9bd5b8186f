// Package web exposes the voice pipeline over HTTP.
//
// Business-logic failures never surface as 4xx/5xx: every handler answers
// 200 with a success flag in the body, matching what the mobile client
// expects. Only the transport itself (a missing route, a panic) deviates.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/aaravlabs/go-aarav/pkg/device"
	"github.com/aaravlabs/go-aarav/pkg/hub"
	"github.com/aaravlabs/go-aarav/pkg/pipeline"
	"github.com/aaravlabs/go-aarav/pkg/session"
)

// Config holds server wiring.
type Config struct {
	// Pipeline handles /talk and /talk_text requests.
	Pipeline *pipeline.Pipeline

	// Store backs /clear_session and the health/metrics counters.
	Store *session.Store

	// Dispatcher, when set, relays successful /talk results to the
	// device after the response is assembled. Failures are logged only.
	Dispatcher *device.Dispatcher

	// Version reported by /health.
	Version string

	// Debug enables the request logger middleware.
	Debug bool

	// Logger for server-side events.
	Logger *slog.Logger
}

// Server is the HTTP surface of the orchestrator.
type Server struct {
	app        *fiber.App
	pipe       *pipeline.Pipeline
	store      *session.Store
	dispatcher *device.Dispatcher
	events     *hub.Hub
	version    string
	logger     *slog.Logger
	startOnce  sync.Once

	// Request counters for /metrics
	requests   atomic.Uint64
	failures   atomic.Uint64
	dispatches atomic.Uint64
}

// NewServer creates the server and registers all routes.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		pipe:       cfg.Pipeline,
		store:      cfg.Store,
		dispatcher: cfg.Dispatcher,
		events:     hub.New("events", log),
		version:    cfg.Version,
		logger:     log.With("component", "web.server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "aarav-server",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if cfg.Debug {
		app.Use(logger.New())
	}

	app.Post("/talk", s.handleTalk)
	app.Post("/talk_text", s.handleTalkText)
	app.Post("/clear_session", s.handleClearSession)
	app.Get("/health", s.handleHealth)
	app.Get("/metrics", s.handleMetrics)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	// Pipeline stage transitions feed the dashboard.
	s.pipe.OnEvent(func(requestID, sessionID, stage, detail string) {
		s.events.Broadcast(hub.NewEvent(requestID, sessionID, stage, detail))
	})

	s.app = app
	return s
}

// Listen starts the event hub and serves on the given address.
// Blocks until the server stops.
func (s *Server) Listen(addr string) error {
	s.startOnce.Do(func() { go s.events.Run() })
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App returns the fiber app, used by tests to drive requests in-process.
func (s *Server) App() *fiber.App {
	s.startOnce.Do(func() { go s.events.Run() })
	return s.app
}

// handleEventsWS streams pipeline events to a dashboard client.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run()
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  s.version,
		"sessions": s.store.Sessions(),
	})
}

// handleMetrics serves Prometheus-style counters.
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	return c.SendString(fmt.Sprintf(`# HELP aarav_requests_total Pipeline invocations
# TYPE aarav_requests_total counter
aarav_requests_total %d

# HELP aarav_failures_total Failed pipeline invocations
# TYPE aarav_failures_total counter
aarav_failures_total %d

# HELP aarav_device_dispatches_total Commands relayed to the device
# TYPE aarav_device_dispatches_total counter
aarav_device_dispatches_total %d

# HELP aarav_sessions Live conversation sessions
# TYPE aarav_sessions gauge
aarav_sessions %d
`, s.requests.Load(), s.failures.Load(), s.dispatches.Load(), s.store.Sessions()))
}
