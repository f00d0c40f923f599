package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/mood-node/internal/actuator"
	"github.com/nerrad567/mood-node/internal/infrastructure/config"
	"github.com/nerrad567/mood-node/internal/infrastructure/logging"
	"github.com/nerrad567/mood-node/internal/sensor"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// ProvisionReporter exposes the outcome of the startup provisioning pass for
// the status endpoint. Implemented by provision.Report.
type ProvisionReporter interface {
	Summary() map[string]string
}

// LampRecorder receives the lamp state after each change applied by an
// inbound notification. Implemented by the telemetry sinks.
type LampRecorder interface {
	RecordLampState(name string, on bool, r, g, b uint8)
}

// Deps holds the dependencies required by the notification listener.
type Deps struct {
	Config    config.ListenerConfig
	Logger    *logging.Logger
	Lamp      *actuator.State
	Lux       *sensor.Channel
	Audio     *sensor.Channel
	Occupancy *sensor.BinaryChannel
	Provision ProvisionReporter // optional
	LampName  string
	NodeID    string
	Version   string
}

// Server is the inbound notification listener.
//
// It receives oneM2M subscription deliveries on POST /notify, serves a small
// diagnostic API, and streams state-change events to WebSocket clients.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.ListenerConfig
	logger    *logging.Logger
	lamp      *actuator.State
	lux       *sensor.Channel
	audio     *sensor.Channel
	occupancy *sensor.BinaryChannel
	provision ProvisionReporter
	recorder  LampRecorder
	lampName  string
	nodeID    string
	version   string
	startedAt time.Time
	server    *http.Server
	hub       *Hub
	cancel    context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new notification listener with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, actuator state)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Lamp == nil {
		return nil, fmt.Errorf("actuator state is required")
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		lamp:      deps.Lamp,
		lux:       deps.Lux,
		audio:     deps.Audio,
		occupancy: deps.Occupancy,
		provision: deps.Provision,
		lampName:  deps.LampName,
		nodeID:    deps.NodeID,
		version:   deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and launches the HTTP listener in a background
// goroutine. Listen failures (port in use, etc.) surface in the log, not as a
// return value. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.startedAt = time.Now()

	s.hub = NewHub(s.cfg.WebSocket, s.logger)
	go s.hub.Run(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.Timeouts.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.Timeouts.GetReadTimeout(),
		WriteTimeout:      s.cfg.Timeouts.GetWriteTimeout(),
		IdleTimeout:       s.cfg.Timeouts.GetIdleTimeout(),
	}

	go func() {
		s.logger.Info("notification listener starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("notification listener error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the listener.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("notification listener shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down notification listener: %w", err)
	}
	return nil
}

// Broadcast publishes a diagnostic event to connected WebSocket clients.
// Safe to call before Start(); events are dropped until the hub exists.
func (s *Server) Broadcast(eventType string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(eventType, payload)
}

// SetLampRecorder installs a telemetry sink for lamp state changes. Pass nil
// to disable recording.
func (s *Server) SetLampRecorder(rec LampRecorder) {
	s.recorder = rec
}

// recordLampState forwards the current lamp state to the telemetry sink, if
// one is installed.
func (s *Server) recordLampState() {
	if s.recorder == nil {
		return
	}
	snap := s.lamp.Snapshot()
	s.recorder.RecordLampState(s.lampName, snap.PowerOn, snap.Color.R, snap.Color.G, snap.Color.B)
}

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/", s.handleRoot)
	r.Post("/notify", s.handleNotify)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
	})

	return r
}

// handleRoot returns a static identification string so a CSE operator can
// confirm what answers on the notification port.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response
	fmt.Fprintf(w, "mood-node notification listener (%s)\n", s.nodeID)
}

// handleNotify processes a oneM2M subscription delivery.
//
// Verification handshakes are acknowledged immediately. Event notifications
// carrying a switch-state representation update lamp power; a colour
// representation updates lamp colour. Each update touches only its own field.
// Representations matching neither are acknowledged without effect.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var env Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeBadRequest(w, "invalid notification body")
		return
	}

	if env.Signal == nil {
		// Parsed but not a oneM2M signal; acknowledge and move on.
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
		return
	}

	// The verification check comes before event decoding on purpose: the CSE
	// only retries the handshake a few times, and whatever it packed into nev
	// must not cost us the subscription.
	if env.Signal.Verification {
		s.logger.Info("subscription verified", "subscription", env.Signal.Subscription)
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
		return
	}

	if len(env.Signal.Event) > 0 {
		var event Event
		if err := json.Unmarshal(env.Signal.Event, &event); err != nil {
			writeBadRequest(w, "invalid event notification")
			return
		}
		rep := event.Representation

		changed := false
		if sw := rep.BinarySwitch; sw != nil {
			s.lamp.SetPower(sw.State)
			s.logger.Info("lamp power updated", "on", sw.State)
			s.Broadcast("lamp.power", map[string]any{"on": sw.State})
			changed = true
		}

		if col := rep.Colour; col != nil {
			c := actuator.Color{
				R: clampComponent(col.Red),
				G: clampComponent(col.Green),
				B: clampComponent(col.Blue),
			}
			s.lamp.SetColor(c)
			s.logger.Info("lamp colour updated", "r", c.R, "g", c.G, "b", c.B)
			s.Broadcast("lamp.color", c)
			changed = true
		}

		if changed {
			s.recordLampState()
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleHealth returns the listener health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// statusResponse is the payload served by GET /api/v1/status.
type statusResponse struct {
	NodeID    string                 `json:"node_id"`
	Version   string                 `json:"version"`
	UptimeSec int64                  `json:"uptime_sec"`
	Lamp      actuator.Snapshot      `json:"lamp"`
	Channels  []sensor.Snapshot      `json:"channels"`
	Occupancy *sensor.BinarySnapshot `json:"occupancy,omitempty"`
	Provision map[string]string      `json:"provision,omitempty"`
	WSClients int                    `json:"ws_clients"`
}

// handleStatus returns a point-in-time snapshot of the node: lamp state,
// sensor channel baselines, and provisioning outcome.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		NodeID:    s.nodeID,
		Version:   s.version,
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
		Lamp:      s.lamp.Snapshot(),
	}

	if s.lux != nil {
		resp.Channels = append(resp.Channels, s.lux.Snapshot())
	}
	if s.audio != nil {
		resp.Channels = append(resp.Channels, s.audio.Snapshot())
	}
	if s.occupancy != nil {
		snap := s.occupancy.Snapshot()
		resp.Occupancy = &snap
	}
	if s.provision != nil {
		resp.Provision = s.provision.Summary()
	}
	if s.hub != nil {
		resp.WSClients = s.hub.ClientCount()
	}

	writeJSON(w, http.StatusOK, resp)
}
