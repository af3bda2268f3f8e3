package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/moonbase/moonrobot"
	"github.com/moonbase/moonrobot/internal/logging"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "moon-robot-api"

// Service defines the robot operations exposed over HTTP.
// *moonrobot.Controller satisfies it.
type Service interface {
	Position(ctx context.Context) (domain.RobotState, error)
	Execute(ctx context.Context, commands string) (*domain.CommandExecutionRecord, error)
	History(ctx context.Context, limit int) ([]domain.CommandExecutionRecord, error)
	Obstacles(ctx context.Context) (domain.ObstacleSet, error)
	Health(ctx context.Context) error
}

var _ Service = (*moonrobot.Controller)(nil)

// Server holds the handlers of the REST API.
type Server struct {
	Service Service

	logger   *slog.Logger
	maxLen   int
	cors     bool
	gatherer prometheus.Gatherer
}

// HandlerOption configures NewHandler.
type HandlerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCORS enables permissive CORS headers.
func WithCORS(enabled bool) HandlerOption {
	return func(s *Server) {
		s.cors = enabled
	}
}

// WithMetrics exposes g on /metrics.
func WithMetrics(g prometheus.Gatherer) HandlerOption {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMaxCommandLength caps accepted command strings. Zero disables the cap.
func WithMaxCommandLength(n int) HandlerOption {
	return func(s *Server) {
		s.maxLen = n
	}
}

// NewHandler creates a new HTTP handler for the robot service.
func NewHandler(svc Service, opts ...HandlerOption) http.Handler {
	server := &Server{
		Service: svc,
		logger:  logging.NewNop(),
		maxLen:  domain.DefaultMaxCommandLength,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(server.logRequests)

	r.Get("/", server.GetRoot)
	r.Get("/info", server.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", server.GetHealth)
		r.Get("/robot/position", server.GetPosition)
		r.Post("/robot/commands", server.ExecuteCommands)
		r.Get("/robot/history", server.GetHistory)
		r.Get("/obstacles", server.ListObstacles)
	})

	if server.cors {
		return enableCORS(r)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Moon Robot API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// -- Wire types --

// PositionResponse is the robot pose.
type PositionResponse struct {
	X         int              `json:"x"`
	Y         int              `json:"y"`
	Direction domain.Direction `json:"direction"`
}

// CommandRequest is the body of POST /api/v1/robot/commands.
type CommandRequest struct {
	Commands string `json:"commands"`
}

// CommandResponse is the outcome of a batch.
type CommandResponse struct {
	X                  int              `json:"x"`
	Y                  int              `json:"y"`
	Direction          domain.Direction `json:"direction"`
	CommandsExecuted   string           `json:"commands_executed"`
	CommandsApplied    int              `json:"commands_applied"`
	StoppedByObstacle  bool             `json:"stopped_by_obstacle"`
	ObstacleCoordinate *[2]int          `json:"obstacle_coordinate"`
}

// RecordResponse is one history entry.
type RecordResponse struct {
	ID                 string           `json:"id"`
	RobotID            string           `json:"robot_id"`
	Commands           string           `json:"commands"`
	Initial            PositionResponse `json:"initial"`
	Final              PositionResponse `json:"final"`
	StoppedByObstacle  bool             `json:"stopped_by_obstacle"`
	ObstacleCoordinate *[2]int          `json:"obstacle_coordinate"`
	CommandsApplied    int              `json:"commands_applied"`
	ExecutedAt         time.Time        `json:"executed_at"`
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// -- Handlers --

// GetRoot handles the GET / request.
func (s *Server) GetRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Moon Robot Control API",
		"docs":    "/swagger",
		"health":  "/api/v1/health",
	})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	} else if err != nil {
		s.logger.Error("Failed to load OpenAPI spec", "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "moonrobot-http",
		"version":     strings.TrimSpace(moonrobot.Version),
		"api_version": apiVersion,
	})
}

// GetHealth handles the GET /api/v1/health request.
// It always answers 200; a store failure only degrades the status.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Service: ServiceName, Database: "healthy"}
	if err := s.Service.Health(r.Context()); err != nil {
		s.logger.Warn("Health: store check failed", "err", err)
		resp.Status = "degraded"
		resp.Database = "unhealthy"
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPosition handles the GET /api/v1/robot/position request.
func (s *Server) GetPosition(w http.ResponseWriter, r *http.Request) {
	state, err := s.Service.Position(r.Context())
	if err != nil {
		s.fail(w, "GetPosition", err)
		return
	}
	writeJSON(w, http.StatusOK, positionFromDomain(state))
}

// ExecuteCommands handles the POST /api/v1/robot/commands request.
func (s *Server) ExecuteCommands(w http.ResponseWriter, r *http.Request) {
	var body CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("ExecuteCommands: Invalid request body", "err", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := domain.ValidateCommands(body.Commands, s.maxLen); err != nil {
		s.logger.Warn("ExecuteCommands: Input rejected", "err", err, "size", len(body.Commands))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	rec, err := s.Service.Execute(r.Context(), body.Commands)
	if err != nil {
		s.fail(w, "ExecuteCommands", err)
		return
	}

	writeJSON(w, http.StatusOK, CommandResponse{
		X:                  rec.Final.Position.X,
		Y:                  rec.Final.Position.Y,
		Direction:          rec.Final.Direction,
		CommandsExecuted:   rec.Commands,
		CommandsApplied:    rec.Consumed,
		StoppedByObstacle:  rec.Stopped,
		ObstacleCoordinate: coordinate(rec.Obstacle),
	})
}

// GetHistory handles the GET /api/v1/robot/history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if limit < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must not be negative"})
		return
	}

	records, err := s.Service.History(r.Context(), limit)
	if err != nil {
		s.fail(w, "GetHistory", err)
		return
	}

	resp := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, RecordResponse{
			ID:                 rec.ID,
			RobotID:            rec.RobotID,
			Commands:           rec.Commands,
			Initial:            positionFromDomain(rec.Initial),
			Final:              positionFromDomain(rec.Final),
			StoppedByObstacle:  rec.Stopped,
			ObstacleCoordinate: coordinate(rec.Obstacle),
			CommandsApplied:    rec.Consumed,
			ExecutedAt:         rec.ExecutedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListObstacles handles the GET /api/v1/obstacles request.
func (s *Server) ListObstacles(w http.ResponseWriter, r *http.Request) {
	set, err := s.Service.Obstacles(r.Context())
	if err != nil {
		s.fail(w, "ListObstacles", err)
		return
	}
	writeJSON(w, http.StatusOK, set.Sorted())
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if domain.IsValidation(err) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Info(op+": request canceled", "err", err)
		return
	}
	s.logger.Error(op+" failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func positionFromDomain(s domain.RobotState) PositionResponse {
	return PositionResponse{X: s.Position.X, Y: s.Position.Y, Direction: s.Direction}
}

func coordinate(p *domain.Position) *[2]int {
	if p == nil {
		return nil
	}
	return &[2]int{p.X, p.Y}
}
