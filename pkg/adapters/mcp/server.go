package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/moonbase/moonrobot"
	"github.com/moonbase/moonrobot/internal/logging"
	"github.com/moonbase/moonrobot/pkg/domain"
)

// Service defines the robot operations required by the MCP server.
type Service interface {
	Position(ctx context.Context) (domain.RobotState, error)
	Execute(ctx context.Context, commands string) (*domain.CommandExecutionRecord, error)
	History(ctx context.Context, limit int) ([]domain.CommandExecutionRecord, error)
	Obstacles(ctx context.Context) (domain.ObstacleSet, error)
}

var _ Service = (*moonrobot.Controller)(nil)

// PositionResult is the robot pose.
type PositionResult struct {
	X         int              `json:"x" jsonschema_description:"X coordinate"`
	Y         int              `json:"y" jsonschema_description:"Y coordinate"`
	Direction domain.Direction `json:"direction" jsonschema_description:"Heading: NORTH, SOUTH, EAST or WEST"`
}

// ExecuteResult is the outcome of a command batch.
type ExecuteResult struct {
	PositionResult
	CommandsExecuted   string  `json:"commands_executed" jsonschema_description:"The command string that was submitted"`
	CommandsApplied    int     `json:"commands_applied" jsonschema_description:"How many commands were applied before the batch ended"`
	StoppedByObstacle  bool    `json:"stopped_by_obstacle" jsonschema_description:"True if a move was blocked by an obstacle"`
	ObstacleCoordinate *[2]int `json:"obstacle_coordinate" jsonschema_description:"The blocking cell as [x, y], or null"`
}

// Server wraps the robot controller and exposes it as an MCP Server.
type Server struct {
	service   Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
	maxLen    int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxCommandLength caps accepted command strings. Zero disables the cap.
func WithMaxCommandLength(n int) Option {
	return func(s *Server) {
		s.maxLen = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(service Service, opts ...Option) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("moonrobot-mcp", strings.TrimSpace(moonrobot.Version)),
		logger:    logging.NewNop(),
		maxLen:    domain.DefaultMaxCommandLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_position",
		mcp.WithDescription("Get the robot's current position and heading."),
		mcp.WithOutputSchema[PositionResult](),
	), mcp.NewStructuredToolHandler(s.handleGetPosition))

	s.mcpServer.AddTool(mcp.NewTool("execute_commands",
		mcp.WithDescription("Execute a command string as one batch. F moves forward, B backward, L and R turn in place. "+
			"The batch stops at the first move blocked by an obstacle."),
		mcp.WithString("commands", mcp.Required(), mcp.Description("Command string over F, B, L, R (e.g. FLFFFRFLB)")),
		mcp.WithOutputSchema[ExecuteResult](),
	), mcp.NewStructuredToolHandler(s.handleExecute))

	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("List executed batches, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of records (0 or omitted for all)")),
	), s.handleHistory)

	s.mcpServer.AddTool(mcp.NewTool("list_obstacles",
		mcp.WithDescription("List obstacle coordinates sorted by x then y."),
	), s.handleObstacles)
}

func (s *Server) handleGetPosition(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PositionResult, error) {
	state, err := s.service.Position(ctx)
	if err != nil {
		return PositionResult{}, fmt.Errorf("position failed: %w", err)
	}
	return positionResult(state), nil
}

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExecuteResult, error) {
	commands, _ := args["commands"].(string)
	if err := domain.ValidateCommands(commands, s.maxLen); err != nil {
		s.logger.Warn("MCP Execute: Input rejected", "err", err, "size", len(commands))
		return ExecuteResult{}, fmt.Errorf("input rejected: %w", err)
	}

	rec, err := s.service.Execute(ctx, commands)
	if err != nil {
		return ExecuteResult{}, fmt.Errorf("execute failed: %w", err)
	}

	res := ExecuteResult{
		PositionResult:    positionResult(rec.Final),
		CommandsExecuted:  rec.Commands,
		CommandsApplied:   rec.Consumed,
		StoppedByObstacle: rec.Stopped,
	}
	if rec.Obstacle != nil {
		res.ObstacleCoordinate = &[2]int{rec.Obstacle.X, rec.Obstacle.Y}
	}
	return res, nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}
	records, err := s.service.History(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	jsonBytes, err := json.Marshal(records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode history: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleObstacles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set, err := s.service.Obstacles(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("obstacles failed: %v", err)), nil
	}
	jsonBytes, err := json.Marshal(set.Sorted())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode obstacles: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("moonrobot://position", "Current Robot Position",
		mcp.WithMIMEType("application/json"),
	), s.handleReadPosition)
}

func (s *Server) handleReadPosition(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	state, err := s.service.Position(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read position: %w", err)
	}
	jsonBytes, err := json.Marshal(positionResult(state))
	if err != nil {
		return nil, fmt.Errorf("failed to encode position: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "moonrobot://position",
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func positionResult(state domain.RobotState) PositionResult {
	return PositionResult{X: state.Position.X, Y: state.Position.Y, Direction: state.Direction}
}
