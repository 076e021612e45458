// Package mcp exposes tables as Model Context Protocol tools and resources.
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

	"github.com/aretw0/blackjack"
	"github.com/aretw0/blackjack/internal/logging"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const historyURIPrefix = "blackjack://tables/"

// Tables is the table registry the MCP server drives. *session.Manager implements it.
type Tables interface {
	LoadOrCreate(ctx context.Context, tableID string) (*blackjack.Engine, error)
	Load(ctx context.Context, tableID string) (*blackjack.Engine, error)
	Apply(ctx context.Context, tableID string, op domain.Operation) (session.Result, error)
}

// StatusResponse is the structured result of every tool.
type StatusResponse struct {
	TableID  string             `json:"table_id" jsonschema_description:"The table identifier"`
	Progress domain.Progress    `json:"progress" jsonschema_description:"Lifecycle phase: starting, playing or done"`
	Players  int                `json:"players" jsonschema_description:"Number of seated players"`
	Depth    int                `json:"depth" jsonschema_description:"Operations applied along the current timeline"`
	Allowed  []domain.Operation `json:"allowed" jsonschema_description:"Operations accepted in the current phase"`
}

// Server wraps a table registry and exposes it as an MCP server.
type Server struct {
	tables    Tables
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(tables Tables, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		tables:    tables,
		logger:    logger,
		mcpServer: server.NewMCPServer("blackjack-mcp", strings.TrimSpace(blackjack.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin and stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	createTool := mcp.NewTool("create_table",
		mcp.WithDescription("Open a table, creating it in the starting phase if it does not exist."),
		mcp.WithString("table_id", mcp.Required(), mcp.Description("The table identifier")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreate))

	statusTool := mcp.NewTool("table_status",
		mcp.WithDescription("Report the current phase and seated players of a table."),
		mcp.WithString("table_id", mcp.Required(), mcp.Description("The table identifier")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))

	applyTool := mcp.NewTool("apply_operation",
		mcp.WithDescription("Apply a lifecycle operation to a table: register_player, begin_play, end_play or reset_game."),
		mcp.WithString("table_id", mcp.Required(), mcp.Description("The table identifier")),
		mcp.WithString("operation", mcp.Required(),
			mcp.Description("The operation to apply"),
			mcp.Enum(string(domain.OpRegisterPlayer), string(domain.OpBeginPlay), string(domain.OpEndPlay), string(domain.OpResetGame)),
		),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(applyTool, mcp.NewStructuredToolHandler(s.handleApply))
}

func tableID(args map[string]any) (string, error) {
	id, _ := args["table_id"].(string)
	if id == "" {
		return "", errors.New("table_id is required")
	}
	return id, nil
}

func statusOf(id string, eng *blackjack.Engine) StatusResponse {
	return status(id, eng.Snapshot(), eng.Depth())
}

func status(id string, snap domain.Snapshot, depth int) StatusResponse {
	return StatusResponse{
		TableID:  id,
		Progress: snap.Progress,
		Players:  snap.PlayerCount(),
		Depth:    depth,
		Allowed:  domain.Allowed(snap.Progress),
	}
}

func (s *Server) handleCreate(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (StatusResponse, error) {
	id, err := tableID(args)
	if err != nil {
		return StatusResponse{}, err
	}
	eng, err := s.tables.LoadOrCreate(ctx, id)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("create failed: %w", err)
	}
	return statusOf(id, eng), nil
}

func (s *Server) handleStatus(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (StatusResponse, error) {
	id, err := tableID(args)
	if err != nil {
		return StatusResponse{}, err
	}
	eng, err := s.tables.Load(ctx, id)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("status failed: %w", err)
	}
	return statusOf(id, eng), nil
}

func (s *Server) handleApply(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (StatusResponse, error) {
	id, err := tableID(args)
	if err != nil {
		return StatusResponse{}, err
	}
	name, _ := args["operation"].(string)
	op, err := domain.ParseOperation(name)
	if err != nil {
		return StatusResponse{}, err
	}

	res, err := s.tables.Apply(ctx, id, op)
	if err != nil {
		s.logger.Warn("MCP apply rejected", "table", id, "operation", op, "err", err)
		return StatusResponse{}, err
	}
	return status(id, res.After, res.Depth), nil
}

func (s *Server) registerResources() {
	// EXPOSE: blackjack://tables/{id}/history
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(historyURIPrefix+"{id}/history", "Table History",
		mcp.WithTemplateDescription("The current timeline of a table, oldest snapshot first."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readHistory)
}

type historyEntry struct {
	Progress domain.Progress `json:"progress"`
	Players  int             `json:"players"`
}

func (s *Server) readHistory(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, ok := strings.CutPrefix(uri, historyURIPrefix)
	id, ok2 := strings.CutSuffix(id, "/history")
	if !ok || !ok2 || id == "" {
		return nil, fmt.Errorf("invalid history uri %q", uri)
	}

	eng, err := s.tables.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	entries := []historyEntry{}
	for snap := range eng.History() {
		entries = append(entries, historyEntry{Progress: snap.Progress, Players: snap.PlayerCount()})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
