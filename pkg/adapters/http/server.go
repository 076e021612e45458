// Package http exposes tables over a JSON API with a websocket stream of changes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/blackjack"
	"github.com/aretw0/blackjack/internal/logging"
	"github.com/aretw0/blackjack/internal/presentation/graph"
	"github.com/aretw0/blackjack/pkg/adapters/file"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Tables is the table registry the server drives. *session.Manager implements it.
type Tables interface {
	Create(ctx context.Context, tableID string) (*blackjack.Engine, error)
	Load(ctx context.Context, tableID string) (*blackjack.Engine, error)
	Apply(ctx context.Context, tableID string, op domain.Operation) (session.Result, error)
	Delete(ctx context.Context, tableID string) error
	List(ctx context.Context) ([]string, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	Tables  Tables
	Streams *StreamManager

	metrics      http.Handler
	logger       *slog.Logger
	pingInterval time.Duration
	onDelete     func(tableID string)
}

// Option configures the Server.
type Option func(*Server)

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPingInterval sets how often idle websocket streams are pinged.
func WithPingInterval(d time.Duration) Option {
	return func(s *Server) {
		s.pingInterval = d
	}
}

// WithDeleteHook runs fn after a table is deleted.
func WithDeleteHook(fn func(tableID string)) Option {
	return func(s *Server) {
		s.onDelete = fn
	}
}

// WithStreams shares sm with the engines' hooks. Wire sm.Hooks() into the engines
// so that every accepted operation reaches the websocket subscribers.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewServer creates a Server over tables.
func NewServer(tables Tables, opts ...Option) *Server {
	s := &Server{
		Tables:       tables,
		logger:       logging.NewNop(),
		pingInterval: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler creates the HTTP handler for tables.
func NewHandler(tables Tables, opts ...Option) http.Handler {
	return NewServer(tables, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.ListTables)
		r.Post("/", s.CreateTable)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTable)
			r.Delete("/", s.DeleteTable)
			r.Get("/history", s.GetHistory)
			r.Get("/graph", s.GetGraph)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/{operation}", s.ApplyOperation)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TableView is the JSON form of a table's current state.
type TableView struct {
	ID            string             `json:"id"`
	Progress      domain.Progress    `json:"progress"`
	Players       int                `json:"players"`
	ShoeRemaining int                `json:"shoe_remaining"`
	Depth         int                `json:"depth"`
	Branches      int                `json:"branches"`
	Allowed       []domain.Operation `json:"allowed"`
}

// SnapshotView is one entry of a table's history.
type SnapshotView struct {
	Progress domain.Progress `json:"progress"`
	Players  int             `json:"players"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error    string          `json:"error"`
	Progress domain.Progress `json:"progress,omitempty"`
}

func viewOf(id string, eng *blackjack.Engine) TableView {
	return tableView(id, eng.Snapshot(), eng.Depth(), eng.Root().BranchCount())
}

func tableView(id string, snap domain.Snapshot, depth, branches int) TableView {
	v := TableView{
		ID:       id,
		Progress: snap.Progress,
		Players:  snap.PlayerCount(),
		Depth:    depth,
		Branches: branches,
		Allowed:  domain.Allowed(snap.Progress),
	}
	if snap.Shoe != nil {
		v.ShoeRemaining = snap.Shoe.Remaining()
	}
	return v
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "blackjack-http",
		"version": strings.TrimSpace(blackjack.Version),
	})
}

// ListTables handles GET /tables.
func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Tables.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"tables": ids})
}

// CreateTable handles POST /tables. The body may carry {"id": "..."}; otherwise an ID is
// generated.
func (s *Server) CreateTable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}

	eng, err := s.Tables.Create(r.Context(), body.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, viewOf(body.ID, eng))
}

// GetTable handles GET /tables/{id}.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	eng, err := s.Tables.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, viewOf(id, eng))
}

// DeleteTable handles DELETE /tables/{id}.
func (s *Server) DeleteTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Tables.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	if s.onDelete != nil {
		s.onDelete(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyOperation handles POST /tables/{id}/{operation}.
func (s *Server) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	op, err := domain.ParseOperation(chi.URLParam(r, "operation"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.Tables.Apply(r.Context(), id, op)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tableView(id, res.After, res.Depth, res.Branches))
}

// GetHistory handles GET /tables/{id}/history: the current timeline, oldest first.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	eng, err := s.Tables.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := []SnapshotView{}
	for snap := range eng.History() {
		entries = append(entries, SnapshotView{Progress: snap.Progress, Players: snap.PlayerCount()})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "history": entries})
}

// GetGraph handles GET /tables/{id}/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	eng, err := s.Tables.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(eng.Root())))
}

// SubscribeEvents handles GET /tables/{id}/events. After the upgrade it sends the full
// current state as a diff, then one diff per accepted operation.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	eng, err := s.Tables.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Warn("websocket accept failed", "table", id, "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	ch, unsubscribe := s.Streams.Subscribe(id)
	defer unsubscribe()
	s.logger.Info("stream subscribed", "table", id)

	// Clients only listen; CloseRead drains control frames and cancels ctx on disconnect.
	ctx := conn.CloseRead(r.Context())

	initial, _ := json.Marshal(eng.Diff(nil))
	if err := conn.Write(ctx, websocket.MessageText, initial); err != nil {
		return
	}

	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stream disconnected", "table", id)
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var te *domain.InvalidTransitionError
	switch {
	case errors.As(err, &te):
		s.writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Progress: te.Current})
	case errors.Is(err, session.ErrTableExists):
		s.writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTableNotFound):
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownOperation), errors.Is(err, file.ErrInvalidTableID):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		s.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
