package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/blackjack/pkg/adapters/memory"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(session.NewManager(memory.NewStore()), nil)
}

func TestServer_ToolsDriveLifecycle(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	res, err := s.handleCreate(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressStarting, res.Progress)
	assert.Equal(t, 0, res.Depth)

	for _, op := range []string{"register_player", "begin_play"} {
		res, err = s.handleApply(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1", "operation": op})
		require.NoError(t, err, op)
	}
	assert.Equal(t, domain.ProgressPlaying, res.Progress)
	assert.Equal(t, 1, res.Players)
	assert.Equal(t, []domain.Operation{domain.OpEndPlay}, res.Allowed)

	_, err = s.handleApply(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1", "operation": "reset_game"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.handleApply(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1", "operation": "split"})
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)

	status, err := s.handleStatus(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1"})
	require.NoError(t, err)
	assert.Equal(t, res, status)

	// Opening an existing table keeps its state.
	res, err = s.handleCreate(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressPlaying, res.Progress)
}

// resetAfterApply resets the table right after each wrapped Apply returns.
type resetAfterApply struct {
	*session.Manager
}

func (r resetAfterApply) Apply(ctx context.Context, tableID string, op domain.Operation) (session.Result, error) {
	res, err := r.Manager.Apply(ctx, tableID, op)
	if err == nil {
		_, _ = r.Manager.Apply(ctx, tableID, domain.OpResetGame)
	}
	return res, err
}

func TestServer_ApplyReportsItsOwnResult(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	s := NewServer(resetAfterApply{mgr}, nil)
	ctx := context.Background()

	_, err := mgr.Create(ctx, "t1")
	require.NoError(t, err)
	_, err = mgr.Apply(ctx, "t1", domain.OpBeginPlay)
	require.NoError(t, err)

	res, err := s.handleApply(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1", "operation": "end_play"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressDone, res.Progress)
	assert.Equal(t, 2, res.Depth)
	assert.Equal(t, []domain.Operation{domain.OpResetGame}, res.Allowed)

	status, err := s.handleStatus(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressStarting, status.Progress)
	assert.Equal(t, 3, status.Depth)
}

func TestServer_ToolErrors(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, err := s.handleStatus(ctx, mcp.CallToolRequest{}, map[string]any{})
	assert.Error(t, err)

	_, err = s.handleStatus(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "missing"})
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestServer_HistoryResource(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, err := s.handleCreate(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1"})
	require.NoError(t, err)
	_, err = s.handleApply(ctx, mcp.CallToolRequest{}, map[string]any{"table_id": "t1", "operation": "begin"})
	require.NoError(t, err)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "blackjack://tables/t1/history"
	contents, err := s.readHistory(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(text.Text), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ProgressStarting, entries[0].Progress)
	assert.Equal(t, domain.ProgressPlaying, entries[1].Progress)

	req.Params.URI = "blackjack://tables/t1"
	_, err = s.readHistory(ctx, req)
	assert.Error(t, err)
}
