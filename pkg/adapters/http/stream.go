package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/blackjack/internal/logging"
	"github.com/aretw0/blackjack/pkg/domain"
)

// StreamManager fans table diffs out to websocket subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan []byte]struct{} // TableID -> set of channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan []byte]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for a table. The returned function unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe(tableID string) (<-chan []byte, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan []byte, 16)
	if _, ok := sm.subscribers[tableID]; !ok {
		sm.subscribers[tableID] = make(map[chan []byte]struct{})
	}
	sm.subscribers[tableID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[tableID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, tableID)
				}
			}
		})
	}
}

// Broadcast sends msg to every subscriber of the table. Slow subscribers miss messages
// rather than block the caller.
func (sm *StreamManager) Broadcast(tableID string, msg []byte) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[tableID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("stream buffer full, dropping message", "table", tableID)
		}
	}
}

// Subscribers returns the number of listeners on a table.
func (sm *StreamManager) Subscribers(tableID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[tableID])
}

// Hooks broadcasts the diff of every committed transition to the table's subscribers.
// Only engines in this process reach the stream.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			if e.Diff == nil {
				return
			}
			data, err := json.Marshal(e.Diff)
			if err != nil {
				sm.logger.Error("failed to encode diff", "table", e.TableID, "err", err)
				return
			}
			sm.Broadcast(e.TableID, data)
		},
	}
}
