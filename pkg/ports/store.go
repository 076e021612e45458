package ports

import (
	"context"

	"github.com/aretw0/blackjack/pkg/history"
)

// HistoryStore defines the interface for persisting a table's history tree.
type HistoryStore interface {
	// Save persists the whole tree for a given table ID, replacing any previous copy.
	Save(ctx context.Context, tableID string, root *history.Node) error

	// Load retrieves the tree for a given table ID.
	// Returns domain.ErrTableNotFound if the table does not exist.
	Load(ctx context.Context, tableID string) (*history.Node, error)

	// Delete removes the tree for a given table ID. Deleting a missing table is not an error.
	Delete(ctx context.Context, tableID string) error

	// List returns the IDs of every stored table.
	List(ctx context.Context) ([]string, error)
}
