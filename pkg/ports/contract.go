package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/hand"
	"github.com/aretw0/blackjack/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore implementation
// adheres to the defined interface contract.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	t.Helper()
	ctx := context.Background()
	tableID := "contract-test-table-" + time.Now().Format("20060102150405")

	newTree := func() *history.Node {
		root := history.NewRoot(domain.NewSnapshot())
		s := root.CurrentSnapshot()
		s.Players = append(s.Players, hand.New())
		root.AddAlongActivePath(s)
		s = root.CurrentSnapshot()
		s.Progress = domain.ProgressPlaying
		root.AddAlongActivePath(s)
		return root
	}

	t.Run("Save and Load", func(t *testing.T) {
		root := newTree()
		require.NoError(t, store.Save(ctx, tableID, root), "Save should not return error")

		loaded, err := store.Load(ctx, tableID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, root.Size(), loaded.Size())
		assert.Equal(t, root.Depth(), loaded.Depth())

		got := loaded.CurrentSnapshot()
		assert.Equal(t, domain.ProgressPlaying, got.Progress)
		assert.Len(t, got.Players, 1)
		assert.Equal(t, root.CurrentSnapshot().Shoe.Remaining(), got.Shoe.Remaining())
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		root := newTree()
		require.NoError(t, store.Save(ctx, tableID, root))
		s := root.CurrentSnapshot()
		s.Progress = domain.ProgressDone
		root.AddAlongActivePath(s)
		require.NoError(t, store.Save(ctx, tableID, root))

		loaded, err := store.Load(ctx, tableID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProgressDone, loaded.CurrentSnapshot().Progress)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+tableID)
		assert.ErrorIs(t, err, domain.ErrTableNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, tableID, newTree()))
		require.NoError(t, store.Delete(ctx, tableID), "Delete should not return error")

		_, err := store.Load(ctx, tableID)
		assert.ErrorIs(t, err, domain.ErrTableNotFound, "Load after Delete should return ErrTableNotFound")

		assert.NoError(t, store.Delete(ctx, tableID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := tableID + "-1"
		id2 := tableID + "-2"
		require.NoError(t, store.Save(ctx, id1, newTree()))
		require.NoError(t, store.Save(ctx, id2, newTree()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		tables, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, tables, id1)
		assert.Contains(t, tables, id2)
	})
}
