package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/blackjack/pkg/adapters/memory"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
	"github.com/aretw0/blackjack/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunHistoryStoreContract(t, store)
}

func TestMemoryStore_LoadIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, "t", history.NewRoot(domain.NewSnapshot())))

	a, err := store.Load(ctx, "t")
	require.NoError(t, err)
	a.AppendChild(a.CurrentSnapshot())

	b, err := store.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Size(), "changes to a loaded tree do not reach the store")
}
