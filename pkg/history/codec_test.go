package history_test

import (
	"testing"
	"time"

	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/hand"
	"github.com/aretw0/blackjack/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foreignShoe struct{}

func (foreignShoe) Deal() (cards.Card, bool) { return cards.Card{}, false }
func (foreignShoe) Remaining() int           { return 0 }
func (foreignShoe) Shuffle()                 {}

func TestMarshal_RoundTripKeepsAliasing(t *testing.T) {
	base := domain.NewSnapshot()
	alice := hand.New()
	alice.Receive(cards.MustCard(cards.Ace, cards.Spades))

	root := history.NewRoot(base, history.WithNow(steppingClock()))
	s1 := base.Clone()
	s1.Players = append(s1.Players, alice)
	root.AddAlongActivePath(s1)
	s2 := s1.Clone()
	s2.Progress = domain.ProgressPlaying
	root.AddAlongActivePath(s2)
	root.AppendChild(base.Clone())

	data, err := history.Marshal(root)
	require.NoError(t, err)

	back, err := history.Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, root.Size(), back.Size())
	assert.Equal(t, root.BranchCount(), back.BranchCount())
	assert.Equal(t, root.CurrentSnapshot().Progress, back.CurrentSnapshot().Progress)

	var snaps []domain.Snapshot
	for _, n := range back.Walk() {
		snaps = append(snaps, n.Value())
	}
	require.Len(t, snaps, 4)
	// Every node shared the same dealer and shoe before encoding; they still do.
	for _, s := range snaps[1:] {
		assert.Same(t, snaps[0].Dealer.(*hand.Hand), s.Dealer.(*hand.Hand))
		assert.Same(t, snaps[0].Shoe.(*cards.Shoe), s.Shoe.(*cards.Shoe))
	}
	assert.Same(t, snaps[1].Players[0].(*hand.Hand), snaps[2].Players[0].(*hand.Hand))

	top, ok := snaps[1].Players[0].PeekTop()
	require.True(t, ok)
	assert.Equal(t, cards.MustCard(cards.Ace, cards.Spades), top)
	assert.Equal(t, cards.DefaultDecks*cards.DeckSize, snaps[0].Shoe.Remaining())
}

func TestUnmarshal_AdvancesClock(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixed }
	root := history.NewRoot(domain.NewSnapshot(), history.WithNow(now))
	root.AppendChild(domain.NewSnapshot())

	data, err := history.Marshal(root)
	require.NoError(t, err)

	back, err := history.Unmarshal(data, history.WithNow(now))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, back.Clock().Now(), back.Child(0).Seq())

	added := back.AppendChild(domain.NewSnapshot())
	assert.Greater(t, added.Seq(), back.Child(0).Seq())
	assert.Equal(t, added.Seq(), back.Clock().Now())
	assert.Same(t, back.Clock(), added.Clock(), "every node shares the tree clock")
	assert.Same(t, added, back.ActiveLeaf(), "a node appended after loading wins the tie")
}

func TestMarshal_UnsupportedHandle(t *testing.T) {
	s := domain.NewSnapshotWithShoe(foreignShoe{})
	_, err := history.Marshal(history.NewRoot(s))
	assert.ErrorIs(t, err, history.ErrUnsupportedHandle)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	tests := map[string]string{
		"not json":      `{`,
		"wrong version": `{"version":9,"root":{}}`,
		"missing root":  `{"version":1}`,
		"bad progress":  `{"version":1,"root":{"seq":1,"snapshot":{"progress":"dealing","players":[]}}}`,
		"unknown hand":  `{"version":1,"root":{"seq":1,"snapshot":{"progress":"starting","dealer":"h9","players":[]}}}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := history.Unmarshal([]byte(doc))
			assert.ErrorIs(t, err, history.ErrCorruptDocument)
		})
	}
}
