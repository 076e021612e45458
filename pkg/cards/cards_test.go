package cards_test

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard_Range(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{13, false},
		{14, true},
		{-3, true},
	}

	for _, tt := range tests {
		_, err := cards.NewCard(tt.value, cards.Clubs)
		if tt.wantErr {
			require.Error(t, err, "value %d", tt.value)
			assert.ErrorIs(t, err, cards.ErrValueOutOfRange)
			var rangeErr *cards.ValueOutOfRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.value, rangeErr.Value)
			continue
		}
		assert.NoError(t, err, "value %d", tt.value)
	}
}

func TestCard_RankAndValue(t *testing.T) {
	tests := []struct {
		value     int
		wantRank  string
		wantValue int
		wantStr   string
	}{
		{cards.Ace, "Ace", 1, "A♥"},
		{5, "5", 5, "5♥"},
		{10, "10", 10, "10♥"},
		{cards.Jack, "Jack", 10, "J♥"},
		{cards.Queen, "Queen", 10, "Q♥"},
		{cards.King, "King", 10, "K♥"},
	}

	for _, tt := range tests {
		t.Run(tt.wantRank, func(t *testing.T) {
			c := cards.MustCard(tt.value, cards.Hearts)
			assert.Equal(t, tt.wantRank, c.Rank())
			assert.Equal(t, tt.wantValue, c.Value())
			assert.Equal(t, tt.wantStr, c.String())
			assert.Equal(t, cards.Hearts, c.Suit())
		})
	}
}

func TestCard_JSONLiteral(t *testing.T) {
	c := cards.MustCard(10, cards.Diamonds)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"Td"`, string(data))

	var back cards.Card
	require.NoError(t, json.Unmarshal([]byte(`"tD"`), &back))
	assert.Equal(t, c, back)

	_, err = cards.ParseCard("10d")
	assert.Error(t, err)
	_, err = cards.ParseCard("Ax")
	assert.Error(t, err)
}

func TestDeck_Standard(t *testing.T) {
	d := cards.NewDeck()
	assert.Equal(t, cards.DeckSize, d.Remaining())

	seen := make(map[cards.Card]bool)
	for _, c := range d.Cards() {
		assert.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	assert.Len(t, seen, cards.DeckSize)

	d.Shuffle()
	assert.Equal(t, cards.DeckSize, d.Remaining())
}

func TestShoe_Construction(t *testing.T) {
	shoe, err := cards.NewShoe(cards.DefaultDecks)
	require.NoError(t, err)
	assert.Equal(t, cards.DeckSize*cards.DefaultDecks, shoe.Remaining())
	assert.Equal(t, cards.DefaultDecks, shoe.Decks())

	_, err = cards.NewShoe(0)
	assert.ErrorIs(t, err, cards.ErrInvalidDeckCount)
}

func TestShoe_DealDrainsFromTop(t *testing.T) {
	shoe, err := cards.NewShoe(1)
	require.NoError(t, err)

	top := shoe.Cards()[shoe.Remaining()-1]
	c, ok := shoe.Deal()
	require.True(t, ok)
	assert.Equal(t, top, c)
	assert.Equal(t, cards.DeckSize-1, shoe.Remaining())

	for shoe.Remaining() > 0 {
		_, ok := shoe.Deal()
		require.True(t, ok)
	}
	_, ok = shoe.Deal()
	assert.False(t, ok, "empty shoe must not deal")
}

func TestShoe_ShuffleIsSeedable(t *testing.T) {
	a, err := cards.NewShuffledShoe(2, cards.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	b, err := cards.NewShuffledShoe(2, cards.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)

	assert.Equal(t, a.Cards(), b.Cards())
	assert.Equal(t, 2*cards.DeckSize, a.Remaining())
}

func TestRestoreShoe_CopiesInput(t *testing.T) {
	in := []cards.Card{cards.MustCard(1, cards.Spades), cards.MustCard(2, cards.Spades)}
	shoe := cards.RestoreShoe(1, in)
	in[0] = cards.MustCard(9, cards.Clubs)

	assert.Equal(t, 2, shoe.Remaining())
	assert.Equal(t, cards.MustCard(1, cards.Spades), shoe.Cards()[0])
}
