package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/blackjack/internal/presentation/tui"
	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/hand"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMarkdown(t *testing.T) {
	snap := domain.NewSnapshotWithShoe(cards.NewDeck())
	snap.Players = append(snap.Players, hand.New(), hand.New())

	md := tui.StatusMarkdown("t1", snap, 3)
	assert.Contains(t, md, "## Table `t1`")
	assert.Contains(t, md, "| Progress | **starting** |")
	assert.Contains(t, md, "| Players | 2 |")
	assert.Contains(t, md, "| Shoe | 52 cards |")
	assert.Contains(t, md, "Next: `register_player`, `begin_play`")
}

func TestRenderer(t *testing.T) {
	out, err := tui.NewRenderer()("**playing**")
	require.NoError(t, err)
	assert.Contains(t, out, "playing")
}

func TestHand(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	assert.Equal(t, "-", tui.Hand(nil))
	got := tui.Hand([]cards.Card{cards.MustCard(cards.Ace, cards.Hearts), cards.MustCard(10, cards.Spades)})
	assert.Equal(t, "A♥ 10♠", got)
}

func TestSeats(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	snap := domain.NewSnapshotWithShoe(cards.NewDeck())
	assert.Equal(t, "Dealer: -\n", tui.Seats(snap))

	snap.Dealer = hand.Restore([]cards.Card{cards.MustCard(cards.King, cards.Clubs), cards.MustCard(7, cards.Diamonds)})
	snap.Players = append(snap.Players,
		hand.Restore([]cards.Card{cards.MustCard(cards.Ace, cards.Hearts), cards.MustCard(10, cards.Spades)}),
		hand.New(),
	)
	assert.Equal(t, "Dealer: K♣\nSeat 1: A♥ 10♠\nSeat 2: -\n", tui.Seats(snap))

	snap.Dealer = nil
	assert.Contains(t, tui.Seats(snap), "Dealer: -\n")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/____/")
}
