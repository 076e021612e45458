// Package hand holds the cards in front of a seat at the table, for the house and for
// every player alike.
package hand

import (
	"slices"

	"github.com/aretw0/blackjack/pkg/cards"
)

// Hand is an ordered set of received cards. The first card received is the one shown
// face up.
type Hand struct {
	cards []cards.Card
}

// New returns an empty hand.
func New() *Hand {
	return &Hand{}
}

// Restore rebuilds a hand from previously exported cards, in receive order.
func Restore(cs []cards.Card) *Hand {
	return &Hand{cards: slices.Clone(cs)}
}

// Receive adds a card to the hand.
func (h *Hand) Receive(c cards.Card) {
	h.cards = append(h.cards, c)
}

// PeekTop returns the face-up card without removing it.
func (h *Hand) PeekTop() (cards.Card, bool) {
	if len(h.cards) == 0 {
		return cards.Card{}, false
	}
	return h.cards[0], true
}

// Cards returns a copy of every card in receive order.
func (h *Hand) Cards() []cards.Card {
	return slices.Clone(h.cards)
}

// Len returns the number of cards held.
func (h *Hand) Len() int {
	return len(h.cards)
}

// DiscardAll empties the hand and returns what it held.
func (h *Hand) DiscardAll() []cards.Card {
	out := h.cards
	h.cards = nil
	return out
}

// DiscardOne removes the most recently received card.
func (h *Hand) DiscardOne() (cards.Card, bool) {
	if len(h.cards) == 0 {
		return cards.Card{}, false
	}
	c := h.cards[len(h.cards)-1]
	h.cards = h.cards[:len(h.cards)-1]
	return c, true
}
