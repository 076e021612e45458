package domain

import (
	"fmt"
	"slices"

	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/aretw0/blackjack/pkg/hand"
)

// Progress is the lifecycle phase of a table.
type Progress string

const (
	ProgressStarting Progress = "starting" // Seating players, no cards in play
	ProgressPlaying  Progress = "playing"  // A round is underway
	ProgressDone     Progress = "done"     // The round is over, waiting for a new game
)

// Valid reports whether p is one of the three known phases.
func (p Progress) Valid() bool {
	switch p {
	case ProgressStarting, ProgressPlaying, ProgressDone:
		return true
	}
	return false
}

// CardSource is the remaining-card supply. The core stores it and never deals from it.
type CardSource interface {
	Deal() (cards.Card, bool)
	Remaining() int
	Shuffle()
}

// HandHolder holds the cards of one seat, used for the dealer and every player.
type HandHolder interface {
	Receive(c cards.Card)
	PeekTop() (cards.Card, bool)
	Cards() []cards.Card
	DiscardAll() []cards.Card
	DiscardOne() (cards.Card, bool)
}

// Snapshot is one point-in-time view of the table.
// Once attached to history it is never mutated; derive a new one with Clone.
type Snapshot struct {
	// Progress is the lifecycle phase.
	Progress Progress

	// Dealer is the house's hand.
	Dealer HandHolder

	// Players are the player hands in seating order.
	Players []HandHolder

	// Shoe is the remaining-card supply.
	Shoe CardSource
}

// NewSnapshot returns the default snapshot: starting, no players, a fresh dealer hand and
// a freshly shuffled shoe of cards.DefaultDecks decks.
func NewSnapshot(opts ...cards.Option) Snapshot {
	shoe, err := cards.NewShuffledShoe(cards.DefaultDecks, opts...)
	if err != nil {
		// DefaultDecks is a positive constant.
		panic(err)
	}
	return NewSnapshotWithShoe(shoe)
}

// NewSnapshotWithShoe returns a default snapshot around the given card source.
func NewSnapshotWithShoe(shoe CardSource) Snapshot {
	return Snapshot{
		Progress: ProgressStarting,
		Dealer:   hand.New(),
		Players:  []HandHolder{},
		Shoe:     shoe,
	}
}

// Clone returns a copy that shares the dealer, player and shoe handles but owns its own
// player sequence.
func (s Snapshot) Clone() Snapshot {
	s.Players = slices.Clone(s.Players)
	if s.Players == nil {
		s.Players = []HandHolder{}
	}
	return s
}

// Equal reports structural equality: same progress and the same handles, in the same
// seating order.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Progress != o.Progress || s.Dealer != o.Dealer || s.Shoe != o.Shoe {
		return false
	}
	return slices.Equal(s.Players, o.Players)
}

// PlayerCount returns the number of seated players.
func (s Snapshot) PlayerCount() int {
	return len(s.Players)
}

// String is a short human-readable summary.
func (s Snapshot) String() string {
	remaining := 0
	if s.Shoe != nil {
		remaining = s.Shoe.Remaining()
	}
	return fmt.Sprintf("%s, %d players, %d cards in shoe", s.Progress, s.PlayerCount(), remaining)
}
