package cards

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// DefaultDecks is the number of decks in a default shoe.
const DefaultDecks = 7

// DeckSize is the number of cards in a standard deck without jokers.
const DeckSize = 52

// ErrInvalidDeckCount is returned when a shoe is requested with fewer than one deck.
var ErrInvalidDeckCount = errors.New("a shoe needs at least one deck")

// Option configures a Deck or Shoe.
type Option func(*pile)

// WithRand sets the random source used by Shuffle.
// Without it a process-seeded source is used.
func WithRand(r *rand.Rand) Option {
	return func(p *pile) {
		p.rng = r
	}
}

// pile is the shared card stack behind Deck and Shoe. The top of the pile is the end of
// the slice.
type pile struct {
	cards []Card
	rng   *rand.Rand
}

func (p *pile) deal() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	c := p.cards[len(p.cards)-1]
	p.cards = p.cards[:len(p.cards)-1]
	return c, true
}

func (p *pile) shuffle() {
	swap := func(i, j int) { p.cards[i], p.cards[j] = p.cards[j], p.cards[i] }
	if p.rng != nil {
		p.rng.Shuffle(len(p.cards), swap)
		return
	}
	rand.Shuffle(len(p.cards), swap)
}

// Deck is a standard 52 card deck: four suits, ace through king.
type Deck struct {
	pile
}

// NewDeck returns an unshuffled deck ordered clubs, diamonds, hearts, spades.
func NewDeck(opts ...Option) *Deck {
	d := &Deck{pile: pile{cards: standardCards()}}
	for _, opt := range opts {
		opt(&d.pile)
	}
	return d
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (Card, bool) { return d.deal() }

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int { return len(d.cards) }

// Shuffle randomises the order of the remaining cards.
func (d *Deck) Shuffle() { d.shuffle() }

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card { return slices.Clone(d.cards) }

// Shoe holds several decks dealt as one supply.
type Shoe struct {
	pile
	decks int
}

// NewShoe builds an unshuffled shoe of n decks.
func NewShoe(n int, opts ...Option) (*Shoe, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDeckCount, n)
	}
	cards := make([]Card, 0, n*DeckSize)
	for range n {
		cards = append(cards, standardCards()...)
	}
	s := &Shoe{pile: pile{cards: cards}, decks: n}
	for _, opt := range opts {
		opt(&s.pile)
	}
	return s, nil
}

// NewShuffledShoe builds a shoe of n decks and shuffles it once.
func NewShuffledShoe(n int, opts ...Option) (*Shoe, error) {
	s, err := NewShoe(n, opts...)
	if err != nil {
		return nil, err
	}
	s.Shuffle()
	return s, nil
}

// RestoreShoe rebuilds a shoe from previously exported cards, bottom first.
func RestoreShoe(decks int, cards []Card, opts ...Option) *Shoe {
	s := &Shoe{pile: pile{cards: slices.Clone(cards)}, decks: decks}
	for _, opt := range opts {
		opt(&s.pile)
	}
	return s
}

// Deal removes and returns the top card.
func (s *Shoe) Deal() (Card, bool) { return s.deal() }

// Remaining returns the number of undealt cards.
func (s *Shoe) Remaining() int { return len(s.cards) }

// Shuffle randomises the order of the remaining cards.
func (s *Shoe) Shuffle() { s.shuffle() }

// Decks returns how many decks the shoe was built from.
func (s *Shoe) Decks() int { return s.decks }

// Cards returns a copy of the remaining cards, bottom first.
func (s *Shoe) Cards() []Card { return slices.Clone(s.cards) }

func standardCards() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for v := Ace; v <= King; v++ {
			cards = append(cards, Card{value: uint8(v), suit: suit})
		}
	}
	return cards
}
