// Package cards models French-suited playing cards, single decks and multi-deck shoes.
package cards

import (
	"errors"
	"fmt"
	"strconv"
)

// Suit is one of the four French suits.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

// Card values for the ace and the face cards.
const (
	Ace   = 1
	Jack  = 11
	Queen = 12
	King  = 13
)

// ErrValueOutOfRange is matched by every *ValueOutOfRangeError.
var ErrValueOutOfRange = errors.New("card value out of range")

// ValueOutOfRangeError is returned when a card is built with a value outside 1..13.
type ValueOutOfRangeError struct {
	Value int
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("the value of %d is out of range", e.Value)
}

// Is makes errors.Is(err, ErrValueOutOfRange) hold.
func (e *ValueOutOfRangeError) Is(target error) bool {
	return target == ErrValueOutOfRange
}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// Symbol returns the unicode pip for the suit.
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Red reports whether the suit is printed in red.
func (s Suit) Red() bool {
	return s == Diamonds || s == Hearts
}

// Card is a single playing card. The zero value is not a valid card.
type Card struct {
	value uint8 // 1-13: ace through king
	suit  Suit
}

// NewCard creates a card with the given value (1 = ace, 11-13 = jack, queen, king).
func NewCard(value int, suit Suit) (Card, error) {
	if value < Ace || value > King {
		return Card{}, &ValueOutOfRangeError{Value: value}
	}
	if suit > Spades {
		return Card{}, fmt.Errorf("invalid suit %d", suit)
	}
	return Card{value: uint8(value), suit: suit}, nil
}

// MustCard is NewCard for literals known to be valid. It panics otherwise.
func MustCard(value int, suit Suit) Card {
	c, err := NewCard(value, suit)
	if err != nil {
		panic(err)
	}
	return c
}

// Suit returns the suit of the card.
func (c Card) Suit() Suit {
	return c.suit
}

// Face returns the raw face value, 1 through 13.
func (c Card) Face() int {
	return int(c.value)
}

// Rank returns the spoken rank: "Ace", "2".."10", "Jack", "Queen" or "King".
func (c Card) Rank() string {
	switch c.value {
	case Ace:
		return "Ace"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return strconv.Itoa(int(c.value))
	}
}

// Value returns the blackjack point value. Face cards count ten and the ace counts one;
// choosing to count an ace as eleven is left to hand scoring.
func (c Card) Value() int {
	if c.value >= Jack {
		return 10
	}
	return int(c.value)
}

// String renders the card as rank abbreviation plus suit symbol, e.g. "A♣" or "10♥".
func (c Card) String() string {
	var rank string
	switch c.value {
	case Ace:
		rank = "A"
	case Jack:
		rank = "J"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	default:
		rank = strconv.Itoa(int(c.value))
	}
	return rank + c.suit.Symbol()
}
