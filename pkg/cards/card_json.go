package cards

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON encodes a Card as "Ac", "Td", "7h", etc.
func (c Card) MarshalJSON() ([]byte, error) {
	lit, err := c.literal()
	if err != nil {
		return nil, err
	}
	return json.Marshal(lit)
}

// UnmarshalJSON decodes "Ac", "td", "7H", etc. into a Card.
// Ten must be 'T'/'t' (not "10").
func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCard(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard reads a two character literal such as "Ac" or "Qs".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card literal %q (want 2 chars like Ac, Td)", s)
	}
	value, ok := charToValue(s[0])
	if !ok {
		return Card{}, fmt.Errorf("invalid rank char %q", s[0])
	}
	suit, ok := charToSuit(s[1])
	if !ok {
		return Card{}, fmt.Errorf("invalid suit char %q (use c/d/h/s)", s[1])
	}
	return NewCard(value, suit)
}

func (c Card) literal() (string, error) {
	r, ok := valueToChar(c.value)
	if !ok {
		return "", fmt.Errorf("invalid card value: %d", c.value)
	}
	var s byte
	switch c.suit {
	case Clubs:
		s = 'c'
	case Diamonds:
		s = 'd'
	case Hearts:
		s = 'h'
	case Spades:
		s = 's'
	default:
		return "", fmt.Errorf("invalid suit: %d", c.suit)
	}
	return string([]byte{r, s}), nil
}

const valueChars = "A23456789TJQK"

func valueToChar(v uint8) (byte, bool) {
	if v < Ace || v > King {
		return 0, false
	}
	return valueChars[v-1], true
}

func charToValue(ch byte) (int, bool) {
	u := ch
	if u >= 'a' && u <= 'z' {
		u -= 'a' - 'A'
	}
	i := strings.IndexByte(valueChars, u)
	if i < 0 {
		return 0, false
	}
	return i + 1, true
}

func charToSuit(ch byte) (Suit, bool) {
	u := ch
	if u >= 'A' && u <= 'Z' {
		u += 'a' - 'A'
	}
	switch u {
	case 'c':
		return Clubs, true
	case 'd':
		return Diamonds, true
	case 'h':
		return Hearts, true
	case 's':
		return Spades, true
	default:
		return 0, false
	}
}
