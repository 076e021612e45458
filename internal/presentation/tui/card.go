package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/pterm/pterm"
)

// Card renders a card with its suit coloured the way it is printed.
func Card(c cards.Card) string {
	s := c.String()
	if c.Suit().Red() {
		return pterm.LightRed(s)
	}
	return pterm.LightWhite(s)
}

// Hand renders cards separated by spaces, or "-" when there are none.
func Hand(cs []cards.Card) string {
	if len(cs) == 0 {
		return "-"
	}
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = Card(c)
	}
	return strings.Join(out, " ")
}

// Seats renders the dealer's face-up card and then every seat's hand, one line each.
func Seats(snap domain.Snapshot) string {
	var b strings.Builder
	b.WriteString("Dealer: ")
	if snap.Dealer == nil {
		b.WriteString("-")
	} else if top, ok := snap.Dealer.PeekTop(); ok {
		b.WriteString(Card(top))
	} else {
		b.WriteString("-")
	}
	for i, p := range snap.Players {
		fmt.Fprintf(&b, "\nSeat %d: %s", i+1, holder(p))
	}
	b.WriteString("\n")
	return b.String()
}

func holder(h domain.HandHolder) string {
	if h == nil {
		return "-"
	}
	return Hand(h.Cards())
}
