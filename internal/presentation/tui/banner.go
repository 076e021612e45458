package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the BLACKJACK banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Felt green fading into gold.
	lines := []struct {
		text  string
		color string
	}{
		{" ___ _      _   ___ _  __    _  _   ___ _  __", "#15803d"},
		{"| _ ) |    /_\\ / __| |/ /_ _| |/_\\ / __| |/ /", "#16a34a"},
		{"| _ \\ |__ / _ \\ (__| ' <| || / _ \\ (__| ' < ", "#65a30d"},
		{"|___/____/_/ \\_\\___|_|\\_\\\\__/_/ \\_\\___|_|\\_\\", "#ca8a04"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
