package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StatusMarkdown describes a table's current snapshot as markdown. depth is the number of
// operations on the current timeline.
func StatusMarkdown(tableID string, snap domain.Snapshot, depth int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Table `%s`\n\n", tableID)
	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Progress | **%s** |\n", snap.Progress)
	fmt.Fprintf(&sb, "| Players | %d |\n", snap.PlayerCount())
	if snap.Shoe != nil {
		fmt.Fprintf(&sb, "| Shoe | %d cards |\n", snap.Shoe.Remaining())
	}
	fmt.Fprintf(&sb, "| Timeline | %d snapshots |\n", depth+1)

	allowed := domain.Allowed(snap.Progress)
	names := make([]string, len(allowed))
	for i, op := range allowed {
		names[i] = "`" + string(op) + "`"
	}
	fmt.Fprintf(&sb, "\nNext: %s\n", strings.Join(names, ", "))
	return sb.String()
}
