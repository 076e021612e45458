// Package graph renders a table's history tree as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
)

// GenerateMermaid produces a Mermaid flowchart of every node below root.
// Node shapes follow the progress they hold:
// - Starting: [Rectangle]
// - Playing: [[Subroutine]]
// - Done: ((Circle))
// Edges on the current timeline are drawn thick; abandoned branches are dotted.
// The current timeline is styled "active" and its leaf "current".
func GenerateMermaid(root *history.Node) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	active := make(map[*history.Node]bool)
	for n := range root.ActivePath() {
		active[n] = true
	}
	leaf := root.ActiveLeaf()

	var parents []*history.Node
	for depth, n := range root.Walk() {
		parents = parents[:depth]
		id := mermaidID(n)

		opener, closer := shape(n.Value().Progress)
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label(n), closer)

		if depth > 0 {
			parent := parents[depth-1]
			arrow := "-.->"
			if active[parent] && active[n] {
				arrow = "==>"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", mermaidID(parent), arrow, id)
		}
		parents = append(parents, n)
	}

	sb.WriteString("\n    %% Timeline Styles\n")
	// Force black text (color:#000) for contrast on both light and dark themes.
	sb.WriteString("    classDef active fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	for n := range root.ActivePath() {
		if n != leaf {
			fmt.Fprintf(&sb, "    class %s active;\n", mermaidID(n))
		}
	}
	fmt.Fprintf(&sb, "    class %s current;\n", mermaidID(leaf))

	return sb.String()
}

func shape(p domain.Progress) (string, string) {
	switch p {
	case domain.ProgressPlaying:
		return "[[", "]]"
	case domain.ProgressDone:
		return "((", "))"
	}
	return "[", "]"
}

func label(n *history.Node) string {
	s := n.Value()
	players := "players"
	if s.PlayerCount() == 1 {
		players = "player"
	}
	return fmt.Sprintf("#%d %s <br/> %d %s", n.Seq(), s.Progress, s.PlayerCount(), players)
}

func mermaidID(n *history.Node) string {
	return fmt.Sprintf("n%d", n.Seq())
}
