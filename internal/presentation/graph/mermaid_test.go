package graph_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/blackjack/internal/presentation/graph"
	"github.com/aretw0/blackjack/internal/runtime"
	"github.com/aretw0/blackjack/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepping() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestGenerateMermaid_Linear(t *testing.T) {
	e := runtime.NewEngine(runtime.WithRootOptions(history.WithNow(stepping())))
	require.NoError(t, e.RegisterPlayer())
	require.NoError(t, e.BeginPlay())
	require.NoError(t, e.EndPlay())

	out := graph.GenerateMermaid(e.Root())

	for _, want := range []string{
		"graph TD\n",
		`n1["#1 starting <br/> 0 players"]`,
		`n2["#2 starting <br/> 1 player"]`,
		`n3[["#3 playing <br/> 1 player"]]`,
		`n4(("#4 done <br/> 1 player"))`,
		"n1 ==> n2",
		"n3 ==> n4",
		"class n1 active;",
		"class n4 current;",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "-.->")
}

func TestGenerateMermaid_Branches(t *testing.T) {
	root := history.NewRoot(runtime.NewEngine().CurrentSnapshot(), history.WithNow(stepping()))
	old := root.AppendChild(root.Value())
	old.AppendChild(root.Value())
	root.AppendChild(root.Value())

	out := graph.GenerateMermaid(root)

	assert.Contains(t, out, "n1 -.-> n2")
	assert.Contains(t, out, "n2 -.-> n3")
	assert.Contains(t, out, "n1 ==> n4")
	assert.Contains(t, out, "class n4 current;")
	assert.NotContains(t, out, "class n2 active;")
	assert.Equal(t, 1, strings.Count(out, "current;"))
}
