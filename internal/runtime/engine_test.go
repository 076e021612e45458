package runtime_test

import (
	"errors"
	"testing"

	"github.com/aretw0/blackjack/internal/runtime"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DefaultIsStarting(t *testing.T) {
	e := runtime.NewEngine()

	assert.Equal(t, domain.ProgressStarting, e.CurrentProgress())
	assert.True(t, e.IsStarting())
	assert.False(t, e.IsPlaying())
	assert.False(t, e.IsDone())
	assert.Empty(t, e.CurrentSnapshot().Players)
	assert.Equal(t, 0, e.Root().BranchCount())
	assert.Equal(t, 0, e.Depth())
}

func TestEngine_RegisterPlayers(t *testing.T) {
	e := runtime.NewEngine()
	require.NoError(t, e.RegisterPlayer())
	first := e.CurrentSnapshot().Players[0]
	require.NoError(t, e.RegisterPlayer())

	s := e.CurrentSnapshot()
	assert.Len(t, s.Players, 2)
	assert.Equal(t, first, s.Players[0], "new players are appended at the end")
	assert.Equal(t, domain.ProgressStarting, e.CurrentProgress())
	assert.Equal(t, 1, e.Root().BranchCount())
	assert.Equal(t, 2, e.Depth())
}

func TestEngine_FullRound(t *testing.T) {
	e := runtime.NewEngine()
	require.NoError(t, e.RegisterPlayer())
	require.NoError(t, e.RegisterPlayer())
	require.NoError(t, e.BeginPlay())
	assert.True(t, e.IsPlaying())
	require.NoError(t, e.EndPlay())
	assert.True(t, e.IsDone())
	require.NoError(t, e.ResetGame())
	assert.True(t, e.IsStarting())

	assert.Len(t, e.CurrentSnapshot().Players, 2, "reset keeps seated players")
	assert.Equal(t, 1, e.Root().BranchCount())
	assert.Equal(t, 5, e.Depth())
}

func TestEngine_BeginWithoutPlayers(t *testing.T) {
	e := runtime.NewEngine()
	require.NoError(t, e.BeginPlay())
	assert.Equal(t, domain.ProgressPlaying, e.CurrentProgress())
	assert.Empty(t, e.CurrentSnapshot().Players)
}

func TestEngine_EndPlayFromStartingFails(t *testing.T) {
	e := runtime.NewEngine()
	before := e.CurrentSnapshot()

	err := e.EndPlay()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var te *domain.InvalidTransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, domain.ProgressStarting, te.Current)

	assert.Equal(t, domain.ProgressStarting, e.CurrentProgress())
	assert.True(t, before.Equal(e.CurrentSnapshot()))
	assert.Equal(t, 0, e.Depth())
}

func TestEngine_RejectedOperationsLeaveStateUntouched(t *testing.T) {
	e := runtime.NewEngine()
	require.NoError(t, e.RegisterPlayer())

	cases := []struct {
		name    string
		setup   []func() error
		reject  func() error
		current domain.Progress
	}{
		{"reset while starting", nil, e.ResetGame, domain.ProgressStarting},
		{"begin while playing", []func() error{e.BeginPlay}, e.BeginPlay, domain.ProgressPlaying},
		{"register while playing", nil, e.RegisterPlayer, domain.ProgressPlaying},
		{"reset while playing", nil, e.ResetGame, domain.ProgressPlaying},
		{"end while done", []func() error{e.EndPlay}, e.EndPlay, domain.ProgressDone},
		{"begin while done", nil, e.BeginPlay, domain.ProgressDone},
		{"register while done", nil, e.RegisterPlayer, domain.ProgressDone},
	}

	for _, tc := range cases {
		for _, step := range tc.setup {
			require.NoError(t, step(), tc.name)
		}
		before := e.CurrentSnapshot()
		depth := e.Depth()

		err := tc.reject()
		var te *domain.InvalidTransitionError
		require.ErrorAs(t, err, &te, tc.name)
		assert.Equal(t, tc.current, te.Current, tc.name)
		assert.True(t, before.Equal(e.CurrentSnapshot()), tc.name)
		assert.Equal(t, depth, e.Depth(), tc.name)
	}
}

func TestEngine_Apply(t *testing.T) {
	e := runtime.NewEngine()
	for _, op := range domain.Operations {
		require.NoError(t, e.Apply(op), op)
	}
	assert.True(t, e.IsStarting())
	assert.Len(t, e.CurrentSnapshot().Players, 1)

	err := e.Apply("deal")
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)
}

func TestEngine_HistoryFollowsActivePath(t *testing.T) {
	e := runtime.NewEngine()
	require.NoError(t, e.RegisterPlayer())
	require.NoError(t, e.BeginPlay())

	var got []domain.Progress
	var players []int
	for s := range e.History() {
		got = append(got, s.Progress)
		players = append(players, len(s.Players))
	}
	assert.Equal(t, []domain.Progress{domain.ProgressStarting, domain.ProgressStarting, domain.ProgressPlaying}, got)
	assert.Equal(t, []int{0, 1, 1}, players)
}

func TestEngine_FromHistoryFollowsManualBranch(t *testing.T) {
	e := runtime.NewEngine()
	require.NoError(t, e.BeginPlay())

	// A branch added directly at the root after the fact becomes the current timeline.
	root := e.Root()
	root.AppendChild(root.Value().Clone())

	resumed := runtime.FromHistory(root)
	assert.True(t, resumed.IsStarting())
	assert.Equal(t, 2, root.BranchCount())
	require.NoError(t, resumed.RegisterPlayer())
	assert.Equal(t, 2, resumed.Depth())
}

func TestEngine_SnapshotFactory(t *testing.T) {
	custom := domain.NewSnapshot()
	custom.Progress = domain.ProgressDone
	e := runtime.NewEngine(
		runtime.WithSnapshotFactory(func() domain.Snapshot { return custom }),
		runtime.WithRootOptions(history.WithClock(&history.Clock{})),
	)
	assert.True(t, e.IsDone())
	require.NoError(t, e.ResetGame())
	assert.True(t, e.IsStarting())
}
