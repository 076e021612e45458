package domain_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/hand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_Defaults(t *testing.T) {
	s := domain.NewSnapshot(cards.WithRand(rand.New(rand.NewPCG(7, 7))))
	assert.Equal(t, domain.ProgressStarting, s.Progress)
	assert.Empty(t, s.Players)
	require.NotNil(t, s.Dealer)
	assert.Empty(t, s.Dealer.Cards())
	require.NotNil(t, s.Shoe)
	assert.Equal(t, cards.DefaultDecks*cards.DeckSize, s.Shoe.Remaining())
}

func TestSnapshot_CloneSharesHandles(t *testing.T) {
	s := domain.NewSnapshot()
	s.Players = append(s.Players, hand.New())

	c := s.Clone()
	assert.True(t, s.Equal(c))
	assert.Same(t, s.Dealer.(*hand.Hand), c.Dealer.(*hand.Hand))
	assert.Same(t, s.Players[0].(*hand.Hand), c.Players[0].(*hand.Hand))

	c.Players = append(c.Players, hand.New())
	assert.Len(t, s.Players, 1, "appending to the clone must not touch the original")
	assert.False(t, s.Equal(c))
}

func TestSnapshot_EqualByIdentity(t *testing.T) {
	a := domain.NewSnapshot()
	b := a.Clone()
	b.Dealer = hand.New()
	assert.False(t, a.Equal(b), "a fresh dealer hand is a different handle")

	b = a.Clone()
	b.Progress = domain.ProgressDone
	assert.False(t, a.Equal(b))
}

func TestNext(t *testing.T) {
	tests := []struct {
		from    domain.Progress
		op      domain.Operation
		want    domain.Progress
		wantErr bool
	}{
		{domain.ProgressStarting, domain.OpRegisterPlayer, domain.ProgressStarting, false},
		{domain.ProgressStarting, domain.OpBeginPlay, domain.ProgressPlaying, false},
		{domain.ProgressPlaying, domain.OpEndPlay, domain.ProgressDone, false},
		{domain.ProgressDone, domain.OpResetGame, domain.ProgressStarting, false},
		{domain.ProgressStarting, domain.OpEndPlay, domain.ProgressStarting, true},
		{domain.ProgressStarting, domain.OpResetGame, domain.ProgressStarting, true},
		{domain.ProgressPlaying, domain.OpRegisterPlayer, domain.ProgressPlaying, true},
		{domain.ProgressPlaying, domain.OpBeginPlay, domain.ProgressPlaying, true},
		{domain.ProgressPlaying, domain.OpResetGame, domain.ProgressPlaying, true},
		{domain.ProgressDone, domain.OpBeginPlay, domain.ProgressDone, true},
		{domain.ProgressDone, domain.OpEndPlay, domain.ProgressDone, true},
		{domain.ProgressDone, domain.OpRegisterPlayer, domain.ProgressDone, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.from, tt.op), func(t *testing.T) {
			got, err := domain.Next(tt.from, tt.op)
			assert.Equal(t, tt.want, got)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidTransition)
			var te *domain.InvalidTransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.from, te.Current)
			assert.Equal(t, tt.op, te.Op)
		})
	}
}

func TestParseOperation(t *testing.T) {
	op, err := domain.ParseOperation("begin")
	require.NoError(t, err)
	assert.Equal(t, domain.OpBeginPlay, op)

	op, err = domain.ParseOperation("reset_game")
	require.NoError(t, err)
	assert.Equal(t, domain.OpResetGame, op)

	_, err = domain.ParseOperation("hit")
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, []domain.Operation{domain.OpRegisterPlayer, domain.OpBeginPlay}, domain.Allowed(domain.ProgressStarting))
	assert.Equal(t, []domain.Operation{domain.OpEndPlay}, domain.Allowed(domain.ProgressPlaying))
	assert.Equal(t, []domain.Operation{domain.OpResetGame}, domain.Allowed(domain.ProgressDone))
}

func TestInvalidTransitionError_Message(t *testing.T) {
	err := &domain.InvalidTransitionError{Op: domain.OpEndPlay, Current: domain.ProgressStarting}
	assert.Equal(t, "cannot end_play: game state is in starting", err.Error())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnTransition: func(_ context.Context, _ *domain.TransitionEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnTransition: func(_ context.Context, _ *domain.TransitionEvent) { calls = append(calls, "b") },
		OnRejected:   func(_ context.Context, _ *domain.TransitionEvent) { calls = append(calls, "rej") },
	}
	m := a.Merge(b)
	m.OnTransition(context.Background(), &domain.TransitionEvent{})
	m.OnRejected(context.Background(), &domain.TransitionEvent{})
	assert.Equal(t, []string{"a", "b", "rej"}, calls)
}
