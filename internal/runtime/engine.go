package runtime

import (
	"fmt"
	"iter"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/hand"
	"github.com/aretw0/blackjack/pkg/history"
)

// Engine is the table's rule engine. It owns one history tree and only ever extends its
// active path.
type Engine struct {
	root *history.Node
}

// Option configures a new Engine.
type Option func(*config)

type config struct {
	factory  func() domain.Snapshot
	rootOpts []history.Option
}

// WithSnapshotFactory overrides how the initial snapshot is built.
func WithSnapshotFactory(f func() domain.Snapshot) Option {
	return func(c *config) {
		c.factory = f
	}
}

// WithRootOptions passes options to the history tree created for a new engine.
func WithRootOptions(opts ...history.Option) Option {
	return func(c *config) {
		c.rootOpts = append(c.rootOpts, opts...)
	}
}

// NewEngine creates an engine whose history holds a single default snapshot.
func NewEngine(opts ...Option) *Engine {
	cfg := &config{
		factory: func() domain.Snapshot { return domain.NewSnapshot() },
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Engine{root: history.NewRoot(cfg.factory(), cfg.rootOpts...)}
}

// FromHistory resumes an engine over an existing tree.
func FromHistory(root *history.Node) *Engine {
	return &Engine{root: root}
}

// RegisterPlayer seats a new player with an empty hand. Legal only while starting.
func (e *Engine) RegisterPlayer() error {
	return e.apply(domain.OpRegisterPlayer, func(s *domain.Snapshot) {
		s.Players = append(s.Players, hand.New())
	})
}

// BeginPlay starts the round. Legal only while starting; an empty table may begin.
func (e *Engine) BeginPlay() error {
	return e.apply(domain.OpBeginPlay, nil)
}

// EndPlay finishes the round. Legal only while playing.
func (e *Engine) EndPlay() error {
	return e.apply(domain.OpEndPlay, nil)
}

// ResetGame returns a finished table to starting. Seated players stay seated.
func (e *Engine) ResetGame() error {
	return e.apply(domain.OpResetGame, nil)
}

// Apply dispatches one of the four lifecycle operations by name.
func (e *Engine) Apply(op domain.Operation) error {
	switch op {
	case domain.OpRegisterPlayer:
		return e.RegisterPlayer()
	case domain.OpBeginPlay:
		return e.BeginPlay()
	case domain.OpEndPlay:
		return e.EndPlay()
	case domain.OpResetGame:
		return e.ResetGame()
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownOperation, op)
}

// apply reads the current snapshot, checks the guard, then appends the mutated copy.
// A failed guard leaves the history untouched.
func (e *Engine) apply(op domain.Operation, mutate func(*domain.Snapshot)) error {
	next := e.root.CurrentSnapshot()
	to, err := domain.Next(next.Progress, op)
	if err != nil {
		return err
	}
	next.Progress = to
	if mutate != nil {
		mutate(&next)
	}
	e.root.AddAlongActivePath(next)
	return nil
}

// CurrentProgress returns the progress of the current snapshot.
func (e *Engine) CurrentProgress() domain.Progress {
	return e.root.ActiveLeaf().Value().Progress
}

func (e *Engine) IsStarting() bool { return e.CurrentProgress() == domain.ProgressStarting }
func (e *Engine) IsPlaying() bool  { return e.CurrentProgress() == domain.ProgressPlaying }
func (e *Engine) IsDone() bool     { return e.CurrentProgress() == domain.ProgressDone }

// CurrentSnapshot returns a copy of the value at the active leaf.
func (e *Engine) CurrentSnapshot() domain.Snapshot {
	return e.root.CurrentSnapshot()
}

// Root exposes the history tree.
func (e *Engine) Root() *history.Node {
	return e.root
}

// Depth is the number of accepted operations on the active path.
func (e *Engine) Depth() int {
	return e.root.Depth()
}

// History yields every snapshot on the active path, oldest first.
func (e *Engine) History() iter.Seq[domain.Snapshot] {
	return func(yield func(domain.Snapshot) bool) {
		for n := range e.root.ActivePath() {
			if !yield(n.Value().Clone()) {
				return
			}
		}
	}
}
