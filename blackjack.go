package blackjack

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/blackjack/internal/logging"
	"github.com/aretw0/blackjack/internal/runtime"
	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
)

// Engine is the high-level entry point for the library.
// It wraps the internal rule engine and makes it safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	runtime  *runtime.Engine
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	decks    int
	rng      *rand.Rand
	histOpts []history.Option

	// TableID labels log lines and events. It may be empty.
	TableID string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
// Calling it more than once chains the hooks in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDecks sets how many 52-card decks the shoe of a new table holds.
func WithDecks(n int) Option {
	return func(e *Engine) {
		e.decks = n
	}
}

// WithRand sets the random source used to shuffle the shoe of a new table.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithTableID labels the engine's logs and events.
func WithTableID(id string) Option {
	return func(e *Engine) {
		e.TableID = id
	}
}

// WithHistoryOptions passes options to the history tree of a new table.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(e *Engine) {
		e.histOpts = append(e.histOpts, opts...)
	}
}

func newEngine(opts []Option) *Engine {
	eng := &Engine{decks: cards.DefaultDecks}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.TableID != "" {
		eng.logger = eng.logger.With("table", eng.TableID)
	}
	return eng
}

// New initializes a table in the Starting phase with no players, an empty dealer hand and
// a freshly shuffled shoe.
func New(opts ...Option) (*Engine, error) {
	eng := newEngine(opts)

	var shoeOpts []cards.Option
	if eng.rng != nil {
		shoeOpts = append(shoeOpts, cards.WithRand(eng.rng))
	}
	shoe, err := cards.NewShuffledShoe(eng.decks, shoeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build shoe: %w", err)
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithSnapshotFactory(func() domain.Snapshot { return domain.NewSnapshotWithShoe(shoe) }),
		runtime.WithRootOptions(eng.histOpts...),
	)
	return eng, nil
}

// Load resumes a table from an existing history tree.
func Load(root *history.Node, opts ...Option) *Engine {
	eng := newEngine(opts)
	eng.runtime = runtime.FromHistory(root)
	return eng
}

// RegisterPlayer seats a new player. Legal only while starting.
func (e *Engine) RegisterPlayer(ctx context.Context) error {
	return e.Apply(ctx, domain.OpRegisterPlayer)
}

// BeginPlay starts the round. Legal only while starting.
func (e *Engine) BeginPlay(ctx context.Context) error {
	return e.Apply(ctx, domain.OpBeginPlay)
}

// EndPlay finishes the round. Legal only while playing.
func (e *Engine) EndPlay(ctx context.Context) error {
	return e.Apply(ctx, domain.OpEndPlay)
}

// ResetGame prepares a finished table for the next round. Players stay seated.
func (e *Engine) ResetGame(ctx context.Context) error {
	return e.Apply(ctx, domain.OpResetGame)
}

// Apply runs one lifecycle operation and fires the matching hook.
// Hooks run after the engine lock is released, so they may query the engine.
func (e *Engine) Apply(ctx context.Context, op domain.Operation) error {
	return e.ApplyAndCommit(ctx, op, nil)
}

// ApplyAndCommit runs op and then commit, typically a save of Root. OnTransition fires
// only once commit has succeeded; a failed commit is returned and no hook fires, but the
// in-memory history keeps the operation. A rejected operation fires OnRejected and never
// reaches commit.
func (e *Engine) ApplyAndCommit(ctx context.Context, op domain.Operation, commit func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	before := e.runtime.CurrentSnapshot()
	err := e.runtime.Apply(op)
	after := e.runtime.CurrentSnapshot()
	depth := e.runtime.Depth()
	e.mu.Unlock()

	evt := &domain.TransitionEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventTransition,
			TableID:   e.TableID,
		},
		Op:      op,
		From:    before.Progress,
		To:      after.Progress,
		Players: after.PlayerCount(),
		Depth:   depth,
		Err:     err,
	}

	if err != nil {
		evt.Type = domain.EventRejected
		e.logger.Warn("operation rejected", "op", op, "progress", before.Progress, "err", err)
		if e.hooks.OnRejected != nil {
			e.hooks.OnRejected(ctx, evt)
		}
		return err
	}

	if commit != nil {
		if err := commit(); err != nil {
			e.logger.Error("operation not committed", "op", op, "err", err)
			return err
		}
	}

	evt.Diff = domain.Diff(e.TableID, &before, &after)
	e.logger.Debug("operation applied", "op", op, "from", before.Progress, "to", after.Progress, "players", after.PlayerCount(), "depth", depth)
	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, evt)
	}
	return nil
}

// CurrentProgress returns the phase of the current snapshot.
func (e *Engine) CurrentProgress() domain.Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.CurrentProgress()
}

func (e *Engine) IsStarting() bool { return e.CurrentProgress() == domain.ProgressStarting }
func (e *Engine) IsPlaying() bool  { return e.CurrentProgress() == domain.ProgressPlaying }
func (e *Engine) IsDone() bool     { return e.CurrentProgress() == domain.ProgressDone }

// Snapshot returns a copy of the current snapshot.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.CurrentSnapshot()
}

// CurrentSnapshot is an alias of Snapshot.
func (e *Engine) CurrentSnapshot() domain.Snapshot {
	return e.Snapshot()
}

// Diff reports what changed between prev and the current snapshot.
func (e *Engine) Diff(prev *domain.Snapshot) *domain.SnapshotDiff {
	cur := e.Snapshot()
	return domain.Diff(e.TableID, prev, &cur)
}

// Depth returns the number of accepted operations on the current timeline.
func (e *Engine) Depth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.Depth()
}

// History yields the snapshots of the current timeline, oldest first.
// The timeline is copied when iteration starts.
func (e *Engine) History() iter.Seq[domain.Snapshot] {
	return func(yield func(domain.Snapshot) bool) {
		e.mu.Lock()
		var snaps []domain.Snapshot
		for s := range e.runtime.History() {
			snaps = append(snaps, s)
		}
		e.mu.Unlock()

		for _, s := range snaps {
			if !yield(s) {
				return
			}
		}
	}
}

// Root returns the history tree. Callers must not append to it while the engine is in use.
func (e *Engine) Root() *history.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.Root()
}

// Marshal encodes the whole history tree.
func (e *Engine) Marshal() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return history.Marshal(e.runtime.Root())
}
