package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/blackjack"
	"github.com/aretw0/blackjack/internal/logging"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/ports"
)

// ErrTableExists is returned by Create when the ID is already taken.
var ErrTableExists = errors.New("table already exists")

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates table access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.HistoryStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	engOpts []blackjack.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEngineOptions are applied to every engine the manager creates or loads.
func WithEngineOptions(opts ...blackjack.Option) Option {
	return func(m *Manager) {
		m.engOpts = append(m.engOpts, opts...)
	}
}

// NewManager creates a new Manager over the given store.
func NewManager(store ports.HistoryStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and then call release(tableID) after unlocking.
func (m *Manager) acquire(tableID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[tableID]
	if !exists {
		entry = &lockEntry{}
		m.locks[tableID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(tableID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[tableID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, tableID)
	}
}

func (m *Manager) engineOptions(tableID string) []blackjack.Option {
	opts := make([]blackjack.Option, 0, len(m.engOpts)+2)
	opts = append(opts, blackjack.WithLogger(m.logger))
	opts = append(opts, m.engOpts...)
	return append(opts, blackjack.WithTableID(tableID))
}

func (m *Manager) load(ctx context.Context, tableID string) (*blackjack.Engine, error) {
	root, err := m.store.Load(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return blackjack.Load(root, m.engineOptions(tableID)...), nil
}

func (m *Manager) create(ctx context.Context, tableID string) (*blackjack.Engine, error) {
	eng, err := blackjack.New(m.engineOptions(tableID)...)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, tableID, eng.Root()); err != nil {
		return nil, fmt.Errorf("failed to initialize table: %w", err)
	}
	m.logger.Info("table created", "table", tableID)
	return eng, nil
}

// Create starts a new table. It fails with ErrTableExists if the ID is taken.
func (m *Manager) Create(ctx context.Context, tableID string) (*blackjack.Engine, error) {
	var eng *blackjack.Engine
	err := m.WithLock(ctx, tableID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, tableID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrTableExists, tableID)
		case !errors.Is(err, domain.ErrTableNotFound):
			return fmt.Errorf("failed to check table existence: %w", err)
		}
		eng, err = m.create(ctx, tableID)
		return err
	})
	return eng, err
}

// Load retrieves an existing table from the store.
func (m *Manager) Load(ctx context.Context, tableID string) (*blackjack.Engine, error) {
	var eng *blackjack.Engine
	err := m.WithLock(ctx, tableID, func(ctx context.Context) error {
		var err error
		eng, err = m.load(ctx, tableID)
		return err
	})
	return eng, err
}

// LoadOrCreate loads a table, creating it first if it does not exist.
func (m *Manager) LoadOrCreate(ctx context.Context, tableID string) (*blackjack.Engine, error) {
	var eng *blackjack.Engine
	err := m.WithLock(ctx, tableID, func(ctx context.Context) error {
		var err error
		eng, err = m.load(ctx, tableID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrTableNotFound) {
			return fmt.Errorf("failed to check table existence: %w", err)
		}
		eng, err = m.create(ctx, tableID)
		return err
	})
	return eng, err
}

// Result is the outcome of one Apply, read inside the table lock.
type Result struct {
	Before   domain.Snapshot
	After    domain.Snapshot
	Depth    int
	Branches int
}

// Apply runs one operation against a stored table and persists the result.
// On a rejected operation Before and After are both the unchanged current snapshot
// and nothing is written. OnTransition hooks fire only after the save succeeded.
func (m *Manager) Apply(ctx context.Context, tableID string, op domain.Operation) (Result, error) {
	var res Result
	err := m.WithLock(ctx, tableID, func(ctx context.Context) error {
		eng, err := m.load(ctx, tableID)
		if err != nil {
			return err
		}
		res.Before = eng.Snapshot()
		res.After = res.Before
		res.Depth = eng.Depth()
		res.Branches = eng.Root().BranchCount()
		err = eng.ApplyAndCommit(ctx, op, func() error {
			if err := m.store.Save(ctx, tableID, eng.Root()); err != nil {
				return fmt.Errorf("failed to save table: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		res.After = eng.Snapshot()
		res.Depth = eng.Depth()
		res.Branches = eng.Root().BranchCount()
		return nil
	})
	return res, err
}

// Delete removes the table from the store.
func (m *Manager) Delete(ctx context.Context, tableID string) error {
	return m.WithLock(ctx, tableID, func(ctx context.Context) error {
		if err := m.store.Delete(ctx, tableID); err != nil {
			return err
		}
		m.logger.Info("table deleted", "table", tableID)
		return nil
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying history store.
func (m *Manager) Store() ports.HistoryStore {
	return m.store
}

// WithLock executes fn while holding the lock for the table.
func (m *Manager) WithLock(ctx context.Context, tableID string, fn func(context.Context) error) error {
	entry := m.acquire(tableID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(tableID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, tableID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"table", tableID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
