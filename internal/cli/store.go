package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/blackjack"
	"github.com/aretw0/blackjack/internal/config"
	"github.com/aretw0/blackjack/pkg/adapters/file"
	"github.com/aretw0/blackjack/pkg/adapters/memory"
	"github.com/aretw0/blackjack/pkg/adapters/redis"
	"github.com/aretw0/blackjack/pkg/ports"
	"github.com/aretw0/blackjack/pkg/session"
)

// Backend is an opened store plus whatever must be released with it.
type Backend struct {
	Store  ports.HistoryStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend builds the store named by cfg. A non-empty dir overrides the file store's
// path.
func OpenBackend(ctx context.Context, cfg config.Config, dir string) (*Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return &Backend{Store: memory.NewStore()}, nil
	case config.BackendRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis unreachable at %s: %w", rc.Addr, err)
		}
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), store.Prefix()),
			close:  store.Close,
		}, nil
	default:
		path := cfg.Store.Path
		if dir != "" {
			path = dir
		}
		return &Backend{Store: file.New(path)}, nil
	}
}

// NewManager wires a session manager over the backend with the engine settings from cfg.
func NewManager(b *Backend, cfg config.Config, logger *slog.Logger, extra ...blackjack.Option) *session.Manager {
	engineOpts := []blackjack.Option{
		blackjack.WithDecks(cfg.Decks),
		blackjack.WithLifecycleHooks(DebugHooks(logger)),
	}
	engineOpts = append(engineOpts, extra...)

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithEngineOptions(engineOpts...),
	}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Store, opts...)
}
