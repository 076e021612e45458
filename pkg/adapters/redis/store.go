// Package redis provides a HistoryStore and a DistributedLocker backed by Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "blackjack:table:"

// noExpiry is the index score of tables saved without a TTL (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.HistoryStore using Redis.
// Each table is one string key holding the encoded tree; a sorted set indexes table IDs
// by expiry so List can prune tables whose keys have expired.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for tables.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for tables.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(tableID string) string {
	return s.prefix + tableID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the encoded tree and refreshes the index entry.
func (s *Store) Save(ctx context.Context, tableID string, root *history.Node) error {
	data, err := history.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = noExpiry
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(tableID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: tableID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves and decodes the table's tree.
func (s *Store) Load(ctx context.Context, tableID string) (*history.Node, error) {
	val, err := s.client.Get(ctx, s.key(tableID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	root, err := history.Unmarshal(val)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal table %s: %w", tableID, err)
	}
	return root, nil
}

// Delete removes the table and its index entry.
func (s *Store) Delete(ctx context.Context, tableID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(tableID))
	pipe.ZRem(ctx, s.indexKey(), tableID)
	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries and returns the remaining table IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired tables: %w", err)
	}

	tables, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Client returns the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the key prefix in use.
func (s *Store) Prefix() string {
	return s.prefix
}
