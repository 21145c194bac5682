package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"

	m "stockanalyzer/service/models"
)

const redisKeyPrefix = "stockanalyzer:quote:"

type CacheEntry struct {
	Symbol    string    `json:"symbol"`
	Payload   m.Quote   `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

// CacheStore persists cache entries by upper cased symbol. Staleness is judged
// by the cache, stores may additionally evict after ttl.
type CacheStore interface {
	Get(ctx context.Context, symbol string) (*CacheEntry, error)
	Set(ctx context.Context, entry CacheEntry, ttl time.Duration) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]CacheEntry)}
}

// Get returns nil without error for unknown symbols
func (s *MemoryStore) Get(_ context.Context, symbol string) (*CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[symbol]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) Set(_ context.Context, entry CacheEntry, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Symbol] = entry
	return nil
}

type RedisStore struct {
	client *goredis.Client
}

// NewRedisStore connects to the redis url and pings the server
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, symbol string) (*CacheEntry, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+symbol).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", symbol, err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry %s: %w", symbol, err)
	}
	return &entry, nil
}

func (s *RedisStore) Set(ctx context.Context, entry CacheEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", entry.Symbol, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+entry.Symbol, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", entry.Symbol, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
