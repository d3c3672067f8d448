package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig sizes the in-process cache.
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultMemoryConfig is sized for a single-node deployment: ten projection
// keys per namespace, so capacity is generous.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           1024,
		NumShards:          8,
		TTL:                10 * time.Minute,
		EvictionPercentage: 10,
	}
}

// MemoryCache implements Cache in process on sturdyc. It is used when no Redis
// host is configured. Every entry shares the TTL given at construction; the
// per-call ttl argument of Set is ignored.
type MemoryCache struct {
	client *sturdyc.Client[[]byte]
}

func NewMemoryCache(cfg MemoryConfig) *MemoryCache {
	def := DefaultMemoryConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = def.NumShards
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.EvictionPercentage < 1 || cfg.EvictionPercentage > 100 {
		cfg.EvictionPercentage = def.EvictionPercentage
	}
	return &MemoryCache{client: sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.client.Set(key, v)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.client.Delete(k)
	}
	return nil
}

// Keys lists the cached keys.
func (m *MemoryCache) Keys() []string {
	return m.client.ScanKeys()
}

var _ Cache = (*MemoryCache)(nil)
