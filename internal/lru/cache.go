package lru

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
)

var ErrIllegalCapacity = errors.New("illegal lru cache capacity")
var ErrInvalidSharding = errors.New("invalid sharding")

const (
	minDefaultBytes uint64 = 64 << 10
	maxDefaultBytes uint64 = 4 << 20
)

type OnEvict func(k uint64, v []byte)

// Cache is what the store needs from a result cache.
type Cache interface {
	Add(key uint64, value []byte) bool
	Get(key uint64) ([]byte, bool)
	Remove(key uint64)
	Purge()
	Count() int
}

// ShardedCache is a byte bounded LRU split into independently locked shards.
type ShardedCache struct {
	maxBytes uint64
	capacity uint64
	shards   []*lruShard
}

func NewShardedCache(shards int, maxTotalBytes uint64, onEvict OnEvict) (*ShardedCache, error) {
	if maxTotalBytes <= 2 {
		return nil, ErrIllegalCapacity
	}

	if shards < 1 {
		return nil, ErrInvalidSharding
	}

	c := ShardedCache{
		maxBytes: maxTotalBytes,
		capacity: uint64(shards),
		shards:   make([]*lruShard, shards),
	}

	shardMaxBytes := maxTotalBytes / c.capacity
	for i := range c.shards {
		c.shards[i] = newLruShard(shardMaxBytes, onEvict)
	}

	return &c, nil
}

// DefaultBytes sizes a cache from the physical memory of the host.
func DefaultBytes() uint64 {
	total := memory.TotalMemory() / 4096
	if total < minDefaultBytes {
		return minDefaultBytes
	}

	if total > maxDefaultBytes {
		return maxDefaultBytes
	}

	return total
}

// HashKey turns an arbitrary string key into a cache key.
func HashKey(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Add value to cache under key and returns true if eviction happened
func (c *ShardedCache) Add(key uint64, value []byte) bool {
	return c.getShard(key).add(key, value)
}

func (c *ShardedCache) Get(key uint64) ([]byte, bool) {
	return c.getShard(key).get(key)
}

func (c *ShardedCache) Remove(key uint64) {
	c.getShard(key).remove(key)
}

func (c *ShardedCache) Purge() {
	for i := range c.shards {
		c.shards[i].purge()
	}
}

func (c *ShardedCache) Count() int {
	var count int
	for i := range c.shards {
		count += c.shards[i].len()
	}
	return count
}

func (c *ShardedCache) getShard(key uint64) *lruShard {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, key)
	hash := xxhash.Sum64(bs)
	return c.shards[hash%c.capacity]
}
