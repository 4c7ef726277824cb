package lru

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedCache_Add(t *testing.T) {
	t.Run("just add with no eviction", func(t *testing.T) {
		evicted := 0
		onEvict := func(k uint64, v []byte) {
			evicted++
		}

		c, err := NewShardedCache(2, 1024, onEvict)
		require.NoError(t, err)

		for i := 0; i < 100; i += 5 {
			c.Add(uint64(i), []byte(fmt.Sprintf("Value %d", i)))
		}

		for i := 0; i < 100; i += 5 {
			v, ok := c.Get(uint64(i))
			require.True(t, ok)
			assert.Exactly(t, []byte(fmt.Sprintf("Value %d", i)), v)
		}

		require.Equal(t, 0, evicted)
		assert.Equal(t, 20, c.Count())
	})

	t.Run("single shard evicts least recently used", func(t *testing.T) {
		var evictedKeys []uint64
		c, err := NewShardedCache(1, 30, func(k uint64, v []byte) {
			evictedKeys = append(evictedKeys, k)
		})
		require.NoError(t, err)

		c.Add(1, []byte("0123456789"))
		c.Add(2, []byte("0123456789"))
		c.Add(3, []byte("0123456789"))

		_, ok := c.Get(1)
		require.True(t, ok)

		assert.True(t, c.Add(4, []byte("0123456789")))
		assert.Equal(t, []uint64{2}, evictedKeys)
		assert.Equal(t, 3, c.Count())

		_, ok = c.Get(2)
		assert.False(t, ok)
	})

	t.Run("replacing a key does not grow the count", func(t *testing.T) {
		c, err := NewShardedCache(4, 1024, nil)
		require.NoError(t, err)

		c.Add(HashKey("dune"), []byte("a"))
		c.Add(HashKey("dune"), []byte("b"))

		v, ok := c.Get(HashKey("dune"))
		require.True(t, ok)
		assert.Equal(t, []byte("b"), v)
		assert.Equal(t, 1, c.Count())
	})

	t.Run("purge and remove", func(t *testing.T) {
		c, err := NewShardedCache(3, 1024, nil)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			c.Add(uint64(i), []byte("v"))
		}

		c.Remove(3)
		_, ok := c.Get(3)
		assert.False(t, ok)
		assert.Equal(t, 9, c.Count())

		c.Purge()
		assert.Equal(t, 0, c.Count())
	})
}

func TestNewShardedCache_InvalidArguments(t *testing.T) {
	_, err := NewShardedCache(2, 1, nil)
	assert.ErrorIs(t, err, ErrIllegalCapacity)

	_, err = NewShardedCache(0, 1024, nil)
	assert.ErrorIs(t, err, ErrInvalidSharding)
}

func TestDefaultBytes(t *testing.T) {
	b := DefaultBytes()
	assert.GreaterOrEqual(t, b, minDefaultBytes)
	assert.LessOrEqual(t, b, maxDefaultBytes)
}
