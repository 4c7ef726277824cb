package shelf

import (
	"encoding/json"

	"github.com/denismitr/shelf/internal/fold"
	"github.com/denismitr/shelf/internal/lru"
	"github.com/denismitr/shelf/options"
)

// Search returns the records whose label contains query, ignoring case
// and accents, in insertion order. An empty query matches everything.
func (s *Store[R]) Search(query string) []R {
	folded := fold.Fold(query)
	cacheKey := lru.HashKey(folded)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if keys, ok := s.cachedKeysUnderLock(cacheKey); ok {
		out := make([]R, 0, len(keys))
		for _, k := range keys {
			if it := s.findUnderLock(k); it != nil {
				out = append(out, it.clone())
			}
		}
		return out
	}

	keys := make([]string, 0)
	out := make([]R, 0)
	for _, it := range s.itemsUnderLock(options.Insertion) {
		if fold.Contains(it.rec.Label(), folded) {
			keys = append(keys, it.key.String())
			out = append(out, it.clone())
		}
	}

	if b, err := json.Marshal(keys); err == nil {
		s.cache.Add(cacheKey, b)
	}

	return out
}

// SearchBy matches query against each string fields returns for a record.
func (s *Store[R]) SearchBy(query string, fields func(R) []string) []R {
	folded := fold.Fold(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []R
	for _, it := range s.itemsUnderLock(options.Insertion) {
		for _, f := range fields(it.rec) {
			if fold.Contains(f, folded) {
				out = append(out, it.clone())
				break
			}
		}
	}

	return out
}

// Filter returns the records accepted by match, in insertion order.
func (s *Store[R]) Filter(match func(R) bool) []R {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []R
	for _, it := range s.itemsUnderLock(options.Insertion) {
		if match(it.rec) {
			out = append(out, it.clone())
		}
	}

	return out
}

func (s *Store[R]) cachedKeysUnderLock(cacheKey uint64) ([]string, bool) {
	b, ok := s.cache.Get(cacheKey)
	if !ok {
		return nil, false
	}

	var keys []string
	if err := json.Unmarshal(b, &keys); err != nil {
		s.cache.Remove(cacheKey)
		return nil, false
	}

	return keys, true
}
