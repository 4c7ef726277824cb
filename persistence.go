package shelf

import (
	"github.com/denismitr/shelf/internal/storage"
	"github.com/denismitr/shelf/internal/storage/jsonstorage"
	"github.com/denismitr/shelf/options"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
	"go.uber.org/zap"
)

var ErrStorageFailed = errors.New("storage error")

// Save writes the full mapping to the backing file. On failure the
// in-memory state stays authoritative and the store remembers that it
// still has to be written.
func (s *Store[R]) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	return s.saveUnderLock()
}

// Reload discards the in-memory state and reads the backing file again.
func (s *Store[R]) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadUnderLock()
}

// Dirty reports whether the last write to the backing file failed.
func (s *Store[R]) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dirty
}

func (s *Store[R]) saveUnderLock() error {
	items := s.itemsUnderLock(options.Insertion)
	out := make([]jsonstorage.Item, 0, len(items))
	for _, it := range items {
		b, err := it.serialize()
		if err != nil {
			s.dirty = true
			return errors.Wrap(ErrStorageFailed, err.Error())
		}

		out = append(out, jsonstorage.Item{Key: it.key.String(), Value: b})
	}

	if err := s.storage.Write(out); err != nil {
		s.dirty = true
		s.log.Error("could not save records", zap.Int("count", len(out)), zap.Error(err))
		return errors.Wrap(ErrStorageFailed, err.Error())
	}

	s.dirty = false
	s.log.Debug("records saved", zap.Int("count", len(out)))
	return nil
}

// loadUnderLock never fails: a missing file means an empty store, an
// unreadable or corrupt one is reported and also yields an empty store.
func (s *Store[R]) loadUnderLock() {
	s.pks = btree.New(byPrimaryKeys[R])
	s.seq = 0
	s.dirty = false
	s.cache.Purge()

	if !s.storage.Exists() {
		s.log.Debug("backing file not found, starting empty")
		return
	}

	items, err := s.storage.Read()
	if err != nil {
		switch {
		case errors.Is(err, jsonstorage.ErrMalformed):
			s.log.Warn("backing file is corrupt, starting empty", zap.Error(err))
		case errors.Is(err, jsonstorage.ErrTooLarge):
			s.log.Warn("backing file is too large, starting empty", zap.Error(err))
		case errors.Is(err, storage.ErrPermissionDenied):
			s.log.Warn("backing file is not readable, starting empty", zap.Error(err))
		default:
			s.log.Warn("could not read backing file, starting empty", zap.Error(err))
		}
		return
	}

	for _, raw := range items {
		rec, err := s.schema.Decode(raw.Key, newDocument(raw.Key, raw.Value))
		if err != nil {
			s.log.Warn("skipping undecodable record", zap.String("key", raw.Key), zap.Error(err))
			continue
		}

		if rec.Key() != raw.Key {
			s.log.Warn("skipping record stored under a foreign key",
				zap.String("key", raw.Key), zap.String("id", rec.Key()))
			continue
		}

		if s.findUnderLock(raw.Key) != nil {
			s.log.Warn("duplicate key in backing file, keeping the last one", zap.String("key", raw.Key))
		}

		s.insertUnderLock(rec)
	}

	s.log.Debug("records loaded", zap.Int("count", s.pks.Len()))
}
