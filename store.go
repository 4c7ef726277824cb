package shelf

import (
	"sort"
	"sync"

	"github.com/denismitr/shelf/internal/lru"
	"github.com/denismitr/shelf/internal/storage/jsonstorage"
	"github.com/denismitr/shelf/options"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
	"go.uber.org/zap"
)

var (
	ErrKeyAlreadyExists = errors.New("key already exists")
	ErrKeyDoesNotExist  = errors.New("key does not exist")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotIncrementable = errors.New("record does not support increments")
	ErrStoreClosed      = errors.New("store already closed")
)

type Closer func() error

func NullCloser() error { return nil }

// Store is an in-memory collection of records keyed by id and mirrored
// to a single JSON file. Every mutation is written through before the
// call returns.
type Store[R Record] struct {
	mu      sync.RWMutex
	cfg     *Config
	schema  Schema[R]
	log     *zap.Logger
	storage *jsonstorage.Storage
	pks     *btree.BTree
	cache   lru.Cache
	seq     uint64
	dirty   bool
	closed  bool
}

// Open loads path into a new store. A missing, unreadable or corrupt
// file yields an empty store; only an invalid configuration is an error.
func Open[R Record](path string, schema Schema[R], cfg *Config) (*Store[R], Closer, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, NullCloser, err
	}

	if schema.Decode == nil {
		return nil, NullCloser, errors.Wrap(ErrInvalidConfig, "schema has no decoder")
	}

	if schema.Name == "" {
		schema.Name = "records"
	}

	cache, err := cfg.newSearchCache()
	if err != nil {
		return nil, NullCloser, err
	}

	s := &Store[R]{
		cfg:     cfg,
		schema:  schema,
		log:     cfg.Logger.With(zap.String("schema", schema.Name), zap.String("path", path)),
		storage: jsonstorage.New(path, cfg.Indent).SetMaxBytes(cfg.MaxFileBytes),
		pks:     btree.New(byPrimaryKeys[R]),
		cache:   cache,
	}

	s.loadUnderLock()

	return s, s.close, nil
}

func (s *Store[R]) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	var err error
	if s.dirty {
		err = s.saveUnderLock()
	}

	s.closed = true
	s.cache.Purge()
	return err
}

func (s *Store[R]) Path() string {
	return s.storage.Path()
}

func (s *Store[R]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pks.Len()
}

// Add inserts a record with a fresh id. A duplicate id is rejected and
// leaves the store untouched.
func (s *Store[R]) Add(rec R) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if err := s.validate(rec); err != nil {
		return err
	}

	if s.findUnderLock(rec.Key()) != nil {
		return errors.Wrapf(ErrKeyAlreadyExists, "key %s", rec.Key())
	}

	s.insertUnderLock(s.stampNew(rec))
	return s.commitUnderLock()
}

// AddOrIncrement inserts rec when its id is new. When the id exists the
// stored quantity grows by extra instead; a non positive extra changes
// nothing.
func (s *Store[R]) AddOrIncrement(rec R, extra int) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Unchanged, ErrStoreClosed
	}

	existing := s.findUnderLock(rec.Key())
	if existing == nil {
		if err := s.validate(rec); err != nil {
			return Unchanged, err
		}

		s.insertUnderLock(s.stampNew(rec))
		return Inserted, s.commitUnderLock()
	}

	inc, ok := any(existing.rec).(Incrementer[R])
	if !ok {
		return Unchanged, errors.Wrapf(ErrNotIncrementable, "%s", s.schema.Name)
	}

	if extra <= 0 {
		return Unchanged, nil
	}

	next := inc.Increment(extra)
	if err := s.validate(next); err != nil {
		return Unchanged, err
	}

	existing.rec = s.stampModified(existing.rec, next)
	return Incremented, s.commitUnderLock()
}

// Remove deletes the record under key.
func (s *Store[R]) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if s.pks.Delete(lookupItem[R](key)) == nil {
		return errors.Wrapf(ErrKeyDoesNotExist, "key %s", key)
	}

	return s.commitUnderLock()
}

// Update applies only the fields present in patch to the record under key
// and returns the updated record.
func (s *Store[R]) Update(key string, patch M) (R, error) {
	var zero R

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return zero, ErrStoreClosed
	}

	existing := s.findUnderLock(key)
	if existing == nil {
		return zero, errors.Wrapf(ErrKeyDoesNotExist, "key %s", key)
	}

	next, err := applyTo(patch, existing.rec)
	if err != nil {
		return zero, err
	}

	if err := s.validate(next); err != nil {
		return zero, err
	}

	existing.rec = s.stampModified(existing.rec, next)
	err = s.commitUnderLock()
	return existing.clone(), err
}

func (s *Store[R]) Get(key string) (R, error) {
	var zero R

	s.mu.RLock()
	defer s.mu.RUnlock()

	it := s.findUnderLock(key)
	if it == nil {
		return zero, errors.Wrapf(ErrKeyDoesNotExist, "key %s", key)
	}

	return it.clone(), nil
}

func (s *Store[R]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findUnderLock(key) != nil
}

// List returns all records, in insertion order unless opts say otherwise.
func (s *Store[R]) List(opts *options.ListOptions) []R {
	if opts == nil {
		opts = options.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.itemsUnderLock(opts.O)

	out := make([]R, 0, len(items))
	for _, it := range items {
		if opts.Px != "" && !it.key.HasPrefix(opts.Px) {
			continue
		}

		if !it.key.Match(opts.Pattern) {
			continue
		}

		out = append(out, it.clone())
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}

	return out
}

func (s *Store[R]) itemsUnderLock(o options.Order) []*item[R] {
	items := make([]*item[R], 0, s.pks.Len())
	collect := func(i interface{}) bool {
		it, ok := i.(*item[R])
		if !ok {
			panic(castPanic)
		}
		items = append(items, it)
		return true
	}

	switch o {
	case options.Descend:
		s.pks.Descend(nil, collect)
	case options.Ascend:
		s.pks.Ascend(nil, collect)
	default:
		s.pks.Ascend(nil, collect)
		sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	}

	return items
}

func (s *Store[R]) findUnderLock(key string) *item[R] {
	found := s.pks.Get(lookupItem[R](key))
	if found == nil {
		return nil
	}

	it, ok := found.(*item[R])
	if !ok {
		panic(castPanic)
	}

	return it
}

func (s *Store[R]) insertUnderLock(rec R) {
	s.seq++
	s.pks.Set(newItem(rec, s.seq))
}

// commitUnderLock invalidates derived state and writes the mapping through.
func (s *Store[R]) commitUnderLock() error {
	s.cache.Purge()
	return s.saveUnderLock()
}

func (s *Store[R]) validate(rec R) error {
	if rec.Key() == "" {
		return errors.Wrap(ErrInvalidInput, "id must not be empty")
	}

	if v, ok := any(rec).(Validator); ok {
		if err := v.Validate(); err != nil {
			return errors.Wrap(ErrInvalidInput, err.Error())
		}
	}

	return nil
}

func (s *Store[R]) stampNew(rec R) R {
	st, ok := any(rec).(Stamper[R])
	if !ok {
		return rec
	}

	now := s.cfg.now()
	created := st.Created()
	if created == "" {
		created = now
	}

	return st.Stamp(created, now)
}

func (s *Store[R]) stampModified(prev, next R) R {
	st, ok := any(next).(Stamper[R])
	if !ok {
		return next
	}

	created := st.Created()
	if p, ok := any(prev).(Stamper[R]); ok && p.Created() != "" {
		created = p.Created()
	}

	return st.Stamp(created, s.cfg.now())
}
