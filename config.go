package shelf

import (
	"time"

	"github.com/denismitr/shelf/internal/lru"
	"github.com/denismitr/shelf/internal/storage/jsonstorage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultTimeLayout = "2006-01-02 15:04:05"

const defaultSearchCacheShards = 4

var ErrInvalidConfig = errors.New("invalid store config")

type Config struct {
	Logger *zap.Logger
	// Clock is used for created/modified stamps.
	Clock      func() time.Time
	TimeLayout string
	// Indent of the backing JSON document.
	Indent string
	// MaxFileBytes is the largest backing file Open will load.
	MaxFileBytes int64

	SearchCacheBytes   uint64
	SearchCacheShards  int
	DisableSearchCache bool
}

func (cfg *Config) applyDefaults() error {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	if cfg.TimeLayout == "" {
		cfg.TimeLayout = DefaultTimeLayout
	}

	if cfg.Indent == "" {
		cfg.Indent = jsonstorage.DefaultIndent
	}

	if cfg.MaxFileBytes == 0 {
		cfg.MaxFileBytes = jsonstorage.DefaultMaxBytes
	} else if cfg.MaxFileBytes < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max file bytes %d", cfg.MaxFileBytes)
	}

	if cfg.SearchCacheShards == 0 {
		cfg.SearchCacheShards = defaultSearchCacheShards
	} else if cfg.SearchCacheShards < 0 {
		return errors.Wrapf(ErrInvalidConfig, "search cache shards %d", cfg.SearchCacheShards)
	}

	if cfg.SearchCacheBytes == 0 {
		cfg.SearchCacheBytes = lru.DefaultBytes()
	}

	return nil
}

func (cfg *Config) newSearchCache() (lru.Cache, error) {
	if cfg.DisableSearchCache {
		return lru.NullCache{}, nil
	}

	c, err := lru.NewShardedCache(cfg.SearchCacheShards, cfg.SearchCacheBytes, nil)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}

	return c, nil
}

func (cfg *Config) now() string {
	return cfg.Clock().Format(cfg.TimeLayout)
}
