// Package config holds the command line settings, read from a YAML file
// and overridden by SHELF_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/denismitr/shelf"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

var validStyles = []string{"plain", "emoji", "table"}

var validLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	DataDir string      `yaml:"data_dir"`
	Style   string      `yaml:"style"`
	Files   FilesConfig `yaml:"files"`
	Store   StoreConfig `yaml:"store"`
	Logging LogConfig   `yaml:"logging"`
}

// FilesConfig names the backing files, relative to DataDir unless absolute.
type FilesConfig struct {
	Inventory string `yaml:"inventory"`
	Tasks     string `yaml:"tasks"`
	Agenda    string `yaml:"agenda"`
	// Library is a directory holding libros.json and usuarios.json.
	Library string `yaml:"library"`
}

type StoreConfig struct {
	TimeLayout         string `yaml:"time_layout"`
	MaxFileBytes       int64  `yaml:"max_file_bytes"`
	SearchCacheBytes   uint64 `yaml:"search_cache_bytes"`
	DisableSearchCache bool   `yaml:"disable_search_cache"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: ".",
		Style:   "emoji",
		Files: FilesConfig{
			Inventory: "inventario.json",
			Tasks:     "tareas.json",
			Agenda:    "eventos.json",
			Library:   ".",
		},
		Store: StoreConfig{
			TimeLayout: shelf.DefaultTimeLayout,
		},
		Logging: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// The result is not validated: callers apply their own overrides first and
// then call Validate once.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrap(err, "failed to read config")
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to parse config")
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("SHELF_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}

	if style := os.Getenv("SHELF_STYLE"); style != "" {
		c.Style = style
	}

	if level := os.Getenv("SHELF_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func (c *Config) Validate() error {
	if !oneOf(c.Style, validStyles) {
		return errors.Wrapf(ErrInvalid, "style %q (valid: %v)", c.Style, validStyles)
	}

	if !oneOf(c.Logging.Level, validLevels) {
		return errors.Wrapf(ErrInvalid, "log level %q (valid: %v)", c.Logging.Level, validLevels)
	}

	if c.DataDir == "" {
		return errors.Wrap(ErrInvalid, "data_dir must not be empty")
	}

	return nil
}

// Path resolves a configured file name against DataDir.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(c.DataDir, name)
}

// StoreOptions builds the store settings shared by every command.
func (c *Config) StoreOptions(logger *zap.Logger) *shelf.Config {
	return &shelf.Config{
		Logger:             logger,
		TimeLayout:         c.Store.TimeLayout,
		MaxFileBytes:       c.Store.MaxFileBytes,
		SearchCacheBytes:   c.Store.SearchCacheBytes,
		DisableSearchCache: c.Store.DisableSearchCache,
	}
}

func oneOf(s string, valid []string) bool {
	for _, v := range valid {
		if s == v {
			return true
		}
	}
	return false
}
