package jsonstorage

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/denismitr/shelf/internal/storage"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

const DefaultIndent = "    "

// DefaultMaxBytes caps the backing document; the whole file is held in memory.
const DefaultMaxBytes int64 = 64 << 20

var (
	ErrMalformed = errors.New("malformed json document")
	ErrTooLarge  = errors.New("json document is too large")
)

// Item is one top level member of the backing document.
type Item struct {
	Key   string
	Value []byte
}

// Storage persists an ordered set of items as a single JSON object
// whose keys are record ids.
type Storage struct {
	fullPath string
	tmpPath  string
	indent   string
	maxBytes int64

	mu sync.RWMutex
}

func New(fullPath, indent string) *Storage {
	if indent == "" {
		indent = DefaultIndent
	}

	return &Storage{
		fullPath: fullPath,
		tmpPath:  fullPath + ".tmp",
		indent:   indent,
		maxBytes: DefaultMaxBytes,
	}
}

// SetMaxBytes changes the largest document Read accepts.
func (s *Storage) SetMaxBytes(n int64) *Storage {
	s.maxBytes = n
	return s
}

func (s *Storage) Path() string {
	return s.fullPath
}

func (s *Storage) Exists() bool {
	return storage.FileExists(s.fullPath)
}

// Read returns the members of the backing document in file order.
func (s *Storage) Read() ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, fClose, err := storage.OpenFile(s.fullPath)
	if err != nil {
		return nil, err
	}

	defer fClose()

	data, err := readCapped(f, s.maxBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", s.fullPath)
	}

	return Decode(data)
}

// Decode splits a JSON object into its members, keeping their order.
func Decode(data []byte) ([]Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrapf(ErrMalformed, "invalid json of %d bytes", len(data))
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.Wrapf(ErrMalformed, "root must be an object, got %s", root.Type.String())
	}

	items := make([]Item, 0)
	root.ForEach(func(k, v gjson.Result) bool {
		items = append(items, Item{Key: k.String(), Value: []byte(v.Raw)})
		return true
	})

	return items, nil
}

// Encode renders items as an indented JSON object.
func Encode(items []Item, indent string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range items {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(items[i].Key)
		if err != nil {
			return nil, errors.Wrapf(err, "could not marshal key %s", items[i].Key)
		}

		if !json.Valid(items[i].Value) {
			return nil, errors.Wrapf(ErrMalformed, "value under key %s", items[i].Key)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(items[i].Value)
	}
	buf.WriteByte('}')

	return pretty.PrettyOptions(buf.Bytes(), &pretty.Options{
		Width:  80,
		Indent: indent,
	}), nil
}

// Write replaces the backing file with items. The document is written
// to a temp file first and renamed over the original.
func (s *Storage) Write(items []Item) error {
	b, err := Encode(items, s.indent)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmpF, tmpClose, err := storage.CreateFileUnderLock(s.tmpPath, storage.DefaultFilePerm)
	if err != nil {
		return err
	}

	if _, err := tmpF.Write(b); err != nil {
		_ = tmpClose()
		_ = os.Remove(s.tmpPath)
		return errors.Wrapf(err, "could not write to tmp file %s", s.tmpPath)
	}

	if err := tmpF.Sync(); err != nil {
		_ = tmpClose()
		_ = os.Remove(s.tmpPath)
		return errors.Wrapf(err, "could not sync tmp file %s", s.tmpPath)
	}

	if err := tmpClose(); err != nil {
		_ = os.Remove(s.tmpPath)
		return errors.Wrapf(err, "could not close tmp file %s", s.tmpPath)
	}

	if err := os.Rename(s.tmpPath, s.fullPath); err != nil {
		_ = os.Remove(s.tmpPath)
		if os.IsPermission(err) {
			return errors.Wrapf(storage.ErrPermissionDenied, "could not replace %s", s.fullPath)
		}
		return errors.Wrapf(err, "could not replace %s with %s", s.fullPath, s.tmpPath)
	}

	return nil
}

// readCapped reads f whole, refusing files above maxBytes. The size is
// checked up front and again while reading, since the file may grow.
func readCapped(f *os.File, maxBytes int64) ([]byte, error) {
	size, err := storage.FileSize(f)
	if err != nil {
		return nil, err
	}

	if size > maxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes, limit %d", size, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > maxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "more than %d bytes", maxBytes)
	}

	return data, nil
}
