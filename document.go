package shelf

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var ErrJsonCouldNotBeUnmarshalled = errors.New("json contents could not be unmarshalled, probably is invalid")
var ErrJsonPathInvalid = errors.New("json path is invalid")

// Document is the raw JSON of one record as found in the backing file.
// Getters tolerate missing fields so older files keep loading.
type Document struct {
	key   string
	value []byte
}

func newDocument(key string, value []byte) *Document {
	return &Document{key: key, value: value}
}

func (d *Document) Key() string {
	return d.key
}

func (d *Document) Value() []byte {
	return d.value
}

func (d *Document) RawString() string {
	return string(d.value)
}

func (d *Document) Unmarshal(dest interface{}) error {
	if err := json.Unmarshal(d.value, dest); err != nil {
		return errors.Wrap(ErrJsonCouldNotBeUnmarshalled, err.Error())
	}

	return nil
}

func (d *Document) Has(path string) bool {
	return gjson.GetBytes(d.value, path).Exists()
}

func (d *Document) String(path string) (string, error) {
	raw := gjson.GetBytes(d.value, path)
	if !raw.Exists() || (raw.Type != gjson.String && raw.Type != gjson.Number) {
		return "", errors.Wrapf(ErrJsonPathInvalid, "%s", path)
	}
	return raw.String(), nil
}

func (d *Document) StringOrDefault(path, def string) string {
	if v, err := d.String(path); err != nil {
		return def
	} else {
		return v
	}
}

func (d *Document) Float(path string) (float64, error) {
	get := gjson.GetBytes(d.value, path)
	if !get.Exists() || get.Type != gjson.Number {
		return 0, errors.Wrapf(ErrJsonPathInvalid, "%s", path)
	}
	return get.Float(), nil
}

func (d *Document) FloatOrDefault(path string, def float64) float64 {
	if v, err := d.Float(path); err != nil {
		return def
	} else {
		return v
	}
}

func (d *Document) Int(path string) (int, error) {
	get := gjson.GetBytes(d.value, path)
	if !get.Exists() || get.Type != gjson.Number {
		return 0, errors.Wrapf(ErrJsonPathInvalid, "%s", path)
	}

	return int(get.Int()), nil
}

func (d *Document) IntOrDefault(path string, def int) int {
	if v, err := d.Int(path); err != nil {
		return def
	} else {
		return v
	}
}

func (d *Document) Bool(path string) (bool, error) {
	get := gjson.GetBytes(d.value, path)
	if !get.Exists() || (get.Type != gjson.True && get.Type != gjson.False) {
		return false, errors.Wrapf(ErrJsonPathInvalid, "%s", path)
	}

	return get.Bool(), nil
}

func (d *Document) BoolOrDefault(path string, def bool) bool {
	if v, err := d.Bool(path); err != nil {
		return def
	} else {
		return v
	}
}

// FirstString returns the first of paths holding a string, e.g. a current
// field name followed by the names older files used.
func (d *Document) FirstString(def string, paths ...string) string {
	for _, p := range paths {
		if v, err := d.String(p); err == nil {
			return v
		}
	}
	return def
}

func (d *Document) FirstInt(def int, paths ...string) int {
	for _, p := range paths {
		if v, err := d.Int(p); err == nil {
			return v
		}
	}
	return def
}

func (d *Document) FirstFloat(def float64, paths ...string) float64 {
	for _, p := range paths {
		if v, err := d.Float(p); err == nil {
			return v
		}
	}
	return def
}

// Documents returns the objects of the array under path.
func (d *Document) Documents(path string) []*Document {
	get := gjson.GetBytes(d.value, path)
	if !get.IsArray() {
		return nil
	}

	var docs []*Document
	get.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			docs = append(docs, newDocument("", []byte(v.Raw)))
		}
		return true
	})

	return docs
}
