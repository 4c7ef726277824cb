package shelf

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// M is a partial update keyed by the JSON field names of a record.
type M map[string]interface{}

// applyTo returns a copy of rec with the fields of m replaced.
// Fields unknown to the record and values of the wrong type are rejected.
func applyTo[R Record](m M, rec R) (R, error) {
	var zero R

	b, err := json.Marshal(rec)
	if err != nil {
		return zero, errors.Wrapf(err, "could not marshal record %s", rec.Key())
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &fields); err != nil {
		return zero, errors.Wrapf(err, "record %s is not a json object", rec.Key())
	}

	for k, v := range m {
		if _, ok := fields[k]; !ok {
			return zero, errors.Wrapf(ErrInvalidInput, "unknown field %s", k)
		}

		fb, err := json.Marshal(v)
		if err != nil {
			return zero, errors.Wrapf(ErrInvalidInput, "field %s: %s", k, err.Error())
		}

		fields[k] = fb
	}

	b, err = json.Marshal(fields)
	if err != nil {
		return zero, errors.Wrapf(err, "could not marshal patched record %s", rec.Key())
	}

	var next R
	if err := json.Unmarshal(b, &next); err != nil {
		return zero, errors.Wrapf(ErrInvalidInput, "%s", err.Error())
	}

	if next.Key() != rec.Key() {
		return zero, errors.Wrapf(ErrInvalidInput, "id of %s can not be changed", rec.Key())
	}

	return next, nil
}

func (m M) String(k string) string {
	v, ok := m[k].(string)
	if !ok {
		return ""
	}
	return v
}

func (m M) HasString(k string) bool {
	_, ok := m[k].(string)
	return ok
}

func (m M) Int(k string) int {
	v, ok := m[k].(int)
	if !ok {
		return 0
	}
	return v
}

func (m M) HasInt(k string) bool {
	_, ok := m[k].(int)
	return ok
}

func (m M) Float(k string) float64 {
	v, ok := m[k].(float64)
	if !ok {
		return 0
	}
	return v
}

func (m M) HasFloat(k string) bool {
	_, ok := m[k].(float64)
	return ok
}

func (m M) Bool(k string) bool {
	v, ok := m[k].(bool)
	if !ok {
		return false
	}
	return v
}

func (m M) HasBool(k string) bool {
	_, ok := m[k].(bool)
	return ok
}
