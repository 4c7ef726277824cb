package shelf

import (
	"encoding/json"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

const castPanic = "how could primary keys item not be of type *item"

type item[R Record] struct {
	key PK
	seq uint64
	rec R
}

func newItem[R Record](rec R, seq uint64) *item[R] {
	return &item[R]{key: newPK(rec.Key()), seq: seq, rec: rec}
}

func lookupItem[R Record](key string) *item[R] {
	return &item[R]{key: newPK(key)}
}

// clone hands out a deep copy so callers never alias store state.
func (it *item[R]) clone() R {
	var cp R
	if err := copier.CopyWithOption(&cp, &it.rec, copier.Option{DeepCopy: true}); err != nil {
		panic("could not copy record " + it.key.String() + ": " + err.Error())
	}

	return cp
}

func (it *item[R]) serialize() ([]byte, error) {
	b, err := json.Marshal(it.rec)
	if err != nil {
		return nil, errors.Wrapf(err, "could not marshal record %s", it.key.String())
	}

	return b, nil
}
