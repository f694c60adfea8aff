package orm

import (
	"reflect"

	"github.com/iov-one/crowdvest/errors"
)

// SimpleObj is the Object used by every bucket of the ledger: a key next to
// a protobuf model.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj accepts a nil key for records whose id is assigned on save.
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte  { return o.key }
func (o SimpleObj) Value() Model { return o.value }

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "missing value")
	}
	return o.value.Validate()
}

// Clone returns an object with the same key and a zero model of the same
// type, ready to be unmarshaled into.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) > 0 {
		key = append(key, o.key...)
	}
	return &SimpleObj{key: key, value: model}
}
