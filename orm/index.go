package orm

import (
	"bytes"
	"math"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// Index is a secondary lookup over the records of a bucket, for example
// investments by proposal.
type Index interface {
	Name() string
	// Update moves the index entry of a record. A nil prev is an insert and
	// a nil next is a delete. Both must share the same key.
	Update(db crowdvest.KVStore, prev, next Object) error
	// Keys iterates the primary keys of every record indexed under value.
	// Iterator values are always nil.
	Keys(db crowdvest.ReadOnlyKVStore, value []byte) crowdvest.Iterator
	Query(db crowdvest.ReadOnlyKVStore, mod string, data []byte) ([]crowdvest.Model, error)
}

// Indexer returns the index value of a record. A nil value leaves the
// record out of the index.
type Indexer func(Object) ([]byte, error)

// nativeIdxPrefix keeps index entries apart from bucket records, whose
// names never start with an underscore.
const nativeIdxPrefix = "_x."

// NewNativeIndex stores one empty valued key per indexed record:
//
//	_x.<len>name<len>value<len>id
//
// so a range scan over "_x.<len>name<len>value" lists the record ids in
// ascending order. dbKey maps a record id to its bucket key.
func NewNativeIndex(name string, indexer Indexer, dbKey func([]byte) []byte) Index {
	return &nativeIndex{name: name, indexer: indexer, dbKey: dbKey}
}

type nativeIndex struct {
	name    string
	indexer Indexer
	dbKey   func([]byte) []byte
}

func (ix *nativeIndex) Name() string {
	return ix.name
}

func (ix *nativeIndex) Update(db crowdvest.KVStore, prev, next Object) error {
	switch {
	case prev == nil && next == nil:
		return errors.Wrap(errors.ErrInput, "update requires at least one non-nil object")
	case prev != nil && next != nil && !bytes.Equal(prev.Key(), next.Key()):
		return errors.Wrap(errors.ErrState, "previous key is not the same as the new one")
	}
	if prev != nil {
		key, err := ix.entryKey(prev)
		if err != nil {
			return err
		}
		if key != nil {
			if err := db.Delete(key); err != nil {
				return errors.Wrap(err, "db delete")
			}
		}
	}
	if next != nil {
		key, err := ix.entryKey(next)
		if err != nil {
			return err
		}
		if key != nil {
			if err := db.Set(key, []byte{}); err != nil {
				return errors.Wrap(err, "db set")
			}
		}
	}
	return nil
}

// entryKey returns nil for a record the indexer skips.
func (ix *nativeIndex) entryKey(obj Object) ([]byte, error) {
	value, err := ix.indexer(obj)
	if err != nil {
		return nil, errors.Wrap(err, "indexer")
	}
	if value == nil {
		return nil, nil
	}
	key, err := packNativeIdxKey([][]byte{[]byte(ix.name), value, obj.Key()})
	return key, errors.Wrap(err, "build index key")
}

func (ix *nativeIndex) Keys(db crowdvest.ReadOnlyKVStore, value []byte) crowdvest.Iterator {
	start, err := packNativeIdxKey([][]byte{[]byte(ix.name), value})
	if err != nil {
		return failedIterator{errors.Wrap(err, "build index key")}
	}
	// No chunk is MaxUint8 long, so appending it bounds every id stored
	// under this value.
	end := append(append([]byte{}, start...), math.MaxUint8)
	it, err := db.Iterator(start, end)
	if err != nil {
		return failedIterator{err}
	}
	return idIterator{it}
}

// Query supports exact value lookups only and returns the full records.
func (ix *nativeIndex) Query(db crowdvest.ReadOnlyKVStore, mod string, data []byte) ([]crowdvest.Model, error) {
	if mod != crowdvest.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mode %q", mod)
	}
	ids, err := consumeIteratorKeys(ix.Keys(db, data))
	if err != nil {
		return nil, err
	}
	models := make([]crowdvest.Model, 0, len(ids))
	for _, id := range ids {
		key := ix.dbKey(id)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrapf(err, "load %X", id)
		}
		models = append(models, crowdvest.Pair(key, value))
	}
	return models, nil
}

// idIterator yields the record id, the last chunk of every index key.
type idIterator struct {
	crowdvest.Iterator
}

func (it idIterator) Next() ([]byte, []byte, error) {
	key, _, err := it.Iterator.Next()
	if err != nil {
		return nil, nil, err
	}
	chunks, err := unpackNativeIdxKey(key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unpack native index key")
	}
	return chunks[len(chunks)-1], nil, nil
}

type failedIterator struct {
	err error
}

func (it failedIterator) Next() ([]byte, []byte, error) { return nil, nil, it.err }
func (failedIterator) Release()                         {}

// packNativeIdxKey prefixes every chunk with its length as a single byte.
// MaxUint8 is reserved as the range scan bound.
func packNativeIdxKey(chunks [][]byte) ([]byte, error) {
	size := len(nativeIdxPrefix)
	for _, c := range chunks {
		if len(c) >= math.MaxUint8 {
			return nil, errors.Wrapf(errors.ErrInput, "no chunk can be bigger than %d bytes", math.MaxUint8-1)
		}
		size += 1 + len(c)
	}
	key := append(make([]byte, 0, size), nativeIdxPrefix...)
	for _, c := range chunks {
		key = append(append(key, byte(len(c))), c...)
	}
	return key, nil
}

func unpackNativeIdxKey(key []byte) ([][]byte, error) {
	rest := bytes.TrimPrefix(key, []byte(nativeIdxPrefix))
	if len(rest) == len(key) {
		return nil, errors.Wrap(errors.ErrInput, "not a native index key")
	}
	var chunks [][]byte
	for len(rest) > 0 {
		n := int(rest[0])
		if len(rest) < 1+n {
			return nil, errors.Wrap(errors.ErrInput, "malformed offset")
		}
		chunks = append(chunks, rest[1:1+n])
		rest = rest[1+n:]
	}
	if len(chunks) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty native index key")
	}
	return chunks, nil
}
