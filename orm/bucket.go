/*
Package orm stores typed records under prefixed sections of the key value
store called buckets.

A bucket holds a single record type keyed by a primary key and may keep
secondary indexes, such as investments by proposal. Buckets also answer
ABCI queries, either for an exact key or for every key under a prefix.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is the untyped storage of a record kind. Every key is stored under
// the "<name>:" prefix. Use ModelBucket for a type safe wrapper.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Object
	indexes map[string]Index
}

var _ crowdvest.QueryHandler = Bucket{}

// NewBucket panics on a malformed name since buckets are declared at
// startup.
func NewBucket(name string, proto Object) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Register exposes the bucket under "/<path>" and each index under
// "/<path>/<index>". An empty path defaults to the bucket name.
func (b Bucket) Register(path string, r crowdvest.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
	for name, idx := range b.indexes {
		r.Register("/"+path+"/"+name, idx)
	}
}

func (b Bucket) Query(db crowdvest.ReadOnlyKVStore, mod string, data []byte) ([]crowdvest.Model, error) {
	key := b.DBKey(data)
	switch mod {
	case crowdvest.KeyQueryMod:
		value, err := db.Get(key)
		if err != nil || value == nil {
			return nil, err
		}
		return []crowdvest.Model{crowdvest.Pair(key, value)}, nil
	case crowdvest.PrefixQueryMod:
		return queryPrefix(db, key)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mode %q", mod)
	}
}

// DBKey returns a fresh slice holding the prefixed key, so the result can
// be kept while the next key is built.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Get returns nil without an error when the key is missing.
func (b Bucket) Get(db crowdvest.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot decode %s entity: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates the object and refreshes every index before writing it.
func (b Bucket) Save(db crowdvest.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

func (b Bucket) Delete(db crowdvest.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves the index entries of key from the stored object to next. A
// nil next removes them.
func (b Bucket) reindex(db crowdvest.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// WithIndex returns a copy of the bucket with one more index. A duplicate
// name panics.
func (b Bucket) WithIndex(name string, indexer Indexer) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewNativeIndex(b.name+"_"+name, indexer, b.DBKey)
	b.indexes = indexes
	return b
}

func (b Bucket) Index(name string) (Index, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q", name)
	}
	return idx, nil
}

// GetIndexed loads every object the named index maps key to. A dangling
// reference is reported as a database error.
func (b Bucket) GetIndexed(db crowdvest.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, err := b.Index(name)
	if err != nil {
		return nil, err
	}
	refs, err := consumeIteratorKeys(idx.Keys(db, key))
	if err != nil {
		return nil, err
	}
	objs := make([]Object, 0, len(refs))
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "index %q points to a missing entity", name)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
