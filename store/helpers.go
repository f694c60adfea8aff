package store

import (
	"github.com/iov-one/crowdvest/errors"
)

// SliceIterator iterates over records that are already in memory, such as
// the result of an ABCI query.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if len(s.models) == 0 {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models = nil
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer of
// MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set([]byte, []byte) error   { return nil }
func (EmptyKVStore) Delete([]byte) error        { return nil }
func (e EmptyKVStore) NewBatch() Batch          { return NewNonAtomicBatch(e) }
func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// NonAtomicBatch replays the recorded writes one by one on Write. A failure
// halfway leaves the earlier writes applied, so it must only sit on top of
// in memory stores.
type NonAtomicBatch struct {
	out    SetDeleter
	writes []write
}

type write struct {
	key, value []byte
	del        bool
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.writes = append(b.writes, write{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.writes = append(b.writes, write{key: key, del: true})
	return nil
}

func (b *NonAtomicBatch) Write() error {
	for _, w := range b.writes {
		var err error
		if w.del {
			err = b.out.Delete(w.key)
		} else {
			err = b.out.Set(w.key, w.value)
		}
		if err != nil {
			return err
		}
	}
	b.writes = nil
	return nil
}
