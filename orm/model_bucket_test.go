package orm

import (
	"testing"

	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/store"
	"github.com/iov-one/crowdvest/weavetest/assert"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &Counter{})

	if _, err := b.Put(db, []byte("c1"), newCounter(1)); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}

	var c1 Counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}
	assert.Nil(t, b.Has(db, []byte("c1")))

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
	if err := b.Has(db, []byte("c1")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model has: %s", err)
	}
	if err := b.Has(db, nil); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an empty key has: %s", err)
	}
}

func TestModelBucketPutSequence(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &Counter{}, WithIDSequence(NewSequence("cnts", "id")))

	k1, err := b.Put(db, nil, newCounter(1))
	assert.Nil(t, err)
	k2, err := b.Put(db, nil, newCounter(2))
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(1), k1)
	assert.Equal(t, EncodeSequence(2), k2)

	// Explicit keys do not consume the sequence.
	_, err = b.Put(db, []byte("explicit"), newCounter(3))
	assert.Nil(t, err)
	k3, err := b.Put(db, nil, newCounter(4))
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(3), k3)

	var c Counter
	assert.Nil(t, b.One(db, k2, &c))
	assert.Equal(t, int64(2), c.Count)

	noSeq := NewModelBucket("other", &Counter{})
	_, err = noSeq.Put(db, nil, newCounter(1))
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestModelBucketPutInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	_, err := b.Put(db, []byte("a"), &Counter{Metadata: newCounter(0).Metadata, Count: -1})
	assert.IsErr(t, errors.ErrModel, err)

	_, err = b.Put(db, []byte("a"), &Counter{Count: 1})
	assert.IsErr(t, errors.ErrMetadata, err)

	_, err = b.Put(db, []byte("a"), &otherModel{})
	assert.IsErr(t, errors.ErrType, err)

	var dest otherModel
	_, err = b.Put(db, []byte("a"), newCounter(1))
	assert.Nil(t, err)
	err = b.One(db, []byte("a"), &dest)
	assert.IsErr(t, errors.ErrType, err)
}

func TestModelBucketByIndex(t *testing.T) {
	cases := map[string]struct {
		IndexName string
		QueryKey  string
		Dest      ModelSlicePtr
		WantErr   *errors.Error
		WantRes   interface{}
		WantKeys  [][]byte
	}{
		"find none": {
			IndexName: "value",
			QueryKey:  "124089710947120",
			Dest:      &[]Counter{},
			WantRes:   &[]Counter{},
		},
		"find one": {
			IndexName: "value",
			QueryKey:  "1111",
			Dest:      &[]Counter{},
			WantRes:   &[]Counter{*newCounter(1111)},
			WantKeys:  [][]byte{[]byte("a")},
		},
		"find two into pointer slice": {
			IndexName: "value",
			QueryKey:  "4444",
			Dest:      &[]*Counter{},
			WantRes:   &[]*Counter{newCounter(4444), newCounter(4444)},
			WantKeys:  [][]byte{[]byte("b"), []byte("c")},
		},
		"find two with non empty destination": {
			IndexName: "value",
			QueryKey:  "4444",
			Dest:      &[]Counter{*newCounter(7)},
			// Destination is always appended to.
			WantRes:  &[]Counter{*newCounter(7), *newCounter(4444), *newCounter(4444)},
			WantKeys: [][]byte{[]byte("b"), []byte("c")},
		},
		"non existing index name": {
			IndexName: "xyz",
			QueryKey:  "4444",
			Dest:      &[]Counter{},
			WantErr:   errors.ErrInput,
		},
		"destination is not a pointer": {
			IndexName: "value",
			QueryKey:  "4444",
			Dest:      []Counter{},
			WantErr:   errors.ErrType,
		},
		"destination of a wrong type": {
			IndexName: "value",
			QueryKey:  "4444",
			Dest:      &[]otherModel{},
			WantErr:   errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			b := NewModelBucket("cnts", &Counter{}, WithIndex("value", counterValueIndexer))
			for key, count := range map[string]int64{"a": 1111, "b": 4444, "c": 4444, "d": 5} {
				_, err := b.Put(db, []byte(key), newCounter(count))
				assert.Nil(t, err)
			}

			keys, err := b.ByIndex(db, tc.IndexName, []byte(tc.QueryKey), tc.Dest)
			if tc.WantErr != nil {
				assert.IsErr(t, tc.WantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.WantKeys, keys)
			assert.Equal(t, tc.WantRes, tc.Dest)
		})
	}
}

// otherModel is a valid model that cannot be stored in a counter bucket.
type otherModel struct {
	Counter
}

func (m *otherModel) Validate() error { return nil }
