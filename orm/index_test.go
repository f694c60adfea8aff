package orm

import (
	"strconv"
	"testing"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/store"
	"github.com/iov-one/crowdvest/weavetest/assert"
)

// counterValueIndexer indexes counters by their decimal count value. Zero
// counters are not indexed.
func counterValueIndexer(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	if c.Count == 0 {
		return nil, nil
	}
	return []byte(strconv.FormatInt(c.Count, 10)), nil
}

func TestNativeIndexKeyPacking(t *testing.T) {
	cases := map[string]struct {
		chunks [][]byte
	}{
		"three chunks": {chunks: [][]byte{[]byte("aaa"), []byte(""), []byte("c")}},
		"single":       {chunks: [][]byte{[]byte("name")}},
		"binary":       {chunks: [][]byte{{0, 0xff, 3}, {0xfe}}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			key, err := packNativeIdxKey(tc.chunks)
			assert.Nil(t, err)
			got, err := unpackNativeIdxKey(key)
			assert.Nil(t, err)
			assert.Equal(t, len(tc.chunks), len(got))
			for i := range tc.chunks {
				assert.Equal(t, string(tc.chunks[i]), string(got[i]))
			}
		})
	}

	_, err := packNativeIdxKey([][]byte{make([]byte, 255)})
	assert.IsErr(t, errors.ErrInput, err)

	_, err = unpackNativeIdxKey([]byte("nope"))
	assert.IsErr(t, errors.ErrInput, err)

	_, err = unpackNativeIdxKey([]byte("_x.\x05ab"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestNativeIndexUpdate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("value", counterValueIndexer)

	save := func(key string, count int64) {
		t.Helper()
		assert.Nil(t, b.Save(db, NewSimpleObj([]byte(key), newCounter(count))))
	}
	indexed := func(value string) []string {
		t.Helper()
		objs, err := b.GetIndexed(db, "value", []byte(value))
		assert.Nil(t, err)
		keys := make([]string, len(objs))
		for i, o := range objs {
			keys[i] = string(o.Key())
		}
		return keys
	}

	save("c", 7)
	save("a", 7)
	save("b", 3)
	save("z", 0)

	// Results are ordered by the primary key.
	assert.Equal(t, []string{"a", "c"}, indexed("7"))
	assert.Equal(t, []string{"b"}, indexed("3"))
	assert.Equal(t, []string{}, indexed("0"))

	// Updating a value moves the index entry.
	save("c", 3)
	assert.Equal(t, []string{"a"}, indexed("7"))
	assert.Equal(t, []string{"b", "c"}, indexed("3"))

	assert.Nil(t, b.Delete(db, []byte("b")))
	assert.Equal(t, []string{"c"}, indexed("3"))

	// A value that is a prefix of another must not match it.
	save("long", 33)
	assert.Equal(t, []string{"c"}, indexed("3"))
	assert.Equal(t, []string{"long"}, indexed("33"))

	_, err := b.GetIndexed(db, "unknown", []byte("3"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestNativeIndexQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("value", counterValueIndexer)
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("one"), newCounter(4))))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("two"), newCounter(4))))

	idx, err := b.Index("value")
	assert.Nil(t, err)
	assert.Equal(t, "cnts_value", idx.Name())

	res, err := idx.Query(db, crowdvest.KeyQueryMod, []byte("4"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte("cnts:one"), res[0].Key)
	assert.Equal(t, []byte("cnts:two"), res[1].Key)

	var c Counter
	assert.Nil(t, c.Unmarshal(res[1].Value))
	assert.Equal(t, int64(4), c.Count)

	_, err = idx.Query(db, crowdvest.PrefixQueryMod, []byte("4"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestNativeIndexRejectsKeyChange(t *testing.T) {
	db := store.MemStore()
	ix := NewNativeIndex("cnts_value", counterValueIndexer, func(k []byte) []byte { return k })

	err := ix.Update(db, nil, nil)
	assert.IsErr(t, errors.ErrInput, err)

	prev := NewSimpleObj([]byte("a"), newCounter(1))
	next := NewSimpleObj([]byte("b"), newCounter(1))
	err = ix.Update(db, prev, next)
	assert.IsErr(t, errors.ErrState, err)
}
