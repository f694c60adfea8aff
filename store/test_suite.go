package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/weavetest/assert"
)

// TestSuite runs the same set of checks against any CacheableKVStore
// implementation. Only the constructor differs between the btree and the
// iavl backed stores.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite that creates a new store for every check.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet checks that writes are visible in the cache that made them and
// only reach the parent after Write.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("proposal"), []byte("pending")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("investment"), []byte("60")
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k2, v2, true)

	// discarded writes never reach the parent
	k3, v3 := []byte("vault"), []byte("101")
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	c3 := base.CacheWrap()
	assert.Nil(t, c3.Delete(k))
	assert.Nil(t, c3.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that a cache shadows the parent, both with new
// values and with deletions, and that Write applies both.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	parent, cleanup := s.makeBase()
	defer cleanup()

	owner, vault, escrow := []byte("owner"), []byte("vault"), []byte("escrow")
	assert.Nil(t, parent.Set(owner, []byte("alice")))
	assert.Nil(t, parent.Set(vault, []byte("100")))

	child := parent.CacheWrap()
	assert.Nil(t, child.Set(owner, []byte("bob")))
	assert.Nil(t, child.Set(escrow, []byte("40")))
	assert.Nil(t, child.Delete(vault))

	s.AssertGetHas(t, parent, owner, []byte("alice"), true)
	s.AssertGetHas(t, parent, vault, []byte("100"), true)
	s.AssertGetHas(t, parent, escrow, nil, false)

	shadowed := func(db ReadOnlyKVStore) {
		t.Helper()
		s.AssertGetHas(t, db, owner, []byte("bob"), true)
		s.AssertGetHas(t, db, vault, nil, false)
		s.AssertGetHas(t, db, escrow, []byte("40"), true)
	}
	shadowed(child)
	assert.Nil(t, child.Write())
	shadowed(parent)
}

// Iterator checks ranged iteration in both directions over data that is
// spread between the parent and a cache, with overwrites and deletes.
func (s *TestSuite) Iterator(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	parentData := randModels(20, 8, 16)
	childData := randModels(20, 8, 16)
	for _, m := range parentData {
		assert.Nil(t, base.Set(m.Key, m.Value))
	}
	child := base.CacheWrap()
	for _, m := range childData {
		assert.Nil(t, child.Set(m.Key, m.Value))
	}

	// overwrite two parent entries and delete two others
	over := Pair(parentData[0].Key, []byte("overwritten"))
	assert.Nil(t, child.Set(over.Key, over.Value))
	assert.Nil(t, child.Delete(parentData[1].Key))
	assert.Nil(t, child.Delete(parentData[2].Key))

	expected := []Model{over}
	expected = append(expected, parentData[3:]...)
	expected = append(expected, childData...)
	expected = sortModels(expected)

	queries := []rangeQuery{
		{nil, nil, false, expected},
		{expected[5].Key, nil, false, expected[5:]},
		{nil, expected[30].Key, false, expected[:30]},
		{expected[3].Key, expected[12].Key, false, expected[3:12]},
		{nil, nil, true, reverse(expected)},
		{expected[20].Key, nil, true, reverse(expected[20:])},
		{nil, expected[9].Key, true, reverse(expected[:9])},
		{expected[4].Key, expected[17].Key, true, reverse(expected[4:17])},
	}
	for _, q := range queries {
		q.verify(t, child)
	}
}

// AssertGetHas checks both Get and Has results for given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// rangeQuery checks the results of iteration
type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func (q rangeQuery) verify(t testing.TB, kv ReadOnlyKVStore) {
	t.Helper()
	var (
		iter Iterator
		err  error
	)
	if q.reverse {
		iter, err = kv.ReverseIterator(q.start, q.end)
	} else {
		iter, err = kv.Iterator(q.start, q.end)
	}
	assert.Nil(t, err)
	defer iter.Release()

	for i, want := range q.expected {
		key, value, err := iter.Next()
		assert.Nil(t, err)
		if !bytes.Equal(want.Key, key) {
			t.Fatalf("want key %X at %d, got %X", want.Key, i, key)
		}
		assert.Equal(t, want.Value, value)
	}
	if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %+v", err)
	}
}

// randModels returns count records with random keys and values.
func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(make([]byte, keySize), make([]byte, valueSize))
		if _, err := rand.Read(models[i].Key); err != nil {
			panic(err)
		}
		if _, err := rand.Read(models[i].Value); err != nil {
			panic(err)
		}
	}
	return models
}

func reverse(models []Model) []Model {
	out := make([]Model, 0, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		out = append(out, models[i])
	}
	return out
}

func sortModels(models []Model) []Model {
	out := append([]Model(nil), models...)
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].Key, out[j].Key) < 0 })
	return out
}
