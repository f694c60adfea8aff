package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/crowdvest/errors"
)

// ascendBtree returns a snapshot of all cached items within [start, end)
// in ascending order.
func ascendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return items
}

// descendBtree returns a snapshot of all cached items within [start, end)
// in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		key := item.(entry).key
		if end != nil && bytes.Compare(key, end) >= 0 {
			// end is exclusive
			return true
		}
		if start != nil && bytes.Compare(key, start) < 0 {
			return false
		}
		items = append(items, item)
		return true
	}

	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(entry{key: end}, collect)
	}
	return items
}

// cacheIter merges the cached btree items with the iterator of the backing
// store. Cached values shadow the parent ones and deleted items hide them.
type cacheIter struct {
	items     []btree.Item
	pos       int
	ascending bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentHas  bool
	parentDone bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(items []btree.Item, parent Iterator, ascending bool) *cacheIter {
	return &cacheIter{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
}

// peekParent makes sure the next parent item, if any, is loaded.
func (i *cacheIter) peekParent() error {
	if i.parentHas || i.parentDone {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
		return nil
	case err != nil:
		return err
	}
	i.parentKey, i.parentVal, i.parentHas = key, value, true
	return nil
}

func (i *cacheIter) Next() (key, value []byte, err error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}
		hasItem := i.pos < len(i.items)

		if !hasItem {
			if !i.parentHas {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
			}
			i.parentHas = false
			return i.parentKey, i.parentVal, nil
		}

		item := i.items[i.pos]
		if i.parentHas {
			cmp := bytes.Compare(item.(entry).key, i.parentKey)
			if !i.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				i.parentHas = false
				return i.parentKey, i.parentVal, nil
			}
			if cmp == 0 {
				// cached value shadows the parent one
				i.parentHas = false
			}
		}

		i.pos++
		e := item.(entry)
		if e.deleted {
			continue
		}
		return e.key, e.value, nil
	}
}

func (i *cacheIter) Release() {
	i.parent.Release()
	i.items = nil
}
