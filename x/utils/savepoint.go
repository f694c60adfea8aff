package utils

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// Savepoint runs the rest of the stack on a cache of the store and writes
// the cache only when the call succeeds. A failed investment or payout
// therefore never leaves a partial balance change behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ crowdvest.Decorator = Savepoint{}

// NewSavepoint is inactive until OnCheck or OnDeliver is called.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Checker) (*crowdvest.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	var res *crowdvest.CheckResult
	err := isolated(db, func(db crowdvest.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Deliverer) (*crowdvest.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, db, tx)
	}
	var res *crowdvest.DeliverResult
	err := isolated(db, func(db crowdvest.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolated runs fn directly on a store that cannot be cache wrapped.
func isolated(db crowdvest.KVStore, fn func(crowdvest.KVStore) error) error {
	cacheable, ok := db.(crowdvest.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "write savepoint")
}
