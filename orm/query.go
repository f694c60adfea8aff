package orm

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr crowdvest.Iterator) ([]crowdvest.Model, error) {
	defer itr.Release()

	var res []crowdvest.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, crowdvest.Pair(key, value))
	}
}

func consumeIteratorKeys(itr crowdvest.Iterator) ([][]byte, error) {
	models, err := ConsumeIterator(itr)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(models))
	for i, m := range models {
		keys[i] = m.Key
	}
	return keys, nil
}

// queryPrefix returns all items whose key starts with given prefix.
func queryPrefix(db crowdvest.ReadOnlyKVStore, prefix []byte) ([]crowdvest.Model, error) {
	itr, err := db.Iterator(prefix, prefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRangeEnd returns the smallest key that is greater than all keys
// starting with given prefix. Nil means there is no upper bound.
func prefixRangeEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// RegisterQuery exposes the raw store under "/". Data is a full database
// key, or a key prefix in prefix mode.
func RegisterQuery(qr crowdvest.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db crowdvest.ReadOnlyKVStore, mod string, data []byte) ([]crowdvest.Model, error) {
	switch mod {
	case crowdvest.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []crowdvest.Model{crowdvest.Pair(data, value)}, nil
	case crowdvest.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
