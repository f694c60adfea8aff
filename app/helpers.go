package app

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is implemented by anything that answers abci queries: an
// application instance or a client connected to a remote node.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface of an application as a
// ReadOnlyKVStore. Any bucket can be used on top of it to read the
// committed ledger state the way a client would.
type ABCIStore struct {
	app Querier
}

var _ crowdvest.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "key query returned %d results", len(models))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}

// Iterator lists the whole store content. Only the full range is
// supported, because the abci query interface exposes prefix scans only.
func (a *ABCIStore) Iterator(start, end []byte) (crowdvest.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "iterator only implemented for entire range")
	}
	models, err := a.query("/?prefix", nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is the Iterator played backwards.
func (a *ABCIStore) ReverseIterator(start, end []byte) (crowdvest.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "iterator only implemented for entire range")
	}
	models, err := a.query("/?prefix", nil)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) query(path string, data []byte) ([]crowdvest.Model, error) {
	res := a.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if res.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query %s failed with code %d: %s", path, res.Code, res.Log)
	}
	return toModels(res.Key, res.Value)
}

func toModels(keys, values []byte) ([]crowdvest.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
