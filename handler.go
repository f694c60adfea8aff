package crowdvest

import (
	"encoding/json"

	"github.com/iov-one/crowdvest/errors"
)

// Handler executes one kind of message, for example reward distribution.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction for the mempool. It must not rely on
// state that can change before the block is built.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer applies a transaction to the block state.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around every handler and passes the call on to next,
// possibly with a changed context or store.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message paths to handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state, one JSON document per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the document stored under key into obj. A missing
// key leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs initializers in order and stops at the first
// failure.
type ChainInitializers []Initializer

var _ Initializer = ChainInitializers{}

func NewChainInitializers(inits ...Initializer) ChainInitializers {
	return inits
}

func (c ChainInitializers) FromGenesis(opts Options, db KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
