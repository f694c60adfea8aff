package cash

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use crowdvest.Address, so address in hex, not base64
type GenesisAccount struct {
	Address crowdvest.Address `json:"address"`
	Balance uint64            `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ crowdvest.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts crowdvest.Options, kv crowdvest.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		switch err := bucket.Has(kv, acct.Address); {
		case err == nil:
			return errors.Wrapf(errors.ErrDuplicate, "account %s", acct.Address)
		case !errors.ErrNotFound.Is(err):
			return err
		}
		if _, err := bucket.Put(kv, acct.Address, NewWallet(acct.Balance)); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
